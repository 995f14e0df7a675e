package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account and returns an access token",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns an access token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "User logout",
		Description: "Acknowledges logout; access tokens are stateless and expire on their own",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)
}

// === DTOs ===

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=32" doc:"Unique username (letters and numbers)"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"Account password"`
}

// RegisterInput wraps the register request with headers for Huma.
type RegisterInput struct {
	Body          RegisterRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required" doc:"Username"`
	Password string `json:"password" validate:"required" doc:"Account password"`
}

// LoginInput wraps the login request with headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// UserResponse contains user information in auth responses.
type UserResponse struct {
	Username  string    `json:"username" doc:"Username"`
	CreatedAt time.Time `json:"created_at" doc:"Account creation time"`
}

// AuthResponse contains the access token and user info.
type AuthResponse struct {
	AccessToken string       `json:"access_token" doc:"PASETO access token"`
	TokenType   string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn   int          `json:"expires_in" doc:"Token expiry in seconds"`
	User        UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetCurrentUserInput contains parameters for the current-user endpoint.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// LogoutInput contains parameters for the logout endpoint.
type LogoutInput struct {
	Authorization string `header:"Authorization"`
}

// LogoutOutput wraps the logout acknowledgement for Huma.
type LogoutOutput struct {
	Body struct {
		Success bool `json:"success" doc:"Whether logout was acknowledged"`
	}
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	if !s.authRateLimiter.Allow(clientKey(input.XForwardedFor, input.XRealIP)) {
		return nil, huma.Error429TooManyRequests("Too many requests. Please try again later.")
	}

	user, err := s.services.Auth.Register(ctx, &service.RegisterRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.services.Auth.Login(ctx, &service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.services.Auth.AccessTokenDuration().Seconds()),
		User: UserResponse{
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
		},
	}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	if !s.authRateLimiter.Allow(clientKey(input.XForwardedFor, input.XRealIP)) {
		return nil, huma.Error429TooManyRequests("Too many requests. Please try again later.")
	}

	result, err := s.services.Auth.Login(ctx, &service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.services.Auth.AccessTokenDuration().Seconds()),
		User: UserResponse{
			Username:  result.User.Username,
			CreatedAt: result.User.CreatedAt,
		},
	}}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error) {
	// Tokens are stateless PASETO; there is no server-side session to
	// revoke. The endpoint exists so clients have a uniform flow.
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	out := &LogoutOutput{}
	out.Body.Success = true
	return out, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	username, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: UserResponse{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}}, nil
}
