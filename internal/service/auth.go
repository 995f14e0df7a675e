package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/auth"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// AuthService handles user registration, login and token verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	s *store.Store,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        s,
		tokenService: tokenService,
		validator:    validator,
		logger:       logger,
	}
}

// RegisterRequest contains new account data.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult contains the authenticated user and their access token.
type LoginResult struct {
	User        *domain.User
	AccessToken string
}

// Register creates a new account. Usernames are unique case-insensitively.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Internal("hash password").WithCause(err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, domainerrors.Internal("generate user ID").WithCause(err)
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown usernames
// and wrong passwords produce the same INVALID_CREDENTIALS error.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, domainerrors.Internal("verify password").WithCause(err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, domainerrors.Internal("generate access token").WithCause(err)
	}

	s.logger.Info("user logged in", "username", user.Username)
	return &LoginResult{User: user, AccessToken: token}, nil
}

// AccessTokenDuration returns the configured token lifetime.
func (s *AuthService) AccessTokenDuration() time.Duration {
	return s.tokenService.AccessTokenDuration()
}

// VerifyAccessToken validates a bearer token and returns its claims.
func (s *AuthService) VerifyAccessToken(tokenString string) (*auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}
	return claims, nil
}

// WhoAmI loads the account behind a verified token subject.
func (s *AuthService) WhoAmI(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}
