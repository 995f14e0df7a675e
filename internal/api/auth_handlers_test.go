package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandlers_RegisterAndMe(t *testing.T) {
	ts := setupTestServer(t)

	token := ts.registerUser(t, "alice")

	resp := ts.api.Get("/api/v1/auth/me", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	decodeBody(t, resp.Body.Bytes(), &user)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestAuthHandlers_MeRequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/auth/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/auth/me", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthHandlers_Login(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "a long enough password",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body AuthResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, "alice", body.User.Username)

	claims, err := ts.tokenService.VerifyAccessToken(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthHandlers_LoginInvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "the wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var body APIError
	decodeBody(t, resp.Body.Bytes(), &body)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Code)
}

func TestAuthHandlers_RegisterDuplicate(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "Alice",
		"password": "another fine password",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var body APIError
	decodeBody(t, resp.Body.Bytes(), &body)
	assert.Equal(t, "CONFLICT", body.Code)
}

func TestAuthHandlers_RegisterValidation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "not a name",
		"password": "a long enough password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "alice",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAuthHandlers_Logout(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/auth/logout", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success bool `json:"success"`
	}
	decodeBody(t, resp.Body.Bytes(), &body)
	assert.True(t, body.Success)

	// Tokens are stateless, so the token keeps working until expiry.
	resp = ts.api.Get("/api/v1/auth/me", bearer(token))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAuthHandlers_LogoutRequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/logout")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
