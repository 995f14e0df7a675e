package api

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentsHandlers_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/recents")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/recents", map[string]any{
		"workKey": "/works/OL1W",
		"title":   "Dune",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRecentsHandlers_AddAndList(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/recents", bearer(token), map[string]any{
		"workKey":     "/works/OL45883W",
		"title":       "Dune",
		"author":      "Frank Herbert",
		"publishYear": 1965,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/recents", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var body RecentsResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	require.Len(t, body.Recents, 1)
	assert.Equal(t, "/works/OL45883W", body.Recents[0].WorkKey)
	assert.Equal(t, "Dune", body.Recents[0].Title)
}

func TestRecentsHandlers_CapAndDedup(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice")

	keys := []string{"/works/OL1W", "/works/OL2W", "/works/OL3W", "/works/OL4W", "/works/OL5W", "/works/OL6W"}
	for _, key := range keys {
		resp := ts.api.Post("/api/v1/recents", bearer(token), map[string]any{
			"workKey": key,
			"title":   "Book " + key,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	// Re-select an older entry: it moves to the front, no duplicate.
	resp := ts.api.Post("/api/v1/recents", bearer(token), map[string]any{
		"workKey": "/works/OL4W",
		"title":   "Book /works/OL4W",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/recents", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var body RecentsResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	require.Len(t, body.Recents, 5)
	assert.Equal(t, "/works/OL4W", body.Recents[0].WorkKey)
}

func TestRecentsHandlers_ServeCover(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/recents", bearer(token), map[string]any{
		"workKey":       "/works/OL1W",
		"title":         "Dune",
		"coverImage":    base64.StdEncoding.EncodeToString([]byte("png-bytes")),
		"coverMimeType": "image/png",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/recents", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var body RecentsResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	require.Len(t, body.Recents, 1)
	require.NotNil(t, body.Recents[0].CoverURL)
	assert.Equal(t, "/api/v1/recents/"+body.Recents[0].ID+"/cover", *body.Recents[0].CoverURL)

	req := httptest.NewRequest(http.MethodGet, *body.Recents[0].CoverURL, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("png-bytes"), rec.Body.Bytes())
}

func TestRecentsHandlers_ServeCoverRequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recents/rcnt-1/cover", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
