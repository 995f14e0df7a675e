package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
)

func setupSearchResults(ts *testServer) {
	ts.provider.searchFn = func(_ context.Context, term string, _ int) ([]openlibrary.SearchDoc, error) {
		return []openlibrary.SearchDoc{
			{
				WorkKey: "/works/OL45883W",
				Title:   "Dune",
				Author:  "Frank Herbert",
				CoverID: int64Ptr(14627509),
			},
			{
				WorkKey: "/works/OL893415W",
				Title:   "Dune Messiah",
				Author:  "Frank Herbert",
			},
		}, nil
	}
}

func int64Ptr(n int64) *int64 { return &n }

func TestSearchHandlers_Search(t *testing.T) {
	ts := setupTestServer(t)
	setupSearchResults(ts)

	resp := ts.api.Get("/api/v1/search?q=dune")
	require.Equal(t, http.StatusOK, resp.Code)

	var body SearchResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "/works/OL45883W", body.Results[0].ID)
	assert.False(t, body.Results[0].Saved)
	require.NotNil(t, body.Results[0].CoverURL)
	assert.Contains(t, *body.Results[0].CoverURL, "14627509")
}

func TestSearchHandlers_SearchRequiresQuery(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSearchHandlers_SearchMergesSaved(t *testing.T) {
	ts := setupTestServer(t)
	setupSearchResults(ts)
	token := ts.registerUser(t, "alice")

	resp := ts.api.Post("/api/v1/books", bearer(token), map[string]any{
		"title":       "Dune",
		"workKey":     "/works/OL45883W",
		"publishYear": 1965,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var created dto.BookResponse
	decodeBody(t, resp.Body.Bytes(), &created)

	resp = ts.api.Get("/api/v1/search?q=dune", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var body SearchResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	require.Len(t, body.Results, 2)
	assert.True(t, body.Results[0].Saved)
	require.NotNil(t, body.Results[0].SavedID)
	assert.Equal(t, created.ID, *body.Results[0].SavedID)
	assert.False(t, body.Results[1].Saved)
}

func TestSearchHandlers_HomeAndHistory(t *testing.T) {
	ts := setupTestServer(t)
	setupSearchResults(ts)
	token := ts.registerUser(t, "alice")

	// No history yet: home is empty.
	resp := ts.api.Get("/api/v1/home", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var body SearchResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	assert.Empty(t, body.Results)

	resp = ts.api.Get("/api/v1/search?q=dune", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	// Home replays the last search.
	resp = ts.api.Get("/api/v1/home", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	decodeBody(t, resp.Body.Bytes(), &body)
	assert.Len(t, body.Results, 2)

	// The replay did not grow the history.
	resp = ts.api.Get("/api/v1/search/recent", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var history LastSearchesResponse
	decodeBody(t, resp.Body.Bytes(), &history)
	require.Len(t, history.Searches, 1)
	assert.Equal(t, "dune", history.Searches[0].Term)
}
