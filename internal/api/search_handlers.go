package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Searches the catalog provider and merges results with the caller's saved books",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "home",
		Method:      http.MethodGet,
		Path:        "/api/v1/home",
		Summary:     "Home view",
		Description: "Replays the caller's most recent search without recording it",
		Tags:        []string{"Search"},
	}, s.handleHome)

	huma.Register(s.api, huma.Operation{
		OperationID: "lastSearches",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/recent",
		Summary:     "Recent searches",
		Description: "Returns the caller's recent search terms, newest first",
		Tags:        []string{"Search"},
	}, s.handleLastSearches)
}

// === DTOs ===

// SearchInput contains search query parameters.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" required:"true" minLength:"1" doc:"Search term"`
}

// SearchResponse contains merged search results.
type SearchResponse struct {
	Results []*dto.SearchResult `json:"results" doc:"Search results in provider order"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// HomeInput contains parameters for the home view.
type HomeInput struct {
	Authorization string `header:"Authorization"`
}

// LastSearchesInput contains parameters for listing recent searches.
type LastSearchesInput struct {
	Authorization string `header:"Authorization"`
}

// LastSearchesResponse contains recent search terms.
type LastSearchesResponse struct {
	Searches []*dto.RecentSearchResponse `json:"searches" doc:"Recent searches, newest first"`
}

// LastSearchesOutput wraps the recent searches response for Huma.
type LastSearchesOutput struct {
	Body LastSearchesResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	username := s.optionalUsername(input.Authorization)

	results, err := s.services.Search.Search(ctx, username, input.Query)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: SearchResponse{Results: results}}, nil
}

func (s *Server) handleHome(ctx context.Context, input *HomeInput) (*SearchOutput, error) {
	username := s.optionalUsername(input.Authorization)

	results, err := s.services.Search.Home(ctx, username)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: SearchResponse{Results: results}}, nil
}

func (s *Server) handleLastSearches(ctx context.Context, input *LastSearchesInput) (*LastSearchesOutput, error) {
	username := s.optionalUsername(input.Authorization)

	searches, err := s.services.Search.LastSearches(ctx, username)
	if err != nil {
		return nil, err
	}

	return &LastSearchesOutput{Body: LastSearchesResponse{Searches: searches}}, nil
}
