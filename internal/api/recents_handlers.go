package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

func (s *Server) registerRecentsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecents",
		Method:      http.MethodGet,
		Path:        "/api/v1/recents",
		Summary:     "List recent selections",
		Description: "Returns the caller's recently selected books, newest first",
		Tags:        []string{"Recents"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecents)

	huma.Register(s.api, huma.Operation{
		OperationID: "addRecent",
		Method:      http.MethodPost,
		Path:        "/api/v1/recents",
		Summary:     "Record selection",
		Description: "Records a book selection into the caller's bounded recents list",
		Tags:        []string{"Recents"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddRecent)
}

// === DTOs ===

// ListRecentsInput contains parameters for listing recent selections.
type ListRecentsInput struct {
	Authorization string `header:"Authorization"`
}

// RecentsResponse contains recent selections.
type RecentsResponse struct {
	Recents []*dto.RecentBookResponse `json:"recents" doc:"Recent selections, newest first"`
}

// RecentsOutput wraps the recents response for Huma.
type RecentsOutput struct {
	Body RecentsResponse
}

// AddRecentRequest is the request body for recording a selection.
type AddRecentRequest struct {
	WorkKey     string `json:"workKey" validate:"required" doc:"Provider work identifier"`
	Title       string `json:"title" validate:"required" doc:"Book title"`
	Author      string `json:"author,omitempty" doc:"Author name"`
	PublishYear *int   `json:"publishYear,omitempty" doc:"First publish year"`
	CoverID     *int64 `json:"coverId,omitempty" doc:"Provider cover identifier"`
	CoverImage  []byte `json:"coverImage,omitempty" doc:"Cover bytes (base64)"`
	CoverMime   string `json:"coverMimeType,omitempty" doc:"Cover content type"`
}

// AddRecentInput wraps the add-recent request for Huma.
type AddRecentInput struct {
	Authorization string `header:"Authorization"`
	Body          AddRecentRequest
}

// === Handlers ===

func (s *Server) handleListRecents(ctx context.Context, input *ListRecentsInput) (*RecentsOutput, error) {
	username, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Recents.List(ctx, username)
	if err != nil {
		return nil, err
	}

	return &RecentsOutput{Body: RecentsResponse{
		Recents: s.services.Recents.Project(entries),
	}}, nil
}

func (s *Server) handleAddRecent(ctx context.Context, input *AddRecentInput) (*MessageOutput, error) {
	username, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	err = s.services.Recents.Add(ctx, username, &service.AddRecentRequest{
		WorkKey:     input.Body.WorkKey,
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		PublishYear: input.Body.PublishYear,
		CoverID:     input.Body.CoverID,
		CoverImage:  input.Body.CoverImage,
		CoverMime:   input.Body.CoverMime,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Selection recorded"}}, nil
}

// handleServeRecentCover streams stored cover bytes for a recent selection.
func (s *Server) handleServeRecentCover(w http.ResponseWriter, r *http.Request) {
	username := getUsername(r.Context())
	if username == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	entryID := chi.URLParam(r, "id")

	data, mime, err := s.services.Recents.ResolveCover(r.Context(), username, entryID)
	if err != nil {
		s.writeCoverError(w, err)
		return
	}

	s.writeCover(w, data, mime)
}
