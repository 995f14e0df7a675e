package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List library",
		Description: "Returns the caller's saved books, filtered and sorted",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Save book",
		Description: "Saves a book into the caller's library, enriching missing metadata from the catalog provider",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a saved book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates a saved book's review and rating",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the caller's library",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// ListBooksInput contains query parameters for listing the library.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Substring match on title or author"`
	Author        string `query:"author" doc:"Filter by author"`
	HasReview     bool   `query:"hasReview" doc:"Only books with a review"`
	Sort          string `query:"sort" doc:"Sort order as field:asc|desc (e.g. title:asc); direction defaults to desc"`
}

// BookListResponse contains a list of saved books.
type BookListResponse struct {
	Books []*dto.BookResponse `json:"books" doc:"Saved books"`
}

// BookListOutput wraps the book list response for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// CreateBookRequest is the request body for saving a book.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required" doc:"Book title"`
	Author      string `json:"author,omitempty" validate:"omitempty,max=512" doc:"Author name"`
	PublishYear *int   `json:"publishYear,omitempty" doc:"First publish year"`
	WorkKey     string `json:"workKey,omitempty" doc:"Provider work identifier"`
	CoverID     *int64 `json:"coverId,omitempty" doc:"Provider cover identifier"`
	CoverImage  []byte `json:"coverImage,omitempty" doc:"Cover bytes (base64)"`
	Review      string `json:"review,omitempty" validate:"omitempty,max=5000" doc:"Personal review"`
	Rating      *int   `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5" doc:"Personal rating (1-5)"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body dto.BookResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for updating a book.
type UpdateBookRequest struct {
	Review *string `json:"review,omitempty" validate:"omitempty,max=5000" doc:"Personal review"`
	Rating *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5" doc:"Personal rating (1-5)"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	username := s.optionalUsername(input.Authorization)

	books, err := s.services.Library.List(ctx, username, service.ListBooksParams{
		Query:     input.Query,
		Author:    input.Author,
		HasReview: input.HasReview,
		Sort:      input.Sort,
	})
	if err != nil {
		return nil, err
	}

	return &BookListOutput{Body: BookListResponse{
		Books: s.services.Library.Project(books),
	}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	username, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Library.Create(ctx, username, &service.CreateBookRequest{
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		PublishYear: input.Body.PublishYear,
		WorkKey:     input.Body.WorkKey,
		CoverID:     input.Body.CoverID,
		CoverImage:  input.Body.CoverImage,
		Review:      input.Body.Review,
		Rating:      input.Body.Rating,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: *s.services.Library.ProjectOne(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	username := s.optionalUsername(input.Authorization)

	book, err := s.services.Library.Get(ctx, username, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: *s.services.Library.ProjectOne(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	username := s.optionalUsername(input.Authorization)

	book, err := s.services.Library.Update(ctx, username, input.ID, &service.UpdateBookRequest{
		Review: input.Body.Review,
		Rating: input.Body.Rating,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: *s.services.Library.ProjectOne(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	username := s.optionalUsername(input.Authorization)

	if err := s.services.Library.Delete(ctx, username, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

// handleServeBookCover streams cover bytes for a saved book. Responds 404
// only when the record itself is missing; a record without a stored cover
// degrades through the provider fetch to the placeholder pixel.
func (s *Server) handleServeBookCover(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	data, mime, err := s.services.Library.ResolveCover(r.Context(), bookID)
	if err != nil {
		s.writeCoverError(w, err)
		return
	}

	s.writeCover(w, data, mime)
}

// writeCover writes raw image bytes with caching headers.
func (s *Server) writeCover(w http.ResponseWriter, data []byte, mime string) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("cover write failed", "error", err)
	}
}

// writeCoverError maps a cover resolution failure onto a plain status code.
func (s *Server) writeCoverError(w http.ResponseWriter, err error) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		http.Error(w, domainErr.Message, domainErr.HTTPStatus())
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
