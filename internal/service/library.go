package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/media/images"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmarkapp/shelfmark-server/internal/sse"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// LibraryService is the ownership-scoped catalog over saved books,
// composing the year and cover resolvers.
type LibraryService struct {
	store     *store.Store
	years     *PublishYearResolver
	covers    *CoverResolver
	projector *dto.Projector
	emitter   store.EventEmitter
	validator *validation.Validator
	logger    *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	s *store.Store,
	years *PublishYearResolver,
	covers *CoverResolver,
	projector *dto.Projector,
	emitter store.EventEmitter,
	validator *validation.Validator,
	logger *slog.Logger,
) *LibraryService {
	return &LibraryService{
		store:     s,
		years:     years,
		covers:    covers,
		projector: projector,
		emitter:   emitter,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest contains the fields accepted when saving a book.
// CoverImage arrives base64-encoded in JSON.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author,omitempty" validate:"omitempty,max=512"`
	PublishYear *int   `json:"publishYear,omitempty"`
	WorkKey     string `json:"workKey,omitempty"`
	CoverID     *int64 `json:"coverId,omitempty"`
	CoverImage  []byte `json:"coverImage,omitempty"`
	Review      string `json:"review,omitempty" validate:"omitempty,max=5000"`
	Rating      *int   `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// UpdateBookRequest contains the only fields mutable after creation.
type UpdateBookRequest struct {
	Review *string `json:"review,omitempty" validate:"omitempty,max=5000"`
	Rating *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// ListBooksParams narrows and orders a library listing.
type ListBooksParams struct {
	Query     string
	Author    string
	HasReview bool
	Sort      string
}

// Create saves a book into the caller's library. Requires an authenticated
// owner. Missing cover bytes and publish year are enriched eagerly from the
// provider; both fetches run concurrently and merge into a single insert.
// Enrichment failures never fail the save.
func (s *LibraryService) Create(ctx context.Context, username string, req *CreateBookRequest) (*domain.Book, error) {
	if username == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Username:    username,
		Title:       req.Title,
		Author:      req.Author,
		PublishYear: req.PublishYear,
		WorkKey:     req.WorkKey,
		CoverID:     req.CoverID,
		CoverImage:  req.CoverImage,
		Review:      req.Review,
		Rating:      req.Rating,
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, domainerrors.Internal("generate book ID").WithCause(err)
	}
	book.ID = bookID
	book.InitTimestamps()

	if len(book.CoverImage) > 0 && book.CoverBlurHash == "" {
		if hash, hashErr := images.ComputeBlurHash(book.CoverImage); hashErr == nil {
			book.CoverBlurHash = hash
		}
	}

	// Year and cover enrichment touch disjoint fields; run them
	// concurrently and merge into the one insert below.
	var (
		wg           sync.WaitGroup
		resolvedYear int
		fetchedCover *openlibrary.CoverImage
		fetchedHash  string
	)

	if book.PublishYear == nil && book.WorkKey != "" {
		wg.Go(func() {
			resolvedYear = s.years.Resolve(ctx, book)
		})
	}
	if !book.HasCoverImage() && book.CoverID != nil {
		coverID := *book.CoverID
		wg.Go(func() {
			fetchedCover, fetchedHash = s.covers.Fetch(ctx, coverID)
		})
	}
	wg.Wait()

	if resolvedYear != 0 {
		book.PublishYear = &resolvedYear
	}
	if fetchedCover != nil {
		book.CoverImage = fetchedCover.Bytes
		book.CoverMimeType = fetchedCover.MimeType
		book.CoverBlurHash = fetchedHash
	}

	if err := s.store.InsertBook(ctx, book); err != nil {
		return nil, err
	}

	s.emitter.Emit(sse.NewBookCreatedEvent(username, s.projector.Book(book)))
	return book, nil
}

// Get retrieves a book by ID, scoped to the caller. Books owned by someone
// else behave as if they do not exist. A missing publish year is resolved
// lazily before returning.
func (s *LibraryService) Get(ctx context.Context, username, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.AccessibleBy(username) {
		return nil, domainerrors.NotFound("book not found")
	}

	return s.years.Ensure(ctx, book), nil
}

// Update mutates a book's review and rating, the only fields writable after
// creation. Ownership mismatch reads as NOT_FOUND; existence is never
// leaked. Emits a change notification on success.
func (s *LibraryService) Update(ctx context.Context, username, bookID string, req *UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.AccessibleBy(username) {
		return nil, domainerrors.NotFound("book not found")
	}

	if req.Review != nil {
		book.Review = *req.Review
	}
	if req.Rating != nil {
		book.Rating = req.Rating
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	// Fire-and-forget; subscribers use it for cache invalidation.
	s.emitter.Emit(sse.NewBookUpdatedEvent(book.Username, s.projector.Book(book)))
	return book, nil
}

// Delete removes a book, with the same ownership semantics as Get.
func (s *LibraryService) Delete(ctx context.Context, username, bookID string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if !book.AccessibleBy(username) {
		return domainerrors.NotFound("book not found")
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}

	s.emitter.Emit(sse.NewBookDeletedEvent(book.Username, bookID))
	return nil
}

// List returns the caller's library, filtered and sorted. Rows missing a
// publish year are lazily enriched, best-effort.
func (s *LibraryService) List(ctx context.Context, username string, params ListBooksParams) ([]*domain.Book, error) {
	books, err := s.store.FindBooks(ctx, store.BookFilter{
		Username:  username,
		Query:     params.Query,
		Author:    params.Author,
		HasReview: params.HasReview,
		Sort:      store.ParseSortSpec(params.Sort),
	})
	if err != nil {
		return nil, err
	}

	for i, book := range books {
		books[i] = s.years.Ensure(ctx, book)
	}
	return books, nil
}

// ProjectOne converts a book to its client representation.
func (s *LibraryService) ProjectOne(book *domain.Book) *dto.BookResponse {
	return s.projector.Book(book)
}

// Project converts books to their client representation.
func (s *LibraryService) Project(books []*domain.Book) []*dto.BookResponse {
	return s.projector.Books(books)
}

// ResolveCover produces cover bytes and mime type for the cover endpoint.
// Fails only when the record does not exist at all; ownership is not
// checked here, matching the legacy cover-serving behavior.
func (s *LibraryService) ResolveCover(ctx context.Context, bookID string) ([]byte, string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, "", err
	}

	data, mime := s.covers.Resolve(ctx, book)
	return data, mime, nil
}
