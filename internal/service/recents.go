package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/media/images"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// RecentsService maintains each user's recently-selected books: at most one
// entry per work, at most five entries, newest first.
type RecentsService struct {
	store     *store.Store
	projector *dto.Projector
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecentsService creates a new recents service.
func NewRecentsService(s *store.Store, projector *dto.Projector, validator *validation.Validator, logger *slog.Logger) *RecentsService {
	return &RecentsService{
		store:     s,
		projector: projector,
		validator: validator,
		logger:    logger,
	}
}

// AddRecentRequest contains a book selection to record.
type AddRecentRequest struct {
	WorkKey     string `json:"workKey" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author,omitempty"`
	PublishYear *int   `json:"publishYear,omitempty"`
	CoverID     *int64 `json:"coverId,omitempty"`
	CoverImage  []byte `json:"coverImage,omitempty"`
	CoverMime   string `json:"coverMimeType,omitempty"`
}

// Add records a selection for the authenticated user. Unlike search-history
// logging this is a direct user action, so a store failure is surfaced.
func (s *RecentsService) Add(ctx context.Context, username string, req *AddRecentRequest) error {
	if username == "" {
		return domainerrors.Unauthorized("authentication required")
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	entryID, err := id.Generate(id.PrefixRecentBook)
	if err != nil {
		return domainerrors.Internal("generate recent entry ID").WithCause(err)
	}

	entry := &domain.RecentBook{
		ID:            entryID,
		Username:      username,
		WorkKey:       req.WorkKey,
		Title:         req.Title,
		Author:        req.Author,
		PublishYear:   req.PublishYear,
		CoverID:       req.CoverID,
		CoverImage:    req.CoverImage,
		CoverMimeType: req.CoverMime,
		CreatedAt:     time.Now(),
	}

	return s.store.UpsertRecentBook(ctx, entry)
}

// List returns the authenticated user's recent selections, newest first.
func (s *RecentsService) List(ctx context.Context, username string) ([]*domain.RecentBook, error) {
	if username == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	return s.store.ListRecentBooks(ctx, username, store.DefaultRecencyCap)
}

// Project converts entries to their client representation.
func (s *RecentsService) Project(entries []*domain.RecentBook) []*dto.RecentBookResponse {
	return s.projector.RecentBooks(entries)
}

// ResolveCover serves stored cover bytes for a recent selection, falling
// back to the placeholder pixel. Fails only when the entry is absent.
func (s *RecentsService) ResolveCover(ctx context.Context, username, entryID string) ([]byte, string, error) {
	if username == "" {
		return nil, "", domainerrors.Unauthorized("authentication required")
	}

	entries, err := s.store.ListRecentBooks(ctx, username, store.DefaultRecencyCap)
	if err != nil {
		return nil, "", err
	}
	for _, entry := range entries {
		if entry.ID != entryID {
			continue
		}
		if len(entry.CoverImage) > 0 {
			mime := entry.CoverMimeType
			if mime == "" {
				mime = "image/jpeg"
			}
			return entry.CoverImage, mime, nil
		}
		return images.Placeholder(), images.PlaceholderMimeType, nil
	}
	return nil, "", domainerrors.NotFound("recent entry not found")
}
