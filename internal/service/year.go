package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

// PublishYearResolver fills a missing publish year through an ordered
// fallback chain of provider lookups. Every tier failure is swallowed; the
// chain yields a year or nothing, never an error.
type PublishYearResolver struct {
	provider MetadataProvider
	store    *store.Store
	logger   *slog.Logger
}

// NewPublishYearResolver creates a new publish year resolver.
func NewPublishYearResolver(provider MetadataProvider, s *store.Store, logger *slog.Logger) *PublishYearResolver {
	return &PublishYearResolver{
		provider: provider,
		store:    s,
		logger:   logger,
	}
}

// Ensure resolves and persists the publish year of a book that lacks one.
// The returned book carries the resolved year on success; on any failure
// the book is returned unchanged. Never raises.
func (r *PublishYearResolver) Ensure(ctx context.Context, book *domain.Book) *domain.Book {
	if book.PublishYear != nil {
		return book
	}

	year := r.Resolve(ctx, book)
	if year == 0 {
		return book
	}

	book.PublishYear = &year
	book.Touch()
	if err := r.store.UpdateBook(ctx, book); err != nil {
		r.logger.Warn("failed to persist resolved publish year",
			"book_id", book.ID,
			"year", year,
			"error", err)
	}
	return book
}

// Resolve walks the fallback chain without persisting. Returns 0 when no
// tier yields a year.
//
// Tiers, first success wins:
//  1. work detail's first-publish-year field
//  2. 4-digit run in the work detail's free-text first-publish date
//  3. 4-digit run in the first edition's publish date
//  4. provider search "<title> author:<author>"
func (r *PublishYearResolver) Resolve(ctx context.Context, book *domain.Book) int {
	if book.WorkKey != "" {
		if year := r.resolveFromWork(ctx, book.WorkKey); year != 0 {
			return year
		}
	}
	if book.Title != "" || book.Author != "" {
		return r.resolveFromSearch(ctx, book.Title, book.Author)
	}
	return 0
}

// resolveFromWork covers tiers 1-3, all keyed on the work identifier.
func (r *PublishYearResolver) resolveFromWork(ctx context.Context, workKey string) int {
	detail, err := r.provider.GetWorkDetail(ctx, workKey)
	if err != nil {
		r.logger.Debug("work detail lookup failed", "work_key", workKey, "error", err)
	} else {
		if detail.FirstPublishYear != nil {
			return *detail.FirstPublishYear
		}
		if year := openlibrary.ExtractYear(detail.FirstPublishDateText); year != 0 {
			return year
		}
	}

	edition, err := r.provider.GetFirstEdition(ctx, workKey)
	if err != nil {
		r.logger.Debug("first edition lookup failed", "work_key", workKey, "error", err)
		return 0
	}
	if edition == nil {
		return 0
	}
	return openlibrary.ExtractYear(edition.PublishDateText)
}

// resolveFromSearch is the last tier: infer the year from a title/author
// search, taking the first result.
func (r *PublishYearResolver) resolveFromSearch(ctx context.Context, title, author string) int {
	parts := make([]string, 0, 2)
	if title != "" {
		parts = append(parts, title)
	}
	if author != "" {
		parts = append(parts, "author:"+author)
	}

	docs, err := r.provider.Search(ctx, strings.Join(parts, " "), 1)
	if err != nil {
		r.logger.Debug("year search fallback failed", "title", title, "error", err)
		return 0
	}
	if len(docs) == 0 || docs[0].PublishYear == nil {
		return 0
	}
	return *docs[0].PublishYear
}
