package service

import (
	"context"
	"log/slog"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/media/images"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

// CoverResolver produces displayable cover bytes for a book through an
// ordered fallback chain:
//
//  1. bytes already stored on the record
//  2. fetch from the provider's covers service and persist for next time
//  3. a fixed 1x1 PNG placeholder
//
// The chain never raises; tier 3 cannot fail.
type CoverResolver struct {
	provider MetadataProvider
	store    *store.Store
	logger   *slog.Logger
}

// NewCoverResolver creates a new cover resolver.
func NewCoverResolver(provider MetadataProvider, s *store.Store, logger *slog.Logger) *CoverResolver {
	return &CoverResolver{
		provider: provider,
		store:    s,
		logger:   logger,
	}
}

// Resolve returns cover bytes and mime type for a book, degrading through
// the fallback chain. Successful provider fetches are persisted onto the
// record so subsequent reads hit tier 1.
func (r *CoverResolver) Resolve(ctx context.Context, book *domain.Book) ([]byte, string) {
	if book.HasCoverImage() {
		mime := book.CoverMimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		return book.CoverImage, mime
	}

	if book.CoverID != nil {
		if cover, blurHash := r.Fetch(ctx, *book.CoverID); cover != nil {
			book.CoverImage = cover.Bytes
			book.CoverMimeType = cover.MimeType
			book.CoverBlurHash = blurHash
			book.Touch()
			if err := r.store.UpdateBook(ctx, book); err != nil {
				r.logger.Warn("failed to persist fetched cover",
					"book_id", book.ID,
					"error", err)
			}
			return cover.Bytes, cover.MimeType
		}
	}

	return images.Placeholder(), images.PlaceholderMimeType
}

// Fetch downloads the large cover variant and computes its BlurHash.
// Returns nil on any failure; used directly during ingestion so the fetch
// can be merged into the initial insert instead of a second write.
func (r *CoverResolver) Fetch(ctx context.Context, coverID int64) (*openlibrary.CoverImage, string) {
	cover, err := r.provider.FetchCover(ctx, coverID, openlibrary.CoverSizeLarge)
	if err != nil {
		r.logger.Warn("cover fetch failed", "cover_id", coverID, "error", err)
		return nil, ""
	}

	blurHash, err := images.ComputeBlurHash(cover.Bytes)
	if err != nil {
		// The cover is still usable without a placeholder hash.
		r.logger.Debug("blurhash computation failed", "cover_id", coverID, "error", err)
		blurHash = ""
	}

	return cover, blurHash
}
