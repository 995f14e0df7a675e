// Package service provides the business logic layer: metadata enrichment,
// search aggregation, the personal library catalog, and the bounded
// recency lists.
package service

import (
	"context"

	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
)

// MetadataProvider is the slice of the OpenLibrary client the services
// consume. Narrowed to an interface so resolver tests can stub tiers
// independently.
type MetadataProvider interface {
	Search(ctx context.Context, term string, limit int) ([]openlibrary.SearchDoc, error)
	GetWorkDetail(ctx context.Context, workKey string) (*openlibrary.WorkDetail, error)
	GetFirstEdition(ctx context.Context, workKey string) (*openlibrary.Edition, error)
	FetchCover(ctx context.Context, coverID int64, size openlibrary.CoverSize) (*openlibrary.CoverImage, error)
	CoverURL(coverID int64, size openlibrary.CoverSize) string
}
