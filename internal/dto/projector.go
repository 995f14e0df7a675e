package dto

import (
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
)

// API paths for locally-served cover bytes.
const (
	bookCoverPathPrefix   = "/api/v1/books/"
	recentCoverPathPrefix = "/api/v1/recents/"
	coverPathSuffix       = "/cover"
)

// defaultCoverMimeType is reported when a record predates mime tracking.
const defaultCoverMimeType = "image/jpeg"

// CoverURLBuilder builds a public provider URL for a cover ID.
// Satisfied by *openlibrary.Client.
type CoverURLBuilder interface {
	CoverURL(coverID int64, size openlibrary.CoverSize) string
}

// Projector maps domain entities to their client-facing shapes.
//
// Cover URL derivation is identical everywhere: the local serving path when
// the record carries stored bytes, the provider's medium-size URL when only
// a cover ID is known, nil otherwise.
type Projector struct {
	covers CoverURLBuilder
}

// NewProjector creates a projector using the given provider URL builder.
func NewProjector(covers CoverURLBuilder) *Projector {
	return &Projector{covers: covers}
}

// Book projects a saved book to its response shape.
func (p *Projector) Book(b *domain.Book) *BookResponse {
	mime := b.CoverMimeType
	if mime == "" {
		mime = defaultCoverMimeType
	}

	return &BookResponse{
		ID:            b.ID,
		Username:      b.Username,
		Title:         b.Title,
		Author:        b.Author,
		PublishYear:   b.PublishYear,
		WorkKey:       b.WorkKey,
		CoverID:       b.CoverID,
		CoverURL:      p.coverURL(b.HasCoverImage(), bookCoverPathPrefix, b.ID, b.CoverID),
		CoverMimeType: mime,
		CoverBlurHash: b.CoverBlurHash,
		Review:        b.Review,
		Rating:        b.Rating,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// Books projects a slice of saved books.
func (p *Projector) Books(books []*domain.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, p.Book(b))
	}
	return out
}

// SearchRow merges one provider document with the caller's saved copy
// (nil when the work is not in the caller's library).
func (p *Projector) SearchRow(doc *openlibrary.SearchDoc, saved *domain.Book) *SearchResult {
	row := &SearchResult{
		ID:          doc.WorkKey,
		Title:       doc.Title,
		Author:      doc.Author,
		PublishYear: doc.PublishYear,
	}

	if saved != nil {
		row.Saved = true
		savedID := saved.ID
		row.SavedID = &savedID
		row.CoverURL = p.coverURL(saved.HasCoverImage(), bookCoverPathPrefix, saved.ID, doc.CoverID)
		return row
	}

	row.CoverURL = p.coverURL(false, "", "", doc.CoverID)
	return row
}

// RecentBook projects a recent selection to its response shape.
func (p *Projector) RecentBook(rb *domain.RecentBook) *RecentBookResponse {
	return &RecentBookResponse{
		ID:          rb.ID,
		WorkKey:     rb.WorkKey,
		Title:       rb.Title,
		Author:      rb.Author,
		PublishYear: rb.PublishYear,
		CoverURL:    p.coverURL(len(rb.CoverImage) > 0, recentCoverPathPrefix, rb.ID, rb.CoverID),
		CreatedAt:   rb.CreatedAt,
	}
}

// RecentBooks projects a slice of recent selections.
func (p *Projector) RecentBooks(entries []*domain.RecentBook) []*RecentBookResponse {
	out := make([]*RecentBookResponse, 0, len(entries))
	for _, rb := range entries {
		out = append(out, p.RecentBook(rb))
	}
	return out
}

// RecentSearch projects a logged search term.
func (p *Projector) RecentSearch(rs *domain.RecentSearch) *RecentSearchResponse {
	return &RecentSearchResponse{
		ID:        rs.ID,
		Term:      rs.Term,
		CreatedAt: rs.CreatedAt,
	}
}

// RecentSearches projects a slice of logged search terms.
func (p *Projector) RecentSearches(entries []*domain.RecentSearch) []*RecentSearchResponse {
	out := make([]*RecentSearchResponse, 0, len(entries))
	for _, rs := range entries {
		out = append(out, p.RecentSearch(rs))
	}
	return out
}

// coverURL implements the shared derivation rule.
func (p *Projector) coverURL(hasBytes bool, pathPrefix, entityID string, coverID *int64) *string {
	if hasBytes {
		url := pathPrefix + entityID + coverPathSuffix
		return &url
	}
	if coverID != nil {
		url := p.covers.CoverURL(*coverID, openlibrary.CoverSizeMedium)
		return &url
	}
	return nil
}
