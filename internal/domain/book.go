// Package domain contains the core business entities for the Shelfmark book tracker.
package domain

// Book is a saved entry in a user's personal library.
//
// Username is empty on legacy records created before accounts existed; those
// are globally visible. CoverImage holds the raw cover bytes once they have
// been fetched from the metadata provider (base64 in JSON).
type Book struct {
	Timestamps
	Username      string `json:"username,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	PublishYear   *int   `json:"publish_year,omitempty"`
	WorkKey       string `json:"work_key,omitempty"` // provider work identifier, e.g. "/works/OL45883W"
	CoverID       *int64 `json:"cover_id,omitempty"`
	CoverImage    []byte `json:"cover_image,omitempty"`
	CoverMimeType string `json:"cover_mime_type,omitempty"`
	CoverBlurHash string `json:"cover_blur_hash,omitempty"`
	Review        string `json:"review,omitempty"`
	Rating        *int   `json:"rating,omitempty"`
}

// AccessibleBy reports whether the given caller may see this book.
// Ownership is only enforced when both sides carry an identity: records
// without an owner are legacy-global, and unauthenticated callers keep the
// pre-account behavior.
func (b *Book) AccessibleBy(username string) bool {
	if username == "" || b.Username == "" {
		return true
	}
	return b.Username == username
}

// HasCoverImage reports whether cover bytes have been persisted.
func (b *Book) HasCoverImage() bool {
	return len(b.CoverImage) > 0
}
