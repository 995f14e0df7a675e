// Package dto provides Data Transfer Objects for API responses and SSE events.
//
// Each entity has an explicit projection function enumerating exactly which
// fields are externally visible. Raw cover bytes are never serialized; clients
// fetch them through the cover endpoint referenced by CoverURL.
package dto

import "time"

// BookResponse is the client-facing representation of a saved book.
type BookResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username,omitempty"`
	Title         string    `json:"title"`
	Author        string    `json:"author,omitempty"`
	PublishYear   *int      `json:"publishYear,omitempty"`
	WorkKey       string    `json:"workKey,omitempty"`
	CoverID       *int64    `json:"coverId,omitempty"`
	CoverURL      *string   `json:"coverUrl"`
	CoverMimeType string    `json:"coverMimeType"`
	CoverBlurHash string    `json:"coverBlurHash,omitempty"`
	Review        string    `json:"review,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SearchResult is one row of a search response: a provider document merged
// with the caller's saved state.
type SearchResult struct {
	ID          string  `json:"id"` // the provider work key
	Title       string  `json:"title"`
	Author      string  `json:"author,omitempty"`
	PublishYear *int    `json:"publishYear,omitempty"`
	CoverURL    *string `json:"coverUrl"`
	Saved       bool    `json:"saved"`
	SavedID     *string `json:"savedId"`
}

// RecentBookResponse is the client-facing representation of a recent selection.
type RecentBookResponse struct {
	ID          string    `json:"id"`
	WorkKey     string    `json:"workKey"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	PublishYear *int      `json:"publishYear,omitempty"`
	CoverURL    *string   `json:"coverUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecentSearchResponse is the client-facing representation of a logged search.
type RecentSearchResponse struct {
	ID        string    `json:"id"`
	Term      string    `json:"term"`
	CreatedAt time.Time `json:"createdAt"`
}
