package domain

import "time"

// RecentBook is one entry in a user's recently-selected list.
// At most one entry exists per (Username, WorkKey) pair, and at most five
// entries per user; the store enforces both.
type RecentBook struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	WorkKey       string    `json:"work_key"`
	Title         string    `json:"title"`
	Author        string    `json:"author,omitempty"`
	PublishYear   *int      `json:"publish_year,omitempty"`
	CoverID       *int64    `json:"cover_id,omitempty"`
	CoverImage    []byte    `json:"cover_image,omitempty"`
	CoverMimeType string    `json:"cover_mime_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecentSearch is one entry in the bounded search history.
// Username is empty on legacy rows and for unauthenticated searches; those
// share a single global scope.
type RecentSearch struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Term      string    `json:"term"`
	CreatedAt time.Time `json:"created_at"`
}
