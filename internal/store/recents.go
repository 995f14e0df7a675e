package store

import (
	"context"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

const (
	recentBookPrefix   = "recentbook:"
	recentSearchPrefix = "recentsearch:"
)

func (s *Store) initRecentBooks() {
	s.RecentBooks = NewCappedList(s, recentBookPrefix, DefaultRecencyCap,
		func(rb *domain.RecentBook) string { return rb.ID },
		func(rb *domain.RecentBook) time.Time { return rb.CreatedAt },
		func(rb *domain.RecentBook) string { return rb.WorkKey },
	)
}

func (s *Store) initRecentSearches() {
	s.RecentSearches = NewCappedList(s, recentSearchPrefix, DefaultRecencyCap,
		func(rs *domain.RecentSearch) string { return rs.ID },
		func(rs *domain.RecentSearch) time.Time { return rs.CreatedAt },
		func(*domain.RecentSearch) string { return "" }, // every search counts as new
	)
}

// UpsertRecentBook records a book selection for its owner, replacing any
// previous entry for the same work key.
func (s *Store) UpsertRecentBook(ctx context.Context, rb *domain.RecentBook) error {
	return s.RecentBooks.Upsert(ctx, rb.Username, rb)
}

// ListRecentBooks returns a user's recent selections, newest first.
func (s *Store) ListRecentBooks(ctx context.Context, username string, limit int) ([]*domain.RecentBook, error) {
	return s.RecentBooks.List(ctx, username, limit)
}

// AddRecentSearch records a search term. Scope is the username when one is
// present; unauthenticated searches share the global scope.
func (s *Store) AddRecentSearch(ctx context.Context, rs *domain.RecentSearch) error {
	return s.RecentSearches.Upsert(ctx, rs.Username, rs)
}

// ListRecentSearches returns the newest search terms for a scope.
func (s *Store) ListRecentSearches(ctx context.Context, username string, limit int) ([]*domain.RecentSearch, error) {
	return s.RecentSearches.List(ctx, username, limit)
}
