package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
)

func newRecentBook(t *testing.T, username, workKey, title string, createdAt time.Time) *domain.RecentBook {
	t.Helper()

	return &domain.RecentBook{
		ID:        id.MustGenerate(id.PrefixRecentBook),
		Username:  username,
		WorkKey:   workKey,
		Title:     title,
		CreatedAt: createdAt,
	}
}

func newRecentSearch(t *testing.T, username, term string, createdAt time.Time) *domain.RecentSearch {
	t.Helper()

	return &domain.RecentSearch{
		ID:        id.MustGenerate(id.PrefixRecentSearch),
		Username:  username,
		Term:      term,
		CreatedAt: createdAt,
	}
}

func TestRecentBooks_CapKeepsNewestFive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 7; i++ {
		rb := newRecentBook(t, "alice",
			fmt.Sprintf("/works/OL%dW", i),
			fmt.Sprintf("Book %d", i),
			base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.UpsertRecentBook(ctx, rb))
	}

	got, err := s.ListRecentBooks(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, DefaultRecencyCap)

	// Newest first; the two oldest entries were trimmed.
	assert.Equal(t, "Book 6", got[0].Title)
	assert.Equal(t, "Book 2", got[4].Title)
}

func TestRecentBooks_DedupByWorkKey(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now()

	first := newRecentBook(t, "alice", "/works/OL1W", "First Pick", base)
	require.NoError(t, s.UpsertRecentBook(ctx, first))
	require.NoError(t, s.UpsertRecentBook(ctx,
		newRecentBook(t, "alice", "/works/OL2W", "Other Pick", base.Add(time.Second))))

	// Re-selecting the same work replaces the earlier entry and moves it
	// to the front rather than growing the list.
	second := newRecentBook(t, "alice", "/works/OL1W", "Second Pick", base.Add(2*time.Second))
	require.NoError(t, s.UpsertRecentBook(ctx, second))

	got, err := s.ListRecentBooks(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Second Pick", got[0].Title)
	assert.Equal(t, "Other Pick", got[1].Title)
}

func TestRecentBooks_ScopedPerUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.UpsertRecentBook(ctx, newRecentBook(t, "alice", "/works/OL1W", "Alice's", now)))
	require.NoError(t, s.UpsertRecentBook(ctx, newRecentBook(t, "bob", "/works/OL1W", "Bob's", now)))

	got, err := s.ListRecentBooks(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice's", got[0].Title)
}

func TestRecentSearches_NoDedup(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now()

	// The same term searched repeatedly occupies multiple slots.
	for i := 0; i < 3; i++ {
		rs := newRecentSearch(t, "alice", "tolkien", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.AddRecentSearch(ctx, rs))
	}

	got, err := s.ListRecentSearches(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecentSearches_CapAndOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 6; i++ {
		rs := newRecentSearch(t, "alice",
			fmt.Sprintf("term %d", i),
			base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.AddRecentSearch(ctx, rs))
	}

	got, err := s.ListRecentSearches(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, DefaultRecencyCap)
	assert.Equal(t, "term 5", got[0].Term)
	assert.Equal(t, "term 1", got[4].Term)
}

func TestRecentSearches_GlobalScopeIsSeparate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.AddRecentSearch(ctx, newRecentSearch(t, "", "anonymous search", now)))
	require.NoError(t, s.AddRecentSearch(ctx, newRecentSearch(t, "alice", "alice search", now)))

	global, err := s.ListRecentSearches(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, "anonymous search", global[0].Term)

	scoped, err := s.ListRecentSearches(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "alice search", scoped[0].Term)
}

func TestCappedList_ListRespectsLimit(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 4; i++ {
		rs := newRecentSearch(t, "alice", fmt.Sprintf("term %d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.AddRecentSearch(ctx, rs))
	}

	got, err := s.ListRecentSearches(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "term 3", got[0].Term)
}
