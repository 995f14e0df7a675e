package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

// searchResultLimit caps every aggregated search at the provider's page.
const searchResultLimit = 10

// SearchService aggregates provider search results with the caller's saved
// library state and maintains the bounded search history.
type SearchService struct {
	provider  MetadataProvider
	store     *store.Store
	projector *dto.Projector
	logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(provider MetadataProvider, s *store.Store, projector *dto.Projector, logger *slog.Logger) *SearchService {
	return &SearchService{
		provider:  provider,
		store:     s,
		projector: projector,
		logger:    logger,
	}
}

// Search runs a term search, records it into the history best-effort, and
// returns up to 10 merged result rows. History write failures never abort
// the search.
func (s *SearchService) Search(ctx context.Context, username, term string) ([]*dto.SearchResult, error) {
	s.recordSearch(ctx, username, term)
	return s.aggregate(ctx, username, term)
}

// Home replays the caller's most recent search term WITHOUT recording it
// again; home is a passive view of saved context, not a new search. With no
// history it returns an empty result set.
func (s *SearchService) Home(ctx context.Context, username string) ([]*dto.SearchResult, error) {
	entries, err := s.store.ListRecentSearches(ctx, username, 1)
	if err != nil {
		s.logger.Warn("failed to load last search for home", "error", err)
		return []*dto.SearchResult{}, nil
	}
	if len(entries) == 0 {
		return []*dto.SearchResult{}, nil
	}

	return s.aggregate(ctx, username, entries[0].Term)
}

// LastSearches returns the caller's recent search terms, newest first.
func (s *SearchService) LastSearches(ctx context.Context, username string) ([]*dto.RecentSearchResponse, error) {
	entries, err := s.store.ListRecentSearches(ctx, username, store.DefaultRecencyCap)
	if err != nil {
		return nil, err
	}
	return s.projector.RecentSearches(entries), nil
}

// aggregate queries the provider and merges each document with the caller's
// saved copy of the same work. Provider ordering is preserved.
func (s *SearchService) aggregate(ctx context.Context, username, term string) ([]*dto.SearchResult, error) {
	docs, err := s.provider.Search(ctx, term, searchResultLimit)
	if err != nil {
		return nil, err
	}

	workKeys := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.WorkKey != "" {
			workKeys = append(workKeys, doc.WorkKey)
		}
	}

	savedByKey := make(map[string]*domain.Book)
	if len(workKeys) > 0 {
		saved, err := s.store.FindBooksByWorkKeys(ctx, username, workKeys)
		if err != nil {
			return nil, err
		}
		for _, book := range saved {
			savedByKey[book.WorkKey] = book
		}
	}

	rows := make([]*dto.SearchResult, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		rows = append(rows, s.projector.SearchRow(doc, savedByKey[doc.WorkKey]))
	}
	return rows, nil
}

// recordSearch logs a term into the bounded history. Best-effort: a store
// failure degrades to a no-op so the search itself still runs.
func (s *SearchService) recordSearch(ctx context.Context, username, term string) {
	entryID, err := id.Generate(id.PrefixRecentSearch)
	if err != nil {
		s.logger.Warn("failed to generate search history ID", "error", err)
		return
	}

	entry := &domain.RecentSearch{
		ID:        entryID,
		Username:  username,
		Term:      term,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddRecentSearch(ctx, entry); err != nil {
		s.logger.Warn("failed to record search history", "term", term, "error", err)
	}
}
