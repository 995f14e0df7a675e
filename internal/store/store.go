// Package store implements the document store on Badger: personal library
// books, registered users, and the bounded recency lists.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
)

// EventEmitter is the interface for emitting change-notification events.
// Store callers use this to broadcast entity updates without depending on
// the SSE implementation.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// RecentBooks holds per-user recently-selected books (capped at 5,
	// deduplicated by work key).
	RecentBooks *CappedList[domain.RecentBook]

	// RecentSearches holds the bounded search history (capped at 5 per
	// scope, no deduplication).
	RecentSearches *CappedList[domain.RecentSearch]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Ensure writes are synced to disk to prevent corruption on crashes

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initRecentBooks()
	store.initRecentSearches()

	if logger != nil {
		logger.Info("Badger database opened", "path", path)
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// get reads and unmarshals a single key into out.
// Returns badger.ErrKeyNotFound unwrapped so callers can map it.
func (s *Store) get(key []byte, out any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

// set marshals and writes a single key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// exists reports whether a key is present.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// wrapStoreErr converts low-level database failures into the
// STORE_UNAVAILABLE domain error. Key-not-found is never wrapped here;
// callers map it to NOT_FOUND themselves.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return domainerrors.StoreUnavailable(op).WithCause(err)
}
