package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultRecencyCap is the number of entries retained per scope.
const DefaultRecencyCap = 5

// CappedList maintains, per scope (typically a username), a list of entries
// bounded to a fixed maximum size and ordered by recency. An optional dedup
// key guarantees at most one entry per (scope, dedup key) pair.
//
// The cap is enforced read-then-conditionally-delete after each write. Two
// concurrent writers to the same scope may briefly leave more than the cap
// in place; each completed Upsert trims back down, so the invariant holds
// after every individual call and no global lock is taken. That race is
// accepted for a personal, low-contention list.
type CappedList[T any] struct {
	store      *Store
	prefix     string
	maxEntries int
	idOf       func(*T) string
	createdOf  func(*T) time.Time
	dedupOf    func(*T) string
}

// NewCappedList creates a capped list rooted at the given key prefix.
// idOf must return a unique, non-empty ID for an entry; createdOf returns
// its creation timestamp; dedupOf returns the dedup key, or "" when every
// insertion is treated as new (e.g. search history).
func NewCappedList[T any](
	s *Store,
	prefix string,
	maxEntries int,
	idOf func(*T) string,
	createdOf func(*T) time.Time,
	dedupOf func(*T) string,
) *CappedList[T] {
	return &CappedList[T]{
		store:      s,
		prefix:     prefix,
		maxEntries: maxEntries,
		idOf:       idOf,
		createdOf:  createdOf,
		dedupOf:    dedupOf,
	}
}

// entryKey builds the primary key for an entry in a scope.
// Scopes never contain ':' (usernames are alphanumeric), so key segments
// cannot collide across scopes.
func (l *CappedList[T]) entryKey(scope, entryID string) []byte {
	return []byte(l.prefix + "e:" + scope + ":" + entryID)
}

// dedupKey builds the secondary index key mapping (scope, dedup key) to an entry ID.
func (l *CappedList[T]) dedupKey(scope, dedup string) []byte {
	return []byte(l.prefix + "d:" + scope + ":" + dedup)
}

// Upsert inserts the entry into the scope's list. When the entry carries a
// dedup key that already exists in the scope, the previous entry is replaced
// and the new creation timestamp counts for ordering. After the write the
// scope is trimmed back to the cap, oldest entries first.
func (l *CappedList[T]) Upsert(ctx context.Context, scope string, entry *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return wrapStoreErr("encode recency entry", err)
	}

	entryID := l.idOf(entry)
	dedup := l.dedupOf(entry)

	err = l.store.db.Update(func(txn *badger.Txn) error {
		if dedup != "" {
			idxKey := l.dedupKey(scope, dedup)

			// Replace the previous entry for this dedup key, if any.
			item, err := txn.Get(idxKey)
			switch {
			case err == nil:
				var oldID string
				if err := item.Value(func(val []byte) error {
					oldID = string(val)
					return nil
				}); err != nil {
					return err
				}
				if oldID != entryID {
					if err := txn.Delete(l.entryKey(scope, oldID)); err != nil {
						return err
					}
				}
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}

			if err := txn.Set(idxKey, []byte(entryID)); err != nil {
				return err
			}
		}

		return txn.Set(l.entryKey(scope, entryID), data)
	})
	if err != nil {
		return wrapStoreErr("write recency entry", err)
	}

	return l.trim(ctx, scope)
}

// trim deletes the oldest entries beyond the cap for a scope.
func (l *CappedList[T]) trim(ctx context.Context, scope string) error {
	entries, err := l.listAll(ctx, scope)
	if err != nil {
		return err
	}
	if len(entries) <= l.maxEntries {
		return nil
	}

	// entries are newest-first; everything past the cap goes.
	err = l.store.db.Update(func(txn *badger.Txn) error {
		for _, victim := range entries[l.maxEntries:] {
			if err := txn.Delete(l.entryKey(scope, l.idOf(victim))); err != nil {
				return err
			}
			if dedup := l.dedupOf(victim); dedup != "" {
				if err := txn.Delete(l.dedupKey(scope, dedup)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return wrapStoreErr("trim recency list", err)
}

// List returns the scope's entries ordered by creation timestamp descending,
// at most limit. A non-positive limit defaults to the cap.
func (l *CappedList[T]) List(ctx context.Context, scope string, limit int) ([]*T, error) {
	if limit <= 0 {
		limit = l.maxEntries
	}

	entries, err := l.listAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// listAll reads every entry in a scope, newest first.
func (l *CappedList[T]) listAll(ctx context.Context, scope string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scopePrefix := []byte(l.prefix + "e:" + scope + ":")
	var entries []*T

	err := l.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scopePrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(scopePrefix); it.ValidForPrefix(scopePrefix); it.Next() {
			var entry T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("list recency entries", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return l.createdOf(entries[i]).After(l.createdOf(entries[j]))
	})
	return entries, nil
}
