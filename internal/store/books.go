package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
)

const bookPrefix = "book:"

// BookFilter narrows FindBooks results. All predicates are conjunctive.
type BookFilter struct {
	// Username scopes results to an owner. Empty means unscoped (legacy
	// global visibility for unauthenticated callers).
	Username string
	// Query matches a case-insensitive substring of title or author.
	Query string
	// Author matches a case-insensitive substring of the author only.
	Author string
	// HasReview keeps only books with a non-empty review.
	HasReview bool
	// Sort is a "field:asc|desc" specification, see ParseSortSpec.
	Sort SortSpec
}

// SortSpec is a parsed, allow-listed sort order for book listings.
type SortSpec struct {
	Field     string
	Ascending bool
}

// sortableBookFields is the allow-list for user-supplied sort fields.
var sortableBookFields = map[string]bool{
	"updatedAt":   true,
	"createdAt":   true,
	"title":       true,
	"author":      true,
	"rating":      true,
	"publishYear": true,
}

// DefaultBookSort orders by most recently updated first.
func DefaultBookSort() SortSpec {
	return SortSpec{Field: "updatedAt", Ascending: false}
}

// ParseSortSpec parses "field:asc|desc". Unknown fields, malformed input and
// the empty string all fall back to the default updatedAt-descending order.
func ParseSortSpec(raw string) SortSpec {
	if raw == "" {
		return DefaultBookSort()
	}
	field, dir, _ := strings.Cut(raw, ":")
	field = strings.TrimSpace(field)
	if !sortableBookFields[field] {
		return DefaultBookSort()
	}
	asc := strings.EqualFold(strings.TrimSpace(dir), "asc")
	return SortSpec{Field: field, Ascending: asc}
}

// InsertBook persists a new book. The caller is responsible for setting the
// ID and timestamps.
func (s *Store) InsertBook(_ context.Context, book *domain.Book) error {
	return wrapStoreErr("insert book", s.set([]byte(bookPrefix+book.ID), book))
}

// GetBook retrieves a book by ID. Returns NOT_FOUND if absent.
func (s *Store) GetBook(_ context.Context, id string) (*domain.Book, error) {
	var book domain.Book
	err := s.get([]byte(bookPrefix+id), &book)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domainerrors.NotFound("book not found")
	}
	if err != nil {
		return nil, wrapStoreErr("get book", err)
	}
	return &book, nil
}

// UpdateBook replaces the stored document for book.ID. Whole-document
// set-style write; last write wins on overlapping fields.
func (s *Store) UpdateBook(_ context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return wrapStoreErr("check book exists", err)
	}
	if !exists {
		return domainerrors.NotFound("book not found")
	}

	return wrapStoreErr("update book", s.set(key, book))
}

// DeleteBook removes a book by ID. Deleting an absent book is a no-op.
func (s *Store) DeleteBook(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(bookPrefix + id))
	})
	return wrapStoreErr("delete book", err)
}

// FindBooks returns all books matching the filter, sorted per the filter's
// sort spec (default: updatedAt descending).
func (s *Store) FindBooks(ctx context.Context, filter BookFilter) ([]*domain.Book, error) {
	books, err := s.scanBooks(ctx, func(b *domain.Book) bool {
		return matchesFilter(b, &filter)
	})
	if err != nil {
		return nil, err
	}

	spec := filter.Sort
	if spec.Field == "" {
		spec = DefaultBookSort()
	}
	sortBooks(books, spec)
	return books, nil
}

// FindBooksByWorkKeys returns books whose work key is in keys, scoped to the
// given owner (unscoped when username is empty).
func (s *Store) FindBooksByWorkKeys(ctx context.Context, username string, keys []string) ([]*domain.Book, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	return s.scanBooks(ctx, func(b *domain.Book) bool {
		if !keySet[b.WorkKey] {
			return false
		}
		return username == "" || b.Username == username
	})
}

// scanBooks iterates the book keyspace and collects entries passing keep.
func (s *Store) scanBooks(ctx context.Context, keep func(*domain.Book) bool) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(bookPrefix)
	var books []*domain.Book

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var book domain.Book
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				return err
			}
			if keep(&book) {
				books = append(books, &book)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("scan books", err)
	}
	return books, nil
}

func matchesFilter(b *domain.Book, f *BookFilter) bool {
	if f.Username != "" && b.Username != f.Username {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}
	if f.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(f.Author)) {
		return false
	}
	if f.HasReview && b.Review == "" {
		return false
	}
	return true
}

// sortBooks orders books in place by the given spec. Missing optional values
// (rating, publish year) sort before present ones in ascending order.
func sortBooks(books []*domain.Book, spec SortSpec) {
	less := func(a, b *domain.Book) bool {
		switch spec.Field {
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "author":
			return strings.ToLower(a.Author) < strings.ToLower(b.Author)
		case "rating":
			return intOrZero(a.Rating) < intOrZero(b.Rating)
		case "publishYear":
			return intOrZero(a.PublishYear) < intOrZero(b.PublishYear)
		default: // updatedAt
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	}

	sort.SliceStable(books, func(i, j int) bool {
		if spec.Ascending {
			return less(books[i], books[j])
		}
		return less(books[j], books[i])
	})
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
