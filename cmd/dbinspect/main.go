package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "shelfmark", "db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	userCount := countPrefix(db, "user:", nil)
	fmt.Printf("Users: %d\n", userCount)

	bookCount := 0
	booksWithCover := 0
	booksWithYear := 0
	booksOwned := 0

	countPrefix(db, "book:", func(val []byte) {
		var book domain.Book
		if err := json.Unmarshal(val, &book); err != nil {
			return
		}
		bookCount++
		if len(book.CoverImage) > 0 {
			booksWithCover++
		}
		if book.PublishYear != nil {
			booksWithYear++
		}
		if book.Username != "" {
			booksOwned++
		}
	})

	fmt.Printf("Books: %d\n", bookCount)
	fmt.Printf("  with cover image: %d\n", booksWithCover)
	fmt.Printf("  with publish year: %d\n", booksWithYear)
	fmt.Printf("  owned (non-legacy): %d\n", booksOwned)
	fmt.Println()

	// Capped lists store entry keys under "<prefix>e:" and dedup index keys
	// under "<prefix>d:"; only the entries are data.
	fmt.Printf("Recent book entries: %d\n", countPrefix(db, "recentbook:e:", nil))
	fmt.Printf("Recent search entries: %d\n", countPrefix(db, "recentsearch:e:", nil))
}

// countPrefix counts keys under prefix, optionally inspecting each value.
func countPrefix(db *badger.DB, prefix string, inspect func(val []byte)) int {
	count := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			count++
			if inspect == nil {
				continue
			}
			if err := it.Item().Value(func(val []byte) error {
				inspect(val)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan %q keys: %v", prefix, err)
	}
	return count
}
