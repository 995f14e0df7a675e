// Package main provides a tool to seed the database with demo data.
//
// This creates a demo user and a handful of library books so the API can be
// exercised without going through registration and search first.
//
// Usage:
//
//	DB_PATH=~/shelfmark/db go run ./cmd/seed
//	DB_PATH=~/shelfmark/db go run ./cmd/seed --username demo --password "demo-password"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shelfmarkapp/shelfmark-server/internal/auth"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

var (
	username = flag.String("username", "demo", "Username for the seeded account")
	password = flag.String("password", "demo-password", "Password for the seeded account")
)

type seedBook struct {
	title   string
	author  string
	year    int
	workKey string
	review  string
	rating  int
}

var books = []seedBook{
	{"Dune", "Frank Herbert", 1965, "/works/OL893415W", "Still the benchmark for world-building.", 5},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", 1969, "/works/OL4861776W", "", 4},
	{"Hyperion", "Dan Simmons", 1989, "/works/OL1963268W", "The priest's tale alone is worth it.", 5},
	{"A Wizard of Earthsea", "Ursula K. Le Guin", 1968, "/works/OL59781W", "", 0},
	{"Neuromancer", "William Gibson", 1984, "/works/OL38501W", "Dense but rewarding.", 4},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "shelfmark", "db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	owner, err := seedUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	created := 0
	for _, b := range books {
		if err := seedLibraryBook(ctx, s, owner.Username, b); err != nil {
			log.Fatalf("Failed to seed book %q: %v", b.title, err)
		}
		created++
	}

	fmt.Printf("Seeded user %q with %d books\n", owner.Username, created)
}

func seedUser(ctx context.Context, s *store.Store) (*domain.User, error) {
	existing, err := s.GetUserByUsername(ctx, *username)
	if err == nil {
		fmt.Printf("User %q already exists, reusing\n", existing.Username)
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, err
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     *username,
		PasswordHash: hash,
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	fmt.Printf("Created user %q (password %q)\n", user.Username, *password)
	return user, nil
}

func seedLibraryBook(ctx context.Context, s *store.Store, owner string, b seedBook) error {
	// Skip if this work is already in the owner's library.
	saved, err := s.FindBooksByWorkKeys(ctx, owner, []string{b.workKey})
	if err != nil {
		return err
	}
	if len(saved) > 0 {
		fmt.Printf("  %q already present, skipping\n", b.title)
		return nil
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return err
	}

	year := b.year
	book := &domain.Book{
		Username:    owner,
		Title:       b.title,
		Author:      b.author,
		PublishYear: &year,
		WorkKey:     b.workKey,
		Review:      b.review,
	}
	book.ID = bookID
	book.InitTimestamps()
	if b.rating > 0 {
		rating := b.rating
		book.Rating = &rating
	}

	if err := s.InsertBook(ctx, book); err != nil {
		return err
	}

	fmt.Printf("  Added %q (%d)\n", b.title, b.year)
	return nil
}
