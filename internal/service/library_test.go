package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmarkapp/shelfmark-server/internal/sse"
)

func TestLibraryService_CreateRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.libraryService()

	_, err := svc.Create(context.Background(), "", &CreateBookRequest{Title: "Dune"})

	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestLibraryService_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.libraryService()

	_, err := svc.Create(context.Background(), "alice", &CreateBookRequest{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.Create(context.Background(), "alice", &CreateBookRequest{
		Title:  "Dune",
		Rating: intPtr(9),
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestLibraryService_CreateEnrichesYearAndCover(t *testing.T) {
	env := setupTestEnv(t)
	coverBytes := encodeTestPNG(t, 24, 36)
	env.provider.workDetailFn = func(_ context.Context, workKey string) (*openlibrary.WorkDetail, error) {
		assert.Equal(t, "/works/OL45883W", workKey)
		return &openlibrary.WorkDetail{FirstPublishYear: intPtr(1965)}, nil
	}
	env.provider.fetchCoverFn = func(_ context.Context, coverID int64, _ openlibrary.CoverSize) (*openlibrary.CoverImage, error) {
		assert.Equal(t, int64(14627509), coverID)
		return &openlibrary.CoverImage{Bytes: coverBytes, MimeType: "image/png"}, nil
	}

	svc := env.libraryService()
	book, err := svc.Create(context.Background(), "alice", &CreateBookRequest{
		Title:   "Dune",
		Author:  "Frank Herbert",
		WorkKey: "/works/OL45883W",
		CoverID: int64Ptr(14627509),
	})
	require.NoError(t, err)

	require.NotNil(t, book.PublishYear)
	assert.Equal(t, 1965, *book.PublishYear)
	assert.Equal(t, coverBytes, book.CoverImage)
	assert.Equal(t, "image/png", book.CoverMimeType)
	assert.NotEmpty(t, book.CoverBlurHash)

	// Both enrichments land in the single inserted record.
	stored, err := env.store.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1965, *stored.PublishYear)
	assert.Equal(t, coverBytes, stored.CoverImage)
}

func TestLibraryService_CreateSkipsEnrichmentWhenProvided(t *testing.T) {
	env := setupTestEnv(t)
	// No provider functions are set: enrichment lookups would fail the test.
	coverBytes := encodeTestPNG(t, 16, 16)

	svc := env.libraryService()
	book, err := svc.Create(context.Background(), "alice", &CreateBookRequest{
		Title:       "Dune",
		PublishYear: intPtr(1965),
		WorkKey:     "/works/OL45883W",
		CoverImage:  coverBytes,
	})
	require.NoError(t, err)

	assert.Equal(t, 1965, *book.PublishYear)
	assert.Equal(t, coverBytes, book.CoverImage)
	assert.NotEmpty(t, book.CoverBlurHash)
}

func TestLibraryService_CreateEmitsEvent(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.libraryService()

	book, err := svc.Create(context.Background(), "alice", &CreateBookRequest{Title: "Dune"})
	require.NoError(t, err)

	require.Len(t, env.emitter.events, 1)
	event, ok := env.emitter.events[0].(sse.Event)
	require.True(t, ok)
	assert.Equal(t, sse.EventBookCreated, event.Type)
	assert.Equal(t, "alice", event.Username)

	data, ok := event.Data.(sse.BookEventData)
	require.True(t, ok)
	assert.Equal(t, book.ID, data.Book.ID)
}

func TestLibraryService_GetScopedByOwner(t *testing.T) {
	env := setupTestEnv(t)
	book := env.seedBook(t, "alice", "Dune", func(b *domain.Book) {
		b.PublishYear = intPtr(1965)
	})
	svc := env.libraryService()

	got, err := svc.Get(context.Background(), "alice", book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)

	// Someone else's book reads as missing, never as forbidden.
	_, err = svc.Get(context.Background(), "bob", book.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	// Unauthenticated callers keep the pre-account behavior.
	got, err = svc.Get(context.Background(), "", book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
}

func TestLibraryService_GetLegacyRecordVisibleToAll(t *testing.T) {
	env := setupTestEnv(t)
	book := env.seedBook(t, "", "Old Entry", func(b *domain.Book) {
		b.PublishYear = intPtr(1999)
	})
	svc := env.libraryService()

	got, err := svc.Get(context.Background(), "bob", book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
}

func TestLibraryService_UpdateMutatesOnlyReviewAndRating(t *testing.T) {
	env := setupTestEnv(t)
	book := env.seedBook(t, "alice", "Dune", func(b *domain.Book) {
		b.Author = "Frank Herbert"
		b.PublishYear = intPtr(1965)
	})
	svc := env.libraryService()

	review := "A masterpiece."
	got, err := svc.Update(context.Background(), "alice", book.ID, &UpdateBookRequest{
		Review: &review,
		Rating: intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "A masterpiece.", got.Review)
	assert.Equal(t, 5, *got.Rating)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.Equal(t, 1965, *got.PublishYear)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestLibraryService_UpdatePartial(t *testing.T) {
	env := setupTestEnv(t)
	book := env.seedBook(t, "alice", "Dune", func(b *domain.Book) {
		b.Review = "First impressions."
		b.Rating = intPtr(3)
	})
	svc := env.libraryService()

	got, err := svc.Update(context.Background(), "alice", book.ID, &UpdateBookRequest{
		Rating: intPtr(4),
	})
	require.NoError(t, err)

	assert.Equal(t, "First impressions.", got.Review)
	assert.Equal(t, 4, *got.Rating)
}

func TestLibraryService_UpdateOwnershipMismatch(t *testing.T) {
	env := setupTestEnv(t)
	book := env.seedBook(t, "alice", "Dune", nil)
	svc := env.libraryService()

	review := "drive-by"
	_, err := svc.Update(context.Background(), "bob", book.ID, &UpdateBookRequest{Review: &review})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestLibraryService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	book := env.seedBook(t, "alice", "Dune", nil)
	svc := env.libraryService()

	require.Error(t, svc.Delete(context.Background(), "bob", book.ID))
	require.NoError(t, svc.Delete(context.Background(), "alice", book.ID))

	_, err := env.store.GetBook(context.Background(), book.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestLibraryService_ListFiltersAndSorts(t *testing.T) {
	env := setupTestEnv(t)
	env.seedBook(t, "alice", "Beta", func(b *domain.Book) {
		b.PublishYear = intPtr(1990)
	})
	env.seedBook(t, "alice", "Alpha", func(b *domain.Book) {
		b.PublishYear = intPtr(1980)
	})
	env.seedBook(t, "bob", "Gamma", func(b *domain.Book) {
		b.PublishYear = intPtr(1970)
	})
	svc := env.libraryService()

	books, err := svc.List(context.Background(), "alice", ListBooksParams{Sort: "title:asc"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Alpha", books[0].Title)
	assert.Equal(t, "Beta", books[1].Title)

	// Bare field names keep the default descending direction.
	books, err = svc.List(context.Background(), "alice", ListBooksParams{Sort: "title"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Beta", books[0].Title)
	assert.Equal(t, "Alpha", books[1].Title)
}

func TestLibraryService_ResolveCover(t *testing.T) {
	env := setupTestEnv(t)
	book := env.seedBook(t, "alice", "Dune", func(b *domain.Book) {
		b.CoverImage = []byte("cover")
		b.CoverMimeType = "image/png"
	})
	svc := env.libraryService()

	// Ownership is not checked for cover bytes.
	data, mime, err := svc.ResolveCover(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("cover"), data)
	assert.Equal(t, "image/png", mime)

	_, _, err = svc.ResolveCover(context.Background(), "book-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
