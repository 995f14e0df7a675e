package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// fakeProvider stubs the metadata provider per call. Unset functions fail
// the test, so each case declares exactly the lookups it expects.
type fakeProvider struct {
	t              *testing.T
	searchFn       func(ctx context.Context, term string, limit int) ([]openlibrary.SearchDoc, error)
	workDetailFn   func(ctx context.Context, workKey string) (*openlibrary.WorkDetail, error)
	firstEditionFn func(ctx context.Context, workKey string) (*openlibrary.Edition, error)
	fetchCoverFn   func(ctx context.Context, coverID int64, size openlibrary.CoverSize) (*openlibrary.CoverImage, error)
}

func (f *fakeProvider) Search(ctx context.Context, term string, limit int) ([]openlibrary.SearchDoc, error) {
	if f.searchFn == nil {
		f.t.Fatal("unexpected Search call")
	}
	return f.searchFn(ctx, term, limit)
}

func (f *fakeProvider) GetWorkDetail(ctx context.Context, workKey string) (*openlibrary.WorkDetail, error) {
	if f.workDetailFn == nil {
		f.t.Fatal("unexpected GetWorkDetail call")
	}
	return f.workDetailFn(ctx, workKey)
}

func (f *fakeProvider) GetFirstEdition(ctx context.Context, workKey string) (*openlibrary.Edition, error) {
	if f.firstEditionFn == nil {
		f.t.Fatal("unexpected GetFirstEdition call")
	}
	return f.firstEditionFn(ctx, workKey)
}

func (f *fakeProvider) FetchCover(ctx context.Context, coverID int64, size openlibrary.CoverSize) (*openlibrary.CoverImage, error) {
	if f.fetchCoverFn == nil {
		f.t.Fatal("unexpected FetchCover call")
	}
	return f.fetchCoverFn(ctx, coverID, size)
}

func (f *fakeProvider) CoverURL(coverID int64, size openlibrary.CoverSize) string {
	return fmt.Sprintf("https://covers.example.org/b/id/%d-%s.jpg", coverID, size)
}

// testEmitter records emitted events in order.
type testEmitter struct {
	events []any
}

func (e *testEmitter) Emit(event any) {
	e.events = append(e.events, event)
}

// testEnv bundles the shared dependencies of a service test.
type testEnv struct {
	store     *store.Store
	provider  *fakeProvider
	emitter   *testEmitter
	projector *dto.Projector
	validator *validation.Validator
	logger    *slog.Logger
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "shelfmark-service-test-*")
	require.NoError(t, err)

	s, err := store.New(tmpDir, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(tmpDir)
	})

	provider := &fakeProvider{t: t}
	return &testEnv{
		store:     s,
		provider:  provider,
		emitter:   &testEmitter{},
		projector: dto.NewProjector(provider),
		validator: validation.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (e *testEnv) libraryService() *LibraryService {
	years := NewPublishYearResolver(e.provider, e.store, e.logger)
	covers := NewCoverResolver(e.provider, e.store, e.logger)
	return NewLibraryService(e.store, years, covers, e.projector, e.emitter, e.validator, e.logger)
}

func (e *testEnv) searchService() *SearchService {
	return NewSearchService(e.provider, e.store, e.projector, e.logger)
}

func (e *testEnv) recentsService() *RecentsService {
	return NewRecentsService(e.store, e.projector, e.validator, e.logger)
}

// seedBook inserts a book owned by username directly into the store.
func (e *testEnv) seedBook(t *testing.T, username, title string, mutate func(*domain.Book)) *domain.Book {
	t.Helper()

	book := &domain.Book{
		Username: username,
		Title:    title,
	}
	book.ID = id.MustGenerate(id.PrefixBook)
	book.InitTimestamps()
	if mutate != nil {
		mutate(book)
	}
	require.NoError(t, e.store.InsertBook(context.Background(), book))
	return book
}

// encodeTestPNG renders a small solid-color PNG for cover fixtures.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func intPtr(n int) *int       { return &n }
func int64Ptr(n int64) *int64 { return &n }
