package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
)

// ProvideOpenLibraryClient provides the rate-limited OpenLibrary client.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.New(openlibrary.Config{
		BaseURL:           cfg.OpenLibrary.BaseURL,
		CoversBaseURL:     cfg.OpenLibrary.CoversBaseURL,
		RequestTimeout:    cfg.OpenLibrary.RequestTimeout,
		RequestsPerSecond: cfg.OpenLibrary.RequestsPerSecond,
	}, log.Logger)

	log.Info("OpenLibrary client initialized",
		"base_url", cfg.OpenLibrary.BaseURL,
		"requests_per_second", cfg.OpenLibrary.RequestsPerSecond,
	)

	return client, nil
}

// ProvideProjector provides the response projector.
func ProvideProjector(i do.Injector) (*dto.Projector, error) {
	client := do.MustInvoke[*openlibrary.Client](i)
	return dto.NewProjector(client), nil
}
