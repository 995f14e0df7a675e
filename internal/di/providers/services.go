package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/auth"
	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, validator, log.Logger), nil
}

// ProvideLibraryService provides the library service with its create-time
// enrichment resolvers.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	client := do.MustInvoke[*openlibrary.Client](i)
	projector := do.MustInvoke[*dto.Projector](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	years := service.NewPublishYearResolver(client, storeHandle.Store, log.Logger)
	covers := service.NewCoverResolver(client, storeHandle.Store, log.Logger)

	return service.NewLibraryService(
		storeHandle.Store,
		years,
		covers,
		projector,
		sseHandle.Manager,
		validator,
		log.Logger,
	), nil
}

// ProvideSearchService provides the catalog search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*openlibrary.Client](i)
	projector := do.MustInvoke[*dto.Projector](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(client, storeHandle.Store, projector, log.Logger), nil
}

// ProvideRecentsService provides the recently-selected books service.
func ProvideRecentsService(i do.Injector) (*service.RecentsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	projector := do.MustInvoke[*dto.Projector](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecentsService(storeHandle.Store, projector, validator, log.Logger), nil
}
