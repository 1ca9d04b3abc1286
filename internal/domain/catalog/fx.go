package catalog

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	cathttp "github.com/radu-bors/Clique-backend/internal/domain/catalog/delivery/http"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/repository/postgres"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/usecase/business"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Module provides activity catalog components for fx DI
var Module = fx.Module("catalog",
	fx.Provide(NewActivityRepositoryFx),
	fx.Provide(NewCatalogUseCaseFx),
	fx.Provide(NewActivityHandlerFx),
	fx.Provide(NewActivityRouterFx),
	fx.Invoke(RegisterRoutes),
)

// NewActivityRepositoryFx creates an activity repository for fx DI
func NewActivityRepositoryFx(db *gorm.DB) deps.ActivityRepository {
	return postgres.NewRepository(db)
}

// NewCatalogUseCaseFx creates a catalog use case for fx DI
func NewCatalogUseCaseFx(repo deps.ActivityRepository, logger zerolog.Logger) deps.CatalogUseCase {
	return business.NewUseCase(repo, logger)
}

// NewActivityHandlerFx creates an activity handler for fx DI
func NewActivityHandlerFx(useCase deps.CatalogUseCase, logger zerolog.Logger) *cathttp.ActivityHandler {
	return cathttp.NewActivityHandler(useCase, logger)
}

// NewActivityRouterFx creates an activity router for fx DI
func NewActivityRouterFx(handler *cathttp.ActivityHandler, logger zerolog.Logger) *cathttp.Router {
	return cathttp.NewRouter(handler, logger)
}

// RegisterRoutes registers catalog routes on the API group
func RegisterRoutes(api *httputil.MiddlewareGroup, router *cathttp.Router) {
	router.RegisterRoutes(api)
}
