package directory

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	dirhttp "github.com/radu-bors/Clique-backend/internal/domain/directory/delivery/http"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/repository/postgres"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/usecase/business"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Module provides user directory components for fx DI
var Module = fx.Module("directory",
	fx.Provide(NewUserRepositoryFx),
	fx.Provide(NewDirectoryUseCaseFx),
	fx.Provide(NewUserHandlerFx),
	fx.Provide(NewUserRouterFx),
	fx.Invoke(RegisterRoutes),
)

// NewUserRepositoryFx creates a user repository for fx DI
func NewUserRepositoryFx(db *gorm.DB) deps.UserRepository {
	return postgres.NewRepository(db)
}

// NewDirectoryUseCaseFx creates a directory use case for fx DI
func NewDirectoryUseCaseFx(repo deps.UserRepository, logger zerolog.Logger) deps.DirectoryUseCase {
	return business.NewUseCase(repo, logger)
}

// NewUserHandlerFx creates a user handler for fx DI
func NewUserHandlerFx(useCase deps.DirectoryUseCase, logger zerolog.Logger) *dirhttp.UserHandler {
	return dirhttp.NewUserHandler(useCase, logger)
}

// NewUserRouterFx creates a user router for fx DI
func NewUserRouterFx(handler *dirhttp.UserHandler, logger zerolog.Logger) *dirhttp.Router {
	return dirhttp.NewRouter(handler, logger)
}

// RegisterRoutes registers directory routes on the API group
func RegisterRoutes(api *httputil.MiddlewareGroup, router *dirhttp.Router) {
	router.RegisterRoutes(api)
}
