package event

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/radu-bors/Clique-backend/config"
	catdeps "github.com/radu-bors/Clique-backend/internal/domain/catalog/deps"
	dirdeps "github.com/radu-bors/Clique-backend/internal/domain/directory/deps"
	evthttp "github.com/radu-bors/Clique-backend/internal/domain/event/delivery/http"
	"github.com/radu-bors/Clique-backend/internal/domain/event/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/event/repository/postgres"
	"github.com/radu-bors/Clique-backend/internal/domain/event/usecase/business"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/kafka"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Module provides event components for fx DI
var Module = fx.Module("event",
	fx.Provide(NewEventRepositoryFx),
	fx.Provide(NewEventUseCaseFx),
	fx.Provide(NewEventHandlerFx),
	fx.Provide(NewEventRouterFx),
	fx.Invoke(RegisterRoutes),
)

// NewEventRepositoryFx creates an event repository for fx DI
func NewEventRepositoryFx(db *gorm.DB) deps.EventRepository {
	return postgres.NewRepository(db)
}

// NewEventUseCaseFx creates an event use case for fx DI
func NewEventUseCaseFx(
	repo deps.EventRepository,
	users dirdeps.UserRepository,
	activities catdeps.ActivityRepository,
	publisher *kafka.Publisher,
	cfg *config.MatchingConfig,
	logger zerolog.Logger,
) deps.EventUseCase {
	return business.NewUseCase(repo, users, activities, publisher, cfg.RetryPolicy(), logger)
}

// NewEventHandlerFx creates an event handler for fx DI
func NewEventHandlerFx(useCase deps.EventUseCase, logger zerolog.Logger) *evthttp.EventHandler {
	return evthttp.NewEventHandler(useCase, logger)
}

// NewEventRouterFx creates an event router for fx DI
func NewEventRouterFx(handler *evthttp.EventHandler, logger zerolog.Logger) *evthttp.Router {
	return evthttp.NewRouter(handler, logger)
}

// RegisterRoutes registers event routes on the API group
func RegisterRoutes(api *httputil.MiddlewareGroup, router *evthttp.Router) {
	router.RegisterRoutes(api)
}
