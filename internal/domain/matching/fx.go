package matching

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/radu-bors/Clique-backend/config"
	dirdeps "github.com/radu-bors/Clique-backend/internal/domain/directory/deps"
	evtdeps "github.com/radu-bors/Clique-backend/internal/domain/event/deps"
	matchhttp "github.com/radu-bors/Clique-backend/internal/domain/matching/delivery/http"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/repository/postgres"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/usecase/business"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/kafka"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Module provides the matching engine for fx DI
var Module = fx.Module("matching",
	fx.Provide(NewMatchRepositoryFx),
	fx.Provide(NewMatchingUseCaseFx),
	fx.Provide(NewMatchHandlerFx),
	fx.Provide(NewMatchRouterFx),
	fx.Invoke(RegisterRoutes),
)

// NewMatchRepositoryFx creates a match repository for fx DI
func NewMatchRepositoryFx(db *gorm.DB) deps.MatchRepository {
	return postgres.NewRepository(db)
}

// NewMatchingUseCaseFx creates the matching engine for fx DI. The event
// registry closes events under the close-on-match policy.
func NewMatchingUseCaseFx(
	repo deps.MatchRepository,
	events evtdeps.EventRepository,
	users dirdeps.UserRepository,
	registry evtdeps.EventUseCase,
	publisher *kafka.Publisher,
	cfg *config.MatchingConfig,
	logger zerolog.Logger,
) deps.MatchingUseCase {
	return business.NewUseCase(repo, events, users, registry, publisher, business.Options{
		Retry:             cfg.RetryPolicy(),
		CloseEventOnMatch: cfg.CloseEventOnMatch,
	}, logger)
}

// NewMatchHandlerFx creates a match handler for fx DI
func NewMatchHandlerFx(useCase deps.MatchingUseCase, registry evtdeps.EventUseCase, logger zerolog.Logger) *matchhttp.MatchHandler {
	return matchhttp.NewMatchHandler(useCase, registry, logger)
}

// NewMatchRouterFx creates a match router for fx DI
func NewMatchRouterFx(handler *matchhttp.MatchHandler, logger zerolog.Logger) *matchhttp.Router {
	return matchhttp.NewRouter(handler, logger)
}

// RegisterRoutes registers matching routes on the API group
func RegisterRoutes(api *httputil.MiddlewareGroup, router *matchhttp.Router) {
	router.RegisterRoutes(api)
}
