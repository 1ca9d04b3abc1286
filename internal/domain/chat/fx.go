package chat

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/radu-bors/Clique-backend/config"
	"github.com/radu-bors/Clique-backend/internal/domain/access"
	chathttp "github.com/radu-bors/Clique-backend/internal/domain/chat/delivery/http"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/repository/postgres"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/usecase/business"
	matchdeps "github.com/radu-bors/Clique-backend/internal/domain/matching/deps"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/kafka"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Module provides the chat thread store for fx DI
var Module = fx.Module("chat",
	fx.Provide(NewChatRepositoryFx),
	fx.Provide(NewAccessGateFx),
	fx.Provide(NewChatUseCaseFx),
	fx.Provide(NewChatHandlerFx),
	fx.Provide(NewChatRouterFx),
	fx.Invoke(RegisterRoutes),
)

// NewChatRepositoryFx creates a chat repository for fx DI
func NewChatRepositoryFx(db *gorm.DB) deps.ChatRepository {
	return postgres.NewRepository(db)
}

// NewAccessGateFx creates the channel access gate for fx DI
func NewAccessGateFx(matches matchdeps.MatchRepository, cfg *config.ChatConfig) *access.Gate {
	return access.NewGate(matches, access.Policy{RetainHistoryOnBlock: cfg.RetainHistoryOnBlock})
}

// NewChatUseCaseFx creates a chat use case for fx DI
func NewChatUseCaseFx(
	repo deps.ChatRepository,
	gate *access.Gate,
	publisher *kafka.Publisher,
	cfg *config.ChatConfig,
	matching *config.MatchingConfig,
	logger zerolog.Logger,
) deps.ChatUseCase {
	return business.NewUseCase(repo, gate, publisher, business.Options{
		Retry:    matching.RetryPolicy(),
		PageSize: cfg.PageSize,
	}, logger)
}

// NewChatHandlerFx creates a chat handler for fx DI
func NewChatHandlerFx(useCase deps.ChatUseCase, logger zerolog.Logger) *chathttp.ChatHandler {
	return chathttp.NewChatHandler(useCase, logger)
}

// NewChatRouterFx creates a chat router for fx DI
func NewChatRouterFx(handler *chathttp.ChatHandler, limiter *httputil.RateLimiter, logger zerolog.Logger) *chathttp.Router {
	return chathttp.NewRouter(handler, limiter, logger)
}

// RegisterRoutes registers chat routes on the API group
func RegisterRoutes(api *httputil.MiddlewareGroup, router *chathttp.Router) {
	router.RegisterRoutes(api)
}
