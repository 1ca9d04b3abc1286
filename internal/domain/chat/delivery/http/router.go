package http

import (
	"github.com/rs/zerolog"

	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Router registers chat routes
type Router struct {
	handler *ChatHandler
	limiter *httputil.RateLimiter
	logger  zerolog.Logger
}

// NewRouter creates a new chat router. Sending is limited per user by limiter.
func NewRouter(handler *ChatHandler, limiter *httputil.RateLimiter, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		limiter: limiter,
		logger:  logger,
	}
}

// RegisterRoutes registers chat routes on the authenticated API group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.With(r.limiter.Middleware()).POST("/chats/{chatId}/messages", r.handler.Send)
	api.GET("/chats/{chatId}/messages", r.handler.Read)
	api.GET("/chats/{chatId}/access", r.handler.Access)
}
