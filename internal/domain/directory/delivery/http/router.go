package http

import (
	"github.com/rs/zerolog"

	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Router registers user directory routes
type Router struct {
	handler *UserHandler
	logger  zerolog.Logger
}

// NewRouter creates a new directory router
func NewRouter(handler *UserHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers directory routes on the authenticated API group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.POST("/users", r.handler.Register)
	api.GET("/users/{id}", r.handler.Get)
}
