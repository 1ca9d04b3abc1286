package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers service-level routes outside the authenticated API
type Router struct {
	handler *HealthHandler
	logger  zerolog.Logger
}

// NewRouter creates a new service router
func NewRouter(handler *HealthHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers the health route
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/health", r.handler.Handle)
}
