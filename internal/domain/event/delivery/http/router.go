package http

import (
	"github.com/rs/zerolog"

	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Router registers event routes
type Router struct {
	handler *EventHandler
	logger  zerolog.Logger
}

// NewRouter creates a new event router
func NewRouter(handler *EventHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers event routes on the authenticated API group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.POST("/events", r.handler.Create)
	api.GET("/events/open", r.handler.FindOpen)
	api.GET("/events/{id}", r.handler.Get)
	api.POST("/events/{id}/close", r.handler.Close)
}
