package http

import (
	"github.com/rs/zerolog"

	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Router registers activity catalog routes
type Router struct {
	handler *ActivityHandler
	logger  zerolog.Logger
}

// NewRouter creates a new catalog router
func NewRouter(handler *ActivityHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers catalog routes on the authenticated API group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.GET("/activities", r.handler.List)
	api.POST("/activities", r.handler.Add)
	api.GET("/activities/{id}", r.handler.Get)
}
