package http

import (
	"github.com/rs/zerolog"

	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// Router registers matching routes
type Router struct {
	handler *MatchHandler
	logger  zerolog.Logger
}

// NewRouter creates a new matching router
func NewRouter(handler *MatchHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers matching routes on the authenticated API group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.POST("/events/{id}/interest", r.handler.ExpressInterest)

	api.GET("/events/{id}/participants/{participant}", r.handler.Get)
	api.POST("/events/{id}/participants/{participant}/reciprocate", r.handler.Reciprocate)
	api.POST("/events/{id}/participants/{participant}/invite", r.handler.Invite)
	api.POST("/events/{id}/participants/{participant}/block", r.handler.Block)

	api.GET("/matches", r.handler.List)
}
