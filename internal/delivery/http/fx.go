package http

import (
	"github.com/radu-bors/Clique-backend/internal/infrastructure/http/server"
	"go.uber.org/fx"
)

// Module provides the shared HTTP delivery components for fx DI
var Module = fx.Module("delivery",
	fx.Provide(
		NewAuthenticator,
		NewSendLimiter,
		NewAPI,
		NewHealthHandler,
		NewRouter,
	),
	fx.Invoke(registerRoutes),
)

// registerRoutes registers service routes on the server
func registerRoutes(srv *server.Server, router *Router) {
	router.RegisterRoutes(srv.Router)
}
