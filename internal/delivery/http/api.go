package http

import (
	"github.com/rs/zerolog"

	"github.com/radu-bors/Clique-backend/config"
	dirdeps "github.com/radu-bors/Clique-backend/internal/domain/directory/deps"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/http/server"
	"github.com/radu-bors/Clique-backend/pkg/httputil"
)

// APIPrefix is the mount point of every authenticated route
const APIPrefix = "/api/v1"

// NewAuthenticator verifies tokens issued by the auth service and records
// last-seen in the user directory.
func NewAuthenticator(cfg *config.AuthConfig, users dirdeps.DirectoryUseCase, logger zerolog.Logger) *httputil.Authenticator {
	return httputil.NewAuthenticator(cfg.JWTSecret, cfg.Issuer, users, logger)
}

// NewSendLimiter limits chat sends per user
func NewSendLimiter(cfg *config.ChatConfig) *httputil.RateLimiter {
	return httputil.NewRateLimiter(cfg.SendRate, cfg.SendBurst)
}

// NewAPI mounts the authenticated route group on the server
func NewAPI(srv *server.Server, auth *httputil.Authenticator) *httputil.MiddlewareGroup {
	return httputil.NewMiddlewareGroup(srv.Router.Group(APIPrefix)).Use(auth.Middleware())
}
