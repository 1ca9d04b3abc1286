package logger

import (
	"github.com/radu-bors/Clique-backend/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"logger",
	fx.Provide(NewLogger),
)

func NewLogger(cfg *config.LoggingConfig, service *config.ServiceConfig) zerolog.Logger {
	return New(cfg.Level).With().Str("service", service.Name).Logger()
}
