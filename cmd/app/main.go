package main

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/radu-bors/Clique-backend/config"
	"github.com/radu-bors/Clique-backend/internal/app"
)

func main() {
	fx.New(
		app.CreateApp(),
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	service *config.ServiceConfig,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().
				Str("port", service.Port).
				Str("grpc_port", service.GRPCPort).
				Msg("Clique backend initialized successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Clique backend stopped")
			return nil
		},
	})
}
