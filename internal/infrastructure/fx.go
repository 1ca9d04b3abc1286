package infrastructure

import (
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	grpcfx "github.com/radu-bors/Clique-backend/internal/infrastructure/grpc"
	httpfx "github.com/radu-bors/Clique-backend/internal/infrastructure/http"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/kafka"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/logger"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/metrics"
	"go.uber.org/fx"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	metrics.Module,
	kafka.Module,
	httpfx.Module,
	grpcfx.Module,
)
