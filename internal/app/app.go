package app

import (
	"go.uber.org/fx"

	"github.com/radu-bors/Clique-backend/config"
	delivery "github.com/radu-bors/Clique-backend/internal/delivery/http"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog"
	"github.com/radu-bors/Clique-backend/internal/domain/chat"
	"github.com/radu-bors/Clique-backend/internal/domain/directory"
	"github.com/radu-bors/Clique-backend/internal/domain/event"
	"github.com/radu-bors/Clique-backend/internal/domain/matching"
	"github.com/radu-bors/Clique-backend/internal/infrastructure"
)

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		infrastructure.Module,
		delivery.Module, // Mounts /api/v1; depends on the directory use case for last-seen
		// Domain modules
		directory.Module,
		catalog.Module,
		event.Module,
		matching.Module, // Closes events through the event use case
		chat.Module,     // Reads channel ownership from the match repository
	)
}
