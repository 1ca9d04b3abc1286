package deps

import (
	"context"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entities.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error)
	List(ctx context.Context) ([]entities.Activity, error)
}

type CatalogUseCase interface {
	List(ctx context.Context) ([]entities.Activity, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Activity, error)
	Add(ctx context.Context, name string) (*entities.Activity, error)
}
