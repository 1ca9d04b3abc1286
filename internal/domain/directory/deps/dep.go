package deps

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, uid uuid.UUID) (*entities.User, error)
	// TouchLastSeen sets last_online; returns ErrUserNotFound when no row matched.
	TouchLastSeen(ctx context.Context, uid uuid.UUID, at time.Time) error
}

type DirectoryUseCase interface {
	Register(ctx context.Context, profile entities.Profile) (uuid.UUID, error)
	Get(ctx context.Context, uid uuid.UUID) (*entities.User, error)
	TouchLastSeen(ctx context.Context, uid uuid.UUID) error
}
