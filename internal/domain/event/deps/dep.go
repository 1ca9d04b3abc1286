package deps

import (
	"context"
	"iter"

	"github.com/google/uuid"
	catent "github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	"github.com/radu-bors/Clique-backend/internal/domain/event/entities"
)

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	// Close flips is_open to false and reports whether the row changed.
	Close(ctx context.Context, id uuid.UUID) (bool, error)
	// StreamOpen yields open events matching q; each range re-runs the query.
	StreamOpen(ctx context.Context, q entities.OpenQuery) iter.Seq2[entities.Event, error]
}

type UserReader interface {
	GetByID(ctx context.Context, uid uuid.UUID) (*dirent.User, error)
}

type ActivityReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catent.Activity, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type EventUseCase interface {
	CreateEvent(ctx context.Context, initiator, activity uuid.UUID, c entities.Constraints) (uuid.UUID, error)
	Close(ctx context.Context, eventID, requester uuid.UUID) error
	CloseByPolicy(ctx context.Context, eventID uuid.UUID) error
	Get(ctx context.Context, eventID uuid.UUID) (*entities.Event, error)
	FindOpen(ctx context.Context, criteria entities.FilterCriteria) (iter.Seq2[entities.Event, error], error)
}
