package deps

import (
	"context"

	"github.com/google/uuid"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
)

type MatchRepository interface {
	// Transaction runs fn atomically. Either everything fn wrote commits or nothing does.
	Transaction(ctx context.Context, fn func(tx MatchTx) error) error
	GetByKey(ctx context.Context, key entities.Key) (*entities.Match, error)
	GetByChatID(ctx context.Context, chatID uuid.UUID) (*entities.Match, error)
	ListByUser(ctx context.Context, user uuid.UUID) ([]entities.Match, error)
}

// MatchTx is the repository bound to one open transaction.
type MatchTx interface {
	// Lock serializes transactions on the same key until commit, whether or not
	// a record exists yet. Every transaction calls it first.
	Lock(key entities.Key) error
	// InsertOrGet stores a pending record unless one exists for the key and
	// returns the stored record locked until commit. created is false when
	// another transaction inserted it first.
	InsertOrGet(key entities.Key) (m *entities.Match, created bool, err error)
	// GetForUpdate returns ErrMatchNotFound when no record exists.
	GetForUpdate(key entities.Key) (*entities.Match, error)
	// Promote sets match=true and chat_id on a pending, unblocked record.
	Promote(key entities.Key, chatID uuid.UUID) error
	// Block sets chat_block on a record that is not blocked yet.
	Block(key entities.Key, by uuid.UUID) error
	HasInvite(key entities.Key) (bool, error)
	AddInvite(key entities.Key) error
}

type EventReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*evtent.Event, error)
}

type UserReader interface {
	GetByID(ctx context.Context, uid uuid.UUID) (*dirent.User, error)
}

// EventCloser closes events under the close-on-match policy.
type EventCloser interface {
	CloseByPolicy(ctx context.Context, eventID uuid.UUID) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type MatchingUseCase interface {
	ExpressInterest(ctx context.Context, eventID, participant uuid.UUID) (entities.Outcome, error)
	Reciprocate(ctx context.Context, eventID, participant, creator, caller uuid.UUID) (entities.Outcome, error)
	Invite(ctx context.Context, eventID, participant, creator, caller uuid.UUID) (entities.Outcome, error)
	Block(ctx context.Context, eventID, creator, participant, by uuid.UUID) (entities.Outcome, error)
	Get(ctx context.Context, key entities.Key) (entities.Outcome, error)
	ListForUser(ctx context.Context, user uuid.UUID) ([]entities.Match, error)
}
