package deps

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/radu-bors/Clique-backend/internal/domain/access"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/dto"
	"github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
)

type ChatRepository interface {
	Transaction(ctx context.Context, fn func(tx ChatTx) error) error
	// ListPage returns up to limit messages of the channel ordered by datetime,
	// starting at from (inclusive) or right after it (exclusive).
	ListPage(ctx context.Context, chatID uuid.UUID, from time.Time, inclusive bool, limit int) ([]entities.Message, error)
}

// ChatTx is the repository bound to one open transaction.
type ChatTx interface {
	// LockChannel returns the match record owning chatID and holds it until commit,
	// serializing appends and blocks on the same channel.
	LockChannel(chatID uuid.UUID) (*matchent.Match, error)
	// LastTimestamp returns the zero time when the channel has no messages.
	LastTimestamp(chatID uuid.UUID) (time.Time, error)
	Insert(msg *entities.Message) error
}

type Gate interface {
	Authorize(ctx context.Context, chatID, user uuid.UUID, mode access.Mode) (*matchent.Match, error)
	CanRead(ctx context.Context, chatID, user uuid.UUID) (bool, error)
	CanWrite(ctx context.Context, chatID, user uuid.UUID) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type ChatUseCase interface {
	Append(ctx context.Context, chatID, sender, recipient uuid.UUID, text string) (*entities.Receipt, error)
	ReadFrom(ctx context.Context, chatID, reader uuid.UUID, since time.Time) (iter.Seq2[entities.Message, error], error)
	Access(ctx context.Context, chatID, user uuid.UUID) (*dto.ChannelAccess, error)
}
