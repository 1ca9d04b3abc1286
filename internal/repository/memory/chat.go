package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	chatdeps "github.com/radu-bors/Clique-backend/internal/domain/chat/deps"
	chatent "github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
)

var errDuplicateMessage = errors.New("message with this timestamp already exists")

// ChatRepository implements the chat repository contract.
type ChatRepository struct {
	store *Store
}

func (r *ChatRepository) Transaction(ctx context.Context, fn func(tx chatdeps.ChatTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.transaction(func(t *tables) error {
		return fn(&chatTx{t: t})
	})
}

func (r *ChatRepository) ListPage(ctx context.Context, chatID uuid.UUID, from time.Time, inclusive bool, limit int) ([]chatent.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []chatent.Message
	r.store.read(func(t *tables) {
		msgs := t.chats[chatID]
		start := sort.Search(len(msgs), func(i int) bool {
			if inclusive {
				return !msgs[i].Datetime.Before(from)
			}
			return msgs[i].Datetime.After(from)
		})
		end := len(msgs)
		if limit > 0 && start+limit < end {
			end = start + limit
		}
		out = append(out, msgs[start:end]...)
	})
	return out, nil
}

type chatTx struct {
	t *tables
}

func (tx *chatTx) LockChannel(chatID uuid.UUID) (*matchent.Match, error) {
	key, ok := tx.t.chatIndex[chatID]
	if !ok {
		return nil, matcherrors.ErrMatchNotFound
	}
	return copyMatch(tx.t.matches[key]), nil
}

func (tx *chatTx) LastTimestamp(chatID uuid.UUID) (time.Time, error) {
	msgs := tx.t.chats[chatID]
	if len(msgs) == 0 {
		return time.Time{}, nil
	}
	return msgs[len(msgs)-1].Datetime, nil
}

func (tx *chatTx) Insert(msg *chatent.Message) error {
	return insertMessage(tx.t, *msg)
}

func insertMessage(t *tables, msg chatent.Message) error {
	msgs := t.chats[msg.ChatID]
	i := sort.Search(len(msgs), func(i int) bool { return !msgs[i].Datetime.Before(msg.Datetime) })
	if i < len(msgs) && msgs[i].Datetime.Equal(msg.Datetime) {
		return fmt.Errorf("chat %s at %s: %w", msg.ChatID, msg.Datetime.Format(time.RFC3339Nano), errDuplicateMessage)
	}

	msgs = append(msgs, chatent.Message{})
	copy(msgs[i+1:], msgs[i:])
	msgs[i] = msg
	t.chats[msg.ChatID] = msgs
	return nil
}
