package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	matchdeps "github.com/radu-bors/Clique-backend/internal/domain/matching/deps"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
)

// MatchRepository implements the matching repository contract.
type MatchRepository struct {
	store *Store
}

func (r *MatchRepository) Transaction(ctx context.Context, fn func(tx matchdeps.MatchTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.transaction(func(t *tables) error {
		return fn(&matchTx{t: t})
	})
}

func (r *MatchRepository) GetByKey(ctx context.Context, key matchent.Key) (*matchent.Match, error) {
	var (
		m  matchent.Match
		ok bool
	)
	r.store.read(func(t *tables) {
		m, ok = t.matches[key]
	})
	if !ok {
		return nil, matcherrors.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (r *MatchRepository) GetByChatID(ctx context.Context, chatID uuid.UUID) (*matchent.Match, error) {
	var (
		m  matchent.Match
		ok bool
	)
	r.store.read(func(t *tables) {
		var key matchent.Key
		if key, ok = t.chatIndex[chatID]; ok {
			m = t.matches[key]
		}
	})
	if !ok {
		return nil, matcherrors.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (r *MatchRepository) ListByUser(ctx context.Context, user uuid.UUID) ([]matchent.Match, error) {
	var out []matchent.Match
	r.store.read(func(t *tables) {
		for _, key := range t.matchOrder {
			if m := t.matches[key]; m.HasParty(user) {
				out = append(out, *copyMatch(m))
			}
		}
	})
	return out, nil
}

type matchTx struct {
	t *tables
}

// Lock is a no-op: the store lock already serializes transactions.
func (tx *matchTx) Lock(key matchent.Key) error {
	return nil
}

func (tx *matchTx) InsertOrGet(key matchent.Key) (*matchent.Match, bool, error) {
	if m, ok := tx.t.matches[key]; ok {
		return copyMatch(m), false, nil
	}
	m := matchent.Match{EventID: key.EventID, Creator: key.Creator, Participant: key.Participant}
	tx.t.matches[key] = m
	tx.t.matchOrder = append(tx.t.matchOrder, key)
	return copyMatch(m), true, nil
}

func (tx *matchTx) GetForUpdate(key matchent.Key) (*matchent.Match, error) {
	m, ok := tx.t.matches[key]
	if !ok {
		return nil, matcherrors.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (tx *matchTx) Promote(key matchent.Key, chatID uuid.UUID) error {
	m, ok := tx.t.matches[key]
	if !ok {
		return matcherrors.ErrMatchNotFound
	}
	if m.Mutual || m.ChatBlock != nil {
		return fmt.Errorf("promote %v: record is %s", key, m.State())
	}
	if _, taken := tx.t.chatIndex[chatID]; taken {
		return fmt.Errorf("promote %v: chat id %s already assigned", key, chatID)
	}
	m.Mutual = true
	m.ChatID = &chatID
	tx.t.matches[key] = m
	tx.t.chatIndex[chatID] = key
	return nil
}

func (tx *matchTx) Block(key matchent.Key, by uuid.UUID) error {
	m, ok := tx.t.matches[key]
	if !ok {
		return matcherrors.ErrMatchNotFound
	}
	if m.ChatBlock != nil {
		return nil
	}
	marker := by.String()
	m.ChatBlock = &marker
	tx.t.matches[key] = m
	return nil
}

func (tx *matchTx) HasInvite(key matchent.Key) (bool, error) {
	_, ok := tx.t.invites[key]
	return ok, nil
}

func (tx *matchTx) AddInvite(key matchent.Key) error {
	tx.t.invites[key] = struct{}{}
	return nil
}

// copyMatch detaches the pointer fields from the stored row.
func copyMatch(m matchent.Match) *matchent.Match {
	out := m
	if m.ChatID != nil {
		id := *m.ChatID
		out.ChatID = &id
	}
	if m.ChatBlock != nil {
		b := *m.ChatBlock
		out.ChatBlock = &b
	}
	return &out
}
