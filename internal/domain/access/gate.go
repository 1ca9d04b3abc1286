// Package access decides who may read or write a chat channel.
//
// A channel is usable only while its match record is mutual. Writes additionally
// require the record to be unblocked. Reads after a block are governed by Policy.
// Block state is always read from storage; nothing is cached between calls.
package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrNotParticipant  = errors.New("user is not a participant of the channel")
	ErrChannelBlocked  = errors.New("channel is blocked")
	ErrChannelInactive = errors.New("channel is not active")
)

// Policy holds the read-after-block choice.
type Policy struct {
	RetainHistoryOnBlock bool
}

// Mode is the kind of access being requested.
type Mode int

const (
	Read Mode = iota
	Write
)

func check(m *matchent.Match, user uuid.UUID, mode Mode, p Policy) error {
	if m == nil || m.ChatID == nil {
		return ErrChannelNotFound
	}
	if !m.HasParty(user) {
		return ErrNotParticipant
	}
	if !m.Mutual {
		return ErrChannelInactive
	}
	if m.ChatBlock != nil && (mode == Write || !p.RetainHistoryOnBlock) {
		return ErrChannelBlocked
	}
	return nil
}

// Check returns a typed error explaining why access is refused, or nil.
func Check(m *matchent.Match, user uuid.UUID, mode Mode, p Policy) error {
	err := check(m, user, mode, p)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrChannelNotFound):
		return pkgerrors.NewNotFoundErrorf("%w", err)
	default:
		return pkgerrors.NewAuthorizationErrorf("%w", err)
	}
}

// ChannelReader loads the match record owning a channel.
type ChannelReader interface {
	GetByChatID(ctx context.Context, chatID uuid.UUID) (*matchent.Match, error)
}

// Gate answers access questions against current storage state.
type Gate struct {
	channels ChannelReader
	policy   Policy
}

func NewGate(channels ChannelReader, policy Policy) *Gate {
	return &Gate{channels: channels, policy: policy}
}

// CanWrite reports whether user may append to chatID now. A missing channel is false.
func (g *Gate) CanWrite(ctx context.Context, chatID, user uuid.UUID) (bool, error) {
	return g.can(ctx, chatID, user, Write)
}

func (g *Gate) CanRead(ctx context.Context, chatID, user uuid.UUID) (bool, error) {
	return g.can(ctx, chatID, user, Read)
}

func (g *Gate) can(ctx context.Context, chatID, user uuid.UUID, mode Mode) (bool, error) {
	m, err := g.load(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			return false, nil
		}
		return false, err
	}
	return check(m, user, mode, g.policy) == nil, nil
}

// Authorize loads the channel and returns it when user has the requested access.
// Refusals are AuthorizationError, a missing channel is NotFoundError.
func (g *Gate) Authorize(ctx context.Context, chatID, user uuid.UUID, mode Mode) (*matchent.Match, error) {
	m, err := g.load(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			return nil, pkgerrors.NewNotFoundErrorf("chat %s: %w", chatID, err)
		}
		return nil, err
	}
	if err := Check(m, user, mode, g.policy); err != nil {
		return nil, err
	}
	return m, nil
}

func (g *Gate) load(ctx context.Context, chatID uuid.UUID) (*matchent.Match, error) {
	m, err := g.channels.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, matcherrors.ErrMatchNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	return m, nil
}
