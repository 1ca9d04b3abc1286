package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
)

type channelsStub map[uuid.UUID]*matchent.Match

func (s channelsStub) GetByChatID(_ context.Context, chatID uuid.UUID) (*matchent.Match, error) {
	m, ok := s[chatID]
	if !ok {
		return nil, matcherrors.ErrMatchNotFound
	}
	return m, nil
}

func TestCheck(t *testing.T) {
	creator, participant, stranger := uuid.New(), uuid.New(), uuid.New()
	chatID := uuid.New()
	blocker := creator.String()

	mutual := &matchent.Match{Creator: creator, Participant: participant, Mutual: true, ChatID: &chatID}
	blocked := &matchent.Match{Creator: creator, Participant: participant, Mutual: true, ChatID: &chatID, ChatBlock: &blocker}
	pending := &matchent.Match{Creator: creator, Participant: participant}

	tests := []struct {
		name   string
		match  *matchent.Match
		user   uuid.UUID
		mode   Mode
		policy Policy
		want   error
	}{
		{"party writes", mutual, participant, Write, Policy{}, nil},
		{"party reads", mutual, creator, Read, Policy{}, nil},
		{"stranger reads", mutual, stranger, Read, Policy{}, ErrNotParticipant},
		{"no channel", pending, creator, Read, Policy{}, ErrChannelNotFound},
		{"nil record", nil, creator, Read, Policy{}, ErrChannelNotFound},
		{"blocked write", blocked, participant, Write, Policy{RetainHistoryOnBlock: true}, ErrChannelBlocked},
		{"blocked read retained", blocked, participant, Read, Policy{RetainHistoryOnBlock: true}, nil},
		{"blocked read revoked", blocked, creator, Read, Policy{}, ErrChannelBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.match, tt.user, tt.mode, tt.policy)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGate_Authorize(t *testing.T) {
	creator, participant := uuid.New(), uuid.New()
	chatID := uuid.New()
	gate := NewGate(channelsStub{
		chatID: {Creator: creator, Participant: participant, Mutual: true, ChatID: &chatID},
	}, Policy{})
	ctx := context.Background()

	m, err := gate.Authorize(ctx, chatID, participant, Write)
	require.NoError(t, err)
	assert.Equal(t, creator, m.Creator)

	_, err = gate.Authorize(ctx, chatID, uuid.New(), Read)
	var authErr *pkgerrors.AuthorizationError
	assert.ErrorAs(t, err, &authErr)

	_, err = gate.Authorize(ctx, uuid.New(), creator, Read)
	var notFound *pkgerrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.ErrorIs(t, err, ErrChannelNotFound)

	ok, err := gate.CanRead(ctx, uuid.New(), creator)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = gate.CanWrite(ctx, chatID, creator)
	require.NoError(t, err)
	assert.True(t, ok)
}
