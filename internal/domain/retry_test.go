package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/retry"
)

func TestRetryOnConflict_Exhausted(t *testing.T) {
	calls, retries := 0, 0
	err := RetryOnConflict(context.Background(), retry.Policy{Retries: 2}, func() { retries++ }, func(ctx context.Context) error {
		calls++
		return ErrConflict
	})

	var conflict *pkgerrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetryOnConflict_RecoversAndPassesOtherErrors(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), retry.Policy{Retries: 3}, nil, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return ErrConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	boom := errors.New("boom")
	err = RetryOnConflict(context.Background(), retry.Policy{Retries: 3}, nil, func(ctx context.Context) error {
		return boom
	})
	assert.Same(t, boom, err)
}
