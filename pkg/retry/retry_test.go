package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Retries: 3, Backoff: time.Millisecond}, []error{errTransient},
		func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_Exhausted(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Retries: 2, Backoff: time.Millisecond}, []error{errTransient},
		func(ctx context.Context) error {
			calls++
			return errTransient
		})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDo_DoesNotRetryOtherErrors(t *testing.T) {
	other := errors.New("permanent")
	calls := 0
	err := Do(context.Background(), Policy{Retries: 5, Backoff: time.Millisecond}, []error{errTransient},
		func(ctx context.Context) error {
			calls++
			return other
		})

	assert.ErrorIs(t, err, other)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{}, []error{errTransient}, func(ctx context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}
