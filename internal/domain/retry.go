package domain

import (
	"context"
	"errors"

	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/retry"
)

// RetryOnConflict runs work again while it fails with ErrConflict. onRetry, if set,
// is called before every repeated attempt. A conflict that outlives the policy is
// returned as a ConflictError.
func RetryOnConflict(ctx context.Context, p retry.Policy, onRetry func(), work func(ctx context.Context) error) error {
	attempts := 0
	err := retry.Do(ctx, p, []error{ErrConflict}, func(ctx context.Context) error {
		if attempts > 0 && onRetry != nil {
			onRetry()
		}
		attempts++
		return work(ctx)
	})
	if errors.Is(err, ErrConflict) {
		return pkgerrors.NewConflictErrorf("gave up after %d attempts: %w", attempts, err)
	}
	return err
}
