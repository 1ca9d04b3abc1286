// Package retry runs idempotent work again when it fails with a retryable error.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/eapache/go-resiliency/retrier"
)

// Policy bounds how often and how fast work is retried.
type Policy struct {
	// Retries is the number of attempts after the first one.
	Retries int
	// Backoff is the first wait; subsequent waits double.
	Backoff time.Duration
}

// OnlyErrors retries when the failure matches one of the targets via errors.Is.
type OnlyErrors []error

func (o OnlyErrors) Classify(err error) retrier.Action {
	if err == nil {
		return retrier.Succeed
	}
	for _, target := range o {
		if errors.Is(err, target) {
			return retrier.Retry
		}
	}
	return retrier.Fail
}

// Do runs work until it succeeds, fails with an error outside retryable,
// or the policy is exhausted. The last error is returned as is.
func Do(ctx context.Context, p Policy, retryable []error, work func(ctx context.Context) error) error {
	var backoff []time.Duration
	if p.Retries > 0 {
		backoff = retrier.ExponentialBackoff(p.Retries, p.Backoff)
	}

	r := retrier.New(backoff, OnlyErrors(retryable))
	r.SetJitter(0.25)

	return r.RunCtx(ctx, work)
}
