// Package retry re-runs reads that failed with a transient (Unavailable)
// failure. Any other failure is returned on the first attempt.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

// Policy configures the retry loop. The wait before retry n is Delay*n.
type Policy struct {
	Attempts int
	Delay    time.Duration
	// Timer replaces the wall-clock timer, mainly for tests.
	Timer backoff.Timer
}

// DefaultPolicy retries up to three attempts with a one second linear step.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

// Reconnector resets connection state between attempts.
type Reconnector func(ctx context.Context) error

// Do runs op until it succeeds, fails with a non-transient error, or the
// attempt budget is spent. reconnect (optional) runs before every retry; its
// own failure does not stop the loop.
func Do[T any](ctx context.Context, policy Policy, reconnect Reconnector, op func(context.Context) (T, error)) (T, error) {
	policy = policy.normalized()
	var result T
	operation := func() error {
		value, err := op(ctx)
		if err == nil {
			result = value
			return nil
		}
		if failure.Is(err, failure.Unavailable) {
			return err
		}
		return backoff.Permanent(err)
	}
	schedule := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: policy.Delay}, uint64(policy.Attempts-1)),
		ctx,
	)
	notify := func(error, time.Duration) {
		if reconnect != nil {
			_ = reconnect(ctx)
		}
	}
	if err := backoff.RetryNotifyWithTimer(operation, schedule, notify, policy.Timer); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (p Policy) normalized() Policy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// linearBackOff waits step, 2*step, 3*step, ...
type linearBackOff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.step * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() { b.attempt = 0 }
