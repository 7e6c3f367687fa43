package critique

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panbanda/docaudit/pkg/models"
)

// RetryPolicy bounds how often a critique request is attempted.
type RetryPolicy struct {
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; it doubles for each
	// attempt after that.
	BaseDelay time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryPolicy returns three attempts with a one second base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay * time.Duration(1<<(attempt-1))
}

// WithRetry wraps next so that failed requests are retried per policy.
// Permanent transport errors and context cancellation stop immediately.
func WithRetry(next Critic, policy RetryPolicy) Critic {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay < 0 {
		policy.BaseDelay = 0
	}
	if policy.Sleep == nil {
		policy.Sleep = sleep
	}
	return &retrying{next: next, policy: policy}
}

type retrying struct {
	next   Critic
	policy RetryPolicy
}

func (r *retrying) Critique(ctx context.Context, block string) (models.Critique, error) {
	var last error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		c, err := r.next.Critique(ctx, block)
		if err == nil {
			return c, nil
		}
		if IsPermanent(err) {
			return models.Critique{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.Critique{}, ctxErr
		}
		last = err
		if attempt == r.policy.MaxAttempts {
			break
		}

		delay := r.policy.Delay(attempt)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(attempt, err, delay)
		}
		if err := r.policy.Sleep(ctx, delay); err != nil {
			return models.Critique{}, err
		}
	}
	return models.Critique{}, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, r.policy.MaxAttempts, last)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsRetriesExhausted reports whether err came from a policy running out of attempts.
func IsRetriesExhausted(err error) bool {
	return errors.Is(err, ErrRetriesExhausted)
}
