package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Retry runs call until it succeeds, retry reports the error as permanent,
// or cfg.MaxAttempts is reached. Waits between attempts follow cfg.Delay and
// are cut short by ctx.
func Retry[T any](ctx context.Context, cfg RetryConfig, retry func(error) bool, call func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := range attempts {
		v, err := call(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if !retry(err) || attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.Delay(attempt, err)):
		}
	}
	return zero, lastErr
}

// Delay is the wait before retry number attempt+1: exponential growth capped
// at MaxWait with ±20% jitter. A rate limit carrying RetryAfter wins.
func (c RetryConfig) Delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxWait > 0 && wait > float64(c.MaxWait) {
		wait = float64(c.MaxWait)
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}

// Transient reports whether err is worth another attempt on its own:
// rate limits and provider outages.
func Transient(err error) bool {
	var rl *ErrRateLimit
	var unavail *ErrProviderUnavailable
	return errors.As(err, &rl) || errors.As(err, &unavail)
}

// RetryProvider retries Generate calls on transient failures.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidRetried := false
	return Retry(ctx, r.config, func(err error) bool {
		return r.shouldRetry(err, &invalidRetried)
	}, func(ctx context.Context) (*Response, error) {
		return r.inner.Generate(ctx, req)
	})
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry is broader than Transient: unknown errors (network) are
// retried, and a malformed response gets exactly one more try.
func (r *RetryProvider) shouldRetry(err error, invalidRetried *bool) bool {
	var auth *ErrAuth
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &auth) || errors.As(err, &maxTok) {
		return false
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}
	return true
}
