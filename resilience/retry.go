package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls Retry.
type RetryConfig struct {
	// Attempts is the total number of calls, including the first one.
	Attempts int
	// InitialBackoff is the delay before the second attempt; it doubles per attempt.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Jitter randomizes each delay by up to this fraction (0..1).
	Jitter float64
	// Retryable decides whether an error is worth another attempt. Nil retries nothing.
	Retryable func(error) bool
}

// DefaultRetryConfig mirrors the backoff of the original api client: 150ms doubling.
func DefaultRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		Attempts:       attempts,
		InitialBackoff: 150 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Jitter:         0.2,
	}
}

// Backoff returns the delay before attempt n (0-indexed retry number).
func (c RetryConfig) Backoff(n int) time.Duration {
	d := time.Duration(float64(c.InitialBackoff) * math.Pow(2, float64(n)))
	if c.MaxBackoff > 0 && (d > c.MaxBackoff || d <= 0) {
		d = c.MaxBackoff
	}
	if c.Jitter > 0 {
		factor := 1 + (rand.Float64()*2-1)*math.Min(c.Jitter, 1)
		d = time.Duration(float64(d) * factor)
	}
	return d
}

// Retry calls fn until it succeeds, returns a non-retryable error, the
// attempts are exhausted or ctx is done. The last error is returned.
func Retry(ctx context.Context, config RetryConfig, fn func(attempt int) error) error {
	attempts := max(config.Attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(i); err == nil {
			return nil
		}
		if i == attempts-1 || config.Retryable == nil || !config.Retryable(err) {
			return err
		}
		timer := time.NewTimer(config.Backoff(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
