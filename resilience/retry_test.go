package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		Attempts:       attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Retryable:      func(err error) bool { return errors.Is(err, errRemote) },
	}
}

func TestRetry_Success(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(3), func(int) error {
		calls++
		if calls < 2 {
			return errRemote
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_AttemptsExhausted(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(3), func(int) error {
		calls++
		return errRemote
	})
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, 3, calls)
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	other := errors.New("bad request")
	calls := 0
	err := Retry(context.Background(), fastRetry(5), func(int) error {
		calls++
		return other
	})
	assert.ErrorIs(t, err, other)
	assert.Equal(t, 1, calls)
}

func TestRetry_SingleAttemptByDefault(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), RetryConfig{}, func(int) error {
		calls++
		return errRemote
	})
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastRetry(5)
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour
	calls := 0
	err := Retry(ctx, cfg, func(int) error {
		calls++
		cancel()
		return errRemote
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, cfg.Backoff(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Backoff(1))
	assert.Equal(t, 300*time.Millisecond, cfg.Backoff(2))
}
