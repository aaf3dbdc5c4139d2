package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("busy")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAtMaxAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("busy")
	err := Do(context.Background(), fastConfig(2), func() error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentErrorIsNotRetried(t *testing.T) {
	calls := 0
	sentinel := errors.New("bad request")
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return Permanent(sentinel)
	})

	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(3), func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithLog_ReportsRetriesAndPrefixesErrors(t *testing.T) {
	var attempts []int
	sentinel := errors.New("busy")
	err := DoWithLog(context.Background(), fastConfig(3), "overpass", func() error {
		return sentinel
	}, func(attempt int, err error, nextDelay time.Duration) {
		attempts = append(attempts, attempt)
		assert.Positive(t, nextDelay)
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "overpass: max retry attempts (3) exceeded")
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDoWithLog_PermanentErrorIsReturnedUnwrapped(t *testing.T) {
	sentinel := errors.New("bad request")
	err := DoWithLog(context.Background(), fastConfig(3), "overpass", func() error {
		return Permanent(sentinel)
	}, nil)

	assert.Equal(t, sentinel, err)
}

func TestNextDelay_IsCapped(t *testing.T) {
	cfg := fastConfig(3)
	assert.Equal(t, 2*time.Millisecond, nextDelay(time.Millisecond, cfg))
	assert.Equal(t, 5*time.Millisecond, nextDelay(4*time.Millisecond, cfg))
}
