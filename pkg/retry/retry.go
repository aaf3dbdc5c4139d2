// Package retry runs upstream calls with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// LogFunc is told about each failed attempt that will be retried.
type LogFunc func(attempt int, err error, nextDelay time.Duration)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do and DoWithLog return it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do executes fn until it succeeds, returns a Permanent error, or attempts run out.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	err := run(ctx, cfg, fn, nil)
	if inner, ok := permanent(err); ok {
		return inner
	}
	return err
}

// DoWithLog is Do with errors prefixed by serviceName and logFn called between attempts.
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn LogFunc) error {
	err := run(ctx, cfg, fn, logFn)
	if err == nil {
		return nil
	}
	if inner, ok := permanent(err); ok {
		return inner
	}
	return fmt.Errorf("%s: %w", serviceName, err)
}

func permanent(err error) (error, bool) {
	var perm *permanentError
	if errors.As(err, &perm) {
		return perm.err, true
	}
	return err, false
}

func run(ctx context.Context, cfg Config, fn func() error, logFn LogFunc) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	delay := cfg.InitialDelay
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return aborted(attempt-1, err, lastErr)
		}

		err := fn()
		if err == nil {
			return nil
		}
		if _, ok := permanent(err); ok {
			return err
		}
		lastErr = err

		if attempt >= attempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", attempts, lastErr)
		}
		if logFn != nil {
			logFn(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return aborted(attempt, ctx.Err(), lastErr)
		case <-timer.C:
		}
		delay = nextDelay(delay, cfg)
	}
}

func nextDelay(current time.Duration, cfg Config) time.Duration {
	next := time.Duration(float64(current) * cfg.BackoffFactor)
	if cfg.MaxDelay > 0 && next > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return next
}

func aborted(attempts int, ctxErr, lastErr error) error {
	if lastErr == nil {
		return fmt.Errorf("retry aborted: %w", ctxErr)
	}
	return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempts, ctxErr, lastErr)
}
