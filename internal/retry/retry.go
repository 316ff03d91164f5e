// Package retry runs an operation with bounded retries and exponential
// backoff. It never swallows or rewrites failures: on exhaustion the
// last error is returned as-is so callers can still classify it with
// errors.Is/As.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config configures retry behavior. MaxRetries counts additional
// attempts after the first one, so MaxRetries=3 means up to 4 calls.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     bool
}

// DefaultConfig provides sensible defaults for outbound LLM calls.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     true,
	}
}

// Do invokes fn, retrying on failure with delay BaseDelay * 2^attempt
// (capped at MaxDelay, plus up to one second of jitter when enabled).
// The context is honored both between attempts and, via fn itself,
// during them. The last error is returned unchanged once retries are
// exhausted.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxRetries {
			break
		}

		delay := cfg.BaseDelay << uint(attempt)
		if delay > cfg.MaxDelay || delay <= 0 {
			delay = cfg.MaxDelay
		}
		if cfg.Jitter {
			delay += time.Duration(rand.Int63n(int64(time.Second)))
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
