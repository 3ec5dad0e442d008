// Package retry provides the retry loop spec §5 assigns to the caller of
// aggregate.Runtime.ApplyCommand: "on ErrUnexpectedVersion, the caller
// retries from step 1" (reload, reapply, reappend). It is grounded on
// looplab/eventhorizon's repo/version.Repo, which retries a read against
// the same jpillora/backoff schedule keyed on a specific retryable error.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/jpillora/backoff"

	"github.com/flowstate/flowstate"
)

// Config configures WithRetry. The zero value is not valid; use
// DefaultConfig.
type Config struct {
	// Backoff is copied before use, so the same Config can seed many
	// independent retry loops.
	Backoff backoff.Backoff
	// MaxAttempts caps how many times fn is called, including the first.
	// 0 means unlimited (bounded only by ctx).
	MaxAttempts int
}

// DefaultConfig returns a modest exponential backoff (10ms up to 1s) with
// no attempt limit.
func DefaultConfig() Config {
	return Config{
		Backoff: backoff.Backoff{Min: 10 * time.Millisecond, Max: time.Second, Factor: 2},
	}
}

// WithRetry calls fn, retrying with exponential backoff as long as fn's
// error is flowstate.ErrUnexpectedVersion (an optimistic concurrency
// conflict — spec §4.4's expected, retryable outcome of a racing writer).
// Any other error, or reaching cfg.MaxAttempts, stops the loop immediately
// and returns fn's last error; ctx cancellation during a backoff wait stops
// it and returns ctx.Err().
func WithRetry(ctx context.Context, cfg Config, fn func() error) error {
	b := cfg.Backoff
	b.Reset()

	attempt := 0
	for {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, flowstate.ErrUnexpectedVersion) {
			return err
		}
		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return err
		}

		select {
		case <-time.After(b.Duration()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
