package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate/flowstate"
	"github.com/flowstate/flowstate/retry"
)

func fastConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.Backoff.Min = time.Millisecond
	cfg.Backoff.Max = 5 * time.Millisecond
	return cfg
}

func TestWithRetry_SucceedsWithoutRetrying(t *testing.T) {
	calls := 0
	err := retry.WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RetriesOnUnexpectedVersion(t *testing.T) {
	calls := 0
	err := retry.WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return flowstate.NewUnexpectedVersionError("Widget", "a", 1, 2)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := retry.WithRetry(context.Background(), fastConfig(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsAtMaxAttempts(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 2

	calls := 0
	err := retry.WithRetry(context.Background(), cfg, func() error {
		calls++
		return flowstate.NewUnexpectedVersionError("Widget", "a", 1, 2)
	})
	assert.ErrorIs(t, err, flowstate.ErrUnexpectedVersion)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_StopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.Backoff.Min = 50 * time.Millisecond
	cfg.Backoff.Max = 50 * time.Millisecond

	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := retry.WithRetry(ctx, cfg, func() error {
		calls++
		return flowstate.NewUnexpectedVersionError("Widget", "a", 1, 2)
	})
	assert.ErrorIs(t, err, context.Canceled)
}
