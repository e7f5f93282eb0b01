package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Only errors in tests
	}))
}

func testConfig() Config {
	return Config{
		MaxAttempts:   3,
		BaseDelay:     1 * time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}
}

func TestRetrier_Do(t *testing.T) {
	tests := map[string]struct {
		operation     func() func() error
		retryable     bool
		expectedCalls int
		wantErr       bool
	}{
		"success on first attempt": {
			operation:     func() func() error { return func() error { return nil } },
			retryable:     true,
			expectedCalls: 1,
			wantErr:       false,
		},
		"success on second attempt": {
			operation: func() func() error {
				attempt := 0
				return func() error {
					attempt++
					if attempt == 1 {
						return errors.New("temporary error")
					}
					return nil
				}
			},
			retryable:     true,
			expectedCalls: 2,
			wantErr:       false,
		},
		"failure after max attempts": {
			operation: func() func() error {
				return func() error { return errors.New("temporary error") }
			},
			retryable:     true,
			expectedCalls: 3,
			wantErr:       true,
		},
		"non-retryable error fails immediately": {
			operation: func() func() error {
				return func() error { return errors.New("permanent error") }
			},
			retryable:     false,
			expectedCalls: 1,
			wantErr:       true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			calls := 0
			op := tc.operation()
			wrapped := func() error {
				calls++
				return op()
			}

			classifier := func(error) bool { return tc.retryable }
			retrier := NewRetrier(testConfig(), classifier, testLogger())

			err := retrier.Do(context.Background(), wrapped)

			assert.Equal(t, tc.expectedCalls, calls)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetrier_Do_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	config := Config{
		MaxAttempts:   5,
		BaseDelay:     1 * time.Hour, // would block without cancellation
		MaxDelay:      2 * time.Hour,
		BackoffFactor: 2.0,
	}
	retrier := NewRetrier(config, func(error) bool { return true }, testLogger())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := retrier.Do(ctx, func() error { return errors.New("always fails") })
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_Delay(t *testing.T) {
	config := Config{
		MaxAttempts:   5,
		BaseDelay:     100 * time.Millisecond,
		MaxDelay:      1 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0, // deterministic for the test
	}

	assert.Equal(t, 100*time.Millisecond, config.Delay(1))
	assert.Equal(t, 200*time.Millisecond, config.Delay(2))
	assert.Equal(t, 400*time.Millisecond, config.Delay(3))
	// Capped at MaxDelay.
	assert.Equal(t, 1*time.Second, config.Delay(10))
}

func TestConfig_Delay_JitterBounds(t *testing.T) {
	config := Config{
		BaseDelay:     100 * time.Millisecond,
		MaxDelay:      1 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.4,
	}

	for i := 0; i < 100; i++ {
		d := config.Delay(1)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}

type codedErr struct{ status int }

func (e *codedErr) Error() string   { return fmt.Sprintf("HTTP %d", e.status) }
func (e *codedErr) HTTPStatus() int { return e.status }

func TestIsRetryable(t *testing.T) {
	tests := map[string]struct {
		err  error
		want bool
	}{
		"nil error":              {err: nil, want: false},
		"context cancelled":      {err: context.Canceled, want: false},
		"deadline exceeded":      {err: context.DeadlineExceeded, want: true},
		"wrapped deadline":       {err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: true},
		"http 500":               {err: &codedErr{status: 500}, want: true},
		"http 429":               {err: &codedErr{status: 429}, want: true},
		"http 404":               {err: &codedErr{status: 404}, want: false},
		"http 400":               {err: &codedErr{status: 400}, want: false},
		"plain error":            {err: errors.New("boom"), want: false},
		"wrapped http 503":       {err: fmt.Errorf("generate: %w", &codedErr{status: 503}), want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}
