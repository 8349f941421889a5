package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetry keeps test sleeps in the low milliseconds.
func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

var errOverloaded = NewTransientError(errors.New("overloaded"), 529)

func TestDo_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		failUntil int // attempts that fail before the first success
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"first attempt succeeds", 0, nil, 1, false},
		{"transient recovers", 2, errOverloaded, 3, false},
		{"transient exhausts attempts", 99, errOverloaded, 3, true},
		{"permanent never retried", 99, errors.New("invalid x-api-key"), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			err := Do(context.Background(), fastRetry(3), func(_ context.Context) error {
				calls++
				if calls <= tt.failUntil {
					return tt.err
				}
				return nil
			})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestDo_ContextCancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	cfg := fastRetry(5)
	cfg.InitialBackoff = 20 * time.Millisecond
	err := Do(ctx, cfg, func(_ context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errOverloaded
	})

	require.Error(t, err)
	assert.LessOrEqual(t, calls, 3)
}

func TestDo_CustomClassifier(t *testing.T) {
	var calls int
	cfg := fastRetry(3)
	cfg.ShouldRetry = IsRetryableExtraction

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("api error 529: Overloaded")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_OnRetryObservesEachRetry(t *testing.T) {
	var attempts []int
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, _ error) {
		attempts = append(attempts, attempt)
	}

	_ = Do(context.Background(), cfg, func(_ context.Context) error {
		return errOverloaded
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDo_ZeroConfigUsesDefaults(t *testing.T) {
	var calls int
	err := Do(context.Background(), RetryConfig{}, func(_ context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal(t *testing.T) {
	t.Run("returns the value after recovery", func(t *testing.T) {
		var calls int
		val, err := DoVal(context.Background(), fastRetry(3), func(_ context.Context) (string, error) {
			calls++
			if calls < 2 {
				return "", errOverloaded
			}
			return "candidates", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "candidates", val)
	})

	t.Run("returns the zero value on failure", func(t *testing.T) {
		val, err := DoVal(context.Background(), fastRetry(2), func(_ context.Context) (int, error) {
			return 42, errOverloaded
		})
		require.Error(t, err)
		assert.Zero(t, val)
	})
}

func TestComputeBackoff(t *testing.T) {
	t.Parallel()

	base := applyDefaults(RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0,
	})

	t.Run("doubles per attempt", func(t *testing.T) {
		t.Parallel()
		for attempt, want := range []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
			800 * time.Millisecond,
		} {
			assert.Equal(t, want, computeBackoff(attempt, base), "attempt %d", attempt)
		}
	})

	t.Run("caps at the maximum", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.MaxBackoff = 500 * time.Millisecond
		assert.LessOrEqual(t, computeBackoff(8, cfg), 500*time.Millisecond)
	})

	t.Run("jitter spreads delays around the base", func(t *testing.T) {
		t.Parallel()
		cfg := base
		cfg.InitialBackoff = time.Second
		cfg.JitterFraction = 0.25

		seen := make(map[time.Duration]bool)
		for i := 0; i < 100; i++ {
			d := computeBackoff(0, cfg)
			seen[d] = true
			assert.GreaterOrEqual(t, d, 750*time.Millisecond)
			assert.LessOrEqual(t, d, 1250*time.Millisecond)
		}
		assert.Greater(t, len(seen), 1, "jitter should vary the delay")
	})
}

func TestRetryLogger_DoesNotPanic(t *testing.T) {
	t.Parallel()
	RetryLogger("anthropic", "extract_batch")(1, errors.New("overloaded"))
}
