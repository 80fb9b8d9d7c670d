package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBudget(t *testing.T) {
	rate := 24.1
	assert.Equal(t, time.Duration(float64(time.Second)/rate), FrameBudget(24.1))
	assert.InDelta(t, 1/24.1, FrameBudget(24.1).Seconds(), 1e-8)
	assert.Equal(t, 40*time.Millisecond, FrameBudget(25))
}

func TestCorrectRate(t *testing.T) {
	assert.InDelta(t, 24.1, CorrectRate(24), 1e-12)
	assert.InDelta(t, 30.0, CorrectRateBy(30, 0), 1e-12)
	assert.InDelta(t, 25.5, CorrectRateBy(25, 0.5), 1e-12)
}

func TestRemaining(t *testing.T) {
	budget := 40 * time.Millisecond
	tests := []struct {
		name    string
		elapsed time.Duration
		want    time.Duration
	}{
		{"no work", 0, budget},
		{"some work", 15 * time.Millisecond, 25 * time.Millisecond},
		{"exactly on budget", budget, 0},
		{"over budget", 2 * budget, 0},
		{"negative elapsed", -time.Millisecond, budget + time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remaining(tt.elapsed, budget)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, time.Duration(0))
		})
	}
}

func TestSleepRemaining(t *testing.T) {
	ctx := context.Background()

	t.Run("sleeps the remainder", func(t *testing.T) {
		f := NewFake(time.Unix(0, 0))
		require.NoError(t, SleepRemaining(ctx, f, 10*time.Millisecond, 40*time.Millisecond))
		assert.Equal(t, []time.Duration{30 * time.Millisecond}, f.Sleeps())
	})

	t.Run("does not sleep when over budget", func(t *testing.T) {
		f := NewFake(time.Unix(0, 0))
		require.NoError(t, SleepRemaining(ctx, f, 50*time.Millisecond, 40*time.Millisecond))
		assert.Empty(t, f.Sleeps())
	})

	t.Run("reports cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := NewFake(time.Unix(0, 0))
		assert.ErrorIs(t, SleepRemaining(ctx, f, 0, 40*time.Millisecond), context.Canceled)
		assert.ErrorIs(t, SleepRemaining(ctx, f, time.Second, 40*time.Millisecond), context.Canceled)
	})
}

func TestRealClock(t *testing.T) {
	c := Real()

	t.Run("sleeps at least d", func(t *testing.T) {
		start := c.Now()
		require.NoError(t, c.Sleep(context.Background(), 5*time.Millisecond))
		assert.GreaterOrEqual(t, c.Since(start), 5*time.Millisecond)
	})

	t.Run("wakes on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()
		start := c.Now()
		err := c.Sleep(ctx, time.Minute)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, c.Since(start), time.Minute)
	})
}

func TestFake(t *testing.T) {
	start := time.Unix(100, 0)
	f := NewFake(start)

	f.Advance(3 * time.Millisecond)
	require.NoError(t, f.Sleep(context.Background(), 7*time.Millisecond))

	assert.Equal(t, 10*time.Millisecond, f.Since(start))
	assert.Equal(t, 7*time.Millisecond, f.Slept())
}
