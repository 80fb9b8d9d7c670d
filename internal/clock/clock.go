// Package clock paces frame playback.
package clock

import (
	"context"
	"time"
)

// DriftOffset is added to a video's stored frame rate before playback.
// It compensates for the systematic timer drift measured on real terminals.
const DriftOffset = 0.1

// Clock is the time source used for pacing.
type Clock interface {
	// Now returns the current time, including a monotonic reading.
	Now() time.Time
	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in
	// the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// FrameBudget returns the target duration of one frame at rate frames
// per second.
func FrameBudget(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / rate)
}

// CorrectRate returns the rate used for playback of a video stored at raw
// frames per second.
func CorrectRate(raw float64) float64 {
	return CorrectRateBy(raw, DriftOffset)
}

// CorrectRateBy is like CorrectRate with a caller supplied offset.
func CorrectRateBy(raw, offset float64) float64 {
	return raw + offset
}

// Remaining returns how much of budget is left after elapsed. It is never
// negative.
func Remaining(elapsed, budget time.Duration) time.Duration {
	return max(0, budget-elapsed)
}

// SleepRemaining sleeps on c for the part of budget not used by elapsed.
func SleepRemaining(ctx context.Context, c Clock, elapsed, budget time.Duration) error {
	d := Remaining(elapsed, budget)
	if d == 0 {
		return ctx.Err()
	}
	return c.Sleep(ctx, d)
}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
