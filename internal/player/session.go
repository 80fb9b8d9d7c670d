package player

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the mutable state of one playback. It is created when Play
// starts and discarded when it returns.
//
// Current, First and Last are positions into the frame collection, not
// container keys.
type Session struct {
	ID        string
	State     State
	Current   int
	First     int
	Last      int
	FrameRate float64
	Rows      int
	Cols      int
	StartedAt time.Time
	UpdatedAt time.Time
}

// newSession creates a session in the loading state.
func newSession(length int, rate float64, rows, cols int, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		State:     StateLoading,
		Last:      length - 1,
		FrameRate: rate,
		Rows:      rows,
		Cols:      cols,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	return s.State == StatePaused
}

// transition moves the session to state to.
func (s *Session) transition(to State, now time.Time) error {
	if !canTransition(s.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
	}
	s.State = to
	s.UpdatedAt = now
	return nil
}

// Start moves a loading session to playing.
func (s *Session) Start(now time.Time) error { return s.transition(StatePlaying, now) }

// Pause freezes the session.
func (s *Session) Pause(now time.Time) error { return s.transition(StatePaused, now) }

// Resume continues a paused session.
func (s *Session) Resume(now time.Time) error { return s.transition(StatePlaying, now) }

// Finish marks the session as having shown its last frame.
func (s *Session) Finish(now time.Time) error { return s.transition(StateFinished, now) }

// Stop marks the session as ended by the user.
func (s *Session) Stop(now time.Time) error { return s.transition(StateStopped, now) }

// Interrupt marks the session as cancelled.
func (s *Session) Interrupt(now time.Time) error { return s.transition(StateInterrupted, now) }

// Rewind moves back by step positions unless that would go before First.
// It reports whether the position changed.
func (s *Session) Rewind(step int) bool {
	if s.Current-step < s.First {
		return false
	}
	s.Current -= step
	return true
}

// Skip moves forward by step positions. The upper bound is not checked;
// a position past Last ends playback at the next advance.
func (s *Session) Skip(step int) {
	s.Current += step
}
