package player

import (
	"errors"
	"slices"
)

// State is the lifecycle state of a playback session.
type State string

const (
	// StateLoading is the initial state, before the first tick.
	StateLoading State = "LOADING"
	// StatePlaying indicates frames are being drawn and advanced.
	StatePlaying State = "PLAYING"
	// StatePaused indicates the current frame is frozen on screen.
	StatePaused State = "PAUSED"
	// StateFinished indicates the last frame was shown.
	StateFinished State = "FINISHED"
	// StateStopped indicates playback was ended with the stop control.
	StateStopped State = "STOPPED"
	// StateInterrupted indicates playback was cancelled through its context.
	StateInterrupted State = "INTERRUPTED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("player: invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[State][]State{
	StateLoading:     {StatePlaying, StateInterrupted},
	StatePlaying:     {StatePaused, StateFinished, StateStopped, StateInterrupted},
	StatePaused:      {StatePlaying, StateStopped, StateInterrupted},
	StateFinished:    {},
	StateStopped:     {},
	StateInterrupted: {},
}

// canTransition checks if a transition from one state to another is valid.
func canTransition(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	return slices.Contains(allowed, to)
}

// IsTerminal returns true if no further transition is possible from s.
func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateStopped || s == StateInterrupted
}
