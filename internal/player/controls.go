package player

import (
	"log/slog"

	"github.com/maauso/asciiplay/internal/input"
)

// Seek distances applied by the rewind and fast-forward controls. The
// per-tick advance brings fast-forward to the same magnitude as rewind.
const (
	RewindStep      = 5
	FastForwardStep = 4
)

// applyControls queries every control once and applies, in order, pause,
// resume, rewind, fast-forward, clear and stop. Each condition is checked
// against the state left by the previous control, so several controls may
// take effect in one tick. It reports whether playback must stop.
func (pb *playback) applyControls() (stop bool, err error) {
	s := pb.session
	pressed := make(map[input.Role]bool, len(input.Roles()))
	for _, role := range input.Roles() {
		pressed[role] = pb.keys.IsControlActive(role)
	}

	if pressed[input.Pause] && !s.Paused() {
		if err := s.Pause(pb.clock.Now()); err != nil {
			return false, err
		}
		if pb.onScreen > 0 {
			if err := pb.renderer.RenderPaused(pb.keymap.PausedBanner()); err != nil {
				return false, err
			}
		}
		pb.logger.Debug("paused", slog.Int("position", s.Current))
	}
	if pressed[input.Resume] && s.Paused() {
		if err := s.Resume(pb.clock.Now()); err != nil {
			return false, err
		}
		pb.logger.Debug("resumed", slog.Int("position", s.Current))
	}
	if pressed[input.Rewind] && !s.Paused() {
		if s.Rewind(RewindStep) {
			pb.logger.Debug("rewound", slog.Int("position", s.Current))
		}
	}
	if pressed[input.FastForward] && !s.Paused() {
		s.Skip(FastForwardStep)
		pb.logger.Debug("fast forwarded", slog.Int("position", s.Current))
	}
	if pressed[input.Clear] {
		if err := pb.fullClear(); err != nil {
			return false, err
		}
	}
	if pressed[input.Stop] {
		if err := pb.fullClear(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
