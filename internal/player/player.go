// Package player runs the playback loop: it paces frames to the video's
// frame rate, redraws them in place and applies the user's controls once
// per tick.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maauso/asciiplay/internal/clock"
	"github.com/maauso/asciiplay/internal/frames"
	"github.com/maauso/asciiplay/internal/input"
	"github.com/maauso/asciiplay/internal/terminal"
)

// Result summarises a finished playback.
type Result struct {
	SessionID string
	// State is StateFinished, StateStopped or StateInterrupted.
	State State
	// FramesShown counts ticks that drew a frame.
	FramesShown int
	// Position is the collection position playback ended on.
	Position int
	Elapsed  time.Duration
}

// Player plays frame collections on a screen.
type Player struct {
	screen      terminal.Screen
	keys        input.KeyState
	clock       clock.Clock
	logger      *slog.Logger
	keymap      input.Keymap
	rateOffset  float64
	frameRate   float64
	clearBefore bool
}

// Option is a function that configures a Player.
type Option func(*Player)

// WithClock sets the time source used for pacing.
func WithClock(c clock.Clock) Option {
	return func(p *Player) {
		p.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithKeymap sets the bindings shown in the controls legend.
func WithKeymap(km input.Keymap) Option {
	return func(p *Player) {
		p.keymap = km
	}
}

// WithRateOffset sets the offset added to the frame rate before pacing.
func WithRateOffset(offset float64) Option {
	return func(p *Player) {
		p.rateOffset = offset
	}
}

// WithFrameRate overrides the frame rate stored in the container.
// Values <= 0 keep the stored rate.
func WithFrameRate(fps float64) Option {
	return func(p *Player) {
		p.frameRate = fps
	}
}

// WithClearBefore sets whether the screen is cleared before the first frame.
func WithClearBefore(enabled bool) Option {
	return func(p *Player) {
		p.clearBefore = enabled
	}
}

// New creates a Player drawing on screen and reading controls from keys.
func New(screen terminal.Screen, keys input.KeyState, opts ...Option) *Player {
	p := &Player{
		screen:      screen,
		keys:        keys,
		clock:       clock.Real(),
		keymap:      input.DefaultKeymap(),
		rateOffset:  clock.DriftOffset,
		clearBefore: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Play shows every frame of c in order until the last frame has been
// shown, the stop control is pressed or ctx is cancelled. A stop is not an
// error. On cancellation the result is in StateInterrupted and the context
// error is returned.
func (p *Player) Play(ctx context.Context, c *frames.Collection) (Result, error) {
	if c == nil || c.Len() == 0 {
		return Result{}, frames.ErrEmptyCollection
	}

	raw := c.FPS
	if p.frameRate > 0 {
		raw = p.frameRate
	}
	rate := clock.CorrectRateBy(raw, p.rateOffset)
	s := newSession(c.Len(), rate, c.Rows(), c.Cols(), p.clock.Now())

	pb := &playback{
		session:     s,
		coll:        c,
		keys:        p.keys,
		clock:       p.clock,
		keymap:      p.keymap,
		renderer:    terminal.NewRenderer(p.screen, s.Rows, s.Cols),
		clearBefore: p.clearBefore,
		logger:      p.logger.With(slog.String("session_id", s.ID)),
	}

	pb.logger.Info("playback started",
		slog.Int("frames", c.Len()),
		slog.Float64("fps", raw),
		slog.Float64("rate", rate),
		slog.Int("rows", s.Rows),
		slog.Int("cols", s.Cols),
	)

	err := pb.run(ctx, clock.FrameBudget(rate))
	res := Result{
		SessionID:   s.ID,
		State:       s.State,
		FramesShown: pb.shown,
		Position:    s.Current,
		Elapsed:     p.clock.Since(s.StartedAt),
	}
	if err != nil {
		pb.logger.Warn("playback ended", slog.String("state", string(s.State)), slog.String("error", err.Error()))
		return res, err
	}
	pb.logger.Info("playback ended",
		slog.String("state", string(s.State)),
		slog.Int("frames_shown", res.FramesShown),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// playback holds the per-call loop state.
type playback struct {
	session     *Session
	coll        *frames.Collection
	keys        input.KeyState
	clock       clock.Clock
	keymap      input.Keymap
	renderer    *terminal.Renderer
	clearBefore bool
	logger      *slog.Logger

	// onScreen is the number of lines of the last drawn block still on
	// screen; pendingErase is how many of them the next draw erases.
	onScreen     int
	pendingErase int
	shown        int
}

func (pb *playback) run(ctx context.Context, budget time.Duration) error {
	s := pb.session
	if err := ctx.Err(); err != nil {
		return pb.interrupt(err)
	}
	if err := s.Start(pb.clock.Now()); err != nil {
		return err
	}
	if pb.clearBefore {
		if err := pb.fullClear(); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	for {
		start := pb.clock.Now()

		if !s.Paused() {
			if err := pb.draw(); err != nil {
				return fmt.Errorf("render frame %d: %w", pb.coll.Key(s.Current), err)
			}
		}

		stop, err := pb.applyControls()
		if err != nil {
			return err
		}
		if stop {
			if err := pb.renderer.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
			return s.Stop(pb.clock.Now())
		}

		last := false
		if !s.Paused() {
			if pb.coll.Has(s.Current + 1) {
				s.Current++
				pb.pendingErase = pb.onScreen
			} else {
				last = true
			}
		}

		if err := pb.renderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		if err := clock.SleepRemaining(ctx, pb.clock, pb.clock.Since(start), budget); err != nil {
			return pb.interrupt(err)
		}
		if last {
			break
		}
	}

	if err := pb.fullClear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	elapsed := pb.clock.Since(s.StartedAt)
	if err := pb.renderer.Message(fmt.Sprintf("Playback finished in %.2fs", elapsed.Seconds())); err != nil {
		return err
	}
	if err := pb.renderer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return s.Finish(pb.clock.Now())
}

// draw erases the previous block and draws the current frame with its
// controls below it.
func (pb *playback) draw() error {
	if err := pb.renderer.EraseLast(pb.pendingErase); err != nil {
		return err
	}
	pb.pendingErase = 0
	pb.onScreen = 0
	if err := pb.renderer.Render(pb.coll.Frame(pb.session.Current)); err != nil {
		return err
	}
	if err := pb.renderer.RenderControls(pb.keymap.Legend()); err != nil {
		return err
	}
	pb.onScreen = pb.renderer.Lines()
	pb.shown++
	return nil
}

// fullClear clears the screen and forgets the lines drawn so far.
func (pb *playback) fullClear() error {
	pb.onScreen = 0
	pb.pendingErase = 0
	return pb.renderer.FullClear()
}

func (pb *playback) interrupt(cause error) error {
	if err := pb.session.Interrupt(pb.clock.Now()); err != nil {
		return err
	}
	return cause
}
