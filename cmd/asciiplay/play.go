package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maauso/asciiplay/internal/bootstrap"
	"github.com/maauso/asciiplay/internal/input"
	"github.com/maauso/asciiplay/internal/terminal"
)

const interruptMessage = "Turned off by keyboard interrupt"

func (a *app) playCmd() *cobra.Command {
	var opts bootstrap.Options
	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play an ASCII video",
		Long: `Play an ASCII video container in the terminal.

Controls: q pause, w resume, e rewind, r fast forward, t clear artifacts,
y or Esc stop.`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), locationArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.FPS < 0 {
				return fmt.Errorf("--fps must not be negative, got %g", opts.FPS)
			}
			return a.play(cmd, args[0], opts)
		},
	}
	cmd.Flags().Float64Var(&opts.FPS, "fps", 0, "override the frame rate stored in the container")
	cmd.Flags().BoolVar(&opts.NoClear, "no-clear", false, "do not clear the screen before the first frame")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "download s3 objects even when cached")
	return cmd
}

func (a *app) play(cmd *cobra.Command, location string, opts bootstrap.Options) error {
	out := cmd.OutOrStdout()
	if err := printIntro(out); err != nil {
		return err
	}
	fmt.Fprintln(out, "Loading...")

	deps, err := bootstrap.NewDependencies(a.cfg, a.logger, opts)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}
	coll, err := deps.Store.Load(cmd.Context(), location)
	if err != nil {
		return err
	}

	if f, ok := out.(*os.File); ok {
		if width, _, err := input.Size(f); err == nil && coll.Cols() > width {
			a.logger.Warn("video is wider than the terminal",
				slog.Int("cols", coll.Cols()),
				slog.Int("width", width),
			)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if input.IsTerminal(a.stdin) {
		restore, err := input.MakeRaw(a.stdin)
		if err != nil {
			return err
		}
		defer func() { _ = restore() }()
	} else {
		a.logger.Warn("stdin is not a terminal, controls read from it may be line buffered")
	}

	keyboard := input.NewKeyboard(a.stdin, deps.Keymap,
		input.WithLogger(a.logger),
		input.WithInterrupt(cancel),
	)
	keyboard.Start()

	screen := terminal.NewANSI(out)
	res, err := deps.NewPlayer(screen, keyboard, opts).Play(ctx, coll)
	if errors.Is(err, context.Canceled) {
		_ = screen.Clear()
		_, _ = fmt.Fprint(screen, interruptMessage+"\r\n")
		return screen.Flush()
	}
	if err != nil {
		return err
	}
	a.logger.Info("done",
		slog.String("session_id", res.SessionID),
		slog.String("state", string(res.State)),
		slog.Int("frames_shown", res.FramesShown),
	)
	return nil
}
