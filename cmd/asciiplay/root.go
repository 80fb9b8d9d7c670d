package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maauso/asciiplay/internal/config"
	"github.com/maauso/asciiplay/internal/frames"
	"github.com/maauso/asciiplay/internal/storage"
	"github.com/maauso/asciiplay/internal/terminal"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	stdin  *os.File
	cfg    *config.Config
	logger *slog.Logger
	logOut io.Closer
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "asciiplay",
		Short:         "Play ASCII videos in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `asciiplay plays pre-rendered ASCII videos in the terminal.

Videos are .json or .pkl containers holding {fps, resolution, frames}.
They are read from local disk or, when S3_REGION is set, from s3://bucket/key.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.AddCommand(a.playCmd(), a.infoCmd())
	return root
}

// setup loads the configuration and builds the logger. Logs never go to
// stdout, which is the playback surface.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	out := stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logOut = f
		out = f
	}

	a.logger = cfg.NewLogger(out)
	slog.SetDefault(a.logger)
	a.logger.Debug("configuration loaded", slog.String("config", cfg.String()))
	return nil
}

func (a *app) close() {
	if a.logOut != nil {
		_ = a.logOut.Close()
	}
}

// locationArg checks that a container argument has a supported suffix and,
// for local paths, that the file exists.
func locationArg(_ *cobra.Command, args []string) error {
	location := args[0]
	if _, err := frames.EncodingForPath(location); err != nil {
		return err
	}
	if storage.IsS3(location) {
		_, _, err := storage.ParseS3(location)
		return err
	}
	info, err := os.Stat(location)
	if err != nil {
		return fmt.Errorf("open %s: %w", location, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", location)
	}
	return nil
}

func printIntro(w io.Writer) error {
	return terminal.PrintLines(w, []string{
		"ASCII VIDEO PLAYER",
		" - Plays an ascii video in the console",
		" - .json and .pkl containers supported",
	}, terminal.LinesOptions{SeparateChunk: true})
}
