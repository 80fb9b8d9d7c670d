package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maauso/asciiplay/internal/bootstrap"
	"github.com/maauso/asciiplay/internal/terminal"
)

func (a *app) infoCmd() *cobra.Command {
	var opts bootstrap.Options
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Describe an ASCII video container",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), locationArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]
			deps, err := bootstrap.NewDependencies(a.cfg, a.logger, opts)
			if err != nil {
				return fmt.Errorf("initialize dependencies: %w", err)
			}
			c, err := deps.Store.Load(cmd.Context(), location)
			if err != nil {
				return err
			}

			resolution := "-"
			if c.Resolution > 0 {
				resolution = strconv.FormatFloat(c.Resolution, 'g', -1, 64)
			}
			return terminal.PrintLines(cmd.OutOrStdout(), []string{
				"File:       " + location,
				fmt.Sprintf("Frames:     %d (keys %d to %d)", c.Len(), c.Key(0), c.Key(c.Len()-1)),
				fmt.Sprintf("FPS:        %g", c.FPS),
				"Resolution: " + resolution,
				fmt.Sprintf("Size:       %d rows x %d cols", c.Rows(), c.Cols()),
				fmt.Sprintf("Duration:   %.2fs", float64(c.Len())/c.FPS),
			}, terminal.LinesOptions{SeparateChunk: true})
		},
	}
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "download s3 objects even when cached")
	return cmd
}
