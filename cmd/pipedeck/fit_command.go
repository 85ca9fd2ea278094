package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pipedeck/internal/surface"
)

func newFitCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "fit <media-width> <media-height> <view-width> <view-height>",
		Short: "Compute the letterboxed video size inside a view",
		Long:  "Compute the largest area with the media aspect ratio that fits the view. A media size of 0 uses the configured default.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			values := make([]int, len(args))
			for i, arg := range args {
				v, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("argument %d: %q is not an integer", i+1, arg)
				}
				values[i] = v
			}
			mediaW, mediaH, viewW, viewH := values[0], values[1], values[2], values[3]
			if viewW <= 0 || viewH <= 0 {
				return fmt.Errorf("view size must be positive, got %dx%d", viewW, viewH)
			}

			w, h := surface.FitWithDefault(mediaW, mediaH, viewW, viewH, cfg.Surface.DefaultWidth, cfg.Surface.DefaultHeight)
			x, y := surface.Offsets(w, h, viewW, viewH)
			rect := surface.Rect{X: x, Y: y, Width: w, Height: h}
			if jsonOutput {
				return writeJSON(cmd, rect)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d at +%d+%d\n", rect.Width, rect.Height, rect.X, rect.Y)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
