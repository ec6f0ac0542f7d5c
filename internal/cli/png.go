package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/observability"
	"github.com/matzehuels/kumiko/pkg/raster"
)

// pngCommand creates the png command for rasterizing an existing SVG.
func (c *CLI) pngCommand() *cobra.Command {
	var (
		rf  rasterFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "png <input.svg>",
		Short: "Convert a generated SVG to PNG",
		Long: `Convert a generated SVG to PNG.

The SVG is rendered square at --width and a --height strip is cut from its
vertical center. The default 1200x630 suits link previews.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if out == "" {
				out = strings.TrimSuffix(input, ".svg") + ".png"
			}
			if err := errors.ValidateOutputPath(out); err != nil {
				return err
			}
			opts := rf.options(cmd, c.Config.Raster.Options(), "width", "height")
			return c.runPNG(cmd, input, out, opts)
		},
	}

	rf.bind(cmd, "width", "height")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: input with .png)")

	return cmd
}

func (c *CLI) runPNG(cmd *cobra.Command, input, out string, opts raster.Options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	hooks := observability.Pipeline()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()

	prog := newProgress(logger)
	hooks.OnRasterStart(ctx, string(opts.Backend))
	start := time.Now()
	data, err := raster.ConvertFile(ctx, input, opts)
	hooks.OnRasterComplete(ctx, string(opts.Backend), time.Since(start), err)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		spinner.StopWithError("Write failed")
		return fmt.Errorf("write %s: %w", out, err)
	}
	spinner.Stop()
	prog.done("Rendered " + out)

	printSuccess("Rendered %dx%d PNG with %s", opts.Width, opts.Height, opts.Backend)
	printFile(out)
	return nil
}
