package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/pipeline"
)

// stdoutPath selects standard output for --out.
const stdoutPath = "-"

// genOpts holds the command-line flags for the gen command.
type genOpts struct {
	gen     genFlags
	raster  rasterFlags
	formats string
	out     string
	outDir  string
	noCache bool
	random  bool
	refresh bool
}

// genCommand creates the gen command.
func (c *CLI) genCommand() *cobra.Command {
	var opts genOpts

	cmd := &cobra.Command{
		Use:   "gen [slug]",
		Short: "Generate artwork for a slug",
		Long: `Generate kumiko artwork for a slug.

Writes <slug>.<format> for each requested format into --out-dir. The same
slug and options always produce identical files.`,
		Example: `  kumiko gen hello-world
  kumiko gen hello-world --scheme nord --zoom 2 --finalize
  kumiko gen hello-world --layer 0:fg=#ff6600 --layer 2:sw=3
  kumiko gen hello-world --format png --png-width 1200 --png-height 630
  kumiko gen --random --format svg,json
  kumiko gen hello-world --out - > hello.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, err := resolveSlug(args, opts.random)
			if err != nil {
				return err
			}
			return c.runGen(cmd, slug, &opts)
		},
	}

	opts.gen.bind(cmd)
	opts.raster.bind(cmd, "png-width", "png-height")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file for a single format, or - for stdout")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", ".", "directory for generated files")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even when cached")
	cmd.Flags().BoolVar(&opts.random, "random", false, "use a random slug")

	return cmd
}

// resolveSlug returns the positional slug or, with --random, a fresh one.
func resolveSlug(args []string, random bool) (string, error) {
	switch {
	case random && len(args) > 0:
		return "", errors.New(errors.ErrCodeInvalidInput, "--random cannot be combined with a slug")
	case random:
		return randomSlug(), nil
	case len(args) == 0:
		return "", errors.New(errors.ErrCodeInvalidSlug, "a slug is required (or pass --random)")
	}
	return args[0], nil
}

func randomSlug() string {
	return "kumiko-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func (c *CLI) runGen(cmd *cobra.Command, slug string, opts *genOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	gen, err := opts.gen.options(cmd, c.Config.Defaults.Options())
	if err != nil {
		return err
	}
	ropts := opts.raster.options(cmd, c.Config.Raster.Options(), "png-width", "png-height")

	if opts.out != "" && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--out takes a single format, got %d", len(formats))
	}
	toStdout := opts.out == stdoutPath
	if toStdout && formats[0] == pipeline.FormatPNG && isTerminal(cmd.OutOrStdout()) {
		return errors.New(errors.ErrCodeInvalidInput, "refusing to write PNG to a terminal; redirect stdout or use --out FILE")
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Slug:      slug,
		Generate:  gen,
		Formats:   formats,
		PNGWidth:  ropts.Width,
		PNGHeight: ropts.Height,
		Backend:   ropts.Backend,
		Refresh:   opts.refresh,
	})
	if err != nil {
		return err
	}

	if toStdout {
		_, err := cmd.OutOrStdout().Write(res.Artifacts[formats[0]])
		return err
	}

	paths, err := writeArtifacts(slug, formats, res.Artifacts, opts.out, opts.outDir)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %s", slug))

	printSuccess("Generated %s", StyleHighlight.Render(slug))
	printStats(len(res.Layers), res.ColorSchemeName, res.CacheHit)
	if res.Stats.Finalize.PrimitivesBefore > 0 {
		printFinalizeStats(res.Stats.Finalize)
	}
	fmt.Println(indent(layerTable(res.Layers)))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each format to out (single format) or
// outDir/<slug>.<format>.
func writeArtifacts(slug string, formats []string, artifacts map[string][]byte, out, outDir string) ([]string, error) {
	var paths []string
	for _, f := range formats {
		path := out
		if path == "" {
			path = filepath.Join(outDir, slug+"."+f)
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return nil, err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
