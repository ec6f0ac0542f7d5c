package cli

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/pipeline"
)

// galleryZooms are the zoom levels shown side by side for every slug.
var galleryZooms = []float64{1, 5}

const galleryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>kumiko gallery</title>
<style>
  body { background: #111; color: #ccc; font: 14px/1.4 ui-monospace, monospace; margin: 2rem; }
  h1 { font-weight: normal; }
  .entry { margin-bottom: 2.5rem; }
  .images { display: flex; gap: 1rem; flex-wrap: wrap; }
  .images figure { margin: 0; }
  .images svg { width: {{.Size}}px; height: {{.Size}}px; display: block; }
  figcaption, .meta { color: #777; font-size: 12px; }
  .swatch { display: inline-block; width: 10px; height: 10px; vertical-align: middle; }
</style>
</head>
<body>
<h1>kumiko gallery</h1>
<p class="meta">{{len .Entries}} slugs · size {{.Size}}{{with .Scheme}} · scheme {{.}}{{end}}</p>
{{range .Entries}}
<div class="entry">
  <h2>{{.Slug}}</h2>
  <p class="meta">{{if .Scheme}}{{.Scheme}} · {{end}}{{range $i, $l := .Layers}}{{if $i}} · {{end}}<span class="swatch" style="background: {{$l.FG}}"></span> {{$l.PatternName}} ×{{$l.Overlaps}} sw {{$l.StrokeWidth}}{{end}}</p>
  <div class="images">
  {{range .Images}}
    <figure>{{.SVG}}<figcaption>zoom {{.Zoom}}</figcaption></figure>
  {{end}}
  </div>
</div>
{{end}}
</body>
</html>
`

var galleryTmpl = template.Must(template.New("gallery").Parse(galleryTemplate))

type galleryData struct {
	Size    int
	Scheme  string
	Entries []galleryEntry
}

type galleryEntry struct {
	Slug   string
	Scheme string
	Layers []kumiko.LayerInfo
	Images []galleryImage
}

type galleryImage struct {
	Zoom float64
	SVG  template.HTML
}

// gallerySlug returns the i-th sample slug, counting from 1.
func gallerySlug(i int) string {
	return fmt.Sprintf("example-article-%03d", i)
}

// galleryCommand creates the gallery command.
func (c *CLI) galleryCommand() *cobra.Command {
	var (
		gf      genFlags
		count   int
		out     string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Write an HTML page of sample artwork",
		Long: `Write an HTML page showing sample slugs (example-article-001, ...)
at zoom 1 and zoom 5 side by side, with each slug's layer metadata.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--count must be at least 1, got %d", count)
			}
			if err := errors.ValidateOutputPath(out); err != nil {
				return err
			}
			base := c.Config.Defaults.Options()
			// thumbnails, regardless of the configured size
			if !cmd.Flags().Changed("size") {
				base.Size = 400
			}
			gen, err := gf.options(cmd, base)
			if err != nil {
				return err
			}
			return c.runGallery(cmd, gen, count, out, noCache)
		},
	}

	gf.bind(cmd)
	cmd.Flags().Lookup("size").DefValue = "400"
	cmd.Flags().IntVarP(&count, "count", "n", 12, "number of slugs")
	cmd.Flags().StringVarP(&out, "out", "o", "gallery.html", "output HTML file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGallery(cmd *cobra.Command, gen kumiko.Options, count int, out string, noCache bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating gallery...")
	spinner.Start()
	prog := newProgress(logger)

	data, err := buildGallery(cmd, runner, gen, count, spinner)
	if err != nil {
		spinner.StopWithError("Gallery failed")
		return err
	}

	var buf bytes.Buffer
	if err := galleryTmpl.Execute(&buf, data); err != nil {
		spinner.StopWithError("Gallery failed")
		return fmt.Errorf("render gallery: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		spinner.StopWithError("Write failed")
		return fmt.Errorf("write %s: %w", out, err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d images", count*len(galleryZooms)))

	printSuccess("Gallery of %s slugs", StyleNumber.Render(fmt.Sprint(count)))
	printFile(out)
	return nil
}

func buildGallery(cmd *cobra.Command, runner *pipeline.Runner, gen kumiko.Options, count int, spinner *Spinner) (galleryData, error) {
	data := galleryData{Size: gen.Size, Scheme: gen.ColorScheme}
	for i := 1; i <= count; i++ {
		slug := gallerySlug(i)
		spinner.SetMessage(fmt.Sprintf("Generating %s (%d/%d)...", slug, i, count))

		entry := galleryEntry{Slug: slug}
		for _, zoom := range galleryZooms {
			opts := gen
			opts.Zoom = zoom * zoomOrOne(gen.Zoom)
			res, err := runner.Execute(cmd.Context(), pipeline.Options{
				Slug:     slug,
				Generate: opts,
				Formats:  []string{pipeline.FormatSVG},
			})
			if err != nil {
				return galleryData{}, fmt.Errorf("%s: %w", slug, err)
			}
			entry.Layers, entry.Scheme = res.Layers, res.ColorSchemeName
			// generator output contains no user-controlled markup
			entry.Images = append(entry.Images, galleryImage{Zoom: opts.Zoom, SVG: template.HTML(res.Artifacts[pipeline.FormatSVG])})
		}
		data.Entries = append(data.Entries, entry)
	}
	return data, nil
}

func zoomOrOne(z float64) float64 {
	if z == 0 {
		return 1
	}
	return z
}
