// Package pipeline runs generation, culling and rasterization behind a cache.
//
// The CLI and the HTTP server both go through [Runner] so that a given slug
// and option set yields the same bytes, and the same cache entries, from
// either entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Slug:     "hello-world",
//	    Generate: kumiko.Options{Size: 800, ColorScheme: "nord"},
//	    Formats:  []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/kumiko/pkg/cache"
	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/finalize"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/raster"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// Options configures one pipeline run.
type Options struct {
	Slug     string         `json:"slug"`
	Generate kumiko.Options `json:"generate"`
	Formats  []string       `json:"formats,omitempty"`

	// PNG options
	PNGWidth  int            `json:"png_width,omitempty"`
	PNGHeight int            `json:"png_height,omitempty"`
	Backend   raster.Backend `json:"backend,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Layers          []kumiko.LayerInfo
	ColorSchemeName string

	Stats Stats

	// CacheHit is true when every requested artifact came from the cache.
	CacheHit bool
}

// Stats contains timing and culling information. Zero on a cache hit.
type Stats struct {
	GenerateTime time.Duration
	FinalizeTime time.Duration
	RasterTime   time.Duration
	Finalize     finalize.Stats
}

// Metadata is the JSON artifact: everything about a generation except the
// SVG itself.
type Metadata struct {
	Slug string `json:"slug"`
	kumiko.Result
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	if err := ValidateFormats(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Backend == "" {
		o.Backend = raster.BackendNative
	}
	if o.PNGWidth == 0 {
		o.PNGWidth = raster.DefaultWidth
	}
	if o.PNGHeight == 0 {
		o.PNGHeight = raster.DefaultHeight
	}
}

// Validate applies defaults and checks every field.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := errors.ValidateSlug(o.Slug); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Generate.Validate(); err != nil {
		return err
	}
	if o.wants(FormatPNG) {
		if err := o.rasterOptions().Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

func (o *Options) rasterOptions() raster.Options {
	return raster.Options{
		Width:   o.PNGWidth,
		Height:  o.PNGHeight,
		Backend: o.Backend,
	}.WithDefaults()
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	// kumiko.Options always marshals
	h, _ := cache.HashJSON(o.Generate)
	k := cache.ArtifactKeyOpts{Format: format, OptionsHash: h}
	if format == FormatPNG {
		k.Width, k.Height, k.Backend = o.PNGWidth, o.PNGHeight, string(o.Backend)
	}
	return k
}

// MarshalMetadata encodes the JSON artifact for res.
func MarshalMetadata(slug string, res kumiko.Result) ([]byte, error) {
	return json.MarshalIndent(Metadata{Slug: slug, Result: res}, "", "  ")
}
