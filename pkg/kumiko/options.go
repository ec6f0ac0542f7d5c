package kumiko

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

// Defaults for zero-valued Options fields.
const (
	DefaultSize     = 800
	DefaultZoom     = 1.0
	DefaultOverflow = 1.0

	// MaxSize bounds Size at the user-facing boundary.
	MaxSize = 10000
)

// DefaultBackground is used when neither BG nor a color scheme is set.
const DefaultBackground = "#2d2d2d"

// defaultForeground is the built-in line color pool: a dark gray followed by
// the seven line colors of the "Default" scheme.
var defaultForeground = [...]string{
	"#4a4a4a",
	"#b5524a",
	"#5ea85e",
	"#c8a64e",
	"#737d8e",
	"#a87a96",
	"#5a8a8e",
	"#d5d5d5",
}

// DefaultForeground returns a copy of the built-in line color pool.
func DefaultForeground() []string {
	out := make([]string, len(defaultForeground))
	copy(out, defaultForeground[:])
	return out
}

// LayerOverride replaces the color and/or stroke width of one layer.
// Zero fields are unset.
type LayerOverride struct {
	FG          string  `json:"fg,omitempty" yaml:"fg,omitempty" toml:"fg,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty" yaml:"stroke_width,omitempty" toml:"stroke_width,omitempty"`
}

// IsZero reports whether the override changes nothing.
func (o LayerOverride) IsZero() bool {
	return o.FG == "" && o.StrokeWidth == 0
}

// Options controls generation. Every field is optional; zero values select
// the documented defaults.
type Options struct {
	// Size is the output width and height in pixels. Default 800.
	Size int `json:"size,omitempty"`
	// Divisions is the number of upward triangles per grid row. Zero lets the
	// slug pick 6, 8 or 10.
	Divisions int `json:"divisions,omitempty"`
	// Zoom magnifies the center of the canvas. Default 1.
	Zoom float64 `json:"zoom,omitempty"`
	// FG forces one line color on every layer.
	FG string `json:"fg,omitempty"`
	// BG replaces the background color.
	BG string `json:"bg,omitempty"`
	// StrokeWidth forces one stroke width on every layer.
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	// Finalize culls primitives outside the viewBox.
	Finalize bool `json:"finalize,omitempty"`
	// Layers holds per-layer overrides by layer position.
	Layers []LayerOverride `json:"layers,omitempty"`
	// Overflow scales the drawn canvas beyond the visible area. Default 1.
	Overflow float64 `json:"overflow,omitempty"`
	// ColorScheme names a palette from the scheme table, or "random".
	ColorScheme string `json:"color_scheme,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	if o.Overflow == 0 {
		o.Overflow = DefaultOverflow
	}
	return o
}

func (o Options) layer(i int) LayerOverride {
	if i < len(o.Layers) {
		return o.Layers[i]
	}
	return LayerOverride{}
}

// Validate checks user-supplied options. The engine itself never needs it:
// it accepts any Options, but values outside these ranges produce empty or
// degenerate artwork.
func (o Options) Validate() error {
	if o.Size < 0 || o.Size > MaxSize {
		return errors.New(errors.ErrCodeInvalidInput, "size must be between 1 and %d, got %d", MaxSize, o.Size)
	}
	if o.Divisions < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "divisions must be positive, got %d", o.Divisions)
	}
	if o.Zoom < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "zoom must be positive, got %g", o.Zoom)
	}
	if o.Overflow != 0 && o.Overflow < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "overflow must be at least 1, got %g", o.Overflow)
	}
	if o.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stroke width must be positive, got %g", o.StrokeWidth)
	}
	if err := ValidateColor("fg", o.FG); err != nil {
		return err
	}
	if err := ValidateColor("bg", o.BG); err != nil {
		return err
	}
	for i, l := range o.Layers {
		if err := ValidateColor("layer fg", l.FG); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "layer %d", i)
		}
		if l.StrokeWidth < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "layer %d: stroke width must be positive, got %g", i, l.StrokeWidth)
		}
	}
	if o.ColorScheme != "" && !scheme.Valid(o.ColorScheme) {
		return unknownScheme(o.ColorScheme)
	}
	return nil
}

// ValidateColor accepts an empty value or a #rgb / #rrggbb hex color.
func ValidateColor(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := colorful.Hex(value); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: invalid hex color %q", field, value)
	}
	return nil
}

func unknownScheme(name string) error {
	return errors.New(errors.ErrCodeUnknownScheme, "unknown color scheme: %q", name)
}
