package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/raster"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

// genFlags holds the generation flags shared by gen, gallery and view.
// Values from the config file apply unless the flag was given explicitly.
type genFlags struct {
	size        int
	divisions   int
	zoom        float64
	overflow    float64
	strokeWidth float64
	fg          string
	bg          string
	scheme      string
	finalize    bool
	layers      []string
}

func (f *genFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.size, "size", kumiko.DefaultSize, "output width and height in pixels")
	fs.IntVar(&f.divisions, "divisions", 0, "triangles per grid row (default: picked from the slug)")
	fs.Float64Var(&f.zoom, "zoom", kumiko.DefaultZoom, "magnify the center of the canvas")
	fs.Float64Var(&f.overflow, "overflow", kumiko.DefaultOverflow, "draw beyond the visible area by this factor")
	fs.Float64Var(&f.strokeWidth, "stroke-width", 0, "force one stroke width on every layer")
	fs.StringVar(&f.fg, "fg", "", "force one line color on every layer (#rrggbb)")
	fs.StringVar(&f.bg, "bg", "", "background color (#rrggbb)")
	fs.StringVar(&f.scheme, "scheme", "", "color scheme name, or \"random\" (list with: kumiko schemes)")
	fs.BoolVar(&f.finalize, "finalize", false, "remove primitives outside the visible area")
	fs.StringArrayVar(&f.layers, "layer", nil, "per-layer override INDEX:fg=#hex,sw=N (repeatable)")

	_ = cmd.RegisterFlagCompletionFunc("scheme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return scheme.Keys(), cobra.ShellCompDirectiveNoFileComp
	})
}

// options merges the flags over base, validating the result.
func (f *genFlags) options(cmd *cobra.Command, base kumiko.Options) (kumiko.Options, error) {
	fs := cmd.Flags()
	o := base
	if fs.Changed("size") {
		o.Size = f.size
	}
	if fs.Changed("divisions") {
		o.Divisions = f.divisions
	}
	if fs.Changed("zoom") {
		o.Zoom = f.zoom
	}
	if fs.Changed("overflow") {
		o.Overflow = f.overflow
	}
	if fs.Changed("stroke-width") {
		o.StrokeWidth = f.strokeWidth
	}
	if fs.Changed("fg") {
		o.FG = f.fg
	}
	if fs.Changed("bg") {
		o.BG = f.bg
	}
	if fs.Changed("scheme") {
		o.ColorScheme = f.scheme
	}
	if fs.Changed("finalize") {
		o.Finalize = f.finalize
	}
	if len(f.layers) > 0 {
		layers, err := kumiko.ParseLayerSpecs(f.layers)
		if err != nil {
			return kumiko.Options{}, err
		}
		o.Layers = layers
	}
	if err := o.Validate(); err != nil {
		return kumiko.Options{}, err
	}
	return o, nil
}

// rasterFlags holds PNG output flags.
type rasterFlags struct {
	width   int
	height  int
	backend string
}

func (f *rasterFlags) bind(cmd *cobra.Command, widthName, heightName string) {
	fs := cmd.Flags()
	fs.IntVar(&f.width, widthName, raster.DefaultWidth, "PNG width in pixels")
	fs.IntVar(&f.height, heightName, raster.DefaultHeight, "PNG height in pixels (center crop)")
	fs.StringVar(&f.backend, "backend", string(raster.BackendNative), "PNG renderer: native or rsvg")

	_ = cmd.RegisterFlagCompletionFunc("backend", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(raster.Backends))
		for i, b := range raster.Backends {
			names[i] = string(b)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func (f *rasterFlags) options(cmd *cobra.Command, base raster.Options, widthName, heightName string) raster.Options {
	fs := cmd.Flags()
	o := base
	if fs.Changed(widthName) {
		o.Width = f.width
	}
	if fs.Changed(heightName) {
		o.Height = f.height
	}
	if fs.Changed("backend") {
		o.Backend = raster.Backend(strings.ToLower(f.backend))
	}
	return o.WithDefaults()
}
