// Package kumiko generates kumiko lattice artwork as SVG.
//
// # Overview
//
// A slug (any string, typically an article slug) seeds every decision: how
// many layers are stacked, which motifs they use, their colors, how many
// slightly shifted copies each layer has, stroke widths, grid density and
// the rotation and offset of every copy. The same slug and [Options] always
// produce byte-identical output.
//
//	svg, err := kumiko.Generate("hello-world", kumiko.Options{Size: 800})
//
//	res, err := kumiko.GenerateDetailed("hello-world", kumiko.Options{
//	    ColorScheme: "nord",
//	    Layers:      []kumiko.LayerOverride{{FG: "#ffffff"}},
//	})
//	for _, l := range res.Layers {
//	    fmt.Println(l.PatternName, l.FG, l.StrokeWidth, l.Overlaps)
//	}
//
// # Overrides
//
// Overrides never shift the random stream: every decision point draws its
// value whether or not an override replaces it. Overriding one layer's color
// or stroke width therefore leaves every other layer exactly as it was.
// Color priority is per-layer FG, then global FG, then the palette.
//
// # Output format
//
// The document is written one element per line with fixed attribute order
// and two-decimal coordinates. The finalize and raster packages read this
// shape back, so it must not change.
package kumiko

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/kumiko/pkg/finalize"
	"github.com/matzehuels/kumiko/pkg/grid"
	"github.com/matzehuels/kumiko/pkg/pattern"
	"github.com/matzehuels/kumiko/pkg/prng"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

// LayerInfo describes one rendered layer.
type LayerInfo struct {
	PatternIndex int     `json:"pattern_index"`
	PatternName  string  `json:"pattern_name"`
	FG           string  `json:"fg"`
	StrokeWidth  float64 `json:"stroke_width"`
	Overlaps     int     `json:"overlaps"`
}

// Result is the full output of one generation.
type Result struct {
	SVG    string      `json:"-"`
	Layers []LayerInfo `json:"layers"`
	// ColorSchemeName is the display name of the resolved scheme, empty when
	// Options.ColorScheme was not set.
	ColorSchemeName string `json:"color_scheme,omitempty"`
	Divisions       int    `json:"divisions"`
	CanvasSize      int    `json:"canvas_size"`
}

// strokeWidthsByDensity holds the stroke width candidates for a total
// overlap count. Denser artwork gets thinner lines.
var strokeWidthsByDensity = map[int][]float64{
	1: {1, 1.5, 2, 3, 4},
	2: {0.5, 1, 1.5, 2, 3},
	3: {0.5, 1, 1.5, 2},
	4: {0.5, 0.75, 1, 1.5},
	5: {0.5, 0.75, 1},
}

var divisionChoices = [...]int{6, 8, 10}

// Generate returns the SVG for slug.
func Generate(slug string, opts Options) (string, error) {
	res, err := GenerateDetailed(slug, opts)
	if err != nil {
		return "", err
	}
	return res.SVG, nil
}

// GenerateDetailed returns the SVG for slug along with per-layer metadata.
// The only failure is an unknown Options.ColorScheme.
func GenerateDetailed(slug string, opts Options) (Result, error) {
	opts = opts.withDefaults()
	seed := prng.Hash(slug)

	pool := defaultForeground[:]
	bg := DefaultBackground
	var schemeName string
	if opts.ColorScheme != "" {
		s, err := resolveScheme(opts.ColorScheme, seed)
		if err != nil {
			return Result{}, err
		}
		pool = s.Palette[1:]
		bg = s.Background()
		schemeName = s.Name
	}
	if opts.BG != "" {
		bg = opts.BG
	}

	size := float64(opts.Size)
	canvasSize := int(math.Round(size * opts.Overflow))
	canvas := float64(canvasSize)
	rnd := prng.New(seed)

	// layer count: 40% two, 40% three, 20% four
	layerCount := 4
	switch roll := rnd.Float64(); {
	case roll < 0.4:
		layerCount = 2
	case roll < 0.8:
		layerCount = 3
	}

	shuffled := pattern.Registry()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	entries := shuffled[:layerCount]

	colors := make([]string, layerCount)
	for i := range entries {
		color := pool[rnd.Intn(len(pool))]
		switch {
		case opts.layer(i).FG != "":
			color = opts.layer(i).FG
		case opts.FG != "":
			color = opts.FG
		}
		colors[i] = color
	}

	// overlap copies: 50% one, 30% two, 20% three
	overlaps := make([]int, layerCount)
	density := 0
	for i := range entries {
		n := 3
		switch roll := rnd.Float64(); {
		case roll < 0.5:
			n = 1
		case roll < 0.8:
			n = 2
		}
		overlaps[i] = n
		density += n
	}
	widths := strokeWidthsByDensity[min(density, 5)]

	divisions := opts.Divisions
	if divisions == 0 {
		divisions = divisionChoices[rnd.Intn(len(divisionChoices))]
	}

	triangles := grid.Generate(canvas, divisions)
	center := pattern.Fmt(canvas / 2)

	var body strings.Builder
	layers := make([]LayerInfo, 0, layerCount)
	for li, entry := range entries {
		override := opts.layer(li)
		angle := rnd.Float64() * 360
		dx := (rnd.Float64() - 0.5) * size * 0.4
		dy := (rnd.Float64() - 0.5) * size * 0.4

		var firstWidth float64
		for oi := 0; oi < overlaps[li]; oi++ {
			var sw float64
			switch {
			case override.StrokeWidth != 0:
				rnd.Float64()
				sw = override.StrokeWidth
			case opts.StrokeWidth != 0:
				sw = opts.StrokeWidth
			default:
				sw = widths[rnd.Intn(len(widths))]
			}
			if oi == 0 {
				firstWidth = sw
			}

			var odx, ody, oangle float64
			if oi > 0 {
				odx = (rnd.Float64() - 0.5) * canvas * 0.03
				ody = (rnd.Float64() - 0.5) * canvas * 0.03
				oangle = (rnd.Float64() - 0.5) * 8
			}

			writeGroup(&body, groupTag(dx+odx, dy+ody, angle+oangle, center, colors[li]), entry.Draw, triangles, sw)
		}

		layers = append(layers, LayerInfo{
			PatternIndex: pattern.Index(entry.Name),
			PatternName:  entry.Name,
			FG:           colors[li],
			StrokeWidth:  firstWidth,
			Overlaps:     overlaps[li],
		})
	}

	svg := assemble(opts.Size, canvasSize, opts.Zoom, bg, body.String())
	if opts.Finalize {
		svg = finalize.SVG(svg)
	}

	return Result{
		SVG:             svg,
		Layers:          layers,
		ColorSchemeName: schemeName,
		Divisions:       divisions,
		CanvasSize:      canvasSize,
	}, nil
}

// schemeSalt decorrelates the scheme stream from the main stream. With the
// bare seed its first draw would equal the layer-count roll.
const schemeSalt = 0x9E3779B9

// resolveScheme looks up name. "random" draws from its own salted stream so
// the main decision stream is unaffected.
func resolveScheme(name string, seed uint32) (scheme.Scheme, error) {
	if scheme.NormalizeKey(name) == scheme.Random {
		return scheme.At(prng.New(seed ^ schemeSalt).Intn(scheme.Len())), nil
	}
	s, ok := scheme.Lookup(name)
	if !ok {
		return scheme.Scheme{}, unknownScheme(name)
	}
	return s, nil
}

func groupTag(dx, dy, angle float64, center, color string) string {
	return `<g transform="translate(` + pattern.Fmt(dx) + "," + pattern.Fmt(dy) +
		") rotate(" + pattern.Fmt(angle) + "," + center + "," + center +
		`)" stroke="` + color + `" stroke-linecap="square" stroke-linejoin="bevel">`
}

func writeGroup(b *strings.Builder, tag string, draw pattern.Func, triangles []grid.Triangle, sw float64) {
	b.WriteString("    ")
	b.WriteString(tag)
	b.WriteByte('\n')
	for _, tri := range triangles {
		for _, prim := range strings.Split(draw(tri, sw), "\n") {
			b.WriteString("      ")
			b.WriteString(prim)
			b.WriteByte('\n')
		}
	}
	b.WriteString("    </g>\n")
}

func assemble(size, canvasSize int, zoom float64, bg, body string) string {
	view := float64(size) / zoom
	offset := (float64(canvasSize) - view) / 2
	o, v := pattern.Fmt(offset), pattern.Fmt(view)
	s, c := strconv.Itoa(size), strconv.Itoa(canvasSize)

	var b strings.Builder
	b.Grow(len(body) + 256)
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="` + o + " " + o + " " + v + " " + v +
		`" width="` + s + `" height="` + s + `">` + "\n")
	b.WriteString(`  <rect x="0" y="0" width="` + c + `" height="` + c + `" fill="` + bg + `"/>` + "\n")
	b.WriteString("  <g fill=\"none\">\n")
	b.WriteString(body)
	b.WriteString("  </g>\n")
	b.WriteString("</svg>")
	return b.String()
}
