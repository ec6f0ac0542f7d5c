// Package svgdoc reads the line-oriented SVG documents kumiko emits.
//
// The generator writes one element per line with a fixed attribute order;
// this package recognizes that shape without a general XML parser. Two
// consumers share it: the finalizer (which tests each primitive line and
// re-emits it verbatim) and the native rasterizer (which needs the whole
// document as geometry via [Parse]).
//
// Anything that does not match a known shape is reported as [KindUnknown]
// rather than an error, so callers can decide to keep it.
package svgdoc

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/kumiko/pkg/grid"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// MaxX is the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY is the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Pad grows r by p on every side.
func (r Rect) Pad(p float64) Rect {
	return Rect{X: r.X - p, Y: r.Y - p, W: r.W + 2*p, H: r.H + 2*p}
}

// Transform is a `translate(DX,DY) rotate(Angle,CX,CY)` group transform.
type Transform struct {
	DX, DY float64
	Angle  float64 // degrees
	CX, CY float64
}

// Apply rotates p around (CX,CY), then translates it.
func (t Transform) Apply(p grid.Point) grid.Point {
	rad := t.Angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	x := (p.X-t.CX)*cos - (p.Y-t.CY)*sin + t.CX
	y := (p.X-t.CX)*sin + (p.Y-t.CY)*cos + t.CY
	return grid.Point{X: x + t.DX, Y: y + t.DY}
}

// Kind classifies a primitive line.
type Kind int

const (
	KindUnknown Kind = iota
	KindLine
	KindQuad
	KindArc
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindQuad:
		return "quad"
	case KindArc:
		return "arc"
	}
	return "unknown"
}

// Primitive is one parsed drawing element.
//
// Points holds the defining coordinates: line (start, end), quad
// (start, control, end), arc (start, end). Radius is set for arcs only.
type Primitive struct {
	Kind        Kind
	Points      []grid.Point
	Radius      float64
	StrokeWidth float64
}

// Group is a transform group with its children.
type Group struct {
	Transform  Transform
	Stroke     string
	Primitives []Primitive
}

// Document is the parsed geometry of a generated SVG.
type Document struct {
	ViewBox    Rect
	Width      float64
	Height     float64
	Background string
	Canvas     Rect
	Groups     []Group
}

var (
	viewBoxRe   = regexp.MustCompile(`viewBox="([^"]+)"`)
	widthRe     = regexp.MustCompile(`<svg[^>]*\swidth="([^"]+)"`)
	heightRe    = regexp.MustCompile(`<svg[^>]*\sheight="([^"]+)"`)
	transformRe = regexp.MustCompile(`^<g\s+transform="translate\(([^,]+),([^)]+)\)\s+rotate\(([^,]+),([^,]+),([^)]+)\)"`)
	strokeRe    = regexp.MustCompile(`\sstroke="([^"]+)"`)
	lineRe      = regexp.MustCompile(`^<line\s+x1="([^"]+)"\s+y1="([^"]+)"\s+x2="([^"]+)"\s+y2="([^"]+)"`)
	quadRe      = regexp.MustCompile(`^<path\s+d="M\s+(\S+)\s+(\S+)\s+Q\s+(\S+)\s+(\S+)\s+(\S+)\s+([^\s"]+)"`)
	arcRe       = regexp.MustCompile(`^<path\s+d="M\s+(\S+)\s+(\S+)\s+A\s+(\S+)\s+(\S+)\s+\d+\s+\d+\s+\d+\s+(\S+)\s+([^\s"]+)"`)
	widthAttrRe = regexp.MustCompile(`stroke-width="([^"]+)"`)
	rectRe      = regexp.MustCompile(`^<rect\s+x="([^"]+)"\s+y="([^"]+)"\s+width="([^"]+)"\s+height="([^"]+)"\s+fill="([^"]+)"`)
)

// ParseViewBox extracts the first viewBox attribute of doc. It reports false
// when the attribute is missing or does not hold four numbers.
func ParseViewBox(doc string) (Rect, bool) {
	m := viewBoxRe.FindStringSubmatch(doc)
	if m == nil {
		return Rect{}, false
	}
	f, ok := floats(strings.Fields(m[1]))
	if !ok || len(f) != 4 {
		return Rect{}, false
	}
	return Rect{X: f[0], Y: f[1], W: f[2], H: f[3]}, true
}

// ParseTransform recognizes a transform group opening tag. line must be
// trimmed.
func ParseTransform(line string) (Transform, bool) {
	m := transformRe.FindStringSubmatch(line)
	if m == nil {
		return Transform{}, false
	}
	f, ok := floats(m[1:])
	if !ok {
		return Transform{}, false
	}
	return Transform{DX: f[0], DY: f[1], Angle: f[2], CX: f[3], CY: f[4]}, true
}

// ParsePrimitive classifies a trimmed element line. Unrecognized or
// malformed elements come back as KindUnknown.
func ParsePrimitive(line string) Primitive {
	if m := lineRe.FindStringSubmatch(line); m != nil {
		if f, ok := floats(m[1:]); ok {
			return Primitive{
				Kind:        KindLine,
				Points:      []grid.Point{{X: f[0], Y: f[1]}, {X: f[2], Y: f[3]}},
				StrokeWidth: strokeWidth(line),
			}
		}
	}
	if m := quadRe.FindStringSubmatch(line); m != nil {
		if f, ok := floats(m[1:]); ok {
			return Primitive{
				Kind:        KindQuad,
				Points:      []grid.Point{{X: f[0], Y: f[1]}, {X: f[2], Y: f[3]}, {X: f[4], Y: f[5]}},
				StrokeWidth: strokeWidth(line),
			}
		}
	}
	if m := arcRe.FindStringSubmatch(line); m != nil {
		if f, ok := floats(m[1:]); ok {
			return Primitive{
				Kind:        KindArc,
				Points:      []grid.Point{{X: f[0], Y: f[1]}, {X: f[4], Y: f[5]}},
				Radius:      f[2],
				StrokeWidth: strokeWidth(line),
			}
		}
	}
	return Primitive{Kind: KindUnknown}
}

// Parse reads a whole generated document. Lines outside the known shapes
// are skipped.
func Parse(doc string) (*Document, error) {
	vb, ok := ParseViewBox(doc)
	if !ok {
		return nil, errMissingViewBox
	}
	d := &Document{ViewBox: vb, Width: vb.W, Height: vb.H}
	if m := widthRe.FindStringSubmatch(doc); m != nil {
		if w, err := strconv.ParseFloat(m[1], 64); err == nil {
			d.Width = w
		}
	}
	if m := heightRe.FindStringSubmatch(doc); m != nil {
		if h, err := strconv.ParseFloat(m[1], 64); err == nil {
			d.Height = h
		}
	}

	var cur *Group
	for _, raw := range strings.Split(doc, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if t, ok := ParseTransform(line); ok {
			d.Groups = append(d.Groups, Group{Transform: t, Stroke: attr(strokeRe, line)})
			cur = &d.Groups[len(d.Groups)-1]
			continue
		}
		if cur != nil {
			if line == "</g>" {
				cur = nil
				continue
			}
			if p := ParsePrimitive(line); p.Kind != KindUnknown {
				cur.Primitives = append(cur.Primitives, p)
			}
			continue
		}
		if m := rectRe.FindStringSubmatch(line); m != nil && d.Background == "" {
			if f, ok := floats(m[1:5]); ok {
				d.Canvas = Rect{X: f[0], Y: f[1], W: f[2], H: f[3]}
				d.Background = m[5]
			}
		}
	}
	return d, nil
}

// Count tallies the primitives and transform groups of doc.
func Count(doc string) (primitives, groups int) {
	inGroup := false
	for _, raw := range strings.Split(doc, "\n") {
		line := strings.TrimSpace(raw)
		if _, ok := ParseTransform(line); ok {
			inGroup = true
			groups++
			continue
		}
		if !inGroup {
			continue
		}
		if line == "</g>" {
			inGroup = false
			continue
		}
		if line != "" {
			primitives++
		}
	}
	return primitives, groups
}

func strokeWidth(line string) float64 {
	w, err := strconv.ParseFloat(attr(widthAttrRe, line), 64)
	if err != nil {
		return 1
	}
	return w
}

func attr(re *regexp.Regexp, line string) string {
	if m := re.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

func floats(ss []string) ([]float64, bool) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
