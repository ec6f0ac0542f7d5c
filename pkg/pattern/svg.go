package pattern

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/kumiko/pkg/grid"
)

// Fmt formats n with two decimals, the coordinate precision of the wire
// format. Negative zero prints as "0.00".
func Fmt(n float64) string {
	if n == 0 {
		n = 0
	}
	s := strconv.FormatFloat(n, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// Width formats a stroke width in its shortest decimal form (2, 1.5, 0.75).
func Width(sw float64) string {
	return strconv.FormatFloat(sw, 'f', -1, 64)
}

// Line renders a straight segment from a to b.
func Line(a, b grid.Point, sw float64) string {
	var sb strings.Builder
	sb.Grow(80)
	sb.WriteString(`<line x1="`)
	sb.WriteString(Fmt(a.X))
	sb.WriteString(`" y1="`)
	sb.WriteString(Fmt(a.Y))
	sb.WriteString(`" x2="`)
	sb.WriteString(Fmt(b.X))
	sb.WriteString(`" y2="`)
	sb.WriteString(Fmt(b.Y))
	sb.WriteString(`" stroke-width="`)
	sb.WriteString(Width(sw))
	sb.WriteString(`"/>`)
	return sb.String()
}

// Arc renders a clockwise circular arc of radius r from a to b.
func Arc(a, b grid.Point, r, sw float64) string {
	return `<path d="M ` + Fmt(a.X) + " " + Fmt(a.Y) +
		" A " + Fmt(r) + " " + Fmt(r) + " 0 0 1 " + Fmt(b.X) + " " + Fmt(b.Y) +
		`" fill="none" stroke-width="` + Width(sw) + `"/>`
}

// Quad renders a quadratic Bézier from a to b through control point c.
func Quad(a, c, b grid.Point, sw float64) string {
	return `<path d="M ` + Fmt(a.X) + " " + Fmt(a.Y) +
		" Q " + Fmt(c.X) + " " + Fmt(c.Y) + " " + Fmt(b.X) + " " + Fmt(b.Y) +
		`" fill="none" stroke-width="` + Width(sw) + `"/>`
}

// Mid returns the midpoint of a and b.
func Mid(a, b grid.Point) grid.Point {
	return grid.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Lerp interpolates from a toward b by t.
func Lerp(a, b grid.Point, t float64) grid.Point {
	return grid.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Dist is the Euclidean distance between a and b.
func Dist(a, b grid.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
