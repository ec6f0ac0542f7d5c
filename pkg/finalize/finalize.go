// Package finalize removes geometry that falls outside a document's viewBox.
//
// Generated documents draw on a canvas that can be much larger than what the
// viewBox shows (zoom, overflow). [SVG] walks the document line by line,
// maps every primitive inside a transform group through that group's
// rotate-then-translate transform, and drops those that cannot touch the
// viewBox padded by 5% of its larger side. Groups left without children are
// dropped entirely. Everything else, including the kept lines themselves, is
// emitted byte for byte.
//
// The tests are conservative: a primitive is only dropped when it provably
// misses the padded area, and unrecognized elements are always kept.
package finalize

import (
	"strings"

	"github.com/matzehuels/kumiko/pkg/grid"
	"github.com/matzehuels/kumiko/pkg/svgdoc"
)

// PaddingRatio is the viewBox margin, as a fraction of its larger side.
const PaddingRatio = 0.05

// Stats describes what a finalize pass removed.
type Stats struct {
	PrimitivesBefore int
	PrimitivesAfter  int
	GroupsBefore     int
	GroupsAfter      int
	BytesBefore      int
	BytesAfter       int
}

// Removed is the number of dropped primitives.
func (s Stats) Removed() int { return s.PrimitivesBefore - s.PrimitivesAfter }

// SVG culls invisible primitives from doc. A document without a usable
// viewBox is returned unchanged.
func SVG(doc string) string {
	out, _ := SVGWithStats(doc)
	return out
}

// SVGWithStats is SVG plus counts of what was kept.
func SVGWithStats(doc string) (string, Stats) {
	stats := Stats{BytesBefore: len(doc)}
	vb, ok := svgdoc.ParseViewBox(doc)
	if !ok {
		stats.PrimitivesBefore, stats.GroupsBefore = svgdoc.Count(doc)
		stats.PrimitivesAfter, stats.GroupsAfter = stats.PrimitivesBefore, stats.GroupsBefore
		stats.BytesAfter = len(doc)
		return doc, stats
	}
	area := vb.Pad(max(vb.W, vb.H) * PaddingRatio)

	lines := strings.Split(doc, "\n")
	out := make([]string, 0, len(lines))

	var (
		inScope  bool
		tr       svgdoc.Transform
		header   string
		children []string
	)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if t, ok := svgdoc.ParseTransform(trimmed); ok {
			inScope, tr, header = true, t, line
			children = children[:0]
			stats.GroupsBefore++
			continue
		}

		if inScope && trimmed == "</g>" {
			if len(children) > 0 {
				out = append(out, header)
				out = append(out, children...)
				out = append(out, line)
				stats.GroupsAfter++
			}
			inScope = false
			continue
		}

		if inScope {
			if trimmed == "" {
				continue
			}
			stats.PrimitivesBefore++
			if Visible(svgdoc.ParsePrimitive(trimmed), tr, area) {
				children = append(children, line)
				stats.PrimitivesAfter++
			}
			continue
		}

		out = append(out, line)
	}

	result := strings.Join(out, "\n")
	stats.BytesAfter = len(result)
	return result, stats
}

// Visible reports whether p, drawn under tr, can intersect area.
func Visible(p svgdoc.Primitive, tr svgdoc.Transform, area svgdoc.Rect) bool {
	switch p.Kind {
	case svgdoc.KindLine:
		a, b := tr.Apply(p.Points[0]), tr.Apply(p.Points[1])
		return SegmentIntersects(a, b, area)
	case svgdoc.KindQuad:
		return BoundsIntersect(transformAll(tr, p.Points), area, 0)
	case svgdoc.KindArc:
		return BoundsIntersect(transformAll(tr, p.Points), area, p.Radius)
	default:
		return true
	}
}

func transformAll(tr svgdoc.Transform, pts []grid.Point) []grid.Point {
	out := make([]grid.Point, len(pts))
	for i, p := range pts {
		out[i] = tr.Apply(p)
	}
	return out
}

// SegmentIntersects is a separating-axis test between segment ab and r on
// the x axis, the y axis and the segment's normal.
func SegmentIntersects(a, b grid.Point, r svgdoc.Rect) bool {
	minX, maxX, minY, maxY := r.X, r.MaxX(), r.Y, r.MaxY()

	if max(a.X, b.X) < minX || min(a.X, b.X) > maxX {
		return false
	}
	if max(a.Y, b.Y) < minY || min(a.Y, b.Y) > maxY {
		return false
	}

	// all four corners strictly on one side of the line means a miss
	dx, dy := b.X-a.X, b.Y-a.Y
	side := func(x, y float64) float64 { return dy*(x-a.X) - dx*(y-a.Y) }
	c1, c2 := side(minX, minY), side(maxX, minY)
	c3, c4 := side(minX, maxY), side(maxX, maxY)
	if c1 > 0 && c2 > 0 && c3 > 0 && c4 > 0 {
		return false
	}
	if c1 < 0 && c2 < 0 && c3 < 0 && c4 < 0 {
		return false
	}
	return true
}

// BoundsIntersect tests the bounding box of pts, grown by expand on every
// side, against r.
func BoundsIntersect(pts []grid.Point, r svgdoc.Rect, expand float64) bool {
	if len(pts) == 0 {
		return true
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	minX, minY = minX-expand, minY-expand
	maxX, maxY = maxX+expand, maxY+expand
	return maxX >= r.X && minX <= r.MaxX() && maxY >= r.Y && minY <= r.MaxY()
}
