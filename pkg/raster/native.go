package raster

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/grid"
	"github.com/matzehuels/kumiko/pkg/svgdoc"
)

// renderNative draws a generated document into a size×size image.
func renderNative(doc string, size int) (image.Image, error) {
	d, err := svgdoc.Parse(doc)
	if err != nil {
		return nil, err
	}
	if d.ViewBox.W <= 0 || d.ViewBox.H <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "viewBox must have a positive size")
	}

	dc := gg.NewContext(size, size)
	defer dc.Close()

	// viewBox → pixels
	dc.Scale(float64(size)/d.ViewBox.W, float64(size)/d.ViewBox.H)
	dc.Translate(-d.ViewBox.X, -d.ViewBox.Y)

	if d.Background != "" {
		dc.SetColor(parseColor(d.Background))
		dc.DrawRectangle(d.Canvas.X, d.Canvas.Y, d.Canvas.W, d.Canvas.H)
		if err := dc.Fill(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRasterFailed, err, "fill background")
		}
	}

	dc.SetLineCap(gg.LineCapSquare)
	dc.SetLineJoin(gg.LineJoinBevel)
	for _, g := range d.Groups {
		if err := drawGroup(dc, g); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

func drawGroup(dc *gg.Context, g svgdoc.Group) error {
	dc.Push()
	defer dc.Pop()

	t := g.Transform
	dc.Translate(t.DX, t.DY)
	dc.RotateAbout(t.Angle*math.Pi/180, t.CX, t.CY)
	dc.SetColor(parseColor(g.Stroke))

	for _, p := range g.Primitives {
		pts := p.Points
		switch p.Kind {
		case svgdoc.KindLine:
			dc.MoveTo(pts[0].X, pts[0].Y)
			dc.LineTo(pts[1].X, pts[1].Y)
		case svgdoc.KindQuad:
			dc.MoveTo(pts[0].X, pts[0].Y)
			dc.QuadraticTo(pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case svgdoc.KindArc:
			dc.MoveTo(pts[0].X, pts[0].Y)
			for _, c := range arcCubics(pts[0], pts[1], p.Radius) {
				dc.CubicTo(c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y)
			}
		default:
			continue
		}
		dc.SetLineWidth(p.StrokeWidth)
		if err := dc.Stroke(); err != nil {
			return errors.Wrap(errors.ErrCodeRasterFailed, err, "stroke %s", p.Kind)
		}
	}
	return nil
}

// parseColor accepts #rgb and #rrggbb and falls back to black.
func parseColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// arcCubics approximates the SVG arc "A r r 0 0 1 b" starting at a with
// cubic Béziers of at most 90 degrees each. Each element holds the two
// control points and the end point of one segment.
func arcCubics(a, b grid.Point, r float64) [][3]grid.Point {
	center, start, sweep, r := arcCenter(a, b, r)
	if r == 0 || sweep == 0 {
		return [][3]grid.Point{{a, b, b}}
	}

	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	out := make([][3]grid.Point, 0, n)
	for i := 0; i < n; i++ {
		a1 := start + float64(i)*step
		a2 := a1 + step
		s1, c1 := math.Sincos(a1)
		s2, c2 := math.Sincos(a2)
		p0 := grid.Point{X: center.X + r*c1, Y: center.Y + r*s1}
		p3 := grid.Point{X: center.X + r*c2, Y: center.Y + r*s2}
		out = append(out, [3]grid.Point{
			{X: p0.X - k*r*s1, Y: p0.Y + k*r*c1},
			{X: p3.X + k*r*s2, Y: p3.Y - k*r*c2},
			p3,
		})
	}
	if len(out) > 0 {
		out[len(out)-1][2] = b
	}
	return out
}

// arcCenter converts a circular arc from endpoint form (large-arc 0,
// sweep 1) to center form. A radius too small to span the chord is scaled
// up as SVG renderers do. It returns the center, start angle, signed sweep
// and effective radius.
func arcCenter(a, b grid.Point, r float64) (grid.Point, float64, float64, float64) {
	r = math.Abs(r)
	if r == 0 || (a.X == b.X && a.Y == b.Y) {
		return grid.Point{}, 0, 0, 0
	}
	hx, hy := (a.X-b.X)/2, (a.Y-b.Y)/2
	half := math.Hypot(hx, hy)
	if r < half {
		r = half
	}
	// large-arc differs from sweep, so the center sits on the positive side
	coef := math.Sqrt(max(0, (r*r-half*half)/(half*half)))
	cx := coef*hy + (a.X+b.X)/2
	cy := -coef*hx + (a.Y+b.Y)/2

	start := math.Atan2(a.Y-cy, a.X-cx)
	end := math.Atan2(b.Y-cy, b.X-cx)
	sweep := end - start
	if sweep < 0 {
		sweep += 2 * math.Pi
	}
	return grid.Point{X: cx, Y: cy}, start, sweep, r
}
