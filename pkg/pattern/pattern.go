// Package pattern holds the kumiko motifs drawn into each grid triangle.
//
// # Registry
//
// [Registry] is a fixed, ordered list. A motif's position is its public
// index: generated layer metadata records it as PatternIndex, so entries are
// only ever appended, never reordered or removed.
//
//	0 asanoha      hemp leaf: vertex to centroid
//	1 mitsukude    three-pronged: edge midpoint to centroid
//	2 goma         sesame: vertex to opposite edge midpoint
//	3 shippo       seven treasures: vertex to vertex arcs
//	4 yae-asanoha  double hemp leaf: all six spokes
//	5 kikko        tortoise shell: inner triangle plus connectors
//	6 sakura       cherry blossom: petal curves plus spokes
//	7 bishamon     dense web: inner triangle, radials, cross links
//	8 izutsu       well frame: two nested triangles plus connectors
//
// # Output
//
// Every motif is a pure function of the triangle and stroke width and returns
// its primitives joined by newlines, in a fixed order. Primitive syntax is
// produced by [Line], [Arc] and [Quad] and is consumed verbatim by the
// finalize and raster packages.
package pattern

import (
	"strings"

	"github.com/matzehuels/kumiko/pkg/grid"
)

// Func renders one triangle.
type Func func(t grid.Triangle, strokeWidth float64) string

// Entry is a named motif.
type Entry struct {
	Name string
	Draw Func
}

var registry = [...]Entry{
	{"asanoha", Asanoha},
	{"mitsukude", Mitsukude},
	{"goma", Goma},
	{"shippo", Shippo},
	{"yae-asanoha", YaeAsanoha},
	{"kikko", Kikko},
	{"sakura", Sakura},
	{"bishamon", Bishamon},
	{"izutsu", Izutsu},
}

// Registry returns a copy of the ordered motif list.
func Registry() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry[:])
	return out
}

// Len is the number of registered motifs.
func Len() int { return len(registry) }

// Names returns motif names in registry order.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.Name
	}
	return names
}

// Lookup finds a motif by name and returns it with its registry index.
func Lookup(name string) (Entry, int, bool) {
	for i, e := range registry {
		if e.Name == name {
			return e, i, true
		}
	}
	return Entry{}, -1, false
}

// Index returns the registry position of name, or -1.
func Index(name string) int {
	_, i, _ := Lookup(name)
	return i
}

func join(parts ...string) string {
	return strings.Join(parts, "\n")
}

// Asanoha draws a line from each vertex to the centroid.
func Asanoha(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	cen := t.Centroid
	return join(
		Line(a, cen, sw),
		Line(b, cen, sw),
		Line(c, cen, sw),
	)
}

// Mitsukude draws a line from each edge midpoint to the centroid.
func Mitsukude(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	cen := t.Centroid
	return join(
		Line(Mid(a, b), cen, sw),
		Line(Mid(b, c), cen, sw),
		Line(Mid(c, a), cen, sw),
	)
}

// Goma draws a line from each vertex to the midpoint of the opposite edge.
func Goma(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	return join(
		Line(a, Mid(b, c), sw),
		Line(b, Mid(c, a), sw),
		Line(c, Mid(a, b), sw),
	)
}

// Shippo draws an arc along each edge with half the edge length as radius.
func Shippo(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	r := Dist(a, b) * 0.5
	return join(
		Arc(a, b, r, sw),
		Arc(b, c, r, sw),
		Arc(c, a, r, sw),
	)
}

// YaeAsanoha draws all six spokes: vertices and edge midpoints to the centroid.
func YaeAsanoha(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	cen := t.Centroid
	return join(
		Line(a, cen, sw),
		Line(b, cen, sw),
		Line(c, cen, sw),
		Line(Mid(a, b), cen, sw),
		Line(Mid(b, c), cen, sw),
		Line(Mid(c, a), cen, sw),
	)
}

// Kikko draws an inner triangle at 40% toward each vertex and connects it
// to the outer vertices.
func Kikko(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	cen := t.Centroid
	ia, ib, ic := Lerp(cen, a, 0.4), Lerp(cen, b, 0.4), Lerp(cen, c, 0.4)
	return join(
		Line(ia, ib, sw),
		Line(ib, ic, sw),
		Line(ic, ia, sw),
		Line(a, ia, sw),
		Line(b, ib, sw),
		Line(c, ic, sw),
	)
}

// Sakura draws a petal curve at each vertex, with control points 25% toward
// the centroid, plus spokes from the centroid to the edge midpoints.
func Sakura(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	cen := t.Centroid
	mab, mbc, mca := Mid(a, b), Mid(b, c), Mid(c, a)
	return join(
		Quad(mca, Lerp(a, cen, 0.25), mab, sw),
		Quad(mab, Lerp(b, cen, 0.25), mbc, sw),
		Quad(mbc, Lerp(c, cen, 0.25), mca, sw),
		Line(cen, mab, sw),
		Line(cen, mbc, sw),
		Line(cen, mca, sw),
	)
}

// Bishamon draws an inner triangle at 35%, vertex radials, and links from
// each inner vertex to the opposite outer midpoint. Nine lines.
func Bishamon(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	cen := t.Centroid
	ia, ib, ic := Lerp(cen, a, 0.35), Lerp(cen, b, 0.35), Lerp(cen, c, 0.35)
	return join(
		Line(ia, ib, sw),
		Line(ib, ic, sw),
		Line(ic, ia, sw),
		Line(a, cen, sw),
		Line(b, cen, sw),
		Line(c, cen, sw),
		Line(ia, Mid(b, c), sw),
		Line(ib, Mid(c, a), sw),
		Line(ic, Mid(a, b), sw),
	)
}

// Izutsu draws a mid triangle at 65% and an inner one at 30%, joined by
// radial connectors outer to mid to inner. Twelve lines.
func Izutsu(t grid.Triangle, sw float64) string {
	a, b, c := t.Vertices[0], t.Vertices[1], t.Vertices[2]
	cen := t.Centroid
	ma, mb, mc := Lerp(cen, a, 0.65), Lerp(cen, b, 0.65), Lerp(cen, c, 0.65)
	ia, ib, ic := Lerp(cen, a, 0.3), Lerp(cen, b, 0.3), Lerp(cen, c, 0.3)
	return join(
		Line(ma, mb, sw),
		Line(mb, mc, sw),
		Line(mc, ma, sw),
		Line(ia, ib, sw),
		Line(ib, ic, sw),
		Line(ic, ia, sw),
		Line(a, ma, sw),
		Line(b, mb, sw),
		Line(c, mc, sw),
		Line(ma, ia, sw),
		Line(mb, ib, sw),
		Line(mc, ic, sw),
	)
}
