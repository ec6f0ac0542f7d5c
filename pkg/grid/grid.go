// Package grid tiles a square canvas with equilateral triangles.
//
// Rows alternate upward and downward triangles; the output order is the
// render order, so later triangles stack on top of earlier ones.
package grid

import "math"

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Triangle is one grid cell.
type Triangle struct {
	Vertices [3]Point
	Centroid Point
	Index    int
	Upward   bool
}

// Generate tiles a size×size canvas with divisions upward triangles per row.
// One extra row is emitted below the canvas so edges stay covered.
func Generate(size float64, divisions int) []Triangle {
	if divisions <= 0 || size <= 0 {
		return nil
	}

	colWidth := size / float64(divisions)
	rowHeight := colWidth * (math.Sqrt(3) / 2)
	rows := int(math.Ceil(size/rowHeight)) + 1

	triangles := make([]Triangle, 0, rows*(2*divisions-1))
	index := 0
	for row := 0; row < rows; row++ {
		y := float64(row) * rowHeight
		for col := 0; col < divisions; col++ {
			x := float64(col) * colWidth

			triangles = append(triangles, newTriangle(
				Point{x, y + rowHeight},
				Point{x + colWidth, y + rowHeight},
				Point{x + colWidth/2, y},
				index, true,
			))
			index++

			// downward triangles sit between two upward ones
			if col < divisions-1 {
				triangles = append(triangles, newTriangle(
					Point{x + colWidth/2, y},
					Point{x + colWidth, y + rowHeight},
					Point{x + colWidth*1.5, y},
					index, false,
				))
				index++
			}
		}
	}
	return triangles
}

func newTriangle(a, b, c Point, index int, upward bool) Triangle {
	return Triangle{
		Vertices: [3]Point{a, b, c},
		Centroid: Point{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3},
		Index:    index,
		Upward:   upward,
	}
}
