package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/grid"
	"github.com/matzehuels/kumiko/pkg/kumiko"
)

const flatDoc = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0.00 0.00 100.00 100.00" width="100" height="100">
  <rect x="0" y="0" width="100" height="100" fill="#2d2d2d"/>
  <g fill="none">
  </g>
</svg>`

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	return img
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func TestConvertDimensions(t *testing.T) {
	svg, err := kumiko.Generate("raster-test", kumiko.Options{Size: 200})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		w, h int
	}{
		{120, 63},
		{80, 80},
		{64, 1},
	}
	for _, tt := range tests {
		data, err := Convert(context.Background(), []byte(svg), Options{Width: tt.w, Height: tt.h})
		if err != nil {
			t.Fatalf("%dx%d: %v", tt.w, tt.h, err)
		}
		b := decode(t, data).Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("output = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}
}

func TestConvertBackground(t *testing.T) {
	data, err := Convert(context.Background(), []byte(flatDoc), Options{Width: 40, Height: 20, Supersample: 1})
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := decode(t, data).At(20, 10).RGBA()
	if !near(uint8(r>>8), 0x2d) || !near(uint8(g>>8), 0x2d) || !near(uint8(b>>8), 0x2d) || uint8(a>>8) != 0xff {
		t.Errorf("center pixel = %d,%d,%d,%d, want #2d2d2d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestConvertDrawsStrokes(t *testing.T) {
	svg, err := kumiko.Generate("strokes", kumiko.Options{Size: 200, FG: "#ffffff", StrokeWidth: 4})
	if err != nil {
		t.Fatal(err)
	}
	data, err := Convert(context.Background(), []byte(svg), Options{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, data)
	bright := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r>>8 > 0x80 {
				bright++
			}
		}
	}
	if bright == 0 {
		t.Error("no stroke pixels rendered")
	}
}

func TestConvertValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"taller than wide", Options{Width: 100, Height: 200}},
		{"negative width", Options{Width: -1, Height: 10}},
		{"bad backend", Options{Backend: "cairo"}},
		{"huge supersample", Options{Supersample: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(context.Background(), []byte(flatDoc), tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestConvertBadDocument(t *testing.T) {
	_, err := Convert(context.Background(), []byte("<svg></svg>"), Options{Width: 10, Height: 10})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestConvertFileMissing(t *testing.T) {
	_, err := ConvertFile(context.Background(), filepath.Join(t.TempDir(), "nope.svg"), Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCrop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{R: uint8(y), A: 255})
		}
	}
	out := Crop(src, 4)
	if b := out.Bounds(); b.Dx() != 10 || b.Dy() != 4 {
		t.Fatalf("crop = %v", b)
	}
	// top = round((10-4)/2) = 3
	for y := 0; y < 4; y++ {
		if r, _, _, _ := out.At(0, y).RGBA(); uint8(r>>8) != uint8(3+y) {
			t.Errorf("row %d came from source row %d, want %d", y, r>>8, 3+y)
		}
	}
	if Crop(src, 10) != image.Image(src) {
		t.Error("full-height crop should return the source")
	}
}

func TestResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	if got := Resize(src, 40); got != image.Image(src) {
		t.Error("same-size resize should return the source")
	}
	if b := Resize(src, 10).Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("resize = %v", b)
	}
}

func TestArcCenter(t *testing.T) {
	c, start, sweep, r := arcCenter(grid.Point{X: 0, Y: 0}, grid.Point{X: 10, Y: 0}, 5)
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Y) > 1e-9 || r != 5 {
		t.Errorf("center = %+v r = %v, want (5,0) r=5", c, r)
	}
	if math.Abs(math.Abs(start)-math.Pi) > 1e-9 || math.Abs(sweep-math.Pi) > 1e-9 {
		t.Errorf("start = %v sweep = %v, want ±π and π", start, sweep)
	}

	// radius too small for the chord is scaled up
	_, _, _, r = arcCenter(grid.Point{X: 0, Y: 0}, grid.Point{X: 10, Y: 0}, 4.99)
	if math.Abs(r-5) > 1e-9 {
		t.Errorf("scaled radius = %v, want 5", r)
	}

	// larger radius gives a shallower arc, bulging toward negative y
	c, _, sweep, _ = arcCenter(grid.Point{X: 0, Y: 0}, grid.Point{X: 10, Y: 0}, 10)
	if c.Y <= 0 || sweep >= math.Pi {
		t.Errorf("center = %+v sweep = %v", c, sweep)
	}
}

func TestArcCubicsEndpoints(t *testing.T) {
	a, b := grid.Point{X: 0, Y: 0}, grid.Point{X: 10, Y: 0}
	segs := arcCubics(a, b, 5)
	if len(segs) != 2 {
		t.Fatalf("half circle split into %d segments, want 2", len(segs))
	}
	if segs[len(segs)-1][2] != b {
		t.Errorf("arc ends at %+v, want %+v", segs[len(segs)-1][2], b)
	}
	// the midpoint of a clockwise half circle from (0,0) to (10,0) is (5,-5)
	mid := segs[0][2]
	if math.Abs(mid.X-5) > 1e-9 || math.Abs(mid.Y+5) > 1e-9 {
		t.Errorf("arc midpoint = %+v, want (5,-5)", mid)
	}
	if got := arcCubics(a, a, 5); len(got) != 1 {
		t.Errorf("degenerate arc = %v", got)
	}
}
