// Package raster converts generated SVG documents to PNG.
//
// The document is rendered square at the output width, then a horizontal
// strip of the requested height is cut from its vertical center. The default
// 1200x630 output fits link-preview cards.
//
// Two backends are available:
//   - [BackendNative] renders with the pure-Go gogpu/gg rasterizer at a
//     supersampled resolution and downscales with a Catmull-Rom filter.
//   - [BackendRsvg] shells out to rsvg-convert from librsvg.
package raster

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/kumiko/pkg/errors"
)

// Backend selects the SVG renderer.
type Backend string

const (
	BackendNative Backend = "native"
	BackendRsvg   Backend = "rsvg"
)

// Defaults for zero-valued Options fields.
const (
	DefaultWidth       = 1200
	DefaultHeight      = 630
	DefaultSupersample = 2
)

// Backends lists the supported backend names.
var Backends = []Backend{BackendNative, BackendRsvg}

// Options configures a conversion.
type Options struct {
	Width   int
	Height  int
	Backend Backend
	// Supersample renders the native backend at Width*Supersample before
	// downscaling. Ignored by rsvg.
	Supersample int
}

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Backend == "" {
		o.Backend = BackendNative
	}
	if o.Supersample == 0 {
		o.Supersample = DefaultSupersample
	}
	return o
}

// Validate checks dimensions and backend. Call after WithDefaults.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Height > o.Width {
		return errors.New(errors.ErrCodeInvalidInput, "height %d exceeds width %d: output is cropped from a square render", o.Height, o.Width)
	}
	if o.Supersample < 1 || o.Supersample > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "supersample must be between 1 and 8, got %d", o.Supersample)
	}
	switch o.Backend {
	case BackendNative, BackendRsvg:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown raster backend %q (want native or rsvg)", o.Backend)
	}
	return nil
}

// Convert renders svg to PNG bytes.
func Convert(ctx context.Context, svg []byte, opts Options) ([]byte, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	img, err := render(ctx, svg, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Crop(Resize(img, opts.Width), opts.Height)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// ConvertFile reads an SVG file and converts it.
func ConvertFile(ctx context.Context, path string, opts Options) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Convert(ctx, data, opts)
}

func render(ctx context.Context, svg []byte, opts Options) (image.Image, error) {
	switch opts.Backend {
	case BackendRsvg:
		data, err := rsvgConvert(ctx, svg, "png", "-w", itoa(opts.Width), "-h", itoa(opts.Width))
		if err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRasterFailed, err, "decode rsvg-convert output")
		}
		return img, nil
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return renderNative(string(svg), opts.Width*opts.Supersample)
	}
}

// Resize scales img to a size×size square with Catmull-Rom resampling.
// An image already at that size is returned as is.
func Resize(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Crop cuts a full-width strip of the given height from the vertical
// center of img.
func Crop(img image.Image, height int) image.Image {
	b := img.Bounds()
	if height >= b.Dy() {
		return img
	}
	top := int(math.Round(float64(b.Dy()-height) / 2))
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), height))
	xdraw.Copy(dst, image.Point{}, img, image.Rect(b.Min.X, b.Min.Y+top, b.Max.X, b.Min.Y+top+height), xdraw.Src, nil)
	return dst
}
