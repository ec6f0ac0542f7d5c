package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kumiko/pkg/cache"
	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/observability"
	"github.com/matzehuels/kumiko/pkg/raster"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.New(io.Discard))
}

func fileCache(t *testing.T) *cache.FileCache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return c
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "json"} {
		assert.NoError(t, ValidateFormat(f), f)
	}
	for _, f := range []string{"pdf", "SVG", ""} {
		err := ValidateFormat(f)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "%q: %v", f, err)
	}
	assert.NoError(t, ValidateFormats(nil))
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" svg, PNG ,svg,,json")
	require.NoError(t, err)
	assert.Equal(t, []string{"svg", "png", "json"}, got)

	_, err = ParseFormats("svg,pdf")
	assert.Error(t, err)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty slug", Options{}, errors.ErrCodeInvalidSlug},
		{"slash in slug", Options{Slug: "a/b"}, errors.ErrCodeInvalidSlug},
		{"bad format", Options{Slug: "a", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad size", Options{Slug: "a", Generate: kumiko.Options{Size: -1}}, errors.ErrCodeInvalidInput},
		{"bad scheme", Options{Slug: "a", Generate: kumiko.Options{ColorScheme: "nope"}}, errors.ErrCodeUnknownScheme},
		{"tall png", Options{Slug: "a", Formats: []string{"png"}, PNGWidth: 100, PNGHeight: 200}, errors.ErrCodeInvalidInput},
		{"bad backend", Options{Slug: "a", Formats: []string{"png"}, Backend: "cairo"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}

	// png dimensions are not checked unless png is requested
	o := Options{Slug: "a", PNGWidth: 100, PNGHeight: 200}
	assert.NoError(t, o.Validate())
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Slug: "a"}
	o.SetDefaults()
	assert.Equal(t, []string{FormatSVG}, o.Formats)
	assert.Equal(t, raster.BackendNative, o.Backend)
	assert.Equal(t, raster.DefaultWidth, o.PNGWidth)
	assert.Equal(t, raster.DefaultHeight, o.PNGHeight)
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Slug: "s", Generate: kumiko.Options{Size: 400}}
	b := Options{Slug: "s", Generate: kumiko.Options{Size: 500}}
	a.SetDefaults()
	b.SetDefaults()

	assert.NotEqual(t, a.ArtifactKeyOpts(FormatSVG).OptionsHash, b.ArtifactKeyOpts(FormatSVG).OptionsHash)
	assert.Zero(t, a.ArtifactKeyOpts(FormatSVG).Width)
	assert.Equal(t, raster.DefaultWidth, a.ArtifactKeyOpts(FormatPNG).Width)
	assert.Equal(t, "native", a.ArtifactKeyOpts(FormatPNG).Backend)
}

func TestExecuteMatchesGenerator(t *testing.T) {
	gen := kumiko.Options{Size: 400, ColorScheme: "nord"}
	want, err := kumiko.GenerateDetailed("example-article-001", gen)
	require.NoError(t, err)

	r := quietRunner(t, nil)
	res, err := r.Execute(context.Background(), Options{
		Slug:     "example-article-001",
		Generate: gen,
		Formats:  []string{FormatSVG, FormatJSON},
	})
	require.NoError(t, err)

	assert.Equal(t, want.SVG, string(res.Artifacts[FormatSVG]))
	assert.Equal(t, want.Layers, res.Layers)
	assert.Equal(t, "Nord", res.ColorSchemeName)
	assert.False(t, res.CacheHit)

	var meta Metadata
	require.NoError(t, json.Unmarshal(res.Artifacts[FormatJSON], &meta))
	assert.Equal(t, "example-article-001", meta.Slug)
	assert.Equal(t, want.Layers, meta.Layers)
	assert.Equal(t, "Nord", meta.ColorSchemeName)
	assert.Equal(t, want.Divisions, meta.Divisions)
}

func TestExecuteFinalize(t *testing.T) {
	gen := kumiko.Options{Size: 400, Zoom: 3, Finalize: true}
	want, err := kumiko.Generate("zoomed", gen)
	require.NoError(t, err)

	res, err := quietRunner(t, nil).Execute(context.Background(), Options{Slug: "zoomed", Generate: gen})
	require.NoError(t, err)

	assert.Equal(t, want, string(res.Artifacts[FormatSVG]))
	assert.Positive(t, res.Stats.Finalize.Removed())
	assert.Less(t, res.Stats.Finalize.BytesAfter, res.Stats.Finalize.BytesBefore)
}

func TestExecuteOmitsUnrequestedFormats(t *testing.T) {
	res, err := quietRunner(t, fileCache(t)).Execute(context.Background(), Options{Slug: "only-svg"})
	require.NoError(t, err)
	assert.Len(t, res.Artifacts, 1)
	assert.Contains(t, res.Artifacts, FormatSVG)
}

func TestExecutePNG(t *testing.T) {
	res, err := quietRunner(t, nil).Execute(context.Background(), Options{
		Slug:      "png-slug",
		Generate:  kumiko.Options{Size: 200},
		Formats:   []string{FormatPNG},
		PNGWidth:  120,
		PNGHeight: 63,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Artifacts[FormatPNG], pngMagic))
	assert.NotContains(t, res.Artifacts, FormatSVG)
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	c := fileCache(t)
	r := quietRunner(t, c)
	opts := Options{
		Slug:     "cached",
		Generate: kumiko.Options{Size: 300, ColorScheme: "dracula"},
		Formats:  []string{FormatSVG},
	}

	first, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Artifacts[FormatSVG], second.Artifacts[FormatSVG])
	assert.Equal(t, first.Layers, second.Layers)
	assert.Equal(t, first.ColorSchemeName, second.ColorSchemeName)

	// metadata is stored even when not requested
	opts.Formats = []string{FormatSVG, FormatJSON}
	third, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, third.CacheHit)

	opts.Refresh = true
	fourth, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, fourth.CacheHit)

	// different options, different entry
	opts.Refresh = false
	opts.Generate.Size = 301
	fifth, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, fifth.CacheHit)
}

func TestExecuteCorruptMetadata(t *testing.T) {
	ctx := context.Background()
	c := fileCache(t)
	r := quietRunner(t, c)
	opts := Options{Slug: "corrupt"}
	require.NoError(t, opts.Validate())

	key := r.Keyer.ArtifactKey(opts.Slug, opts.ArtifactKeyOpts(FormatJSON))
	require.NoError(t, c.Set(ctx, key, []byte("{"), time.Hour))

	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.True(t, strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg"))
}

func TestExecuteInvalid(t *testing.T) {
	_, err := quietRunner(t, nil).Execute(context.Background(), Options{Slug: "x", Generate: kumiko.Options{ColorScheme: "bogus"}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownScheme, errors.GetCode(err))
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	generated int
	finalized int
	hits      []string
	sets      []string
}

func (h *recordingHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {
	h.generated++
}
func (h *recordingHooks) OnFinalizeComplete(context.Context, int, time.Duration) { h.finalized++ }
func (h *recordingHooks) OnCacheHit(_ context.Context, k string)                 { h.hits = append(h.hits, k) }
func (h *recordingHooks) OnCacheSet(_ context.Context, k string, _ int)          { h.sets = append(h.sets, k) }

func TestExecuteHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r := quietRunner(t, fileCache(t))
	opts := Options{Slug: "hooked", Generate: kumiko.Options{Size: 300, Finalize: true}}

	_, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	_, err = r.Execute(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, h.generated)
	assert.Equal(t, 1, h.finalized)
	assert.ElementsMatch(t, []string{FormatSVG, FormatJSON}, h.sets)
	assert.ElementsMatch(t, []string{FormatJSON, FormatSVG}, h.hits)
}
