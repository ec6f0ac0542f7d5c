package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kumiko/pkg/cache"
	"github.com/matzehuels/kumiko/pkg/finalize"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/observability"
	"github.com/matzehuels/kumiko/pkg/raster"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute produces every requested format for opts.Slug.
//
// The JSON metadata entry is always read and written alongside the requested
// formats so a full cache hit can still report layers and scheme.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if !opts.Refresh {
		if res, ok := r.fromCache(ctx, opts); ok {
			r.Logger.Debug("served from cache", "slug", opts.Slug, "formats", opts.Formats)
			return res, nil
		}
	}

	res, err := r.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.store(ctx, opts, res)
	return res, nil
}

func (r *Runner) fromCache(ctx context.Context, opts Options) (*Result, bool) {
	meta, ok := r.lookup(ctx, opts, FormatJSON)
	if !ok {
		return nil, false
	}
	var m Metadata
	if err := json.Unmarshal(meta, &m); err != nil {
		r.Logger.Debug("discarding corrupt metadata entry", "slug", opts.Slug, "err", err)
		return nil, false
	}

	res := &Result{
		Artifacts:       make(map[string][]byte, len(opts.Formats)),
		Layers:          m.Layers,
		ColorSchemeName: m.ColorSchemeName,
		CacheHit:        true,
	}
	for _, f := range opts.Formats {
		if f == FormatJSON {
			res.Artifacts[f] = meta
			continue
		}
		data, ok := r.lookup(ctx, opts, f)
		if !ok {
			return nil, false
		}
		res.Artifacts[f] = data
	}
	return res, true
}

func (r *Runner) lookup(ctx context.Context, opts Options, format string) ([]byte, bool) {
	key := r.Keyer.ArtifactKey(opts.Slug, opts.ArtifactKeyOpts(format))
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "format", format, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, format)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, format)
	return data, true
}

func (r *Runner) build(ctx context.Context, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	res := &Result{Artifacts: make(map[string][]byte, len(opts.Formats)+1)}

	// culling runs here rather than inside the generator so its stats and
	// timing can be reported
	gen := opts.Generate
	gen.Finalize = false

	hooks.OnGenerateStart(ctx, opts.Slug)
	start := time.Now()
	out, err := kumiko.GenerateDetailed(opts.Slug, gen)
	res.Stats.GenerateTime = time.Since(start)
	hooks.OnGenerateComplete(ctx, opts.Slug, len(out.Layers), res.Stats.GenerateTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("generated", "slug", opts.Slug, "layers", len(out.Layers), "duration", res.Stats.GenerateTime)

	if opts.Generate.Finalize {
		start = time.Now()
		out.SVG, res.Stats.Finalize = finalize.SVGWithStats(out.SVG)
		res.Stats.FinalizeTime = time.Since(start)
		hooks.OnFinalizeComplete(ctx, res.Stats.Finalize.Removed(), res.Stats.FinalizeTime)
		r.Logger.Debug("finalized",
			"removed", res.Stats.Finalize.Removed(),
			"bytes_before", res.Stats.Finalize.BytesBefore,
			"bytes_after", res.Stats.Finalize.BytesAfter)
	}

	res.Layers = out.Layers
	res.ColorSchemeName = out.ColorSchemeName

	meta, err := MarshalMetadata(opts.Slug, out)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	res.Artifacts[FormatJSON] = meta

	if opts.wants(FormatSVG) {
		res.Artifacts[FormatSVG] = []byte(out.SVG)
	}

	if opts.wants(FormatPNG) {
		ropts := opts.rasterOptions()
		hooks.OnRasterStart(ctx, string(ropts.Backend))
		start = time.Now()
		png, err := raster.Convert(ctx, []byte(out.SVG), ropts)
		res.Stats.RasterTime = time.Since(start)
		hooks.OnRasterComplete(ctx, string(ropts.Backend), res.Stats.RasterTime, err)
		if err != nil {
			return nil, err
		}
		res.Artifacts[FormatPNG] = png
		r.Logger.Debug("rasterized", "backend", ropts.Backend, "bytes", len(png), "duration", res.Stats.RasterTime)
	}

	return res, nil
}

// store writes every produced artifact. Cache failures are logged, never
// returned: the artwork is already in hand.
func (r *Runner) store(ctx context.Context, opts Options, res *Result) {
	for format, data := range res.Artifacts {
		key := r.Keyer.ArtifactKey(opts.Slug, opts.ArtifactKeyOpts(format))
		ttl := cache.TTLArtifact
		if format == FormatJSON {
			ttl = cache.TTLMetadata
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	if !opts.wants(FormatJSON) {
		delete(res.Artifacts, FormatJSON)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
