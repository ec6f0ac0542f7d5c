package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug-level structured log line.
// It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnGenerateStart(_ context.Context, slug string) {
	h.logger.Debug("generate start", "slug", slug)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, slug string, layers int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("generate failed", "slug", slug, "err", err)
		return
	}
	h.logger.Debug("generate done", "slug", slug, "layers", layers, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnFinalizeComplete(_ context.Context, removed int, d time.Duration) {
	h.logger.Debug("finalize done", "removed", removed, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRasterStart(_ context.Context, backend string) {
	h.logger.Debug("raster start", "backend", backend)
}

func (h *LogHooks) OnRasterComplete(_ context.Context, backend string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("raster failed", "backend", backend, "err", err)
		return
	}
	h.logger.Debug("raster done", "backend", backend, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnPanic(_ context.Context, method, path string, recovered any) {
	h.logger.Error("handler panic", "method", method, "path", path, "panic", recovered)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
