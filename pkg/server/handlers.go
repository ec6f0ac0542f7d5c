package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kumiko/pkg/buildinfo"
	"github.com/matzehuels/kumiko/pkg/cache"
	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/pattern"
	"github.com/matzehuels/kumiko/pkg/pipeline"
	"github.com/matzehuels/kumiko/pkg/raster"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type schemeBody struct {
	Name       string   `json:"name"`
	Key        string   `json:"key"`
	Background string   `json:"background"`
	Foreground []string `json:"foreground"`
}

type patternBody struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	all := scheme.All()
	out := make([]schemeBody, len(all))
	for i, sc := range all {
		out[i] = schemeBody{Name: sc.Name, Key: sc.Key(), Background: sc.Background(), Foreground: sc.Foreground()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	names := pattern.Names()
	out := make([]patternBody, len(names))
	for i, n := range names {
		out[i] = patternBody{Index: i, Name: n}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleArtwork(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if decoded, err := url.PathUnescape(file); err == nil {
		file = decoded
	}
	dot := strings.LastIndex(file, ".")
	if dot <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "missing format extension in %q (want .svg, .png or .json)", file))
		return
	}
	slug, format := file[:dot], strings.ToLower(file[dot+1:])

	opts, err := s.parseOptions(slug, format, r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := res.Artifacts[format]
	etag := `"` + cache.Hash(body)[:32] + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// parseOptions overlays query parameters on the configured defaults.
func (s *Server) parseOptions(slug, format string, q url.Values) (pipeline.Options, error) {
	gen := s.cfg.Defaults.Options()
	ropts := s.cfg.Raster.Options()

	p := queryParser{q: q}
	p.int("size", &gen.Size)
	p.int("divisions", &gen.Divisions)
	p.float("zoom", &gen.Zoom)
	p.float("overflow", &gen.Overflow)
	p.float("stroke_width", &gen.StrokeWidth)
	p.color("fg", &gen.FG)
	p.color("bg", &gen.BG)
	p.str("scheme", &gen.ColorScheme)
	p.bool("finalize", &gen.Finalize)
	p.int("width", &ropts.Width)
	p.int("height", &ropts.Height)
	if p.err != nil {
		return pipeline.Options{}, p.err
	}

	if specs := q["layer"]; len(specs) > 0 {
		layers, err := kumiko.ParseLayerSpecs(specs)
		if err != nil {
			return pipeline.Options{}, err
		}
		gen.Layers = layers
	}

	opts := pipeline.Options{
		Slug:      slug,
		Generate:  gen,
		Formats:   []string{format},
		PNGWidth:  ropts.Width,
		PNGHeight: ropts.Height,
		Backend:   ropts.Backend,
	}
	if opts.Backend == "" {
		opts.Backend = raster.BackendNative
	}
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
		if !errors.Is(err, errors.ErrCodeRasterFailed) && !errors.Is(err, errors.ErrCodeUnsupported) {
			msg = "internal server error"
		}
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

// statusFor maps error codes to HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// queryParser reads typed query parameters, keeping the first error.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) str(name string, dst *string) {
	if v := p.q.Get(name); v != "" {
		*dst = v
	}
}

// color accepts values with or without the leading '#', which would
// otherwise need escaping in a URL.
func (p *queryParser) color(name string, dst *string) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	if err := kumiko.ValidateColor(name, v); err != nil {
		p.err = err
		return
	}
	*dst = v
}

func (p *queryParser) int(name string, dst *int) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = errors.New(errors.ErrCodeInvalidInput, "%s: %q is not an integer", name, v)
		return
	}
	*dst = n
}

func (p *queryParser) float(name string, dst *float64) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.err = errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a number", name, v)
		return
	}
	*dst = f
}

func (p *queryParser) bool(name string, dst *bool) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a boolean", name, v)
		return
	}
	*dst = b
}
