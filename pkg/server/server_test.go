package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kumiko/pkg/cache"
	"github.com/matzehuels/kumiko/pkg/config"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/pattern"
	"github.com/matzehuels/kumiko/pkg/pipeline"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	cfg := config.Default()
	cfg.Defaults.Size = 300
	cfg.Raster.Width, cfg.Raster.Height = 120, 63
	srv := httptest.NewServer(New(pipeline.NewRunner(c, nil, logger), cfg, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, header ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err := uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "every response carries a uuid request id")
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)
	id := uuid.NewString()
	resp := get(t, srv.URL+"/healthz", RequestIDHeader, id)
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	resp = get(t, srv.URL+"/healthz", RequestIDHeader, "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestSchemesAndPatterns(t *testing.T) {
	srv := newTestServer(t)

	var schemes []schemeBody
	require.NoError(t, json.Unmarshal(readBody(t, get(t, srv.URL+"/v1/schemes")), &schemes))
	require.Len(t, schemes, scheme.Len())
	assert.Equal(t, "Default", schemes[0].Name)
	assert.Len(t, schemes[0].Foreground, 7)

	var patterns []patternBody
	require.NoError(t, json.Unmarshal(readBody(t, get(t, srv.URL+"/v1/patterns")), &patterns))
	require.Len(t, patterns, pattern.Len())
	assert.Equal(t, patternBody{Index: 8, Name: "izutsu"}, patterns[8])
}

func TestArtworkSVG(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/v1/kumiko/example-article-001.svg?scheme=nord&zoom=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	want, err := kumiko.Generate("example-article-001", kumiko.Options{Size: 300, Zoom: 2, ColorScheme: "nord"})
	require.NoError(t, err)
	assert.Equal(t, want, string(readBody(t, resp)))

	again := get(t, srv.URL+"/v1/kumiko/example-article-001.svg?scheme=nord&zoom=2")
	assert.Equal(t, "HIT", again.Header.Get("X-Cache"))
	assert.Equal(t, resp.Header.Get("ETag"), again.Header.Get("ETag"))

	notModified := get(t, srv.URL+"/v1/kumiko/example-article-001.svg?scheme=nord&zoom=2", "If-None-Match", resp.Header.Get("ETag"))
	assert.Equal(t, http.StatusNotModified, notModified.StatusCode)
}

func TestArtworkDottedSlug(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/v1/kumiko/release-1.2.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var meta pipeline.Metadata
	require.NoError(t, json.Unmarshal(readBody(t, resp), &meta))
	assert.Equal(t, "release-1.2", meta.Slug)
	assert.GreaterOrEqual(t, len(meta.Layers), 2)
}

func TestArtworkOverrides(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/v1/kumiko/over.json?fg=ff0000&layer=1:sw=7")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var meta pipeline.Metadata
	require.NoError(t, json.Unmarshal(readBody(t, resp), &meta))
	for _, l := range meta.Layers {
		assert.Equal(t, "#ff0000", l.FG)
	}
	assert.Equal(t, 7.0, meta.Layers[1].StrokeWidth)
}

func TestArtworkPNG(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/v1/kumiko/png-test.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(readBody(t, resp), []byte("\x89PNG")))
}

func TestArtworkErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/v1/kumiko/slug.gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/v1/kumiko/noext", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/v1/kumiko/slug.svg?scheme=bogus", http.StatusBadRequest, "UNKNOWN_SCHEME"},
		{"/v1/kumiko/slug.svg?size=abc", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/kumiko/slug.svg?size=20000", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/kumiko/slug.svg?zoom=NaN", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/kumiko/slug.svg?fg=zzz", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/kumiko/slug.svg?finalize=maybe", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/kumiko/slug.svg?layer=9:fg=%23fff", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/kumiko/slug.png?width=100&height=200", http.StatusBadRequest, "INVALID_INPUT"},
		{"/v1/nothing", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv.URL+tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.Unmarshal(readBody(t, resp), &body))
			assert.Equal(t, tt.code, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRecoverer(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), nil, log.New(io.Discard))
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestListenAndServeShutdown(t *testing.T) {
	cfg := config.Default()
	s := New(pipeline.NewRunner(nil, nil, nil), cfg, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
