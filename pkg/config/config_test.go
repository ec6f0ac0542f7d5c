package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/raster"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, kumiko.DefaultSize, cfg.Defaults.Size)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestParseTOML(t *testing.T) {
	data := []byte(`
[defaults]
size = 1200
color_scheme = "Catppuccin Mocha"
fg = "#ffcc00"
finalize = true

[raster]
backend = "rsvg"
width = 600
height = 315

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Parse(data, ".toml")
	require.NoError(t, err)

	assert.Equal(t, 1200, cfg.Defaults.Size)
	assert.Equal(t, "Catppuccin Mocha", cfg.Defaults.ColorScheme)
	assert.True(t, cfg.Defaults.Finalize)
	assert.Equal(t, kumiko.DefaultZoom, cfg.Defaults.Zoom, "unset fields keep defaults")
	assert.Equal(t, "rsvg", cfg.Raster.Backend)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
defaults:
  zoom: 2.5
  bg: "#101010"
cache:
  backend: none
server:
  read_timeout: 5s
`)
	cfg, err := Parse(data, ".yml")
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Defaults.Zoom)
	assert.Equal(t, "#101010", cfg.Defaults.BG)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestParseEmpty(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		cfg, err := Parse(nil, ext)
		require.NoError(t, err, ext)
		assert.Equal(t, Default(), cfg, ext)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
		msg  string
	}{
		{"unknown scheme", "[defaults]\ncolor_scheme = \"nope\"", ".toml", "defaults.color_scheme"},
		{"short hex", "[defaults]\nfg = \"#fff\"", ".toml", "defaults.fg"},
		{"size too large", "[defaults]\nsize = 20000", ".toml", "defaults.size"},
		{"overflow below one", "defaults:\n  overflow: 0.5", ".yaml", "defaults.overflow"},
		{"bad backend", "[raster]\nbackend = \"cairo\"", ".toml", "raster.backend"},
		{"tall raster", "[raster]\nwidth = 100\nheight = 200", ".toml", "raster.height"},
		{"redis without url", "[cache]\nbackend = \"redis\"", ".toml", "cache.redis_url"},
		{"unknown toml key", "[defaults]\ncolour = \"red\"", ".toml", "colour"},
		{"unknown yaml key", "defaults:\n  colour: red", ".yaml", "colour"},
		{"bad toml", "[defaults", ".toml", "parse toml"},
		{"bad extension", "", ".json", "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.ext)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "code = %s", errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "no file means defaults")

	dir := Dir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("defaults:\n  size: 640\n"), 0o644))

	assert.Equal(t, filepath.Join(dir, "config.yaml"), DefaultPath())
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Defaults.Size)

	// toml wins when both exist
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[defaults]\nsize = 320\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Defaults.Size)
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))
}

func TestSectionOptions(t *testing.T) {
	d := Defaults{Size: 500, Zoom: 2, ColorScheme: "nord", Finalize: true}
	o := d.Options()
	assert.Equal(t, 500, o.Size)
	assert.Equal(t, "nord", o.ColorScheme)
	assert.True(t, o.Finalize)
	assert.NoError(t, o.Validate())

	r := Raster{Backend: "rsvg"}.Options()
	assert.Equal(t, raster.BackendRsvg, r.Backend)
	assert.Equal(t, raster.DefaultWidth, r.Width)
}

func TestSnake(t *testing.T) {
	assert.Equal(t, "redis_url", snake("RedisURL"))
	assert.Equal(t, "color_scheme", snake("ColorScheme"))
	assert.Equal(t, "fg", snake("FG"))
}
