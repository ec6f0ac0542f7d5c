// Package config loads user defaults for the CLI and server.
//
// The file lives at $XDG_CONFIG_HOME/kumiko/config.toml (or config.yaml).
// Every section is optional; missing fields keep their defaults.
//
//	[defaults]
//	size = 1200
//	color_scheme = "nord"
//	finalize = true
//
//	[raster]
//	backend = "rsvg"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/kumiko"
	"github.com/matzehuels/kumiko/pkg/raster"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the root of the config file.
type Config struct {
	Defaults Defaults `toml:"defaults" yaml:"defaults"`
	Raster   Raster   `toml:"raster" yaml:"raster"`
	Cache    Cache    `toml:"cache" yaml:"cache"`
	Server   Server   `toml:"server" yaml:"server"`
}

// Defaults are generation options applied when a flag or query parameter is
// not given.
type Defaults struct {
	Size        int     `toml:"size" yaml:"size" validate:"gte=0,lte=10000"`
	Divisions   int     `toml:"divisions" yaml:"divisions" validate:"gte=0"`
	Zoom        float64 `toml:"zoom" yaml:"zoom" validate:"gte=0"`
	Overflow    float64 `toml:"overflow" yaml:"overflow" validate:"omitempty,gte=1"`
	FG          string  `toml:"fg" yaml:"fg" validate:"omitempty,hexcolor6"`
	BG          string  `toml:"bg" yaml:"bg" validate:"omitempty,hexcolor6"`
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width" validate:"gte=0"`
	ColorScheme string  `toml:"color_scheme" yaml:"color_scheme" validate:"omitempty,scheme"`
	Finalize    bool    `toml:"finalize" yaml:"finalize"`
}

// Raster configures PNG output.
type Raster struct {
	Width   int    `toml:"width" yaml:"width" validate:"gte=0"`
	Height  int    `toml:"height" yaml:"height" validate:"gte=0,ltefield=Width"`
	Backend string `toml:"backend" yaml:"backend" validate:"omitempty,oneof=native rsvg"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend  string `toml:"backend" yaml:"backend" validate:"oneof=file redis none"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// Server configures `kumiko serve`.
type Server struct {
	Addr            string        `toml:"addr" yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Size:     kumiko.DefaultSize,
			Zoom:     kumiko.DefaultZoom,
			Overflow: kumiko.DefaultOverflow,
		},
		Raster: Raster{
			Width:   raster.DefaultWidth,
			Height:  raster.DefaultHeight,
			Backend: string(raster.BackendNative),
		},
		Cache: Cache{
			Backend: CacheFile,
			Dir:     DefaultCacheDir(),
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Dir returns the kumiko config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kumiko")
	}
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "kumiko")
	}
	return filepath.Join(".", ".kumiko")
}

// DefaultCacheDir returns the directory for the file cache.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "kumiko")
	}
	if d, err := os.UserCacheDir(); err == nil {
		return filepath.Join(d, "kumiko")
	}
	return filepath.Join(os.TempDir(), "kumiko-cache")
}

// DefaultPath returns the first existing default config file, or "" when
// there is none.
func DefaultPath() string {
	dir := Dir()
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads and validates the config at path. An empty path loads the
// default file if one exists and the built-in defaults otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result. ext selects
// the decoder: ".toml", ".yaml" or ".yml".
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", keys[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml or .yaml)", ext)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options converts the defaults section to generator options.
func (d Defaults) Options() kumiko.Options {
	return kumiko.Options{
		Size:        d.Size,
		Divisions:   d.Divisions,
		Zoom:        d.Zoom,
		Overflow:    d.Overflow,
		FG:          d.FG,
		BG:          d.BG,
		StrokeWidth: d.StrokeWidth,
		ColorScheme: d.ColorScheme,
		Finalize:    d.Finalize,
	}
}

// Options converts the raster section to raster options.
func (r Raster) Options() raster.Options {
	return raster.Options{
		Width:   r.Width,
		Height:  r.Height,
		Backend: raster.Backend(r.Backend),
	}.WithDefaults()
}
