// Package cache stores rendered artwork so repeated requests skip
// generation and rasterization.
//
// Every artifact is a pure function of its slug and options, so entries
// never need invalidation beyond their TTL; a changed generator version is
// handled by scoping keys with [NewScopedKeyer].
//
// Backends:
//   - [FileCache]: sharded JSON files, used by the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	TTLArtifact = 30 * 24 * time.Hour
	TTLMetadata = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts identifies one rendered output of a slug.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	OptionsHash string `json:"options_hash"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Backend     string `json:"backend,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(slug string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(slug string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, slug, opts)
}
