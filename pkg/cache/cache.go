// Package cache stores fetched images and rendered exports.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//     (~/.cache/visionboard by default)
//   - [MemoryCache]: process-local map, used by the server and tests
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys so that every entry is namespaced by kind:
//
//	img:<hash(url, cors)>          raw image bytes plus CORS approval
//	artifact:<hash(board, opts)>   encoded PNG/JPG/PDF
//
// [ScopedKeyer] adds a prefix for isolating tenants or sessions.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Default TTLs.
const (
	TTLImage    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// A TTL of zero means the entry never expires.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ImageKey identifies a fetched image. Requests with and without an
	// Origin header may get different CORS answers, so cors is part of the key.
	ImageKey(url string, cors bool) string

	// ArtifactKey identifies an encoded export of a board.
	ArtifactKey(boardHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change artifact bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale"`
	Background  string  `json:"background"`
	UseCORS     bool    `json:"use_cors"`
	AllowTaint  bool    `json:"allow_taint"`
	JPEGQuality int     `json:"jpeg_quality,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ImageKey implements [Keyer].
func (DefaultKeyer) ImageKey(url string, cors bool) string {
	return hashKey("img", url, cors)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(boardHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", boardHash, opts)
}

// GetJSON decodes the entry under key into v. A missing or undecodable
// entry returns [ErrCacheMiss].
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || json.Unmarshal(data, v) != nil {
		return ErrCacheMiss
	}
	return nil
}

// SetJSON stores v's JSON encoding under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
