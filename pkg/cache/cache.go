// Package cache stores rendered artifacts so unchanged graphs are not
// re-rendered.
//
// Keys are derived from a content hash of the graph plus the render options,
// so a cached entry never goes stale: any edit changes the key.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.ArtifactKey(graphHash, cache.ArtifactKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok { ... }
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value cache with optional expiry.
type Cache interface {
	// Get returns the cached data and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// ArtifactKeyOpts holds the render options that affect output bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	Pinned   bool   `json:"pinned,omitempty"`
}

// ArtifactKey returns the key for a rendered graph.
func ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// keyType returns the prefix of a key, used to label cache hooks.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}
