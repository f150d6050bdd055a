// Package cache provides pluggable byte caches and deterministic cache keys
// for the contour pipeline.
//
// Three backends are available: a file cache for CLI usage, a Redis cache
// for server deployments, and a null cache that disables caching entirely.
// The Keyer abstraction turns pipeline inputs (source file hash, clip
// rectangle, interval) into stable keys so identical runs hit the cache.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per cached artifact kind.
const (
	// TTLFeatures covers parsed source features. Source files change rarely
	// and the hash-based key invalidates naturally on content change.
	TTLFeatures = 7 * 24 * time.Hour

	// TTLResults covers clipped segment sets, keyed by source hash plus the
	// full clip parameters.
	TTLResults = 24 * time.Hour
)

// ResultKeyOpts captures every parameter that changes a clipping result.
// Two runs with equal source hashes and equal opts are interchangeable.
type ResultKeyOpts struct {
	MinX     float64 `json:"min_x"`
	MinY     float64 `json:"min_y"`
	MaxX     float64 `json:"max_x"`
	MaxY     float64 `json:"max_y"`
	Interval float64 `json:"interval"`
}

// Keyer generates cache keys for pipeline artifacts.
type Keyer interface {
	// FeatureKey generates a key for parsed source features,
	// from the source file's content hash.
	FeatureKey(sourceHash string) string

	// ResultKey generates a key for a clipped segment set.
	ResultKey(sourceHash string, opts ResultKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FeatureKey generates a key for parsed source features.
func (k *DefaultKeyer) FeatureKey(sourceHash string) string {
	return "features:" + sourceHash
}

// ResultKey generates a key for a clipped segment set. The clip parameters
// are hashed into the key so any change invalidates it.
func (k *DefaultKeyer) ResultKey(sourceHash string, opts ResultKeyOpts) string {
	return hashKey("result", sourceHash, opts)
}
