// Package cache provides caching for frame plans and rendered artifacts.
//
// Planning a frame graph from a manifest and rendering its visualization
// are deterministic, so both are cached by content hash. The package
// defines:
//   - Cache: a byte-oriented store with TTL support
//   - Keyer: deterministic cache key generation
//   - Backends: file-based (CLI), Redis (server), and null (disabled)
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil { ... }
//	defer c.Close()
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.PlanKey(manifestHash, cache.PlanKeyOpts{})
//	if data, hit, err := c.Get(ctx, key); hit { ... }
package cache

import (
	"context"
	"time"
)

// TTL values for the different cached entry kinds.
const (
	// TTLPlan is the lifetime of cached frame plans. Plans depend only on
	// the manifest content, so they can live long.
	TTLPlan = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered artifacts (DOT, SVG, PNG).
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented store with per-entry expiration.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of 0 in Set means the
// entry never expires; a negative ttl stores an entry that is already
// expired, so the next Get misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PlanKeyOpts are the planning options that affect a cached plan.
type PlanKeyOpts struct {
	// Validate indicates the plan was built with extra validation passes.
	Validate bool
}

// ArtifactKeyOpts are the rendering options that affect a cached artifact.
type ArtifactKeyOpts struct {
	Format string // dot, svg, png
	Layout string // graphviz layout engine
}

// Keyer generates deterministic cache keys. Implementations must return
// the same key for the same inputs across processes.
type Keyer interface {
	// PlanKey generates a key for a built frame plan, derived from the
	// manifest content hash.
	PlanKey(manifestHash string, opts PlanKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, derived from
	// the plan hash.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for a built frame plan.
func (k *DefaultKeyer) PlanKey(manifestHash string, opts PlanKeyOpts) string {
	return hashKey("plan", manifestHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
