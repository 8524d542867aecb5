// Package genstore holds the per-frame generations that guard the decoded
// frame cache. A cached decode is served only while its frame's generation is
// unchanged; replacing a message bumps it.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where generations live.
// Use LocalGenStore (default) for one process, or RedisGenStore when several
// processes share a cache provider and must see each other's invalidations.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, storageKey string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, storageKey string) (uint64, error)
	// Cleanup prunes generations untouched for longer than retention.
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
