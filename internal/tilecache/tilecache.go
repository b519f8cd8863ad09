// Package tilecache caches raw upstream responses (GeoJSON feature pages,
// tile listings) keyed by layer and extent, so repeated requests over the
// same area skip the geodata API.
package tilecache

import (
	"context"
	"time"
)

type Interface interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
