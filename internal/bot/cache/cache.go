package cache

import (
	"context"
	"time"
)

// Store is the flat key-value collaborator behind the response cache.
type Store interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}
