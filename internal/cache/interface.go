package cache

import (
	"context"
	"time"
)

// Cache fronts read-heavy backing calls (project lists, aggregates). A nil
// Cache is legal everywhere; callers fall through to the backing.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	ProjectKeyPrefix   = "project"
	AggregateKeyPrefix = "aggregate"
	BatchKeyPrefix     = "batch"
)
