package repository

import "context"

// CacheRepository stores predicted class codes keyed by feature hash.
// A failed lookup is reported as a miss.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
