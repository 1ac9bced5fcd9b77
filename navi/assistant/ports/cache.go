package assistantports

import "context"

// Cache provides idempotent memoization for deterministic generation results
// (e.g. README analysis keyed by content hash).
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
