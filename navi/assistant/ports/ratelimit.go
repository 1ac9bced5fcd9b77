package assistantports

import "context"

// RateLimiter bounds how fast one conversation can hit the paid backends.
type RateLimiter interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
