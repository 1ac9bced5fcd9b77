package adapters

import (
	"context"
	"sync"
	"time"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

// ErrRateLimitExceeded is returned when a conversation has no tokens left.
var ErrRateLimitExceeded = &RateLimitError{Message: "rate limit exceeded"}

type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return e.Message }

// TokenBucket is a per-key token bucket limiter. Each conversation gets its
// own bucket so one hammering widget cannot starve the others.
type TokenBucket struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   int
	refillRate time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucket creates a limiter with the given per-key capacity and time
// between token refills.
func NewTokenBucket(capacity int, refillRate time.Duration) *TokenBucket {
	return &TokenBucket{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
	}
}

// Acquire takes one token for key, or fails with ErrRateLimitExceeded.
// The returned release function is a no-op kept for port symmetry; tokens
// replenish over time rather than on completion, so a slow backend call does
// not grant the conversation extra throughput.
func (tb *TokenBucket) Acquire(ctx context.Context, key string) (func(), error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, lastRefill: time.Now()}
		tb.buckets[key] = b
	}

	if refill := int(time.Since(b.lastRefill) / tb.refillRate); refill > 0 {
		b.tokens = min(b.tokens+refill, tb.capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(refill) * tb.refillRate)
	}

	if b.tokens <= 0 {
		return nil, ErrRateLimitExceeded
	}
	b.tokens--

	return func() {}, nil
}

// NopRateLimiter admits everything.
type NopRateLimiter struct{}

func (NopRateLimiter) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

var (
	_ ports.RateLimiter = (*TokenBucket)(nil)
	_ ports.RateLimiter = NopRateLimiter{}
)
