// Package ratelimiter implements a token bucket with memory and Redis stores
// and an HTTP middleware that answers 429 once a client's bucket is empty.
package ratelimiter

import (
	"context"
	"fmt"
)

// Bucket applies one Config to many keys held in a Store.
//
//	b, _ := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
//	res, err := b.Allow(ctx, clientIP)
//	if err == nil && !res.Allowed() { ... }
type Bucket struct {
	store  Store
	config Config
}

// NewBucket validates cfg and returns a bucket over store.
func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: capacity=%d refill_rate=%d refill_interval=%s",
			err, cfg.Capacity, cfg.RefillRate, cfg.RefillInterval)
	}
	return &Bucket{store: store, config: cfg}, nil
}

// Allow takes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN takes n tokens for key; n must be positive.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	remaining, allowed, resetAt, err := b.store.Take(ctx, key, n, b.config)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
		allowed:   allowed,
	}, nil
}

// Reset refills the bucket of key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}
