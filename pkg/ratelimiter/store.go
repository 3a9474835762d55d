package ratelimiter

import (
	"context"
	"time"
)

// Store persists bucket state. Take refills the bucket for the elapsed
// intervals and removes n tokens only if that many are available.
type Store interface {
	Take(ctx context.Context, key string, n int, cfg Config) (remaining int, allowed bool, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
