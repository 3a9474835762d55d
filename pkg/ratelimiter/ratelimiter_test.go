package ratelimiter_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/gemaelde/pkg/ratelimiter"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newBucket(t *testing.T, c *clock, capacity int) *ratelimiter.Bucket {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(c.Now), ratelimiter.WithStaleAfter(0))
	t.Cleanup(store.Close)
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       capacity,
		RefillRate:     1,
		RefillInterval: time.Second,
	})
	require.NoError(t, err)
	return b
}

func TestBucket(t *testing.T) {
	t.Parallel()

	t.Run("denies without going negative and refills", func(t *testing.T) {
		t.Parallel()
		c := &clock{now: time.Unix(1_700_000_000, 0)}
		b := newBucket(t, c, 2)
		ctx := context.Background()

		for want := 1; want >= 0; want-- {
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, want, res.Remaining)
		}

		for range 3 {
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.False(t, res.Allowed())
			assert.Equal(t, 0, res.Remaining)
		}

		c.Advance(time.Second)
		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()
		c := &clock{now: time.Unix(1_700_000_000, 0)}
		b := newBucket(t, c, 1)
		ctx := context.Background()

		res, _ := b.Allow(ctx, "a")
		assert.True(t, res.Allowed())
		res, _ = b.Allow(ctx, "b")
		assert.True(t, res.Allowed())
		res, _ = b.Allow(ctx, "a")
		assert.False(t, res.Allowed())

		require.NoError(t, b.Reset(ctx, "a"))
		res, _ = b.Allow(ctx, "a")
		assert.True(t, res.Allowed())
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

		b := newBucket(t, &clock{now: time.Now()}, 1)
		_, err = b.AllowN(context.Background(), "k", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})
}

type failingStore struct{}

func (failingStore) Take(context.Context, string, int, ratelimiter.Config) (int, bool, time.Time, error) {
	return 0, false, time.Time{}, errors.New("down")
}

func (failingStore) Reset(context.Context, string) error { return nil }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	t.Run("429 once exhausted", func(t *testing.T) {
		t.Parallel()
		b := newBucket(t, &clock{now: time.Now()}, 1)
		h := ratelimiter.Middleware(b, ratelimiter.ByIP, log)(ok)

		req := httptest.NewRequest(http.MethodPost, "/api/gemaelden", nil)
		req.RemoteAddr = "192.0.2.10:4000"

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("store failure passes through", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(failingStore{}, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
		require.NoError(t, err)
		h := ratelimiter.Middleware(b, ratelimiter.ByIP, log)(ok)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		t.Parallel()
		b := newBucket(t, &clock{now: time.Now()}, 1)
		h := ratelimiter.Middleware(b, func(*http.Request) string { return "" }, log)(ok)
		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})
}
