package async_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/gemaelde/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		t.Parallel()
		f := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
			return n * 2, nil
		})
		got, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false
		_, err := async.Async(ctx, 0, func(context.Context, int) (int, error) {
			called = true
			return 0, nil
		}).Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("panic is reported", func(t *testing.T) {
		t.Parallel()
		_, err := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
			panic("boom")
		}).Await()
		assert.ErrorIs(t, err, async.ErrPanic)
	})
}
