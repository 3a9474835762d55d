package file_test

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drv "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/acme/gemaelde/pkg/file"
)

func TestGridFSStorage(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := drv.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("file_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	s := file.NewGridFSStorage(db, "bilder")

	_, _, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, file.ErrFileNotFound)

	require.NoError(t, s.Put(ctx, "g1", "image/png", strings.NewReader("first")))
	require.NoError(t, s.Put(ctx, "g1", "image/jpeg", strings.NewReader("second")))

	rc, info, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "second", string(body))
	assert.Equal(t, "image/jpeg", info.ContentType)
	assert.EqualValues(t, 6, info.Size)

	require.NoError(t, s.Delete(ctx, "g1"))
	_, _, err = s.Get(ctx, "g1")
	assert.ErrorIs(t, err, file.ErrFileNotFound)

	require.NoError(t, s.Drop(ctx))
}
