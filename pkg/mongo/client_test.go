package mongo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	drv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/acme/gemaelde/pkg/mongo"
)

func TestDuplicateKeyIndex(t *testing.T) {
	t.Parallel()

	dup := drv.WriteException{WriteErrors: []drv.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: acme.gemaelde index: titel_1 dup key: { titel: "Alpha" }`,
	}}}

	idx, ok := mongo.DuplicateKeyIndex(dup)
	assert.True(t, ok)
	assert.Equal(t, "titel_1", idx)

	_, ok = mongo.DuplicateKeyIndex(errors.New("boom"))
	assert.False(t, ok)

	_, ok = mongo.DuplicateKeyIndex(nil)
	assert.False(t, ok)
}

func TestNew_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := mongo.New(ctx, mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200",
		ConnectTimeout: 200 * time.Millisecond,
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
	})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}
