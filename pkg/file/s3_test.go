package file_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acme/gemaelde/pkg/file"
)

type s3Mock struct{ mock.Mock }

func (m *s3Mock) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *s3Mock) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *s3Mock) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func newS3(t *testing.T, m *s3Mock) *file.S3Storage {
	t.Helper()
	s, err := file.NewS3Storage(context.Background(),
		file.S3Config{Bucket: "bilder", Region: "eu-central-1", Prefix: "gemaelde/"},
		file.WithS3Client(m),
	)
	require.NoError(t, err)
	return s
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()

	m := &s3Mock{}
	m.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "bilder" &&
			aws.ToString(in.Key) == "gemaelde/00000000-0000-0000-0000-000000000001" &&
			aws.ToString(in.ContentType) == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	err := newS3(t, m).Put(context.Background(), "00000000-0000-0000-0000-000000000001", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestS3Storage_Get(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		m := &s3Mock{}
		m.On("GetObject", mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{
			Body:          io.NopCloser(bytes.NewReader([]byte("data"))),
			ContentType:   aws.String("image/jpeg"),
			ContentLength: aws.Int64(4),
		}, nil)

		rc, info, err := newS3(t, m).Get(context.Background(), "k")
		require.NoError(t, err)
		defer rc.Close()
		body, _ := io.ReadAll(rc)
		assert.Equal(t, "data", string(body))
		assert.Equal(t, "image/jpeg", info.ContentType)
		assert.EqualValues(t, 4, info.Size)
	})

	t.Run("no such key", func(t *testing.T) {
		t.Parallel()
		m := &s3Mock{}
		m.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})
		_, _, err := newS3(t, m).Get(context.Background(), "k")
		assert.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("api errors are classified", func(t *testing.T) {
		t.Parallel()
		m := &s3Mock{}
		m.On("GetObject", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "AccessDenied"})
		_, _, err := newS3(t, m).Get(context.Background(), "k")
		assert.ErrorIs(t, err, file.ErrAccessDenied)
	})
}

func TestS3Storage_Delete(t *testing.T) {
	t.Parallel()

	m := &s3Mock{}
	m.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)
	assert.ErrorIs(t, newS3(t, m).Delete(context.Background(), "k"), file.ErrOperationTimeout)
}

func TestS3Storage_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	s := newS3(t, &s3Mock{})
	for _, key := range []string{"", "../etc/passwd", "/abs"} {
		assert.ErrorIs(t, s.Put(context.Background(), key, "", strings.NewReader("")), file.ErrInvalidKey)
	}

	_, err = file.NewFromConfig(context.Background(), file.Config{Driver: "ftp"}, nil)
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
	_, err = file.NewFromConfig(context.Background(), file.Config{Driver: "gridfs"}, nil)
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
	assert.False(t, errors.Is(err, file.ErrFileNotFound))
}
