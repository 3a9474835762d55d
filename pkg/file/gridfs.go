package file

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GridFSStorage keeps blobs in a GridFS bucket; the key is the file name and
// the content type lives in the file metadata.
type GridFSStorage struct {
	bucket *mongo.GridFSBucket
}

// NewGridFSStorage stores files in the GridFS bucket bucketName of db.
func NewGridFSStorage(db *mongo.Database, bucketName string) *GridFSStorage {
	return &GridFSStorage{bucket: db.GridFSBucket(options.GridFSBucket().SetName(bucketName))}
}

// Put replaces the file stored under key.
func (s *GridFSStorage) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	if err := validKey(key); err != nil {
		return err
	}
	previous, err := s.ids(ctx, key)
	if err != nil {
		return err
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentTypeOr(contentType)}})
	if _, err := s.bucket.UploadFromStream(ctx, key, r, opts); err != nil {
		return fmt.Errorf("gridfs upload %q: %w", key, err)
	}

	// older revisions go only after the new one is complete
	for _, id := range previous {
		if err := s.bucket.Delete(ctx, id); err != nil && !errors.Is(err, mongo.ErrFileNotFound) {
			return fmt.Errorf("gridfs delete old revision of %q: %w", key, err)
		}
	}
	return nil
}

// Get opens the newest revision of key. The caller closes the reader.
func (s *GridFSStorage) Get(ctx context.Context, key string) (io.ReadCloser, Info, error) {
	if err := validKey(key); err != nil {
		return nil, Info{}, err
	}
	stream, err := s.bucket.OpenDownloadStreamByName(ctx, key)
	if errors.Is(err, mongo.ErrFileNotFound) {
		return nil, Info{}, ErrFileNotFound
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("gridfs open %q: %w", key, err)
	}

	f := stream.GetFile()
	info := Info{Key: key, ContentType: DefaultContentType, Size: f.Length, UploadedAt: f.UploadDate}
	if f.Metadata != nil {
		if ct, ok := f.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			info.ContentType = ct
		}
	}
	return stream, info, nil
}

// Delete removes every revision stored under key. A missing key is not an error.
func (s *GridFSStorage) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	ids, err := s.ids(ctx, key)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.bucket.Delete(ctx, id); err != nil && !errors.Is(err, mongo.ErrFileNotFound) {
			return fmt.Errorf("gridfs delete %q: %w", key, err)
		}
	}
	return nil
}

// Drop removes the whole bucket. Used when the database is repopulated.
func (s *GridFSStorage) Drop(ctx context.Context) error {
	if err := s.bucket.Drop(ctx); err != nil {
		return fmt.Errorf("gridfs drop: %w", err)
	}
	return nil
}

func (s *GridFSStorage) ids(ctx context.Context, key string) ([]any, error) {
	cur, err := s.bucket.Find(ctx, bson.D{{Key: "filename", Value: key}})
	if err != nil {
		return nil, fmt.Errorf("gridfs find %q: %w", key, err)
	}
	var files []struct {
		ID any `bson:"_id"`
	}
	if err := cur.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("gridfs find %q: %w", key, err)
	}
	ids := make([]any, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	return ids, nil
}
