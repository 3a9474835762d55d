package gemaelde

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/acme/gemaelde/pkg/file"
	"github.com/acme/gemaelde/pkg/logger"
)

// Files stores one image per painting, keyed by the painting id.
type Files struct {
	store   Store
	storage file.Storage
	logger  *slog.Logger
}

// NewFiles creates a Files collaborator. A nil log discards output.
func NewFiles(store Store, storage file.Storage, log *slog.Logger) *Files {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Files{store: store, storage: storage, logger: log}
}

// Upload replaces the image of painting id. It returns NotFoundError when the
// painting does not exist.
func (f *Files) Upload(ctx context.Context, id, contentType string, r io.Reader) error {
	if err := f.exists(ctx, id); err != nil {
		return err
	}
	if err := f.storage.Put(ctx, id, contentType, r); err != nil {
		return err
	}
	f.logger.DebugContext(ctx, "gemaelde file stored",
		logger.GemaeldeID(id),
		slog.String("content_type", contentType),
		logger.Component("gemaelde"),
	)
	return nil
}

// Download opens the image of painting id. The caller closes the reader.
// A missing painting yields NotFoundError, a missing image ErrFileNotFound.
func (f *Files) Download(ctx context.Context, id string) (io.ReadCloser, file.Info, error) {
	if err := f.exists(ctx, id); err != nil {
		return nil, file.Info{}, err
	}
	rc, info, err := f.storage.Get(ctx, id)
	if errors.Is(err, file.ErrFileNotFound) {
		return nil, file.Info{}, ErrFileNotFound
	}
	if err != nil {
		return nil, file.Info{}, err
	}
	return rc, info, nil
}

func (f *Files) exists(ctx context.Context, id string) error {
	if id == "" {
		return NotFoundError{ID: id}
	}
	g, err := f.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return NotFoundError{ID: id}
	}
	return nil
}
