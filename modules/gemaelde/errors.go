package gemaelde

import (
	"errors"
	"net/http"

	"github.com/acme/gemaelde/handler"
	"github.com/acme/gemaelde/pkg/binder"
	"github.com/acme/gemaelde/svc/gemaelde"
)

// mapFailure renders the domain failures of the catalog. A body that is not
// JSON is answered with 406.
func mapFailure(err error) (handler.HTTPError, bool) {
	if f, ok := gemaelde.AsFailure(err); ok {
		switch f := f.(type) {
		case gemaelde.InvalidError:
			return handler.HTTPError{Code: http.StatusBadRequest, Details: f.Errors, Err: err}, true
		case gemaelde.TitleExistsError, gemaelde.CodeExistsError:
			return handler.HTTPError{Code: http.StatusBadRequest, Key: f.Error(), Err: err}, true
		case gemaelde.NotFoundError, gemaelde.VersionOutdatedError:
			return handler.HTTPError{Code: http.StatusPreconditionFailed, Key: f.Error(), Err: err}, true
		case gemaelde.VersionInvalidError:
			return handler.HTTPError{Code: http.StatusPreconditionRequired, Key: f.Error(), Err: err}, true
		}
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		he := handler.ErrNotAcceptable
		he.Err = err
		return he, true
	case errors.Is(err, gemaelde.ErrFileNotFound):
		return handler.ErrNotFound, true
	case errors.As(err, &tooLarge):
		return handler.HTTPError{
			Code: http.StatusRequestEntityTooLarge,
			Key:  http.StatusText(http.StatusRequestEntityTooLarge),
			Err:  err,
		}, true
	}
	return handler.HTTPError{}, false
}
