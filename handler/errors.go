package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/acme/gemaelde/pkg/binder"
)

// ErrNilResponse is reported when a handler returns a nil Response.
var ErrNilResponse = errors.New("handler: nil response")

// HTTPError is an error with a status code. Key is the plain text body;
// when Details is set it is rendered as JSON instead.
type HTTPError struct {
	Code    int
	Key     string
	Details any
	Err     error
}

// NewHTTPError returns an HTTPError rendered as the plain text key.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Key, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Key)
}

func (e HTTPError) Unwrap() error { return e.Err }

func (e HTTPError) Render(w http.ResponseWriter, r *http.Request) error {
	if e.Details != nil {
		return JSON(e.Details, WithStatus(e.Code)).Render(w, r)
	}
	return Text(e.Key, WithStatus(e.Code)).Render(w, r)
}

var (
	ErrBadRequest          = NewHTTPError(http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
	ErrUnauthorized        = NewHTTPError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	ErrForbidden           = NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	ErrNotFound            = NewHTTPError(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	ErrNotAcceptable       = NewHTTPError(http.StatusNotAcceptable, http.StatusText(http.StatusNotAcceptable))
	ErrPreconditionFailed  = NewHTTPError(http.StatusPreconditionFailed, http.StatusText(http.StatusPreconditionFailed))
	ErrPreconditionMissing = NewHTTPError(http.StatusPreconditionRequired, http.StatusText(http.StatusPreconditionRequired))
	ErrInternal            = NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
)

// Classify maps err to an HTTPError. Binder failures become 400, or 415 for
// a wrong content type; anything unknown becomes 500.
func Classify(err error) HTTPError {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return HTTPError{Code: http.StatusUnsupportedMediaType, Key: http.StatusText(http.StatusUnsupportedMediaType), Err: err}
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath),
		errors.Is(err, binder.ErrFailedToParseHeader),
		errors.Is(err, binder.ErrFailedToParseForm):
		return HTTPError{Code: http.StatusBadRequest, Key: http.StatusText(http.StatusBadRequest), Err: err}
	default:
		return HTTPError{Code: http.StatusInternalServerError, Key: http.StatusText(http.StatusInternalServerError), Err: err}
	}
}
