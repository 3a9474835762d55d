package handler

import (
	"log/slog"
	"net/http"

	"github.com/acme/gemaelde/pkg/logger"
	"github.com/acme/gemaelde/pkg/requestid"
)

// ErrorMapper translates domain errors. It returns false for errors it does
// not know.
type ErrorMapper func(err error) (HTTPError, bool)

// NewErrorHandler renders errors with the first matching mapper, falling back
// to Classify. Server errors are logged with the cause and answered with a
// generic body.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		he, ok := HTTPError{}, false
		for _, m := range mappers {
			if he, ok = m(err); ok {
				break
			}
		}
		if !ok {
			he = Classify(err)
		}

		r := ctx.Request()
		level := slog.LevelDebug
		if he.Code >= http.StatusInternalServerError {
			level = slog.LevelError
			he = HTTPError{Code: he.Code, Key: http.StatusText(he.Code)}
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status", he.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if rerr := he.Render(ctx.ResponseWriter(), r); rerr != nil {
			http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
