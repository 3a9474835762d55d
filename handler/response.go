package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/acme/gemaelde/pkg/logger"
)

// ResponseOption adjusts the status, headers or logging of a response.
type ResponseOption func(*header)

type header struct {
	status int
	values http.Header
	log    *slog.Logger
}

// WithStatus overrides the default status code of the response.
func WithStatus(code int) ResponseOption {
	return func(h *header) { h.status = code }
}

// WithHeader sets a response header.
func WithHeader(key, value string) ResponseOption {
	return func(h *header) { h.values.Set(key, value) }
}

// WithLogger receives failures that happen after the headers were sent,
// such as a broken Stream copy.
func WithLogger(l *slog.Logger) ResponseOption {
	return func(h *header) { h.log = l }
}

func newHeader(status int, opts []ResponseOption) header {
	h := header{status: status, values: http.Header{}}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

func (h header) write(w http.ResponseWriter, contentType string) {
	for k, vs := range h.values {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(h.status)
}

type jsonResponse struct {
	header
	body []byte
}

// JSON encodes v up front so an encoding failure can still become a 500.
func JSON(v any, opts ...ResponseOption) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return errorResponse{err: err}
	}
	return jsonResponse{header: newHeader(http.StatusOK, opts), body: body}
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	j.write(w, "application/json; charset=utf-8")
	_, _ = w.Write(j.body)
	return nil
}

type textResponse struct {
	header
	body string
}

// Text writes body as text/plain.
func Text(body string, opts ...ResponseOption) Response {
	return textResponse{header: newHeader(http.StatusOK, opts), body: body}
}

func (t textResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	t.write(w, "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, t.body)
	return nil
}

type emptyResponse struct{ header }

// Empty answers 204 unless WithStatus says otherwise.
func Empty(opts ...ResponseOption) Response {
	return emptyResponse{header: newHeader(http.StatusNoContent, opts)}
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	e.write(w, "")
	return nil
}

type streamResponse struct {
	header
	body        io.ReadCloser
	contentType string
}

// Stream copies body to the client and closes it. A failed copy cannot
// change the response any more; it is logged when WithLogger is given.
func Stream(body io.ReadCloser, contentType string, opts ...ResponseOption) Response {
	return streamResponse{header: newHeader(http.StatusOK, opts), body: body, contentType: contentType}
}

func (s streamResponse) Render(w http.ResponseWriter, r *http.Request) error {
	defer s.body.Close()
	s.write(w, s.contentType)
	if n, err := io.Copy(w, s.body); err != nil && s.log != nil {
		s.log.WarnContext(r.Context(), "stream copy failed",
			slog.Int64("bytes", n),
			slog.String("path", r.URL.Path),
			logger.Error(err),
			logger.Component("handler"),
		)
	}
	return nil
}

type errorResponse struct{ err error }

// Error hands err to the ErrorHandler of the wrapped handler.
func Error(err error) Response { return errorResponse{err: err} }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }
