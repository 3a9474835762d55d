package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/gemaelde/handler"
	"github.com/acme/gemaelde/pkg/binder"
)

type createRequest struct {
	Titel string `json:"titel"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, req createRequest) handler.Response {
		return handler.JSON(map[string]string{"titel": req.Titel},
			handler.WithStatus(http.StatusCreated),
			handler.WithHeader("Location", "/api/gemaelden/1"),
		)
	}, handler.WithBinders[createRequest](binder.JSON()))

	t.Run("binds and renders", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"titel":"Alpha"}`))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, r)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/gemaelden/1", rec.Header().Get("Location"))
		assert.JSONEq(t, `{"titel":"Alpha"}`, rec.Body.String())
	})

	t.Run("binder failure uses default error handler", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, r)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`titel=x`))
		r.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		h(rec, r)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestWrap_Decorators(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator[struct{}] {
		return func(next handler.HandlerFunc[struct{}]) handler.HandlerFunc[struct{}] {
			return func(ctx handler.Context, req struct{}) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		order = append(order, "handler")
		return handler.Empty()
	}, handler.WithDecorators(mark("outer"), mark("inner")))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

var errDomain = errors.New("domain conflict")

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eh := handler.NewErrorHandler(log, func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, errDomain) {
			return handler.HTTPError{Code: http.StatusPreconditionFailed, Key: "Die Versionsnummer ist nicht aktuell."}, true
		}
		return handler.HTTPError{}, false
	})

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "mapped", err: errDomain, wantCode: http.StatusPreconditionFailed, wantBody: "Die Versionsnummer ist nicht aktuell."},
		{name: "http error", err: handler.ErrNotAcceptable, wantCode: http.StatusNotAcceptable, wantBody: "Not Acceptable"},
		{name: "details as json", err: handler.HTTPError{Code: 400, Details: map[string]string{"titel": "x"}}, wantCode: 400, wantBody: `{"titel":"x"}`},
		{name: "unknown hides cause", err: errors.New("mongo exploded"), wantCode: 500, wantBody: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
				return handler.Error(tt.err)
			}, handler.WithErrorHandler[struct{}](eh))

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}

	var line map[string]any
	dec := json.NewDecoder(&logs)
	found := false
	for dec.More() {
		require.NoError(t, dec.Decode(&line))
		if line["level"] == "ERROR" {
			found = true
			assert.Contains(t, line["error"], "mongo exploded")
		}
	}
	assert.True(t, found)
}

func TestStream(t *testing.T) {
	t.Parallel()

	body := io.NopCloser(strings.NewReader("bild"))
	rec := httptest.NewRecorder()
	require.NoError(t, handler.Stream(body, "image/png").Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "bild", rec.Body.String())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestStream_CopyFailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := httptest.NewRecorder()
	resp := handler.Stream(io.NopCloser(failingReader{}), "image/png", handler.WithLogger(log))
	require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodGet, "/bild", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "stream copy failed")
	assert.Contains(t, buf.String(), "disk gone")
}

func TestNilResponse(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(handler.Context, struct{}) handler.Response { return nil })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
