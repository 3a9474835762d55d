// Package auth mounts the login endpoint.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acme/gemaelde/handler"
	"github.com/acme/gemaelde/pkg/binder"
	svcauth "github.com/acme/gemaelde/svc/auth"
)

// Authenticator is the login use case.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (svcauth.Token, error)
}

// Module serves the login endpoint.
type Module struct {
	auth         Authenticator
	errorHandler handler.ErrorHandler
}

// New creates the module. A nil log falls back to slog.Default.
func New(a Authenticator, log *slog.Logger) *Module {
	return &Module{
		auth:         a,
		errorHandler: handler.NewErrorHandler(log, mapError),
	}
}

// Handle returns the routes, to be mounted at /api/auth.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/login", handler.Wrap(m.login,
		handler.WithBinders[loginRequest](bindCredentials),
		handler.WithErrorHandler[loginRequest](m.errorHandler),
	))
	return r
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// bindCredentials accepts a JSON body as well as a form.
func bindCredentials(r *http.Request, v any) error {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "application/json" {
		return binder.JSON()(r, v)
	}
	return binder.Form()(r, v)
}

func (m *Module) login(ctx handler.Context, req loginRequest) handler.Response {
	token, err := m.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(token)
}

func mapError(err error) (handler.HTTPError, bool) {
	if errors.Is(err, svcauth.ErrInvalidCredentials) {
		he := handler.ErrUnauthorized
		he.Err = err
		return he, true
	}
	return handler.HTTPError{}, false
}
