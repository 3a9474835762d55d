// Package gemaelde mounts the painting catalog over HTTP: a REST resource
// with HAL links and ETag versioning, and a GraphQL endpoint.
//
//	m := gemaelde.New(svc, files,
//		gemaelde.WithLogger(log),
//		gemaelde.WithAuth(tokens),
//		gemaelde.WithRateLimit(bucket),
//	)
//	r.Mount("/api/gemaelden", m.Handle())
//	r.Handle("/graphql", m.GraphQL())
package gemaelde

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acme/gemaelde/handler"
	"github.com/acme/gemaelde/pkg/binder"
	"github.com/acme/gemaelde/pkg/jwt"
	"github.com/acme/gemaelde/pkg/ratelimiter"
	"github.com/acme/gemaelde/svc/gemaelde"
)

// Roles allowed to write. Deleting needs RoleAdmin.
const (
	RoleAdmin       = "admin"
	RoleMitarbeiter = "mitarbeiter"
)

// MaxFileSize bounds a single image upload.
const MaxFileSize = 32 << 20

// Module serves the catalog. Create it with New.
type Module struct {
	svc    *gemaelde.Service
	files  *gemaelde.Files
	logger *slog.Logger
	tokens *jwt.Service
	bucket *ratelimiter.Bucket

	errorHandler handler.ErrorHandler
}

// Option configures a Module.
type Option func(*Module)

// WithLogger sets the logger for request failures and resolver errors.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithAuth requires a bearer token for writes. Without it the API is open.
func WithAuth(s *jwt.Service) Option {
	return func(m *Module) { m.tokens = s }
}

// WithRateLimit limits writes per client IP.
func WithRateLimit(b *ratelimiter.Bucket) Option {
	return func(m *Module) { m.bucket = b }
}

// New creates the module. files may be nil, which disables the image routes.
func New(svc *gemaelde.Service, files *gemaelde.Files, opts ...Option) *Module {
	m := &Module{
		svc:    svc,
		files:  files,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.errorHandler = handler.NewErrorHandler(m.logger, mapFailure)
	return m
}

// Handle returns the REST resource, to be mounted at /api/gemaelden.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(m.list,
		handler.WithBinders[listRequest](binder.Query()),
		handler.WithErrorHandler[listRequest](m.errorHandler),
	))
	r.Get("/{id}", handler.Wrap(m.get,
		handler.WithBinders[getRequest](binder.Path(chi.URLParam), binder.Header()),
		handler.WithErrorHandler[getRequest](m.errorHandler),
	))
	if m.files != nil {
		r.Get("/{id}/file", handler.Wrap(m.download,
			handler.WithBinders[fileRequest](binder.Path(chi.URLParam)),
			handler.WithErrorHandler[fileRequest](m.errorHandler),
		))
	}

	r.Group(func(r chi.Router) {
		r.Use(m.writeGuards(RoleAdmin, RoleMitarbeiter)...)

		r.Post("/", handler.Wrap(m.create,
			handler.WithBinders[createRequest](binder.JSON()),
			handler.WithErrorHandler[createRequest](m.errorHandler),
		))
		r.Put("/{id}", handler.Wrap(m.update,
			handler.WithBinders[updateRequest](binder.JSON(), binder.Path(chi.URLParam), binder.Header()),
			handler.WithErrorHandler[updateRequest](m.errorHandler),
		))
		if m.files != nil {
			r.Put("/{id}/file", handler.Wrap(m.upload,
				handler.WithBinders[fileRequest](binder.Path(chi.URLParam), binder.Header()),
				handler.WithErrorHandler[fileRequest](m.errorHandler),
			))
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(m.writeGuards(RoleAdmin)...)

		r.Delete("/{id}", handler.Wrap(m.delete,
			handler.WithBinders[deleteRequest](binder.Path(chi.URLParam)),
			handler.WithErrorHandler[deleteRequest](m.errorHandler),
		))
	})

	return r
}

// writeGuards returns the middleware chain of a write route: rate limit
// first, then authentication and the role check.
func (m *Module) writeGuards(roles ...string) []func(http.Handler) http.Handler {
	var mws []func(http.Handler) http.Handler
	if m.bucket != nil {
		mws = append(mws, ratelimiter.Middleware(m.bucket, ratelimiter.ByIP, m.logger))
	}
	if m.tokens != nil {
		mws = append(mws, jwt.Middleware(m.tokens), jwt.RequireRole(roles...))
	}
	return mws
}
