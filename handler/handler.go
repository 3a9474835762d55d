// Package handler adapts typed request handlers to http.HandlerFunc.
//
// A handler receives a Context and a request struct filled by binders, and
// returns a Response. Binding and rendering errors go to an ErrorHandler:
//
//	http.HandleFunc("/api/gemaelden/{id}", handler.Wrap(getOne,
//		handler.WithBinders[getRequest](binder.Path(chi.URLParam), binder.Header()),
//		handler.WithErrorHandler[getRequest](errorHandler),
//	))
package handler

import (
	"net/http"

	"github.com/acme/gemaelde/pkg/binder"
)

// HandlerFunc handles a request whose input was bound into req.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response writes itself to w. A returned error is passed to the ErrorHandler,
// so it must not have written anything yet.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ErrorHandler renders a binding, handler or rendering failure.
type ErrorHandler func(ctx Context, err error)

// Decorator wraps a HandlerFunc, e.g. to add logging or authorization.
type Decorator[R any] func(HandlerFunc[R]) HandlerFunc[R]

// WrapOption configures Wrap.
type WrapOption[R any] func(*wrapConfig[R])

type wrapConfig[R any] struct {
	binders      []binder.Func
	errorHandler ErrorHandler
	decorators   []Decorator[R]
}

// WithBinders appends binders; they run in order on the same request value.
func WithBinders[R any](binders ...binder.Func) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		for _, b := range binders {
			if b != nil {
				c.binders = append(c.binders, b)
			}
		}
	}
}

// WithErrorHandler replaces the default handler, which renders Classify(err).
func WithErrorHandler[R any](h ErrorHandler) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators wraps the handler; the first decorator is the outermost.
func WithDecorators[R any](decorators ...Decorator[R]) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// Wrap turns h into an http.HandlerFunc. Binders fill a fresh R for every
// request, then decorators and h run and the Response is rendered.
//
//	r.Post("/", handler.Wrap(create,
//		handler.WithBinders[createRequest](binder.JSON()),
//	))
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption[R]) http.HandlerFunc {
	cfg := &wrapConfig[R]{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := final(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

func defaultErrorHandler(ctx Context, err error) {
	he := Classify(err)
	_ = he.Render(ctx.ResponseWriter(), ctx.Request())
}
