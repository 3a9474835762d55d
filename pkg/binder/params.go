package binder

import (
	"net/http"
	"net/textproto"
)

// Query binds URL query parameters to fields tagged `query`.
func Query() Func {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}

// Path binds route parameters to fields tagged `path`. extractor is the
// router's lookup, e.g. chi.URLParam.
func Path(extractor func(r *http.Request, name string) string) Func {
	return func(r *http.Request, v any) error {
		return bindFunc(v, "path", func(name string) []string {
			if val := extractor(r, name); val != "" {
				return []string{val}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}

// Header binds request headers to fields tagged `header`. Names are
// canonicalized, so `header:"if-match"` and `header:"If-Match"` are equal.
func Header() Func {
	return func(r *http.Request, v any) error {
		return bindFunc(v, "header", func(name string) []string {
			return r.Header.Values(textproto.CanonicalMIMEHeaderKey(name))
		}, ErrFailedToParseHeader)
	}
}
