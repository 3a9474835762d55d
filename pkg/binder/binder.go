// Package binder fills request structs from the parts of an *http.Request.
//
// Each binder reads one source, selected by a struct tag:
//
//	type updateRequest struct {
//		ID      string            `path:"id"`
//		IfMatch string            `header:"If-Match"`
//		Titel   string            `query:"titel"`
//		Rest    map[string]string `query:",remain"`
//	}
//
// JSON decodes the body into the whole value. A field tagged with the
// ",remain" option collects every parameter not bound to another field.
package binder

import "net/http"

// Func binds part of r into v, which must be a pointer.
type Func func(r *http.Request, v any) error
