package gemaelde

import (
	"net/http"
	"strings"

	"github.com/acme/gemaelde/svc/gemaelde"
)

type link struct {
	Href string `json:"href"`
}

type links struct {
	Self   link  `json:"self"`
	List   *link `json:"list,omitempty"`
	Add    *link `json:"add,omitempty"`
	Update *link `json:"update,omitempty"`
	Remove *link `json:"remove,omitempty"`
}

// halGemaelde is a painting with its _links. Id and version are not part of
// the body.
type halGemaelde struct {
	gemaelde.Gemaelde
	Links links `json:"_links"`
}

func toHAL(g gemaelde.Gemaelde, base string) halGemaelde {
	self := base + "/" + g.ID
	return halGemaelde{
		Gemaelde: g,
		Links: links{
			Self:   link{Href: self},
			List:   &link{Href: base},
			Add:    &link{Href: base},
			Update: &link{Href: self},
			Remove: &link{Href: self},
		},
	}
}

// baseURI returns scheme://host/mount for the resource. id is the trailing
// path segment of the current route, if any.
func baseURI(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
		scheme = strings.ToLower(strings.TrimSpace(scheme))
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	if id != "" {
		path = strings.TrimSuffix(path, "/"+id)
	}
	return scheme + "://" + r.Host + path
}
