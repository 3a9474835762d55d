package gemaelde

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/acme/gemaelde/handler"
	"github.com/acme/gemaelde/pkg/logger"
	"github.com/acme/gemaelde/svc/gemaelde"
)

type listRequest struct {
	Titel       string `query:"titel"`
	Art         string `query:"art"`
	Haendler    string `query:"haendler"`
	Bewertung   string `query:"bewertung"`
	Ausgestellt *bool  `query:"ausgestellt"`
	// Flags holds the remaining parameters; "?bunt=true" asks for the category Bunt.
	Flags map[string]string `query:",remain"`
}

func (req listRequest) criteria() gemaelde.Criteria {
	c := gemaelde.Criteria{
		Titel:       req.Titel,
		Art:         req.Art,
		Haendler:    req.Haendler,
		Bewertung:   req.Bewertung,
		Ausgestellt: req.Ausgestellt,
	}
	for name, value := range req.Flags {
		if strings.EqualFold(value, "true") {
			c.Kategorien = append(c.Kategorien, name)
		}
	}
	return c
}

func (m *Module) list(ctx handler.Context, req listRequest) handler.Response {
	found, err := m.svc.Find(ctx, req.criteria())
	if err != nil {
		return handler.Error(err)
	}
	if len(found) == 0 {
		return handler.Error(handler.ErrNotFound)
	}

	base := baseURI(ctx.Request(), "")
	items := make([]halGemaelde, 0, len(found))
	for _, g := range found {
		items = append(items, halGemaelde{
			Gemaelde: g,
			Links:    links{Self: link{Href: base + "/" + g.ID}},
		})
	}
	return handler.JSON(items)
}

type getRequest struct {
	ID          string `path:"id"`
	IfNoneMatch string `header:"If-None-Match"`
}

func (m *Module) get(ctx handler.Context, req getRequest) handler.Response {
	g, err := m.svc.FindByID(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	if g == nil {
		return handler.Error(handler.ErrNotFound)
	}

	etag := quote(g.Version)
	if req.IfNoneMatch == etag {
		return handler.Empty(handler.WithStatus(http.StatusNotModified))
	}
	return handler.JSON(toHAL(*g, baseURI(ctx.Request(), req.ID)), handler.WithHeader("ETag", etag))
}

// createRequest embeds the painting, so the JSON binder decodes the body
// with the painting's lenient decoder.
type createRequest struct {
	gemaelde.Gemaelde
}

func (m *Module) create(ctx handler.Context, req createRequest) handler.Response {
	id, err := m.svc.Create(ctx, req.Gemaelde)
	if err != nil {
		return handler.Error(err)
	}
	location := baseURI(ctx.Request(), "") + "/" + id
	return handler.Empty(
		handler.WithStatus(http.StatusCreated),
		handler.WithHeader("Location", location),
	)
}

type updateRequest struct {
	gemaelde.Gemaelde
	ID      string  `path:"id"`
	IfMatch *string `header:"If-Match"`
}

func (m *Module) update(ctx handler.Context, req updateRequest) handler.Response {
	if req.IfMatch == nil {
		return handler.Error(handler.HTTPError{Code: http.StatusPreconditionRequired, Key: "Versionsnummer fehlt"})
	}
	ifMatch := *req.IfMatch
	if len(ifMatch) < 3 {
		return handler.Error(handler.HTTPError{
			Code: http.StatusPreconditionFailed,
			Key:  "Ungueltige Versionsnummer: " + ifMatch,
		})
	}

	g := req.Gemaelde
	g.ID = req.ID
	version, err := m.svc.Update(ctx, g, ifMatch[1:len(ifMatch)-1])
	if err != nil {
		return handler.Error(err)
	}
	m.logger.DebugContext(ctx, "gemaelde updated via REST",
		logger.GemaeldeID(req.ID),
		logger.Component("gemaelde_rest"),
	)
	return handler.Empty(handler.WithHeader("ETag", quote(version)))
}

type deleteRequest struct {
	ID string `path:"id"`
}

func (m *Module) delete(ctx handler.Context, req deleteRequest) handler.Response {
	if _, err := m.svc.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type fileRequest struct {
	ID          string `path:"id"`
	ContentType string `header:"Content-Type"`
}

func (m *Module) upload(ctx handler.Context, req fileRequest) handler.Response {
	r := ctx.Request()
	body := http.MaxBytesReader(ctx.ResponseWriter(), r.Body, MaxFileSize)
	if err := m.files.Upload(ctx, req.ID, req.ContentType, body); err != nil {
		return handler.Error(fileError(err))
	}
	return handler.Empty()
}

func (m *Module) download(ctx handler.Context, req fileRequest) handler.Response {
	rc, info, err := m.files.Download(ctx, req.ID)
	if err != nil {
		return handler.Error(fileError(err))
	}
	opts := []handler.ResponseOption{handler.WithLogger(m.logger)}
	if info.Size > 0 {
		opts = append(opts, handler.WithHeader("Content-Length", strconv.FormatInt(info.Size, 10)))
	}
	return handler.Stream(rc, info.ContentType, opts...)
}

// fileError answers 404 for a missing painting on the image routes, where
// the update mapping of NotFoundError does not apply.
func fileError(err error) error {
	if f, ok := gemaelde.AsFailure(err); ok {
		if _, notFound := f.(gemaelde.NotFoundError); notFound {
			return handler.ErrNotFound
		}
	}
	return err
}

func quote(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}
