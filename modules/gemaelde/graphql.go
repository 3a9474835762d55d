package gemaelde

import (
	"context"
	_ "embed"
	"net/http"
	"strconv"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/acme/gemaelde/pkg/jwt"
	"github.com/acme/gemaelde/pkg/logger"
	"github.com/acme/gemaelde/pkg/ratelimiter"
	"github.com/acme/gemaelde/svc/gemaelde"
)

//go:embed schema.graphql
var graphQLSchema string

// Values of extensions.code in GraphQL errors.
const (
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeTitleExists     = "TITLE_EXISTS"
	CodeCodeExists      = "CODE_EXISTS"
	CodeNotFound        = "NOT_FOUND"
	CodeVersionInvalid  = "VERSION_INVALID"
	CodeVersionOutdated = "VERSION_OUTDATED"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL"
)

// GraphQL returns the GraphQL endpoint. It accepts POST requests with a JSON
// body of query, variables and operationName. The schema is parsed here, so
// a broken schema panics at startup.
func (m *Module) GraphQL() http.Handler {
	schema := graphql.MustParseSchema(graphQLSchema, &resolver{m: m})

	var h http.Handler = &relay.Handler{Schema: schema}
	if m.tokens != nil {
		h = jwt.Authenticate(m.tokens)(h)
	}
	if m.bucket != nil {
		h = ratelimiter.Middleware(m.bucket, ratelimiter.ByIP, m.logger)(h)
	}
	return h
}

// gqlError carries a failure code, and the validation messages when there are any.
type gqlError struct {
	msg    string
	code   string
	errors map[string]string
}

func (e gqlError) Error() string { return e.msg }

func (e gqlError) Extensions() map[string]any {
	ext := map[string]any{"code": e.code}
	if e.errors != nil {
		ext["errors"] = e.errors
	}
	return ext
}

type resolver struct {
	m *Module
}

func (r *resolver) Gemaelden(ctx context.Context, args struct{ Titel *string }) ([]*gemaeldeResolver, error) {
	var c gemaelde.Criteria
	if args.Titel != nil {
		c.Titel = *args.Titel
	}
	found, err := r.m.svc.Find(ctx, c)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	result := make([]*gemaeldeResolver, 0, len(found))
	for _, g := range found {
		result = append(result, &gemaeldeResolver{g: g})
	}
	return result, nil
}

func (r *resolver) Gemaelde(ctx context.Context, args struct{ ID graphql.ID }) (*gemaeldeResolver, error) {
	g, err := r.m.svc.FindByID(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	if g == nil {
		return nil, nil
	}
	return &gemaeldeResolver{g: *g}, nil
}

type createArgs struct {
	Titel          string
	Art            *string
	Haendler       string
	Bewertung      *string
	Beschreibung   *string
	Wert           *float64
	Ausgestellt    *bool
	Datum          *string
	Zertifizierung *string
	Kategorien     *[]string
}

func (a createArgs) painting() gemaelde.Gemaelde {
	g := gemaelde.Gemaelde{
		Titel:          a.Titel,
		Haendler:       a.Haendler,
		Art:            deref(a.Art),
		Bewertung:      deref(a.Bewertung),
		Beschreibung:   deref(a.Beschreibung),
		Datum:          deref(a.Datum),
		Zertifizierung: deref(a.Zertifizierung),
		Wert:           a.Wert,
		Ausgestellt:    a.Ausgestellt,
	}
	if a.Kategorien != nil {
		g.Kategorien = *a.Kategorien
	}
	return g
}

type updateArgs struct {
	ID             graphql.ID
	Version        *int32
	Titel          string
	Art            *string
	Haendler       string
	Bewertung      *string
	Beschreibung   *string
	Wert           *float64
	Ausgestellt    *bool
	Datum          *string
	Zertifizierung *string
	Kategorien     *[]string
}

func (a updateArgs) painting() gemaelde.Gemaelde {
	g := createArgs{
		Titel:          a.Titel,
		Art:            a.Art,
		Haendler:       a.Haendler,
		Bewertung:      a.Bewertung,
		Beschreibung:   a.Beschreibung,
		Wert:           a.Wert,
		Ausgestellt:    a.Ausgestellt,
		Datum:          a.Datum,
		Zertifizierung: a.Zertifizierung,
		Kategorien:     a.Kategorien,
	}.painting()
	g.ID = string(a.ID)
	return g
}

func (r *resolver) CreateGemaelde(ctx context.Context, args createArgs) (*graphql.ID, error) {
	if err := r.authorize(ctx, RoleAdmin, RoleMitarbeiter); err != nil {
		return nil, err
	}
	id, err := r.m.svc.Create(ctx, args.painting())
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	gid := graphql.ID(id)
	return &gid, nil
}

// UpdateGemaelde treats a missing version like a missing If-Match header.
func (r *resolver) UpdateGemaelde(ctx context.Context, args updateArgs) (*int32, error) {
	if err := r.authorize(ctx, RoleAdmin, RoleMitarbeiter); err != nil {
		return nil, err
	}
	version := ""
	if args.Version != nil {
		version = strconv.Itoa(int(*args.Version))
	}
	v, err := r.m.svc.Update(ctx, args.painting(), version)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	v32 := int32(v)
	return &v32, nil
}

func (r *resolver) DeleteGemaelde(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	if err := r.authorize(ctx, RoleAdmin); err != nil {
		return false, err
	}
	deleted, err := r.m.svc.Delete(ctx, string(args.ID))
	if err != nil {
		return false, r.fail(ctx, err)
	}
	return deleted, nil
}

func (r *resolver) authorize(ctx context.Context, roles ...string) error {
	if r.m.tokens == nil {
		return nil
	}
	claims, ok := jwt.ClaimsFromContext(ctx)
	if !ok {
		return gqlError{msg: "Unauthorized", code: CodeUnauthenticated}
	}
	if !claims.HasAnyRole(roles...) {
		return gqlError{msg: "Forbidden", code: CodeForbidden}
	}
	return nil
}

// fail turns a service error into a GraphQL error. Infrastructure errors are
// logged and reported without detail.
func (r *resolver) fail(ctx context.Context, err error) error {
	f, ok := gemaelde.AsFailure(err)
	if !ok {
		r.m.logger.ErrorContext(ctx, "graphql resolver failed",
			logger.Error(err),
			logger.Component("gemaelde_graphql"),
		)
		return gqlError{msg: "Interner Fehler", code: CodeInternal}
	}

	switch f := f.(type) {
	case gemaelde.InvalidError:
		return gqlError{msg: "Ungueltige Eingabe", code: CodeBadUserInput, errors: f.Errors}
	case gemaelde.TitleExistsError:
		return gqlError{msg: f.Error(), code: CodeTitleExists}
	case gemaelde.CodeExistsError:
		return gqlError{msg: f.Error(), code: CodeCodeExists}
	case gemaelde.NotFoundError:
		return gqlError{msg: f.Error(), code: CodeNotFound}
	case gemaelde.VersionInvalidError:
		return gqlError{msg: f.Error(), code: CodeVersionInvalid}
	case gemaelde.VersionOutdatedError:
		return gqlError{msg: f.Error(), code: CodeVersionOutdated}
	default:
		return gqlError{msg: f.Error(), code: CodeInternal}
	}
}

type gemaeldeResolver struct {
	g gemaelde.Gemaelde
}

func (r *gemaeldeResolver) ID() graphql.ID     { return graphql.ID(r.g.ID) }
func (r *gemaeldeResolver) Version() int32     { return int32(r.g.Version) }
func (r *gemaeldeResolver) Titel() string      { return r.g.Titel }
func (r *gemaeldeResolver) Art() *string       { return optional(r.g.Art) }
func (r *gemaeldeResolver) Haendler() *string  { return optional(r.g.Haendler) }
func (r *gemaeldeResolver) Bewertung() *string { return optional(r.g.Bewertung) }
func (r *gemaeldeResolver) Wert() *float64     { return r.g.Wert }
func (r *gemaeldeResolver) Ausgestellt() *bool { return r.g.Ausgestellt }
func (r *gemaeldeResolver) Datum() *string     { return optional(r.g.Datum) }

func (r *gemaeldeResolver) Beschreibung() *string   { return optional(r.g.Beschreibung) }
func (r *gemaeldeResolver) Zertifizierung() *string { return optional(r.g.Zertifizierung) }

func (r *gemaeldeResolver) Kategorien() *[]string {
	if r.g.Kategorien == nil {
		return nil
	}
	return &r.g.Kategorien
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
