package gemaelde

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acme/gemaelde/pkg/async"
	"github.com/acme/gemaelde/pkg/logger"
)

// Notifier is told about every painting that was created. Failures are
// logged by the service and never reach the caller.
type Notifier interface {
	Created(ctx context.Context, g Gemaelde) error
}

// Service implements the catalog use cases on top of a Store.
type Service struct {
	store         Store
	notifier      Notifier
	logger        *slog.Logger
	newID         func() string
	notifyTimeout time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets the creation notifier.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithNotifyTimeout bounds a single notification attempt.
func WithNotifyTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:         store,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:         func() string { return uuid.NewString() },
		notifyTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID returns the painting or nil when none exists.
func (s *Service) FindByID(ctx context.Context, id string) (*Gemaelde, error) {
	if id == "" {
		return nil, nil
	}
	return s.store.FindByID(ctx, id)
}

// Find returns the paintings matching c ordered by title. Zero criteria return everything.
func (s *Service) Find(ctx context.Context, c Criteria) ([]Gemaelde, error) {
	return s.store.Find(ctx, c)
}

// Create validates and stores a new painting and returns its id. The id and
// version of g are ignored. Domain failures are returned as Failure values.
func (s *Service) Create(ctx context.Context, g Gemaelde) (string, error) {
	if errs := Validate(g); errs != nil {
		return "", InvalidError{Errors: errs}
	}
	if err := s.checkTitel(ctx, g.Titel, ""); err != nil {
		return "", err
	}
	if err := s.checkZertifizierung(ctx, g.Zertifizierung, ""); err != nil {
		return "", err
	}

	g.ID = s.newID()
	g.Version = 0
	if err := s.store.Insert(ctx, g); err != nil {
		return "", s.conflict(ctx, g, err)
	}

	s.logger.InfoContext(ctx, "gemaelde created",
		logger.GemaeldeID(g.ID),
		logger.Component("gemaelde"),
	)
	s.notify(ctx, g)
	return g.ID, nil
}

// Update replaces the painting g.ID when version is not older than the
// stored one and returns the new version.
func (s *Service) Update(ctx context.Context, g Gemaelde, version string) (int, error) {
	expected, err := strconv.Atoi(strings.TrimSpace(version))
	if err != nil {
		return 0, VersionInvalidError{Value: version}
	}
	if errs := Validate(g); errs != nil {
		return 0, InvalidError{Errors: errs}
	}
	if err := s.checkTitel(ctx, g.Titel, g.ID); err != nil {
		return 0, err
	}
	if g.ID == "" {
		return 0, NotFoundError{ID: g.ID}
	}

	current, err := s.store.FindByID(ctx, g.ID)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, NotFoundError{ID: g.ID}
	}
	if expected < current.Version {
		return 0, VersionOutdatedError{ID: g.ID, Version: expected}
	}

	replaced, err := s.store.Replace(ctx, g, current.Version)
	if err != nil {
		return 0, s.conflict(ctx, g, err)
	}
	if !replaced {
		// a concurrent update won between load and write
		return 0, VersionOutdatedError{ID: g.ID, Version: expected}
	}

	s.logger.DebugContext(ctx, "gemaelde updated",
		logger.GemaeldeID(g.ID),
		slog.Int("version", current.Version+1),
		logger.Component("gemaelde"),
	)
	return current.Version + 1, nil
}

// Delete removes the painting and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.InfoContext(ctx, "gemaelde deleted",
			logger.GemaeldeID(id),
			logger.Component("gemaelde"),
		)
	}
	return deleted, nil
}

func (s *Service) checkTitel(ctx context.Context, titel, ownID string) error {
	existing, err := s.store.FindByTitel(ctx, titel)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != ownID {
		return TitleExistsError{Title: titel, ID: existing.ID}
	}
	return nil
}

func (s *Service) checkZertifizierung(ctx context.Context, code, ownID string) error {
	if code == "" {
		return nil
	}
	existing, err := s.store.FindByZertifizierung(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != ownID {
		return CodeExistsError{Code: code, ID: existing.ID}
	}
	return nil
}

// conflict turns a unique index violation into the matching failure.
func (s *Service) conflict(ctx context.Context, g Gemaelde, err error) error {
	switch {
	case errors.Is(err, ErrDuplicateTitel):
		if existing, findErr := s.store.FindByTitel(ctx, g.Titel); findErr == nil && existing != nil {
			return TitleExistsError{Title: g.Titel, ID: existing.ID}
		}
		return TitleExistsError{Title: g.Titel}
	case errors.Is(err, ErrDuplicateZertifizierung):
		if existing, findErr := s.store.FindByZertifizierung(ctx, g.Zertifizierung); findErr == nil && existing != nil {
			return CodeExistsError{Code: g.Zertifizierung, ID: existing.ID}
		}
		return CodeExistsError{Code: g.Zertifizierung}
	default:
		return err
	}
}

func (s *Service) notify(ctx context.Context, g Gemaelde) {
	if s.notifier == nil {
		return
	}
	async.Async(context.WithoutCancel(ctx), g, func(ctx context.Context, g Gemaelde) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()

		if err := s.notifier.Created(ctx, g); err != nil {
			s.logger.WarnContext(ctx, "gemaelde notification failed",
				logger.GemaeldeID(g.ID),
				logger.Error(err),
				logger.Component("gemaelde"),
			)
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
}
