// Package auth checks user credentials and issues access tokens.
package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/acme/gemaelde/pkg/logger"
)

// TokenIssuer signs access tokens. *jwt.Service implements it.
type TokenIssuer interface {
	Generate(username string, roles ...string) (string, time.Time, error)
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Roles       []string  `json:"roles"`
}

// Service verifies credentials against a fixed user table.
type Service struct {
	users     map[string]User
	tokens    TokenIssuer
	logger    *slog.Logger
	dummyHash []byte
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for login attempts.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService indexes users by name; later duplicates win.
func NewService(users []User, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:  make(map[string]User, len(users)),
		tokens: tokens,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, u := range users {
		s.users[u.Username] = u
	}
	// compared against for unknown users so both paths cost one bcrypt check
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gemaelde"), bcrypt.MinCost)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the password and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	u, known := s.users[username]
	hash := s.dummyHash
	if known {
		hash = u.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !known {
		s.logger.InfoContext(ctx, "login failed",
			logger.Username(username),
			logger.Event("login_failed"),
			logger.Component("auth"),
		)
		return Token{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(u.Username, u.Roles...)
	if err != nil {
		return Token{}, errors.Join(ErrIssueToken, err)
	}

	s.logger.InfoContext(ctx, "login succeeded",
		logger.Username(username),
		logger.Event("login"),
		logger.Component("auth"),
	)
	return Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Roles:       u.Roles,
	}, nil
}
