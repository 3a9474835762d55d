package httpserver

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// WithAddr sets the listen address. It panics on an empty address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty address")
	}
	return withAddr(addr)
}

// WithShutdownTimeout bounds the graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: shutdown timeout must be positive")
	}
	return func(c *options) { c.shutdownTimeout = d }
}

// WithLogger sets the logger for start, stop and serve errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *options) {
		if l != nil {
			c.logger = l
		}
	}
}

func defaultOptions() *options {
	return &options{
		addr:            ":3000",
		shutdownTimeout: 10 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
