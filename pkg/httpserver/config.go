package httpserver

import "time"

// Config holds the server settings read from the environment.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":3000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates a server from cfg. Explicit opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	base := []Option{
		withAddr(cfg.Addr),
		func(c *options) {
			if cfg.ReadTimeout > 0 {
				c.readTimeout = cfg.ReadTimeout
			}
			if cfg.WriteTimeout > 0 {
				c.writeTimeout = cfg.WriteTimeout
			}
			if cfg.IdleTimeout > 0 {
				c.idleTimeout = cfg.IdleTimeout
			}
			if cfg.ShutdownTimeout > 0 {
				c.shutdownTimeout = cfg.ShutdownTimeout
			}
		},
	}
	return New(append(base, opts...)...)
}

func withAddr(addr string) Option {
	return func(c *options) {
		if addr != "" {
			c.addr = addr
		}
	}
}
