package main

import (
	"github.com/acme/gemaelde/pkg/email"
	"github.com/acme/gemaelde/pkg/file"
	"github.com/acme/gemaelde/pkg/httpserver"
	"github.com/acme/gemaelde/pkg/jwt"
	"github.com/acme/gemaelde/pkg/logger"
	"github.com/acme/gemaelde/pkg/mongo"
	"github.com/acme/gemaelde/pkg/ratelimiter"
	"github.com/acme/gemaelde/pkg/redis"
	"github.com/acme/gemaelde/svc/auth"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"gemaelde"`
	// Populate drops the catalog and reloads the seed data at startup.
	Populate bool `env:"DB_POPULATE" envDefault:"false"`

	Logger    logger.Config
	HTTP      httpserver.Config
	Mongo     mongo.Config
	Redis     redis.Config
	File      file.Config
	Mail      email.Config
	RateLimit ratelimiter.Config
	JWT       jwt.Config
	Auth      auth.Config
}
