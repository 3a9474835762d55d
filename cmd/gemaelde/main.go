// Command gemaelde serves the painting catalog over REST and GraphQL.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	modauth "github.com/acme/gemaelde/modules/auth"
	modgemaelde "github.com/acme/gemaelde/modules/gemaelde"
	"github.com/acme/gemaelde/pkg/clientip"
	"github.com/acme/gemaelde/pkg/config"
	"github.com/acme/gemaelde/pkg/email"
	"github.com/acme/gemaelde/pkg/environment"
	"github.com/acme/gemaelde/pkg/file"
	"github.com/acme/gemaelde/pkg/httpserver"
	"github.com/acme/gemaelde/pkg/jwt"
	"github.com/acme/gemaelde/pkg/logger"
	"github.com/acme/gemaelde/pkg/mongo"
	"github.com/acme/gemaelde/pkg/ratelimiter"
	"github.com/acme/gemaelde/pkg/redis"
	"github.com/acme/gemaelde/pkg/requestid"
	"github.com/acme/gemaelde/svc/auth"
	"github.com/acme/gemaelde/svc/gemaelde"
)

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	env := environment.Parse(cfg.Environment)
	log := logger.New(
		logger.WithEnvironment(env, cfg.ServiceName),
		logger.WithConfig(cfg.Logger),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, env, log); err != nil {
		log.Error("service stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, env environment.Environment, log *slog.Logger) error {
	client, err := mongo.New(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()
	db := client.Database(cfg.Mongo.Database)

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		if rdb, err = redis.Connect(ctx, cfg.Redis); err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
	}

	storage, err := file.NewFromConfig(ctx, cfg.File, db)
	if err != nil {
		return err
	}

	repo := gemaelde.NewRepository(db)
	if err := prepareStore(ctx, cfg.Populate, repo, storage, log); err != nil {
		return err
	}

	sender, err := email.NewFromConfig(cfg.Mail)
	if err != nil {
		return err
	}

	svc := gemaelde.NewService(repo,
		gemaelde.WithLogger(log),
		gemaelde.WithNotifier(gemaelde.NewMailNotifier(sender, cfg.Mail.From, cfg.Mail.To)),
	)
	files := gemaelde.NewFiles(repo, storage, log)

	opts := []modgemaelde.Option{modgemaelde.WithLogger(log)}

	bucket, err := newBucket(cfg.RateLimit, rdb)
	if err != nil {
		return err
	}
	if bucket != nil {
		opts = append(opts, modgemaelde.WithRateLimit(bucket))
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RealIP,
		requestid.Middleware,
		clientip.Middleware,
		environment.Middleware(env),
		logger.Middleware(log),
	)

	if cfg.JWT.Enabled() {
		tokens, err := jwt.New(cfg.JWT)
		if err != nil {
			return err
		}
		users, err := auth.ParseUsers(cfg.Auth.Users)
		if err != nil {
			return err
		}
		opts = append(opts, modgemaelde.WithAuth(tokens))
		r.Mount("/api/auth", modauth.New(auth.NewService(users, tokens, auth.WithLogger(log)), log).Handle())
	} else {
		log.Warn("AUTH_SIGNING_KEY is not set, writes are not authenticated", logger.Component("main"))
	}

	catalog := modgemaelde.New(svc, files, opts...)
	r.Mount("/api/gemaelden", catalog.Handle())
	r.Handle("/graphql", catalog.GraphQL())

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, 5*time.Second, readinessChecks(client, rdb)...))

	log.Info("starting server",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("file_storage", cfg.File.Driver),
		logger.Component("main"),
	)
	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, r)
}

// prepareStore reloads the seed data when populate is set and makes sure the
// indexes exist otherwise.
func prepareStore(ctx context.Context, populate bool, repo *gemaelde.Repository, storage file.Storage, log *slog.Logger) error {
	if !populate {
		return repo.EnsureIndexes(ctx)
	}

	seed, err := gemaelde.Seed()
	if err != nil {
		return err
	}
	if err := repo.Reload(ctx, seed); err != nil {
		return err
	}
	if gridfs, ok := storage.(*file.GridFSStorage); ok {
		if err := gridfs.Drop(ctx); err != nil {
			return err
		}
	}
	log.Warn("catalog reloaded from seed data",
		slog.Int("count", len(seed)),
		logger.Event("db_populate"),
		logger.Component("main"),
	)
	return nil
}

func newBucket(cfg ratelimiter.Config, rdb *goredis.Client) (*ratelimiter.Bucket, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var store ratelimiter.Store
	switch cfg.Store {
	case "redis":
		if rdb == nil {
			return nil, errors.New("rate limit store redis needs REDIS_URL")
		}
		store = ratelimiter.NewRedisStore(rdb, "gemaelde:ratelimit:")
	case "", "memory":
		store = ratelimiter.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.Store)
	}
	return ratelimiter.NewBucket(store, cfg)
}

func readinessChecks(client *mongodriver.Client, rdb *goredis.Client) []httpserver.Check {
	checks := []httpserver.Check{{Name: "mongo", Fn: mongo.Healthcheck(client)}}
	if rdb != nil {
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	}
	return checks
}
