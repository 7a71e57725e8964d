package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/api"
	"github.com/99minutos/auth-service/internal/api/handler"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/core/service"
	"github.com/99minutos/auth-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/auth-service/internal/infrastructure/db/postgres"
	"github.com/99minutos/auth-service/internal/infrastructure/db/redis"
	"github.com/99minutos/auth-service/internal/infrastructure/queue"
	"github.com/99minutos/auth-service/internal/infrastructure/security"
	"github.com/99minutos/auth-service/internal/pkg/config"
	"github.com/99minutos/auth-service/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// store is a credential store that can also report its connectivity.
type store interface {
	ports.CredentialStore
	handler.Pinger
}

func main() {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "auth-service",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, closeStore, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("credential store unavailable")
	}
	defer closeStore()

	readiness := map[string]handler.Pinger{"store": users}
	var credentials ports.CredentialStore = users

	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, user cache disabled")
		} else {
			defer rdb.Close()
			cache := redis.NewUserCache(users, rdb, cfg.Redis.UserTTL, logger.Component("user-cache"))
			credentials = cache
			readiness["cache"] = cache
		}
	}

	// Workers outlive the signal so in-flight requests can finish hashing
	// while the server drains.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewPool(cfg.Auth.HashWorkers, logger.Component("hash-pool"))
	pool.Start(poolCtx)

	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher")
	}
	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	authService := service.NewAuthService(credentials, hasher, tokens, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Tokens:      tokens,
		Readiness:   readiness,
		Registerer:  prometheus.DefaultRegisterer,
		Log:         logger.Component("http"),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Int("hash_workers", pool.Workers()).
			Dur("token_ttl", tokens.TTL()).
			Msg("auth service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

// openStore connects the configured credential store and makes sure its
// email uniqueness constraint exists.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewUserRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Msg("connected to postgres")
		return repo, db.Close, nil
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "auth-service",
		})
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return repo, disconnect, nil
	}
}
