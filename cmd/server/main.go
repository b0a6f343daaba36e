// Command server runs the DogCollars HTTP API.
//
// @title                       DogCollars API
// @version                     1.0
// @description                 Coordinates volunteers looking after stray dogs: dogs, care tasks and geofenced task closure.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/d1sgu1sed/DogCollars/internal/api"
	"github.com/d1sgu1sed/DogCollars/internal/api/handler"
	"github.com/d1sgu1sed/DogCollars/internal/api/middleware"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
	"github.com/d1sgu1sed/DogCollars/internal/core/service"
	"github.com/d1sgu1sed/DogCollars/internal/infrastructure/config"
	"github.com/d1sgu1sed/DogCollars/internal/infrastructure/db/memory"
	mongodb "github.com/d1sgu1sed/DogCollars/internal/infrastructure/db/mongo"
	"github.com/d1sgu1sed/DogCollars/internal/infrastructure/db/postgres"
	redisdb "github.com/d1sgu1sed/DogCollars/internal/infrastructure/db/redis"
	"github.com/d1sgu1sed/DogCollars/pkg/logger"
)

const devJWTSecret = "dev-secret-change-me"

// storage bundles the repositories of one backend.
type storage struct {
	users ports.UserRepository
	dogs  ports.DogRepository
	tasks ports.TaskRepository
	tx    ports.Transactor
	ping  handler.Pinger
	close func(context.Context)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "dog-collars",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close(context.Background())

	readiness := map[string]handler.Pinger{cfg.StorageDriver: store.ping}

	// Redis is optional: without it creates are not deduplicated and login
	// is not throttled.
	var (
		idem    service.IdempotencyStore
		limiter middleware.Limiter
	)
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, idempotency keys and login rate limiting disabled")
	} else {
		defer rdb.Close()
		idem = redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		limiter = redisdb.NewRateLimiter(rdb, "ratelimit:login", cfg.Auth.LoginRate, float64(cfg.Auth.LoginBurst))
		readiness["redis"] = redisdb.Pinger{Client: rdb}
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		secret = devJWTSecret
	}

	authService := service.NewAuthService(store.users, secret, cfg.Auth.TokenTTL, log)
	userService := service.NewUserService(store.users, store.tx, log)
	dogService := service.NewDogService(store.dogs, store.tasks, store.tx, idem, log)
	taskService := service.NewTaskService(store.tasks, store.dogs, store.tx, idem, log)

	if err := authService.EnsureSuperAdmin(ctx, cfg.SuperAdmin.Email, cfg.SuperAdmin.Password); err != nil {
		return fmt.Errorf("seed superadmin: %w", err)
	}

	router := api.NewRouter(api.Deps{
		Auth:         authService,
		Users:        userService,
		Dogs:         dogService,
		Tasks:        taskService,
		JWTSecret:    secret,
		LoginLimiter: limiter,
		Readiness:    readiness,
		Log:          log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("storage", cfg.StorageDriver).Msg("api server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	log.Info().Msg("shutting down api server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		transactions := cfg.Mongo.Transactions
		if !transactions {
			transactions, err = mongodb.SupportsTransactions(ctx, client)
			if err != nil {
				log.Warn().Err(err).Msg("mongo topology detection failed")
			}
		}
		if !transactions {
			log.Warn().Msg("mongo transactions unavailable: deleting a dog and cancelling its tasks is not atomic")
		}
		log.Info().Str("database", cfg.Mongo.Database).Bool("transactions", transactions).Msg("connected to mongodb")
		return &storage{
			users: mongodb.NewUserRepository(db),
			dogs:  mongodb.NewDogRepository(db),
			tasks: mongodb.NewTaskRepository(db),
			tx:    mongodb.NewTransactor(client, transactions),
			ping:  mongodb.Pinger{Client: client},
			close: func(ctx context.Context) {
				if err := client.Disconnect(ctx); err != nil {
					log.Error().Err(err).Msg("mongo disconnect failed")
				}
			},
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("connected to postgres")
		return &storage{
			users: postgres.NewUserRepository(pool),
			dogs:  postgres.NewDogRepository(pool),
			tasks: postgres.NewTaskRepository(pool),
			tx:    postgres.NewTransactor(pool),
			ping:  pool,
			close: func(context.Context) { pool.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &storage{
			users: memory.NewUserRepository(store),
			dogs:  memory.NewDogRepository(store),
			tasks: memory.NewTaskRepository(store),
			tx:    memory.NewTransactor(store),
			ping:  store,
			close: func(context.Context) {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
