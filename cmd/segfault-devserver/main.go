// Command segfault-devserver runs the Segmentation Fault development API.
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
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/segmentation-fault/forum/internal/core/ports"
	"github.com/segmentation-fault/forum/internal/devserver"
	"github.com/segmentation-fault/forum/internal/infrastructure/db/memory"
	"github.com/segmentation-fault/forum/internal/infrastructure/db/mongo"
	"github.com/segmentation-fault/forum/internal/infrastructure/db/redis"
	"github.com/segmentation-fault/forum/internal/infrastructure/queue"
	"github.com/segmentation-fault/forum/internal/pkg/config"
	"github.com/segmentation-fault/forum/internal/pkg/metrics"
	"github.com/segmentation-fault/forum/pkg/logger"
)

// @title Segmentation Fault API
// @version 1.0
// @description Development server for the Segmentation Fault forum.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadServer(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("load configuration")
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  config.IsDevelopment(cfg.Env),
		Service: "segfault-devserver",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.ServerConfig, log zerolog.Logger) error {
	var (
		repo   ports.ForumRepository   = memory.NewRepository()
		tokens ports.OneTimeTokenStore = memory.NewTokenStore()
		db     *gomongo.Database
		rdb    *goredis.Client
	)

	if cfg.Mongo.URI != "" {
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()
		mongoRepo := mongo.NewForumRepository(database)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo, db = mongoRepo, database
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb repository")
	} else {
		log.Warn().Msg("MONGO_URI not set, data is kept in memory")
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		tokens, rdb = redis.NewTokenStore(client), client
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis token store")
	}

	serverMetrics := metrics.NewServer(prometheus.DefaultRegisterer)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, queue.NewLogSender(logger.Component("notifications")), log, serverMetrics)
	dispatcher.Start(workerCtx)
	defer func() {
		cancelWorkers()
		dispatcher.Wait()
	}()

	e := devserver.NewRouter(devserver.Config{
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		OneTimeTTL:     cfg.OneTimeTTL,
		FrontendURL:    cfg.FrontendURL,
	}, devserver.Deps{
		Repo:     repo,
		Tokens:   tokens,
		Notifier: dispatcher,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
		Metrics:  serverMetrics,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
