package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/application/service"
	"github.com/lavrik91/test-task-1/internal/cache"
	"github.com/lavrik91/test-task-1/internal/config"
	"github.com/lavrik91/test-task-1/internal/database"
	"github.com/lavrik91/test-task-1/internal/httpapi"
	"github.com/lavrik91/test-task-1/internal/kafka"
	"github.com/lavrik91/test-task-1/internal/logger"
	"github.com/lavrik91/test-task-1/internal/observability"
	"github.com/lavrik91/test-task-1/internal/queue"
	"github.com/lavrik91/test-task-1/internal/tracing"
)

func main() {
	cfg := config.Load()

	// Логгер
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("app stopped with error", zap.Error(err))
	}
	log.Info("app stopped")
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	shutdownTracing, err := tracing.Init("orders-api", cfg.JaegerEndpoint, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	// База
	pool, err := database.Connect(ctx, cfg.DSN(), log, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool, log); err != nil {
		return err
	}
	repo := database.New(pool)

	// Каналы
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	if err := kafka.EnsureTopic(ctx, cfg.Kafka, log); err != nil {
		log.Warn("ensure topic failed; publishing will rely on broker auto-create", zap.Error(err))
	}
	producer := kafka.NewProducer(kafka.NewWriter(cfg.Kafka))
	defer func() {
		if err := producer.Close(); err != nil {
			log.Warn("kafka writer close", zap.Error(err))
		}
	}()

	// Кэш
	metrics := observability.NewPrometheus()
	orders, err := cache.New(cfg.CacheCap)
	if err != nil {
		return err
	}
	orders.Warm(ctx, repo, log)

	// Сервис
	svc := service.NewService(orders, repo, log.Named("service"), metrics)
	submitter := service.NewSubmitter(queue.NewProducer(rdb, cfg.Queue), producer, log.Named("submit"))

	// Хендлер
	server := httpapi.New(svc, submitter, metrics.Handler(), log.Named("http"), metrics)
	log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr, cfg.ShutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
