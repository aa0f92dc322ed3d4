package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/config"
	"github.com/lavrik91/test-task-1/internal/database"
	"github.com/lavrik91/test-task-1/internal/dispatch"
	"github.com/lavrik91/test-task-1/internal/domain"
	"github.com/lavrik91/test-task-1/internal/kafka"
	"github.com/lavrik91/test-task-1/internal/logger"
	"github.com/lavrik91/test-task-1/internal/observability"
	"github.com/lavrik91/test-task-1/internal/pkg/breaker"
	"github.com/lavrik91/test-task-1/internal/pricing"
	"github.com/lavrik91/test-task-1/internal/processor"
	"github.com/lavrik91/test-task-1/internal/queue"
	"github.com/lavrik91/test-task-1/internal/rate"
	"github.com/lavrik91/test-task-1/internal/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("worker stopped with error", zap.Error(err))
	}
	log.Info("worker stopped")
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	shutdownTracing, err := tracing.Init("orders-worker", cfg.JaegerEndpoint, log)
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

	pool, err := database.Connect(ctx, cfg.DSN(), log, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool, log); err != nil {
		return err
	}
	repo := database.New(pool)

	metrics := observability.NewPrometheus()

	// rate source -> cache -> pricing -> processor
	br := breaker.New(cfg.Breaker, breaker.OnStateChange(func(from, to breaker.State) {
		log.Warn("rate breaker state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	}))
	src := rate.NewHTTPSource(&http.Client{}, cfg.Rate, cfg.Retry, br, metrics, log.Named("rate"))
	rates := rate.NewCache(src, cfg.Rate.TTL, metrics, log.Named("rate"))
	proc := processor.New(repo, pricing.NewEngine(rates), metrics, log.Named("processor"))

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	if err := kafka.EnsureTopic(ctx, cfg.Kafka, log); err != nil {
		return err
	}

	queueConsumer := queue.NewConsumer(rdb, cfg.Queue, cfg.RequeueDelay,
		dispatch.New(domain.SourceQueue, proc, metrics, log.Named("dispatch")), log.Named("queue"))
	brokerConsumer := kafka.NewConsumer(
		dispatch.New(domain.SourceBroker, proc, metrics, log.Named("dispatch")),
		kafka.NewReader(cfg.Kafka), cfg.Kafka.Workers, cfg.RequeueDelay, log.Named("kafka"))
	reconciler := processor.NewReconciler(repo, proc, cfg.Reconcile, log.Named("reconciler"))

	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := queueConsumer.Run(runCtx); err != nil {
			errCh <- err
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if err := brokerConsumer.Run(runCtx); err != nil {
			errCh <- err
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		reconciler.Run(runCtx)
	}()
	log.Info("worker started", zap.String("queue", cfg.Queue.Key), zap.String("topic", cfg.Kafka.Topic))

	<-runCtx.Done()
	log.Info("draining in-flight work", zap.Duration("timeout", cfg.ShutdownTimeout))

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(cfg.ShutdownTimeout):
		log.Warn("drain timed out; unfinished items will be redelivered")
	}

	sctx, scancel := context.WithTimeout(context.Background(), time.Second)
	defer scancel()
	_ = metricsSrv.Shutdown(sctx)

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
