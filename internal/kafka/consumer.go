package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/config"
	"github.com/lavrik91/test-task-1/internal/dispatch"
	"github.com/lavrik91/test-task-1/internal/pkg/pool"
)

//go:generate mockgen -source=consumer.go -destination=consumer_mock_test.go -package=kafka
type Handler interface {
	Handle(ctx context.Context, raw []byte) dispatch.Verdict
}

type Reader interface {
	Config() kafkago.ReaderConfig
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewReader builds a consumer-group reader with synchronous commits.
func NewReader(cfg config.Kafka) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.Group,
		Topic:       cfg.Topic,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
	})
}

// Consumer fans messages out to a fixed set of lanes. A partition always maps
// to the same lane, so messages of one partition are handled and committed in
// offset order; a requeued message is retried in place and blocks its lane.
type Consumer struct {
	handler      Handler
	reader       Reader
	zlogger      *zap.Logger
	workers      int
	requeueDelay time.Duration

	// partitions whose retry was abandoned at shutdown; later offsets must not be committed
	stopped sync.Map
}

func NewConsumer(handler Handler, reader Reader, workers int, requeueDelay time.Duration, logger *zap.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		handler:      handler,
		reader:       reader,
		zlogger:      logger,
		workers:      workers,
		requeueDelay: requeueDelay,
	}
}

// Run fetches until ctx is canceled, then waits for in-flight messages to be
// settled and closes the reader.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.zlogger.Info("Starting Kafka consumer",
		zap.Strings("brokers", rc.Brokers),
		zap.String("group", rc.GroupID),
		zap.String("topic", rc.Topic),
		zap.Int("lanes", c.workers),
	)

	lanes := pool.New(c.workers, 1)
	defer func() {
		lanes.Close()
		lanes.Wait()
		if err := c.reader.Close(); err != nil {
			c.zlogger.Warn("reader close failed", zap.Error(err))
		}
		c.zlogger.Info("Kafka consumer stopped")
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			if isBenignFetchTimeout(err) {
				c.zlogger.Debug("fetch timeout (idle), backing off", zap.Error(err))
				sleepWithContext(ctx, time.Second)
				continue
			}
			// Frequent temporary errors during rebalancing/coordinator = just wait and continue
			c.zlogger.Warn("FetchMessage error, backing off", zap.Error(err))
			sleepWithContext(ctx, 500*time.Millisecond)
			continue
		}

		lanes.Submit(msg.Partition, func() { c.process(ctx, msg) })
	}
}

func (c *Consumer) process(ctx context.Context, msg kafkago.Message) {
	fields := []zap.Field{
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	}
	if _, ok := c.stopped.Load(msg.Partition); ok {
		return
	}

	workCtx := context.WithoutCancel(ctx)
	start := time.Now()
	for attempt := 1; ; attempt++ {
		verdict := c.handler.Handle(workCtx, msg.Value)
		if verdict != dispatch.VerdictRequeue {
			break
		}
		c.zlogger.Warn("message requeued; retrying in place", append(fields, zap.Int("attempt", attempt))...)
		if !sleepWithContext(ctx, c.requeueDelay) {
			// left uncommitted; the group redelivers it after restart
			c.stopped.Store(msg.Partition, struct{}{})
			c.zlogger.Info("shutdown during retry; message left uncommitted", fields...)
			return
		}
	}

	if err := c.reader.CommitMessages(workCtx, msg); err != nil {
		c.zlogger.Warn("commit failed", append(fields, zap.Error(err))...)
		return
	}
	c.zlogger.Debug("message committed", append(fields, zap.Duration("elapsed", time.Since(start)))...)
}

// sleepWithContext reports whether the full duration elapsed.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func isBenignFetchTimeout(err error) bool {
	s := err.Error()
	return strings.Contains(s, "Request Timed Out") ||
		strings.Contains(s, "no messages received from kafka within the allocated time")
}
