// Package queue is the task-queue ingestion channel: a Redis reliable queue
// where each consumer leases one item at a time into its own processing list.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/config"
	"github.com/lavrik91/test-task-1/internal/dispatch"
)

//go:generate mockgen -source=queue.go -destination=queue_mock_test.go -package=queue
type redisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BLMove(ctx context.Context, source, destination, srcpos, destpos string, timeout time.Duration) *redis.StringCmd
	LMove(ctx context.Context, source, destination, srcpos, destpos string) *redis.StringCmd
	LRem(ctx context.Context, key string, count int64, value interface{}) *redis.IntCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type Handler interface {
	Handle(ctx context.Context, raw []byte) dispatch.Verdict
}

// Both scripts only move the payload if this consumer still holds it.
// Requeue pushes to the tail so a failing item waits behind newer work.
const (
	requeueScript = `
if redis.call('LREM', KEYS[1], 1, ARGV[1]) > 0 then
    redis.call('LPUSH', KEYS[2], ARGV[1])
    return 1
end
return 0`

	discardScript = `
if redis.call('LREM', KEYS[1], 1, ARGV[1]) > 0 then
    redis.call('LPUSH', KEYS[2], ARGV[1])
    return 1
end
return 0`
)

type keys struct {
	pending, processing, dead string
}

func newKeys(base, consumerID string) keys {
	return keys{
		pending:    base + ":pending",
		processing: base + ":processing:" + consumerID,
		dead:       base + ":dead",
	}
}

type Producer struct {
	client redisClient
	keys   keys
}

func NewProducer(client redisClient, cfg config.Queue) *Producer {
	return &Producer{client: client, keys: newKeys(cfg.Key, cfg.ConsumerID)}
}

// Enqueue appends payload to the pending list.
func (p *Producer) Enqueue(ctx context.Context, payload []byte) error {
	if err := p.client.LPush(ctx, p.keys.pending, payload).Err(); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}
	return nil
}

type Consumer struct {
	client       redisClient
	keys         keys
	pollTimeout  time.Duration
	requeueDelay time.Duration
	handler      Handler
	log          *zap.Logger
}

func NewConsumer(client redisClient, cfg config.Queue, requeueDelay time.Duration, h Handler, log *zap.Logger) *Consumer {
	poll := cfg.PollTimeout
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &Consumer{
		client:       client,
		keys:         newKeys(cfg.Key, cfg.ConsumerID),
		pollTimeout:  poll,
		requeueDelay: requeueDelay,
		handler:      h,
		log:          log.With(zap.String("consumer", cfg.ConsumerID)),
	}
}

// Run leases and handles items until ctx is canceled. An item already leased
// when ctx is canceled is handled and settled before Run returns.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.recover(ctx); err != nil {
		return err
	}
	c.log.Info("queue consumer started", zap.String("pending", c.keys.pending))

	backoff := 200 * time.Millisecond
	for {
		if ctx.Err() != nil {
			c.log.Info("queue consumer stopped")
			return nil
		}

		raw, err := c.client.BLMove(ctx, c.keys.pending, c.keys.processing, "RIGHT", "LEFT", c.pollTimeout).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			c.log.Warn("lease failed", zap.Error(err), zap.Duration("backoff", backoff))
			if !sleepWithContext(ctx, backoff) {
				continue
			}
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = 200 * time.Millisecond

		c.deliver(ctx, raw)
	}
}

func (c *Consumer) deliver(ctx context.Context, raw string) {
	// the leased item is finished even if shutdown starts meanwhile
	workCtx := context.WithoutCancel(ctx)
	verdict := c.handler.Handle(workCtx, []byte(raw))

	var err error
	switch verdict {
	case dispatch.VerdictAck:
		err = c.client.LRem(workCtx, c.keys.processing, 1, raw).Err()
	case dispatch.VerdictDiscard:
		err = c.client.Eval(workCtx, discardScript, []string{c.keys.processing, c.keys.dead}, raw).Err()
	case dispatch.VerdictRequeue:
		sleepWithContext(ctx, c.requeueDelay)
		err = c.client.Eval(workCtx, requeueScript, []string{c.keys.processing, c.keys.pending}, raw).Err()
	}
	if err != nil {
		// the item stays in the processing list and is recovered on restart
		c.log.Error("settle failed", zap.Stringer("verdict", verdict), zap.Error(err))
	}
}

// recover returns items left in this consumer's processing list by a previous
// run to the pending list.
func (c *Consumer) recover(ctx context.Context) error {
	moved := 0
	for {
		err := c.client.LMove(ctx, c.keys.processing, c.keys.pending, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return fmt.Errorf("recover processing list: %w", err)
		}
		moved++
	}
	if moved > 0 {
		c.log.Warn("recovered unacknowledged items", zap.Int("count", moved))
	}
	return nil
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
