package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/config"
)

// EnsureTopic creates the orders topic when it is missing and waits until its
// partitions show up in metadata. Calling it for an existing topic is a no-op.
func EnsureTopic(ctx context.Context, cfg config.Kafka, log *zap.Logger) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return fmt.Errorf("empty topic")
	}
	partitions := max(cfg.Partitions, 1)
	replication := max(cfg.ReplicationFactor, 1)

	dialer := &kafkago.Dialer{Timeout: 10 * time.Second}

	conn, err := dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	if parts, err := conn.ReadPartitions(cfg.Topic); err == nil && len(parts) > 0 {
		log.Info("kafka topic exists", zap.String("topic", cfg.Topic), zap.Int("partitions", len(parts)))
		return nil
	}

	// topics can only be created on the controller
	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get controller: %w", err)
	}
	ctrlAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))

	ctrlConn, err := dialer.DialContext(ctx, "tcp", ctrlAddr)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", ctrlAddr, err)
	}
	defer ctrlConn.Close()

	log.Info("creating kafka topic",
		zap.String("topic", cfg.Topic),
		zap.Int("partitions", partitions),
		zap.Int("replication", replication),
	)
	err = ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     partitions,
		ReplicationFactor: replication,
	})
	if err != nil && !isTopicExists(err) {
		return fmt.Errorf("create topic: %w", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		parts, err := conn.ReadPartitions(cfg.Topic)
		if err == nil && len(parts) >= partitions {
			log.Info("kafka topic is ready", zap.String("topic", cfg.Topic), zap.Int("partitions", len(parts)))
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("topic %s not visible after creation", cfg.Topic)
		}
		if !sleepWithContext(ctx, 500*time.Millisecond) {
			return ctx.Err()
		}
	}
}

func isTopicExists(err error) bool {
	return errors.Is(err, kafkago.TopicAlreadyExists) || strings.Contains(strings.ToLower(err.Error()), "exists")
}
