package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/dispatch"
	"github.com/lavrik91/test-task-1/internal/domain"
)

//go:generate mockgen -source=submit.go -destination=submit_mock_test.go -package=service

type Enqueuer interface {
	Enqueue(ctx context.Context, payload []byte) error
}

type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

type OrderRequest struct {
	Name          string
	Weight        decimal.Decimal
	Cost          decimal.Decimal
	OrderTypeName domain.OrderType
}

// Submitter is the only place task ids are minted. The order itself is
// created later by the processor.
type Submitter struct {
	queue  Enqueuer
	broker Publisher
	newID  func() string
	logger *zap.Logger
}

func NewSubmitter(queue Enqueuer, broker Publisher, logger *zap.Logger) *Submitter {
	return &Submitter{
		queue:  queue,
		broker: broker,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// SubmitToQueue enqueues the order on the task queue and returns its task id.
func (s *Submitter) SubmitToQueue(ctx context.Context, sessionUUID string, req OrderRequest) (string, error) {
	item, payload, err := s.build(sessionUUID, req, domain.SourceQueue)
	if err != nil {
		return "", err
	}
	if err := s.queue.Enqueue(ctx, payload); err != nil {
		s.logger.Error("Enqueue failed", zap.String("task_id", item.TaskID), zap.Error(err))
		return "", err
	}
	s.logger.Info("Order submitted", zap.String("task_id", item.TaskID), zap.String("channel", string(item.Source)))
	return item.TaskID, nil
}

// SubmitToBroker publishes the order keyed by session, so one session's
// orders keep their relative order.
func (s *Submitter) SubmitToBroker(ctx context.Context, sessionUUID string, req OrderRequest) (string, error) {
	item, payload, err := s.build(sessionUUID, req, domain.SourceBroker)
	if err != nil {
		return "", err
	}
	if err := s.broker.Publish(ctx, sessionUUID, payload); err != nil {
		s.logger.Error("Publish failed", zap.String("task_id", item.TaskID), zap.Error(err))
		return "", err
	}
	s.logger.Info("Order submitted", zap.String("task_id", item.TaskID), zap.String("channel", string(item.Source)))
	return item.TaskID, nil
}

func (s *Submitter) build(sessionUUID string, req OrderRequest, src domain.Source) (domain.WorkItem, []byte, error) {
	item := domain.WorkItem{
		Name:          req.Name,
		Weight:        req.Weight,
		Cost:          req.Cost,
		OrderTypeName: req.OrderTypeName,
		SessionUUID:   sessionUUID,
		TaskID:        s.newID(),
		Source:        src,
	}
	if sessionUUID == "" {
		return item, nil, fmt.Errorf("%w: session is empty", domain.ErrInvalidItem)
	}
	if err := item.Validate(); err != nil {
		return item, nil, err
	}
	payload, err := dispatch.Encode(item)
	if err != nil {
		return item, nil, fmt.Errorf("encode work item: %w", err)
	}
	return item, payload, nil
}
