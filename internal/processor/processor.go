package processor

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/domain"
	"github.com/lavrik91/test-task-1/internal/observability"
)

//go:generate mockgen -source=processor.go -destination=processor_mock_test.go -package=processor
type Store interface {
	Create(ctx context.Context, order *domain.Order) error
	UpdateDeliveryCost(ctx context.Context, id, deliveryCost string) error
}

type Quoter interface {
	Quote(ctx context.Context, weight, cost decimal.Decimal) (string, error)
}

const (
	stageValidate = "validate"
	stageCreate   = "create"
	stagePrice    = "price"
	stageUpdate   = "update"
)

type Processor struct {
	store   Store
	quoter  Quoter
	metrics observability.Metrics
	tracer  trace.Tracer
	log     *zap.Logger
}

func New(store Store, quoter Quoter, m observability.Metrics, log *zap.Logger) *Processor {
	return &Processor{
		store:   store,
		quoter:  quoter,
		metrics: m,
		tracer:  otel.Tracer("processor"),
		log:     log,
	}
}

// Process creates the order for item, prices it and stores the delivery cost.
// A failure after create leaves the row with domain.DeliveryCostPending; the
// reconciler picks it up later.
func (p *Processor) Process(ctx context.Context, item domain.WorkItem) (string, error) {
	ctx, span := p.tracer.Start(ctx, "processor.process", trace.WithAttributes(
		attribute.String("task.id", item.TaskID),
		attribute.String("task.source", string(item.Source)),
	))
	defer span.End()

	start := time.Now()
	log := p.log.With(zap.String("task_id", item.TaskID), zap.String("source", string(item.Source)))

	fail := func(stage string, err error) (string, error) {
		p.metrics.ObserveProcess(outcome(err), observability.SinceMs(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
		if errors.Is(err, domain.ErrConflict) {
			log.Info("task already processed", zap.String("stage", stage))
		} else {
			log.Error("order processing failed", zap.String("stage", stage), zap.Error(err))
		}
		return "", err
	}

	if err := item.Validate(); err != nil {
		return fail(stageValidate, err)
	}

	order := domain.NewOrder(item)
	if err := p.traced(ctx, stageCreate, func(ctx context.Context) error {
		return p.store.Create(ctx, order)
	}); err != nil {
		return fail(stageCreate, err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	log = log.With(zap.String("order_id", order.ID))

	cost, stage, err := p.price(ctx, order)
	if errors.Is(err, domain.ErrAlreadyPriced) {
		p.metrics.ObserveProcess(outcome(err), observability.SinceMs(start))
		log.Info("order priced by another worker")
		return order.ID, nil
	}
	if err != nil {
		return fail(stage, err)
	}

	p.metrics.ObserveProcess("priced", observability.SinceMs(start))
	log.Info("order priced", zap.String("delivery_cost", cost))
	return order.ID, nil
}

// Reprice runs the price and update stages for an order that was created but
// never priced. It returns domain.ErrAlreadyPriced if another worker won.
func (p *Processor) Reprice(ctx context.Context, order domain.Order) (string, error) {
	ctx, span := p.tracer.Start(ctx, "processor.reprice", trace.WithAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("task.id", order.TaskID()),
	))
	defer span.End()

	cost, stage, err := p.price(ctx, &order)
	if errors.Is(err, domain.ErrAlreadyPriced) {
		return "", err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
		return "", err
	}
	return cost, nil
}

func (p *Processor) price(ctx context.Context, order *domain.Order) (cost, stage string, err error) {
	if err := p.traced(ctx, stagePrice, func(ctx context.Context) error {
		var err error
		cost, err = p.quoter.Quote(ctx, order.Weight, order.Cost)
		return err
	}); err != nil {
		return "", stagePrice, err
	}

	if err := p.traced(ctx, stageUpdate, func(ctx context.Context) error {
		return p.store.UpdateDeliveryCost(ctx, order.ID, cost)
	}); err != nil {
		return "", stageUpdate, err
	}
	order.DeliveryCost = cost
	return cost, "", nil
}

func (p *Processor) traced(ctx context.Context, stage string, fn func(ctx context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "processor."+stage)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "duplicate"
	case errors.Is(err, domain.ErrAlreadyPriced):
		return "already_priced"
	case errors.Is(err, domain.ErrInvalidItem):
		return "invalid"
	case errors.Is(err, domain.ErrUpstreamRate):
		return "upstream_rate"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
