package processor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/config"
	"github.com/lavrik91/test-task-1/internal/domain"
)

//go:generate mockgen -source=reconciler.go -destination=reconciler_mock_test.go -package=processor
type PendingLister interface {
	ListPending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Order, error)
}

type Repricer interface {
	Reprice(ctx context.Context, order domain.Order) (string, error)
}

// Reconciler periodically reprices orders that still carry the pending
// delivery cost after the grace period, e.g. because the rate upstream was
// down and the redelivered task was acknowledged as a duplicate.
type Reconciler struct {
	orders   PendingLister
	repricer Repricer
	cfg      config.Reconcile
	log      *zap.Logger
}

func NewReconciler(orders PendingLister, repricer Repricer, cfg config.Reconcile, log *zap.Logger) *Reconciler {
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	return &Reconciler{orders: orders, repricer: repricer, cfg: cfg, log: log}
}

// Run ticks until ctx is done. A zero interval disables it.
func (r *Reconciler) Run(ctx context.Context) {
	if r.cfg.Interval <= 0 {
		r.log.Info("reconciler disabled")
		return
	}
	t := time.NewTicker(r.cfg.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := r.RunOnce(ctx); err != nil {
				r.log.Warn("reconcile pass failed", zap.Int("repriced", n), zap.Error(err))
			} else if n > 0 {
				r.log.Info("reconcile pass done", zap.Int("repriced", n))
			}
		}
	}
}

// RunOnce reprices one batch and returns how many orders got a delivery cost.
// It stops at the first failure; the rest is retried on the next pass.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.orders.ListPending(ctx, r.cfg.Grace, r.cfg.Batch)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, o := range pending {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		cost, err := r.repricer.Reprice(ctx, o)
		if errors.Is(err, domain.ErrAlreadyPriced) {
			r.log.Debug("order already priced", zap.String("order_id", o.ID))
			continue
		}
		if err != nil {
			return done, err
		}
		r.log.Debug("order repriced", zap.String("order_id", o.ID), zap.String("task_id", o.TaskID()), zap.String("delivery_cost", cost))
		done++
	}
	return done, nil
}
