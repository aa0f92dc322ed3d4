package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/domain"
	"github.com/lavrik91/test-task-1/internal/observability"
)

// Verdict tells the delivering channel what to do with a unit of work.
type Verdict int

const (
	// VerdictAck acknowledges the unit; it is never seen again.
	VerdictAck Verdict = iota
	// VerdictDiscard acknowledges a unit that can never succeed.
	VerdictDiscard
	// VerdictRequeue leaves the unit unacknowledged for redelivery.
	VerdictRequeue
)

func (v Verdict) String() string {
	switch v {
	case VerdictAck:
		return "ack"
	case VerdictDiscard:
		return "discard"
	case VerdictRequeue:
		return "requeue"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

//go:generate mockgen -source=dispatcher.go -destination=dispatcher_mock_test.go -package=dispatch
type Processor interface {
	Process(ctx context.Context, item domain.WorkItem) (string, error)
}

// Dispatcher turns raw deliveries from one channel into processor calls.
type Dispatcher struct {
	source  domain.Source
	proc    Processor
	metrics observability.Metrics
	log     *zap.Logger
}

func New(source domain.Source, proc Processor, m observability.Metrics, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		source:  source,
		proc:    proc,
		metrics: m,
		log:     log.With(zap.String("channel", string(source))),
	}
}

func (d *Dispatcher) Handle(ctx context.Context, raw []byte) Verdict {
	start := time.Now()
	v, taskID, err := d.handle(ctx, raw)
	d.metrics.ObserveDelivery(string(d.source), v.String(), observability.SinceMs(start))

	switch v {
	case VerdictDiscard:
		d.log.Warn("work item discarded", zap.String("task_id", taskID), zap.Error(err), zap.ByteString("payload", truncate(raw, 512)))
	case VerdictRequeue:
		d.log.Warn("work item requeued", zap.String("task_id", taskID), zap.Error(err))
	}
	return v
}

func (d *Dispatcher) handle(ctx context.Context, raw []byte) (Verdict, string, error) {
	item, err := Decode(raw)
	if err != nil {
		return VerdictDiscard, item.TaskID, err
	}
	item.Source = d.source

	_, err = d.proc.Process(ctx, item)
	switch {
	case err == nil:
		return VerdictAck, item.TaskID, nil
	case errors.Is(err, domain.ErrConflict):
		return VerdictAck, item.TaskID, nil
	case errors.Is(err, domain.ErrInvalidItem), errors.Is(err, domain.ErrDeserialization):
		return VerdictDiscard, item.TaskID, err
	default:
		return VerdictRequeue, item.TaskID, err
	}
}

// Decode strictly parses a work item payload. Every failure wraps
// domain.ErrDeserialization.
func Decode(raw []byte) (domain.WorkItem, error) {
	var item domain.WorkItem
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&item); err != nil {
		return domain.WorkItem{}, fmt.Errorf("%w: %v", domain.ErrDeserialization, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.WorkItem{}, fmt.Errorf("%w: trailing data after object", domain.ErrDeserialization)
	}

	var missing []string
	if item.TaskID == "" {
		missing = append(missing, "task_id")
	}
	if item.SessionUUID == "" {
		missing = append(missing, "session_uuid")
	}
	if item.Name == "" {
		missing = append(missing, "name")
	}
	if item.OrderTypeName == "" {
		missing = append(missing, "order_type_name")
	}
	if len(missing) > 0 {
		return domain.WorkItem{TaskID: item.TaskID}, fmt.Errorf("%w: missing %v", domain.ErrDeserialization, missing)
	}
	return item, nil
}

// Encode is the inverse of Decode, used by the submitting side.
func Encode(item domain.WorkItem) ([]byte, error) {
	return json.Marshal(item)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
