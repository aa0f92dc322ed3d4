package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DeliveryCostPending is stored in orders.delivery_cost until the processor prices the order.
const DeliveryCostPending = "Не рассчитана"

type OrderType string

const (
	OrderTypeClothing      OrderType = "Clothing"
	OrderTypeElectronics   OrderType = "Electronics"
	OrderTypeMiscellaneous OrderType = "Miscellaneous"
)

// OrderTypes lists the enumeration in seed order.
var OrderTypes = []OrderType{OrderTypeClothing, OrderTypeElectronics, OrderTypeMiscellaneous}

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeClothing, OrderTypeElectronics, OrderTypeMiscellaneous:
		return true
	}
	return false
}

// Column limits of orders.weight NUMERIC(10,3) and orders.cost NUMERIC(10,2).
var (
	MaxWeight = decimal.New(1, 7)
	MaxCost   = decimal.New(1, 8)
)

// Source is the ingestion path a work item arrived through. It decides which
// task id column the order is correlated by.
type Source string

const (
	SourceQueue  Source = "queue"
	SourceBroker Source = "broker"
)

type Order struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Weight        decimal.Decimal `json:"weight"`
	Cost          decimal.Decimal `json:"cost"`
	DeliveryCost  string          `json:"delivery_cost"`
	OrderTypeName OrderType       `json:"order_type_name"`
	SessionUUID   string          `json:"-"`

	// Exactly one of the two is set, depending on Source.
	BackgroundTaskID *string `json:"background_task_id,omitempty"`
	CeleryTaskID     *string `json:"celery_task_id,omitempty"`
}

// Priced reports whether the delivery cost has been computed.
func (o *Order) Priced() bool {
	return o.DeliveryCost != "" && o.DeliveryCost != DeliveryCostPending
}

// TaskID returns whichever correlation id the order carries.
func (o *Order) TaskID() string {
	if o.BackgroundTaskID != nil {
		return *o.BackgroundTaskID
	}
	if o.CeleryTaskID != nil {
		return *o.CeleryTaskID
	}
	return ""
}

type OrderTypeRecord struct {
	ID   int       `json:"id"`
	Name OrderType `json:"name"`
}

type UserSession struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
}

// WorkItem is the normalized payload handed from an ingestion channel to the processor.
type WorkItem struct {
	Name          string          `json:"name"`
	Weight        decimal.Decimal `json:"weight"`
	Cost          decimal.Decimal `json:"cost"`
	OrderTypeName OrderType       `json:"order_type_name"`
	SessionUUID   string          `json:"session_uuid"`
	TaskID        string          `json:"task_id"`

	Source Source `json:"-"`
}

// Validate checks the invariants the ingestion edge is expected to have enforced already.
func (w WorkItem) Validate() error {
	switch {
	case strings.TrimSpace(w.Name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidItem)
	case !w.Weight.IsPositive():
		return fmt.Errorf("%w: weight %s is not positive", ErrInvalidItem, w.Weight)
	case !w.Cost.IsPositive():
		return fmt.Errorf("%w: cost %s is not positive", ErrInvalidItem, w.Cost)
	case !w.Weight.LessThan(MaxWeight):
		return fmt.Errorf("%w: weight %s is not less than %s", ErrInvalidItem, w.Weight, MaxWeight)
	case !w.Cost.LessThan(MaxCost):
		return fmt.Errorf("%w: cost %s is not less than %s", ErrInvalidItem, w.Cost, MaxCost)
	case !MaxTwoPlaces(w.Weight):
		return fmt.Errorf("%w: weight %s has more than 2 decimal places", ErrInvalidItem, w.Weight)
	case !MaxTwoPlaces(w.Cost):
		return fmt.Errorf("%w: cost %s has more than 2 decimal places", ErrInvalidItem, w.Cost)
	case !w.OrderTypeName.Valid():
		return fmt.Errorf("%w: unknown order type %q", ErrInvalidItem, w.OrderTypeName)
	case w.TaskID == "":
		return fmt.Errorf("%w: task id is empty", ErrInvalidItem)
	}
	return nil
}

// MaxTwoPlaces reports whether d has no more than two significant fractional digits.
func MaxTwoPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// NewOrder builds the initial, unpriced order row for a work item.
func NewOrder(item WorkItem) *Order {
	o := &Order{
		Name:          item.Name,
		Weight:        item.Weight,
		Cost:          item.Cost,
		DeliveryCost:  DeliveryCostPending,
		OrderTypeName: item.OrderTypeName,
		SessionUUID:   item.SessionUUID,
	}
	taskID := item.TaskID
	if item.Source == SourceQueue {
		o.CeleryTaskID = &taskID
	} else {
		o.BackgroundTaskID = &taskID
	}
	return o
}
