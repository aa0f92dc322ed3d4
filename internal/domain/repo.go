package domain

import (
	"context"
	"time"
)

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	UpdateDeliveryCost(ctx context.Context, id, deliveryCost string) error
	Find(ctx context.Context, idOrTaskID string) (*Order, error)
	ListPending(ctx context.Context, olderThan time.Duration, limit int) ([]Order, error)
	ListForSession(ctx context.Context, filter OrderFilter) ([]Order, error)
	RecentOrderIDs(ctx context.Context, limit int) ([]string, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, sessionID string) (*UserSession, error)
}

type OrderTypeRepository interface {
	OrderTypes(ctx context.Context) ([]OrderTypeRecord, error)
}

// OrderFilter selects one page of a session's orders.
type OrderFilter struct {
	SessionUUID string
	OrderType   *OrderType
	// Priced filters by whether the delivery cost is already computed; nil means both.
	Priced   *bool
	Page     int
	PageSize int
}
