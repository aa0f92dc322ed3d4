package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/domain"
	"github.com/lavrik91/test-task-1/internal/observability"
)

//go:generate mockgen -source=service.go -destination=service_mock_test.go -package=service

type Cache interface {
	Set(*domain.Order) bool
	Get(string) (*domain.Order, bool)
}

type Storage interface {
	Find(ctx context.Context, key string) (*domain.Order, error)
	ListForSession(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	CreateSession(ctx context.Context, sessionID string) (*domain.UserSession, error)
	OrderTypes(ctx context.Context) ([]domain.OrderTypeRecord, error)
}

// Service is the read side of the API plus session bookkeeping.
type Service struct {
	cache   Cache
	storage Storage
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewService(cache Cache, storage Storage, logger *zap.Logger, metrics observability.Metrics) *Service {
	return &Service{
		cache:   cache,
		storage: storage,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *Service) GetOrder(ctx context.Context, key string) (*domain.Order, error) {
	o, _, err := s.GetOrderWithStats(ctx, key)
	return o, err
}

// GetOrderWithStats resolves key as an order id or either task id.
func (s *Service) GetOrderWithStats(ctx context.Context, key string) (*domain.Order, LookupStats, error) {
	var st LookupStats

	tCacheStart := time.Now()
	if order, ok := s.cache.Get(key); ok {
		st.Source = SourceCache
		st.CacheMs = observability.SinceMs(tCacheStart)
		s.metrics.IncCacheHit()
		s.metrics.ObserveLookup(string(st.Source), st.CacheMs, 0)
		s.logger.Debug("Order fetched", st.fields(key)...)
		return order, st, nil
	}
	s.metrics.IncCacheMiss()
	st.CacheMs = observability.SinceMs(tCacheStart)

	tDbStart := time.Now()
	order, err := s.storage.Find(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Can't find order", append(st.fields(key), zap.Error(err))...)
		}
		return nil, st, err
	}
	st.Source = SourceDB
	st.DBMs = observability.SinceMs(tDbStart)

	// unpriced orders are still being worked on
	s.cache.Set(order)

	s.metrics.ObserveLookup(string(st.Source), st.CacheMs, st.DBMs)
	s.logger.Debug("Order fetched", st.fields(key)...)

	return order, st, nil
}

// ListUserOrders returns one page of the session's orders; an empty page is ErrNotFound.
func (s *Service) ListUserOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.storage.ListForSession(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("session %s: %w", filter.SessionUUID, domain.ErrNotFound)
	}
	return orders, nil
}

func (s *Service) OrderTypes(ctx context.Context) ([]domain.OrderTypeRecord, error) {
	return s.storage.OrderTypes(ctx)
}

// EnsureSession registers sessionID, minting a new one when it is empty.
// The returned flag is true when a new id was minted.
func (s *Service) EnsureSession(ctx context.Context, sessionID string) (string, bool, error) {
	created := false
	if sessionID == "" {
		sessionID = uuid.NewString()
		created = true
	}
	sess, err := s.storage.CreateSession(ctx, sessionID)
	if err != nil {
		s.logger.Error("Can't register session", zap.String("session_id", sessionID), zap.Error(err))
		return "", false, err
	}
	return sess.SessionID, created, nil
}
