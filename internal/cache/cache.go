package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/domain"
)

//go:generate mockgen -source=cache.go -destination=cache_mock_test.go -package=cache

type repo interface {
	Find(ctx context.Context, key string) (*domain.Order, error)
	RecentOrderIDs(ctx context.Context, limit int) ([]string, error)
}

// Cache is the read-side LRU for orders. Only priced orders are stored, since
// a pending order changes once the processor finishes with it. Each order is
// reachable by its id and by its task id.
type Cache struct {
	size int
	lru  *lru.Cache[string, domain.Order]
}

func New(size int) (*Cache, error) {
	c, err := lru.New[string, domain.Order](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		size: size,
		lru:  c,
	}, nil
}

func (c *Cache) Warm(ctx context.Context, repo repo, log *zap.Logger) {
	ids, err := repo.RecentOrderIDs(ctx, c.size)
	if err != nil {
		log.Warn("cache warm skipped", zap.Error(err))
		return
	}
	warmed := 0
	for _, id := range ids {
		o, err := repo.Find(ctx, id)
		if err != nil {
			log.Debug("cache warm: order skipped", zap.String("order_id", id), zap.Error(err))
			continue
		}
		if c.Set(o) {
			warmed++
		}
	}
	log.Info("cache warmed", zap.Int("orders", warmed))
}

func (c *Cache) Get(key string) (*domain.Order, bool) {
	order, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return &order, true
}

// Set stores a priced order and reports whether it was cached.
func (c *Cache) Set(order *domain.Order) bool {
	if order == nil || !order.Priced() {
		return false
	}
	c.lru.Add(order.ID, *order)
	if taskID := order.TaskID(); taskID != "" {
		c.lru.Add(taskID, *order)
	}
	return true
}

func (c *Cache) Len() int { return c.lru.Len() }
