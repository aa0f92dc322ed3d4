package rate

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lavrik91/test-task-1/internal/observability"
)

const flightKey = "rate"

// Cache memoizes one rate for ttl. Concurrent misses share a single upstream
// fetch, and a value is never served at or after its expiry.
type Cache struct {
	src     Source
	ttl     time.Duration
	now     func() time.Time
	metrics observability.Metrics
	log     *zap.Logger

	mu      sync.Mutex
	value   decimal.Decimal
	expires time.Time
	loaded  bool

	group singleflight.Group
}

type CacheOption func(*Cache)

func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func NewCache(src Source, ttl time.Duration, m observability.Metrics, log *zap.Logger, opts ...CacheOption) *Cache {
	c := &Cache{
		src:     src,
		ttl:     ttl,
		now:     time.Now,
		metrics: m,
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Rate returns the cached rate or fetches a fresh one. A failed fetch leaves
// the cache empty so the next call retries upstream.
func (c *Cache) Rate(ctx context.Context) (decimal.Decimal, error) {
	if v, ok := c.fresh(); ok {
		c.metrics.IncRateCacheHit()
		return v, nil
	}
	c.metrics.IncRateCacheMiss()

	// The shared fetch must not die with whichever caller happened to start it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		if v, ok := c.fresh(); ok {
			return v, nil
		}
		v, err := c.src.Fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(v)
		c.log.Info("exchange rate refreshed", zap.String("rate", v.String()), zap.Duration("ttl", c.ttl))
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
}

func (c *Cache) fresh() (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || !c.now().Before(c.expires) {
		return decimal.Zero, false
	}
	return c.value, true
}

func (c *Cache) store(v decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.expires = c.now().Add(c.ttl)
	c.loaded = true
}
