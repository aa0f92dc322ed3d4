package rate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/config"
	"github.com/lavrik91/test-task-1/internal/domain"
	"github.com/lavrik91/test-task-1/internal/observability"
	"github.com/lavrik91/test-task-1/internal/pkg/breaker"
	"github.com/lavrik91/test-task-1/internal/pkg/retry"
)

//go:generate mockgen -source=source.go -destination=source_mock_test.go -package=rate
type Source interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// maxBody caps how much of the upstream response is read.
const maxBody = 1 << 20

type dailyRates struct {
	Valute map[string]struct {
		Value decimal.Decimal `json:"Value"`
	} `json:"Valute"`
}

// HTTPSource reads the rouble rate of one currency from a CBR-style daily JSON feed.
type HTTPSource struct {
	client   *http.Client
	url      string
	currency string
	timeout  time.Duration
	policy   config.Retry
	breaker  *breaker.Breaker
	metrics  observability.Metrics
	tracer   trace.Tracer
	log      *zap.Logger
}

func NewHTTPSource(client *http.Client, cfg config.Rate, policy config.Retry, br *breaker.Breaker, m observability.Metrics, log *zap.Logger) *HTTPSource {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{
		client:   client,
		url:      cfg.URL,
		currency: cfg.Currency,
		timeout:  cfg.Timeout,
		policy:   policy,
		breaker:  br,
		metrics:  m,
		tracer:   otel.Tracer("rate"),
		log:      log,
	}
}

// Fetch retries transient failures and gives up immediately while the
// breaker is open. Every returned error wraps domain.ErrUpstreamRate.
func (s *HTTPSource) Fetch(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "rate.fetch", trace.WithAttributes(
		attribute.String("rate.currency", s.currency),
	))
	defer span.End()

	start := time.Now()
	var rate decimal.Decimal
	attempt := 0
	err := retry.Do(ctx, s.policy, func() error {
		attempt++
		err := s.breaker.Do(func() error {
			r, err := s.fetchOnce(ctx)
			if err != nil {
				return err
			}
			rate = r
			return nil
		})
		if err == nil {
			return nil
		}
		s.log.Warn("rate fetch attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if errors.Is(err, breaker.ErrOpen) || errors.Is(err, errBadStatus4xx) {
			return retry.Permanent(err)
		}
		return err
	})
	s.metrics.ObserveRateFetch(observability.SinceMs(start), err == nil)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate fetch failed")
		return decimal.Zero, fmt.Errorf("%w: %s: %w", domain.ErrUpstreamRate, s.currency, err)
	}
	span.SetAttributes(attribute.String("rate.value", rate.String()))
	return rate, nil
}

var errBadStatus4xx = errors.New("client error from rate upstream")

func (s *HTTPSource) fetchOnce(ctx context.Context) (decimal.Decimal, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return decimal.Zero, fmt.Errorf("rate upstream status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return decimal.Zero, fmt.Errorf("%w: status %d", errBadStatus4xx, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, fmt.Errorf("rate upstream status %d", resp.StatusCode)
	}

	var body dailyRates
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode rate response: %w", err)
	}
	v, ok := body.Valute[s.currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("currency %s missing from rate response", s.currency)
	}
	if !v.Value.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate for %s is not positive: %s", s.currency, v.Value)
	}
	return v.Value, nil
}
