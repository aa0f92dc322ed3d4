// Package pricing computes the delivery cost of an order in roubles.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lavrik91/test-task-1/internal/domain"
)

var (
	weightFactor = decimal.RequireFromString("0.5")
	costFactor   = decimal.RequireFromString("0.01")
)

//go:generate mockgen -source=pricing.go -destination=pricing_mock_test.go -package=pricing
type RateProvider interface {
	Rate(ctx context.Context) (decimal.Decimal, error)
}

// Price returns (weight*0.5 + cost*0.01) * rate, rounded half-to-even to
// kopecks and rendered with exactly two fractional digits.
func Price(weight, cost, rate decimal.Decimal) string {
	return weight.Mul(weightFactor).
		Add(cost.Mul(costFactor)).
		Mul(rate).
		RoundBank(2).
		StringFixed(2)
}

type Engine struct {
	rates RateProvider
}

func NewEngine(rates RateProvider) *Engine {
	return &Engine{rates: rates}
}

// Quote prices weight and cost using the current rate. Rate errors are
// returned as is; they already carry domain.ErrUpstreamRate.
func (e *Engine) Quote(ctx context.Context, weight, cost decimal.Decimal) (string, error) {
	if !weight.IsPositive() || !cost.IsPositive() {
		return "", fmt.Errorf("%w: weight %s and cost %s must be positive", domain.ErrInvalidItem, weight, cost)
	}
	rate, err := e.rates.Rate(ctx)
	if err != nil {
		return "", err
	}
	return Price(weight, cost, rate), nil
}
