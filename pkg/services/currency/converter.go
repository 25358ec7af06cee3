// Package currency validates currency codes, looks up and caches exchange
// rates, and converts monetary amounts with per-currency rounding.
package currency

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/counsel-tools/rate-lens/pkg/cache"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

// supported maps a currency code to its minor-unit digits. JPY and KRW
// have no minor units.
var supported = map[string]int32{
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"JPY": 0,
	"CHF": 2,
	"CAD": 2,
	"AUD": 2,
	"CNY": 2,
	"INR": 2,
	"HKD": 2,
	"SGD": 2,
	"KRW": 0,
	"SEK": 2,
	"NOK": 2,
	"DKK": 2,
	"NZD": 2,
}

// Provider fetches a live exchange rate from an external source.
type Provider interface {
	FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

const rateTTL = 24 * time.Hour

type Converter struct {
	provider Provider
	cache    cache.Cache
	ttl      time.Duration
}

func NewConverter(provider Provider, c cache.Cache) *Converter {
	return &Converter{
		provider: provider,
		cache:    c,
		ttl:      rateTTL,
	}
}

// IsSupported reports whether code is in the supported currency set.
func IsSupported(code string) bool {
	_, ok := supported[code]
	return ok
}

// Round rounds amount to the currency's minor-unit precision using
// banker's rounding, so aggregate sums carry no systematic bias.
func Round(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	digits, ok := supported[code]
	if !ok {
		return decimal.Zero, &domain.UnsupportedCurrencyError{Code: code}
	}
	return amount.RoundBank(digits), nil
}

// Convert converts amount from one currency to another, rounding to the
// target currency's precision. Amounts pass through unchanged (and
// unrounded) when from == to.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if !IsSupported(from) {
		return decimal.Zero, &domain.UnsupportedCurrencyError{Code: from}
	}
	if !IsSupported(to) {
		return decimal.Zero, &domain.UnsupportedCurrencyError{Code: to}
	}
	if from == to {
		return amount, nil
	}

	rate, err := c.ExchangeRate(ctx, from, to, false)
	if err != nil {
		return decimal.Zero, err
	}
	return Round(amount.Mul(rate), to)
}

// ExchangeRate returns the rate to multiply a `from` amount by to obtain a
// `to` amount. Rates are cached for 24 hours; when the provider fails, the
// reciprocal of a cached inverse rate is used before giving up with a
// RateUnavailableError.
func (c *Converter) ExchangeRate(ctx context.Context, from, to string, forceRefresh bool) (decimal.Decimal, error) {
	if !IsSupported(from) {
		return decimal.Zero, &domain.UnsupportedCurrencyError{Code: from}
	}
	if !IsSupported(to) {
		return decimal.Zero, &domain.UnsupportedCurrencyError{Code: to}
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	logger := zerolog.Ctx(ctx)
	key := rateKey(from, to)

	if !forceRefresh {
		if rate, ok := c.cachedRate(ctx, key); ok {
			return rate, nil
		}
	}

	rate, fetchErr := c.provider.FetchRate(ctx, from, to)
	if fetchErr == nil {
		if err := c.cache.Set(ctx, key, rate.String(), c.ttl); err != nil {
			logger.Warn().Err(err).Str("pair", key).Msg("failed to cache exchange rate")
		}
		return rate, nil
	}

	logger.Warn().Err(fetchErr).Str("pair", key).Msg("rate provider failed, trying cached inverse")

	if inverse, ok := c.cachedRate(ctx, rateKey(to, from)); ok && !inverse.IsZero() {
		return decimal.NewFromInt(1).Div(inverse), nil
	}

	return decimal.Zero, &domain.RateUnavailableError{From: from, To: to, Err: fetchErr}
}

func (c *Converter) cachedRate(ctx context.Context, key string) (decimal.Decimal, bool) {
	val, ok, err := c.cache.Get(ctx, key)
	if err != nil || !ok {
		return decimal.Zero, false
	}
	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false
	}
	return rate, true
}

func rateKey(from, to string) string {
	return fmt.Sprintf("fx:%s:%s", from, to)
}
