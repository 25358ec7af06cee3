package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidRateError reports a negative or otherwise unusable rate value.
type InvalidRateError struct {
	Value decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid rate: %s", e.Value)
}

// InvalidHoursError reports a negative hours value on a billing entry.
type InvalidHoursError struct {
	Value decimal.Decimal
}

func (e *InvalidHoursError) Error() string {
	return fmt.Sprintf("invalid hours: %s", e.Value)
}

// UnsupportedCurrencyError reports a currency code outside the supported set.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %q", e.Code)
}

// RateUnavailableError reports that no exchange rate could be obtained for a
// currency pair: the provider failed and no cached direct or inverse rate
// was usable. Callers must not substitute a guessed rate.
type RateUnavailableError struct {
	From string
	To   string
	Err  error
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("exchange rate unavailable for %s/%s: %v", e.From, e.To, e.Err)
}

func (e *RateUnavailableError) Unwrap() error { return e.Err }

// InvalidDimensionError reports an unsupported grouping dimension.
type InvalidDimensionError struct {
	Dimension string
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("unsupported dimension: %q", e.Dimension)
}

// InvalidParameterError reports an unsupported parameter value at the
// orchestration boundary (view type, filter dimension, year count).
type InvalidParameterError struct {
	Name  string
	Value string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %q", e.Name, e.Value)
}
