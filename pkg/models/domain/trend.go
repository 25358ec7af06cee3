package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendPoint is one bucket of a historical rate series.
type TrendPoint struct {
	Period string // "2023", "2023-Q2" or "2023-06" depending on granularity
	Start  time.Time
	Amount decimal.Decimal
}

// InflationComparison summarizes CPI inflation over the analyzed window.
// Empty (Available == false) when CPI data is missing for an endpoint year;
// the analyzer never fabricates a CPI value.
type InflationComparison struct {
	Available  bool
	StartYear  int
	EndYear    int
	Average    float64
	Cumulative float64
	Yearly     map[int]float64
}

// TrendResult is the output of a trend analysis for one entity.
type TrendResult struct {
	EntityID         string
	Currency         string
	Period           TrendPeriod
	HistoricalSeries []TrendPoint
	RateChanges      []float64 // period-over-period percentage changes
	CAGR             float64
	Inflation        InflationComparison
	Buckets          map[string][]TrendPoint // client/firm variants only
}

// RateDistribution summarizes the spread of a set of rate changes.
// Ok is false for empty input: an empty trend is a valid outcome.
type RateDistribution struct {
	Ok     bool
	P10    float64
	P25    float64
	P50    float64
	P75    float64
	P90    float64
	Mean   float64
	Median float64
	StdDev float64
}
