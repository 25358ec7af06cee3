// Package trends computes historical rate trends: compound annual growth,
// inflation-adjusted comparison, period-over-period time series, and
// distribution statistics of rate changes.
package trends

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

// RateSource retrieves rate history for an entity.
type RateSource interface {
	RatesByAttorney(ctx context.Context, attorneyID string) ([]domain.Rate, error)
	RatesByClient(ctx context.Context, clientID string) ([]domain.Rate, error)
	RatesByFirm(ctx context.Context, firmID string) ([]domain.Rate, error)
}

// Converter is the currency dependency of the analyzer.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Query parameterizes a trend analysis.
type Query struct {
	Period       domain.TrendPeriod
	Currency     string
	Years        int
	StaffClassID string // optional filters
	OfficeID     string
}

const batchConcurrency = 8

type Analyzer struct {
	source    RateSource
	converter Converter
	cpi       CPISource
}

func NewAnalyzer(source RateSource, converter Converter, cpi CPISource) *Analyzer {
	if cpi == nil {
		cpi = USCPISource{}
	}
	return &Analyzer{source: source, converter: converter, cpi: cpi}
}

// CAGR returns the compound annual growth rate in percent, rounded to two
// decimals. Non-positive start, end, or years yield 0: those inputs sit
// outside the exponentiation domain and are guarded, not raised.
func CAGR(startValue, endValue float64, years float64) float64 {
	if startValue <= 0 || endValue <= 0 || years <= 0 {
		return 0
	}
	growth := (math.Pow(endValue/startValue, 1/years) - 1) * 100
	return math.Round(growth*100) / 100
}

// InflationForPeriod summarizes CPI inflation over the inclusive year
// range. The result is empty when either endpoint year lacks CPI data.
func (a *Analyzer) InflationForPeriod(startYear, endYear int) domain.InflationComparison {
	if startYear > endYear {
		startYear, endYear = endYear, startYear
	}
	if _, ok := a.cpi.CPI(startYear); !ok {
		return domain.InflationComparison{}
	}
	if _, ok := a.cpi.CPI(endYear); !ok {
		return domain.InflationComparison{}
	}

	yearly := make(map[int]float64)
	sum := 0.0
	compounded := 1.0
	count := 0
	for year := startYear; year <= endYear; year++ {
		cpi, ok := a.cpi.CPI(year)
		if !ok {
			continue
		}
		yearly[year] = cpi
		sum += cpi
		compounded *= 1 + cpi/100
		count++
	}

	return domain.InflationComparison{
		Available:  true,
		StartYear:  startYear,
		EndYear:    endYear,
		Average:    math.Round(sum/float64(count)*100) / 100,
		Cumulative: math.Round((compounded-1)*100*100) / 100,
		Yearly:     yearly,
	}
}

// TrendsByAttorney analyzes one attorney's rate history.
func (a *Analyzer) TrendsByAttorney(ctx context.Context, attorneyID string, q Query) (*domain.TrendResult, error) {
	rates, err := a.source.RatesByAttorney(ctx, attorneyID)
	if err != nil {
		return nil, fmt.Errorf("loading rate history for attorney %s: %w", attorneyID, err)
	}
	return a.analyze(ctx, attorneyID, rates, q, "")
}

// TrendsByClient analyzes a client's rate history with per-staff-class
// bucket series alongside the overall trend.
func (a *Analyzer) TrendsByClient(ctx context.Context, clientID string, q Query) (*domain.TrendResult, error) {
	rates, err := a.source.RatesByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("loading rate history for client %s: %w", clientID, err)
	}
	return a.analyze(ctx, clientID, rates, q, domain.DimensionStaffClass)
}

// TrendsByFirm analyzes a firm's rate history with per-office bucket
// series alongside the overall trend.
func (a *Analyzer) TrendsByFirm(ctx context.Context, firmID string, q Query) (*domain.TrendResult, error) {
	rates, err := a.source.RatesByFirm(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("loading rate history for firm %s: %w", firmID, err)
	}
	return a.analyze(ctx, firmID, rates, q, domain.DimensionOffice)
}

// TrendsForAttorneys computes independent per-attorney trends
// concurrently. Entities are independent, so ordering between them does
// not matter; each entity's own series stays chronological.
func (a *Analyzer) TrendsForAttorneys(ctx context.Context, attorneyIDs []string, q Query) (map[string]*domain.TrendResult, error) {
	results := make(map[string]*domain.TrendResult, len(attorneyIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, id := range attorneyIDs {
		g.Go(func() error {
			trend, err := a.TrendsByAttorney(gctx, id, q)
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = trend
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Analyzer) analyze(ctx context.Context, entityID string, rates []domain.Rate, q Query, bucketDim domain.Dimension) (*domain.TrendResult, error) {
	filtered := filterRates(rates, q)

	series, err := a.buildSeries(ctx, filtered, q)
	if err != nil {
		return nil, err
	}

	result := &domain.TrendResult{
		EntityID:         entityID,
		Currency:         q.Currency,
		Period:           q.Period,
		HistoricalSeries: series,
		RateChanges:      periodChanges(series),
	}

	if len(series) >= 2 {
		first, _ := series[0].Amount.Float64()
		last, _ := series[len(series)-1].Amount.Float64()
		years := float64(q.Years)
		if years <= 0 {
			years = series[len(series)-1].Start.Sub(series[0].Start).Hours() / (24 * 365.25)
		}
		result.CAGR = CAGR(first, last, years)

		endYear := series[len(series)-1].Start.Year()
		startYear := endYear - q.Years
		if q.Years <= 0 {
			startYear = series[0].Start.Year()
		}
		result.Inflation = a.InflationForPeriod(startYear, endYear)
	}

	if bucketDim != "" {
		buckets, err := a.bucketSeries(ctx, filtered, q, bucketDim)
		if err != nil {
			return nil, err
		}
		result.Buckets = buckets
	}

	return result, nil
}

// buildSeries converts each rate to the target currency and buckets by
// period. Amounts falling in the same bucket are averaged in a single
// pass over the raw values, never as an average of averages.
func (a *Analyzer) buildSeries(ctx context.Context, rates []domain.Rate, q Query) ([]domain.TrendPoint, error) {
	type bucket struct {
		start time.Time
		sum   decimal.Decimal
		count int64
	}
	buckets := make(map[string]*bucket)

	for _, rate := range rates {
		amount, err := a.converter.Convert(ctx, rate.Amount, rate.Currency, q.Currency)
		if err != nil {
			return nil, err
		}
		label, start := periodOf(rate.EffectiveDate, q.Period)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{start: start, sum: decimal.Zero}
			buckets[label] = b
		}
		b.sum = b.sum.Add(amount)
		b.count++
	}

	series := make([]domain.TrendPoint, 0, len(buckets))
	for label, b := range buckets {
		series = append(series, domain.TrendPoint{
			Period: label,
			Start:  b.start,
			Amount: b.sum.Div(decimal.NewFromInt(b.count)).RoundBank(2),
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Start.Before(series[j].Start) })
	return series, nil
}

func (a *Analyzer) bucketSeries(ctx context.Context, rates []domain.Rate, q Query, dim domain.Dimension) (map[string][]domain.TrendPoint, error) {
	grouped := make(map[string][]domain.Rate)
	for _, rate := range rates {
		var key string
		switch dim {
		case domain.DimensionStaffClass:
			key = rate.StaffClassID
		case domain.DimensionOffice:
			key = rate.OfficeID
		}
		if key == "" {
			continue
		}
		grouped[key] = append(grouped[key], rate)
	}

	out := make(map[string][]domain.TrendPoint, len(grouped))
	for key, group := range grouped {
		series, err := a.buildSeries(ctx, group, q)
		if err != nil {
			return nil, err
		}
		out[key] = series
	}
	return out, nil
}

// Distribution computes summary statistics over a set of rate changes.
// Empty input returns an empty result rather than an error: an empty
// trend is a valid, if uninteresting, outcome.
func Distribution(changes []float64) domain.RateDistribution {
	if len(changes) == 0 {
		return domain.RateDistribution{}
	}

	sorted := make([]float64, len(changes))
	copy(sorted, changes)
	sort.Float64s(sorted)

	quantile := func(p float64) float64 {
		return round2(stat.Quantile(p, stat.Empirical, sorted, nil))
	}

	return domain.RateDistribution{
		Ok:     true,
		P10:    quantile(0.10),
		P25:    quantile(0.25),
		P50:    quantile(0.50),
		P75:    quantile(0.75),
		P90:    quantile(0.90),
		Mean:   round2(stat.Mean(sorted, nil)),
		Median: quantile(0.50),
		StdDev: round2(stddev(sorted)),
	}
}

func stddev(sorted []float64) float64 {
	if len(sorted) < 2 {
		return 0
	}
	return stat.StdDev(sorted, nil)
}

func periodChanges(series []domain.TrendPoint) []float64 {
	if len(series) < 2 {
		return nil
	}
	changes := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Amount
		if prev.IsZero() {
			changes = append(changes, 0)
			continue
		}
		pct, _ := series[i].Amount.Sub(prev).
			Div(prev).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
		changes = append(changes, pct)
	}
	return changes
}

func filterRates(rates []domain.Rate, q Query) []domain.Rate {
	filtered := make([]domain.Rate, 0, len(rates))
	for _, rate := range rates {
		if q.StaffClassID != "" && rate.StaffClassID != q.StaffClassID {
			continue
		}
		if q.OfficeID != "" && rate.OfficeID != q.OfficeID {
			continue
		}
		filtered = append(filtered, rate)
	}
	return filtered
}

func periodOf(t time.Time, period domain.TrendPeriod) (string, time.Time) {
	switch period {
	case domain.PeriodMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01"), start
	case domain.PeriodQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		start := time.Date(t.Year(), time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%d-Q%d", t.Year(), quarter), start
	default:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006"), start
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
