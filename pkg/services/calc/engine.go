// Package calc implements the rate calculation engine: rate differences,
// weighted averages, effective rates from billing history, blended rates
// by dimension, and single/multi-year financial impact of rate changes.
//
// All operations are pure given their inputs, aside from exchange-rate
// lookups delegated to the currency converter. Monetary aggregation always
// happens in a single target currency; inputs are converted first.
package calc

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/services/currency"
)

// Converter is the currency dependency of the engine.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

type Engine struct {
	converter Converter
}

func NewEngine(converter Converter) *Engine {
	return &Engine{converter: converter}
}

// RateDifference is the absolute and percentage delta between two rates.
type RateDifference struct {
	Absolute   decimal.Decimal
	Percentage float64
}

// Difference computes proposed minus current. The percentage is 0 when the
// current rate is 0: a deliberate saturation policy so new-rate scenarios
// stay total instead of dividing by zero.
func Difference(current, proposed decimal.Decimal) (RateDifference, error) {
	if current.IsNegative() {
		return RateDifference{}, &domain.InvalidRateError{Value: current}
	}
	if proposed.IsNegative() {
		return RateDifference{}, &domain.InvalidRateError{Value: proposed}
	}
	return RateDifference{
		Absolute:   proposed.Sub(current),
		Percentage: percentageDiff(current, proposed),
	}, nil
}

// percentageDiff returns (proposed-current)/current*100 rounded to two
// decimals, saturating to 0 when current is zero.
func percentageDiff(current, proposed decimal.Decimal) float64 {
	if current.IsZero() {
		return 0
	}
	pct, _ := proposed.Sub(current).
		Div(current).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return pct
}

// WeightedEntry is one (rate, hours) observation for a weighted average.
type WeightedEntry struct {
	Rate     decimal.Decimal
	Hours    decimal.Decimal
	Currency string
}

// WeightedAverageRate computes sum(rate*hours)/sum(hours) with every entry
// converted to the target currency first. An empty or zero-hours input
// yields 0, keeping downstream arithmetic total.
func (e *Engine) WeightedAverageRate(ctx context.Context, entries []WeightedEntry, target string) (decimal.Decimal, error) {
	weighted := decimal.Zero
	totalHours := decimal.Zero

	for _, entry := range entries {
		if entry.Rate.IsNegative() {
			return decimal.Zero, &domain.InvalidRateError{Value: entry.Rate}
		}
		if entry.Hours.IsNegative() {
			return decimal.Zero, &domain.InvalidHoursError{Value: entry.Hours}
		}

		rate, err := e.converter.Convert(ctx, entry.Rate, entry.Currency, target)
		if err != nil {
			return decimal.Zero, err
		}
		weighted = weighted.Add(rate.Mul(entry.Hours))
		totalHours = totalHours.Add(entry.Hours)
	}

	if totalHours.IsZero() {
		return decimal.Zero, nil
	}
	return currency.Round(weighted.Div(totalHours), target)
}

// EffectiveRates computes per-attorney fees/hours from billing history,
// in the target currency. Attorneys with zero billed hours get rate 0.
func (e *Engine) EffectiveRates(ctx context.Context, billing []domain.BillingRecord, target string) (map[string]decimal.Decimal, error) {
	type totals struct {
		fees  decimal.Decimal
		hours decimal.Decimal
	}
	byAttorney := make(map[string]*totals)

	for _, rec := range billing {
		if rec.Hours.IsNegative() {
			return nil, &domain.InvalidHoursError{Value: rec.Hours}
		}
		fees, err := e.converter.Convert(ctx, rec.Fees, rec.Currency, target)
		if err != nil {
			return nil, err
		}

		t, ok := byAttorney[rec.AttorneyID]
		if !ok {
			t = &totals{fees: decimal.Zero, hours: decimal.Zero}
			byAttorney[rec.AttorneyID] = t
		}
		t.fees = t.fees.Add(fees)
		t.hours = t.hours.Add(rec.Hours)
	}

	rates := make(map[string]decimal.Decimal, len(byAttorney))
	for id, t := range byAttorney {
		if t.hours.IsZero() {
			rates[id] = decimal.Zero
			continue
		}
		rate, err := currency.Round(t.fees.Div(t.hours), target)
		if err != nil {
			return nil, err
		}
		rates[id] = rate
	}
	return rates, nil
}

// RateImpact computes the financial impact of replacing current rates with
// proposed rates over historical billing hours. Attorneys missing either a
// current or a proposed rate are skipped with a recorded reason, not
// failed: impact analysis must return usable results on incomplete rate
// coverage, and callers can inspect Skipped for strictness.
func (e *Engine) RateImpact(ctx context.Context, currentRates, proposedRates []domain.Rate, billing []domain.BillingRecord, target string) (*domain.ImpactResult, error) {
	logger := zerolog.Ctx(ctx)

	current, err := indexRates(currentRates)
	if err != nil {
		return nil, err
	}
	proposed, err := indexRates(proposedRates)
	if err != nil {
		return nil, err
	}

	hoursByAttorney := make(map[string]decimal.Decimal)
	staffClassByAttorney := make(map[string]string)
	for _, rec := range billing {
		if rec.Hours.IsNegative() {
			return nil, &domain.InvalidHoursError{Value: rec.Hours}
		}
		hoursByAttorney[rec.AttorneyID] = hoursByAttorney[rec.AttorneyID].Add(rec.Hours)
		if rec.StaffClassID != "" {
			staffClassByAttorney[rec.AttorneyID] = rec.StaffClassID
		}
	}

	result := &domain.ImpactResult{
		Currency:          target,
		TotalCurrentCost:  decimal.Zero,
		TotalProposedCost: decimal.Zero,
		ByDimension:       make(map[string]domain.DimensionImpact),
	}

	for _, attorneyID := range sortedKeys(hoursByAttorney) {
		hours := hoursByAttorney[attorneyID]

		cur, hasCurrent := current[attorneyID]
		prop, hasProposed := proposed[attorneyID]
		if !hasCurrent || !hasProposed {
			reason := "no current rate"
			if hasCurrent {
				reason = "no proposed rate"
			}
			logger.Debug().Str("attorney_id", attorneyID).Str("reason", reason).Msg("skipping attorney in impact calculation")
			result.Skipped = append(result.Skipped, domain.SkippedEntity{EntityID: attorneyID, Reason: reason})
			continue
		}

		currentRate, err := e.converter.Convert(ctx, cur.Amount, cur.Currency, target)
		if err != nil {
			return nil, err
		}
		proposedRate, err := e.converter.Convert(ctx, prop.Amount, prop.Currency, target)
		if err != nil {
			return nil, err
		}

		currentCost, err := currency.Round(hours.Mul(currentRate), target)
		if err != nil {
			return nil, err
		}
		proposedCost, err := currency.Round(hours.Mul(proposedRate), target)
		if err != nil {
			return nil, err
		}

		entry := domain.AttorneyImpact{
			AttorneyID:           attorneyID,
			Hours:                hours,
			CurrentRate:          currentRate,
			ProposedRate:         proposedRate,
			CurrentCost:          currentCost,
			ProposedCost:         proposedCost,
			AbsoluteDifference:   proposedCost.Sub(currentCost),
			PercentageDifference: percentageDiff(currentCost, proposedCost),
		}
		result.ByAttorney = append(result.ByAttorney, entry)

		result.TotalCurrentCost = result.TotalCurrentCost.Add(currentCost)
		result.TotalProposedCost = result.TotalProposedCost.Add(proposedCost)

		if sc := staffClassByAttorney[attorneyID]; sc != "" {
			dim := result.ByDimension[sc]
			dim.Value = sc
			dim.CurrentCost = dim.CurrentCost.Add(currentCost)
			dim.ProposedCost = dim.ProposedCost.Add(proposedCost)
			dim.AbsoluteDifference = dim.ProposedCost.Sub(dim.CurrentCost)
			dim.PercentageDifference = percentageDiff(dim.CurrentCost, dim.ProposedCost)
			result.ByDimension[sc] = dim
		}
	}

	result.AbsoluteDifference = result.TotalProposedCost.Sub(result.TotalCurrentCost)
	result.PercentageDifference = percentageDiff(result.TotalCurrentCost, result.TotalProposedCost)
	return result, nil
}

// BlendedRates computes hours-weighted average rates grouped by the given
// dimension. Billing entries whose attorney has no matching rate are
// left out of the blend.
func (e *Engine) BlendedRates(ctx context.Context, rates []domain.Rate, billing []domain.BillingRecord, dim domain.Dimension, target string) (map[string]decimal.Decimal, error) {
	keyOf, err := dimensionKey(dim)
	if err != nil {
		return nil, err
	}

	rateIndex, err := indexRates(rates)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]WeightedEntry)
	for _, rec := range billing {
		if rec.Hours.IsNegative() {
			return nil, &domain.InvalidHoursError{Value: rec.Hours}
		}
		rate, ok := rateIndex[rec.AttorneyID]
		if !ok {
			continue
		}
		key := keyOf(rec)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], WeightedEntry{
			Rate:     rate.Amount,
			Hours:    rec.Hours,
			Currency: rate.Currency,
		})
	}

	blended := make(map[string]decimal.Decimal, len(groups))
	for key, entries := range groups {
		avg, err := e.WeightedAverageRate(ctx, entries, target)
		if err != nil {
			return nil, err
		}
		blended[key] = avg
	}
	return blended, nil
}

// ProjectMultiYear projects rate impact over a number of years under
// growth assumptions. Year 1 is the unmodified base impact; year N scales
// billed hours by (1+hoursGrowth)^(N-1) and proposed rate amounts by
// (1+rateGrowth)^(N-1). The cumulative block sums costs and absolute
// difference only; a cumulative percentage is deliberately not computed.
func (e *Engine) ProjectMultiYear(ctx context.Context, currentRates, proposedRates []domain.Rate, billing []domain.BillingRecord, years int, growth domain.GrowthAssumptions, target string) (*domain.MultiYearProjection, error) {
	if years <= 0 {
		return nil, &domain.InvalidParameterError{Name: "years", Value: "must be positive"}
	}

	projection := &domain.MultiYearProjection{
		Cumulative: domain.CumulativeImpact{
			Currency:           target,
			TotalCurrentCost:   decimal.Zero,
			TotalProposedCost:  decimal.Zero,
			AbsoluteDifference: decimal.Zero,
		},
	}

	for year := 1; year <= years; year++ {
		hoursFactor := decimal.NewFromFloat(math.Pow(1+growth.HoursGrowth, float64(year-1)))
		rateFactor := decimal.NewFromFloat(math.Pow(1+growth.RateGrowth, float64(year-1)))

		scaledBilling := billing
		if !hoursFactor.Equal(decimal.NewFromInt(1)) {
			scaledBilling = make([]domain.BillingRecord, len(billing))
			for i, rec := range billing {
				rec.Hours = rec.Hours.Mul(hoursFactor)
				scaledBilling[i] = rec
			}
		}

		scaledProposed := proposedRates
		if !rateFactor.Equal(decimal.NewFromInt(1)) {
			scaledProposed = make([]domain.Rate, len(proposedRates))
			for i, rate := range proposedRates {
				rate.Amount = rate.Amount.Mul(rateFactor)
				scaledProposed[i] = rate
			}
		}

		impact, err := e.RateImpact(ctx, currentRates, scaledProposed, scaledBilling, target)
		if err != nil {
			return nil, err
		}

		projection.YearByYear = append(projection.YearByYear, domain.YearImpact{Year: year, Impact: *impact})
		projection.Cumulative.TotalCurrentCost = projection.Cumulative.TotalCurrentCost.Add(impact.TotalCurrentCost)
		projection.Cumulative.TotalProposedCost = projection.Cumulative.TotalProposedCost.Add(impact.TotalProposedCost)
		projection.Cumulative.AbsoluteDifference = projection.Cumulative.AbsoluteDifference.Add(impact.AbsoluteDifference)
	}

	return projection, nil
}

// indexRates maps attorney id to their applicable rate. When an attorney
// has multiple records the latest effective date wins, deterministically.
func indexRates(rates []domain.Rate) (map[string]domain.Rate, error) {
	index := make(map[string]domain.Rate, len(rates))
	for _, rate := range rates {
		if rate.Amount.IsNegative() {
			return nil, &domain.InvalidRateError{Value: rate.Amount}
		}
		existing, ok := index[rate.AttorneyID]
		if !ok || rate.EffectiveDate.After(existing.EffectiveDate) {
			index[rate.AttorneyID] = rate
		}
	}
	return index, nil
}

func dimensionKey(dim domain.Dimension) (func(domain.BillingRecord) string, error) {
	switch dim {
	case domain.DimensionStaffClass:
		return func(r domain.BillingRecord) string { return r.StaffClassID }, nil
	case domain.DimensionPracticeArea:
		return func(r domain.BillingRecord) string { return r.PracticeArea }, nil
	case domain.DimensionOffice:
		return func(r domain.BillingRecord) string { return r.OfficeID }, nil
	default:
		return nil, &domain.InvalidDimensionError{Dimension: string(dim)}
	}
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
