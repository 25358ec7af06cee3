// Package impact orchestrates the rate calculation engine across
// client-firm pairs: total, incremental and multi-year views with
// dimensional filtering. Computed results are memoized for an hour.
package impact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/counsel-tools/rate-lens/pkg/cache"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

const resultTTL = time.Hour

// BillingSource retrieves historical billing for a client-firm pair.
type BillingSource interface {
	BillingRecords(ctx context.Context, clientID, firmID string, from, to time.Time) ([]domain.BillingRecord, error)
}

// RateSource retrieves current (approved) and proposed (submitted) rates
// for a client-firm pair.
type RateSource interface {
	CurrentRates(ctx context.Context, clientID, firmID string) ([]domain.Rate, error)
	ProposedRates(ctx context.Context, clientID, firmID string) ([]domain.Rate, error)
}

// Calculator is the slice of the calculation engine this service drives.
type Calculator interface {
	RateImpact(ctx context.Context, currentRates, proposedRates []domain.Rate, billing []domain.BillingRecord, target string) (*domain.ImpactResult, error)
	ProjectMultiYear(ctx context.Context, currentRates, proposedRates []domain.Rate, billing []domain.BillingRecord, years int, growth domain.GrowthAssumptions, target string) (*domain.MultiYearProjection, error)
}

// Request parameterizes one impact analysis.
type Request struct {
	ClientID        string                   `json:"client_id"`
	FirmID          string                   `json:"firm_id"`
	View            domain.ViewType          `json:"view"`
	TargetCurrency  string                   `json:"target_currency"`
	From            time.Time                `json:"from"`
	To              time.Time                `json:"to"`
	Years           int                      `json:"years"`
	Growth          domain.GrowthAssumptions `json:"growth"`
	FilterDimension domain.Dimension         `json:"filter_dimension,omitempty"`
	FilterValue     string                   `json:"filter_value,omitempty"`
	Baseline        *domain.ImpactResult     `json:"baseline,omitempty"`
}

// Result is the outcome of one analysis; exactly one of Impact or
// Projection is set depending on the view.
type Result struct {
	View       domain.ViewType             `json:"view"`
	Impact     *domain.ImpactResult        `json:"impact,omitempty"`
	Projection *domain.MultiYearProjection `json:"projection,omitempty"`
}

type Service struct {
	billing    BillingSource
	rates      RateSource
	calculator Calculator
	cache      cache.Cache
}

func NewService(billing BillingSource, rates RateSource, calculator Calculator, c cache.Cache) *Service {
	return &Service{
		billing:    billing,
		rates:      rates,
		calculator: calculator,
		cache:      c,
	}
}

// Analyze validates the request, loads and filters the underlying data,
// and dispatches on the view type. Filtering subsets the input data
// before recomputation rather than masking output, so every derived ratio
// stays internally consistent.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	key, cacheable := cacheKey(req)

	if cacheable {
		if cached, ok := s.cachedResult(ctx, key); ok {
			logger.Debug().Str("key", key).Msg("impact result served from cache")
			return cached, nil
		}
	}

	billing, err := s.billing.BillingRecords(ctx, req.ClientID, req.FirmID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("loading billing records: %w", err)
	}
	current, err := s.rates.CurrentRates(ctx, req.ClientID, req.FirmID)
	if err != nil {
		return nil, fmt.Errorf("loading current rates: %w", err)
	}
	proposed, err := s.rates.ProposedRates(ctx, req.ClientID, req.FirmID)
	if err != nil {
		return nil, fmt.Errorf("loading proposed rates: %w", err)
	}

	billing, current, proposed = applyFilter(req, billing, current, proposed)

	result := &Result{View: req.View}
	switch req.View {
	case domain.ViewTotal:
		result.Impact, err = s.calculator.RateImpact(ctx, current, proposed, billing, req.TargetCurrency)
	case domain.ViewIncremental:
		var total *domain.ImpactResult
		total, err = s.calculator.RateImpact(ctx, current, proposed, billing, req.TargetCurrency)
		if err == nil {
			result.Impact = subtractBaseline(total, req.Baseline)
		}
	case domain.ViewMultiYear:
		result.Projection, err = s.calculator.ProjectMultiYear(ctx, current, proposed, billing, req.Years, req.Growth, req.TargetCurrency)
	}
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.storeResult(ctx, key, result)
	}
	return result, nil
}

func validate(req Request) error {
	if _, err := domain.ParseViewType(string(req.View)); err != nil {
		return err
	}
	if req.FilterDimension != "" {
		if _, err := domain.ParseDimension(string(req.FilterDimension)); err != nil {
			return err
		}
		if req.FilterValue == "" {
			return &domain.InvalidParameterError{Name: "filter_value", Value: ""}
		}
	}
	if req.View == domain.ViewIncremental && req.Baseline == nil {
		return &domain.InvalidParameterError{Name: "baseline", Value: "required for incremental view"}
	}
	if req.View == domain.ViewMultiYear && req.Years <= 0 {
		return &domain.InvalidParameterError{Name: "years", Value: fmt.Sprintf("%d", req.Years)}
	}
	return nil
}

// applyFilter subsets billing and rate data along the requested
// dimension. The firm dimension lives on rates; the other dimensions live
// on billing records.
func applyFilter(req Request, billing []domain.BillingRecord, current, proposed []domain.Rate) ([]domain.BillingRecord, []domain.Rate, []domain.Rate) {
	if req.FilterDimension == "" {
		return billing, current, proposed
	}

	if req.FilterDimension == domain.DimensionFirm {
		return billing, filterRatesByFirm(current, req.FilterValue), filterRatesByFirm(proposed, req.FilterValue)
	}

	keep := make([]domain.BillingRecord, 0, len(billing))
	for _, rec := range billing {
		var v string
		switch req.FilterDimension {
		case domain.DimensionStaffClass:
			v = rec.StaffClassID
		case domain.DimensionPracticeArea:
			v = rec.PracticeArea
		case domain.DimensionOffice:
			v = rec.OfficeID
		}
		if v == req.FilterValue {
			keep = append(keep, rec)
		}
	}
	return keep, current, proposed
}

func filterRatesByFirm(rates []domain.Rate, firmID string) []domain.Rate {
	keep := make([]domain.Rate, 0, len(rates))
	for _, rate := range rates {
		if rate.FirmID == firmID {
			keep = append(keep, rate)
		}
	}
	return keep
}

// subtractBaseline computes total minus baseline field by field. Per
// attorney entries subtract where the baseline has a matching attorney.
// The skip list stays that of the total computation.
func subtractBaseline(total, baseline *domain.ImpactResult) *domain.ImpactResult {
	baselineByAttorney := make(map[string]domain.AttorneyImpact, len(baseline.ByAttorney))
	for _, entry := range baseline.ByAttorney {
		baselineByAttorney[entry.AttorneyID] = entry
	}

	result := &domain.ImpactResult{
		Currency:             total.Currency,
		TotalCurrentCost:     total.TotalCurrentCost.Sub(baseline.TotalCurrentCost),
		TotalProposedCost:    total.TotalProposedCost.Sub(baseline.TotalProposedCost),
		AbsoluteDifference:   total.AbsoluteDifference.Sub(baseline.AbsoluteDifference),
		PercentageDifference: total.PercentageDifference - baseline.PercentageDifference,
		ByDimension:          make(map[string]domain.DimensionImpact),
		Skipped:              total.Skipped,
	}

	for _, entry := range total.ByAttorney {
		if base, ok := baselineByAttorney[entry.AttorneyID]; ok {
			entry.CurrentCost = entry.CurrentCost.Sub(base.CurrentCost)
			entry.ProposedCost = entry.ProposedCost.Sub(base.ProposedCost)
			entry.AbsoluteDifference = entry.AbsoluteDifference.Sub(base.AbsoluteDifference)
			entry.PercentageDifference = entry.PercentageDifference - base.PercentageDifference
		}
		result.ByAttorney = append(result.ByAttorney, entry)
	}

	for key, dim := range total.ByDimension {
		if base, ok := baseline.ByDimension[key]; ok {
			dim.CurrentCost = dim.CurrentCost.Sub(base.CurrentCost)
			dim.ProposedCost = dim.ProposedCost.Sub(base.ProposedCost)
			dim.AbsoluteDifference = dim.AbsoluteDifference.Sub(base.AbsoluteDifference)
			dim.PercentageDifference = dim.PercentageDifference - base.PercentageDifference
		}
		result.ByDimension[key] = dim
	}

	return result
}

// cacheKey derives a stable key from the request. Incremental requests
// carry a caller-supplied baseline and are not cached.
func cacheKey(req Request) (string, bool) {
	if req.View == domain.ViewIncremental {
		return "", false
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(payload)
	return "impact:" + hex.EncodeToString(sum[:16]), true
}

func (s *Service) cachedResult(ctx context.Context, key string) (*Result, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *Service) storeResult(ctx context.Context, key string, result *Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), resultTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache impact result")
	}
}
