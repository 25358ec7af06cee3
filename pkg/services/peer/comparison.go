// Package peer benchmarks an organization's approved rates against a
// cohort of peer organizations.
package peer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

// RateSource retrieves an organization's approved rates.
type RateSource interface {
	ApprovedRates(ctx context.Context, organizationID string) ([]domain.Rate, error)
}

// Converter is the currency dependency of the service.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

type Service struct {
	source    RateSource
	converter Converter
}

func NewService(source RateSource, converter Converter) *Service {
	return &Service{source: source, converter: converter}
}

// Compare benchmarks the subject organization against the peer group,
// grouped by staff class. Peers whose rates cannot be loaded are skipped
// with a recorded reason so one unavailable peer never sinks the whole
// comparison.
func (s *Service) Compare(ctx context.Context, subjectID string, peerIDs []string, targetCurrency string) (*domain.PeerComparison, error) {
	logger := zerolog.Ctx(ctx)

	subjectRates, err := s.source.ApprovedRates(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("loading subject rates for %s: %w", subjectID, err)
	}

	comparison := &domain.PeerComparison{
		SubjectID: subjectID,
		PeerIDs:   peerIDs,
		Currency:  targetCurrency,
		Dimension: domain.DimensionStaffClass,
	}

	peerByGroup := make(map[string][]float64)
	for _, peerID := range peerIDs {
		rates, err := s.source.ApprovedRates(ctx, peerID)
		if err != nil {
			logger.Warn().Err(err).Str("peer_id", peerID).Msg("skipping unavailable peer")
			comparison.Skipped = append(comparison.Skipped, domain.SkippedEntity{EntityID: peerID, Reason: "rates unavailable"})
			continue
		}
		for _, rate := range rates {
			if rate.StaffClassID == "" {
				continue
			}
			converted, err := s.converter.Convert(ctx, rate.Amount, rate.Currency, targetCurrency)
			if err != nil {
				return nil, err
			}
			v, _ := converted.Float64()
			peerByGroup[rate.StaffClassID] = append(peerByGroup[rate.StaffClassID], v)
		}
	}

	subjectByGroup := make(map[string][]decimal.Decimal)
	for _, rate := range subjectRates {
		if rate.StaffClassID == "" {
			continue
		}
		converted, err := s.converter.Convert(ctx, rate.Amount, rate.Currency, targetCurrency)
		if err != nil {
			return nil, err
		}
		subjectByGroup[rate.StaffClassID] = append(subjectByGroup[rate.StaffClassID], converted)
	}

	for _, group := range sortedGroupKeys(peerByGroup) {
		peers := peerByGroup[group]
		sort.Float64s(peers)

		benchmark := domain.PeerBenchmark{
			GroupValue: group,
			SampleSize: len(peers),
			P25:        quantileDecimal(0.25, peers),
			Median:     quantileDecimal(0.50, peers),
			P75:        quantileDecimal(0.75, peers),
		}

		if subject, ok := subjectByGroup[group]; ok && len(subject) > 0 {
			benchmark.SubjectAverage = average(subject)
			benchmark.PercentileRank = percentileRank(peers, benchmark.SubjectAverage)
			benchmark.DeltaVsMedian = benchmark.SubjectAverage.Sub(benchmark.Median)
		}

		comparison.Benchmarks = append(comparison.Benchmarks, benchmark)
	}

	return comparison, nil
}

func quantileDecimal(p float64, sorted []float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(stat.Quantile(p, stat.Empirical, sorted, nil)).RoundBank(2)
}

func average(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values)))).RoundBank(2)
}

// percentileRank is the share of peer rates strictly below the subject
// average, in percent.
func percentileRank(sortedPeers []float64, subject decimal.Decimal) float64 {
	if len(sortedPeers) == 0 {
		return 0
	}
	v, _ := subject.Float64()
	below := sort.SearchFloat64s(sortedPeers, v)
	return math.Round(float64(below)/float64(len(sortedPeers))*100*100) / 100
}

func sortedGroupKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
