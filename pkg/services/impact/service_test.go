package impact

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/counsel-tools/rate-lens/pkg/cache"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

type MockBillingSource struct {
	mock.Mock
}

func (m *MockBillingSource) BillingRecords(ctx context.Context, clientID, firmID string, from, to time.Time) ([]domain.BillingRecord, error) {
	args := m.Called(ctx, clientID, firmID, from, to)
	return args.Get(0).([]domain.BillingRecord), args.Error(1)
}

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) CurrentRates(ctx context.Context, clientID, firmID string) ([]domain.Rate, error) {
	args := m.Called(ctx, clientID, firmID)
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateSource) ProposedRates(ctx context.Context, clientID, firmID string) ([]domain.Rate, error) {
	args := m.Called(ctx, clientID, firmID)
	return args.Get(0).([]domain.Rate), args.Error(1)
}

type MockCalculator struct {
	mock.Mock
}

func (m *MockCalculator) RateImpact(ctx context.Context, currentRates, proposedRates []domain.Rate, billing []domain.BillingRecord, target string) (*domain.ImpactResult, error) {
	args := m.Called(ctx, currentRates, proposedRates, billing, target)
	return args.Get(0).(*domain.ImpactResult), args.Error(1)
}

func (m *MockCalculator) ProjectMultiYear(ctx context.Context, currentRates, proposedRates []domain.Rate, billing []domain.BillingRecord, years int, growth domain.GrowthAssumptions, target string) (*domain.MultiYearProjection, error) {
	args := m.Called(ctx, currentRates, proposedRates, billing, years, growth, target)
	return args.Get(0).(*domain.MultiYearProjection), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func impactResult(current, proposed string) *domain.ImpactResult {
	cur, prop := dec(current), dec(proposed)
	return &domain.ImpactResult{
		Currency:           "USD",
		TotalCurrentCost:   cur,
		TotalProposedCost:  prop,
		AbsoluteDifference: prop.Sub(cur),
	}
}

func newFixture(t *testing.T) (*Service, *MockBillingSource, *MockRateSource, *MockCalculator) {
	t.Helper()
	billing := new(MockBillingSource)
	rates := new(MockRateSource)
	calculator := new(MockCalculator)
	svc := NewService(billing, rates, calculator, cache.NewMemoryCache())
	return svc, billing, rates, calculator
}

func baseRequest(view domain.ViewType) Request {
	return Request{
		ClientID:       "client-1",
		FirmID:         "firm-1",
		View:           view,
		TargetCurrency: "USD",
		From:           time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestAnalyze_TotalView(t *testing.T) {
	ctx := context.Background()
	svc, billing, rates, calculator := newFixture(t)

	billing.On("BillingRecords", ctx, "client-1", "firm-1", mock.Anything, mock.Anything).
		Return([]domain.BillingRecord{}, nil)
	rates.On("CurrentRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)
	rates.On("ProposedRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)
	calculator.On("RateImpact", ctx, mock.Anything, mock.Anything, mock.Anything, "USD").
		Return(impactResult("50000", "55000"), nil)

	result, err := svc.Analyze(ctx, baseRequest(domain.ViewTotal))
	require.NoError(t, err)
	require.NotNil(t, result.Impact)
	assert.Nil(t, result.Projection)
	assert.Equal(t, "5000", result.Impact.AbsoluteDifference.String())
}

func TestAnalyze_IncrementalSubtractsBaseline(t *testing.T) {
	ctx := context.Background()
	svc, billing, rates, calculator := newFixture(t)

	billing.On("BillingRecords", ctx, "client-1", "firm-1", mock.Anything, mock.Anything).
		Return([]domain.BillingRecord{}, nil)
	rates.On("CurrentRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)
	rates.On("ProposedRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)
	calculator.On("RateImpact", ctx, mock.Anything, mock.Anything, mock.Anything, "USD").
		Return(impactResult("50000", "55000"), nil)

	req := baseRequest(domain.ViewIncremental)
	req.Baseline = impactResult("50000", "52000")

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result.Impact)
	assert.Equal(t, "0", result.Impact.TotalCurrentCost.String())
	assert.Equal(t, "3000", result.Impact.TotalProposedCost.String())
	assert.Equal(t, "3000", result.Impact.AbsoluteDifference.String())
}

func TestAnalyze_MultiYearView(t *testing.T) {
	ctx := context.Background()
	svc, billing, rates, calculator := newFixture(t)

	billing.On("BillingRecords", ctx, "client-1", "firm-1", mock.Anything, mock.Anything).
		Return([]domain.BillingRecord{}, nil)
	rates.On("CurrentRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)
	rates.On("ProposedRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)

	projection := &domain.MultiYearProjection{
		Cumulative: domain.CumulativeImpact{Currency: "USD", AbsoluteDifference: dec("10500")},
	}
	calculator.On("ProjectMultiYear", ctx, mock.Anything, mock.Anything, mock.Anything, 3, mock.Anything, "USD").
		Return(projection, nil)

	req := baseRequest(domain.ViewMultiYear)
	req.Years = 3
	req.Growth = domain.GrowthAssumptions{HoursGrowth: 0.1}

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result.Projection)
	assert.Equal(t, "10500", result.Projection.Cumulative.AbsoluteDifference.String())
}

func TestAnalyze_InvalidParameters(t *testing.T) {
	svc, _, _, _ := newFixture(t)
	ctx := context.Background()
	var invalid *domain.InvalidParameterError

	t.Run("unknown view type", func(t *testing.T) {
		req := baseRequest(domain.ViewType("summary"))
		_, err := svc.Analyze(ctx, req)
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown filter dimension", func(t *testing.T) {
		req := baseRequest(domain.ViewTotal)
		req.FilterDimension = domain.Dimension("matter")
		req.FilterValue = "m-1"
		_, err := svc.Analyze(ctx, req)
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("filter dimension without value", func(t *testing.T) {
		req := baseRequest(domain.ViewTotal)
		req.FilterDimension = domain.DimensionOffice
		_, err := svc.Analyze(ctx, req)
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("incremental without baseline", func(t *testing.T) {
		req := baseRequest(domain.ViewIncremental)
		_, err := svc.Analyze(ctx, req)
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("multi-year without years", func(t *testing.T) {
		req := baseRequest(domain.ViewMultiYear)
		_, err := svc.Analyze(ctx, req)
		require.ErrorAs(t, err, &invalid)
	})
}

func TestAnalyze_FiltersSubsetDataBeforeRecomputation(t *testing.T) {
	ctx := context.Background()
	svc, billing, rates, calculator := newFixture(t)

	litigation := domain.BillingRecord{AttorneyID: "att-1", Hours: dec("10"), Fees: dec("0"), Currency: "USD", PracticeArea: "litigation"}
	tax := domain.BillingRecord{AttorneyID: "att-2", Hours: dec("20"), Fees: dec("0"), Currency: "USD", PracticeArea: "tax"}

	billing.On("BillingRecords", ctx, "client-1", "firm-1", mock.Anything, mock.Anything).
		Return([]domain.BillingRecord{litigation, tax}, nil)
	rates.On("CurrentRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)
	rates.On("ProposedRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil)

	calculator.On("RateImpact", ctx, mock.Anything, mock.Anything,
		mock.MatchedBy(func(records []domain.BillingRecord) bool {
			return len(records) == 1 && records[0].PracticeArea == "litigation"
		}), "USD").
		Return(impactResult("0", "0"), nil)

	req := baseRequest(domain.ViewTotal)
	req.FilterDimension = domain.DimensionPracticeArea
	req.FilterValue = "litigation"

	_, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	calculator.AssertExpectations(t)
}

func TestAnalyze_CachesTotalView(t *testing.T) {
	ctx := context.Background()
	svc, billing, rates, calculator := newFixture(t)

	billing.On("BillingRecords", ctx, "client-1", "firm-1", mock.Anything, mock.Anything).
		Return([]domain.BillingRecord{}, nil).Once()
	rates.On("CurrentRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil).Once()
	rates.On("ProposedRates", ctx, "client-1", "firm-1").Return([]domain.Rate{}, nil).Once()
	calculator.On("RateImpact", ctx, mock.Anything, mock.Anything, mock.Anything, "USD").
		Return(impactResult("50000", "55000"), nil).Once()

	req := baseRequest(domain.ViewTotal)

	first, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	second, err := svc.Analyze(ctx, req)
	require.NoError(t, err)

	assert.True(t, first.Impact.AbsoluteDifference.Equal(second.Impact.AbsoluteDifference))
	billing.AssertExpectations(t)
	calculator.AssertExpectations(t)
}
