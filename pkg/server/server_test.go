package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/counsel-tools/rate-lens/pkg/models/api"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/services/impact"
	"github.com/counsel-tools/rate-lens/pkg/services/staffclass"
	"github.com/counsel-tools/rate-lens/pkg/services/trends"
	"github.com/counsel-tools/rate-lens/pkg/store/unicourt"
)

type mockImpact struct {
	mock.Mock
}

func (m *mockImpact) Analyze(ctx context.Context, req impact.Request) (*impact.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*impact.Result), args.Error(1)
}

type mockTrends struct {
	mock.Mock
}

func (m *mockTrends) TrendsByAttorney(ctx context.Context, attorneyID string, q trends.Query) (*domain.TrendResult, error) {
	args := m.Called(ctx, attorneyID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrendResult), args.Error(1)
}

func (m *mockTrends) TrendsByClient(ctx context.Context, clientID string, q trends.Query) (*domain.TrendResult, error) {
	args := m.Called(ctx, clientID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrendResult), args.Error(1)
}

func (m *mockTrends) TrendsByFirm(ctx context.Context, firmID string, q trends.Query) (*domain.TrendResult, error) {
	args := m.Called(ctx, firmID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrendResult), args.Error(1)
}

type mockPeers struct {
	mock.Mock
}

func (m *mockPeers) Compare(ctx context.Context, subjectID string, peerIDs []string, targetCurrency string) (*domain.PeerComparison, error) {
	args := m.Called(ctx, subjectID, peerIDs, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeerComparison), args.Error(1)
}

type mockPerformance struct {
	mock.Mock
}

func (m *mockPerformance) Performance(ctx context.Context, attorneyID string) (*unicourt.PerformanceMetrics, error) {
	args := m.Called(ctx, attorneyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*unicourt.PerformanceMetrics), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(nil))

	mockImpactSvc := new(mockImpact)
	mockTrendsSvc := new(mockTrends)
	mockPeersSvc := new(mockPeers)
	mockPerfSvc := new(mockPerformance)

	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Impact:      mockImpactSvc,
			Trends:      mockTrendsSvc,
			StaffClass:  staffclass.NewAnalyzer(),
			Peers:       mockPeersSvc,
			Performance: mockPerfSvc,
			Logger:      logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	t.Run("PostImpact", func(t *testing.T) {
		result := &impact.Result{
			View: domain.ViewTotal,
			Impact: &domain.ImpactResult{
				Currency:             "USD",
				TotalCurrentCost:     decimal.NewFromInt(50000),
				TotalProposedCost:    decimal.NewFromInt(55000),
				AbsoluteDifference:   decimal.NewFromInt(5000),
				PercentageDifference: 10.0,
			},
		}
		mockImpactSvc.On("Analyze", mock.Anything, mock.MatchedBy(func(req impact.Request) bool {
			return req.ClientID == "client-1" && req.View == domain.ViewTotal
		})).Return(result, nil)

		payload, _ := json.Marshal(api.ImpactRequest{
			ClientID:       "client-1",
			FirmID:         "firm-1",
			View:           "total",
			TargetCurrency: "USD",
			From:           "2023-01-01",
			To:             "2023-12-31",
		})
		resp, err := http.Post(testServer.URL+"/api/v1/impact", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, "total", decoded["view"])
		assert.Equal(t, false, decoded["incomplete"])
	})

	t.Run("GetAttorneyTrends", func(t *testing.T) {
		mockTrendsSvc.On("TrendsByAttorney", mock.Anything, "att-1", mock.Anything).
			Return(&domain.TrendResult{EntityID: "att-1", CAGR: 5.0}, nil)

		resp, err := http.Get(testServer.URL + "/api/v1/attorneys/att-1/trends")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("GetAttorneyPerformance", func(t *testing.T) {
		mockPerfSvc.On("Performance", mock.Anything, "att-1").
			Return(&unicourt.PerformanceMetrics{AttorneyID: "att-1", CaseCount: 12}, nil)

		resp, err := http.Get(testServer.URL + "/api/v1/attorneys/att-1/performance")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("PostStaffClassValidation", func(t *testing.T) {
		five := 5
		payload, _ := json.Marshal(api.StaffClassValidationRequest{
			Classes: []api.StaffClassInput{
				{ID: "sc-1", Name: "Associate", ExperienceType: "bar_year", MinExperience: 0, MaxExperience: &five, IsActive: true},
				{ID: "sc-2", Name: "Partner", ExperienceType: "bar_year", MinExperience: 6, IsActive: true},
			},
		})
		resp, err := http.Post(testServer.URL+"/api/v1/staff-classes/validate", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var decoded api.StaffClassValidationResponse
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.True(t, decoded.Valid)
	})

	t.Run("PostPeerComparison", func(t *testing.T) {
		mockPeersSvc.On("Compare", mock.Anything, "org-1", []string{"org-2"}, "USD").
			Return(&domain.PeerComparison{SubjectID: "org-1", Currency: "USD"}, nil)

		payload, _ := json.Marshal(api.PeerComparisonRequest{
			SubjectID: "org-1",
			PeerIDs:   []string{"org-2"},
			Currency:  "USD",
		})
		resp, err := http.Post(testServer.URL+"/api/v1/peer-comparison", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	mockImpactSvc.AssertExpectations(t)
	mockTrendsSvc.AssertExpectations(t)
	mockPeersSvc.AssertExpectations(t)
	mockPerfSvc.AssertExpectations(t)
}
