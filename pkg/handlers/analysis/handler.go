// Package analysis exposes the analytics services over HTTP. Handlers
// translate between the JSON surface and the domain types and map the
// error taxonomy onto status codes.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/counsel-tools/rate-lens/pkg/models/api"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/services/impact"
	"github.com/counsel-tools/rate-lens/pkg/services/staffclass"
	"github.com/counsel-tools/rate-lens/pkg/services/trends"
	"github.com/counsel-tools/rate-lens/pkg/store/unicourt"
)

const dateLayout = "2006-01-02"

// ImpactService runs impact analyses.
type ImpactService interface {
	Analyze(ctx context.Context, req impact.Request) (*impact.Result, error)
}

// TrendService runs historical trend analyses per entity kind.
type TrendService interface {
	TrendsByAttorney(ctx context.Context, attorneyID string, q trends.Query) (*domain.TrendResult, error)
	TrendsByClient(ctx context.Context, clientID string, q trends.Query) (*domain.TrendResult, error)
	TrendsByFirm(ctx context.Context, firmID string, q trends.Query) (*domain.TrendResult, error)
}

// PeerService benchmarks organizations against each other.
type PeerService interface {
	Compare(ctx context.Context, subjectID string, peerIDs []string, targetCurrency string) (*domain.PeerComparison, error)
}

// PerformanceSource provides external attorney performance metrics.
type PerformanceSource interface {
	Performance(ctx context.Context, attorneyID string) (*unicourt.PerformanceMetrics, error)
}

type Handler struct {
	impact      ImpactService
	trends      TrendService
	staffClass  *staffclass.Analyzer
	peers       PeerService
	performance PerformanceSource
}

func NewHandler(
	impactSvc ImpactService,
	trendsSvc TrendService,
	staffClassSvc *staffclass.Analyzer,
	peersSvc PeerService,
	performance PerformanceSource,
) *Handler {
	return &Handler{
		impact:      impactSvc,
		trends:      trendsSvc,
		staffClass:  staffClassSvc,
		peers:       peersSvc,
		performance: performance,
	}
}

// PostImpact handles POST /impact.
func (h *Handler) PostImpact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.ImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(ctx, w, &domain.InvalidParameterError{Name: "body", Value: err.Error()})
		return
	}

	req, err := toImpactRequest(body)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.impact.Analyze(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toImpactResponse(result))
}

// GetAttorneyTrends handles GET /attorneys/{attorneyID}/trends.
func (h *Handler) GetAttorneyTrends(w http.ResponseWriter, r *http.Request) {
	h.serveTrends(w, r, chi.URLParam(r, "attorneyID"), h.trends.TrendsByAttorney)
}

// GetClientTrends handles GET /clients/{clientID}/trends.
func (h *Handler) GetClientTrends(w http.ResponseWriter, r *http.Request) {
	h.serveTrends(w, r, chi.URLParam(r, "clientID"), h.trends.TrendsByClient)
}

// GetFirmTrends handles GET /firms/{firmID}/trends.
func (h *Handler) GetFirmTrends(w http.ResponseWriter, r *http.Request) {
	h.serveTrends(w, r, chi.URLParam(r, "firmID"), h.trends.TrendsByFirm)
}

type trendFunc func(ctx context.Context, entityID string, q trends.Query) (*domain.TrendResult, error)

func (h *Handler) serveTrends(w http.ResponseWriter, r *http.Request, entityID string, run trendFunc) {
	ctx := r.Context()

	q, err := parseTrendQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := run(ctx, entityID, q)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

// PostStaffClassValidation handles POST /staff-classes/validate.
func (h *Handler) PostStaffClassValidation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.StaffClassValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(ctx, w, &domain.InvalidParameterError{Name: "body", Value: err.Error()})
		return
	}

	classes := make([]domain.StaffClass, 0, len(body.Classes))
	for _, c := range body.Classes {
		expType, err := domain.ParseExperienceType(c.ExperienceType)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		classes = append(classes, domain.StaffClass{
			ID:             c.ID,
			Name:           c.Name,
			ExperienceType: expType,
			MinExperience:  c.MinExperience,
			MaxExperience:  c.MaxExperience,
			IsActive:       c.IsActive,
		})
	}

	response := api.StaffClassValidationResponse{
		Overlaps: []api.OverlapEntry{},
		Gaps:     []api.GapEntry{},
	}
	for _, o := range staffclass.Overlaps(classes) {
		response.Overlaps = append(response.Overlaps, api.OverlapEntry{ClassA: o.A.ID, ClassB: o.B.ID})
	}
	for _, g := range staffclass.Gaps(classes) {
		response.Gaps = append(response.Gaps, api.GapEntry{Min: g.Min, Max: g.Max})
	}
	response.Valid = len(response.Overlaps) == 0 && len(response.Gaps) == 0

	if body.Attorney != nil {
		attorney := domain.Attorney{
			ID:             body.Attorney.ID,
			Name:           body.Attorney.Name,
			GraduationDate: body.Attorney.GraduationDate,
			BarDate:        body.Attorney.BarDate,
			PromotionDate:  body.Attorney.PromotionDate,
		}
		if fit, ok := h.staffClass.BestFit(attorney, classes); ok {
			response.BestFit = &api.BestFitEntry{
				ClassID:    fit.Class.ID,
				ClassName:  fit.Class.Name,
				Experience: fit.Experience,
				Score:      fit.Score,
			}
		}
	}

	writeJSON(ctx, w, http.StatusOK, response)
}

// PostPeerComparison handles POST /peer-comparison.
func (h *Handler) PostPeerComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.PeerComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(ctx, w, &domain.InvalidParameterError{Name: "body", Value: err.Error()})
		return
	}
	if body.SubjectID == "" {
		writeError(ctx, w, &domain.InvalidParameterError{Name: "subject_id", Value: ""})
		return
	}

	comparison, err := h.peers.Compare(ctx, body.SubjectID, body.PeerIDs, body.Currency)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, comparison)
}

// GetAttorneyPerformance handles GET /attorneys/{attorneyID}/performance.
func (h *Handler) GetAttorneyPerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	attorneyID := chi.URLParam(r, "attorneyID")

	metrics, err := h.performance.Performance(ctx, attorneyID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, metrics)
}

func toImpactRequest(body api.ImpactRequest) (impact.Request, error) {
	from, err := time.Parse(dateLayout, body.From)
	if err != nil {
		return impact.Request{}, &domain.InvalidParameterError{Name: "from", Value: body.From}
	}
	to, err := time.Parse(dateLayout, body.To)
	if err != nil {
		return impact.Request{}, &domain.InvalidParameterError{Name: "to", Value: body.To}
	}

	return impact.Request{
		ClientID:       body.ClientID,
		FirmID:         body.FirmID,
		View:           domain.ViewType(body.View),
		TargetCurrency: body.TargetCurrency,
		From:           from,
		To:             to,
		Years:          body.Years,
		Growth: domain.GrowthAssumptions{
			HoursGrowth: body.HoursGrowth,
			RateGrowth:  body.RateGrowth,
		},
		FilterDimension: domain.Dimension(body.FilterDimension),
		FilterValue:     body.FilterValue,
	}, nil
}

// impactResponse wraps the service result with an explicit incompleteness
// marker so clients do not have to dig through the skip list.
type impactResponse struct {
	*impact.Result
	Incomplete bool                   `json:"incomplete"`
	Skipped    []domain.SkippedEntity `json:"skipped,omitempty"`
}

func toImpactResponse(result *impact.Result) impactResponse {
	response := impactResponse{Result: result}
	if result.Impact != nil && len(result.Impact.Skipped) > 0 {
		response.Incomplete = true
		response.Skipped = result.Impact.Skipped
	}
	if result.Projection != nil && len(result.Projection.YearByYear) > 0 {
		if skipped := result.Projection.YearByYear[0].Impact.Skipped; len(skipped) > 0 {
			response.Incomplete = true
			response.Skipped = skipped
		}
	}
	return response
}

func parseTrendQuery(r *http.Request) (trends.Query, error) {
	q := trends.Query{
		Period:       domain.PeriodYearly,
		Currency:     "USD",
		StaffClassID: r.URL.Query().Get("staff_class"),
		OfficeID:     r.URL.Query().Get("office"),
	}

	if raw := r.URL.Query().Get("period"); raw != "" {
		period, err := domain.ParseTrendPeriod(raw)
		if err != nil {
			return q, err
		}
		q.Period = period
	}
	if raw := r.URL.Query().Get("currency"); raw != "" {
		q.Currency = raw
	}
	if raw := r.URL.Query().Get("years"); raw != "" {
		years, err := strconv.Atoi(raw)
		if err != nil || years <= 0 {
			return q, &domain.InvalidParameterError{Name: "years", Value: raw}
		}
		q.Years = years
	}
	return q, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the error taxonomy onto HTTP statuses: validation
// failures are the client's fault, a missing exchange rate is an upstream
// outage worth retrying, anything else is ours.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := zerolog.Ctx(ctx)

	var (
		invalidParam     *domain.InvalidParameterError
		invalidDimension *domain.InvalidDimensionError
		invalidRate      *domain.InvalidRateError
		invalidHours     *domain.InvalidHoursError
		badCurrency      *domain.UnsupportedCurrencyError
		rateUnavailable  *domain.RateUnavailableError
	)

	status := http.StatusInternalServerError
	retryable := false
	switch {
	case errors.As(err, &invalidParam),
		errors.As(err, &invalidDimension),
		errors.As(err, &invalidRate),
		errors.As(err, &invalidHours),
		errors.As(err, &badCurrency):
		status = http.StatusBadRequest
	case errors.As(err, &rateUnavailable):
		status = http.StatusBadGateway
		retryable = true
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	writeJSON(ctx, w, status, api.Error{Error: err.Error(), Retryable: retryable})
}
