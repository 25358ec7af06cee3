// Package api holds the JSON shapes of the HTTP surface. Handlers map
// between these and the domain types; the core never sees them.
package api

import "time"

// ImpactRequest is the body of POST /api/v1/impact.
type ImpactRequest struct {
	ClientID        string  `json:"client_id"`
	FirmID          string  `json:"firm_id"`
	View            string  `json:"view"`
	TargetCurrency  string  `json:"target_currency"`
	From            string  `json:"from"` // ISO dates, "2023-01-01"
	To              string  `json:"to"`
	Years           int     `json:"years,omitempty"`
	HoursGrowth     float64 `json:"hours_growth,omitempty"`
	RateGrowth      float64 `json:"rate_growth,omitempty"`
	FilterDimension string  `json:"filter_dimension,omitempty"`
	FilterValue     string  `json:"filter_value,omitempty"`
}

// StaffClassInput mirrors a staff class definition for validation requests.
type StaffClassInput struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ExperienceType string `json:"experience_type"`
	MinExperience  int    `json:"min_experience"`
	MaxExperience  *int   `json:"max_experience,omitempty"`
	IsActive       bool   `json:"is_active"`
}

// AttorneyInput carries the dates experience is derived from.
type AttorneyInput struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	GraduationDate *time.Time `json:"graduation_date,omitempty"`
	BarDate        *time.Time `json:"bar_date,omitempty"`
	PromotionDate  *time.Time `json:"promotion_date,omitempty"`
}

// StaffClassValidationRequest is the body of POST /api/v1/staff-classes/validate.
// Attorney is optional; when present the response includes a best-fit
// assignment.
type StaffClassValidationRequest struct {
	Classes  []StaffClassInput `json:"classes"`
	Attorney *AttorneyInput    `json:"attorney,omitempty"`
}

// ClassRange names one boundary pair in a validation response.
type ClassRange struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

type OverlapEntry struct {
	ClassA string `json:"class_a"`
	ClassB string `json:"class_b"`
}

type GapEntry struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type BestFitEntry struct {
	ClassID    string  `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Experience int     `json:"experience_years"`
	Score      float64 `json:"score"`
}

// StaffClassValidationResponse reports structural issues in a class
// configuration plus an optional best-fit assignment.
type StaffClassValidationResponse struct {
	Valid    bool           `json:"valid"`
	Overlaps []OverlapEntry `json:"overlaps"`
	Gaps     []GapEntry     `json:"gaps"`
	BestFit  *BestFitEntry  `json:"best_fit,omitempty"`
}

// PeerComparisonRequest is the body of POST /api/v1/peer-comparison.
type PeerComparisonRequest struct {
	SubjectID string   `json:"subject_id"`
	PeerIDs   []string `json:"peer_ids"`
	Currency  string   `json:"currency"`
}

// Error is the uniform error payload. Retryable marks upstream failures
// worth retrying (e.g. an exchange rate provider outage).
type Error struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}
