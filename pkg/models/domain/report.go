package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report represents a complete analysis report for export.
type Report struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Period      TimePeriod      `json:"period"`
	Sections    []ReportSection `json:"sections"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// TimePeriod represents a time range for the report
type TimePeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration_days"`
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title    string         `json:"title"`
	Summary  map[string]any `json:"summary,omitempty"`
	Details  []ReportDetail `json:"details"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}
