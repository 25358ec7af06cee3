package domain

import "github.com/shopspring/decimal"

// AttorneyImpact is the per-attorney slice of an impact calculation.
type AttorneyImpact struct {
	AttorneyID           string
	Hours                decimal.Decimal
	CurrentRate          decimal.Decimal
	ProposedRate         decimal.Decimal
	CurrentCost          decimal.Decimal
	ProposedCost         decimal.Decimal
	AbsoluteDifference   decimal.Decimal
	PercentageDifference float64
}

// SkippedEntity records an entity excluded from a calculation and why.
// Impact analysis degrades gracefully on incomplete rate coverage; skips
// are reported, never hidden.
type SkippedEntity struct {
	EntityID string
	Reason   string
}

// ImpactResult is the output of a rate-impact calculation. All monetary
// fields are in the calculation's target currency. Constructed fresh per
// call, never persisted by the core.
type ImpactResult struct {
	Currency             string
	TotalCurrentCost     decimal.Decimal
	TotalProposedCost    decimal.Decimal
	AbsoluteDifference   decimal.Decimal
	PercentageDifference float64
	ByAttorney           []AttorneyImpact
	ByDimension          map[string]DimensionImpact
	Skipped              []SkippedEntity
}

// DimensionImpact aggregates impact along one value of a grouping dimension
// (a staff class, a practice area, an office).
type DimensionImpact struct {
	Value                string
	CurrentCost          decimal.Decimal
	ProposedCost         decimal.Decimal
	AbsoluteDifference   decimal.Decimal
	PercentageDifference float64
}

// GrowthAssumptions parameterize a multi-year projection. Values are
// fractional annual growth (0.1 == 10%/year).
type GrowthAssumptions struct {
	HoursGrowth float64
	RateGrowth  float64
}

// YearImpact is one projected year. Year numbering starts at 1; year 1 is
// the unmodified base-year impact.
type YearImpact struct {
	Year   int
	Impact ImpactResult
}

// CumulativeImpact sums costs and absolute difference across projected
// years. A cumulative percentage is deliberately absent: a percentage of
// summed percentages is not meaningful.
type CumulativeImpact struct {
	Currency           string
	TotalCurrentCost   decimal.Decimal
	TotalProposedCost  decimal.Decimal
	AbsoluteDifference decimal.Decimal
}

// MultiYearProjection is the output of a multi-year impact projection.
type MultiYearProjection struct {
	YearByYear []YearImpact
	Cumulative CumulativeImpact
}
