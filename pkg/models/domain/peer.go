package domain

import "github.com/shopspring/decimal"

// PeerBenchmark positions one grouping value (staff class or practice
// area) of the subject organization against its peer group.
type PeerBenchmark struct {
	GroupValue     string
	SampleSize     int
	P25            decimal.Decimal
	Median         decimal.Decimal
	P75            decimal.Decimal
	SubjectAverage decimal.Decimal
	PercentileRank float64 // share of peer rates below the subject average
	DeltaVsMedian  decimal.Decimal
}

// PeerComparison benchmarks a subject organization's approved rates
// against a cohort of peer organizations.
type PeerComparison struct {
	SubjectID  string
	PeerIDs    []string
	Currency   string
	Dimension  Dimension
	Benchmarks []PeerBenchmark
	Skipped    []SkippedEntity
}
