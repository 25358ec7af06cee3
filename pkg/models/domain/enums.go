package domain

// Dimension selects the grouping axis for blended rates and impact filters.
type Dimension string

const (
	DimensionStaffClass   Dimension = "staff_class"
	DimensionPracticeArea Dimension = "practice_area"
	DimensionOffice       Dimension = "office"
	DimensionFirm         Dimension = "firm"
)

// ParseDimension maps an external string to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionStaffClass, DimensionPracticeArea, DimensionOffice, DimensionFirm:
		return Dimension(s), nil
	}
	return "", &InvalidParameterError{Name: "dimension", Value: s}
}

// ViewType selects how an impact analysis is computed.
type ViewType string

const (
	ViewTotal       ViewType = "total"
	ViewIncremental ViewType = "incremental"
	ViewMultiYear   ViewType = "multi_year"
)

func ParseViewType(s string) (ViewType, error) {
	switch ViewType(s) {
	case ViewTotal, ViewIncremental, ViewMultiYear:
		return ViewType(s), nil
	}
	return "", &InvalidParameterError{Name: "view_type", Value: s}
}

// ExperienceType is the axis a staff class measures experience on.
type ExperienceType string

const (
	GraduationYear ExperienceType = "graduation_year"
	BarYear        ExperienceType = "bar_year"
	YearsInRole    ExperienceType = "years_in_role"
)

func ParseExperienceType(s string) (ExperienceType, error) {
	switch ExperienceType(s) {
	case GraduationYear, BarYear, YearsInRole:
		return ExperienceType(s), nil
	}
	return "", &InvalidParameterError{Name: "experience_type", Value: s}
}

// RateType distinguishes standard hourly rates from AFA arrangements.
type RateType string

const (
	RateStandard RateType = "standard"
	RateAFA      RateType = "afa"
)

// RateStatus is the negotiation workflow state of a rate. The analytics
// core only reads it; transitions happen elsewhere.
type RateStatus string

const (
	RateDraft     RateStatus = "draft"
	RateSubmitted RateStatus = "submitted"
	RateApproved  RateStatus = "approved"
	RateRejected  RateStatus = "rejected"
)

// TrendPeriod is the bucketing granularity for historical series.
type TrendPeriod string

const (
	PeriodMonthly   TrendPeriod = "monthly"
	PeriodQuarterly TrendPeriod = "quarterly"
	PeriodYearly    TrendPeriod = "yearly"
)

func ParseTrendPeriod(s string) (TrendPeriod, error) {
	switch TrendPeriod(s) {
	case PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return TrendPeriod(s), nil
	}
	return "", &InvalidParameterError{Name: "period", Value: s}
}
