package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

// BuildImpactReport converts an impact result into a report ready for any
// of the writers in this package.
func BuildImpactReport(impact *domain.ImpactResult, start, end time.Time) *domain.Report {
	report := &domain.Report{
		ID:    uuid.NewString(),
		Title: "Rate Impact Analysis",
		Period: domain.TimePeriod{
			Start:    start,
			End:      end,
			Duration: int(end.Sub(start).Hours() / 24),
		},
		TotalAmount: impact.AbsoluteDifference,
		Currency:    impact.Currency,
	}

	summary := domain.ReportSection{
		Title: "Summary",
		Summary: map[string]any{
			"Current Cost":  FormatCurrency(impact.TotalCurrentCost, impact.Currency),
			"Proposed Cost": FormatCurrency(impact.TotalProposedCost, impact.Currency),
			"Difference":    FormatCurrency(impact.AbsoluteDifference, impact.Currency),
			"Change":        FormatPercent(impact.PercentageDifference),
		},
	}
	if len(impact.Skipped) > 0 {
		summary.Metadata = map[string]any{"skipped": impact.Skipped}
		summary.Summary["Skipped Entities"] = len(impact.Skipped)
	}
	report.Sections = append(report.Sections, summary)

	attorneys := domain.ReportSection{Title: "By Attorney"}
	for _, a := range impact.ByAttorney {
		attorneys.Details = append(attorneys.Details, domain.ReportDetail{
			Name:        a.AttorneyID,
			Value:       FormatCurrency(a.AbsoluteDifference, impact.Currency),
			Unit:        impact.Currency,
			Description: fmt.Sprintf("%s -> %s (%s)", a.CurrentRate, a.ProposedRate, FormatPercent(a.PercentageDifference)),
		})
	}
	report.Sections = append(report.Sections, attorneys)

	if len(impact.ByDimension) > 0 {
		groups := domain.ReportSection{Title: "By Group"}
		for _, g := range impact.ByDimension {
			groups.Details = append(groups.Details, domain.ReportDetail{
				Name:        g.Value,
				Value:       FormatCurrency(g.AbsoluteDifference, impact.Currency),
				Unit:        impact.Currency,
				Description: FormatPercent(g.PercentageDifference),
			})
		}
		report.Sections = append(report.Sections, groups)
	}

	return report
}

// BuildProjectionReport converts a multi-year projection into a report.
func BuildProjectionReport(proj *domain.MultiYearProjection, start, end time.Time) *domain.Report {
	report := &domain.Report{
		ID:    uuid.NewString(),
		Title: "Multi-Year Impact Projection",
		Period: domain.TimePeriod{
			Start:    start,
			End:      end,
			Duration: int(end.Sub(start).Hours() / 24),
		},
		TotalAmount: proj.Cumulative.AbsoluteDifference,
		Currency:    proj.Cumulative.Currency,
	}

	years := domain.ReportSection{
		Title: "Year by Year",
		Summary: map[string]any{
			"Cumulative Difference": FormatCurrency(proj.Cumulative.AbsoluteDifference, proj.Cumulative.Currency),
		},
	}
	for _, y := range proj.YearByYear {
		years.Details = append(years.Details, domain.ReportDetail{
			Name:        fmt.Sprintf("Year %d", y.Year),
			Value:       FormatCurrency(y.Impact.AbsoluteDifference, y.Impact.Currency),
			Unit:        y.Impact.Currency,
			Description: FormatPercent(y.Impact.PercentageDifference),
		})
	}
	report.Sections = append(report.Sections, years)

	return report
}

// BuildTrendReport converts a trend result into a report.
func BuildTrendReport(trend *domain.TrendResult, start, end time.Time) *domain.Report {
	report := &domain.Report{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("Rate Trends for %s", trend.EntityID),
		Period: domain.TimePeriod{
			Start:    start,
			End:      end,
			Duration: int(end.Sub(start).Hours() / 24),
		},
		Currency: trend.Currency,
	}

	summary := map[string]any{
		"CAGR": FormatPercent(trend.CAGR),
	}
	if trend.Inflation.Available {
		summary["Avg Inflation"] = FormatPercent(trend.Inflation.Average)
		summary["Cumulative Inflation"] = FormatPercent(trend.Inflation.Cumulative)
	}

	series := domain.ReportSection{Title: "Historical Rates", Summary: summary}
	for i, p := range trend.HistoricalSeries {
		detail := domain.ReportDetail{
			Name:  p.Period,
			Value: FormatCurrency(p.Amount, trend.Currency),
			Unit:  trend.Currency,
		}
		if i > 0 && i-1 < len(trend.RateChanges) {
			detail.Description = FormatPercent(trend.RateChanges[i-1])
		}
		series.Details = append(series.Details, detail)
	}
	report.Sections = append(report.Sections, series)

	return report
}
