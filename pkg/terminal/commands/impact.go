package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/counsel-tools/rate-lens/pkg/cache"
	"github.com/counsel-tools/rate-lens/pkg/export"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/services/calc"
	"github.com/counsel-tools/rate-lens/pkg/services/currency"
	"github.com/counsel-tools/rate-lens/pkg/store/file"
	"github.com/counsel-tools/rate-lens/pkg/store/rates"
)

const defaultRatesURL = "https://api.frankfurter.dev/v1"

type ImpactCmd struct {
	billingPath  string
	currentPath  string
	proposedPath string
	currencyCode string
	years        int
	hoursGrowth  float64
	rateGrowth   float64
	format       string
	ratesURL     string
	output       io.Writer
}

func NewImpactCmd(output io.Writer) *cobra.Command {
	ic := &ImpactCmd{output: output}
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Compute the cost impact of proposed rates",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.billingPath, "billing", "", "Path to a billing records JSON file")
	cmd.Flags().StringVar(&ic.currentPath, "current", "", "Path to the current rates JSON file")
	cmd.Flags().StringVar(&ic.proposedPath, "proposed", "", "Path to the proposed rates JSON file")
	cmd.Flags().StringVar(&ic.currencyCode, "currency", "USD", "Target currency for the analysis")
	cmd.Flags().IntVar(&ic.years, "years", 1, "Number of years to project")
	cmd.Flags().Float64Var(&ic.hoursGrowth, "hours-growth", 0, "Annual hours growth, fractional (0.05 = 5%)")
	cmd.Flags().Float64Var(&ic.rateGrowth, "rate-growth", 0, "Annual rate growth beyond the proposal, fractional")
	cmd.Flags().StringVar(&ic.format, "format", "table", "Output format: table, csv or json")
	cmd.Flags().StringVar(&ic.ratesURL, "rates-url", defaultRatesURL, "Exchange rate provider base URL")

	_ = cmd.MarkFlagRequired("billing")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("proposed")

	return cmd
}

func (ic *ImpactCmd) run(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	billing, err := file.LoadBillingRecords(ic.billingPath)
	if err != nil {
		return err
	}
	current, err := file.LoadRates(ic.currentPath)
	if err != nil {
		return err
	}
	proposed, err := file.LoadRates(ic.proposedPath)
	if err != nil {
		return err
	}

	converter := currency.NewConverter(rates.NewClient(ic.ratesURL), cache.NewMemoryCache())
	engine := calc.NewEngine(converter)

	writer, err := reportWriter(ic.format, ic.output)
	if err != nil {
		return err
	}

	start, end := billingSpan(billing)

	if ic.years > 1 {
		projection, err := engine.ProjectMultiYear(ctx, current, proposed, billing, ic.years,
			domain.GrowthAssumptions{HoursGrowth: ic.hoursGrowth, RateGrowth: ic.rateGrowth}, ic.currencyCode)
		if err != nil {
			return fmt.Errorf("failed to project impact: %w", err)
		}
		return writer.Handle(export.BuildProjectionReport(projection, start, end))
	}

	impact, err := engine.RateImpact(ctx, current, proposed, billing, ic.currencyCode)
	if err != nil {
		return fmt.Errorf("failed to compute impact: %w", err)
	}
	return writer.Handle(export.BuildImpactReport(impact, start, end))
}

func billingSpan(billing []domain.BillingRecord) (time.Time, time.Time) {
	if len(billing) == 0 {
		now := time.Now()
		return now, now
	}
	start, end := billing[0].BillingDate, billing[0].BillingDate
	for _, rec := range billing[1:] {
		if rec.BillingDate.Before(start) {
			start = rec.BillingDate
		}
		if rec.BillingDate.After(end) {
			end = rec.BillingDate
		}
	}
	return start, end
}

type reportHandler interface {
	Handle(report *domain.Report) error
}

func reportWriter(format string, output io.Writer) (reportHandler, error) {
	switch format {
	case "table":
		return export.NewReporter(output), nil
	case "csv":
		return export.NewCSVWriter(output), nil
	case "json":
		return export.NewJSONWriter(output), nil
	}
	return nil, fmt.Errorf("unsupported format %q, expected table, csv or json", format)
}
