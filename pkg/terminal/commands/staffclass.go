package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/services/staffclass"
	"github.com/counsel-tools/rate-lens/pkg/store/file"
)

type ValidateCmd struct {
	classesPath string
	format      string
	output      io.Writer
}

func NewValidateCmd(output io.Writer) *cobra.Command {
	vc := &ValidateCmd{output: output}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a staff class configuration for overlaps and gaps",
		RunE:  vc.run,
	}

	cmd.Flags().StringVar(&vc.classesPath, "classes", "", "Path to a staff classes JSON file")
	cmd.Flags().StringVar(&vc.format, "format", "table", "Output format: table, csv or json")

	_ = cmd.MarkFlagRequired("classes")

	return cmd
}

func (vc *ValidateCmd) run(_ *cobra.Command, _ []string) error {
	classes, err := file.LoadStaffClasses(vc.classesPath)
	if err != nil {
		return err
	}

	overlaps := staffclass.Overlaps(classes)
	gaps := staffclass.Gaps(classes)

	writer, err := reportWriter(vc.format, vc.output)
	if err != nil {
		return err
	}
	return writer.Handle(buildValidationReport(classes, overlaps, gaps))
}

func buildValidationReport(classes []domain.StaffClass, overlaps []staffclass.Overlap, gaps []staffclass.Gap) *domain.Report {
	now := time.Now()
	report := &domain.Report{
		ID:     uuid.NewString(),
		Title:  "Staff Class Validation",
		Period: domain.TimePeriod{Start: now, End: now},
	}

	section := domain.ReportSection{
		Title: "Findings",
		Summary: map[string]any{
			"Classes":  len(classes),
			"Overlaps": len(overlaps),
			"Gaps":     len(gaps),
			"Valid":    len(overlaps) == 0 && len(gaps) == 0,
		},
	}
	for _, o := range overlaps {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        "Overlap",
			Value:       fmt.Sprintf("%s / %s", o.A.Name, o.B.Name),
			Description: "experience ranges intersect",
		})
	}
	for _, g := range gaps {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        "Gap",
			Value:       fmt.Sprintf("%d-%d years", g.Min, g.Max),
			Description: "no class covers this range",
		})
	}
	report.Sections = append(report.Sections, section)

	return report
}
