package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

// CSVWriter renders a report as CSV, one row per detail with its section.
type CSVWriter struct {
	writer io.Writer
}

func NewCSVWriter(writer io.Writer) *CSVWriter {
	return &CSVWriter{writer: writer}
}

func (c *CSVWriter) Handle(report *domain.Report) error {
	w := csv.NewWriter(c.writer)

	header := []string{"section", "name", "value", "unit", "description"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, section := range report.Sections {
		for _, d := range section.Details {
			row := []string{section.Title, d.Name, fmt.Sprintf("%v", d.Value), d.Unit, d.Description}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}
