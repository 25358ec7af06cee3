package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

// JSONWriter renders a report as indented JSON.
type JSONWriter struct {
	writer io.Writer
}

func NewJSONWriter(writer io.Writer) *JSONWriter {
	return &JSONWriter{writer: writer}
}

func (j *JSONWriter) Handle(report *domain.Report) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
