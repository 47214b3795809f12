package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
)

// JSON writes report as an indented JSON document. Non-finite numbers are
// written as null.
func JSON(w io.Writer, report *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
