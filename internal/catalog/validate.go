package catalog

import (
	"fmt"
	"strings"

	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

// MissingColumnError lists the required columns a table lacks for a kind.
type MissingColumnError struct {
	Kind    KindID
	Columns []telemetry.Column
}

func (e *MissingColumnError) Error() string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = string(c)
	}
	return fmt.Sprintf("chart %s: missing columns: %s", e.Kind, strings.Join(names, ", "))
}

// Validate checks that every required column of def is present in table.
// Only names are checked, never values or types.
func Validate(table *telemetry.Table, def Definition) error {
	var missing []telemetry.Column
	for _, column := range def.Required {
		if !table.Has(column) {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return &MissingColumnError{Kind: def.ID, Columns: missing}
	}
	return nil
}
