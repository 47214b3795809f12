package pipeline

import (
	"errors"

	"github.com/roman-kulish/vehicle-dashboard/internal/catalog"
	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
	"github.com/roman-kulish/vehicle-dashboard/internal/transform"
)

// Code classifies why a chart could not be drawn.
type Code string

const (
	CodeMissingColumns Code = "missing_columns" // Required columns are absent
	CodeMissingDate    Code = "missing_date"    // Timestamps or dates could not be derived
	CodeEmptyData      Code = "empty_data"      // Nothing left to plot
	CodeInvalidColumn  Code = "invalid_column"  // A required column has the wrong type, e.g. text in a numeric column
	CodeInternal       Code = "internal"        // Anything else, including recovered panics
)

// ErrorDescriptor is the user-facing account of a failed chart, shown in
// place of the chart.
type ErrorDescriptor struct {
	Code    Code               `json:"code"`
	Chart   string             `json:"chart"`
	Columns []telemetry.Column `json:"columns,omitempty"`
	Message string             `json:"message"`
}

func (d *ErrorDescriptor) Error() string {
	return d.Chart + ": " + d.Message
}

func describe(def catalog.Definition, err error) *ErrorDescriptor {
	d := ErrorDescriptor{
		Code:    CodeInternal,
		Chart:   def.DisplayName(),
		Message: err.Error(),
	}

	var (
		missingColumn *catalog.MissingColumnError
		missingDate   *transform.MissingDateError
		emptyData     *transform.EmptyDataError
		columnType    *telemetry.ColumnTypeError
	)
	switch {
	case errors.As(err, &missingColumn):
		d.Code = CodeMissingColumns
		d.Columns = missingColumn.Columns

	case errors.As(err, &missingDate):
		d.Code = CodeMissingDate
		d.Message = transform.ErrNoDateData.Error()

	case errors.As(err, &emptyData):
		d.Code = CodeEmptyData

	case errors.As(err, &columnType):
		d.Code = CodeInvalidColumn
		d.Columns = []telemetry.Column{columnType.Column}
	}
	return &d
}
