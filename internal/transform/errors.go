// Package transform derives the exact series each chart kind plots from a
// loaded telemetry table: threshold splits, colour-classified segments,
// single-day filtering, central tendency and paired or 3D series.
//
// Every function is a pure read of the table. Nothing here knows about labels,
// colours or layout.
package transform

import (
	"errors"
	"fmt"
)

// ErrNoDateData is wrapped by MissingDateError when the table carries no
// parsed timestamps
var ErrNoDateData = errors.New("no date data found")

// MissingDateError is returned when a chart needs timestamps or dates and the
// loader could not derive them.
type MissingDateError struct {
	Err error
}

func (e *MissingDateError) Error() string {
	if e.Err == nil {
		return ErrNoDateData.Error()
	}
	return fmt.Sprintf("%s: %v", ErrNoDateData, e.Err)
}

func (e *MissingDateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNoDateData}
	}
	return []error{ErrNoDateData, e.Err}
}

// EmptyDataError is returned when there are no rows left to plot.
type EmptyDataError struct {
	Stage string // What produced the empty row set, e.g. "table" or "day filter"
}

func (e *EmptyDataError) Error() string {
	return fmt.Sprintf("no data to plot after %s", e.Stage)
}
