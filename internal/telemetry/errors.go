package telemetry

import "fmt"

// LoadError is returned when the uploaded table cannot be parsed at all.
// No chart can be produced from the upload.
type LoadError struct {
	Source string // Input format, "csv" or "xlsx"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s telemetry: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// TimestampParseWarning is recorded when the Timestamp column is present but
// at least one value is not a date-time. The column is then kept as text and
// no Date column is derived.
type TimestampParseWarning struct {
	Row   int    // 1-based data row of the first failing value
	Value string // The failing value
	Err   error
}

func (w *TimestampParseWarning) Error() string {
	return fmt.Sprintf("error converting Timestamp to datetime format: row %d: %q: %v", w.Row, w.Value, w.Err)
}

func (w *TimestampParseWarning) Unwrap() error {
	return w.Err
}
