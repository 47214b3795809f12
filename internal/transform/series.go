package transform

import (
	"errors"
	"time"

	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

// Values returns a numeric column for distribution charts, in row order.
func Values(table *telemetry.Table, column telemetry.Column) ([]float64, error) {
	if table.Len() == 0 {
		return nil, &EmptyDataError{Stage: "loading"}
	}
	return table.Floats(column)
}

// TimeSeries returns column against Timestamp over the whole table, sorted
// chronologically. Rows with an empty timestamp are left out. When Timestamp
// stayed text after loading, the series keeps row order and carries the raw
// timestamp text as Labels.
func TimeSeries(table *telemetry.Table, column telemetry.Column) (Series, error) {
	times, labels, err := axis(table)
	if err != nil {
		return Series{}, err
	}
	values, err := table.Floats(column)
	if err != nil {
		return Series{}, err
	}

	if labels != nil {
		return Series{Labels: labels, Values: values}, nil
	}

	s := Chronological(times, values)
	if s.Len() == 0 {
		return Series{}, &EmptyDataError{Stage: "timestamp filter"}
	}
	return s, nil
}

// Dual is two series sharing one x axis, sorted chronologically. Labels
// replaces Times when the timestamps could not be parsed, see Series.
type Dual struct {
	Times     []time.Time
	Labels    []string
	Primary   []float64
	Secondary []float64
}

// Len returns the number of readings.
func (d Dual) Len() int {
	return len(d.Primary)
}

// DualSeries pairs two columns on the Timestamp axis over the whole table.
func DualSeries(table *telemetry.Table, primary, secondary telemetry.Column) (Dual, error) {
	times, labels, err := axis(table)
	if err != nil {
		return Dual{}, err
	}
	first, err := table.Floats(primary)
	if err != nil {
		return Dual{}, err
	}
	second, err := table.Floats(secondary)
	if err != nil {
		return Dual{}, err
	}

	if labels != nil {
		return Dual{Labels: labels, Primary: first, Secondary: second}, nil
	}

	order := chronologicalOrder(times)
	if len(order) == 0 {
		return Dual{}, &EmptyDataError{Stage: "timestamp filter"}
	}

	d := Dual{
		Times:     make([]time.Time, len(order)),
		Primary:   make([]float64, len(order)),
		Secondary: make([]float64, len(order)),
	}
	for i, row := range order {
		d.Times[i] = times[row]
		d.Primary[i] = first[row]
		d.Secondary[i] = second[row]
	}
	return d, nil
}

// Cloud is a 3D point cloud with a fourth, colour dimension.
type Cloud struct {
	X, Y, Z, Color []float64
}

// PointCloud reads four columns in row order over the whole table.
func PointCloud(table *telemetry.Table, x, y, z, color telemetry.Column) (Cloud, error) {
	if table.Len() == 0 {
		return Cloud{}, &EmptyDataError{Stage: "loading"}
	}

	var c Cloud
	for _, dim := range []struct {
		column telemetry.Column
		dst    *[]float64
	}{
		{x, &c.X},
		{y, &c.Y},
		{z, &c.Z},
		{color, &c.Color},
	} {
		values, err := table.Floats(dim.column)
		if err != nil {
			return Cloud{}, err
		}
		*dim.dst = values
	}
	return c, nil
}

// timestamps returns the parsed Timestamp column. A Timestamp column that
// stayed text after loading is reported as missing date data.
func timestamps(table *telemetry.Table) ([]time.Time, error) {
	if table.Len() == 0 {
		return nil, &EmptyDataError{Stage: "loading"}
	}

	times, err := table.Times(telemetry.Timestamp)
	if err != nil {
		var typeErr *telemetry.ColumnTypeError
		if errors.As(err, &typeErr) {
			return nil, &MissingDateError{Err: err}
		}
		return nil, err
	}
	return times, nil
}

// axis returns the x axis of whole-table series: the parsed timestamps, or
// the Timestamp text when it could not be parsed. Exactly one is non-nil.
func axis(table *telemetry.Table) ([]time.Time, []string, error) {
	times, err := timestamps(table)
	if err == nil {
		return times, nil, nil
	}

	var missing *MissingDateError
	if !errors.As(err, &missing) {
		return nil, nil, err
	}

	labels, err := table.Strings(telemetry.Timestamp)
	if err != nil {
		return nil, nil, err
	}
	return nil, labels, nil
}
