package transform

import (
	"errors"
	"slices"
	"time"

	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

// Day is the single representative day used by per-day charts.
type Day struct {
	Date telemetry.CivilDate
	Rows []int // Rows of Date, sorted by timestamp ascending
}

// FirstDay selects the earliest date present in the table and returns its
// rows in chronological order. Later days are ignored, and so are rows with
// an empty timestamp.
func FirstDay(table *telemetry.Table) (Day, error) {
	dates, err := table.Dates()
	if err != nil {
		if errors.Is(err, telemetry.ErrNoDate) {
			return Day{}, &MissingDateError{}
		}
		return Day{}, err
	}
	if len(dates) == 0 {
		return Day{}, &EmptyDataError{Stage: "loading"}
	}

	times, err := timestamps(table)
	if err != nil {
		return Day{}, err
	}

	present := slices.DeleteFunc(slices.Clone(dates), telemetry.CivilDate.IsZero)
	if len(present) == 0 {
		return Day{}, &MissingDateError{}
	}
	first := slices.MinFunc(present, telemetry.CivilDate.Compare)

	day := Day{Date: first}
	for row, date := range dates {
		if date == first {
			day.Rows = append(day.Rows, row)
		}
	}
	if len(day.Rows) == 0 {
		return Day{}, &EmptyDataError{Stage: "day filter"}
	}

	slices.SortStableFunc(day.Rows, func(a, b int) int {
		return times[a].Compare(times[b])
	})
	return day, nil
}

// Series returns column against Timestamp restricted to the day's rows.
func (d Day) Series(table *telemetry.Table, column telemetry.Column) (Series, error) {
	times, err := timestamps(table)
	if err != nil {
		return Series{}, err
	}
	values, err := table.Floats(column)
	if err != nil {
		return Series{}, err
	}

	s := Series{
		Times:  make([]time.Time, 0, len(d.Rows)),
		Values: make([]float64, 0, len(d.Rows)),
	}
	for _, row := range d.Rows {
		s.Times = append(s.Times, times[row])
		s.Values = append(s.Values, values[row])
	}
	return s, nil
}
