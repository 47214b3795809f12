package telemetry

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrColumnNotFound is returned when a column is not part of the table
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoDate is returned by Table.Dates when no date column could be derived
	ErrNoDate = errors.New("no date column")
)

// CivilDate is a calendar date without a time of day.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d CivilDate) Compare(other CivilDate) int {
	switch {
	case d.Year != other.Year:
		return compareInt(d.Year, other.Year)
	case d.Month != other.Month:
		return compareInt(int(d.Month), int(other.Month))
	default:
		return compareInt(d.Day, other.Day)
	}
}

// IsZero reports whether d is the date of a missing timestamp.
func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d CivilDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ColumnTypeError is returned when a column is read as a type it does not
// hold, e.g. a text column read as numbers.
type ColumnTypeError struct {
	Column Column
	Want   ColumnType
	Got    ColumnType
}

func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("column %s is %s, expected %s", e.Column, e.Got, e.Want)
}

type column struct {
	name    Column
	typ     ColumnType
	text    []string
	numbers []float64
	times   []time.Time
	dates   []CivilDate
}

// Table is an in-memory telemetry table. It is never modified after load and
// every accessor returns a copy, so a table can be shared between goroutines.
type Table struct {
	columns  []*column
	index    map[Column]int
	rows     int
	warnings []error
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return t.rows
}

// Columns returns the column names in header order, followed by derived
// columns.
func (t *Table) Columns() []Column {
	names := make([]Column, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Has reports whether the table carries the column.
func (t *Table) Has(name Column) bool {
	_, ok := t.index[name]
	return ok
}

// Type returns the inferred type of a column.
func (t *Table) Type(name Column) (ColumnType, bool) {
	c, ok := t.lookup(name)
	if !ok {
		return TextColumn, false
	}
	return c.typ, true
}

// Warnings returns the non-fatal problems found while loading.
func (t *Table) Warnings() []error {
	return slices.Clone(t.warnings)
}

// Floats returns a numeric column. Empty cells are NaN.
func (t *Table) Floats(name Column) ([]float64, error) {
	c, err := t.typed(name, NumericColumn)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.numbers), nil
}

// Times returns the parsed Timestamp column. Empty cells are zero instants.
func (t *Table) Times(name Column) ([]time.Time, error) {
	c, err := t.typed(name, TimeColumn)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.times), nil
}

// Dates returns the derived Date column, or ErrNoDate. Rows with an empty
// timestamp hold a zero CivilDate.
func (t *Table) Dates() ([]CivilDate, error) {
	c, ok := t.lookup(Date)
	if !ok || c.typ != DateColumn {
		return nil, ErrNoDate
	}
	return slices.Clone(c.dates), nil
}

// Strings returns the column rendered as text, whatever its type.
func (t *Table) Strings(name Column) ([]string, error) {
	c, ok := t.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrColumnNotFound)
	}
	if c.typ == TextColumn {
		return slices.Clone(c.text), nil
	}

	out := make([]string, t.rows)
	for i := range out {
		switch c.typ {
		case NumericColumn:
			out[i] = fmt.Sprint(c.numbers[i])
		case TimeColumn:
			if !c.times[i].IsZero() {
				out[i] = c.times[i].Format(time.RFC3339)
			}
		case DateColumn:
			if !c.dates[i].IsZero() {
				out[i] = c.dates[i].String()
			}
		}
	}
	return out, nil
}

func (t *Table) lookup(name Column) (*column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

func (t *Table) typed(name Column, want ColumnType) (*column, error) {
	c, ok := t.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrColumnNotFound)
	}
	if c.typ != want {
		return nil, &ColumnTypeError{Column: name, Want: want, Got: c.typ}
	}
	return c, nil
}

// set replaces a column in place, or appends it.
func (t *Table) set(c *column) {
	if i, ok := t.index[c.name]; ok {
		t.columns[i] = c
		return
	}
	t.add(c)
}

func (t *Table) add(c *column) {
	t.index[c.name] = len(t.columns)
	t.columns = append(t.columns, c)
}
