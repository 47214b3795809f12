package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	SourceCSV  = "csv"
	SourceXLSX = "xlsx"
)

var (
	// ErrNoHeader is returned when the input has no header row
	ErrNoHeader = errors.New("no header row")

	// ErrDuplicateColumn is returned when two header cells carry the same name
	ErrDuplicateColumn = errors.New("duplicate column")
)

type loadConfig struct {
	location *time.Location
	comma    rune
	logger   *slog.Logger
}

// LoadOption configures Load, LoadXLSX and LoadFile.
type LoadOption func(*loadConfig)

// WithLocation sets the location used for timestamps without a zone offset.
// Defaults to UTC.
func WithLocation(loc *time.Location) LoadOption {
	return func(c *loadConfig) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithComma sets the CSV field delimiter. Defaults to ','.
func WithComma(comma rune) LoadOption {
	return func(c *loadConfig) {
		c.comma = comma
	}
}

// WithLogger sets the logger used to report load progress and warnings
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) {
		c.logger = logger.With(slog.String("component", "loader"))
	}
}

func newLoadConfig(options []LoadOption) *loadConfig {
	c := &loadConfig{
		location: time.UTC,
		comma:    ',',
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// LoadFile loads a telemetry table from a file, picking the format by
// extension: .xlsx and .xlsm are read as workbooks, anything else as CSV.
func LoadFile(path string, options ...LoadOption) (table *Table, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry file: %w", err)
	}
	defer closeWithError(f, &err)

	if IsWorkbook(path) {
		return LoadXLSX(f, options...)
	}
	return Load(f, options...)
}

// IsWorkbook reports whether name has a spreadsheet workbook extension.
func IsWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// Load parses a CSV telemetry table with a header row. Numeric columns are
// inferred, the Timestamp column is parsed and a Date column derived from it.
//
// A structurally broken CSV yields a *LoadError. A Timestamp column that does
// not fully parse is not an error: the table is returned with a
// *TimestampParseWarning in Table.Warnings and without a Date column.
func Load(r io.Reader, options ...LoadOption) (*Table, error) {
	config := newLoadConfig(options)

	reader := csv.NewReader(r)
	reader.Comma = config.comma

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Source: SourceCSV, Err: err}
	}

	return buildTable(SourceCSV, records, config)
}

func buildTable(source string, records [][]string, config *loadConfig) (*Table, error) {
	if len(records) == 0 {
		return nil, &LoadError{Source: source, Err: ErrNoHeader}
	}

	header, err := normalizeHeader(records[0])
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	rows := records[1:]

	table := &Table{
		index: make(map[Column]int, len(header)+1),
		rows:  len(rows),
	}

	var dates []CivilDate
	for i, name := range header {
		cells := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				cells[r] = row[i]
			}
		}

		if name == Timestamp {
			var col *column
			col, dates = timestampColumn(cells, table, config)
			table.add(col)
			continue
		}
		table.add(inferColumn(name, cells))
	}

	// the derived Date column shadows an uploaded one
	if dates != nil {
		table.set(&column{name: Date, typ: DateColumn, dates: dates})
	}

	config.logger.Debug("telemetry loaded",
		slog.String("source", source),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.columns)),
		slog.Int("warnings", len(table.warnings)))

	return table, nil
}

func normalizeHeader(raw []string) ([]Column, error) {
	seen := make(map[Column]struct{}, len(raw))
	header := make([]Column, len(raw))
	for i, cell := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		col := Column(name)
		if _, ok := seen[col]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		seen[col] = struct{}{}
		header[i] = col
	}
	return header, nil
}

// timestampColumn parses every non-empty cell or none. Empty cells are
// missing instants: a zero time.Time with a zero CivilDate. On success it also
// returns the calendar date of every timestamp.
func timestampColumn(cells []string, table *Table, config *loadConfig) (*column, []CivilDate) {
	var missing int
	times := make([]time.Time, len(cells))
	for i, cell := range cells {
		value := strings.TrimSpace(cell)
		if value == "" {
			missing++
			continue
		}

		ts, err := dateparse.ParseIn(value, config.location)
		if err != nil {
			warning := &TimestampParseWarning{Row: i + 1, Value: cell, Err: err}
			table.warnings = append(table.warnings, warning)
			config.logger.Warn(warning.Error())

			return &column{name: Timestamp, typ: TextColumn, text: cells}, nil
		}
		times[i] = ts
	}

	if missing > 0 {
		config.logger.Debug("empty timestamps",
			slog.Int("rows", missing))
	}

	dates := make([]CivilDate, len(times))
	for i, ts := range times {
		if !ts.IsZero() {
			dates[i] = DateOf(ts)
		}
	}
	return &column{name: Timestamp, typ: TimeColumn, times: times}, dates
}

// inferColumn makes a numeric column when every non-empty cell parses as a
// number. Empty cells of a numeric column hold NaN.
func inferColumn(name Column, cells []string) *column {
	numbers := make([]float64, len(cells))
	for i, cell := range cells {
		value := strings.TrimSpace(cell)
		if value == "" {
			numbers[i] = math.NaN()
			continue
		}

		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &column{name: name, typ: TextColumn, text: cells}
		}
		numbers[i] = n
	}
	return &column{name: name, typ: NumericColumn, numbers: numbers}
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
