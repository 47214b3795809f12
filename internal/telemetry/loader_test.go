package telemetry

import (
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Timestamp,Engine_RPM,Oil_Temp_C,Brake_Status,Note
2024-03-02 08:00:00,5000,90.5,0,start
2024-03-01 23:59:00,6200,91,1,
2024-03-02 08:00:10,7000,,0,hot
`

func TestLoad_InfersColumnTypes(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.Len())
	}

	testCases := []struct {
		column Column
		want   ColumnType
	}{
		{Timestamp, TimeColumn},
		{EngineRPM, NumericColumn},
		{OilTemp, NumericColumn},
		{BrakeStatus, NumericColumn},
		{"Note", TextColumn},
		{Date, DateColumn},
	}

	for _, tc := range testCases {
		t.Run(string(tc.column), func(t *testing.T) {
			got, ok := table.Type(tc.column)
			if !ok {
				t.Fatalf("Column %s not found", tc.column)
			}
			if got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestLoad_EmptyNumericCellIsNaN(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	oil, err := table.Floats(OilTemp)
	if err != nil {
		t.Fatalf("Failed to read column: %v", err)
	}
	if oil[0] != 90.5 || oil[1] != 91 {
		t.Errorf("Expected [90.5 91 NaN], got %v", oil)
	}
	if !math.IsNaN(oil[2]) {
		t.Errorf("Expected NaN for empty cell, got %v", oil[2])
	}
}

func TestLoad_DerivesDatePerRow(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	dates, err := table.Dates()
	if err != nil {
		t.Fatalf("Failed to read dates: %v", err)
	}

	expected := []CivilDate{
		{2024, time.March, 2},
		{2024, time.March, 1},
		{2024, time.March, 2},
	}
	for i := range expected {
		if dates[i] != expected[i] {
			t.Errorf("Row %d: expected %s, got %s", i, expected[i], dates[i])
		}
	}
}

func TestLoad_DateFollowsTimestampOffset(t *testing.T) {
	input := "Timestamp,Engine_RPM\n2024-03-01T23:30:00+02:00,1000\n"

	table, err := Load(strings.NewReader(input), WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	dates, err := table.Dates()
	if err != nil {
		t.Fatalf("Failed to read dates: %v", err)
	}
	if want := (CivilDate{2024, time.March, 1}); dates[0] != want {
		t.Errorf("Expected %s, got %s", want, dates[0])
	}
}

func TestLoad_TimestampParseWarning(t *testing.T) {
	input := "Timestamp,Engine_RPM\n2024-03-01 10:00:00,1000\nyesterday-ish,2000\n"

	table, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error for bad timestamps, got %v", err)
	}

	warnings := table.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}

	var warning *TimestampParseWarning
	if !errors.As(warnings[0], &warning) {
		t.Fatalf("Expected TimestampParseWarning, got %T", warnings[0])
	}
	if warning.Row != 2 {
		t.Errorf("Expected failing row 2, got %d", warning.Row)
	}

	if typ, _ := table.Type(Timestamp); typ != TextColumn {
		t.Errorf("Expected Timestamp to stay text, got %s", typ)
	}
	if table.Has(Date) {
		t.Error("Expected no Date column")
	}
	if _, err = table.Dates(); !errors.Is(err, ErrNoDate) {
		t.Errorf("Expected ErrNoDate, got %v", err)
	}

	rpm, err := table.Floats(EngineRPM)
	if err != nil || len(rpm) != 2 {
		t.Errorf("Expected numeric columns to survive, got %v (%v)", rpm, err)
	}
}

func TestLoad_EmptyTimestampIsMissing(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []CivilDate
	}{
		{
			name:  "one empty cell",
			input: "Timestamp,Engine_RPM\n2024-03-01 10:00:00,1000\n,2000\n2024-03-02 07:00:00,3000\n",
			expected: []CivilDate{
				{2024, time.March, 1},
				{},
				{2024, time.March, 2},
			},
		},
		{
			name:     "every cell empty",
			input:    "Timestamp,Engine_RPM\n,1000\n  ,2000\n",
			expected: []CivilDate{{}, {}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := Load(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Failed to load table: %v", err)
			}
			if len(table.Warnings()) != 0 {
				t.Errorf("Expected no warnings, got %v", table.Warnings())
			}
			if typ, _ := table.Type(Timestamp); typ != TimeColumn {
				t.Errorf("Expected Timestamp to be parsed, got %s", typ)
			}

			dates, err := table.Dates()
			if err != nil {
				t.Fatalf("Failed to read dates: %v", err)
			}
			if len(dates) != len(tc.expected) {
				t.Fatalf("Expected %d dates, got %d", len(tc.expected), len(dates))
			}
			for i := range tc.expected {
				if dates[i] != tc.expected[i] {
					t.Errorf("Row %d: expected %v, got %v", i, tc.expected[i], dates[i])
				}
			}

			times, err := table.Times(Timestamp)
			if err != nil {
				t.Fatalf("Failed to read timestamps: %v", err)
			}
			for i, ts := range times {
				if ts.IsZero() != tc.expected[i].IsZero() {
					t.Errorf("Row %d: expected missing=%v, got %v", i, tc.expected[i].IsZero(), ts)
				}
			}

			text, err := table.Strings(Date)
			if err != nil {
				t.Fatalf("Failed to read dates as text: %v", err)
			}
			if tc.expected[len(tc.expected)-1].IsZero() && text[len(text)-1] != "" {
				t.Errorf("Expected an empty string for a missing date, got %q", text[len(text)-1])
			}
		})
	}
}

func TestLoad_EmptyAndUnparsableTimestamp(t *testing.T) {
	input := "Timestamp,Engine_RPM\n,1000\nlater,2000\n"

	table, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	warnings := table.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	var warning *TimestampParseWarning
	if !errors.As(warnings[0], &warning) || warning.Row != 2 {
		t.Errorf("Expected a warning for row 2, got %v", warnings[0])
	}
	if table.Has(Date) {
		t.Error("Expected no Date column")
	}
}

func TestLoad_UploadedDateColumnIsShadowed(t *testing.T) {
	input := "Date,Timestamp\nmonday,2024-03-05 10:00:00\n"

	table, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	dates, err := table.Dates()
	if err != nil {
		t.Fatalf("Failed to read dates: %v", err)
	}
	if dates[0].String() != "2024-03-05" {
		t.Errorf("Expected derived date 2024-03-05, got %s", dates[0])
	}
	if len(table.Columns()) != 2 {
		t.Errorf("Expected 2 columns, got %v", table.Columns())
	}
}

func TestLoad_StructuralErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		target error
	}{
		{"empty input", "", ErrNoHeader},
		{"ragged row", "Engine_RPM,Oil_Temp_C\n1000,90\n2000\n", csv.ErrFieldCount},
		{"bare quote", "Engine_RPM\n10\"00\n", csv.ErrBareQuote},
		{"duplicate column", "Engine_RPM,Engine_RPM\n1,2\n", ErrDuplicateColumn},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.input))

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected LoadError, got %v", err)
			}
			if loadErr.Source != SourceCSV {
				t.Errorf("Expected source %s, got %s", SourceCSV, loadErr.Source)
			}
			if !errors.Is(err, tc.target) {
				t.Errorf("Expected %v in chain, got %v", tc.target, err)
			}
		})
	}
}

func TestLoad_HeaderOnly(t *testing.T) {
	table, err := Load(strings.NewReader("Timestamp,Engine_RPM\n"))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("Expected 0 rows, got %d", table.Len())
	}
	if !table.Has(EngineRPM) {
		t.Error("Expected Engine_RPM column")
	}
}

func TestLoad_Semicolon(t *testing.T) {
	table, err := Load(strings.NewReader("Engine_RPM;Oil_Temp_C\n1000;90\n"), WithComma(';'))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}
	if !table.Has(OilTemp) {
		t.Errorf("Expected Oil_Temp_C column, got %v", table.Columns())
	}
}

func TestLoad_StripsByteOrderMark(t *testing.T) {
	table, err := Load(strings.NewReader("\ufeffTimestamp,Engine_RPM\n2024-03-01 10:00:00,1000\n"))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}
	if typ, ok := table.Type(Timestamp); !ok || typ != TimeColumn {
		t.Errorf("Expected parsed Timestamp column, got %v", table.Columns())
	}
}

func TestLoadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load file: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.Len())
	}
}

func TestTable_AccessorsReturnCopies(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	rpm, _ := table.Floats(EngineRPM)
	rpm[0] = -1

	again, _ := table.Floats(EngineRPM)
	if again[0] != 5000 {
		t.Errorf("Expected table to be unchanged, got %v", again[0])
	}
}

func TestTable_ColumnTypeError(t *testing.T) {
	table, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	_, err = table.Floats("Note")

	var typeErr *ColumnTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("Expected ColumnTypeError, got %v", err)
	}
	if typeErr.Got != TextColumn || typeErr.Want != NumericColumn {
		t.Errorf("Unexpected error fields: %+v", typeErr)
	}

	if _, err = table.Floats("Missing"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestCivilDate_Compare(t *testing.T) {
	testCases := []struct {
		name string
		a, b CivilDate
		want int
	}{
		{"equal", CivilDate{2024, 3, 1}, CivilDate{2024, 3, 1}, 0},
		{"day", CivilDate{2024, 3, 1}, CivilDate{2024, 3, 2}, -1},
		{"month", CivilDate{2024, 4, 1}, CivilDate{2024, 3, 30}, 1},
		{"year", CivilDate{2023, 12, 31}, CivilDate{2024, 1, 1}, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Compare(tc.b); got != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, got)
			}
		})
	}
}
