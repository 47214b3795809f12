package telemetry

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func newWorkbook(t *testing.T, rows [][]any) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("Failed to build cell name: %v", err)
			}
			if err = f.SetCellValue("Sheet1", cell, value); err != nil {
				t.Fatalf("Failed to set cell %s: %v", cell, err)
			}
		}
	}
	return f
}

func TestLoadXLSX(t *testing.T) {
	f := newWorkbook(t, [][]any{
		{"Timestamp", "Engine_RPM", "Battery_Voltage_V"},
		{"2024-03-01 10:00:00", 1200, 12.6},
		{"2024-03-01 10:00:05", 6400, 12.4},
		{"2024-03-02 09:00:00", 800, ""},
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}

	table, err := LoadXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Failed to load workbook: %v", err)
	}

	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.Len())
	}

	rpm, err := table.Floats(EngineRPM)
	if err != nil {
		t.Fatalf("Failed to read Engine_RPM: %v", err)
	}
	if rpm[1] != 6400 {
		t.Errorf("Expected 6400, got %v", rpm[1])
	}

	dates, err := table.Dates()
	if err != nil {
		t.Fatalf("Failed to read dates: %v", err)
	}
	if dates[2].String() != "2024-03-02" {
		t.Errorf("Expected 2024-03-02, got %s", dates[2])
	}
}

func TestLoadFile_XLSX(t *testing.T) {
	f := newWorkbook(t, [][]any{
		{"Engine_RPM", "Oil_Temp_C"},
		{1000, 90},
		{},
		{2000, 95},
	})

	path := filepath.Join(t.TempDir(), "telemetry.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load file: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Expected blank rows to be dropped, got %d rows", table.Len())
	}
}

func TestLoadXLSX_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input func(t *testing.T) []byte
	}{
		{
			name: "not a workbook",
			input: func(t *testing.T) []byte {
				return []byte("Engine_RPM\n1000\n")
			},
		},
		{
			name: "value outside header",
			input: func(t *testing.T) []byte {
				f := newWorkbook(t, [][]any{
					{"Engine_RPM"},
					{1000, "stray"},
				})
				buf, err := f.WriteToBuffer()
				if err != nil {
					t.Fatalf("Failed to write workbook: %v", err)
				}
				return buf.Bytes()
			},
		},
		{
			name: "empty sheet",
			input: func(t *testing.T) []byte {
				buf, err := excelize.NewFile().WriteToBuffer()
				if err != nil {
					t.Fatalf("Failed to write workbook: %v", err)
				}
				return buf.Bytes()
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadXLSX(bytes.NewReader(tc.input(t)))

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected LoadError, got %v", err)
			}
			if loadErr.Source != SourceXLSX {
				t.Errorf("Expected source %s, got %s", SourceXLSX, loadErr.Source)
			}
		})
	}
}
