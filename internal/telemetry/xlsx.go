package telemetry

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned when a workbook has no worksheet
var ErrNoSheet = errors.New("workbook has no sheets")

// LoadXLSX reads the first worksheet of an Excel workbook as a telemetry
// table. The first row is the header. Cells are read as displayed, so typed
// date cells reach the Timestamp parser in their display format.
func LoadXLSX(r io.Reader, options ...LoadOption) (table *Table, err error) {
	config := newLoadConfig(options)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Source: SourceXLSX, Err: err}
	}
	defer closeWithError(f, &err)

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Source: SourceXLSX, Err: ErrNoSheet}
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Source: SourceXLSX, Err: fmt.Errorf("reading sheet %q: %w", sheets[0], err)}
	}

	records = dropBlankRows(records)
	if len(records) > 0 {
		if err = checkRowWidths(records); err != nil {
			return nil, &LoadError{Source: SourceXLSX, Err: err}
		}
	}

	return buildTable(SourceXLSX, records, config)
}

// dropBlankRows removes rows with no content at all. Workbooks often carry
// formatted but empty rows after the data.
func dropBlankRows(records [][]string) [][]string {
	out := records[:0]
	for _, row := range records {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			out = append(out, row)
		}
	}
	return out
}

// checkRowWidths rejects rows carrying values past the last header column.
// Shorter rows are fine: the sheet reader trims trailing empty cells.
func checkRowWidths(records [][]string) error {
	width := len(records[0])
	for i, row := range records[1:] {
		for c := width; c < len(row); c++ {
			if strings.TrimSpace(row[c]) != "" {
				return fmt.Errorf("row %d: value in column %d outside the header", i+2, c+1)
			}
		}
	}
	return nil
}
