package transform

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

const multiDayCSV = `Timestamp,Oil_Temp_C
2024-03-02 09:00:00,99
2024-03-01 12:00:00,92
2024-03-03 08:00:00,101
2024-03-01 08:00:00,90
2024-03-01 10:00:00,91
`

func TestFirstDay_PicksMinimumDate(t *testing.T) {
	table := mustLoad(t, multiDayCSV)

	day, err := FirstDay(table)
	if err != nil {
		t.Fatalf("Failed to filter day: %v", err)
	}

	if want := (telemetry.CivilDate{Year: 2024, Month: time.March, Day: 1}); day.Date != want {
		t.Errorf("Expected %s, got %s", want, day.Date)
	}
	if !slices.Equal(day.Rows, []int{3, 4, 1}) {
		t.Errorf("Expected rows [3 4 1], got %v", day.Rows)
	}
}

func TestFirstDay_SeriesIsChronological(t *testing.T) {
	table := mustLoad(t, multiDayCSV)

	day, err := FirstDay(table)
	if err != nil {
		t.Fatalf("Failed to filter day: %v", err)
	}

	series, err := day.Series(table, telemetry.OilTemp)
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}

	if !slices.Equal(series.Values, []float64{90, 91, 92}) {
		t.Errorf("Expected [90 91 92], got %v", series.Values)
	}
	for i := 1; i < series.Len(); i++ {
		if series.Times[i].Before(series.Times[i-1]) {
			t.Errorf("Row %d is earlier than row %d", i, i-1)
		}
		if telemetry.DateOf(series.Times[i]) != day.Date {
			t.Errorf("Row %d is outside the selected day", i)
		}
	}
}

func TestFirstDay_MissingDate(t *testing.T) {
	testCases := []struct {
		name string
		csv  string
	}{
		{"unparsed timestamps", "Timestamp,Oil_Temp_C\nsoon,90\n"},
		{"no timestamp column", "Oil_Temp_C\n90\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FirstDay(mustLoad(t, tc.csv))

			var dateErr *MissingDateError
			if !errors.As(err, &dateErr) {
				t.Fatalf("Expected MissingDateError, got %v", err)
			}
			if !errors.Is(err, ErrNoDateData) {
				t.Errorf("Expected ErrNoDateData in chain, got %v", err)
			}
		})
	}
}

func TestFirstDay_SkipsEmptyTimestamps(t *testing.T) {
	table := mustLoad(t, `Timestamp,Oil_Temp_C
,70
2024-03-02 09:00:00,99
2024-03-02 08:00:00,98
`)

	day, err := FirstDay(table)
	if err != nil {
		t.Fatalf("Failed to filter day: %v", err)
	}
	if day.Date.String() != "2024-03-02" {
		t.Errorf("Expected 2024-03-02, got %s", day.Date)
	}
	if !slices.Equal(day.Rows, []int{2, 1}) {
		t.Errorf("Expected rows [2 1], got %v", day.Rows)
	}

	_, err = FirstDay(mustLoad(t, "Timestamp,Oil_Temp_C\n,70\n,71\n"))
	var dateErr *MissingDateError
	if !errors.As(err, &dateErr) {
		t.Errorf("Expected MissingDateError without any timestamp, got %v", err)
	}
}

func TestFirstDay_EmptyTable(t *testing.T) {
	_, err := FirstDay(mustLoad(t, "Timestamp,Oil_Temp_C\n"))

	var emptyErr *EmptyDataError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("Expected EmptyDataError, got %v", err)
	}
}

func TestFirstDay_EqualTimestampsKeepRowOrder(t *testing.T) {
	table := mustLoad(t, `Timestamp,Oil_Temp_C
2024-03-01 08:00:00,1
2024-03-01 07:00:00,2
2024-03-01 08:00:00,3
`)

	day, err := FirstDay(table)
	if err != nil {
		t.Fatalf("Failed to filter day: %v", err)
	}
	if !slices.Equal(day.Rows, []int{1, 0, 2}) {
		t.Errorf("Expected rows [1 0 2], got %v", day.Rows)
	}
}
