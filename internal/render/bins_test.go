package render

import (
	"math"
	"slices"
	"testing"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
)

func counts(bins []Bin) []int {
	out := make([]int, len(bins))
	for i, bin := range bins {
		out[i] = bin.Count
	}
	return out
}

func TestHistogramBins(t *testing.T) {
	nan := chart.Number(math.NaN())

	tests := []struct {
		name     string
		traces   []chart.Trace
		expected [][]int
	}{
		{
			name: "single trace, last bin closed",
			traces: []chart.Trace{
				{Type: chart.TraceHistogram, Bins: 4, X: []chart.Number{0, 1, 2, 3, 4}},
			},
			expected: [][]int{{1, 1, 1, 2}},
		},
		{
			name: "overlaid traces share the layout",
			traces: []chart.Trace{
				{Type: chart.TraceHistogram, Bins: 2, X: []chart.Number{0, 1}},
				{Type: chart.TraceHistogram, Bins: 2, X: []chart.Number{9, 10}},
			},
			expected: [][]int{{2, 0}, {0, 2}},
		},
		{
			name: "NaN ignored",
			traces: []chart.Trace{
				{Type: chart.TraceHistogram, Bins: 2, X: []chart.Number{nan, 0, 10, nan}},
			},
			expected: [][]int{{1, 1}},
		},
		{
			name: "equal values",
			traces: []chart.Trace{
				{Type: chart.TraceHistogram, Bins: 30, X: []chart.Number{12.5, 12.5, 12.5}},
			},
			expected: [][]int{{3}},
		},
		{
			name: "no finite values",
			traces: []chart.Trace{
				{Type: chart.TraceHistogram, Bins: 30, X: []chart.Number{nan}},
			},
			expected: [][]int{nil},
		},
		{
			name: "scatter traces skipped",
			traces: []chart.Trace{
				{Type: chart.TraceScatter, Y: []chart.Number{1}},
				{Type: chart.TraceHistogram, Bins: 1, X: []chart.Number{5, 6}},
			},
			expected: [][]int{nil, {2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := histogramBins(&chart.Spec{Traces: tt.traces})
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d bin sets, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] == nil && tt.expected[i] == nil {
					continue
				}
				if c := counts(got[i]); !slices.Equal(c, tt.expected[i]) {
					t.Errorf("Expected counts %v for trace %d, got %v", tt.expected[i], i, c)
				}
			}
		})
	}
}

func TestBin_Center(t *testing.T) {
	bins := histogramBins(&chart.Spec{Traces: []chart.Trace{
		{Type: chart.TraceHistogram, Bins: 30, X: []chart.Number{12.5}},
	}})

	if got := bins[0][0].Center(); got != 12.5 {
		t.Errorf("Expected a single bin centred on 12.5, got %v", got)
	}
}
