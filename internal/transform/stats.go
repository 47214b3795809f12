package transform

import (
	"math"
	"slices"
)

// Summary holds the central tendency of a column.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
}

// Summarize computes the mean and median of values. Count is the number of
// values taken into account, NaN cells excluded.
func Summarize(values []float64) Summary {
	filled := present(values)
	return Summary{
		Count:  len(filled),
		Mean:   Mean(filled),
		Median: Median(filled),
	}
}

// Mean returns the arithmetic mean. NaN marks an empty cell and is skipped;
// infinities follow IEEE arithmetic. The mean of no values is NaN.
func Mean(values []float64) float64 {
	var (
		sum   float64
		count int
	)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// Median returns the middle value, or the mean of the two middle values for an
// even count. NaN cells are skipped. The median of no values is NaN.
func Median(values []float64) float64 {
	sorted := present(values)
	if len(sorted) == 0 {
		return math.NaN()
	}
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// present returns a copy of values without NaN.
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
