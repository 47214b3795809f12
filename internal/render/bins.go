package render

import (
	"math"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
)

const defaultBins = 20

// Bin is one histogram bar over [Start, End).
type Bin struct {
	Start, End float64
	Count      int
}

// Center returns the midpoint of the bin.
func (b Bin) Center() float64 {
	return (b.Start + b.End) / 2
}

// binning is the shared bin layout of every histogram trace of a chart, so
// overlaid distributions line up.
type binning struct {
	min, width float64
	n          int
}

// newBinning spreads n bins over the finite range of all histogram traces.
// The last bin is closed on the right.
func newBinning(traces []chart.Trace, n int) (binning, bool) {
	if n <= 0 {
		n = defaultBins
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, trace := range traces {
		if trace.Type != chart.TraceHistogram {
			continue
		}
		for _, v := range trace.X {
			if !v.Finite() {
				continue
			}
			lo = math.Min(lo, v.Float())
			hi = math.Max(hi, v.Float())
		}
	}
	if math.IsInf(lo, 1) {
		return binning{}, false
	}

	width := (hi - lo) / float64(n)
	if width == 0 {
		// every value is equal: one bin of unit width centred on it
		return binning{min: lo - 0.5, width: 1, n: 1}, true
	}
	return binning{min: lo, width: width, n: n}, true
}

// count bins the finite values of one trace.
func (b binning) count(values []chart.Number) []Bin {
	bins := make([]Bin, b.n)
	for i := range bins {
		bins[i].Start = b.min + float64(i)*b.width
		bins[i].End = bins[i].Start + b.width
	}

	for _, v := range values {
		if !v.Finite() {
			continue
		}
		i := int((v.Float() - b.min) / b.width)
		if i >= b.n {
			i = b.n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Count++
	}
	return bins
}

// histogramBins bins every histogram trace of spec on a shared layout. The
// result is indexed like spec.Traces; non-histogram traces get nil.
func histogramBins(spec *chart.Spec) [][]Bin {
	var n int
	for _, trace := range spec.Traces {
		n = max(n, trace.Bins)
	}

	layout, ok := newBinning(spec.Traces, n)
	out := make([][]Bin, len(spec.Traces))
	if !ok {
		return out
	}

	for i, trace := range spec.Traces {
		if trace.Type == chart.TraceHistogram {
			out[i] = layout.count(trace.X)
		}
	}
	return out
}
