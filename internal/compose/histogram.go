package compose

import (
	"fmt"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
)

// HistogramSeries is one distribution drawn as a histogram trace.
type HistogramSeries struct {
	Name    string
	Values  []float64
	Color   string
	Opacity float64
}

// HistogramOptions configures the bars and legend of a histogram chart.
type HistogramOptions struct {
	Bins    int
	BarMode string // BarModeOverlay to draw series on top of each other
	Legend  *chart.Legend
}

// Histogram builds a distribution chart with one trace per series.
func Histogram(kind string, labels Labels, series []HistogramSeries, opts HistogramOptions) *chart.Spec {
	spec := newSpec(kind, labels, chart.Height2D)
	spec.Layout.BarMode = opts.BarMode
	spec.Layout.Legend = opts.Legend

	for _, s := range series {
		spec.Traces = append(spec.Traces, chart.Trace{
			Type:    chart.TraceHistogram,
			Name:    s.Name,
			X:       chart.Numbers(s.Values),
			Bins:    opts.Bins,
			Opacity: chart.Number(s.Opacity),
			Marker:  &chart.Marker{Color: s.Color},
		})
	}
	return spec
}

// Reference is a vertical marker line across the full plot height with a text
// annotation, e.g. the mean of the distribution.
type Reference struct {
	Name   string
	Value  float64
	Color  string
	Format string  // fmt verb applied to Value for the annotation text
	Y      float64 // Annotation height as a fraction of the plot height
	AX, AY int     // Annotation text offset from the arrow head in pixels
}

// AnnotatedHistogram builds a single-series histogram with reference lines.
// Annotations are offset sideways so their text does not cover the bars.
func AnnotatedHistogram(kind string, labels Labels, series HistogramSeries, refs []Reference, opts HistogramOptions) *chart.Spec {
	spec := Histogram(kind, labels, []HistogramSeries{series}, opts)

	for _, ref := range refs {
		spec.Layout.Shapes = append(spec.Layout.Shapes, chart.Shape{
			Name: ref.Name,
			YRef: chart.RefPaper,
			X0:   chart.Number(ref.Value),
			X1:   chart.Number(ref.Value),
			Y0:   0,
			Y1:   1,
			Line: chart.Line{Color: ref.Color, Width: 2, Dash: "dash"},
		})
		spec.Layout.Annotations = append(spec.Layout.Annotations, chart.Annotation{
			X:         chart.Number(ref.Value),
			Y:         chart.Number(ref.Y),
			YRef:      chart.RefPaper,
			Text:      fmt.Sprintf(ref.Format, ref.Value),
			ShowArrow: true,
			ArrowHead: 1,
			AX:        ref.AX,
			AY:        ref.AY,
		})
	}
	return spec
}
