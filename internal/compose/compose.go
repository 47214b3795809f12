// Package compose assembles transform output into chart specifications.
// Every builder is a pure function: same input, same Spec.
package compose

import (
	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
)

const (
	ColorAlert  = "orangered" // Segments with an endpoint above the threshold
	ColorNormal = "seagreen"  // All other segments

	DefaultLineWidth  = 3
	DefaultMarkerSize = 7
	DefaultTickAngle  = 45

	BarModeOverlay = "overlay"
)

// Labels are the literal texts of a chart.
type Labels struct {
	Title  string
	XTitle string
	YTitle string
}

// LineStyle describes how a single series is drawn.
type LineStyle struct {
	Name       string
	Color      string
	Mode       chart.Mode // Defaults to lines
	Width      int        // Defaults to DefaultLineWidth
	MarkerSize int        // Defaults to DefaultMarkerSize
}

func (s LineStyle) trace() chart.Trace {
	mode := s.Mode
	if mode == "" {
		mode = chart.ModeLines
	}
	width := s.Width
	if width == 0 {
		width = DefaultLineWidth
	}
	size := s.MarkerSize
	if size == 0 {
		size = DefaultMarkerSize
	}

	return chart.Trace{
		Type:   chart.TraceScatter,
		Name:   s.Name,
		Mode:   mode,
		Line:   &chart.Line{Color: s.Color, Width: width},
		Marker: &chart.Marker{Color: s.Color, Size: size},
	}
}

// newSpec returns a spec with the house layout: white template, fixed height
// and light grey grid lines on both axes.
func newSpec(kind string, labels Labels, height int) *chart.Spec {
	return &chart.Spec{
		Kind:   kind,
		Traces: []chart.Trace{},
		Layout: chart.Layout{
			Title:    labels.Title,
			Height:   height,
			Template: chart.TemplatePlotlyWhite,
			XAxis:    gridAxis(labels.XTitle),
			YAxis:    gridAxis(labels.YTitle),
		},
	}
}

func gridAxis(title string) chart.Axis {
	return chart.Axis{
		Title:     title,
		ShowGrid:  true,
		GridColor: chart.GridColor,
	}
}

func timeAxis(title string, tickAngle int) chart.Axis {
	axis := gridAxis(title)
	axis.Time = true
	axis.TickAngle = tickAngle
	return axis
}

// categoryAxis is the x axis of a series whose timestamps stayed text. The
// labels are spread evenly in row order.
func categoryAxis(title string, tickAngle int, labels []string) chart.Axis {
	axis := gridAxis(title)
	axis.TickAngle = tickAngle
	axis.Categories = labels
	return axis
}

// positions returns the x values 0..n-1 of a category series.
func positions(n int) []chart.Number {
	out := make([]chart.Number, n)
	for i := range out {
		out[i] = chart.Number(i)
	}
	return out
}

func levelColor(alert bool) string {
	if alert {
		return ColorAlert
	}
	return ColorNormal
}
