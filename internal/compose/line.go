package compose

import (
	"time"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/transform"
)

// SegmentOptions configures a segment-coloured line chart.
type SegmentOptions struct {
	Threshold  float64
	TickFormat string
	TickAngle  int

	// ThresholdLine, when set, draws a horizontal line at Threshold across the
	// x range of the series.
	ThresholdLine *chart.Line
}

// SegmentedLine draws one two-point trace per adjacent pair of readings,
// coloured by whether either endpoint crosses the threshold. A category series
// is drawn over its labels in row order.
func SegmentedLine(kind string, labels Labels, series transform.Series, opts SegmentOptions) *chart.Spec {
	spec := newSpec(kind, labels, chart.Height2D)
	categorical := series.Categorical()
	if categorical {
		spec.Layout.XAxis = categoryAxis(labels.XTitle, opts.TickAngle, series.Labels)
	} else {
		spec.Layout.XAxis = timeAxis(labels.XTitle, opts.TickAngle)
		spec.Layout.XAxis.TickFormat = opts.TickFormat
	}

	for seg, level := range series.Segments(opts.Threshold) {
		trace := chart.Trace{
			Type:       chart.TraceScatter,
			Mode:       chart.ModeLines,
			Y:          chart.Numbers([]float64{seg.From.Value, seg.To.Value}),
			Line:       &chart.Line{Color: levelColor(level == transform.LevelAlert), Width: DefaultLineWidth},
			ShowLegend: chart.Bool(false),
		}
		if categorical {
			trace.X = []chart.Number{chart.Number(seg.From.Index), chart.Number(seg.To.Index)}
		} else {
			trace.Time = []time.Time{seg.From.Time, seg.To.Time}
		}
		spec.Traces = append(spec.Traces, trace)
	}

	if opts.ThresholdLine != nil && categorical && series.Len() > 0 {
		spec.Layout.Shapes = append(spec.Layout.Shapes, chart.Shape{
			X0:   0,
			X1:   chart.Number(series.Len() - 1),
			Y0:   chart.Number(opts.Threshold),
			Y1:   chart.Number(opts.Threshold),
			Line: *opts.ThresholdLine,
		})
	}
	if opts.ThresholdLine != nil && !categorical {
		if start, end, ok := series.Span(); ok {
			spec.Layout.Shapes = append(spec.Layout.Shapes, chart.Shape{
				Time0: &start,
				Time1: &end,
				Y0:    chart.Number(opts.Threshold),
				Y1:    chart.Number(opts.Threshold),
				Line:  *opts.ThresholdLine,
			})
		}
	}
	return spec
}

// TimeLine draws a single series against time, or against its labels for a
// category series.
func TimeLine(kind string, labels Labels, series transform.Series, style LineStyle, tickAngle int) *chart.Spec {
	spec := newSpec(kind, labels, chart.Height2D)

	trace := style.trace()
	if series.Categorical() {
		spec.Layout.XAxis = categoryAxis(labels.XTitle, tickAngle, series.Labels)
		trace.X = positions(series.Len())
	} else {
		spec.Layout.XAxis = timeAxis(labels.XTitle, tickAngle)
		trace.Time = series.Times
	}
	trace.Y = chart.Numbers(series.Values)
	spec.Traces = append(spec.Traces, trace)

	return spec
}

// AxisSeries is one side of a dual-axis chart.
type AxisSeries struct {
	Style LineStyle
	Title string // Axis title, drawn in the series colour
}

// DualAxis draws two independently scaled series over one time axis. The
// legend sits horizontally above the plot area.
func DualAxis(kind string, labels Labels, dual transform.Dual, primary, secondary AxisSeries) *chart.Spec {
	spec := newSpec(kind, labels, chart.Height2D)
	if dual.Labels != nil {
		spec.Layout.XAxis = categoryAxis(labels.XTitle, 0, dual.Labels)
	} else {
		spec.Layout.XAxis = timeAxis(labels.XTitle, 0)
	}

	spec.Layout.YAxis = gridAxis(primary.Title)
	spec.Layout.YAxis.Color = primary.Style.Color

	y2 := gridAxis(secondary.Title)
	y2.Color = secondary.Style.Color
	spec.Layout.Y2Axis = &y2

	spec.Layout.Legend = &chart.Legend{
		Orientation: "h",
		YAnchor:     "bottom",
		Y:           1.02,
		XAnchor:     "right",
		X:           1,
	}

	first := primary.Style.trace()
	first.Y = chart.Numbers(dual.Primary)
	first.Axis = chart.AxisPrimary

	second := secondary.Style.trace()
	second.Y = chart.Numbers(dual.Secondary)
	second.Axis = chart.AxisSecondary

	if dual.Labels != nil {
		first.X = positions(dual.Len())
		second.X = positions(dual.Len())
	} else {
		first.Time = dual.Times
		second.Time = dual.Times
	}

	spec.Traces = append(spec.Traces, first, second)
	return spec
}
