package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
)

const (
	defaultPageTitle = "Vehicle Dashboard"
	chartWidth       = "100%"
	dashType         = "dash"
	colorScaleStops  = 5
)

// HTML writes report as one self-contained page of interactive charts in
// display order. Failed slots are drawn as empty charts carrying the error
// message, so every selected kind keeps its place on the page.
func HTML(w io.Writer, report *pipeline.Report, title string) error {
	if title == "" {
		title = defaultPageTitle
	}

	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)

	if len(report.Warnings) > 0 {
		page.AddCharts(placeholder("warnings", "Warnings", strings.Join(report.Warnings, "\n")))
	}

	for _, slot := range report.Slots {
		page.AddCharts(slotChart(slot))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func slotChart(slot pipeline.Slot) components.Charter {
	if slot.Error != nil {
		return placeholder(string(slot.Kind), slot.DisplayName(), slot.Error.Message)
	}

	spec := slot.Spec
	switch {
	case spec.Layout.Scene != nil:
		return scatter3DChart(slot, spec)
	case hasHistogram(spec):
		return histogramChart(slot, spec)
	default:
		return lineChart(slot, spec)
	}
}

func placeholder(id, title, message string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: "chart-" + id,
			Width:   chartWidth,
			Height:  "120px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: message,
		}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
	)
	return line
}

func commonOptions(slot pipeline.Slot, spec *chart.Spec) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: "chart-" + string(slot.Kind),
			Width:   chartWidth,
			Height:  fmt.Sprintf("%dpx", spec.Layout.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    spec.Layout.Title,
			Subtitle: slot.Description,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithGridOpts(opts.Grid{
			Top:    "90",
			Bottom: "70",
		}),
	}
}

func legendOptions(spec *chart.Spec) opts.Legend {
	if isSegmented(spec) {
		return opts.Legend{Show: opts.Bool(false)}
	}

	legend := opts.Legend{Show: opts.Bool(true), Top: "40", Right: "10"}
	if l := spec.Layout.Legend; l != nil && l.Orientation != "h" {
		legend.Orient = "vertical"
		legend.Right = ""
		legend.Left = "60"
		legend.Top = "90"
	}
	return legend
}

func splitLine(axis chart.Axis) *opts.SplitLine {
	return &opts.SplitLine{
		Show:      opts.Bool(axis.ShowGrid),
		LineStyle: &opts.LineStyle{Color: axis.GridColor},
	}
}

func yAxis(axis chart.Axis) opts.YAxis {
	y := opts.YAxis{
		Name:      axis.Title,
		Type:      "value",
		Scale:     opts.Bool(true),
		SplitLine: splitLine(axis),
	}
	if axis.Color != "" {
		y.AxisLine = &opts.AxisLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: axis.Color},
		}
	}
	return y
}

func lineChart(slot pipeline.Slot, spec *chart.Spec) *charts.Line {
	line := charts.NewLine()

	x := opts.XAxis{
		Name:      spec.Layout.XAxis.Title,
		Type:      "time",
		SplitLine: splitLine(spec.Layout.XAxis),
		AxisLabel: &opts.AxisLabel{Rotate: float64(spec.Layout.XAxis.TickAngle)},
	}
	if categories := spec.Layout.XAxis.Categories; categories != nil {
		x.Type = "category"
		x.Data = categories
	}

	global := commonOptions(slot, spec)
	global = append(global,
		charts.WithLegendOpts(legendOptions(spec)),
		charts.WithXAxisOpts(x),
		charts.WithYAxisOpts(yAxis(spec.Layout.YAxis)),
	)
	line.SetGlobalOptions(global...)

	if spec.Layout.Y2Axis != nil {
		y2 := yAxis(*spec.Layout.Y2Axis)
		y2.Position = "right"
		line.ExtendYAxis(y2)
	}

	for i, trace := range spec.Traces {
		data := make([]opts.LineData, len(trace.Y))
		for j, y := range trace.Y {
			var x any
			switch {
			case j < len(trace.Time):
				x = trace.Time[j].UnixMilli()
			case j < len(trace.X):
				x = value(trace.X[j])
			}
			data[j] = opts.LineData{Value: []any{x, value(y)}}
		}

		series := lineSeriesOptions(trace)
		if i == 0 {
			series = append(series, horizontalMarkers(spec.Layout.Shapes)...)
		}
		line.AddSeries(trace.Name, data, series...)
	}
	return line
}

func lineSeriesOptions(trace chart.Trace) []charts.SeriesOpts {
	var yAxisIndex int
	if trace.Axis == chart.AxisSecondary {
		yAxisIndex = 1
	}

	series := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			YAxisIndex: yAxisIndex,
			ShowSymbol: opts.Bool(trace.Mode == chart.ModeMarkers || trace.Mode == chart.ModeLinesMarkers),
		}),
	}
	if trace.Line != nil {
		series = append(series,
			charts.WithLineStyleOpts(lineStyle(*trace.Line)),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: trace.Line.Color}),
		)
	}
	return series
}

func lineStyle(l chart.Line) opts.LineStyle {
	style := opts.LineStyle{
		Color: l.Color,
		Width: float32(l.Width),
	}
	if l.Dash == dashType {
		style.Type = "dashed"
	}
	return style
}

// horizontalMarkers turns horizontal reference lines into mark lines of the
// series they are attached to.
func horizontalMarkers(shapes []chart.Shape) []charts.SeriesOpts {
	var out []charts.SeriesOpts
	for _, shape := range shapes {
		if !shape.Horizontal() {
			continue
		}

		style := lineStyle(shape.Line)
		out = append(out,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  shape.Name,
				YAxis: shape.Y0.Float(),
			}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol:    []string{"none"},
				LineStyle: &style,
			}),
		)
	}
	return out
}

func hasHistogram(spec *chart.Spec) bool {
	for _, trace := range spec.Traces {
		if trace.Type == chart.TraceHistogram {
			return true
		}
	}
	return false
}

func histogramChart(slot pipeline.Slot, spec *chart.Spec) *charts.Bar {
	bar := charts.NewBar()

	global := commonOptions(slot, spec)
	global = append(global,
		charts.WithLegendOpts(legendOptions(spec)),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      spec.Layout.XAxis.Title,
			Type:      "value",
			Scale:     opts.Bool(true),
			SplitLine: splitLine(spec.Layout.XAxis),
		}),
		charts.WithYAxisOpts(yAxis(spec.Layout.YAxis)),
	)
	bar.SetGlobalOptions(global...)

	bins := histogramBins(spec)
	for i, trace := range spec.Traces {
		if bins[i] == nil {
			continue
		}

		data := make([]opts.BarData, len(bins[i]))
		for j, bin := range bins[i] {
			data[j] = opts.BarData{Value: []any{bin.Center(), bin.Count}}
		}

		style := opts.ItemStyle{}
		if trace.Marker != nil {
			style.Color = trace.Marker.Color
		}
		if trace.Opacity.Finite() && trace.Opacity > 0 {
			style.Opacity = opts.Float(float32(trace.Opacity))
		}

		series := []charts.SeriesOpts{
			charts.WithItemStyleOpts(style),
			charts.WithBarChartOpts(opts.BarChart{
				BarGap:         "-100%",
				BarCategoryGap: "0%",
			}),
		}
		if i == 0 {
			series = append(series, verticalMarkers(spec)...)
		}
		bar.AddSeries(trace.Name, data, series...)
	}
	return bar
}

// verticalMarkers draws the full-height reference lines of a distribution,
// labelled with the text of the matching annotation.
func verticalMarkers(spec *chart.Spec) []charts.SeriesOpts {
	var out []charts.SeriesOpts
	for i, shape := range spec.Layout.Shapes {
		if shape.Time0 != nil || !shape.X0.Finite() {
			continue
		}

		name := shape.Name
		if i < len(spec.Layout.Annotations) {
			name = spec.Layout.Annotations[i].Text
		}

		style := lineStyle(shape.Line)
		out = append(out,
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  name,
				XAxis: shape.X0.Float(),
			}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol:    []string{"none"},
				LineStyle: &style,
				Label: &opts.Label{
					Show:      opts.Bool(true),
					Formatter: "{b}",
				},
			}),
		)
	}
	return out
}

func scatter3DChart(slot pipeline.Slot, spec *chart.Spec) *charts.Scatter3D {
	scatter := charts.NewScatter3D()
	scene := spec.Layout.Scene

	global := commonOptions(slot, spec)
	global = append(global,
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: scene.XAxis.Title, Show: opts.Bool(true)}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: scene.YAxis.Title, Show: opts.Bool(true)}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: scene.ZAxis.Title, Show: opts.Bool(true)}),
	)

	for _, trace := range spec.Traces {
		if trace.Type != chart.TraceScatter3D {
			continue
		}

		var colors []chart.Number
		var colorTitle string
		if trace.Marker != nil {
			colors = trace.Marker.Values
			colorTitle = trace.Marker.ColorTitle
		}

		if lo, hi, ok := finiteRange(colors); ok {
			mapper := NewColorMapper(ViridisTheme, lo, hi)
			global = append(global, charts.WithVisualMapOpts(opts.VisualMap{
				Calculable: opts.Bool(true),
				Min:        float32(lo),
				Max:        float32(hi),
				Text:       []string{colorTitle},
				InRange:    &opts.VisualMapInRange{Color: mapper.Stops(colorScaleStops)},
			}))
		}

		data := make([]opts.Chart3DData, len(trace.X))
		for i := range trace.X {
			point := []any{value(trace.X[i]), at(trace.Y, i), at(trace.Z, i), at(colors, i)}
			data[i] = opts.Chart3DData{Value: point}
		}
		scatter.AddSeries(trace.Name, data)
	}

	scatter.SetGlobalOptions(global...)
	return scatter
}

func at(values []chart.Number, i int) any {
	if i >= len(values) {
		return nil
	}
	return value(values[i])
}
