package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
)

const (
	textPlotHeight = 10
	textPlotWidth  = 70
)

// Text writes report as terminal plots, one per series. Point clouds are
// summarised by their size.
func Text(w io.Writer, report *pipeline.Report) error {
	var sb strings.Builder

	for _, warning := range report.Warnings {
		fmt.Fprintf(&sb, "warning: %s\n", warning)
	}

	for _, slot := range report.Slots {
		fmt.Fprintf(&sb, "\n== %s ==\n", slot.DisplayName())
		if slot.Error != nil {
			fmt.Fprintf(&sb, "%s\n", slot.Error.Message)
			continue
		}
		writeTextPlots(&sb, slot.Spec)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing plots: %w", err)
	}
	return nil
}

func writeTextPlots(sb *strings.Builder, spec *chart.Spec) {
	switch {
	case spec.Layout.Scene != nil:
		for _, trace := range spec.Traces {
			fmt.Fprintf(sb, "%d points\n", len(trace.X))
		}

	case hasHistogram(spec):
		bins := histogramBins(spec)
		for i, trace := range spec.Traces {
			if bins[i] == nil {
				continue
			}
			counts := make([]float64, len(bins[i]))
			for j, bin := range bins[i] {
				counts[j] = float64(bin.Count)
			}
			caption := fmt.Sprintf("%s (%s to %s)", traceName(trace, spec),
				formatNumber(bins[i][0].Start, 0.01), formatNumber(bins[i][len(bins[i])-1].End, 0.01))
			plotText(sb, counts, caption)
		}

	case isSegmented(spec):
		// one line drawn as segments: join them back up
		var values []chart.Number
		for i, trace := range spec.Traces {
			if i == 0 {
				values = append(values, trace.Y[0])
			}
			values = append(values, trace.Y[1])
		}
		plotText(sb, finite(values), spec.Layout.YAxis.Title)

	default:
		for _, trace := range spec.Traces {
			plotText(sb, finite(trace.Y), traceName(trace, spec))
		}
	}
}

func plotText(sb *strings.Builder, data []float64, caption string) {
	if len(data) == 0 {
		sb.WriteString("no data\n")
		return
	}

	sb.WriteString(asciigraph.Plot(data,
		asciigraph.Height(textPlotHeight),
		asciigraph.Width(textPlotWidth),
		asciigraph.Caption(caption),
	))
	sb.WriteString("\n")
}

func traceName(trace chart.Trace, spec *chart.Spec) string {
	if trace.Name != "" {
		return trace.Name
	}
	return spec.Layout.YAxis.Title
}

func finite(values []chart.Number) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Finite() {
			out = append(out, v.Float())
		}
	}
	return out
}
