// Package render turns a pipeline report into something a person can look
// at: an indented JSON document, an interactive HTML page, PNG previews or a
// terminal plot. Renderers only read chart specifications; every chart
// decision has already been made by the time a report gets here.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
)

// Format names an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
	FormatText Format = "text"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// validFormats lists the accepted output formats
var validFormats = map[Format]struct{}{
	FormatJSON: {},
	FormatHTML: {},
	FormatPNG:  {},
	FormatText: {},
}

// ParseFormat parses an output format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := validFormats[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Streamable reports whether the format renders to a single stream. PNG
// previews are one file per chart and need a directory.
func (f Format) Streamable() bool {
	return f != FormatPNG
}

// Write renders report in a streamable format.
func Write(w io.Writer, format Format, report *pipeline.Report, title string) error {
	switch format {
	case FormatJSON:
		return JSON(w, report)
	case FormatHTML:
		return HTML(w, report, title)
	case FormatText:
		return Text(w, report)
	default:
		return fmt.Errorf("%w: %q cannot be written to a stream", ErrUnknownFormat, format)
	}
}

// value returns v for a renderer, or nil when it is not finite.
func value(v chart.Number) any {
	if !v.Finite() {
		return nil
	}
	return v.Float()
}

// finiteRange returns the range of the finite values.
func finiteRange(values []chart.Number) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !v.Finite() {
			continue
		}
		lo = math.Min(lo, v.Float())
		hi = math.Max(hi, v.Float())
	}
	return lo, hi, !math.IsInf(lo, 1)
}

// isSegmented reports whether spec draws one line as a run of two-point
// segment traces.
func isSegmented(spec *chart.Spec) bool {
	if len(spec.Traces) == 0 {
		return false
	}
	for _, trace := range spec.Traces {
		if trace.Type != chart.TraceScatter || trace.ShowLegend == nil || *trace.ShowLegend || len(trace.Y) != 2 {
			return false
		}
	}
	return true
}
