// Package chart defines the declarative chart specification handed to
// renderers. A Spec describes what to draw, never how: traces carry data and
// styling, Layout carries titles, axes, legend, shapes and annotations.
package chart

import (
	"time"
)

const (
	Height2D = 400 // Fixed height of every 2D chart in pixels
	Height3D = 600 // Fixed height of the 3D scatter chart in pixels

	TemplatePlotlyWhite = "plotly_white" // Light theme with white background
	GridColor           = "lightgrey"    // Colour of grid lines on every axis
)

// TraceType identifies how a trace is drawn.
type TraceType string

const (
	TraceHistogram TraceType = "histogram" // Frequency distribution of X
	TraceScatter   TraceType = "scatter"   // 2D line and/or markers over X or Time
	TraceScatter3D TraceType = "scatter3d" // 3D point cloud over X, Y, Z
)

// Mode selects lines, markers or both for scatter traces.
type Mode string

const (
	ModeLines        Mode = "lines"
	ModeMarkers      Mode = "markers"
	ModeLinesMarkers Mode = "lines+markers"
)

// AxisRef names the y axis a trace is plotted against.
type AxisRef string

const (
	AxisPrimary   AxisRef = "y"
	AxisSecondary AxisRef = "y2"
)

// Ref is the coordinate system of a shape or annotation coordinate.
type Ref string

const (
	RefData  Ref = ""      // Data coordinates (the default)
	RefPaper Ref = "paper" // Fraction of the plot area, 0 at the bottom/left, 1 at the top/right
)

// Spec is one fully specified chart.
type Spec struct {
	Kind   string  `json:"kind"`   // Chart kind identifier that produced this spec
	Traces []Trace `json:"traces"` // Data series, drawn in order
	Layout Layout  `json:"layout"` // Titles, axes, legend and decorations
}

// Trace is a single data series.
type Trace struct {
	Type       TraceType   `json:"type"`
	Name       string      `json:"name,omitempty"`       // Legend entry
	Mode       Mode        `json:"mode,omitempty"`       // Scatter traces only
	Time       []time.Time `json:"time,omitempty"`       // X values of time series
	X          []Number    `json:"x,omitempty"`          // X values of histograms, 3D traces and category series
	Y          []Number    `json:"y,omitempty"`          // Y values
	Z          []Number    `json:"z,omitempty"`          // Z values of 3D traces
	Bins       int         `json:"bins,omitempty"`       // Requested number of histogram bins
	Opacity    Number      `json:"opacity,omitempty"`    // Trace opacity, 0 means opaque
	Line       *Line       `json:"line,omitempty"`       // Line styling
	Marker     *Marker     `json:"marker,omitempty"`     // Marker or bar styling
	Axis       AxisRef     `json:"axis,omitempty"`       // Y axis, primary when empty
	ShowLegend *bool       `json:"showLegend,omitempty"` // Overrides the renderer default when set
}

// Line styles a line or a shape outline.
type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
	Dash  string `json:"dash,omitempty"` // "dash" for dashed lines, solid when empty
}

// Marker styles points and bars. When Values is set the marker colour is a
// continuous scale over Values instead of the fixed Color.
type Marker struct {
	Color      string   `json:"color,omitempty"`
	Size       int      `json:"size,omitempty"`
	Values     []Number `json:"values,omitempty"`     // Per-point colour dimension
	ColorTitle string   `json:"colorTitle,omitempty"` // Title of the colour scale
}

// Layout holds everything that is not data.
type Layout struct {
	Title       string       `json:"title"`
	Height      int          `json:"height"`
	Template    string       `json:"template"`
	BarMode     string       `json:"barMode,omitempty"` // "overlay" to draw histograms on top of each other
	XAxis       Axis         `json:"xAxis"`
	YAxis       Axis         `json:"yAxis"`
	Y2Axis      *Axis        `json:"y2Axis,omitempty"` // Secondary y axis on the right side
	Scene       *Scene       `json:"scene,omitempty"`  // 3D axes
	Legend      *Legend      `json:"legend,omitempty"`
	Shapes      []Shape      `json:"shapes,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Axis configures one axis.
type Axis struct {
	Title      string `json:"title,omitempty"`
	TickFormat string `json:"tickFormat,omitempty"` // strftime-style format of time ticks
	TickAngle  int    `json:"tickAngle,omitempty"`  // Tick label rotation in degrees
	ShowGrid   bool   `json:"showGrid,omitempty"`
	GridColor  string `json:"gridColor,omitempty"`
	Color      string `json:"color,omitempty"` // Colour of the title and tick labels
	Time       bool   `json:"time,omitempty"`  // Values are instants

	// Categories labels a category axis. X values are positions into it.
	Categories []string `json:"categories,omitempty"`
}

// Scene holds the axis titles of a 3D chart.
type Scene struct {
	XAxis Axis `json:"xAxis"`
	YAxis Axis `json:"yAxis"`
	ZAxis Axis `json:"zAxis"`
}

// Legend configures the legend box. Coordinates are in paper units.
type Legend struct {
	Title       string `json:"title,omitempty"`
	Orientation string `json:"orientation,omitempty"` // "h" for a horizontal legend
	X           Number `json:"x,omitempty"`
	Y           Number `json:"y,omitempty"`
	XAnchor     string `json:"xAnchor,omitempty"`
	YAnchor     string `json:"yAnchor,omitempty"`
}

// Shape is a straight reference line. Either the X or the Time coordinates
// are used on the x axis, depending on the chart.
//
// A horizontal line has Y0 equal to Y1, a vertical one X0 equal to X1.
type Shape struct {
	Name  string     `json:"name,omitempty"`
	XRef  Ref        `json:"xRef,omitempty"`
	YRef  Ref        `json:"yRef,omitempty"`
	X0    Number     `json:"x0,omitempty"`
	X1    Number     `json:"x1,omitempty"`
	Time0 *time.Time `json:"time0,omitempty"`
	Time1 *time.Time `json:"time1,omitempty"`
	Y0    Number     `json:"y0"`
	Y1    Number     `json:"y1"`
	Line  Line       `json:"line"`
}

// Horizontal reports whether the shape is a horizontal line in data
// coordinates.
func (s Shape) Horizontal() bool {
	return s.YRef == RefData && s.Y0.Finite() && s.Y0 == s.Y1
}

// Annotation is a text label with an optional arrow pointing at (X, Y).
// AX and AY offset the text from the arrow head in pixels.
type Annotation struct {
	X         Number `json:"x"`
	Y         Number `json:"y"`
	XRef      Ref    `json:"xRef,omitempty"`
	YRef      Ref    `json:"yRef,omitempty"`
	Text      string `json:"text"`
	ShowArrow bool   `json:"showArrow"`
	ArrowHead int    `json:"arrowHead,omitempty"`
	AX        int    `json:"ax,omitempty"`
	AY        int    `json:"ay,omitempty"`
}

// Bool returns a pointer to b, for optional flags such as Trace.ShowLegend.
func Bool(b bool) *bool {
	return &b
}
