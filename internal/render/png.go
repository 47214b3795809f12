package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/vehicle-dashboard/internal/chart"
	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
)

const (
	dpi            = 72.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 100.0
	markerRadius   = 2.5
	dashLength     = 6
	dashGap        = 4

	defaultWidth = 800

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 60
	defaultRightBorder  = 60

	defaultTimeFormat     = "15:04:05"
	defaultDatetimeFormat = time.DateTime
)

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // Space for the title
	Left   int // Space for the primary y scale
	Bottom int // Space for the x scale and the information bar
	Right  int // Space for the secondary y scale
}

// RenderConfig holds all configuration options of PNG previews
type RenderConfig struct {
	Width int // Image width in pixels, the height comes from the chart

	// Time display configuration
	TimeFormat     string         // Format string for time ticks (e.g. "15:04:05")
	DatetimeFormat string         // Format string for date/time display
	Location       *time.Location // Timezone for time display

	// Visual configuration
	FontSize     float64    // Font size in points
	ColorTheme   ColorTheme // Colour scale of point clouds
	ColorMapSize int        // Number of colors in gradient (0 for default)

	// Border configuration
	BorderConfig BorderConfig
}

// PNGRenderer draws static previews of chart specifications. Text is drawn
// with the Go font, which has no Arabic glyphs, so the image title is the
// chart name passed by the caller and axis titles are left out.
type PNGRenderer struct {
	config RenderConfig
	font   *truetype.Font
	logger *slog.Logger
}

// NewPNGRenderer creates a new renderer with the given configuration
func NewPNGRenderer(config RenderConfig, logger *slog.Logger) (*PNGRenderer, error) {
	// Set defaults for zero values
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.TimeFormat == "" {
		config.TimeFormat = defaultTimeFormat
	}
	if config.DatetimeFormat == "" {
		config.DatetimeFormat = defaultDatetimeFormat
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.ColorTheme == "" {
		config.ColorTheme = ViridisTheme
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	return &PNGRenderer{
		config: config,
		font:   parsedFont,
		logger: logger.With(slog.String("component", "png")),
	}, nil
}

// Render draws spec under the given title.
func (r *PNGRenderer) Render(title string, spec *chart.Spec) (*image.RGBA, error) {
	height := spec.Layout.Height
	if height == 0 {
		height = chart.Height2D
	}
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, height))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	b := r.config.BorderConfig
	area := image.Rect(b.Left, b.Top, r.config.Width-b.Right, height-b.Bottom)
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return nil, fmt.Errorf("image of %dx%d leaves no room for the plot", r.config.Width, height)
	}

	p := newPlot(spec, area, r.config.ColorTheme, r.config.ColorMapSize)

	ann := newAnnotator(r.font, annotatorConfig{
		TimeFormat:     r.config.TimeFormat,
		DatetimeFormat: r.config.DatetimeFormat,
		Location:       r.config.Location,
		FontSize:       r.config.FontSize,
		Borders:        r.config.BorderConfig,
	})
	defer ann.Close()

	// First draw grid and annotations, then the data on top
	if err := ann.annotate(img, title, p); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}
	p.draw(img)

	return img, nil
}

// Encode renders spec and writes it as PNG.
func (r *PNGRenderer) Encode(w io.Writer, title string, spec *chart.Spec) error {
	img, err := r.Render(title, spec)
	if err != nil {
		return err
	}
	if err = png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	return nil
}

// WriteDir writes one PNG file per drawn chart of report into dir and
// returns the paths written. Failed slots are skipped.
func (r *PNGRenderer) WriteDir(dir string, report *pipeline.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var paths []string
	for _, slot := range report.Slots {
		if slot.Spec == nil {
			r.logger.Warn("chart not drawn",
				slog.String("kind", string(slot.Kind)),
				slog.String("reason", slot.Error.Message))
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.png", slot.Number, slot.Kind))
		if err := r.writeFile(path, slot); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		r.logger.Debug("chart written", slog.String("kind", string(slot.Kind)), slog.String("path", path))
	}
	return paths, nil
}

func (r *PNGRenderer) writeFile(path string, slot pipeline.Slot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer closeWithError(f, &err)

	return r.Encode(f, slot.DisplayName(), slot.Spec)
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// axisRange maps values onto pixels along one axis.
type axisRange struct {
	min, max float64
	lo, hi   int // Pixel positions of min and max
}

func (a axisRange) valid() bool {
	return a.max > a.min
}

func (a axisRange) pixel(v float64) int {
	return int(math.Round(a.at(v)))
}

// at is the unrounded pixel position of v.
func (a axisRange) at(v float64) float64 {
	return float64(a.lo) + (v-a.min)/(a.max-a.min)*float64(a.hi-a.lo)
}

// widen returns a usable range for [lo, hi], padding a single value.
func widen(lo, hi float64) (float64, float64) {
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.05, 1)
		return lo - pad, hi + pad
	}
	return lo, hi
}

// plot is a chart specification laid out on a pixel area.
type plot struct {
	spec       *chart.Spec
	area       image.Rectangle
	time       bool     // x axis holds instants, in Unix milliseconds
	categories []string // x axis labels by position, when timestamps were not parsed
	x          axisRange
	y          axisRange
	y2         *axisRange
	bins       [][]Bin
	colors     *ColorMapper
	points     int
	start      time.Time
	end        time.Time
	hasTime    bool
}

func newPlot(spec *chart.Spec, area image.Rectangle, theme ColorTheme, mapSize int) *plot {
	p := &plot{spec: spec, area: area}

	xs := axisRange{min: math.Inf(1), max: math.Inf(-1), lo: area.Min.X, hi: area.Max.X - 1}
	ys := axisRange{min: math.Inf(1), max: math.Inf(-1), lo: area.Max.Y - 1, hi: area.Min.Y}
	y2s := ys

	grow := func(r *axisRange, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		r.min = math.Min(r.min, v)
		r.max = math.Max(r.max, v)
	}

	switch {
	case spec.Layout.Scene != nil:
		for _, trace := range spec.Traces {
			for i := range trace.X {
				if i < len(trace.Y) && trace.X[i].Finite() && trace.Y[i].Finite() {
					grow(&xs, trace.X[i].Float())
					grow(&ys, trace.Y[i].Float())
					p.points++
				}
			}
			if trace.Marker != nil {
				if lo, hi, ok := finiteRange(trace.Marker.Values); ok && p.colors == nil {
					p.colors = NewColorMapperWithSize(theme, lo, hi, mapSize)
				}
			}
		}

	case hasHistogram(spec):
		p.bins = histogramBins(spec)
		for _, bins := range p.bins {
			for _, bin := range bins {
				grow(&xs, bin.Start)
				grow(&xs, bin.End)
				grow(&ys, float64(bin.Count))
				p.points += bin.Count
			}
		}
		grow(&ys, 0)
		for _, shape := range spec.Layout.Shapes {
			if shape.Time0 == nil {
				grow(&xs, shape.X0.Float())
			}
		}

	default:
		p.categories = spec.Layout.XAxis.Categories
		p.time = p.categories == nil
		for _, trace := range spec.Traces {
			target := &ys
			if trace.Axis == chart.AxisSecondary {
				target = &y2s
				p.y2 = &y2s
			}
			for i := range trace.Y {
				if x, ok := p.xAt(trace, i); ok {
					grow(&xs, x)
					grow(target, trace.Y[i].Float())
				}
			}
			for _, t := range trace.Time {
				p.observe(t)
			}
			p.points += len(trace.Y)
		}
		for _, shape := range spec.Layout.Shapes {
			if x0, x1, ok := p.span(shape); ok {
				grow(&xs, x0)
				grow(&xs, x1)
				grow(&ys, shape.Y0.Float())
			}
			if shape.Time0 != nil && shape.Time1 != nil {
				p.observe(*shape.Time0)
				p.observe(*shape.Time1)
			}
		}
	}

	if isSegmented(spec) {
		// adjacent segments share their endpoints
		p.points = len(spec.Traces) + 1
	}

	if p.time && xs.min == xs.max {
		// a single instant gets a minute around it
		xs.min, xs.max = xs.min-30_000, xs.max+30_000
	}
	for _, r := range []*axisRange{&xs, &ys, &y2s} {
		if !math.IsInf(r.min, 1) {
			r.min, r.max = widen(r.min, r.max)
		}
	}
	p.x, p.y = xs, ys
	return p
}

func (p *plot) observe(t time.Time) {
	if !p.hasTime || t.Before(p.start) {
		p.start = t
	}
	if !p.hasTime || t.After(p.end) {
		p.end = t
	}
	p.hasTime = true
}

// xAt returns the x value of the i-th reading of a line trace.
func (p *plot) xAt(trace chart.Trace, i int) (float64, bool) {
	if p.time {
		if i < len(trace.Time) {
			return float64(trace.Time[i].UnixMilli()), true
		}
		return 0, false
	}
	if i < len(trace.X) && trace.X[i].Finite() {
		return trace.X[i].Float(), true
	}
	return 0, false
}

// span returns the x extent of a horizontal shape.
func (p *plot) span(shape chart.Shape) (x0, x1 float64, ok bool) {
	switch {
	case !shape.Horizontal():
		return 0, 0, false
	case p.time && shape.Time0 != nil && shape.Time1 != nil:
		return float64(shape.Time0.UnixMilli()), float64(shape.Time1.UnixMilli()), true
	case !p.time && shape.Time0 == nil && shape.X0.Finite() && shape.X1.Finite():
		return shape.X0.Float(), shape.X1.Float(), true
	default:
		return 0, 0, false
	}
}

// draw paints the data onto img, clipped to the plot area.
func (p *plot) draw(img *image.RGBA) {
	if !p.x.valid() || !p.y.valid() {
		return
	}

	dc := gg.NewContextForRGBA(img)
	dc.DrawRectangle(float64(p.area.Min.X), float64(p.area.Min.Y), float64(p.area.Dx()), float64(p.area.Dy()))
	dc.Clip()

	switch {
	case p.spec.Layout.Scene != nil:
		p.drawPoints(dc)
	case p.bins != nil:
		p.drawBars(dc)
		p.drawVerticalShapes(dc)
	default:
		p.drawHorizontalShapes(dc)
		p.drawLines(dc)
	}
}

func (p *plot) drawBars(dc *gg.Context) {
	base := p.y.at(0) + 1
	for i, bins := range p.bins {
		if bins == nil {
			continue
		}

		trace := p.spec.Traces[i]
		fill := colornames.Steelblue
		if trace.Marker != nil {
			fill = namedColor(trace.Marker.Color, fill)
		}
		dc.SetColor(withOpacity(fill, trace.Opacity.Float()))

		for _, bin := range bins {
			if bin.Count == 0 {
				continue
			}
			x0, x1 := p.x.at(bin.Start), p.x.at(bin.End)
			top := p.y.at(float64(bin.Count))
			dc.DrawRectangle(x0, top, x1-x0, base-top)
			dc.Fill()
		}
	}
}

func (p *plot) drawVerticalShapes(dc *gg.Context) {
	for _, shape := range p.spec.Layout.Shapes {
		if shape.Time0 != nil || !shape.X0.Finite() {
			continue
		}
		x := p.x.at(shape.X0.Float())
		dc.DrawLine(x, float64(p.area.Min.Y), x, float64(p.area.Max.Y))
		stroke(dc, namedColor(shape.Line.Color, colornames.Black), shape.Line.Width, shape.Line.Dash == dashType)
	}
}

func (p *plot) drawHorizontalShapes(dc *gg.Context) {
	for _, shape := range p.spec.Layout.Shapes {
		x0, x1, ok := p.span(shape)
		if !ok {
			continue
		}
		y := p.y.at(shape.Y0.Float())
		dc.DrawLine(p.x.at(x0), y, p.x.at(x1), y)
		stroke(dc, namedColor(shape.Line.Color, colornames.Black), shape.Line.Width, shape.Line.Dash == dashType)
	}
}

func (p *plot) drawLines(dc *gg.Context) {
	for _, trace := range p.spec.Traces {
		scale := p.y
		if trace.Axis == chart.AxisSecondary && p.y2 != nil {
			scale = *p.y2
		}
		if !scale.valid() {
			continue
		}

		c := colornames.Black
		width := 1
		if trace.Line != nil {
			c = namedColor(trace.Line.Color, c)
			width = trace.Line.Width
		}
		markers := trace.Mode == chart.ModeMarkers || trace.Mode == chart.ModeLinesMarkers
		lines := trace.Mode != chart.ModeMarkers

		var points []gg.Point
		gap := true
		for i := range trace.Y {
			x, ok := p.xAt(trace, i)
			if !ok || !trace.Y[i].Finite() {
				gap = true
				continue
			}

			pt := gg.Point{X: p.x.at(x), Y: scale.at(trace.Y[i].Float())}
			if gap {
				dc.MoveTo(pt.X, pt.Y)
			} else {
				dc.LineTo(pt.X, pt.Y)
			}
			points = append(points, pt)
			gap = false
		}

		if lines {
			stroke(dc, c, width, false)
		} else {
			dc.ClearPath()
		}
		if markers {
			dc.SetColor(c)
			for _, pt := range points {
				dc.DrawCircle(pt.X, pt.Y, markerRadius)
				dc.Fill()
			}
		}
	}
}

func (p *plot) drawPoints(dc *gg.Context) {
	for _, trace := range p.spec.Traces {
		for i := range trace.X {
			if i >= len(trace.Y) || !trace.X[i].Finite() || !trace.Y[i].Finite() {
				continue
			}

			var c color.Color = colornames.Steelblue
			if p.colors != nil && trace.Marker != nil && i < len(trace.Marker.Values) {
				c = p.colors.Color(trace.Marker.Values[i].Float())
			}
			dc.SetColor(c)
			dc.DrawCircle(p.x.at(trace.X[i].Float()), p.y.at(trace.Y[i].Float()), markerRadius)
			dc.Fill()
		}
	}
}

// stroke draws the current path. Dashed lines draw 6 pixels and skip 4.
func stroke(dc *gg.Context, c color.Color, width int, dashed bool) {
	dc.SetColor(c)
	dc.SetLineWidth(float64(max(width, 1)))
	if dashed {
		dc.SetDash(dashLength, dashGap)
	} else {
		dc.SetDash()
	}
	dc.Stroke()
}
