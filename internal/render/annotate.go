package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
)

// Internal annotator implementation
type annotatorConfig struct {
	TimeFormat     string
	DatetimeFormat string
	Location       *time.Location
	FontSize       float64
	Borders        BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(parsedFont *truetype.Font, config annotatorConfig) *annotator {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, title string, p *plot) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawTitle(img, title); err != nil {
		return fmt.Errorf("drawing title: %w", err)
	}
	if p.x.valid() && p.y.valid() {
		if err := a.drawXScale(img, p); err != nil {
			return fmt.Errorf("drawing x scale: %w", err)
		}
		if err := a.drawYScale(img, p, p.y, false); err != nil {
			return fmt.Errorf("drawing y scale: %w", err)
		}
		if p.y2 != nil && p.y2.valid() {
			if err := a.drawYScale(img, p, *p.y2, true); err != nil {
				return fmt.Errorf("drawing secondary y scale: %w", err)
			}
		}
	}
	a.drawFrame(img, p.area)
	if err := a.drawInfoBar(img, p); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

func (a *annotator) fontHeight() (height, descent int) {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round(), metrics.Descent.Round()
}

func (a *annotator) drawTitle(img *image.RGBA, title string) error {
	if title == "" {
		return nil
	}

	fontHeight, descent := a.fontHeight()
	width := font.MeasureString(a.fontFace, title).Round()

	// Centered in the top border
	x := (img.Bounds().Dx() - width) / 2
	y := (a.config.Borders.Top+fontHeight)/2 - descent
	_, err := a.context.DrawString(title, freetype.Pt(max(x, 0), y))
	return err
}

func (a *annotator) drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, area.Max.Y, color.Black)
	}
	for y := area.Min.Y; y <= area.Max.Y; y++ {
		img.Set(area.Min.X-1, y, color.Black)
	}
}

func (a *annotator) drawXScale(img *image.RGBA, p *plot) error {
	fontHeight, _ := a.fontHeight()
	textY := p.area.Max.Y + tickMarkHeight + fontHeight

	grid := a.gridColor(p.spec.Layout.XAxis.ShowGrid, p.spec.Layout.XAxis.GridColor)

	for _, tick := range a.xTicks(p) {
		x := p.x.pixel(tick.value)
		if x < p.area.Min.X || x >= p.area.Max.X {
			continue
		}

		if grid != nil {
			for y := p.area.Min.Y; y < p.area.Max.Y; y++ {
				img.Set(x, y, grid)
			}
		}

		// Draw tick mark
		for y := p.area.Max.Y; y < p.area.Max.Y+tickMarkHeight; y++ {
			img.Set(x, y, color.Black)
		}

		width := font.MeasureString(a.fontFace, tick.label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(tick.label, pt); err != nil {
			return fmt.Errorf("drawing x label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawYScale(img *image.RGBA, p *plot, scale axisRange, right bool) error {
	fontHeight, descent := a.fontHeight()

	axis := p.spec.Layout.YAxis
	if right && p.spec.Layout.Y2Axis != nil {
		axis = *p.spec.Layout.Y2Axis
	}
	grid := a.gridColor(axis.ShowGrid && !right, axis.GridColor)

	a.context.SetSrc(image.NewUniform(namedColor(axis.Color, colornames.Black)))
	defer a.context.SetSrc(image.Black)

	step := calculateNiceStep(scale.max-scale.min, p.area.Dy())
	for v := math.Ceil(scale.min/step) * step; v <= scale.max; v += step {
		y := scale.pixel(v)

		if grid != nil {
			for x := p.area.Min.X; x < p.area.Max.X; x++ {
				img.Set(x, y, grid)
			}
		}

		label := formatNumber(v, step)
		textY := y + fontHeight/2 - descent

		if right {
			for x := p.area.Max.X; x < p.area.Max.X+tickMarkHeight; x++ {
				img.Set(x, y, color.Black)
			}
			pt := freetype.Pt(p.area.Max.X+tickMarkHeight+3, textY)
			if _, err := a.context.DrawString(label, pt); err != nil {
				return fmt.Errorf("drawing y label: %w", err)
			}
			continue
		}

		for x := p.area.Min.X - tickMarkHeight; x < p.area.Min.X; x++ {
			img.Set(x, y, color.Black)
		}
		width := font.MeasureString(a.fontFace, label).Round()
		pt := freetype.Pt(p.area.Min.X-tickMarkHeight-3-width, textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing y label: %w", err)
		}
	}
	return nil
}

func (a *annotator) gridColor(show bool, name string) color.Color {
	if !show {
		return nil
	}
	return namedColor(name, colornames.Lightgrey)
}

type tick struct {
	value float64
	label string
}

func (a *annotator) xTicks(p *plot) []tick {
	var ticks []tick

	if p.categories != nil {
		// every stride-th label, about one per pixelsPerLabel pixels
		slots := math.Max(float64(p.area.Dx())/pixelsPerLabel, 1)
		stride := max(int(math.Ceil(float64(len(p.categories))/slots)), 1)
		for i := 0; i < len(p.categories); i += stride {
			ticks = append(ticks, tick{value: float64(i), label: p.categories[i]})
		}
		return ticks
	}

	if !p.time {
		step := calculateNiceStep(p.x.max-p.x.min, p.area.Dx())
		for v := math.Ceil(p.x.min/step) * step; v <= p.x.max; v += step {
			ticks = append(ticks, tick{value: v, label: formatNumber(v, step)})
		}
		return ticks
	}

	start := time.UnixMilli(int64(p.x.min)).In(a.config.Location)
	end := time.UnixMilli(int64(p.x.max)).In(a.config.Location)
	step := calculateNiceTimeStep(end.Sub(start), p.area.Dx())

	for t := start.Truncate(step); !t.After(end); t = t.Add(step) {
		if t.Before(start) {
			continue
		}
		ticks = append(ticks, tick{
			value: float64(t.UnixMilli()),
			label: t.Format(a.config.TimeFormat),
		})
	}
	return ticks
}

func (a *annotator) drawInfoBar(img *image.RGBA, p *plot) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Points: %s", humanize.Comma(int64(p.points))))
	switch {
	case len(p.categories) > 0:
		sb.WriteString("; ")
		sb.WriteString(fmt.Sprintf("Time: %s - %s", p.categories[0], p.categories[len(p.categories)-1]))
	case p.hasTime:
		sb.WriteString("; ")
		sb.WriteString(fmt.Sprintf("Time: %s - %s",
			p.start.In(a.config.Location).Format(a.config.DatetimeFormat),
			p.end.In(a.config.Location).Format(a.config.DatetimeFormat)))
	case p.x.valid():
		sb.WriteString("; ")
		sb.WriteString(fmt.Sprintf("Range: %s - %s",
			humanize.CommafWithDigits(p.x.min, 2),
			humanize.CommafWithDigits(p.x.max, 2)))
	}
	if p.colors != nil {
		sb.WriteString("; Colour: ")
		sb.WriteString(string(p.colors.ThemeName()))
	}

	fontHeight, descent := a.fontHeight()

	// Bottom line of the bottom border, below the x labels
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/4 - descent

	pt := freetype.Pt(a.config.Borders.Left, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// Helper functions

// calculateNiceStep returns a 1-2-5 step giving roughly one label per
// pixelsPerLabel pixels.
func calculateNiceStep(range_ float64, pixels int) float64 {
	desiredSteps := math.Max(float64(pixels)/pixelsPerLabel, 2)
	roughStep := range_ / desiredSteps
	if roughStep <= 0 || math.IsNaN(roughStep) || math.IsInf(roughStep, 0) {
		return 1
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(roughStep)))
	for _, m := range []float64{1, 2, 5} {
		if m*magnitude >= roughStep {
			return m * magnitude
		}
	}
	return 10 * magnitude
}

func calculateNiceTimeStep(duration time.Duration, pixels int) time.Duration {
	desiredSteps := math.Max(float64(pixels)/pixelsPerLabel, 2)
	roughStep := duration.Seconds() / desiredSteps

	// Nice time intervals in seconds
	niceIntervals := []float64{
		1,     // 1 second
		5,     // 5 seconds
		10,    // 10 seconds
		30,    // 30 seconds
		60,    // 1 minute
		300,   // 5 minutes
		600,   // 10 minutes
		900,   // 15 minutes
		1800,  // 30 minutes
		3600,  // 1 hour
		7200,  // 2 hours
		14400, // 4 hours
		43200, // 12 hours
	}

	// Find the first interval larger than our rough step
	for _, interval := range niceIntervals {
		if roughStep <= interval {
			return time.Duration(interval) * time.Second
		}
	}

	return 24 * time.Hour // Default for very long durations
}

// formatNumber formats a tick value with as many decimals as step needs.
func formatNumber(v, step float64) string {
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
	}
	if v == 0 {
		v = 0 // no negative zero
	}
	return humanize.CommafWithDigits(v, decimals)
}
