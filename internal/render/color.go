package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ColorTheme is a continuous colour scale used for the colour dimension of
// point clouds.
type ColorTheme string

const (
	ViridisTheme   ColorTheme = "viridis"   // Dark purple to teal to yellow, the default
	ClassicTheme   ColorTheme = "classic"   // Blue to red transition
	GrayscaleTheme ColorTheme = "grayscale" // Black to white transition
	JungleTheme    ColorTheme = "jungle"    // Dark green to yellow transition
	ThermalTheme   ColorTheme = "thermal"   // Black to red to yellow to white
	MarineTheme    ColorTheme = "marine"    // Deep blue to cyan to white

	DefaultColorMapSize = 256 // Default number of colors in the map
)

// validThemes lists the accepted theme names
var validThemes = map[ColorTheme]struct{}{
	ViridisTheme:   {},
	ClassicTheme:   {},
	GrayscaleTheme: {},
	JungleTheme:    {},
	ThermalTheme:   {},
	MarineTheme:    {},
}

// IsValidTheme reports whether theme names a known colour scale.
func IsValidTheme(theme ColorTheme) bool {
	_, ok := validThemes[theme]
	return ok
}

// noDataColor is used for NaN values
var noDataColor = colornames.Lightgrey

// ColorMapper maps values of a fixed range onto a pre-computed colour scale.
type ColorMapper struct {
	colorMap      []color.Color // Pre-computed colors
	themeName     ColorTheme
	size          int
	valuePerIndex float64
	boundsMin     float64
}

// NewColorMapper creates a color mapper over [min, max] with the default
// size.
func NewColorMapper(theme ColorTheme, min, max float64) *ColorMapper {
	return NewColorMapperWithSize(theme, min, max, DefaultColorMapSize)
}

// NewColorMapperWithSize creates a color mapper with size pre-computed
// colours. A degenerate range maps every value onto the middle of the scale.
func NewColorMapperWithSize(theme ColorTheme, min, max float64, size int) *ColorMapper {
	if size <= 1 {
		size = DefaultColorMapSize
	}

	fn := colorTheme(theme)
	cm := &ColorMapper{
		colorMap:  make([]color.Color, size),
		themeName: theme,
		size:      size,
		boundsMin: min,
	}
	if span := max - min; span > 0 && !math.IsInf(span, 0) {
		cm.valuePerIndex = span / float64(size-1)
	}

	for i := 0; i < size; i++ {
		cm.colorMap[i] = fn(float64(i) / float64(size-1))
	}
	return cm
}

// Color returns the colour of v. Values outside the range are clamped.
func (cm *ColorMapper) Color(v float64) color.Color {
	if math.IsNaN(v) {
		return noDataColor
	}
	if cm.valuePerIndex == 0 {
		return cm.colorMap[cm.size/2]
	}

	index := int((v - cm.boundsMin) / cm.valuePerIndex)
	if index < 0 {
		return cm.colorMap[0]
	}
	if index >= cm.size {
		return cm.colorMap[cm.size-1]
	}
	return cm.colorMap[index]
}

// Stops returns n evenly spaced colours of the scale as hex strings, from the
// low end to the high end.
func (cm *ColorMapper) Stops(n int) []string {
	if n < 2 {
		n = 2
	}

	stops := make([]string, n)
	for i := range stops {
		c, _ := colorful.MakeColor(cm.colorMap[i*(cm.size-1)/(n-1)])
		stops[i] = c.Hex()
	}
	return stops
}

// ThemeName returns the current color theme name
func (cm *ColorMapper) ThemeName() ColorTheme {
	return cm.themeName
}

func colorTheme(theme ColorTheme) func(float64) color.Color {
	switch theme {
	case ClassicTheme:
		return func(v float64) color.Color {
			return colorful.Hsv(240-(v*240), 0.9+(v*0.1), 0.3+math.Pow(v, 0.7)*0.7)
		}

	case GrayscaleTheme:
		return func(v float64) color.Color {
			g := math.Pow(v, 0.7)
			return colorful.Color{R: g, G: g, B: g}
		}

	case JungleTheme:
		return func(v float64) color.Color {
			return colorful.Hsv(120-(v*60), 1.0, 0.3+(math.Pow(v, 0.6)*0.7))
		}

	case ThermalTheme:
		return func(v float64) color.Color {
			switch {
			case v < 0.33:
				return colorful.Color{R: v * 3}
			case v < 0.66:
				return colorful.Color{R: 1, G: (v - 0.33) * 3}
			default:
				return colorful.Color{R: 1, G: 1, B: math.Min(1, (v-0.66)*3)}
			}
		}

	case MarineTheme:
		return func(v float64) color.Color {
			return colorful.Hsv(240-(v*60), 1.0-(v*0.8), 0.3+(math.Pow(v, 0.6)*0.7))
		}

	default:
		return gradient(viridis)
	}
}

var viridis = []colorful.Color{
	hex("#440154"),
	hex("#3b528b"),
	hex("#21918c"),
	hex("#5ec962"),
	hex("#fde725"),
}

// gradient interpolates between evenly spaced stops in HCL space.
func gradient(stops []colorful.Color) func(float64) color.Color {
	return func(v float64) color.Color {
		v = math.Max(0, math.Min(1, v))

		pos := v * float64(len(stops)-1)
		i := int(pos)
		switch {
		case i >= len(stops)-1:
			return stops[len(stops)-1].Clamped()
		case pos == float64(i):
			return stops[i].Clamped()
		}
		return stops[i].BlendHcl(stops[i+1], pos-float64(i)).Clamped()
	}
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor resolves a CSS colour name such as "seagreen" or a "#rrggbb"
// hex string.
func ParseColor(name string) (color.RGBA, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return color.RGBA{}, false
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
	}

	c, ok := colornames.Map[name]
	return c, ok
}

// namedColor is ParseColor with a fallback.
func namedColor(name string, fallback color.RGBA) color.RGBA {
	if c, ok := ParseColor(name); ok {
		return c
	}
	return fallback
}

// withOpacity returns c as a non-premultiplied colour with the given opacity.
// Zero opacity means opaque.
func withOpacity(c color.RGBA, opacity float64) color.NRGBA {
	if opacity <= 0 || opacity > 1 || math.IsNaN(opacity) {
		opacity = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(opacity * 255))}
}
