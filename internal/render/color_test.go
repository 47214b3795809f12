package render

import (
	"image/color"
	"math"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected color.RGBA
		ok       bool
	}{
		{name: "css name", input: "seagreen", expected: color.RGBA{R: 46, G: 139, B: 87, A: 255}, ok: true},
		{name: "mixed case", input: "OrangeRed", expected: color.RGBA{R: 255, G: 69, B: 0, A: 255}, ok: true},
		{name: "hex", input: "#440154", expected: color.RGBA{R: 0x44, G: 0x01, B: 0x54, A: 255}, ok: true},
		{name: "bad hex", input: "#zz0000"},
		{name: "unknown name", input: "notacolor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestColorMapper_Color(t *testing.T) {
	cm := NewColorMapperWithSize(ViridisTheme, 0, 10, 11)

	tests := []struct {
		name     string
		value    float64
		expected color.Color
	}{
		{name: "minimum", value: 0, expected: cm.colorMap[0]},
		{name: "maximum", value: 10, expected: cm.colorMap[10]},
		{name: "middle", value: 5, expected: cm.colorMap[5]},
		{name: "below range", value: -3, expected: cm.colorMap[0]},
		{name: "above range", value: 42, expected: cm.colorMap[10]},
		{name: "NaN", value: math.NaN(), expected: noDataColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cm.Color(tt.value); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestColorMapper_DegenerateRange(t *testing.T) {
	cm := NewColorMapperWithSize(ClassicTheme, 4, 4, 9)

	if got := cm.Color(4); got != cm.colorMap[4] {
		t.Errorf("Expected the middle colour, got %v", got)
	}
}

func TestColorMapper_Stops(t *testing.T) {
	cm := NewColorMapper(ViridisTheme, 0, 1)

	stops := cm.Stops(5)
	if len(stops) != 5 {
		t.Fatalf("Expected 5 stops, got %d", len(stops))
	}
	if stops[0] != "#440154" {
		t.Errorf("Expected first stop #440154, got %s", stops[0])
	}
	if stops[4] != "#fde725" {
		t.Errorf("Expected last stop #fde725, got %s", stops[4])
	}
}

func TestIsValidTheme(t *testing.T) {
	for theme := range validThemes {
		if !IsValidTheme(theme) {
			t.Errorf("Expected %q to be valid", theme)
		}
	}
	if IsValidTheme("rainbow") {
		t.Error("Expected rainbow to be invalid")
	}
}

func TestWithOpacity(t *testing.T) {
	tests := []struct {
		name     string
		opacity  float64
		expected uint8
	}{
		{name: "translucent", opacity: 0.6, expected: 153},
		{name: "zero means opaque", opacity: 0, expected: 255},
		{name: "NaN means opaque", opacity: math.NaN(), expected: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withOpacity(color.RGBA{R: 255, A: 255}, tt.opacity)
			if got.A != tt.expected {
				t.Errorf("Expected alpha %d, got %d", tt.expected, got.A)
			}
		})
	}
}
