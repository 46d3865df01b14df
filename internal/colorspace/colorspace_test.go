package colorspace

import (
	"math"
	"testing"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    float64
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"pure red", 255, 0, 0, 0.299 * 255},
		{"pure green", 0, 255, 0, 0.587 * 255},
		{"pure blue", 0, 0, 255, 0.114 * 255},
		{"mid gray", 128, 128, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Luminance(tt.r, tt.g, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Luminance(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestSaturation(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    float64
	}{
		{"black is zero", 0, 0, 0, 0},
		{"gray is zero", 100, 100, 100, 0},
		{"pure red is full", 255, 0, 0, 1},
		{"half saturated", 200, 100, 100, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Saturation(tt.r, tt.g, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Saturation(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestHue(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    float64
	}{
		{"red", 255, 0, 0, 0},
		{"yellow", 255, 255, 0, 60},
		{"green", 0, 255, 0, 120},
		{"cyan", 0, 255, 255, 180},
		{"blue", 0, 0, 255, 240},
		{"magenta", 255, 0, 255, 300},
		{"gray has no hue", 128, 128, 128, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hue(tt.r, tt.g, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Hue(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

// Hue must wrap negative six-piece results into [0, 360).
func TestHue_WrapsNegative(t *testing.T) {
	// Red-magenta: max is red, green < blue, so the raw formula goes negative.
	h := Hue(200, 20, 80)
	if h < 0 || h >= 360 {
		t.Errorf("Hue(200,20,80) = %v, want value in [0,360)", h)
	}
	if h < 300 {
		t.Errorf("Hue(200,20,80) = %v, want red-magenta band (>= 300)", h)
	}
}

func TestHSV_MatchesIndividualFunctions(t *testing.T) {
	pixels := []struct{ r, g, b uint8 }{
		{0, 0, 0}, {255, 255, 255}, {200, 60, 60},
		{210, 180, 160}, {12, 250, 77}, {90, 90, 200},
	}

	for _, p := range pixels {
		h, s, v := HSV(p.r, p.g, p.b)
		if math.Abs(h-Hue(p.r, p.g, p.b)) > 1e-9 {
			t.Errorf("HSV hue mismatch for (%d,%d,%d)", p.r, p.g, p.b)
		}
		if math.Abs(s-Saturation(p.r, p.g, p.b)) > 1e-9 {
			t.Errorf("HSV saturation mismatch for (%d,%d,%d)", p.r, p.g, p.b)
		}
		if math.Abs(v-Value(p.r, p.g, p.b)) > 1e-9 {
			t.Errorf("HSV value mismatch for (%d,%d,%d)", p.r, p.g, p.b)
		}
	}
}
