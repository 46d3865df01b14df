// Package skin estimates the subject's skin tone from the photo and maps it
// onto the Fitzpatrick scale. The profile is advisory: it adapts detection
// thresholds downstream but never blocks an analysis.
package skin

import (
	"math"

	"github.com/ayusman/woundguard/internal/colorspace"
	"github.com/ayusman/woundguard/internal/imaging"
)

// Strictness selects between the two historical variants of the skin-pixel
// predicate. The classifier and the detector's inline copy drifted apart in
// the original system; both constant sets are kept behind this switch rather
// than silently merged.
type Strictness int

const (
	// Classifier uses b > 0.20r and r-g < 0.65r.
	Classifier Strictness = iota
	// Detector uses b > 0.25r and r-g < 0.50r.
	Detector
)

// Profile describes the sampled skin tone of an image.
type Profile struct {
	// AvgR, AvgG, AvgB is the average color over qualifying skin samples.
	AvgR, AvgG, AvgB uint8
	// Luminance is the BT.601 luminance of the average color (0-255).
	Luminance float64
	// ITA is the Individual Typology Angle in degrees.
	ITA float64
	// Fitzpatrick is the skin type, 1 (lightest) through 6 (darkest).
	Fitzpatrick int
}

// Fallback neutral skin estimate used when no pixel qualifies, e.g. a photo
// with no visible skin at all.
const (
	fallbackR = 210
	fallbackG = 170
	fallbackB = 145
)

// IsSkinPixel reports whether an RGB pixel looks like skin: red dominant,
// red exceeding min(green, blue) by more than 10, green/blue in proportion
// to red, and a bounded red-green difference.
func IsSkinPixel(r, g, b uint8, s Strictness) bool {
	rf := float64(r)
	gf := float64(g)
	bf := float64(b)

	if rf <= gf || rf <= bf {
		return false
	}
	mn := gf
	if bf < mn {
		mn = bf
	}
	if rf-mn <= 10 {
		return false
	}

	blueFloor := 0.20
	rgBound := 0.65
	if s == Detector {
		blueFloor = 0.25
		rgBound = 0.50
	}

	if gf <= 0.4*rf || bf <= blueFloor*rf {
		return false
	}
	return rf-gf < rgBound*rf
}

// Classify samples the buffer on a stride and returns its skin-tone profile.
// The stride grows with image size so the sample count stays bounded.
func Classify(buf *imaging.Buffer) Profile {
	stride := SampleStride(buf.Width, buf.Height)

	var sumR, sumG, sumB, n int64
	pix := buf.Pix
	for i := 0; i < len(pix); i += 4 * stride {
		r, g, b := pix[i], pix[i+1], pix[i+2]
		if pix[i+3] == 0 {
			continue
		}
		if IsSkinPixel(r, g, b, Classifier) {
			sumR += int64(r)
			sumG += int64(g)
			sumB += int64(b)
			n++
		}
	}

	var avgR, avgG, avgB uint8
	if n == 0 {
		avgR, avgG, avgB = fallbackR, fallbackG, fallbackB
	} else {
		avgR = uint8(sumR / n)
		avgG = uint8(sumG / n)
		avgB = uint8(sumB / n)
	}

	lum := colorspace.Luminance(avgR, avgG, avgB)
	ita := ITAngle(lum, avgR, avgB)

	return Profile{
		AvgR:        avgR,
		AvgG:        avgG,
		AvgB:        avgB,
		Luminance:   lum,
		ITA:         ita,
		Fitzpatrick: FitzpatrickFromITA(ita),
	}
}

// SampleStride returns the pixel stride used when sampling an image of the
// given dimensions: max(1, floor(sqrt(w*h)/100)).
func SampleStride(width, height int) int {
	s := int(math.Floor(math.Sqrt(float64(width*height)) / 100))
	if s < 1 {
		return 1
	}
	return s
}

// ITAngle computes the Individual Typology Angle in degrees from the average
// skin luminance and the red/blue channels of the average skin color.
//
// The textbook denominator (B-R)/2 is zero for perfectly neutral averages,
// which the original left unguarded; here it is clamped to a magnitude of at
// least 0.5 (sign preserved, zero treated as positive) so the angle stays
// finite.
func ITAngle(luminance float64, r, b uint8) float64 {
	normLum := luminance / 255 * 100
	den := (float64(b) - float64(r)) / 2
	if den > -0.5 && den < 0.5 {
		if den < 0 {
			den = -0.5
		} else {
			den = 0.5
		}
	}
	return math.Atan((normLum-50)/den) * 180 / math.Pi
}

// FitzpatrickFromITA maps an ITA angle onto the 6-point Fitzpatrick scale.
func FitzpatrickFromITA(ita float64) int {
	switch {
	case ita > 55:
		return 1
	case ita > 41:
		return 2
	case ita > 28:
		return 3
	case ita > 10:
		return 4
	case ita > -30:
		return 5
	default:
		return 6
	}
}
