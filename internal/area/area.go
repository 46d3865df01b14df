// Package area converts wound pixel counts into physical surface area and
// renders the analysis visualization composite.
package area

import "math"

// DefaultFrameAreaMM2 is the assumed field-of-view area when no reference
// object is available: a 50x50 mm frame.
const DefaultFrameAreaMM2 = 2500

// Estimate converts a pixel fraction into mm² using an assumed frame area.
// The result is floored at 1 mm² so downstream charting never sees zero or
// negative areas.
func Estimate(pixelCount, totalPixels int, frameAreaMM2 float64) int {
	if frameAreaMM2 <= 0 {
		frameAreaMM2 = DefaultFrameAreaMM2
	}
	if totalPixels <= 0 || pixelCount <= 0 {
		return 1
	}
	a := int(math.Round(float64(pixelCount) / float64(totalPixels) * frameAreaMM2))
	if a < 1 {
		return 1
	}
	return a
}

// CalibratedSize scales a target pixel count into physical units using a
// reference object of known pixel count and physical size. The relationship
// is linear: twice the pixels means twice the size.
func CalibratedSize(referencePixels int, referenceSize float64, targetPixels int) float64 {
	if referencePixels <= 0 || referenceSize <= 0 {
		return 0
	}
	return float64(targetPixels) / float64(referencePixels) * referenceSize
}

// EstimateCalibrated converts a wound pixel count to mm² using a reference
// object, with the same 1 mm² floor as Estimate.
func EstimateCalibrated(pixelCount, referencePixels int, referenceAreaMM2 float64) int {
	a := int(math.Round(CalibratedSize(referencePixels, referenceAreaMM2, pixelCount)))
	if a < 1 {
		return 1
	}
	return a
}

// EstimateFromWidth converts a wound pixel count to mm² using a reference
// object of known physical size and measured on-image width. The linear
// mm-per-pixel scale is referenceSizeMM/referenceWidthPx; area scales with
// its square. Floored at 1 mm².
func EstimateFromWidth(pixelCount int, referenceSizeMM, referenceWidthPx float64) int {
	if referenceSizeMM <= 0 || referenceWidthPx <= 0 {
		return 1
	}
	scale := referenceSizeMM / referenceWidthPx
	a := int(math.Round(float64(pixelCount) * scale * scale))
	if a < 1 {
		return 1
	}
	return a
}

// RescaleArea adjusts an area for a change in shooting distance. Area
// scales with the square of the linear factor.
func RescaleArea(areaMM2 float64, linearFactor float64) float64 {
	return areaMM2 * linearFactor * linearFactor
}
