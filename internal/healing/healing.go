// Package healing derives clinical signals from a detected wound: an
// inflammation score, an exudate score, the redness ratio against the
// surrounding skin, and the tissue-type composition.
package healing

import (
	"image"

	"github.com/ayusman/woundguard/internal/colorspace"
	"github.com/ayusman/woundguard/internal/imaging"
)

// Indicators are the healing signals computed over the wound mask. All
// scores are in [0,1]. When the mask contains no wound pixels every field
// is zero.
type Indicators struct {
	// InflammationScore rises with redness exceeding the surrounding skin.
	InflammationScore float64 `json:"inflammationScore"`
	// ExudateScore rises with pale, yellow or white wound areas.
	ExudateScore float64 `json:"exudateScore"`
	// RednessRatio compares the wound's red/green ratio to the skin's.
	RednessRatio float64 `json:"rednessRatio"`
	// TissueTypes is the composition of the wound bed; the three fractions
	// sum to 1 when any wound pixel exists.
	TissueTypes TissueTypes `json:"tissueTypes"`
}

// TissueTypes is the per-type fraction of wound pixels.
type TissueTypes struct {
	// Granulation is healthy, bright red, well-vascularized tissue.
	Granulation float64 `json:"granulation"`
	// Slough is fibrinous yellow or pale tissue.
	Slough float64 `json:"slough"`
	// Eschar is necrotic, very dark tissue.
	Eschar float64 `json:"eschar"`
}

// skinSampleStep subsamples the non-wound pixels when estimating the local
// skin color: every 7th position.
const skinSampleStep = 7

// Analyze computes healing indicators from the photo and its wound mask.
// The mask's alpha channel marks wound pixels (anything non-zero).
func Analyze(buf *imaging.Buffer, mask *image.RGBA) Indicators {
	w, h := buf.Width, buf.Height
	total := w * h
	if total == 0 || mask == nil || len(mask.Pix) < total*4 {
		return Indicators{}
	}
	pix := buf.Pix

	// First pass: estimate the local skin color from masked-out pixels,
	// subsampled on a fixed step.
	var skinR, skinG, skinB float64
	skinN := 0
	for i := 0; i < total; i += skinSampleStep {
		p := i * 4
		if mask.Pix[p+3] != 0 || pix[p+3] == 0 {
			continue
		}
		skinR += float64(pix[p])
		skinG += float64(pix[p+1])
		skinB += float64(pix[p+2])
		skinN++
	}
	if skinN > 0 {
		skinR /= float64(skinN)
		skinG /= float64(skinN)
		skinB /= float64(skinN)
	} else {
		// No visible skin around the wound; assume a neutral reference.
		skinR, skinG, skinB = 180, 140, 120
	}
	skinRG := skinR / maxf(skinG, 1)

	// Second pass: per-wound-pixel contributions.
	var inflammationSum, exudateSum float64
	var woundRG float64
	var granulation, slough, eschar int
	woundN := 0

	for i := 0; i < total; i++ {
		p := i * 4
		if mask.Pix[p+3] == 0 || pix[p+3] == 0 {
			continue
		}
		r, g, b := pix[p], pix[p+1], pix[p+2]
		rf, gf, bf := float64(r), float64(g), float64(b)
		hue, sat, val := colorspace.HSV(r, g, b)
		lum := colorspace.Luminance(r, g, b)

		woundN++
		pxRG := rf / maxf(gf, 1)
		woundRG += pxRG

		// Inflammation: red/green increase over skin, plus bonuses for very
		// red and bright saturated red pixels.
		infl := clamp01((pxRG/skinRG - 1) * 1.5)
		if rf > 150 && rf > gf*2 && rf > bf*2 {
			infl += 0.25
		}
		if sat > 0.5 && val > 0.5 && (hue <= 20 || hue >= 340) {
			infl += 0.15
		}
		inflammationSum += clamp01(infl)

		// Exudate: paleness plus yellow/white hues.
		var exu float64
		if val > 0.7 && sat < 0.35 {
			exu += 0.5 // pale
		}
		if hue >= 40 && hue <= 70 && val > 0.5 {
			exu += 0.4 // yellow
		}
		if val > 0.85 && sat < 0.2 {
			exu += 0.3 // near white
		}
		exudateSum += clamp01(exu)

		// Tissue vote.
		switch {
		case lum < 40 || (sat < 0.25 && lum < 70):
			eschar++
		case (hue >= 40 && hue <= 75 && val > 0.5) || (val > 0.75 && sat < 0.3):
			slough++
		case sat > 0.4 && val > 0.35 && (hue <= 25 || hue >= 335):
			granulation++
		default:
			granulation++
		}
	}

	if woundN == 0 {
		return Indicators{}
	}

	n := float64(woundN)
	return Indicators{
		InflammationScore: inflammationSum / n,
		ExudateScore:      exudateSum / n,
		RednessRatio:      (woundRG / n) / skinRG,
		TissueTypes: TissueTypes{
			Granulation: float64(granulation) / n,
			Slough:      float64(slough) / n,
			Eschar:      float64(eschar) / n,
		},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
