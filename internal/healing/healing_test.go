package healing

import (
	"image"
	"math"
	"testing"

	"github.com/ayusman/woundguard/internal/imaging"
	"github.com/ayusman/woundguard/testdata"
)

// maskRect marks the given rectangle as wound in a fresh mask.
func maskRect(w, h int, r image.Rectangle) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[(y*w+x)*4+3] = 200
		}
	}
	return m
}

func TestAnalyze_EmptyMaskIsAllZero(t *testing.T) {
	buf := imaging.FromImage(testdata.SolidImage(50, 50, 210, 180, 160))
	mask := image.NewRGBA(image.Rect(0, 0, 50, 50))

	ind := Analyze(buf, mask)

	if ind != (Indicators{}) {
		t.Errorf("Analyze() = %+v, want zero value for empty mask", ind)
	}
}

func TestAnalyze_TissueFractionsSumToOne(t *testing.T) {
	rect := image.Rect(20, 20, 60, 60)
	buf := imaging.FromImage(testdata.WoundOnSkin(80, 80, rect))
	mask := maskRect(80, 80, rect)

	ind := Analyze(buf, mask)

	sum := ind.TissueTypes.Granulation + ind.TissueTypes.Slough + ind.TissueTypes.Eschar
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("tissue fractions sum = %v, want 1", sum)
	}
}

func TestAnalyze_RedWoundIsGranulationAndInflamed(t *testing.T) {
	rect := image.Rect(20, 20, 60, 60)
	buf := imaging.FromImage(testdata.WoundOnSkin(80, 80, rect))
	mask := maskRect(80, 80, rect)

	ind := Analyze(buf, mask)

	if ind.TissueTypes.Granulation < 0.9 {
		t.Errorf("granulation = %v, want >= 0.9 for a bright red wound", ind.TissueTypes.Granulation)
	}
	if ind.InflammationScore <= 0.3 {
		t.Errorf("inflammation = %v, want > 0.3 for a red wound on light skin", ind.InflammationScore)
	}
	if ind.RednessRatio <= 1.5 {
		t.Errorf("redness ratio = %v, want > 1.5 (wound much redder than skin)", ind.RednessRatio)
	}
}

func TestAnalyze_DarkWoundIsEschar(t *testing.T) {
	rect := image.Rect(10, 10, 40, 40)
	img := testdata.SolidImage(60, 60, 210, 180, 160)
	// Paint a very dark necrotic region.
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = 30
			img.Pix[i+1] = 22
			img.Pix[i+2] = 20
		}
	}
	buf := imaging.FromImage(img)
	mask := maskRect(60, 60, rect)

	ind := Analyze(buf, mask)

	if ind.TissueTypes.Eschar < 0.9 {
		t.Errorf("eschar = %v, want >= 0.9 for a near-black wound", ind.TissueTypes.Eschar)
	}
}

func TestAnalyze_YellowWoundIsSloughWithExudate(t *testing.T) {
	rect := image.Rect(10, 10, 40, 40)
	img := testdata.SolidImage(60, 60, 210, 180, 160)
	// Fibrinous yellow region.
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = 220
			img.Pix[i+1] = 200
			img.Pix[i+2] = 90
		}
	}
	buf := imaging.FromImage(img)
	mask := maskRect(60, 60, rect)

	ind := Analyze(buf, mask)

	if ind.TissueTypes.Slough < 0.9 {
		t.Errorf("slough = %v, want >= 0.9 for a yellow wound", ind.TissueTypes.Slough)
	}
	if ind.ExudateScore <= 0.2 {
		t.Errorf("exudate = %v, want > 0.2 for yellow tissue", ind.ExudateScore)
	}
}

func TestAnalyze_ScoresStayInRange(t *testing.T) {
	rect := image.Rect(0, 0, 30, 30)
	buf := imaging.FromImage(testdata.NoisyImage(30, 30, 7))
	mask := maskRect(30, 30, rect)

	ind := Analyze(buf, mask)

	for name, v := range map[string]float64{
		"inflammation": ind.InflammationScore,
		"exudate":      ind.ExudateScore,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s score = %v outside [0,1]", name, v)
		}
	}
	if ind.RednessRatio < 0 || math.IsNaN(ind.RednessRatio) || math.IsInf(ind.RednessRatio, 0) {
		t.Errorf("redness ratio = %v, want finite non-negative", ind.RednessRatio)
	}
}
