package area

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/woundguard/internal/colorspace"
	"github.com/ayusman/woundguard/internal/imaging"
)

// Bounds on the estimated linear scale factor between two photos. Anything
// beyond a 4x zoom difference is not credible for handheld wound photos.
const (
	minScaleFactor = 0.25
	maxScaleFactor = 4.0
)

// Weights of the three scale cues. Edge density dominates: moving the
// camera closer spreads the same edges over more pixels.
const (
	weightEdges     = 0.60
	weightDetail    = 0.25
	weightHistogram = 0.15
)

// EstimateScaleFactor estimates the linear zoom factor of photo b relative
// to photo a (>1 means b was taken closer). It combines edge density, fine
// detail energy and luminance histogram spread, weighted 60/25/15, and
// bounds the result to [0.25, 4.0].
func EstimateScaleFactor(a, b *imaging.Buffer) float64 {
	ea, da, ha := imageStats(a)
	eb, db, hb := imageStats(b)

	// Closer shots have proportionally fewer edge pixels and less fine
	// detail per pixel, so the ratios invert.
	f := weightEdges*safeRatio(ea, eb) +
		weightDetail*safeRatio(da, db) +
		weightHistogram*safeRatio(ha, hb)

	if f < minScaleFactor {
		return minScaleFactor
	}
	if f > maxScaleFactor {
		return maxScaleFactor
	}
	return f
}

// imageStats computes the three scale cues for one photo: edge density,
// mean absolute horizontal gradient, and luminance standard deviation.
func imageStats(buf *imaging.Buffer) (edgeDensity, detail, histSpread float64) {
	w, h := buf.Width, buf.Height
	total := w * h
	if total == 0 {
		return 0, 0, 0
	}
	pix := buf.Pix

	lum := make([]float64, total)
	for i := 0; i < total; i++ {
		p := i * 4
		lum[i] = colorspace.Luminance(pix[p], pix[p+1], pix[p+2])
	}

	edges := 0
	var gradSum float64
	n := 0
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w-1; x++ {
			d := lum[row+x] - lum[row+x+1]
			if d < 0 {
				d = -d
			}
			gradSum += d
			if d > 15 {
				edges++
			}
			n++
		}
	}

	if n > 0 {
		edgeDensity = float64(edges) / float64(n)
		detail = gradSum / float64(n)
	}
	histSpread = stat.StdDev(lum, nil)
	return edgeDensity, detail, histSpread
}

// safeRatio returns a/b with both terms floored away from zero so a flat
// image cannot produce an infinite cue.
func safeRatio(a, b float64) float64 {
	const eps = 1e-6
	if a < eps {
		a = eps
	}
	if b < eps {
		b = eps
	}
	return a / b
}
