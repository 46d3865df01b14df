package detect

import (
	"context"
	"errors"
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/woundguard/internal/colorspace"
	"github.com/ayusman/woundguard/internal/imaging"
	"github.com/ayusman/woundguard/internal/skin"
)

// MethodColorAnalysis is the detection method label of the heuristic path.
const MethodColorAnalysis = "Color analysis"

// HeuristicDetector classifies wound pixels without ML, using adaptive
// color, edge and local-contrast rules. It is deterministic: identical
// buffer and settings always produce the identical mask.
type HeuristicDetector struct{}

// NewHeuristicDetector creates the heuristic wound detector.
func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{}
}

// Close is a no-op; the heuristic detector holds no resources.
func (d *HeuristicDetector) Close() error { return nil }

// Tuning constants for the per-pixel classification. All ratio thresholds
// are additionally scaled by skin tone through Settings.AdaptToSkin.
const (
	// edgeLumDiff is the 4-neighbor luminance difference marking an edge.
	edgeLumDiff = 15
	// shadowStdDevs is how many standard deviations below the mean
	// luminance the shadow cutoff sits.
	shadowStdDevs = 1.5
	// shadowMaxSaturation excludes only desaturated dark pixels; saturated
	// dark reds can still be wound tissue.
	shadowMaxSaturation = 0.25
	// neighborhoodRadius is the offset of the 8 local contrast samples.
	neighborhoodRadius = 5
	// localRedEdge is the redness increase over the neighborhood required
	// for the edge-based rule.
	localRedEdge     = 18.0
	localRedEdgeDark = 12.0
	// Confidence floors per skin tone band.
	confThresholdLight = 0.35
	confThresholdDark  = 0.28
	// Minimum detected fraction. Below this the detection is noise and the
	// result reports zero pixels.
	noiseFloor    = 0.005
	noiseFloorROI = 0.001
	// roiFallbackFraction triggers the luminance-drop fallback: a user ROI
	// on dark skin that produced almost nothing.
	roiFallbackFraction = 0.01
)

// Detect runs the heuristic classification over every pixel.
func (d *HeuristicDetector) Detect(ctx context.Context, buf *imaging.Buffer, opts Options) (*Result, error) {
	w, h := buf.Width, buf.Height
	total := w * h
	if total == 0 {
		return nil, errors.New("empty image")
	}
	if opts.Region != nil && len(opts.Region.Inside) != total {
		return nil, errors.New("region mask size does not match image")
	}
	pix := buf.Pix

	settings := opts.Settings
	if settings.isZero() {
		settings = SettingsFor(SensitivityMedium)
	}
	profile := opts.Profile
	if profile.Fitzpatrick == 0 {
		profile = skin.Classify(buf)
	}

	// Global pass: image averages, per-pixel luminance, and a localized
	// skin-tone reference accumulated with the detector's stricter
	// skin-pixel variant.
	lum := make([]float64, total)
	opaqueLum := make([]float64, 0, total)
	var sumR, sumG float64
	var opaque int
	var skinR, skinG, skinB float64
	var skinN int
	for i := 0; i < total; i++ {
		p := i * 4
		r, g, b, a := pix[p], pix[p+1], pix[p+2], pix[p+3]
		lum[i] = colorspace.Luminance(r, g, b)
		if a == 0 {
			continue
		}
		opaque++
		opaqueLum = append(opaqueLum, lum[i])
		sumR += float64(r)
		sumG += float64(g)
		if skin.IsSkinPixel(r, g, b, skin.Detector) {
			skinR += float64(r)
			skinG += float64(g)
			skinB += float64(b)
			skinN++
		}
	}
	if opaque == 0 {
		return &Result{TotalPixels: total, Mask: image.NewRGBA(image.Rect(0, 0, w, h)), Method: MethodColorAnalysis}, nil
	}

	// Shadow statistics cover opaque pixels only; transparent pixels read
	// as black and would drag the threshold down.
	meanLum := stat.Mean(opaqueLum, nil)
	var stdLum float64
	if len(opaqueLum) > 1 {
		stdLum = stat.StdDev(opaqueLum, nil)
	}
	shadowThresh := meanLum - shadowStdDevs*stdLum

	skinLum := profile.Luminance
	skinRG := 1.2
	if skinN > 0 {
		ar := skinR / float64(skinN)
		ag := skinG / float64(skinN)
		ab := skinB / float64(skinN)
		skinLum = colorspace.Luminance(uint8(ar), uint8(ag), uint8(ab))
		if ag < 1 {
			ag = 1
		}
		skinRG = ar / ag
	}
	avgRG := sumR / maxf(sumG, 1)

	// Edge pass: 4-neighbor luminance differencing.
	edge := make([]bool, total)
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			i := row + x
			if x+1 < w {
				d := lum[i] - lum[i+1]
				if d > edgeLumDiff || d < -edgeLumDiff {
					edge[i] = true
					edge[i+1] = true
				}
			}
			if y+1 < h {
				d := lum[i] - lum[i+w]
				if d > edgeLumDiff || d < -edgeLumDiff {
					edge[i] = true
					edge[i+w] = true
				}
			}
		}
	}

	settings = settings.AdaptToSkin(skinLum)
	dark := skinLum < darkSkinLuminance
	confThresh := confThresholdLight
	localRedMin := localRedEdge
	if dark {
		confThresh = confThresholdDark
		localRedMin = localRedEdgeDark
	}

	mask := image.NewRGBA(image.Rect(0, 0, w, h))
	detected := 0
	var sumConf float64

	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			i := row + x
			if opts.Region != nil && !opts.Region.Inside[i] {
				continue
			}
			p := i * 4
			r, g, b, a := pix[p], pix[p+1], pix[p+2], pix[p+3]
			if a == 0 {
				continue
			}
			l := lum[i]
			hue, sat, val := colorspace.HSV(r, g, b)

			// Shadow exclusion: dark and desaturated is shade, not tissue.
			if l < shadowThresh && sat < shadowMaxSaturation {
				continue
			}

			rf, gf, bf := float64(r), float64(g), float64(b)
			pxRG := rf / maxf(gf, 1)
			relRed := pxRG / skinRG

			// Hue membership: red and red-magenta bands, plus a purplish
			// band gated on low saturation and elevated relative redness.
			hueMember := hue <= settings.HueTolerance || hue >= 360-settings.HueTolerance || hue >= 300
			if !hueMember && hue >= 270 && sat < 0.4 && relRed > 1.1 {
				hueMember = true
			}

			// Red dominance is judged against the skin reference as well as
			// the absolute ratio: skin itself is red-dominant, and on dark
			// skin the adapted ratio drops below the skin's own red/green.
			redDom := rf > settings.RedDominance*gf && rf > settings.RedDominance*bf &&
				relRed > 1.08
			satOK := sat >= settings.MinSaturation && sat <= 0.98
			brightOK := val >= 0.12 && val <= 0.95

			// Local neighborhood contrast, 8 samples at a 5-pixel radius.
			nr, ng := neighborhoodRG(pix, w, h, x, y)
			localRed := (rf - gf) - (nr - ng)
			contrast := clamp01(localRed / 255)

			isWound := (hueMember && redDom && satOK && brightOK) ||
				(edge[i] && localRed > localRedMin && brightOK)

			// On dark skin absolute hue/ratio thresholds under-detect;
			// relative redness and local contrast carry the decision.
			if !isWound && dark {
				isWound = relRed > 1.18 && contrast > 0.05 && brightOK &&
					(hue <= 90 || hue >= 260)
			}
			if !isWound {
				continue
			}

			hueDist := hue
			if hueDist > 180 {
				hueDist = 360 - hueDist
			}
			hueFactor := 1 - clamp01(hueDist/(settings.HueTolerance*2))
			redFactor := clamp01((pxRG - 1) / 1.5)
			satFactor := clamp01((sat - settings.MinSaturation) / (1 - settings.MinSaturation))
			contrastFactor := clamp01(contrast * 4)

			var conf float64
			if dark {
				conf = 0.20*hueFactor + 0.25*redFactor + 0.15*satFactor + 0.40*contrastFactor
			} else {
				conf = 0.35*hueFactor + 0.30*redFactor + 0.20*satFactor + 0.15*contrastFactor
			}
			if pxRG > avgRG {
				conf *= 1.15
			}
			if edge[i] {
				conf *= 0.85
			}
			conf = clamp01(conf)
			if conf <= confThresh {
				continue
			}

			detected++
			sumConf += conf
			mask.Pix[p] = maskR
			mask.Pix[p+1] = maskG
			mask.Pix[p+2] = maskB
			mask.Pix[p+3] = maskAlpha(conf)
		}
	}

	// A user ROI on dark skin that found almost nothing gets one simpler
	// pass: any clear luminance drop against the skin reference inside the
	// ROI counts.
	if opts.Region != nil && dark && float64(detected) < roiFallbackFraction*float64(total) {
		mask = image.NewRGBA(image.Rect(0, 0, w, h))
		detected = 0
		sumConf = 0
		lumCut := skinLum * 0.78
		for i := 0; i < total; i++ {
			if !opts.Region.Inside[i] {
				continue
			}
			p := i * 4
			if pix[p+3] == 0 {
				continue
			}
			if lum[i] < lumCut {
				const fallbackConf = 0.4
				detected++
				sumConf += fallbackConf
				mask.Pix[p] = maskR
				mask.Pix[p+1] = maskG
				mask.Pix[p+2] = maskB
				mask.Pix[p+3] = maskAlpha(fallbackConf)
			}
		}
	}

	// Noise floor: below a minimum fraction the detection is reported as
	// "no wound found".
	floor := noiseFloor
	if opts.Region != nil {
		floor = noiseFloorROI
	}
	if float64(detected)/float64(total) < floor {
		return &Result{
			TotalPixels: total,
			Mask:        image.NewRGBA(image.Rect(0, 0, w, h)),
			Method:      MethodColorAnalysis,
		}, nil
	}

	return &Result{
		PixelCount:  detected,
		TotalPixels: total,
		Confidence:  sumConf / float64(detected),
		Mask:        mask,
		Method:      MethodColorAnalysis,
	}, nil
}

// neighborhoodRG averages the red and green channels of up to 8 samples at
// the neighborhood radius around (x, y). Out-of-bounds samples are skipped.
func neighborhoodRG(pix []uint8, w, h, x, y int) (avgR, avgG float64) {
	const rad = neighborhoodRadius
	var sr, sg float64
	n := 0
	for dy := -rad; dy <= rad; dy += rad {
		for dx := -rad; dx <= rad; dx += rad {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			p := (ny*w + nx) * 4
			if pix[p+3] == 0 {
				continue
			}
			sr += float64(pix[p])
			sg += float64(pix[p+1])
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sr / float64(n), sg / float64(n)
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
