// Package testdata generates synthetic wound photos for tests. Fixtures are
// built programmatically so tests control every pixel value exactly.
package testdata

import (
	"image"
	"image/color"
	"math/rand"
)

// SolidImage returns a w x h image filled with a single opaque color.
func SolidImage(w, h int, r, g, b uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), color.RGBA{r, g, b, 255})
	return img
}

// WoundOnSkin returns a w x h skin-tone image with a solid "wound" rectangle
// drawn at the given bounds. The default colors follow the reference
// scenario: wound RGB (200,60,60) on background RGB (210,180,160).
func WoundOnSkin(w, h int, wound image.Rectangle) *image.RGBA {
	img := SolidImage(w, h, 210, 180, 160)
	fill(img, wound, color.RGBA{200, 60, 60, 255})
	return img
}

// WoundOnDarkSkin is WoundOnSkin with a dark skin background (Fitzpatrick V-VI
// range) and a correspondingly darker wound color.
func WoundOnDarkSkin(w, h int, wound image.Rectangle) *image.RGBA {
	img := SolidImage(w, h, 90, 62, 48)
	fill(img, wound, color.RGBA{140, 45, 45, 255})
	return img
}

// NoisyImage returns a w x h image of uniform random noise. The generator is
// seeded so fixtures are reproducible across runs.
func NoisyImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

// GradientImage returns a w x h horizontal gray gradient from black to white.
func GradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	div := w - 1
	if div < 1 {
		div = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / div)
			i := img.PixOffset(x, y)
			img.Pix[i] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = 255
		}
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
			i += 4
		}
	}
}
