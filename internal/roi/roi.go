// Package roi rasterizes user-drawn regions of interest into per-pixel
// inclusion masks. Masking is an optimization, not a requirement: when a
// region cannot be rasterized the builder fails open and includes every
// pixel.
package roi

import (
	"image"

	"golang.org/x/image/vector"
)

// Point is a 2D point in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline is a free-form user-drawn region: an ordered sequence of points,
// optionally explicitly closed.
type Outline struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed"`
}

// Box is an axis-aligned rectangular region.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// minBoxSide is the smallest width and height at which a bounding box is
// honored. Degenerate boxes are ignored.
const minBoxSide = 10

// Usable reports whether the box is large enough to honor. Boxes narrower
// or shorter than 10 pixels on either side are ignored by every consumer.
func (b *Box) Usable() bool {
	return b != nil && b.Width > minBoxSide && b.Height > minBoxSide
}

// Mask is a per-pixel inclusion mask. Its length is always width*height.
type Mask struct {
	Width  int
	Height int
	Inside []bool
}

// AllTrue returns a mask including every pixel of a width x height image.
func AllTrue(width, height int) *Mask {
	inside := make([]bool, width*height)
	for i := range inside {
		inside[i] = true
	}
	return &Mask{Width: width, Height: height, Inside: inside}
}

// Count returns the number of included pixels.
func (m *Mask) Count() int {
	n := 0
	for _, in := range m.Inside {
		if in {
			n++
		}
	}
	return n
}

// Contains reports whether pixel (x, y) is inside the region.
func (m *Mask) Contains(x, y int) bool {
	return m.Inside[y*m.Width+x]
}

// FromOutline rasterizes a user-drawn outline into a mask for a
// width x height image. Outlines with fewer than 3 points fail open.
//
// The polygon path is filled into a monochrome raster with an anti-aliasing
// rasterizer; a pixel counts as inside when its coverage exceeds 128/255,
// matching a luminance > 128 threshold on the filled raster.
func FromOutline(o *Outline, width, height int) *Mask {
	if o == nil || len(o.Points) < 3 || width <= 0 || height <= 0 {
		return AllTrue(width, height)
	}

	ras := vector.NewRasterizer(width, height)
	ras.MoveTo(float32(o.Points[0].X), float32(o.Points[0].Y))
	for _, p := range o.Points[1:] {
		ras.LineTo(float32(p.X), float32(p.Y))
	}
	// The rasterizer implicitly closes the path when filling, so an open
	// outline behaves the same as a closed one.
	ras.ClosePath()

	alpha := image.NewAlpha(image.Rect(0, 0, width, height))
	ras.Draw(alpha, alpha.Bounds(), image.Opaque, image.Point{})

	mask := &Mask{Width: width, Height: height, Inside: make([]bool, width*height)}
	for i, a := range alpha.Pix {
		mask.Inside[i] = a > 128
	}
	return mask
}

// FromBox rasterizes a bounding box into a mask. Boxes narrower or shorter
// than 10 pixels are ignored and the mask fails open.
func FromBox(b *Box, width, height int) *Mask {
	if !b.Usable() || width <= 0 || height <= 0 {
		return AllTrue(width, height)
	}

	r := image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height).
		Intersect(image.Rect(0, 0, width, height))

	mask := &Mask{Width: width, Height: height, Inside: make([]bool, width*height)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * width
		for x := r.Min.X; x < r.Max.X; x++ {
			mask.Inside[row+x] = true
		}
	}
	return mask
}
