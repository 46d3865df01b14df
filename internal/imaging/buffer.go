// Package imaging provides the pixel buffer type and image decoding for the
// WoundGuard analysis pipeline. All detection paths operate on a flat RGBA
// byte slice so the per-pixel loops can use index arithmetic instead of
// interface calls.
package imaging

import (
	"image"
	"image/draw"
)

// Buffer is an owned, fixed-size grid of RGBA pixels. It is immutable once
// loaded from the source photo; detection paths read Pix directly.
type Buffer struct {
	Width  int
	Height int
	// Pix holds the pixels in R, G, B, A order, 4 bytes per pixel,
	// row-major with no padding (stride == Width*4).
	Pix []uint8
}

// FromImage converts any image.Image into a Buffer, copying pixels into a
// tightly packed RGBA slice anchored at (0,0).
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != w*4 || !b.Min.Eq(image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	return &Buffer{Width: w, Height: h, Pix: rgba.Pix}
}

// RGBA wraps the buffer in an *image.RGBA sharing the same pixel memory.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// TotalPixels returns the number of pixels in the buffer.
func (b *Buffer) TotalPixels() int {
	return b.Width * b.Height
}

// At returns the RGBA channels of the pixel at (x, y). The caller must keep
// coordinates in bounds.
func (b *Buffer) At(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}
