package area

import (
	"image"
	"image/color"

	dimaging "github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ayusman/woundguard/internal/imaging"
	"github.com/ayusman/woundguard/internal/roi"
)

// Composite opacities: the original photo is dimmed so the mask overlay
// reads clearly, and the mask itself stays translucent so tissue remains
// visible underneath.
const (
	photoOpacity = 0.75
	maskOpacity  = 0.85
)

var annotationColor = color.NRGBA{R: 40, G: 220, B: 120, A: 255}

// Visualization is the composite image returned to the caller: dimmed
// photo, mask overlay, the user's region annotation redrawn on top, and a
// label naming the detection method.
type Visualization struct {
	Image *image.NRGBA
}

// Compose builds the visualization composite.
func Compose(buf *imaging.Buffer, mask *image.RGBA, outline *roi.Outline, box *roi.Box, method string) *Visualization {
	w, h := buf.Width, buf.Height

	base := dimaging.New(w, h, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	out := dimaging.Overlay(base, buf.RGBA(), image.Point{}, photoOpacity)
	if mask != nil {
		out = dimaging.Overlay(out, mask, image.Point{}, maskOpacity)
	}

	if outline != nil && len(outline.Points) >= 2 {
		pts := outline.Points
		for i := 1; i < len(pts); i++ {
			drawLine(out, pts[i-1], pts[i])
		}
		if outline.Closed && len(pts) >= 3 {
			drawLine(out, pts[len(pts)-1], pts[0])
		}
	}
	if box != nil && box.Width > 0 && box.Height > 0 {
		x0, y0 := float64(box.X), float64(box.Y)
		x1, y1 := float64(box.X+box.Width), float64(box.Y+box.Height)
		drawLine(out, roi.Point{X: x0, Y: y0}, roi.Point{X: x1, Y: y0})
		drawLine(out, roi.Point{X: x1, Y: y0}, roi.Point{X: x1, Y: y1})
		drawLine(out, roi.Point{X: x1, Y: y1}, roi.Point{X: x0, Y: y1})
		drawLine(out, roi.Point{X: x0, Y: y1}, roi.Point{X: x0, Y: y0})
	}

	if method != "" {
		drawLabel(out, method)
	}

	return &Visualization{Image: out}
}

// drawLine draws a 1px line between two points with integer Bresenham
// stepping.
func drawLine(img *image.NRGBA, a, b roi.Point) {
	x0, y0 := int(a.X), int(a.Y)
	x1, y1 := int(b.X), int(b.Y)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	bounds := img.Bounds()
	for {
		if image.Pt(x0, y0).In(bounds) {
			img.SetNRGBA(x0, y0, annotationColor)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawLabel renders the detection method name in the bottom-left corner.
func drawLabel(img *image.NRGBA, text string) {
	face := basicfont.Face7x13
	margin := 6
	y := img.Bounds().Dy() - margin
	if y < face.Height {
		return // image too small for a label
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot:  fixed.P(margin, y),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
