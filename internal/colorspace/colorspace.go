// Package colorspace provides per-pixel color conversions shared by all
// detection paths. Everything here is a pure function over 8-bit channel
// values; these are called once per pixel in the analysis hot loops, so
// they must not allocate.
package colorspace

// Luminance returns the ITU-R BT.601 luminance of an RGB pixel (0-255).
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Saturation returns the HSV saturation of an RGB pixel in [0,1].
// A black pixel (max channel 0) has saturation 0.
func Saturation(r, g, b uint8) float64 {
	mx := max3(r, g, b)
	if mx == 0 {
		return 0
	}
	mn := min3(r, g, b)
	return float64(mx-mn) / float64(mx)
}

// Value returns the HSV value (brightness) of an RGB pixel in [0,1].
func Value(r, g, b uint8) float64 {
	return float64(max3(r, g, b)) / 255.0
}

// Hue returns the HSV hue of an RGB pixel in degrees [0,360).
// Gray pixels (max == min) have hue 0 by convention.
func Hue(r, g, b uint8) float64 {
	mx := max3(r, g, b)
	mn := min3(r, g, b)
	if mx == mn {
		return 0
	}

	rf := float64(r)
	gf := float64(g)
	bf := float64(b)
	d := float64(mx - mn)

	var h float64
	switch mx {
	case r:
		h = 60 * (gf - bf) / d
	case g:
		h = 60 * (2 + (bf-rf)/d)
	default:
		h = 60 * (4 + (rf-gf)/d)
	}

	if h < 0 {
		h += 360
	}
	return h
}

// HSV returns hue (degrees), saturation and value of an RGB pixel in one
// pass. Equivalent to calling Hue, Saturation and Value separately but does
// the min/max scan only once.
func HSV(r, g, b uint8) (h, s, v float64) {
	mx := max3(r, g, b)
	mn := min3(r, g, b)

	v = float64(mx) / 255.0
	if mx == 0 {
		return 0, 0, 0
	}
	s = float64(mx-mn) / float64(mx)
	if mx == mn {
		return 0, s, v
	}

	rf := float64(r)
	gf := float64(g)
	bf := float64(b)
	d := float64(mx - mn)

	switch mx {
	case r:
		h = 60 * (gf - bf) / d
	case g:
		h = 60 * (2 + (bf-rf)/d)
	default:
		h = 60 * (4 + (rf-gf)/d)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func max3(a, b, c uint8) uint8 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c uint8) uint8 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
