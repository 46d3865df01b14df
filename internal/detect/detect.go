// Package detect classifies wound pixels in a photo. Two implementations
// exist: a heuristic color/edge detector that always works, and a neural
// segmentation adapter that is used when a pretrained model is available.
// The neural path is strictly best-effort; any failure there falls back to
// the heuristic detector.
package detect

import (
	"context"
	"errors"
	"image"

	"github.com/ayusman/woundguard/internal/imaging"
	"github.com/ayusman/woundguard/internal/roi"
	"github.com/ayusman/woundguard/internal/skin"
)

// ErrModelUnavailable is returned by the neural path when the model asset is
// missing, corrupt or fails to load. Callers recover by falling back to the
// heuristic detector.
var ErrModelUnavailable = errors.New("segmentation model unavailable")

// Detector labels each pixel of a photo as wound or non-wound.
type Detector interface {
	// Detect analyzes the buffer and returns the detection result.
	// A result with PixelCount == 0 means no significant detection; it is
	// not an error.
	Detect(ctx context.Context, buf *imaging.Buffer, opts Options) (*Result, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Options configures a single detection call.
type Options struct {
	// Settings are the sensitivity-derived detection thresholds. Zero value
	// means medium sensitivity.
	Settings Settings

	// Region restricts detection to a user-drawn region. Nil means the whole
	// image.
	Region *roi.Mask

	// Box optionally crops the neural path to a bounding box before
	// resizing, improving resolution on small wounds. The heuristic path
	// ignores it (Region already covers the constraint).
	Box *roi.Box

	// Profile is the skin-tone profile of the image, used to adapt
	// thresholds. Zero value disables skin adaptation.
	Profile skin.Profile
}

// Result holds the outcome of one detection pass.
type Result struct {
	// PixelCount is the number of pixels classified as wound. Always
	// <= TotalPixels. Zero means no significant detection.
	PixelCount int

	// TotalPixels is the pixel count of the analyzed image.
	TotalPixels int

	// Confidence is the mean per-pixel confidence over detected pixels,
	// in [0,1]. Zero when PixelCount is zero.
	Confidence float64

	// Mask is congruent to the source image. Detected pixels carry the
	// visualization color with alpha 55 + confidence*200; all other pixels
	// are fully transparent.
	Mask *image.RGBA

	// Method names the detection path, e.g. "Color analysis".
	Method string
}

// Wound mask visualization color. The alpha channel encodes per-pixel
// confidence: 0 for non-wound, 55-255 for wound.
const (
	maskR = 255
	maskG = 80
	maskB = 80
)

// maskAlpha maps a confidence in [0,1] onto the 55-255 alpha range.
func maskAlpha(conf float64) uint8 {
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}
	return uint8(55 + conf*200)
}
