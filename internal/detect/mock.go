package detect

import (
	"context"
	"image"

	"github.com/ayusman/woundguard/internal/imaging"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	result *Result
	err    error
	calls  int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetResult sets the result that will be returned by Detect.
func (m *MockDetector) SetResult(r *Result) {
	m.result = r
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured result or error. When neither is set it
// returns an empty zero-detection result sized to the buffer.
func (m *MockDetector) Detect(ctx context.Context, buf *imaging.Buffer, opts Options) (*Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &Result{
		TotalPixels: buf.TotalPixels(),
		Mask:        image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height)),
		Method:      "mock",
	}, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// UniformResult returns a preset detection result marking every pixel of a
// w x h image as wound with the given confidence.
func UniformResult(w, h int, conf float64) *Result {
	mask := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(mask.Pix); i += 4 {
		mask.Pix[i] = maskR
		mask.Pix[i+1] = maskG
		mask.Pix[i+2] = maskB
		mask.Pix[i+3] = maskAlpha(conf)
	}
	return &Result{
		PixelCount:  w * h,
		TotalPixels: w * h,
		Confidence:  conf,
		Mask:        mask,
		Method:      "mock",
	}
}
