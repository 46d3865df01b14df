package detect

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
	xdraw "golang.org/x/image/draw"

	"github.com/ayusman/woundguard/internal/imaging"
)

// MethodMLSegmentation is the detection method label of the neural path.
const MethodMLSegmentation = "ML segmentation"

// modelInputSize is the fixed square input resolution of the segmentation
// network.
const modelInputSize = 224

// probThreshold binarizes the probability map into the wound mask.
const probThreshold = 0.5

// NeuralDetector produces a wound mask by running a pretrained binary
// segmentation model. Every error here is recoverable: the caller falls
// back to the heuristic detector.
type NeuralDetector struct {
	model *ModelService
}

// NewNeuralDetector creates a neural detector backed by the given model
// service.
func NewNeuralDetector(model *ModelService) *NeuralDetector {
	return &NeuralDetector{model: model}
}

// Close is a no-op; the model service owns the network.
func (d *NeuralDetector) Close() error { return nil }

// Detect resizes the photo into the model's input tensor, runs inference,
// and upsamples the probability map back to source resolution.
func (d *NeuralDetector) Detect(ctx context.Context, buf *imaging.Buffer, opts Options) (*Result, error) {
	if err := d.model.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	w, h := buf.Width, buf.Height
	total := w * h
	if total == 0 {
		return nil, fmt.Errorf("empty image")
	}

	// Crop to the bounding box when one is supplied; pixels outside the box
	// stay unmarked in the output mask.
	srcRect := image.Rect(0, 0, w, h)
	if b := opts.Box; b != nil && b.Width > 0 && b.Height > 0 {
		srcRect = image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height).Intersect(srcRect)
		if srcRect.Empty() {
			srcRect = image.Rect(0, 0, w, h)
		}
	}

	input := d.preprocess(buf, srcRect, opts)

	mat, err := gocv.ImageToMatRGB(input)
	if err != nil {
		return nil, fmt.Errorf("%w: convert input: %v", ErrModelUnavailable, err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(modelInputSize, modelInputSize),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	out, err := d.model.forward(blob)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil || len(data) < modelInputSize*modelInputSize {
		return nil, fmt.Errorf("%w: unexpected output shape", ErrModelUnavailable)
	}
	prob := make([]float32, modelInputSize*modelInputSize)
	copy(prob, data)

	return d.postprocess(prob, w, h, srcRect), nil
}

// preprocess scales the (optionally cropped) photo down to the model input
// square and zeroes pixels outside the user region mapped into input space.
func (d *NeuralDetector) preprocess(buf *imaging.Buffer, srcRect image.Rectangle, opts Options) *image.RGBA {
	input := image.NewRGBA(image.Rect(0, 0, modelInputSize, modelInputSize))
	xdraw.BiLinear.Scale(input, input.Bounds(), buf.RGBA().SubImage(srcRect), srcRect, xdraw.Src, nil)

	if opts.Region != nil {
		for iy := 0; iy < modelInputSize; iy++ {
			sy := srcRect.Min.Y + iy*srcRect.Dy()/modelInputSize
			for ix := 0; ix < modelInputSize; ix++ {
				sx := srcRect.Min.X + ix*srcRect.Dx()/modelInputSize
				if sx >= opts.Region.Width || sy >= opts.Region.Height || !opts.Region.Contains(sx, sy) {
					p := input.PixOffset(ix, iy)
					input.Pix[p] = 0
					input.Pix[p+1] = 0
					input.Pix[p+2] = 0
				}
			}
		}
	}
	return input
}

// postprocess bilinearly upsamples the probability map back into the source
// region, thresholds it, and keeps the raw probability as per-pixel
// confidence.
func (d *NeuralDetector) postprocess(prob []float32, w, h int, srcRect image.Rectangle) *Result {
	mask := image.NewRGBA(image.Rect(0, 0, w, h))
	detected := 0
	var sumConf float64

	sx := float64(modelInputSize) / float64(srcRect.Dx())
	sy := float64(modelInputSize) / float64(srcRect.Dy())

	for y := srcRect.Min.Y; y < srcRect.Max.Y; y++ {
		fy := (float64(y-srcRect.Min.Y) + 0.5) * sy
		for x := srcRect.Min.X; x < srcRect.Max.X; x++ {
			fx := (float64(x-srcRect.Min.X) + 0.5) * sx
			p := sampleBilinear(prob, modelInputSize, modelInputSize, fx, fy)
			if p < probThreshold {
				continue
			}
			conf := clamp01(float64(p))
			detected++
			sumConf += conf
			i := (y*w + x) * 4
			mask.Pix[i] = maskR
			mask.Pix[i+1] = maskG
			mask.Pix[i+2] = maskB
			mask.Pix[i+3] = maskAlpha(conf)
		}
	}

	res := &Result{
		PixelCount:  detected,
		TotalPixels: w * h,
		Mask:        mask,
		Method:      MethodMLSegmentation,
	}
	if detected > 0 {
		res.Confidence = sumConf / float64(detected)
	}
	return res
}

// sampleBilinear interpolates a single-channel float map at the continuous
// coordinate (fx, fy), expressed in pixel-center convention.
func sampleBilinear(m []float32, w, h int, fx, fy float64) float32 {
	fx -= 0.5
	fy -= 0.5
	x0 := int(fx)
	y0 := int(fy)
	if fx < 0 {
		x0 = 0
		fx = 0
	}
	if fy < 0 {
		y0 = 0
		fy = 0
	}
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	if x0 >= w {
		x0 = w - 1
	}
	if y0 >= h {
		y0 = h - 1
	}
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	p00 := m[y0*w+x0]
	p10 := m[y0*w+x1]
	p01 := m[y1*w+x0]
	p11 := m[y1*w+x1]

	top := p00 + (p10-p00)*tx
	bot := p01 + (p11-p01)*tx
	return top + (bot-top)*ty
}
