// Package analysis orchestrates the wound measurement pipeline: skin-tone
// classification, region masking, detection (neural with heuristic
// fallback), area estimation, healing indicators and the visualization
// composite.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ayusman/woundguard/internal/area"
	"github.com/ayusman/woundguard/internal/detect"
	"github.com/ayusman/woundguard/internal/healing"
	"github.com/ayusman/woundguard/internal/imaging"
	"github.com/ayusman/woundguard/internal/roi"
	"github.com/ayusman/woundguard/internal/skin"
)

// Config holds configuration options for the analyzer.
type Config struct {
	// ModelPath is the ONNX segmentation model asset. Empty disables the
	// neural path entirely.
	ModelPath string

	// CacheSize is the number of analysis results memoized by image hash
	// and options. Zero means the default of 32.
	CacheSize int
}

// Request mirrors the analysis options accepted over the API.
type Request struct {
	// Sensitivity is "low", "medium" or "high"; empty means medium.
	Sensitivity string `json:"sensitivity"`

	// ReferencePixels and ReferenceSize calibrate pixel counts against a
	// reference object of known physical area (mm²). Both must be set.
	ReferencePixels int     `json:"referencePixels,omitempty"`
	ReferenceSize   float64 `json:"referenceSize,omitempty"`

	// ReferenceWidth is an alternative calibration: the reference object's
	// measured width in pixels, with ReferenceSize then read as its
	// physical size in mm. Ignored when ReferencePixels is set.
	ReferenceWidth float64 `json:"referenceWidth,omitempty"`

	// AssumedImageSize is the field-of-view area in mm² used without a
	// reference. Zero means the 2500 mm² default.
	AssumedImageSize float64 `json:"assumedImageSize,omitempty"`

	// UserOutline and BoundingBox restrict analysis to a user-drawn
	// region. The outline wins when both are present.
	UserOutline *roi.Outline `json:"userOutline,omitempty"`
	BoundingBox *roi.Box     `json:"boundingBox,omitempty"`

	// UseML enables the neural segmentation path. Its failures silently
	// fall back to the heuristic detector.
	UseML bool `json:"useML,omitempty"`
}

// Result is the WoundAnalysisResult returned to the caller. It is an
// immutable value; persisting it is the caller's decision.
type Result struct {
	EstimatedArea     int                 `json:"estimatedArea"`
	ProcessedImageURL string              `json:"processedImageUrl"`
	Confidence        float64             `json:"confidence"`
	PixelCount        int                 `json:"pixelCount"`
	TotalPixels       int                 `json:"totalPixels"`
	DetectionMethod   string              `json:"detectionMethod"`
	HealingIndicators *healing.Indicators `json:"healingIndicators,omitempty"`
	FitzpatrickType   int                 `json:"fitzpatrickType,omitempty"`
}

// Analyzer runs analysis requests. It owns the shared model service; all
// other pipeline state is per-call.
type Analyzer struct {
	heuristic detect.Detector
	neural    detect.Detector
	model     *detect.ModelService
	cache     *lru.Cache[string, *Result]
}

// New creates an Analyzer with the given configuration.
func New(cfg Config) *Analyzer {
	size := cfg.CacheSize
	if size <= 0 {
		size = 32
	}
	cache, _ := lru.New[string, *Result](size)

	a := &Analyzer{
		heuristic: detect.NewHeuristicDetector(),
		cache:     cache,
	}
	if cfg.ModelPath != "" {
		a.model = detect.NewModelService(cfg.ModelPath)
		a.neural = detect.NewNeuralDetector(a.model)
	}
	return a
}

// ModelStatus reports the segmentation model load state, or a zero status
// when no model is configured.
func (a *Analyzer) ModelStatus() detect.ModelStatus {
	if a.model == nil {
		return detect.ModelStatus{}
	}
	return a.model.Status()
}

// ResetModel clears a cached model load failure so the next analysis
// retries loading. It is a no-op without a configured model.
func (a *Analyzer) ResetModel() {
	if a.model != nil {
		a.model.Reset()
	}
}

// Close releases the model service.
func (a *Analyzer) Close() error {
	if a.model != nil {
		return a.model.Close()
	}
	return nil
}

// AnalyzeImage decodes an encoded photo and analyzes it. Results are
// memoized on the image hash and options, which coalesces the rapid
// identical requests produced by live preview into one computation.
func (a *Analyzer) AnalyzeImage(ctx context.Context, data []byte, req Request) (*Result, error) {
	key := cacheKey(data, req)
	if res, ok := a.cache.Get(key); ok {
		return res, nil
	}

	buf, err := imaging.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	res, err := a.Analyze(ctx, buf, req)
	if err != nil {
		return nil, err
	}
	a.cache.Add(key, res)
	return res, nil
}

// Analyze runs the full pipeline on a decoded pixel buffer.
func (a *Analyzer) Analyze(ctx context.Context, buf *imaging.Buffer, req Request) (*Result, error) {
	if buf.TotalPixels() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	profile := skin.Classify(buf)

	// A degenerate bounding box is ignored outright, not failed open: it
	// must not relabel the method or shift the detector's ROI noise floor.
	box := req.BoundingBox
	if !box.Usable() {
		box = nil
	}

	var region *roi.Mask
	var methodSuffix string
	switch {
	case req.UserOutline != nil && len(req.UserOutline.Points) >= 3:
		region = roi.FromOutline(req.UserOutline, buf.Width, buf.Height)
		methodSuffix = " (user outline)"
	case box != nil:
		region = roi.FromBox(box, buf.Width, buf.Height)
		methodSuffix = " (bounding box)"
	}

	opts := detect.Options{
		Settings: detect.SettingsFor(detect.ParseSensitivity(req.Sensitivity)),
		Region:   region,
		Box:      box,
		Profile:  profile,
	}

	res, err := a.detect(ctx, buf, opts, req.UseML)
	if err != nil {
		return nil, err
	}
	enforceRegion(res, region)

	var estimated int
	switch {
	case req.ReferencePixels > 0 && req.ReferenceSize > 0:
		estimated = area.EstimateCalibrated(res.PixelCount, req.ReferencePixels, req.ReferenceSize)
	case req.ReferenceWidth > 0 && req.ReferenceSize > 0:
		estimated = area.EstimateFromWidth(res.PixelCount, req.ReferenceSize, req.ReferenceWidth)
	default:
		estimated = area.Estimate(res.PixelCount, res.TotalPixels, req.AssumedImageSize)
	}

	method := res.Method + methodSuffix

	vis := area.Compose(buf, res.Mask, req.UserOutline, box, method)
	imageURL, err := imaging.EncodePNGDataURL(vis.Image)
	if err != nil {
		return nil, fmt.Errorf("render visualization: %w", err)
	}

	out := &Result{
		EstimatedArea:     estimated,
		ProcessedImageURL: imageURL,
		Confidence:        res.Confidence,
		PixelCount:        res.PixelCount,
		TotalPixels:       res.TotalPixels,
		DetectionMethod:   method,
		FitzpatrickType:   profile.Fitzpatrick,
	}
	if res.PixelCount > 0 {
		ind := healing.Analyze(buf, res.Mask)
		out.HealingIndicators = &ind
	}
	return out, nil
}

// detect chooses the detection path. The neural path is best-effort: any
// load or inference failure degrades to the heuristic detector instead of
// failing the analysis.
func (a *Analyzer) detect(ctx context.Context, buf *imaging.Buffer, opts detect.Options, useML bool) (*detect.Result, error) {
	if useML && a.neural != nil {
		res, err := a.neural.Detect(ctx, buf, opts)
		if err == nil {
			return res, nil
		}
		log.Printf("neural segmentation unavailable, falling back to color analysis: %v", err)
	}
	return a.heuristic.Detect(ctx, buf, opts)
}

// enforceRegion clears any mask pixel outside the user region and
// recomputes the count and confidence from what remains. No mask pixel
// outside the region may survive, whichever detector produced the mask.
func enforceRegion(res *detect.Result, region *roi.Mask) {
	if region == nil || res.Mask == nil {
		return
	}
	removed := 0
	var removedConf float64
	for i, inside := range region.Inside {
		p := i * 4
		if inside || res.Mask.Pix[p+3] == 0 {
			continue
		}
		removed++
		removedConf += float64(res.Mask.Pix[p+3]-55) / 200
		res.Mask.Pix[p] = 0
		res.Mask.Pix[p+1] = 0
		res.Mask.Pix[p+2] = 0
		res.Mask.Pix[p+3] = 0
	}
	if removed == 0 {
		return
	}
	kept := res.PixelCount - removed
	if kept <= 0 {
		res.PixelCount = 0
		res.Confidence = 0
		return
	}
	// Recover the kept pixels' mean from the running totals.
	totalConf := res.Confidence * float64(res.PixelCount)
	res.PixelCount = kept
	res.Confidence = clamp01((totalConf - removedConf) / float64(kept))
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

// cacheKey hashes the image bytes together with the canonical JSON of the
// request options.
func cacheKey(data []byte, req Request) string {
	h := sha256.New()
	h.Write(data)
	if opts, err := json.Marshal(req); err == nil {
		h.Write(opts)
	}
	return hex.EncodeToString(h.Sum(nil))
}
