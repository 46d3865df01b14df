package detect

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// ModelStatus describes the shared load state of the segmentation model.
type ModelStatus struct {
	Loaded  bool
	Loading bool
	Err     error
}

// ModelService owns the pretrained segmentation network and its load state.
// Loading is lazy and single-flight: concurrent callers of EnsureLoaded
// share one load attempt, and the outcome (success or failure) is cached.
type ModelService struct {
	path string

	mu       sync.Mutex
	inflight chan struct{}
	net      gocv.Net
	loaded   bool
	err      error
}

// NewModelService creates a model service for the ONNX model at path. The
// file is not touched until the first EnsureLoaded call.
func NewModelService(path string) *ModelService {
	return &ModelService{path: path}
}

// EnsureLoaded loads the model on first use. If a load is already in
// flight the call waits for it instead of starting another. A failed load
// is cached until Reset.
func (s *ModelService) EnsureLoaded(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.loaded {
			s.mu.Unlock()
			return nil
		}
		if s.err != nil {
			err := s.err
			s.mu.Unlock()
			return err
		}
		if ch := s.inflight; ch != nil {
			s.mu.Unlock()
			select {
			case <-ch:
				continue // re-check the cached outcome
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		ch := make(chan struct{})
		s.inflight = ch
		s.mu.Unlock()

		err := s.load()

		s.mu.Lock()
		s.inflight = nil
		if err != nil {
			s.err = err
		} else {
			s.loaded = true
		}
		s.mu.Unlock()
		close(ch)
		return err
	}
}

// load reads the network from disk. Called without the lock held so waiters
// can observe the in-flight channel.
func (s *ModelService) load() error {
	if s.path == "" {
		return fmt.Errorf("%w: no model path configured", ErrModelUnavailable)
	}
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	net := gocv.ReadNetFromONNX(s.path)
	if net.Empty() {
		return fmt.Errorf("%w: failed to read network from %s", ErrModelUnavailable, s.path)
	}

	log.Printf("segmentation model loaded from %s", s.path)
	s.net = net
	return nil
}

// Status returns the current load state.
func (s *ModelService) Status() ModelStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ModelStatus{
		Loaded:  s.loaded,
		Loading: s.inflight != nil,
		Err:     s.err,
	}
}

// Reset clears a cached load failure so the next EnsureLoaded retries.
func (s *ModelService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.err = nil
	}
}

// forward runs one inference on the loaded network. The network is not
// safe for concurrent use, so calls are serialized under the service lock.
func (s *ModelService) forward(blob gocv.Mat) (gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return gocv.Mat{}, fmt.Errorf("%w: model not loaded", ErrModelUnavailable)
	}
	s.net.SetInput(blob, "")
	out := s.net.Forward("")
	if out.Empty() {
		out.Close()
		return gocv.Mat{}, fmt.Errorf("%w: inference produced no output", ErrModelUnavailable)
	}
	return out, nil
}

// Close releases the network.
func (s *ModelService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		s.loaded = false
		return s.net.Close()
	}
	return nil
}
