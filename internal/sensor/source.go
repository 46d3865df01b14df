package sensor

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"
)

// Source produces a stream of complete readings.
type Source interface {
	// Run emits readings on the returned channel until ctx is cancelled
	// or the underlying stream ends. The channel is closed on exit.
	Run(ctx context.Context) <-chan Reading
}

// LineSource reads serial-style sensor lines from an io.Reader, for
// example a tty device or a recorded capture file.
type LineSource struct {
	r io.Reader
}

// NewLineSource creates a Source over r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r}
}

// Run scans lines and emits each completed reading.
func (s *LineSource) Run(ctx context.Context) <-chan Reading {
	out := make(chan Reading, 1)
	go func() {
		defer close(out)
		parser := NewParser()
		scanner := bufio.NewScanner(s.r)
		for scanner.Scan() {
			reading, done := parser.Feed(scanner.Text())
			if !done {
				continue
			}
			select {
			case out <- reading:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Simulator generates plausible readings without hardware attached. The
// values random-walk inside the ranges the probe firmware produces:
// pH 4.0-7.0, temperature 34.5-38.0 °C, moisture 60-90 %.
type Simulator struct {
	// Interval is the emit cadence. Zero means a randomized 5-10 s, the
	// firmware's reporting rate.
	Interval time.Duration

	rng  *rand.Rand
	last Reading
}

// NewSimulator creates a Simulator seeded for reproducible sequences.
func NewSimulator(seed int64) *Simulator {
	rng := rand.New(rand.NewSource(seed))
	return &Simulator{
		rng: rng,
		last: Reading{
			PH:          5.5,
			Temperature: 36.2,
			Humidity:    75,
		},
	}
}

// Next returns the next simulated reading.
func (s *Simulator) Next() Reading {
	s.last.PH = walk(s.rng, s.last.PH, 0.2, 4.0, 7.0)
	s.last.Temperature = walk(s.rng, s.last.Temperature, 0.15, 34.5, 38.0)
	s.last.Humidity = walk(s.rng, s.last.Humidity, 2.0, 60, 90)
	s.last.Timestamp = time.Now()
	return s.last
}

// Run emits simulated readings at the configured cadence.
func (s *Simulator) Run(ctx context.Context) <-chan Reading {
	out := make(chan Reading, 1)
	go func() {
		defer close(out)
		for {
			interval := s.Interval
			if interval <= 0 {
				interval = 5*time.Second + time.Duration(s.rng.Int63n(int64(5*time.Second)))
			}
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return
			}
			select {
			case out <- s.Next():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// walk nudges v by up to ±step, clamped to [lo, hi].
func walk(rng *rand.Rand, v, step, lo, hi float64) float64 {
	v += (rng.Float64()*2 - 1) * step
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
