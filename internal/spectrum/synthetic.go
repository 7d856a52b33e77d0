package spectrum

import (
	"math"
	"math/rand"
	"sync"
)

// Synthetic generates a plausible music-like dB spectrum without any
// audio device: a pink-ish noise floor plus slowly drifting band humps.
// Useful for demos and deterministic-ish smoke testing.
type Synthetic struct {
	sampleRate float64
	fftSize    int

	mu  sync.Mutex
	rng *rand.Rand

	phaseBass float64
	phaseMid  float64
	phaseHigh float64
}

// NewSynthetic constructs a generator. seed fixes the noise sequence.
func NewSynthetic(sampleRate float64, fftSize int, seed int64) *Synthetic {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	if fftSize <= 0 {
		fftSize = 2048
	}
	return &Synthetic{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Spectrum fills dst with the next synthetic dB snapshot. Safe for
// concurrent callers; each advances the drift.
func (s *Synthetic) Spectrum(dst []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	half := s.fftSize / 2
	if cap(dst) < half {
		dst = make([]float64, half)
	}
	dst = dst[:half]

	s.phaseBass += 0.7 / 30
	s.phaseMid += 1.2 / 30
	s.phaseHigh += 2.1 / 30

	bass := 0.5 + 0.5*math.Sin(s.phaseBass)
	mid := 0.4 + 0.4*math.Sin(s.phaseMid+0.5)
	high := 0.3 + 0.3*math.Sin(s.phaseHigh+1.0)

	nyquist := s.sampleRate / 2
	for i := range dst {
		freq := float64(i) / float64(half-1) * nyquist
		level := -95.0 // noise floor
		level += hump(freq, 80, 1.2) * 55 * bass
		level += hump(freq, 900, 1.0) * 45 * mid
		level += hump(freq, 6500, 0.9) * 40 * high
		level += s.rng.Float64()*4 - 2
		if level < dbFloor {
			level = dbFloor
		}
		dst[i] = level
	}
	return dst
}

// hump is a log-frequency Gaussian bump centered on centerHz.
func hump(freq, centerHz, width float64) float64 {
	if freq <= 0 {
		freq = 1
	}
	d := math.Log2(freq/centerHz) / width
	return math.Exp(-d * d)
}

// SampleRate returns the configured sample rate.
func (s *Synthetic) SampleRate() float64 { return s.sampleRate }

// FFTSize returns the configured transform size.
func (s *Synthetic) FFTSize() int { return s.fftSize }
