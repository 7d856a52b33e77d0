package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// dbFloor bounds the log conversion so silent bins produce a finite
// floor value instead of -Inf.
const dbFloor = -120.0

// Analyzer converts mono PCM frames into per-bin dB magnitudes. It reuses
// scratch buffers to keep allocations predictable for real-time use.
type Analyzer struct {
	sampleRate    float64
	fftSize       int
	window        []float64
	windowSum     float64
	windowedFrame []float64
}

// NewAnalyzer constructs an Analyzer for a given sample rate and
// transform size.
func NewAnalyzer(sampleRate float64, fftSize int) *Analyzer {
	if sampleRate <= 0 {
		panic("spectrum: sampleRate must be > 0")
	}
	if fftSize <= 0 {
		panic("spectrum: fftSize must be > 0")
	}

	window := HannWindow(fftSize)
	sum := 0.0
	for _, w := range window {
		sum += w
	}
	return &Analyzer{
		sampleRate:    sampleRate,
		fftSize:       fftSize,
		window:        window,
		windowSum:     sum,
		windowedFrame: make([]float64, fftSize),
	}
}

// SampleRate returns the configured sample rate.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// FFTSize returns the configured transform size.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Process windows the frame, transforms it, and writes dB magnitudes for
// the first fftSize/2 bins into dst, growing it as needed. Frames shorter
// than the transform size are zero-padded.
func (a *Analyzer) Process(frame []float64, dst []float64) []float64 {
	n := copy(a.windowedFrame, frame)
	for i := n; i < a.fftSize; i++ {
		a.windowedFrame[i] = 0
	}
	for i := 0; i < n; i++ {
		a.windowedFrame[i] *= a.window[i]
	}

	spectrum := fft.FFTReal(a.windowedFrame)

	half := a.fftSize / 2
	if cap(dst) < half {
		dst = make([]float64, half)
	}
	dst = dst[:half]

	// Scale by 2/windowSum so a full-scale sine lands near 0 dBFS.
	scale := 2 / a.windowSum
	for i := 0; i < half; i++ {
		mag := cmplx.Abs(spectrum[i]) * scale
		if mag <= 0 {
			dst[i] = dbFloor
			continue
		}
		db := 20 * math.Log10(mag)
		if db < dbFloor {
			db = dbFloor
		}
		dst[i] = db
	}
	return dst
}

// ToMono averages interleaved multi-channel data into a mono frame.
func ToMono(samples []float32, channels int, dst []float64) []float64 {
	if channels <= 0 {
		channels = 1
	}
	frameLen := len(samples) / channels
	if cap(dst) < frameLen {
		dst = make([]float64, frameLen)
	} else {
		dst = dst[:frameLen]
	}
	idx := 0
	for i := 0; i < frameLen; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(samples[idx])
			idx++
		}
		dst[i] = sum / float64(channels)
	}
	return dst
}

// HannWindow returns a precomputed Hann window for the requested size.
func HannWindow(n int) []float64 {
	if n <= 0 {
		return nil
	}
	window := make([]float64, n)
	if n == 1 {
		window[0] = 1
		return window
	}
	for i := 0; i < n; i++ {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return window
}
