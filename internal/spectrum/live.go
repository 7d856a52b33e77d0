package spectrum

import "sync"

// Live is a Source fed asynchronously by an audio capture callback. The
// capture goroutine pushes PCM frames; the tick loop reads the most
// recent dB snapshot. Only the handoff buffer is shared, guarded by a
// mutex.
type Live struct {
	analyzer *Analyzer

	mu     sync.Mutex
	latest []float64
	mono   []float64
}

// NewLive wraps an analyzer into a capture-fed source. Before the first
// frame arrives the spectrum reads as silence.
func NewLive(analyzer *Analyzer) *Live {
	half := analyzer.FFTSize() / 2
	latest := make([]float64, half)
	for i := range latest {
		latest[i] = dbFloor
	}
	return &Live{analyzer: analyzer, latest: latest}
}

// Push ingests an interleaved capture buffer. Safe to call from the
// audio callback goroutine.
func (l *Live) Push(samples []float32, channels int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mono = ToMono(samples, channels, l.mono)
	l.latest = l.analyzer.Process(l.mono, l.latest)
}

// Spectrum copies the most recent snapshot into dst.
func (l *Live) Spectrum(dst []float64) []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cap(dst) < len(l.latest) {
		dst = make([]float64, len(l.latest))
	}
	dst = dst[:len(l.latest)]
	copy(dst, l.latest)
	return dst
}

// SampleRate returns the analyzer's sample rate.
func (l *Live) SampleRate() float64 { return l.analyzer.SampleRate() }

// FFTSize returns the analyzer's transform size.
func (l *Live) FFTSize() int { return l.analyzer.FFTSize() }
