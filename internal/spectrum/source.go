// Package spectrum supplies the raw spectral magnitude data the analysis
// pipeline consumes. Sources turn PCM audio (live capture, wav files, or
// a synthetic generator) into per-bin decibel snapshots; the analysis
// core itself never touches time-domain samples.
package spectrum

// Source provides a per-bin dB magnitude snapshot of the linear frequency
// axis from 0 Hz to Nyquist, refreshed on demand once per tick.
type Source interface {
	// Spectrum fills dst with the latest dB magnitudes and returns it.
	// The result always has FFTSize()/2 values.
	Spectrum(dst []float64) []float64
	SampleRate() float64
	FFTSize() int
}
