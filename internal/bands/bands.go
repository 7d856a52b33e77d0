package bands

import "github.com/lumabeat/lumabeat/internal/utils"

// FrequencyBand is a named, inclusive frequency range in Hz. Bands are
// immutable configuration; bin ranges are derived once at aggregator
// construction.
type FrequencyBand struct {
	ID    string
	Label string
	MinHz float64
	MaxHz float64
}

// DefaultBands returns the six-band layout used for music content. Upper
// bounds above the Nyquist frequency are clamped when bin ranges are
// resolved, so the same layout works for any sample rate.
func DefaultBands() []FrequencyBand {
	return []FrequencyBand{
		{ID: "sub", Label: "Sub", MinHz: 20, MaxHz: 60},
		{ID: "bass", Label: "Bass", MinHz: 60, MaxHz: 250},
		{ID: "lowmid", Label: "Low Mid", MinHz: 250, MaxHz: 500},
		{ID: "mid", Label: "Mid", MinHz: 500, MaxHz: 2000},
		{ID: "presence", Label: "Presence", MinHz: 2000, MaxHz: 6000},
		{ID: "brilliance", Label: "Brilliance", MinHz: 6000, MaxHz: 16000},
	}
}

// CenterHz returns the arithmetic center of the band's frequency range.
func (b FrequencyBand) CenterHz() float64 {
	return (b.MinHz + b.MaxHz) / 2
}

// AnalysisFrame is the per-tick snapshot shared read-only by every
// consumer: the raw dB spectrum plus one smoothed energy per band.
type AnalysisFrame struct {
	Spectrum []float64
	Bands    []float64
}

// Clone returns a deep copy so a consumer can hold a frame across ticks.
func (f AnalysisFrame) Clone() AnalysisFrame {
	out := AnalysisFrame{
		Spectrum: make([]float64, len(f.Spectrum)),
		Bands:    make([]float64, len(f.Bands)),
	}
	copy(out.Spectrum, f.Spectrum)
	copy(out.Bands, f.Bands)
	return out
}

// binRange is the inclusive bin span a band aggregates over.
type binRange struct {
	start int
	end   int
}

func (r binRange) empty() bool {
	return r.end < r.start
}

// FreqToBin maps a frequency in Hz to the nearest bin index on the linear
// 0..Nyquist axis. Inputs at or below 0 Hz map to bin 0; inputs at or
// above Nyquist map to the last bin.
func FreqToBin(freq, nyquist float64, binCount int) int {
	if binCount <= 0 {
		return 0
	}
	if nyquist <= 0 || freq <= 0 {
		return 0
	}
	if freq >= nyquist {
		return binCount - 1
	}
	idx := int(freq/nyquist*float64(binCount-1) + 0.5)
	return utils.ClampIndex(idx, binCount)
}

// BinToFreq is the inverse of FreqToBin, clamping out-of-range indices to
// the nearest valid bin.
func BinToFreq(bin int, nyquist float64, binCount int) float64 {
	if binCount <= 1 || nyquist <= 0 {
		return 0
	}
	bin = utils.ClampIndex(bin, binCount)
	return float64(bin) / float64(binCount-1) * nyquist
}
