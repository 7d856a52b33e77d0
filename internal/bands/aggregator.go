package bands

import (
	"github.com/lumabeat/lumabeat/internal/utils"
)

const (
	// DefaultMinDecibels and DefaultMaxDecibels bound the dB range that
	// normalizes raw magnitudes into [0,1].
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0

	// DefaultSmoothing is the per-band EMA factor. Higher values track the
	// input faster, lower values smooth harder.
	DefaultSmoothing = 0.3
)

// Config tunes the Aggregator. Zero values fall back to defaults.
type Config struct {
	SampleRate  float64
	FFTSize     int
	Bands       []FrequencyBand
	MinDecibels float64
	MaxDecibels float64
	Smoothing   float64
}

// Aggregator folds a raw per-bin dB spectrum into one smoothed, normalized
// energy per configured band. Bin ranges are resolved once at construction;
// smoothing state persists across ticks.
type Aggregator struct {
	cfg      Config
	nyquist  float64
	binCount int
	ranges   []binRange
	smoothed []float64
	frame    AnalysisFrame
}

// NewAggregator constructs an Aggregator for a given sample rate and
// transform size.
func NewAggregator(cfg Config) *Aggregator {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2048
	}
	if len(cfg.Bands) == 0 {
		cfg.Bands = DefaultBands()
	}
	if cfg.MinDecibels == 0 && cfg.MaxDecibels == 0 {
		cfg.MinDecibels = DefaultMinDecibels
		cfg.MaxDecibels = DefaultMaxDecibels
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = DefaultSmoothing
	}

	a := &Aggregator{
		cfg:      cfg,
		nyquist:  cfg.SampleRate / 2,
		binCount: cfg.FFTSize / 2,
		smoothed: make([]float64, len(cfg.Bands)),
		ranges:   make([]binRange, len(cfg.Bands)),
	}
	for i, band := range cfg.Bands {
		maxHz := utils.Clamp(band.MaxHz, 0, a.nyquist)
		a.ranges[i] = binRange{
			start: FreqToBin(band.MinHz, a.nyquist, a.binCount),
			end:   FreqToBin(maxHz, a.nyquist, a.binCount),
		}
	}
	a.frame = AnalysisFrame{
		Spectrum: make([]float64, a.binCount),
		Bands:    make([]float64, len(cfg.Bands)),
	}
	return a
}

// Process ingests the latest raw dB spectrum and returns the updated
// AnalysisFrame. The returned frame is owned by the aggregator and valid
// until the next call; use Clone to keep it longer.
func (a *Aggregator) Process(spectrum []float64) AnalysisFrame {
	n := copy(a.frame.Spectrum, spectrum)
	for i := n; i < len(a.frame.Spectrum); i++ {
		a.frame.Spectrum[i] = a.cfg.MinDecibels
	}

	alpha := a.cfg.Smoothing
	for i, r := range a.ranges {
		normalized := a.Normalize(a.averageDB(r))
		a.smoothed[i] = a.smoothed[i]*(1-alpha) + normalized*alpha
		a.frame.Bands[i] = a.smoothed[i]
	}
	return a.frame
}

// averageDB averages raw dB magnitudes over the band's inclusive bin
// range, falling back to the configured floor when the range is empty.
func (a *Aggregator) averageDB(r binRange) float64 {
	start := utils.ClampIndex(r.start, len(a.frame.Spectrum))
	end := utils.ClampIndex(r.end, len(a.frame.Spectrum))
	if r.empty() || end < start {
		return a.cfg.MinDecibels
	}
	sum := 0.0
	for bin := start; bin <= end; bin++ {
		sum += a.frame.Spectrum[bin]
	}
	return sum / float64(end-start+1)
}

// Normalize maps a dB value linearly from [MinDecibels, MaxDecibels] onto
// [0,1], clamping first. A zero-width range normalizes by 1 instead.
func (a *Aggregator) Normalize(db float64) float64 {
	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	if span == 0 {
		span = 1
	}
	clamped := utils.Clamp(db, a.cfg.MinDecibels, a.cfg.MaxDecibels)
	return (clamped - a.cfg.MinDecibels) / span
}

// Frame returns the current AnalysisFrame for shared consumption within
// the tick that produced it.
func (a *Aggregator) Frame() AnalysisFrame {
	return a.frame
}

// BandsConfig returns the configured band list for UI display.
func (a *Aggregator) BandsConfig() []FrequencyBand {
	out := make([]FrequencyBand, len(a.cfg.Bands))
	copy(out, a.cfg.Bands)
	return out
}

// Nyquist returns half the configured sample rate.
func (a *Aggregator) Nyquist() float64 {
	return a.nyquist
}

// BinCount returns the number of spectrum bins (half the transform size).
func (a *Aggregator) BinCount() int {
	return a.binCount
}
