package bands

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSpectrum(binCount int, db float64) []float64 {
	spectrum := make([]float64, binCount)
	for i := range spectrum {
		spectrum[i] = db
	}
	return spectrum
}

func TestNormalizeClamps(t *testing.T) {
	a := NewAggregator(Config{SampleRate: 44100, FFTSize: 2048})

	assert.Equal(t, 0.0, a.Normalize(-500))
	assert.Equal(t, 1.0, a.Normalize(0))
	assert.InDelta(t, 0.5, a.Normalize(-65), 1e-9)

	for db := -200.0; db <= 50; db += 7.3 {
		v := a.Normalize(db)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestProcessFlatSpectrumAtCeiling(t *testing.T) {
	a := NewAggregator(Config{
		SampleRate:  44100,
		FFTSize:     2048,
		MinDecibels: -100,
		MaxDecibels: -30,
		Smoothing:   1, // no lag, expose the raw normalized value
	})

	frame := a.Process(flatSpectrum(a.BinCount(), -30))
	require.Len(t, frame.Bands, len(DefaultBands()))
	for _, energy := range frame.Bands {
		assert.InDelta(t, 1.0, energy, 1e-9)
	}
}

func TestSmoothingConvergesMonotonically(t *testing.T) {
	const alpha = 0.25
	a := NewAggregator(Config{SampleRate: 44100, FFTSize: 2048, Smoothing: alpha})

	spectrum := flatSpectrum(a.BinCount(), -30) // normalizes to 1.0 per band
	prev := 0.0
	for tick := 1; tick <= 40; tick++ {
		frame := a.Process(spectrum)
		v := frame.Bands[0]
		assert.Greater(t, v, prev, "tick %d", tick)
		assert.LessOrEqual(t, v, 1.0)

		expected := 1 - math.Pow(1-alpha, float64(tick))
		assert.InDelta(t, expected, v, 1e-9, "tick %d", tick)
		prev = v
	}
	assert.InDelta(t, 1.0, prev, 1e-4)
}

func TestBandEnergiesStayInRange(t *testing.T) {
	a := NewAggregator(Config{SampleRate: 48000, FFTSize: 1024})

	inputs := [][]float64{
		flatSpectrum(a.BinCount(), -1000),
		flatSpectrum(a.BinCount(), 1000),
		flatSpectrum(a.BinCount(), -65),
	}
	for _, spectrum := range inputs {
		for i := 0; i < 10; i++ {
			frame := a.Process(spectrum)
			for _, energy := range frame.Bands {
				assert.GreaterOrEqual(t, energy, 0.0)
				assert.LessOrEqual(t, energy, 1.0)
			}
		}
	}
}

func TestFreqBinRoundTrip(t *testing.T) {
	const (
		nyquist  = 22050.0
		binCount = 1024
	)
	for bin := 0; bin < binCount; bin++ {
		freq := BinToFreq(bin, nyquist, binCount)
		assert.Equal(t, bin, FreqToBin(freq, nyquist, binCount))
	}
}

func TestFreqToBinClampsEndpoints(t *testing.T) {
	const (
		nyquist  = 22050.0
		binCount = 1024
	)
	assert.Equal(t, 0, FreqToBin(-100, nyquist, binCount))
	assert.Equal(t, 0, FreqToBin(0, nyquist, binCount))
	assert.Equal(t, binCount-1, FreqToBin(nyquist, nyquist, binCount))
	assert.Equal(t, binCount-1, FreqToBin(nyquist*3, nyquist, binCount))

	assert.Equal(t, 0.0, BinToFreq(-5, nyquist, binCount))
	assert.Equal(t, nyquist, BinToFreq(binCount+7, nyquist, binCount))
}

func TestZeroWidthDecibelRange(t *testing.T) {
	a := NewAggregator(Config{
		SampleRate:  44100,
		FFTSize:     2048,
		MinDecibels: -60,
		MaxDecibels: -60,
		Smoothing:   1,
	})

	frame := a.Process(flatSpectrum(a.BinCount(), -60))
	for _, energy := range frame.Bands {
		assert.False(t, math.IsNaN(energy))
		assert.False(t, math.IsInf(energy, 0))
	}
}

func TestShortSpectrumPadsWithFloor(t *testing.T) {
	a := NewAggregator(Config{SampleRate: 44100, FFTSize: 2048, Smoothing: 1})

	// Only the first 10 bins carry data; everything else is treated as
	// the floor value.
	frame := a.Process(flatSpectrum(10, -30))
	assert.InDelta(t, 0.0, frame.Bands[len(frame.Bands)-1], 1e-9)
}

func TestBandsConfigCopies(t *testing.T) {
	a := NewAggregator(Config{SampleRate: 44100, FFTSize: 2048})
	cfg := a.BandsConfig()
	require.NotEmpty(t, cfg)
	cfg[0].Label = "mutated"
	assert.Equal(t, "Sub", a.BandsConfig()[0].Label)
}
