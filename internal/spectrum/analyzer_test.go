package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzerFullScaleSineNearZeroDB(t *testing.T) {
	const (
		sampleRate = 44100.0
		fftSize    = 2048
	)
	a := NewAnalyzer(sampleRate, fftSize)

	// A full-scale sine exactly on a bin center.
	bin := 64
	freq := float64(bin) * sampleRate / fftSize
	frame := make([]float64, fftSize)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	spectrum := a.Process(frame, nil)
	require.Len(t, spectrum, fftSize/2)

	assert.InDelta(t, 0.0, spectrum[bin], 1.0)

	// Bins far away sit near the floor.
	assert.Less(t, spectrum[bin+200], -60.0)
}

func TestAnalyzerSilenceHitsFloor(t *testing.T) {
	a := NewAnalyzer(48000, 1024)
	spectrum := a.Process(make([]float64, 1024), nil)
	for _, db := range spectrum {
		assert.Equal(t, dbFloor, db)
	}
}

func TestAnalyzerZeroPadsShortFrames(t *testing.T) {
	a := NewAnalyzer(48000, 1024)
	spectrum := a.Process(make([]float64, 100), nil)
	require.Len(t, spectrum, 512)
	for _, db := range spectrum {
		assert.False(t, math.IsNaN(db))
		assert.GreaterOrEqual(t, db, dbFloor)
	}
}

func TestToMonoAveragesChannels(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := ToMono(stereo, 2, nil)
	require.Len(t, mono, 3)
	assert.InDelta(t, 0.5, mono[0], 1e-6)
	assert.InDelta(t, 0.5, mono[1], 1e-6)
	assert.InDelta(t, 0.0, mono[2], 1e-6)
}

func TestSyntheticShapeAndRange(t *testing.T) {
	s := NewSynthetic(44100, 2048, 1)
	spectrum := s.Spectrum(nil)
	require.Len(t, spectrum, 1024)
	for _, db := range spectrum {
		assert.GreaterOrEqual(t, db, dbFloor)
		assert.LessOrEqual(t, db, 0.0)
	}
}

func TestLiveStartsSilent(t *testing.T) {
	l := NewLive(NewAnalyzer(44100, 2048))
	spectrum := l.Spectrum(nil)
	require.Len(t, spectrum, 1024)
	assert.Equal(t, dbFloor, spectrum[0])

	l.Push(make([]float32, 2048), 1)
	spectrum = l.Spectrum(spectrum)
	assert.Equal(t, dbFloor, spectrum[0])
}
