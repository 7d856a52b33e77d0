package spectrogram

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumabeat/lumabeat/internal/render"
	"github.com/lumabeat/lumabeat/internal/sched"
)

// stubSource returns the same dB value in every bin.
type stubSource struct {
	db      float64
	calls   int
	fftSize int
}

func (s *stubSource) Spectrum(dst []float64) []float64 {
	s.calls++
	half := s.fftSize / 2
	if cap(dst) < half {
		dst = make([]float64, half)
	}
	dst = dst[:half]
	for i := range dst {
		dst[i] = s.db
	}
	return dst
}

func (s *stubSource) SampleRate() float64 { return 44100 }
func (s *stubSource) FFTSize() int        { return s.fftSize }

func newTestRenderer(t *testing.T, db float64) (*Renderer, *render.Canvas, *stubSource, *sched.Manual) {
	t.Helper()
	canvas, err := render.NewCanvas(axisMargin+40, 60)
	require.NoError(t, err)
	source := &stubSource{db: db, fftSize: 2048}
	scheduler := sched.NewManual()
	r, err := New(Config{
		Surface:     canvas,
		Source:      source,
		Scheduler:   scheduler,
		MinDecibels: -100,
		MaxDecibels: -30,
	})
	require.NoError(t, err)
	return r, canvas, source, scheduler
}

func TestNewRequiresSurfaceAndSource(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	canvas, cerr := render.NewCanvas(axisMargin+10, 20)
	require.NoError(t, cerr)
	_, err = New(Config{Surface: canvas})
	assert.Error(t, err)
}

func TestNewRejectsTooNarrowSurface(t *testing.T) {
	canvas, err := render.NewCanvas(axisMargin, 20)
	require.NoError(t, err)
	_, err = New(Config{Surface: canvas, Source: &stubSource{fftSize: 1024}})
	assert.Error(t, err)
}

func TestTickDrawsHotColumn(t *testing.T) {
	r, canvas, _, _ := newTestRenderer(t, -30) // at the ceiling: near-white
	r.Tick()

	img := canvas.Image().(*image.RGBA)
	w := img.Bounds().Dx()
	px := img.RGBAAt(w-1, 30)
	assert.Greater(t, px.R, uint8(200))
	assert.Greater(t, px.G, uint8(200))
}

func TestTickScrollsColumnsLeft(t *testing.T) {
	r, canvas, source, _ := newTestRenderer(t, -30)
	r.Tick()

	// Dim the source and tick again: the hot column moves one pixel left.
	source.db = -100
	r.Tick()

	img := canvas.Image().(*image.RGBA)
	w := img.Bounds().Dx()
	assert.Greater(t, img.RGBAAt(w-2, 30).R, uint8(200))
	assert.Less(t, img.RGBAAt(w-1, 30).R, uint8(40))
}

func TestPausedSuppressesColumns(t *testing.T) {
	r, _, source, _ := newTestRenderer(t, -30)
	r.SetPaused(true)
	r.Tick()
	r.Tick()
	assert.Zero(t, source.calls)

	r.SetPaused(false)
	r.Tick()
	assert.Equal(t, 1, source.calls)
}

func TestStartStopIdempotent(t *testing.T) {
	r, _, source, scheduler := newTestRenderer(t, -50)

	r.Start()
	r.Start()
	scheduler.Advance(3)
	assert.Equal(t, 3, source.calls)

	r.Stop()
	r.Stop()
	assert.False(t, scheduler.Running())
}

func TestHeatColorSegments(t *testing.T) {
	assert.Equal(t, heatStops[0], HeatColor(0))
	assert.Equal(t, heatStops[1], HeatColor(0.25))
	assert.Equal(t, heatStops[2], HeatColor(0.5))
	assert.Equal(t, heatStops[3], HeatColor(0.75))
	assert.Equal(t, heatStops[4], HeatColor(1))
	assert.Equal(t, heatStops[4], HeatColor(2.5))
	assert.Equal(t, heatStops[0], HeatColor(-1))

	mid := HeatColor(0.125)
	assert.EqualValues(t, 0, mid.R)
	assert.InDelta(t, 69, mid.B, 2) // halfway between black and dark blue
}

func TestFormatFrequency(t *testing.T) {
	assert.Equal(t, "250 Hz", formatFrequency(250))
	assert.Equal(t, "2.0 kHz", formatFrequency(2000))
	assert.Equal(t, "9.5 kHz", formatFrequency(9500))
	assert.Equal(t, "16 kHz", formatFrequency(16000))
}
