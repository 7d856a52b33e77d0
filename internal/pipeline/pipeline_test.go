package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/render"
	"github.com/lumabeat/lumabeat/internal/sched"
	"github.com/lumabeat/lumabeat/internal/spectrum"
)

func newTestPipeline(t *testing.T, paletteName string) (*Pipeline, *sched.Manual) {
	t.Helper()
	canvas, err := render.NewCanvas(120, 90)
	require.NoError(t, err)
	scheduler := sched.NewManual()
	p, err := New(Config{
		Source:      spectrum.NewSynthetic(44100, 2048, 3),
		Surface:     canvas,
		Scheduler:   scheduler,
		PaletteName: paletteName,
	})
	require.NoError(t, err)
	return p, scheduler
}

func TestNewRequiresSourceAndSurface(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	canvas, cerr := render.NewCanvas(10, 10)
	require.NoError(t, cerr)
	_, err = New(Config{Surface: canvas})
	assert.Error(t, err)
}

func TestNewRejectsUnknownPalette(t *testing.T) {
	canvas, err := render.NewCanvas(10, 10)
	require.NoError(t, err)
	_, err = New(Config{
		Source:      spectrum.NewSynthetic(44100, 2048, 1),
		Surface:     canvas,
		PaletteName: "vaporwave",
	})
	assert.Error(t, err)
}

func TestTickPublishesSnapshot(t *testing.T) {
	p, _ := newTestPipeline(t, "")

	var got []Snapshot
	p.Subscribe(func(s Snapshot) { got = append(got, s) })

	p.Tick()
	p.Tick()

	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].Tick)
	assert.Equal(t, uint64(2), got[1].Tick)
	assert.Equal(t, "mood", got[0].PaletteName)
	assert.Len(t, got[0].Frame.Bands, len(bands.DefaultBands()))
	for _, energy := range got[1].Frame.Bands {
		assert.GreaterOrEqual(t, energy, 0.0)
		assert.LessOrEqual(t, energy, 1.0)
	}
}

func TestFixedPaletteConstantAcrossTicks(t *testing.T) {
	p, _ := newTestPipeline(t, "jazz")

	var got []Snapshot
	p.Subscribe(func(s Snapshot) { got = append(got, s) })

	p.Tick()
	p.Tick()

	require.Len(t, got, 2)
	assert.Equal(t, "jazz", got[0].PaletteName)
	assert.Equal(t, got[0].Palette, got[1].Palette)
}

func TestFrameReturnsIndependentCopy(t *testing.T) {
	p, _ := newTestPipeline(t, "")
	p.Tick()

	frame := p.Frame()
	require.NotEmpty(t, frame.Bands)
	frame.Bands[0] = 99
	assert.NotEqual(t, 99.0, p.Frame().Bands[0])
}

func TestStartStopIdempotent(t *testing.T) {
	p, scheduler := newTestPipeline(t, "")

	var ticks int
	p.Subscribe(func(Snapshot) { ticks++ })

	p.Start()
	p.Start()
	scheduler.Advance(4)
	assert.Equal(t, 4, ticks)

	p.Stop()
	p.Stop()
	assert.False(t, scheduler.Running())
}

func TestSetVisualMode(t *testing.T) {
	p, _ := newTestPipeline(t, "")
	require.NoError(t, p.SetVisualMode("star"))
	assert.Error(t, p.SetVisualMode("nope"))

	var last Snapshot
	p.Subscribe(func(s Snapshot) { last = s })
	p.Tick()
	assert.Equal(t, "star", last.VisualMode)
}
