package particles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumabeat/lumabeat/internal/mood"
	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/render"
)

func moodFixture() mood.State {
	return mood.State{Energy: 0.5, Brightness: 0.6, Dynamics: 0.3}
}

// scriptedRand replays a fixed sequence, wrapping around.
type scriptedRand struct {
	values []float64
	next   int
}

func (s *scriptedRand) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func newTestEngine(t *testing.T, mode string) (*Engine, *render.Canvas) {
	t.Helper()
	canvas, err := render.NewCanvas(200, 160)
	require.NoError(t, err)
	e, err := NewEngine(Config{
		Width:         200,
		Height:        160,
		ParticleCount: 40,
		BandCount:     6,
		Rand:          NewRand(7),
		Mode:          mode,
	})
	require.NoError(t, err)
	return e, canvas
}

func TestNewEngineRejectsBadDimensions(t *testing.T) {
	_, err := NewEngine(Config{Width: 0, Height: 100})
	assert.Error(t, err)
	_, err = NewEngine(Config{Width: 100, Height: -1})
	assert.Error(t, err)
}

func TestModesSorted(t *testing.T) {
	assert.Equal(t, []string{"orbit", "pulse", "star"}, Modes())
}

func TestSetModeUnknown(t *testing.T) {
	e, _ := newTestEngine(t, ModeRadialPulse)
	assert.Error(t, e.SetMode("lava-lamp"))
	assert.Equal(t, ModeRadialPulse, e.ModeName())
}

func TestLifeAndBandInvariants(t *testing.T) {
	energies := []float64{0.9, 0.7, 0.5, 0.4, 0.3, 0.8}
	for _, mode := range Modes() {
		e, canvas := newTestEngine(t, mode)
		pal := palette.FromMood(moodFixture())

		for tick := 0; tick < 300; tick++ {
			e.Tick(canvas, energies, pal)
			for _, p := range e.Particles() {
				assert.Greater(t, p.Life, 0.0, "mode %s", mode)
				assert.GreaterOrEqual(t, p.Band, 0, "mode %s", mode)
				assert.Less(t, p.Band, e.BandCount(), "mode %s", mode)
			}
		}
	}
}

func TestAdvanceScalesDisplacementByBandEnergy(t *testing.T) {
	p := Particle{X: 10, VX: 1, Life: 1, Band: 0}
	p.advance([]float64{0.5})
	assert.InDelta(t, 10+1*(minSpeedScale+0.5*speedScale), p.X, 1e-12)
	assert.InDelta(t, 1-(baseLifeDecay+0.5*energyLifeDecay), p.Life, 1e-12)
}

func TestAdvanceSilentBandStillDecays(t *testing.T) {
	p := Particle{Life: baseLifeDecay / 2, Band: 3}
	assert.False(t, p.advance([]float64{0, 0, 0, 0}))
}

func TestMissingBandTreatedAsSilent(t *testing.T) {
	p := Particle{X: 5, VX: 1, Life: 1, Band: 9}
	p.advance([]float64{1, 1})
	assert.InDelta(t, 5+minSpeedScale, p.X, 1e-12)
}

func TestDeterministicRespawn(t *testing.T) {
	seq := []float64{0.1, 0.9, 0.4, 0.7, 0.25, 0.6}
	build := func() *Engine {
		e, err := NewEngine(Config{
			Width: 100, Height: 100, ParticleCount: 8, BandCount: 6,
			Rand: &scriptedRand{values: seq},
			Mode: ModeRadialPulse,
		})
		require.NoError(t, err)
		return e
	}
	a := build()
	b := build()
	assert.Equal(t, a.Particles(), b.Particles())
}

func TestPushOutOfPlacesOnRim(t *testing.T) {
	p := Particle{X: 53, Y: 50, VX: -1, VY: 0}
	p.pushOutOf(50, 50, 20)

	assert.InDelta(t, 70, p.X, 1e-9)
	assert.InDelta(t, 50, p.Y, 1e-9)
	// Inward velocity was reflected outward.
	assert.InDelta(t, 1, p.VX, 1e-9)
}

func TestPushOutOfZeroDistanceFallback(t *testing.T) {
	p := Particle{X: 50, Y: 50}
	p.pushOutOf(50, 50, 12)
	assert.InDelta(t, 62, p.X, 1e-9)
	assert.InDelta(t, 50, p.Y, 1e-9)
}

func TestPushOutOfLeavesOutsideUntouched(t *testing.T) {
	p := Particle{X: 90, Y: 50, VX: -2}
	p.pushOutOf(50, 50, 20)
	assert.Equal(t, 90.0, p.X)
	assert.Equal(t, -2.0, p.VX)
}

func TestOffCanvasMargin(t *testing.T) {
	p := Particle{X: -offscreenMargin + 1, Y: 10}
	assert.False(t, p.offCanvas(100, 100))
	p.X = -offscreenMargin - 1
	assert.True(t, p.offCanvas(100, 100))
}

func TestPulseExclusionKeepsParticlesOut(t *testing.T) {
	e, canvas := newTestEngine(t, ModeRadialPulse)
	energies := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	pal := palette.FromMood(moodFixture())

	e.Tick(canvas, energies, pal)
	mode := e.mode.(*radialPulse)
	cx, cy := e.Center()
	for _, p := range e.Particles() {
		dist := math.Hypot(p.X-cx, p.Y-cy)
		assert.GreaterOrEqual(t, dist, mode.exclusion-1e-9)
	}
}

func TestResizeRespawnsInsideNewBounds(t *testing.T) {
	e, _ := newTestEngine(t, ModeFrequencyStar)
	e.Resize(60, 40)
	for _, p := range e.Particles() {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 60.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 40.0)
	}
}

func TestOrbitRotationAdvancesWithClock(t *testing.T) {
	e, canvas := newTestEngine(t, ModeFrequencyOrbit)
	energies := make([]float64, 6)
	pal := palette.FromMood(moodFixture())

	e.Tick(canvas, energies, pal)
	first := e.mode.(*frequencyOrbit).rotation
	e.Tick(canvas, energies, pal)
	second := e.mode.(*frequencyOrbit).rotation
	assert.Greater(t, second, first)
}
