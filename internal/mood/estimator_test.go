package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumabeat/lumabeat/internal/bands"
)

func inUnit(t *testing.T, s State) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Energy, 0.0)
	assert.LessOrEqual(t, s.Energy, 1.0)
	assert.GreaterOrEqual(t, s.Brightness, 0.0)
	assert.LessOrEqual(t, s.Brightness, 1.0)
	assert.GreaterOrEqual(t, s.Dynamics, 0.0)
	assert.LessOrEqual(t, s.Dynamics, 1.0)
}

func TestUpdateEmptyInputKeepsState(t *testing.T) {
	e := NewEstimator()
	initial := e.State()

	assert.Equal(t, initial, e.Update(nil, nil))
	assert.Equal(t, initial, e.Update(bands.DefaultBands(), nil))
	assert.Equal(t, initial, e.Update(nil, []float64{0.5}))
}

func TestComponentsStayInRange(t *testing.T) {
	cfg := bands.DefaultBands()
	inputs := [][]float64{
		{0, 0, 0, 0, 0, 0},
		{1, 1, 1, 1, 1, 1},
		{1, 0, 1, 0, 1, 0},
		{0.2, 0.9, 0.1, 0.7, 0.3, 0.5},
	}

	e := NewEstimator()
	for i := 0; i < 50; i++ {
		for _, energies := range inputs {
			inUnit(t, e.Update(cfg, energies))
		}
	}
}

func TestBrightnessTrebleDominant(t *testing.T) {
	cfg := bands.DefaultBands()
	e := NewEstimator()

	// All energy in the brilliance band (center >= 2000 Hz).
	var s State
	for i := 0; i < 200; i++ {
		s = e.Update(cfg, []float64{0, 0, 0, 0, 0, 1})
	}
	assert.InDelta(t, 1.0, s.Brightness, 1e-3)
}

func TestBrightnessBassDominant(t *testing.T) {
	cfg := bands.DefaultBands()
	e := NewEstimator()

	var s State
	for i := 0; i < 200; i++ {
		s = e.Update(cfg, []float64{1, 0, 0, 0, 0, 0})
	}
	assert.InDelta(t, 0.0, s.Brightness, 1e-3)
}

func TestDynamicsFlatVersusSpiky(t *testing.T) {
	cfg := bands.DefaultBands()

	flat := NewEstimator()
	spiky := NewEstimator()
	var flatState, spikyState State
	for i := 0; i < 100; i++ {
		flatState = flat.Update(cfg, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5})
		spikyState = spiky.Update(cfg, []float64{1, 0, 1, 0, 1, 0})
	}

	assert.InDelta(t, 0.0, flatState.Dynamics, 1e-3)
	assert.Greater(t, spikyState.Dynamics, 0.9)
}

func TestEnergyIsSmoothedMean(t *testing.T) {
	cfg := bands.DefaultBands()
	e := NewEstimator()

	s := e.Update(cfg, []float64{1, 1, 1, 1, 1, 1})
	// One step of EMA from 0 toward 1.
	assert.InDelta(t, 0.15, s.Energy, 1e-9)
}
