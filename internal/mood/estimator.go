// Package mood derives a slow-moving emotional summary of recent spectral
// content from per-band energies.
package mood

import (
	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/utils"
)

// State is the 3-component smoothed mood vector. Every component lies in
// [0,1].
type State struct {
	Energy     float64
	Brightness float64
	Dynamics   float64
}

// DefaultState is the vector used before the first frame arrives: quiet,
// mid-bright, static.
func DefaultState() State {
	return State{Energy: 0, Brightness: 0.5, Dynamics: 0}
}

// Bucket boundaries for the brightness heuristic, by band center frequency.
const (
	lowCutoffHz  = 500.0
	highCutoffHz = 2000.0
)

// Heuristic coefficients. Empirically tuned; preserved exactly for
// behavioral compatibility, tunable in principle.
const (
	brightnessHighWeight = 2.5
	brightnessLowWeight  = 0.5
	dynamicsScale        = 4.0
	smoothing            = 0.15
	energyEpsilon        = 1e-6
)

// Estimator updates a smoothed mood vector from band energies and the
// bands' center frequencies. State persists across ticks; the estimator is
// owned by a single tick loop and never mutated concurrently.
type Estimator struct {
	state State
}

// NewEstimator returns an estimator seeded with the default state.
func NewEstimator() *Estimator {
	return &Estimator{state: DefaultState()}
}

// State returns the current smoothed mood vector without updating it.
func (e *Estimator) State() State {
	return e.state
}

// Update ingests the latest band energies and returns the new smoothed
// state. With no bands or no energies the previous state is returned
// unchanged.
func (e *Estimator) Update(cfg []bands.FrequencyBand, energies []float64) State {
	if len(cfg) == 0 || len(energies) == 0 {
		return e.state
	}
	n := min(len(cfg), len(energies))

	var total, lowSum, midSum, highSum float64
	for i := 0; i < n; i++ {
		energy := energies[i]
		total += energy
		switch center := cfg[i].CenterHz(); {
		case center < lowCutoffHz:
			lowSum += energy
		case center < highCutoffHz:
			midSum += energy
		default:
			highSum += energy
		}
	}

	rawEnergy := total / float64(n)

	lowFrac, highFrac := lowSum, highSum
	if total > energyEpsilon {
		lowFrac = lowSum / total
		highFrac = highSum / total
	}
	rawBrightness := utils.Clamp01(highFrac*brightnessHighWeight - lowFrac*brightnessLowWeight)
	rawDynamics := utils.Clamp01(sampleVariance(energies[:n], rawEnergy) * dynamicsScale)

	e.state.Energy = ema(e.state.Energy, rawEnergy)
	e.state.Brightness = ema(e.state.Brightness, rawBrightness)
	e.state.Dynamics = ema(e.state.Dynamics, rawDynamics)
	return e.state
}

// sampleVariance divides by n-1 with a minimum divisor of 1.
func sampleVariance(values []float64, mean float64) float64 {
	divisor := float64(len(values) - 1)
	if divisor < 1 {
		divisor = 1
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / divisor
}

func ema(prev, value float64) float64 {
	return prev + smoothing*(value-prev)
}
