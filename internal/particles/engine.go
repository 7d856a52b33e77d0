// Package particles maintains a pool of audio-reactive particles and the
// visual compositions that render them. All compositions share one
// physics core and differ in force field, spawn policy, and the glow
// layers drawn around the particles.
package particles

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/render"
)

// Composition is one of the selectable visual layouts sharing the
// particle physics core.
type Composition interface {
	// Name identifies the composition for mode selection.
	Name() string
	// Prepare runs once per tick before physics, so the composition can
	// derive per-frame state (exclusion radius, rotation) from energies.
	Prepare(e *Engine, energies []float64)
	// Spawn initializes or re-randomizes a particle.
	Spawn(p *Particle, e *Engine)
	// Bound reports whether the particle left the composition's region
	// and must respawn.
	Bound(p *Particle, e *Engine) bool
	// Constrain applies the composition's force field (exclusion zones).
	Constrain(p *Particle, e *Engine)
	// DrawUnder renders layers beneath the particles.
	DrawUnder(s render.Surface, e *Engine, energies []float64, pal palette.Palette)
	// DrawOver renders layers above the particles.
	DrawOver(s render.Surface, e *Engine, energies []float64, pal palette.Palette)
	// Visible reports whether a particle may be drawn at its position.
	Visible(p *Particle, e *Engine) bool
}

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	Width         int
	Height        int
	ParticleCount int
	BandCount     int
	Rand          Rand
	Mode          string
}

// DefaultParticleCount balances visual density against per-tick cost.
const DefaultParticleCount = 160

// Engine owns the particle pool and the active composition. It is driven
// externally, one Tick per frame, and never schedules itself.
type Engine struct {
	width     float64
	height    float64
	bandCount int
	rng       Rand

	pool  []Particle
	mode  Composition
	clock float64
}

// NewEngine builds the pool and selects the initial composition.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, eris.Errorf("particles: unusable dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ParticleCount <= 0 {
		cfg.ParticleCount = DefaultParticleCount
	}
	if cfg.BandCount <= 0 {
		cfg.BandCount = 6
	}
	if cfg.Rand == nil {
		cfg.Rand = NewRand(1)
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeRadialPulse
	}

	e := &Engine{
		width:     float64(cfg.Width),
		height:    float64(cfg.Height),
		bandCount: cfg.BandCount,
		rng:       cfg.Rand,
		pool:      make([]Particle, cfg.ParticleCount),
	}
	if err := e.SetMode(cfg.Mode); err != nil {
		return nil, err
	}
	return e, nil
}

// Modes lists the available composition names, sorted.
func Modes() []string {
	names := make([]string, 0, len(compositions))
	for name := range compositions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mode names.
const (
	ModeRadialPulse    = "pulse"
	ModeFrequencyStar  = "star"
	ModeFrequencyOrbit = "orbit"
)

var compositions = map[string]func() Composition{
	ModeRadialPulse:    func() Composition { return &radialPulse{} },
	ModeFrequencyStar:  func() Composition { return &frequencyStar{} },
	ModeFrequencyOrbit: func() Composition { return &frequencyOrbit{} },
}

// SetMode switches the active composition and respawns the pool into its
// layout.
func (e *Engine) SetMode(name string) error {
	factory, ok := compositions[name]
	if !ok {
		return eris.Errorf("particles: unknown mode %q", name)
	}
	e.mode = factory()
	e.respawnAll()
	return nil
}

// ModeName returns the active composition's name.
func (e *Engine) ModeName() string {
	return e.mode.Name()
}

// Resize adapts the engine to a new surface size and respawns the pool.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width = float64(width)
	e.height = float64(height)
	e.respawnAll()
}

func (e *Engine) respawnAll() {
	if e.mode == nil {
		return
	}
	for i := range e.pool {
		e.mode.Spawn(&e.pool[i], e)
	}
}

// Center returns the focal point of the canvas.
func (e *Engine) Center() (float64, float64) {
	return e.width / 2, e.height / 2
}

// MaxRadius is the interaction bound for center-focused compositions.
func (e *Engine) MaxRadius() float64 {
	return math.Min(e.width, e.height) * 0.48
}

// BandCount returns the number of bands particles are assigned to.
func (e *Engine) BandCount() int {
	return e.bandCount
}

// Clock returns the engine's accumulated tick time, used for audio-
// independent rotation.
func (e *Engine) Clock() float64 {
	return e.clock
}

// Particles exposes the pool for inspection in tests.
func (e *Engine) Particles() []Particle {
	return e.pool
}

// randomBand assigns a uniformly random band index valid for the current
// band count.
func (e *Engine) randomBand() int {
	band := int(e.rng.Float64() * float64(e.bandCount))
	if band >= e.bandCount {
		band = e.bandCount - 1
	}
	return band
}

// spawnLife draws the initial life in (minSpawnLife, maxLife].
func (e *Engine) spawnLife() float64 {
	return minSpawnLife + e.rng.Float64()*(maxLife-minSpawnLife)
}

// Tick advances physics for every particle and renders the composition:
// background, under-layers, particle layer, over-layers. Glow layers use
// additive compositing; the particle layer composites normally.
func (e *Engine) Tick(s render.Surface, energies []float64, pal palette.Palette) {
	e.clock += 1.0 / 60
	e.mode.Prepare(e, energies)

	for i := range e.pool {
		p := &e.pool[i]
		alive := p.advance(energies)
		if !alive || e.mode.Bound(p, e) {
			e.mode.Spawn(p, e)
			continue
		}
		e.mode.Constrain(p, e)
	}

	s.SetComposite(render.CompositeOver)
	width, height := s.Size()
	s.FillRect(0, 0, float64(width), float64(height), pal.Background.WithAlpha(0.35))

	s.SetComposite(render.CompositeAdd)
	e.mode.DrawUnder(s, e, energies, pal)

	s.SetComposite(render.CompositeOver)
	for i := range e.pool {
		p := &e.pool[i]
		if !e.mode.Visible(p, e) {
			continue
		}
		energy := bandEnergy(energies, p.Band)
		size := 1.2 + energy*3.2
		alpha := 0.25 + 0.6*energy
		if p.Life < 0.3 {
			alpha *= p.Life / 0.3
		}
		s.FillCircle(p.X, p.Y, size, pal.Particle.WithAlpha(alpha))
	}

	s.SetComposite(render.CompositeAdd)
	e.mode.DrawOver(s, e, energies, pal)
	s.SetComposite(render.CompositeOver)
}
