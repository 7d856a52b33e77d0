package particles

import (
	"math"

	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/render"
	"github.com/lumabeat/lumabeat/internal/utils"
)

// radialPulse is the center-focused composition: a glowing core that
// breathes with overall energy, ring arcs sized by the sub and bass
// bands, and particles streaming outward from the core's rim.
type radialPulse struct {
	exclusion float64
	mean      float64
}

func (c *radialPulse) Name() string { return ModeRadialPulse }

func (c *radialPulse) Prepare(e *Engine, energies []float64) {
	c.mean = meanEnergy(energies)
	maxR := e.MaxRadius()
	c.exclusion = maxR * (0.14 + 0.10*c.mean)
}

func (c *radialPulse) Spawn(p *Particle, e *Engine) {
	cx, cy := e.Center()
	maxR := e.MaxRadius()
	rim := c.exclusion
	if rim <= 0 {
		rim = maxR * 0.14
	}

	angle := e.rng.Float64() * 2 * math.Pi
	radius := rim + e.rng.Float64()*(maxR-rim)*0.5
	speed := 0.5 + e.rng.Float64()*1.2

	p.X = cx + math.Cos(angle)*radius
	p.Y = cy + math.Sin(angle)*radius
	p.VX = math.Cos(angle) * speed
	p.VY = math.Sin(angle) * speed
	p.Life = e.spawnLife()
	p.Band = e.randomBand()
}

func (c *radialPulse) Bound(p *Particle, e *Engine) bool {
	cx, cy := e.Center()
	return p.beyondRadius(cx, cy, e.MaxRadius())
}

func (c *radialPulse) Constrain(p *Particle, e *Engine) {
	cx, cy := e.Center()
	p.pushOutOf(cx, cy, c.exclusion)
}

func (c *radialPulse) Visible(p *Particle, e *Engine) bool {
	cx, cy := e.Center()
	return !insideRadius(p.X, p.Y, cx, cy, c.exclusion)
}

func (c *radialPulse) DrawUnder(s render.Surface, e *Engine, energies []float64, pal palette.Palette) {
	cx, cy := e.Center()

	glow := c.exclusion * 2.2
	s.FillCircleRadialGradient(cx, cy, glow,
		pal.Accent.WithAlpha(0.30+0.35*c.mean),
		pal.Background.WithAlpha(0))

	s.FillCircle(cx, cy, c.exclusion, pal.Base.WithAlpha(0.55))
}

func (c *radialPulse) DrawOver(s render.Surface, e *Engine, energies []float64, pal palette.Palette) {
	cx, cy := e.Center()

	// Sub and bass arcs wrap the core, sweep proportional to energy,
	// opening from twelve o'clock.
	sub := bandEnergy(energies, 0)
	bass := bandEnergy(energies, 1)
	start := -math.Pi / 2
	if sub > 0.01 {
		s.StrokeArc(cx, cy, c.exclusion+8, start, start+sub*2*math.Pi, 3, pal.Ring.WithAlpha(0.30+0.5*sub))
	}
	if bass > 0.01 {
		s.StrokeArc(cx, cy, c.exclusion+16, start, start+bass*2*math.Pi, 2, pal.Accent.WithAlpha(0.25+0.5*bass))
	}

	s.StrokeCircle(cx, cy, c.exclusion, 1.5, pal.Highlight.WithAlpha(0.35+0.4*c.mean))
}

func insideRadius(x, y, cx, cy, radius float64) bool {
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy < radius*radius
}

func meanEnergy(energies []float64) float64 {
	if len(energies) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range energies {
		sum += utils.Clamp01(v)
	}
	return sum / float64(len(energies))
}
