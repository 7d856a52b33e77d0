package particles

import (
	"math"

	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/render"
)

// orbitSpinRate is the constant angular velocity of the orbit layout in
// radians per second. The spin runs off the engine clock, not the audio.
const orbitSpinRate = 0.35

// frequencyOrbit arranges one orbit ring per band around the center,
// with an energy-sized marker per ring and a rotating polygon through
// the markers. Particles spawn on their band's ring with tangential
// velocity and are kept out of a small core exclusion zone.
type frequencyOrbit struct {
	rotation float64
	core     float64
}

func (c *frequencyOrbit) Name() string { return ModeFrequencyOrbit }

func (c *frequencyOrbit) Prepare(e *Engine, energies []float64) {
	c.rotation = e.Clock() * orbitSpinRate
	c.core = e.MaxRadius() * 0.10
}

// ringRadius places band i on its orbit, innermost band closest to the
// core.
func (c *frequencyOrbit) ringRadius(e *Engine, band int) float64 {
	maxR := e.MaxRadius()
	inner := maxR * 0.22
	step := (maxR - inner) / float64(e.bandCount)
	return inner + (float64(band)+0.5)*step
}

func (c *frequencyOrbit) Spawn(p *Particle, e *Engine) {
	cx, cy := e.Center()
	band := e.randomBand()
	radius := c.ringRadius(e, band)
	if radius <= 0 {
		radius = e.MaxRadius() * 0.3
	}

	angle := e.rng.Float64() * 2 * math.Pi
	jitter := (e.rng.Float64() - 0.5) * 14
	speed := 0.6 + e.rng.Float64()*0.9

	p.X = cx + math.Cos(angle)*(radius+jitter)
	p.Y = cy + math.Sin(angle)*(radius+jitter)
	// Tangential velocity keeps the swarm circulating with the layout.
	p.VX = -math.Sin(angle) * speed
	p.VY = math.Cos(angle) * speed
	p.Life = e.spawnLife()
	p.Band = band
}

func (c *frequencyOrbit) Bound(p *Particle, e *Engine) bool {
	cx, cy := e.Center()
	return p.beyondRadius(cx, cy, e.MaxRadius())
}

func (c *frequencyOrbit) Constrain(p *Particle, e *Engine) {
	cx, cy := e.Center()
	p.pushOutOf(cx, cy, c.core)
}

func (c *frequencyOrbit) Visible(p *Particle, e *Engine) bool {
	cx, cy := e.Center()
	return !insideRadius(p.X, p.Y, cx, cy, c.core)
}

// markers returns the rotated marker position for every band ring.
func (c *frequencyOrbit) markers(e *Engine) []render.Point {
	cx, cy := e.Center()
	pts := make([]render.Point, e.bandCount)
	for i := 0; i < e.bandCount; i++ {
		angle := c.rotation + float64(i)/float64(e.bandCount)*2*math.Pi - math.Pi/2
		radius := c.ringRadius(e, i)
		pts[i] = render.Point{
			X: cx + math.Cos(angle)*radius,
			Y: cy + math.Sin(angle)*radius,
		}
	}
	return pts
}

func (c *frequencyOrbit) DrawUnder(s render.Surface, e *Engine, energies []float64, pal palette.Palette) {
	cx, cy := e.Center()

	for i := 0; i < e.bandCount; i++ {
		energy := bandEnergy(energies, i)
		s.StrokeCircle(cx, cy, c.ringRadius(e, i), 1, pal.Ring.WithAlpha(0.08+0.30*energy))
	}

	s.FillCircleRadialGradient(cx, cy, c.core*2,
		pal.Base.WithAlpha(0.35),
		pal.Background.WithAlpha(0))
}

func (c *frequencyOrbit) DrawOver(s render.Surface, e *Engine, energies []float64, pal palette.Palette) {
	pts := c.markers(e)

	s.StrokePath(pts, 1, pal.Highlight.WithAlpha(0.35), true)
	for i, pt := range pts {
		energy := bandEnergy(energies, i)
		s.FillCircle(pt.X, pt.Y, 2.5+energy*5, pal.Accent.WithAlpha(0.35+0.55*energy))
	}
}
