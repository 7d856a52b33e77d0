package particles

import (
	"math"

	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/render"
)

// frequencyStar draws a radial bar spectrum from the center, one spoke
// per band, and a closed star silhouette tracing the spoke tips.
// Particles drift freely across the whole canvas with no exclusion zone.
type frequencyStar struct{}

func (c *frequencyStar) Name() string { return ModeFrequencyStar }

func (c *frequencyStar) Prepare(e *Engine, energies []float64) {}

func (c *frequencyStar) Spawn(p *Particle, e *Engine) {
	angle := e.rng.Float64() * 2 * math.Pi
	speed := 0.3 + e.rng.Float64()*0.9

	p.X = e.rng.Float64() * e.width
	p.Y = e.rng.Float64() * e.height
	p.VX = math.Cos(angle) * speed
	p.VY = math.Sin(angle) * speed
	p.Life = e.spawnLife()
	p.Band = e.randomBand()
}

func (c *frequencyStar) Bound(p *Particle, e *Engine) bool {
	return p.offCanvas(e.width, e.height)
}

func (c *frequencyStar) Constrain(p *Particle, e *Engine) {}

func (c *frequencyStar) Visible(p *Particle, e *Engine) bool { return true }

// spokeTips returns the tip of every band spoke at the given angular
// offset. innerRadius is the silent length, so the star never collapses
// to a point.
func spokeTips(e *Engine, energies []float64, rotation float64) []render.Point {
	cx, cy := e.Center()
	maxR := e.MaxRadius()
	inner := maxR * 0.12

	tips := make([]render.Point, e.bandCount)
	for i := 0; i < e.bandCount; i++ {
		angle := rotation + float64(i)/float64(e.bandCount)*2*math.Pi - math.Pi/2
		length := inner + bandEnergy(energies, i)*(maxR-inner)
		tips[i] = render.Point{
			X: cx + math.Cos(angle)*length,
			Y: cy + math.Sin(angle)*length,
		}
	}
	return tips
}

func (c *frequencyStar) DrawUnder(s render.Surface, e *Engine, energies []float64, pal palette.Palette) {
	cx, cy := e.Center()
	tips := spokeTips(e, energies, 0)

	s.FillPath(tips, pal.Accent.WithAlpha(0.12))
	for i, tip := range tips {
		energy := bandEnergy(energies, i)
		s.StrokeLine(cx, cy, tip.X, tip.Y, 3, pal.Base.WithAlpha(0.25+0.55*energy))
	}
}

func (c *frequencyStar) DrawOver(s render.Surface, e *Engine, energies []float64, pal palette.Palette) {
	tips := spokeTips(e, energies, 0)

	s.StrokePath(tips, 1.5, pal.Highlight.WithAlpha(0.6), true)
	for i, tip := range tips {
		energy := bandEnergy(energies, i)
		s.FillCircle(tip.X, tip.Y, 2+energy*4, pal.Ring.WithAlpha(0.3+0.6*energy))
	}
}
