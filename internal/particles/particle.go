package particles

import (
	"math"

	"github.com/lumabeat/lumabeat/internal/utils"
)

// Particle is one element of the fixed pool. Particles are never removed
// or reallocated; when life runs out or the particle leaves its bound it
// is respawned in place.
type Particle struct {
	X    float64
	Y    float64
	VX   float64
	VY   float64
	Life float64
	Band int
}

// Life cycle and physics constants shared by every composition.
const (
	maxLife         = 1.6
	minSpawnLife    = 0.6
	baseLifeDecay   = 0.008
	energyLifeDecay = 0.012

	minSpeedScale = 0.2
	speedScale    = 2.2

	offscreenMargin = 24.0
)

// bandEnergy looks up the particle's band energy, treating a missing
// band as silent.
func bandEnergy(energies []float64, band int) float64 {
	if band < 0 || band >= len(energies) {
		return 0
	}
	return utils.Clamp01(energies[band])
}

// advance applies the shared per-tick physics to a single particle:
// displacement scaled by the band-energy speed factor and life decay
// proportional to band loudness. Returns false when the particle's life
// has run out.
func (p *Particle) advance(energies []float64) bool {
	energy := bandEnergy(energies, p.Band)
	speed := minSpeedScale + energy*speedScale
	p.X += p.VX * speed
	p.Y += p.VY * speed
	p.Life -= baseLifeDecay + energy*energyLifeDecay
	return p.Life > 0
}

// offCanvas reports whether the particle left the visible region plus
// margin.
func (p *Particle) offCanvas(width, height float64) bool {
	return p.X < -offscreenMargin || p.X > width+offscreenMargin ||
		p.Y < -offscreenMargin || p.Y > height+offscreenMargin
}

// beyondRadius reports whether the particle exceeded the maximum
// distance from a focal point.
func (p *Particle) beyondRadius(cx, cy, maxRadius float64) bool {
	dx := p.X - cx
	dy := p.Y - cy
	return dx*dx+dy*dy > maxRadius*maxRadius
}

// pushOutOf moves the particle to the rim of an exclusion zone when it
// is inside, keeping its velocity pointed outward. A particle exactly on
// the focal point gets a default unit direction.
func (p *Particle) pushOutOf(cx, cy, radius float64) {
	dx := p.X - cx
	dy := p.Y - cy
	dist := math.Hypot(dx, dy)
	if dist >= radius {
		return
	}
	var ux, uy float64
	if dist == 0 {
		ux, uy = 1, 0
	} else {
		ux, uy = dx/dist, dy/dist
	}
	p.X = cx + ux*radius
	p.Y = cy + uy*radius

	// Reflect any inward velocity component so the particle keeps
	// drifting away from the zone.
	inward := p.VX*ux + p.VY*uy
	if inward < 0 {
		p.VX -= 2 * inward * ux
		p.VY -= 2 * inward * uy
	}
}
