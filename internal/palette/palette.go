// Package palette produces the six-color themes that drive the visuals,
// either from a hand-authored named set or synthesized from the mood
// vector.
package palette

import (
	"fmt"
	"image/color"

	"github.com/crazy3lf/colorconv"

	"github.com/lumabeat/lumabeat/internal/utils"
)

// Color is a hue/saturation/lightness triple. Hue is in degrees [0,360),
// saturation and lightness in percent [0,100].
type Color struct {
	H float64
	S float64
	L float64
}

// HSL constructs a Color, wrapping the hue and clamping the rest.
func HSL(h, s, l float64) Color {
	return Color{
		H: utils.WrapDegrees(h),
		S: utils.Clamp(s, 0, 100),
		L: utils.Clamp(l, 0, 100),
	}
}

// RGBA converts the color to 8-bit RGBA (alpha 255).
func (c Color) RGBA() color.RGBA {
	r, g, b, err := colorconv.HSLToRGB(utils.WrapDegrees(c.H), c.S/100, c.L/100)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// WithAlpha returns the color as RGBA with the supplied alpha in [0,1].
func (c Color) WithAlpha(alpha float64) color.RGBA {
	rgba := c.RGBA()
	rgba.A = uint8(utils.Clamp01(alpha)*255 + 0.5)
	return rgba
}

// Hex renders the color as a #rrggbb string for terminal styling.
func (c Color) Hex() string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// Palette is a six-color theme. It has no identity beyond its values and
// is immutable once produced.
type Palette struct {
	Background Color
	Base       Color
	Accent     Color
	Ring       Color
	Particle   Color
	Highlight  Color
}
