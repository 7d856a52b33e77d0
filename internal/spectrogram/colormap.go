package spectrogram

import (
	"image/color"

	"github.com/lumabeat/lumabeat/internal/utils"
)

// The heat colormap is a fixed piecewise gradient over normalized
// magnitude: black, dark blue, cyan, yellow, near-white at the quarter
// points, each segment interpolated linearly per RGB channel.
var heatStops = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 0, G: 0, B: 139, A: 255},
	{R: 0, G: 255, B: 255, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 245, G: 245, B: 235, A: 255},
}

// HeatColor maps a normalized magnitude in [0,1] onto the gradient.
func HeatColor(v float64) color.RGBA {
	v = utils.Clamp01(v)
	scaled := v * float64(len(heatStops)-1)
	seg := int(scaled)
	if seg >= len(heatStops)-1 {
		return heatStops[len(heatStops)-1]
	}
	frac := scaled - float64(seg)
	return lerpRGB(heatStops[seg], heatStops[seg+1], frac)
}

func lerpRGB(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: 255,
	}
}
