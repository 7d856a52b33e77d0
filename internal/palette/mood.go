package palette

import (
	"github.com/lumabeat/lumabeat/internal/mood"
	"github.com/lumabeat/lumabeat/internal/utils"
)

// FromMood synthesizes a palette from the mood vector. The function is
// pure: identical states always yield identical palettes.
//
// Brightness steers the base hue from red toward violet, energy drives
// saturation and background depth, and dynamics spreads the accent, ring
// and particle hues away from the base.
func FromMood(state mood.State) Palette {
	energy := utils.Clamp01(state.Energy)
	brightness := utils.Clamp01(state.Brightness)
	dynamics := utils.Clamp01(state.Dynamics)

	baseHue := utils.Lerp(0, 280, brightness)
	base := HSL(
		baseHue,
		utils.Lerp(65, 85, energy),
		utils.Lerp(42, 50, brightness),
	)

	accentHue := baseHue + utils.Lerp(60, 150, dynamics) + utils.Lerp(-30, 30, energy)
	accent := HSL(
		accentHue,
		utils.Lerp(75, 98, energy),
		utils.Lerp(50, 68, energy),
	)

	background := HSL(
		baseHue+180,
		utils.Lerp(25, 45, energy),
		utils.Lerp(6, 12, energy),
	)

	ring := HSL(
		baseHue+utils.Lerp(120, 240, dynamics),
		utils.Lerp(80, 95, energy),
		utils.Lerp(55, 70, energy),
	)

	particle := HSL(
		accentHue+utils.Lerp(-45, 45, dynamics),
		utils.Lerp(70, 90, energy),
		utils.Lerp(55, 72, energy),
	)

	highlight := HSL(
		accentHue+utils.Lerp(0, 30, dynamics),
		100,
		utils.Lerp(72, 90, energy),
	)

	return Palette{
		Background: background,
		Base:       base,
		Accent:     accent,
		Ring:       ring,
		Particle:   particle,
		Highlight:  highlight,
	}
}
