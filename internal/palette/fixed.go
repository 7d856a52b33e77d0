package palette

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Named is a hand-authored fixed palette with display metadata.
type Named struct {
	Name        string
	DisplayName string
	Description string
	Palette     Palette
}

var fixed = map[string]Named{
	"metal": {
		Name:        "metal",
		DisplayName: "Metal",
		Description: "Cold steel blues with a hot accent",
		Palette: Palette{
			Background: HSL(225, 30, 8),
			Base:       HSL(215, 25, 45),
			Accent:     HSL(0, 85, 55),
			Ring:       HSL(210, 40, 62),
			Particle:   HSL(220, 15, 75),
			Highlight:  HSL(45, 100, 80),
		},
	},
	"electronic": {
		Name:        "electronic",
		DisplayName: "Electronic",
		Description: "Neon magenta and cyan on near-black",
		Palette: Palette{
			Background: HSL(260, 45, 7),
			Base:       HSL(285, 80, 50),
			Accent:     HSL(180, 95, 55),
			Ring:       HSL(320, 90, 60),
			Particle:   HSL(200, 85, 65),
			Highlight:  HSL(150, 100, 78),
		},
	},
	"jazz": {
		Name:        "jazz",
		DisplayName: "Jazz",
		Description: "Smoky amber and deep burgundy",
		Palette: Palette{
			Background: HSL(25, 35, 9),
			Base:       HSL(35, 70, 48),
			Accent:     HSL(350, 65, 52),
			Ring:       HSL(15, 75, 58),
			Particle:   HSL(45, 60, 68),
			Highlight:  HSL(55, 100, 82),
		},
	},
	"funk": {
		Name:        "funk",
		DisplayName: "Funk",
		Description: "Saturated purple, orange and green",
		Palette: Palette{
			Background: HSL(280, 40, 10),
			Base:       HSL(290, 75, 52),
			Accent:     HSL(30, 95, 58),
			Ring:       HSL(110, 70, 55),
			Particle:   HSL(55, 90, 62),
			Highlight:  HSL(0, 100, 76),
		},
	},
	"pop": {
		Name:        "pop",
		DisplayName: "Pop",
		Description: "Bright pink and sky blue",
		Palette: Palette{
			Background: HSL(230, 35, 12),
			Base:       HSL(330, 80, 58),
			Accent:     HSL(195, 90, 60),
			Ring:       HSL(280, 75, 65),
			Particle:   HSL(350, 70, 72),
			Highlight:  HSL(60, 100, 85),
		},
	},
}

// Names lists the available fixed palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(fixed))
	for name := range fixed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName retrieves a fixed palette and its display metadata.
func ByName(name string) (Named, error) {
	named, ok := fixed[name]
	if !ok {
		return Named{}, eris.Errorf("unknown palette %q", name)
	}
	return named, nil
}
