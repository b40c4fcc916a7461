package system

import (
	"image/color"

	"github.com/milk9111/skirmish/prefabs"
	"golang.org/x/image/colornames"
)

const concealedAlpha = 0.3

// Palette maps a state key to its feedback color.
type Palette map[string]color.Color

func DefaultPlayerPalette() Palette {
	return Palette{
		"idle":        colornames.White,
		"moving":      colornames.Lightskyblue,
		"airborne":    colornames.Yellow,
		"high_jump":   colornames.Orange,
		"attacking":   colornames.Orangered,
		"empowered":   colornames.Magenta,
		"scoring":     colornames.Gold,
		"double_jump": colornames.Lime,
	}
}

func DefaultEnemyPalette() Palette {
	return Palette{
		"idle":      colornames.Gray,
		"combat":    colornames.Crimson,
		"attack":    colornames.Orangered,
		"empowered": colornames.Darkviolet,
		"return":    colornames.Steelblue,
		"dead":      colornames.Black,
	}
}

// Merge returns a copy of p with overrides applied.
func (p Palette) Merge(overrides map[string]prefabs.Color) Palette {
	out := make(Palette, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		if v.Color != nil {
			out[k] = v.Color
		}
	}
	return out
}

func (p Palette) Get(key string) color.Color {
	if c, ok := p[key]; ok {
		return c
	}
	return colornames.White
}
