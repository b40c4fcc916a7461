package arena

import (
	"fmt"
	"image/color"

	"github.com/milk9111/skirmish/component"
	"golang.org/x/image/colornames"
)

// Appearance records the last visual feedback an entity received.
type Appearance struct {
	Color     color.Color
	Alpha     float64
	Highlight bool
}

var _ component.Feedback = (*Appearance)(nil)

func NewAppearance() *Appearance {
	return &Appearance{Color: colornames.White, Alpha: 1}
}

func (a *Appearance) SetColor(c color.Color) { a.Color = c }
func (a *Appearance) SetAlpha(v float64) { a.Alpha = v }
func (a *Appearance) SetHighlight(on bool) { a.Highlight = on }

// ColorName returns the SVG name of the current color, or its hex form.
func (a *Appearance) ColorName() string {
	return ColorName(a.Color)
}

func ColorName(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, al := c.RGBA()
	for _, name := range colornames.Names {
		nr, ng, nb, na := colornames.Map[name].RGBA()
		if nr == r && ng == g && nb == b && na == al {
			return name
		}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
