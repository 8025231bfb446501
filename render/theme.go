package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	fallbackAccent = tcell.ColorSlateGray
	textColor      = tcell.NewRGBColor(235, 238, 245)
	mutedColor     = tcell.NewRGBColor(150, 156, 170)
	panelColor     = tcell.NewRGBColor(24, 24, 32)
	selectedColor  = tcell.NewRGBColor(190, 140, 255)
)

// Dimming applied per stack position behind the front card
const (
	depthDim   = 0.18
	maxDim     = 0.6
	fillDarken = 0.65
)

// accent resolves a card accent name or hex value
func accent(name string) tcell.Color {
	if name == "" {
		return fallbackAccent
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallbackAccent
	}
	return c
}

// darken blends c toward black by amount in [0,1]
func darken(c tcell.Color, amount float64) tcell.Color {
	r, g, b := c.RGB()
	if r < 0 {
		return c
	}
	src := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	out := src.BlendRgb(colorful.Color{}, min(max(amount, 0), 1))
	r8, g8, b8 := out.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r8), int32(g8), int32(b8))
}

// cardStyles returns border and fill styles for a card rank places behind the front
func cardStyles(accentName string, rank int) (border, fill tcell.Style) {
	base := darken(accent(accentName), min(float64(rank)*depthDim, maxDim))
	bg := darken(base, fillDarken)
	border = tcell.StyleDefault.Foreground(base).Background(bg)
	fill = tcell.StyleDefault.Foreground(textColor).Background(bg)
	return border, fill
}
