package ui

import (
	"floorplanner/internal/ui/css"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ComputedStyle holds resolved values used for drawing (raylib types where applicable).
// Width/Height of 0 leave the size set by layout code. Padding is the text offset from the node's
// left/top.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Width      int32
	Height     int32
	Padding    int32
	FontSize   int32
	Center     bool // text-align: center
}

// DefaultComputedStyle returns a minimal style (transparent background, white text, no border).
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		Padding:    4,
		FontSize:   defaultFontSize,
	}
}

func color(s string) (rl.Color, bool) {
	c, ok := css.ParseColor(s)
	if !ok {
		return rl.Color{}, false
	}
	return rl.NewColor(c.R, c.G, c.B, c.A), true
}

// ResolveProps builds a ComputedStyle from a merged property map (e.g. from matching rules).
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		switch k {
		case "background", "background-color":
			if c, ok := color(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := color(v); ok {
				out.Color = c
			}
		case "border", "border-color":
			if c, ok := color(v); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "width":
			if n, ok := css.ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := css.ParsePx(v); ok {
				out.Height = n
			}
		case "padding":
			if n, ok := css.ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := css.ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		case "text-align":
			out.Center = v == "center"
		}
	}
	return out
}
