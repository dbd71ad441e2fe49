package ui

import (
	"fmt"
	"os"

	"floorplanner/internal/ui/css"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const defaultFontSize = 18

// Engine holds the current stylesheet and nodes, and draws them with raylib.
// Draw order is node order (first node drawn first, then on top the next); hit-testing walks the
// other way so the topmost node wins.
// Resolved styles are cached per class/id combination, so rebuilding nodes every frame does not
// re-resolve the sheet.
// If font is loaded (LoadFont), text is drawn with that font; otherwise raylib's default (pixel) font is used.
type Engine struct {
	sheet  *css.Sheet
	nodes  []*Node
	styles map[string]ComputedStyle
	font   rl.Font
}

// New creates an empty UI engine (no stylesheet, no nodes).
func New() *Engine {
	return &Engine{styles: make(map[string]ComputedStyle)}
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return e.LoadStylesheet(string(data))
}

// LoadStylesheet parses content and replaces the current stylesheet.
func (e *Engine) LoadStylesheet(content string) error {
	sheet, err := css.Parse(content)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *css.Sheet) {
	e.sheet = sheet
	clear(e.styles)
}

// LoadFont loads a TTF font from path for text rendering. If loading fails, the engine keeps using the default font.
// Call after the window/OpenGL context exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return fmt.Errorf("ui: font %s: %w", path, os.ErrNotExist)
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// SetFont sets a font loaded elsewhere. Zero texture ID = use raylib default.
func (e *Engine) SetFont(font rl.Font) {
	e.font = font
}

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
}

// Style returns the resolved style of n.
func (e *Engine) Style(n *Node) ComputedStyle {
	key := n.styleKey()
	if s, ok := e.styles[key]; ok {
		return s
	}
	s := ResolveProps(e.sheet.Match(n.Classes, n.ID))
	e.styles[key] = s
	return s
}

// MeasureText returns the width of text at size in the engine font.
func (e *Engine) MeasureText(text string, size int32) float32 {
	if e.font.Texture.ID != 0 {
		return rl.MeasureTextEx(e.font, text, float32(size), 1).X
	}
	return float32(rl.MeasureText(text, size))
}

// Draw draws all nodes: background, border, then text.
func (e *Engine) Draw() {
	for _, n := range e.nodes {
		style := e.Style(n)
		b := n.Bounds
		if style.Width > 0 {
			b.Width = float32(style.Width)
		}
		if style.Height > 0 {
			b.Height = float32(style.Height)
		}
		x, y, w, h := int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height)

		if style.Background.A > 0 && w > 0 && h > 0 {
			rl.DrawRectangle(x, y, w, h, style.Background)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text == "" {
			continue
		}
		tx := float32(x + style.Padding)
		if style.Center {
			tx = b.X + (b.Width-e.MeasureText(n.Text, style.FontSize))/2
		}
		ty := float32(y + style.Padding)
		if e.font.Texture.ID != 0 {
			rl.DrawTextEx(e.font, n.Text, rl.NewVector2(tx, ty), float32(style.FontSize), 1, style.Color)
		} else {
			rl.DrawText(n.Text, int32(tx), int32(ty), style.FontSize, style.Color)
		}
	}
}

// Click runs the handler of the topmost clickable node under p. A chrome node without a handler
// blocks the nodes below it (the dialog shade). It reports whether p was over chrome or a
// clickable node.
func (e *Engine) Click(p rl.Vector2) bool {
	for i := len(e.nodes) - 1; i >= 0; i-- {
		n := e.nodes[i]
		if !rl.CheckCollisionPointRec(p, n.Bounds) {
			continue
		}
		if n.OnClick != nil {
			n.OnClick()
			return true
		}
		if n.Chrome {
			return true
		}
	}
	return false
}

// OverChrome reports whether p is over a chrome node.
func (e *Engine) OverChrome(p rl.Vector2) bool {
	for _, n := range e.nodes {
		if n.Chrome && rl.CheckCollisionPointRec(p, n.Bounds) {
			return true
		}
	}
	return false
}

// HasStylesheet returns whether a stylesheet with rules is loaded.
func (e *Engine) HasStylesheet() bool {
	return e.sheet != nil && len(e.sheet.Rules) > 0
}
