package hud

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	modeHeight = 34
	// updateInterval: only refresh the FPS text every N frames to reduce allocations.
	updateInterval = 30
)

var (
	modeBg    = rl.NewColor(15, 23, 42, 220)
	modeColor = rl.NewColor(226, 232, 240, 255)
)

// HUD draws the mode label in the bottom-left corner of the viewport and, when enabled, the FPS
// counter just above it.
type HUD struct {
	ShowFPS     bool
	Left        int32   // x where the viewport starts (right edge of the sidebar)
	font        rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount  uint32
	lastFpsText string
}

// New returns a HUD with the FPS counter hidden, for a viewport starting at x = left.
func New(left int32) *HUD {
	return &HUD{Left: left}
}

// SetShowFPS sets whether the FPS counter is drawn.
func (h *HUD) SetShowFPS(show bool) {
	h.ShowFPS = show
}

// SetFont sets the font used to draw the overlay. Zero texture ID = use raylib default.
func (h *HUD) SetFont(font rl.Font) {
	h.font = font
}

// Draw renders the mode label and the FPS counter. Call after the scene and before the panels.
func (h *HUD) Draw(mode string) {
	screenH := int32(rl.GetScreenHeight())
	y := screenH - modeHeight - padding

	if mode != "" {
		w := h.measure(mode) + 2*padding
		rl.DrawRectangle(h.Left+padding, y, w, modeHeight, modeBg)
		h.text(mode, h.Left+2*padding, y+(modeHeight-fontSize)/2, modeColor)
	}

	h.frameCount++
	if !h.ShowFPS {
		return
	}
	if h.lastFpsText == "" || h.frameCount%updateInterval == 0 {
		h.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
	}
	h.text(h.lastFpsText, h.Left+padding, y-fontSize-padding/2, rl.Green)
}

func (h *HUD) measure(s string) int32 {
	if h.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(h.font, s, fontSize, 1).X)
	}
	return rl.MeasureText(s, fontSize)
}

func (h *HUD) text(s string, x, y int32, c rl.Color) {
	if h.font.Texture.ID != 0 {
		rl.DrawTextEx(h.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(s, x, y, fontSize, c)
}
