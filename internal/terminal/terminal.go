package terminal

import (
	"unicode/utf8"

	"floorplanner/internal/commands"
	"floorplanner/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	BarHeight = 36
	prompt    = "> "
	fontSize  = 18
	padding   = 8
	// Number of log lines drawn above the input bar when the console is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxLineChars     = 160
)

var (
	// Reused every frame when drawing the console to avoid per-frame color allocations.
	termBarColor   = rl.NewColor(15, 23, 42, 245)
	termLineColor  = rl.NewColor(56, 189, 248, 255)
	termLogBgColor = rl.NewColor(15, 23, 42, 220)
)

// Terminal is the command console at the bottom of the screen, shown and hidden with F1.
// While open it owns the keyboard, so planner shortcuts (R, Delete, Esc) are not triggered.
// Lines starting with "cmd " run through the command registry; anything else is echoed with a
// hint.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	font     rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
}

// New returns a closed console that logs lines and runs "cmd ..." through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen reports whether the console is visible and capturing keyboard input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetFont sets the font used to draw the console. Zero texture ID = use raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Bounds is the screen area covered by the console, for the UI chrome hit-test. Empty when
// closed.
func (t *Terminal) Bounds() rl.Rectangle {
	if !t.open {
		return rl.Rectangle{}
	}
	screenW := float32(rl.GetScreenWidth())
	screenH := float32(rl.GetScreenHeight())
	h := float32(BarHeight + maxLinesOnScreen*lineHeight)
	if h > screenH {
		h = screenH
	}
	return rl.NewRectangle(0, screenH-h, screenW, h)
}

// Update handles F1 (toggle), and when open: typing, paste, backspace, enter. Call once per
// frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyF1) {
		t.open = !t.open
		t.inputBuf = ""
		return
	}
	if !t.open {
		return
	}
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.inputBuf += pasted
		}
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = false
		t.inputBuf = ""
		return
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && t.inputBuf != "" {
		line := t.inputBuf
		t.inputBuf = ""
		t.submit(line)
	}
}

func (t *Terminal) submit(line string) {
	t.log.Log(prompt + line)
	ok, err := t.reg.Dispatch(line)
	if !ok {
		t.log.Log("not a command; try \"cmd help\"")
		return
	}
	if err != nil {
		t.log.Log("error: " + err.Error())
	}
}

// Draw draws the input bar at the bottom when open, and the recent log lines above it.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	barY := screenH - BarHeight

	logHeight := maxLinesOnScreen * lineHeight
	logY := barY - logHeight
	if logY < 0 {
		logHeight = barY
		logY = 0
	}
	if logHeight > 0 {
		rl.DrawRectangle(0, int32(logY), int32(screenW), int32(logHeight), termLogBgColor)
	}
	lines := t.log.Lines()
	start := 0
	if len(lines) > maxLinesOnScreen {
		start = len(lines) - maxLinesOnScreen
	}
	for i := start; i < len(lines); i++ {
		y := logY + (i-start)*lineHeight + padding/2
		t.text(clip(lines[i]), padding, y, rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	t.text(prompt+t.inputBuf+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), float32(fontSize), 1, c)
		return
	}
	rl.DrawText(s, int32(x), int32(y), int32(fontSize), c)
}

func clip(s string) string {
	if utf8.RuneCountInString(s) <= maxLineChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxLineChars-3]) + "..."
}
