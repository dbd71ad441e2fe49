package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the main window.
type Window struct {
	Width, Height int32
	Title         string
	Background    rl.Color
}

// Run opens the window and runs the main loop until it is closed. Each frame it calls update
// (input), then clears the screen and calls draw. The window is resizable; Esc is left to the
// planner (cancel placement, close dialogs) and never quits.
// init runs once after the OpenGL context exists, before the first frame, so GPU resources
// (fonts, meshes) can be loaded there.
func Run(w Window, init func(), update, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)
	if init != nil {
		init()
	}

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(w.Background)
		draw()
		rl.EndDrawing()
	}
}
