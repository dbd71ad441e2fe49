package app

import (
	"floorplanner/internal/hittest"
	"floorplanner/internal/placement"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// update translates this frame's raylib input into console, dialog, panel and placement events.
// The console and dialogs own the keyboard while open; panels own the pointer while it is over
// them.
func (a *App) update() {
	termWasOpen := a.term.IsOpen()
	a.term.Update()
	keyboardTaken := termWasOpen || a.term.IsOpen()
	if !keyboardTaken {
		keyboardTaken = a.panels.UpdateDialog()
	}
	if !keyboardTaken {
		a.shortcuts()
	}

	mouse := rl.GetMousePosition()
	overChrome := a.ui.OverChrome(mouse) || rl.CheckCollisionPointRec(mouse, a.term.Bounds())
	a.scene.Update(!overChrome)

	ndc, ok := hittest.NormalizePointer(float64(mouse.X), float64(mouse.Y),
		float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	if !ok {
		return
	}
	ev := placement.PointerEvent{Point: ndc, Mods: modifiers(), OverChrome: overChrome}
	if !overChrome {
		a.ctl.Session.PointerMove(ev)
	}

	button, pressed := pressedButton()
	if !pressed {
		return
	}
	if button == placement.ButtonLeft && a.ui.Click(mouse) {
		ev.OverChrome = true
	}
	ev.Button = button
	a.ctl.Session.PointerDown(ev)
}

func (a *App) shortcuts() {
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		a.ctl.Escape()
	case rl.IsKeyPressed(rl.KeyR):
		a.ctl.Rotate()
	case rl.IsKeyPressed(rl.KeyDelete):
		a.ctl.DeleteKey()
	case rl.IsKeyPressed(rl.KeyP):
		if err := a.requestExport(0); err != nil {
			a.log.Log(err.Error())
		}
	}
}

func pressedButton() (placement.Button, bool) {
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		return placement.ButtonLeft, true
	case rl.IsMouseButtonPressed(rl.MouseButtonMiddle):
		return placement.ButtonMiddle, true
	case rl.IsMouseButtonPressed(rl.MouseButtonRight):
		return placement.ButtonRight, true
	}
	return 0, false
}

func modifiers() placement.Modifiers {
	var m placement.Modifiers
	if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
		m |= placement.ModShift
	}
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) {
		m |= placement.ModCtrl
	}
	if rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt) {
		m |= placement.ModAlt
	}
	return m
}
