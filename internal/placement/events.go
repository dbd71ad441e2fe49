package placement

import (
	"fmt"
	"strings"

	"floorplanner/internal/budget"
	"floorplanner/internal/geometry"
	"floorplanner/internal/hittest"
)

// State is the placement state machine's current state.
type State int

const (
	Idle State = iota
	Armed
	Selected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Selected:
		return "selected"
	}
	return "unknown"
}

// Tool decides what a left click does when no module is armed.
type Tool int

const (
	ToolNone Tool = iota
	ToolSelect
	ToolEdit
	ToolDelete
)

func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolSelect:
		return "select"
	case ToolEdit:
		return "edit"
	case ToolDelete:
		return "delete"
	}
	return "unknown"
}

// ParseTool maps "none", "select", "edit" and "delete" (any case) to a Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ToolNone, nil
	case "select":
		return ToolSelect, nil
	case "edit":
		return ToolEdit, nil
	case "delete":
		return ToolDelete, nil
	}
	return ToolNone, fmt.Errorf("placement: unknown tool %q", s)
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Modifiers is a bit set of held keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// PointerEvent is a pointer move or press over the canvas. OverChrome is set when the pointer is
// over a UI panel rather than the 3D viewport.
type PointerEvent struct {
	Point      hittest.NDC
	Button     Button
	Mods       Modifiers
	OverChrome bool
}

// SceneSink receives shape groups to draw. Keys are entity ids, plus GhostKey for the preview.
type SceneSink interface {
	Attach(key string, g *geometry.ShapeGroup)
	Detach(key string)
}

// CatalogView shows the catalog cards and the checklist. SetActive("") clears the active card.
type CatalogView interface {
	SetActive(id string)
	MarkDone(id string)
	MarkAllPending()
}

// Confirmer asks the user a yes/no question and calls onYes only on confirmation. It may answer
// later (a modal dialog) or immediately.
type Confirmer interface {
	Confirm(prompt string, onYes func())
}

// Viewport supplies the current camera and floor for hit-testing.
type Viewport interface {
	Camera() hittest.Camera
	Ground() hittest.GroundPlane
}

// Budget is recomputed after every change to the placed collection.
type Budget interface {
	Recompute() budget.State
}

// GhostKey is the SceneSink key of the placement preview.
const GhostKey = "ghost"

type nopScene struct{}

func (nopScene) Attach(string, *geometry.ShapeGroup) {}
func (nopScene) Detach(string)                       {}

type nopCatalogView struct{}

func (nopCatalogView) SetActive(string) {}
func (nopCatalogView) MarkDone(string)  {}
func (nopCatalogView) MarkAllPending()  {}

// autoConfirm says yes to everything.
type autoConfirm struct{}

func (autoConfirm) Confirm(_ string, onYes func()) { onYes() }

type nopBudget struct{}

func (nopBudget) Recompute() budget.State { return budget.State{} }

// staticViewport has a degenerate camera, so every hit-test misses.
type staticViewport struct{}

func (staticViewport) Camera() hittest.Camera      { return hittest.Camera{} }
func (staticViewport) Ground() hittest.GroundPlane { return hittest.GroundPlane{} }
