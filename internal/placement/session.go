// Package placement is the interaction state machine: arming a catalog module, tracking a ghost
// preview on the floor grid, committing placements, and selecting, rotating and deleting placed
// entities. It reacts to one event at a time and owns the placed collection.
package placement

import (
	"fmt"
	"slices"

	"floorplanner/internal/catalog"
	"floorplanner/internal/geometry"
	"floorplanner/internal/hittest"
	"floorplanner/internal/logger"

	"github.com/google/uuid"
)

const (
	// RotationStep is the yaw added by one rotate command, in degrees.
	RotationStep = 45.0
	// GhostOpacity is applied to every part of the preview.
	GhostOpacity = 0.5

	// ClearAllPrompt is the question asked before ClearAll.
	ClearAllPrompt = "¿Estás seguro de que deseas borrar todo el diseño?"
)

// Options wires a Session to its collaborators. Nil fields get no-op defaults; a nil Confirm
// confirms immediately.
type Options struct {
	Scene    SceneSink
	Catalog  CatalogView
	Confirm  Confirmer
	Viewport Viewport
	Budget   Budget
	Log      *logger.Logger
	// CellSize is the snap grid; 0 means CellSize.
	CellSize float64
	// NewID generates entity ids; nil means uuid.NewString.
	NewID func() string
}

// Session is the placement state machine. It is not safe for concurrent use; the main loop
// drives it.
type Session struct {
	cat      *catalog.Catalog
	scene    SceneSink
	view     CatalogView
	confirm  Confirmer
	viewport Viewport
	budget   Budget
	log      *logger.Logger
	cell     float64
	newID    func() string

	tool     Tool
	armed    string // module id, "" when not armed
	rotation float64
	ghost    *geometry.ShapeGroup
	entities []*PlacedEntity
	selected string // entity id, "" when nothing is selected
}

// NewSession returns an idle session with the select tool active.
func NewSession(cat *catalog.Catalog, opts Options) *Session {
	s := &Session{
		cat:      cat,
		scene:    opts.Scene,
		view:     opts.Catalog,
		confirm:  opts.Confirm,
		viewport: opts.Viewport,
		budget:   opts.Budget,
		log:      opts.Log,
		cell:     opts.CellSize,
		newID:    opts.NewID,
		tool:     ToolSelect,
	}
	if s.scene == nil {
		s.scene = nopScene{}
	}
	if s.view == nil {
		s.view = nopCatalogView{}
	}
	if s.confirm == nil {
		s.confirm = autoConfirm{}
	}
	if s.viewport == nil {
		s.viewport = staticViewport{}
	}
	if s.budget == nil {
		s.budget = nopBudget{}
	}
	if s.cell <= 0 {
		s.cell = CellSize
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// SetBudget replaces the budget collaborator. The tracker reads entities back from the session,
// so the two are wired after both exist.
func (s *Session) SetBudget(b Budget) {
	if b == nil {
		b = nopBudget{}
	}
	s.budget = b
}

// State derives the current state: a ghost means Armed, a selection means Selected.
func (s *Session) State() State {
	switch {
	case s.ghost != nil:
		return Armed
	case s.selected != "":
		return Selected
	}
	return Idle
}

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// ArmedModule returns the armed module id.
func (s *Session) ArmedModule() (string, bool) { return s.armed, s.armed != "" }

// PendingRotation is the yaw the next placement will get.
func (s *Session) PendingRotation() float64 { return s.rotation }

// Ghost returns the preview shape, or nil when not armed.
func (s *Session) Ghost() *geometry.ShapeGroup { return s.ghost }

// Entities returns the placed entities in insertion order. The slice is a copy; the entities are
// shared.
func (s *Session) Entities() []*PlacedEntity {
	return slices.Clone(s.entities)
}

// ModuleIDs lists the module id of every placed entity, for the budget tracker.
func (s *Session) ModuleIDs() []string {
	ids := make([]string, len(s.entities))
	for i, e := range s.entities {
		ids[i] = e.ModuleID
	}
	return ids
}

// Selected returns the selected entity, looked up by id in the placed collection.
func (s *Session) Selected() (*PlacedEntity, bool) {
	if s.selected == "" {
		return nil, false
	}
	i := s.indexOf(s.selected)
	if i < 0 {
		return nil, false
	}
	return s.entities[i], true
}

// ModeLabel is the status line text for the current mode.
func (s *Session) ModeLabel() string {
	if s.armed != "" {
		return "Colocando: " + s.moduleName(s.armed)
	}
	if e, ok := s.Selected(); ok {
		return "Seleccionado: " + s.moduleName(e.ModuleID)
	}
	switch s.tool {
	case ToolSelect:
		return "Modo: Selección"
	case ToolEdit:
		return "Modo: Edit"
	case ToolDelete:
		return "Modo: Delete"
	}
	return "Modo: Navegación"
}

// ChooseModule handles a click on a catalog card. It clears the selection, then disarms when id
// is already armed, or arms id with a fresh ghost at rotation 0.
func (s *Session) ChooseModule(id string) error {
	def, ok := s.cat.Get(id)
	if !ok {
		return fmt.Errorf("placement: %w: %q", catalog.ErrUnknownModule, id)
	}
	s.deselect()

	if s.armed == id {
		s.disarm()
		s.log.Logf("placement: disarmed %s", id)
		return nil
	}

	s.removeGhost()
	s.armed = id
	s.rotation = 0
	s.ghost = geometry.Build(def, 0)
	s.ghost.Position.Y = geometry.RestHeight(def)
	s.ghost.SetOpacity(GhostOpacity)
	s.scene.Attach(GhostKey, s.ghost)
	s.view.SetActive(id)
	s.log.Logf("placement: armed %s", id)
	return nil
}

// PointerMove moves the ghost to the snapped floor point under the pointer. Outside the floor
// the ghost stays where it was.
func (s *Session) PointerMove(ev PointerEvent) {
	if s.ghost == nil {
		return
	}
	pt, ok := hittest.ResolveGround(ev.Point, s.viewport.Camera(), s.viewport.Ground())
	if !ok {
		return
	}
	def, ok := s.cat.Get(s.armed)
	if !ok {
		return
	}
	pt = SnapXZ(pt, s.cell)
	pt.Y = s.viewport.Ground().Height + geometry.RestHeight(def)
	s.ghost.Position = pt
}

// PointerDown handles a press over the canvas. Only the left button acts and presses over UI
// chrome are ignored. Armed places, otherwise the tool decides.
func (s *Session) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonLeft || ev.OverChrome {
		return
	}
	switch {
	case s.ghost != nil:
		s.PointerMove(ev)
		s.place()
	case s.tool == ToolDelete:
		s.deleteAt(ev.Point)
	case s.tool == ToolSelect || s.tool == ToolEdit:
		s.selectAt(ev.Point)
	}
}

// Rotate turns the selected entity, or else the pending placement, by RotationStep.
func (s *Session) Rotate() {
	if e, ok := s.Selected(); ok {
		e.shape.Rotate(RotationStep)
		e.shape.SetHighlight(true)
		s.log.Logf("placement: rotated %s to %.0f°", e.ID, e.shape.RotationY)
		return
	}
	if s.ghost != nil {
		s.rotation = geometry.NormalizeDegrees(s.rotation + RotationStep)
		s.ghost.SetRotation(s.rotation)
	}
}

// Cancel drops any ghost and selection and clears the active card. The tool is unchanged.
func (s *Session) Cancel() {
	s.disarm()
	s.deselect()
	s.view.SetActive("")
}

// SetTool switches the click tool. Any tool other than select cancels placement and clears the
// selection.
func (s *Session) SetTool(t Tool) {
	s.tool = t
	if t != ToolSelect {
		s.disarm()
		s.deselect()
	}
	s.log.Logf("placement: tool %s", t)
}

// RequestClearAll asks for confirmation before ClearAll.
func (s *Session) RequestClearAll() {
	s.confirm.Confirm(ClearAllPrompt, s.ClearAll)
}

// ClearAll removes every placed entity. An armed module stays armed.
func (s *Session) ClearAll() {
	s.deselect()
	for _, e := range s.entities {
		s.scene.Detach(e.ID)
	}
	n := len(s.entities)
	s.entities = nil
	s.view.MarkAllPending()
	s.budget.Recompute()
	s.log.Logf("placement: cleared %d entities", n)
}

// DeleteSelected removes the selected entity, if any.
func (s *Session) DeleteSelected() bool {
	e, ok := s.Selected()
	if !ok {
		return false
	}
	s.remove(e)
	return true
}

func (s *Session) place() {
	e := &PlacedEntity{
		ID:       s.newID(),
		ModuleID: s.armed,
		shape:    s.ghost.Clone(),
	}
	e.shape.SetOpacity(1)
	s.entities = append(s.entities, e)
	s.scene.Attach(e.ID, e.shape)
	s.budget.Recompute()
	s.view.MarkDone(e.ModuleID)
	p := e.shape.Position
	s.log.Logf("placement: placed %s at (%.1f, %.1f) rot %.0f°", e.ModuleID, p.X, p.Z, e.shape.RotationY)
}

func (s *Session) selectAt(p hittest.NDC) {
	e, ok := hittest.ResolveEntity(p, s.viewport.Camera(), s.entities)
	s.deselect()
	if !ok {
		return
	}
	s.selected = e.ID
	e.shape.SetHighlight(true)
	s.log.Logf("placement: selected %s (%s)", e.ID, e.ModuleID)
}

func (s *Session) deleteAt(p hittest.NDC) {
	e, ok := hittest.ResolveEntity(p, s.viewport.Camera(), s.entities)
	if !ok {
		return
	}
	s.remove(e)
}

func (s *Session) remove(e *PlacedEntity) {
	if s.selected == e.ID {
		s.deselect()
	}
	i := s.indexOf(e.ID)
	if i < 0 {
		return
	}
	s.entities = slices.Delete(s.entities, i, i+1)
	s.scene.Detach(e.ID)
	s.budget.Recompute()
	s.refreshChecklist()
	s.log.Logf("placement: deleted %s (%s)", e.ID, e.ModuleID)
}

// refreshChecklist resets every entry and marks the modules that still have an entity.
func (s *Session) refreshChecklist() {
	s.view.MarkAllPending()
	for _, e := range s.entities {
		s.view.MarkDone(e.ModuleID)
	}
}

func (s *Session) deselect() {
	if e, ok := s.Selected(); ok {
		e.shape.SetHighlight(false)
	}
	s.selected = ""
}

func (s *Session) disarm() {
	if s.armed != "" {
		s.view.SetActive("")
	}
	s.removeGhost()
	s.armed = ""
	s.rotation = 0
}

func (s *Session) removeGhost() {
	if s.ghost != nil {
		s.scene.Detach(GhostKey)
		s.ghost = nil
	}
}

func (s *Session) indexOf(id string) int {
	return slices.IndexFunc(s.entities, func(e *PlacedEntity) bool { return e.ID == id })
}

func (s *Session) moduleName(id string) string {
	if d, ok := s.cat.Get(id); ok {
		return d.Name
	}
	return id
}
