package placement

import (
	"fmt"
	"testing"

	"floorplanner/internal/budget"
	"floorplanner/internal/catalog"
	"floorplanner/internal/geometry"
	"floorplanner/internal/hittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// viewport looks straight down from y=20 with a 90° fov, so floor point (x, z) sits under
// NDC (x/20, -z/20).
type viewport struct{}

func (viewport) Camera() hittest.Camera {
	return hittest.Camera{
		Position: r3.Vec{Y: 20},
		Up:       r3.Vec{Z: -1},
		FovY:     90,
		Aspect:   1,
		Near:     0.1,
		Far:      1000,
	}
}

func (viewport) Ground() hittest.GroundPlane { return hittest.GroundPlane{HalfX: 15, HalfZ: 30} }

func at(x, z float64) PointerEvent {
	return PointerEvent{Point: hittest.NDC{X: x / 20, Y: -z / 20}}
}

type scene struct {
	groups map[string]*geometry.ShapeGroup
}

func (s *scene) Attach(key string, g *geometry.ShapeGroup) { s.groups[key] = g }
func (s *scene) Detach(key string)                         { delete(s.groups, key) }

type cards struct {
	active string
	done   map[string]bool
}

func (c *cards) SetActive(id string) { c.active = id }
func (c *cards) MarkDone(id string)  { c.done[id] = true }
func (c *cards) MarkAllPending()     { c.done = map[string]bool{} }

// dialog holds the pending confirmation until the test answers it.
type dialog struct {
	prompt string
	onYes  func()
}

func (d *dialog) Confirm(prompt string, onYes func()) { d.prompt, d.onYes = prompt, onYes }

type fixture struct {
	cat     *catalog.Catalog
	session *Session
	tracker *budget.Tracker
	scene   *scene
	cards   *cards
	dialog  *dialog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cat:    catalog.Default(),
		scene:  &scene{groups: map[string]*geometry.ShapeGroup{}},
		cards:  &cards{done: map[string]bool{}},
		dialog: &dialog{},
	}
	n := 0
	f.tracker = budget.NewTracker(f.cat, 20000)
	f.session = NewSession(f.cat, Options{
		Scene:    f.scene,
		Catalog:  f.cards,
		Confirm:  f.dialog,
		Viewport: viewport{},
		Budget:   f.tracker,
		NewID: func() string {
			n++
			return fmt.Sprintf("e%d", n)
		},
	})
	f.tracker.SetSource(f.session)
	return f
}

func (f *fixture) placeAt(t *testing.T, id string, x, z float64) *PlacedEntity {
	t.Helper()
	if armed, _ := f.session.ArmedModule(); armed != id {
		require.NoError(t, f.session.ChooseModule(id))
	}
	before := len(f.session.Entities())
	f.session.PointerDown(at(x, z))
	ents := f.session.Entities()
	require.Len(t, ents, before+1)
	return ents[len(ents)-1]
}

func (f *fixture) expectedTotal() float64 {
	var sum float64
	for _, id := range f.session.ModuleIDs() {
		c, _ := f.cat.Cost(id)
		sum += c
	}
	return sum
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 1.0, Snap(1.24, CellSize))
	assert.Equal(t, 4.0, Snap(3.76, CellSize))
	assert.Equal(t, 0.5, Snap(0.25, CellSize))
	assert.Equal(t, -1.5, Snap(-1.3, CellSize))
	assert.Equal(t, 2.0, Snap(1.9, 1))
	assert.Equal(t, 1.3, Snap(1.3, 0))
}

func TestInitialState(t *testing.T) {
	s := NewSession(catalog.Default(), Options{})
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, ToolSelect, s.Tool())
	assert.Nil(t, s.Ghost())
	assert.Empty(t, s.Entities())
	assert.Equal(t, "Modo: Selección", s.ModeLabel())
}

func TestChooseModuleArmsGhost(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("silla"))

	assert.Equal(t, Armed, f.session.State())
	assert.Equal(t, "silla", f.cards.active)
	ghost := f.session.Ghost()
	require.NotNil(t, ghost)
	assert.Same(t, ghost, f.scene.groups[GhostKey])
	for _, p := range ghost.Parts {
		assert.Equal(t, GhostOpacity, p.Material.Opacity)
	}
	assert.Equal(t, "Colocando: Silla", f.session.ModeLabel())
	assert.Empty(t, f.session.Entities(), "the ghost is never a placed entity")
}

func TestChooseUnknownModule(t *testing.T) {
	f := newFixture(t)
	err := f.session.ChooseModule("nope")
	require.ErrorIs(t, err, catalog.ErrUnknownModule)
	assert.Equal(t, Idle, f.session.State())
}

func TestChooseSameModuleDisarms(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("banco"))
	require.NoError(t, f.session.ChooseModule("banco"))

	assert.Equal(t, Idle, f.session.State())
	assert.Nil(t, f.session.Ghost())
	assert.NotContains(t, f.scene.groups, GhostKey)
	assert.Equal(t, "", f.cards.active)
	assert.Equal(t, "Modo: Selección", f.session.ModeLabel())
}

func TestChooseOtherModuleRearms(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("banco"))
	f.session.Rotate()
	require.NoError(t, f.session.ChooseModule("mesa"))

	armed, ok := f.session.ArmedModule()
	require.True(t, ok)
	assert.Equal(t, "mesa", armed)
	assert.Equal(t, 0.0, f.session.PendingRotation())
	assert.Equal(t, "mesa", f.session.Ghost().ModuleID)
	assert.Equal(t, "mesa", f.cards.active)
}

func TestPointerMoveSnapsGhost(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("silla"))
	def, _ := f.cat.Get("silla")

	f.session.PointerMove(at(1.24, 3.76))
	pos := f.session.Ghost().Position
	assert.InDelta(t, 1.0, pos.X, 1e-9)
	assert.InDelta(t, 4.0, pos.Z, 1e-9)
	assert.InDelta(t, geometry.RestHeight(def), pos.Y, 1e-9)

	// Off the floor the ghost stays put.
	f.session.PointerMove(at(18, 0))
	assert.InDelta(t, 1.0, f.session.Ghost().Position.X, 1e-9)
}

func TestPointerMoveWhileIdleIsNoop(t *testing.T) {
	f := newFixture(t)
	assert.NotPanics(t, func() { f.session.PointerMove(at(1, 1)) })
	assert.Nil(t, f.session.Ghost())
}

func TestPlacementStaysArmed(t *testing.T) {
	f := newFixture(t)
	e := f.placeAt(t, "banco", 2.2, -3.1)

	assert.Equal(t, Armed, f.session.State())
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "banco", e.ModuleID)
	assert.InDelta(t, 2.0, e.Position().X, 1e-9)
	assert.InDelta(t, -3.0, e.Position().Z, 1e-9)
	for _, p := range e.Shape().Parts {
		assert.Equal(t, 1.0, p.Material.Opacity)
	}
	assert.NotSame(t, f.session.Ghost(), e.Shape())
	assert.Same(t, e.Shape(), f.scene.groups["e1"])
	assert.True(t, f.cards.done["banco"])
	assert.Equal(t, 120.0, f.tracker.State().Total)

	f.placeAt(t, "banco", 5, 5)
	assert.Len(t, f.session.Entities(), 2)
	assert.Equal(t, 240.0, f.tracker.State().Total)
}

func TestDefaultIDsAreUUIDs(t *testing.T) {
	s := NewSession(catalog.Default(), Options{Viewport: viewport{}})
	require.NoError(t, s.ChooseModule("silla"))
	s.PointerDown(at(0, 0))
	s.PointerDown(at(0, 0))
	ents := s.Entities()
	require.Len(t, ents, 2)
	assert.Len(t, ents[0].ID, 36)
	assert.NotEqual(t, ents[0].ID, ents[1].ID)
}

func TestChromeClicksNeverPlace(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("silla"))

	ev := at(3, 3)
	ev.OverChrome = true
	f.session.PointerDown(ev)
	assert.Empty(t, f.session.Entities())

	ev.OverChrome = false
	f.session.PointerDown(ev)
	assert.Len(t, f.session.Entities(), 1)
}

func TestNonLeftButtonsIgnored(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("silla"))
	for _, b := range []Button{ButtonMiddle, ButtonRight} {
		ev := at(0, 0)
		ev.Button = b
		f.session.PointerDown(ev)
	}
	assert.Empty(t, f.session.Entities())
}

func TestSelectAndDeselect(t *testing.T) {
	f := newFixture(t)
	e := f.placeAt(t, "silla", 4, 4)
	f.session.Cancel()

	f.session.PointerDown(at(4, 4))
	sel, ok := f.session.Selected()
	require.True(t, ok)
	assert.Same(t, e, sel)
	assert.Equal(t, Selected, f.session.State())
	assert.True(t, e.Shape().Highlighted())
	assert.Equal(t, "Seleccionado: Silla", f.session.ModeLabel())

	f.session.PointerDown(at(-8, -8))
	_, ok = f.session.Selected()
	assert.False(t, ok)
	assert.Equal(t, Idle, f.session.State())
	assert.False(t, e.Shape().Highlighted())
}

func TestSelectionMovesHighlight(t *testing.T) {
	f := newFixture(t)
	a := f.placeAt(t, "silla", 4, 4)
	b := f.placeAt(t, "silla", -4, -4)
	f.session.Cancel()

	f.session.PointerDown(at(4, 4))
	f.session.PointerDown(at(-4, -4))
	assert.False(t, a.Shape().Highlighted())
	assert.True(t, b.Shape().Highlighted())
}

func TestEditToolSelects(t *testing.T) {
	f := newFixture(t)
	f.placeAt(t, "silla", 0, 0)
	f.session.SetTool(ToolEdit)
	assert.Equal(t, Idle, f.session.State(), "switching tools disarms")

	f.session.PointerDown(at(0, 0))
	_, ok := f.session.Selected()
	assert.True(t, ok)
}

func TestNoneToolIgnoresClicks(t *testing.T) {
	f := newFixture(t)
	f.placeAt(t, "silla", 0, 0)
	f.session.SetTool(ToolNone)
	f.session.PointerDown(at(0, 0))
	_, ok := f.session.Selected()
	assert.False(t, ok)
	assert.Len(t, f.session.Entities(), 1)
}

func TestCompositeBackrestSelectsSofa(t *testing.T) {
	f := newFixture(t)
	sofa := f.placeAt(t, "sofa", 0, 0)
	f.session.Cancel()

	// The backrest strip runs along z in [-0.5, -0.3].
	f.session.PointerDown(PointerEvent{Point: hittest.NDC{Y: 0.02}})
	sel, ok := f.session.Selected()
	require.True(t, ok)
	assert.Same(t, sofa, sel)
	for _, p := range sofa.Shape().Parts {
		assert.Equal(t, geometry.HighlightEmissive, p.Material.Emissive, p.Name)
	}
}

func TestDeleteTool(t *testing.T) {
	f := newFixture(t)
	f.placeAt(t, "banco", 0, 0)
	f.placeAt(t, "silla", 6, 0)
	f.session.SetTool(ToolDelete)
	assert.Equal(t, "Modo: Delete", f.session.ModeLabel())

	f.session.PointerDown(at(-8, 8))
	assert.Len(t, f.session.Entities(), 2, "miss is a no-op")

	f.session.PointerDown(at(0, 0))
	ents := f.session.Entities()
	require.Len(t, ents, 1)
	assert.Equal(t, "silla", ents[0].ModuleID)
	assert.NotContains(t, f.scene.groups, "e1")
	assert.False(t, f.cards.done["banco"])
	assert.True(t, f.cards.done["silla"])
	assert.Equal(t, 100.0, f.tracker.State().Total)
}

func TestDeleteKeepsChecklistWhileDuplicatesRemain(t *testing.T) {
	f := newFixture(t)
	f.placeAt(t, "silla", 0, 0)
	f.placeAt(t, "silla", 6, 0)
	f.session.SetTool(ToolDelete)
	f.session.PointerDown(at(0, 0))
	assert.True(t, f.cards.done["silla"])
}

func TestDeletingSelectedClearsSelection(t *testing.T) {
	f := newFixture(t)
	e := f.placeAt(t, "banco", 0, 0)
	f.session.Cancel()
	f.session.PointerDown(at(0, 0))
	require.Equal(t, Selected, f.session.State())

	require.True(t, f.session.DeleteSelected())
	_, ok := f.session.Selected()
	assert.False(t, ok)
	assert.Equal(t, Idle, f.session.State())
	assert.False(t, e.Shape().Highlighted())

	rot := e.RotationY()
	f.session.Rotate()
	assert.Equal(t, rot, e.RotationY(), "rotate after delete is a no-op")
	assert.False(t, f.session.DeleteSelected())
	assert.Empty(t, f.session.Entities())
}

func TestRotateSelectedEightTimes(t *testing.T) {
	f := newFixture(t)
	e := f.placeAt(t, "banco", 0, 0)
	f.session.Cancel()
	f.session.PointerDown(at(0, 0))
	pos := e.Position()

	f.session.Rotate()
	assert.Equal(t, 45.0, e.RotationY())
	assert.True(t, e.Shape().Highlighted())
	for i := 0; i < 7; i++ {
		f.session.Rotate()
	}
	assert.Equal(t, 0.0, e.RotationY())
	assert.Equal(t, pos, e.Position())
}

func TestRotateArmedGhost(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("banco"))
	f.session.PointerMove(at(2, 2))
	pos := f.session.Ghost().Position

	f.session.Rotate()
	f.session.Rotate()
	assert.Equal(t, 90.0, f.session.PendingRotation())
	assert.Equal(t, 90.0, f.session.Ghost().RotationY)
	assert.Equal(t, pos, f.session.Ghost().Position)

	f.session.PointerDown(at(2, 2))
	assert.Equal(t, 90.0, f.session.Entities()[0].RotationY())

	for i := 0; i < 6; i++ {
		f.session.Rotate()
	}
	assert.Equal(t, 0.0, f.session.PendingRotation())
}

func TestRotateIdleIsNoop(t *testing.T) {
	f := newFixture(t)
	assert.NotPanics(t, f.session.Rotate)
	assert.Equal(t, Idle, f.session.State())
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	f.placeAt(t, "silla", 0, 0)
	f.session.SetTool(ToolEdit)
	require.NoError(t, f.session.ChooseModule("mesa"))
	f.session.Cancel()

	assert.Equal(t, Idle, f.session.State())
	assert.Nil(t, f.session.Ghost())
	assert.Equal(t, "", f.cards.active)
	assert.Equal(t, ToolEdit, f.session.Tool(), "cancel keeps the tool")
	assert.Len(t, f.session.Entities(), 1)
}

func TestSetToolClearsSelection(t *testing.T) {
	f := newFixture(t)
	e := f.placeAt(t, "silla", 0, 0)
	f.session.Cancel()
	f.session.PointerDown(at(0, 0))
	require.True(t, e.Shape().Highlighted())

	f.session.SetTool(ToolSelect)
	_, ok := f.session.Selected()
	assert.True(t, ok, "select keeps the selection")

	f.session.SetTool(ToolEdit)
	_, ok = f.session.Selected()
	assert.False(t, ok)
	assert.False(t, e.Shape().Highlighted())
}

func TestSetToolSelectKeepsPlacement(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.ChooseModule("silla"))
	f.session.SetTool(ToolSelect)
	assert.Equal(t, Armed, f.session.State())
	f.session.SetTool(ToolDelete)
	assert.Equal(t, Idle, f.session.State())
	assert.NotContains(t, f.scene.groups, GhostKey)
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.placeAt(t, "silla", 0, 0)
	f.placeAt(t, "silla", 4, 0)
	require.NoError(t, f.session.ChooseModule("banco"))
	f.placeAt(t, "banco", 8, 0)

	f.session.RequestClearAll()
	assert.Len(t, f.session.Entities(), 3, "nothing happens before the answer")
	require.NotNil(t, f.dialog.onYes)
	assert.NotEmpty(t, f.dialog.prompt)

	f.dialog.onYes()
	assert.Empty(t, f.session.Entities())
	assert.Empty(t, f.cards.done)
	assert.Equal(t, 0.0, f.tracker.State().Total)
	assert.Equal(t, []string{GhostKey}, keys(f.scene.groups), "the armed ghost survives")
}

func TestClearAllWithoutConfirmer(t *testing.T) {
	s := NewSession(catalog.Default(), Options{Viewport: viewport{}})
	require.NoError(t, s.ChooseModule("silla"))
	s.PointerDown(at(0, 0))
	s.RequestClearAll()
	assert.Empty(t, s.Entities())
}

func TestBudgetMatchesRecomputedSum(t *testing.T) {
	f := newFixture(t)
	check := func(step string) {
		t.Helper()
		assert.InDelta(t, f.expectedTotal(), f.tracker.State().Total, 1e-9, step)
	}

	f.placeAt(t, "banco", 0, 0)
	f.placeAt(t, "banco", 4, 0)
	check("two benches")
	f.placeAt(t, "sofa", -6, 6)
	f.placeAt(t, "globo_gr", 6, 6)
	check("mixed")

	f.session.SetTool(ToolDelete)
	f.session.PointerDown(at(4, 0))
	check("after delete")

	require.NoError(t, f.tracker.EditCosts(map[string]string{"banco": "90", "sofa": "310.5"}))
	check("after cost edit")
	assert.InDelta(t, 90+310.5+30, f.tracker.State().Total, 1e-9)

	f.session.SetTool(ToolSelect)
	f.placeAt(t, "mesa", 10, -10)
	check("after another placement")

	f.session.RequestClearAll()
	f.dialog.onYes()
	check("after clear-all")
	assert.Equal(t, 0.0, f.tracker.State().Total)
}

func TestCostEditIsRetroactive(t *testing.T) {
	f := newFixture(t)
	f.placeAt(t, "banco", 0, 0)
	require.Equal(t, 120.0, f.tracker.State().Total)

	require.NoError(t, f.tracker.EditCosts(map[string]string{"banco": "90"}))
	assert.Equal(t, 90.0, f.tracker.State().Total)
}

func TestParseTool(t *testing.T) {
	for _, tool := range []Tool{ToolNone, ToolSelect, ToolEdit, ToolDelete} {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	got, err := ParseTool(" Delete ")
	require.NoError(t, err)
	assert.Equal(t, ToolDelete, got)
	_, err = ParseTool("paint")
	assert.Error(t, err)
}

func keys(m map[string]*geometry.ShapeGroup) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
