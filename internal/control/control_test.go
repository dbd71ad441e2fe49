package control

import (
	"fmt"
	"strings"
	"testing"

	"floorplanner/internal/catalog"
	"floorplanner/internal/commands"
	"floorplanner/internal/hittest"
	"floorplanner/internal/logger"
	"floorplanner/internal/placement"
	"floorplanner/internal/ui/panel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ commands.Planner = (*Controller)(nil)

// topDown looks straight down from y=20 with a 90° fov: floor (x, z) is under NDC (x/20, -z/20).
type topDown struct{}

func (topDown) Camera() hittest.Camera {
	return hittest.Camera{Position: r3.Vec{Y: 20}, Up: r3.Vec{Z: -1}, FovY: 90, Aspect: 1, Near: 0.1, Far: 1000}
}

func (topDown) Ground() hittest.GroundPlane { return hittest.GroundPlane{HalfX: 15, HalfZ: 30} }

func at(x, z float64) placement.PointerEvent {
	return placement.PointerEvent{Point: hittest.NDC{X: x / 20, Y: -z / 20}}
}

type hooks struct {
	scale float64
	fps   *bool
	grid  *bool
}

func newController(t *testing.T) (*Controller, *logger.Logger, *hooks) {
	t.Helper()
	log := logger.New("")
	h := &hooks{}
	n := 0
	c := New(Config{
		Catalog:  catalog.Default(),
		Limit:    1000,
		Locale:   "es",
		Viewport: topDown{},
		Log:      log,
		NewID: func() string {
			n++
			return fmt.Sprintf("e%d", n)
		},
		Hooks: Hooks{
			Export:   func(s float64) error { h.scale = s; return nil },
			ShowFPS:  func(b bool) { h.fps = &b },
			ShowGrid: func(b bool) { h.grid = &b },
		},
	})
	return c, log, h
}

func place(t *testing.T, c *Controller, id string, x, z float64) {
	t.Helper()
	if armed, ok := c.Session.ArmedModule(); !ok || armed != id {
		require.NoError(t, c.ChooseModule(id))
	}
	c.Session.PointerMove(at(x, z))
	c.Session.PointerDown(at(x, z))
}

func logged(log *logger.Logger, substr string) bool {
	for _, l := range log.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestChooseModuleMarksCard(t *testing.T) {
	c, log, _ := newController(t)
	require.NoError(t, c.ChooseModule("banco"))
	assert.Equal(t, "banco", c.Cards.Active())
	assert.Equal(t, placement.Armed, c.Session.State())

	assert.Error(t, c.ChooseModule("nope"))
	assert.True(t, logged(log, "nope"))
	assert.Equal(t, "banco", c.Cards.Active())
}

func TestCostEditIsRetroactive(t *testing.T) {
	c, _, _ := newController(t)
	place(t, c, "banco", 0, 0)
	place(t, c, "banco", 2, 0)
	assert.Equal(t, 240.0, c.Budget.State().Total)

	require.NoError(t, c.EditCost("banco", "90"))
	assert.Equal(t, 180.0, c.Budget.State().Total)
	assert.Equal(t, "90 €", c.Cards.Cards()[1].Cost)

	assert.Error(t, c.EditCosts(map[string]string{"banco": "-1", "silla": "80"}))
	cost, _ := c.Catalog.Cost("banco")
	assert.Equal(t, 90.0, cost)
	cost, _ = c.Catalog.Cost("silla")
	assert.Equal(t, 80.0, cost)
}

func TestBudgetLimitAndOverLimitLog(t *testing.T) {
	c, log, _ := newController(t)
	assert.Error(t, c.SetBudget("abc"))
	assert.Equal(t, 1000.0, c.Budget.Limit())

	require.NoError(t, c.SetBudget("250"))
	place(t, c, "sofa", 0, 0)
	assert.True(t, c.Budget.State().OverLimit)
	assert.True(t, logged(log, "over limit"))

	n := len(log.Lines())
	place(t, c, "sofa", 4, 0)
	overs := 0
	for _, l := range log.Lines()[n:] {
		if strings.Contains(l, "over limit") {
			overs++
		}
	}
	assert.Zero(t, overs, "logged once per crossing")
}

func TestClearAllAsksFirst(t *testing.T) {
	c, _, _ := newController(t)
	place(t, c, "mesa", 0, 0)
	c.RequestClearAll()
	require.Equal(t, panel.Confirm, c.Dialogs.Kind())
	assert.Equal(t, placement.ClearAllPrompt, c.Dialogs.Title())
	assert.Len(t, c.Session.Entities(), 1)

	require.NoError(t, c.Dialogs.Accept())
	assert.Empty(t, c.Session.Entities())
	assert.Zero(t, c.Budget.State().Total)
	armed, ok := c.Session.ArmedModule()
	assert.True(t, ok)
	assert.Equal(t, "mesa", armed)
}

func TestDeleteKey(t *testing.T) {
	c, _, _ := newController(t)
	place(t, c, "mesa", 0, 0)
	c.Escape()
	assert.Equal(t, placement.Idle, c.Session.State())
	assert.Equal(t, placement.ToolSelect, c.Session.Tool())

	c.Session.PointerDown(at(0, 0))
	require.Equal(t, placement.Selected, c.Session.State())
	sel, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, "Mesa Alta", sel.Name)
	assert.Equal(t, "150 €", sel.Cost)

	c.DeleteKey()
	assert.Empty(t, c.Session.Entities())
	assert.Equal(t, placement.ToolSelect, c.Session.Tool())
	_, ok = c.Selection()
	assert.False(t, ok)

	c.DeleteKey()
	assert.Equal(t, placement.ToolDelete, c.Session.Tool())
}

func TestLimitPrompt(t *testing.T) {
	c, _, _ := newController(t)
	c.OpenLimitPrompt()
	require.Equal(t, panel.Prompt, c.Dialogs.Kind())
	assert.Equal(t, "1000", c.Dialogs.Fields()[0].Value)

	c.Dialogs.Type('0')
	require.NoError(t, c.Dialogs.Accept())
	assert.Equal(t, 10000.0, c.Budget.Limit())
}

func TestCostEditor(t *testing.T) {
	c, _, _ := newController(t)
	c.OpenCostEditor()
	require.Equal(t, panel.CostEditor, c.Dialogs.Kind())
	fields := c.Dialogs.Fields()
	require.Len(t, fields, c.Catalog.Len())
	assert.Equal(t, "200", fields[0].Value)

	c.Dialogs.Backspace()
	c.Dialogs.Backspace()
	c.Dialogs.Backspace()
	c.Dialogs.Type('x')
	assert.Error(t, c.Dialogs.Accept())
	assert.True(t, c.Dialogs.Open())

	c.Dialogs.Backspace()
	c.Dialogs.Type('5')
	require.NoError(t, c.Dialogs.Accept())
	cost, _ := c.Catalog.Cost("escenario")
	assert.Equal(t, 5.0, cost)
}

func TestCommandsDriveController(t *testing.T) {
	c, _, h := newController(t)
	reg := commands.NewRegistry()
	var out []string
	commands.RegisterPlanner(reg, c, func(s string) { out = append(out, s) })

	dispatch := func(line string) error {
		ok, err := reg.Dispatch(line)
		require.True(t, ok, line)
		return err
	}
	require.NoError(t, dispatch("cmd place silla"))
	assert.Equal(t, "silla", c.Cards.Active())
	require.NoError(t, dispatch("cmd rotate"))
	assert.Equal(t, 45.0, c.Session.PendingRotation())
	require.NoError(t, dispatch("cmd tool delete"))
	assert.Equal(t, placement.ToolDelete, c.Session.Tool())
	assert.Error(t, dispatch("cmd tool paint"))
	require.NoError(t, dispatch("cmd budget 500"))
	assert.Equal(t, 500.0, c.Budget.Limit())
	require.NoError(t, dispatch("cmd export --scale 3"))
	assert.Equal(t, 3.0, h.scale)
	require.NoError(t, dispatch("cmd fps --show"))
	require.NotNil(t, h.fps)
	assert.True(t, *h.fps)
	require.NoError(t, dispatch("cmd grid --hide"))
	require.NotNil(t, h.grid)
	assert.False(t, *h.grid)

	require.NoError(t, dispatch("cmd catalog"))
	require.Len(t, out, c.Catalog.Len())
	assert.Contains(t, out[1], "banco")
	assert.Contains(t, out[1], "120 €")
}

func TestExportCaption(t *testing.T) {
	c, _, _ := newController(t)
	place(t, c, "banco", 0, 0)
	caption := c.ExportCaption()
	assert.Equal(t, "Efimeros 3D - 1 modulos - total 120 EUR / limite 1000 EUR", caption)
	assert.NotContains(t, caption, "€")
}
