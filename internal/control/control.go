// Package control ties the placement session, the budget tracker and the panel state together.
// It is what the console commands, panel buttons and keyboard shortcuts call into; the raylib
// shell only translates input and draws.
package control

import (
	"fmt"
	"strconv"

	"floorplanner/internal/budget"
	"floorplanner/internal/catalog"
	"floorplanner/internal/logger"
	"floorplanner/internal/placement"
	"floorplanner/internal/ui/panel"
)

// Hooks reach shell features the core knows nothing about. Nil hooks are no-ops.
type Hooks struct {
	Export   func(scale float64) error
	ShowFPS  func(show bool)
	ShowGrid func(show bool)
}

// Config wires a Controller.
type Config struct {
	Catalog  *catalog.Catalog
	Limit    float64
	Locale   string
	CellSize float64
	Scene    placement.SceneSink
	Viewport placement.Viewport
	Log      *logger.Logger
	Hooks    Hooks
	NewID    func() string
}

// Controller owns the core objects of one planning session.
type Controller struct {
	Catalog *catalog.Catalog
	Session *placement.Session
	Budget  *budget.Tracker
	Cards   *panel.Cards
	Dialogs *panel.Dialogs
	Format  budget.Formatter

	log   *logger.Logger
	hooks Hooks
	over  bool
}

// New builds the session, tracker and panel state from cfg.
func New(cfg Config) *Controller {
	c := &Controller{
		Catalog: cfg.Catalog,
		Format:  budget.NewFormatter(cfg.Locale),
		Dialogs: &panel.Dialogs{},
		log:     cfg.Log,
		hooks:   cfg.Hooks,
	}
	c.Cards = panel.NewCards(cfg.Catalog, c.Format)
	c.Budget = budget.NewTracker(cfg.Catalog, cfg.Limit)
	c.Session = placement.NewSession(cfg.Catalog, placement.Options{
		Scene:    cfg.Scene,
		Catalog:  c.Cards,
		Confirm:  c.Dialogs,
		Viewport: cfg.Viewport,
		Budget:   c.Budget,
		Log:      cfg.Log,
		CellSize: cfg.CellSize,
		NewID:    cfg.NewID,
	})
	c.Budget.SetSource(c.Session)
	c.Budget.OnChange(c.budgetChanged)
	c.Budget.Recompute()
	return c
}

func (c *Controller) budgetChanged(s budget.State) {
	if s.OverLimit && !c.over {
		c.log.Logf("budget: over limit (%s)", c.Format.Summary(s))
	}
	c.over = s.OverLimit
}

// ChooseModule arms or disarms id, as a click on its card does.
func (c *Controller) ChooseModule(id string) error {
	if err := c.Session.ChooseModule(id); err != nil {
		c.log.Log(err.Error())
		return err
	}
	return nil
}

// EditCost sets the unit cost of one module from user text.
func (c *Controller) EditCost(id, value string) error {
	return c.EditCosts(map[string]string{id: value})
}

// EditCosts applies every valid edit, refreshes the cards and returns the rejections.
func (c *Controller) EditCosts(values map[string]string) error {
	err := c.Budget.EditCosts(values)
	c.Cards.Refresh(c.Catalog, c.Format)
	if err != nil {
		c.log.Log(err.Error())
		return err
	}
	c.log.Logf("budget: costs updated, total %s", c.Format.Cost(c.Budget.State().Total))
	return nil
}

// SetBudget replaces the budget limit from user text.
func (c *Controller) SetBudget(value string) error {
	if err := c.Budget.SetLimit(value); err != nil {
		c.log.Log(err.Error())
		return err
	}
	c.log.Logf("budget: limit %s", c.Format.Cost(c.Budget.Limit()))
	return nil
}

// SetTool switches tools by name.
func (c *Controller) SetTool(name string) error {
	t, err := placement.ParseTool(name)
	if err != nil {
		return err
	}
	c.Session.SetTool(t)
	return nil
}

// Rotate turns the selection or the pending placement by one step.
func (c *Controller) Rotate() { c.Session.Rotate() }

// Cancel drops the ghost, the selection and the active card.
func (c *Controller) Cancel() { c.Session.Cancel() }

// RequestClearAll opens the clear confirmation.
func (c *Controller) RequestClearAll() { c.Session.RequestClearAll() }

// Export hands off to the export hook. scale 0 means the configured default.
func (c *Controller) Export(scale float64) error {
	if c.hooks.Export == nil {
		return nil
	}
	return c.hooks.Export(scale)
}

// CatalogLines lists "id  name  cost" per module.
func (c *Controller) CatalogLines() []string {
	defs := c.Catalog.Snapshot()
	lines := make([]string, len(defs))
	for i, d := range defs {
		lines[i] = fmt.Sprintf("%-10s %-18s %s", d.ID, d.Name, c.Format.Cost(d.UnitCost))
	}
	return lines
}

// ShowFPS toggles the FPS overlay.
func (c *Controller) ShowFPS(show bool) {
	if c.hooks.ShowFPS != nil {
		c.hooks.ShowFPS(show)
	}
}

// ShowGrid toggles the floor grid.
func (c *Controller) ShowGrid(show bool) {
	if c.hooks.ShowGrid != nil {
		c.hooks.ShowGrid(show)
	}
}

// Escape cancels placement and returns to the select tool.
func (c *Controller) Escape() {
	c.Session.Cancel()
	c.Session.SetTool(placement.ToolSelect)
}

// DeleteKey deletes the selected entity, or switches to the delete tool when nothing is selected.
func (c *Controller) DeleteKey() {
	if !c.Session.DeleteSelected() {
		c.Session.SetTool(placement.ToolDelete)
	}
}

// OpenLimitPrompt asks for a new budget limit.
func (c *Controller) OpenLimitPrompt() {
	c.Dialogs.OpenPrompt("Límite de presupuesto (€)", plain(c.Budget.Limit()), c.SetBudget)
}

// OpenCostEditor asks for every module's unit cost.
func (c *Controller) OpenCostEditor() {
	c.Dialogs.OpenCostEditor("Editar costes (€)", c.Catalog.Snapshot(), plain, c.EditCosts)
}

// Selection describes the selected entity for the inspector.
type Selection struct {
	Name     string
	Position [3]float64
	Rotation float64
	Cost     string
}

// Selection returns the inspector data of the selected entity.
func (c *Controller) Selection() (Selection, bool) {
	e, ok := c.Session.Selected()
	if !ok {
		return Selection{}, false
	}
	def, _ := c.Catalog.Get(e.ModuleID)
	p := e.Position()
	return Selection{
		Name:     def.Name,
		Position: [3]float64{p.X, p.Y, p.Z},
		Rotation: e.RotationY(),
		Cost:     c.Format.Cost(def.UnitCost),
	}, true
}

// ExportCaption is the footer text of an exported snapshot. It avoids the euro sign, which the
// caption font cannot draw.
func (c *Controller) ExportCaption() string {
	s := c.Budget.State()
	return fmt.Sprintf("Efimeros 3D - %d modulos - total %s EUR / limite %s EUR",
		len(c.Session.Entities()), plain(s.Total), plain(s.Limit))
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
