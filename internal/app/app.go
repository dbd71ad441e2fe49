// Package app wires the planner together and runs it in a raylib window.
package app

import (
	"errors"

	"floorplanner/internal/budget"
	"floorplanner/internal/catalog"
	"floorplanner/internal/commands"
	"floorplanner/internal/control"
	"floorplanner/internal/engineconfig"
	"floorplanner/internal/export"
	"floorplanner/internal/fonts"
	"floorplanner/internal/graphics"
	"floorplanner/internal/hud"
	"floorplanner/internal/logger"
	"floorplanner/internal/render"
	"floorplanner/internal/scene"
	"floorplanner/internal/terminal"
	"floorplanner/internal/ui"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	title        = "Efímeros 3D - Planificador"
	fontBaseSize = 32
)

// App is one planner window.
type App struct {
	prefs      engineconfig.Prefs
	configPath string
	log        *logger.Logger
	ctl        *control.Controller
	scene      *scene.Scene
	ui         *ui.Engine
	panels     *ui.Panels
	term       *terminal.Terminal
	hud        *hud.HUD
	exporter   *export.Exporter

	// exportScale > 0 requests a capture at the end of the next scene draw.
	exportScale float64
}

// New builds the planner from prefs over cat. Display toggles and the budget limit are written
// back to configPath when they change.
func New(prefs engineconfig.Prefs, configPath string, cat *catalog.Catalog, log *logger.Logger) *App {
	a := &App{
		prefs:      prefs,
		configPath: configPath,
		log:        log,
		ui:         ui.New(),
		hud:        hud.New(ui.SidebarWidth),
		exporter:   export.New(prefs.ExportDir, log),
	}
	a.scene = scene.New(prefs.FloorWidth, prefs.FloorDepth, prefs.CellSize, render.NewRegistry())
	a.scene.SetGridVisible(prefs.GridVisible)
	a.hud.SetShowFPS(prefs.ShowFPS)

	a.ctl = control.New(control.Config{
		Catalog:  cat,
		Limit:    prefs.BudgetLimit,
		Locale:   prefs.Locale,
		CellSize: prefs.CellSize,
		Scene:    a.scene,
		Viewport: a.scene,
		Log:      log,
		Hooks: control.Hooks{
			Export:   a.requestExport,
			ShowFPS:  a.showFPS,
			ShowGrid: a.showGrid,
		},
	})
	a.ctl.Budget.OnChange(func(s budget.State) {
		if s.Limit != a.prefs.BudgetLimit {
			a.prefs.BudgetLimit = s.Limit
			a.savePrefs()
		}
	})

	reg := commands.NewRegistry()
	commands.RegisterPlanner(reg, a.ctl, log.Log)
	a.term = terminal.New(log, reg)

	a.panels = ui.NewPanels(a.ctl.Cards, a.ctl.Dialogs, ui.Actions{
		ChooseModule: func(id string) { _ = a.ctl.ChooseModule(id) },
		SetTool:      a.ctl.Session.SetTool,
		EditCosts:    a.ctl.OpenCostEditor,
		EditLimit:    a.ctl.OpenLimitPrompt,
		ClearAll:     a.ctl.RequestClearAll,
		Export:       func() { _ = a.requestExport(0) },
	})
	return a
}

// Run opens the window and blocks until it is closed. A running export is allowed to finish.
func (a *App) Run() {
	graphics.Run(graphics.Window{
		Width:      int32(a.prefs.WindowWidth),
		Height:     int32(a.prefs.WindowHeight),
		Title:      title,
		Background: scene.Background,
	}, a.init, a.update, a.draw)
	a.exporter.Wait()
}

// init loads GPU resources once the window exists.
func (a *App) init() {
	if err := a.ui.LoadStylesheet(ui.DefaultStylesheet); err != nil {
		a.log.Log(err.Error())
	}
	if a.prefs.Font == "" {
		return
	}
	path, err := fonts.Find(a.prefs.FontDir, a.prefs.Font)
	if err != nil {
		a.log.Logf("font %q not found in %s: %v", a.prefs.Font, a.prefs.FontDir, err)
		return
	}
	font := rl.LoadFontEx(path, fontBaseSize, fonts.Codepoints(a.fontText()...))
	if font.Texture.ID == 0 {
		a.log.Logf("font %s could not be loaded", path)
		return
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	a.ui.SetFont(font)
	a.scene.SetFont(font)
	a.term.SetFont(font)
	a.hud.SetFont(font)
	a.log.Logf("font: %s", path)
}

// fontText is every string that may reach the screen outside ASCII, so the font atlas covers it.
func (a *App) fontText() []string {
	out := []string{title, "€°¿¡áéíóúÁÉÍÓÚñÑüÜ"}
	for _, d := range a.ctl.Catalog.Snapshot() {
		out = append(out, d.Name, d.Description)
	}
	return out
}

func (a *App) showFPS(show bool) {
	a.hud.SetShowFPS(show)
	a.prefs.ShowFPS = show
	a.savePrefs()
}

func (a *App) showGrid(show bool) {
	a.scene.SetGridVisible(show)
	a.prefs.GridVisible = show
	a.savePrefs()
}

func (a *App) savePrefs() {
	if err := engineconfig.Save(a.configPath, a.prefs); err != nil {
		a.log.Logf("prefs not saved: %v", err)
	}
}

func (a *App) requestExport(scale float64) error {
	if scale <= 0 {
		scale = a.prefs.ExportScale
	}
	if scale < 1 {
		return errors.New("export: scale must be at least 1")
	}
	a.exportScale = scale
	return nil
}

// capture grabs the frame drawn so far (the 3D view, before panels) and hands it to the exporter.
func (a *App) capture() {
	scale := a.exportScale
	a.exportScale = 0
	img := rl.LoadImageFromScreen()
	frame := img.ToImage()
	rl.UnloadImage(img)
	if err := a.exporter.Start(frame, scale, a.ctl.ExportCaption()); err != nil {
		a.log.Log(err.Error())
		return
	}
	a.log.Logf("export: capturing at %gx", scale)
}

func (a *App) draw() {
	a.scene.Draw()
	if a.exportScale > 0 {
		a.capture()
	}
	a.hud.Draw(a.ctl.Session.ModeLabel())

	st := ui.Status{
		Budget: a.ctl.Budget.State(),
		Format: a.ctl.Format,
		Tool:   a.ctl.Session.Tool(),
	}
	if sel, ok := a.ctl.Selection(); ok {
		st.Selection = &ui.Selection{Name: sel.Name, Position: sel.Position, Rotation: sel.Rotation, Cost: sel.Cost}
	}
	a.ui.SetNodes(a.panels.Build(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()), st))
	a.ui.Draw()
	a.term.Draw()
}
