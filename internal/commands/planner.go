package commands

import (
	"errors"
	"fmt"
	"strings"
)

// Planner is what the console can drive. The app implements it on top of the placement session,
// budget tracker, exporter and HUD.
type Planner interface {
	ChooseModule(id string) error
	EditCost(id, value string) error
	SetBudget(value string) error
	SetTool(name string) error
	Rotate()
	Cancel()
	RequestClearAll()
	Export(scale float64) error
	CatalogLines() []string
	ShowFPS(show bool)
	ShowGrid(show bool)
}

// RegisterPlanner registers the planner subcommands on reg. out receives command output lines.
func RegisterPlanner(reg *Registry, p Planner, out func(string)) {
	reg.Register("place", "cmd place <module-id>", nil, func() error {
		id, err := oneArg(reg, "place")
		if err != nil {
			return err
		}
		return p.ChooseModule(id)
	})

	reg.Register("cost", "cmd cost <module-id> <value>", nil, func() error {
		args := reg.cmds["cost"].FlagSet.Args()
		if len(args) != 2 {
			return errors.New("cost: want <module-id> <value>")
		}
		return p.EditCost(args[0], args[1])
	})

	reg.Register("budget", "cmd budget <value>", nil, func() error {
		v, err := oneArg(reg, "budget")
		if err != nil {
			return err
		}
		return p.SetBudget(v)
	})

	reg.Register("tool", "cmd tool select|edit|delete|none", nil, func() error {
		name, err := oneArg(reg, "tool")
		if err != nil {
			return err
		}
		return p.SetTool(name)
	})

	reg.Register("rotate", "cmd rotate", nil, func() error {
		p.Rotate()
		return nil
	})

	reg.Register("cancel", "cmd cancel", nil, func() error {
		p.Cancel()
		return nil
	})

	reg.Register("clear", "cmd clear", nil, func() error {
		p.RequestClearAll()
		return nil
	})

	exportFS := NewFlagSet("export")
	scale := exportFS.Float64("scale", 0, "resize factor (0 = configured default)")
	reg.Register("export", "cmd export [--scale N]", exportFS, func() error {
		return p.Export(*scale)
	})

	reg.Register("catalog", "cmd catalog", nil, func() error {
		for _, line := range p.CatalogLines() {
			out(line)
		}
		return nil
	})

	fpsFS := NewFlagSet("fps")
	fpsShow := fpsFS.Bool("show", false, "show the FPS overlay")
	fpsHide := fpsFS.Bool("hide", false, "hide the FPS overlay")
	reg.Register("fps", "cmd fps --show|--hide", fpsFS, func() error {
		show, err := toggle(*fpsShow, *fpsHide)
		if err != nil {
			return fmt.Errorf("fps: %w", err)
		}
		p.ShowFPS(show)
		return nil
	})

	gridFS := NewFlagSet("grid")
	gridShow := gridFS.Bool("show", false, "show the floor grid")
	gridHide := gridFS.Bool("hide", false, "hide the floor grid")
	reg.Register("grid", "cmd grid --show|--hide", gridFS, func() error {
		show, err := toggle(*gridShow, *gridHide)
		if err != nil {
			return fmt.Errorf("grid: %w", err)
		}
		p.ShowGrid(show)
		return nil
	})

	reg.Register("help", "cmd help", nil, func() error {
		for _, name := range reg.Names() {
			u, _ := reg.Usage(name)
			out(u)
		}
		return nil
	})
}

func oneArg(reg *Registry, name string) (string, error) {
	args := reg.cmds[name].FlagSet.Args()
	if len(args) != 1 {
		u, _ := reg.Usage(name)
		return "", fmt.Errorf("%s: want one argument (usage: %s)", name, u)
	}
	return strings.TrimSpace(args[0]), nil
}

func toggle(show, hide bool) (bool, error) {
	if show == hide {
		return false, errors.New("pass exactly one of --show or --hide")
	}
	return show, nil
}
