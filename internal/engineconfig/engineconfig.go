package engineconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// ConfigPath is the planner config file, relative to the process working directory.
const ConfigPath = "config/planner.json"

// EnvPrefix is prepended to every env tag, e.g. PLANNER_BUDGET_LIMIT.
const EnvPrefix = "PLANNER_"

// Prefs holds planner preferences. Persisted across runs; placed entities are never saved here.
type Prefs struct {
	BudgetLimit  float64 `json:"budget_limit" env:"BUDGET_LIMIT"`
	FloorWidth   float64 `json:"floor_width" env:"FLOOR_WIDTH"` // X extent in meters
	FloorDepth   float64 `json:"floor_depth" env:"FLOOR_DEPTH"` // Z extent in meters
	CellSize     float64 `json:"cell_size" env:"CELL_SIZE"`
	GridVisible  bool    `json:"grid_visible" env:"GRID_VISIBLE"`
	ShowFPS      bool    `json:"show_fps" env:"SHOW_FPS"`
	CatalogPath  string  `json:"catalog_path,omitempty" env:"CATALOG_PATH"`
	Locale       string  `json:"locale" env:"LOCALE"`
	ExportDir    string  `json:"export_dir" env:"EXPORT_DIR"`
	ExportScale  float64 `json:"export_scale" env:"EXPORT_SCALE"`
	LogPath      string  `json:"log_path" env:"LOG_PATH"`
	Font         string  `json:"font,omitempty" env:"FONT"` // family or file name under FontDir; empty = raylib default
	FontDir      string  `json:"font_dir" env:"FONT_DIR"`
	WindowWidth  int     `json:"window_width" env:"WINDOW_WIDTH"`
	WindowHeight int     `json:"window_height" env:"WINDOW_HEIGHT"`
}

// Default returns the preferences of a fresh install: a 30×60 m floor on a 0.5 m grid and a
// 20000 € budget.
func Default() Prefs {
	return Prefs{
		BudgetLimit:  20000,
		FloorWidth:   30,
		FloorDepth:   60,
		CellSize:     0.5,
		GridVisible:  true,
		ShowFPS:      false,
		Locale:       "es",
		ExportDir:    ".",
		ExportScale:  2,
		LogPath:      "logs/planner.txt",
		FontDir:      "assets/fonts",
		WindowWidth:  1280,
		WindowHeight: 720,
	}
}

// Validate rejects values the planner cannot run with.
func (p Prefs) Validate() error {
	var errs []error
	if p.BudgetLimit < 0 {
		errs = append(errs, fmt.Errorf("budget_limit must not be negative, got %v", p.BudgetLimit))
	}
	if p.FloorWidth <= 0 || p.FloorDepth <= 0 {
		errs = append(errs, fmt.Errorf("floor must have a positive size, got %vx%v", p.FloorWidth, p.FloorDepth))
	}
	if p.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell_size must be positive, got %v", p.CellSize))
	}
	if p.ExportScale < 1 {
		errs = append(errs, fmt.Errorf("export_scale must be at least 1, got %v", p.ExportScale))
	}
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("window must have a positive size, got %dx%d", p.WindowWidth, p.WindowHeight))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	return nil
}

// Load reads preferences from path on top of Default(), so keys missing from the file keep their
// defaults. A missing file is not an error. An unreadable or invalid file returns Default() and
// the error, so the caller can log it and carry on.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("engineconfig: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating its directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PLANNER_* variables in environ. A nil environ reads the process
// environment. Unset variables leave fields alone.
func ApplyEnv(p *Prefs, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(p, opts); err != nil {
		return fmt.Errorf("engineconfig: parse env: %w", err)
	}
	return nil
}

// Resolve is the startup sequence: .env file, then the JSON config, then PLANNER_* overrides,
// then validation. Non-fatal problems (a broken config file) come back as warnings alongside
// usable prefs; a non-nil error means the result must not be used.
func Resolve(dotenvPath, configPath string) (p Prefs, warnings []error, err error) {
	if err := LoadDotEnv(dotenvPath); err != nil {
		warnings = append(warnings, err)
	}
	p, err = Load(configPath)
	if err != nil {
		warnings = append(warnings, err)
	}
	if err := ApplyEnv(&p, nil); err != nil {
		return Default(), warnings, err
	}
	if err := p.Validate(); err != nil {
		return Default(), warnings, err
	}
	return p, warnings, nil
}
