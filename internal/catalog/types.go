package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownModule is returned when an id does not name a catalog entry.
	ErrUnknownModule = errors.New("unknown module")
	// ErrInvalidDefinition is returned by Validate and by catalog loading.
	ErrInvalidDefinition = errors.New("invalid module definition")
	// ErrInvalidCost is returned by SetCost for negative or non-finite costs.
	ErrInvalidCost = errors.New("invalid cost")
)

// ShapeKind selects which composite the geometry builder produces for a module.
type ShapeKind int

const (
	Box ShapeKind = iota
	Cylinder
	Cone
	Balloon
	Sofa
)

var kindNames = [...]string{"box", "cylinder", "cone", "balloon", "sofa"}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "ShapeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseShapeKind maps the catalog file spelling ("box", "sofa", ...) to a ShapeKind. Case-insensitive.
func ParseShapeKind(s string) (ShapeKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if s == name {
			return ShapeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

func (k ShapeKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *ShapeKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseShapeKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Color is a 24-bit RGB value, 0xRRGGBB.
type Color uint32

// RGB splits the color into its 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// ParseColor accepts "#RRGGBB", "0xRRGGBB" or "RRGGBB".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x"), "0X")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Color(v), nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML takes either a hex string or a plain integer (e.g. 0x3b82f6 unquoted).
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var n uint32
	if value.ShortTag() == "!!int" {
		if err := value.Decode(&n); err != nil {
			return err
		}
		*c = Color(n & 0xffffff)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Dimensions is the shape-specific size record, in meters. Which fields are read depends on the
// kind: Box uses Width/Height/Depth, Cylinder and Cone use Radius/Height, Balloon uses
// Radius/StringHeight, Sofa uses Width/Height (seat)/Depth/BackHeight.
type Dimensions struct {
	Width        float64 `yaml:"width,omitempty"`
	Height       float64 `yaml:"height,omitempty"`
	Depth        float64 `yaml:"depth,omitempty"`
	Radius       float64 `yaml:"radius,omitempty"`
	StringHeight float64 `yaml:"string_height,omitempty"`
	BackHeight   float64 `yaml:"back_height,omitempty"`
}

// ModuleDefinition is one placeable catalog entry.
type ModuleDefinition struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	UnitCost    float64    `yaml:"cost"`
	Kind        ShapeKind  `yaml:"type"`
	Dimensions  Dimensions `yaml:"size"`
	Color       Color      `yaml:"color"`
	Description string     `yaml:"description,omitempty"`
}

// Validate checks the id, the cost, and that every dimension the kind reads is positive.
func (d ModuleDefinition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	if !validCost(d.UnitCost) {
		return fmt.Errorf("%w: %s: cost %v", ErrInvalidDefinition, d.ID, d.UnitCost)
	}
	dim := d.Dimensions
	var required map[string]float64
	switch d.Kind {
	case Box:
		required = map[string]float64{"width": dim.Width, "height": dim.Height, "depth": dim.Depth}
	case Cylinder, Cone:
		required = map[string]float64{"radius": dim.Radius, "height": dim.Height}
	case Balloon:
		required = map[string]float64{"radius": dim.Radius, "string_height": dim.StringHeight}
	case Sofa:
		required = map[string]float64{"width": dim.Width, "height": dim.Height, "depth": dim.Depth, "back_height": dim.BackHeight}
	default:
		return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.ID, d.Kind)
	}
	for name, v := range required {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s: %s must be positive, got %v", ErrInvalidDefinition, d.ID, name, v)
		}
	}
	return nil
}

func validCost(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
