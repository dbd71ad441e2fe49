package geometry

import (
	"math"

	"floorplanner/internal/catalog"

	"github.com/jinzhu/copier"
	"gonum.org/v1/gonum/spatial/r3"
)

// PartKind is the primitive a single part is drawn and hit-tested as.
type PartKind int

const (
	PartBox PartKind = iota
	PartCylinder
	PartCone // apex up, base at -Height/2
	PartSphere
)

func (k PartKind) String() string {
	switch k {
	case PartBox:
		return "box"
	case PartCylinder:
		return "cylinder"
	case PartCone:
		return "cone"
	case PartSphere:
		return "sphere"
	}
	return "unknown"
}

// HighlightEmissive is the emissive tint applied to every part of the selected entity.
const HighlightEmissive catalog.Color = 0x444444

// Material is the surface state the renderer reads each frame.
type Material struct {
	Color    catalog.Color
	Opacity  float64 // 1 = opaque
	Emissive catalog.Color
}

// Part is one primitive of a shape group. Size holds full extents: for a box (width, height,
// depth); for cylinders and cones (2r, height, 2r); for spheres (2r, 2r, 2r).
// Offset is the part center relative to the group origin, before the group rotation.
type Part struct {
	Name     string
	Kind     PartKind
	Size     r3.Vec
	Offset   r3.Vec
	Material Material
}

// Radius is half the X extent; meaningful for cylinders, cones and spheres.
func (p Part) Radius() float64 { return p.Size.X / 2 }

// Height is the Y extent.
func (p Part) Height() float64 { return p.Size.Y }

// ShapeGroup is a renderable composite. The group root carries the only transform: Position and
// a yaw (RotationY, degrees in [0,360)) applied to every part at once.
type ShapeGroup struct {
	ModuleID  string
	Kind      catalog.ShapeKind
	Position  r3.Vec
	RotationY float64
	Parts     []Part
}

// Clone returns a deep copy; parts are not shared with g.
func (g *ShapeGroup) Clone() *ShapeGroup {
	out := &ShapeGroup{}
	if err := copier.CopyWithOption(out, g, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds; fall back to a manual copy.
		*out = *g
		out.Parts = append([]Part(nil), g.Parts...)
	}
	return out
}

// SetRotation sets the yaw in degrees, normalized to [0,360).
func (g *ShapeGroup) SetRotation(deg float64) {
	g.RotationY = NormalizeDegrees(deg)
}

// Rotate adds step degrees to the yaw.
func (g *ShapeGroup) Rotate(step float64) {
	g.SetRotation(g.RotationY + step)
}

// SetOpacity sets the opacity of every part's material.
func (g *ShapeGroup) SetOpacity(a float64) {
	for i := range g.Parts {
		g.Parts[i].Material.Opacity = a
	}
}

// SetHighlight toggles the selection tint on every part.
func (g *ShapeGroup) SetHighlight(on bool) {
	var e catalog.Color
	if on {
		e = HighlightEmissive
	}
	for i := range g.Parts {
		g.Parts[i].Material.Emissive = e
	}
}

// Highlighted reports whether any part carries the selection tint.
func (g *ShapeGroup) Highlighted() bool {
	for _, p := range g.Parts {
		if p.Material.Emissive != 0 {
			return true
		}
	}
	return false
}

// Yaw returns the group rotation about +Y as a quaternion rotation.
func (g *ShapeGroup) Yaw() r3.Rotation {
	return r3.NewRotation(g.RotationY*math.Pi/180, r3.Vec{Y: 1})
}

// PartCenter returns the world-space center of part i.
func (g *ShapeGroup) PartCenter(i int) r3.Vec {
	return r3.Add(g.Position, g.Yaw().Rotate(g.Parts[i].Offset))
}

// NormalizeDegrees wraps deg into [0,360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
