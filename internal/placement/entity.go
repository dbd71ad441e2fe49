package placement

import (
	"floorplanner/internal/geometry"

	"gonum.org/v1/gonum/spatial/r3"
)

// PlacedEntity is one committed instance of a module on the floor. It stores the catalog id,
// never a cost, so price edits apply to it retroactively.
type PlacedEntity struct {
	ID       string
	ModuleID string
	shape    *geometry.ShapeGroup
}

// Shape returns the entity's shape group. The session owns it; callers should treat it as
// read-only.
func (e *PlacedEntity) Shape() *geometry.ShapeGroup { return e.shape }

// Position is the group root position.
func (e *PlacedEntity) Position() r3.Vec { return e.shape.Position }

// RotationY is the yaw in degrees, in [0,360).
func (e *PlacedEntity) RotationY() float64 { return e.shape.RotationY }
