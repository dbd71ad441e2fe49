package placement

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CellSize is the floor grid spacing in meters.
const CellSize = 0.5

// Snap rounds v to the nearest multiple of cell. Halves round away from zero. A non-positive
// cell leaves v unchanged.
func Snap(v, cell float64) float64 {
	if cell <= 0 {
		return v
	}
	return math.Round(v/cell) * cell
}

// SnapXZ snaps the horizontal components of p and leaves Y alone.
func SnapXZ(p r3.Vec, cell float64) r3.Vec {
	return r3.Vec{X: Snap(p.X, cell), Y: p.Y, Z: Snap(p.Z, cell)}
}
