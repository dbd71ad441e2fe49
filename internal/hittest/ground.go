package hittest

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// GroundPlane is the horizontal floor y = Height. HalfX and HalfZ bound it around the origin
// (a 30×60 floor has HalfX 15, HalfZ 30); a zero half extent leaves that axis unbounded.
type GroundPlane struct {
	Height float64
	HalfX  float64
	HalfZ  float64
}

// Contains reports whether (x, z) lies on the bounded part of the plane. Edges count.
func (g GroundPlane) Contains(x, z float64) bool {
	if g.HalfX > 0 && math.Abs(x) > g.HalfX {
		return false
	}
	if g.HalfZ > 0 && math.Abs(z) > g.HalfZ {
		return false
	}
	return true
}

// Intersect returns where r crosses the plane. Rays parallel to it, pointing away from it, or
// landing outside its bounds miss.
func (g GroundPlane) Intersect(r Ray) (r3.Vec, bool) {
	if math.Abs(r.Dir.Y) < eps {
		return r3.Vec{}, false
	}
	t := (g.Height - r.Origin.Y) / r.Dir.Y
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return r3.Vec{}, false
	}
	pt := r.At(t)
	pt.Y = g.Height
	if !g.Contains(pt.X, pt.Z) {
		return r3.Vec{}, false
	}
	return pt, true
}

// ResolveGround casts a ray through p and returns the floor point under the pointer.
func ResolveGround(p NDC, cam Camera, ground GroundPlane) (r3.Vec, bool) {
	r, ok := cam.Ray(p)
	if !ok {
		return r3.Vec{}, false
	}
	return ground.Intersect(r)
}
