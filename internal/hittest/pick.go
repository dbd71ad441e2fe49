package hittest

import (
	"math"

	"floorplanner/internal/geometry"

	"gonum.org/v1/gonum/spatial/r3"
)

// Target is anything backed by a shape group, e.g. a placed entity.
type Target interface {
	Shape() *geometry.ShapeGroup
}

// Hit records the nearest intersection: which group, which of its parts, and how far along the
// ray.
type Hit struct {
	Group    int
	Part     int
	Distance float64
	Point    r3.Vec
}

// Intersect tests r against every part of every group and returns the closest hit. Groups are
// scanned in order and a later group must be strictly closer to win, so exact ties go to the
// earliest group.
func Intersect(r Ray, groups []*geometry.ShapeGroup) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	found := false
	for gi, g := range groups {
		if g == nil {
			continue
		}
		for pi := range g.Parts {
			t, ok := intersectPart(r, g, pi)
			if !ok || !(t < best.Distance) {
				continue
			}
			best = Hit{Group: gi, Part: pi, Distance: t, Point: r.At(t)}
			found = true
		}
	}
	return best, found
}

// ResolveEntity casts a ray through p and returns the target owning the nearest part under the
// pointer. A hit on any part of a composite resolves to the whole target.
func ResolveEntity[T Target](p NDC, cam Camera, targets []T) (T, bool) {
	var zero T
	r, ok := cam.Ray(p)
	if !ok {
		return zero, false
	}
	groups := make([]*geometry.ShapeGroup, len(targets))
	for i, t := range targets {
		groups[i] = t.Shape()
	}
	hit, ok := Intersect(r, groups)
	if !ok {
		return zero, false
	}
	return targets[hit.Group], true
}

// intersectPart moves the ray into the part's local frame (part center at the origin, axes
// aligned with the part) and runs the analytic test for its kind. Rotation and translation are
// rigid, so the local distance equals the world distance.
func intersectPart(r Ray, g *geometry.ShapeGroup, i int) (float64, bool) {
	p := g.Parts[i]
	undo := r3.NewRotation(-g.RotationY*math.Pi/180, r3.Vec{Y: 1})
	local := Ray{
		Origin: undo.Rotate(r3.Sub(r.Origin, g.PartCenter(i))),
		Dir:    undo.Rotate(r.Dir),
	}
	half := r3.Scale(0.5, p.Size)
	switch p.Kind {
	case geometry.PartBox:
		return intersectBox(local, half)
	case geometry.PartCylinder:
		return intersectCylinder(local, half.X, half.Y)
	case geometry.PartCone:
		return intersectCone(local, half.X, p.Size.Y)
	case geometry.PartSphere:
		return intersectSphere(local, half.X)
	}
	return 0, false
}

// intersectBox is the slab test for an axis-aligned box centered at the origin.
func intersectBox(r Ray, half r3.Vec) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	h := [3]float64{half.X, half.Y, half.Z}
	for a := 0; a < 3; a++ {
		if math.Abs(d[a]) < eps {
			if o[a] < -h[a] || o[a] > h[a] {
				return 0, false
			}
			continue
		}
		t1 := (-h[a] - o[a]) / d[a]
		t2 := (h[a] - o[a]) / d[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return nearest(tmin, tmax)
}

// intersectCylinder tests a Y-axis cylinder of the given radius spanning y in [-halfH, halfH].
func intersectCylinder(r Ray, radius, halfH float64) (float64, bool) {
	best := math.Inf(1)
	o, d := r.Origin, r.Dir
	a := d.X*d.X + d.Z*d.Z
	b := 2 * (o.X*d.X + o.Z*d.Z)
	c := o.X*o.X + o.Z*o.Z - radius*radius
	for _, t := range quadratic(a, b, c) {
		if t >= 0 && math.Abs(o.Y+t*d.Y) <= halfH {
			best = math.Min(best, t)
		}
	}
	for _, y := range [2]float64{-halfH, halfH} {
		if t, ok := capHit(r, y, radius); ok {
			best = math.Min(best, t)
		}
	}
	return best, !math.IsInf(best, 1)
}

// intersectCone tests an upright cone with its base (radius) at y = -height/2 and its apex at
// y = +height/2.
func intersectCone(r Ray, radius, height float64) (float64, bool) {
	best := math.Inf(1)
	o, d := r.Origin, r.Dir
	halfH := height / 2
	k := radius / height
	k2 := k * k
	// s measures distance below the apex: s = halfH - y, radius(s) = k·s.
	os, ds := halfH-o.Y, -d.Y
	a := d.X*d.X + d.Z*d.Z - k2*ds*ds
	b := 2 * (o.X*d.X + o.Z*d.Z - k2*os*ds)
	c := o.X*o.X + o.Z*o.Z - k2*os*os
	for _, t := range quadratic(a, b, c) {
		if t < 0 {
			continue
		}
		if s := os + t*ds; s >= 0 && s <= height {
			best = math.Min(best, t)
		}
	}
	if t, ok := capHit(r, -halfH, radius); ok {
		best = math.Min(best, t)
	}
	return best, !math.IsInf(best, 1)
}

// intersectSphere tests a sphere centered at the origin.
func intersectSphere(r Ray, radius float64) (float64, bool) {
	o, d := r.Origin, r.Dir
	roots := quadratic(r3.Dot(d, d), 2*r3.Dot(o, d), r3.Dot(o, o)-radius*radius)
	switch len(roots) {
	case 0:
		return 0, false
	case 1:
		if roots[0] >= 0 {
			return roots[0], true
		}
		return 0, false
	}
	return nearest(roots[0], roots[1])
}

// capHit intersects the horizontal disk at height y with the given radius.
func capHit(r Ray, y, radius float64) (float64, bool) {
	if math.Abs(r.Dir.Y) < eps {
		return 0, false
	}
	t := (y - r.Origin.Y) / r.Dir.Y
	if t < 0 {
		return 0, false
	}
	x := r.Origin.X + t*r.Dir.X
	z := r.Origin.Z + t*r.Dir.Z
	if x*x+z*z > radius*radius {
		return 0, false
	}
	return t, true
}

// quadratic returns the real roots of a·t² + b·t + c in ascending order. A vanishing a falls
// back to the linear solution.
func quadratic(a, b, c float64) []float64 {
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		// Grazing rays (e.g. straight down a cone axis) land a rounding error below zero.
		if disc < -1e-9*(b*b+math.Abs(4*a*c)) {
			return nil
		}
		disc = 0
	}
	sq := math.Sqrt(disc)
	t1, t2 := (-b-sq)/(2*a), (-b+sq)/(2*a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return []float64{t1, t2}
}

// nearest picks the entry distance of an interval [t0, t1], or the exit when the origin is
// inside. An interval entirely behind the origin is a miss.
func nearest(t0, t1 float64) (float64, bool) {
	if t1 < 0 {
		return 0, false
	}
	if t0 >= 0 {
		return t0, true
	}
	return t1, true
}
