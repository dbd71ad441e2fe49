// Package hittest turns a 2D pointer position into a world ray and resolves what it points at:
// the floor, or the nearest placed shape group. A miss is a normal outcome reported as ok=false;
// nothing here panics on degenerate input.
package hittest

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-12

// NDC is a pointer position in normalized device coordinates: x and y in [-1,1], +y up.
type NDC struct {
	X, Y float64
}

// NormalizePointer maps a pixel position on a width×height canvas (origin top-left, +y down) to
// NDC. Positions outside the canvas, and empty canvases, give ok=false.
func NormalizePointer(px, py, width, height float64) (NDC, bool) {
	if !(width > 0) || !(height > 0) {
		return NDC{}, false
	}
	if !(px >= 0 && px <= width && py >= 0 && py <= height) {
		return NDC{}, false
	}
	return NDC{X: px/width*2 - 1, Y: -(py/height)*2 + 1}, true
}

func (p NDC) valid() bool {
	return p.X >= -1 && p.X <= 1 && p.Y >= -1 && p.Y <= 1
}

// Ray is a half-line; Dir is unit length.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// Camera is a perspective camera. FovY is the vertical field of view in degrees; Aspect is
// width/height of the canvas.
type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec
	FovY     float64
	Aspect   float64
	Near     float64
	Far      float64
}

// Ray casts from the camera position through p. Degenerate cameras (zero view direction, up
// parallel to the view, bad fov/aspect/clip planes, singular projection) give ok=false.
func (c Camera) Ray(p NDC) (Ray, bool) {
	if !p.valid() {
		return Ray{}, false
	}
	inv, ok := c.inverseViewProjection()
	if !ok {
		return Ray{}, false
	}
	near, ok := unproject(inv, p.X, p.Y, -1)
	if !ok {
		return Ray{}, false
	}
	far, ok := unproject(inv, p.X, p.Y, 1)
	if !ok {
		return Ray{}, false
	}
	dir := r3.Sub(far, near)
	n := r3.Norm(dir)
	if !(n > eps) || math.IsInf(n, 0) {
		return Ray{}, false
	}
	return Ray{Origin: c.Position, Dir: r3.Scale(1/n, dir)}, true
}

func (c Camera) valid() bool {
	return c.FovY > 0 && c.FovY < 180 &&
		c.Aspect > 0 && !math.IsInf(c.Aspect, 0) &&
		c.Near > 0 && c.Far > c.Near && !math.IsInf(c.Far, 0)
}

// view builds a right-handed look-at matrix (camera looks down its -Z).
func (c Camera) view() (*mat.Dense, bool) {
	f := r3.Sub(c.Target, c.Position)
	if !(r3.Norm(f) > eps) {
		return nil, false
	}
	f = r3.Unit(f)
	s := r3.Cross(f, c.Up)
	if !(r3.Norm(s) > eps) {
		return nil, false
	}
	s = r3.Unit(s)
	u := r3.Cross(s, f)
	return mat.NewDense(4, 4, []float64{
		s.X, s.Y, s.Z, -r3.Dot(s, c.Position),
		u.X, u.Y, u.Z, -r3.Dot(u, c.Position),
		-f.X, -f.Y, -f.Z, r3.Dot(f, c.Position),
		0, 0, 0, 1,
	}), true
}

func (c Camera) projection() *mat.Dense {
	f := 1 / math.Tan(c.FovY*math.Pi/360)
	nf := c.Near - c.Far
	return mat.NewDense(4, 4, []float64{
		f / c.Aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (c.Far + c.Near) / nf, 2 * c.Far * c.Near / nf,
		0, 0, -1, 0,
	})
}

func (c Camera) inverseViewProjection() (*mat.Dense, bool) {
	if !c.valid() {
		return nil, false
	}
	view, ok := c.view()
	if !ok {
		return nil, false
	}
	var vp, inv mat.Dense
	vp.Mul(c.projection(), view)
	if err := inv.Inverse(&vp); err != nil {
		// Ill-conditioned but invertible is fine; only an exactly singular matrix is a miss.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, false
		}
	}
	return &inv, true
}

func unproject(inv *mat.Dense, x, y, z float64) (r3.Vec, bool) {
	var out mat.VecDense
	out.MulVec(inv, mat.NewVecDense(4, []float64{x, y, z, 1}))
	w := out.AtVec(3)
	if math.Abs(w) < eps {
		return r3.Vec{}, false
	}
	return r3.Vec{X: out.AtVec(0) / w, Y: out.AtVec(1) / w, Z: out.AtVec(2) / w}, true
}
