package scene

import (
	"strconv"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	rotateSpeed = 0.005 // radians per pixel
	panSpeed    = 0.0015
	zoomStep    = 0.1
	minPitch    = 0.05
	maxPitch    = 1.5
	minDistance = 5
	maxDistance = 250
)

// Orbit is a camera on a sphere around Target: Yaw about +Y from +Z, Pitch above the floor.
type Orbit struct {
	Target   rl.Vector3
	Yaw      float32
	Pitch    float32
	Distance float32
}

// NewOrbit returns an orbit that puts the camera at position looking at target.
func NewOrbit(position, target rl.Vector3) Orbit {
	dx, dy, dz := position.X-target.X, position.Y-target.Y, position.Z-target.Z
	dist := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	o := Orbit{Target: target, Distance: dist}
	if dist > 0 {
		o.Yaw = math32.Atan2(dx, dz)
		o.Pitch = math32.Asin(dy / dist)
	}
	o.clamp()
	return o
}

// Position is the camera position implied by the orbit.
func (o Orbit) Position() rl.Vector3 {
	cp := math32.Cos(o.Pitch)
	return rl.NewVector3(
		o.Target.X+o.Distance*cp*math32.Sin(o.Yaw),
		o.Target.Y+o.Distance*math32.Sin(o.Pitch),
		o.Target.Z+o.Distance*cp*math32.Cos(o.Yaw),
	)
}

// Rotate turns the orbit by a pointer drag of (dx, dy) pixels.
func (o *Orbit) Rotate(dx, dy float32) {
	o.Yaw -= dx * rotateSpeed
	o.Pitch += dy * rotateSpeed
	o.clamp()
}

// Pan slides the target across the floor by a pointer drag, scaled by distance so the floor
// follows the pointer at any zoom.
func (o *Orbit) Pan(dx, dy float32) {
	k := o.Distance * panSpeed
	sy, cy := math32.Sin(o.Yaw), math32.Cos(o.Yaw)
	// Screen right on the floor is (cos yaw, 0, -sin yaw); screen up is away from the camera.
	o.Target.X += (-dx*cy - dy*sy) * k
	o.Target.Z += (dx*sy - dy*cy) * k
}

// Zoom moves toward the target for positive wheel steps.
func (o *Orbit) Zoom(wheel float32) {
	o.Distance *= 1 - wheel*zoomStep
	o.clamp()
}

func (o *Orbit) clamp() {
	o.Pitch = math32.Max(minPitch, math32.Min(maxPitch, o.Pitch))
	o.Distance = math32.Max(minDistance, math32.Min(maxDistance, o.Distance))
}

func vec(v rl.Vector3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func formatMeters(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32) + "m"
}
