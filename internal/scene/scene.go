package scene

import (
	"floorplanner/internal/geometry"
	"floorplanner/internal/hittest"
	"floorplanner/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// Raylib's default clip planes; the hit-test camera must match the drawn projection.
	nearPlane = 0.01
	farPlane  = 1000
	fovY      = 75

	labelFontSize = 24
)

var (
	floorColor = rl.NewColor(0x1e, 0x29, 0x3b, 26)
	gridColor  = rl.NewColor(0x1e, 0x29, 0x3b, 255)
	labelColor = rl.NewColor(0x64, 0x74, 0x8b, 255)
	// Background is the clear color behind the floor.
	Background = rl.NewColor(0x0f, 0x17, 0x2a, 255)
)

// Scene holds the orbit camera, the floor and the shape groups attached by the placement
// session. Update runs camera controls; Draw renders between BeginMode3D and EndMode3D.
type Scene struct {
	cam         rl.Camera3D
	orbit       Orbit
	floorWidth  float32
	floorDepth  float32
	cellSize    float32
	GridVisible bool
	groups      map[string]*geometry.ShapeGroup
	renderer    *render.Registry
	font        rl.Font // optional; when set, labels use DrawTextEx
}

// New returns a scene with a width×depth floor (meters, X by Z) and the camera at (40,40,40)
// looking at the origin. Grid is visible by default.
func New(width, depth, cell float64, renderer *render.Registry) *Scene {
	s := &Scene{
		orbit:       NewOrbit(rl.NewVector3(40, 40, 40), rl.NewVector3(0, 0, 0)),
		floorWidth:  float32(width),
		floorDepth:  float32(depth),
		cellSize:    float32(cell),
		GridVisible: true,
		groups:      make(map[string]*geometry.ShapeGroup),
		renderer:    renderer,
	}
	s.cam.Up = rl.NewVector3(0, 1, 0)
	s.cam.Fovy = fovY
	s.cam.Projection = rl.CameraPerspective
	s.syncCamera()
	return s
}

// SetFont sets the font used for the floor labels. Zero texture ID = use raylib default.
func (s *Scene) SetFont(font rl.Font) {
	s.font = font
}

// SetGridVisible sets whether the floor grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Attach adds or replaces the group drawn under key.
func (s *Scene) Attach(key string, g *geometry.ShapeGroup) {
	s.groups[key] = g
}

// Detach removes the group drawn under key.
func (s *Scene) Detach(key string) {
	delete(s.groups, key)
}

// Len is the number of attached groups.
func (s *Scene) Len() int {
	return len(s.groups)
}

// RaylibCamera returns the camera used for drawing.
func (s *Scene) RaylibCamera() rl.Camera3D {
	return s.cam
}

// Camera returns the drawing camera in hit-test form, with the aspect of the current screen.
func (s *Scene) Camera() hittest.Camera {
	w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	aspect := 0.0
	if h > 0 {
		aspect = w / h
	}
	return hittest.Camera{
		Position: vec(s.cam.Position),
		Target:   vec(s.cam.Target),
		Up:       vec(s.cam.Up),
		FovY:     float64(s.cam.Fovy),
		Aspect:   aspect,
		Near:     nearPlane,
		Far:      farPlane,
	}
}

// Ground is the bounded floor at y=0.
func (s *Scene) Ground() hittest.GroundPlane {
	return hittest.GroundPlane{HalfX: float64(s.floorWidth) / 2, HalfZ: float64(s.floorDepth) / 2}
}

// Update runs the orbit controls: right-drag rotates, middle-drag pans, wheel zooms. Pass
// pointerFree false while the pointer is over UI chrome so panel clicks and scrolls don't move
// the camera.
func (s *Scene) Update(pointerFree bool) {
	if pointerFree {
		d := rl.GetMouseDelta()
		switch {
		case rl.IsMouseButtonDown(rl.MouseButtonRight):
			s.orbit.Rotate(d.X, d.Y)
		case rl.IsMouseButtonDown(rl.MouseButtonMiddle):
			s.orbit.Pan(d.X, d.Y)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			s.orbit.Zoom(wheel)
		}
	}
	s.syncCamera()
}

func (s *Scene) syncCamera() {
	s.cam.Position = s.orbit.Position()
	s.cam.Target = s.orbit.Target
}

// Draw renders the floor, grid and attached groups. Call after ClearBackground and before the
// 2D overlay; labels are drawn in screen space after EndMode3D.
func (s *Scene) Draw() {
	rl.BeginMode3D(s.cam)
	rl.DrawPlane(rl.NewVector3(0, -0.01, 0), rl.NewVector2(s.floorWidth, s.floorDepth), floorColor)
	if s.GridVisible {
		s.drawFloorGrid()
	}
	if s.renderer != nil {
		p := s.cam.Position
		s.renderer.SetView([3]float32{p.X, p.Y, p.Z}, [3]float32{20, 40, 20})
		s.renderer.DrawGroups(s.groups)
	}
	rl.EndMode3D()
	s.drawLabels()
}

// drawFloorGrid draws cell lines across the bounded floor. Integer counters avoid float drift
// at the far edge. Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func (s *Scene) drawFloorGrid() {
	if s.cellSize <= 0 {
		return
	}
	halfW, halfD := s.floorWidth/2, s.floorDepth/2
	var start, end rl.Vector3
	for i := 0; float32(i)*s.cellSize <= s.floorWidth+1e-3; i++ {
		x := -halfW + float32(i)*s.cellSize
		start.X, start.Y, start.Z = x, 0, -halfD
		end.X, end.Y, end.Z = x, 0, halfD
		rl.DrawLine3D(start, end, gridColor)
	}
	for i := 0; float32(i)*s.cellSize <= s.floorDepth+1e-3; i++ {
		z := -halfD + float32(i)*s.cellSize
		start.X, start.Y, start.Z = -halfW, 0, z
		end.X, end.Y, end.Z = halfW, 0, z
		rl.DrawLine3D(start, end, gridColor)
	}
}

// drawLabels writes the floor dimensions next to the near edge and the left edge.
func (s *Scene) drawLabels() {
	s.label(formatMeters(s.floorWidth), rl.NewVector3(0, 0.1, s.floorDepth/2+1))
	s.label(formatMeters(s.floorDepth), rl.NewVector3(-s.floorWidth/2-2.5, 0.1, 0))
}

func (s *Scene) label(text string, at rl.Vector3) {
	pos := rl.GetWorldToScreen(at, s.cam)
	if s.font.Texture.ID != 0 {
		size := rl.MeasureTextEx(s.font, text, labelFontSize, 1)
		rl.DrawTextEx(s.font, text, rl.NewVector2(pos.X-size.X/2, pos.Y-size.Y/2), labelFontSize, 1, labelColor)
		return
	}
	w := rl.MeasureText(text, labelFontSize)
	rl.DrawText(text, int32(pos.X)-w/2, int32(pos.Y)-labelFontSize/2, labelFontSize, labelColor)
}
