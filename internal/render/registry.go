package render

import (
	"sort"

	"floorplanner/internal/catalog"
	"floorplanner/internal/geometry"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// cached holds the unit mesh for one part kind. Created lazily on first Draw.
type cached struct {
	mesh rl.Mesh
	// centerOffset moves the unit mesh so its center sits at the model origin.
	centerOffset rl.Vector3
}

// Registry maps part kinds to unit meshes sharing one lit material. Meshes are created on first
// use so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    map[geometry.PartKind]cached
	mtl      rl.Material
	mtlReady bool
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame
}

// NewRegistry returns a registry with no meshes.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[geometry.PartKind]cached),
		lightDir: normalize([3]float32{20, 40, 20}),
	}
}

// SetView sets camera position and direction-to-light for this frame. Call once per frame
// before drawing.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = normalize(lightDir)
}

const (
	sphereRings   = 24
	sphereSlices  = 24
	revolveSlices = 32
)

// ensure creates the unit mesh for kind if not yet cached. Every unit mesh spans 1 in each axis
// so a part's Size is its scale.
func (r *Registry) ensure(kind geometry.PartKind) (cached, bool) {
	if c, ok := r.cache[kind]; ok {
		return c, true
	}
	r.ensureMaterial()
	var c cached
	switch kind {
	case geometry.PartBox:
		c.mesh = rl.GenMeshCube(1, 1, 1)
	case geometry.PartSphere:
		c.mesh = rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	case geometry.PartCylinder:
		// Raylib cylinders and cones have their base at Y=0.
		c.mesh = rl.GenMeshCylinder(0.5, 1, revolveSlices)
		c.centerOffset = rl.NewVector3(0, -0.5, 0)
	case geometry.PartCone:
		c.mesh = rl.GenMeshCone(0.5, 1, revolveSlices)
		c.centerOffset = rl.NewVector3(0, -0.5, 0)
	default:
		return cached{}, false
	}
	r.cache[kind] = c
	return c, true
}

func (r *Registry) ensureMaterial() {
	if r.mtlReady {
		return
	}
	r.mtl = rl.LoadMaterialDefault()
	if shader := loadLitShader(); rl.IsShaderValid(shader) {
		r.mtl.Shader = shader
	}
	r.mtlReady = true
}

// DrawGroup draws every part of g. Must be called between BeginMode3D and EndMode3D.
func (r *Registry) DrawGroup(g *geometry.ShapeGroup) {
	if g == nil {
		return
	}
	for i := range g.Parts {
		r.drawPart(g, i)
	}
}

// DrawGroups draws opaque groups first and translucent ones (the ghost) last with depth writes
// off, so the preview never hides what is behind it. Keys give a stable draw order.
func (r *Registry) DrawGroups(groups map[string]*geometry.ShapeGroup) {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var translucent []*geometry.ShapeGroup
	for _, k := range keys {
		g := groups[k]
		if isTranslucent(g) {
			translucent = append(translucent, g)
			continue
		}
		r.DrawGroup(g)
	}
	if len(translucent) == 0 {
		return
	}
	rl.DisableDepthMask()
	for _, g := range translucent {
		r.DrawGroup(g)
	}
	rl.EnableDepthMask()
}

func isTranslucent(g *geometry.ShapeGroup) bool {
	for _, p := range g.Parts {
		if p.Material.Opacity < 1 {
			return true
		}
	}
	return false
}

func (r *Registry) drawPart(g *geometry.ShapeGroup, i int) {
	p := g.Parts[i]
	c, ok := r.ensure(p.Kind)
	if !ok {
		return
	}
	if albedo := r.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = Color(p.Material.Color, p.Material.Opacity)
	}
	r.setLitShaderUniforms(r.mtl.Shader, p.Material.Emissive)
	rl.DrawMesh(c.mesh, r.mtl, PartMatrix(g, i, c.centerOffset))
}

// PartMatrix is the model matrix of part i: center the unit mesh, scale to the part size, move to
// the part offset, then apply the group yaw and position.
func PartMatrix(g *geometry.ShapeGroup, i int, centerOffset rl.Vector3) rl.Matrix {
	p := g.Parts[i]
	m := rl.MatrixTranslate(centerOffset.X, centerOffset.Y, centerOffset.Z)
	m = rl.MatrixMultiply(m, rl.MatrixScale(float32(p.Size.X), float32(p.Size.Y), float32(p.Size.Z)))
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(float32(p.Offset.X), float32(p.Offset.Y), float32(p.Offset.Z)))
	m = rl.MatrixMultiply(m, rl.MatrixRotateY(Radians(g.RotationY)))
	return rl.MatrixMultiply(m, rl.MatrixTranslate(float32(g.Position.X), float32(g.Position.Y), float32(g.Position.Z)))
}

// Radians converts a yaw in degrees, wrapping it first so large angles keep float32 precision.
func Radians(deg float64) float32 {
	return math32.Mod(float32(deg), 360) * math32.Pi / 180
}

// Color converts a catalog color and opacity in [0,1] to an RGBA color.
func Color(c catalog.Color, opacity float64) rl.Color {
	r, g, b := c.RGB()
	a := math32.Max(0, math32.Min(1, float32(opacity)))
	return rl.NewColor(r, g, b, uint8(a*255+0.5))
}

func normalize(v [3]float32) [3]float32 {
	n := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / n, v[1] / n, v[2] / n}
}
