// Package geometry turns catalog entries into shape groups: small trees of boxes, cylinders,
// cones and spheres with a single root transform. It has no renderer dependency; the render
// package draws groups and hittest intersects them.
package geometry

import (
	"floorplanner/internal/catalog"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// TetherRadius is the radius of a balloon string.
	TetherRadius = 0.02
	// TetherColor is the string color (light gray).
	TetherColor catalog.Color = 0xcccccc
	// BalloonLift places the sphere center this many radii above the tether top, so the
	// sphere slightly swallows the end of the string.
	BalloonLift = 0.8
	// BackrestThickness is the depth of a sofa backrest panel.
	BackrestThickness = 0.2
)

// Build returns the shape group for def, rotated by rotationY degrees about the vertical axis.
// The group sits at the origin; callers move it with Position. Build is pure and never fails
// for a definition that passed Validate.
func Build(def catalog.ModuleDefinition, rotationY float64) *ShapeGroup {
	g := &ShapeGroup{ModuleID: def.ID, Kind: def.Kind}
	dim := def.Dimensions
	body := Material{Color: def.Color, Opacity: 1}

	switch def.Kind {
	case catalog.Box:
		g.Parts = []Part{{
			Name:     "body",
			Kind:     PartBox,
			Size:     r3.Vec{X: dim.Width, Y: dim.Height, Z: dim.Depth},
			Material: body,
		}}
	case catalog.Cylinder:
		g.Parts = []Part{revolution("body", PartCylinder, dim.Radius, dim.Height, body)}
	case catalog.Cone:
		g.Parts = []Part{revolution("body", PartCone, dim.Radius, dim.Height, body)}
	case catalog.Balloon:
		tether := revolution("tether", PartCylinder, TetherRadius, dim.StringHeight, Material{Color: TetherColor, Opacity: 1})
		tether.Offset = r3.Vec{Y: dim.StringHeight / 2}
		d := 2 * dim.Radius
		sphere := Part{
			Name:     "balloon",
			Kind:     PartSphere,
			Size:     r3.Vec{X: d, Y: d, Z: d},
			Offset:   r3.Vec{Y: dim.StringHeight + BalloonLift*dim.Radius},
			Material: body,
		}
		g.Parts = []Part{tether, sphere}
	case catalog.Sofa:
		base := Part{
			Name:     "base",
			Kind:     PartBox,
			Size:     r3.Vec{X: dim.Width, Y: dim.Height, Z: dim.Depth},
			Material: body,
		}
		back := Part{
			Name: "backrest",
			Kind: PartBox,
			Size: r3.Vec{X: dim.Width, Y: dim.BackHeight, Z: BackrestThickness},
			Offset: r3.Vec{
				Y: (dim.BackHeight - dim.Height) / 2,
				Z: -dim.Depth/2 + BackrestThickness/2,
			},
			Material: body,
		}
		g.Parts = []Part{base, back}
	default:
		// Unvalidated kinds fall back to a unit cube so the caller still gets something drawable.
		g.Parts = []Part{{Name: "body", Kind: PartBox, Size: r3.Vec{X: 1, Y: 1, Z: 1}, Material: body}}
	}

	g.SetRotation(rotationY)
	return g
}

func revolution(name string, kind PartKind, radius, height float64, m Material) Part {
	return Part{
		Name:     name,
		Kind:     kind,
		Size:     r3.Vec{X: 2 * radius, Y: height, Z: 2 * radius},
		Material: m,
	}
}

// RestHeight is the Y a group's origin must sit at so the shape stands on the floor.
// Boxes, cylinders and cones are centered on their origin, so they rise by half their height;
// a sofa rises by half its seat (the backrest offset is already relative to the seat);
// balloons are built upward from the origin and need no lift.
func RestHeight(def catalog.ModuleDefinition) float64 {
	switch def.Kind {
	case catalog.Box, catalog.Cylinder, catalog.Cone, catalog.Sofa:
		return def.Dimensions.Height / 2
	}
	return 0
}
