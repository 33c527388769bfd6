// Package kernel defines the solid-modeling backend used for shapes that
// are easier to describe as solids than as faces. A Kernel builds and
// combines solids and tessellates them into a mesh.Part through the
// direct sub-mesh path.
package kernel

import "github.com/chazu/procmesh/pkg/mesh"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the solid-modeling interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToPart tessellates s into a part holding one opaque sub-mesh.
	ToPart(s Solid) (*mesh.Part, error)
}
