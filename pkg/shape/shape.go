// Package shape provides stock generators built only from mesh.Part
// primitives.
package shape

import (
	"fmt"

	"github.com/chazu/procmesh/pkg/mesh"
)

// Box adds an axis-aligned box with its minimum corner at min. The
// footprint is wound counter-clockwise seen from above so the side walls
// face outward.
func Box(p *mesh.Part, min, size mesh.Point3) {
	x0, x1 := min.X, min.X+size.X
	z0, z1 := min.Z, min.Z+size.Z
	y := min.Y
	p.ExtrudeQuad(
		mesh.Point3{X: x0, Y: y, Z: z0},
		mesh.Point3{X: x0, Y: y, Z: z1},
		mesh.Point3{X: x1, Y: y, Z: z1},
		mesh.Point3{X: x1, Y: y, Z: z0},
		size.Y,
	)
}

// Prism extrudes a triangle, quad or pentagon footprint by height.
func Prism(p *mesh.Part, footprint []mesh.Point3, height float64) error {
	if err := p.ExtrudePolygon(footprint, height); err != nil {
		return fmt.Errorf("shape: prism: %w", err)
	}
	return nil
}

// Stairs adds a flight of steps climbing along +Z from origin. Each step
// is a solid block reaching down to origin.Y.
func Stairs(p *mesh.Part, origin mesh.Point3, steps int, width, depth, rise float64) error {
	if steps < 1 {
		return fmt.Errorf("shape: stairs: need at least one step, got %d", steps)
	}
	for i := 0; i < steps; i++ {
		Box(p,
			mesh.Point3{X: origin.X, Y: origin.Y, Z: origin.Z + float64(i)*depth},
			mesh.Point3{X: width, Y: float64(i+1) * rise, Z: depth},
		)
	}
	return nil
}

// Grid adds a flat cols x rows field of square tiles in the XZ plane,
// one quad per tile, starting at origin.
func Grid(p *mesh.Part, origin mesh.Point3, cols, rows int, cell float64) error {
	if cols < 1 || rows < 1 {
		return fmt.Errorf("shape: grid: size %dx%d must be positive", cols, rows)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := origin.X + float64(c)*cell
			z := origin.Z + float64(r)*cell
			p.AddQuad(
				mesh.Point3{X: x, Y: origin.Y, Z: z},
				mesh.Point3{X: x, Y: origin.Y, Z: z + cell},
				mesh.Point3{X: x + cell, Y: origin.Y, Z: z + cell},
				mesh.Point3{X: x + cell, Y: origin.Y, Z: z},
			)
		}
	}
	return nil
}
