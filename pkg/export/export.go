// Package export writes finalized geometry to interchange formats.
package export

import (
	"fmt"

	"github.com/chazu/procmesh/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// Triangles expands indexed geometry into an sdfx triangle list.
func Triangles(g mesh.Geometry) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, g.TriangleCount())
	for i := 0; i+2 < len(g.Triangles); i += 3 {
		tris = append(tris, &sdf.Triangle3{
			g.Vertices[g.Triangles[i]],
			g.Vertices[g.Triangles[i+1]],
			g.Vertices[g.Triangles[i+2]],
		})
	}
	return tris
}

// SaveSTL validates g and writes it to path as binary STL.
func SaveSTL(path string, g mesh.Geometry) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if g.IsEmpty() {
		return fmt.Errorf("export: %s: geometry has no triangles", path)
	}
	if err := render.SaveSTL(path, Triangles(g)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
