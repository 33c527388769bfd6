package kernel

import "github.com/chazu/procmesh/pkg/mesh"

// Mesh is finalized geometry flattened for a renderer. Positions have 3
// floats per vertex, uvs 2, colors 4; indices has 3 per triangle. UVs and
// Colors are empty when the geometry carries none.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	UVs      []float32 `json:"uvs"`      // [u0,v0, u1,v1, ...]
	Colors   []float32 `json:"colors"`   // [r0,g0,b0,a0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"`
}

// FromGeometry flattens g. The geometry should have passed Validate;
// negative indices are not representable and are clamped to 0.
func FromGeometry(name string, g mesh.Geometry) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, len(g.Vertices)*3),
		UVs:      make([]float32, 0, len(g.UVs)*2),
		Colors:   make([]float32, 0, len(g.Colors)*4),
		Indices:  make([]uint32, 0, len(g.Triangles)),
		PartName: name,
	}
	for _, v := range g.Vertices {
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
	}
	for _, uv := range g.UVs {
		m.UVs = append(m.UVs, float32(uv.X), float32(uv.Y))
	}
	for _, c := range g.Colors {
		m.Colors = append(m.Colors, c[0], c[1], c[2], c[3])
	}
	for _, idx := range g.Triangles {
		if idx < 0 {
			idx = 0
		}
		m.Indices = append(m.Indices, uint32(idx))
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
