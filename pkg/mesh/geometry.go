package mesh

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is matched by every *GeometryError.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ErrUnsupportedPolygon is returned for footprints that are not a
// triangle, quad or pentagon.
var ErrUnsupportedPolygon = errors.New("unsupported polygon")

// GeometryError describes the first structural inconsistency found in a
// Geometry.
type GeometryError struct {
	Array  string // "triangles", "uvs" or "colors"
	Index  int    // element position in Array, or -1 for a length problem
	Value  int    // offending index value or array length
	Reason string
}

func (e *GeometryError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid geometry: %s: %s (length %d)", e.Array, e.Reason, e.Value)
	}
	return fmt.Sprintf("invalid geometry: %s[%d] = %d: %s", e.Array, e.Index, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidGeometry.
func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

// Geometry is frozen mesh data. Vertices are listed in index order;
// Triangles holds three vertex indices per triangle; UVs and Colors, when
// present, run parallel to Vertices.
type Geometry struct {
	Vertices  []Point3 `json:"vertices"`
	Triangles []int    `json:"triangles"`
	UVs       []Point2 `json:"uvs"`
	Colors    []Color  `json:"colors"`
}

// VertexCount returns len(Vertices).
func (g Geometry) VertexCount() int {
	return len(g.Vertices)
}

// TriangleCount returns len(Triangles) / 3.
func (g Geometry) TriangleCount() int {
	return len(g.Triangles) / 3
}

// IsEmpty reports whether the geometry has no vertices.
func (g Geometry) IsEmpty() bool {
	return len(g.Vertices) == 0
}

// Summary returns the vertex and triangle counts of g.
func (g Geometry) Summary() Summary {
	return Summarize(g)
}

// Validate checks that Triangles is a whole number of triples, every
// index addresses a vertex, and UVs and Colors are either empty or as long
// as Vertices. It returns the first problem as a *GeometryError.
func (g Geometry) Validate() error {
	if len(g.Triangles)%3 != 0 {
		return &GeometryError{
			Array:  "triangles",
			Index:  -1,
			Value:  len(g.Triangles),
			Reason: "length is not a multiple of 3",
		}
	}
	for i, idx := range g.Triangles {
		if idx < 0 || idx >= len(g.Vertices) {
			return &GeometryError{
				Array:  "triangles",
				Index:  i,
				Value:  idx,
				Reason: fmt.Sprintf("index out of range for %d vertices", len(g.Vertices)),
			}
		}
	}
	if n := len(g.UVs); n != 0 && n != len(g.Vertices) {
		return &GeometryError{
			Array:  "uvs",
			Index:  -1,
			Value:  n,
			Reason: fmt.Sprintf("not parallel to %d vertices", len(g.Vertices)),
		}
	}
	if n := len(g.Colors); n != 0 && n != len(g.Vertices) {
		return &GeometryError{
			Array:  "colors",
			Index:  -1,
			Value:  n,
			Reason: fmt.Sprintf("not parallel to %d vertices", len(g.Vertices)),
		}
	}
	return nil
}

// Bounds returns the min and max corners of the vertex positions. ok is
// false when there are no vertices.
func (g Geometry) Bounds() (min, max Point3, ok bool) {
	if len(g.Vertices) == 0 {
		return Point3{}, Point3{}, false
	}
	min, max = g.Vertices[0], g.Vertices[0]
	for _, v := range g.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max, true
}

// checkPolygon rejects point counts other than 3, 4 or 5.
func checkPolygon(pts []Point3) error {
	switch len(pts) {
	case 3, 4, 5:
		return nil
	}
	return fmt.Errorf("mesh: %w: %d points (want 3, 4 or 5)", ErrUnsupportedPolygon, len(pts))
}
