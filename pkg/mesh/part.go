// Package mesh accumulates procedural geometry into flat vertex, triangle,
// UV and color buffers. A Part is filled through primitive-adding calls,
// optionally merged with other parts, and then frozen into a Geometry that
// a host hands to its renderer.
package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point3 is a vertex position.
type Point3 = v3.Vec

// Point2 is a texture coordinate.
type Point2 = v2.Vec

// Part is an in-progress geometry accumulator. It is owned by a single
// caller and is not safe for concurrent use. Build a new Part for every
// rebuild instead of mutating one after it has been finalized.
type Part struct {
	vertices  []Point3
	triangles []int
	uvs       []Point2
	colors    []Color

	brush brush
	merge MergeMode

	frozen Geometry
}

// Option configures a Part.
type Option func(*Part)

// WithMergeMode selects how AddMeshPart copies triangle indices.
func WithMergeMode(m MergeMode) Option {
	return func(p *Part) {
		p.merge = m
	}
}

// WithCapacity preallocates room for the given number of vertices and
// triangle indices.
func WithCapacity(vertices, indices int) Option {
	return func(p *Part) {
		p.vertices = make([]Point3, 0, vertices)
		p.triangles = make([]int, 0, indices)
	}
}

// NewPart returns an empty builder.
func NewPart(opts ...Option) *Part {
	p := &Part{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPartFromArrays wraps prebuilt arrays as a single opaque sub-mesh.
// The arrays become the frozen geometry as given; nothing is validated and
// keeping vertices, uvs and colors parallel is the caller's job. The
// builder's own buffers are seeded with copies so the part can still be
// extended or merged.
func NewPartFromArrays(vertices []Point3, triangles []int, uvs []Point2, colors []Color, opts ...Option) *Part {
	p := NewPart(opts...)
	p.vertices = append(p.vertices, vertices...)
	p.triangles = append(p.triangles, triangles...)
	p.uvs = append(p.uvs, uvs...)
	p.colors = append(p.colors, colors...)
	p.frozen = Geometry{
		Vertices:  vertices,
		Triangles: triangles,
		UVs:       uvs,
		Colors:    colors,
	}
	return p
}

// VertexCount returns the number of accumulated vertices.
func (p *Part) VertexCount() int {
	return len(p.vertices)
}

// TriangleCount returns the number of accumulated triangles.
func (p *Part) TriangleCount() int {
	return len(p.triangles) / 3
}

// IsEmpty reports whether nothing has been accumulated.
func (p *Part) IsEmpty() bool {
	return len(p.vertices) == 0 && len(p.triangles) == 0
}

// AddTriangle appends three vertices in the given order and one triangle
// over them. Winding is whatever the caller supplied.
func (p *Part) AddTriangle(p1, p2, p3 Point3) {
	p.addFan(p1, p2, p3)
}

// AddQuad appends four vertices and splits them along the lb-rt diagonal
// into (lb, lt, rt) and (lb, rt, rb). The split is fixed; non-planar or
// concave quads may look wrong.
func (p *Part) AddQuad(lb, lt, rt, rb Point3) {
	p.addFan(lb, lt, rt, rb)
}

// AddPentagon appends five vertices as a three-triangle fan from a. The
// pentagon should be near-planar, convex and consistently wound.
func (p *Part) AddPentagon(a, b, c, d, e Point3) {
	p.addFan(a, b, c, d, e)
}

// AddPolygon dispatches to AddTriangle, AddQuad or AddPentagon by point
// count. Any other count returns ErrUnsupportedPolygon and leaves the part
// untouched.
func (p *Part) AddPolygon(pts ...Point3) error {
	if err := checkPolygon(pts); err != nil {
		return err
	}
	p.addFan(pts...)
	return nil
}

// addFan appends pts and triangulates them as a fan from pts[0].
func (p *Part) addFan(pts ...Point3) {
	base := len(p.vertices)
	for _, v := range pts {
		p.addVertex(v)
	}
	for i := 1; i+1 < len(pts); i++ {
		p.triangles = append(p.triangles, base, base+i, base+i+1)
	}
}

// addVertex appends one vertex plus an entry in every attribute channel
// the part carries: the brush value when it is on, else White or (0, 0).
func (p *Part) addVertex(v Point3) {
	p.vertices = append(p.vertices, v)
	switch {
	case p.brush.hasColor:
		p.colors = append(p.colors, p.brush.color)
	case len(p.colors) > 0:
		p.colors = append(p.colors, White)
	}
	switch {
	case p.brush.mapper != nil:
		p.uvs = append(p.uvs, p.brush.mapper.MapUV(v))
	case len(p.uvs) > 0:
		p.uvs = append(p.uvs, Point2{})
	}
}

// FillArrays freezes the accumulated buffers into a new Geometry and
// returns it. Calling it again without further adds produces identical
// arrays.
func (p *Part) FillArrays() Geometry {
	p.frozen = Geometry{
		Vertices:  cloneSlice(p.vertices),
		Triangles: cloneSlice(p.triangles),
		UVs:       cloneSlice(p.uvs),
		Colors:    cloneSlice(p.colors),
	}
	return p.frozen
}

// Finalize freezes the part like FillArrays and validates the result.
// The geometry is returned even when validation fails.
func (p *Part) Finalize() (Geometry, error) {
	g := p.FillArrays()
	if err := g.Validate(); err != nil {
		return g, err
	}
	return g, nil
}

// Geometry returns the last frozen geometry: the arrays given to
// NewPartFromArrays, or the result of the most recent FillArrays.
func (p *Part) Geometry() Geometry {
	return p.frozen
}

// cloneSlice copies s into a slice that shares no memory with it. A nil
// or empty input yields an empty, non-nil slice.
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
