package mesh

import "fmt"

// Summary is a vertex/triangle count snapshot of a Geometry.
type Summary struct {
	VertexCount   int `json:"vertexCount"`
	TriangleCount int `json:"triangleCount"`
}

// Summarize derives a Summary from g.
func Summarize(g Geometry) Summary {
	return Summary{
		VertexCount:   len(g.Vertices),
		TriangleCount: len(g.Triangles) / 3,
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d vertices, %d triangles", s.VertexCount, s.TriangleCount)
}
