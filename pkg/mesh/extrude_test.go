package mesh

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtrusionCounts(t *testing.T) {
	tests := []struct {
		name      string
		build     func(p *Part)
		wantVerts int
		wantTris  int
	}{
		{
			name: "triangle",
			build: func(p *Part) {
				p.ExtrudeTriangle(pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0), 2)
			},
			wantVerts: 18,
			wantTris:  8,
		},
		{
			name: "quad",
			build: func(p *Part) {
				p.ExtrudeQuad(pt(0, 0, 0), pt(0, 0, 1), pt(1, 0, 1), pt(1, 0, 0), 1)
			},
			wantVerts: 24,
			wantTris:  12,
		},
		{
			name: "pentagon",
			build: func(p *Part) {
				p.ExtrudePentagon(pt(0, 0, 0), pt(1, 0, 0), pt(1.5, 0, 1), pt(0.5, 0, 2), pt(-0.5, 0, 1), 3)
			},
			wantVerts: 30,
			wantTris:  16,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPart()
			tt.build(p)
			g := p.FillArrays()
			if g.VertexCount() != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", g.VertexCount(), tt.wantVerts)
			}
			if g.TriangleCount() != tt.wantTris {
				t.Errorf("TriangleCount() = %d, want %d", g.TriangleCount(), tt.wantTris)
			}
			assertIndicesInRange(t, g)
		})
	}
}

func TestExtrudeTriangleLayout(t *testing.T) {
	p1, p2, p3 := pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)
	p := NewPart()
	p.ExtrudeTriangle(p1, p2, p3, 2)
	g := p.FillArrays()

	h := pt(0, 2, 0)
	p1h, p2h, p3h := p1.Add(h), p2.Add(h), p3.Add(h)
	want := []Point3{
		p1, p3, p2, // bottom, reversed
		p1h, p2h, p3h, // top
		p1, p2, p2h, p1h, // side 1-2
		p2, p3, p3h, p2h, // side 2-3
		p3, p1, p1h, p3h, // side 3-1
	}
	if !reflect.DeepEqual(g.Vertices, want) {
		t.Errorf("vertices =\n%v\nwant\n%v", g.Vertices, want)
	}

	wantTris := []int{
		0, 1, 2,
		3, 4, 5,
		6, 7, 8, 6, 8, 9,
		10, 11, 12, 10, 12, 13,
		14, 15, 16, 14, 16, 17,
	}
	if !reflect.DeepEqual(g.Triangles, wantTris) {
		t.Errorf("triangles = %v, want %v", g.Triangles, wantTris)
	}
}

func TestExtrudeQuadCaps(t *testing.T) {
	lb, lt, rt, rb := pt(0, 0, 0), pt(0, 0, 1), pt(1, 0, 1), pt(1, 0, 0)
	p := NewPart()
	p.ExtrudeQuad(lb, lt, rt, rb, 3)
	g := p.FillArrays()

	h := pt(0, 3, 0)
	wantBottom := []Point3{lb, rb, rt, lt}
	wantTop := []Point3{lb.Add(h), lt.Add(h), rt.Add(h), rb.Add(h)}
	if !reflect.DeepEqual(g.Vertices[0:4], wantBottom) {
		t.Errorf("bottom cap = %v, want %v", g.Vertices[0:4], wantBottom)
	}
	if !reflect.DeepEqual(g.Vertices[4:8], wantTop) {
		t.Errorf("top cap = %v, want %v", g.Vertices[4:8], wantTop)
	}
	// Last side wall closes the loop from rb back to lb.
	wantLast := []Point3{rb, lb, lb.Add(h), rb.Add(h)}
	if !reflect.DeepEqual(g.Vertices[20:24], wantLast) {
		t.Errorf("closing side = %v, want %v", g.Vertices[20:24], wantLast)
	}
}

func TestExtrudeAlwaysAlongY(t *testing.T) {
	// A footprint standing in the XY plane still extrudes along +Y.
	p := NewPart()
	p.ExtrudeTriangle(pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0), 5)
	g := p.FillArrays()
	if g.Vertices[3] != pt(0, 5, 0) || g.Vertices[5] != pt(0, 6, 0) {
		t.Errorf("top cap = %v", g.Vertices[3:6])
	}
}

func TestExtrudeZeroHeight(t *testing.T) {
	p := NewPart()
	p.ExtrudeQuad(pt(0, 0, 0), pt(0, 0, 1), pt(1, 0, 1), pt(1, 0, 0), 0)
	g, err := p.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if g.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", g.TriangleCount())
	}
	for i := 0; i < 4; i++ {
		if g.Vertices[4+i].Y != 0 {
			t.Errorf("top vertex %d at y=%v, want 0", i, g.Vertices[4+i].Y)
		}
	}
}

func TestExtrudePolygon(t *testing.T) {
	p := NewPart()
	footprint := []Point3{pt(0, 0, 0), pt(0, 0, 1), pt(1, 0, 1), pt(1, 0, 0)}
	if err := p.ExtrudePolygon(footprint, 1); err != nil {
		t.Fatalf("ExtrudePolygon() error = %v", err)
	}
	if p.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", p.TriangleCount())
	}

	err := p.ExtrudePolygon(append(footprint, pt(2, 0, 2), pt(3, 0, 3)), 1)
	if !errors.Is(err, ErrUnsupportedPolygon) {
		t.Errorf("hexagon error = %v, want ErrUnsupportedPolygon", err)
	}
	if p.TriangleCount() != 12 {
		t.Errorf("rejected extrusion changed the part: %d triangles", p.TriangleCount())
	}
}
