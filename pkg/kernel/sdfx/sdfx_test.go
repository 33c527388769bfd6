package sdfx

import (
	"math"
	"testing"
)

// testCells keeps marching cubes fast in tests.
const testCells = 24

func assertBounds(t *testing.T, min, max, expectMin, expectMax [3]float64, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := New(WithCells(testCells))
	box := k.Box(100, 50, 25)
	part, err := k.ToPart(box)
	if err != nil {
		t.Fatalf("ToPart failed: %v", err)
	}
	g := part.Geometry()
	if g.IsEmpty() {
		t.Fatal("geometry is empty")
	}
	triCount := g.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Triangle soup: one vertex per corner of every triangle.
	if g.VertexCount() != triCount*3 {
		t.Fatalf("vertex count %d != triCount*3 %d", g.VertexCount(), triCount*3)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestBoxSitsOnOrigin(t *testing.T) {
	k := New()
	min, max := k.Box(100, 50, 25).BoundingBox()
	assertBounds(t, min, max, [3]float64{0, 0, 0}, [3]float64{100, 50, 25}, 0.01)
}

func TestCylinderStandsOnY(t *testing.T) {
	k := New()
	min, max := k.Cylinder(50, 10).BoundingBox()
	assertBounds(t, min, max, [3]float64{-10, 0, -10}, [3]float64{10, 50, 10}, 0.5)
}

func TestSphere(t *testing.T) {
	k := New(WithCells(testCells))
	s := k.Sphere(10)
	min, max := s.BoundingBox()
	assertBounds(t, min, max, [3]float64{-10, -10, -10}, [3]float64{10, 10, 10}, 0.01)

	part, err := k.ToPart(s)
	if err != nil {
		t.Fatalf("ToPart failed: %v", err)
	}
	if part.Geometry().TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
}

func TestDifference(t *testing.T) {
	k := New(WithCells(testCells))

	box := k.Box(100, 100, 100)
	boxPart, err := k.ToPart(box)
	if err != nil {
		t.Fatalf("ToPart(box) failed: %v", err)
	}

	cyl := k.Translate(k.Cylinder(120, 20), 50, -10, 50)
	diff := k.Difference(box, cyl)
	diffPart, err := k.ToPart(diff)
	if err != nil {
		t.Fatalf("ToPart(diff) failed: %v", err)
	}
	// A box with a hole should have more triangles than a plain box.
	if diffPart.TriangleCount() <= boxPart.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffPart.TriangleCount(), boxPart.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := New(WithCells(testCells))
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)

	min, max := u.BoundingBox()
	assertBounds(t, min, max, [3]float64{0, 0, 0}, [3]float64{80, 50, 50}, 0.01)

	part, err := k.ToPart(u)
	if err != nil {
		t.Fatalf("ToPart failed: %v", err)
	}
	if part.IsEmpty() {
		t.Fatal("union part is empty")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	translated := k.Translate(k.Box(10, 10, 10), 100, 200, 300)
	min, max := translated.BoundingBox()
	assertBounds(t, min, max, [3]float64{100, 200, 300}, [3]float64{110, 210, 310}, 0.01)
}

func TestIntersection(t *testing.T) {
	k := New(WithCells(testCells))
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	part, err := k.ToPart(inter)
	if err != nil {
		t.Fatalf("ToPart failed: %v", err)
	}
	if part.IsEmpty() {
		t.Fatal("intersection part is empty")
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestWithCellsIgnoresNonPositive(t *testing.T) {
	if k := New(WithCells(0)); k.cells != DefaultMeshCells {
		t.Errorf("cells = %d, want %d", k.cells, DefaultMeshCells)
	}
}
