package mesh

// up returns the extrusion offset. Extrusion always runs along +Y no
// matter how the footprint itself is oriented.
func up(height float64) Point3 {
	return Point3{X: 0, Y: height, Z: 0}
}

// ExtrudeTriangle builds a triangular prism: the bottom cap wound
// (p1, p3, p2), the top cap (p1, p2, p3) raised by height, and one side
// quad per edge. It adds 18 vertices and 8 triangles.
func (p *Part) ExtrudeTriangle(p1, p2, p3 Point3, height float64) {
	p.extrude([]Point3{p1, p2, p3}, height)
}

// ExtrudeQuad builds a box-like prism over the quad lb, lt, rt, rb. It
// adds 24 vertices and 12 triangles.
func (p *Part) ExtrudeQuad(lb, lt, rt, rb Point3, height float64) {
	p.extrude([]Point3{lb, lt, rt, rb}, height)
}

// ExtrudePentagon builds a pentagonal prism. It adds 30 vertices and 16
// triangles.
func (p *Part) ExtrudePentagon(a, b, c, d, e Point3, height float64) {
	p.extrude([]Point3{a, b, c, d, e}, height)
}

// ExtrudePolygon dispatches to the extrusion matching the footprint's
// point count. Footprints other than 3, 4 or 5 points return
// ErrUnsupportedPolygon.
func (p *Part) ExtrudePolygon(footprint []Point3, height float64) error {
	if err := checkPolygon(footprint); err != nil {
		return err
	}
	p.extrude(footprint, height)
	return nil
}

// extrude emits the bottom cap, the top cap and the side walls, in that
// order. A zero height is accepted and yields coincident caps.
//
// The bottom cap walks the footprint backwards from the first point so it
// faces down; the top keeps the footprint order. Each side quad is
// (v[i], v[i+1], v[i+1]+h, v[i]+h), which faces outward for a footprint
// wound counter-clockwise when seen from above.
func (p *Part) extrude(footprint []Point3, height float64) {
	n := len(footprint)
	h := up(height)

	bottom := make([]Point3, n)
	top := make([]Point3, n)
	bottom[0] = footprint[0]
	for i := 1; i < n; i++ {
		bottom[i] = footprint[n-i]
	}
	for i, v := range footprint {
		top[i] = v.Add(h)
	}

	p.addFan(bottom...)
	p.addFan(top...)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		p.addFan(footprint[i], footprint[j], top[j], top[i])
	}
}
