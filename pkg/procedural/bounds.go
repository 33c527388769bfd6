package procedural

import (
	"github.com/chazu/procmesh/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
)

// BoundingBox is an axis-aligned box in host space, stored as center and
// half-size.
type BoundingBox struct {
	Center  mesh.Point3 `json:"center"`
	Extents mesh.Point3 `json:"extents"`
}

// NewBoundingBox bounds g's vertices and moves the result by position. It
// returns nil for empty geometry.
func NewBoundingBox(g mesh.Geometry, position mesh.Point3) *BoundingBox {
	min, max, ok := g.Bounds()
	if !ok {
		return nil
	}
	box := sdf.Box3{Min: min, Max: max}
	return &BoundingBox{
		Center:  box.Center().Add(position),
		Extents: box.Size().MulScalar(0.5),
	}
}

// Box3 returns the box as min/max corners.
func (b BoundingBox) Box3() sdf.Box3 {
	return sdf.Box3{
		Min: b.Center.Sub(b.Extents),
		Max: b.Center.Add(b.Extents),
	}
}

// Corners returns the eight corners, bottom face first, for overlay
// drawing.
func (b BoundingBox) Corners() [8]mesh.Point3 {
	lo, hi := b.Center.Sub(b.Extents), b.Center.Add(b.Extents)
	return [8]mesh.Point3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}
