package mesh

import "fmt"

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Gray  = Color{0.5, 0.5, 0.5, 1}
)

// RGBA builds a Color from its components.
func RGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%.3g, %.3g, %.3g, %.3g)", c[0], c[1], c[2], c[3])
}

// UVMapper projects a vertex position to a texture coordinate.
type UVMapper interface {
	MapUV(v Point3) Point2
}

// UVMapperFunc adapts a function to UVMapper.
type UVMapperFunc func(v Point3) Point2

// MapUV calls f(v).
func (f UVMapperFunc) MapUV(v Point3) Point2 {
	return f(v)
}

// Axis names a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// PlanarUV projects onto the plane perpendicular to axis and scales the
// result. For AxisY, a vertex (x, y, z) maps to (x*scale, z*scale).
func PlanarUV(axis Axis, scale float64) UVMapper {
	return UVMapperFunc(func(v Point3) Point2 {
		switch axis {
		case AxisX:
			return Point2{X: v.Z * scale, Y: v.Y * scale}
		case AxisZ:
			return Point2{X: v.X * scale, Y: v.Y * scale}
		default:
			return Point2{X: v.X * scale, Y: v.Z * scale}
		}
	})
}

// brush holds the per-vertex attributes recorded alongside new vertices.
type brush struct {
	hasColor bool
	color    Color
	mapper   UVMapper
}

// SetColor makes every vertex added from now on carry c. If the part
// already holds vertices without colors they are back-filled with White
// so colors stays parallel to vertices.
func (p *Part) SetColor(c Color) {
	for len(p.colors) < len(p.vertices) {
		p.colors = append(p.colors, White)
	}
	p.brush.hasColor = true
	p.brush.color = c
}

// ClearColor turns the color brush off. Colors already recorded are kept
// and vertices added from now on get White, so the channel stays parallel.
func (p *Part) ClearColor() {
	p.brush.hasColor = false
}

// SetUVMapper makes every vertex added from now on carry m's projection.
// Vertices already present without UVs are back-filled with (0, 0). A nil
// mapper turns the brush off; once the part holds UVs, later vertices get
// (0, 0).
func (p *Part) SetUVMapper(m UVMapper) {
	if m != nil {
		for len(p.uvs) < len(p.vertices) {
			p.uvs = append(p.uvs, Point2{})
		}
	}
	p.brush.mapper = m
}

// hasColorChannel reports whether p records colors, either through the
// brush or because it already holds some.
func (p *Part) hasColorChannel() bool {
	return p.brush.hasColor || len(p.colors) > 0
}

// hasUVChannel is hasColorChannel for UVs.
func (p *Part) hasUVChannel() bool {
	return p.brush.mapper != nil || len(p.uvs) > 0
}
