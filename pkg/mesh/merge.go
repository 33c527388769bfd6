package mesh

import "fmt"

// MergeMode selects how AddMeshPart treats the indices it copies.
type MergeMode int

const (
	// MergeRebase offsets every copied index by the destination's vertex
	// count at merge time, so merged triangles keep pointing at their own
	// vertices.
	MergeRebase MergeMode = iota

	// MergeVerbatim copies indices unchanged. Merging into a part that
	// already holds vertices then produces triangles that index the wrong
	// range. Only use it when reproducing geometry built that way.
	MergeVerbatim
)

func (m MergeMode) String() string {
	switch m {
	case MergeRebase:
		return "rebase"
	case MergeVerbatim:
		return "verbatim"
	default:
		return fmt.Sprintf("MergeMode(%d)", int(m))
	}
}

// ParseMergeMode converts "rebase" or "verbatim" to a MergeMode. The
// empty string selects MergeRebase.
func ParseMergeMode(s string) (MergeMode, error) {
	switch s {
	case "", "rebase":
		return MergeRebase, nil
	case "verbatim":
		return MergeVerbatim, nil
	}
	return MergeRebase, fmt.Errorf("mesh: unknown merge mode %q, expected rebase or verbatim", s)
}

// AddMeshPart appends other's accumulated vertices, triangles, UVs and
// colors to p. How triangle indices are copied depends on p's MergeMode.
//
// Attribute channels stay parallel to the vertices. When only one side
// carries colors or UVs, the other side's vertices are filled: p's own
// earlier vertices like SetColor and SetUVMapper back-fill them, and the
// merged vertices with p's brush (color, mapped UV) or White and (0, 0)
// when the brush channel is off.
//
// Merging a part into itself duplicates its contents.
func (p *Part) AddMeshPart(other *Part) {
	if other == nil {
		return
	}

	base := len(p.vertices)
	offset := 0
	if p.merge == MergeRebase {
		offset = base
	}

	// Snapshot lengths first so self-merge terminates.
	nv, nt, nu, nc := len(other.vertices), len(other.triangles), len(other.uvs), len(other.colors)
	merged := other.vertices[:nv]

	if nc > 0 || p.hasColorChannel() {
		for len(p.colors) < base {
			p.colors = append(p.colors, White)
		}
		p.colors = append(p.colors, other.colors[:nc]...)
		fill := White
		if p.brush.hasColor {
			fill = p.brush.color
		}
		for i := nc; i < nv; i++ {
			p.colors = append(p.colors, fill)
		}
	}

	if nu > 0 || p.hasUVChannel() {
		for len(p.uvs) < base {
			p.uvs = append(p.uvs, Point2{})
		}
		p.uvs = append(p.uvs, other.uvs[:nu]...)
		for i := nu; i < nv; i++ {
			var uv Point2
			if p.brush.mapper != nil {
				uv = p.brush.mapper.MapUV(merged[i])
			}
			p.uvs = append(p.uvs, uv)
		}
	}

	p.vertices = append(p.vertices, merged...)
	for _, idx := range other.triangles[:nt] {
		p.triangles = append(p.triangles, idx+offset)
	}
}
