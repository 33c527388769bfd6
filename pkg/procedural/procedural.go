// Package procedural drives rebuilds of a generated mesh on behalf of a
// host. The host signals setup and settings changes; each rebuild runs the
// generator against a fresh mesh.Part, freezes it, and derives the
// diagnostic summary and bounding box the settings ask for.
package procedural

import (
	"fmt"
	"log"

	"github.com/chazu/procmesh/pkg/mesh"
)

// Generator fills an empty part with geometry.
type Generator interface {
	Generate(p *mesh.Part) error
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(p *mesh.Part) error

// Generate calls f(p).
func (f GeneratorFunc) Generate(p *mesh.Part) error {
	return f(p)
}

// Settings is host-owned configuration read at rebuild time.
type Settings struct {
	// AutoUpdate rebuilds whenever the host reports a settings change.
	AutoUpdate bool
	// ShowBoundingBox computes Snapshot.Bounds.
	ShowBoundingBox bool
	// Live marks the host's interactive loop. Summary and bounds are
	// skipped while it is set.
	Live bool
	// Position is the host-space origin of the mesh, applied to bounds.
	Position mesh.Point3
	// Merge is the merge mode given to every fresh part.
	Merge mesh.MergeMode
}

// DefaultSettings matches a freshly attached component: auto-update on,
// diagnostics off.
func DefaultSettings() Settings {
	return Settings{AutoUpdate: true}
}

// Snapshot is the outcome of one rebuild.
type Snapshot struct {
	Generation uint64
	Geometry   mesh.Geometry
	Summary    *mesh.Summary // nil when skipped
	Bounds     *BoundingBox  // nil when skipped or empty
}

// Mesh owns a generator and the result of its latest rebuild. It is not
// safe for concurrent use.
type Mesh struct {
	gen        Generator
	settings   Settings
	generation uint64
	last       Snapshot
	logger     *log.Logger
}

// Option configures a Mesh.
type Option func(*Mesh)

// WithLogger logs every rebuild to l.
func WithLogger(l *log.Logger) Option {
	return func(m *Mesh) {
		m.logger = l
	}
}

// New returns a Mesh that has not been built yet.
func New(gen Generator, s Settings, opts ...Option) *Mesh {
	m := &Mesh{gen: gen, settings: s}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Settings returns the current settings.
func (m *Mesh) Settings() Settings {
	return m.settings
}

// Last returns the most recent successful snapshot.
func (m *Mesh) Last() Snapshot {
	return m.last
}

// OnInit handles the host's setup event. It always rebuilds.
func (m *Mesh) OnInit() (Snapshot, error) {
	return m.Rebuild()
}

// OnConfigChanged stores s and rebuilds if s.AutoUpdate is set. The bool
// reports whether a rebuild ran.
func (m *Mesh) OnConfigChanged(s Settings) (Snapshot, bool, error) {
	m.settings = s
	if !s.AutoUpdate {
		return m.last, false, nil
	}
	snap, err := m.Rebuild()
	return snap, true, err
}

// Rebuild runs the generator against a fresh part and freezes it. On
// failure the previous snapshot stays in place.
func (m *Mesh) Rebuild() (Snapshot, error) {
	m.generation++
	gen := m.generation

	if m.gen == nil {
		return m.last, fmt.Errorf("procedural: rebuild %d: no generator", gen)
	}

	// The previous build is a good size estimate for the next one.
	prev := m.last.Geometry
	p := mesh.NewPart(
		mesh.WithMergeMode(m.settings.Merge),
		mesh.WithCapacity(len(prev.Vertices), len(prev.Triangles)),
	)
	if err := m.gen.Generate(p); err != nil {
		return m.last, fmt.Errorf("procedural: rebuild %d: generate: %w", gen, err)
	}

	g, err := p.Finalize()
	if err != nil {
		return m.last, fmt.Errorf("procedural: rebuild %d: %w", gen, err)
	}

	snap := Snapshot{Generation: gen, Geometry: g}
	if !m.settings.Live {
		sum := g.Summary()
		snap.Summary = &sum
		if m.settings.ShowBoundingBox {
			snap.Bounds = NewBoundingBox(g, m.settings.Position)
		}
	}

	m.last = snap
	if m.logger != nil {
		if snap.Summary != nil {
			m.logger.Printf("rebuild %d: %s", gen, snap.Summary)
		} else {
			m.logger.Printf("rebuild %d: done (live, diagnostics skipped)", gen)
		}
	}
	return snap, nil
}
