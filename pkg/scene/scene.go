// Package scene holds the named meshes produced by a script evaluation and
// builds each one through a procedural.Mesh.
package scene

import (
	"fmt"

	"github.com/chazu/procmesh/pkg/mesh"
	"github.com/chazu/procmesh/pkg/procedural"
)

// Entry is one named mesh in a scene.
type Entry struct {
	Name      string
	Color     mesh.Color // zero when the script set none
	Generator procedural.Generator
}

// Scene is an ordered set of named entries. It is never mutated after
// evaluation completes; each evaluation produces a new scene.
type Scene struct {
	Entries   []*Entry
	NameIndex map[string]int
	Version   uint64
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		NameIndex: make(map[string]int),
	}
}

// Add appends an entry. Names must be unique and non-empty.
func (s *Scene) Add(e *Entry) error {
	if e.Name == "" {
		return fmt.Errorf("scene: entry has no name")
	}
	if _, dup := s.NameIndex[e.Name]; dup {
		return fmt.Errorf("scene: duplicate mesh name %q", e.Name)
	}
	s.NameIndex[e.Name] = len(s.Entries)
	s.Entries = append(s.Entries, e)
	return nil
}

// Lookup returns the entry with the given name, or nil.
func (s *Scene) Lookup(name string) *Entry {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Entries[i]
}

// Len returns the number of entries.
func (s *Scene) Len() int {
	return len(s.Entries)
}

// Result is one built entry.
type Result struct {
	Name     string
	Color    mesh.Color
	Snapshot procedural.Snapshot
}

// Instance keeps one procedural.Mesh per entry of a scene so rebuilds
// and settings changes reach the same meshes and their generations keep
// counting. It is not safe for concurrent use.
type Instance struct {
	scene  *Scene
	meshes []*procedural.Mesh
}

// NewInstance prepares a mesh for every entry of s. Nothing is built
// until Init or Rebuild.
func NewInstance(s *Scene, settings procedural.Settings, opts ...procedural.Option) *Instance {
	inst := &Instance{scene: s}
	if s == nil {
		return inst
	}
	inst.meshes = make([]*procedural.Mesh, len(s.Entries))
	for i, e := range s.Entries {
		inst.meshes[i] = procedural.New(e.Generator, settings, opts...)
	}
	return inst
}

// Scene returns the scene the instance was created from.
func (inst *Instance) Scene() *Scene {
	return inst.scene
}

// Init builds every entry for the first time.
func (inst *Instance) Init() ([]Result, error) {
	return inst.each(func(m *procedural.Mesh) (procedural.Snapshot, error) {
		return m.OnInit()
	})
}

// Rebuild builds every entry again with its current settings.
func (inst *Instance) Rebuild() ([]Result, error) {
	return inst.each(func(m *procedural.Mesh) (procedural.Snapshot, error) {
		return m.Rebuild()
	})
}

// OnConfigChanged hands settings to every mesh. The bool reports whether
// they rebuilt, which follows settings.AutoUpdate.
func (inst *Instance) OnConfigChanged(settings procedural.Settings) ([]Result, bool, error) {
	rebuilt := false
	results, err := inst.each(func(m *procedural.Mesh) (procedural.Snapshot, error) {
		snap, ran, err := m.OnConfigChanged(settings)
		rebuilt = rebuilt || ran
		return snap, err
	})
	return results, rebuilt, err
}

// each runs step on the meshes in entry order and stops at the first
// failure.
func (inst *Instance) each(step func(*procedural.Mesh) (procedural.Snapshot, error)) ([]Result, error) {
	results := make([]Result, 0, len(inst.meshes))
	for i, m := range inst.meshes {
		e := inst.scene.Entries[i]
		snap, err := step(m)
		if err != nil {
			return nil, fmt.Errorf("scene: building %q: %w", e.Name, err)
		}
		results = append(results, Result{Name: e.Name, Color: e.Color, Snapshot: snap})
	}
	return results, nil
}

// Build builds every entry of s once with the given settings. It stops
// at the first failing entry.
func Build(s *Scene, settings procedural.Settings) ([]Result, error) {
	if s == nil {
		return nil, nil
	}
	return NewInstance(s, settings).Init()
}
