// Package config loads and saves procmesh preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/procmesh/pkg/kernel/sdfx"
	"github.com/chazu/procmesh/pkg/mesh"
	"github.com/chazu/procmesh/pkg/procedural"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the preferences file, relative to the process working directory.
const DefaultPath = "config/procmesh.yaml"

// Prefs holds the host preferences persisted across runs.
type Prefs struct {
	AutoUpdate      bool   `yaml:"auto_update"`
	ShowBoundingBox bool   `yaml:"show_bounding_box"`
	Live            bool   `yaml:"live"`
	Merge           string `yaml:"merge,omitempty"`
	MeshCells       int    `yaml:"mesh_cells,omitempty"`
}

// Default returns the default preferences: auto update on, rebase merges,
// and the sdfx kernel's default resolution.
func Default() Prefs {
	return Prefs{
		AutoUpdate: true,
		Merge:      mesh.MergeRebase.String(),
		MeshCells:  sdfx.DefaultMeshCells,
	}
}

// Load reads preferences from path. A missing file yields Default() and no
// error; a malformed one yields Default() and the parse error. Keys absent
// from the file keep their default values.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if _, err := mesh.ParseMergeMode(p.Merge); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating its directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Settings converts the preferences to rebuild settings.
func (p Prefs) Settings() (procedural.Settings, error) {
	m, err := mesh.ParseMergeMode(p.Merge)
	if err != nil {
		return procedural.Settings{}, fmt.Errorf("config: %w", err)
	}
	s := procedural.DefaultSettings()
	s.AutoUpdate = p.AutoUpdate
	s.ShowBoundingBox = p.ShowBoundingBox
	s.Live = p.Live
	s.Merge = m
	return s, nil
}
