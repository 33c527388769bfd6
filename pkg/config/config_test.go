package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/procmesh/pkg/mesh"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p != Default() {
		t.Errorf("Load() = %+v, want defaults", p)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procmesh.yaml")
	if err := os.WriteFile(path, []byte("show_bounding_box: true\nmerge: verbatim\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !p.AutoUpdate {
		t.Error("AutoUpdate should keep its default")
	}
	if !p.ShowBoundingBox || p.Merge != "verbatim" {
		t.Errorf("Load() = %+v", p)
	}
	if p.MeshCells != Default().MeshCells {
		t.Errorf("MeshCells = %d, want default", p.MeshCells)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "auto_update: [\n"},
		{"unknown merge mode", "merge: sideways\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "procmesh.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			p, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if p != Default() {
				t.Errorf("Load() = %+v, want defaults on error", p)
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "procmesh.yaml")
	want := Prefs{AutoUpdate: false, ShowBoundingBox: true, Live: true, Merge: "verbatim", MeshCells: 64}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestSettings(t *testing.T) {
	p := Prefs{AutoUpdate: false, ShowBoundingBox: true, Merge: "verbatim"}
	s, err := p.Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if s.AutoUpdate || !s.ShowBoundingBox || s.Live {
		t.Errorf("Settings() = %+v", s)
	}
	if s.Merge != mesh.MergeVerbatim {
		t.Errorf("Merge = %v, want verbatim", s.Merge)
	}

	if _, err := (Prefs{Merge: "bogus"}).Settings(); err == nil {
		t.Error("expected error for unknown merge mode")
	}
}

func TestRepositoryConfigLoads(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", DefaultPath))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := p.Settings(); err != nil {
		t.Errorf("Settings() error = %v", err)
	}
}
