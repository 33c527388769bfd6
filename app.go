package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/chazu/procmesh/pkg/config"
	"github.com/chazu/procmesh/pkg/engine"
	"github.com/chazu/procmesh/pkg/export"
	"github.com/chazu/procmesh/pkg/kernel"
	"github.com/chazu/procmesh/pkg/kernel/sdfx"
	"github.com/chazu/procmesh/pkg/mesh"
	"github.com/chazu/procmesh/pkg/procedural"
	"github.com/chazu/procmesh/pkg/scene"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// RebuiltEvent is emitted to the frontend after every successful build.
const RebuiltEvent = "mesh:rebuilt"

// colorPalette is a default palette for meshes the script left uncolored.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx        context.Context
	configPath string
	logger     *log.Logger

	// mu guards the fields below and serializes work on inst.
	mu       sync.Mutex
	engine   *engine.Engine
	prefs    config.Prefs
	settings procedural.Settings
	source   string
	inst     *scene.Instance
	stale    bool // inst was built with an older kernel
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	kernel.Mesh
	Color      string        `json:"color"`
	Generation uint64        `json:"generation"`
	Summary    *mesh.Summary `json:"summary,omitempty"`
	Bounds     *BoundsData   `json:"bounds,omitempty"`
}

// BoundsData is a bounding box overlay for the frontend.
type BoundsData struct {
	Center  mesh.Point3    `json:"center"`
	Extents mesh.Point3    `json:"extents"`
	Corners [8]mesh.Point3 `json:"corners"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes  []MeshData      `json:"meshes"`
	Errors  []EvalErrorData `json:"errors"`
	Version uint64          `json:"version"`
	Rebuilt bool            `json:"rebuilt"`
}

// NewApp creates an App configured from the preferences file at
// configPath. Unreadable preferences fall back to defaults.
func NewApp(configPath string) *App {
	prefs, err := config.Load(configPath)
	if err != nil {
		log.Printf("Loading preferences: %v", err)
	}
	settings, err := prefs.Settings()
	if err != nil {
		log.Printf("Applying preferences: %v", err)
		settings = procedural.DefaultSettings()
	}
	return &App{
		engine:     newEngine(prefs),
		configPath: configPath,
		logger:     log.Default(),
		prefs:      prefs,
		settings:   settings,
	}
}

// newEngine returns an engine whose solids tessellate at p.MeshCells.
func newEngine(p config.Prefs) *engine.Engine {
	return engine.NewEngine(sdfx.New(sdfx.WithCells(p.MeshCells)))
}

// startup is called by Wails on app startup. The context is saved
// so we can emit runtime events later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// newResult returns an empty result with non-nil slices for JSON.
func newResult() EvalResult {
	return EvalResult{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
	}
}

// fail appends a location-less error.
func (r *EvalResult) fail(msg string) {
	r.Errors = append(r.Errors, EvalErrorData{Message: msg})
}

// Evaluate takes script source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	a.mu.Lock()
	eng := a.engine
	a.mu.Unlock()

	// Step 1: Evaluate the script into a scene of generators.
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.fail(err.Error())
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Build every mesh into a fresh instance and keep it for
	// later rebuilds.
	a.mu.Lock()
	defer a.mu.Unlock()
	inst := scene.NewInstance(s, a.settings, procedural.WithLogger(a.logger))
	a.source = source
	a.inst = inst
	a.stale = false
	results, err := inst.Init()
	return a.publish(s.Version, results, err)
}

// Rebuild rebuilds the last evaluated scene with the current settings
// without re-running the script.
func (a *App) Rebuild() EvalResult {
	a.mu.Lock()
	inst, stale, source := a.inst, a.stale, a.source
	if inst == nil {
		a.mu.Unlock()
		result := newResult()
		result.fail("nothing to rebuild: no script has been evaluated")
		return result
	}
	if stale {
		// Solids must be tessellated again by the current kernel.
		a.mu.Unlock()
		return a.Evaluate(source)
	}
	defer a.mu.Unlock()
	results, err := inst.Rebuild()
	return a.publish(inst.Scene().Version, results, err)
}

// Preferences returns the current preferences.
func (a *App) Preferences() config.Prefs {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefs
}

// UpdatePreferences stores and persists p. The last scene is rebuilt
// only when p enables auto update. A new mesh_cells value replaces the
// solid kernel, which re-evaluates the last script.
func (a *App) UpdatePreferences(p config.Prefs) EvalResult {
	result := newResult()
	settings, err := p.Settings()
	if err != nil {
		result.fail(err.Error())
		return result
	}
	if err := config.Save(a.configPath, p); err != nil {
		log.Printf("Saving preferences: %v", err)
		result.fail("saving preferences: " + err.Error())
		return result
	}

	a.mu.Lock()
	cellsChanged := p.MeshCells != a.prefs.MeshCells
	a.prefs = p
	a.settings = settings
	if cellsChanged {
		log.Printf("Mesh cells changed to %d, replacing the solid kernel", p.MeshCells)
		a.engine = newEngine(p)
		a.stale = a.inst != nil
	}
	inst, source := a.inst, a.source

	if inst == nil {
		a.mu.Unlock()
		return result
	}
	if cellsChanged {
		a.mu.Unlock()
		if !settings.AutoUpdate {
			return result
		}
		return a.Evaluate(source)
	}
	defer a.mu.Unlock()

	results, rebuilt, err := inst.OnConfigChanged(settings)
	if err == nil && !rebuilt {
		return result
	}
	return a.publish(inst.Scene().Version, results, err)
}

// publish converts the outcome of a build for the frontend and notifies
// it. The caller holds a.mu.
func (a *App) publish(version uint64, results []scene.Result, err error) EvalResult {
	result := newResult()
	result.Version = version

	if err != nil {
		log.Printf("Build error: %v", err)
		result.fail("build failed: " + err.Error())
		return result
	}

	for i, r := range results {
		md := MeshData{
			Mesh:       *kernel.FromGeometry(r.Name, r.Snapshot.Geometry),
			Color:      hexColor(r.Color, i),
			Generation: r.Snapshot.Generation,
			Summary:    r.Snapshot.Summary,
		}
		if b := r.Snapshot.Bounds; b != nil {
			md.Bounds = &BoundsData{Center: b.Center, Extents: b.Extents, Corners: b.Corners()}
		}
		result.Meshes = append(result.Meshes, md)
	}
	result.Rebuilt = true

	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, RebuiltEvent, result)
	}
	return result
}

// ExportSTL evaluates source, merges every mesh into one part and writes
// it to path. An empty source exports the last evaluated script.
func (a *App) ExportSTL(source, path string) error {
	a.mu.Lock()
	if source == "" {
		source = a.source
	}
	settings := a.settings
	eng := a.engine
	a.mu.Unlock()

	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if len(evalErrs) > 0 {
		return fmt.Errorf("export: %w", evalErrs[0])
	}

	// Bounds are not needed for export.
	settings.ShowBoundingBox = false
	results, err := scene.Build(s, settings)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	var nv, ni int
	for _, r := range results {
		nv += r.Snapshot.Geometry.VertexCount()
		ni += len(r.Snapshot.Geometry.Triangles)
	}
	combined := mesh.NewPart(mesh.WithMergeMode(settings.Merge), mesh.WithCapacity(nv, ni))
	for _, r := range results {
		g := r.Snapshot.Geometry
		// STL carries neither UVs nor colors.
		combined.AddMeshPart(mesh.NewPartFromArrays(g.Vertices, g.Triangles, nil, nil))
	}
	g, err := combined.Finalize()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := export.SaveSTL(path, g); err != nil {
		return err
	}
	log.Printf("Exported %d meshes (%s) to %s", len(results), g.Summary(), path)
	return nil
}

// hexColor formats c as #rrggbb, using the palette when c is unset.
func hexColor(c mesh.Color, i int) string {
	if c == (mesh.Color{}) {
		return colorPalette[i%len(colorPalette)]
	}
	to8 := func(f float32) int {
		switch {
		case f <= 0:
			return 0
		case f >= 1:
			return 255
		}
		return int(f*255 + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", to8(c[0]), to8(c[1]), to8(c[2]))
}
