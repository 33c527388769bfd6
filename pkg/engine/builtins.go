package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chazu/procmesh/pkg/kernel"
	"github.com/chazu/procmesh/pkg/mesh"
	"github.com/chazu/procmesh/pkg/scene"
	"github.com/chazu/procmesh/pkg/shape"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a point.
type sexpVec3 struct {
	vec mesh.Point3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpColor wraps a mesh.Color.
type sexpColor struct {
	c mesh.Color
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(color %g %g %g %g)", c.c[0], c.c[1], c.c[2], c.c[3])
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// sexpOp is a deferred builder operation. Ops are collected by `mesh` and
// replayed against a fresh part on every rebuild.
type sexpOp struct {
	desc  string
	apply func(p *mesh.Part) error
}

func (o *sexpOp) SexpString(ps *zygo.PrintState) string {
	return "(" + o.desc + " ...)"
}
func (o *sexpOp) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel.Solid.
type sexpSolid struct {
	desc  string
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return "(" + s.desc + ")"
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpMeshRef names a mesh registered in the scene.
type sexpMeshRef struct {
	name string
}

func (m *sexpMeshRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(meshref %q)", m.name)
}
func (m *sexpMeshRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Trailing keyword with no value is a flag.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// number returns keyword k as a number, or def when absent.
func (a kwArgs) number(k string, def float64) (float64, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

// integer returns keyword k as an integer, or def when absent.
func (a kwArgs) integer(k string, def int) (int, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	n, ok := v.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("%s: expected integer, got %T (%s)", k, v, v.SexpString(nil))
	}
	return int(n.Val), nil
}

// point returns keyword k as a point, or def when absent.
func (a kwArgs) point(k string, def mesh.Point3) (mesh.Point3, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	p, err := toVec3(v)
	if err != nil {
		return mesh.Point3{}, fmt.Errorf("%s: %w", k, err)
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected keyword or string: %w", err)
	}
	return strings.TrimPrefix(str, kwPrefix), nil
}

// toAxis converts :x, :y or :z to a mesh.Axis.
func toAxis(s zygo.Sexp) (mesh.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	switch name {
	case "x":
		return mesh.AxisX, nil
	case "y":
		return mesh.AxisY, nil
	case "z":
		return mesh.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toVec3 extracts a point from a sexpVec3.
func toVec3(s zygo.Sexp) (mesh.Point3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mesh.Point3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toColor extracts a color from a sexpColor.
func toColor(s zygo.Sexp) (mesh.Color, error) {
	if c, ok := s.(*sexpColor); ok {
		return c.c, nil
	}
	return mesh.Color{}, fmt.Errorf("expected color, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toPoints converts every arg to a point.
func toPoints(args []zygo.Sexp) ([]mesh.Point3, error) {
	pts := make([]mesh.Point3, len(args))
	for i, a := range args {
		v, err := toVec3(a)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i+1, err)
		}
		pts[i] = v
	}
	return pts, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// positive rejects sizes that sdfx would panic on.
func positive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %g", name, v)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// zfunc is the zygomys builtin signature.
type zfunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// builtin wraps fn so every error it returns is prefixed with the script
// name of the builtin.
func builtin(script string, fn func(args []zygo.Sexp) (zygo.Sexp, error)) zfunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		out, err := fn(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", script, err)
		}
		return out, nil
	}
}

// registerBuiltins installs all procmesh builtins into a zygomys
// environment. `mesh` forms register their entries in s; solid builtins
// use k.
//
// Source must be preprocessed with preprocessSource() first, so kebab-case
// names are registered in their underscore form.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene, k kernel.Kernel) {
	registerValues(env)
	registerPrimitives(env)
	registerShapes(env)
	registerSolids(env, k)
	registerMesh(env, s)
}

func registerValues(env *zygo.Zlisp) {
	// (vec3 x y z)
	env.AddFunction("vec3", builtin("vec3", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, fmt.Errorf("%c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: mesh.Point3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	}))

	// (color r g b) or (color r g b a)
	env.AddFunction("color", builtin("color", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return nil, fmt.Errorf("requires 3 or 4 arguments, got %d", len(args))
		}
		c := mesh.White
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, fmt.Errorf("%c: %w", "rgba"[i], err)
			}
			c[i] = float32(f)
		}
		return &sexpColor{c: c}, nil
	}))

	// (paint (color ...))
	env.AddFunction("paint", builtin("paint", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a color argument")
		}
		c, err := toColor(args[0])
		if err != nil {
			return nil, err
		}
		return &sexpOp{desc: "paint", apply: func(p *mesh.Part) error {
			p.SetColor(c)
			return nil
		}}, nil
	}))

	// (planar-uv :axis :y :scale 1)
	env.AddFunction("planar_uv", builtin("planar-uv", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		axis := mesh.AxisY
		if v, ok := pa.kw["axis"]; ok {
			a, err := toAxis(v)
			if err != nil {
				return nil, fmt.Errorf("axis: %w", err)
			}
			axis = a
		}
		scale, err := pa.number("scale", 1)
		if err != nil {
			return nil, err
		}
		m := mesh.PlanarUV(axis, scale)
		return &sexpOp{desc: "planar-uv", apply: func(p *mesh.Part) error {
			p.SetUVMapper(m)
			return nil
		}}, nil
	}))
}

// polygonOp builds the op for a fixed-size polygon builtin. With :height
// the footprint is extruded instead of added flat.
func polygonOp(script string, n int) zfunc {
	return builtin(script, func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != n {
			return nil, fmt.Errorf("requires %d points, got %d", n, len(pa.positional))
		}
		pts, err := toPoints(pa.positional)
		if err != nil {
			return nil, err
		}
		return footprintOp(script, pts, pa)
	})
}

// footprintOp returns an op that adds pts flat, or extruded by :height.
func footprintOp(script string, pts []mesh.Point3, pa kwArgs) (zygo.Sexp, error) {
	if _, ok := pa.kw["height"]; !ok {
		return &sexpOp{desc: script, apply: func(p *mesh.Part) error {
			return p.AddPolygon(pts...)
		}}, nil
	}
	h, err := pa.number("height", 0)
	if err != nil {
		return nil, err
	}
	return &sexpOp{desc: script, apply: func(p *mesh.Part) error {
		return p.ExtrudePolygon(pts, h)
	}}, nil
}

func registerPrimitives(env *zygo.Zlisp) {
	// (triangle a b c [:height h])
	env.AddFunction("triangle", polygonOp("triangle", 3))
	// (quad lb lt rt rb [:height h])
	env.AddFunction("quad", polygonOp("quad", 4))
	// (pentagon a b c d e [:height h])
	env.AddFunction("pentagon", polygonOp("pentagon", 5))

	// (polygon (list p...) [:height h])
	env.AddFunction("polygon", builtin("polygon", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return nil, fmt.Errorf("requires one list of points")
		}
		items, err := sexpListToSlice(pa.positional[0])
		if err != nil {
			return nil, err
		}
		pts, err := toPoints(items)
		if err != nil {
			return nil, err
		}
		if len(pts) < 3 || len(pts) > 5 {
			return nil, fmt.Errorf("%w: %d points (want 3, 4 or 5)", mesh.ErrUnsupportedPolygon, len(pts))
		}
		return footprintOp("polygon", pts, pa)
	}))
}

func registerShapes(env *zygo.Zlisp) {
	// (box :at (vec3 ...) :size (vec3 ...))
	env.AddFunction("box", builtin("box", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		at, err := pa.point("at", mesh.Point3{})
		if err != nil {
			return nil, err
		}
		size, err := pa.point("size", mesh.Point3{X: 1, Y: 1, Z: 1})
		if err != nil {
			return nil, err
		}
		return &sexpOp{desc: "box", apply: func(p *mesh.Part) error {
			shape.Box(p, at, size)
			return nil
		}}, nil
	}))

	// (stairs :at v :steps n :width w :depth d :rise r)
	env.AddFunction("stairs", builtin("stairs", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		at, err := pa.point("at", mesh.Point3{})
		if err != nil {
			return nil, err
		}
		steps, err := pa.integer("steps", 3)
		if err != nil {
			return nil, err
		}
		width, err := pa.number("width", 1)
		if err != nil {
			return nil, err
		}
		depth, err := pa.number("depth", 0.3)
		if err != nil {
			return nil, err
		}
		rise, err := pa.number("rise", 0.2)
		if err != nil {
			return nil, err
		}
		return &sexpOp{desc: "stairs", apply: func(p *mesh.Part) error {
			return shape.Stairs(p, at, steps, width, depth, rise)
		}}, nil
	}))

	// (grid :at v :cols c :rows r :cell s)
	env.AddFunction("grid", builtin("grid", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		at, err := pa.point("at", mesh.Point3{})
		if err != nil {
			return nil, err
		}
		cols, err := pa.integer("cols", 1)
		if err != nil {
			return nil, err
		}
		rows, err := pa.integer("rows", 1)
		if err != nil {
			return nil, err
		}
		cell, err := pa.number("cell", 1)
		if err != nil {
			return nil, err
		}
		return &sexpOp{desc: "grid", apply: func(p *mesh.Part) error {
			return shape.Grid(p, at, cols, rows, cell)
		}}, nil
	}))
}

func registerSolids(env *zygo.Zlisp, k kernel.Kernel) {
	// withKernel fails solid builtins cleanly when no kernel is configured.
	withKernel := func(script string, fn func(args []zygo.Sexp) (zygo.Sexp, error)) zfunc {
		return builtin(script, func(args []zygo.Sexp) (zygo.Sexp, error) {
			if k == nil {
				return nil, fmt.Errorf("no solid kernel configured")
			}
			return fn(args)
		})
	}

	// numbers extracts exactly n positional numbers.
	numbers := func(args []zygo.Sexp, names ...string) ([]float64, error) {
		if len(args) != len(names) {
			return nil, fmt.Errorf("requires %d arguments (%s), got %d",
				len(names), strings.Join(names, " "), len(args))
		}
		out := make([]float64, len(args))
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", names[i], err)
			}
			if err := positive(names[i], f); err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}

	// (sdf-box x y z)
	env.AddFunction("sdf_box", withKernel("sdf-box", func(args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers(args, "x", "y", "z")
		if err != nil {
			return nil, err
		}
		return &sexpSolid{desc: "sdf-box", solid: k.Box(v[0], v[1], v[2])}, nil
	}))

	// (sdf-cylinder height radius)
	env.AddFunction("sdf_cylinder", withKernel("sdf-cylinder", func(args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers(args, "height", "radius")
		if err != nil {
			return nil, err
		}
		return &sexpSolid{desc: "sdf-cylinder", solid: k.Cylinder(v[0], v[1])}, nil
	}))

	// (sdf-sphere radius)
	env.AddFunction("sdf_sphere", withKernel("sdf-sphere", func(args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers(args, "radius")
		if err != nil {
			return nil, err
		}
		return &sexpSolid{desc: "sdf-sphere", solid: k.Sphere(v[0])}, nil
	}))

	// (union a b), (difference a b), (intersection a b)
	boolean := func(script string, op func(a, b kernel.Solid) kernel.Solid) {
		env.AddFunction(script, withKernel(script, func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("requires 2 solids, got %d", len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return nil, err
			}
			b, err := toSolid(args[1])
			if err != nil {
				return nil, err
			}
			return &sexpSolid{desc: script, solid: op(a, b)}, nil
		}))
	}
	boolean("union", func(a, b kernel.Solid) kernel.Solid { return k.Union(a, b) })
	boolean("difference", func(a, b kernel.Solid) kernel.Solid { return k.Difference(a, b) })
	boolean("intersection", func(a, b kernel.Solid) kernel.Solid { return k.Intersection(a, b) })

	// (translate solid (vec3 ...)), (rotate solid (vec3 degrees...))
	transform := func(script string, op func(s kernel.Solid, x, y, z float64) kernel.Solid) {
		env.AddFunction(script, withKernel(script, func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("requires a solid and a vec3")
			}
			s, err := toSolid(args[0])
			if err != nil {
				return nil, err
			}
			v, err := toVec3(args[1])
			if err != nil {
				return nil, err
			}
			return &sexpSolid{desc: script, solid: op(s, v.X, v.Y, v.Z)}, nil
		}))
	}
	transform("translate", func(s kernel.Solid, x, y, z float64) kernel.Solid { return k.Translate(s, x, y, z) })
	transform("rotate", func(s kernel.Solid, x, y, z float64) kernel.Solid { return k.Rotate(s, x, y, z) })

	// (solid s) tessellates s once, on first use, and merges the result.
	env.AddFunction("solid", withKernel("solid", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires one solid")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return nil, err
		}
		var (
			once    sync.Once
			part    *mesh.Part
			partErr error
		)
		return &sexpOp{desc: "solid", apply: func(p *mesh.Part) error {
			once.Do(func() {
				part, partErr = k.ToPart(s)
			})
			if partErr != nil {
				return fmt.Errorf("solid: %w", partErr)
			}
			p.AddMeshPart(part)
			return nil
		}}, nil
	}))
}

// opsGenerator replays ops in order against a part.
type opsGenerator []*sexpOp

func (ops opsGenerator) Generate(p *mesh.Part) error {
	for i, op := range ops {
		if err := op.apply(p); err != nil {
			return fmt.Errorf("op %d (%s): %w", i+1, op.desc, err)
		}
	}
	return nil
}

func registerMesh(env *zygo.Zlisp, s *scene.Scene) {
	// includeOp merges a fresh build of a registered mesh.
	includeOp := func(name string) (*sexpOp, error) {
		e := s.Lookup(name)
		if e == nil {
			return nil, fmt.Errorf("no mesh named %q", name)
		}
		return &sexpOp{desc: "include-mesh " + name, apply: func(p *mesh.Part) error {
			sub := mesh.NewPart()
			if err := e.Generator.Generate(sub); err != nil {
				return err
			}
			p.AddMeshPart(sub)
			return nil
		}}, nil
	}

	// (include-mesh "name") or (include-mesh ref). Plain include is the
	// interpreter's file loader and is never shadowed.
	env.AddFunction("include_mesh", builtin("include-mesh", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a mesh name or reference")
		}
		name, err := meshName(args[0])
		if err != nil {
			return nil, err
		}
		return includeOp(name)
	}))

	// (mesh "name" [:color (color ...)] op...)
	env.AddFunction("mesh", builtin("mesh", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("requires a name argument")
		}
		name, err := toString(args[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		pa := parseArgs(args[1:])

		entry := &scene.Entry{Name: name}
		if v, ok := pa.kw["color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return nil, fmt.Errorf("color: %w", err)
			}
			entry.Color = c
		}

		var ops opsGenerator
		for i, arg := range pa.positional {
			op, err := toOps(arg, includeOp)
			if err != nil {
				return nil, fmt.Errorf("%q: body %d: %w", name, i+1, err)
			}
			ops = append(ops, op...)
		}
		entry.Generator = ops

		if err := s.Add(entry); err != nil {
			return nil, err
		}
		return &sexpMeshRef{name: name}, nil
	}))
}

// toOps flattens one body form of `mesh`: an op, a mesh reference
// (included), or a list of either.
func toOps(arg zygo.Sexp, include func(string) (*sexpOp, error)) ([]*sexpOp, error) {
	switch v := arg.(type) {
	case *sexpOp:
		return []*sexpOp{v}, nil
	case *sexpMeshRef:
		op, err := include(v.name)
		if err != nil {
			return nil, err
		}
		return []*sexpOp{op}, nil
	case *zygo.SexpPair, *zygo.SexpArray:
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, err
		}
		var ops []*sexpOp
		for _, item := range items {
			sub, err := toOps(item, include)
			if err != nil {
				return nil, err
			}
			ops = append(ops, sub...)
		}
		return ops, nil
	}
	return nil, fmt.Errorf("expected mesh operation, got %T (%s)", arg, arg.SexpString(nil))
}

// meshName accepts a mesh reference or a plain name.
func meshName(s zygo.Sexp) (string, error) {
	if ref, ok := s.(*sexpMeshRef); ok {
		return ref.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected mesh reference or name: %w", err)
	}
	return name, nil
}
