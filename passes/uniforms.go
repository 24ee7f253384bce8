// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"slices"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/pipeline"
)

// Driver uniform block names.
const (
	DriverUniformsBlock    = InternalPrefix + "DriverUniforms"
	DriverUniformsInstance = InternalPrefix + "driverUniforms"
)

// Members of the driver uniform block, the indices to pass to
// Compilation.DriverUniformField.
const (
	DriverViewport = iota
	DriverHalfRenderArea
	DriverFlipXY
	DriverNegFlipXY
	DriverDepthRange
	DriverPreRotation
	DriverFragRotation
	DriverClipDistancesEnabled
	DriverCoverageMask
)

// Default uniform block names.
const (
	DefaultUniformsBlock    = InternalPrefix + "DefaultUniforms"
	DefaultUniformsInstance = InternalPrefix + "defaultUniforms"
)

// Descriptor sets used by AssignBindings.
const (
	DriverUniformsSet  = 0
	DefaultUniformsSet = 1
	ResourceSet        = 2
)

// DeclareDriverUniforms declares the uniform block through which the
// runtime passes viewport, flip, rotation and depth range state, and
// records its instance in the compilation.
func DeclareDriverUniforms() pipeline.Pass {
	return pipeline.Pass{
		Name:     "DeclareDriverUniforms",
		Provides: []pipeline.Invariant{pipeline.DriverUniformsDeclared},
		Run:      declareDriverUniforms,
	}
}

func driverUniformFields(syms *ast.SymbolTable) []ast.Field {
	hp := func(t ast.Type) ast.Type {
		t.Precision = ast.PrecisionHigh
		return t
	}
	field := func(name string, t ast.Type) ast.Field {
		return ast.Field{Name: name, Type: t, Kind: ast.SymbolInternal}
	}
	return []ast.Field{
		DriverViewport:             field("viewport", hp(ast.Vector(ast.BasicFloat, 4, ast.QualTemporary))),
		DriverHalfRenderArea:       field("halfRenderArea", hp(ast.Vector(ast.BasicFloat, 2, ast.QualTemporary))),
		DriverFlipXY:               field("flipXY", hp(ast.Vector(ast.BasicFloat, 2, ast.QualTemporary))),
		DriverNegFlipXY:            field("negFlipXY", hp(ast.Vector(ast.BasicFloat, 2, ast.QualTemporary))),
		DriverDepthRange:           field("depthRange", ast.StructType(syms.DepthRangeStruct(), ast.QualTemporary)),
		DriverPreRotation:          field("preRotation", hp(ast.Matrix(2, 2, ast.QualTemporary))),
		DriverFragRotation:         field("fragRotation", hp(ast.Matrix(2, 2, ast.QualTemporary))),
		DriverClipDistancesEnabled: field("clipDistancesEnabled", hp(ast.Scalar(ast.BasicUInt, ast.QualTemporary))),
		DriverCoverageMask:         field("coverageMask", hp(ast.Scalar(ast.BasicUInt, ast.QualTemporary))),
	}
}

func declareDriverUniforms(c *pipeline.Compilation) error {
	if c.DriverUniforms.IsValid() {
		return nil
	}
	syms := c.Symbols
	b := syms.NewBlock(DriverUniformsBlock, ast.SymbolInternal, ast.QualUniform, driverUniformFields(syms)...)
	syms.Block(b).Layout.BlockStorage = ast.StorageStd140
	c.DriverUniforms = newGlobal(c.Tree, DriverUniformsInstance, ast.BlockType(b, ast.QualUniform))
	return nil
}

// SeparateStructSamplers flattens uniform structs that contain opaque
// members into one uniform per member: s.f becomes s_f and s[i].f becomes
// s_f[i]. Using such a uniform as a whole, passing such a struct to a
// function, or nesting opaque members in an inner struct is an error.
func SeparateStructSamplers() pipeline.Pass {
	return pipeline.Pass{
		Name:     "SeparateStructSamplers",
		Requires: []pipeline.Invariant{pipeline.DeclarationsSeparated},
		Provides: []pipeline.Invariant{pipeline.StructSamplersSeparated},
		Run:      separateStructSamplers,
	}
}

//nolint:gocognit,gocyclo,cyclop // one walk handles declarations, field selections and whole-struct uses
func separateStructSamplers(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols

	flattened := make(map[ast.VariableID][]ast.VariableID)
	replacements := make(map[ast.NodeID][]ast.NodeID)
	for _, s := range tree.Statements(tree.Root) {
		v, ok := declaredGlobal(tree, s)
		if !ok {
			continue
		}
		vr := *syms.Variable(v)
		if vr.Type.Qualifier != ast.QualUniform || !vr.Type.IsStruct() {
			continue
		}
		direct, nested := opaqueMembers(syms, vr.Type.Struct)
		if nested {
			return c.Semanticf(tree.Loc(s), vr.Name, "nested structs containing samplers are not supported")
		}
		if !direct {
			continue
		}
		st := syms.Struct(vr.Type.Struct)
		fieldVars := make([]ast.VariableID, len(st.Fields))
		decls := make([]ast.NodeID, len(st.Fields))
		for i, f := range st.Fields {
			ft := f.Type.Clone()
			ft.Qualifier = ast.QualUniform
			for j := len(vr.Type.ArraySizes) - 1; j >= 0; j-- {
				ft = ft.ArrayOf(vr.Type.ArraySizes[j])
			}
			fieldVars[i] = syms.NewVariable(vr.Name+"_"+f.Name, vr.Kind, ft)
			decls[i] = tree.Declare(fieldVars[i], ast.NoNode)
			tree.Node(decls[i]).Loc = tree.Loc(s)
		}
		flattened[v] = fieldVars
		replacements[s] = decls
	}
	if len(flattened) == 0 {
		return nil
	}

	// A selection whose index names another flattened uniform is rebuilt
	// around the old index, which is rewritten on the next walk.
	for {
		var (
			again  bool
			semErr error
		)
		tr := ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
			if semErr != nil {
				return false
			}
			switch d := tree.Data(id).(type) {
			case *ast.Declaration:
				if decls, ok := replacements[id]; ok {
					t.Edits.ReplaceMulti(t.Parent(), id, decls...)
					delete(replacements, id)
					return false
				}
			case *ast.FunctionPrototype:
				for _, p := range syms.Function(d.Func).Params {
					if pt := syms.Variable(p).Type; pt.IsStruct() && hasOpaque(syms, pt.Struct) {
						semErr = c.Semanticf(tree.Loc(id), syms.Function(d.Func).Name, "structs containing samplers cannot be passed to functions")
						return false
					}
				}
			case *ast.Binary:
				if d.Op != ast.OpIndexDirectStruct {
					return true
				}
				base, index := d.Left, ast.NoNode
				if ib, ok := tree.Data(base).(*ast.Binary); ok && (ib.Op == ast.OpIndexDirect || ib.Op == ast.OpIndexIndirect) {
					base, index = ib.Left, ib.Right
				}
				sym, ok := tree.Data(base).(*ast.Symbol)
				if !ok {
					return true
				}
				fieldVars, ok := flattened[sym.Var]
				if !ok {
					return true
				}
				field, ok := tree.ConstIndex(d.Right)
				if !ok || field < 0 || field >= len(fieldVars) {
					return true
				}
				repl := tree.Sym(fieldVars[field])
				if index.IsValid() {
					repl = tree.IndexBy(repl, index)
					again = again || mentions(tree, index, flattened)
				}
				t.QueueReplace(repl, ast.OriginalDropped)
				return false
			case *ast.Symbol:
				if _, ok := flattened[d.Var]; ok && !isDeclarator(t) {
					semErr = c.Semanticf(tree.Loc(id), syms.Variable(d.Var).Name, "uniform struct containing samplers used as a whole")
					return false
				}
			}
			return true
		}))
		if semErr != nil {
			return semErr
		}
		if err := tr.UpdateTree(); err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// opaqueMembers reports whether struct sid has opaque members of its own,
// and whether any nested struct member contains one.
func opaqueMembers(syms *ast.SymbolTable, sid ast.StructID) (direct, nested bool) {
	for _, f := range syms.Struct(sid).Fields {
		switch {
		case f.Type.Basic.IsOpaque():
			direct = true
		case f.Type.IsStruct() && hasOpaque(syms, f.Type.Struct):
			nested = true
		}
	}
	return direct, nested
}

func hasOpaque(syms *ast.SymbolTable, sid ast.StructID) bool {
	direct, nested := opaqueMembers(syms, sid)
	return direct || nested
}

func isOpaqueType(syms *ast.SymbolTable, t ast.Type) bool {
	return t.Basic.IsOpaque() || (t.IsStruct() && hasOpaque(syms, t.Struct))
}

// mentions reports whether the subtree at id references any key of vars.
func mentions(tree *ast.Tree, id ast.NodeID, vars map[ast.VariableID][]ast.VariableID) bool {
	if s, ok := tree.Data(id).(*ast.Symbol); ok {
		_, hit := vars[s.Var]
		return hit
	}
	for _, c := range tree.Children(id) {
		if c.IsValid() && mentions(tree, c, vars) {
			return true
		}
	}
	return false
}

// HoistDefaultUniforms moves the non-opaque uniforms of the default block
// into an explicit uniform block and rewrites their references into block
// field selections.
func HoistDefaultUniforms() pipeline.Pass {
	return pipeline.Pass{
		Name:     "HoistDefaultUniforms",
		Requires: []pipeline.Invariant{pipeline.StructsSorted, pipeline.StructSamplersSeparated},
		Provides: []pipeline.Invariant{pipeline.DefaultUniformsHoisted},
		Run:      hoistDefaultUniforms,
	}
}

func hoistDefaultUniforms(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols
	if c.DefaultUniforms.IsValid() {
		return nil
	}

	index := make(map[ast.VariableID]int)
	removed := make(map[ast.NodeID]bool)
	var fields []ast.Field
	for _, s := range tree.Statements(tree.Root) {
		v, ok := declaredGlobal(tree, s)
		if !ok {
			continue
		}
		vr := syms.Variable(v)
		if vr.Type.Qualifier != ast.QualUniform || vr.Type.IsInterfaceBlock() || isOpaqueType(syms, vr.Type) {
			continue
		}
		index[v] = len(fields)
		removed[s] = true
		fields = append(fields, ast.Field{
			Name: vr.Name,
			Type: vr.Type.WithQualifier(ast.QualTemporary),
			Loc:  tree.Loc(s),
			Kind: vr.Kind,
		})
	}
	if len(fields) == 0 {
		return nil
	}

	b := syms.NewBlock(DefaultUniformsBlock, ast.SymbolInternal, ast.QualUniform, fields...)
	syms.Block(b).Layout.BlockStorage = ast.StorageStd140
	inst := syms.NewVariable(DefaultUniformsInstance, ast.SymbolInternal, ast.BlockType(b, ast.QualUniform))
	c.DefaultUniforms = inst

	err := replaceSymbols(tree, func(t *ast.Traverser, v ast.VariableID) (ast.NodeID, bool) {
		i, ok := index[v]
		if !ok {
			return ast.NoNode, false
		}
		return t.Tree.BlockFieldAccess(t.Tree.Sym(inst), i), true
	})
	if err != nil {
		return err
	}

	stmts := tree.Statements(tree.Root)
	kept := make([]ast.NodeID, 0, len(stmts))
	for _, s := range stmts {
		if !removed[s] {
			kept = append(kept, s)
		}
	}
	pos := 0
	for pos < len(kept) {
		_, directive := tree.Data(kept[pos]).(*ast.PreprocessorDirective)
		if _, isStruct := structOnly(tree, kept[pos]); !directive && !isStruct {
			break
		}
		pos++
	}
	kept = slices.Insert(kept, pos, tree.Declare(inst, ast.NoNode))
	return tree.ReplaceChildren(tree.Root, kept)
}

// AssignBindings gives every resource a descriptor set and binding: the
// driver uniforms, the default uniforms, then uniform and buffer blocks and
// opaque uniforms in declaration order. Bindings the shader already chose
// are kept.
func AssignBindings() pipeline.Pass {
	return pipeline.Pass{
		Name:     "AssignBindings",
		Requires: []pipeline.Invariant{pipeline.DefaultUniformsHoisted, pipeline.DriverUniformsDeclared},
		Provides: []pipeline.Invariant{pipeline.BindingsAssigned},
		Run:      assignBindings,
	}
}

func assignBindings(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols
	setBinding := func(l *ast.Layout, set, binding int) {
		l.Set = set
		l.Binding = binding
	}
	if c.DriverUniforms.IsValid() {
		setBinding(&syms.Block(syms.Variable(c.DriverUniforms).Type.Block).Layout, DriverUniformsSet, 0)
	}
	if c.DefaultUniforms.IsValid() {
		setBinding(&syms.Block(syms.Variable(c.DefaultUniforms).Type.Block).Layout, DefaultUniformsSet, 0)
	}

	used := make(map[int]bool)
	var pending []*ast.Layout
	for _, s := range tree.Statements(tree.Root) {
		v, ok := declaredGlobal(tree, s)
		if !ok || v == c.DriverUniforms || v == c.DefaultUniforms {
			continue
		}
		l := resourceLayout(syms, v)
		if l == nil {
			continue
		}
		if l.Binding >= 0 {
			if l.Set < 0 {
				l.Set = ResourceSet
			}
			if l.Set == ResourceSet {
				used[l.Binding] = true
			}
			continue
		}
		pending = append(pending, l)
	}

	next := 0
	for _, l := range pending {
		for used[next] {
			next++
		}
		setBinding(l, ResourceSet, next)
		used[next] = true
	}
	return nil
}

// resourceLayout returns the layout that holds the binding of a resource
// variable, or nil if v is not a resource.
func resourceLayout(syms *ast.SymbolTable, v ast.VariableID) *ast.Layout {
	vr := syms.Variable(v)
	switch {
	case vr.Type.IsInterfaceBlock():
		b := syms.Block(vr.Type.Block)
		if b.Qualifier != ast.QualUniform && b.Qualifier != ast.QualBuffer {
			return nil
		}
		return &b.Layout
	case vr.Type.Qualifier == ast.QualUniform && vr.Type.Basic.IsOpaque():
		return &vr.Type.Layout
	}
	return nil
}
