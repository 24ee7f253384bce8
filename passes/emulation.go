// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"fmt"
	"slices"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
)

var (
	fragmentOnly = []ast.ShaderStage{ast.StageFragment}
	vertexOnly   = []ast.ShaderStage{ast.StageVertex}
	needsDriver  = []pipeline.Invariant{pipeline.DriverUniformsDeclared}
)

func optionSet(o pipeline.Options) func(*pipeline.Compilation) bool {
	return func(c *pipeline.Compilation) bool { return c.Options.Has(o) }
}

// ReplaceDepthRange makes gl_DepthRange read the depth range the driver
// passes in its uniform block.
func ReplaceDepthRange() pipeline.Pass {
	return pipeline.Pass{
		Name:     "ReplaceDepthRange",
		Requires: needsDriver,
		Run:      replaceDepthRange,
	}
}

func replaceDepthRange(c *pipeline.Compilation) error {
	v, ok := c.Symbols.FindBuiltInVariable(builtins.GlDepthRange)
	if !ok {
		return nil
	}
	if !c.DriverUniforms.IsValid() {
		return pipeline.Preconditionf("driver uniforms are not declared")
	}
	return replaceSymbols(c.Tree, func(_ *ast.Traverser, ref ast.VariableID) (ast.NodeID, bool) {
		if ref != v {
			return ast.NoNode, false
		}
		n, _ := c.DriverUniformField(DriverDepthRange)
		return n, true
	})
}

// FlipFragCoord replaces gl_FragCoord with a copy whose xy is flipped (and
// rotated when pre-rotation is on) around the center of the render area.
func FlipFragCoord() pipeline.Pass {
	return pipeline.Pass{
		Name:     "FlipFragCoord",
		Stages:   fragmentOnly,
		Requires: needsDriver,
		Run: func(c *pipeline.Compilation) error {
			return flipBuiltIn(c, builtins.GlFragCoord, "fragCoord", DriverFlipXY, func() (ast.NodeID, error) {
				return c.DriverUniformField(DriverHalfRenderArea)
			})
		},
	}
}

// FlipPointCoord replaces gl_PointCoord with a copy flipped around (0.5, 0.5)
// by the driver's negated flip.
func FlipPointCoord() pipeline.Pass {
	return pipeline.Pass{
		Name:     "FlipPointCoord",
		Stages:   fragmentOnly,
		Requires: needsDriver,
		Run: func(c *pipeline.Compilation) error {
			return flipBuiltIn(c, builtins.GlPointCoord, "pointCoord", DriverNegFlipXY, func() (ast.NodeID, error) {
				return c.Tree.FloatConst(0.5, 0.5), nil
			})
		},
	}
}

// flipBuiltIn declares a global copy of a built-in input, fills it at the
// start of main with
//
//	copy = gl_X;
//	copy.xy = (gl_X.xy - pivot) * flip + pivot;
//
// where flip is the driver field flipField, and redirects every other
// reference to the copy. With pre-rotation, gl_X.xy is multiplied by
// fragRotation before the pivot is subtracted.
func flipBuiltIn(c *pipeline.Compilation, id builtins.ID, name string, flipField int, pivot func() (ast.NodeID, error)) error {
	tree := c.Tree
	orig, u := builtinUse(tree, scanUses(tree), id)
	if !u.used() {
		return nil
	}
	vec2 := floatType(2)

	p1, err := pivot()
	if err != nil {
		return err
	}
	p2, _ := pivot()
	flip, err := c.DriverUniformField(flipField)
	if err != nil {
		return err
	}

	xy := tree.Swizzle(tree.Sym(orig), 0, 1)
	if c.Options.Has(pipeline.AddPreRotation) {
		rot, _ := c.DriverUniformField(DriverFragRotation)
		xy = tree.Binary(ast.OpMatrixTimesVector, rot, xy, vec2)
	}
	d := tree.Binary(ast.OpSub, xy, p1, vec2)
	flipped := tree.Binary(ast.OpAdd, tree.Binary(ast.OpMul, d, flip, vec2), p2, vec2)

	typ := c.Symbols.Variable(orig).Type.WithQualifier(ast.QualGlobal)
	cp := c.Symbols.NewVariable(InternalPrefix+name, ast.SymbolInternal, typ)
	if err := redirect(tree, orig, cp); err != nil {
		return err
	}
	tree.InsertGlobalsAtTop(tree.Declare(cp, ast.NoNode))
	return tree.RunAtStartOfMain(
		tree.Assign(tree.Sym(cp), tree.Sym(orig)),
		tree.Assign(tree.Swizzle(tree.Sym(cp), 0, 1), flipped),
	)
}

// FlipDerivatives multiplies every dFdy() by the driver's y flip.
func FlipDerivatives() pipeline.Pass {
	return pipeline.Pass{
		Name:     "FlipDerivatives",
		Stages:   fragmentOnly,
		Requires: needsDriver,
		Run:      flipDerivatives,
	}
}

func flipDerivatives(c *pipeline.Compilation) error {
	tree := c.Tree
	var err error
	tr := ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		a, ok := tree.Data(id).(*ast.Aggregate)
		if !ok || a.Op != ast.OpDFdy || err != nil {
			return err == nil
		}
		var flipY ast.NodeID
		flipY, err = driverFieldSwizzle(c, DriverFlipXY, 1)
		if err != nil {
			return false
		}
		typ := tree.TypeOf(id).WithQualifier(ast.QualTemporary)
		op := ast.OpMul
		if typ.IsVector() {
			op = ast.OpVectorTimesScalar
		}
		t.QueueReplace(tree.Binary(op, id, flipY, typ), ast.OriginalBecomesChild)
		return true
	}))
	if err != nil {
		return err
	}
	return tr.UpdateTree()
}

// EmulateFragOutputs replaces gl_FragColor and gl_FragData[i] with
// internal outputs at explicit locations.
func EmulateFragOutputs() pipeline.Pass {
	return pipeline.Pass{
		Name:   "EmulateFragOutputs",
		Stages: fragmentOnly,
		Run:    emulateFragOutputs,
	}
}

func fragOutput(c *pipeline.Compilation, name string, location int) ast.VariableID {
	typ := ast.Vector(ast.BasicFloat, 4, ast.QualFragmentOut)
	typ.Precision = ast.PrecisionMedium
	typ.Layout.Location = location
	return c.Symbols.NewVariable(name, ast.SymbolInternal, typ)
}

//nolint:gocognit // gl_FragColor and gl_FragData share the checks
func emulateFragOutputs(c *pipeline.Compilation) error {
	tree := c.Tree
	uses := scanUses(tree)
	color, colorUse := builtinUse(tree, uses, builtins.GlFragColor)
	data, dataUse := builtinUse(tree, uses, builtins.GlFragData)
	if colorUse.used() && dataUse.used() {
		return c.Semanticf(tree.Loc(dataUse.nodes[0]), "gl_FragData", "cannot be used together with gl_FragColor")
	}

	if colorUse.used() {
		out := fragOutput(c, InternalPrefix+"fragColor", 0)
		if err := redirect(tree, color, out); err != nil {
			return err
		}
		tree.InsertGlobalsAtTop(tree.Declare(out, ast.NoNode))
		return nil
	}
	if !dataUse.used() {
		return nil
	}

	outputs := make(map[int]ast.VariableID)
	var semErr error
	tr := ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		if semErr != nil {
			return false
		}
		s, ok := tree.Data(id).(*ast.Symbol)
		if !ok || s.Var != data || isDeclarator(t) {
			return true
		}
		idx, ok := tree.Data(t.Parent()).(*ast.Binary)
		if !ok || !idx.Op.IsIndex() || idx.Left != id {
			semErr = c.Semanticf(tree.Loc(id), "gl_FragData", "must be indexed")
			return false
		}
		i, ok := tree.ConstIndex(idx.Right)
		switch {
		case !ok:
			semErr = c.Semanticf(tree.Loc(id), "gl_FragData", "index must be a constant expression")
			return false
		case i < 0 || i >= c.Resources.MaxDrawBuffers:
			semErr = c.Semanticf(tree.Loc(id), "gl_FragData", "index %d is out of range", i)
			return false
		}
		out, ok := outputs[i]
		if !ok {
			out = fragOutput(c, fmt.Sprintf("%sfragData_%d", InternalPrefix, i), i)
			outputs[i] = out
		}
		t.Edits.Replace(t.Ancestor(2), t.Parent(), tree.Sym(out), ast.OriginalDropped)
		return false
	}))
	if semErr != nil {
		return semErr
	}
	if err := tr.UpdateTree(); err != nil {
		return err
	}

	locs := make([]int, 0, len(outputs))
	for i := range outputs {
		locs = append(locs, i)
	}
	slices.Sort(locs)
	decls := make([]ast.NodeID, len(locs))
	for j, i := range locs {
		decls[j] = tree.Declare(outputs[i], ast.NoNode)
	}
	tree.InsertGlobalsAtTop(decls...)
	return nil
}

// positionPass builds a vertex pass that appends statements updating
// gl_Position at the end of main, when the shader writes gl_Position.
func positionPass(name string, enabled func(*pipeline.Compilation) bool,
	build func(c *pipeline.Compilation, pos ast.VariableID) ([]ast.NodeID, error)) pipeline.Pass {
	return pipeline.Pass{
		Name:     name,
		Stages:   vertexOnly,
		Enabled:  enabled,
		Requires: needsDriver,
		Run: func(c *pipeline.Compilation) error {
			pos, u := builtinUse(c.Tree, scanUses(c.Tree), builtins.GlPosition)
			if !u.written() {
				return nil
			}
			stmts, err := build(c, pos)
			if err != nil {
				return err
			}
			return c.Tree.RunAtEndOfMain(stmts...)
		},
	}
}

// AppendPreRotation rotates gl_Position.xy by the driver's pre-rotation
// matrix.
func AppendPreRotation() pipeline.Pass {
	return positionPass("AppendPreRotation", optionSet(pipeline.AddPreRotation),
		func(c *pipeline.Compilation, pos ast.VariableID) ([]ast.NodeID, error) {
			tree := c.Tree
			rot, err := c.DriverUniformField(DriverPreRotation)
			if err != nil {
				return nil, err
			}
			rotated := tree.Binary(ast.OpMatrixTimesVector, rot, tree.Swizzle(tree.Sym(pos), 0, 1), floatType(2))
			return []ast.NodeID{tree.Assign(tree.Swizzle(tree.Sym(pos), 0, 1), rotated)}, nil
		})
}

// FlipPositionY multiplies gl_Position.y by the driver's negated y flip.
func FlipPositionY() pipeline.Pass {
	return positionPass("FlipPositionY", nil,
		func(c *pipeline.Compilation, pos ast.VariableID) ([]ast.NodeID, error) {
			tree := c.Tree
			negY, err := driverFieldSwizzle(c, DriverNegFlipXY, 1)
			if err != nil {
				return nil, err
			}
			flipped := tree.Binary(ast.OpMul, tree.Swizzle(tree.Sym(pos), 1), negY, floatType(1))
			return []ast.NodeID{tree.Assign(tree.Swizzle(tree.Sym(pos), 1), flipped)}, nil
		})
}

// TransformDepth maps gl_Position.z from [-w, w] to [0, w].
func TransformDepth() pipeline.Pass {
	return positionPass("TransformDepth", optionSet(pipeline.TransformDepth),
		func(c *pipeline.Compilation, pos ast.VariableID) ([]ast.NodeID, error) {
			tree := c.Tree
			f := floatType(1)
			sum := tree.Binary(ast.OpAdd, tree.Swizzle(tree.Sym(pos), 2), tree.Swizzle(tree.Sym(pos), 3), f)
			half := tree.Binary(ast.OpMul, sum, tree.FloatConst(0.5), f)
			return []ast.NodeID{tree.Assign(tree.Swizzle(tree.Sym(pos), 2), half)}, nil
		})
}

// ClampPointSize clamps a written gl_PointSize to [1, MaxPointSize].
func ClampPointSize() pipeline.Pass {
	return pipeline.Pass{
		Name:    "ClampPointSize",
		Stages:  vertexOnly,
		Enabled: optionSet(pipeline.ClampPointSize),
		Run:     clampPointSize,
	}
}

func clampPointSize(c *pipeline.Compilation) error {
	tree := c.Tree
	ps, u := builtinUse(tree, scanUses(tree), builtins.GlPointSize)
	if !u.written() {
		return nil
	}
	clamped := tree.CallBuiltIn(builtins.FnClampFFF,
		tree.Sym(ps), tree.FloatConst(1), tree.FloatConst(c.Resources.MaxPointSize))
	return tree.RunAtEndOfMain(tree.Assign(tree.Sym(ps), clamped))
}
