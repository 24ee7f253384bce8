// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
)

var distanceStages = []ast.ShaderStage{ast.StageVertex, ast.StageFragment}

// ReplaceClipDistance backs gl_ClipDistance with an internal array. The
// vertex stage copies it out at the end of main, writing 0.0 to every
// distance the driver has not enabled; the fragment stage copies it in at
// the start.
func ReplaceClipDistance() pipeline.Pass {
	return pipeline.Pass{
		Name:     "ReplaceClipDistance",
		Stages:   distanceStages,
		Requires: needsDriver,
		Run: func(c *pipeline.Compilation) error {
			return replaceDistance(c, builtins.GlClipDistance, c.Resources.MaxClipDistances)
		},
	}
}

// ReplaceCullDistance backs gl_CullDistance with an internal array.
func ReplaceCullDistance() pipeline.Pass {
	return pipeline.Pass{
		Name:   "ReplaceCullDistance",
		Stages: distanceStages,
		Run: func(c *pipeline.Compilation) error {
			return replaceDistance(c, builtins.GlCullDistance, c.Resources.MaxCullDistances)
		},
	}
}

//nolint:gocognit,cyclop // sizing, redirection and both copy directions
func replaceDistance(c *pipeline.Compilation, id builtins.ID, limit int) error {
	tree, syms := c.Tree, c.Symbols
	v, u := builtinUse(tree, scanUses(tree), id)
	if !u.used() {
		return nil
	}
	name := builtins.Name(id)

	parents := tree.Parents(tree.Root)
	maxIndex, dynamic := -1, ast.NoNode
	for _, n := range u.nodes {
		if b, ok := tree.Data(parents[n]).(*ast.Binary); ok && b.Op.IsIndex() && b.Left == n {
			if i, ok := tree.ConstIndex(b.Right); ok {
				maxIndex = max(maxIndex, i)
				continue
			}
		}
		if !dynamic.IsValid() {
			dynamic = n
		}
	}

	size := int(syms.Variable(v).Type.OuterArraySize())
	if size == 0 {
		if dynamic.IsValid() {
			return c.Semanticf(tree.Loc(dynamic), name, "unsized array must be redeclared with a size to be indexed with a non-constant expression")
		}
		size = maxIndex + 1
	}
	if size > limit {
		return c.Semanticf(tree.Loc(u.nodes[0]), name, "array size %d exceeds the maximum of %d", size, limit)
	}
	if maxIndex >= size {
		return c.Semanticf(tree.Loc(u.nodes[0]), name, "index %d is out of range", maxIndex)
	}
	if id == builtins.GlCullDistance {
		if clip, ok := syms.FindBuiltInVariable(builtins.GlClipDistance); ok {
			total := size + int(syms.Variable(clip).Type.OuterArraySize())
			if total > c.Resources.MaxCombinedClipAndCullDistances {
				return c.Semanticf(tree.Loc(u.nodes[0]), name, "combined clip and cull distances (%d) exceed the maximum of %d",
					total, c.Resources.MaxCombinedClipAndCullDistances)
			}
		}
	}

	vt := &syms.Variable(v).Type
	vt.ArraySizes = []uint32{uint32(size)}
	elem := vt.Element()
	elem.Qualifier = ast.QualGlobal

	local := InternalPrefix + name[len("gl_"):]
	arr := syms.NewVariable(local, ast.SymbolInternal, elem.ArrayOf(uint32(size)))
	if err := redirect(tree, v, arr); err != nil {
		return err
	}
	tree.InsertGlobalsAtTop(tree.Declare(arr, ast.NoNode))

	stmts := make([]ast.NodeID, size)
	if c.Stage == ast.StageFragment {
		for i := range stmts {
			stmts[i] = tree.Assign(tree.Index(tree.Sym(arr), i), tree.Index(tree.Sym(v), i))
		}
		return tree.RunAtStartOfMain(stmts...)
	}

	var enabled ast.NodeID
	for i := range stmts {
		out := tree.Assign(tree.Index(tree.Sym(v), i), tree.Index(tree.Sym(arr), i))
		if id != builtins.GlClipDistance {
			stmts[i] = out
			continue
		}
		if !enabled.IsValid() {
			var err error
			if enabled, err = c.DriverUniformField(DriverClipDistancesEnabled); err != nil {
				return err
			}
		} else {
			enabled = tree.DeepCopy(enabled)
		}
		stmts[i] = tree.If(clipEnabled(tree, enabled, i),
			tree.NewBlock(out),
			tree.NewBlock(tree.Assign(tree.Index(tree.Sym(v), i), tree.FloatConst(0))))
	}
	return tree.RunAtEndOfMain(stmts...)
}

// clipEnabled returns "(flags & (1u << i)) != 0u".
func clipEnabled(tree *ast.Tree, flags ast.NodeID, i int) ast.NodeID {
	uint1 := ast.Scalar(ast.BasicUInt, ast.QualTemporary)
	bit := tree.Binary(ast.OpBitShiftLeft, tree.UIntConst(1), tree.UIntConst(uint32(i)), uint1)
	masked := tree.Binary(ast.OpBitwiseAnd, flags, bit, uint1)
	return tree.Binary(ast.OpNotEqual, masked, tree.UIntConst(0), boolType())
}
