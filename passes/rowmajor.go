// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
)

// RewriteRowMajorMatrices stores row-major matrices of uniform and buffer
// blocks as column-major transposes. Reads are wrapped in transpose() and
// whole-matrix assignments store the transpose of the assigned value.
// Matrices inside structs keep their layout.
func RewriteRowMajorMatrices() pipeline.Pass {
	return pipeline.Pass{
		Name:    "RewriteRowMajorMatrices",
		Enabled: func(c *pipeline.Compilation) bool { return c.Options.Has(pipeline.RewriteRowMajorMatrices) },
		Run:     rewriteRowMajorMatrices,
	}
}

var transposeIDs = map[[2]uint8]builtins.ID{
	{2, 2}: builtins.FnTransposeM22,
	{3, 3}: builtins.FnTransposeM33,
	{4, 4}: builtins.FnTransposeM44,
	{3, 4}: builtins.FnTransposeM34,
	{4, 3}: builtins.FnTransposeM43,
	{2, 3}: builtins.FnTransposeM23,
	{3, 2}: builtins.FnTransposeM32,
	{2, 4}: builtins.FnTransposeM24,
	{4, 2}: builtins.FnTransposeM42,
}

// transposeFunc returns the transpose() signature taking a matrix of t's
// shape.
func transposeFunc(t ast.Type) (builtins.ID, bool) {
	id, ok := transposeIDs[[2]uint8{t.Primary, t.Secondary}]
	return id, ok
}

func transposed(t ast.Type) ast.Type {
	t = t.Clone()
	t.Primary, t.Secondary = t.Secondary, t.Primary
	t.Layout.MatrixPacking = ast.PackingColumnMajor
	return t
}

type fieldKey struct {
	block ast.BlockID
	field int
}

// matrixAccess is one reference to a rewritten field: chain runs from the
// field selection up through array indexing to the matrix value.
type matrixAccess struct {
	chain  []ast.NodeID
	assign ast.NodeID
}

//nolint:gocognit,gocyclo,cyclop,funlen // collect, walk and retype in one place
func rewriteRowMajorMatrices(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols

	stored := make(map[fieldKey]ast.Type)
	for b := 1; b < syms.NumBlocks(); b++ {
		blk := syms.Block(ast.BlockID(b))
		if blk.Qualifier != ast.QualUniform && blk.Qualifier != ast.QualBuffer {
			continue
		}
		for i, f := range blk.Fields {
			if f.Type.Secondary < 2 || f.Type.Basic != ast.BasicFloat {
				continue
			}
			packing := f.Type.Layout.MatrixPacking
			if packing == ast.PackingUnspecified {
				packing = blk.Layout.MatrixPacking
			}
			if packing != ast.PackingRowMajor {
				continue
			}
			st := transposed(f.Type)
			if _, ok := transposeFunc(st); !ok {
				return c.Semanticf(f.Loc, f.Name, "row-major mat%dx%d is not supported", f.Type.Primary, f.Type.Secondary)
			}
			stored[fieldKey{ast.BlockID(b), i}] = st
		}
	}
	if len(stored) == 0 {
		return nil
	}

	fieldOf := func(t *ast.Traverser, id ast.NodeID) (fieldKey, bool) {
		switch d := tree.Data(id).(type) {
		case *ast.Binary:
			if d.Op != ast.OpIndexDirectInterfaceBlock {
				return fieldKey{}, false
			}
			i, ok := tree.ConstIndex(d.Right)
			if !ok {
				return fieldKey{}, false
			}
			k := fieldKey{tree.TypeOf(d.Left).Block, i}
			_, hit := stored[k]
			return k, hit
		case *ast.Symbol:
			vt := syms.Variable(d.Var).Type
			if vt.BlockField < 0 || isDeclarator(t) {
				return fieldKey{}, false
			}
			k := fieldKey{vt.Block, vt.BlockField}
			_, hit := stored[k]
			return k, hit
		}
		return fieldKey{}, false
	}

	var (
		accesses []matrixAccess
		semErr   error
	)
	tr := ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		if semErr != nil {
			return false
		}
		k, ok := fieldOf(t, id)
		if !ok {
			return true
		}
		name := syms.Block(k.block).Fields[k.field].Name

		path := t.Path()
		i := len(path) - 1
		chain := []ast.NodeID{id}
		for i > 0 && tree.TypeOf(path[i]).IsArray() {
			p, ok := tree.Data(path[i-1]).(*ast.Binary)
			if !ok || !p.Op.IsIndex() || p.Left != path[i] {
				break
			}
			i--
			chain = append(chain, path[i])
		}
		root := path[i]
		if tree.TypeOf(root).IsArray() {
			semErr = c.Semanticf(tree.Loc(id), name, "row-major matrix array used as a whole")
			return false
		}
		if i == 0 {
			return false
		}
		parent := path[i-1]

		if b, ok := tree.Data(parent).(*ast.Binary); ok && b.Op == ast.OpAssign && b.Left == root {
			fn, _ := transposeFunc(tree.TypeOf(b.Right))
			t.Edits.Replace(parent, b.Right, tree.CallBuiltIn(fn, b.Right), ast.OriginalBecomesChild)
			accesses = append(accesses, matrixAccess{chain: chain, assign: parent})
			return false
		}
		if writesThrough(tree, path[:i+1]) {
			semErr = c.Semanticf(tree.Loc(id), name, "unsupported write to a row-major matrix")
			return false
		}
		fn, _ := transposeFunc(stored[k])
		t.Edits.Replace(parent, root, tree.CallBuiltIn(fn, root), ast.OriginalBecomesChild)
		accesses = append(accesses, matrixAccess{chain: chain})
		return false
	}))
	if semErr != nil {
		return semErr
	}
	if err := tr.UpdateTree(); err != nil {
		return err
	}

	for k, st := range stored {
		blk := syms.Block(k.block)
		blk.Fields[k.field].Type = st
		if blk.Layout.MatrixPacking == ast.PackingRowMajor {
			blk.Layout.MatrixPacking = ast.PackingColumnMajor
		}
	}
	for v := 1; v < syms.NumVariables(); v++ {
		vt := &syms.Variable(ast.VariableID(v)).Type
		if vt.BlockField < 0 {
			continue
		}
		if st, ok := stored[fieldKey{vt.Block, vt.BlockField}]; ok {
			vt.Primary, vt.Secondary = st.Primary, st.Secondary
			vt.Layout.MatrixPacking = ast.PackingColumnMajor
		}
	}
	for _, a := range accesses {
		retype(tree, a.chain)
		if a.assign.IsValid() {
			tree.SetType(a.assign, tree.TypeOf(a.chain[len(a.chain)-1]).WithQualifier(ast.QualTemporary))
		}
	}
	return nil
}

// retype recomputes the types of a field selection and the index nodes
// above it after the field's type changed.
func retype(tree *ast.Tree, chain []ast.NodeID) {
	if b, ok := tree.Data(chain[0]).(*ast.Binary); ok {
		blk := tree.Symbols.Block(tree.TypeOf(b.Left).Block)
		i, _ := tree.ConstIndex(b.Right)
		tree.SetType(chain[0], blk.Fields[i].Type.WithQualifier(ast.QualTemporary))
	}
	for j := 1; j < len(chain); j++ {
		e := tree.TypeOf(chain[j-1]).Element()
		e.Qualifier = ast.QualTemporary
		tree.SetType(chain[j], e)
	}
}

// writesThrough reports whether the last node of path is written through
// an index or swizzle of it.
func writesThrough(tree *ast.Tree, path []ast.NodeID) bool {
	for i := len(path) - 1; i > 0; i-- {
		child := path[i]
		switch p := tree.Data(path[i-1]).(type) {
		case *ast.Binary:
			if p.Op.IsAssignment() {
				return p.Left == child
			}
			if !p.Op.IsIndex() || p.Left != child {
				return false
			}
		case *ast.Swizzle:
		case *ast.Unary:
			switch p.Op {
			case ast.OpPostIncrement, ast.OpPostDecrement, ast.OpPreIncrement, ast.OpPreDecrement:
				return true
			}
			return false
		default:
			return false
		}
	}
	return false
}
