// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"fmt"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/pipeline"
)

// HoistConstants moves large constant arrays out of functions. A local
// const array with at least Resources.HoistConstantThreshold scalar
// components becomes a global under an internal name, and an all-constant
// array constructor of that size becomes a named global constant.
func HoistConstants() pipeline.Pass {
	return pipeline.Pass{
		Name:    "HoistConstants",
		Enabled: func(c *pipeline.Compilation) bool { return c.Resources.HoistConstantThreshold > 0 },
		Run:     hoistConstants,
	}
}

type hoisted struct {
	function ast.NodeID
	decl     ast.NodeID
	v        ast.VariableID
	name     string
}

func hoistConstants(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols
	threshold := c.Resources.HoistConstantThreshold

	var moved []hoisted
	tr := ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		if t.InGlobalScope() {
			return true
		}
		switch d := tree.Data(id).(type) {
		case *ast.Declaration:
			if _, ok := tree.Data(t.Parent()).(*ast.Block); !ok {
				return true
			}
			v, ok := hoistableDeclaration(tree, d, threshold)
			if !ok {
				return true
			}
			t.QueueRemove()
			name := fmt.Sprintf("%s%s_%d", InternalPrefix, syms.Variable(v).Name, len(moved))
			moved = append(moved, hoisted{function: globalStatement(t), decl: id, v: v, name: name})
			return false
		case *ast.Aggregate:
			if d.Op != ast.OpConstruct || initializesConstant(t) {
				return true
			}
			typ := tree.TypeOf(id)
			if !typ.IsArray() || typ.ComponentCount()*typ.ElementCount() < threshold || !isConstantExpr(tree, id) {
				return true
			}
			v := syms.NewVariable("", ast.SymbolInternal, typ.WithQualifier(ast.QualConst))
			t.QueueReplace(tree.Sym(v), ast.OriginalDropped)
			name := fmt.Sprintf("%sconstArray_%d", InternalPrefix, len(moved))
			moved = append(moved, hoisted{function: globalStatement(t), decl: tree.Declare(v, id), v: v, name: name})
			return false
		}
		return true
	}))
	if err := tr.UpdateTree(); err != nil {
		return err
	}

	for _, h := range moved {
		vr := syms.Variable(h.v)
		vr.Name = h.name
		vr.Kind = ast.SymbolInternal
		tree.InsertGlobalsBefore(h.function, h.decl)
	}
	return nil
}

// hoistableDeclaration returns the variable of "const T a[N] = ...;" when
// the array is large enough and its initializer is made of literals.
func hoistableDeclaration(tree *ast.Tree, d *ast.Declaration, threshold int) (ast.VariableID, bool) {
	if len(d.Declarators) != 1 {
		return 0, false
	}
	init, ok := tree.Data(d.Declarators[0]).(*ast.Binary)
	if !ok || init.Op != ast.OpInitialize {
		return 0, false
	}
	v, ok := tree.DeclaredVariable(d.Declarators[0])
	if !ok {
		return 0, false
	}
	vt := tree.Symbols.Variable(v).Type
	if vt.Qualifier != ast.QualConst || !vt.IsArray() || vt.ComponentCount()*vt.ElementCount() < threshold {
		return 0, false
	}
	return v, isConstantExpr(tree, init.Right)
}

// isConstantExpr reports whether id is a literal or a constructor of
// literals.
func isConstantExpr(tree *ast.Tree, id ast.NodeID) bool {
	switch d := tree.Data(id).(type) {
	case *ast.Constant:
		return true
	case *ast.Aggregate:
		if d.Op != ast.OpConstruct {
			return false
		}
		for _, a := range d.Args {
			if !isConstantExpr(tree, a) {
				return false
			}
		}
		return true
	}
	return false
}

// initializesConstant reports whether the node being visited is the
// initializer of a const declaration.
func initializesConstant(t *ast.Traverser) bool {
	b, ok := t.Tree.Data(t.Parent()).(*ast.Binary)
	if !ok || b.Op != ast.OpInitialize || b.Right != t.Current() {
		return false
	}
	v, ok := t.Tree.DeclaredVariable(t.Parent())
	return ok && t.Tree.Symbols.Variable(v).Type.Qualifier == ast.QualConst
}
