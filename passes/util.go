// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
)

// usage counts the references to one variable outside its declarations.
type usage struct {
	reads  int
	writes int
	nodes  []ast.NodeID
}

func (u *usage) used() bool {
	return u != nil && len(u.nodes) > 0
}

func (u *usage) written() bool {
	return u != nil && u.writes > 0
}

// scanUses walks the whole tree once and returns the references of every
// variable that appears in an expression.
func scanUses(tree *ast.Tree) map[ast.VariableID]*usage {
	uses := make(map[ast.VariableID]*usage)
	ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		s, ok := tree.Data(id).(*ast.Symbol)
		if !ok || isDeclarator(t) {
			return true
		}
		u := uses[s.Var]
		if u == nil {
			u = &usage{}
			uses[s.Var] = u
		}
		u.nodes = append(u.nodes, id)
		if t.IsLValue() {
			u.writes++
		} else {
			u.reads++
		}
		return true
	}))
	return uses
}

// builtinUse returns the references of a built-in variable, or nil if the
// shader never names it.
func builtinUse(tree *ast.Tree, uses map[ast.VariableID]*usage, id builtins.ID) (ast.VariableID, *usage) {
	v, ok := tree.Symbols.FindBuiltInVariable(id)
	if !ok {
		return 0, nil
	}
	return v, uses[v]
}

// isDeclarator reports whether the Symbol being visited names the variable
// a declaration or a qualifier redeclaration introduces.
func isDeclarator(t *ast.Traverser) bool {
	tree := t.Tree
	switch p := tree.Data(t.Parent()).(type) {
	case *ast.Declaration, *ast.GlobalQualifierDecl:
		return true
	case *ast.Binary:
		if p.Op != ast.OpInitialize || p.Left != t.Current() {
			return false
		}
		_, ok := tree.Data(t.Ancestor(2)).(*ast.Declaration)
		return ok
	}
	return false
}

// replaceSymbols replaces every non-declarator reference for which repl
// returns a node. repl runs during the walk; it may build new nodes but must
// not change existing ones.
func replaceSymbols(tree *ast.Tree, repl func(t *ast.Traverser, v ast.VariableID) (ast.NodeID, bool)) error {
	tr := ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		s, ok := tree.Data(id).(*ast.Symbol)
		if !ok || isDeclarator(t) {
			return true
		}
		if n, ok := repl(t, s.Var); ok {
			t.QueueReplace(n, ast.OriginalDropped)
		}
		return true
	}))
	return tr.UpdateTree()
}

// redirect makes every non-declarator reference to from name to instead.
func redirect(tree *ast.Tree, from, to ast.VariableID) error {
	return replaceSymbols(tree, func(t *ast.Traverser, v ast.VariableID) (ast.NodeID, bool) {
		if v != from {
			return ast.NoNode, false
		}
		return t.Tree.Sym(to), true
	})
}

// newGlobal creates an internal variable and declares it at the top of the
// global scope.
func newGlobal(tree *ast.Tree, name string, typ ast.Type) ast.VariableID {
	v := tree.Symbols.NewVariable(name, ast.SymbolInternal, typ)
	tree.InsertGlobalsAtTop(tree.Declare(v, ast.NoNode))
	return v
}

// driverFieldSwizzle returns driverUniforms.<field>.<offsets>.
func driverFieldSwizzle(c *pipeline.Compilation, field int, offsets ...int) (ast.NodeID, error) {
	n, err := c.DriverUniformField(field)
	if err != nil {
		return ast.NoNode, err
	}
	return c.Tree.Swizzle(n, offsets...), nil
}

func floatType(n uint8) ast.Type {
	if n == 1 {
		return ast.Scalar(ast.BasicFloat, ast.QualTemporary)
	}
	return ast.Vector(ast.BasicFloat, n, ast.QualTemporary)
}

func boolType() ast.Type {
	return ast.Scalar(ast.BasicBool, ast.QualTemporary)
}

// globalStatement returns the top-level statement containing the node being
// visited, or NoNode when the traversal did not start at the root.
func globalStatement(t *ast.Traverser) ast.NodeID {
	path := t.Path()
	if len(path) < 2 || path[0] != t.Tree.Root {
		return ast.NoNode
	}
	return path[1]
}
