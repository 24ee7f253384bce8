// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"fmt"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/pipeline"
)

// SeparateDeclarations splits declarations with several declarators into
// one declaration each, and "struct S { ... } s;" into a declaration of S
// followed by "S s;". A nameless struct is given an internal name first. A for loop whose init declares several variables
// moves into a new block that declares them before the loop.
func SeparateDeclarations() pipeline.Pass {
	return pipeline.Pass{
		Name:     "SeparateDeclarations",
		Provides: []pipeline.Invariant{pipeline.DeclarationsSeparated},
		Run:      separateDeclarations,
	}
}

type loopInit struct {
	loop   ast.NodeID
	parent ast.NodeID
}

func separateDeclarations(c *pipeline.Compilation) error {
	tree := c.Tree
	var (
		loops   []loopInit
		cleared []ast.VariableID
	)
	tr := ast.Traverse(tree, ast.OrderPre, ast.VisitorFunc(func(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		switch d := tree.Data(id).(type) {
		case *ast.Declaration:
			parent := t.Parent()
			if _, ok := tree.Data(parent).(*ast.Block); !ok {
				return true
			}
			if stmts, clear := splitDeclaration(tree, id, t.InGlobalScope()); stmts != nil {
				t.Edits.ReplaceMulti(parent, id, stmts...)
				cleared = append(cleared, clear...)
			}
		case *ast.Loop:
			if needsSplit(tree, d.Init) {
				loops = append(loops, loopInit{loop: id, parent: t.Parent()})
			}
		}
		return true
	}))
	if err := tr.UpdateTree(); err != nil {
		return err
	}

	for _, l := range loops {
		loop := tree.Data(l.loop).(*ast.Loop)
		stmts, clear := splitDeclaration(tree, loop.Init, false)
		cleared = append(cleared, clear...)
		loop.Init = ast.NoNode
		block := tree.NewBlock(append(stmts, l.loop)...)
		if !tree.ReplaceChild(l.parent, l.loop, block) {
			return pipeline.Preconditionf("loop %d is not a child of %d", l.loop, l.parent)
		}
	}
	for _, v := range cleared {
		c.Symbols.Variable(v).Type.StructSpecifier = false
	}
	return nil
}

// needsSplit reports whether decl is a declaration that splitDeclaration
// would rewrite.
func needsSplit(tree *ast.Tree, decl ast.NodeID) bool {
	d, ok := tree.Data(decl).(*ast.Declaration)
	if !ok {
		return false
	}
	if len(d.Declarators) > 1 {
		return true
	}
	return len(d.Declarators) == 1 && namedStructSpecifier(tree, d.Declarators[0]).IsValid()
}

// namedStructSpecifier returns the struct defined by a declarator that also
// declares a named variable of it.
func namedStructSpecifier(tree *ast.Tree, declarator ast.NodeID) ast.StructID {
	v, ok := tree.DeclaredVariable(declarator)
	if !ok {
		return 0
	}
	vr := tree.Symbols.Variable(v)
	if !vr.Type.IsStruct() || !vr.Type.StructSpecifier || vr.Kind == ast.SymbolEmpty {
		return 0
	}
	return vr.Type.Struct
}

// splitDeclaration returns the statements replacing the declaration decl,
// or nil if it needs no change, and the variables whose struct specifier
// moved to a struct-only declaration.
func splitDeclaration(tree *ast.Tree, decl ast.NodeID, global bool) ([]ast.NodeID, []ast.VariableID) {
	if !needsSplit(tree, decl) {
		return nil, nil
	}
	d := tree.Data(decl).(*ast.Declaration)
	loc := tree.Loc(decl)

	var (
		stmts   []ast.NodeID
		cleared []ast.VariableID
	)
	for _, declarator := range d.Declarators {
		if sid := namedStructSpecifier(tree, declarator); sid.IsValid() {
			v, _ := tree.DeclaredVariable(declarator)
			cleared = append(cleared, v)
			if len(cleared) == 1 {
				nameStruct(tree.Symbols, sid)
				stmts = append(stmts, structOnlyDeclaration(tree, sid, global))
			}
		}
		stmts = append(stmts, tree.Add(loc, ast.Type{}, &ast.Declaration{Declarators: []ast.NodeID{declarator}}))
	}
	return stmts, cleared
}

// nameStruct names a nameless struct so that variables of it can be
// declared apart from its definition.
func nameStruct(syms *ast.SymbolTable, sid ast.StructID) {
	if st := syms.Struct(sid); st.Name == "" {
		st.Name = fmt.Sprintf("%sstruct%d", InternalPrefix, sid)
	}
}

// structOnlyDeclaration returns "struct S { ... };".
func structOnlyDeclaration(tree *ast.Tree, sid ast.StructID, global bool) ast.NodeID {
	q := ast.QualTemporary
	if global {
		q = ast.QualGlobal
	}
	typ := ast.StructType(sid, q)
	typ.StructSpecifier = true
	v := tree.Symbols.NewVariable("", ast.SymbolEmpty, typ)
	return tree.Declare(v, ast.NoNode)
}

// structOnly returns the struct a statement defines if the statement is a
// struct-only declaration.
func structOnly(tree *ast.Tree, stmt ast.NodeID) (ast.StructID, bool) {
	d, ok := tree.Data(stmt).(*ast.Declaration)
	if !ok || len(d.Declarators) != 1 {
		return 0, false
	}
	s, ok := tree.Data(d.Declarators[0]).(*ast.Symbol)
	if !ok {
		return 0, false
	}
	vr := tree.Symbols.Variable(s.Var)
	if vr.Kind != ast.SymbolEmpty || !vr.Type.IsStruct() || !vr.Type.StructSpecifier {
		return 0, false
	}
	return vr.Type.Struct, true
}

// ToposortStructs moves global struct definitions to the front of the
// global scope, after any leading preprocessor directives, so that every
// struct is defined before the structs that contain it.
func ToposortStructs() pipeline.Pass {
	return pipeline.Pass{
		Name:     "ToposortStructs",
		Requires: []pipeline.Invariant{pipeline.DeclarationsSeparated},
		Provides: []pipeline.Invariant{pipeline.StructsSorted},
		Run:      toposortStructs,
	}
}

func toposortStructs(c *pipeline.Compilation) error {
	tree := c.Tree
	stmts := tree.Statements(tree.Root)

	lead := 0
	for lead < len(stmts) {
		if _, ok := tree.Data(stmts[lead]).(*ast.PreprocessorDirective); !ok {
			break
		}
		lead++
	}

	decls := make(map[ast.StructID]ast.NodeID)
	var order []ast.StructID
	rest := make([]ast.NodeID, 0, len(stmts))
	for _, s := range stmts[lead:] {
		if sid, ok := structOnly(tree, s); ok {
			decls[sid] = s
			order = append(order, sid)
			continue
		}
		rest = append(rest, s)
	}
	if len(order) == 0 {
		return nil
	}

	sorted := make([]ast.NodeID, 0, len(stmts))
	sorted = append(sorted, stmts[:lead]...)
	visited := make(map[ast.StructID]bool, len(order))
	var visit func(ast.StructID)
	visit = func(sid ast.StructID) {
		if visited[sid] {
			return
		}
		visited[sid] = true
		for _, f := range c.Symbols.Struct(sid).Fields {
			if _, ok := decls[f.Type.Struct]; ok && f.Type.IsStruct() {
				visit(f.Type.Struct)
			}
		}
		sorted = append(sorted, decls[sid])
	}
	for _, sid := range order {
		visit(sid)
	}
	return tree.ReplaceChildren(tree.Root, append(sorted, rest...))
}

// RewriteGlobalQualifierDecls folds "invariant x;" and "precise x;" into the
// type of x and deletes the statements.
func RewriteGlobalQualifierDecls() pipeline.Pass {
	return pipeline.Pass{
		Name:     "RewriteGlobalQualifierDecls",
		Provides: []pipeline.Invariant{pipeline.GlobalQualifiersRewritten},
		Run:      rewriteGlobalQualifierDecls,
	}
}

func rewriteGlobalQualifierDecls(c *pipeline.Compilation) error {
	tree := c.Tree
	stmts := tree.Statements(tree.Root)
	kept := make([]ast.NodeID, 0, len(stmts))
	for _, s := range stmts {
		g, ok := tree.Data(s).(*ast.GlobalQualifierDecl)
		if !ok {
			kept = append(kept, s)
			continue
		}
		sym, ok := tree.Data(g.Target).(*ast.Symbol)
		if !ok {
			return pipeline.Preconditionf("qualifier declaration %d does not name a variable", s)
		}
		typ := &c.Symbols.Variable(sym.Var).Type
		typ.Invariant = typ.Invariant || g.Invariant
		typ.Precise = typ.Precise || g.Precise
	}
	if len(kept) == len(stmts) {
		return nil
	}
	return tree.ReplaceChildren(tree.Root, kept)
}
