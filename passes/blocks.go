// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"slices"
	"strings"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
)

// ReduceInterfaceBlocks gives every nameless interface block an instance
// name and rewrites references to its fields into instance.field.
// Built-in blocks keep their form.
func ReduceInterfaceBlocks() pipeline.Pass {
	return pipeline.Pass{
		Name:     "ReduceInterfaceBlocks",
		Provides: []pipeline.Invariant{pipeline.NamelessBlocksReduced},
		Run:      reduceInterfaceBlocks,
	}
}

type blockField struct {
	instance ast.VariableID
	field    int
}

func reduceInterfaceBlocks(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols

	instances := make(map[ast.BlockID]ast.VariableID)
	for _, s := range tree.Statements(tree.Root) {
		v, ok := declaredGlobal(tree, s)
		if !ok {
			continue
		}
		vr := syms.Variable(v)
		if vr.Kind != ast.SymbolEmpty || !vr.Type.IsInterfaceBlock() {
			continue
		}
		b := syms.Block(vr.Type.Block)
		if strings.HasPrefix(b.Name, "gl_") {
			continue
		}
		vr.Kind = ast.SymbolInternal
		vr.Name = InternalPrefix + b.Name
		instances[vr.Type.Block] = v
	}
	if len(instances) == 0 {
		return nil
	}

	fields := make(map[ast.VariableID]blockField)
	for i := 1; i < syms.NumVariables(); i++ {
		vt := syms.Variable(ast.VariableID(i)).Type
		if vt.BlockField < 0 {
			continue
		}
		if inst, ok := instances[vt.Block]; ok {
			fields[ast.VariableID(i)] = blockField{instance: inst, field: vt.BlockField}
		}
	}
	return replaceSymbols(tree, func(t *ast.Traverser, v ast.VariableID) (ast.NodeID, bool) {
		f, ok := fields[v]
		if !ok {
			return ast.NoNode, false
		}
		return t.Tree.BlockFieldAccess(t.Tree.Sym(f.instance), f.field), true
	})
}

var perVertexMembers = [...]builtins.ID{
	builtins.GlPosition,
	builtins.GlPointSize,
	builtins.GlClipDistance,
	builtins.GlCullDistance,
}

// DeclarePerVertexBlocks declares the gl_PerVertex blocks of the
// pre-rasterization stages: a nameless output block (gl_out[] in
// tessellation control shaders) and the gl_in[] input. Member references
// are redirected to the block and user redeclarations are dropped.
func DeclarePerVertexBlocks() pipeline.Pass {
	return pipeline.Pass{
		Name:     "DeclarePerVertexBlocks",
		Stages:   []ast.ShaderStage{ast.StageVertex, ast.StageTessControl, ast.StageTessEvaluation, ast.StageGeometry},
		Requires: []pipeline.Invariant{pipeline.GlobalQualifiersRewritten},
		Provides: []pipeline.Invariant{pipeline.PerVertexBlocksDeclared},
		Run:      declarePerVertexBlocks,
	}
}

func declarePerVertexBlocks(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols
	uses := scanUses(tree)

	fields := ast.PerVertexFields(
		declaredSize(syms, builtins.GlClipDistance, c.Resources.MaxClipDistances),
		declaredSize(syms, builtins.GlCullDistance, c.Resources.MaxCullDistances),
	)
	for i, id := range perVertexMembers {
		if v, ok := syms.FindBuiltInVariable(id); ok {
			vt := syms.Variable(v).Type
			fields[i].Type.Invariant = vt.Invariant
			fields[i].Type.Precise = vt.Precise
		}
	}

	redeclared := redeclaredPerVertexBlocks(tree)
	targets := make(map[ast.VariableID]ast.VariableID)
	var decls []ast.NodeID

	if c.Stage != ast.StageTessControl {
		b := syms.NewBlock("gl_PerVertex", ast.SymbolBuiltIn, ast.QualOut, fields...)
		inst := syms.NewVariable("", ast.SymbolEmpty, ast.BlockType(b, ast.QualOut))
		decls = append(decls, tree.Declare(inst, ast.NoNode))
		byName := make(map[string]ast.VariableID, len(fields))
		for i, f := range fields {
			ft := f.Type.Clone()
			ft.Qualifier = ast.QualOut
			ft.Block = b
			ft.BlockField = i
			fv := syms.NewVariable(f.Name, ast.SymbolInternal, ft)
			byName[f.Name] = fv
			if v, ok := syms.FindBuiltInVariable(perVertexMembers[i]); ok {
				targets[v] = fv
			}
		}
		for i := 1; i < syms.NumVariables(); i++ {
			vr := syms.Variable(ast.VariableID(i))
			if _, ok := redeclared[vr.Type.Block]; ok && vr.Type.BlockField >= 0 {
				if fv, ok := byName[vr.Name]; ok {
					targets[ast.VariableID(i)] = fv
				}
			}
		}
	}

	glOut, outUse := builtinUse(tree, uses, builtins.GlOut)
	glIn, inUse := builtinUse(tree, uses, builtins.GlIn)
	if outUse.used() || inUse.used() {
		syms.Block(syms.PerVertexBlock()).Fields = slices.Clone(fields)
	}
	if c.Stage == ast.StageTessControl && outUse.used() {
		decls = append(decls, tree.Declare(glOut, ast.NoNode))
	}
	if c.Stage != ast.StageVertex && inUse.used() {
		decls = append(decls, tree.Declare(glIn, ast.NoNode))
	}

	if len(targets) > 0 {
		err := replaceSymbols(tree, func(t *ast.Traverser, v ast.VariableID) (ast.NodeID, bool) {
			to, ok := targets[v]
			if !ok {
				return ast.NoNode, false
			}
			return t.Tree.Sym(to), true
		})
		if err != nil {
			return err
		}
	}

	stmts := tree.Statements(tree.Root)
	kept := make([]ast.NodeID, 0, len(stmts))
	for _, s := range stmts {
		if !isPerVertexRedeclaration(tree, s, redeclared) {
			kept = append(kept, s)
		}
	}
	if err := tree.ReplaceChildren(tree.Root, kept); err != nil {
		return err
	}
	tree.InsertGlobalsAtTop(decls...)
	return nil
}

// declaredSize returns the array size a built-in was redeclared with, or
// def when it is unsized.
func declaredSize(syms *ast.SymbolTable, id builtins.ID, def int) uint32 {
	if v, ok := syms.FindBuiltInVariable(id); ok {
		if n := syms.Variable(v).Type.OuterArraySize(); n > 0 {
			return n
		}
	}
	return uint32(max(def, 1))
}

// redeclaredPerVertexBlocks returns the gl_PerVertex blocks the shader
// declares itself.
func redeclaredPerVertexBlocks(tree *ast.Tree) map[ast.BlockID]struct{} {
	blocks := make(map[ast.BlockID]struct{})
	for _, s := range tree.Statements(tree.Root) {
		v, ok := declaredGlobal(tree, s)
		if !ok {
			continue
		}
		vt := tree.Symbols.Variable(v).Type
		if vt.IsInterfaceBlock() && tree.Symbols.Block(vt.Block).Name == "gl_PerVertex" {
			blocks[vt.Block] = struct{}{}
		}
	}
	return blocks
}

func isPerVertexRedeclaration(tree *ast.Tree, stmt ast.NodeID, redeclared map[ast.BlockID]struct{}) bool {
	v, ok := declaredGlobal(tree, stmt)
	if !ok {
		return false
	}
	vr := tree.Symbols.Variable(v)
	if vr.Kind == ast.SymbolBuiltIn {
		switch vr.BuiltIn {
		case builtins.GlPosition, builtins.GlPointSize, builtins.GlClipDistance, builtins.GlCullDistance:
			return true
		}
	}
	_, ok = redeclared[vr.Type.Block]
	return ok && vr.Type.IsInterfaceBlock()
}

// declaredGlobal returns the variable a single-declarator declaration
// introduces.
func declaredGlobal(tree *ast.Tree, stmt ast.NodeID) (ast.VariableID, bool) {
	d, ok := tree.Data(stmt).(*ast.Declaration)
	if !ok || len(d.Declarators) != 1 {
		return 0, false
	}
	return tree.DeclaredVariable(d.Declarators[0])
}
