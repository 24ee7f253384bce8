// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/target"
)

// RewriteKeywords renames user-defined variables, functions, structs,
// interface blocks and their members whose names are reserved in the
// output dialect. New names never collide with existing ones.
func RewriteKeywords() pipeline.Pass {
	return pipeline.Pass{
		Name: "RewriteKeywords",
		Run:  rewriteKeywords,
	}
}

//nolint:gocognit,cyclop // one loop per symbol arena
func rewriteKeywords(c *pipeline.Compilation) error {
	syms, d := c.Symbols, c.Dialect
	namer := target.NewNamer(d, symbolNames(syms)...)
	rename := func(name *string) {
		if *name != "" && d.IsReserved(*name) {
			*name = namer.Name(*name)
		}
	}

	for i := 1; i < syms.NumStructs(); i++ {
		st := syms.Struct(ast.StructID(i))
		if st.Kind != ast.SymbolUserDefined {
			continue
		}
		rename(&st.Name)
		renameFields(d, st.Fields)
	}
	for i := 1; i < syms.NumBlocks(); i++ {
		b := syms.Block(ast.BlockID(i))
		if b.Kind != ast.SymbolUserDefined {
			continue
		}
		rename(&b.Name)
		renameFields(d, b.Fields)
	}
	for i := 1; i < syms.NumFunctions(); i++ {
		f := syms.Function(ast.FunctionID(i))
		if f.Kind == ast.SymbolUserDefined && f.Name != "main" {
			rename(&f.Name)
		}
	}
	for i := 1; i < syms.NumVariables(); i++ {
		v := syms.Variable(ast.VariableID(i))
		if v.Kind != ast.SymbolUserDefined {
			continue
		}
		if v.Type.BlockField >= 0 && v.Type.Block.IsValid() {
			// nameless block members keep the member's name
			if b := syms.Block(v.Type.Block); b.Kind == ast.SymbolUserDefined {
				v.Name = b.Fields[v.Type.BlockField].Name
			}
			continue
		}
		rename(&v.Name)
	}
	return nil
}

// renameFields renames reserved member names; members live in their own
// namespace, so uniqueness is only checked among siblings.
func renameFields(d target.Dialect, fields []ast.Field) {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	namer := target.NewNamer(d, names...)
	for i := range fields {
		if d.IsReserved(fields[i].Name) {
			fields[i].Name = namer.Name(fields[i].Name)
		}
	}
}

func symbolNames(syms *ast.SymbolTable) []string {
	names := make([]string, 0, syms.NumVariables()+syms.NumFunctions()+syms.NumStructs()+syms.NumBlocks())
	for i := 1; i < syms.NumVariables(); i++ {
		names = append(names, syms.Variable(ast.VariableID(i)).Name)
	}
	for i := 1; i < syms.NumFunctions(); i++ {
		names = append(names, syms.Function(ast.FunctionID(i)).Name)
	}
	for i := 1; i < syms.NumStructs(); i++ {
		names = append(names, syms.Struct(ast.StructID(i)).Name)
	}
	for i := 1; i < syms.NumBlocks(); i++ {
		names = append(names, syms.Block(ast.BlockID(i)).Name)
	}
	return names
}
