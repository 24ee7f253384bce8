// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/validate"
)

// Function constants the Metal runtime specializes. They are declared by
// the output writer, never in the tree.
const (
	RasterizerDisabledConstant  = "ANGLERasterizerDisabled"
	CoverageMaskEnabledConstant = "ANGLECoverageMaskEnabled"
)

var hiddenReferences = []validate.Category{validate.VariableReferences}

func specConstant(syms *ast.SymbolTable, name string) ast.VariableID {
	return syms.NewVariable(name, ast.SymbolInternal, ast.Scalar(ast.BasicBool, ast.QualSpecConst))
}

// InsertRasterizationDiscard moves every vertex outside the clip volume
// when the runtime disables rasterization:
//
//	if (ANGLERasterizerDisabled) gl_Position = vec4(-3.0, -3.0, -3.0, 1.0);
func InsertRasterizationDiscard() pipeline.Pass {
	return pipeline.Pass{
		Name:    "InsertRasterizationDiscard",
		Stages:  vertexOnly,
		Enabled: optionSet(pipeline.EmulateRasterizerDiscard),
		Relaxes: hiddenReferences,
		Run:     insertRasterizationDiscard,
	}
}

func insertRasterizationDiscard(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols
	flag := specConstant(syms, RasterizerDisabledConstant)
	pos := syms.BuiltInVariable(builtins.GlPosition)
	discard := tree.Assign(tree.Sym(pos), tree.FloatConst(-3, -3, -3, 1))
	return tree.RunAtEndOfMain(tree.If(tree.Sym(flag), tree.NewBlock(discard), ast.NoNode))
}

// InsertSampleMaskWrite applies the driver's coverage mask:
//
//	if (ANGLECoverageMaskEnabled) gl_SampleMask[0] = int(coverageMask);
//
// AND-ed with the value the shader wrote, if it writes one.
func InsertSampleMaskWrite() pipeline.Pass {
	return pipeline.Pass{
		Name:     "InsertSampleMaskWrite",
		Stages:   fragmentOnly,
		Requires: needsDriver,
		Relaxes:  hiddenReferences,
		Run:      insertSampleMaskWrite,
	}
}

func insertSampleMaskWrite(c *pipeline.Compilation) error {
	tree, syms := c.Tree, c.Symbols
	mask, u := builtinUse(tree, scanUses(tree), builtins.GlSampleMask)
	if !mask.IsValid() {
		mask = syms.BuiltInVariable(builtins.GlSampleMask)
	}
	if mt := &syms.Variable(mask).Type; mt.IsUnsizedArray() {
		mt.ArraySizes = []uint32{1}
	}

	coverage, err := c.DriverUniformField(DriverCoverageMask)
	if err != nil {
		return err
	}
	value := tree.Construct(ast.Scalar(ast.BasicInt, ast.QualTemporary), coverage)
	if u.written() {
		value = tree.Binary(ast.OpBitwiseAnd, tree.Index(tree.Sym(mask), 0), value, ast.Scalar(ast.BasicInt, ast.QualTemporary))
	}
	flag := specConstant(syms, CoverageMaskEnabledConstant)
	write := tree.Assign(tree.Index(tree.Sym(mask), 0), value)
	return tree.RunAtEndOfMain(tree.If(tree.Sym(flag), tree.NewBlock(write), ast.NoNode))
}
