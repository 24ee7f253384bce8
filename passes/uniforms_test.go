// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"fmt"
	"testing"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/pipeline"
)

func TestDeclareDriverUniforms(t *testing.T) {
	s := newShader(ast.StageVertex)
	s.main()
	if _, err := s.c.DriverUniformField(DriverFlipXY); err == nil {
		t.Fatal("DriverUniformField succeeded before the block was declared")
	} else if kind, _ := pipeline.KindOf(err); kind != pipeline.ErrPrecondition {
		t.Errorf("error kind = %v, want %v", kind, pipeline.ErrPrecondition)
	}

	s.mustRun(t, DeclareDriverUniforms())
	inst := s.c.DriverUniforms
	if !inst.IsValid() || s.declared(s.root()[0]) != inst {
		t.Fatalf("driver uniforms %d are not declared first", inst)
	}
	s.mustRun(t, DeclareDriverUniforms())
	if s.c.DriverUniforms != inst || len(s.root()) != 2 {
		t.Error("second run declared the block again")
	}

	blk := s.syms.Block(s.syms.Variable(inst).Type.Block)
	if blk.Name != DriverUniformsBlock || blk.Layout.BlockStorage != ast.StorageStd140 {
		t.Errorf("block = %q (%v)", blk.Name, blk.Layout.BlockStorage)
	}
	if len(blk.Fields) != DriverCoverageMask+1 {
		t.Errorf("block has %d fields", len(blk.Fields))
	}
	if got := blk.Fields[DriverDepthRange].Type.Struct; got != s.syms.DepthRangeStruct() {
		t.Errorf("depthRange field has struct %d", got)
	}
}

// samplerStruct declares "struct S { float scale; sampler2D tex; };".
func samplerStruct(s *shader) ast.StructID {
	return s.structDecl("S",
		ast.Field{Name: "scale", Type: floatType(1)},
		ast.Field{Name: "tex", Type: ast.Scalar(ast.BasicSampler2D, ast.QualTemporary)},
	)
}

func TestSeparateStructSamplers(t *testing.T) {
	s := newShader(ast.StageFragment)
	tree := s.tree
	sid := samplerStruct(s)
	sv := s.global("s", ast.StructType(sid, ast.QualUniform))
	arr := s.global("arr", ast.StructType(sid, ast.QualUniform).ArrayOf(2))
	a := s.local("a", floatType(1))
	b := s.local("b", floatType(1))
	s.main(
		tree.Declare(a, tree.FieldAccess(tree.Sym(sv), 0)),
		tree.Declare(b, tree.FieldAccess(tree.Index(tree.Sym(arr), 1), 0)),
	)

	s.mustRun(t, SeparateDeclarations(), SeparateStructSamplers())

	root := s.root()
	want := []string{"", "s_scale", "s_tex", "arr_scale", "arr_tex"}
	if len(root) != len(want)+1 {
		t.Fatalf("root has %d statements, want %d:\n%s", len(root), len(want)+1, ast.DumpString(tree))
	}
	for i, name := range want {
		if got := s.name(s.declared(root[i])); got != name {
			t.Errorf("root[%d] declares %q, want %q", i, got, name)
		}
	}
	if at := s.syms.Variable(s.declared(root[4])).Type; at.OuterArraySize() != 2 || !at.Basic.IsOpaque() || at.Qualifier != ast.QualUniform {
		t.Errorf("arr_tex type = %s, want uniform sampler2D[2]", at)
	}

	body := s.body()
	init := binary(t, tree, tree.Data(body[0]).(*ast.Declaration).Declarators[0])
	if got := s.name(symbolOf(tree, init.Right)); got != "s_scale" {
		t.Errorf("s.scale became %q", got)
	}
	init = binary(t, tree, tree.Data(body[1]).(*ast.Declaration).Declarators[0])
	idx := binary(t, tree, init.Right)
	if !idx.Op.IsIndex() || s.name(symbolOf(tree, idx.Left)) != "arr_scale" {
		t.Errorf("arr[1].scale became %s on %q", idx.Op, s.name(symbolOf(tree, idx.Left)))
	}
	if i, ok := tree.ConstIndex(idx.Right); !ok || i != 1 {
		t.Errorf("index = %d, want 1", i)
	}
}

func TestSeparateStructSamplersErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *shader)
		want  string
	}{
		{
			name: "whole use",
			build: func(s *shader) {
				sid := samplerStruct(s)
				sv := s.global("s", ast.StructType(sid, ast.QualUniform))
				cp := s.local("cp", ast.StructType(sid, ast.QualTemporary))
				s.main(s.tree.Declare(cp, s.tree.Sym(sv)))
			},
			want: "used as a whole",
		},
		{
			name: "nested",
			build: func(s *shader) {
				inner := s.structDecl("Inner", ast.Field{Name: "tex", Type: ast.Scalar(ast.BasicSampler2D, ast.QualTemporary)})
				outer := s.structDecl("Outer", ast.Field{Name: "in", Type: ast.StructType(inner, ast.QualTemporary)})
				s.global("o", ast.StructType(outer, ast.QualUniform))
				s.main()
			},
			want: "nested structs",
		},
		{
			name: "parameter",
			build: func(s *shader) {
				sid := samplerStruct(s)
				s.global("s", ast.StructType(sid, ast.QualUniform))
				p := s.local("p", ast.StructType(sid, ast.QualParamIn))
				f := s.syms.NewFunction("f", ast.SymbolUserDefined, ast.Void(), p)
				s.tree.AppendGlobal(s.tree.Define(f, s.tree.NewBlock()))
				s.main()
			},
			want: "cannot be passed to functions",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShader(ast.StageFragment)
			tt.build(s)
			wantSemantics(t, s.run(t, SeparateDeclarations(), SeparateStructSamplers()), tt.want)
			if !s.c.Diag.HasErrors() {
				t.Error("no diagnostic recorded")
			}
		})
	}
}

func TestHoistDefaultUniforms(t *testing.T) {
	s := newShader(ast.StageFragment)
	tree := s.tree
	sid := s.structDecl("P", ast.Field{Name: "x", Type: floatType(1)})
	u := s.global("u", ast.Scalar(ast.BasicFloat, ast.QualUniform))
	su := s.global("su", ast.StructType(sid, ast.QualUniform))
	tex := s.global("tex", ast.Scalar(ast.BasicSampler2D, ast.QualUniform))
	a := s.local("a", floatType(1))
	s.main(tree.Declare(a, tree.Binary(ast.OpAdd, tree.Sym(u), tree.FieldAccess(tree.Sym(su), 0), floatType(1))))

	s.mustRun(t, SeparateDeclarations(), ToposortStructs(), SeparateStructSamplers(), HoistDefaultUniforms())

	inst := s.c.DefaultUniforms
	root := s.root()
	if len(root) != 4 {
		t.Fatalf("root has %d statements, want 4:\n%s", len(root), ast.DumpString(tree))
	}
	if s.declared(root[1]) != inst || s.declared(root[2]) != tex {
		t.Errorf("root = %v, want [P, %s, tex, main]", root, DefaultUniformsInstance)
	}
	blk := s.syms.Block(s.syms.Variable(inst).Type.Block)
	if len(blk.Fields) != 2 || blk.Fields[0].Name != "u" || blk.Fields[1].Name != "su" {
		t.Fatalf("fields = %+v", blk.Fields)
	}
	if q := blk.Fields[1].Type.Qualifier; q != ast.QualTemporary {
		t.Errorf("su field qualifier = %s", q)
	}

	init := binary(t, tree, tree.Data(s.body()[0]).(*ast.Declaration).Declarators[0])
	sum := binary(t, tree, init.Right)
	if ref := binary(t, tree, sum.Left); ref.Op != ast.OpIndexDirectInterfaceBlock || symbolOf(tree, ref.Left) != inst {
		t.Error("u is not read through the default uniform block")
	}
	field := binary(t, tree, sum.Right)
	if ref := binary(t, tree, field.Left); ref.Op != ast.OpIndexDirectInterfaceBlock {
		t.Error("su.x is not read through the default uniform block")
	}
}

func TestAssignBindings(t *testing.T) {
	s := newShader(ast.StageFragment)
	preset := ast.Scalar(ast.BasicSampler2D, ast.QualUniform)
	preset.Layout.Binding = 0
	tex := s.global("tex", preset)
	b := s.syms.NewBlock("UB", ast.SymbolUserDefined, ast.QualUniform, ast.Field{Name: "v", Type: floatType(4)})
	s.global("ub", ast.BlockType(b, ast.QualUniform))
	tex2 := s.global("tex2", ast.Scalar(ast.BasicSampler2D, ast.QualUniform))
	s.global("u", ast.Scalar(ast.BasicFloat, ast.QualUniform))
	s.main()

	s.mustRun(t,
		DeclareDriverUniforms(),
		SeparateDeclarations(),
		ToposortStructs(),
		SeparateStructSamplers(),
		HoistDefaultUniforms(),
		AssignBindings(),
	)

	layoutOf := func(v ast.VariableID) ast.Layout {
		vt := s.syms.Variable(v).Type
		if vt.IsInterfaceBlock() {
			return s.syms.Block(vt.Block).Layout
		}
		return vt.Layout
	}
	tests := []struct {
		name         string
		v            ast.VariableID
		set, binding int
	}{
		{"driver", s.c.DriverUniforms, DriverUniformsSet, 0},
		{"default", s.c.DefaultUniforms, DefaultUniformsSet, 0},
		{"tex", tex, ResourceSet, 0},
		{"ub", s.declared(s.root()[3]), ResourceSet, 1},
		{"tex2", tex2, ResourceSet, 2},
	}
	for _, tt := range tests {
		if l := layoutOf(tt.v); l.Set != tt.set || l.Binding != tt.binding {
			t.Errorf("%s: set %d binding %d, want set %d binding %d", tt.name, l.Set, l.Binding, tt.set, tt.binding)
		}
	}
}

// rowMajorBlock declares a block with one row-major member of type m and
// returns the instance.
func rowMajorBlock(s *shader, q ast.Qualifier, m ast.Type) ast.VariableID {
	b := s.syms.NewBlock("M", ast.SymbolUserDefined, q, ast.Field{Name: "m", Type: m})
	s.syms.Block(b).Layout.MatrixPacking = ast.PackingRowMajor
	return s.global("blk", ast.BlockType(b, q))
}

func transposeArg(t *testing.T, tree *ast.Tree, id ast.NodeID) ast.NodeID {
	t.Helper()
	agg, ok := tree.Data(id).(*ast.Aggregate)
	if !ok || agg.Op != ast.OpTranspose || len(agg.Args) != 1 {
		t.Fatalf("node %d is %s, want transpose()", id, ast.KindName(tree.Data(id)))
	}
	return agg.Args[0]
}

func TestRewriteRowMajorRead(t *testing.T) {
	s := newShader(ast.StageFragment)
	s.c.Options |= pipeline.RewriteRowMajorMatrices
	tree := s.tree
	inst := rowMajorBlock(s, ast.QualUniform, ast.Matrix(3, 4, ast.QualTemporary))
	x := s.local("x", ast.Matrix(3, 4, ast.QualTemporary))
	s.main(tree.Declare(x, tree.BlockFieldAccess(tree.Sym(inst), 0)))

	s.mustRun(t, RewriteRowMajorMatrices())

	blk := s.syms.Block(s.syms.Variable(inst).Type.Block)
	if ft := blk.Fields[0].Type; ft.Primary != 4 || ft.Secondary != 3 || ft.Layout.MatrixPacking != ast.PackingColumnMajor {
		t.Errorf("field type = %s (%v), want column-major mat4x3", ft, ft.Layout.MatrixPacking)
	}
	if blk.Layout.MatrixPacking != ast.PackingColumnMajor {
		t.Error("block is still row-major")
	}
	init := binary(t, tree, tree.Data(s.body()[0]).(*ast.Declaration).Declarators[0])
	arg := transposeArg(t, tree, init.Right)
	if got := tree.TypeOf(arg); got.Primary != 4 || got.Secondary != 3 {
		t.Errorf("stored matrix read as %s", got)
	}
}

func TestRewriteRowMajorNonSquare(t *testing.T) {
	for _, dim := range [][2]uint8{{2, 3}, {3, 2}, {2, 4}, {4, 2}} {
		cols, rows := dim[0], dim[1]
		t.Run(fmt.Sprintf("mat%dx%d", cols, rows), func(t *testing.T) {
			s := newShader(ast.StageFragment)
			s.c.Options |= pipeline.RewriteRowMajorMatrices
			tree := s.tree
			inst := rowMajorBlock(s, ast.QualUniform, ast.Matrix(cols, rows, ast.QualTemporary))
			x := s.local("x", ast.Matrix(cols, rows, ast.QualTemporary))
			s.main(tree.Declare(x, tree.BlockFieldAccess(tree.Sym(inst), 0)))

			s.mustRun(t, RewriteRowMajorMatrices())

			ft := s.syms.Block(s.syms.Variable(inst).Type.Block).Fields[0].Type
			if ft.Primary != rows || ft.Secondary != cols {
				t.Errorf("field type = %s, want mat%dx%d", ft, rows, cols)
			}
			init := binary(t, tree, tree.Data(s.body()[0]).(*ast.Declaration).Declarators[0])
			if got := tree.TypeOf(init.Right); got.Primary != cols || got.Secondary != rows {
				t.Errorf("transpose() returns %s, want mat%dx%d", got, cols, rows)
			}
		})
	}
}

func TestRewriteRowMajorArrayAndNameless(t *testing.T) {
	s := newShader(ast.StageFragment)
	s.c.Options |= pipeline.RewriteRowMajorMatrices
	tree, syms := s.tree, s.syms
	inst := rowMajorBlock(s, ast.QualUniform, ast.Matrix(2, 2, ast.QualTemporary).ArrayOf(2))

	// layout(row_major) uniform NB { mat3 n; };
	nt := ast.Matrix(3, 3, ast.QualTemporary)
	nt.Layout.MatrixPacking = ast.PackingRowMajor
	nb := syms.NewBlock("NB", ast.SymbolUserDefined, ast.QualUniform, ast.Field{Name: "n", Type: nt})
	tree.AppendGlobal(tree.Declare(syms.NewVariable("", ast.SymbolEmpty, ast.BlockType(nb, ast.QualUniform)), ast.NoNode))
	fv := nt.WithQualifier(ast.QualUniform)
	fv.Block, fv.BlockField = nb, 0
	n := syms.NewVariable("n", ast.SymbolUserDefined, fv)

	y := s.local("y", ast.Matrix(2, 2, ast.QualTemporary))
	w := s.local("w", ast.Matrix(3, 3, ast.QualTemporary))
	s.main(
		tree.Declare(y, tree.Index(tree.BlockFieldAccess(tree.Sym(inst), 0), 1)),
		tree.Declare(w, tree.Sym(n)),
	)

	s.mustRun(t, RewriteRowMajorMatrices())

	body := s.body()
	init := binary(t, tree, tree.Data(body[0]).(*ast.Declaration).Declarators[0])
	if idx := binary(t, tree, transposeArg(t, tree, init.Right)); !idx.Op.IsIndex() {
		t.Errorf("transpose wraps %s, want the array element", idx.Op)
	}
	init = binary(t, tree, tree.Data(body[1]).(*ast.Declaration).Declarators[0])
	if symbolOf(tree, transposeArg(t, tree, init.Right)) != n {
		t.Error("nameless member read is not transposed")
	}
	if p := syms.Variable(n).Type.Layout.MatrixPacking; p != ast.PackingColumnMajor {
		t.Errorf("nameless member packing = %v", p)
	}
}

func TestRewriteRowMajorWrite(t *testing.T) {
	s := newShader(ast.StageFragment)
	s.c.Options |= pipeline.RewriteRowMajorMatrices
	tree := s.tree
	inst := rowMajorBlock(s, ast.QualBuffer, ast.Matrix(3, 4, ast.QualTemporary))
	x := s.local("x", ast.Matrix(3, 4, ast.QualTemporary))
	s.main(
		tree.Declare(x, ast.NoNode),
		tree.Assign(tree.BlockFieldAccess(tree.Sym(inst), 0), tree.Sym(x)),
	)

	s.mustRun(t, RewriteRowMajorMatrices())

	assign := binary(t, tree, s.body()[1])
	if symbolOf(tree, transposeArg(t, tree, assign.Right)) != x {
		t.Error("stored value is not the transpose of x")
	}
	if got := tree.TypeOf(s.body()[1]); got.Primary != 4 || got.Secondary != 3 {
		t.Errorf("assignment type = %s, want mat4x3", got)
	}
}

func TestRewriteRowMajorErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *shader)
		want  string
	}{
		{
			name: "column write",
			build: func(s *shader) {
				inst := rowMajorBlock(s, ast.QualBuffer, ast.Matrix(3, 4, ast.QualTemporary))
				col := s.tree.Index(s.tree.BlockFieldAccess(s.tree.Sym(inst), 0), 0)
				s.main(s.tree.Assign(col, vec4(s.tree, 0)))
			},
			want: "unsupported write",
		},
		{
			name: "whole array",
			build: func(s *shader) {
				arr := ast.Matrix(2, 2, ast.QualTemporary).ArrayOf(2)
				inst := rowMajorBlock(s, ast.QualUniform, arr)
				z := s.local("z", arr)
				s.main(s.tree.Declare(z, s.tree.BlockFieldAccess(s.tree.Sym(inst), 0)))
			},
			want: "used as a whole",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShader(ast.StageFragment)
			s.c.Options |= pipeline.RewriteRowMajorMatrices
			tt.build(s)
			wantSemantics(t, s.run(t, RewriteRowMajorMatrices()), tt.want)
		})
	}
}
