// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"strings"
	"testing"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
)

func intType() ast.Type {
	return ast.Scalar(ast.BasicInt, ast.QualTemporary)
}

func TestSeparateDeclarations(t *testing.T) {
	s := newShader(ast.StageFragment)
	tree, syms := s.tree, s.syms

	// float a, b;
	a := syms.NewVariable("a", ast.SymbolUserDefined, ast.Scalar(ast.BasicFloat, ast.QualGlobal))
	b := syms.NewVariable("b", ast.SymbolUserDefined, ast.Scalar(ast.BasicFloat, ast.QualGlobal))
	tree.AppendGlobal(tree.Add(ast.SourceLoc{Line: 1}, ast.Type{}, &ast.Declaration{
		Declarators: []ast.NodeID{tree.Sym(a), tree.Sym(b)},
	}))

	// struct S { float x; } sv;
	sid := syms.NewStruct("S", ast.SymbolUserDefined, ast.Field{Name: "x", Type: floatType(1)})
	st := ast.StructType(sid, ast.QualGlobal)
	st.StructSpecifier = true
	sv := s.global("sv", st)

	// for (int i = 0, j = 1; i < j;) {}
	i := s.local("i", intType())
	j := s.local("j", intType())
	init := tree.Add(ast.SourceLoc{}, ast.Type{}, &ast.Declaration{Declarators: []ast.NodeID{
		tree.Binary(ast.OpInitialize, tree.Sym(i), tree.IntConst(0), intType()),
		tree.Binary(ast.OpInitialize, tree.Sym(j), tree.IntConst(1), intType()),
	}})
	loop := tree.Add(ast.SourceLoc{}, ast.Type{}, &ast.Loop{
		Kind: ast.LoopFor,
		Init: init,
		Cond: tree.Binary(ast.OpLessThan, tree.Sym(i), tree.Sym(j), boolType()),
		Body: tree.NewBlock(),
	})
	s.main(loop, tree.Assign(tree.Sym(a), tree.Sym(b)))

	s.mustRun(t, SeparateDeclarations())

	root := s.root()
	if len(root) != 5 {
		t.Fatalf("root has %d statements, want 5:\n%s", len(root), ast.DumpString(tree))
	}
	if got := s.declared(root[0]); got != a {
		t.Errorf("root[0] declares %d, want a", got)
	}
	if got := s.declared(root[1]); got != b {
		t.Errorf("root[1] declares %d, want b", got)
	}
	if tree.Loc(root[1]).Line != 1 {
		t.Errorf("split declaration lost its location: %v", tree.Loc(root[1]))
	}
	if got, ok := structOnly(tree, root[2]); !ok || got != sid {
		t.Errorf("root[2] is not the struct-only declaration of S")
	}
	if got := s.declared(root[3]); got != sv {
		t.Errorf("root[3] declares %d, want sv", got)
	}
	if syms.Variable(sv).Type.StructSpecifier {
		t.Error("sv still carries the struct specifier")
	}

	body := s.body()
	blk, ok := tree.Data(body[0]).(*ast.Block)
	if !ok || len(blk.Stmts) != 3 {
		t.Fatalf("main[0] = %s, want a block of two declarations and the loop", ast.KindName(tree.Data(body[0])))
	}
	if s.declared(blk.Stmts[0]) != i || s.declared(blk.Stmts[1]) != j {
		t.Error("loop declarations are out of order")
	}
	if blk.Stmts[2] != loop || tree.Data(loop).(*ast.Loop).Init.IsValid() {
		t.Error("loop should follow the declarations with no init")
	}
}

func TestSeparateDeclarationsKeepsSingleStructDeclarator(t *testing.T) {
	// struct S { float x; }; stays as is.
	s := newShader(ast.StageFragment)
	s.structDecl("S", ast.Field{Name: "x", Type: floatType(1)})
	s.main()
	decl := s.root()[0]

	s.mustRun(t, SeparateDeclarations())

	if got := s.root(); len(got) != 2 || got[0] != decl {
		t.Errorf("root = %v, want the original declaration first", got)
	}
}

func TestSeparateDeclarationsNamesNamelessStruct(t *testing.T) {
	// struct { float x; } sv;
	s := newShader(ast.StageFragment)
	tree, syms := s.tree, s.syms
	sid := syms.NewStruct("", ast.SymbolUserDefined, ast.Field{Name: "x", Type: floatType(1)})
	st := ast.StructType(sid, ast.QualGlobal)
	st.StructSpecifier = true
	sv := s.global("sv", st)
	x := s.local("x", floatType(1))
	s.main(tree.Declare(x, tree.FieldAccess(tree.Sym(sv), 0)))

	s.mustRun(t, SeparateDeclarations(), ToposortStructs())

	name := syms.Struct(sid).Name
	if !strings.HasPrefix(name, InternalPrefix) {
		t.Fatalf("nameless struct is named %q, want an internal name", name)
	}
	root := s.root()
	if got, ok := structOnly(tree, root[0]); !ok || got != sid {
		t.Fatalf("root[0] is not the definition of %s:\n%s", name, ast.DumpString(tree))
	}
	if s.declared(root[1]) != sv || syms.Variable(sv).Type.StructSpecifier {
		t.Errorf("root[1] should declare sv without the struct specifier")
	}
}

func TestToposortStructs(t *testing.T) {
	s := newShader(ast.StageFragment)
	tree, syms := s.tree, s.syms
	dir := tree.Add(ast.SourceLoc{}, ast.Type{}, &ast.PreprocessorDirective{Kind: ast.DirectiveExtension, Command: "GL_EXT_foo : enable"})
	tree.AppendGlobal(dir)
	x := s.global("x", ast.Scalar(ast.BasicFloat, ast.QualGlobal))

	// A refers to B, which is declared after it.
	bid := syms.NewStruct("B", ast.SymbolUserDefined, ast.Field{Name: "f", Type: floatType(1)})
	aid := s.structDecl("A", ast.Field{Name: "b", Type: ast.StructType(bid, ast.QualTemporary)})
	bt := ast.StructType(bid, ast.QualGlobal)
	bt.StructSpecifier = true
	tree.AppendGlobal(tree.Declare(syms.NewVariable("", ast.SymbolEmpty, bt), ast.NoNode))
	s.main()

	s.mustRun(t, SeparateDeclarations(), ToposortStructs())

	root := s.root()
	if len(root) != 5 || root[0] != dir {
		t.Fatalf("root = %v, want the directive first:\n%s", root, ast.DumpString(tree))
	}
	if got, _ := structOnly(tree, root[1]); got != bid {
		t.Errorf("root[1] defines struct %d, want B", got)
	}
	if got, _ := structOnly(tree, root[2]); got != aid {
		t.Errorf("root[2] defines struct %d, want A", got)
	}
	if s.declared(root[3]) != x {
		t.Errorf("root[3] should declare x")
	}
}

func TestRewriteGlobalQualifierDecls(t *testing.T) {
	s := newShader(ast.StageVertex)
	tree := s.tree
	v := s.global("v", ast.Vector(ast.BasicFloat, 4, ast.QualVertexOut))
	tree.AppendGlobal(tree.Add(ast.SourceLoc{}, ast.Type{}, &ast.GlobalQualifierDecl{Target: tree.Sym(v), Invariant: true}))
	tree.AppendGlobal(tree.Add(ast.SourceLoc{}, ast.Type{}, &ast.GlobalQualifierDecl{Target: tree.Sym(v), Precise: true}))
	s.main(tree.Assign(tree.Sym(v), vec4(tree, 1)))

	s.mustRun(t, RewriteGlobalQualifierDecls())

	if got := len(s.root()); got != 2 {
		t.Errorf("root has %d statements, want 2", got)
	}
	if vt := s.syms.Variable(v).Type; !vt.Invariant || !vt.Precise {
		t.Errorf("v type = %+v, want invariant and precise", vt)
	}
}

func TestReduceInterfaceBlocks(t *testing.T) {
	s := newShader(ast.StageFragment)
	tree, syms := s.tree, s.syms
	b := syms.NewBlock("Blk", ast.SymbolUserDefined, ast.QualUniform, ast.Field{Name: "f", Type: floatType(1)})
	inst := syms.NewVariable("", ast.SymbolEmpty, ast.BlockType(b, ast.QualUniform))
	tree.AppendGlobal(tree.Declare(inst, ast.NoNode))
	ft := ast.Scalar(ast.BasicFloat, ast.QualUniform)
	ft.Block, ft.BlockField = b, 0
	f := syms.NewVariable("f", ast.SymbolUserDefined, ft)
	x := s.local("x", floatType(1))
	s.main(tree.Declare(x, tree.Sym(f)))

	s.mustRun(t, ReduceInterfaceBlocks())

	if vr := syms.Variable(inst); vr.Name != "__Blk" || vr.Kind != ast.SymbolInternal {
		t.Errorf("instance = %q (%s), want __Blk (internal)", vr.Name, vr.Kind)
	}
	init := binary(t, tree, tree.Data(s.body()[0]).(*ast.Declaration).Declarators[0])
	ref := binary(t, tree, init.Right)
	if ref.Op != ast.OpIndexDirectInterfaceBlock || symbolOf(tree, ref.Left) != inst {
		t.Errorf("reference = %s on %d, want a field selection on the instance", ref.Op, symbolOf(tree, ref.Left))
	}
}

func TestReduceInterfaceBlocksSkipsBuiltInBlocks(t *testing.T) {
	s := newShader(ast.StageVertex)
	tree, syms := s.tree, s.syms
	b := syms.NewBlock("gl_PerVertex", ast.SymbolBuiltIn, ast.QualOut, ast.PerVertexFields(1, 1)...)
	inst := syms.NewVariable("", ast.SymbolEmpty, ast.BlockType(b, ast.QualOut))
	tree.AppendGlobal(tree.Declare(inst, ast.NoNode))
	s.main()

	s.mustRun(t, ReduceInterfaceBlocks())

	if vr := syms.Variable(inst); vr.Name != "" || vr.Kind != ast.SymbolEmpty {
		t.Errorf("gl_PerVertex instance renamed to %q", vr.Name)
	}
}

func TestHoistConstants(t *testing.T) {
	s := newShader(ast.StageFragment)
	s.c.Resources.HoistConstantThreshold = 4
	tree := s.tree
	arr := ast.Scalar(ast.BasicFloat, ast.QualTemporary).ArrayOf(4)
	literals := func() ast.NodeID {
		return tree.Construct(arr, tree.FloatConst(1), tree.FloatConst(2), tree.FloatConst(3), tree.FloatConst(4))
	}

	// const float k[4] = float[4](...); float y[4] = float[4](...);
	// float small[2] = float[2](...) stays.
	k := s.local("k", arr.WithQualifier(ast.QualConst))
	y := s.local("y", arr)
	smallType := ast.Scalar(ast.BasicFloat, ast.QualTemporary).ArrayOf(2)
	small := s.local("small", smallType)
	z := s.local("z", floatType(1))
	s.main(
		tree.Declare(k, literals()),
		tree.Declare(y, literals()),
		tree.Declare(small, tree.Construct(smallType, tree.FloatConst(1), tree.FloatConst(2))),
		tree.Declare(z, tree.Index(tree.Sym(k), 1)),
	)

	s.mustRun(t, HoistConstants())

	root := s.root()
	if len(root) != 3 {
		t.Fatalf("root has %d statements, want 3:\n%s", len(root), ast.DumpString(tree))
	}
	if got := s.declared(root[0]); got != k || s.name(k) != "__k_0" {
		t.Errorf("root[0] declares %q, want __k_0", s.name(got))
	}
	hoisted := s.declared(root[1])
	if s.name(hoisted) != "__constArray_1" || s.syms.Variable(hoisted).Type.Qualifier != ast.QualConst {
		t.Errorf("root[1] declares %q, want const __constArray_1", s.name(hoisted))
	}

	body := s.body()
	if len(body) != 3 {
		t.Fatalf("main has %d statements, want 3", len(body))
	}
	init := binary(t, tree, tree.Data(body[0]).(*ast.Declaration).Declarators[0])
	if symbolOf(tree, init.Right) != hoisted {
		t.Error("y is not initialized from the hoisted constant")
	}
	init = binary(t, tree, tree.Data(body[1]).(*ast.Declaration).Declarators[0])
	if _, ok := tree.Data(init.Right).(*ast.Aggregate); !ok {
		t.Error("small array constructor was hoisted")
	}
}

func TestDeclarePerVertexBlocks(t *testing.T) {
	s := newShader(ast.StageVertex)
	tree, syms := s.tree, s.syms
	pos := syms.BuiltInVariable(builtins.GlPosition)
	tree.AppendGlobal(tree.Add(ast.SourceLoc{}, ast.Type{}, &ast.GlobalQualifierDecl{Target: tree.Sym(pos), Invariant: true}))
	s.main(tree.Assign(tree.Sym(pos), vec4(tree, 0)))

	s.mustRun(t, RewriteGlobalQualifierDecls(), DeclarePerVertexBlocks())

	root := s.root()
	if len(root) != 2 {
		t.Fatalf("root has %d statements, want 2:\n%s", len(root), ast.DumpString(tree))
	}
	inst := s.declared(root[0])
	it := syms.Variable(inst).Type
	if !it.IsInterfaceBlock() || syms.Block(it.Block).Name != "gl_PerVertex" {
		t.Fatalf("root[0] declares %s, want the gl_PerVertex block", it)
	}
	if !syms.Block(it.Block).Fields[0].Type.Invariant {
		t.Error("gl_Position member lost its invariant qualifier")
	}
	assign := binary(t, tree, s.body()[0])
	target := syms.Variable(symbolOf(tree, assign.Left)).Type
	if target.Block != it.Block || target.BlockField != 0 {
		t.Errorf("gl_Position write goes to block %d field %d", target.Block, target.BlockField)
	}
}
