// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package passes

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/target"
)

// shader is a tree under construction plus the compilation that will run
// passes over it. Every run validates the input and the tree after each
// pass.
type shader struct {
	c    *pipeline.Compilation
	tree *ast.Tree
	syms *ast.SymbolTable
}

func newShader(stage ast.ShaderStage) *shader {
	syms := ast.NewSymbolTable()
	tree := ast.NewTree(syms)
	c := pipeline.NewCompilation(tree, stage, 300)
	c.Options = pipeline.ValidateAST | pipeline.ValidateEachPass
	return &shader{c: c, tree: tree, syms: syms}
}

// global declares a user variable at global scope.
func (s *shader) global(name string, typ ast.Type) ast.VariableID {
	v := s.syms.NewVariable(name, ast.SymbolUserDefined, typ)
	s.tree.AppendGlobal(s.tree.Declare(v, ast.NoNode))
	return v
}

func (s *shader) local(name string, typ ast.Type) ast.VariableID {
	return s.syms.NewVariable(name, ast.SymbolUserDefined, typ)
}

// structDecl declares "struct name { fields };" at global scope.
func (s *shader) structDecl(name string, fields ...ast.Field) ast.StructID {
	sid := s.syms.NewStruct(name, ast.SymbolUserDefined, fields...)
	typ := ast.StructType(sid, ast.QualGlobal)
	typ.StructSpecifier = true
	s.tree.AppendGlobal(s.tree.Declare(s.syms.NewVariable("", ast.SymbolEmpty, typ), ast.NoNode))
	return sid
}

// main defines main with the given statements and returns its body.
func (s *shader) main(stmts ...ast.NodeID) ast.NodeID {
	f := s.syms.NewFunction("main", ast.SymbolUserDefined, ast.Void())
	body := s.tree.NewBlock(stmts...)
	s.tree.AppendGlobal(s.tree.Define(f, body))
	return body
}

func (s *shader) run(t *testing.T, passes ...pipeline.Pass) error {
	t.Helper()
	p, err := pipeline.New("test", target.Metal, passes...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p.Run(s.c)
}

func (s *shader) mustRun(t *testing.T, passes ...pipeline.Pass) {
	t.Helper()
	if err := s.run(t, passes...); err != nil {
		t.Fatalf("Run: %v\n%s", err, ast.DumpString(s.tree))
	}
}

// wantSemantics checks that err is a shader error mentioning msg.
func wantSemantics(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Run succeeded, want an error containing %q", msg)
	}
	if kind, _ := pipeline.KindOf(err); kind != pipeline.ErrSemantics {
		t.Fatalf("error kind = %v, want %v (%v)", kind, pipeline.ErrSemantics, err)
	}
	if !strings.Contains(err.Error(), msg) {
		t.Errorf("error = %q, want it to contain %q", err, msg)
	}
}

func (s *shader) root() []ast.NodeID {
	return s.tree.Statements(s.tree.Root)
}

func (s *shader) body() []ast.NodeID {
	return s.tree.Statements(s.tree.MainBody())
}

// declared returns the variable a statement declares, or 0.
func (s *shader) declared(stmt ast.NodeID) ast.VariableID {
	v, _ := declaredGlobal(s.tree, stmt)
	return v
}

func (s *shader) name(v ast.VariableID) string {
	return s.syms.Variable(v).Name
}

func vec4(tree *ast.Tree, x float32) ast.NodeID {
	return tree.Construct(floatType(4), tree.FloatConst(x))
}

// symbolOf returns the variable id is a reference to, or 0.
func symbolOf(tree *ast.Tree, id ast.NodeID) ast.VariableID {
	if s, ok := tree.Data(id).(*ast.Symbol); ok {
		return s.Var
	}
	return 0
}

func binary(t *testing.T, tree *ast.Tree, id ast.NodeID) *ast.Binary {
	t.Helper()
	b, ok := tree.Data(id).(*ast.Binary)
	if !ok {
		t.Fatalf("node %d is %s, want Binary", id, ast.KindName(tree.Data(id)))
	}
	return b
}

// vertexProgram builds
//
//	uniform float u;
//	uniform sampler2D tex;
//	void main() { gl_Position = vec4(u); gl_PointSize = 1.0; }
func vertexProgram() *shader {
	s := newShader(ast.StageVertex)
	tree := s.tree
	u := s.global("u", ast.Scalar(ast.BasicFloat, ast.QualUniform))
	s.global("tex", ast.Scalar(ast.BasicSampler2D, ast.QualUniform))
	pos := s.syms.BuiltInVariable(builtins.GlPosition)
	ps := s.syms.BuiltInVariable(builtins.GlPointSize)
	s.main(
		tree.Assign(tree.Sym(pos), tree.Construct(floatType(4), tree.Sym(u))),
		tree.Assign(tree.Sym(ps), tree.FloatConst(1)),
	)
	return s
}

// fragmentProgram builds
//
//	uniform float u;
//	void main() { gl_FragColor = vec4(u) * gl_FragCoord; float d = dFdy(u); }
func fragmentProgram() *shader {
	s := newShader(ast.StageFragment)
	tree := s.tree
	u := s.global("u", ast.Scalar(ast.BasicFloat, ast.QualUniform))
	color := s.syms.BuiltInVariable(builtins.GlFragColor)
	coord := s.syms.BuiltInVariable(builtins.GlFragCoord)
	d := s.local("d", floatType(1))
	s.main(
		tree.Assign(tree.Sym(color),
			tree.Binary(ast.OpMul, tree.Construct(floatType(4), tree.Sym(u)), tree.Sym(coord), floatType(4))),
		tree.Declare(d, tree.CallBuiltIn(builtins.FnDFdyF, tree.Sym(u))),
	)
	return s
}

func TestPipelines(t *testing.T) {
	all := pipeline.ValidateAST | pipeline.ValidateEachPass | pipeline.AddPreRotation |
		pipeline.TransformDepth | pipeline.ClampPointSize | pipeline.EmulateRasterizerDiscard |
		pipeline.RewriteRowMajorMatrices
	tests := []struct {
		name     string
		pipeline func() *pipeline.Pipeline
		program  func() *shader
	}{
		{"metal vertex", Metal, vertexProgram},
		{"metal fragment", Metal, fragmentProgram},
		{"vulkan vertex", Vulkan, vertexProgram},
		{"vulkan fragment", Vulkan, fragmentProgram},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.program()
			s.c.Options = all
			if err := tt.pipeline().Run(s.c); err != nil {
				t.Fatalf("Run: %v\n%s", err, ast.DumpString(s.tree))
			}
			if !s.c.DriverUniforms.IsValid() || !s.c.DefaultUniforms.IsValid() {
				t.Errorf("driver %d, default %d: both uniform blocks should be declared", s.c.DriverUniforms, s.c.DefaultUniforms)
			}
		})
	}
}

func TestPipelinePassOrder(t *testing.T) {
	metal := Metal().Passes()
	vulkan := Vulkan().Passes()
	if metal[0] != "SeparateDeclarations" || metal[len(metal)-1] != "RewriteKeywords" {
		t.Errorf("metal passes = %v", metal)
	}
	if got := vulkan[len(vulkan)-2]; got != "DeclarePerVertexBlocks" {
		t.Errorf("vulkan pass before last = %q, want DeclarePerVertexBlocks", got)
	}
	for _, name := range []string{"ReduceInterfaceBlocks", "InsertRasterizationDiscard", "InsertSampleMaskWrite"} {
		found := false
		for _, n := range vulkan {
			found = found || n == name
		}
		if found {
			t.Errorf("vulkan pipeline runs %s", name)
		}
	}
	if p, ok := ForDialect(target.Vulkan); !ok || p.Dialect != target.Vulkan {
		t.Errorf("ForDialect(Vulkan) = %v, %v", p, ok)
	}
}

func TestPassesIgnoreIrrelevantInput(t *testing.T) {
	// A fragment shader with nothing to rewrite leaves main untouched.
	s := newShader(ast.StageFragment)
	x := s.local("x", floatType(1))
	s.main(s.tree.Declare(x, s.tree.FloatConst(1)))
	before := ast.DumpString(s.tree)
	s.mustRun(t,
		SeparateDeclarations(),
		ToposortStructs(),
		RewriteGlobalQualifierDecls(),
		ReduceInterfaceBlocks(),
		SeparateStructSamplers(),
		HoistDefaultUniforms(),
		EmulateFragOutputs(),
		ReplaceCullDistance(),
		RewriteKeywords(),
	)
	if after := ast.DumpString(s.tree); after != before {
		t.Errorf("tree changed:\n%s\nwant:\n%s", after, before)
	}
}

func TestRewriteKeywords(t *testing.T) {
	s := newShader(ast.StageFragment)
	tree, syms := s.tree, s.syms
	sid := s.structDecl("kernel",
		ast.Field{Name: "constant", Type: floatType(1)},
		ast.Field{Name: "_constant", Type: floatType(1)},
	)
	device := s.global("device", ast.Scalar(ast.BasicFloat, ast.QualGlobal))
	taken := s.global("_device", ast.Scalar(ast.BasicFloat, ast.QualGlobal))
	inst := s.global("vertex", ast.StructType(sid, ast.QualGlobal))
	helper := syms.NewFunction("fragment", ast.SymbolUserDefined, ast.Void())
	tree.AppendGlobal(tree.Define(helper, tree.NewBlock()))
	s.main(tree.Assign(tree.Sym(device), tree.Sym(taken)), tree.Call(helper))

	s.mustRun(t, RewriteKeywords())

	tests := []struct {
		what, got, want string
	}{
		{"struct", syms.Struct(sid).Name, "_kernel"},
		{"field", syms.Struct(sid).Fields[0].Name, "_constant_1"},
		{"free field", syms.Struct(sid).Fields[1].Name, "_constant"},
		{"variable", s.name(device), "_device_1"},
		{"free variable", s.name(taken), "_device"},
		{"instance", s.name(inst), "_vertex"},
		{"function", syms.Function(helper).Name, "_fragment"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s renamed to %q, want %q", tt.what, tt.got, tt.want)
		}
	}
}

func TestRewriteKeywordsVulkan(t *testing.T) {
	s := newShader(ast.StageFragment)
	v := s.global("sampler", ast.Scalar(ast.BasicFloat, ast.QualGlobal))
	kernel := s.global("kernel", ast.Scalar(ast.BasicFloat, ast.QualGlobal))
	s.main()

	p, err := pipeline.New("test", target.Vulkan, RewriteKeywords())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Run(s.c); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s.name(v); got != "_sampler" {
		t.Errorf("sampler renamed to %q", got)
	}
	if got := s.name(kernel); got != "kernel" {
		t.Errorf("kernel renamed to %q, it is free in GLSL", got)
	}
}

func TestInternalNamesNeverClash(t *testing.T) {
	s := vertexProgram()
	s.c.Options |= pipeline.EmulateRasterizerDiscard
	if err := Metal().Run(s.c); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var errs []error
	for i := 1; i < s.syms.NumVariables(); i++ {
		v := s.syms.Variable(ast.VariableID(i))
		if v.Kind == ast.SymbolInternal && v.Name != RasterizerDisabledConstant && !strings.HasPrefix(v.Name, InternalPrefix) {
			errs = append(errs, errors.New(v.Name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		t.Errorf("internal variables without the internal prefix: %v", err)
	}
}
