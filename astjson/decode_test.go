package astjson

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/diag"
	"github.com/gogpu/translator/validate"
)

// vertexDoc is
//
//	struct S { highp float a; } s;
//	uniform vec4 u;
//	void main() {
//	  float x = sin(u.x);
//	  gl_Position = vec4(x);
//	  if (true) { return; }
//	}
const vertexDoc = `{
  "stage": "vertex",
  "version": 300,
  "structs": [{"name": "S", "fields": [{"name": "a", "type": {"code": "f", "precision": "highp"}}]}],
  "variables": [
    {"name": "u", "type": {"code": "f4", "qualifier": "uniform", "layout": {"binding": 2}}},
    {"name": "s", "type": {"code": "struct", "struct": 0, "qualifier": "global", "specifier": true}},
    {"name": "x", "type": {"code": "f"}}
  ],
  "functions": [{"name": "main", "return": {"code": "v"}, "params": []}],
  "root": [
    {"kind": "declaration", "declarators": [{"kind": "symbol", "var": 1}]},
    {"kind": "declaration", "line": 2, "column": 1, "declarators": [{"kind": "symbol", "var": 0}]},
    {"kind": "function", "function": 0, "body": {"kind": "block", "stmts": [
      {"kind": "declaration", "declarators": [
        {"kind": "binary", "op": "init", "left": {"kind": "symbol", "var": 2},
         "right": {"kind": "builtin_call", "signature": "sin(f", "args": [
           {"kind": "swizzle", "operand": {"kind": "symbol", "var": 0}, "offsets": [0]}]}}]},
      {"kind": "binary", "op": "=", "line": 5, "column": 3,
       "left": {"kind": "symbol", "builtin": "gl_Position"},
       "right": {"kind": "construct", "type": {"code": "f4"}, "args": [{"kind": "symbol", "var": 2}]}},
      {"kind": "if", "cond": {"kind": "constant", "type": {"code": "b"}, "values": [true]},
       "then": {"kind": "block", "stmts": [{"kind": "branch", "op": "return"}]}}
    ]}}
  ]
}`

func TestDecode(t *testing.T) {
	u, err := Decode(strings.NewReader(vertexDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if u.Stage != ast.StageVertex || u.Version != 300 {
		t.Errorf("stage %s version %d", u.Stage, u.Version)
	}

	var sink diag.List
	res, err := validate.Validate(u.Tree, u.Tree.Root, validate.Strict(), &sink)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.OK() {
		t.Fatalf("decoded tree is invalid: %v\n%s", sink.Err(), ast.DumpString(u.Tree))
	}

	tree, syms := u.Tree, u.Symbols
	root := tree.Statements(tree.Root)
	if len(root) != 3 {
		t.Fatalf("root has %d statements, want 3", len(root))
	}
	if got := tree.Loc(root[1]); got != (ast.SourceLoc{Line: 2, Column: 1}) {
		t.Errorf("uniform declaration at %s", got)
	}
	if v, _ := tree.DeclaredVariable(tree.Data(root[1]).(*ast.Declaration).Declarators[0]); syms.Variable(v).Type.Layout.Binding != 2 {
		t.Errorf("u has layout %+v", syms.Variable(v).Type.Layout)
	}
	if st := syms.Struct(1); st.Name != "S" || st.Fields[0].Type.Precision != ast.PrecisionHigh {
		t.Errorf("struct = %+v", st)
	}

	body := tree.Statements(tree.MainBody())
	if len(body) != 3 {
		t.Fatalf("main has %d statements, want 3", len(body))
	}
	assign, ok := tree.Data(body[1]).(*ast.Binary)
	if !ok || assign.Op != ast.OpAssign {
		t.Fatalf("second statement is %s", ast.KindName(tree.Data(body[1])))
	}
	if got := tree.Loc(body[1]); got != (ast.SourceLoc{Line: 5, Column: 3}) {
		t.Errorf("assignment at %s, want 5:3", got)
	}
	pos := tree.Data(assign.Left).(*ast.Symbol).Var
	if pos != syms.BuiltInVariable(builtins.GlPosition) {
		t.Errorf("gl_Position resolved to %d, not the canonical handle", pos)
	}
	if typ := tree.TypeOf(body[1]); !typ.IsVector() || typ.Primary != 4 {
		t.Errorf("assignment type = %s", typ)
	}

	init := tree.Data(body[0]).(*ast.Declaration).Declarators[0]
	call := tree.Data(tree.Data(init).(*ast.Binary).Right).(*ast.Aggregate)
	if call.Op != ast.OpSin || syms.Function(call.Func).BuiltIn != builtins.FnSinF {
		t.Errorf("call = %+v", call)
	}
}

func TestDecodeErrors(t *testing.T) {
	const head = `{"stage": "fragment", "version": 300,
	  "variables": [{"name": "x", "type": {"code": "f"}}],
	  "functions": [{"name": "main", "return": {"code": "v"}, "params": []}],
	  "root": [`
	wrap := func(stmt string) string {
		return head + `{"kind": "function", "function": 0, "body": {"kind": "block", "stmts": [` + stmt + `]}}]}`
	}
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", `{"stage": `, "unexpected EOF"},
		{"unknown field", `{"stage": "vertex", "colour": 1}`, `unknown field "colour"`},
		{"stage", `{"stage": "pixel"}`, `stage: unknown stage "pixel"`},
		{"type code", `{"stage": "vertex", "variables": [{"name": "x", "type": {"code": "f9"}}]}`,
			`variables[0].type.code: unknown type code "f9"`},
		{"struct ref", `{"stage": "vertex", "variables": [{"name": "x", "type": {"code": "struct", "struct": 3}}]}`,
			"variables[0].type.struct"},
		{"built-in variable", `{"stage": "vertex", "variables": [{"name": "x", "kind": "builtin", "type": {"code": "f"}}]}`,
			"variables[0].kind"},
		{"param", `{"stage": "vertex", "functions": [{"name": "f", "return": {"code": "v"}, "params": [0]}]}`,
			"functions[0].params[0]: variable 0 out of range"},
		{"variable", wrap(`{"kind": "symbol", "var": 7}`), "root[0].body.stmts[0].var: variable 7 out of range"},
		{"builtin", wrap(`{"kind": "symbol", "builtin": "gl_Nothing"}`), `unknown built-in variable "gl_Nothing"`},
		{"operator", wrap(`{"kind": "binary", "op": "**", "line": 7, "column": 2,
			"left": {"kind": "symbol", "var": 0}, "right": {"kind": "symbol", "var": 0}}`),
			`root[0].body.stmts[0].op (7:2): unknown operator "**"`},
		{"signature", wrap(`{"kind": "builtin_call", "signature": "sin(i", "args": []}`), `unknown built-in function "sin(i"`},
		{"kind", wrap(`{"kind": "goto"}`), `unknown node kind "goto"`},
		{"loop", wrap(`{"kind": "loop", "loop": "until", "body": {"kind": "block"}}`), `unknown loop kind "until"`},
		{"constant values", wrap(`{"kind": "constant", "type": {"code": "i"}, "values": [true]}`), "bool value in int constant"},
		{"nested location", wrap(`{"kind": "if", "line": 3, "column": 1,
			"cond": {"kind": "symbol", "var": 0}, "then": {"kind": "block", "stmts": [{"kind": "branch", "op": "leave"}]}}`),
			`root[0].body.stmts[0].then.stmts[0].op (3:1): unknown branch "leave"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			if err == nil {
				t.Fatalf("Unmarshal succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDecodeMissingFields(t *testing.T) {
	docs := []string{
		`{"stage": "vertex", "variables": [{"name": "x"}]}`,
		`{"stage": "vertex", "root": [{"kind": "constant", "values": [1]}]}`,
		`{"stage": "vertex", "root": [{"kind": "if", "cond": {"kind": "constant", "type": {"code": "b"}, "values": [1]}}]}`,
		`{"stage": "vertex", "root": [{"kind": "declaration"}]}`,
		`{"stage": "vertex", "root": [null]}`,
	}
	for _, doc := range docs {
		_, err := Unmarshal([]byte(doc))
		var e *Error
		if !errors.As(err, &e) || !errors.Is(err, ErrMissing) {
			t.Errorf("Unmarshal(%s) = %v, want a missing field error", doc, err)
		}
	}
}

func TestDecodeBuiltInsShareHandles(t *testing.T) {
	doc := `{"stage": "fragment",
	  "variables": [{"name": "c", "type": {"code": "f4"}}],
	  "root": [
	    {"kind": "declaration", "declarators": [{"kind": "binary", "op": "init",
	      "left": {"kind": "symbol", "var": 0}, "right": {"kind": "symbol", "builtin": "gl_FragCoord"}}]},
	    {"kind": "binary", "op": "+=", "left": {"kind": "symbol", "var": 0}, "right": {"kind": "symbol", "builtin": "gl_FragCoord"}}
	  ]}`
	u, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	coord, ok := u.Symbols.FindBuiltInVariable(builtins.GlFragCoord)
	if !ok {
		t.Fatal("gl_FragCoord was not created")
	}
	refs := 0
	ast.NewTraverser(u.Tree, ast.OrderPre).Walk(u.Tree.Root, ast.VisitorFunc(func(_ *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
		if s, ok := u.Tree.Data(id).(*ast.Symbol); ok && s.Var == coord {
			refs++
		}
		return true
	}))
	if refs != 2 {
		t.Errorf("%d references to the canonical gl_FragCoord, want 2", refs)
	}
	if typ := u.Tree.TypeOf(u.Tree.Statements(u.Tree.Root)[1]); typ.Qualifier != ast.QualTemporary || typ.Primary != 4 {
		t.Errorf("compound assignment type = %s", typ)
	}
}
