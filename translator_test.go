package translator

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/astjson"
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/target"
)

// vertexJSON is
//
//	uniform float u;
//	void main() { gl_Position = vec4(u); }
const vertexJSON = `{
  "stage": "vertex",
  "version": 300,
  "variables": [{"name": "u", "type": {"code": "f", "qualifier": "uniform", "precision": "highp"}}],
  "functions": [{"name": "main", "return": {"code": "v"}, "params": []}],
  "root": [
    {"kind": "declaration", "declarators": [{"kind": "symbol", "var": 0}]},
    {"kind": "function", "function": 0, "body": {"kind": "block", "stmts": [
      {"kind": "binary", "op": "=", "left": {"kind": "symbol", "builtin": "gl_Position"},
       "right": {"kind": "construct", "type": {"code": "f4"}, "args": [{"kind": "symbol", "var": 0}]}}
    ]}}
  ]
}`

// undeclaredJSON reads a variable that is never declared.
const undeclaredJSON = `{
  "stage": "fragment",
  "version": 300,
  "variables": [{"name": "x", "type": {"code": "f"}}],
  "functions": [{"name": "main", "return": {"code": "v"}, "params": []}],
  "root": [
    {"kind": "function", "function": 0, "body": {"kind": "block", "stmts": [
      {"kind": "binary", "op": "=", "left": {"kind": "symbol", "var": 0}, "right": {"kind": "symbol", "var": 0}}
    ]}}
  ]
}`

func decode(t *testing.T, doc string) *astjson.Unit {
	t.Helper()
	u, err := astjson.Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return u
}

func TestTranslateJSON(t *testing.T) {
	for _, d := range []target.Dialect{target.Metal, target.Vulkan} {
		t.Run(d.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Dialect = d
			opts.Flags |= pipeline.ValidateEachPass | pipeline.TransformDepth
			c, err := TranslateJSON(strings.NewReader(vertexJSON), opts)
			if err != nil {
				t.Fatalf("TranslateJSON: %v", err)
			}
			if c.Dialect != d {
				t.Errorf("compilation dialect = %s, want %s", c.Dialect, d)
			}
			if !c.DriverUniforms.IsValid() || !c.DefaultUniforms.IsValid() {
				t.Errorf("driver %d, default %d: both uniform blocks should be declared", c.DriverUniforms, c.DefaultUniforms)
			}
			if c.Diag.Len() != 0 {
				t.Errorf("diagnostics: %v", c.Diag.Entries())
			}
		})
	}
}

func TestTranslateInvalidInput(t *testing.T) {
	_, err := Translate(decode(t, undeclaredJSON), DefaultOptions())
	if kind, ok := pipeline.KindOf(err); !ok || kind != pipeline.ErrInputInvalid {
		t.Fatalf("Translate error = %v, want %v", err, pipeline.ErrInputInvalid)
	}
}

func TestTranslateDecodeError(t *testing.T) {
	_, err := TranslateJSON(strings.NewReader(`{"stage": "pixel"}`), DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "unknown stage") {
		t.Fatalf("TranslateJSON error = %v", err)
	}
}

func TestTranslateUnknownDialect(t *testing.T) {
	opts := DefaultOptions()
	opts.Dialect = target.Dialect(9)
	if _, err := Translate(decode(t, vertexJSON), opts); err == nil {
		t.Fatal("Translate succeeded for an unknown dialect")
	}
}

func TestTranslateTree(t *testing.T) {
	syms := ast.NewSymbolTable()
	tree := ast.NewTree(syms)
	main := syms.NewFunction("main", ast.SymbolUserDefined, ast.Void())
	tree.AppendGlobal(tree.Define(main, tree.NewBlock()))

	opts := DefaultOptions()
	opts.Dialect = target.Vulkan
	c, err := TranslateTree(tree, ast.StageFragment, 300, opts)
	if err != nil {
		t.Fatalf("TranslateTree: %v", err)
	}
	if c.Tree != tree || c.Stage != ast.StageFragment {
		t.Errorf("compilation does not wrap the given tree")
	}
}

func TestTranslateTrace(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Config = pipeline.Config{Trace: &buf, DumpAfter: "RewriteKeywords"}
	if _, err := Translate(decode(t, vertexJSON), opts); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"metal: run SeparateDeclarations", "--- after RewriteKeywords ---"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace does not contain %q:\n%s", want, out)
		}
	}
}

func TestTranslateAll(t *testing.T) {
	units := []*astjson.Unit{decode(t, vertexJSON), decode(t, vertexJSON), decode(t, vertexJSON)}
	cs, err := TranslateAll(context.Background(), units, DefaultOptions())
	if err != nil {
		t.Fatalf("TranslateAll: %v", err)
	}
	for i, c := range cs {
		if c.Tree != units[i].Tree {
			t.Errorf("compilation %d is not for unit %d", i, i)
		}
	}

	units[1] = decode(t, undeclaredJSON)
	_, err = TranslateAll(context.Background(), units, DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "unit 1") {
		t.Fatalf("TranslateAll error = %v, want a failure in unit 1", err)
	}
	if kind, _ := pipeline.KindOf(err); kind != pipeline.ErrInputInvalid {
		t.Errorf("error kind = %v", kind)
	}
}

func TestTranslateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := TranslateAll(ctx, []*astjson.Unit{decode(t, vertexJSON)}, DefaultOptions()); err == nil {
		t.Fatal("TranslateAll ran on a canceled context")
	}
}
