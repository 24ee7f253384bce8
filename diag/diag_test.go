package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/translator/ast"
)

func TestListCounts(t *testing.T) {
	var l List
	if l.HasErrors() || l.Err() != nil {
		t.Fatal("empty list reports errors")
	}
	l.Warning(ast.SourceLoc{Line: 1, Column: 1}, "", "unused variable")
	if l.HasErrors() {
		t.Error("a warning is not an error")
	}
	l.Error(ast.SourceLoc{Line: 2, Column: 5}, "gl_ClipDistance", "array must be indexed by constants, size %d", 8)
	l.Error(ast.SourceLoc{}, "", "second")
	if l.Len() != 3 || l.ErrorCount() != 2 {
		t.Errorf("Len=%d ErrorCount=%d, want 3/2", l.Len(), l.ErrorCount())
	}

	err := l.Err()
	var list Errors
	if !errors.As(err, &list) {
		t.Fatalf("Err() = %T, want Errors", err)
	}
	want := "2:5: error: 'gl_ClipDistance' : array must be indexed by constants, size 8 (and 1 more errors)"
	if err.Error() != want {
		t.Errorf("Error() = %q\nwant %q", err.Error(), want)
	}
}

func TestDiagnosticError(t *testing.T) {
	tests := []struct {
		d    Diagnostic
		want string
	}{
		{Diagnostic{Severity: Error, Message: "boom"}, "error: boom"},
		{Diagnostic{Severity: Warning, Loc: ast.SourceLoc{Line: 3, Column: 7}, Message: "hmm"}, "3:7: warning: hmm"},
		{Diagnostic{Severity: Error, Token: "x", Message: "undeclared"}, "error: 'x' : undeclared"},
	}
	for _, tt := range tests {
		if got := tt.d.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatWithSource(t *testing.T) {
	src := "void main() {\n  gl_FragColor = x;\n}"
	var l List
	l.Error(ast.SourceLoc{Line: 2, Column: 18}, "x", "undeclared identifier")
	l.Error(ast.SourceLoc{Line: 9, Column: 1}, "", "past the end")
	out := l.Format(src)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Format produced %d lines:\n%s", len(lines), out)
	}
	if lines[1] != "   2|   gl_FragColor = x;" {
		t.Errorf("context line = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "^") || strings.Index(lines[2], "^") != 6+17 {
		t.Errorf("caret line = %q", lines[2])
	}
	if lines[3] != "9:1: error: past the end" {
		t.Errorf("out-of-range diagnostic = %q", lines[3])
	}
}
