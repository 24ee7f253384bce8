// Package diag collects diagnostics reported while rewriting or validating
// a shader tree.
package diag

import (
	"fmt"
	"strings"

	"github.com/gogpu/translator/ast"
)

// Severity is the severity level of a diagnostic.
type Severity uint8

const (
	// Error fails the compilation.
	Error Severity = iota
	// Warning does not block compilation.
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Loc      ast.SourceLoc
	Message  string
	// Token is the offending identifier, if any.
	Token string
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	var sb strings.Builder
	if d.Loc.Line > 0 {
		fmt.Fprintf(&sb, "%d:%d: ", d.Loc.Line, d.Loc.Column)
	}
	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	if d.Token != "" {
		fmt.Fprintf(&sb, "'%s' : ", d.Token)
	}
	sb.WriteString(d.Message)
	return sb.String()
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// List is an append-only collection of diagnostics. The zero value is ready
// to use.
type List struct {
	entries []Diagnostic
	errors  int
}

// Report adds d to the list.
func (l *List) Report(d Diagnostic) {
	l.entries = append(l.entries, d)
	if d.Severity == Error {
		l.errors++
	}
}

// Error adds an error diagnostic.
func (l *List) Error(loc ast.SourceLoc, token, format string, args ...any) {
	l.Report(Diagnostic{Severity: Error, Loc: loc, Token: token, Message: fmt.Sprintf(format, args...)})
}

// Warning adds a warning diagnostic.
func (l *List) Warning(loc ast.SourceLoc, token, format string, args ...any) {
	l.Report(Diagnostic{Severity: Warning, Loc: loc, Token: token, Message: fmt.Sprintf(format, args...)})
}

// Entries returns every diagnostic in report order.
func (l *List) Entries() []Diagnostic {
	return l.entries
}

// Len returns the number of diagnostics.
func (l *List) Len() int {
	return len(l.entries)
}

// ErrorCount returns the number of error-level diagnostics.
func (l *List) ErrorCount() int {
	return l.errors
}

// HasErrors reports whether any error-level diagnostic was reported.
func (l *List) HasErrors() bool {
	return l.errors > 0
}

// Err returns the list as an error, or nil if it holds no errors.
func (l *List) Err() error {
	if l.errors == 0 {
		return nil
	}
	return Errors(l.entries)
}

// Format returns every diagnostic, one per line. When source is not empty,
// each located diagnostic is followed by the offending line and a caret.
func (l *List) Format(source string) string {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}
	var sb strings.Builder
	for _, d := range l.entries {
		sb.WriteString(d.Error())
		sb.WriteByte('\n')
		n := d.Loc.Line
		if n < 1 || n > len(lines) {
			continue
		}
		line := lines[n-1]
		col := min(max(d.Loc.Column, 1), len(line)+1)
		fmt.Fprintf(&sb, "%4d| %s\n", n, line)
		fmt.Fprintf(&sb, "    | %s^\n", strings.Repeat(" ", col-1))
	}
	return sb.String()
}

// Errors is a list of diagnostics used as an error value.
type Errors []Diagnostic

// Error implements the error interface.
func (el Errors) Error() string {
	var first *Diagnostic
	n := 0
	for i := range el {
		if el[i].Severity != Error {
			continue
		}
		if first == nil {
			first = &el[i]
		}
		n++
	}
	switch {
	case first == nil:
		return "no errors"
	case n == 1:
		return first.Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", first.Error(), n-1)
	}
}
