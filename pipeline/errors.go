package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/translator/ast"
)

// ErrorKind categorizes pipeline failures.
type ErrorKind uint8

const (
	// ErrInputInvalid indicates the incoming tree is already broken. No pass
	// has run.
	ErrInputInvalid ErrorKind = iota

	// ErrPrecondition indicates a pass found the tree in a state it cannot
	// handle. This is a bug in pass ordering or in an earlier pass.
	ErrPrecondition

	// ErrSemantics indicates the shader breaks a rule the pipeline enforces.
	// The details are in the compilation's diagnostics.
	ErrSemantics

	// ErrCorruption indicates validation failed after a pass.
	ErrCorruption
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInputInvalid:
		return "InputInvalid"
	case ErrPrecondition:
		return "Precondition"
	case ErrSemantics:
		return "Semantics"
	case ErrCorruption:
		return "Corruption"
	default:
		return "Unknown"
	}
}

// Error is a pipeline failure.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Pass names the pass that failed, empty for input validation.
	Pass string

	// Message provides details about the error.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if e.Pass != "" {
		return fmt.Sprintf("pipeline %s in %s: %s", e.Kind, e.Pass, msg)
	}
	return fmt.Sprintf("pipeline %s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsInternal reports whether the error points at a compiler bug rather than
// at the shader.
func (e *Error) IsInternal() bool {
	return e.Kind == ErrPrecondition || e.Kind == ErrCorruption
}

// NewError creates an error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates an error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Preconditionf is shorthand for Errorf(ErrPrecondition, ...).
func Preconditionf(format string, args ...any) *Error {
	return Errorf(ErrPrecondition, format, args...)
}

// KindOf returns the kind of a pipeline error, or false if err is not one.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// wrapPassError attributes err to pass. Errors that are not pipeline errors
// are precondition failures: a pass only fails outside the diagnostics path
// when the tree is not what it expects.
func wrapPassError(pass string, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Pass == "" {
			pe.Pass = pass
		}
		return pe
	}
	var conflict *ast.EditConflictError
	if errors.As(err, &conflict) {
		return &Error{Kind: ErrPrecondition, Pass: pass, Message: "queued edits overlap", Err: err}
	}
	return &Error{Kind: ErrPrecondition, Pass: pass, Err: err}
}
