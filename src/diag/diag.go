// Package diag defines the compiler's error kinds (spec §7) and their
// rendered forms. It sits below package infer, package closure, package
// codegen and package compiler so each can report an error without
// importing the top-level orchestrator.
package diag

import (
	"fmt"

	"github.com/fatih/color"

	"sloth/src/ast"
	"sloth/src/types"
)

// Kind distinguishes the error categories from spec §7. ParseError is not
// modeled here: it is produced by the external parser, which is out of
// scope for this module (spec §1).
type Kind int

const (
	// TypeMismatch: unification required a Value to equal a Function, or
	// required incompatible Function arities.
	TypeMismatch Kind = iota
	// OccursCheck: unifying a Variable with a type that contains it.
	OccursCheck
	// AmbiguousType: an inference Variable survived to the end of
	// inference without being substituted.
	AmbiguousType
	// UnboundVariable: a reference to a name with no binding in scope.
	UnboundVariable
	// VariableNotFound is raised by package codegen; by spec §7 this
	// indicates an internal invariant violation (a well-typed core IR
	// should never reference an unbound name), not a user-facing error.
	VariableNotFound
	// IOError: reading source, or writing the object/interface files.
	IOError
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case OccursCheck:
		return "OccursCheck"
	case AmbiguousType:
		return "AmbiguousType"
	case UnboundVariable:
		return "UnboundVariable"
	case VariableNotFound:
		return "VariableNotFound"
	case IOError:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// Error is the single concrete error type the compiler core raises. It
// carries whichever of its optional fields are meaningful for its Kind.
type Error struct {
	Kind        Kind
	Message     string
	Source      *ast.SourceInfo // nil for IOError and VariableNotFound.
	Expected    types.Type      // set for TypeMismatch.
	Actual      types.Type      // set for TypeMismatch.
	VariableID  uint64          // set for OccursCheck.
	Name        string          // set for UnboundVariable / VariableNotFound.
	Cause       error           // set for IOError.
}

func (e *Error) Error() string {
	return e.Render(false)
}

func (e *Error) Unwrap() error { return e.Cause }

// Render formats the error the way the driver is expected to print it
// (spec §7: "The driver prints the error's rendered form and exits
// non-zero."). When useColor is true the kind tag is colorized the way
// sunholo-data-ailang's REPL colorizes its own diagnostics, with
// color.NoColor honored automatically by the fatih/color package so
// NO_COLOR and non-tty output still render plain text.
func (e *Error) Render(useColor bool) string {
	tag := e.Kind.String()
	if useColor {
		c := color.New(color.FgRed, color.Bold)
		if e.Kind == AmbiguousType {
			c = color.New(color.FgYellow, color.Bold)
		}
		tag = c.Sprint(tag)
	}

	loc := ""
	if e.Source != nil {
		loc = fmt.Sprintf(" at %s:%d:%d", e.Source.File, e.Source.Line, e.Source.Pos)
	}

	switch e.Kind {
	case TypeMismatch:
		return fmt.Sprintf("%s%s: expected %s, got %s", tag, loc, e.Expected, e.Actual)
	case OccursCheck:
		return fmt.Sprintf("%s%s: variable ?%d occurs in %s", tag, loc, e.VariableID, e.Actual)
	case AmbiguousType:
		return fmt.Sprintf("%s%s: could not fully infer a type", tag, loc)
	case UnboundVariable:
		return fmt.Sprintf("%s%s: %q is not declared", tag, loc, e.Name)
	case VariableNotFound:
		return fmt.Sprintf("%s: internal error: %q not found during code generation", tag, e.Name)
	case IOError:
		return fmt.Sprintf("%s: %s: %s", tag, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s%s: %s", tag, loc, e.Message)
	}
}

// NewTypeMismatch reports that expected and actual could not be unified.
func NewTypeMismatch(expected, actual types.Type, src *ast.SourceInfo) *Error {
	return &Error{Kind: TypeMismatch, Expected: expected, Actual: actual, Source: src}
}

// NewOccursCheck reports that variable id would have to occur within its
// own substitution t.
func NewOccursCheck(id uint64, t types.Type, src *ast.SourceInfo) *Error {
	return &Error{Kind: OccursCheck, VariableID: id, Actual: t, Source: src}
}

// NewAmbiguousType reports a Variable that survived to the end of
// inference unsubstituted (spec §4.1, §9).
func NewAmbiguousType(src *ast.SourceInfo) *Error {
	return &Error{Kind: AmbiguousType, Source: src}
}

// NewUnboundVariable reports a reference to name with no binding in scope.
func NewUnboundVariable(name string, src *ast.SourceInfo) *Error {
	return &Error{Kind: UnboundVariable, Name: name, Source: src}
}

// NewVariableNotFound reports the internal-error case from spec §7: code
// generation referenced a name absent from the variable table.
func NewVariableNotFound(name string) *Error {
	return &Error{Kind: VariableNotFound, Name: name}
}

// NewIOError wraps a filesystem error encountered reading source or
// writing compiled output.
func NewIOError(message string, cause error) *Error {
	return &Error{Kind: IOError, Message: message, Cause: cause}
}
