// Package types defines Sloth's small type language: the atomic value type,
// first-order-result function types, and the inference variables used while
// Hindley-Milner inference is still running.
package types

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Type is implemented by every member of Sloth's type language: Value,
// Function and Variable. A fully substituted Type retained in a compiled
// AST or the core IR never contains a Variable; see the occurs-check and
// substitution machinery in package infer.
type Type interface {
	// String renders the type the way it would appear in a diagnostic or
	// a module interface's textual form.
	String() string

	// isType is unexported so Type cannot be implemented outside this
	// package; the inferencer and code generator both rely on being able
	// to type-switch exhaustively over Value, Function and Variable.
	isType()
}

// Value is an atomic value type. Number is its only inhabitant today; the
// type exists as its own node (rather than hard-coding "double" everywhere)
// so a future value kind has somewhere to land.
type Value int

const (
	// Number is the only Value kind: an IEEE-754 double.
	Number Value = iota
)

func (Value) isType() {}

func (v Value) String() string {
	switch v {
	case Number:
		return "Number"
	default:
		return fmt.Sprintf("Value(%d)", int(v))
	}
}

// Function is first-order in its result and higher-order in its arguments
// (any Type, including other Functions). Spec §3.1 restricts a finished
// Function's Result to a Value - a function always returns a double, never
// a closure - but Result is typed as the general Type interface, not
// Value, so package infer can park an unresolved Variable there while a
// function's own result is still being solved for (see the inferencer's
// freshFunctionType and spec §8 scenario 6, the `f(x) = f` occurs-check
// case: the function's result position must be able to unify against the
// function's own type before it is known to be a Value, or the
// self-reference can never be detected). By the time a Function reaches
// package codegen, inference has already substituted Result down to a
// Value - see infer.Infer's final unify-with-Number step - and
// typelower.Lower panics if that invariant is ever violated.
type Function struct {
	Arguments []Type
	Result    Type
}

func (Function) isType() {}

func (f Function) String() string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(args, ", "), f.Result)
}

// variableIDs is the process-wide monotonic allocator described in spec
// §5 ("the id counter ... is process-wide and atomic; its sole requirement
// is monotonicity per compile"). It is never reset between modules: ids
// only need to be unique within one inferencer run, and a monotonic
// counter satisfies that trivially across many runs too.
var variableIDs uint64

// Variable is an inference variable, valid only while type inference is
// running. Two Variables with the same ID are the same unknown; by the
// convention recorded in spec §9, Variable.Equal always reports true
// regardless of ID, mirroring the original implementation's
// PartialEq::eq override, so it must never be used as a map key or
// substituted into a type that escapes the inferencer (see infer.Substitution).
type Variable struct {
	id uint64
}

func (Variable) isType() {}

// NewVariable allocates a fresh inference variable with a globally unique,
// monotonically increasing id.
func NewVariable() Variable {
	return Variable{id: atomic.AddUint64(&variableIDs, 1)}
}

// ID returns the variable's allocation-order id. IDs are opaque outside
// package infer: callers may use them to key a substitution map, never to
// decide equality of two Variables (use Equal for that).
func (v Variable) ID() uint64 { return v.id }

// Equal always returns true: per spec §9, two inference variables are
// defined to compare equal to each other regardless of identity. This is
// intentionally NOT Go's ==; do not use Variable as a map key anywhere
// equality matters (package infer keys substitutions by ID instead).
func (Variable) Equal(Variable) bool { return true }

func (v Variable) String() string {
	return fmt.Sprintf("?%d", v.id)
}

// Equal reports whether two fully or partially substituted types are
// structurally equal. Variables compare equal to any other Variable (see
// Variable.Equal) but never to a Value or Function - a Variable is only
// ever equal to itself or another not-yet-resolved Variable.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case Value:
		bt, ok := b.(Value)
		return ok && at == bt
	case Variable:
		_, ok := b.(Variable)
		return ok
	case Function:
		bt, ok := b.(Function)
		if !ok || len(at.Arguments) != len(bt.Arguments) || !Equal(at.Result, bt.Result) {
			return false
		}
		for i := range at.Arguments {
			if !Equal(at.Arguments[i], bt.Arguments[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// HasVariable reports whether t contains any Variable anywhere in its
// structure. After inference completes, no retained type may answer true
// to this (see spec §3.1's invariant and infer.AmbiguousType).
func HasVariable(t Type) bool {
	switch tt := t.(type) {
	case Variable:
		return true
	case Function:
		for _, a := range tt.Arguments {
			if HasVariable(a) {
				return true
			}
		}
		return HasVariable(tt.Result)
	default:
		return false
	}
}
