// Package typelower lowers Sloth's small type language (package types) into
// concrete LLVM types, and lays out the closure ABI package codegen builds
// against (spec §4.5). It works for any types.Type - not just the
// call-site argument/result positions a naive port would cover - so
// package codegen can ask for the LLVM type of anything it holds a
// types.Type for: a captured environment slot's type, a top-level value's
// type, an argument's type, all go through the same table.
//
// Grounded on original_source/core/src/compile/type_compiler.rs: this is a
// port of TypeCompiler's lowering methods into Go, using
// tinygo.org/x/go-llvm in place of the original's hand-rolled LLVM wrapper.
package typelower

import (
	"sloth/src/core"
	"sloth/src/types"

	"tinygo.org/x/go-llvm"
)

// Lowerer lowers types.Type values into llvm.Type values within one LLVM
// context. It is stateless beyond the context itself: the closure ABI has
// no need for a type cache, since LLVM interns structurally identical
// anonymous struct types on its own.
type Lowerer struct {
	ctx llvm.Context
}

// New returns a Lowerer for ctx.
func New(ctx llvm.Context) *Lowerer {
	return &Lowerer{ctx: ctx}
}

// Lower lowers any Sloth type to its LLVM representation: Number becomes a
// double, and a Function becomes a pointer to its unsized closure struct -
// the representation every first-class function value has, whether it is
// a captured environment slot, an argument, or a global (spec §4.5).
func (lo *Lowerer) Lower(t types.Type) llvm.Type {
	switch tt := t.(type) {
	case types.Function:
		return llvm.PointerType(lo.UnsizedClosure(tt), 0)
	case types.Value:
		return lo.Value(tt)
	default:
		// types.Variable never reaches code generation: inference either
		// substitutes it or rejects the module with AmbiguousType.
		panic("typelower: cannot lower an unresolved type variable")
	}
}

// Value lowers the sole Value kind, Number, to LLVM's double type.
func (lo *Lowerer) Value(types.Value) llvm.Type {
	return lo.ctx.DoubleType()
}

// Function lowers a Function's *entry point* signature: the env pointer
// first, then Arguments, returning Result. This is the type every
// `<name>.$entry` function is declared with (spec §4.6.1); it is never the
// type of a Sloth value itself, which is always the closure pointer
// Lower returns. Result is lowered through Lower rather than Value
// directly: inference guarantees Result is always a Value by the time a
// Function reaches codegen (package infer rejects anything else with
// OccursCheck or AmbiguousType first), but typelower itself does not
// re-assert that invariant here.
func (lo *Lowerer) Function(f types.Function) llvm.Type {
	params := make([]llvm.Type, 0, len(f.Arguments)+1)
	params = append(params, llvm.PointerType(lo.UnsizedEnvironment(), 0))
	for _, a := range f.Arguments {
		params = append(params, lo.Lower(a))
	}
	return llvm.FunctionType(lo.Lower(f.Result), params, false)
}

// Closure lowers the concrete, sized closure layout for one function
// definition: its entry pointer, paired with its own environment struct
// (not a pointer to one - the environment is stored inline, spec §4.6.1).
func (lo *Lowerer) Closure(def core.FunctionDefinition) llvm.Type {
	return lo.ctx.StructType([]llvm.Type{
		llvm.PointerType(lo.Function(def.Type()), 0),
		lo.Environment(def.Environment),
	}, false)
}

// UnsizedClosure lowers the type every first-class function VALUE has: an
// entry pointer plus an opaque (zero-field) environment. A pointer to a
// nested (LetFunctions) Closure is bit-cast to a pointer to this type
// before it is bound in scope; a top-level Closure, whose environment is
// empty, already has this same structure and is used without a bit-cast
// (spec §4.5, §4.6.1).
func (lo *Lowerer) UnsizedClosure(f types.Function) llvm.Type {
	return lo.ctx.StructType([]llvm.Type{
		llvm.PointerType(lo.Function(f), 0),
		lo.UnsizedEnvironment(),
	}, false)
}

// Environment lowers a function's captured-variable list to its concrete
// environment struct type, field order matching the order of captures
// exactly (package closure sorts them by name).
func (lo *Lowerer) Environment(captures []core.TypedName) llvm.Type {
	fields := make([]llvm.Type, len(captures))
	for i, c := range captures {
		fields[i] = lo.Lower(c.Type)
	}
	return lo.ctx.StructType(fields, false)
}

// UnsizedEnvironment is the empty struct type every entry function takes
// its environment pointer as - the entry function itself always bit-casts
// it back to the concrete environment type it actually expects, since it
// alone knows which closure it belongs to (spec §4.6.1).
func (lo *Lowerer) UnsizedEnvironment() llvm.Type {
	return lo.ctx.StructType(nil, false)
}
