// Package core defines Sloth's core intermediate representation: the
// closure-converted tree produced by package closure and consumed by
// package codegen (spec §3.3). Every function definition carries an
// explicit, deterministically ordered environment of captured free
// variables, and every expression's type is recoverable without
// re-running inference.
package core

import "sloth/src/types"

// TypedName pairs a name with its concrete (post-inference) type, used for
// both a function's arguments and its captured environment.
type TypedName struct {
	Name string
	Type types.Type
}

// Expression is implemented by every core IR expression shape. Unlike the
// surface tree, Application here targets a closure-typed variable (by
// name - codegen resolves it through the variable table) rather than a
// bare function name, and Variable carries its own type so codegen never
// has to re-derive it.
type Expression interface {
	ExprType() types.Type
	isCoreExpression()
}

// Number is a floating point literal; its type is always types.Number.
type Number struct {
	Value float64
}

func (Number) ExprType() types.Type { return types.Number }
func (Number) isCoreExpression()    {}

// Variable references a name - a function argument, a captured
// environment slot, or a top-level global - and is resolved by package
// codegen through whichever of those three the name turns out to be.
type Variable struct {
	Name string
	Type types.Type
}

func (v Variable) ExprType() types.Type { return v.Type }
func (Variable) isCoreExpression()      {}

// Operation is a binary arithmetic expression; its type is always
// types.Number.
type Operation struct {
	Operator string // "+", "-", "*", "/"
	LHS, RHS Expression
}

func (Operation) ExprType() types.Type { return types.Number }
func (Operation) isCoreExpression()    {}

// Application calls the closure bound to Function with Args. Function is
// looked up exactly like any other Variable reference, then invoked
// through the closure ABI (spec §4.6.1): load the entry pointer, pass the
// environment pointer as the first argument.
type Application struct {
	Function string
	Args     []Expression
	Type     types.Type // always types.Number: Function.Result is always Value.
}

func (a Application) ExprType() types.Type { return a.Type }
func (Application) isCoreExpression()      {}

// ValueBinding is one binding of a LetValues: bound sequentially, each
// later binding's Body may reference an earlier one (spec §4.6.1).
type ValueBinding struct {
	Name string
	Body Expression
}

// LetValues extends the variable table with Defs, in order, then
// evaluates Body.
type LetValues struct {
	Defs []ValueBinding
	Body Expression
}

func (l LetValues) ExprType() types.Type { return l.Body.ExprType() }
func (LetValues) isCoreExpression()      {}

// FunctionDefinition is a function definition within the core IR, whether
// at module scope or nested inside a LetFunctions. Environment lists this
// function's captured free variables in the deterministic order package
// closure's free-variable finder produces (lexicographic by name - spec
// §4.3, §4.4): this order is exactly the field order codegen uses when it
// lays out the closure's environment struct, so it must never be
// reordered after construction.
type FunctionDefinition struct {
	Name        string
	Environment []TypedName
	Arguments   []TypedName
	Body        Expression
	ResultType  types.Type // always types.Number.
}

// Type returns this definition's Function type (ignoring Environment,
// which is not part of the function's type - only of its closure layout).
func (f FunctionDefinition) Type() types.Function {
	args := make([]types.Type, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = a.Type
	}
	return types.Function{Arguments: args, Result: types.Number}
}

// LetFunctions introduces one or more (possibly mutually recursive) local
// function definitions, all visible to each other's bodies and to Body
// (spec §3.3 invariant (b)).
type LetFunctions struct {
	Defs []FunctionDefinition
	Body Expression
}

func (l LetFunctions) ExprType() types.Type { return l.Body.ExprType() }
func (LetFunctions) isCoreExpression()      {}

// ValueDefinition is a top-level value definition.
type ValueDefinition struct {
	Name string
	Body Expression
	Type types.Type // always types.Number.
}

// Declaration is a re-exposed import: the qualified name and type a
// dependent module's interface already supplied (spec §3.3, "declarations
// are imports re-exposed to code generation").
type Declaration struct {
	Name string
	Type types.Type
}

// Module is the core IR unit package codegen compiles (spec §3.3): the
// imported declarations it may reference, and its own definitions in
// emission order.
type Module struct {
	Name         string
	Declarations []Declaration
	Functions    []FunctionDefinition
	Values       []ValueDefinition
}
