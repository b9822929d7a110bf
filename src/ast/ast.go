// Package ast defines Sloth's typed surface tree: the expression and
// definition shapes produced by the external parser (out of scope for this
// module, see spec §1) and consumed by package infer, package desugar and
// package closure in turn. Every node carries a SourceInfo for diagnostics.
//
// ASTs are immutable once built: every transformation elsewhere in the
// compiler (substitution, desugaring, closure conversion) takes a tree and
// returns a new one, sharing the SourceInfo of unchanged subtrees rather
// than mutating in place.
package ast

import "sloth/src/types"

// SourceInfo locates a node in the original source text. It is shared by
// pointer between a node and any node derived from it by a pure rewrite, so
// a diagnostic raised deep in the pipeline can still point at the original
// line the user wrote.
type SourceInfo struct {
	Line int
	Pos  int
	File string
}

// Operator is one of the four numeric binary operators Sloth supports.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
)

func (op Operator) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// Expression is implemented by every surface expression shape: Number,
// Variable, Operation, Application, LetValues and LetFunctions.
type Expression interface {
	// Source returns the SourceInfo the expression was parsed from.
	Source() *SourceInfo

	isExpression()
}

// Number is a floating point literal.
type Number struct {
	Value float64
	Info  *SourceInfo
}

func (n *Number) Source() *SourceInfo { return n.Info }
func (*Number) isExpression()         {}

// Variable is a reference to a bound name: a function argument, a let
// binding, or a top-level definition (of this module or an import).
type Variable struct {
	Name string
	Info *SourceInfo
}

func (v *Variable) Source() *SourceInfo { return v.Info }
func (*Variable) isExpression()         {}

// Operation is a binary arithmetic expression.
type Operation struct {
	Operator Operator
	LHS      Expression
	RHS      Expression
	Info     *SourceInfo
}

func (o *Operation) Source() *SourceInfo { return o.Info }
func (*Operation) isExpression()         {}

// Application calls the function bound to FunctionName with Args.
type Application struct {
	FunctionName string
	Args         []Expression
	Info         *SourceInfo
}

func (a *Application) Source() *SourceInfo { return a.Info }
func (*Application) isExpression()         {}

// ValueDef is a single non-recursive value binding inside a LetValues.
type ValueDef struct {
	Name string
	Body Expression
	Info *SourceInfo
}

// LetValues introduces one or more non-recursive value bindings in scope
// for Body. Package desugar is responsible for producing this shape from
// whatever looser `let` grouping the parser handed it (spec §4.2).
type LetValues struct {
	Defs []ValueDef
	Body Expression
	Info *SourceInfo
}

func (l *LetValues) Source() *SourceInfo { return l.Info }
func (*LetValues) isExpression()         {}

// FunctionDef is a single function binding inside a LetFunctions. A
// LetFunctions group may contain several of these, allowing mutual
// recursion among the names it introduces.
type FunctionDef struct {
	Name      string
	Arguments []string
	Body      Expression
	Type      types.Type // Function; Variable while inference is in flight.
	Info      *SourceInfo
}

// LetFunctions introduces one or more (possibly mutually recursive)
// function bindings in scope for Body.
type LetFunctions struct {
	Defs []FunctionDef
	Body Expression
	Info *SourceInfo
}

func (l *LetFunctions) Source() *SourceInfo { return l.Info }
func (*LetFunctions) isExpression()         {}

// FunctionDefinition is a top-level function definition.
type FunctionDefinition struct {
	Name      string
	Arguments []string
	Body      Expression
	Type      types.Type // Function; Variable while inference is in flight.
	Info      *SourceInfo
}

// VariableDefinition is a top-level value definition.
type VariableDefinition struct {
	Name string
	Body Expression
	Type types.Type // Value, or Variable while inference is in flight.
	Info *SourceInfo
}

// RawDef is a single binding as the external parser emits it, before
// package desugar's pre-inference pass has grouped adjacent bindings into
// the canonical LetValues / LetFunctions shapes (spec §4.2). IsFunc marks
// a function binding; Arguments is empty for a value binding and may be
// empty (nil or not) for a zero-argument function.
type RawDef struct {
	Name      string
	Arguments []string
	IsFunc    bool
	Body      Expression
	Info      *SourceInfo
}

// RawLet is the parser's single-binding `let` form: one binding in front
// of whatever expression follows it. package desugar's pre-inference pass
// is the only consumer of this shape; it never survives into inference.
type RawLet struct {
	Def  RawDef
	Next Expression
	Info *SourceInfo
}

func (r *RawLet) Source() *SourceInfo { return r.Info }
func (*RawLet) isExpression()         {}

// Definition is implemented by FunctionDefinition and VariableDefinition.
type Definition interface {
	DefinitionName() string
	isDefinition()
}

func (f *FunctionDefinition) DefinitionName() string { return f.Name }
func (*FunctionDefinition) isDefinition()            {}

func (v *VariableDefinition) DefinitionName() string { return v.Name }
func (*VariableDefinition) isDefinition()            {}

// ModuleInterface is an import: the name of an external module and the
// exported signatures it brings into scope. Package iface is the concrete
// producer/consumer of these on disk; ast only needs the shape.
type ModuleInterface struct {
	ModuleName string
	Exports    map[string]types.Type
}

// Module is an ordered sequence of top-level definitions plus the module
// interfaces it imports. Order matters: spec §4.6 requires that global
// initializers run in declaration order, and §4.4 requires deterministic
// core IR, both of which are driven off this slice's order.
type Module struct {
	Name        string
	Imports     []ModuleInterface
	Definitions []Definition
}
