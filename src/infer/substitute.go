package infer

import (
	"sloth/src/ast"
	"sloth/src/diag"
	"sloth/src/types"
)

// substituteModule applies subst to every Type field in module (top-level
// definitions and every nested FunctionDef within LetFunctions), failing
// with diag.AmbiguousType if any Variable survives the fixpoint (spec
// §4.1: "Any remaining inference variable after fixpoint is a compiler
// bug"). The invariant this establishes - spec §3.1's "after inference, no
// Variable appears anywhere in a retained AST" - is what lets package
// closure and package codegen assume every Type is concrete.
func substituteModule(module *ast.Module, subst *Substitution) (*ast.Module, error) {
	newDefs := make([]ast.Definition, len(module.Definitions))
	for i, def := range module.Definitions {
		switch d := def.(type) {
		case *ast.FunctionDefinition:
			t := subst.Apply(d.Type)
			if types.HasVariable(t) {
				return nil, diag.NewAmbiguousType(d.Info)
			}
			newBody, err := substExpr(d.Body, subst)
			if err != nil {
				return nil, err
			}
			newDefs[i] = &ast.FunctionDefinition{
				Name: d.Name, Arguments: d.Arguments, Body: newBody, Type: t, Info: d.Info,
			}
		case *ast.VariableDefinition:
			t := subst.Apply(d.Type)
			if types.HasVariable(t) {
				return nil, diag.NewAmbiguousType(d.Info)
			}
			newBody, err := substExpr(d.Body, subst)
			if err != nil {
				return nil, err
			}
			newDefs[i] = &ast.VariableDefinition{Name: d.Name, Body: newBody, Type: t, Info: d.Info}
		}
	}
	return &ast.Module{Name: module.Name, Imports: module.Imports, Definitions: newDefs}, nil
}

// substExpr rewrites every nested FunctionDef.Type within e using subst,
// leaving every other node shape untouched (only LetFunctions carries
// Type-bearing definitions below the top level).
func substExpr(e ast.Expression, subst *Substitution) (ast.Expression, error) {
	switch ex := e.(type) {
	case *ast.Number, *ast.Variable:
		return ex, nil

	case *ast.Operation:
		lhs, err := substExpr(ex.LHS, subst)
		if err != nil {
			return nil, err
		}
		rhs, err := substExpr(ex.RHS, subst)
		if err != nil {
			return nil, err
		}
		return &ast.Operation{Operator: ex.Operator, LHS: lhs, RHS: rhs, Info: ex.Info}, nil

	case *ast.Application:
		args := make([]ast.Expression, len(ex.Args))
		for i, a := range ex.Args {
			na, err := substExpr(a, subst)
			if err != nil {
				return nil, err
			}
			args[i] = na
		}
		return &ast.Application{FunctionName: ex.FunctionName, Args: args, Info: ex.Info}, nil

	case *ast.LetValues:
		defs := make([]ast.ValueDef, len(ex.Defs))
		for i, d := range ex.Defs {
			nb, err := substExpr(d.Body, subst)
			if err != nil {
				return nil, err
			}
			defs[i] = ast.ValueDef{Name: d.Name, Body: nb, Info: d.Info}
		}
		body, err := substExpr(ex.Body, subst)
		if err != nil {
			return nil, err
		}
		return &ast.LetValues{Defs: defs, Body: body, Info: ex.Info}, nil

	case *ast.LetFunctions:
		defs := make([]ast.FunctionDef, len(ex.Defs))
		for i, d := range ex.Defs {
			t := subst.Apply(d.Type)
			if types.HasVariable(t) {
				return nil, diag.NewAmbiguousType(d.Info)
			}
			nb, err := substExpr(d.Body, subst)
			if err != nil {
				return nil, err
			}
			defs[i] = ast.FunctionDef{Name: d.Name, Arguments: d.Arguments, Body: nb, Type: t, Info: d.Info}
		}
		body, err := substExpr(ex.Body, subst)
		if err != nil {
			return nil, err
		}
		return &ast.LetFunctions{Defs: defs, Body: body, Info: ex.Info}, nil

	default:
		return nil, diag.NewUnboundVariable("<unknown expression>", e.Source())
	}
}
