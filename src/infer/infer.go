// Package infer implements Sloth's Hindley-Milner-style type inferencer
// (spec §4.1): Algorithm W over the surface tree, annotating every
// function and value definition with a fully substituted type and
// rejecting ill-typed programs.
//
// Because Sloth's only Value is Number (spec §3.1), a function's result is
// always Number once inference finishes. While inference is running,
// though, a function's result is a fresh types.Variable, not Number
// outright: the skeleton bound for self-reference while a body is being
// inferred needs somewhere to carry "not yet known to be anything", and a
// body that resolves to the function's own type (spec §8 scenario 6,
// `f(x) = f`) must be able to unify that variable against the function's
// own Function type to trigger an occurs check, rather than hitting a
// Value-vs-Function TypeMismatch before the self-reference is ever seen.
// freshFunctionType installs that variable; the two unify calls at the end
// of each function body's inference link the body's type to it and then
// pin it down to Number.
package infer

import (
	"sloth/src/ast"
	"sloth/src/diag"
	"sloth/src/types"
)

// Infer type-checks module and returns a new Module (the input is left
// untouched, per package ast's immutability convention) with every
// FunctionDefinition, VariableDefinition and nested FunctionDef fully
// substituted. It fails on the first type error encountered.
func Infer(module *ast.Module) (*ast.Module, error) {
	imports := make(map[string]types.Type)
	for _, mi := range module.Imports {
		for name, t := range mi.Exports {
			imports[name] = t
		}
	}

	env := NewEnvironment(imports)
	subst := NewSubstitution()

	// Pre-bind every top-level name so definitions may reference each
	// other regardless of source order (spec §4.1).
	skeletons := make(map[string]types.Type, len(module.Definitions))
	for _, def := range module.Definitions {
		switch d := def.(type) {
		case *ast.FunctionDefinition:
			skeletons[d.Name] = freshFunctionType(len(d.Arguments))
		case *ast.VariableDefinition:
			skeletons[d.Name] = types.Number
		}
		env.Bind(def.DefinitionName(), skeletons[def.DefinitionName()])
	}

	newDefs := make([]ast.Definition, len(module.Definitions))
	for i, def := range module.Definitions {
		switch d := def.(type) {
		case *ast.FunctionDefinition:
			fnType := skeletons[d.Name].(types.Function)
			child := env.Child()
			for i, arg := range d.Arguments {
				child.Bind(arg, fnType.Arguments[i])
			}
			bodyType, newBody, err := inferExpr(child, d.Body, subst)
			if err != nil {
				return nil, err
			}
			if err := unify(bodyType, fnType.Result, d.Body.Source(), subst); err != nil {
				return nil, err
			}
			if err := unify(fnType.Result, types.Number, d.Body.Source(), subst); err != nil {
				return nil, err
			}
			newDefs[i] = &ast.FunctionDefinition{
				Name: d.Name, Arguments: d.Arguments, Body: newBody,
				Type: fnType, Info: d.Info,
			}
		case *ast.VariableDefinition:
			bodyType, newBody, err := inferExpr(env, d.Body, subst)
			if err != nil {
				return nil, err
			}
			if err := unify(bodyType, types.Number, d.Body.Source(), subst); err != nil {
				return nil, err
			}
			newDefs[i] = &ast.VariableDefinition{
				Name: d.Name, Body: newBody, Type: types.Number, Info: d.Info,
			}
		}
	}

	result := &ast.Module{Name: module.Name, Imports: module.Imports, Definitions: newDefs}
	return substituteModule(result, subst)
}

// freshFunctionType allocates a skeleton for a not-yet-inferred function of
// the given arity: every argument, and the result itself, starts out as a
// fresh inference variable. The result variable is what later lets a
// self-referential body (spec §8 scenario 6) occurs-check instead of
// silently type-checking or failing with the wrong diagnostic kind.
func freshFunctionType(arity int) types.Function {
	args := make([]types.Type, arity)
	for i := range args {
		args[i] = types.NewVariable()
	}
	return types.Function{Arguments: args, Result: types.NewVariable()}
}

// inferExpr computes e's type under env, returning a new expression tree
// whose nested FunctionDef.Type fields carry (possibly still-unresolved)
// skeleton types to be substituted by substituteModule once inference of
// the whole module has finished accumulating constraints.
func inferExpr(env *Environment, e ast.Expression, subst *Substitution) (types.Type, ast.Expression, error) {
	switch ex := e.(type) {
	case *ast.Number:
		return types.Number, ex, nil

	case *ast.Variable:
		t, ok := env.Lookup(ex.Name)
		if !ok {
			return nil, nil, diag.NewUnboundVariable(ex.Name, ex.Info)
		}
		return t, ex, nil

	case *ast.Operation:
		lt, newLHS, err := inferExpr(env, ex.LHS, subst)
		if err != nil {
			return nil, nil, err
		}
		rt, newRHS, err := inferExpr(env, ex.RHS, subst)
		if err != nil {
			return nil, nil, err
		}
		if err := unify(lt, types.Number, ex.LHS.Source(), subst); err != nil {
			return nil, nil, err
		}
		if err := unify(rt, types.Number, ex.RHS.Source(), subst); err != nil {
			return nil, nil, err
		}
		return types.Number, &ast.Operation{Operator: ex.Operator, LHS: newLHS, RHS: newRHS, Info: ex.Info}, nil

	case *ast.Application:
		fnType, ok := env.Lookup(ex.FunctionName)
		if !ok {
			return nil, nil, diag.NewUnboundVariable(ex.FunctionName, ex.Info)
		}
		argTypes := make([]types.Type, len(ex.Args))
		newArgs := make([]ast.Expression, len(ex.Args))
		for i, a := range ex.Args {
			t, newArg, err := inferExpr(env, a, subst)
			if err != nil {
				return nil, nil, err
			}
			argTypes[i] = t
			newArgs[i] = newArg
		}
		expected := types.Function{Arguments: argTypes, Result: types.Number}
		if err := unify(fnType, expected, ex.Info, subst); err != nil {
			return nil, nil, err
		}
		return types.Number, &ast.Application{FunctionName: ex.FunctionName, Args: newArgs, Info: ex.Info}, nil

	case *ast.LetValues:
		child := env.Child()
		newDefs := make([]ast.ValueDef, len(ex.Defs))
		for i, d := range ex.Defs {
			t, newBody, err := inferExpr(child, d.Body, subst)
			if err != nil {
				return nil, nil, err
			}
			child.Bind(d.Name, t)
			newDefs[i] = ast.ValueDef{Name: d.Name, Body: newBody, Info: d.Info}
		}
		bodyType, newBody, err := inferExpr(child, ex.Body, subst)
		if err != nil {
			return nil, nil, err
		}
		return bodyType, &ast.LetValues{Defs: newDefs, Body: newBody, Info: ex.Info}, nil

	case *ast.LetFunctions:
		child := env.Child()
		skeletons := make([]types.Function, len(ex.Defs))
		for i, d := range ex.Defs {
			skeletons[i] = freshFunctionType(len(d.Arguments))
			child.Bind(d.Name, skeletons[i])
		}
		newDefs := make([]ast.FunctionDef, len(ex.Defs))
		for i, d := range ex.Defs {
			grandchild := child.Child()
			for j, arg := range d.Arguments {
				grandchild.Bind(arg, skeletons[i].Arguments[j])
			}
			bodyType, newBody, err := inferExpr(grandchild, d.Body, subst)
			if err != nil {
				return nil, nil, err
			}
			if err := unify(bodyType, skeletons[i].Result, d.Body.Source(), subst); err != nil {
				return nil, nil, err
			}
			if err := unify(skeletons[i].Result, types.Number, d.Body.Source(), subst); err != nil {
				return nil, nil, err
			}
			newDefs[i] = ast.FunctionDef{
				Name: d.Name, Arguments: d.Arguments, Body: newBody,
				Type: skeletons[i], Info: d.Info,
			}
		}
		bodyType, newBody, err := inferExpr(child, ex.Body, subst)
		if err != nil {
			return nil, nil, err
		}
		return bodyType, &ast.LetFunctions{Defs: newDefs, Body: newBody, Info: ex.Info}, nil

	default:
		return nil, nil, diag.NewUnboundVariable("<unknown expression>", e.Source())
	}
}
