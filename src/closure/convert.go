// Package closure implements the closure converter / core IR builder from
// spec §4.4: it computes every function's free variables, builds the
// explicit-environment core IR, and performs the top-level renaming that
// gives every symbol its final, globally unique name.
package closure

import (
	"sort"

	"sloth/src/ast"
	"sloth/src/core"
	"sloth/src/diag"
	"sloth/src/infer"
	"sloth/src/types"
)

// global records how a module-level or imported name is represented once
// closure conversion has run: its type, for free-variable type resolution,
// and the symbol a reference to it should be rewritten to.
type global struct {
	Type   types.Type
	Symbol string
}

type converter struct {
	globals map[string]global
}

// Convert closure-converts a fully type-checked, desugared module into the
// core IR (spec §3.3, §4.4). module must already have passed package infer
// and package desugar's post-inference pass: every Type field is concrete.
func Convert(module *ast.Module) (*core.Module, error) {
	c := &converter{globals: make(map[string]global)}

	for _, mi := range module.Imports {
		for name, t := range mi.Exports {
			// Imported names are already fully qualified by whatever
			// resolved them (out of scope for this module - spec §1); we
			// reference them verbatim, never renaming them ourselves.
			c.globals[name] = global{Type: t, Symbol: name}
		}
	}

	names := make([]string, 0, len(module.Definitions))
	for _, def := range module.Definitions {
		names = append(names, def.DefinitionName())
	}
	symbols := renameTopLevel(module.Name, names)

	for _, def := range module.Definitions {
		switch d := def.(type) {
		case *ast.FunctionDefinition:
			c.globals[d.Name] = global{Type: d.Type, Symbol: symbols[d.Name]}
		case *ast.VariableDefinition:
			c.globals[d.Name] = global{Type: d.Type, Symbol: symbols[d.Name]}
		}
	}

	out := &core.Module{Name: module.Name}
	for _, mi := range module.Imports {
		for name, t := range mi.Exports {
			out.Declarations = append(out.Declarations, core.Declaration{Name: name, Type: t})
		}
	}

	empty := infer.NewEnvironment(nil)
	for _, def := range module.Definitions {
		switch d := def.(type) {
		case *ast.FunctionDefinition:
			fn, err := c.convertFunctionDef(symbols[d.Name], d.Arguments, d.Body, d.Type.(types.Function), empty)
			if err != nil {
				return nil, err
			}
			out.Functions = append(out.Functions, fn)
		case *ast.VariableDefinition:
			body, err := c.convertExpr(d.Body, empty)
			if err != nil {
				return nil, err
			}
			out.Values = append(out.Values, core.ValueDefinition{Name: symbols[d.Name], Body: body, Type: d.Type})
		}
	}

	return out, nil
}

func (c *converter) isGlobal(name string) bool {
	_, ok := c.globals[name]
	return ok
}

// convertFunctionDef builds the core.FunctionDefinition for one function -
// top-level or nested inside a LetFunctions - given the type-aware scope
// visible just outside it (enclosingScope never includes this function's
// own arguments).
func (c *converter) convertFunctionDef(
	symbol string,
	arguments []string,
	body ast.Expression,
	fnType types.Function,
	enclosingScope *infer.Environment,
) (core.FunctionDefinition, error) {
	own := make(map[string]bool, len(arguments))
	for _, a := range arguments {
		own[a] = true
	}

	freeSet := freeVariables(body, own, c.isGlobal)
	freeNames := make([]string, 0, len(freeSet))
	for n := range freeSet {
		freeNames = append(freeNames, n)
	}
	sort.Strings(freeNames) // canonical environment order, spec §4.3/§4.4.

	environment := make([]core.TypedName, len(freeNames))
	for i, n := range freeNames {
		t, ok := enclosingScope.Lookup(n)
		if !ok {
			return core.FunctionDefinition{}, diag.NewVariableNotFound(n)
		}
		environment[i] = core.TypedName{Name: n, Type: t}
	}

	args := make([]core.TypedName, len(arguments))
	for i, a := range arguments {
		args[i] = core.TypedName{Name: a, Type: fnType.Arguments[i]}
	}

	bodyScope := enclosingScope.Child()
	for _, e := range environment {
		bodyScope.Bind(e.Name, e.Type)
	}
	for _, a := range args {
		bodyScope.Bind(a.Name, a.Type)
	}

	coreBody, err := c.convertExpr(body, bodyScope)
	if err != nil {
		return core.FunctionDefinition{}, err
	}

	return core.FunctionDefinition{
		Name:        symbol,
		Environment: environment,
		Arguments:   args,
		Body:        coreBody,
		ResultType:  types.Number,
	}, nil
}

// convertExpr rewrites e into the core IR under scope, the type-aware
// chain of everything locally visible (arguments and captures) at this
// point in the tree. Names absent from scope are resolved as globals.
func (c *converter) convertExpr(e ast.Expression, scope *infer.Environment) (core.Expression, error) {
	switch ex := e.(type) {
	case *ast.Number:
		return core.Number{Value: ex.Value}, nil

	case *ast.Variable:
		name, t, err := c.resolve(ex.Name, scope)
		if err != nil {
			return nil, err
		}
		return core.Variable{Name: name, Type: t}, nil

	case *ast.Operation:
		lhs, err := c.convertExpr(ex.LHS, scope)
		if err != nil {
			return nil, err
		}
		rhs, err := c.convertExpr(ex.RHS, scope)
		if err != nil {
			return nil, err
		}
		return core.Operation{Operator: ex.Operator.String(), LHS: lhs, RHS: rhs}, nil

	case *ast.Application:
		name, _, err := c.resolve(ex.FunctionName, scope)
		if err != nil {
			return nil, err
		}
		args := make([]core.Expression, len(ex.Args))
		for i, a := range ex.Args {
			ca, err := c.convertExpr(a, scope)
			if err != nil {
				return nil, err
			}
			args[i] = ca
		}
		return core.Application{Function: name, Args: args, Type: types.Number}, nil

	case *ast.LetValues:
		child := scope.Child()
		defs := make([]core.ValueBinding, len(ex.Defs))
		for i, d := range ex.Defs {
			cb, err := c.convertExpr(d.Body, child)
			if err != nil {
				return nil, err
			}
			child.Bind(d.Name, cb.ExprType())
			defs[i] = core.ValueBinding{Name: d.Name, Body: cb}
		}
		body, err := c.convertExpr(ex.Body, child)
		if err != nil {
			return nil, err
		}
		return core.LetValues{Defs: defs, Body: body}, nil

	case *ast.LetFunctions:
		child := scope.Child()
		for _, d := range ex.Defs {
			child.Bind(d.Name, d.Type)
		}
		defs := make([]core.FunctionDefinition, len(ex.Defs))
		for i, d := range ex.Defs {
			fn, err := c.convertFunctionDef(d.Name, d.Arguments, d.Body, d.Type.(types.Function), child)
			if err != nil {
				return nil, err
			}
			defs[i] = fn
		}
		body, err := c.convertExpr(ex.Body, child)
		if err != nil {
			return nil, err
		}
		return core.LetFunctions{Defs: defs, Body: body}, nil

	default:
		return nil, diag.NewVariableNotFound("<unknown expression>")
	}
}

// resolve looks name up first as a local/capture (scope), then as a
// global, returning the name codegen should actually reference - the
// local name unchanged, or the global's rewritten symbol - and its type.
func (c *converter) resolve(name string, scope *infer.Environment) (string, types.Type, error) {
	if t, ok := scope.Lookup(name); ok {
		return name, t, nil
	}
	if g, ok := c.globals[name]; ok {
		return g.Symbol, g.Type, nil
	}
	return "", nil, diag.NewVariableNotFound(name)
}
