// Package desugar implements the two desugaring passes from spec §4.2: a
// pre-inference pass that regroups the parser's single-binding `let` chains
// into the canonical LetValues / LetFunctions shapes package infer expects,
// and a post-inference pass that is the hook for sugar whose lowering
// depends on an inferred type - currently a no-op, since Sloth's operator
// set is numeric-only (spec §9, "Open question - operator polymorphism").
package desugar

import "sloth/src/ast"

// PreInference regroups module's RawLet chains into LetValues/LetFunctions
// before type inference ever runs. Everything else in the tree is left as
// the parser produced it.
func PreInference(module *ast.Module) *ast.Module {
	newDefs := make([]ast.Definition, len(module.Definitions))
	for i, def := range module.Definitions {
		switch d := def.(type) {
		case *ast.FunctionDefinition:
			newDefs[i] = &ast.FunctionDefinition{
				Name: d.Name, Arguments: d.Arguments, Body: preInferenceExpr(d.Body),
				Type: d.Type, Info: d.Info,
			}
		case *ast.VariableDefinition:
			newDefs[i] = &ast.VariableDefinition{
				Name: d.Name, Body: preInferenceExpr(d.Body), Type: d.Type, Info: d.Info,
			}
		default:
			newDefs[i] = def
		}
	}
	return &ast.Module{Name: module.Name, Imports: module.Imports, Definitions: newDefs}
}

// PostInference is the typed desugaring hook described in spec §4.2. It is
// intentionally the identity transform: Sloth has no operator whose
// lowering depends on an inferred operand type yet. The pass stays in the
// pipeline (rather than being skipped) so adding such an operator later
// does not require rewiring package compiler.
func PostInference(module *ast.Module) *ast.Module {
	return module
}

// preInferenceExpr walks e, collapsing runs of adjacent RawLet bindings of
// the same kind (value vs. function) into one canonical LetValues or
// LetFunctions node, and recursing into every other expression shape's
// children so a RawLet nested inside an Operation, Application or deeper
// let body is also regrouped.
func preInferenceExpr(e ast.Expression) ast.Expression {
	switch ex := e.(type) {
	case *ast.RawLet:
		return regroupLetChain(ex)

	case *ast.Operation:
		return &ast.Operation{
			Operator: ex.Operator,
			LHS:      preInferenceExpr(ex.LHS),
			RHS:      preInferenceExpr(ex.RHS),
			Info:     ex.Info,
		}

	case *ast.Application:
		args := make([]ast.Expression, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = preInferenceExpr(a)
		}
		return &ast.Application{FunctionName: ex.FunctionName, Args: args, Info: ex.Info}

	case *ast.LetValues:
		defs := make([]ast.ValueDef, len(ex.Defs))
		for i, d := range ex.Defs {
			defs[i] = ast.ValueDef{Name: d.Name, Body: preInferenceExpr(d.Body), Info: d.Info}
		}
		return &ast.LetValues{Defs: defs, Body: preInferenceExpr(ex.Body), Info: ex.Info}

	case *ast.LetFunctions:
		defs := make([]ast.FunctionDef, len(ex.Defs))
		for i, d := range ex.Defs {
			defs[i] = ast.FunctionDef{
				Name: d.Name, Arguments: d.Arguments, Body: preInferenceExpr(d.Body),
				Type: d.Type, Info: d.Info,
			}
		}
		return &ast.LetFunctions{Defs: defs, Body: preInferenceExpr(ex.Body), Info: ex.Info}

	default:
		// Number, Variable: no children to recurse into.
		return e
	}
}

// regroupLetChain collapses the longest run of RawLet nodes at the front
// of the chain that share a kind (all values, or all functions - spec
// §4.2: "split any multi-definition let into nested forms only when the
// definitions are non-recursive values. Recursive groups remain fused.").
// A function run stays fused into one LetFunctions so its members may be
// mutually recursive; a value run is fused into one LetValues, since
// package closure's sequential binding semantics make a fused run and a
// chain of singleton lets operationally identical for values.
func regroupLetChain(first *ast.RawLet) ast.Expression {
	isFunc := first.Def.IsFunc

	var valueDefs []ast.ValueDef
	var funcDefs []ast.FunctionDef

	cur := ast.Expression(first)
	for {
		rl, ok := cur.(*ast.RawLet)
		if !ok || rl.Def.IsFunc != isFunc {
			break
		}
		if isFunc {
			funcDefs = append(funcDefs, ast.FunctionDef{
				Name: rl.Def.Name, Arguments: rl.Def.Arguments,
				Body: preInferenceExpr(rl.Def.Body), Info: rl.Def.Info,
			})
		} else {
			valueDefs = append(valueDefs, ast.ValueDef{
				Name: rl.Def.Name, Body: preInferenceExpr(rl.Def.Body), Info: rl.Def.Info,
			})
		}
		cur = rl.Next
	}

	rest := preInferenceExpr(cur)
	if isFunc {
		return &ast.LetFunctions{Defs: funcDefs, Body: rest, Info: first.Info}
	}
	return &ast.LetValues{Defs: valueDefs, Body: rest, Info: first.Info}
}
