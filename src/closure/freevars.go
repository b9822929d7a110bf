package closure

import "sloth/src/ast"

// freeVariables computes the free-variable finder from spec §4.3: every
// name referenced in body but bound neither by bound (the function's own
// arguments, extended with whatever internal let-binders the walk passes
// through) nor recognized as a module-global by isGlobal. The result is
// returned as a set; Convert sorts it into the canonical lexicographic
// order before it becomes a core.FunctionDefinition.Environment.
//
// This is purely syntactic: it never consults inferred types, and it
// treats an Application's function name as a reference exactly like any
// Variable, since both may name a local, a capture, or a global closure.
func freeVariables(body ast.Expression, bound map[string]bool, isGlobal func(string) bool) map[string]bool {
	out := make(map[string]bool)
	collectFreeVariables(body, cloneSet(bound), isGlobal, out)
	return out
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func mark(name string, bound map[string]bool, isGlobal func(string) bool, out map[string]bool) {
	if bound[name] || isGlobal(name) {
		return
	}
	out[name] = true
}

func collectFreeVariables(e ast.Expression, bound map[string]bool, isGlobal func(string) bool, out map[string]bool) {
	switch ex := e.(type) {
	case *ast.Number:
		// No references.

	case *ast.Variable:
		mark(ex.Name, bound, isGlobal, out)

	case *ast.Operation:
		collectFreeVariables(ex.LHS, bound, isGlobal, out)
		collectFreeVariables(ex.RHS, bound, isGlobal, out)

	case *ast.Application:
		mark(ex.FunctionName, bound, isGlobal, out)
		for _, a := range ex.Args {
			collectFreeVariables(a, bound, isGlobal, out)
		}

	case *ast.LetValues:
		scope := cloneSet(bound)
		for _, d := range ex.Defs {
			collectFreeVariables(d.Body, scope, isGlobal, out)
			scope[d.Name] = true
		}
		collectFreeVariables(ex.Body, scope, isGlobal, out)

	case *ast.LetFunctions:
		// The group's names are in scope for every definition's body and
		// for ex.Body (the `in` expression). Each definition's body is
		// walked with its own arguments bound as well: a name it uses
		// that is bound neither there nor further out is free here too,
		// since the enclosing function has to capture it in order to
		// hand it on to the nested closure's environment.
		scope := cloneSet(bound)
		for _, d := range ex.Defs {
			scope[d.Name] = true
		}
		for _, d := range ex.Defs {
			inner := cloneSet(scope)
			for _, a := range d.Arguments {
				inner[a] = true
			}
			collectFreeVariables(d.Body, inner, isGlobal, out)
		}
		collectFreeVariables(ex.Body, scope, isGlobal, out)
	}
}
