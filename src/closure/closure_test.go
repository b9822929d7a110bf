package closure

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sloth/src/ast"
	"sloth/src/core"
	"sloth/src/types"
)

func isGlobalNone(string) bool { return false }

func TestFreeVariablesExcludesArguments(t *testing.T) {
	body := &ast.Operation{
		Operator: ast.Add,
		LHS:      &ast.Variable{Name: "a"},
		RHS:      &ast.Variable{Name: "captured"},
	}
	free := freeVariables(body, map[string]bool{"a": true}, isGlobalNone)
	assert.Equal(t, map[string]bool{"captured": true}, free)
}

func TestFreeVariablesExcludesGlobals(t *testing.T) {
	body := &ast.Application{FunctionName: "printModule", Args: []ast.Expression{&ast.Variable{Name: "x"}}}
	isGlobal := func(n string) bool { return n == "printModule" }
	free := freeVariables(body, map[string]bool{}, isGlobal)
	assert.Equal(t, map[string]bool{"x": true}, free)
}

func TestFreeVariablesLetFunctionsSiblingNotCapturedForOuterBody(t *testing.T) {
	// let f() = g() ; g() = 1 in f() - from the perspective of whatever
	// encloses this LetFunctions, nothing here is free: f and g are
	// bound by the group itself.
	lf := &ast.LetFunctions{
		Defs: []ast.FunctionDef{
			{Name: "f", Arguments: nil, Body: &ast.Application{FunctionName: "g"}},
			{Name: "g", Arguments: nil, Body: &ast.Number{Value: 1}},
		},
		Body: &ast.Application{FunctionName: "f"},
	}
	free := freeVariables(lf, map[string]bool{}, isGlobalNone)
	assert.Empty(t, free)
}

func TestFreeVariablesSiblingBodyCapturesTheOtherSibling(t *testing.T) {
	// Computed the way Convert computes it: per-definition, with that
	// definition's own arguments as the bound set. "g" is free in f's
	// body since only f's own arguments are excluded.
	fBody := &ast.Application{FunctionName: "g"}
	free := freeVariables(fBody, map[string]bool{}, isGlobalNone)
	assert.Equal(t, map[string]bool{"g": true}, free)
}

func TestRenameTopLevelMapsMainToFixedSymbol(t *testing.T) {
	out := renameTopLevel("example.pkg", []string{"main", "helper"})
	assert.Equal(t, "sloth_main", out["main"])
	assert.Equal(t, "example.pkg.helper", out["helper"])
}

func TestConvertTopLevelFunctionHasNoEnvironment(t *testing.T) {
	module := &ast.Module{
		Name: "m",
		Definitions: []ast.Definition{
			&ast.FunctionDefinition{
				Name: "add", Arguments: []string{"a", "b"},
				Body: &ast.Operation{Operator: ast.Add, LHS: &ast.Variable{Name: "a"}, RHS: &ast.Variable{Name: "b"}},
				Type: types.Function{Arguments: []types.Type{types.Number, types.Number}, Result: types.Number},
			},
		},
	}

	coreModule, err := Convert(module)
	require.NoError(t, err)
	require.Len(t, coreModule.Functions, 1)
	assert.Equal(t, "m.add", coreModule.Functions[0].Name)
	assert.Empty(t, coreModule.Functions[0].Environment)
}

func TestConvertMainIsRenamed(t *testing.T) {
	module := &ast.Module{
		Name: "m",
		Definitions: []ast.Definition{
			&ast.FunctionDefinition{
				Name: "main", Arguments: nil, Body: &ast.Number{Value: 0},
				Type: types.Function{Result: types.Number},
			},
		},
	}
	coreModule, err := Convert(module)
	require.NoError(t, err)
	assert.Equal(t, "sloth_main", coreModule.Functions[0].Name)
}

func TestConvertCapturesFreeVariableFromEnclosingLet(t *testing.T) {
	// let x = 5 in let f() = x in f()
	inner := &ast.LetFunctions{
		Defs: []ast.FunctionDef{
			{Name: "f", Arguments: nil, Body: &ast.Variable{Name: "x"}},
		},
		Body: &ast.Application{FunctionName: "f"},
	}
	outer := &ast.LetValues{
		Defs: []ast.ValueDef{{Name: "x", Body: &ast.Number{Value: 5}}},
		Body: inner,
	}
	module := &ast.Module{
		Name: "m",
		Definitions: []ast.Definition{
			&ast.VariableDefinition{Name: "result", Body: outer, Type: types.Number},
		},
	}

	coreModule, err := Convert(module)
	require.NoError(t, err)
	require.Len(t, coreModule.Values, 1)

	letValues, ok := coreModule.Values[0].Body.(core.LetValues)
	require.True(t, ok)
	letFns, ok := letValues.Body.(core.LetFunctions)
	require.True(t, ok)
	require.Len(t, letFns.Defs, 1)

	want := []core.TypedName{{Name: "x", Type: types.Number}}
	if diff := cmp.Diff(want, letFns.Defs[0].Environment); diff != "" {
		t.Errorf("captured environment mismatch (-want +got):\n%s", diff)
	}
}
