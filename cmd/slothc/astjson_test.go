package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sloth/src/ast"
)

func TestDecodeModuleFunctionAndValueDefinitions(t *testing.T) {
	data := []byte(`{
		"definitions": [
			{"name": "add", "arguments": ["a", "b"], "isFunc": true,
			 "body": {"kind": "operation", "operator": "+",
			          "lhs": {"kind": "variable", "name": "a"},
			          "rhs": {"kind": "variable", "name": "b"}}},
			{"name": "x", "isFunc": false,
			 "body": {"kind": "application", "name": "add",
			          "args": [{"kind": "number", "value": 1}, {"kind": "number", "value": 2}]}}
		]
	}`)

	module, err := decodeModule(data)
	require.NoError(t, err)
	require.Len(t, module.Definitions, 2)

	fn, ok := module.Definitions[0].(*ast.FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Arguments)
	op, ok := fn.Body.(*ast.Operation)
	require.True(t, ok)
	assert.Equal(t, ast.Add, op.Operator)

	val, ok := module.Definitions[1].(*ast.VariableDefinition)
	require.True(t, ok)
	app, ok := val.Body.(*ast.Application)
	require.True(t, ok)
	assert.Equal(t, "add", app.FunctionName)
	require.Len(t, app.Args, 2)
}

func TestDecodeExprLetFunctions(t *testing.T) {
	e := &exprJSON{
		Kind: "let",
		Defs: []defJSON{
			{Name: "f", IsFunc: true, Arguments: []string{}, Body: &exprJSON{Kind: "number", Value: 1}},
		},
		Body: &exprJSON{Kind: "application", Name: "f"},
	}

	expr, err := decodeExpr(e)
	require.NoError(t, err)
	lf, ok := expr.(*ast.LetFunctions)
	require.True(t, ok)
	require.Len(t, lf.Defs, 1)
	assert.Equal(t, "f", lf.Defs[0].Name)
}

func TestDecodeExprLetValues(t *testing.T) {
	e := &exprJSON{
		Kind: "let",
		Defs: []defJSON{
			{Name: "x", IsFunc: false, Body: &exprJSON{Kind: "number", Value: 5}},
		},
		Body: &exprJSON{Kind: "variable", Name: "x"},
	}

	expr, err := decodeExpr(e)
	require.NoError(t, err)
	lv, ok := expr.(*ast.LetValues)
	require.True(t, ok)
	require.Len(t, lv.Defs, 1)
	assert.Equal(t, "x", lv.Defs[0].Name)
}

func TestDecodeExprUnknownKindErrors(t *testing.T) {
	_, err := decodeExpr(&exprJSON{Kind: "bogus"})
	assert.Error(t, err)
}

func TestDecodeExprNilErrors(t *testing.T) {
	_, err := decodeExpr(nil)
	assert.Error(t, err)
}

func TestDecodeOperatorAllFour(t *testing.T) {
	for s, want := range map[string]ast.Operator{"+": ast.Add, "-": ast.Sub, "*": ast.Mul, "/": ast.Div} {
		got, err := decodeOperator(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := decodeOperator("%")
	assert.Error(t, err)
}
