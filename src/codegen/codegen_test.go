package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sloth/src/codegen"
	"sloth/src/core"
	"sloth/src/types"
)

func TestGenerateTopLevelArithmeticFunction(t *testing.T) {
	// add(a, b) = a + b
	m := &core.Module{
		Name: "m",
		Functions: []core.FunctionDefinition{
			{
				Name:       "m.add",
				Arguments:  []core.TypedName{{Name: "a", Type: types.Number}, {Name: "b", Type: types.Number}},
				Body:       core.Operation{Operator: "+", LHS: core.Variable{Name: "a", Type: types.Number}, RHS: core.Variable{Name: "b", Type: types.Number}},
				ResultType: types.Number,
			},
		},
	}

	gen := codegen.New("m")
	defer gen.Dispose()

	require.NoError(t, gen.Generate(m))

	fn := gen.Module().NamedFunction("m.add.$entry")
	assert.False(t, fn.IsNil())
	assert.Equal(t, 3, fn.ParamsCount()) // env pointer + two arguments.
}

func TestGenerateValueInitializerChain(t *testing.T) {
	// x = 1; y = x + x -- y's initializer must run after x's.
	m := &core.Module{
		Name: "m",
		Values: []core.ValueDefinition{
			{Name: "m.x", Body: core.Number{Value: 1}, Type: types.Number},
			{Name: "m.y", Body: core.Operation{Operator: "+", LHS: core.Variable{Name: "m.x", Type: types.Number}, RHS: core.Variable{Name: "m.x", Type: types.Number}}, Type: types.Number},
		},
	}

	gen := codegen.New("m")
	defer gen.Dispose()

	require.NoError(t, gen.Generate(m))

	sloth_init := gen.Module().NamedFunction("sloth_init")
	assert.False(t, sloth_init.IsNil())
	xInit := gen.Module().NamedFunction("m.x.$init")
	assert.False(t, xInit.IsNil())
	yInit := gen.Module().NamedFunction("m.y.$init")
	assert.False(t, yInit.IsNil())
}

func TestGenerateLetFunctionsMutualRecursionClosures(t *testing.T) {
	// result = let f() = g(); g() = 1.0 in f()
	letFns := core.LetFunctions{
		Defs: []core.FunctionDefinition{
			{
				Name:        "f",
				Environment: []core.TypedName{{Name: "g", Type: types.Function{Result: types.Number}}},
				Body:        core.Application{Function: "g", Type: types.Number},
				ResultType:  types.Number,
			},
			{Name: "g", Body: core.Number{Value: 1}, ResultType: types.Number},
		},
		Body: core.Application{Function: "f", Type: types.Number},
	}
	m := &core.Module{
		Name:   "m",
		Values: []core.ValueDefinition{{Name: "m.result", Body: letFns, Type: types.Number}},
	}

	gen := codegen.New("m")
	defer gen.Dispose()

	require.NoError(t, gen.Generate(m))
}

func TestGenerateImportedFunctionDeclaration(t *testing.T) {
	m := &core.Module{
		Name: "m",
		Declarations: []core.Declaration{
			{Name: "other.helper", Type: types.Function{Arguments: []types.Type{types.Number}, Result: types.Number}},
		},
		Values: []core.ValueDefinition{
			{Name: "m.x", Body: core.Application{Function: "other.helper", Args: []core.Expression{core.Number{Value: 1}}, Type: types.Number}, Type: types.Number},
		},
	}

	gen := codegen.New("m")
	defer gen.Dispose()

	require.NoError(t, gen.Generate(m))

	decl := gen.Module().NamedGlobal("other.helper")
	assert.False(t, decl.IsNil())
}
