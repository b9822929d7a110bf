package typelower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"

	"sloth/src/core"
	"sloth/src/typelower"
	"sloth/src/types"
)

func TestLowerValueIsDouble(t *testing.T) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	lo := typelower.New(ctx)

	got := lo.Lower(types.Number)
	assert.Equal(t, llvm.DoubleTypeKind, got.TypeKind())
}

func TestLowerFunctionIsPointerToUnsizedClosure(t *testing.T) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	lo := typelower.New(ctx)

	fnType := types.Function{Arguments: []types.Type{types.Number}, Result: types.Number}
	got := lo.Lower(fnType)
	require.Equal(t, llvm.PointerTypeKind, got.TypeKind())
	assert.Equal(t, llvm.StructTypeKind, got.ElementType().TypeKind())
}

func TestUnsizedEnvironmentIsEmptyStruct(t *testing.T) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	lo := typelower.New(ctx)

	env := lo.UnsizedEnvironment()
	assert.Equal(t, llvm.StructTypeKind, env.TypeKind())
	assert.Equal(t, 0, env.StructElementTypesCount())
}

func TestClosureAndUnsizedClosureAgreeWhenEnvironmentIsEmpty(t *testing.T) {
	// A top-level function's Closure and the UnsizedClosure any reference
	// to it is typed as must be structurally identical: both are
	// {entry-pointer, empty-struct}, so no bitcast is needed to store one
	// where the other is expected.
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	lo := typelower.New(ctx)

	def := core.FunctionDefinition{
		Name:       "f",
		Arguments:  []core.TypedName{{Name: "x", Type: types.Number}},
		ResultType: types.Number,
	}
	closure := lo.Closure(def)
	unsized := lo.UnsizedClosure(def.Type())

	require.Equal(t, closure.StructElementTypesCount(), unsized.StructElementTypesCount())
	closureFields := closure.StructElementTypes()
	unsizedFields := unsized.StructElementTypes()
	for i := range closureFields {
		assert.Equal(t, closureFields[i].TypeKind(), unsizedFields[i].TypeKind())
	}
}

func TestEnvironmentFieldOrderMatchesCaptureOrder(t *testing.T) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	lo := typelower.New(ctx)

	captures := []core.TypedName{
		{Name: "a", Type: types.Number},
		{Name: "f", Type: types.Function{Arguments: []types.Type{types.Number}, Result: types.Number}},
	}
	env := lo.Environment(captures)
	require.Equal(t, 2, env.StructElementTypesCount())
	fields := env.StructElementTypes()
	assert.Equal(t, llvm.DoubleTypeKind, fields[0].TypeKind())
	assert.Equal(t, llvm.PointerTypeKind, fields[1].TypeKind())
}

func TestFunctionSignatureTakesEnvironmentPointerFirst(t *testing.T) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()
	lo := typelower.New(ctx)

	fnType := types.Function{Arguments: []types.Type{types.Number, types.Number}, Result: types.Number}
	sig := lo.Function(fnType)
	params := sig.ParamTypes()
	require.Len(t, params, 3)
	assert.Equal(t, llvm.PointerTypeKind, params[0].TypeKind())
	assert.Equal(t, llvm.DoubleTypeKind, params[1].TypeKind())
	assert.Equal(t, llvm.DoubleTypeKind, params[2].TypeKind())
}
