package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sloth/src/types"
)

func TestVariableEqualAlwaysTrue(t *testing.T) {
	a := types.NewVariable()
	b := types.NewVariable()

	assert.True(t, a.Equal(b), "Variable.Equal must always report true regardless of identity")
	assert.NotEqual(t, a.ID(), b.ID(), "two freshly allocated variables must have distinct ids")
}

func TestEqualStructural(t *testing.T) {
	f1 := types.Function{Arguments: []types.Type{types.Number}, Result: types.Number}
	f2 := types.Function{Arguments: []types.Type{types.Number}, Result: types.Number}
	f3 := types.Function{Arguments: []types.Type{types.Number, types.Number}, Result: types.Number}

	assert.True(t, types.Equal(f1, f2))
	assert.False(t, types.Equal(f1, f3))
	assert.False(t, types.Equal(types.Number, f1))
}

func TestEqualVariableMatchesAnyVariable(t *testing.T) {
	assert.True(t, types.Equal(types.NewVariable(), types.NewVariable()))
	assert.False(t, types.Equal(types.NewVariable(), types.Number))
}

func TestHasVariable(t *testing.T) {
	assert.False(t, types.HasVariable(types.Number))
	assert.True(t, types.HasVariable(types.NewVariable()))
	assert.True(t, types.HasVariable(types.Function{Arguments: []types.Type{types.NewVariable()}, Result: types.Number}))
	assert.False(t, types.HasVariable(types.Function{Arguments: []types.Type{types.Number}, Result: types.Number}))
	// Result itself, not just Arguments, must be checked: a function whose
	// result position still holds an unresolved Variable (mid-inference,
	// before the spec §8 scenario 6 occurs check has a chance to fire) must
	// report true here too.
	assert.True(t, types.HasVariable(types.Function{Arguments: []types.Type{types.Number}, Result: types.NewVariable()}))
}

func TestEqualFunctionResultIsComparedStructurallyNotByEquality(t *testing.T) {
	// Result is the general Type interface, not Value: a higher-order
	// result (legal to construct even though inference never retains one)
	// must compare structurally rather than panicking on an uncomparable
	// Go == between two Function values.
	higherOrder := types.Function{
		Arguments: []types.Type{types.Number},
		Result:    types.Function{Arguments: []types.Type{types.Number}, Result: types.Number},
	}
	same := types.Function{
		Arguments: []types.Type{types.Number},
		Result:    types.Function{Arguments: []types.Type{types.Number}, Result: types.Number},
	}
	assert.True(t, types.Equal(higherOrder, same))
}

func TestFunctionString(t *testing.T) {
	f := types.Function{Arguments: []types.Type{types.Number, types.Number}, Result: types.Number}
	assert.Equal(t, "(Number, Number) -> Number", f.String())
}
