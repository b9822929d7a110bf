package diag_test

import (
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"sloth/src/ast"
	"sloth/src/diag"
	"sloth/src/types"
)

func TestRenderTypeMismatchPlain(t *testing.T) {
	err := diag.NewTypeMismatch(types.Number, types.Function{Result: types.Number}, nil)
	got := err.Render(false)
	assert.Equal(t, "TypeMismatch: expected Number, got () -> Number", got)
}

func TestRenderIncludesSourceLocation(t *testing.T) {
	src := &ast.SourceInfo{File: "m.sloth", Line: 3, Pos: 7}
	err := diag.NewUnboundVariable("x", src)
	got := err.Render(false)
	assert.Equal(t, `UnboundVariable at m.sloth:3:7: "x" is not declared`, got)
}

func TestRenderVariableNotFoundHasNoLocation(t *testing.T) {
	err := diag.NewVariableNotFound("ghost")
	got := err.Render(false)
	assert.Equal(t, `VariableNotFound: internal error: "ghost" not found during code generation`, got)
}

func TestRenderIOErrorIncludesCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := diag.NewIOError("writing out.bc", cause)
	got := err.Render(false)
	assert.Equal(t, "IOError: writing out.bc: permission denied", got)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestRenderColorDisabledProducesPlainOutput(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	err := diag.NewAmbiguousType(nil)
	// With color.NoColor set, color.New(...).Sprint must not inject any
	// escape sequences even though useColor is requested.
	got := err.Render(true)
	assert.Equal(t, "AmbiguousType: could not fully infer a type", got)
}

func TestErrorSatisfiesErrorInterfaceViaRenderFalse(t *testing.T) {
	err := diag.NewOccursCheck(3, types.Number, nil)
	var asError error = err
	assert.Equal(t, err.Render(false), asError.Error())
}
