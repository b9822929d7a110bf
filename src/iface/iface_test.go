package iface_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sloth/src/ast"
	"sloth/src/iface"
	"sloth/src/types"
)

func TestWriteReadRoundTripsValueAndFunctionExports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.json")

	mi := &ast.ModuleInterface{
		ModuleName: "orig",
		Exports: map[string]types.Type{
			"pi":  types.Number,
			"add": types.Function{Arguments: []types.Type{types.Number, types.Number}, Result: types.Number},
			"apply": types.Function{
				Arguments: []types.Type{types.Function{Arguments: []types.Type{types.Number}, Result: types.Number}},
				Result:    types.Number,
			},
		},
	}

	require.NoError(t, iface.Write(path, mi))

	got, err := iface.Read(path, "renamed")
	require.NoError(t, err)

	assert.Equal(t, "renamed", got.ModuleName)
	require.Len(t, got.Exports, 3)
	assert.True(t, types.Equal(types.Number, got.Exports["pi"]))
	assert.True(t, types.Equal(mi.Exports["add"], got.Exports["add"]))
	assert.True(t, types.Equal(mi.Exports["apply"], got.Exports["apply"]))
}

func TestReadRejectsUnknownValueType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x":{"value":"String"}}`), 0644))

	_, err := iface.Read(path, "m")
	assert.Error(t, err)
}

func TestReadRejectsEntryWithNeitherValueNorFunction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x":{}}`), 0644))

	_, err := iface.Read(path, "m")
	assert.Error(t, err)
}

func TestWriteProducesStableFieldOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.json")
	mi := &ast.ModuleInterface{ModuleName: "m", Exports: map[string]types.Type{"x": types.Number}}

	require.NoError(t, iface.Write(path, mi))
	data1, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, iface.Write(path, mi))
	data2, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, data1, data2)
}
