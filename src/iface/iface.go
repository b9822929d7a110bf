// Package iface reads and writes module interface files: the JSON
// documents that let a dependent module import another without reading
// its compiled bitcode (spec §3.4, §6.5). An interface records every
// exported name's un-renamed (source) name and its fully substituted
// type, in a stable field order so two compiles of the same module
// produce byte-identical interface bytes (the determinism invariant of
// spec §4.4 and §8 extends to this file too).
package iface

import (
	"encoding/json"
	"os"

	"sloth/src/ast"
	"sloth/src/diag"
	"sloth/src/types"
)

// typeJSON is the on-disk shape of a types.Type (spec §6.5): exactly one
// of Value or Function is set. Field order is fixed by struct field
// order, which encoding/json preserves on Marshal.
type typeJSON struct {
	Value    *string       `json:"value,omitempty"`
	Function *functionJSON `json:"function,omitempty"`
}

type functionJSON struct {
	Arguments []typeJSON `json:"arguments"`
	Result    typeJSON   `json:"result"`
}

// document is the top-level interface file shape: exported name to type.
type document map[string]typeJSON

// Write serializes module's exports to path as the stable-order JSON
// object spec §6.5 describes.
func Write(path string, module *ast.ModuleInterface) error {
	doc := make(document, len(module.Exports))
	for name, t := range module.Exports {
		doc[name] = toJSON(t)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return diag.NewIOError("encoding module interface", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return diag.NewIOError("writing module interface to "+path, err)
	}
	return nil
}

// Read parses the interface file at path into a ModuleInterface named
// moduleName, for use as one of another module's Imports.
func Read(path, moduleName string) (ast.ModuleInterface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ast.ModuleInterface{}, diag.NewIOError("reading module interface "+path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ast.ModuleInterface{}, diag.NewIOError("decoding module interface "+path, err)
	}

	exports := make(map[string]types.Type, len(doc))
	for name, tj := range doc {
		t, err := fromJSON(tj)
		if err != nil {
			return ast.ModuleInterface{}, err
		}
		exports[name] = t
	}
	return ast.ModuleInterface{ModuleName: moduleName, Exports: exports}, nil
}

func toJSON(t types.Type) typeJSON {
	switch tt := t.(type) {
	case types.Value:
		s := tt.String()
		return typeJSON{Value: &s}
	case types.Function:
		args := make([]typeJSON, len(tt.Arguments))
		for i, a := range tt.Arguments {
			args[i] = toJSON(a)
		}
		return typeJSON{Function: &functionJSON{Arguments: args, Result: toJSON(tt.Result)}}
	default:
		// types.Variable never survives substitution into a retained
		// AST (infer.substituteModule guarantees this); reaching here
		// indicates that invariant was violated upstream.
		panic("iface: cannot serialize an unresolved type variable")
	}
}

func fromJSON(tj typeJSON) (types.Type, error) {
	switch {
	case tj.Value != nil:
		if *tj.Value == types.Number.String() {
			return types.Number, nil
		}
		return nil, diag.NewIOError("unknown value type in module interface: "+*tj.Value, nil)
	case tj.Function != nil:
		args := make([]types.Type, len(tj.Function.Arguments))
		for i, a := range tj.Function.Arguments {
			at, err := fromJSON(a)
			if err != nil {
				return nil, err
			}
			args[i] = at
		}
		result, err := fromJSON(tj.Function.Result)
		if err != nil {
			return nil, err
		}
		resultValue, ok := result.(types.Value)
		if !ok {
			return nil, diag.NewIOError("function result in module interface is not a value type", nil)
		}
		return types.Function{Arguments: args, Result: resultValue}, nil
	default:
		return nil, diag.NewIOError("module interface entry has neither value nor function", nil)
	}
}
