// Package compiler wires the compiler core's passes together into the
// single entry point an external driver calls (spec §6.2): desugar,
// infer, desugar again, closure-convert, generate LLVM, write bitcode and
// interface. Argument parsing, package-manifest resolution, the on-disk
// object cache, and the linker invocation are all out of scope (spec
// §1); this package only ever sees an already-parsed ast.Module and a
// resolved set of imported interfaces.
package compiler

import (
	"sloth/src/ast"
	"sloth/src/closure"
	"sloth/src/codegen"
	"sloth/src/desugar"
	"sloth/src/iface"
	"sloth/src/infer"
	"sloth/src/types"
)

// Compile type-checks, lowers and code-generates moduleAST, writing
// "<destinationPath>" (LLVM bitcode) and "<destinationPath>.json" (the
// module interface). moduleName is the fully-qualified package path used
// for top-level symbol renaming (spec §4.4 point 4); importedInterfaces
// are the already-resolved interfaces of every module moduleAST imports.
func Compile(moduleName string, moduleAST *ast.Module, importedInterfaces []ast.ModuleInterface, destinationPath string) error {
	module := &ast.Module{
		Name:        moduleName,
		Imports:     importedInterfaces,
		Definitions: moduleAST.Definitions,
	}

	module = desugar.PreInference(module)

	typed, err := infer.Infer(module)
	if err != nil {
		return err
	}

	typed = desugar.PostInference(typed)

	coreModule, err := closure.Convert(typed)
	if err != nil {
		return err
	}

	gen := codegen.New(moduleName)
	defer gen.Dispose()

	if err := gen.Generate(coreModule); err != nil {
		return err
	}
	if err := gen.Emit(destinationPath); err != nil {
		return err
	}

	return iface.Write(destinationPath+".json", &ast.ModuleInterface{
		ModuleName: moduleName,
		Exports:    exportedTypes(typed),
	})
}

// exportedTypes collects every top-level definition's fully substituted
// type under its un-renamed source name (spec §4.6.2: "its name (un-renamed,
// from the source) and its fully substituted type").
func exportedTypes(module *ast.Module) map[string]types.Type {
	exports := make(map[string]types.Type, len(module.Definitions))
	for _, def := range module.Definitions {
		switch d := def.(type) {
		case *ast.FunctionDefinition:
			exports[d.Name] = d.Type
		case *ast.VariableDefinition:
			exports[d.Name] = d.Type
		}
	}
	return exports
}
