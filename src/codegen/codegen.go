// Package codegen walks the closure-converted core IR (package core) and
// emits an LLVM module using the heap-allocated closure representation
// from spec §4.6: every function becomes a global `{entry_fn_ptr,
// environment}` struct with a generated `<name>.$entry` routine, every
// value becomes a global initialized by a generated `<name>.$init`
// routine, and a synthetic `sloth_init` chains every `.$init` in
// declaration order.
//
// Grounded on original_source/compiler/src/compile/module_compiler.rs (the
// declare-then-compile two-pass structure, and the `.$entry`/`.$init`/
// `sloth_init` naming scheme) and on the teacher compiler's
// src/ir/llvm/transform.go for how to drive tinygo.org/x/go-llvm itself:
// one Context/Module/Builder per compile, llvm.AddFunction/llvm.AddGlobal
// for declarations, llvm.AddBasicBlock+Builder.SetInsertPointAtEnd for
// function bodies, ending in bitcode emission.
package codegen

import (
	"fmt"
	"os"

	"tinygo.org/x/go-llvm"

	"sloth/src/core"
	"sloth/src/diag"
	"sloth/src/typelower"
	"sloth/src/types"
)

// globalInitializerName is the synthetic function the host runtime must
// call before sloth_main (spec §4.6 point 4).
const globalInitializerName = "sloth_init"

// Generator owns one LLVM context/module/builder for the duration of a
// single module compile (spec §5, "Shared resources"). It must not be
// reused across modules.
type Generator struct {
	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder
	lower   *typelower.Lowerer

	// variables maps every name codegen may reference - a top-level
	// closure/global, or an imported declaration - to the llvm.Value
	// that names it. Local names (arguments, let-bindings, captures) are
	// layered on top of a copy of this map per function body, mirroring
	// module_compiler.rs's `self.variables.clone()`.
	variables map[string]llvm.Value

	initializers []llvm.Value

	// localEntrySeq disambiguates the entry-function symbol of nested
	// (LetFunctions) closures: unlike top-level names, which are already
	// unique module-wide (package closure's renaming), a local name like
	// "go" may recur in unrelated LetFunctions blocks across the module.
	localEntrySeq int
}

// New creates a Generator for a module named moduleName.
func New(moduleName string) *Generator {
	ctx := llvm.NewContext()
	return &Generator{
		ctx:       ctx,
		module:    ctx.NewModule(moduleName),
		builder:   ctx.NewBuilder(),
		lower:     typelower.New(ctx),
		variables: make(map[string]llvm.Value),
	}
}

// Dispose releases the underlying LLVM context, module and builder. Call
// once Emit (or the caller's own use of Module) is done with them.
func (g *Generator) Dispose() {
	g.builder.Dispose()
	g.module.Dispose()
	g.ctx.Dispose()
}

// Module returns the LLVM module Generate populated, for callers that
// want to inspect or dump it before Emit.
func (g *Generator) Module() llvm.Module { return g.module }

// Generate compiles m's declarations and definitions into the Generator's
// module (spec §4.6, §4.6.1). It must be called exactly once.
func (g *Generator) Generate(m *core.Module) error {
	for _, decl := range m.Declarations {
		g.variables[decl.Name] = g.declareImport(decl)
	}

	for _, fn := range m.Functions {
		g.variables[fn.Name] = g.declareFunction(fn)
	}
	for _, val := range m.Values {
		g.variables[val.Name] = g.declareValue(val)
	}

	for _, fn := range m.Functions {
		if err := g.compileFunction(fn); err != nil {
			return err
		}
	}
	for _, val := range m.Values {
		if err := g.compileValue(val); err != nil {
			return err
		}
	}

	g.compileGlobalInitializer()

	if err := llvm.VerifyModule(g.module, llvm.ReturnStatusAction); err != nil {
		return diag.NewIOError("module verification failed", err)
	}
	return nil
}

// declareImport exposes an imported declaration's global under its own
// (already-qualified) name, with the lowered type its exporting module's
// interface promised (spec §3.4, §4.6.1). A function import is declared
// with its unsized-closure STRUCT type, exactly like declareFunction,
// never with g.lower.Lower's already-pointered Function representation -
// AddGlobal adds the pointer layer itself, and every consumer (Variable,
// Application) expects a single pointer to a closure struct, not a
// pointer to a closure pointer.
func (g *Generator) declareImport(decl core.Declaration) llvm.Value {
	if fnType, ok := decl.Type.(types.Function); ok {
		return llvm.AddGlobal(g.module, g.lower.UnsizedClosure(fnType), decl.Name)
	}
	return llvm.AddGlobal(g.module, g.lower.Lower(decl.Type), decl.Name)
}

// declareFunction emits the global closure symbol for fn - a sized
// closure `{entry_ptr, environment}` whose environment struct is empty at
// the top level, since a top-level function's environment is always empty
// (spec §4.6 point 2).
func (g *Generator) declareFunction(fn core.FunctionDefinition) llvm.Value {
	closureType := g.lower.Closure(fn)
	return llvm.AddGlobal(g.module, closureType, fn.Name)
}

// declareValue emits the global symbol for a top-level value definition,
// typed per its lowered result type (always double, per spec §4.5).
func (g *Generator) declareValue(val core.ValueDefinition) llvm.Value {
	return llvm.AddGlobal(g.module, g.lower.Lower(val.Type), val.Name)
}

func entryName(name string) string { return name + ".$entry" }
func initName(name string) string  { return name + ".$init" }

// compileFunction generates fn's `.$entry` routine and initializes its
// closure global to point at it (spec §4.6 point 3). A top-level
// function's Environment is always empty, so the closure's environment
// field is left zero-initialized.
func (g *Generator) compileFunction(fn core.FunctionDefinition) error {
	closure := g.variables[fn.Name]

	entryFn := llvm.AddFunction(g.module, entryName(fn.Name), g.lower.Function(fn.Type()))
	closure.SetInitializer(llvm.ConstStruct([]llvm.Value{entryFn, llvm.ConstNull(g.lower.Environment(fn.Environment))}, false))

	locals := make(map[string]llvm.Value, len(g.variables)+len(fn.Arguments))
	for k, v := range g.variables {
		locals[k] = v
	}
	for i, arg := range fn.Arguments {
		locals[arg.Name] = entryFn.Param(i + 1) // param 0 is the env pointer.
	}

	entry := llvm.AddBasicBlock(entryFn, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	result, err := g.compileExpression(fn.Body, locals)
	if err != nil {
		return err
	}
	g.builder.CreateRet(result)

	if err := llvm.VerifyFunction(entryFn, llvm.ReturnStatusAction); err != nil {
		return diag.NewIOError(fmt.Sprintf("function %q failed verification", fn.Name), err)
	}
	return nil
}

// compileValue generates a top-level value's `.$init` routine: a void
// function that evaluates the value's body and stores it into the global
// (spec §4.6 point 3: the global is filled in by a generated routine
// rather than a constant initializer, since the body may call other
// already-initialized globals).
func (g *Generator) compileValue(val core.ValueDefinition) error {
	global := g.variables[val.Name]
	global.SetInitializer(llvm.ConstNull(g.lower.Lower(val.Type)))

	init := llvm.AddFunction(g.module, initName(val.Name), llvm.FunctionType(g.ctx.VoidType(), nil, false))
	entry := llvm.AddBasicBlock(init, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	body, err := g.compileExpression(val.Body, g.variables)
	if err != nil {
		return err
	}
	g.builder.CreateStore(body, global)
	g.builder.CreateRetVoid()

	if err := llvm.VerifyFunction(init, llvm.ReturnStatusAction); err != nil {
		return diag.NewIOError(fmt.Sprintf("initializer for %q failed verification", val.Name), err)
	}
	g.initializers = append(g.initializers, init)
	return nil
}

// compileGlobalInitializer emits sloth_init, which calls every `.$init`
// function in declaration order (spec §4.6 point 4, §5
// "Ordering"). The host runtime is required to call it before sloth_main.
func (g *Generator) compileGlobalInitializer() {
	init := llvm.AddFunction(g.module, globalInitializerName, llvm.FunctionType(g.ctx.VoidType(), nil, false))
	entry := llvm.AddBasicBlock(init, "entry")
	g.builder.SetInsertPointAtEnd(entry)
	for _, fn := range g.initializers {
		g.builder.CreateCall(fn, nil, "")
	}
	g.builder.CreateRetVoid()
}

// Emit writes the generated module to path as LLVM bitcode (spec §6.1,
// "`.sloth/<module>.bc` - emitted LLVM bitcode (object) files").
func (g *Generator) Emit(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return diag.NewIOError("opening bitcode output", err)
	}
	defer f.Close()

	if err := llvm.WriteBitcodeToFile(g.module, f); err != nil {
		return diag.NewIOError(fmt.Sprintf("writing bitcode to %s", path), err)
	}
	return nil
}
