package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"sloth/src/core"
	"sloth/src/diag"
)

// compileExpression lowers one core.Expression into LLVM instructions
// emitted at the builder's current insertion point, returning the value
// it computes. vars maps every name currently in scope - arguments,
// captures, let-bindings, and (by inheriting the Generator's own table)
// every top-level global - to the llvm.Value that represents it.
//
// Grounded on original_source/core/src/compile/expression_compiler.rs,
// translated case for case; see Closure ABI note on Application and
// LetFunctions below for the two spots that differ from a plain
// expression-tree walk.
func (g *Generator) compileExpression(e core.Expression, vars map[string]llvm.Value) (llvm.Value, error) {
	switch ex := e.(type) {
	case core.Number:
		return llvm.ConstFloat(g.ctx.DoubleType(), ex.Value), nil

	case core.Variable:
		return g.compileVariable(ex.Name, vars)

	case core.Operation:
		lhs, err := g.compileExpression(ex.LHS, vars)
		if err != nil {
			return llvm.Value{}, err
		}
		rhs, err := g.compileExpression(ex.RHS, vars)
		if err != nil {
			return llvm.Value{}, err
		}
		switch ex.Operator {
		case "+":
			return g.builder.CreateFAdd(lhs, rhs, ""), nil
		case "-":
			return g.builder.CreateFSub(lhs, rhs, ""), nil
		case "*":
			return g.builder.CreateFMul(lhs, rhs, ""), nil
		case "/":
			return g.builder.CreateFDiv(lhs, rhs, ""), nil
		default:
			return llvm.Value{}, diag.NewVariableNotFound("operator " + ex.Operator)
		}

	case core.Application:
		return g.compileApplication(ex, vars)

	case core.LetValues:
		return g.compileLetValues(ex, vars)

	case core.LetFunctions:
		return g.compileLetFunctions(ex, vars)

	default:
		return llvm.Value{}, diag.NewVariableNotFound("<unknown core expression>")
	}
}

// compileVariable resolves name to its value and, if that value is a
// pointer to a double (a top-level value global, which is stored by
// address; arguments and captures are already plain values), loads it -
// every other pointer kind (a closure) passes through unmodified, since
// Sloth's only indirection worth hiding from the caller is a boxed number
// (spec §4.6.1, "Variable").
func (g *Generator) compileVariable(name string, vars map[string]llvm.Value) (llvm.Value, error) {
	v, ok := vars[name]
	if !ok {
		return llvm.Value{}, diag.NewVariableNotFound(name)
	}
	return g.autoLoad(v), nil
}

func (g *Generator) autoLoad(v llvm.Value) llvm.Value {
	t := v.Type()
	if t.TypeKind() != llvm.PointerTypeKind {
		return v
	}
	if t.ElementType().TypeKind() == llvm.DoubleTypeKind {
		return g.builder.CreateLoad(v, "")
	}
	return v
}

// compileApplication calls the closure bound to ex.Function: its
// environment pointer (closure field 1) becomes the callee's first
// argument, and its entry pointer (closure field 0) is loaded and called
// (spec §4.6.1, "Application").
func (g *Generator) compileApplication(ex core.Application, vars map[string]llvm.Value) (llvm.Value, error) {
	closure, ok := vars[ex.Function]
	if !ok {
		return llvm.Value{}, diag.NewVariableNotFound(ex.Function)
	}

	envPtr := g.builder.CreateStructGEP(closure, 1, "")
	entryPtr := g.builder.CreateLoad(g.builder.CreateStructGEP(closure, 0, ""), "")

	args := make([]llvm.Value, 0, len(ex.Args)+1)
	args = append(args, envPtr)
	for _, a := range ex.Args {
		v, err := g.compileExpression(a, vars)
		if err != nil {
			return llvm.Value{}, err
		}
		args = append(args, v)
	}

	return g.builder.CreateCall(entryPtr, args, ""), nil
}

// compileLetValues evaluates each binding in order against an
// accumulating scope, so a later binding's body may reference an earlier
// one, then evaluates Body in the fully extended scope (spec §4.6.1).
func (g *Generator) compileLetValues(ex core.LetValues, vars map[string]llvm.Value) (llvm.Value, error) {
	scope := cloneVars(vars)
	for _, d := range ex.Defs {
		v, err := g.compileExpression(d.Body, scope)
		if err != nil {
			return llvm.Value{}, err
		}
		scope[d.Name] = v
	}
	return g.compileExpression(ex.Body, scope)
}

// compileLetFunctions allocates every sibling's closure in a first pass
// (so each can reference any other through its own environment, enabling
// mutual recursion), then fills in each closure's entry pointer and
// captured values in a second pass, once every sibling's storage exists
// (spec §4.6.1, two-phase allocation). The unsized closure pointer type
// is what every sibling - and Body - sees in scope; the second pass
// stores into each closure through the sized pointer malloc returned, and
// each entry function bit-casts its environment pointer to its concrete
// environment type before loading its captures.
func (g *Generator) compileLetFunctions(ex core.LetFunctions, vars map[string]llvm.Value) (llvm.Value, error) {
	scope := cloneVars(vars)
	sizedPointers := make(map[string]llvm.Value, len(ex.Defs))

	for _, d := range ex.Defs {
		sizedType := g.lower.Closure(d)
		ptr := g.builder.CreateMalloc(sizedType, "")
		sizedPointers[d.Name] = ptr
		scope[d.Name] = g.builder.CreateBitCast(ptr, g.lower.Lower(d.Type()), "")
	}

	for _, d := range ex.Defs {
		closure := sizedPointers[d.Name]

		entryFn := llvm.AddFunction(g.module, g.localEntryName(d.Name), g.lower.Function(d.Type()))
		g.builder.CreateStore(entryFn, g.builder.CreateStructGEP(closure, 0, ""))

		// entryFn is a distinct LLVM function: it may never reference an
		// SSA value computed in the enclosing function (here, anything
		// in scope). Every name d.Body needs that isn't one of its own
		// arguments must instead come from d.Environment, loaded out of
		// entryFn's own (bitcast) environment pointer - this is exactly
		// what closure conversion computed d.Environment for.
		savedBlock := g.builder.GetInsertBlock()
		entry := llvm.AddBasicBlock(entryFn, "entry")
		g.builder.SetInsertPointAtEnd(entry)

		locals := cloneVars(g.variables)
		entryEnvPtr := g.builder.CreateBitCast(
			entryFn.Param(0),
			llvm.PointerType(g.lower.Environment(d.Environment), 0),
			"",
		)
		for i, c := range d.Environment {
			locals[c.Name] = g.builder.CreateLoad(g.builder.CreateStructGEP(entryEnvPtr, i, ""), "")
		}
		for i, arg := range d.Arguments {
			locals[arg.Name] = entryFn.Param(i + 1)
		}

		body, err := g.compileExpression(d.Body, locals)
		if err != nil {
			return llvm.Value{}, err
		}
		g.builder.CreateRet(body)
		g.builder.SetInsertPointAtEnd(savedBlock)

		envPtr := g.builder.CreateStructGEP(closure, 1, "")
		for i, c := range d.Environment {
			captured, ok := scope[c.Name]
			if !ok {
				return llvm.Value{}, diag.NewVariableNotFound(c.Name)
			}
			g.builder.CreateStore(g.autoLoad(captured), g.builder.CreateStructGEP(envPtr, i, ""))
		}
	}

	return g.compileExpression(ex.Body, scope)
}

// localEntryName names the entry function of a LetFunctions-nested
// closure. These names are never addressed from outside this module, but
// must still be unique within it - the sequence number guards against two
// unrelated LetFunctions blocks reusing the same local name (e.g. "go").
func (g *Generator) localEntryName(name string) string {
	g.localEntrySeq++
	return fmt.Sprintf("%s.$local%d.$entry", name, g.localEntrySeq)
}

func cloneVars(vars map[string]llvm.Value) map[string]llvm.Value {
	out := make(map[string]llvm.Value, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
