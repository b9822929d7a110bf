package infer

import (
	"sloth/src/ast"
	"sloth/src/diag"
	"sloth/src/types"
)

// unify makes a and b equal under subst, installing new variable bindings
// as needed. It fails with diag.TypeMismatch when a Value must equal a
// Function or arities differ, and with diag.OccursCheck when a variable
// would have to occur within its own substitution (spec §4.1).
func unify(a, b types.Type, src *ast.SourceInfo, subst *Substitution) error {
	a = subst.resolve(a)
	b = subst.resolve(b)

	if av, ok := a.(types.Variable); ok {
		if bv, ok := b.(types.Variable); ok && av.ID() == bv.ID() {
			return nil
		}
		if occurs(av.ID(), b, subst) {
			return diag.NewOccursCheck(av.ID(), b, src)
		}
		subst.bind(av.ID(), b)
		return nil
	}
	if bv, ok := b.(types.Variable); ok {
		if occurs(bv.ID(), a, subst) {
			return diag.NewOccursCheck(bv.ID(), a, src)
		}
		subst.bind(bv.ID(), a)
		return nil
	}

	switch at := a.(type) {
	case types.Value:
		bt, ok := b.(types.Value)
		if !ok || at != bt {
			return diag.NewTypeMismatch(a, b, src)
		}
		return nil
	case types.Function:
		bt, ok := b.(types.Function)
		if !ok {
			return diag.NewTypeMismatch(a, b, src)
		}
		if len(at.Arguments) != len(bt.Arguments) {
			return diag.NewTypeMismatch(a, b, src)
		}
		for i := range at.Arguments {
			if err := unify(at.Arguments[i], bt.Arguments[i], src, subst); err != nil {
				return err
			}
		}
		return unify(at.Result, bt.Result, src, subst)
	default:
		return diag.NewTypeMismatch(a, b, src)
	}
}

// occurs reports whether variable id appears anywhere within t once every
// variable already bound in subst has been resolved.
func occurs(id uint64, t types.Type, subst *Substitution) bool {
	t = subst.resolve(t)
	switch tt := t.(type) {
	case types.Variable:
		return tt.ID() == id
	case types.Function:
		for _, a := range tt.Arguments {
			if occurs(id, a, subst) {
				return true
			}
		}
		return occurs(id, tt.Result, subst)
	default:
		return false
	}
}
