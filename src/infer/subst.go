package infer

import "sloth/src/types"

// Substitution accumulates variable -> type bindings discovered during
// unification, keyed by Variable.ID (never by Variable itself: per
// spec §9 Variable equality always reports true, so it must never be used
// as a map key - see types.Variable.Equal).
type Substitution struct {
	bindings map[uint64]types.Type
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: make(map[uint64]types.Type)}
}

// bind records id -> t. Callers must have already run the occurs check.
func (s *Substitution) bind(id uint64, t types.Type) {
	s.bindings[id] = t
}

// resolve follows a Variable's binding chain to its end, returning the
// first type in it that is not a bound Variable (t itself if t isn't a
// bound Variable). It does not look inside Function components.
func (s *Substitution) resolve(t types.Type) types.Type {
	for {
		v, ok := t.(types.Variable)
		if !ok {
			return t
		}
		bound, ok := s.bindings[v.ID()]
		if !ok {
			return t
		}
		t = bound
	}
}

// Apply fully substitutes every Variable within t, recursing into Function
// argument lists. It is idempotent: applying it to its own result is a
// no-op, since the result can contain a Variable only when that Variable
// has no binding in s (spec §8, "Substitution idempotence").
func (s *Substitution) Apply(t types.Type) types.Type {
	t = s.resolve(t)
	if f, ok := t.(types.Function); ok {
		args := make([]types.Type, len(f.Arguments))
		for i, a := range f.Arguments {
			args[i] = s.Apply(a)
		}
		return types.Function{Arguments: args, Result: s.Apply(f.Result)}
	}
	return t
}
