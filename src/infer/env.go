package infer

import "sloth/src/types"

// Environment is a chain of scopes mapping names to types, used while
// Algorithm W walks the surface tree. A child scope shadows its parent's
// bindings without mutating it, mirroring how package ir's symTab chains
// scopes in the teacher compiler, but without the concurrency guards this
// single-threaded inferencer (spec §5) has no use for.
type Environment struct {
	parent   *Environment
	bindings map[string]types.Type
}

// NewEnvironment builds the module-entry environment: imported interface
// signatures plus nothing else. Top-level definitions of the current
// module are bound separately by Infer, once for every definition, so
// they can all see each other regardless of source order (spec §4.1).
func NewEnvironment(imports map[string]types.Type) *Environment {
	b := make(map[string]types.Type, len(imports))
	for k, v := range imports {
		b[k] = v
	}
	return &Environment{bindings: b}
}

// Child returns a new scope nested inside e.
func (e *Environment) Child() *Environment {
	return &Environment{parent: e, bindings: make(map[string]types.Type)}
}

// Bind introduces or shadows name in this scope.
func (e *Environment) Bind(name string, t types.Type) {
	e.bindings[name] = t
}

// Lookup searches this scope and its ancestors for name.
func (e *Environment) Lookup(name string) (types.Type, bool) {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.bindings[name]; ok {
			return t, true
		}
	}
	return nil, false
}
