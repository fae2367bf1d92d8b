package eval

import "github.com/yift/findit/internal/value"

// binding is one `$name` slot; thunk is cleared once forced so WITH's
// "at most once" guarantee (§8 invariant 12) holds regardless of how
// many times the name is looked up.
type binding struct {
	value  value.Value
	thunk  func() value.Value
	forced bool
}

func (b *binding) force() value.Value {
	if !b.forced {
		b.value = b.thunk()
		b.thunk = nil
		b.forced = true
	}
	return b.value
}

// Environment is a lexically scoped chain of `$name` bindings over the
// current file. Child scopes are created for WITH bodies and lambda
// invocations; lookups walk outward to the nearest enclosing binding.
type Environment struct {
	file    FileContext
	name    string
	binding *binding
	parent  *Environment
}

// NewEnvironment builds the root environment for evaluating one
// expression against one file.
func NewEnvironment(file FileContext) *Environment {
	return &Environment{file: file}
}

// File returns the current file context (the implicit "me").
func (e *Environment) File() FileContext { return e.file }

// WithValue returns a child scope binding name to an already-evaluated
// value (used for lambda parameters, always eager since the argument
// expression is available at the call site).
func (e *Environment) WithValue(name string, v value.Value) *Environment {
	return &Environment{file: e.file, name: name, binding: &binding{value: v, forced: true}, parent: e}
}

// WithLazy returns a child scope binding name to a thunk, forced at
// most once on first reference (used for WITH bindings, §4.4).
func (e *Environment) WithLazy(name string, thunk func() value.Value) *Environment {
	return &Environment{file: e.file, name: name, binding: &binding{thunk: thunk}, parent: e}
}

// Lookup resolves a `$name` reference, walking outward through
// enclosing scopes. The innermost binding of a shadowed name wins.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if env.binding != nil && env.name == name {
			return env.binding.force(), true
		}
	}
	return value.Empty, false
}
