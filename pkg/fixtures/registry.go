// Package fixtures provides the host-runner side of test expansion: a
// fixture registry with dependency resolution, generation hooks for
// parametrization, and a concrete collect.Provider wiring both into the
// collection bridge.
package fixtures

import (
	"github.com/vyachin/schemathesis/pkg/schema"
)

// Func computes a fixture value. deps holds the already resolved values of
// the fixtures this one declared with Register.
type Func func(deps schema.Fixtures) (any, error)

type definition struct {
	name string
	fn   Func
	uses []string
	// pseudo marks a fixture synthesized from a parametrization call; its
	// value comes from the sub-case, never from a Func.
	pseudo bool
}

// Registry holds fixture definitions shared by every test in a module.
type Registry struct {
	defs map[string]*definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]*definition{}}
}

// Register adds a fixture. uses names the fixtures it depends on; their
// resolved values are passed to fn. Registering the same name twice replaces
// the earlier definition, mirroring fixture overriding in nested scopes.
func (r *Registry) Register(name string, fn Func, uses ...string) {
	r.defs[name] = &definition{name: name, fn: fn, uses: uses}
}

// RegisterValue adds a constant fixture.
func (r *Registry) RegisterValue(name string, value any) {
	r.Register(name, func(schema.Fixtures) (any, error) {
		return value, nil
	})
}

func (r *Registry) lookup(name string) (*definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}
