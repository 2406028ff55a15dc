package fixtures

import (
	"fmt"

	"github.com/vyachin/schemathesis/pkg/collect"
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// SelfFixture is the reserved fixture name carrying the group instance for
// tests organized in a Group. It mirrors the host runner's convention of
// invoking methods with their owning instance.
const SelfFixture = "self"

// Scope is the concrete collect.Provider: it represents the collection-tree
// position of one bound test (its module, optional group, fixture registry
// and declared fixture uses).
type Scope struct {
	registry   *Registry
	uses       []string
	moduleHook GenerateHook
	group      *Group
	// overlay holds pseudo-fixtures registered from parametrization calls
	// during this scope's collection.
	overlay map[string]*definition
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithUses declares the fixtures every definition in this scope uses.
func WithUses(names ...string) ScopeOption {
	return func(s *Scope) {
		s.uses = names
	}
}

// WithModuleHook sets the module-level generation hook.
func WithModuleHook(hook GenerateHook) ScopeOption {
	return func(s *Scope) {
		s.moduleHook = hook
	}
}

// WithGroup places the scope inside a test group.
func WithGroup(group *Group) ScopeOption {
	return func(s *Scope) {
		s.group = group
	}
}

// NewScope creates a scope over the given registry.
func NewScope(registry *Registry, opts ...ScopeOption) *Scope {
	s := &Scope{
		registry: registry,
		overlay:  map[string]*definition{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Definition is a synthetic function definition placed in this scope.
type Definition struct {
	name string
	run  engine.Runnable
	uses []string
}

// Name implements collect.Definition.
func (d *Definition) Name() string { return d.name }

// FixtureInfo is the resolved dependency closure of a definition.
type FixtureInfo struct {
	initial []string
	closure []string
	// overrides names the parametrized pseudo-fixtures attached to this info.
	overrides []string
}

// Names implements collect.FixtureInfo. Dependencies precede dependents.
func (fi *FixtureInfo) Names() []string { return fi.closure }

// NewDefinition implements collect.Provider.
func (s *Scope) NewDefinition(name string, run engine.Runnable) collect.Definition {
	return &Definition{name: name, run: run, uses: s.uses}
}

// ResolveFixtures implements collect.Provider. The closure is computed the
// same way for a synthetic definition as it would be for an ordinary test at
// this scope position.
func (s *Scope) ResolveFixtures(def collect.Definition) (collect.FixtureInfo, error) {
	d := def.(*Definition)
	closure, err := s.closure(d.uses)
	if err != nil {
		return nil, err
	}
	return &FixtureInfo{initial: d.uses, closure: closure}, nil
}

// BuildContext implements collect.Provider.
func (s *Scope) BuildContext(def collect.Definition, fi collect.FixtureInfo) collect.ParametrizeContext {
	return &Context{def: def.(*Definition), info: fi.(*FixtureInfo)}
}

// InvokeHooks implements collect.Provider: module hook first, then the group
// hook against a fresh group instance.
func (s *Scope) InvokeHooks(ctx collect.ParametrizeContext) error {
	c := ctx.(*Context)
	if s.moduleHook != nil {
		s.moduleHook(c)
	}
	if s.group != nil && s.group.Hook != nil {
		var self any
		if s.group.New != nil {
			self = s.group.New()
		}
		s.group.Hook(self, c)
	}
	return nil
}

// RegisterSubFixtures implements collect.Provider: every parametrized name
// becomes a pseudo-fixture so fixtures depending on it keep resolving.
func (s *Scope) RegisterSubFixtures(ctx collect.ParametrizeContext, fi collect.FixtureInfo) error {
	c := ctx.(*Context)
	info := fi.(*FixtureInfo)
	for _, name := range c.names {
		s.overlay[name] = &definition{name: name, pseudo: true}
		info.overrides = append(info.overrides, name)
	}
	return nil
}

// Prune implements collect.Provider: the dependency closure is recomputed
// with the pseudo-fixtures in place, dropping branches the overrides cut off.
func (s *Scope) Prune(fi collect.FixtureInfo) {
	info := fi.(*FixtureInfo)
	wanted := append(append([]string(nil), info.initial...), info.overrides...)
	closure, err := s.closure(wanted)
	if err != nil {
		// Resolution succeeded before overrides were added; adding
		// terminal pseudo-fixtures cannot introduce new failures.
		return
	}
	info.closure = closure
}

// Resolver implements collect.Provider. The returned function performs the
// execution-time fixture resolution for one item.
func (s *Scope) Resolver(def collect.Definition, fi collect.FixtureInfo, call *collect.CallSpec) func() (schema.Fixtures, error) {
	info := fi.(*FixtureInfo)
	return func() (schema.Fixtures, error) {
		fx := schema.Fixtures{}
		if call != nil {
			for name, value := range call.Params {
				fx[name] = value
			}
		}
		if s.group != nil && s.group.New != nil {
			fx[SelfFixture] = s.group.New()
		}
		for _, name := range info.closure {
			if _, done := fx[name]; done {
				continue
			}
			d, ok := s.lookup(name)
			if !ok {
				return nil, fmt.Errorf("fixture %q not found", name)
			}
			if d.pseudo {
				return nil, fmt.Errorf("parametrized fixture %q has no value for this item", name)
			}
			value, err := d.fn(fx)
			if err != nil {
				return nil, fmt.Errorf("fixture %q failed: %w", name, err)
			}
			fx[name] = value
		}
		return fx, nil
	}
}

func (s *Scope) lookup(name string) (*definition, bool) {
	if d, ok := s.overlay[name]; ok {
		return d, true
	}
	return s.registry.lookup(name)
}

// closure computes the fixture dependency closure of the given names in
// dependency-first order, failing on unknown fixtures and cycles.
func (s *Scope) closure(names []string) ([]string, error) {
	var (
		order    []string
		done     = map[string]bool{}
		visiting = map[string]bool{}
	)
	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("fixture dependency cycle through %q", name)
		}
		d, ok := s.lookup(name)
		if !ok {
			return fmt.Errorf("fixture %q not found", name)
		}
		visiting[name] = true
		if !d.pseudo {
			for _, dep := range d.uses {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		visiting[name] = false
		done[name] = true
		order = append(order, name)
		return nil
	}
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
