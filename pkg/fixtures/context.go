package fixtures

import (
	"fmt"

	"github.com/vyachin/schemathesis/pkg/collect"
)

// GenerateHook is a module-level test-generation hook, the equivalent of a
// per-module parametrization hook in the host runner. It runs once per
// materialized test body during collection.
type GenerateHook func(ctx *Context)

// Group models class-based test organization: a named group of tests with an
// optional shared instance and its own generation hook. The hook runs after
// the module-level one, against a freshly constructed instance.
type Group struct {
	Name string
	// New constructs the group instance; nil for stateless groups.
	New func() any
	// Hook is the group-level generation hook.
	Hook func(self any, ctx *Context)
}

// Context is the parametrization context bound to one synthetic definition.
// Generation hooks call Parametrize on it; the bridge reads the registered
// calls afterwards in registration order.
type Context struct {
	def   *Definition
	info  *FixtureInfo
	calls []collect.CallSpec
	// names lists parametrized names in first-registration order.
	names []string
}

// Definition returns the name of the definition under parametrization.
func (c *Context) Definition() string {
	return c.def.name
}

// ParametrizeOption configures one Parametrize call.
type ParametrizeOption func(*parametrizeConfig)

type parametrizeConfig struct {
	ids []string
}

// WithIDs sets explicit sub-case identifiers, one per value.
func WithIDs(ids ...string) ParametrizeOption {
	return func(cfg *parametrizeConfig) {
		cfg.ids = ids
	}
}

// Parametrize registers one sub-case per value for the given name. Repeated
// calls for different names multiply: every existing sub-case is combined
// with every new value, identifiers joined with "-", preserving the host
// runner's ordering of parametrized tests.
func (c *Context) Parametrize(name string, values []any, opts ...ParametrizeOption) {
	cfg := &parametrizeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ids := make([]string, len(values))
	for i := range values {
		if i < len(cfg.ids) {
			ids[i] = cfg.ids[i]
		} else {
			ids[i] = fmt.Sprintf("%v", values[i])
		}
	}
	ids = disambiguate(ids)

	if len(c.calls) == 0 {
		calls := make([]collect.CallSpec, 0, len(values))
		for i, value := range values {
			id := ids[i]
			calls = append(calls, collect.CallSpec{
				ID:       id,
				Params:   map[string]any{name: value},
				Keywords: map[string]bool{id: true},
			})
		}
		c.calls = calls
	} else {
		combined := make([]collect.CallSpec, 0, len(c.calls)*len(values))
		for _, existing := range c.calls {
			for i, value := range values {
				id := existing.ID + "-" + ids[i]
				params := make(map[string]any, len(existing.Params)+1)
				for k, v := range existing.Params {
					params[k] = v
				}
				params[name] = value
				combined = append(combined, collect.CallSpec{
					ID:       id,
					Params:   params,
					Keywords: map[string]bool{id: true},
				})
			}
		}
		c.calls = combined
	}

	for _, known := range c.names {
		if known == name {
			return
		}
	}
	c.names = append(c.names, name)
}

// disambiguate appends an occurrence index to identifiers repeated within one
// call set, so "admin", "admin" become "admin0", "admin1" and every emitted
// item keeps a distinct name.
func disambiguate(ids []string) []string {
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	seen := make(map[string]int, len(ids))
	out := make([]string, len(ids))
	for i, id := range ids {
		if counts[id] > 1 {
			out[i] = fmt.Sprintf("%s%d", id, seen[id])
			seen[id]++
		} else {
			out[i] = id
		}
	}
	return out
}

// Calls returns the registered sub-cases in registration order.
func (c *Context) Calls() []collect.CallSpec {
	return c.calls
}
