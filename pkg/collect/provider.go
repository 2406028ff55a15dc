package collect

import (
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// CallSpec is one parametrization sub-case registered by a generation hook.
type CallSpec struct {
	// ID identifies the sub-case and is appended verbatim to item names.
	ID string
	// Params maps parametrized names to this sub-case's values. During
	// fixture resolution they take precedence over registered fixtures.
	Params map[string]any
	// Keywords carries the sub-case keyword markers, mirroring the host
	// runner's keyword matching for generated items.
	Keywords map[string]bool
}

// Definition is a synthetic function-definition object: a materialized
// runnable placed at the same collection-tree position as the bound test.
type Definition interface {
	Name() string
}

// FixtureInfo describes the fixture dependency closure resolved for a
// definition.
type FixtureInfo interface {
	// Names returns the fixture closure in resolution order.
	Names() []string
}

// ParametrizeContext gathers parametrization calls issued by generation
// hooks against one definition. Hooks may register any number of sub-cases;
// registration order is preserved.
type ParametrizeContext interface {
	// Calls returns the registered sub-cases in registration order.
	Calls() []CallSpec
}

// Provider abstracts the host runner's collection, fixture and
// parametrization machinery. The bridge depends only on this interface;
// a concrete adapter exists per host runner.
type Provider interface {
	// NewDefinition places a synthetic definition for the runnable under the
	// same parent scope as the bound test.
	NewDefinition(name string, run engine.Runnable) Definition

	// ResolveFixtures resolves the fixture dependency closure the way the
	// host runner would for an ordinary test in that position.
	ResolveFixtures(def Definition) (FixtureInfo, error)

	// BuildContext constructs a parametrization context bound to the
	// definition and its fixture info.
	BuildContext(def Definition, fi FixtureInfo) ParametrizeContext

	// InvokeHooks runs the module-level generation hook, then the
	// group-level one, against the context.
	InvokeHooks(ctx ParametrizeContext) error

	// RegisterSubFixtures registers each parametrized name as a
	// pseudo-fixture so dependent fixtures resolve correctly.
	RegisterSubFixtures(ctx ParametrizeContext, fi FixtureInfo) error

	// Prune trims the fixture dependency tree to match registered overrides.
	Prune(fi FixtureInfo)

	// Resolver returns the execution-time fixture resolution for one emitted
	// item. A nil call means the plain, non-parametrized item.
	Resolver(def Definition, fi FixtureInfo, call *CallSpec) func() (schema.Fixtures, error)
}
