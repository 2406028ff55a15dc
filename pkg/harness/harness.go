// Package harness schedules expanded property tests on Go's testing package.
// It recognizes specification-bound test functions, expands them into items
// at collection time and runs every item as its own subtest, applying the
// execution adapter's skip/fail classification. Values that are not bound
// tests pass through unchanged.
package harness

import (
	"strings"
	"testing"

	"github.com/vyachin/schemathesis/pkg/collect"
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/execute"
	"github.com/vyachin/schemathesis/pkg/fixtures"
)

// Option configures a harness run.
type Option func(*config)

type config struct {
	baseName   string
	registry   *fixtures.Registry
	moduleHook fixtures.GenerateHook
	group      *fixtures.Group
	provider   collect.Provider
	engine     *engine.Engine
}

// WithBaseName overrides the base name item names derive from. The default
// is the enclosing test's name.
func WithBaseName(name string) Option {
	return func(c *config) {
		c.baseName = name
	}
}

// WithRegistry supplies the fixture registry for resolution.
func WithRegistry(registry *fixtures.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithModuleHook installs a module-level generation hook.
func WithModuleHook(hook fixtures.GenerateHook) Option {
	return func(c *config) {
		c.moduleHook = hook
	}
}

// WithGroup places the bound test inside a test group.
func WithGroup(group *fixtures.Group) Option {
	return func(c *config) {
		c.group = group
	}
}

// WithProvider substitutes the whole parametrization provider. Overrides
// registry, hook and group options.
func WithProvider(provider collect.Provider) Option {
	return func(c *config) {
		c.provider = provider
	}
}

// WithEngine sets the property engine used for materialization.
func WithEngine(eng *engine.Engine) Option {
	return func(c *config) {
		c.engine = eng
	}
}

// Run expands v if it is a specification-bound test and schedules every
// generated item as a subtest of t. Anything else runs unchanged: a plain
// func(*testing.T) is invoked directly.
func Run(t *testing.T, v any, opts ...Option) {
	t.Helper()

	bound, ok := collect.IsBoundTest(v)
	if !ok {
		if fn, isPlain := v.(func(*testing.T)); isPlain {
			fn(t)
			return
		}
		t.Fatalf("harness.Run: unsupported test type %T", v)
		return
	}

	cfg := &config{
		baseName: baseName(t.Name()),
		engine:   engine.New(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	provider := cfg.provider
	if provider == nil {
		registry := cfg.registry
		if registry == nil {
			registry = fixtures.NewRegistry()
		}
		provider = fixtures.NewScope(registry,
			fixtures.WithUses(bound.FixtureNames()...),
			fixtures.WithModuleHook(cfg.moduleHook),
			fixtures.WithGroup(cfg.group),
		)
	}

	collector := collect.NewCollector(cfg.baseName, bound, provider, cfg.engine)
	for _, item := range collector.Collect() {
		item := item
		t.Run(item.Name, func(t *testing.T) {
			adapter := execute.NewAdapter(execute.WithReporter(func(line string) {
				t.Log(line)
			}))
			switch out := adapter.Run(item); out.Status {
			case execute.Skipped:
				t.Skip(out.Reason)
			case execute.Failed:
				t.Fatal(out.Err)
			}
		})
	}
}

// baseName strips the subtest path, leaving the innermost test name.
func baseName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		return full[i+1:]
	}
	return full
}
