// Package collect implements collection-time expansion of specification-bound
// property tests: one schedulable item per (operation, input type,
// parametrization sub-case) triple, with host-runner compatible naming,
// fixture resolution and failure isolation.
package collect

import (
	"errors"
	"fmt"

	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/schema"
)

const (
	// invalidSchemaMessage is the failure text of items materialized from
	// operations whose schema cannot be turned into a test subject.
	invalidSchemaMessage = "Invalid schema for endpoint"
	// collectionErrorMessage is the failure text of the single item the whole
	// expansion collapses to when enumeration itself breaks.
	collectionErrorMessage = "Error during collection"
)

// Name returns the deterministic item name for an (operation, input type)
// pair: base[<validity>_input][METHOD:/path]. Collision resistance relies on
// (method, path) uniqueness guaranteed by the catalog.
func Name(base string, inputType schema.InputType, op *schema.Operation) string {
	return fmt.Sprintf("%s[%s_input][%s:%s]", base, inputType, op.Method, op.Path)
}

// SubName qualifies an item name with a parametrization sub-case identifier,
// matching the host runner's naming convention for parametrized tests.
func SubName(name, callID string) string {
	return fmt.Sprintf("%s[%s]", name, callID)
}

// IsBoundTest reports whether v is a specification-bound test function.
func IsBoundTest(v any) (*schema.BoundTest, bool) {
	return schema.AsBound(v)
}

// Collector expands one bound test into a flat list of items.
type Collector struct {
	name     string
	bound    *schema.BoundTest
	provider Provider
	engine   *engine.Engine
}

// NewCollector creates a collector for a bound test. name is the base test
// name all generated item names derive from.
func NewCollector(name string, bound *schema.BoundTest, provider Provider, eng *engine.Engine) *Collector {
	return &Collector{name: name, bound: bound, provider: provider, engine: eng}
}

// Collect enumerates input types × operations × parametrization sub-cases
// and returns the resulting items. Any failure escaping the enumeration
// collapses the whole expansion to a single failing item: a broken catalog
// must degrade to one visible failure, not crash the suite's collection.
func (c *Collector) Collect() []*Item {
	items, err := c.collect()
	if err != nil {
		return []*Item{failureItem(c.name, collectionErrorMessage, "")}
	}
	return items
}

func (c *Collector) collect() (items []*Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collection panicked: %v", r)
		}
	}()

	for _, inputType := range c.bound.InputTypes() {
		operations, opErr := c.bound.Catalog().GetAllOperations()
		if opErr != nil {
			return nil, opErr
		}
		for _, op := range operations {
			generated, genErr := c.items(op, inputType)
			if genErr != nil {
				return nil, genErr
			}
			items = append(items, generated...)
		}
	}
	return items, nil
}

// items materializes one (operation, input type) pair and bridges it through
// the host runner's parametrization machinery. One pair can produce several
// items when generation hooks registered parametrization calls.
func (c *Collector) items(op *schema.Operation, inputType schema.InputType) ([]*Item, error) {
	name := Name(c.name, inputType, op)
	run, err := c.materialize(op, inputType)
	if err != nil {
		return nil, err
	}

	def := c.provider.NewDefinition(c.name, run)
	fi, err := c.provider.ResolveFixtures(def)
	if err != nil {
		return nil, err
	}

	ctx := c.provider.BuildContext(def, fi)
	if err := c.provider.InvokeHooks(ctx); err != nil {
		return nil, err
	}

	calls := ctx.Calls()
	if len(calls) == 0 {
		return []*Item{{
			Name:      name,
			InputType: inputType,
			Operation: op,
			run:       run,
			resolve:   c.provider.Resolver(def, fi, nil),
		}}, nil
	}

	if err := c.provider.RegisterSubFixtures(ctx, fi); err != nil {
		return nil, err
	}
	c.provider.Prune(fi)

	items := make([]*Item, 0, len(calls))
	for i := range calls {
		call := calls[i]
		items = append(items, &Item{
			Name:         SubName(name, call.ID),
			OriginalName: name,
			InputType:    inputType,
			Operation:    op,
			CallSpec:     &call,
			Keywords:     map[string]bool{call.ID: true},
			run:          run,
			resolve:      c.provider.Resolver(def, fi, &call),
		})
	}
	return items, nil
}

// materialize wraps the engine build. A specification-incompatible operation
// degrades to a runnable that fails at execution time, so one broken
// operation cannot prevent sibling operations' tests from running. Any other
// build failure propagates to the orchestrator boundary.
func (c *Collector) materialize(op *schema.Operation, inputType schema.InputType) (engine.Runnable, error) {
	run, err := c.engine.BuildRunnable(op, c.bound.Func(), inputType)
	if err != nil {
		var invalidSchema *engine.InvalidSchemaError
		if errors.As(err, &invalidSchema) {
			return failingRunnable(invalidSchemaMessage), nil
		}
		return nil, err
	}
	return run, nil
}
