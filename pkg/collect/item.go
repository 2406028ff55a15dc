package collect

import (
	"errors"

	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// Item is one concrete, schedulable test case produced by expansion. The
// collector never mutates an item after emitting it.
type Item struct {
	// Name uniquely identifies the item within its bound test's expansion.
	Name string
	// OriginalName is the pre-parametrization name; set only for sub-cases.
	OriginalName string
	// InputType is the validity class the item exercises.
	InputType schema.InputType
	// Operation is the targeted operation; nil for synthetic failure items.
	Operation *schema.Operation
	// CallSpec is the parametrization sub-case, if any.
	CallSpec *CallSpec
	// Keywords carries sub-case keyword markers.
	Keywords map[string]bool

	run     engine.Runnable
	resolve func() (schema.Fixtures, error)
}

// Invoke runs the item. It takes no arguments: fixtures are resolved through
// the host runner machinery captured at collection time, and test inputs are
// generated inside the engine.
func (it *Item) Invoke() error {
	fx := schema.Fixtures{}
	if it.resolve != nil {
		resolved, err := it.resolve()
		if err != nil {
			return err
		}
		fx = resolved
	}
	return it.run(fx)
}

// failureItem builds a synthetic item that fails unconditionally with msg.
// Collection-phase breakage degrades to such items instead of aborting the
// surrounding suite.
func failureItem(name, msg string, inputType schema.InputType) *Item {
	return &Item{
		Name:      name,
		InputType: inputType,
		run: func(schema.Fixtures) error {
			return errors.New(msg)
		},
	}
}

// failingRunnable defers a materialization failure to execution time.
func failingRunnable(msg string) engine.Runnable {
	return func(schema.Fixtures) error {
		return errors.New(msg)
	}
}
