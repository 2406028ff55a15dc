package engine

import (
	"errors"
	"fmt"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// ErrUnsatisfiable is returned by a runnable when no example satisfying the
// requested input type can be generated for the operation. For invalid input
// this is an expected condition: an unconstrained schema offers nothing to
// violate.
var ErrUnsatisfiable = errors.New("unable to generate any examples satisfying the schema")

// InvalidSchemaError reports that an operation cannot be represented as a
// runnable property test, typically because its schema is malformed or uses
// constructs the engine does not support.
type InvalidSchemaError struct {
	Method string
	Path   string
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid schema for %s %s: %s", e.Method, e.Path, e.Reason)
}

// InvalidArgumentError reports that the arguments supplied to an input
// generation strategy are unusable, for example a non-positive example count.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// FalsifiedError carries the generated case that made the user function fail,
// so reporting layers can render a reproduction for it.
type FalsifiedError struct {
	Case    *schema.Case
	Example int
	Err     error
}

func (e *FalsifiedError) Error() string {
	return fmt.Sprintf("falsified on example %d: %v", e.Example, e.Err)
}

func (e *FalsifiedError) Unwrap() error {
	return e.Err
}
