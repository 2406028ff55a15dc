// Package engine turns (operation, user function, input type) triples into
// runnable property tests. Input generation is built on gopter generators
// derived from the operation's OpenAPI schemas; the runnable drives the user
// function through a configurable number of generated examples.
package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/leanovate/gopter"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// DefaultMaxExamples is the number of generated examples per runnable when
// not configured otherwise.
const DefaultMaxExamples = 100

// Runnable executes a materialized property test. The host runner supplies
// only resolved fixtures; all test inputs are generated internally.
type Runnable func(fx schema.Fixtures) error

// Engine builds runnables. The zero value is not usable; use New.
type Engine struct {
	maxExamples int
	seed        int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxExamples sets how many examples each runnable generates.
func WithMaxExamples(n int) Option {
	return func(e *Engine) {
		e.maxExamples = n
	}
}

// WithSeed fixes the random source for reproducible generation.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{maxExamples: DefaultMaxExamples}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildRunnable materializes one property test. It fails with an
// *InvalidSchemaError when the operation cannot be represented as a test
// subject. Unsatisfiable generation and bad strategy arguments surface at
// run time, not here.
func (e *Engine) BuildRunnable(op *schema.Operation, fn schema.TestFunc, inputType schema.InputType) (Runnable, error) {
	var (
		caseGen     gopter.Gen
		satisfiable = true
		err         error
	)
	switch inputType {
	case schema.InputTypeValid:
		caseGen, err = validCaseGen(op)
	case schema.InputTypeInvalid:
		caseGen, satisfiable, err = invalidCaseGen(op)
	default:
		return func(schema.Fixtures) error {
			return &InvalidArgumentError{Message: fmt.Sprintf("unknown input type %q", inputType)}
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return func(fx schema.Fixtures) error {
		return e.run(op, fn, caseGen, satisfiable, fx)
	}, nil
}

func (e *Engine) run(op *schema.Operation, fn schema.TestFunc, caseGen gopter.Gen, satisfiable bool, fx schema.Fixtures) error {
	if e.maxExamples < 1 {
		return &InvalidArgumentError{
			Message: fmt.Sprintf("max examples must be at least 1, got %d", e.maxExamples),
		}
	}
	if !satisfiable {
		return fmt.Errorf("%s %s: %w", op.Method, op.Path, ErrUnsatisfiable)
	}

	gp := gopter.DefaultGenParameters()
	if e.seed != 0 {
		gp.Rng = rand.New(rand.NewSource(e.seed))
	}

	discards := 0
	for i := 0; i < e.maxExamples; {
		value, ok := caseGen(gp).Retrieve()
		if !ok {
			discards++
			if discards > e.maxExamples*10 {
				return fmt.Errorf("%s %s: %w", op.Method, op.Path, ErrUnsatisfiable)
			}
			continue
		}
		c := value.(*schema.Case)
		Report("Trying example: " + formatCase(c))
		if err := fn(c, fx); err != nil {
			Report("Falsifying example: " + formatCase(c))
			return &FalsifiedError{Case: c, Example: i + 1, Err: err}
		}
		i++
	}
	return nil
}

// formatCase renders a case the way it appears in diagnostic output.
func formatCase(c *schema.Case) string {
	var sb strings.Builder
	sb.WriteString(c.Operation.Method)
	sb.WriteString(" ")
	sb.WriteString(c.Operation.Path)
	for _, section := range []struct {
		label  string
		values map[string]any
	}{
		{"path", c.PathParams},
		{"query", c.Query},
		{"headers", c.Headers},
	} {
		if len(section.values) == 0 {
			continue
		}
		names := make([]string, 0, len(section.values))
		for name := range section.values {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString(" " + section.label + "={")
		for i, name := range names {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %v", name, section.values[name])
		}
		sb.WriteString("}")
	}
	if c.Body != nil {
		fmt.Fprintf(&sb, " body=%v", c.Body)
	}
	return sb.String()
}
