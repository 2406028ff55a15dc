// Package execute wraps the invocation of generated test items: it captures
// the engine's diagnostic output for the duration of the call and classifies
// the result into a tagged outcome the host runner can report.
package execute

import (
	"errors"

	"github.com/vyachin/schemathesis/pkg/collect"
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// SkipReasonUnsatisfiable is the fixed skip reason used when invalid input
// cannot be generated for an operation. Some operations simply offer no
// constraint to violate.
const SkipReasonUnsatisfiable = "Cannot generate invalid examples for this endpoint"

// Status is the terminal classification of one item invocation.
type Status int

const (
	// Passed means the invocation completed without failure.
	Passed Status = iota
	// Skipped means the invocation was reinterpreted as an intentional skip.
	Skipped
	// Failed means the invocation failed.
	Failed
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one invocation.
type Outcome struct {
	Status Status
	// Reason is set for skips.
	Reason string
	// Err is set for failures.
	Err error
	// Output holds the diagnostic lines forwarded to the reporting channel.
	// Empty for skips: the skip branch forwards nothing.
	Output []string
}

// Adapter runs items and forwards diagnostics to a reporting channel.
type Adapter struct {
	report func(string)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithReporter sets the channel receiving forwarded diagnostic lines.
func WithReporter(report func(string)) Option {
	return func(a *Adapter) {
		a.report = report
	}
}

// NewAdapter creates an execution adapter.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run invokes one generated item and classifies its result. Classification
// is terminal on the first applicable branch:
//
//   - invalid-input items whose invocation cannot generate satisfying
//     examples become skips, with no diagnostic output forwarded;
//   - otherwise every captured line is forwarded, even on success, then a
//     strategy-argument failure becomes a plain failure carrying the
//     original message;
//   - all other errors fail the item unchanged.
func (a *Adapter) Run(item *collect.Item) Outcome {
	lines, err := engine.CaptureOutput(item.Invoke)

	if item.InputType == schema.InputTypeInvalid && errors.Is(err, engine.ErrUnsatisfiable) {
		return Outcome{Status: Skipped, Reason: SkipReasonUnsatisfiable}
	}

	for _, line := range lines {
		if a.report != nil {
			a.report(line)
		}
	}

	var invalidArg *engine.InvalidArgumentError
	if errors.As(err, &invalidArg) {
		return Outcome{Status: Failed, Err: errors.New(invalidArg.Message), Output: lines}
	}
	if err != nil {
		return Outcome{Status: Failed, Err: err, Output: lines}
	}
	return Outcome{Status: Passed, Output: lines}
}
