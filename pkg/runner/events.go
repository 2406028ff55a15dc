package runner

import (
	"time"

	"github.com/vyachin/schemathesis/pkg/execute"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// Event is one step of a run's execution stream. A well-formed stream starts
// with Initialized, pairs every BeforeExecution with an AfterExecution, and
// ends with exactly one Finished.
type Event interface {
	event()
}

// Initialized is emitted once the runner is set up and the schema is loaded.
type Initialized struct {
	// OperationCount is the number of operations selected for this run.
	OperationCount int
	Location       string
	BaseURL        string
	StartTime      time.Time
}

// BeforeExecution is emitted before each generated item. A single item may
// exercise many generated examples internally.
type BeforeExecution struct {
	Name      string
	Method    string
	Path      string
	InputType schema.InputType
}

// AfterExecution is emitted after each generated item, carrying its outcome
// and the engine's captured diagnostic output.
type AfterExecution struct {
	Name      string
	Method    string
	Path      string
	InputType schema.InputType
	Status    execute.Status
	Reason    string
	Err       error
	Output    []string
	Duration  time.Duration
}

// Interrupted is emitted when the run is cancelled before completing.
type Interrupted struct{}

// InternalError reports an error inside the runner itself, as opposed to a
// test failure.
type InternalError struct {
	Message string
	Err     error
}

// Finished is the final event of the run. No events follow it.
type Finished struct {
	Results     *ResultSet
	RunningTime time.Duration
}

func (Initialized) event()     {}
func (BeforeExecution) event() {}
func (AfterExecution) event()  {}
func (Interrupted) event()     {}
func (InternalError) event()   {}
func (Finished) event()        {}
