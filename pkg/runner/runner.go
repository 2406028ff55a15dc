// Package runner drives a full schema run outside of any test framework:
// it expands a bound test into items, executes them sequentially and emits
// an event stream suitable for console reporting and run history.
package runner

import (
	"context"
	"net/http"
	"time"

	"github.com/vyachin/schemathesis/pkg/collect"
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/execute"
	"github.com/vyachin/schemathesis/pkg/filter"
	"github.com/vyachin/schemathesis/pkg/fixtures"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// itemBaseName is the base of generated item names in standalone runs.
const itemBaseName = "test"

// Runner executes a schema run.
type Runner struct {
	schema     *schema.Schema
	engine     *engine.Engine
	inputTypes []schema.InputType
	filter     filter.Filter
	test       schema.TestFunc
	client     *http.Client
}

// Option configures a Runner.
type Option func(*Runner)

// WithEngine sets the property engine.
func WithEngine(eng *engine.Engine) Option {
	return func(r *Runner) { r.engine = eng }
}

// WithInputTypes sets the validity classes to run.
func WithInputTypes(types ...schema.InputType) Option {
	return func(r *Runner) { r.inputTypes = types }
}

// WithFilter restricts the run to operations selected by f.
func WithFilter(f filter.Filter) Option {
	return func(r *Runner) { r.filter = f }
}

// WithTestFunc replaces the default NotAServerError check.
func WithTestFunc(fn schema.TestFunc) Option {
	return func(r *Runner) { r.test = fn }
}

// WithHTTPClient sets the client used by the default check.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Runner) { r.client = client }
}

// New creates a runner for the schema.
func New(s *schema.Schema, opts ...Option) *Runner {
	r := &Runner{
		schema:     s,
		engine:     engine.New(),
		inputTypes: []schema.InputType{schema.InputTypeValid},
		filter:     filter.All,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.test == nil {
		r.test = NotAServerError(s.BaseURL(), r.client)
	}
	return r
}

// filteredCatalog narrows a catalog to operations selected by a filter.
type filteredCatalog struct {
	inner  schema.Catalog
	filter filter.Filter
}

func (fc *filteredCatalog) GetAllOperations() ([]*schema.Operation, error) {
	operations, err := fc.inner.GetAllOperations()
	if err != nil {
		return nil, err
	}
	return filter.Apply(operations, fc.filter), nil
}

// Execute runs every selected (operation, input type) item, emitting events
// along the way, and returns the accumulated results. Cancellation of ctx
// stops the run after the current item and emits Interrupted.
func (r *Runner) Execute(ctx context.Context, emit func(Event)) *ResultSet {
	if emit == nil {
		emit = func(Event) {}
	}
	start := time.Now()
	results := &ResultSet{StartedAt: start}

	catalog := &filteredCatalog{inner: r.schema, filter: r.filter}
	operations, err := catalog.GetAllOperations()
	if err != nil {
		emit(InternalError{Message: "failed to enumerate operations", Err: err})
		emit(Finished{Results: results, RunningTime: time.Since(start)})
		return results
	}

	emit(Initialized{
		OperationCount: len(operations),
		Location:       r.schema.Source(),
		BaseURL:        r.schema.BaseURL(),
		StartTime:      start,
	})

	bound := schema.BindCatalog(catalog, r.test, schema.WithInputTypes(r.inputTypes...))
	provider := fixtures.NewScope(fixtures.NewRegistry())
	collector := collect.NewCollector(itemBaseName, bound, provider, r.engine)
	adapter := execute.NewAdapter()

	for _, item := range collector.Collect() {
		if ctx.Err() != nil {
			emit(Interrupted{})
			break
		}

		before := BeforeExecution{Name: item.Name, InputType: item.InputType}
		if item.Operation != nil {
			before.Method = item.Operation.Method
			before.Path = item.Operation.Path
		}
		emit(before)

		itemStart := time.Now()
		out := adapter.Run(item)
		duration := time.Since(itemStart)

		after := AfterExecution{
			Name:      item.Name,
			Method:    before.Method,
			Path:      before.Path,
			InputType: item.InputType,
			Status:    out.Status,
			Reason:    out.Reason,
			Err:       out.Err,
			Output:    out.Output,
			Duration:  duration,
		}
		emit(after)

		results.Add(Result{
			Name:      item.Name,
			Method:    before.Method,
			Path:      before.Path,
			InputType: item.InputType,
			Status:    out.Status,
			Reason:    out.Reason,
			Err:       out.Err,
			Output:    out.Output,
			Duration:  duration,
		})
	}

	emit(Finished{Results: results, RunningTime: time.Since(start)})
	return results
}
