// Package integration exercises the full pipeline end to end: schema loading,
// collection, generation and execution against a live HTTP server.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/vyachin/schemathesis/internal/testutil"
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/execute"
	"github.com/vyachin/schemathesis/pkg/harness"
	"github.com/vyachin/schemathesis/pkg/runner"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// installUserRoutes wires handlers for every MinimalSpec operation.
func installUserRoutes(server *testutil.MockServer) {
	server.On("GET", "/users", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	})
	server.On("POST", "/users", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
}

func TestHarnessAgainstLiveServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := testutil.NewMockServer(t)
	installUserRoutes(server)

	s := testutil.LoadSchema(t, testutil.MinimalSpec, schema.WithBaseURL(server.URL))
	check := runner.NotAServerError(server.URL, http.DefaultClient)

	var (
		mu       sync.Mutex
		statuses = map[string]int{}
	)
	bound := s.Bind(func(c *schema.Case, fx schema.Fixtures) error {
		mu.Lock()
		statuses[c.Operation.Key()]++
		mu.Unlock()
		return check(c, fx)
	}, schema.WithInputTypes(schema.InputTypeValid, schema.InputTypeInvalid))

	harness.Run(t, bound, harness.WithEngine(engine.New(engine.WithMaxExamples(5))))

	// Every operation ran for both input types: nothing in MinimalSpec is
	// unsatisfiable, so 4 operations x 2 classes x 5 examples.
	mu.Lock()
	defer mu.Unlock()
	if len(statuses) != 4 {
		t.Fatalf("operations exercised = %v", statuses)
	}
	for key, count := range statuses {
		if count != 10 {
			t.Fatalf("operation %s ran %d times, want 10", key, count)
		}
	}
}

func TestRunnerDetectsServerErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := testutil.NewMockServer(t)
	installUserRoutes(server)
	// One operation misbehaves.
	server.OnStatus("GET", "/users", http.StatusInternalServerError)

	s := testutil.LoadSchema(t, testutil.MinimalSpec, schema.WithBaseURL(server.URL))
	r := runner.New(s,
		runner.WithEngine(engine.New(engine.WithMaxExamples(3))),
		runner.WithInputTypes(schema.InputTypeValid))

	results := r.Execute(context.Background(), nil)

	if results.FailedCount() != 1 {
		t.Fatalf("failed count = %d, want 1", results.FailedCount())
	}
	var failed runner.Result
	for _, result := range results.Results {
		if result.Status == execute.Failed {
			failed = result
		}
	}
	if failed.Method != "GET" || failed.Path != "/users" {
		t.Fatalf("wrong failing operation: %+v", failed)
	}
	if !strings.Contains(failed.Err.Error(), "returned 500") {
		t.Fatalf("failure error = %v", failed.Err)
	}
}

func TestRunnerRecordsAllOutcomes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := testutil.NewMockServer(t)
	server.On("GET", "/items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := testutil.LoadSchema(t, testutil.UnconstrainedSpec, schema.WithBaseURL(server.URL))
	r := runner.New(s,
		runner.WithEngine(engine.New(engine.WithMaxExamples(3))),
		runner.WithInputTypes(schema.InputTypeValid, schema.InputTypeInvalid))

	results := r.Execute(context.Background(), nil)

	// The valid class passes; the invalid class has nothing to violate and
	// is skipped.
	if results.PassedCount() != 1 || results.SkippedCount() != 1 || results.FailedCount() != 0 {
		t.Fatalf("passed/skipped/failed = %d/%d/%d",
			results.PassedCount(), results.SkippedCount(), results.FailedCount())
	}
}
