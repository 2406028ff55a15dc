package runner

import (
	"time"

	"github.com/vyachin/schemathesis/pkg/execute"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// Result is the recorded outcome of one generated item.
type Result struct {
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

// ResultSet accumulates the results of a run.
type ResultSet struct {
	Results   []Result
	StartedAt time.Time
}

// Add appends one result.
func (rs *ResultSet) Add(r Result) {
	rs.Results = append(rs.Results, r)
}

// Count returns the number of results with the given status.
func (rs *ResultSet) Count(status execute.Status) int {
	n := 0
	for _, r := range rs.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// PassedCount returns the number of passed items.
func (rs *ResultSet) PassedCount() int { return rs.Count(execute.Passed) }

// FailedCount returns the number of failed items.
func (rs *ResultSet) FailedCount() int { return rs.Count(execute.Failed) }

// SkippedCount returns the number of skipped items.
func (rs *ResultSet) SkippedCount() int { return rs.Count(execute.Skipped) }

// HasFailures reports whether any item failed.
func (rs *ResultSet) HasFailures() bool { return rs.FailedCount() > 0 }

// IsEmpty reports whether the run produced no items at all.
func (rs *ResultSet) IsEmpty() bool { return len(rs.Results) == 0 }
