package engine

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vyachin/schemathesis/internal/proptest"
	"github.com/vyachin/schemathesis/internal/testutil"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// TestPropertyValidGenerationConforms checks that for any seed, every valid
// example generated for the user-creation operation satisfies the request
// body schema.
func TestPropertyValidGenerationConforms(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}

	op := operationByKey(t, testutil.MinimalSpec, "POST:/users")
	properties := gopter.NewProperties(proptest.FastTestParameters())

	properties.Property("generated bodies carry a non-empty name", prop.ForAll(
		func(seed int64) bool {
			run, err := New(WithMaxExamples(20), WithSeed(seed)).BuildRunnable(op,
				func(c *schema.Case, _ schema.Fixtures) error {
					body, ok := c.Body.(map[string]any)
					if !ok {
						return fmt.Errorf("body has type %T", c.Body)
					}
					name, ok := body["name"].(string)
					if !ok || len(name) < 1 {
						return fmt.Errorf("required name missing or empty: %v", body)
					}
					return nil
				}, schema.InputTypeValid)
			if err != nil {
				return false
			}
			return run(schema.Fixtures{}) == nil
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// TestPropertySeedDeterminism checks that two runnables built with the same
// seed generate identical example sequences.
func TestPropertySeedDeterminism(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}

	op := operationByKey(t, testutil.SingleOperationSpec, "GET:/ping")
	properties := gopter.NewProperties(proptest.FastTestParameters())

	properties.Property("same seed, same examples", prop.ForAll(
		func(seed int64) bool {
			collect := func() ([]string, error) {
				var rendered []string
				run, err := New(WithMaxExamples(10), WithSeed(seed)).BuildRunnable(op,
					func(c *schema.Case, _ schema.Fixtures) error {
						rendered = append(rendered, formatCase(c))
						return nil
					}, schema.InputTypeValid)
				if err != nil {
					return nil, err
				}
				return rendered, run(schema.Fixtures{})
			}

			first, err1 := collect()
			second, err2 := collect()
			if err1 != nil || err2 != nil || len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		gen.Int64().SuchThat(func(seed int64) bool { return seed != 0 }),
	))

	properties.TestingRun(t)
}
