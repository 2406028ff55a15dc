package collect_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/vyachin/schemathesis/internal/proptest"
	"github.com/vyachin/schemathesis/pkg/collect"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// TestPropertyNameStructure checks that generated item names always embed
// the validity tag and the operation identity, for arbitrary base names and
// operations.
func TestPropertyNameStructure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property test in short mode")
	}

	properties := gopter.NewProperties(proptest.TestParameters())

	properties.Property("name embeds validity and operation identity", prop.ForAll(
		func(base, method, path string) bool {
			op := &schema.Operation{Method: method, Path: path}
			name := collect.Name(base, schema.InputTypeValid, op)
			return strings.HasPrefix(name, base) &&
				strings.Contains(name, "[valid_input]") &&
				strings.HasSuffix(name, "["+method+":"+path+"]")
		},
		proptest.BaseName(),
		proptest.Method(),
		proptest.Path(),
	))

	properties.Property("names are deterministic", prop.ForAll(
		func(base, method, path string) bool {
			op := &schema.Operation{Method: method, Path: path}
			return collect.Name(base, schema.InputTypeInvalid, op) ==
				collect.Name(base, schema.InputTypeInvalid, op)
		},
		proptest.BaseName(),
		proptest.Method(),
		proptest.Path(),
	))

	properties.TestingRun(t)
}
