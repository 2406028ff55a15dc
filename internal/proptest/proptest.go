// Package proptest provides property-based testing infrastructure and
// generators shared across the test suites.
package proptest

import (
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

// TestParameters returns the standard parameters for property tests.
func TestParameters() *gopter.TestParameters {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	return params
}

// FastTestParameters returns reduced-iteration parameters for property tests
// that perform real work per example.
func FastTestParameters() *gopter.TestParameters {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 25
	return params
}

// Method generates HTTP method names.
func Method() gopter.Gen {
	return gen.OneConstOf("GET", "POST", "PUT", "PATCH", "DELETE")
}

// Path generates API path templates like "/aBc/{dEf}".
func Path() gopter.Gen {
	return gen.SliceOfN(2, gen.Identifier()).Map(func(segments []string) string {
		return "/" + segments[0] + "/{" + segments[1] + "}"
	})
}

// BaseName generates plausible test base names.
func BaseName() gopter.Gen {
	return gen.Identifier()
}
