package engine

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/leanovate/gopter"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// A mutator turns one schema-conforming case into a violating one. Invalid
// input generation picks a single mutator per example, so every generated
// case violates the schema in exactly one known way.
type mutator struct {
	describe string
	apply    func(c *schema.Case, gp *gopter.GenParameters)
}

// invalidCaseGen wraps the valid generator with single-point mutations. The
// boolean result reports satisfiability: an operation whose schemas carry no
// violable constraint yields no mutators, and no invalid case can exist.
func invalidCaseGen(op *schema.Operation) (gopter.Gen, bool, error) {
	valid, err := validCaseGen(op)
	if err != nil {
		return nil, false, err
	}

	mutators, err := operationMutators(op)
	if err != nil {
		return nil, false, err
	}
	if len(mutators) == 0 {
		return nil, false, nil
	}

	g := func(gp *gopter.GenParameters) *gopter.GenResult {
		value, ok := valid(gp).Retrieve()
		if !ok {
			return gopter.NewEmptyResult(caseType)
		}
		c := value.(*schema.Case)
		m := mutators[gp.Rng.Intn(len(mutators))]
		m.apply(c, gp)
		return gopter.NewGenResult(c, gopter.NoShrinker)
	}
	return g, true, nil
}

func operationMutators(op *schema.Operation) ([]mutator, error) {
	var mutators []mutator

	for _, ref := range op.Parameters {
		p := ref.Value
		setter := parameterSetter(p.In, p.Name)

		for _, vg := range constraintViolations(p.Schema.Value) {
			vg := vg
			mutators = append(mutators, mutator{
				describe: fmt.Sprintf("violate constraint of parameter %q", p.Name),
				apply: func(c *schema.Case, gp *gopter.GenParameters) {
					setter(c, vg(gp))
				},
			})
		}

		// Required non-path parameters can be dropped outright. Path
		// parameters stay: the path template is not addressable without them.
		if p.Required && p.In != openapi3.ParameterInPath {
			name, in := p.Name, p.In
			mutators = append(mutators, mutator{
				describe: fmt.Sprintf("drop required parameter %q", name),
				apply: func(c *schema.Case, _ *gopter.GenParameters) {
					if in == openapi3.ParameterInHeader {
						delete(c.Headers, name)
					} else {
						delete(c.Query, name)
					}
				},
			})
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if bodySchema := jsonBodySchema(op.RequestBody.Value); bodySchema != nil {
			for _, vg := range constraintViolations(bodySchema) {
				vg := vg
				mutators = append(mutators, mutator{
					describe: "violate request body constraint",
					apply: func(c *schema.Case, gp *gopter.GenParameters) {
						c.Body = vg(gp)
					},
				})
			}
			for _, name := range bodySchema.Required {
				name := name
				mutators = append(mutators, mutator{
					describe: fmt.Sprintf("drop required body property %q", name),
					apply: func(c *schema.Case, _ *gopter.GenParameters) {
						if object, ok := c.Body.(map[string]any); ok {
							delete(object, name)
						}
					},
				})
			}
		}
	}

	return mutators, nil
}

func parameterSetter(in, name string) func(*schema.Case, any) {
	switch in {
	case openapi3.ParameterInPath:
		return func(c *schema.Case, v any) { c.PathParams[name] = v }
	case openapi3.ParameterInHeader:
		return func(c *schema.Case, v any) { c.Headers[name] = v }
	default:
		return func(c *schema.Case, v any) { c.Query[name] = v }
	}
}

// constraintViolations returns one generator per violable constraint of the
// schema. An unconstrained schema returns none: with nothing to violate,
// every conforming value is also the only kind of value there is.
func constraintViolations(s *openapi3.Schema) []func(*gopter.GenParameters) any {
	if s == nil {
		return nil
	}
	var violations []func(*gopter.GenParameters) any

	if len(s.Enum) > 0 {
		violations = append(violations, func(gp *gopter.GenParameters) any {
			return "not-in-enum-" + randomString(gp, 4, 8)
		})
	}

	if s.Type.Is(openapi3.TypeString) {
		if s.MinLength > 0 {
			minLen := int(s.MinLength)
			violations = append(violations, func(gp *gopter.GenParameters) any {
				return randomString(gp, 0, minLen-1)
			})
		}
		if s.MaxLength != nil {
			maxLen := int(*s.MaxLength)
			violations = append(violations, func(gp *gopter.GenParameters) any {
				return randomString(gp, maxLen+1, maxLen+maxExtraLength)
			})
		}
	}

	if s.Type.Is(openapi3.TypeInteger) || s.Type.Is(openapi3.TypeNumber) {
		if s.Min != nil {
			lo := *s.Min
			violations = append(violations, func(gp *gopter.GenParameters) any {
				return lo - 1 - gp.Rng.Float64()*1000
			})
		}
		if s.Max != nil {
			hi := *s.Max
			violations = append(violations, func(gp *gopter.GenParameters) any {
				return hi + 1 + gp.Rng.Float64()*1000
			})
		}
	}

	return violations
}
