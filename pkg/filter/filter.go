// Package filter selects operations with a small predicate expression
// language:
//
//	MethodIs("GET") && PathContains("/users")
//	HasTag("admin") || !PathStartsWith("/internal")
//
// Supported matchers: MethodIs, PathIs, PathContains, PathStartsWith,
// PathEndsWith, IDIs, HasTag. Operators: && (and), || (or), ! (not).
package filter

import (
	"fmt"
	"strings"

	"github.com/vulcand/predicate"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// Filter reports whether an operation is selected.
type Filter func(*schema.Operation) bool

// All selects every operation.
func All(*schema.Operation) bool { return true }

// Compile parses a predicate expression into a Filter.
func Compile(expr string) (Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return All, nil
	}

	parser, err := predicate.NewParser(predicate.Def{
		Functions: matcherFunctions(),
		Operators: predicate.Operators{
			AND: and,
			OR:  or,
			NOT: not,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create filter parser: %w", err)
	}

	parsed, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	f, ok := parsed.(Filter)
	if !ok {
		return nil, fmt.Errorf("filter must evaluate to a boolean, got %T", parsed)
	}
	return f, nil
}

func matcherFunctions() map[string]any {
	return map[string]any{
		"MethodIs": func(method string) Filter {
			return func(op *schema.Operation) bool {
				return strings.EqualFold(op.Method, method)
			}
		},
		"PathIs": func(path string) Filter {
			return func(op *schema.Operation) bool {
				return op.Path == path
			}
		},
		"PathContains": func(substr string) Filter {
			return func(op *schema.Operation) bool {
				return strings.Contains(strings.ToLower(op.Path), strings.ToLower(substr))
			}
		},
		"PathStartsWith": func(prefix string) Filter {
			return func(op *schema.Operation) bool {
				return strings.HasPrefix(strings.ToLower(op.Path), strings.ToLower(prefix))
			}
		},
		"PathEndsWith": func(suffix string) Filter {
			return func(op *schema.Operation) bool {
				return strings.HasSuffix(strings.ToLower(op.Path), strings.ToLower(suffix))
			}
		},
		"IDIs": func(id string) Filter {
			return func(op *schema.Operation) bool {
				return op.ID == id
			}
		},
		"HasTag": func(tag string) Filter {
			return func(op *schema.Operation) bool {
				for _, t := range op.Tags {
					if strings.EqualFold(t, tag) {
						return true
					}
				}
				return false
			}
		},
	}
}

func and(a, b Filter) Filter {
	return func(op *schema.Operation) bool {
		return a(op) && b(op)
	}
}

func or(a, b Filter) Filter {
	return func(op *schema.Operation) bool {
		return a(op) || b(op)
	}
}

func not(a Filter) Filter {
	return func(op *schema.Operation) bool {
		return !a(op)
	}
}

// Apply returns the operations selected by the filter, preserving order.
func Apply(operations []*schema.Operation, f Filter) []*schema.Operation {
	if f == nil {
		return operations
	}
	selected := make([]*schema.Operation, 0, len(operations))
	for _, op := range operations {
		if f(op) {
			selected = append(selected, op)
		}
	}
	return selected
}
