package engine

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/leanovate/gopter"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// caseType is used for empty generator results.
var caseType = reflect.TypeOf(&schema.Case{})

const (
	defaultMinInt = int64(math.MinInt32)
	defaultMaxInt = int64(math.MaxInt32)
	defaultMinNum = -1e6
	defaultMaxNum = 1e6

	// maxExtraLength bounds generated string and array sizes when the schema
	// leaves them open.
	maxExtraLength = 10
)

// validCaseGen builds a generator producing schema-conforming cases for the
// operation, or an *InvalidSchemaError when the operation cannot be
// represented.
func validCaseGen(op *schema.Operation) (gopter.Gen, error) {
	type paramGen struct {
		name string
		in   string
		gen  gopter.Gen
	}

	var params []paramGen
	for _, ref := range op.Parameters {
		if ref.Value == nil {
			return nil, &InvalidSchemaError{Method: op.Method, Path: op.Path, Reason: "unresolved parameter reference"}
		}
		p := ref.Value
		if p.Schema == nil || p.Schema.Value == nil {
			return nil, &InvalidSchemaError{
				Method: op.Method,
				Path:   op.Path,
				Reason: fmt.Sprintf("parameter %q has no schema", p.Name),
			}
		}
		g, err := schemaGen(op, p.Schema.Value)
		if err != nil {
			return nil, err
		}
		params = append(params, paramGen{name: p.Name, in: p.In, gen: g})
	}

	var bodyGen gopter.Gen
	if op.RequestBody != nil {
		if op.RequestBody.Value == nil {
			return nil, &InvalidSchemaError{Method: op.Method, Path: op.Path, Reason: "unresolved request body reference"}
		}
		bodySchema := jsonBodySchema(op.RequestBody.Value)
		if bodySchema == nil {
			return nil, &InvalidSchemaError{Method: op.Method, Path: op.Path, Reason: "request body has no usable schema"}
		}
		g, err := schemaGen(op, bodySchema)
		if err != nil {
			return nil, err
		}
		bodyGen = g
	}

	return func(gp *gopter.GenParameters) *gopter.GenResult {
		c := &schema.Case{
			Operation:  op,
			PathParams: map[string]any{},
			Query:      map[string]any{},
			Headers:    map[string]any{},
		}
		for _, p := range params {
			value, ok := p.gen(gp).Retrieve()
			if !ok {
				return gopter.NewEmptyResult(caseType)
			}
			switch p.in {
			case openapi3.ParameterInPath:
				c.PathParams[p.name] = value
			case openapi3.ParameterInHeader:
				c.Headers[p.name] = value
			default:
				c.Query[p.name] = value
			}
		}
		if bodyGen != nil {
			value, ok := bodyGen(gp).Retrieve()
			if !ok {
				return gopter.NewEmptyResult(caseType)
			}
			c.Body = value
		}
		return gopter.NewGenResult(c, gopter.NoShrinker)
	}, nil
}

// jsonBodySchema picks the schema of the first JSON-like media type; falls
// back to any media type carrying a schema.
func jsonBodySchema(body *openapi3.RequestBody) *openapi3.Schema {
	if media := body.Content.Get("application/json"); media != nil && media.Schema != nil {
		return media.Schema.Value
	}
	for _, media := range body.Content {
		if media.Schema != nil && media.Schema.Value != nil {
			return media.Schema.Value
		}
	}
	return nil
}

// schemaGen builds a generator for one OpenAPI schema.
func schemaGen(op *schema.Operation, s *openapi3.Schema) (gopter.Gen, error) {
	if len(s.Enum) > 0 {
		values := append([]any(nil), s.Enum...)
		return func(gp *gopter.GenParameters) *gopter.GenResult {
			return gopter.NewGenResult(values[gp.Rng.Intn(len(values))], gopter.NoShrinker)
		}, nil
	}
	if len(s.OneOf) > 0 {
		return variantGen(op, s.OneOf)
	}
	if len(s.AnyOf) > 0 {
		return variantGen(op, s.AnyOf)
	}
	if len(s.AllOf) > 0 {
		return nil, &InvalidSchemaError{Method: op.Method, Path: op.Path, Reason: "allOf schemas are not supported"}
	}

	switch {
	case s.Type.Is(openapi3.TypeString):
		return stringGen(s), nil
	case s.Type.Is(openapi3.TypeInteger):
		lo, hi := integerBounds(s)
		return func(gp *gopter.GenParameters) *gopter.GenResult {
			value := lo + gp.Rng.Int63n(hi-lo+1)
			return gopter.NewGenResult(value, gopter.NoShrinker)
		}, nil
	case s.Type.Is(openapi3.TypeNumber):
		lo, hi := numberBounds(s)
		return func(gp *gopter.GenParameters) *gopter.GenResult {
			value := lo + gp.Rng.Float64()*(hi-lo)
			return gopter.NewGenResult(value, gopter.NoShrinker)
		}, nil
	case s.Type.Is(openapi3.TypeBoolean):
		return func(gp *gopter.GenParameters) *gopter.GenResult {
			return gopter.NewGenResult(gp.Rng.Intn(2) == 0, gopter.NoShrinker)
		}, nil
	case s.Type.Is(openapi3.TypeArray):
		return arrayGen(op, s)
	case s.Type.Is(openapi3.TypeObject):
		return objectGen(op, s)
	case s.Type == nil || len(s.Type.Slice()) == 0:
		// Untyped schema: any scalar will do.
		return func(gp *gopter.GenParameters) *gopter.GenResult {
			switch gp.Rng.Intn(3) {
			case 0:
				return gopter.NewGenResult(randomString(gp, 1, maxExtraLength), gopter.NoShrinker)
			case 1:
				return gopter.NewGenResult(gp.Rng.Int63n(1000), gopter.NoShrinker)
			default:
				return gopter.NewGenResult(gp.Rng.Intn(2) == 0, gopter.NoShrinker)
			}
		}, nil
	default:
		return nil, &InvalidSchemaError{
			Method: op.Method,
			Path:   op.Path,
			Reason: fmt.Sprintf("unsupported schema type %v", s.Type.Slice()),
		}
	}
}

func variantGen(op *schema.Operation, refs openapi3.SchemaRefs) (gopter.Gen, error) {
	var gens []gopter.Gen
	for _, ref := range refs {
		if ref.Value == nil {
			return nil, &InvalidSchemaError{Method: op.Method, Path: op.Path, Reason: "unresolved schema variant reference"}
		}
		g, err := schemaGen(op, ref.Value)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return func(gp *gopter.GenParameters) *gopter.GenResult {
		return gens[gp.Rng.Intn(len(gens))](gp)
	}, nil
}

func stringGen(s *openapi3.Schema) gopter.Gen {
	minLen := int(s.MinLength)
	maxLen := minLen + maxExtraLength
	if s.MaxLength != nil {
		maxLen = int(*s.MaxLength)
	}
	return func(gp *gopter.GenParameters) *gopter.GenResult {
		return gopter.NewGenResult(randomString(gp, minLen, maxLen), gopter.NoShrinker)
	}
}

func arrayGen(op *schema.Operation, s *openapi3.Schema) (gopter.Gen, error) {
	if s.Items == nil || s.Items.Value == nil {
		return nil, &InvalidSchemaError{Method: op.Method, Path: op.Path, Reason: "array schema has no items"}
	}
	itemGen, err := schemaGen(op, s.Items.Value)
	if err != nil {
		return nil, err
	}
	minItems := int(s.MinItems)
	maxItems := minItems + maxExtraLength
	if s.MaxItems != nil {
		maxItems = int(*s.MaxItems)
	}
	return func(gp *gopter.GenParameters) *gopter.GenResult {
		size := minItems
		if maxItems > minItems {
			size += gp.Rng.Intn(maxItems - minItems + 1)
		}
		items := make([]any, 0, size)
		for i := 0; i < size; i++ {
			value, ok := itemGen(gp).Retrieve()
			if !ok {
				return gopter.NewEmptyResult(caseType)
			}
			items = append(items, value)
		}
		return gopter.NewGenResult(items, gopter.NoShrinker)
	}, nil
}

func objectGen(op *schema.Operation, s *openapi3.Schema) (gopter.Gen, error) {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	gens := make(map[string]gopter.Gen, len(names))
	for _, name := range names {
		ref := s.Properties[name]
		if ref.Value == nil {
			return nil, &InvalidSchemaError{
				Method: op.Method,
				Path:   op.Path,
				Reason: fmt.Sprintf("unresolved schema reference for property %q", name),
			}
		}
		g, err := schemaGen(op, ref.Value)
		if err != nil {
			return nil, err
		}
		gens[name] = g
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	return func(gp *gopter.GenParameters) *gopter.GenResult {
		object := make(map[string]any, len(names))
		for _, name := range names {
			// Optional properties are present roughly half the time.
			if !required[name] && gp.Rng.Intn(2) == 0 {
				continue
			}
			value, ok := gens[name](gp).Retrieve()
			if !ok {
				return gopter.NewEmptyResult(caseType)
			}
			object[name] = value
		}
		return gopter.NewGenResult(object, gopter.NoShrinker)
	}, nil
}

func integerBounds(s *openapi3.Schema) (int64, int64) {
	lo, hi := defaultMinInt, defaultMaxInt
	if s.Min != nil {
		lo = int64(*s.Min)
		if s.ExclusiveMin {
			lo++
		}
	}
	if s.Max != nil {
		hi = int64(*s.Max)
		if s.ExclusiveMax {
			hi--
		}
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func numberBounds(s *openapi3.Schema) (float64, float64) {
	lo, hi := defaultMinNum, defaultMaxNum
	if s.Min != nil {
		lo = *s.Min
	}
	if s.Max != nil {
		hi = *s.Max
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomString(gp *gopter.GenParameters, minLen, maxLen int) string {
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += gp.Rng.Intn(maxLen - minLen + 1)
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[gp.Rng.Intn(len(alphabet))]
	}
	return string(out)
}
