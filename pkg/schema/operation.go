package schema

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// methodOrder fixes the iteration order of HTTP methods within a path item
// so that repeated collection runs produce identical sequences.
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// Operation is one addressable unit of the target API. Identity is
// (Method, Path); the catalog guarantees that pair is unique.
type Operation struct {
	Method      string
	Path        string
	ID          string
	Summary     string
	Tags        []string
	Parameters  openapi3.Parameters
	RequestBody *openapi3.RequestBodyRef

	// Definition is the raw OpenAPI operation, kept for collaborators that
	// need details beyond the extracted fields.
	Definition *openapi3.Operation
}

// Key returns the canonical "METHOD:/path" identity of the operation.
func (o *Operation) Key() string {
	return o.Method + ":" + o.Path
}

// GetAllOperations extracts every operation from the document. Paths are
// visited in lexical order and methods in a fixed order, so the sequence is
// stable across runs with the same document.
func (s *Schema) GetAllOperations() ([]*Operation, error) {
	if s.doc == nil || s.doc.Paths == nil {
		return nil, nil
	}

	paths := make([]string, 0, s.doc.Paths.Len())
	for path := range s.doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var operations []*Operation
	for _, path := range paths {
		pathItem := s.doc.Paths.Find(path)
		if pathItem == nil {
			continue
		}
		byMethod := map[string]*openapi3.Operation{
			"GET":     pathItem.Get,
			"POST":    pathItem.Post,
			"PUT":     pathItem.Put,
			"PATCH":   pathItem.Patch,
			"DELETE":  pathItem.Delete,
			"HEAD":    pathItem.Head,
			"OPTIONS": pathItem.Options,
		}
		for _, method := range methodOrder {
			op := byMethod[method]
			if op == nil {
				continue
			}
			operations = append(operations, &Operation{
				Method:      method,
				Path:        path,
				ID:          op.OperationID,
				Summary:     op.Summary,
				Tags:        op.Tags,
				Parameters:  mergeParameters(pathItem.Parameters, op.Parameters),
				RequestBody: op.RequestBody,
				Definition:  op,
			})
		}
	}
	return operations, nil
}

// mergeParameters combines path-item level parameters with operation level
// ones. Operation parameters override path-item parameters with the same
// (name, location) pair.
func mergeParameters(pathLevel, opLevel openapi3.Parameters) openapi3.Parameters {
	if len(pathLevel) == 0 {
		return opLevel
	}
	merged := make(openapi3.Parameters, 0, len(pathLevel)+len(opLevel))
	merged = append(merged, opLevel...)
	for _, ref := range pathLevel {
		if ref.Value == nil || !hasParameter(opLevel, ref.Value.Name, ref.Value.In) {
			merged = append(merged, ref)
		}
	}
	return merged
}

func hasParameter(params openapi3.Parameters, name, in string) bool {
	for _, ref := range params {
		if ref.Value != nil && ref.Value.Name == name && ref.Value.In == in {
			return true
		}
	}
	return false
}
