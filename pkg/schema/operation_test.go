package schema

import (
	"reflect"
	"testing"
)

const multiPathDoc = `
openapi: "3.0.0"
info:
  title: Ordering API
  version: "1.0.0"
paths:
  /b:
    post:
      operationId: postB
      responses:
        "200":
          description: Success
    get:
      operationId: getB
      responses:
        "200":
          description: Success
  /a:
    delete:
      operationId: deleteA
      responses:
        "200":
          description: Success
    get:
      operationId: getA
      responses:
        "200":
          description: Success
`

const sharedParameterDoc = `
openapi: "3.0.0"
info:
  title: Param API
  version: "1.0.0"
paths:
  /things/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
      - name: trace
        in: header
        required: false
        schema:
          type: string
    get:
      operationId: getThing
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: Success
`

func TestGetAllOperationsOrder(t *testing.T) {
	s, err := FromData([]byte(multiPathDoc))
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	ops, err := s.GetAllOperations()
	if err != nil {
		t.Fatalf("GetAllOperations failed: %v", err)
	}

	var keys []string
	for _, op := range ops {
		keys = append(keys, op.Key())
	}
	want := []string{"GET:/a", "DELETE:/a", "GET:/b", "POST:/b"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("operation order = %v, want %v", keys, want)
	}
}

func TestGetAllOperationsStable(t *testing.T) {
	s, err := FromData([]byte(multiPathDoc))
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	first, _ := s.GetAllOperations()
	second, _ := s.GetAllOperations()
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Fatalf("order differs at %d: %q vs %q", i, first[i].Key(), second[i].Key())
		}
	}
}

func TestMergeParameters(t *testing.T) {
	s, err := FromData([]byte(sharedParameterDoc))
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	ops, err := s.GetAllOperations()
	if err != nil {
		t.Fatalf("GetAllOperations failed: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected one operation, got %d", len(ops))
	}

	op := ops[0]
	if len(op.Parameters) != 2 {
		t.Fatalf("expected 2 merged parameters, got %d", len(op.Parameters))
	}
	// The operation-level id overrides the path-level one.
	for _, ref := range op.Parameters {
		p := ref.Value
		if p.Name == "id" && !p.Schema.Value.Type.Is("integer") {
			t.Fatalf("operation-level parameter should win, got type %v", p.Schema.Value.Type)
		}
	}
}

func TestOperationKey(t *testing.T) {
	op := &Operation{Method: "GET", Path: "/users/{id}"}
	if got := op.Key(); got != "GET:/users/{id}" {
		t.Fatalf("Key() = %q", got)
	}
}
