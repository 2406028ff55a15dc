// Package testutil provides shared test helpers: a mock HTTP server and
// inline OpenAPI specifications.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// MockServer is an HTTP server with per-route handlers for testing the
// network check and runner.
type MockServer struct {
	*httptest.Server
	t        *testing.T
	handlers map[string]http.HandlerFunc
}

// NewMockServer creates a mock server. Unmatched requests return 404.
func NewMockServer(t *testing.T) *MockServer {
	m := &MockServer{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
	}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		if handler, ok := m.handlers[key]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}))
	t.Cleanup(m.Server.Close)

	return m
}

// On registers a handler for a specific method and path.
func (m *MockServer) On(method, path string, handler http.HandlerFunc) {
	m.handlers[method+" "+path] = handler
}

// OnStatus registers a handler returning a fixed status code.
func (m *MockServer) OnStatus(method, path string, statusCode int) {
	m.On(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
	})
}

// LoadSchema parses an inline specification, failing the test on error.
func LoadSchema(t *testing.T, spec string, opts ...schema.Option) *schema.Schema {
	t.Helper()
	s, err := schema.FromData([]byte(spec), opts...)
	if err != nil {
		t.Fatalf("failed to parse inline spec: %v", err)
	}
	return s
}

// MinimalSpec is a small OpenAPI 3.0 document with four operations across
// two paths, covering path parameters and a request body.
const MinimalSpec = `
openapi: "3.0.0"
info:
  title: Test API
  version: "1.0.0"
paths:
  /users:
    get:
      operationId: listUsers
      summary: List all users
      parameters:
        - name: limit
          in: query
          required: false
          schema:
            type: integer
            minimum: 1
            maximum: 100
      responses:
        "200":
          description: Success
    post:
      operationId: createUser
      summary: Create a user
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required:
                - name
              properties:
                name:
                  type: string
                  minLength: 1
                email:
                  type: string
      responses:
        "201":
          description: Created
  /users/{id}:
    get:
      operationId: getUser
      summary: Get a user by ID
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
            minLength: 1
      responses:
        "200":
          description: Success
    delete:
      operationId: deleteUser
      summary: Delete a user
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
            minLength: 1
      responses:
        "204":
          description: Deleted
`

// UnconstrainedSpec has a single operation whose only parameter carries no
// violable constraint, so no invalid input can be generated for it.
const UnconstrainedSpec = `
openapi: "3.0.0"
info:
  title: Unconstrained API
  version: "1.0.0"
paths:
  /items:
    get:
      operationId: listItems
      parameters:
        - name: q
          in: query
          required: false
          schema:
            type: string
      responses:
        "200":
          description: Success
`

// SingleOperationSpec has exactly one operation with one bounded integer
// parameter, convenient for counting-based assertions.
const SingleOperationSpec = `
openapi: "3.0.0"
info:
  title: Single API
  version: "1.0.0"
paths:
  /ping:
    get:
      operationId: ping
      parameters:
        - name: n
          in: query
          required: true
          schema:
            type: integer
            minimum: 0
            maximum: 10
      responses:
        "200":
          description: Success
`
