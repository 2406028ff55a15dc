package schema

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const openAPI3Doc = `
openapi: "3.0.0"
info:
  title: Test API
  version: "1.0.0"
servers:
  - url: https://api.example.com/v1
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: Success
`

const swagger2Doc = `{
  "swagger": "2.0",
  "info": {"title": "Legacy API", "version": "1.0.0"},
  "paths": {
    "/pets": {
      "get": {
        "operationId": "listPets",
        "responses": {"200": {"description": "Success"}}
      }
    }
  }
}`

func TestFromData(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "openapi3", data: openAPI3Doc},
		{name: "swagger2", data: swagger2Doc},
		{name: "garbage", data: "not a spec at all {", wantErr: true},
		{name: "empty", data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromData([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("FromData failed: %v", err)
			}
			ops, err := s.GetAllOperations()
			if err != nil {
				t.Fatalf("GetAllOperations failed: %v", err)
			}
			if len(ops) != 1 || ops[0].ID != "listPets" {
				t.Fatalf("expected one listPets operation, got %v", ops)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte(openAPI3Doc), 0o644); err != nil {
		t.Fatalf("failed to write spec file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Source() != path {
		t.Fatalf("Source() = %q, want %q", s.Source(), path)
	}
}

func TestLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(openAPI3Doc))
	}))
	defer server.Close()

	s, err := Load(server.URL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.HasPrefix(s.Source(), server.URL) {
		t.Fatalf("Source() = %q, want prefix %q", s.Source(), server.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     string
	}{
		{name: "fromServers", want: "https://api.example.com/v1"},
		{name: "explicitOverride", override: "http://localhost:8080", want: "http://localhost:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.override != "" {
				opts = append(opts, WithBaseURL(tt.override))
			}
			s, err := FromData([]byte(openAPI3Doc), opts...)
			if err != nil {
				t.Fatalf("FromData failed: %v", err)
			}
			if got := s.BaseURL(); got != tt.want {
				t.Fatalf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
