package filter

import (
	"testing"

	"github.com/vyachin/schemathesis/pkg/schema"
)

var operations = []*schema.Operation{
	{Method: "GET", Path: "/users", ID: "listUsers", Tags: []string{"users"}},
	{Method: "POST", Path: "/users", ID: "createUser", Tags: []string{"users", "admin"}},
	{Method: "GET", Path: "/internal/health", ID: "health"},
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantIDs []string
		wantErr bool
	}{
		{
			name:    "empty selects all",
			expr:    "",
			wantIDs: []string{"listUsers", "createUser", "health"},
		},
		{
			name:    "methodIs",
			expr:    `MethodIs("get")`,
			wantIDs: []string{"listUsers", "health"},
		},
		{
			name:    "andCombination",
			expr:    `MethodIs("GET") && PathContains("/users")`,
			wantIDs: []string{"listUsers"},
		},
		{
			name:    "orCombination",
			expr:    `IDIs("health") || HasTag("admin")`,
			wantIDs: []string{"createUser", "health"},
		},
		{
			name:    "negation",
			expr:    `!PathStartsWith("/internal")`,
			wantIDs: []string{"listUsers", "createUser"},
		},
		{
			name:    "pathEndsWith",
			expr:    `PathEndsWith("health")`,
			wantIDs: []string{"health"},
		},
		{
			name:    "malformed",
			expr:    `MethodIs(`,
			wantErr: true,
		},
		{
			name:    "unknownMatcher",
			expr:    `BodyIs("x")`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}

			var ids []string
			for _, op := range Apply(operations, f) {
				ids = append(ids, op.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("selected %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("selected %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestApplyNilFilter(t *testing.T) {
	if got := Apply(operations, nil); len(got) != len(operations) {
		t.Fatalf("nil filter should select everything, got %d", len(got))
	}
}
