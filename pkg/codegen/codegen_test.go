package codegen

import (
	"strings"
	"testing"

	"github.com/vyachin/schemathesis/pkg/schema"
)

func sampleCase() *schema.Case {
	return &schema.Case{
		Operation:  &schema.Operation{Method: "POST", Path: "/users/{id}"},
		PathParams: map[string]any{"id": 7},
		Query:      map[string]any{"dry_run": true},
		Headers:    map[string]any{"Authorization": "Bearer secret-token-value"},
		Body:       map[string]any{"name": "alice"},
	}
}

func TestSampleCurl(t *testing.T) {
	out, err := Sample(StyleCurl, "http://localhost:8080", sampleCase(), Options{})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	for _, want := range []string{
		"curl -X POST",
		"http://localhost:8080/users/7?dry_run=true",
		"-H 'Authorization: Bearer secret-token-value'",
		`-d '{"name":"alice"}'`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("sample missing %q:\n%s", want, out)
		}
	}
}

func TestSamplePython(t *testing.T) {
	out, err := Sample(StylePython, "http://localhost:8080", sampleCase(), Options{})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	for _, want := range []string{
		"import requests",
		"requests.post('http://localhost:8080/users/7?dry_run=true'",
		"headers=headers",
		"data=data",
		"print(response.text)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("sample missing %q:\n%s", want, out)
		}
	}
}

func TestSampleMasksSecrets(t *testing.T) {
	out, err := Sample(StyleCurl, "http://localhost:8080", sampleCase(), Options{MaskSecrets: true})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if strings.Contains(out, "secret-token-value") {
		t.Fatalf("token leaked into sample:\n%s", out)
	}
	if !strings.Contains(out, "Bearer <YOUR_TOKEN>") {
		t.Fatalf("placeholder missing:\n%s", out)
	}
}

func TestSampleUnsupportedStyle(t *testing.T) {
	if _, err := Sample(Style("rust"), "http://x", sampleCase(), Options{}); err == nil {
		t.Fatal("expected error for unsupported style")
	}
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"Bearer abc123", "Bearer <YOUR_TOKEN>"},
		{"Basic dXNlcjpwYXNz", "Basic <YOUR_CREDENTIALS>"},
		{"raw-api-key-value", "<YOUR_API_KEY>"},
	}
	for _, tt := range tests {
		if got := maskValue(tt.value); got != tt.want {
			t.Fatalf("maskValue(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestStyles(t *testing.T) {
	styles := Styles()
	if len(styles) != 2 {
		t.Fatalf("styles = %v", styles)
	}
	for _, style := range styles {
		if _, err := New(Style(style), Options{}); err != nil {
			t.Fatalf("advertised style %q not constructible: %v", style, err)
		}
	}
}
