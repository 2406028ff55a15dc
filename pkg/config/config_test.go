package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vyachin/schemathesis/pkg/schema"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
spec: https://api.example.com/openapi.json
base_url: http://localhost:8080
input_types: [valid, invalid]
filter: MethodIs("GET")
max_examples: 42
seed: 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Spec != "https://api.example.com/openapi.json" {
		t.Fatalf("Spec = %q", cfg.Spec)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if len(cfg.InputTypes) != 2 || cfg.InputTypes[1] != schema.InputTypeInvalid {
		t.Fatalf("InputTypes = %v", cfg.InputTypes)
	}
	if cfg.MaxExamples != 42 || cfg.Seed != 7 {
		t.Fatalf("MaxExamples = %d, Seed = %d", cfg.MaxExamples, cfg.Seed)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, "spec: ./openapi.yaml\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxExamples != 100 {
		t.Fatalf("MaxExamples default = %d", cfg.MaxExamples)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout default = %v", cfg.Timeout)
	}
	if len(cfg.InputTypes) != 1 || cfg.InputTypes[0] != schema.InputTypeValid {
		t.Fatalf("InputTypes default = %v", cfg.InputTypes)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalidYAML", content: "spec: [unclosed"},
		{name: "badInputType", content: "spec: a.yaml\ninput_types: [sideways]\n"},
		{name: "zeroMaxExamples", content: "spec: a.yaml\nmax_examples: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateEmptyInputTypes(t *testing.T) {
	cfg := Default()
	cfg.InputTypes = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty input types")
	}
}
