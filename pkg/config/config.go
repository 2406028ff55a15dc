// Package config provides run configuration for the CLI: where the schema
// lives, what to generate and how to authenticate.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// DefaultFileName is the configuration file looked up in the working
// directory when no explicit path is given.
const DefaultFileName = "schemathesis.yaml"

// RunConfig configures one schema run.
type RunConfig struct {
	// Spec is the path or URL of the OpenAPI specification.
	Spec string `yaml:"spec"`

	// BaseURL overrides the base URL used to execute generated cases.
	BaseURL string `yaml:"base_url,omitempty"`

	// InputTypes lists the validity classes to run. Defaults to ["valid"].
	InputTypes []schema.InputType `yaml:"input_types,omitempty"`

	// Filter is a predicate expression selecting operations, for example
	// `MethodIs("GET") && PathContains("/users")`.
	Filter string `yaml:"filter,omitempty"`

	// MaxExamples is the number of generated examples per item.
	MaxExamples int `yaml:"max_examples,omitempty"`

	// Seed fixes the random source for reproducible runs. Zero means a
	// fresh seed per run.
	Seed int64 `yaml:"seed,omitempty"`

	// Timeout caps individual request durations of the default check.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Auth names a credential stored for the target host; empty disables
	// authentication.
	Auth string `yaml:"auth,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *RunConfig {
	return &RunConfig{
		InputTypes:  []schema.InputType{schema.InputTypeValid},
		MaxExamples: 100,
		Timeout:     10 * time.Second,
	}
}

// Load reads a run configuration from a YAML file and fills in defaults.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *RunConfig) Validate() error {
	if c.MaxExamples < 1 {
		return fmt.Errorf("max_examples must be at least 1, got %d", c.MaxExamples)
	}
	for _, inputType := range c.InputTypes {
		switch inputType {
		case schema.InputTypeValid, schema.InputTypeInvalid:
		default:
			return fmt.Errorf("unknown input type %q", inputType)
		}
	}
	if len(c.InputTypes) == 0 {
		return fmt.Errorf("input_types must not be empty")
	}
	return nil
}
