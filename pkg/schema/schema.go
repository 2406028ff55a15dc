// Package schema provides OpenAPI specification loading and the data model
// shared by the collection and execution layers: operations, generated cases,
// input types and specification-bound test functions.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// InputType tags whether generated inputs must conform to or deliberately
// violate an operation's schema.
type InputType string

const (
	// InputTypeValid generates inputs conforming to the operation's schema.
	InputTypeValid InputType = "valid"
	// InputTypeInvalid generates inputs deliberately violating the schema.
	InputTypeInvalid InputType = "invalid"
)

// Catalog yields the operations a bound test applies to.
//
// Schema is the canonical implementation; tests may substitute their own.
type Catalog interface {
	// GetAllOperations returns the operations in stable order. The order is
	// part of the contract: collection preserves it verbatim.
	GetAllOperations() ([]*Operation, error)
}

// Schema is a parsed OpenAPI specification ready for test expansion.
type Schema struct {
	doc     *openapi3.T
	source  string
	baseURL string
}

// Option configures schema loading.
type Option func(*loadConfig)

type loadConfig struct {
	client  *http.Client
	baseURL string
}

// WithHTTPClient sets the HTTP client used to fetch remote specifications.
func WithHTTPClient(client *http.Client) Option {
	return func(c *loadConfig) {
		c.client = client
	}
}

// WithBaseURL overrides the base URL used when executing generated cases.
func WithBaseURL(base string) Option {
	return func(c *loadConfig) {
		c.baseURL = base
	}
}

// Load reads an OpenAPI specification from a file path or URL. Swagger 2.0
// documents are converted to OpenAPI 3.x.
func Load(source string, opts ...Option) (*Schema, error) {
	cfg := &loadConfig{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var (
		data []byte
		err  error
	)
	if isURL(source) {
		data, err = fetch(cfg.client, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		return nil, err
	}

	doc, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load spec from %q: %w", source, err)
	}

	return &Schema{doc: doc, source: source, baseURL: cfg.baseURL}, nil
}

// FromData parses a specification held in memory.
func FromData(data []byte, opts ...Option) (*Schema, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	doc, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}
	return &Schema{doc: doc, baseURL: cfg.baseURL}, nil
}

// FromDocument wraps an already parsed OpenAPI document.
func FromDocument(doc *openapi3.T) *Schema {
	return &Schema{doc: doc}
}

// Document returns the underlying OpenAPI document.
func (s *Schema) Document() *openapi3.T {
	return s.doc
}

// Source returns the location the schema was loaded from, if any.
func (s *Schema) Source() string {
	return s.source
}

// BaseURL returns the effective base URL for executing cases: an explicit
// override if set, otherwise the first server entry of the document.
func (s *Schema) BaseURL() string {
	if s.baseURL != "" {
		return s.baseURL
	}
	if s.doc != nil && len(s.doc.Servers) > 0 {
		return s.doc.Servers[0].URL
	}
	return ""
}

func readFile(path string) ([]byte, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %q: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("spec file %q is empty", path)
	}
	return data, nil
}

func fetch(client *http.Client, specURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, specURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml, text/yaml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spec from %q: %w", specURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch spec from %q: HTTP %d", specURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("received empty response from %q", specURL)
	}
	return data, nil
}

// parse handles version detection and Swagger 2.0 conversion.
func parse(data []byte) (*openapi3.T, error) {
	if isSwagger(data) {
		return parseSwagger(data)
	}
	doc, err := parseOpenAPI3(data)
	if err == nil {
		return doc, nil
	}
	if swaggerDoc, swaggerErr := parseSwagger(data); swaggerErr == nil {
		return swaggerDoc, nil
	}
	return nil, err
}

func parseOpenAPI3(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 3.x spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("OpenAPI 3.x validation failed: %w", err)
	}
	return doc, nil
}

func parseSwagger(data []byte) (*openapi3.T, error) {
	var swagger openapi2.T
	if err := json.Unmarshal(data, &swagger); err != nil {
		return nil, fmt.Errorf("failed to parse Swagger 2.0 spec: %w", err)
	}
	doc, err := openapi2conv.ToV3(&swagger)
	if err != nil {
		return nil, fmt.Errorf("failed to convert Swagger 2.0 to OpenAPI 3.0: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("converted OpenAPI 3.0 validation failed: %w", err)
	}
	return doc, nil
}

func isSwagger(data []byte) bool {
	content := string(data)
	return strings.Contains(content, `"swagger"`) || strings.Contains(content, "swagger:")
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
