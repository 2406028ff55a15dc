// Package request turns generated cases into HTTP requests.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vyachin/schemathesis/pkg/schema"
)

// Builder constructs HTTP requests from generated cases.
type Builder struct {
	baseURL string
	headers map[string]string
}

// Option configures a Builder.
type Option func(*Builder)

// WithHeader adds a header to every built request. Case headers take
// precedence over builder headers of the same name.
func WithHeader(name, value string) Option {
	return func(b *Builder) {
		b.headers[name] = value
	}
}

// NewBuilder creates a builder targeting baseURL.
func NewBuilder(baseURL string, opts ...Option) *Builder {
	b := &Builder{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs the HTTP request for one generated case: path parameters
// substituted into the template, query and headers applied, and the body
// encoded as JSON.
func (b *Builder) Build(ctx context.Context, c *schema.Case) (*http.Request, error) {
	path, err := c.FormattedPath()
	if err != nil {
		return nil, err
	}

	target := b.baseURL + path
	if query := c.QueryValues().Encode(); query != "" {
		target += "?" + query
	}

	var body *bytes.Reader
	if c.Body != nil {
		payload, err := json.Marshal(c.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, c.Operation.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range b.headers {
		req.Header.Set(name, value)
	}
	for name, value := range c.Headers {
		req.Header.Set(name, fmt.Sprintf("%v", value))
	}
	return req, nil
}
