// Package codegen renders generated cases as runnable code samples so a
// failing example can be reproduced outside the test run.
package codegen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/vyachin/schemathesis/pkg/request"
	"github.com/vyachin/schemathesis/pkg/schema"
)

// Style is the target language of a code sample.
type Style string

const (
	StyleCurl   Style = "curl"
	StylePython Style = "python"
)

// Options configures sample rendering.
type Options struct {
	// MaskSecrets replaces credential header values with placeholders so
	// samples are safe to paste into bug reports.
	MaskSecrets bool
}

// Generator renders a code sample from a built HTTP request.
type Generator interface {
	Generate(req *http.Request, body []byte) (string, error)
}

// New returns the generator for a style.
func New(style Style, opts Options) (Generator, error) {
	switch style {
	case StyleCurl:
		return &curlGenerator{opts: opts}, nil
	case StylePython:
		return &pythonGenerator{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported code sample style: %s", style)
	}
}

// Styles lists the supported sample styles.
func Styles() []string {
	return []string{string(StyleCurl), string(StylePython)}
}

// Sample builds the HTTP request for a case and renders it in the given
// style. This is the high-level entry point used for failure reporting.
func Sample(style Style, baseURL string, c *schema.Case, opts Options) (string, error) {
	gen, err := New(style, opts)
	if err != nil {
		return "", err
	}
	req, err := request.NewBuilder(baseURL).Build(context.Background(), c)
	if err != nil {
		return "", fmt.Errorf("failed to build request for code sample: %w", err)
	}
	var body []byte
	if c.Body != nil {
		body, err = encodeBody(c)
		if err != nil {
			return "", err
		}
	}
	return gen.Generate(req, body)
}

// sensitiveHeaders lists headers whose values carry credentials.
var sensitiveHeaders = []string{
	"Authorization",
	"X-API-Key",
	"X-Auth-Token",
	"X-Access-Token",
	"Api-Key",
	"Access-Token",
}

// maskHeaders returns a copy of headers with credential values replaced by
// placeholders when masking is enabled.
func maskHeaders(headers http.Header, mask bool) http.Header {
	masked := headers.Clone()
	if masked == nil {
		masked = http.Header{}
	}
	if !mask {
		return masked
	}
	for name := range masked {
		if !isSensitiveHeader(name) {
			continue
		}
		masked.Set(name, maskValue(masked.Get(name)))
	}
	return masked
}

func isSensitiveHeader(name string) bool {
	for _, candidate := range sensitiveHeaders {
		if strings.EqualFold(name, candidate) {
			return true
		}
	}
	return false
}

func maskValue(value string) string {
	switch {
	case strings.HasPrefix(value, "Bearer "):
		return "Bearer <YOUR_TOKEN>"
	case strings.HasPrefix(value, "Basic "):
		return "Basic <YOUR_CREDENTIALS>"
	default:
		return "<YOUR_API_KEY>"
	}
}

func encodeBody(c *schema.Case) ([]byte, error) {
	payload, err := json.Marshal(c.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return payload, nil
}

// headerNames returns header names in a stable order.
func headerNames(headers http.Header) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
