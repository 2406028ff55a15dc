package schema

import (
	"fmt"
	"net/url"
	"strings"
)

// Case is one concrete set of inputs generated for an operation. All values
// are produced by the property-based engine; user tests receive cases and
// decide what to do with them.
type Case struct {
	Operation  *Operation
	PathParams map[string]any
	Query      map[string]any
	Headers    map[string]any
	Body       any
}

// FormattedPath substitutes path parameters into the operation's path
// template. Missing parameters are an error: the engine is expected to
// generate a value for every templated segment.
func (c *Case) FormattedPath() (string, error) {
	path := c.Operation.Path
	for strings.Contains(path, "{") {
		start := strings.Index(path, "{")
		end := strings.Index(path[start:], "}")
		if end < 0 {
			return "", fmt.Errorf("unbalanced path template in %q", c.Operation.Path)
		}
		name := path[start+1 : start+end]
		value, ok := c.PathParams[name]
		if !ok {
			return "", fmt.Errorf("no value generated for path parameter %q", name)
		}
		path = path[:start] + url.PathEscape(fmt.Sprintf("%v", value)) + path[start+end+1:]
	}
	return path, nil
}

// QueryValues encodes the generated query parameters.
func (c *Case) QueryValues() url.Values {
	values := url.Values{}
	for name, value := range c.Query {
		values.Set(name, fmt.Sprintf("%v", value))
	}
	return values
}

func (c *Case) String() string {
	return fmt.Sprintf("Case(%s %s)", c.Operation.Method, c.Operation.Path)
}
