package codegen

import (
	"fmt"
	"net/http"
	"strings"
)

// pythonGenerator renders a case as a requests-based Python snippet.
type pythonGenerator struct {
	opts Options
}

func (g *pythonGenerator) Generate(req *http.Request, body []byte) (string, error) {
	var sb strings.Builder

	sb.WriteString("import requests\n\n")

	headers := maskHeaders(req.Header, g.opts.MaskSecrets)
	if len(headers) > 0 {
		sb.WriteString("headers = {\n")
		for _, name := range headerNames(headers) {
			for _, value := range headers[name] {
				fmt.Fprintf(&sb, "    %s: %s,\n", pythonString(name), pythonString(value))
			}
		}
		sb.WriteString("}\n\n")
	}

	if len(body) > 0 {
		fmt.Fprintf(&sb, "data = %s\n\n", pythonString(string(body)))
	}

	fmt.Fprintf(&sb, "response = requests.%s(%s", strings.ToLower(req.Method), pythonString(req.URL.String()))
	if len(headers) > 0 {
		sb.WriteString(", headers=headers")
	}
	if len(body) > 0 {
		sb.WriteString(", data=data")
	}
	sb.WriteString(")\n")
	sb.WriteString("print(response.text)\n")

	return sb.String(), nil
}

func pythonString(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
