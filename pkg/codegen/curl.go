package codegen

import (
	"net/http"
	"strings"
)

// curlGenerator renders a case as a single curl command.
type curlGenerator struct {
	opts Options
}

func (g *curlGenerator) Generate(req *http.Request, body []byte) (string, error) {
	var sb strings.Builder

	sb.WriteString("curl -X ")
	sb.WriteString(req.Method)
	sb.WriteString(" '")
	sb.WriteString(req.URL.String())
	sb.WriteString("'")

	headers := maskHeaders(req.Header, g.opts.MaskSecrets)
	for _, name := range headerNames(headers) {
		for _, value := range headers[name] {
			sb.WriteString(" \\\n  -H '")
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteString("'")
		}
	}

	if len(body) > 0 {
		sb.WriteString(" \\\n  -d '")
		sb.WriteString(strings.ReplaceAll(string(body), "'", `'\''`))
		sb.WriteString("'")
	}

	return sb.String(), nil
}
