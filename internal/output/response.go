package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Formatter renders an HTTP response for the terminal.
type Formatter struct {
	Colorize   bool
	FormatJSON bool
}

func NewFormatter(colorize, formatJSON bool) *Formatter {
	return &Formatter{Colorize: colorize, FormatJSON: formatJSON}
}

func (f *Formatter) FormatStatusLine(proto string, statusCode int) string {
	statusText := http.StatusText(statusCode)
	if statusText == "" {
		statusText = "Unknown"
	}
	statusStr := fmt.Sprintf("%d %s", statusCode, statusText)
	if !f.Colorize {
		return fmt.Sprintf("%s %s", proto, statusStr)
	}
	var colored string
	switch {
	case statusCode >= 200 && statusCode < 300:
		colored = FSuccess(statusStr)
	case statusCode >= 400 && statusCode < 500:
		colored = FWarning(statusStr)
	case statusCode >= 500:
		colored = FError(statusStr)
	default:
		colored = statusStr
	}
	return fmt.Sprintf("%s %s", FPending(proto), colored)
}

func (f *Formatter) FormatHeaders(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		for _, value := range headers[name] {
			line := fmt.Sprintf("%s: %s", name, value)
			if f.Colorize {
				line = FInfo(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatBody pretty-prints JSON bodies when enabled; anything else passes
// through untouched. JSON is detected from the content type, falling back
// to sniffing the first byte.
func (f *Formatter) FormatBody(content []byte, contentType string) string {
	if !f.FormatJSON {
		return string(content)
	}
	looksJSON := strings.Contains(contentType, "json")
	if !looksJSON {
		trimmed := bytes.TrimLeft(content, " \t\r\n")
		looksJSON = len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
	}
	if !looksJSON {
		return string(content)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, content, "", "  "); err != nil {
		return string(content)
	}
	return pretty.String()
}

// securityHeaders are the response headers checked by AnalyzeHeaders.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"X-Xss-Protection",
}

// AnalyzeHeaders reports which common security headers are present, plus
// server and caching details when the server exposes them.
func AnalyzeHeaders(headers http.Header) []string {
	var lines []string
	for _, name := range securityHeaders {
		state := "missing"
		if headers.Get(name) != "" {
			state = "present"
		}
		lines = append(lines, fmt.Sprintf("security.%s: %s", strings.ToLower(name), state))
	}
	if server := headers.Get("Server"); server != "" {
		lines = append(lines, fmt.Sprintf("server.type: %s", server))
	}
	if cacheControl := headers.Get("Cache-Control"); cacheControl != "" {
		lines = append(lines, fmt.Sprintf("cache.control: %s", cacheControl))
	}
	return lines
}
