package output

import (
	"net/http"
	"strings"
	"testing"
)

func TestFormatStatusLinePlain(t *testing.T) {
	f := NewFormatter(false, false)
	got := f.FormatStatusLine("HTTP/1.1", 200)
	if got != "HTTP/1.1 200 OK" {
		t.Errorf("FormatStatusLine = %q, want %q", got, "HTTP/1.1 200 OK")
	}
	got = f.FormatStatusLine("HTTP/2.0", 599)
	if got != "HTTP/2.0 599 Unknown" {
		t.Errorf("FormatStatusLine = %q, want %q", got, "HTTP/2.0 599 Unknown")
	}
}

func TestFormatHeadersSortedAndComplete(t *testing.T) {
	f := NewFormatter(false, false)
	headers := http.Header{
		"Content-Type": {"text/plain"},
		"Accept":       {"application/json", "text/html"},
	}
	got := f.FormatHeaders(headers)
	want := "Accept: application/json\nAccept: text/html\nContent-Type: text/plain\n"
	if got != want {
		t.Errorf("FormatHeaders = %q, want %q", got, want)
	}
}

func TestFormatBodyPrettyPrintsJSON(t *testing.T) {
	f := NewFormatter(false, true)
	got := f.FormatBody([]byte(`{"a":1,"b":[2,3]}`), "application/json")
	if !strings.Contains(got, "\n  \"a\": 1") {
		t.Errorf("expected indented JSON, got %q", got)
	}
}

func TestFormatBodySniffsJSONWithoutContentType(t *testing.T) {
	f := NewFormatter(false, true)
	got := f.FormatBody([]byte(`  [1,2]`), "text/plain")
	if !strings.Contains(got, "\n") {
		t.Errorf("expected sniffed JSON to be indented, got %q", got)
	}
}

func TestFormatBodyPassesThroughNonJSON(t *testing.T) {
	f := NewFormatter(false, true)
	body := "<html></html>"
	if got := f.FormatBody([]byte(body), "text/html"); got != body {
		t.Errorf("FormatBody = %q, want %q", got, body)
	}
	// Invalid JSON falls back to the raw body
	broken := `{"a":`
	if got := f.FormatBody([]byte(broken), "application/json"); got != broken {
		t.Errorf("FormatBody = %q, want %q", got, broken)
	}
}

func TestFormatBodyDisabled(t *testing.T) {
	f := NewFormatter(false, false)
	body := `{"a":1}`
	if got := f.FormatBody([]byte(body), "application/json"); got != body {
		t.Errorf("FormatBody = %q, want %q", got, body)
	}
}

func TestAnalyzeHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Strict-Transport-Security", "max-age=31536000")
	headers.Set("Server", "nginx")
	headers.Set("Cache-Control", "no-store")
	lines := AnalyzeHeaders(headers)

	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"security.strict-transport-security: present",
		"security.content-security-policy: missing",
		"server.type: nginx",
		"cache.control: no-store",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing line %q in:\n%s", want, joined)
		}
	}
}
