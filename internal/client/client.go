package client

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Daihongyi/surf/internal/output"
)

const (
	maxRedirects     = 10
	DefaultUserAgent = "surf/0.2.1"
)

// Header is one outgoing header. Headers keep CLI order; keys are unique
// (a repeated key overwrites the earlier value).
type Header struct {
	Key   string
	Value string
}

type Config struct {
	FollowRedirects bool
	ConnectTimeout  time.Duration
	// OverallTimeout bounds the whole request. Zero means unbounded, which
	// downloads rely on: a large file legitimately takes long while alive,
	// so only the idle watchdog limits them.
	OverallTimeout time.Duration
	UserAgent      string
	Headers        []Header
	HTTP3          bool
}

// Client wraps an *http.Client and injects the configured default headers
// on every request.
type Client struct {
	client *http.Client
	config Config
}

// New builds a request-issuing client from the resolved options.
func New(cfg Config) (*Client, error) {
	if cfg.HTTP3 {
		return nil, &UnsupportedFeatureError{Feature: "HTTP/3"}
	}
	for _, h := range cfg.Headers {
		if !validHeaderName(h.Key) {
			return nil, &ConfigurationError{Detail: fmt.Sprintf("invalid header name %q", h.Key)}
		}
		if !validHeaderValue(h.Value) {
			return nil, &ConfigurationError{Detail: fmt.Sprintf("invalid value for header %q", h.Key)}
		}
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	transport := &http.Transport{
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		DisableCompression:    true,
		ResponseHeaderTimeout: 0,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
	}
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	checkRedirect := func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if cfg.FollowRedirects {
		checkRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	}
	return &Client{
		client: &http.Client{
			Timeout:       cfg.OverallTimeout,
			Transport:     transport,
			CheckRedirect: checkRedirect,
		},
		config: cfg,
	}, nil
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", DefaultUserAgent)
	}
	for _, h := range c.config.Headers {
		req.Header.Set(h.Key, h.Value)
	}
	return c.client.Do(req)
}

// ConnectTimeout reports the configured connection-establishment bound, for
// error classification at call sites.
func (c *Client) ConnectTimeout() time.Duration {
	return c.config.ConnectTimeout
}

// ParseHeaderArgs splits "Key: Value" strings from the CLI. Malformed
// entries are skipped with a warning, not fatal; encoding problems are
// caught later in New.
func ParseHeaderArgs(headers []string) []Header {
	log := output.GetLogger("client")
	var result []Header
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 {
			log.Warn().Str("header", header).Msg("Skipping malformed header, expected 'Key: Value'")
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			log.Warn().Str("header", header).Msg("Skipping header with empty name")
			continue
		}
		replaced := false
		for i := range result {
			if strings.EqualFold(result[i].Key, key) {
				result[i].Value = value
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, Header{Key: key, Value: value})
		}
	}
	return result
}

// validHeaderName checks the token grammar from RFC 9110.
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", rune(c)):
		default:
			return false
		}
	}
	return true
}

func validHeaderValue(value string) bool {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < ' ' && c != '\t' {
			return false
		}
		if c == 0x7f {
			return false
		}
	}
	return true
}
