package toolset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spetersoncode/thinkact/tool"
)

// FetchName is the tool name of the HTTP fetch tool.
const FetchName = "http_fetch"

// WebOption configures the HTTP fetch tool.
type WebOption func(*webConfig)

type webConfig struct {
	client       *http.Client
	allowedHosts []string
	blockedHosts []string
	maxBodySize  int64
	timeout      time.Duration
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) WebOption {
	return func(cfg *webConfig) {
		cfg.client = c
	}
}

// WithAllowedHosts restricts requests to the given hosts and their
// subdomains.
func WithAllowedHosts(hosts ...string) WebOption {
	return func(cfg *webConfig) {
		cfg.allowedHosts = hosts
	}
}

// WithBlockedHosts rejects requests to the given hosts and their subdomains.
func WithBlockedHosts(hosts ...string) WebOption {
	return func(cfg *webConfig) {
		cfg.blockedHosts = hosts
	}
}

// WithMaxBodySize truncates response bodies. Default 1MB.
func WithMaxBodySize(n int64) WebOption {
	return func(cfg *webConfig) {
		cfg.maxBodySize = n
	}
}

// WithTimeout bounds each request. Default 30s.
func WithTimeout(d time.Duration) WebOption {
	return func(cfg *webConfig) {
		cfg.timeout = d
	}
}

func newWebConfig(opts []WebOption) *webConfig {
	cfg := &webConfig{
		maxBodySize: 1 << 20,
		timeout:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	return cfg
}

func matchHost(host, pattern string) bool {
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

func (c *webConfig) checkURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	host := u.Hostname()
	for _, b := range c.blockedHosts {
		if matchHost(host, b) {
			return nil, fmt.Errorf("host %q is blocked", host)
		}
	}
	if len(c.allowedHosts) == 0 {
		return u, nil
	}
	for _, a := range c.allowedHosts {
		if matchHost(host, a) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("host %q is not in allowed list", host)
}

// FetchArgs are the arguments of http_fetch.
type FetchArgs struct {
	URL     string            `json:"url" desc:"Absolute http or https URL" required:"true"`
	Method  string            `json:"method,omitempty" desc:"HTTP method, default GET" enum:"GET,POST,PUT,DELETE,PATCH,HEAD"`
	Headers map[string]string `json:"headers,omitempty" desc:"Request headers"`
	Body    string            `json:"body,omitempty" desc:"Request body"`
}

// FetchResult is the JSON document returned by http_fetch.
type FetchResult struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body"`
	Truncated   bool   `json:"truncated,omitempty"`
}

// Fetch returns the HTTP fetch tool. Non-2xx responses are returned to the
// model like any other response.
func Fetch(opts ...WebOption) tool.Registration {
	cfg := newWebConfig(opts)
	return tool.Func(FetchName, "Send an HTTP request and return the status and body", cfg.fetch)
}

func (c *webConfig) fetch(ctx context.Context, args FetchArgs) (string, error) {
	u, err := c.checkURL(args.URL)
	if err != nil {
		return "", err
	}

	method := strings.ToUpper(args.Method)
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if args.Body != "" {
		body = strings.NewReader(args.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return "", err
	}
	for k, v := range args.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return "", err
	}
	result := FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if int64(len(data)) > c.maxBodySize {
		data = data[:c.maxBodySize]
		result.Truncated = true
	}
	result.Body = string(data)

	out, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
