// Package sparql implements the small slice of the SPARQL 1.1 protocol the
// checker needs: GET queries, POST updates and JSON result decoding.
package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	AcceptJSON        = "application/json"
	AcceptResultsJSON = "application/sparql-results+json"

	defaultUserAgent = "qado-check/1.0 (+https://github.com/DjordjeVuckovic/qado-check)"
)

// Response is a fully read HTTP response from a SPARQL endpoint.
type Response struct {
	Status  int
	Body    []byte
	Latency time.Duration
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Client struct {
	httpClient *http.Client
	userAgent  string
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client. Request deadlines come from the caller's
// context so that fetches and probes can use different timeouts.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query issues GET endpoint?query=<query>. Any query string already present
// on the endpoint URL is preserved.
func (c *Client) Query(ctx context.Context, endpoint, query, accept string) (*Response, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("sparql parse endpoint %q: %w", endpoint, err)
	}
	params := u.Query()
	params.Set("query", query)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("sparql create query request: %w", err)
	}
	req.Header.Set("Accept", accept)

	return c.do(req)
}

// Update issues POST endpoint with the form parameter update=<update>.
func (c *Client) Update(ctx context.Context, endpoint, update string) (*Response, error) {
	form := url.Values{}
	form.Set("update", update)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sparql create update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sparql read response: %w", err)
	}

	return &Response{
		Status:  resp.StatusCode,
		Body:    body,
		Latency: time.Since(start),
	}, nil
}
