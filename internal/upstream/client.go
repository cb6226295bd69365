package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kiosk-admin-console/config"
	"kiosk-admin-console/internal/model"
)

// Observer receives one call per upstream round trip. Status is 0 when the
// request failed before a response arrived.
type Observer interface {
	ObserveUpstream(method string, status int, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveUpstream(string, int, time.Duration) {}

// Client talks to the kiosk backend REST API.
type Client struct {
	baseURL   string
	headers   map[string]string
	endpoints map[string]string
	client    *http.Client
	observer  Observer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithObserver installs a metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewClient creates a backend client from configuration.
func NewClient(cfg config.UpstreamConfig, opts ...Option) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Upstream client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	endpoints := make(map[string]string, len(defaultEndpoints))
	for k, v := range defaultEndpoints {
		endpoints[k] = v
	}
	for k, v := range cfg.Endpoints {
		endpoints[k] = v
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		headers:   cfg.Headers,
		endpoints: endpoints,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the path of a resource's collection.
func (c *Client) Endpoint(resource string) string {
	if p, ok := c.endpoints[resource]; ok {
		return p
	}
	return "/" + resource
}

type tokenKey struct{}

// WithToken returns a context carrying the bearer token for backend calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored by WithToken, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	IsSuccess  *bool           `json:"isSuccess"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Response   json.RawMessage `json:"response"`
}

// GetPaging fetches one page of a resource.
func GetPaging[T any](ctx context.Context, c *Client, resource string, params model.PagingParams) (*model.PagingResponse[T], error) {
	var page model.PagingResponse[T]
	if err := c.do(ctx, http.MethodGet, c.Endpoint(resource), params.Values(), nil, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return &page, nil
}

// GetByID fetches a single record of a resource.
func GetByID[T any](ctx context.Context, c *Client, resource, id string) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, c.Endpoint(resource)+"/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new record to a resource collection.
func (c *Client) Create(ctx context.Context, resource string, payload any) error {
	return c.do(ctx, http.MethodPost, c.Endpoint(resource), nil, payload, nil)
}

// Update replaces the record id of a resource.
func (c *Client) Update(ctx context.Context, resource, id string, payload any) error {
	return c.do(ctx, http.MethodPut, c.Endpoint(resource)+"/"+url.PathEscape(id), nil, payload, nil)
}

// Remove deletes the record id of a resource.
func (c *Client) Remove(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, c.Endpoint(resource)+"/"+url.PathEscape(id), nil, nil, nil)
}

// do performs a JSON round trip. out may be nil when the body is not needed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observer.ObserveUpstream(method, 0, time.Since(start))
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()
	c.observer.ObserveUpstream(method, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.IsSuccess != nil {
		if !*env.IsSuccess {
			status := env.StatusCode
			if status == 0 {
				status = resp.StatusCode
			}
			return &APIError{Status: status, Message: firstNonEmpty(env.Message, env.Error)}
		}
		raw = env.Response
	}

	if out == nil || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal api response: %w", err)
	}
	return nil
}

// errorMessage extracts a message from an error body, tolerating non-JSON bodies.
func errorMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return firstNonEmpty(env.Message, env.Error)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
