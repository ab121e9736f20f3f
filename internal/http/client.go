// Package http implements the HTTP transport of the Bastion client: one
// session against one platform instance, issuing JSON requests and mapping
// failures onto the library's error taxonomy.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/bastionsec-io/bastion-client/internal/auth"
	"github.com/bastionsec-io/bastion-client/internal/constants"
	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

const defaultUserAgent = "bastion-client-go"

// Client is the single HTTP session shared by every endpoint of one client
// instance. It implements bastion.Doer.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       bastion.Logger
	debug        bool
	userAgent    string
	cache        bastion.Cache
	interceptors *bastion.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger bastion.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the retry policy of the underlying HTTP client.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient substitutes the inner *http.Client, keeping the retry
// wrapper.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithSkipTLSVerify disables certificate verification on the inner client.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}

		transport, ok := c.httpClient.HTTPClient.Transport.(*http.Transport)
		if !ok {
			transport = cleanhttp.DefaultPooledTransport()
		}

		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- explicit opt-in via config
		c.httpClient.HTTPClient.Transport = transport
	}
}

// WithTimeout bounds each request when no context deadline is set.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithCache installs a read cache for GET responses.
func WithCache(cache bastion.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *bastion.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport rooted at baseURL. tokenManager may be nil
// for unauthenticated use.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = cleanhttp.DefaultPooledClient()
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	// Hand back the final 5xx response instead of a retry give-up error so
	// it maps onto APIError, not TransportError.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*bastion.Response, error) {
	return c.Do(ctx, &bastion.Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*bastion.Response, error) {
	return c.Do(ctx, &bastion.Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*bastion.Response, error) {
	return c.Do(ctx, &bastion.Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*bastion.Response, error) {
	return c.Do(ctx, &bastion.Request{Method: http.MethodDelete, Path: path})
}

// Do executes one request and decodes the failure modes: connection
// failures surface as TransportError, 401/403 as AuthError, any other
// 4xx/5xx as APIError carrying the status and raw payload.
func (c *Client) Do(ctx context.Context, req *bastion.Request) (*bastion.Response, error) {
	if c.interceptors != nil {
		if err := c.interceptors.ExecuteRequestInterceptors(ctx, req); err != nil {
			return nil, err
		}
	}

	fullURL := c.buildURL(req)

	useCache := c.cache != nil && req.Method == http.MethodGet
	if useCache {
		if entry, err := c.cache.Get(ctx, fullURL); err == nil {
			return &bastion.Response{StatusCode: entry.StatusCode, Body: entry.Body}, nil
		}
	}

	resp, err := c.execute(ctx, req, fullURL)

	if c.interceptors != nil {
		if ierr := c.interceptors.ExecuteResponseInterceptors(ctx, req, resp, err); ierr != nil {
			return nil, ierr
		}
	}

	if err != nil {
		return nil, err
	}

	// A mutation makes any cached read of the same URL stale.
	if c.cache != nil && req.Method != http.MethodGet {
		_ = c.cache.Delete(ctx, fullURL)
	}

	if useCache && resp.StatusCode == http.StatusOK {
		_ = c.cache.Set(ctx, fullURL, &bastion.CacheEntry{
			Body:       resp.Body,
			StatusCode: resp.StatusCode,
			StoredAt:   time.Now(),
		})
	}

	return resp, nil
}

func (c *Client) execute(ctx context.Context, req *bastion.Request, fullURL string) (*bastion.Response, error) {
	var bodyReader io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for name, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Set(name, value)
		}
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &bastion.TransportError{Op: req.Method, URL: fullURL, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &bastion.TransportError{Op: req.Method, URL: fullURL, Err: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, c.statusError(httpResp.StatusCode, body)
	}

	return &bastion.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

func (c *Client) buildURL(req *bastion.Request) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	fullURL := c.baseURL + path

	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	return fullURL
}

func (c *Client) statusError(statusCode int, body []byte) error {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return &bastion.AuthError{StatusCode: statusCode, Payload: body}
	}

	return &bastion.APIError{
		StatusCode: statusCode,
		Message:    extractMessage(body),
		Payload:    body,
	}
}

// extractMessage pulls the human-readable part out of an error payload.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if payload.Message != "" {
		return payload.Message
	}

	return payload.Error
}

// BaseURL returns the session's base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
