// Package catalog provides the HTTP client for the upstream catalog API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shelfview/shelfview/internal/middleware"
	"github.com/shelfview/shelfview/internal/model"
)

const (
	// ClientTimeout is the default total request timeout.
	ClientTimeout = 10 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 5 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 8 * time.Second

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 10 << 20

	userAgent    = "shelfview/1.0"
	acceptHeader = "application/hal+json, application/json"
)

// NewHTTPClient creates an HTTP client configured for catalog requests.
// It has bounded timeouts and does not follow redirects.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = ClientTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Options configures a Client.
type Options struct {
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	Timeout    time.Duration
	// MaxAttempts bounds attempts per request. Values below 1 use DefaultMaxAttempts.
	MaxAttempts int
	Logger      *slog.Logger
}

// Client talks to the catalog API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	logger      *slog.Logger
}

// New creates a catalog client for baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid catalog URL: unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid catalog URL: missing host")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(opts.Timeout)
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  httpClient,
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}

// GetCopiesByLibrarySlug fetches every copy held by the library.
// Returns ErrNotFound if the catalog does not know the slug.
func (c *Client) GetCopiesByLibrarySlug(ctx context.Context, slug string) (*model.CopiesPage, error) {
	path := "/libraries/" + url.PathEscape(slug) + "/copies"

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var page model.CopiesPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: decode copies: %v", ErrInvalidResponse, err)
	}

	return &page, nil
}

// GetLibraries fetches all libraries. Both a bare JSON array and a HAL body
// with "_embedded.libraries" are accepted.
func (c *Client) GetLibraries(ctx context.Context) ([]model.Library, error) {
	body, err := c.get(ctx, "/libraries")
	if err != nil {
		return nil, err
	}

	libraries, err := decodeLibraries(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode libraries: %v", ErrInvalidResponse, err)
	}

	return libraries, nil
}

// Ping checks that the catalog answers a HEAD request. Any non-5xx status
// counts as up, including 405 from servers without HEAD support.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodHead, "/libraries")
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &StatusError{StatusCode: resp.StatusCode, URL: c.baseURL + "/libraries"}
	}
	return nil
}

// get performs a GET with retries and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error

	for attempt := 0; !IsExhausted(attempt, c.maxAttempts); attempt++ {
		if attempt > 0 {
			delay := NextRetryDelay(attempt - 1)
			c.logger.Debug("retrying catalog request",
				"path", path,
				"attempt", attempt+1,
				"delay_ms", delay.Milliseconds(),
				"error", lastErr,
			)
			if err := sleepContext(ctx, delay); err != nil {
				return nil, fmt.Errorf("catalog request %s: %w", path, lastErr)
			}
		}

		body, err := c.attempt(ctx, path)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
	}

	return nil, fmt.Errorf("catalog request %s: %w", path, lastErr)
}

// attempt performs a single GET.
func (c *Client) attempt(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: c.baseURL + path}
	}

	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	return resp, nil
}

func decodeLibraries(body []byte) ([]model.Library, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	if trimmed[0] == '[' {
		var libraries []model.Library
		if err := json.Unmarshal(trimmed, &libraries); err != nil {
			return nil, err
		}
		return libraries, nil
	}

	var hal struct {
		Embedded struct {
			Libraries []model.Library `json:"libraries"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(trimmed, &hal); err != nil {
		return nil, err
	}
	return hal.Embedded.Libraries, nil
}
