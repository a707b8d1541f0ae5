package httpresource

import (
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrymomot/rescache/pkg/logger"
)

const (
	defaultRetryMax     = 3
	defaultRetryWaitMin = 100 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

// Client issues resource requests against one API base URL. Transport errors
// and 5xx answers are retried with exponential backoff.
type Client struct {
	baseURL string
	header  http.Header
	rc      *retryablehttp.Client
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient   *http.Client
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	header       http.Header
	logger       *slog.Logger
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithRetryMax sets how many times a request is retried. Zero disables retries.
func WithRetryMax(n int) Option {
	return func(o *clientOptions) {
		o.retryMax = max(n, 0)
	}
}

// WithRetryWait sets the backoff bounds between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(o *clientOptions) {
		o.retryWaitMin = minWait
		o.retryWaitMax = maxWait
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *clientOptions) {
		o.header.Add(key, value)
	}
}

// WithLogger sets the logger for request and retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	o := &clientOptions{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		retryMax:     defaultRetryMax,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
		header:       make(http.Header),
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}

	rc := &retryablehttp.Client{
		HTTPClient:   o.httpClient,
		Logger:       o.logger.With(logger.Component("httpresource")),
		RetryWaitMin: o.retryWaitMin,
		RetryWaitMax: o.retryWaitMax,
		RetryMax:     o.retryMax,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		// Keep the last response once retries are exhausted so its status
		// reaches the cache.
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		header:  maps.Clone(o.header),
		rc:      rc,
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}
