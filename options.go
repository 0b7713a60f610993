package houdiniswap

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Client during construction.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIVersion sets the X-API-Version header value.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithRetryPolicy replaces the whole retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithMaxRetries sets the number of retries after the initial attempt.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) {
		c.retry.MaxRetries = maxRetries
	}
}

// WithBackoffFactor sets the base wait scaled by 2^attempt between retries.
func WithBackoffFactor(factor time.Duration) Option {
	return func(c *Client) {
		c.retry.BackoffFactor = factor
	}
}

// WithRetryableStatuses replaces the set of statuses treated as transient.
func WithRetryableStatuses(statuses ...int) Option {
	return func(c *Client) {
		set := make(map[int]struct{}, len(statuses))
		for _, s := range statuses {
			set[s] = struct{}{}
		}
		c.retry.RetryableStatuses = set
	}
}

// WithCache enables the response cache for idempotent reads with the given
// TTL.
func WithCache(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache.SetEnabled(true)
		c.cacheTTL = ttl
	}
}

// WithLogger installs a structured logger. Sensitive values are redacted
// before reaching it.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsRegistry enables Prometheus metrics on a custom registerer.
func WithMetricsRegistry(registry prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollectorWithRegistry(registry)
	}
}

// WithMiddleware appends request middleware executed around each transport
// invocation, in registration order.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithRequestIDGenerator overrides correlation ID generation, mainly for
// deterministic tests.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		c.requestIDGen = gen
	}
}

// ValidateConfiguration checks the client configuration for invalid values
// that would otherwise surface as confusing runtime behavior.
func (c *Client) ValidateConfiguration() error {
	if c.httpClient == nil {
		return newValidationError("HTTP client cannot be nil")
	}
	if c.httpClient.Timeout <= 0 {
		return newValidationError("timeout must be greater than 0, got %v", c.httpClient.Timeout)
	}
	if c.baseURL == "" {
		return newValidationError("base URL cannot be empty")
	}
	if c.apiVersion == "" {
		return newValidationError("API version cannot be empty")
	}
	if c.retry.MaxRetries < 0 {
		return newValidationError("max retries must be >= 0, got %d", c.retry.MaxRetries)
	}
	if c.retry.BackoffFactor <= 0 {
		return newValidationError("backoff factor must be greater than 0, got %v", c.retry.BackoffFactor)
	}
	if len(c.retry.RetryableStatuses) == 0 {
		return newValidationError("retryable status set cannot be empty")
	}
	if c.cache.Enabled() && c.cacheTTL <= 0 {
		return newValidationError("cache TTL must be greater than 0 when caching is enabled, got %v", c.cacheTTL)
	}
	for i, m := range c.middleware {
		if m == nil {
			return newValidationError("middleware at index %d cannot be nil", i)
		}
	}
	if c.requestIDGen == nil {
		return newValidationError("request ID generator cannot be nil")
	}
	return nil
}
