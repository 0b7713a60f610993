package houdiniswap

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	// BaseURLProduction is the partner API endpoint used unless overridden.
	BaseURLProduction = "https://api-partner.houdiniswap.com"

	// DefaultTimeout bounds each transport invocation, not the whole retry
	// loop.
	DefaultTimeout = 30 * time.Second

	// DefaultCacheTTL applies to cacheable reads when caching is enabled
	// without an explicit TTL.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultAPIVersion is sent in the X-API-Version header.
	DefaultAPIVersion = "v1"
)

// envBaseURL overrides the production endpoint, mainly for staging and
// integration test environments.
const envBaseURL = "HOUDINI_SWAP_API_URL"

// Client is a resilient HoudiniSwap partner API client. It layers retries
// with exponential backoff, a TTL response cache for idempotent reads,
// response shape validation, metrics and structured logging around a plain
// http.Client. All methods are safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiVersion   string
	creds        Credentials
	retry        RetryPolicy
	cache        *ResponseCache
	cacheTTL     time.Duration
	middleware   []Middleware
	metrics      *MetricsCollector
	logger       Logger
	requestIDGen func() string
}

// New creates a Client with the given credentials and options. Credentials
// are validated before any other work; invalid options fail construction
// with a Validation error rather than surfacing at request time.
func New(apiKey, apiSecret string, opts ...Option) (*Client, error) {
	creds, err := ValidateCredentials(apiKey, apiSecret)
	if err != nil {
		return nil, err
	}

	baseURL := BaseURLProduction
	if env := os.Getenv(envBaseURL); env != "" {
		baseURL = env
	}

	c := &Client{
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		baseURL:      baseURL,
		apiVersion:   DefaultAPIVersion,
		creds:        creds,
		retry:        DefaultRetryPolicy(),
		cache:        NewResponseCache(false),
		cacheTTL:     DefaultCacheTTL,
		requestIDGen: uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.ValidateConfiguration(); err != nil {
		return nil, err
	}

	return c, nil
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CacheEnabled reports whether the response cache participates in reads.
func (c *Client) CacheEnabled() bool {
	return c.cache.Enabled()
}

// ClearCache evicts all cached responses immediately.
func (c *Client) ClearCache() {
	c.cache.Clear()
	if c.metrics != nil {
		c.metrics.RecordCacheSize("response", 0)
	}
}
