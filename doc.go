// Package houdiniswap is a typed, resilient Go client for the Houdini Swap
// partner API. It layers the reliability primitives a partner integration
// needs around a plain net/http transport:
//
//   - Retries with exponential backoff for transient failures (network
//     errors and retryable status codes, 429/5xx by default)
//   - In-memory TTL caching of idempotent token listings
//   - Validation and narrowing of untrusted JSON into typed records
//   - Pagination iterator, status pollers and bounded parallel dispatch
//     built on the same request path
//   - Prometheus metrics and pluggable structured logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - Credentials validated once at construction and redacted from every log
//   - All "is this actually a list?" ambiguity resolved at one JSON boundary
//
// Typical usage:
//
//	client, err := houdiniswap.New(apiKey, apiSecret,
//	    houdiniswap.WithMaxRetries(3),
//	    houdiniswap.WithCache(5*time.Minute),
//	    houdiniswap.WithMetrics(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tokens, err := client.CEXTokens(ctx)
//
// Only 429 and 5xx responses trigger retries by default; override with
// WithRetryableStatuses. Logging is opt-in: provide a Logger via WithLogger
// (NewLogger returns one backed by charmbracelet/log) for per-attempt
// request events without noise.
package houdiniswap
