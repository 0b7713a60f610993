package houdiniswap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RoundTripper executes a single HTTP request.
type RoundTripper interface {
	RoundTrip(req *http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to the RoundTripper interface.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

// RoundTrip implements RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a transport invocation. Middleware runs inside the retry
// loop, once per attempt.
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// maxErrorBodyBytes bounds how much of a non-JSON error body is kept.
const maxErrorBodyBytes = 500

// requestDescriptor describes one API call independent of retry mechanics.
type requestDescriptor struct {
	method    string
	path      string
	query     url.Values
	body      any
	cacheable bool
}

// execute runs one API call through the cache and retry layers and returns
// the decoded response value. Only requests marked cacheable consult or
// populate the cache; mutations always reach the transport.
func (c *Client) execute(ctx context.Context, desc requestDescriptor) (Value, error) {
	requestID := c.requestIDGen()

	c.metrics.RecordRequestStart(desc.method, desc.path)
	defer c.metrics.RecordRequestEnd(desc.method, desc.path)

	key := cacheKey(desc.path, desc.query)
	if desc.cacheable && c.cache.Enabled() {
		if value, ok := c.cache.Get(key); ok {
			c.metrics.RecordCacheHit(desc.method, desc.path)
			if c.logger != nil {
				c.logger.Debug("cache hit",
					"requestId", requestID,
					"method", desc.method,
					"path", desc.path,
				)
			}
			return value, nil
		}
		c.metrics.RecordCacheMiss(desc.method, desc.path)
	}

	start := time.Now()
	value, status, err := c.doWithRetry(ctx, requestID, desc)
	c.metrics.RecordRequest(desc.method, desc.path, status, time.Since(start))

	if err != nil {
		c.metrics.RecordError(string(kindOf(err)), desc.method, desc.path)
		return Value{}, err
	}

	if desc.cacheable && c.cache.Enabled() {
		c.cache.Set(key, value, c.cacheTTL)
		c.metrics.RecordCacheSize("response", c.cache.Len())
	}
	return value, nil
}

// doWithRetry drives the retry loop for a single request. It returns the
// decoded value, the last HTTP status observed (0 when the transport never
// produced a response), and the terminal error.
//
// The loop blocks through each backoff wait: a request in its retry window
// always runs to terminal success or failure.
func (c *Client) doWithRetry(ctx context.Context, requestID string, desc requestDescriptor) (Value, int, error) {
	var bodyBytes []byte
	if desc.body != nil {
		var err error
		bodyBytes, err = json.Marshal(desc.body)
		if err != nil {
			return Value{}, 0, &Error{
				Kind:      KindValidation,
				Message:   "failed to encode request body",
				Cause:     err,
				RequestID: requestID,
				Method:    desc.method,
				Path:      desc.path,
			}
		}
	}

	endpoint := c.baseURL + desc.path
	if len(desc.query) > 0 {
		endpoint += "?" + desc.query.Encode()
	}

	var lastErr error
	var lastBody []byte
	lastStatus := 0

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, desc.method, endpoint, bodyReader(bodyBytes))
		if err != nil {
			return Value{}, 0, &Error{
				Kind:      KindValidation,
				Message:   "failed to build request",
				Cause:     err,
				RequestID: requestID,
				Method:    desc.method,
				Path:      desc.path,
			}
		}
		req.Header.Set("Authorization", c.creds.authHeader())
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-API-Version", c.apiVersion)
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		attemptStart := time.Now()
		resp, err := c.executeMiddleware(req)
		elapsed := time.Since(attemptStart)

		// Terminal classification reflects the LAST attempt only: a
		// transport failure clears any status an earlier attempt saw, so
		// the network cause is never masked by a stale HTTP error.
		if err != nil {
			lastErr = err
			lastStatus = 0
			lastBody = nil
			c.logAttempt(requestID, desc, attempt, 0, elapsed, err)
		} else {
			data, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				err = readErr
				lastErr = readErr
				lastStatus = 0
				lastBody = nil
				c.logAttempt(requestID, desc, attempt, resp.StatusCode, elapsed, readErr)
			} else {
				lastStatus = resp.StatusCode
				c.logAttempt(requestID, desc, attempt, resp.StatusCode, elapsed, nil)

				switch {
				case resp.StatusCode == http.StatusUnauthorized:
					return Value{}, lastStatus, &Error{
						Kind:       KindAuthentication,
						Message:    "authentication failed, check API key and secret",
						StatusCode: resp.StatusCode,
						Body:       errorBody(data),
						RequestID:  requestID,
						Method:     desc.method,
						Path:       desc.path,
					}
				case resp.StatusCode >= 400 && !c.retry.Retryable(resp.StatusCode):
					return Value{}, lastStatus, c.apiError(requestID, desc, resp.StatusCode, data, attempt)
				case resp.StatusCode >= 400:
					lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
					lastBody = data
				default:
					return decodeValue(data), lastStatus, nil
				}
			}
		}

		delay, retry := c.retry.ShouldRetry(resp, err, attempt)
		if !retry {
			break
		}

		c.metrics.RecordRetry(desc.method, desc.path, attempt+1)
		if c.logger != nil {
			c.logger.Warn("retrying request",
				"requestId", requestID,
				"method", desc.method,
				"path", desc.path,
				"attempt", attempt+1,
				"maxRetries", c.retry.MaxRetries,
				"wait", delay,
			)
		}
		time.Sleep(delay)
	}

	if lastStatus >= 400 {
		e := c.apiError(requestID, desc, lastStatus, lastBody, c.retry.MaxRetries)
		e.Message = fmt.Sprintf("retries exhausted with status %d", lastStatus)
		e.Attempt = c.retry.MaxRetries + 1
		e.MaxRetries = c.retry.MaxRetries
		return Value{}, lastStatus, e
	}
	return Value{}, lastStatus, &Error{
		Kind:       KindNetwork,
		Message:    "request failed after exhausting retries",
		Cause:      lastErr,
		Attempt:    c.retry.MaxRetries + 1,
		MaxRetries: c.retry.MaxRetries,
		RequestID:  requestID,
		Method:     desc.method,
		Path:       desc.path,
	}
}

// apiError builds an API-kind error from an error response body. A JSON
// body is decoded and kept; a non-JSON body degrades to bounded raw text
// rather than being discarded.
func (c *Client) apiError(requestID string, desc requestDescriptor, status int, data []byte, attempt int) *Error {
	message := fmt.Sprintf("API request failed with status %d", status)
	body := errorBody(data)
	if m, ok := body.(map[string]any); ok {
		if s := recString(m, "message"); s != "" {
			message = s
		}
	}
	return &Error{
		Kind:       KindAPI,
		Message:    message,
		StatusCode: status,
		Body:       body,
		Attempt:    attempt + 1,
		MaxRetries: c.retry.MaxRetries,
		RequestID:  requestID,
		Method:     desc.method,
		Path:       desc.path,
	}
}

// errorBody decodes an error response body: JSON when possible, otherwise
// the raw text truncated to maxErrorBodyBytes. Nil when the body is empty.
func errorBody(data []byte) any {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err == nil {
		return decoded
	}
	text := string(trimmed)
	if len(text) > maxErrorBodyBytes {
		text = text[:maxErrorBodyBytes]
	}
	return text
}

func bodyReader(data []byte) io.Reader {
	if data == nil {
		return nil
	}
	return bytes.NewReader(data)
}

// logAttempt emits one structured line per transport invocation. Query
// parameters pass through Redact so credentials can never leak into logs.
func (c *Client) logAttempt(requestID string, desc requestDescriptor, attempt, status int, elapsed time.Duration, err error) {
	if c.logger == nil {
		return
	}

	params := make(map[string]any, len(desc.query))
	for k := range desc.query {
		params[k] = desc.query.Get(k)
	}

	keyvals := []any{
		"requestId", requestID,
		"method", desc.method,
		"path", desc.path,
		"params", Redact(params),
		"attempt", attempt,
		"duration", elapsed,
	}
	if err != nil {
		keyvals = append(keyvals, "error", err.Error())
		c.logger.Error("request attempt failed", keyvals...)
		return
	}
	keyvals = append(keyvals, "status", status)
	if status >= 400 {
		c.logger.Warn("request attempt returned error status", keyvals...)
		return
	}
	c.logger.Debug("request attempt succeeded", keyvals...)
}

// executeMiddleware runs the middleware chain in registration order around
// the HTTP client.
func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	final := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return c.httpClient.Do(r)
	})

	var next RoundTripper = final
	for i := len(c.middleware) - 1; i >= 0; i-- {
		mw := c.middleware[i]
		current := next
		next = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return mw(r, current)
		})
	}

	return next.RoundTrip(req)
}

// queryValues builds url.Values from non-empty string pairs.
func queryValues(pairs ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			q.Set(pairs[i], pairs[i+1])
		}
	}
	return q
}

// sanitizeInput trims a required string parameter and rejects control
// characters that could corrupt a query string or header.
func sanitizeInput(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", newValidationError("%s cannot be empty", name)
	}
	if strings.ContainsAny(trimmed, "\n\r\t\x00") {
		return "", newValidationError("%s contains invalid control characters", name)
	}
	return trimmed, nil
}
