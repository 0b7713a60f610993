package houdiniswap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(baseURL),
		WithBackoffFactor(time.Millisecond),
	}
	client, err := New("test-key", "test-secret", append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return client
}

func TestNewRejectsInvalidCredentials(t *testing.T) {
	_, err := New("", "secret")
	if err == nil {
		t.Fatal("expected error for empty key")
	}
	if kindOf(err) != KindValidation {
		t.Errorf("kind = %s, want Validation", kindOf(err))
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"negative retries", []Option{WithMaxRetries(-1)}},
		{"zero backoff", []Option{WithBackoffFactor(0)}},
		{"zero timeout", []Option{WithTimeout(0)}},
		{"empty base URL", []Option{WithBaseURL("")}},
		{"zero cache ttl", []Option{WithCache(0)}},
		{"nil middleware", []Option{WithMiddleware(nil)}},
		{"empty retryable set", []Option{WithRetryableStatuses()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test-key", "test-secret", tt.opts...)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if kindOf(err) != KindValidation {
				t.Errorf("kind = %s, want Validation", kindOf(err))
			}
		})
	}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(3))

	value, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/status",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value.Kind != ValueMapping {
		t.Errorf("value kind = %s, want mapping", value.Kind)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("transport invocations = %d, want 3", got)
	}
}

func TestExecuteExhaustsRetriesWithExactCallCount(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(2))

	_, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/volume",
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != KindAPI {
		t.Errorf("kind = %s, want API", e.Kind)
	}
	if e.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", e.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("transport invocations = %d, want maxRetries+1 = 3", got)
	}
}

func TestExecuteNonRetryableFailsImmediately(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "pair not supported"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(3))

	_, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/quote",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != KindAPI {
		t.Errorf("kind = %s, want API", e.Kind)
	}
	if e.Message != "pair not supported" {
		t.Errorf("message = %q, want API-provided message", e.Message)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("transport invocations = %d, want exactly 1", got)
	}
}

func TestExecute401NeverRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(5))

	_, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/tokens",
	})
	if kindOf(err) != KindAuthentication {
		t.Errorf("kind = %s, want Authentication", kindOf(err))
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("transport invocations = %d, want exactly 1", got)
	}
}

func TestExecuteErrorBodyRawTextFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("upstream exploded, not json"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/quote",
	})

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Body != "upstream exploded, not json" {
		t.Errorf("Body = %v, want raw error text preserved", e.Body)
	}
}

func TestExecuteSendsAuthAndVersionHeaders(t *testing.T) {
	var gotAuth, gotVersion, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("X-API-Version")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithAPIVersion("v2"))

	if _, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/tokens",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "test-key:test-secret" {
		t.Errorf("Authorization = %q, want key:secret", gotAuth)
	}
	if gotVersion != "v2" {
		t.Errorf("X-API-Version = %q, want v2", gotVersion)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestExecuteCachesIdempotentReads(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"count": 1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithCache(time.Minute))

	desc := requestDescriptor{method: http.MethodGet, path: "/dex/tokens", cacheable: true}
	for i := 0; i < 3; i++ {
		if _, err := client.execute(context.Background(), desc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("transport invocations = %d, want 1 (cached)", got)
	}

	client.ClearCache()
	if _, err := client.execute(context.Background(), desc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("transport invocations = %d, want 2 after ClearCache", got)
	}
}

func TestExecuteDisabledCacheAlwaysFetches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	desc := requestDescriptor{method: http.MethodGet, path: "/tokens", cacheable: true}
	for i := 0; i < 3; i++ {
		if _, err := client.execute(context.Background(), desc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("transport invocations = %d, want 3 without cache", got)
	}
}

func TestMiddlewareRunsPerAttempt(t *testing.T) {
	var serverCalls, middlewareCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&serverCalls, 1) < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	mw := func(req *http.Request, next RoundTripper) (*http.Response, error) {
		atomic.AddInt32(&middlewareCalls, 1)
		return next.RoundTrip(req)
	}

	client := newTestClient(t, server.URL, WithMaxRetries(3), WithMiddleware(mw))

	if _, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/status",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&middlewareCalls); got != 2 {
		t.Errorf("middleware calls = %d, want one per attempt (2)", got)
	}
}

func TestExhaustionAfterMixedStatusThenNetworkFailure(t *testing.T) {
	netErr := errors.New("connection refused")

	var attempts int32
	mw := func(req *http.Request, next RoundTripper) (*http.Response, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Header:     http.Header{},
				Body:       io.NopCloser(strings.NewReader(`{"message": "flaky"}`)),
			}, nil
		}
		return nil, netErr
	}

	client := newTestClient(t, "http://unused.invalid", WithMaxRetries(1), WithMiddleware(mw))

	_, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/volume",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	// The last attempt failed at the transport, so the terminal error must
	// be network-kind and carry that cause, not the earlier 500.
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != KindNetwork {
		t.Errorf("kind = %s, want Network", e.Kind)
	}
	if e.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 (stale status must be cleared)", e.StatusCode)
	}
	if !errors.Is(err, netErr) {
		t.Errorf("error should preserve the network cause: %v", err)
	}
	if n := atomic.LoadInt32(&attempts); n != 2 {
		t.Errorf("attempts = %d, want 2", n)
	}
}

func TestExhaustionAfterNetworkThenStatusFailure(t *testing.T) {
	var attempts int32
	mw := func(req *http.Request, next RoundTripper) (*http.Response, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return nil, errors.New("connection reset")
		}
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(`{"message": "overloaded"}`)),
		}, nil
	}

	client := newTestClient(t, "http://unused.invalid", WithMaxRetries(1), WithMiddleware(mw))

	_, err := client.execute(context.Background(), requestDescriptor{
		method: http.MethodGet,
		path:   "/volume",
	})

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != KindAPI {
		t.Errorf("kind = %s, want API (last attempt saw a status)", e.Kind)
	}
	if e.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", e.StatusCode)
	}
}

func TestErrorKindMatching(t *testing.T) {
	err := &Error{Kind: KindNetwork, Message: "boom"}

	if !errors.Is(err, &Error{Kind: KindNetwork}) {
		t.Error("errors.Is should match same kind")
	}
	if errors.Is(err, &Error{Kind: KindAPI}) {
		t.Error("errors.Is should not match different kind")
	}
	if !IsTransient(err) {
		t.Error("network errors are transient")
	}
	if IsTransient(&Error{Kind: KindAPI, StatusCode: 404}) {
		t.Error("404 is not transient")
	}
	if !IsTransient(&Error{Kind: KindAPI, StatusCode: 503}) {
		t.Error("503 is transient")
	}
}

func TestErrorStringAttemptRendering(t *testing.T) {
	// Exhaustion with MaxRetries=1 means 2 attempts total.
	err := &Error{
		Kind:       KindNetwork,
		Message:    "request failed after exhausting retries",
		Attempt:    2,
		MaxRetries: 1,
	}
	if got := err.Error(); !strings.Contains(got, "attempt 2 of 2") {
		t.Errorf("Error() = %q, want attempts rendered against the total attempt budget", got)
	}
}
