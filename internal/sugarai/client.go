// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package sugarai provides the HTTP client for the Sugar-AI assistant API.
package sugarai

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Configuration constants for the Sugar-AI API.
const (
	// DefaultBaseURL is the base URL for the hosted Sugar-AI service.
	DefaultBaseURL = "https://ai.sugarlabs.org"

	// DefaultTimeout is the total time allowed for a single request.
	// Answers are generated by an LLM and can legitimately take minutes.
	DefaultTimeout = 300 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// askPath is the retrieval-augmented endpoint.
	askPath = "/ask"

	// askLLMPath is the direct model endpoint without document retrieval.
	askLLMPath = "/ask-llm"

	// healthPath is the unauthenticated liveness endpoint.
	healthPath = "/health"

	// healthTimeout bounds the liveness probe. The probe is advisory, so
	// it must fail fast rather than inherit the five minute ask timeout.
	healthTimeout = 5 * time.Second

	// userAgent identifies this client in requests.
	userAgent = "sugarai/0.1.0"

	// noAnswerFallback substitutes for a missing answer field in an
	// otherwise successful response.
	noAnswerFallback = "No answer received."
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared transport for all Sugar-AI clients.
// SECURITY: TLS verification required for production
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	TLSClientConfig: &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: false, // SECURITY: TLS verification required for production
	},
}

// Error variables for common Sugar-AI API errors.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("Sugar-AI API key not configured")

	// ErrAuthFailed indicates the API key was rejected (HTTP 401).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the quota was exceeded (HTTP 429).
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates the service is down (HTTP 503).
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrGatewayTimeout indicates the upstream model timed out (HTTP 504).
	ErrGatewayTimeout = errors.New("gateway timeout")

	// ErrTimeout indicates the request exceeded the client timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrConnection indicates the service could not be reached at all.
	ErrConnection = errors.New("connection error")
)

// APIError represents a non-OK response the client has no specific
// mapping for. Body holds the response body verbatim so the user sees
// exactly what the service said.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Quota reports how many questions remain on the current API key.
// Fields are pointers because the service omits them when the backing
// quota store is unavailable.
type Quota struct {
	Remaining *int `json:"remaining"`
	Total     *int `json:"total"`
}

// RemainingString returns the remaining count, or "Unknown" if the
// service did not report one.
func (q *Quota) RemainingString() string {
	if q == nil || q.Remaining == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%d", *q.Remaining)
}

// TotalString returns the total count, or "Unknown" if the service did
// not report one.
func (q *Quota) TotalString() string {
	if q == nil || q.Total == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%d", *q.Total)
}

// Answer is a successful reply from one of the ask endpoints.
type Answer struct {
	// Text is the assistant's answer. Never empty: a response missing
	// the answer field yields a fallback notice instead.
	Text string

	// Quota is the remaining question quota, if the service reported one.
	Quota *Quota
}

// askResponse is the wire format of a successful ask reply.
// Answer is a pointer so a missing field can be told apart from an
// empty string.
type askResponse struct {
	Answer *string `json:"answer"`
	Quota  *Quota  `json:"quota"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for communicating with the Sugar-AI API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a new Sugar-AI client with the given API key.
//
// If the API key is empty, the client will still be created but Ask
// requests will fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		timeout: DefaultTimeout,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient = &http.Client{
		Transport: c.httpClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Tests use this to
// inject custom transports. A nil client is ignored.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the configured request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIKeyMasked returns a masked version of the API key for display.
// SECURITY: Never exposes API key fragments - use fingerprint instead.
func (c *Client) APIKeyMasked() string {
	if c.apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(c.apiKey), c.keyFingerprint())
}

// keyFingerprint returns a secure fingerprint of the API key for logging.
// SECURITY: Uses SHA-256 hash to create a unique identifier without exposing the key.
func (c *Client) keyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4]) // First 8 hex chars (4 bytes)
}

// KeyFingerprint returns a secure fingerprint of the API key for external use.
func (c *Client) KeyFingerprint() string {
	return c.keyFingerprint()
}

// =============================================================================
// REQUEST/RESPONSE LOGGING (without sensitive data)
// =============================================================================

// logRequest logs an API request without exposing sensitive data.
// SECURITY: Does not log headers (contain the API key) or the question.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs an API response with duration.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// =============================================================================
// ASK
// =============================================================================

// Ask sends one question to the Sugar-AI service and returns its answer.
//
// The question travels as a percent-encoded query parameter on a POST
// with an empty body, which is the shape the service expects. useRAG
// selects between the retrieval-augmented endpoint and the direct model
// endpoint. The call blocks for up to the configured timeout; pass a
// context to bound it further.
//
// Errors are classified so callers can tell retryable conditions
// (ErrTimeout, ErrGatewayTimeout) from terminal ones (ErrAuthFailed,
// ErrRateLimited, ErrServiceUnavailable, ErrConnection, *APIError).
func (c *Client) Ask(ctx context.Context, question string, useRAG bool) (*Answer, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	path := askLLMPath
	if useRAG {
		path = askPath
	}

	params := url.Values{}
	params.Set("question", question)
	requestURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	c.logRequest(req)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear the key header immediately after the request to
	// keep it out of any later request dumps.
	req.Header.Del("X-API-Key")

	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	c.logResponse(resp, time.Since(startTime))

	// SECURITY: Read response with size limit to prevent memory exhaustion
	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var parsed askResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	text := noAnswerFallback
	if parsed.Answer != nil {
		text = *parsed.Answer
	}

	return &Answer{Text: text, Quota: parsed.Quota}, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// Health probes the service's liveness endpoint. It returns nil when the
// service answered 200, and a classified error otherwise. The probe needs
// no API key and never blocks longer than a few seconds.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Body: resp.Status}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// readResponse reads the response body with size limits to prevent memory
// exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check if we hit the limit (response was truncated)
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// handleErrorResponse converts HTTP error responses to appropriate Go errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	case http.StatusGatewayTimeout:
		return ErrGatewayTimeout
	default:
		return &APIError{
			Status: statusCode,
			Body:   string(body),
		}
	}
}

// classifyTransportError maps a transport-level failure to one of the
// sentinel errors. Client-side timeouts are retryable; anything else on
// the wire means the service could not be reached.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrTimeout
	}

	return fmt.Errorf("%w: %v", ErrConnection, err)
}
