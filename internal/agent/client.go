// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the backend client.
const (
	// DefaultTimeout bounds a single /process round trip. Itinerary
	// generation can run multi-agent workflows, so this is generous.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize caps the response body to keep a misbehaving
	// backend from exhausting memory.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// submitBurst and submitRate throttle /process submissions. One user
	// typing cannot reasonably exceed this; it guards against looping
	// callers hammering the backend.
	submitRate  = rate.Limit(1)
	submitBurst = 3
)

// sharedHTTPClient pools connections across all backend calls.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// APIError represents a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// Client talks to the itinerary agent backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient creates a backend client for the given base URL. The base is
// resolved once at startup (see the config package) and never re-read.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(submitRate, submitBurst),
		userAgent:  "itinera/0.1",
	}
}

// WithTimeout sets a custom request timeout. The client is returned for
// chaining.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		return c
	}
	// Own client so the shared pool's timeout is untouched.
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// BaseURL returns the resolved backend endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// PROCESS
// =============================================================================

// Process sends one conversational turn. A brand-new session passes an
// empty SessionID; the reply's SessionID is authoritative and callers
// adopt it when it differs. Cancellation of ctx aborts the request and
// surfaces context.Canceled.
func (c *Client) Process(ctx context.Context, req ProcessRequest) (*ProcessResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	logResponse("POST /process", resp.StatusCode, time.Since(start))

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	var out ProcessResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &out, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// HealthStatus is the reply of the backend liveness probe.
type HealthStatus struct {
	OK   bool   `json:"ok"`
	Time string `json:"time,omitempty"`
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, data)
	}

	var status HealthStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("parse health response: %w", err)
	}
	return &status, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// readBody reads the response body with a size limit.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return data, nil
}

// newAPIError builds an APIError from a non-2xx body. FastAPI-style
// {"detail": "..."} bodies are unwrapped; anything else is used verbatim.
func newAPIError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		msg = detail.Detail
	}
	return &APIError{Status: status, Message: msg}
}

// logResponse records status and duration only; request and response
// bodies are never logged.
func logResponse(what string, status int, d time.Duration) {
	log.Printf("%s: %d (%v)", what, status, d)
}
