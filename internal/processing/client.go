// Package processing talks to the external document-processing service and
// reconciles its results into document status.
package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"time"

	"docuhub-backend/internal/shared/apperr"
)

const maxResponseBytes = 4 << 20

// Client is the bounded-timeout interface to the external processor.
type Client interface {
	Process(ctx context.Context, documentID, filePath string, options map[string]any) (json.RawMessage, error)
	Status(ctx context.Context, documentID string) (json.RawMessage, error)
	ExtractText(ctx context.Context, filePath, documentType string) (json.RawMessage, error)
	Summarize(ctx context.Context, text string, maxLength int) (json.RawMessage, error)
	Health(ctx context.Context) (json.RawMessage, error)
}

// Timeouts bounds each kind of call to the processor.
type Timeouts struct {
	Process time.Duration
	Status  time.Duration
	Health  time.Duration
}

// DefaultTimeouts returns the standard per-call bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Process: 30 * time.Second,
		Status:  10 * time.Second,
		Health:  5 * time.Second,
	}
}

// HTTPClient implements Client against the processor's HTTP API.
type HTTPClient struct {
	baseURL    string
	timeouts   Timeouts
	httpClient *http.Client
}

// NewHTTPClient constructs a client for the given base URL. An empty base
// URL yields a client whose every call reports the service unavailable.
func NewHTTPClient(baseURL string, timeouts Timeouts) *HTTPClient {
	if timeouts.Process <= 0 {
		timeouts.Process = 30 * time.Second
	}
	if timeouts.Status <= 0 {
		timeouts.Status = 10 * time.Second
	}
	if timeouts.Health <= 0 {
		timeouts.Health = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		timeouts:   timeouts,
		httpClient: &http.Client{},
	}
}

// Process sends a document for text extraction and summarization.
func (c *HTTPClient) Process(ctx context.Context, documentID, filePath string, options map[string]any) (json.RawMessage, error) {
	if options == nil {
		options = map[string]any{}
	}
	return c.post(ctx, "/process-document", c.timeouts.Process, map[string]any{
		"documentId": documentID,
		"filePath":   filePath,
		"options":    options,
	})
}

// Status queries processing status for a document.
func (c *HTTPClient) Status(ctx context.Context, documentID string) (json.RawMessage, error) {
	return c.get(ctx, "/status/"+documentID, c.timeouts.Status)
}

// ExtractText requests raw text extraction for a stored file.
func (c *HTTPClient) ExtractText(ctx context.Context, filePath, documentType string) (json.RawMessage, error) {
	return c.post(ctx, "/extract-text", c.timeouts.Process, map[string]any{
		"filePath":     filePath,
		"documentType": documentType,
	})
}

// Summarize requests a summary of the given text.
func (c *HTTPClient) Summarize(ctx context.Context, text string, maxLength int) (json.RawMessage, error) {
	if maxLength <= 0 {
		maxLength = 200
	}
	return c.post(ctx, "/summarize", c.timeouts.Process, map[string]any{
		"text":      text,
		"maxLength": maxLength,
	})
}

// Health checks the processor's liveness endpoint.
func (c *HTTPClient) Health(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/health", c.timeouts.Health)
}

func (c *HTTPClient) post(ctx context.Context, path string, timeout time.Duration, body map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, timeout, bytes.NewReader(payload))
}

func (c *HTTPClient) get(ctx context.Context, path string, timeout time.Duration) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, timeout, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, timeout time.Duration, body io.Reader) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: processing service URL is not configured", apperr.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, syscall.ECONNREFUSED):
			return nil, fmt.Errorf("%w: processing service is not reachable", apperr.ErrUnavailable)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("processing request timed out after %s", timeout)
		default:
			return nil, fmt.Errorf("processing request failed: %w", err)
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read processing response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("processing service returned status %d: %s", resp.StatusCode, snippet(data))
	}
	if len(data) == 0 || !json.Valid(data) {
		return nil, fmt.Errorf("processing service returned a malformed response")
	}
	return data, nil
}

func snippet(data []byte) string {
	const max = 200
	s := string(data)
	if len(s) > max {
		s = s[:max]
	}
	return s
}

var _ Client = (*HTTPClient)(nil)
