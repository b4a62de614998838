// Package client provides a Go client for the suds server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/engine"
	"github.com/sudslabs/suds/internal/metrics"
)

// Client talks to a suds server over its JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. If baseURL is empty, the SUDS_SERVER_URL env var is
// used, falling back to localhost:8080. The request timeout can be set via
// SUDS_CLIENT_TIMEOUT (default 30s).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("SUDS_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("SUDS_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a structured error response from the server.
type APIError struct {
	Status           int                 `json:"-"`
	Code             string              `json:"error"`
	Message          string              `json:"message"`
	Suggestions      []engine.Suggestion `json:"suggestions,omitempty"`
	AvailableMethods []string            `json:"available_methods,omitempty"`
	RetryAfter       int                 `json:"retry_after,omitempty"`
	RequestID        string              `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// do executes one JSON request. body may be nil for GET requests.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("server error: %s - %s", resp.Status, string(data))
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Plan requests a workflow for the given scenario.
func (c *Client) Plan(ctx context.Context, req engine.Request) (*engine.Workflow, error) {
	var wf engine.Workflow
	if err := c.do(ctx, http.MethodPost, "/v1/workflows", req, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// Methods returns the scored method candidates for a surface × dirt
// combination.
func (c *Client) Methods(ctx context.Context, surface, dirt string) ([]engine.MethodCandidate, error) {
	var result struct {
		Candidates []engine.MethodCandidate `json:"candidates"`
	}
	path := fmt.Sprintf("/v1/methods?surface=%s&dirt=%s", url.QueryEscape(surface), url.QueryEscape(dirt))
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Candidates, nil
}

// Similar returns scenarios near the given combination, best first.
func (c *Client) Similar(ctx context.Context, surface, dirt string, limit int) ([]corpus.SimilarScenario, error) {
	var result struct {
		Scenarios []corpus.SimilarScenario `json:"scenarios"`
	}
	path := fmt.Sprintf("/v1/scenarios/similar?surface=%s&dirt=%s&limit=%d",
		url.QueryEscape(surface), url.QueryEscape(dirt), limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Scenarios, nil
}

// StatsResult combines corpus totals with the server's runtime metrics.
type StatsResult struct {
	Corpus  *corpus.Stats    `json:"corpus"`
	Metrics metrics.Snapshot `json:"metrics"`
}

// Stats returns corpus totals and the server metrics snapshot.
func (c *Client) Stats(ctx context.Context) (*StatsResult, error) {
	var result StatsResult
	if err := c.do(ctx, http.MethodGet, "/v1/corpus/stats", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Document returns one corpus document with its steps and tools.
func (c *Client) Document(ctx context.Context, id string) (*corpus.Document, error) {
	var doc corpus.Document
	if err := c.do(ctx, http.MethodGet, "/v1/documents/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Health reports whether the server responds on its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: %s", resp.Status)
	}
	return nil
}

// Stream event types, matching the server.
const (
	EventPhase    = "phase"
	EventComplete = "complete"
	EventError    = "error"
)

// StreamEvent is one message on the planning progress stream. It mirrors
// the server's wire format.
type StreamEvent struct {
	Type     string           `json:"type"`
	Phase    string           `json:"phase,omitempty"`
	Detail   string           `json:"detail,omitempty"`
	Workflow *engine.Workflow `json:"workflow,omitempty"`
	Error    *APIError        `json:"error,omitempty"`
}

// PlanStream plans a workflow over the WebSocket progress endpoint. The
// onEvent callback receives every phase event; the final workflow is
// returned once the server signals completion.
func (c *Client) PlanStream(ctx context.Context, req engine.Request, onEvent func(StreamEvent)) (*engine.Workflow, error) {
	wsURL := c.baseURL + "/v1/workflows/stream"
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connect: %w", err)
	}

	var mu sync.Mutex
	closed := false
	closeConn := func() {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			conn.Close()
		}
	}
	defer closeConn()

	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("send plan request: %w", err)
	}

	// Close the connection when the caller cancels so the blocked read
	// below returns.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-done:
		}
	}()

	for {
		var ev StreamEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read event: %w", err)
		}
		if onEvent != nil {
			onEvent(ev)
		}

		switch ev.Type {
		case EventComplete:
			if ev.Workflow == nil {
				return nil, fmt.Errorf("server sent complete event without a workflow")
			}
			return ev.Workflow, nil
		case EventError:
			if ev.Error != nil {
				return nil, ev.Error
			}
			return nil, fmt.Errorf("server sent error event without details")
		}
	}
}
