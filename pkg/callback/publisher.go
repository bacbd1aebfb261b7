// Package callback delivers the final result of a finished engagement to an
// external evaluation endpoint as a JSON POST, authenticated with the same
// x-api-key scheme the inbound API uses.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dagger-5328/honeytrap/pkg/httputil"
	"github.com/dagger-5328/honeytrap/pkg/session"
)

// Result is the final-result wire payload.
type Result struct {
	SessionID              string          `json:"sessionId"`
	ScamDetected           bool            `json:"scamDetected"`
	TotalMessagesExchanged int             `json:"totalMessagesExchanged"`
	ExtractedIntelligence  session.Harvest `json:"extractedIntelligence"`
	AgentNotes             string          `json:"agentNotes"`
}

const (
	defaultMaxAttempts = 3
	defaultMaxInflight = 8
)

// Client posts final results with bounded retries. Zero-value unusable;
// build with NewClient.
type Client struct {
	url         string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
	inflight    *httputil.Semaphore
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the x-api-key header value.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient overrides the shared standard-tier client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxAttempts bounds delivery retries.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between attempts; attempt n waits n times
// this long.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) { c.backoff = d }
}

// WithMaxInflight caps concurrent deliveries against the endpoint.
func WithMaxInflight(n int) ClientOption {
	return func(c *Client) { c.inflight = httputil.NewSemaphore(n) }
}

// NewClient builds a publisher for the given endpoint URL.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:         url,
		httpClient:  httputil.Client(httputil.TierStandard),
		maxAttempts: defaultMaxAttempts,
		backoff:     time.Second,
		inflight:    httputil.NewSemaphore(defaultMaxInflight),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish delivers one result, retrying transient failures. A 4xx status is
// permanent and fails immediately; 5xx and transport errors are retried up
// to the attempt budget.
func (c *Client) Publish(ctx context.Context, result Result) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("callback: encode result: %w", err)
	}

	// The cap covers the whole retry loop: one slow endpoint must not let
	// ending sessions pile up goroutines.
	if err := c.inflight.Acquire(ctx); err != nil {
		return fmt.Errorf("callback: deliver result for session %s: %w",
			result.SessionID, err)
	}
	defer c.inflight.Release()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(time.Duration(attempt-1) * c.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if perm, ok := lastErr.(*permanentError); ok {
			return fmt.Errorf("callback: deliver result for session %s: %w",
				result.SessionID, perm)
		}
		log.Printf("callback: attempt %d/%d for session %s failed: %v",
			attempt, c.maxAttempts, result.SessionID, lastErr)
	}
	return fmt.Errorf("callback: deliver result for session %s: %w",
		result.SessionID, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer httputil.DrainAndClose(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg, _ := httputil.ReadErrorBody(resp.Body)
		return &permanentError{status: resp.StatusCode, body: string(msg)}
	default:
		return fmt.Errorf("status %d", resp.StatusCode)
	}
}

type permanentError struct {
	status int
	body   string
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}
