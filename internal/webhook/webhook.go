// Package webhook posts extracted receipts to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError is the hook status reported for a failed delivery.
const StatusError = "ERROR"

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20
)

// DeliveryError reports a failed webhook call. StatusCode is zero when
// no response was received.
type DeliveryError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("webhook %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("webhook %s: %v", e.URL, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// HookStatus maps a Send result to the string recorded as the hook status:
// the response body on success, StatusError otherwise.
func HookStatus(body string, err error) string {
	if err != nil {
		return StatusError
	}
	return body
}

// Client sends JSON payloads to a fixed URL.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a Client with a default timeout
func NewClient(url string) *Client {
	return NewClientWithHTTP(url, &http.Client{Timeout: defaultTimeout})
}

// NewClientWithHTTP creates a Client with a custom http.Client for testing
func NewClientWithHTTP(url string, httpClient *http.Client) *Client {
	return &Client{url: url, httpClient: httpClient}
}

// Send POSTs payload as JSON and returns the response body.
func (c *Client) Send(ctx context.Context, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return "", &DeliveryError{URL: c.url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &DeliveryError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &DeliveryError{URL: c.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &DeliveryError{URL: c.url, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}
