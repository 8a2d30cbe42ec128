// Package remote talks to the quiz backend over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sanskrit-quiz-service/internal/domain"
)

const maxBody = 1 << 20

// Client is the shared HTTP plumbing of the adapters.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// call sends body (when non-nil) as JSON and returns the response status and
// raw body. Only network and encoding problems are errors here.
func (c *Client) call(ctx context.Context, op, method, path, token string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &domain.TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, &domain.TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, data, nil
}

// getPayload fetches a question payload. A body carrying an "error" field is
// a SemanticError whatever the status; other failures are TransportErrors.
func (c *Client) getPayload(ctx context.Context, op, path string, v interface{}) error {
	status, data, err := c.call(ctx, op, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if msg := errorField(data); msg != "" {
		return &domain.SemanticError{Op: op, Message: msg}
	}
	if status < 200 || status > 299 {
		return &domain.TransportError{Op: op, Status: status}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.TransportError{Op: op, Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func errorField(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.Error
}
