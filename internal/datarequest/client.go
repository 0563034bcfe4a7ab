package datarequest

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

// Envelope is the JSON body returned by the data-access service.
type Envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Client is a thin HTTP client for the notifyd data-access service.
// Every call is a POST to {baseURL}/data/{category}/{operation}.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a data-access client. The token, when non-empty, is
// sent as a Bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Request implements Requester over HTTP.
func (c *Client) Request(
	ctx context.Context,
	category, operation string,
	payload, result any,
) error {
	path := "/data/" + url.PathEscape(category) + "/" + url.PathEscape(operation)

	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: executing POST %s: %v", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response body: %v", ErrRequestFailed, err)
	}

	var env Envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return fmt.Errorf("%w: decoding response (HTTP %d): %v", ErrRequestFailed, resp.StatusCode, err)
		}
	}

	if resp.StatusCode == http.StatusNotFound && strings.Contains(env.Error, ErrUnknownOperation.Error()) {
		return fmt.Errorf("%s/%s: %w", category, operation, ErrUnknownOperation)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: HTTP %d on POST %s: %s", ErrRequestFailed, resp.StatusCode, path, msg)
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}
