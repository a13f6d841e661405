// Package platform is the HTTP client for the remote backend that owns all
// real business logic: listings, moderation workflow, image storage,
// geocoding, the position auction and balance accounting. This service never
// implements any of that — it only calls it with the session's bearer token.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	geocodeURL string
	httpClient *http.Client
}

func NewClient(baseURL, geocodeURL string, timeout time.Duration) *Client {
	if geocodeURL == "" {
		geocodeURL = baseURL
	}
	return &Client{
		baseURL:    baseURL,
		geocodeURL: geocodeURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx platform reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("platform: %s (HTTP %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("platform: HTTP %d", e.Status)
}

// doJSON issues a request and decodes the JSON reply into out (if non-nil).
// The token goes into the Authorization header on every call.
func (c *Client) doJSON(ctx context.Context, method, url, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}
