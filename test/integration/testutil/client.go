package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// Identity is the caller the gateway would have authenticated. The suite
// forwards it as the trusted identity headers the service reads.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// Client wraps http.Client with test-friendly methods.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Response wraps an HTTP response with its fully read body.
type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target interface{}) error {
	return json.Unmarshal(r.Body, target)
}

func (c *Client) GET(t *testing.T, path string, as *Identity) *Response {
	t.Helper()
	return c.request(t, http.MethodGet, path, nil, as)
}

func (c *Client) POST(t *testing.T, path string, body interface{}, as *Identity) *Response {
	t.Helper()
	return c.request(t, http.MethodPost, path, body, as)
}

func (c *Client) PATCH(t *testing.T, path string, body interface{}, as *Identity) *Response {
	t.Helper()
	return c.request(t, http.MethodPatch, path, body, as)
}

func (c *Client) DELETE(t *testing.T, path string, as *Identity) *Response {
	t.Helper()
	return c.request(t, http.MethodDelete, path, nil, as)
}

func (c *Client) request(t *testing.T, method, path string, body interface{}, as *Identity) *Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("X-User-ID", as.ID)
		req.Header.Set("X-User-Email", as.Email)
		req.Header.Set("X-User-Name", as.Name)
		req.Header.Set("X-User-Role", as.Role)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}
}

// WaitForHealthy polls the health endpoint until the service is ready.
func (c *Client) WaitForHealthy(t *testing.T, maxWait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		<-ticker.C
	}

	t.Fatalf("service did not become healthy within %v", maxWait)
}

// AssertStatusCode fails the test if the status code doesn't match.
func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(resp.Body))
	}
}

// AssertErrorContains fails if the error message doesn't contain substr.
func AssertErrorContains(t *testing.T, resp *Response, substr string) {
	t.Helper()
	var errResp struct {
		Error string `json:"error"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v. Body: %s", err, string(resp.Body))
	}
	if !strings.Contains(errResp.Error, substr) {
		t.Fatalf("error %q does not contain %q", errResp.Error, substr)
	}
}
