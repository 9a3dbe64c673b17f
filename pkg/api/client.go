package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

var ErrNoChoices = errors.New("completion returned no choices")

// StatusError is returned when a collaborator answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, truncate(string(e.Body), 200))
}

// Details decodes the body as JSON when possible, for passing upstream errors through.
func (e *StatusError) Details() interface{} {
	var v interface{}
	if err := json.Unmarshal(e.Body, &v); err == nil {
		return v
	}
	return map[string]string{"error": "Unknown error"}
}

// postJSON sends payload to endpoint and decodes a 200 response into out.
func postJSON(client *fasthttp.Client, endpoint, apiKey string, timeout time.Duration, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "llmstxt-go/1.0")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.SetBody(body)

	if err := client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		b := make([]byte, len(resp.Body()))
		copy(b, resp.Body())
		return &StatusError{StatusCode: resp.StatusCode(), Body: b}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newFastHTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		ReadTimeout:         120 * time.Second,
		WriteTimeout:        30 * time.Second,
		MaxIdleConnDuration: 90 * time.Second,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
