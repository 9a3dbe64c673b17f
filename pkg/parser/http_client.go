package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/fasthttp"

	"llmstxt-go/pkg/logger"
)

const (
	DefaultUserAgent    = "Mozilla/5.0 (compatible; llmstxt-go/1.0; +https://llmstxt.org)"
	DefaultMaxBodyBytes = 50 << 20
	maxRedirects        = 5
)

var gzipMagic = []byte{0x1f, 0x8b}

// HTTPClientConfig tunes the shared fasthttp client.
type HTTPClientConfig struct {
	UserAgent    string
	MaxBodyBytes int
}

// HTTPClient provides a shared fasthttp client for robots.txt and sitemap reads
type HTTPClient struct {
	client    *fasthttp.Client
	userAgent string
	maxBody   int
	log       *logger.Logger
}

// NewHTTPClient creates a new HTTP client for sitemap fetching
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &HTTPClient{
		client: &fasthttp.Client{
			Name:                cfg.UserAgent,
			MaxResponseBodySize: cfg.MaxBodyBytes,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        30 * time.Second,
			MaxIdleConnDuration: 90 * time.Second,
		},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		log:       logger.GetLogger().WithField("component", "http_client"),
	}
}

// Fetch performs a GET bounded by timeout and by ctx's deadline, whichever
// comes first. Redirects are followed. Non-2xx statuses are not errors; the
// caller decides what a usable response is.
func (h *HTTPClient) Fetch(ctx context.Context, targetURL string, timeout time.Duration) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(targetURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(h.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.SetTimeout(timeout)

	if err := h.client.DoRedirects(req, resp, maxRedirects); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := h.readBody(targetURL, resp)
	if err != nil {
		return nil, err
	}

	h.log.WithFields(map[string]interface{}{
		"url":    targetURL,
		"status": resp.StatusCode(),
		"size":   len(body),
	}).Debug("Fetched")

	return &Response{
		StatusCode:  resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        body,
	}, nil
}

func (h *HTTPClient) readBody(targetURL string, resp *fasthttp.Response) ([]byte, error) {
	raw := resp.Body()

	if h.isGzipped(targetURL, resp) && bytes.HasPrefix(raw, gzipMagic) {
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()

		body, err := io.ReadAll(io.LimitReader(gz, int64(h.maxBody)))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress body: %w", err)
		}
		return body, nil
	}

	body := make([]byte, len(raw))
	copy(body, raw)
	return body, nil
}

// isGzipped checks if the content is gzipped
func (h *HTTPClient) isGzipped(targetURL string, resp *fasthttp.Response) bool {
	return strings.HasSuffix(strings.ToLower(targetURL), ".gz") ||
		strings.EqualFold(string(resp.Header.ContentEncoding()), "gzip")
}
