package parser

import (
	"context"
	"time"
)

// Document is the result of classifying one sitemap body.
type Document struct {
	PageURLs          []string
	NestedSitemapURLs []string
	IsIndex           bool
}

// DocumentParser turns raw sitemap XML into page and nested sitemap URLs.
// Implementations must be pure functions of their input.
type DocumentParser interface {
	Parse(xmlText string) Document
	Name() string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher performs a single timeout-bounded GET.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (*Response, error)
}
