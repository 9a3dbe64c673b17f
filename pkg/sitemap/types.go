package sitemap

import (
	"fmt"
	"strings"
	"time"
)

// Source records where a sitemap URL was discovered.
type Source string

const (
	SourceRobotsTxt        Source = "robots.txt"
	SourceStandardLocation Source = "standard-location"
)

// Reference is the sitemap chosen for one top-level request.
type Reference struct {
	URL         string   `json:"sitemapUrl"`
	Source      Source   `json:"sitemapSource"`
	Verified    bool     `json:"verified"`
	Diagnostics []string `json:"diagnostics"`
}

// ErrorType distinguishes why a sitemap could not be resolved.
type ErrorType string

const (
	ErrSitemapNotAccessible ErrorType = "sitemap_not_accessible"
	ErrSitemapNotFound      ErrorType = "sitemap_not_found"
	ErrEmptySitemap         ErrorType = "empty_sitemap"
)

// LocateError is returned when the candidate sitemap fails verification.
type LocateError struct {
	Type       ErrorType
	SitemapURL string
	Source     Source
	Details    []string
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Type, e.SitemapURL, strings.Join(e.Details, "; "))
}

// Message is the user-facing explanation for the failure.
func (e *LocateError) Message() string {
	if e.Type == ErrSitemapNotAccessible {
		return fmt.Sprintf("The sitemap listed in robots.txt (%s) could not be accessed or is not a valid XML sitemap.", e.SitemapURL)
	}
	return fmt.Sprintf("No sitemap was found. robots.txt has no Sitemap directive and %s is missing or not a valid XML sitemap.", e.SitemapURL)
}

// Timeouts bounds each network read made while resolving a sitemap.
type Timeouts struct {
	Robots  time.Duration
	Verify  time.Duration
	Sitemap time.Duration
}

// DefaultTimeouts returns 5s for robots.txt and verification, 10s per sitemap body.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Robots:  5 * time.Second,
		Verify:  5 * time.Second,
		Sitemap: 10 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Robots <= 0 {
		t.Robots = d.Robots
	}
	if t.Verify <= 0 {
		t.Verify = d.Verify
	}
	if t.Sitemap <= 0 {
		t.Sitemap = d.Sitemap
	}
	return t
}
