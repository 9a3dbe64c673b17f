package extractor

import (
	"net/url"
	"strings"
)

// Level1Filter keeps same-site URLs whose path has exactly one segment.
// "www." on either side is ignored; any other subdomain is a different site.
type Level1Filter struct {
	host string
}

// NewLevel1Filter parses domainOrigin once. An unparsable origin yields a
// filter that rejects everything.
func NewLevel1Filter(domainOrigin string) *Level1Filter {
	u, err := url.Parse(domainOrigin)
	if err != nil {
		return &Level1Filter{}
	}
	return &Level1Filter{host: strings.ToLower(u.Hostname())}
}

func (f *Level1Filter) Name() string {
	return "level1"
}

// Matches reports whether rawURL is a level-1 page of the filter's site.
func (f *Level1Filter) Matches(rawURL string) bool {
	if f.host == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !SameSite(strings.ToLower(u.Hostname()), f.host) {
		return false
	}
	return len(PathSegments(u.EscapedPath())) == 1
}

// Apply filters urls preserving input order; duplicates pass through.
func (f *Level1Filter) Apply(urls []string) []string {
	filtered := make([]string, 0, len(urls))
	for _, u := range urls {
		if f.Matches(u) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// FilterLevel1 is the one-shot form of Level1Filter.
func FilterLevel1(urls []string, domainOrigin string) []string {
	return NewLevel1Filter(domainOrigin).Apply(urls)
}

// SameSite compares hostnames treating a single leading "www." as insignificant.
func SameSite(candidate, domain string) bool {
	return candidate == domain ||
		candidate == "www."+domain ||
		"www."+candidate == domain
}

// TrimPath strips all leading and trailing slashes.
func TrimPath(p string) string {
	return strings.Trim(p, "/")
}

// PathSegments splits a URL path into its non-empty segments.
func PathSegments(p string) []string {
	parts := strings.Split(TrimPath(p), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
