package sitemap

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/temoto/robotstxt"

	"llmstxt-go/pkg/logger"
	"llmstxt-go/pkg/metrics"
	"llmstxt-go/pkg/parser"
)

const sitemapDirective = "sitemap:"

// Locator decides which sitemap URL a site advertises.
type Locator struct {
	fetcher  parser.Fetcher
	timeouts Timeouts
	log      *logger.Logger
}

func NewLocator(fetcher parser.Fetcher, timeouts Timeouts) *Locator {
	return &Locator{
		fetcher:  fetcher,
		timeouts: timeouts.withDefaults(),
		log:      logger.GetLogger().WithField("component", "sitemap_locator"),
	}
}

// Locate resolves the sitemap for baseOrigin (scheme://host, no trailing
// slash). robots.txt wins when it declares one; otherwise /sitemap.xml is
// tried. The candidate must answer 2xx with XML content, and there is no
// further fallback when it does not.
func (l *Locator) Locate(ctx context.Context, baseOrigin string) (*Reference, error) {
	baseOrigin = strings.TrimRight(baseOrigin, "/")
	ref := &Reference{}

	robotsURL := baseOrigin + "/robots.txt"
	sitemapURL, diag := l.fromRobots(ctx, robotsURL)
	if sitemapURL != "" {
		ref.URL = sitemapURL
		ref.Source = SourceRobotsTxt
		ref.Diagnostics = append(ref.Diagnostics, fmt.Sprintf("Found Sitemap directive in %s: %s", robotsURL, sitemapURL))
		l.log.WithField("sitemap", sitemapURL).Info("Found sitemap in robots.txt")
	} else {
		ref.URL = baseOrigin + "/sitemap.xml"
		ref.Source = SourceStandardLocation
		ref.Diagnostics = append(ref.Diagnostics, diag)
		ref.Diagnostics = append(ref.Diagnostics, fmt.Sprintf("Falling back to standard location %s", ref.URL))
		l.log.WithField("sitemap", ref.URL).Info("Sitemap not in robots.txt, using default")
	}

	if err := l.verify(ctx, ref.URL); err != nil {
		ref.Diagnostics = append(ref.Diagnostics, err.Error())

		errType := ErrSitemapNotFound
		if ref.Source == SourceRobotsTxt {
			errType = ErrSitemapNotAccessible
		}
		metrics.LocateFailures.WithLabelValues(string(errType)).Inc()

		return ref, &LocateError{
			Type:       errType,
			SitemapURL: ref.URL,
			Source:     ref.Source,
			Details:    ref.Diagnostics,
		}
	}

	ref.Verified = true
	return ref, nil
}

// fromRobots returns the first Sitemap directive, or a diagnostic saying why none was used.
func (l *Locator) fromRobots(ctx context.Context, robotsURL string) (string, string) {
	resp, err := l.fetcher.Fetch(ctx, robotsURL, l.timeouts.Robots)
	if err != nil {
		l.log.WithError(err).Debug("Could not fetch robots.txt")
		return "", fmt.Sprintf("Could not fetch %s: %v", robotsURL, err)
	}
	if !resp.OK() {
		return "", fmt.Sprintf("%s returned HTTP %d", robotsURL, resp.StatusCode)
	}

	if u := FirstSitemapDirective(resp.Body); u != "" {
		return u, ""
	}
	return "", fmt.Sprintf("No Sitemap directive found in %s", robotsURL)
}

// FirstSitemapDirective returns the first Sitemap: value of a robots.txt body.
func FirstSitemapDirective(body []byte) string {
	if data, err := robotstxt.FromBytes(body); err == nil {
		for _, s := range data.Sitemaps {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return scanSitemapDirective(string(body))
}

// scanSitemapDirective catches directives the robots.txt grammar rejects,
// such as an indented or inline "Sitemap:" entry.
func scanSitemapDirective(body string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		idx := strings.Index(strings.ToLower(line), sitemapDirective)
		if idx < 0 {
			continue
		}
		if v := strings.TrimSpace(line[idx+len(sitemapDirective):]); v != "" {
			return v
		}
	}
	return ""
}

func (l *Locator) verify(ctx context.Context, sitemapURL string) error {
	resp, err := l.fetcher.Fetch(ctx, sitemapURL, l.timeouts.Verify)
	if err != nil {
		return fmt.Errorf("could not fetch %s: %w", sitemapURL, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%s returned HTTP %d", sitemapURL, resp.StatusCode)
	}
	if !parser.IsSitemapContent(string(resp.Body)) {
		return fmt.Errorf("%s is not a valid XML sitemap", sitemapURL)
	}
	return nil
}
