package sitemap

import (
	"context"
	"time"

	"llmstxt-go/pkg/logger"
	"llmstxt-go/pkg/metrics"
	"llmstxt-go/pkg/parser"
)

// DefaultMaxDepth caps nesting below the root sitemap. Real sitemap trees are
// one or two levels deep; the visited set already stops cycles.
const DefaultMaxDepth = 5

// VisitedSet holds the sitemap URLs fetched during one traversal.
type VisitedSet map[string]struct{}

func NewVisitedSet() VisitedSet {
	return make(VisitedSet)
}

func (v VisitedSet) Has(u string) bool {
	_, ok := v[u]
	return ok
}

func (v VisitedSet) Add(u string) {
	v[u] = struct{}{}
}

// Stats summarises one traversal.
type Stats struct {
	SitemapsFetched int `json:"sitemapsFetched"`
	SitemapsFailed  int `json:"sitemapsFailed"`
	SitemapsSkipped int `json:"sitemapsSkipped"`
}

type CollectorConfig struct {
	Parser  parser.DocumentParser
	Timeout time.Duration
	// MaxDepth <= 0 disables the cap.
	MaxDepth int
}

// Collector walks sitemap index trees depth-first and flattens them into page URLs.
type Collector struct {
	fetcher  parser.Fetcher
	parser   parser.DocumentParser
	timeout  time.Duration
	maxDepth int
	log      *logger.Logger
}

func NewCollector(fetcher parser.Fetcher, cfg CollectorConfig) *Collector {
	if cfg.Parser == nil {
		cfg.Parser = parser.NewLenientParser()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeouts().Sitemap
	}
	return &Collector{
		fetcher:  fetcher,
		parser:   cfg.Parser,
		timeout:  cfg.Timeout,
		maxDepth: cfg.MaxDepth,
		log:      logger.GetLogger().WithField("component", "sitemap_collector"),
	}
}

// CollectWithStats runs one traversal with a fresh visited set.
func (c *Collector) CollectWithStats(ctx context.Context, sitemapURL, baseOrigin string) ([]string, Stats) {
	var stats Stats
	urls := c.collect(ctx, sitemapURL, baseOrigin, NewVisitedSet(), 0, &stats)
	return urls, stats
}

// Collect returns every page URL reachable from sitemapURL in first-discovery
// order. Duplicates across leaf sitemaps are kept. A sitemap already in
// visited contributes nothing. Failures of individual nodes are logged and
// absorbed so sibling branches still contribute.
func (c *Collector) Collect(ctx context.Context, sitemapURL, baseOrigin string, visited VisitedSet) []string {
	var stats Stats
	return c.collect(ctx, sitemapURL, baseOrigin, visited, 0, &stats)
}

func (c *Collector) collect(ctx context.Context, sitemapURL, baseOrigin string, visited VisitedSet, depth int, stats *Stats) []string {
	if visited.Has(sitemapURL) {
		metrics.SitemapFetches.WithLabelValues(metrics.OutcomeVisited).Inc()
		stats.SitemapsSkipped++
		return nil
	}
	if c.maxDepth > 0 && depth > c.maxDepth {
		c.log.WithFields(map[string]interface{}{
			"sitemap": sitemapURL,
			"depth":   depth,
		}).Warn("Sitemap nesting too deep, skipping")
		metrics.SitemapFetches.WithLabelValues(metrics.OutcomeDepthLimit).Inc()
		stats.SitemapsSkipped++
		return nil
	}
	visited.Add(sitemapURL)

	log := c.log.WithFields(map[string]interface{}{
		"sitemap": sitemapURL,
		"origin":  baseOrigin,
		"depth":   depth,
	})

	if ctx.Err() != nil {
		log.Debug("Traversal cancelled")
		stats.SitemapsFailed++
		return nil
	}

	resp, err := c.fetcher.Fetch(ctx, sitemapURL, c.timeout)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch sitemap")
		metrics.SitemapFetches.WithLabelValues(metrics.OutcomeFetchError).Inc()
		stats.SitemapsFailed++
		return nil
	}
	if !resp.OK() {
		log.WithField("status", resp.StatusCode).Warn("Failed to fetch sitemap")
		metrics.SitemapFetches.WithLabelValues(metrics.OutcomeHTTPError).Inc()
		stats.SitemapsFailed++
		return nil
	}

	body := parser.DecodeBody(resp.Body)
	if !parser.IsSitemapContent(body) {
		log.Warn("Not a valid XML sitemap")
		metrics.SitemapFetches.WithLabelValues(metrics.OutcomeNotXML).Inc()
		stats.SitemapsFailed++
		return nil
	}

	metrics.SitemapFetches.WithLabelValues(metrics.OutcomeOK).Inc()
	stats.SitemapsFetched++

	doc := c.parser.Parse(body)
	log.WithFields(map[string]interface{}{
		"pages":  len(doc.PageURLs),
		"nested": len(doc.NestedSitemapURLs),
	}).Debug("Parsed sitemap")

	urls := make([]string, 0, len(doc.PageURLs))
	urls = append(urls, doc.PageURLs...)

	for _, nested := range doc.NestedSitemapURLs {
		urls = append(urls, c.collect(ctx, nested, baseOrigin, visited, depth+1, stats)...)
	}

	return urls
}
