package service

import (
	"context"
	"fmt"
	"time"

	"llmstxt-go/pkg/extractor"
	"llmstxt-go/pkg/logger"
	"llmstxt-go/pkg/sitemap"
)

// EmptySitemapError means the sitemap resolved but yielded no page URLs.
type EmptySitemapError struct {
	SitemapURL string
	Details    []string
}

func (e *EmptySitemapError) Error() string {
	return fmt.Sprintf("no URLs found in sitemap %s", e.SitemapURL)
}

// NoLevel1Error means pages were found but none sit one path segment deep.
type NoLevel1Error struct {
	TotalURLs  int
	SampleURLs []string
}

func (e *NoLevel1Error) Error() string {
	return fmt.Sprintf("no level 1 paths among %d urls", e.TotalURLs)
}

type GenerationResult struct {
	Content    string
	Path       string
	SitemapURL string
	TotalURLs  int
	Level1URLs []string
}

// GenerationService runs locate, collect, filter and generate for one site.
type GenerationService struct {
	locator   SitemapLocator
	collector SitemapCollector
	generator ManifestGenerator
}

func NewGenerationService(locator SitemapLocator, collector SitemapCollector, generator ManifestGenerator) *GenerationService {
	return &GenerationService{
		locator:   locator,
		collector: collector,
		generator: generator,
	}
}

// Generate returns a *sitemap.LocateError, *EmptySitemapError or
// *NoLevel1Error for the terminal conditions.
func (s *GenerationService) Generate(ctx context.Context, target Target, log *logger.Logger) (*GenerationResult, error) {
	log = log.WithField("domain", target.Domain)
	started := time.Now()

	log.Debug("Locating sitemap")
	ref, err := s.locator.Locate(ctx, target.Origin)
	if err != nil {
		return nil, err
	}
	log.WithFields(map[string]interface{}{
		"sitemap_url": ref.URL,
		"source":      string(ref.Source),
	}).Info("Sitemap located")

	urls, stats := s.collector.CollectWithStats(ctx, ref.URL, target.Origin)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.WithFields(map[string]interface{}{
		"total_urls":       len(urls),
		"sitemaps_fetched": stats.SitemapsFetched,
		"sitemaps_failed":  stats.SitemapsFailed,
	}).Info("Sitemap traversal finished")

	if len(urls) == 0 {
		details := append([]string{}, ref.Diagnostics...)
		details = append(details,
			fmt.Sprintf("Sitemap %s was found but no page URLs could be collected from it", ref.URL),
			fmt.Sprintf("%d sitemap(s) fetched, %d failed, %d skipped", stats.SitemapsFetched, stats.SitemapsFailed, stats.SitemapsSkipped),
		)
		return nil, &EmptySitemapError{SitemapURL: ref.URL, Details: details}
	}

	var filter extractor.Filter = extractor.NewLevel1Filter(target.Origin)
	level1 := filter.Apply(urls)
	if len(level1) == 0 {
		return nil, &NoLevel1Error{TotalURLs: len(urls), SampleURLs: head(urls, 5)}
	}

	content, path := s.generator.GenerateWithPath(ctx, level1, target.Domain)

	log.WithFields(map[string]interface{}{
		"level1_urls": len(level1),
		"filter":      filter.Name(),
		"path":        path,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("llms.txt generated")

	return &GenerationResult{
		Content:    content,
		Path:       path,
		SitemapURL: ref.URL,
		TotalURLs:  len(urls),
		Level1URLs: level1,
	}, nil
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

var _ SitemapLocator = (*sitemap.Locator)(nil)
var _ SitemapCollector = (*sitemap.Collector)(nil)
