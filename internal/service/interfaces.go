package service

import (
	"context"

	"llmstxt-go/pkg/sitemap"
)

type SitemapLocator interface {
	Locate(ctx context.Context, baseOrigin string) (*sitemap.Reference, error)
}

type SitemapCollector interface {
	CollectWithStats(ctx context.Context, sitemapURL, baseOrigin string) ([]string, sitemap.Stats)
}

// ManifestGenerator returns the manifest and the path (llm or fallback) that produced it.
type ManifestGenerator interface {
	GenerateWithPath(ctx context.Context, urls []string, domain string) (string, string)
}
