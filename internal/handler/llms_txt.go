package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"llmstxt-go/internal/service"
	"llmstxt-go/pkg/sitemap"
)

const maxReturnedLevel1URLs = 100

type generateStats struct {
	TotalURLs  int    `json:"totalUrls"`
	Level1URLs int    `json:"level1Urls"`
	SitemapURL string `json:"sitemapUrl"`
}

type generateResponse struct {
	Success    bool          `json:"success"`
	Content    string        `json:"content"`
	Stats      generateStats `json:"stats"`
	Level1URLs []string      `json:"level1Urls"`
}

// GenerateLLMsTxt handles POST /api/generate-llms-txt.
func (c *Controller) GenerateLLMsTxt(ctx *fiber.Ctx) error {
	target, ok, err := parseTarget(ctx)
	if !ok {
		return err
	}

	result, err := c.generation.Generate(ctx.UserContext(), target, requestLogger(ctx))
	if err != nil {
		return generationFailure(ctx, err)
	}

	returned := result.Level1URLs
	if len(returned) > maxReturnedLevel1URLs {
		returned = returned[:maxReturnedLevel1URLs]
	}

	return ctx.JSON(generateResponse{
		Success: true,
		Content: result.Content,
		Stats: generateStats{
			TotalURLs:  result.TotalURLs,
			Level1URLs: len(result.Level1URLs),
			SitemapURL: result.SitemapURL,
		},
		Level1URLs: returned,
	})
}

func generationFailure(ctx *fiber.Ctx, err error) error {
	var locErr *sitemap.LocateError
	var emptyErr *service.EmptySitemapError
	var level1Err *service.NoLevel1Error

	switch {
	case errors.As(err, &locErr):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":         locErr.Message(),
			"errorType":     locErr.Type,
			"errorDetails":  nonNil(locErr.Details),
			"sitemapUrl":    locErr.SitemapURL,
			"sitemapSource": locErr.Source,
		})
	case errors.As(err, &emptyErr):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":        "No URLs found in sitemap. Please ensure the website has a valid sitemap.xml file.",
			"errorType":    sitemap.ErrEmptySitemap,
			"errorDetails": nonNil(emptyErr.Details),
			"sitemapUrl":   emptyErr.SitemapURL,
		})
	case errors.As(err, &level1Err):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":      "No level 1 paths found. The sitemap may only contain nested paths.",
			"totalUrls":  level1Err.TotalURLs,
			"sampleUrls": nonNil(level1Err.SampleURLs),
		})
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
