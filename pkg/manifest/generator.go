package manifest

import (
	"context"
	"errors"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"llmstxt-go/pkg/api"
	"llmstxt-go/pkg/logger"
	"llmstxt-go/pkg/metrics"
)

// DefaultMaxPromptURLs bounds how many URLs are listed in the prompt.
const DefaultMaxPromptURLs = 50

// ErrMalformedOutput is returned when model output has no top-level heading.
var ErrMalformedOutput = errors.New("generated manifest has no title heading")

type Config struct {
	MaxPromptURLs     int
	FallbackPageLimit int
}

// Generator produces an llms.txt manifest. With no text generator configured
// every call takes the fallback path.
type Generator struct {
	llm    api.TextGenerator
	config Config
	md     goldmark.Markdown
	log    *logger.Logger
}

func NewGenerator(llm api.TextGenerator, config Config) *Generator {
	if config.MaxPromptURLs <= 0 {
		config.MaxPromptURLs = DefaultMaxPromptURLs
	}
	if config.FallbackPageLimit <= 0 {
		config.FallbackPageLimit = DefaultFallbackPageLimit
	}
	return &Generator{
		llm:    llm,
		config: config,
		md:     goldmark.New(),
		log:    logger.GetLogger().WithField("component", "manifest_generator"),
	}
}

// Generate never fails: any problem on the model path yields the fallback.
func (g *Generator) Generate(ctx context.Context, urls []string, domain string) string {
	content, _ := g.GenerateWithPath(ctx, urls, domain)
	return content
}

// GenerateWithPath also reports which path produced the manifest.
func (g *Generator) GenerateWithPath(ctx context.Context, urls []string, domain string) (string, string) {
	if g.llm != nil {
		content, err := g.fromModel(ctx, urls, domain)
		if err == nil {
			metrics.ManifestsGenerated.WithLabelValues(metrics.PathLLM).Inc()
			return content, metrics.PathLLM
		}
		g.log.WithError(err).WithField("domain", domain).Warn("Model generation failed, using fallback")
	}

	metrics.ManifestsGenerated.WithLabelValues(metrics.PathFallback).Inc()
	return Fallback(urls, domain, g.config.FallbackPageLimit), metrics.PathFallback
}

func (g *Generator) fromModel(ctx context.Context, urls []string, domain string) (string, error) {
	raw, err := g.llm.Complete(ctx, BuildPrompt(urls, domain, g.config.MaxPromptURLs))
	if err != nil {
		return "", err
	}

	content := StripCodeFences(raw)
	if !g.hasTitle(content) {
		return "", ErrMalformedOutput
	}
	return content, nil
}

func (g *Generator) hasTitle(content string) bool {
	src := []byte(content)
	doc := g.md.Parser().Parse(text.NewReader(src))

	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}
