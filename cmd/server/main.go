package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llmstxt-go/internal/config"
	"llmstxt-go/internal/handler"
	"llmstxt-go/internal/service"
	"llmstxt-go/pkg/api"
	"llmstxt-go/pkg/logger"
	"llmstxt-go/pkg/manifest"
	"llmstxt-go/pkg/parser"
	"llmstxt-go/pkg/sitemap"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "config/dev.yaml", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		logger.GetLogger().WithError(err).Fatal("Application failed")
	}
}

func (app *Application) Run() error {
	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if app.debug {
		cfg.Logger.Level = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))
	log := logger.GetLogger().WithField("component", "main")

	controller := app.buildController(cfg)

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		errChan <- controller.Listen(addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := controller.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func (app *Application) buildController(cfg *config.Config) *handler.Controller {
	log := logger.GetLogger().WithField("component", "main")

	fetcher := parser.NewHTTPClient(parser.HTTPClientConfig{
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})
	timeouts := sitemap.Timeouts{
		Robots:  config.Millis(cfg.Fetch.RobotsTimeoutMs),
		Verify:  config.Millis(cfg.Fetch.VerifyTimeoutMs),
		Sitemap: config.Millis(cfg.Fetch.SitemapTimeoutMs),
	}

	var llm api.TextGenerator
	if cfg.Generator.Enabled() {
		llm = api.NewChatClient(api.ChatConfig{
			Endpoint:    cfg.Generator.Endpoint,
			APIKey:      cfg.Generator.APIKey,
			Model:       cfg.Generator.Model,
			Temperature: cfg.Generator.Temperature,
			MaxTokens:   cfg.Generator.MaxTokens,
			Timeout:     config.Millis(cfg.Generator.TimeoutMs),
		})
	} else {
		log.Warn("No generator API key configured, manifests will use the fallback builder")
	}

	generation := service.NewGenerationService(
		sitemap.NewLocator(fetcher, timeouts),
		sitemap.NewCollector(fetcher, sitemap.CollectorConfig{
			Parser:   parser.NewDocumentParser(cfg.Sitemap.Parser),
			Timeout:  timeouts.Sitemap,
			MaxDepth: cfg.Sitemap.MaxDepth,
		}),
		manifest.NewGenerator(llm, manifest.Config{
			MaxPromptURLs:     cfg.Generator.MaxPromptURLs,
			FallbackPageLimit: cfg.Generator.FallbackPageLimit,
		}),
	)

	var scorer api.PageScorer
	var insights api.InsightProvider
	analysisTimeout := config.Millis(cfg.Analysis.TimeoutMs)
	if cfg.Analysis.ScorerEndpoint != "" {
		scorer = api.NewScoringClient(cfg.Analysis.ScorerEndpoint, analysisTimeout)
	}
	if cfg.Analysis.InsightEndpoint != "" {
		insights = api.NewInsightClient(cfg.Analysis.InsightEndpoint, analysisTimeout)
	}

	return handler.NewController(generation, service.NewAnalysisService(scorer, insights), handler.ControllerConfig{
		ReadTimeout:  config.Millis(cfg.Server.ReadTimeoutMs),
		WriteTimeout: config.Millis(cfg.Server.WriteTimeoutMs),
		HasLLMKey:    cfg.Generator.Enabled(),
	})
}
