package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"llmstxt-go/internal/service"
	"llmstxt-go/pkg/logger"
	"llmstxt-go/pkg/metrics"
)

const (
	routeGenerate    = "/api/generate-llms-txt"
	routeAnalyze     = "/api/analyze"
	routeCheckConfig = "/api/check-config"
	routeHealth      = "/api/health"
	routeMetrics     = "/metrics"

	localLogger = "logger"
)

type Controller struct {
	app        *fiber.App
	generation *service.GenerationService
	analysis   *service.AnalysisService
	config     ControllerConfig
	log        *logger.Logger

	// base is the parent of every request context; cancelled on shutdown.
	base   context.Context
	cancel context.CancelFunc
}

type ControllerConfig struct {
	ReadTimeout time.Duration

	// WriteTimeout also bounds the work done for one request.
	WriteTimeout time.Duration

	// HasLLMKey is reported by the check-config route.
	HasLLMKey bool
}

func NewController(generation *service.GenerationService, analysis *service.AnalysisService, config ControllerConfig) *Controller {
	c := &Controller{
		generation: generation,
		analysis:   analysis,
		config:     config,
		log:        logger.GetLogger().WithField("component", "http"),
	}
	c.base, c.cancel = context.WithCancel(context.Background())

	c.app = fiber.New(fiber.Config{
		AppName:               "llmstxt-go",
		DisableStartupMessage: true,
		ReadTimeout:           config.ReadTimeout,
		WriteTimeout:          config.WriteTimeout,
		ErrorHandler:          errorHandler,
	})

	c.app.Use(c.requestContext)
	c.app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	c.app.Post(routeGenerate, c.GenerateLLMsTxt)
	c.app.Post(routeAnalyze, c.Analyze)
	c.app.Get(routeCheckConfig, c.CheckConfig)
	c.app.Get(routeHealth, c.Health)
	c.app.Get(routeMetrics, adaptor.HTTPHandler(metrics.Handler()))

	return c
}

func (c *Controller) App() *fiber.App {
	return c.app
}

func (c *Controller) Listen(addr string) error {
	c.log.WithField("addr", addr).Info("HTTP server listening")
	return c.app.Listen(addr)
}

// Shutdown drains in-flight requests. Once ctx expires their contexts are
// cancelled so pending sitemap fetches stop.
func (c *Controller) Shutdown(ctx context.Context) error {
	stop := context.AfterFunc(ctx, c.cancel)
	defer stop()
	defer c.cancel()
	return c.app.ShutdownWithContext(ctx)
}

// requestContext tags each request with an id and records its duration.
// Errors are rendered here so the recorded status is the final one.
func (c *Controller) requestContext(ctx *fiber.Ctx) error {
	started := time.Now()
	id := uuid.NewString()

	var reqCtx context.Context
	var cancel context.CancelFunc
	if c.config.WriteTimeout > 0 {
		reqCtx, cancel = context.WithTimeout(c.base, c.config.WriteTimeout)
	} else {
		reqCtx, cancel = context.WithCancel(c.base)
	}
	defer cancel()
	ctx.SetUserContext(reqCtx)

	ctx.Set("X-Request-ID", id)
	ctx.Locals(localLogger, c.log.WithFields(map[string]interface{}{
		"request_id": id,
		"method":     ctx.Method(),
		"path":       ctx.Path(),
	}))

	if err := ctx.Next(); err != nil {
		if herr := ctx.App().Config().ErrorHandler(ctx, err); herr != nil {
			return herr
		}
	}

	status := ctx.Response().StatusCode()
	if ctx.Path() != routeMetrics {
		metrics.ObserveRequest(ctx.Route().Path, status, started)
	}
	requestLogger(ctx).WithFields(map[string]interface{}{
		"status":      status,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Debug("Request completed")
	return nil
}

func requestLogger(ctx *fiber.Ctx) *logger.Logger {
	if l, ok := ctx.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.GetLogger().WithField("component", "http")
}

// errorHandler renders unexpected failures with a route-specific message.
func errorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	requestLogger(ctx).WithError(err).Error("Unhandled request error")

	message := "Failed to generate llms.txt"
	if ctx.Path() == routeAnalyze {
		message = "Failed to perform combined analysis"
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   message,
		"details": err.Error(),
	})
}

type urlRequest struct {
	URL string `json:"url"`
}

// parseTarget reads {url} and normalises it, writing the 400 response itself
// when the input is unusable. The body is decoded whatever its Content-Type.
func parseTarget(ctx *fiber.Ctx) (service.Target, bool, error) {
	var req urlRequest
	if err := ctx.App().Config().JSONDecoder(ctx.Body(), &req); err != nil || req.URL == "" {
		return service.Target{}, false, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "URL is required"})
	}

	target, err := service.NormalizeTarget(req.URL)
	if err != nil {
		return service.Target{}, false, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid URL format"})
	}
	return target, true, nil
}

func (c *Controller) CheckConfig(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"hasOpenAIKey": c.config.HasLLMKey})
}

func (c *Controller) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "healthy"})
}
