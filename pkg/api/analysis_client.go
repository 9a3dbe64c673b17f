package api

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"llmstxt-go/pkg/logger"
)

// ScoringClient posts {url} to the page-scoring service.
type ScoringClient struct {
	client   *fasthttp.Client
	endpoint string
	timeout  time.Duration
	log      *logger.Logger
}

func NewScoringClient(endpoint string, timeout time.Duration) *ScoringClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ScoringClient{
		client:   newFastHTTPClient(),
		endpoint: endpoint,
		timeout:  timeout,
		log:      logger.GetLogger().WithField("component", "scoring_client"),
	}
}

func (c *ScoringClient) Score(ctx context.Context, url string) (*ReadinessReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var report ReadinessReport
	payload := map[string]string{"url": url}
	if err := postJSON(c.client, c.endpoint, "", c.timeout, payload, &report); err != nil {
		c.log.WithError(err).WithFields(map[string]interface{}{"url": url, "severity": ClassifyError(err).String()}).Warn("Readiness scoring failed")
		return nil, err
	}
	return &report, nil
}

// InsightClient posts scored checks to the LLM insight service.
type InsightClient struct {
	client   *fasthttp.Client
	endpoint string
	timeout  time.Duration
	log      *logger.Logger
}

func NewInsightClient(endpoint string, timeout time.Duration) *InsightClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &InsightClient{
		client:   newFastHTTPClient(),
		endpoint: endpoint,
		timeout:  timeout,
		log:      logger.GetLogger().WithField("component", "insight_client"),
	}
}

func (c *InsightClient) Analyze(ctx context.Context, req InsightRequest) (*InsightReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.CurrentChecks == nil {
		req.CurrentChecks = []Check{}
	}

	var report InsightReport
	if err := postJSON(c.client, c.endpoint, "", c.timeout, req, &report); err != nil {
		c.log.WithError(err).WithFields(map[string]interface{}{"url": req.URL, "severity": ClassifyError(err).String()}).Warn("Insight analysis failed")
		return nil, err
	}
	return &report, nil
}
