package service

import (
	"context"
	"errors"
	"time"

	"llmstxt-go/pkg/api"
	"llmstxt-go/pkg/logger"
)

var ErrScorerNotConfigured = errors.New("page scorer is not configured")

type AnalysisResult struct {
	Success            bool                   `json:"success"`
	URL                string                 `json:"url"`
	OverallScore       float64                `json:"overallScore"`
	Checks             []api.Check            `json:"checks"`
	Metadata           map[string]interface{} `json:"metadata"`
	Insights           []interface{}          `json:"insights"`
	OverallAIReadiness string                 `json:"overallAIReadiness"`
	TopPriorities      []interface{}          `json:"topPriorities"`
	AnalyzedAt         string                 `json:"analyzedAt"`
	AnalysisDuration   int64                  `json:"analysisDuration"`
}

// AnalysisService scores a page and enriches the result with insights.
// Either collaborator may be nil.
type AnalysisService struct {
	scorer   api.PageScorer
	insights api.InsightProvider
}

func NewAnalysisService(scorer api.PageScorer, insights api.InsightProvider) *AnalysisService {
	return &AnalysisService{scorer: scorer, insights: insights}
}

func (s *AnalysisService) Enabled() bool {
	return s.scorer != nil
}

// Analyze fails only when scoring fails; insight errors leave those fields empty.
func (s *AnalysisService) Analyze(ctx context.Context, target Target, log *logger.Logger) (*AnalysisResult, error) {
	if s.scorer == nil {
		return nil, ErrScorerNotConfigured
	}
	started := time.Now()

	report, err := s.scorer.Score(ctx, target.URL)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Success:       true,
		URL:           target.URL,
		OverallScore:  report.OverallScore,
		Checks:        report.Checks,
		Metadata:      report.Metadata,
		Insights:      []interface{}{},
		TopPriorities: []interface{}{},
	}
	if result.Checks == nil {
		result.Checks = []api.Check{}
	}
	if result.Metadata == nil {
		result.Metadata = map[string]interface{}{}
	}

	if s.insights != nil {
		insight, err := s.insights.Analyze(ctx, api.InsightRequest{
			URL:           target.URL,
			HTMLContent:   report.HTMLContent,
			CurrentChecks: result.Checks,
		})
		if err != nil {
			log.WithError(err).Warn("Insight analysis failed, continuing with readiness data only")
		} else {
			if insight.Insights != nil {
				result.Insights = insight.Insights
			}
			if insight.TopPriorities != nil {
				result.TopPriorities = insight.TopPriorities
			}
			result.OverallAIReadiness = insight.OverallAIReadiness
		}
	}

	result.AnalyzedAt = time.Now().UTC().Format(time.RFC3339Nano)
	result.AnalysisDuration = time.Since(started).Milliseconds()
	return result, nil
}
