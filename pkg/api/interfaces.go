package api

import "context"

// Prompt is a system/user message pair for a chat completion.
type Prompt struct {
	System string
	User   string
}

// TextGenerator produces free text from a prompt. One attempt per call.
type TextGenerator interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Check is one heuristic result produced by the page scorer.
type Check struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Status         string   `json:"status"` // pass | fail | warning
	Score          float64  `json:"score"`
	Details        string   `json:"details"`
	Recommendation string   `json:"recommendation"`
	ActionItems    []string `json:"actionItems"`
}

// ReadinessReport is the page scorer's response.
type ReadinessReport struct {
	Success      bool                   `json:"success"`
	OverallScore float64                `json:"overallScore"`
	Checks       []Check                `json:"checks"`
	Metadata     map[string]interface{} `json:"metadata"`
	HTMLContent  string                 `json:"htmlContent,omitempty"`
}

// InsightRequest is sent to the LLM insight service.
type InsightRequest struct {
	URL           string  `json:"url"`
	HTMLContent   string  `json:"htmlContent"`
	CurrentChecks []Check `json:"currentChecks"`
}

// InsightReport is the LLM insight service's response.
type InsightReport struct {
	Success            bool          `json:"success"`
	Insights           []interface{} `json:"insights"`
	OverallAIReadiness string        `json:"overallAIReadiness"`
	TopPriorities      []interface{} `json:"topPriorities"`
}

// PageScorer scores a page against the heuristic checks.
type PageScorer interface {
	Score(ctx context.Context, url string) (*ReadinessReport, error)
}

// InsightProvider enriches scored checks with qualitative analysis.
type InsightProvider interface {
	Analyze(ctx context.Context, req InsightRequest) (*InsightReport, error)
}
