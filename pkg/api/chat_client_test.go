package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChatClient_Complete(t *testing.T) {
	var got chatRequest
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"# example.com"}}]}`))
	}))
	defer ts.Close()

	client := NewChatClient(ChatConfig{Endpoint: ts.URL, APIKey: "secret", Temperature: 0.7})
	out, err := client.Complete(context.Background(), Prompt{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "# example.com" {
		t.Errorf("unexpected content %q", out)
	}
	if auth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
	if got.Model != DefaultChatModel || got.MaxTokens != 2000 {
		t.Errorf("defaults not applied: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "usr" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestChatClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(error) bool
	}{
		{"non-200", http.StatusUnauthorized, `{"error":"bad key"}`, func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
		}},
		{"no choices", http.StatusOK, `{"choices":[]}`, func(err error) bool { return errors.Is(err, ErrNoChoices) }},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, func(err error) bool { return errors.Is(err, ErrNoChoices) }},
		{"malformed", http.StatusOK, `not json`, func(err error) bool { return err != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := NewChatClient(ChatConfig{Endpoint: ts.URL, Timeout: 2 * time.Second})
			_, err := client.Complete(context.Background(), Prompt{})
			if !tt.wantErr(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestScoringAndInsightClients(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/score", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["url"] != "https://example.com" {
			http.Error(w, `{"error":"wrong url"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"overallScore":72,"checks":[{"id":"headings","label":"Headings","status":"pass","score":100}],"htmlContent":"<html></html>"}`))
	})
	mux.HandleFunc("/insights", func(w http.ResponseWriter, r *http.Request) {
		var req InsightRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.CurrentChecks) != 1 || req.HTMLContent == "" {
			http.Error(w, `{"error":"missing checks"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"insights":[{"title":"x"}],"overallAIReadiness":"good","topPriorities":["a"]}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	ctx := context.Background()
	report, err := NewScoringClient(ts.URL+"/score", time.Second).Score(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if report.OverallScore != 72 || len(report.Checks) != 1 || report.Checks[0].Status != "pass" {
		t.Errorf("unexpected report %+v", report)
	}

	insights, err := NewInsightClient(ts.URL+"/insights", time.Second).Analyze(ctx, InsightRequest{
		URL:           "https://example.com",
		HTMLContent:   report.HTMLContent,
		CurrentChecks: report.Checks,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if insights.OverallAIReadiness != "good" || len(insights.TopPriorities) != 1 {
		t.Errorf("unexpected insights %+v", insights)
	}

	_, err = NewScoringClient(ts.URL+"/score", time.Second).Score(ctx, "https://other.com")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 status error, got %v", err)
	}
	if d, ok := se.Details().(map[string]interface{}); !ok || d["error"] != "wrong url" {
		t.Errorf("unexpected details %v", se.Details())
	}
}
