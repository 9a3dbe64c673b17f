package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ManifestsGenerated.WithLabelValues(PathFallback))
	ManifestsGenerated.WithLabelValues(PathFallback).Inc()
	after := testutil.ToFloat64(ManifestsGenerated.WithLabelValues(PathFallback))

	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	SitemapFetches.WithLabelValues(OutcomeOK).Inc()
	ObserveRequest("/api/generate-llms-txt", 200, time.Now())

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"llmstxt_sitemap_fetches_total", "llmstxt_request_duration_seconds"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in exposition", name)
		}
	}
}
