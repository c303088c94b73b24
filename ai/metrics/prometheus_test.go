package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attache-ai/attache/ai/routing"
)

func TestRouterMetrics(t *testing.T) {
	m := NewRouterMetrics(DefaultConfig())

	m.RecordDecision(routing.StagePrimary, routing.AgentContract, routing.ConfidenceHigh, 120*time.Millisecond)
	m.RecordDecision(routing.StageHeuristic, routing.AgentEmployee, routing.ConfidenceMedium, 2*time.Millisecond)
	m.RecordPrimaryFailure("timeout")
	m.RecordPrimaryFailure("rate_limited")
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{
		"attache_routing_decisions_total",
		`stage="primary"`,
		`agent="contract_agent"`,
		"attache_routing_primary_failures_total",
		`reason="timeout"`,
		"attache_routing_cache_hits_total 1",
		"attache_routing_cache_misses_total 1",
		"attache_routing_decision_latency_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRouterMetricsImplementsRecorder(t *testing.T) {
	var _ routing.MetricsRecorder = NewRouterMetrics(Config{})
}
