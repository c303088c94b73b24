package routing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attache-ai/attache/ai/core/llm"
)

type stubPrimary struct {
	decision *RoutingDecision
	err      error
	calls    int
}

func (s *stubPrimary) Classify(ctx context.Context, message string, history []llm.Message) (*RoutingDecision, error) {
	s.calls++
	return s.decision, s.err
}

type panickingHeuristic struct{}

func (panickingHeuristic) Classify(message string) *RoutingDecision {
	panic("boom")
}

type recordingMetrics struct {
	mu        sync.Mutex
	decisions []Stage
	failures  []string
	hits      int
	misses    int
}

func (m *recordingMetrics) RecordDecision(stage Stage, agent string, confidence Confidence, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, stage)
}

func (m *recordingMetrics) RecordPrimaryFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, reason)
}

func (m *recordingMetrics) RecordCacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func newTestRouter(t *testing.T, opts ...RouterOption) *Router {
	t.Helper()
	registry := DefaultRegistry()
	heuristic := NewHeuristicClassifier(registry, HeuristicConfig{})
	safety := NewSafetyClassifier(registry, AgentClient)
	return NewRouter(registry, heuristic, safety, opts...)
}

func TestRouterPrimarySuccess(t *testing.T) {
	primary := &stubPrimary{decision: &RoutingDecision{
		SelectedAgent: AgentBilling,
		Confidence:    ConfidenceHigh,
		Reasoning:     "invoice request",
		Stage:         StagePrimary,
		SignalsConsidered: []ClassificationSignal{{
			Source: SourcePrimary, CandidateAgent: AgentBilling, Weight: 1.0,
		}},
	}}
	r := newTestRouter(t, WithPrimary(primary))

	decision := r.Route(context.Background(), "send the March invoice", nil)
	assert.Equal(t, AgentBilling, decision.SelectedAgent)
	assert.Equal(t, StagePrimary, decision.Stage)
	assert.NotEmpty(t, decision.ID)
	assert.Equal(t, 1, primary.calls)
}

func TestRouterFallsBackToHeuristic(t *testing.T) {
	primary := &stubPrimary{err: errors.New("model unavailable")}
	metrics := &recordingMetrics{}
	r := newTestRouter(t, WithPrimary(primary), WithMetrics(metrics))

	decision := r.Route(context.Background(), "Create new contract for TechCorp", nil)
	assert.Equal(t, AgentContract, decision.SelectedAgent)
	assert.Equal(t, StageHeuristic, decision.Stage)
	assert.Equal(t, []string{"call_failed"}, metrics.failures)
	assert.Equal(t, []Stage{StageHeuristic}, metrics.decisions)
}

func TestRouterWithoutPrimaryStartsAtHeuristic(t *testing.T) {
	r := newTestRouter(t)

	decision := r.Route(context.Background(), "update the hourly rate for the contractor", nil)
	assert.Equal(t, StageHeuristic, decision.Stage)
	assert.Equal(t, AgentEmployee, decision.SelectedAgent)
}

func TestRouterSafetyOnHeuristicPanic(t *testing.T) {
	registry := DefaultRegistry()
	safety := NewSafetyClassifier(registry, AgentClient)
	r := NewRouter(registry, nil, safety)
	r.heuristic = panickingHeuristic{}

	decision := r.Route(context.Background(), "anything", nil)
	assert.Equal(t, AgentClient, decision.SelectedAgent)
	assert.Equal(t, StageSafety, decision.Stage)
	assert.Equal(t, ConfidenceLow, decision.Confidence)
	assert.Empty(t, decision.SignalsConsidered)
	assert.NotEmpty(t, decision.ID)
}

func TestRouterGreetingSkipsPrimary(t *testing.T) {
	primary := &stubPrimary{decision: &RoutingDecision{SelectedAgent: AgentUser}}
	r := newTestRouter(t, WithPrimary(primary))

	decision := r.Route(context.Background(), "good morning", nil)
	assert.Equal(t, StageHeuristic, decision.Stage)
	assert.Equal(t, AgentClient, decision.SelectedAgent)
	assert.Zero(t, primary.calls)
}

func TestRouterCache(t *testing.T) {
	primary := &stubPrimary{decision: &RoutingDecision{
		SelectedAgent: AgentTime,
		Confidence:    ConfidenceHigh,
		Stage:         StagePrimary,
		SignalsConsidered: []ClassificationSignal{{
			Source: SourcePrimary, CandidateAgent: AgentTime, Weight: 1.0,
		}},
	}}
	metrics := &recordingMetrics{}
	cache := NewDecisionCache(10, time.Minute)
	r := newTestRouter(t, WithPrimary(primary), WithCache(cache), WithMetrics(metrics))

	first := r.Route(context.Background(), "log 8 hours on the migration", nil)
	second := r.Route(context.Background(), "log 8 hours on the migration", nil)

	assert.Equal(t, 1, primary.calls, "second call must be served from cache")
	assert.Equal(t, first.SelectedAgent, second.SelectedAgent)
	assert.NotEqual(t, first.ID, second.ID, "each decision gets a fresh id")
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestRouterCacheSkippedWithHistory(t *testing.T) {
	primary := &stubPrimary{decision: &RoutingDecision{
		SelectedAgent: AgentTime,
		Confidence:    ConfidenceHigh,
		Stage:         StagePrimary,
		SignalsConsidered: []ClassificationSignal{{
			Source: SourcePrimary, CandidateAgent: AgentTime, Weight: 1.0,
		}},
	}}
	cache := NewDecisionCache(10, time.Minute)
	r := newTestRouter(t, WithPrimary(primary), WithCache(cache))

	history := []llm.Message{llm.UserMessage("earlier context")}
	r.Route(context.Background(), "log my hours", history)
	r.Route(context.Background(), "log my hours", history)

	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 0, cache.Size())
}

func TestRouterDoesNotCacheSafetyDecisions(t *testing.T) {
	registry := DefaultRegistry()
	safety := NewSafetyClassifier(registry, AgentClient)
	cache := NewDecisionCache(10, time.Minute)
	r := NewRouter(registry, nil, safety, WithCache(cache))
	r.heuristic = panickingHeuristic{}

	r.Route(context.Background(), "anything", nil)
	assert.Equal(t, 0, cache.Size())
}

// Primary failure and primary absence must produce equivalent fallback
// decisions for the same message.
func TestRouterFallbackEquivalence(t *testing.T) {
	message := "Update contact person for Acme Corporation"

	failing := newTestRouter(t, WithPrimary(&stubPrimary{err: errors.New("down")}))
	bare := newTestRouter(t)

	a := failing.Route(context.Background(), message, nil)
	b := bare.Route(context.Background(), message, nil)

	assert.Equal(t, a.SelectedAgent, b.SelectedAgent)
	assert.Equal(t, a.Confidence, b.Confidence)
	assert.Equal(t, a.Stage, b.Stage)
	assert.Equal(t, a.Reasoning, b.Reasoning)
	assert.Equal(t, a.SignalsConsidered, b.SignalsConsidered)
}

func TestRouterFailureReasons(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrRateLimited, "rate_limited"},
		{ErrUnknownAgent, "unknown_agent"},
		{ErrLowConfidence, "low_confidence"},
		{ErrNoToolCall, "no_tool_call"},
		{context.DeadlineExceeded, "timeout"},
		{errors.New("boom"), "call_failed"},
		{nil, "empty_decision"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, failureReason(tt.err))
	}
}

func TestRouterAlwaysSelectsRegisteredAgent(t *testing.T) {
	r := newTestRouter(t)
	messages := []string{
		"hi",
		"",
		"Create new contract for TechCorp",
		"random words about nothing in particular",
		"Update employee_number to EMP10 for Tina Miles",
	}
	for _, msg := range messages {
		decision := r.Route(context.Background(), msg, nil)
		require.NotNil(t, decision)
		assert.True(t, r.Registry().Has(decision.SelectedAgent), "message %q routed to %q", msg, decision.SelectedAgent)
	}
}
