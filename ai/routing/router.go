package routing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/attache-ai/attache/ai/core/llm"
	"github.com/attache-ai/attache/ai/internal/strutil"
)

// primaryStage is the model-backed classifier seam; the router only needs
// Classify and tests inject fakes through it.
type primaryStage interface {
	Classify(ctx context.Context, message string, history []llm.Message) (*RoutingDecision, error)
}

// heuristicStage is the deterministic classifier seam.
type heuristicStage interface {
	Classify(message string) *RoutingDecision
}

// MetricsRecorder receives routing telemetry. Implementations must be safe
// for concurrent use.
type MetricsRecorder interface {
	RecordDecision(stage Stage, agent string, confidence Confidence, duration time.Duration)
	RecordPrimaryFailure(reason string)
	RecordCacheLookup(hit bool)
}

type noopMetrics struct{}

func (noopMetrics) RecordDecision(Stage, string, Confidence, time.Duration) {}
func (noopMetrics) RecordPrimaryFailure(string)                             {}
func (noopMetrics) RecordCacheLookup(bool)                                  {}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithCache attaches a decision cache. Only context-free calls are cached.
func WithCache(cache *DecisionCache) RouterOption {
	return func(r *Router) { r.cache = cache }
}

// WithMetrics attaches a telemetry sink.
func WithMetrics(m MetricsRecorder) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// WithPrimary attaches the model-backed classifier. Without one the router
// starts at the heuristic stage.
func WithPrimary(p primaryStage) RouterOption {
	return func(r *Router) { r.primary = p }
}

// Router runs the three-stage classification chain: primary model call,
// deterministic heuristic, then the safety fallback. Route never returns an
// error; every message produces exactly one decision.
type Router struct {
	registry  *AgentRegistry
	primary   primaryStage
	heuristic heuristicStage
	safety    *SafetyClassifier
	cache     *DecisionCache
	metrics   MetricsRecorder
}

// NewRouter assembles the chain. The heuristic and safety stages are always
// present; the primary stage and cache are optional.
func NewRouter(registry *AgentRegistry, heuristic *HeuristicClassifier, safety *SafetyClassifier, opts ...RouterOption) *Router {
	r := &Router{
		registry:  registry,
		heuristic: heuristic,
		safety:    safety,
		metrics:   noopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry exposes the agent set, e.g. for the HTTP surface.
func (r *Router) Registry() *AgentRegistry {
	return r.registry
}

// Route classifies a message into exactly one agent. History, when present,
// only informs the primary classifier; decisions made with history are never
// cached. The returned decision always carries a fresh id.
func (r *Router) Route(ctx context.Context, message string, history []llm.Message) *RoutingDecision {
	start := time.Now()

	cacheable := r.cache != nil && len(history) == 0
	if cacheable {
		if cached, ok := r.cache.Get(message); ok {
			r.metrics.RecordCacheLookup(true)
			cached.ID = uuid.NewString()
			slog.Debug("Routing decision served from cache",
				"agent", cached.SelectedAgent,
				"message", strutil.Truncate(message, 50))
			return cached
		}
		r.metrics.RecordCacheLookup(false)
	}

	decision := r.classify(ctx, message, history)
	decision.ID = uuid.NewString()

	if cacheable && decision.Stage != StageSafety {
		r.cache.Set(message, decision)
	}

	duration := time.Since(start)
	r.metrics.RecordDecision(decision.Stage, decision.SelectedAgent, decision.Confidence, duration)
	slog.Info("Routing decision",
		"agent", decision.SelectedAgent,
		"confidence", string(decision.Confidence),
		"stage", string(decision.Stage),
		"duration_ms", duration.Milliseconds(),
		"message", strutil.Truncate(message, 50))
	return decision
}

func (r *Router) classify(ctx context.Context, message string, history []llm.Message) *RoutingDecision {
	// Greetings never justify a model call.
	if r.primary != nil && !IsGreeting(message) {
		decision, err := r.primary.Classify(ctx, message, history)
		if err == nil && decision != nil {
			return decision
		}
		r.metrics.RecordPrimaryFailure(failureReason(err))
		slog.Warn("Primary classifier failed, falling back",
			"error", err,
			"message", strutil.Truncate(message, 50))
	}

	if decision := r.tryHeuristic(message); decision != nil {
		return decision
	}
	return r.safety.Classify(message)
}

// tryHeuristic shields the chain from heuristic panics; a panic degrades to
// the safety stage instead of crashing the request.
func (r *Router) tryHeuristic(message string) (decision *RoutingDecision) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Heuristic classifier panicked",
				"panic", rec,
				"message", strutil.Truncate(message, 50))
			decision = nil
		}
	}()
	return r.heuristic.Classify(message)
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return "empty_decision"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnknownAgent):
		return "unknown_agent"
	case errors.Is(err, ErrLowConfidence):
		return "low_confidence"
	case errors.Is(err, ErrNoToolCall):
		return "no_tool_call"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "call_failed"
	}
}
