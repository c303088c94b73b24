// Package ai assembles the routing pipeline from configuration.
package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/attache-ai/attache/ai/core/llm"
	"github.com/attache-ai/attache/ai/metrics"
	"github.com/attache-ai/attache/ai/routing"
)

const (
	decisionCacheCapacity = 1000
	decisionCacheTTL      = 5 * time.Minute
)

// Service bundles the routing pipeline with its collaborators.
type Service struct {
	Router   *routing.Router
	Cache    *routing.DecisionCache
	Feedback *routing.FeedbackCollector
	Metrics  *metrics.RouterMetrics

	llm llm.Service
}

// NewService builds the full chain: agent registry, heuristic and safety
// stages, optional model-backed primary stage, cache, metrics, and feedback.
// When storage is nil, feedback stays in process memory.
func NewService(cfg *Config, storage routing.FeedbackStorage) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("ai config required")
	}

	registry := routing.DefaultRegistry()
	if cfg.Router.DefaultAgent != "" && !registry.Has(cfg.Router.DefaultAgent) {
		return nil, errors.Errorf("unknown default agent %q", cfg.Router.DefaultAgent)
	}

	heuristic := routing.NewHeuristicClassifier(registry, routing.HeuristicConfig{
		HighRatio:    cfg.Router.HighRatio,
		DefaultAgent: cfg.Router.DefaultAgent,
	})
	safety := routing.NewSafetyClassifier(registry, cfg.Router.DefaultAgent)
	routerMetrics := metrics.NewRouterMetrics(metrics.DefaultConfig())

	opts := []routing.RouterOption{routing.WithMetrics(routerMetrics)}

	svc := &Service{Metrics: routerMetrics}

	if cfg.Router.CacheEnabled {
		svc.Cache = routing.NewDecisionCache(decisionCacheCapacity, decisionCacheTTL)
		opts = append(opts, routing.WithCache(svc.Cache))
	}

	if cfg.Enabled {
		llmService, err := llm.NewService(&llm.Config{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
			Timeout:  int(cfg.LLM.Timeout / time.Second),
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create llm service")
		}
		svc.llm = llmService

		primary := routing.NewPrimaryClassifier(llmService, registry, routing.PrimaryClassifierConfig{
			Timeout:       cfg.Router.Timeout,
			MinConfidence: cfg.Router.MinConfidence,
			RatePerSecond: cfg.Router.RateLimit,
		})
		opts = append(opts, routing.WithPrimary(primary))
	} else {
		slog.Info("AI disabled, routing runs on the heuristic classifier only")
	}

	svc.Router = routing.NewRouter(registry, heuristic, safety, opts...)

	if storage == nil {
		storage = routing.NewInMemoryFeedbackStorage()
	}
	svc.Feedback = routing.NewFeedbackCollector(storage, registry)

	return svc, nil
}

// Warmup primes the LLM connection so the first routed request does not pay
// the handshake cost. No-op when AI is disabled.
func (s *Service) Warmup(ctx context.Context) {
	if s.llm == nil {
		return
	}
	s.llm.Warmup(ctx)
}

// CleanupCache drops expired cache entries. Safe to call without a cache.
func (s *Service) CleanupCache() int {
	if s.Cache == nil {
		return 0
	}
	return s.Cache.CleanupExpired()
}
