package ai

import (
	"time"

	"github.com/attache-ai/attache/ai/routing"
	"github.com/attache-ai/attache/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	LLM     LLMConfig
	Router  RouterConfig
	Enabled bool
}

// LLMConfig represents LLM configuration for the primary classifier.
type LLMConfig struct {
	Provider string // openai, deepseek, siliconflow, openrouter, ollama
	Model    string // gpt-4o-mini, deepseek-chat, etc.
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// RouterConfig represents routing pipeline configuration.
type RouterConfig struct {
	Timeout       time.Duration      // primary classifier budget per call
	MinConfidence routing.Confidence // lowest model confidence accepted
	HighRatio     float64            // heuristic dominance ratio for high confidence
	DefaultAgent  string             // zero-evidence fallback agent
	CacheEnabled  bool
	RateLimit     float64 // primary calls per second, 0 disables
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled: p.IsAIEnabled(),
		Router: RouterConfig{
			Timeout:       time.Duration(p.RouterTimeout) * time.Second,
			MinConfidence: routing.Confidence(p.RouterMinConfidence),
			HighRatio:     p.RouterHighRatio,
			DefaultAgent:  p.RouterDefaultAgent,
			CacheEnabled:  p.RouterCacheEnabled,
			RateLimit:     p.RouterRateLimit,
		},
	}

	if !cfg.Enabled {
		return cfg
	}

	cfg.LLM = LLMConfig{
		Provider: p.LLMProvider,
		Model:    p.LLMModel,
		APIKey:   p.LLMAPIKey,
		BaseURL:  p.LLMBaseURL,
		Timeout:  time.Duration(p.LLMTimeout) * time.Second,
	}
	return cfg
}
