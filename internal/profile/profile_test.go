package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "openai", p.LLMProvider)
	assert.Equal(t, "https://api.openai.com/v1", p.LLMBaseURL)
	assert.Equal(t, "gpt-4o-mini", p.LLMModel)
	assert.Equal(t, 30, p.LLMTimeout)

	assert.Equal(t, 3, p.RouterTimeout)
	assert.Equal(t, "medium", p.RouterMinConfidence)
	assert.InDelta(t, 2.0, p.RouterHighRatio, 0.001)
	assert.Equal(t, "client_agent", p.RouterDefaultAgent)
	assert.True(t, p.RouterCacheEnabled)
}

func TestFromEnv_ProviderOverride(t *testing.T) {
	t.Setenv("ATTACHE_AI_LLM_PROVIDER", "deepseek")
	t.Setenv("ATTACHE_AI_LLM_API_KEY", "sk-test")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "deepseek", p.LLMProvider)
	assert.Equal(t, "https://api.deepseek.com", p.LLMBaseURL)
	assert.Equal(t, "deepseek-chat", p.LLMModel)
	assert.True(t, p.IsAIEnabled())
}

func TestFromEnv_UnknownProviderFallsBack(t *testing.T) {
	t.Setenv("ATTACHE_AI_LLM_PROVIDER", "nonsense")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "openai", p.LLMProvider)
}

func TestFromEnv_RouterOverrides(t *testing.T) {
	t.Setenv("ATTACHE_ROUTER_TIMEOUT_SECONDS", "5")
	t.Setenv("ATTACHE_ROUTER_MIN_CONFIDENCE", "high")
	t.Setenv("ATTACHE_ROUTER_DEFAULT_AGENT", "user_agent")
	t.Setenv("ATTACHE_ROUTER_CACHE_ENABLED", "false")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, 5, p.RouterTimeout)
	assert.Equal(t, "high", p.RouterMinConfidence)
	assert.Equal(t, "user_agent", p.RouterDefaultAgent)
	assert.False(t, p.RouterCacheEnabled)
}

func TestValidate_NormalizesModeAndThresholds(t *testing.T) {
	p := &Profile{
		Mode:                "bogus",
		Data:                t.TempDir(),
		Driver:              "sqlite",
		RouterMinConfidence: "very-high",
		RouterHighRatio:     0.5,
	}
	require.NoError(t, p.Validate())

	assert.Equal(t, "demo", p.Mode)
	assert.Equal(t, "medium", p.RouterMinConfidence)
	assert.InDelta(t, 2.0, p.RouterHighRatio, 0.001)
	assert.Equal(t, 3, p.RouterTimeout)
	assert.Contains(t, p.DSN, "attache_demo.db")
}

func TestIsDev(t *testing.T) {
	assert.True(t, (&Profile{Mode: "dev"}).IsDev())
	assert.True(t, (&Profile{Mode: "demo"}).IsDev())
	assert.False(t, (&Profile{Mode: "prod"}).IsDev())
}

func TestIsAIEnabled(t *testing.T) {
	assert.False(t, (&Profile{LLMProvider: "openai"}).IsAIEnabled())
	assert.True(t, (&Profile{LLMProvider: "openai", LLMAPIKey: "sk-x"}).IsAIEnabled())
	assert.True(t, (&Profile{LLMProvider: "ollama"}).IsAIEnabled())
}
