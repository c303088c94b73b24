package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the routing service.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol).
	// All providers (openai, deepseek, siliconflow, openrouter, ollama) use the same config.
	LLMProvider string // Provider identifier: openai, deepseek, siliconflow, openrouter, ollama
	LLMAPIKey   string // LLM API key
	LLMBaseURL  string // LLM base URL (optional, has default per provider)
	LLMModel    string // Model name: gpt-4o-mini, deepseek-chat, etc.
	LLMTimeout  int    // LLM request timeout in seconds (default: 30)

	// Router configuration.
	RouterTimeout       int     // Primary classifier timeout in seconds (default: 3)
	RouterMinConfidence string  // Minimum confidence accepted from the primary classifier: low, medium, high (default: medium)
	RouterHighRatio     float64 // Score ratio over the runner-up required for high confidence (default: 2.0)
	RouterDefaultAgent  string  // Agent used when no evidence is available (default: client_agent)
	RouterCacheEnabled  bool    // Cache routing decisions for repeated inputs (default: true)
	RouterRateLimit     float64 // Max primary classifier calls per second, 0 disables limiting (default: 10)

	// Server configuration.
	Mode    string // demo, dev, prod
	Addr    string
	Port    int
	Data    string
	Driver  string // sqlite, postgres
	DSN     string
	Version string
}

// Provider default configurations for the LLM.
// Used when ATTACHE_AI_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-7B-Instruct",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "openai/gpt-4o-mini",
	},
	"ollama": {
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if the primary classifier can be used.
// Ollama runs locally and needs no key.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != "" || p.LLMProvider == "ollama"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvOrDefaultFloat returns environment variable value as float64 or default value.
func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	// Unified LLM configuration
	p.LLMProvider = getEnvOrDefault("ATTACHE_AI_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("ATTACHE_AI_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("ATTACHE_AI_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("ATTACHE_AI_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("ATTACHE_AI_LLM_TIMEOUT_SECONDS", 30)

	// Validate and apply provider defaults if not explicitly set
	if p.LLMProvider != "" {
		if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
			slog.Warn("unknown LLM provider, using default: openai", "provider", p.LLMProvider)
			p.LLMProvider = "openai"
		}
	}
	if p.LLMBaseURL == "" || p.LLMModel == "" {
		if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
			if p.LLMBaseURL == "" {
				p.LLMBaseURL = defaults.BaseURL
			}
			if p.LLMModel == "" {
				p.LLMModel = defaults.Model
			}
		}
	}

	// Router configuration
	p.RouterTimeout = getEnvOrDefaultInt("ATTACHE_ROUTER_TIMEOUT_SECONDS", 3)
	p.RouterMinConfidence = getEnvOrDefault("ATTACHE_ROUTER_MIN_CONFIDENCE", "medium")
	p.RouterHighRatio = getEnvOrDefaultFloat("ATTACHE_ROUTER_HIGH_RATIO", 2.0)
	p.RouterDefaultAgent = getEnvOrDefault("ATTACHE_ROUTER_DEFAULT_AGENT", "client_agent")
	p.RouterCacheEnabled = getEnvOrDefault("ATTACHE_ROUTER_CACHE_ENABLED", "true") == "true"
	p.RouterRateLimit = getEnvOrDefaultFloat("ATTACHE_ROUTER_RATE_LIMIT", 10)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.RouterTimeout <= 0 {
		p.RouterTimeout = 3
	}
	switch p.RouterMinConfidence {
	case "low", "medium", "high":
	default:
		p.RouterMinConfidence = "medium"
	}
	if p.RouterHighRatio <= 1 {
		p.RouterHighRatio = 2.0
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "attache")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/attache"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("attache_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
