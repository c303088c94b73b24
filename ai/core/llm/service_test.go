package llm

import (
	"testing"
)

func TestNewService_ProviderDefaults(t *testing.T) {
	tests := []struct {
		provider string
	}{
		{"openai"},
		{"deepseek"},
		{"siliconflow"},
		{"openrouter"},
		{"ollama"},
		{"some-compatible-gateway"},
	}

	for _, tt := range tests {
		svc, err := NewService(&Config{
			Provider: tt.provider,
			Model:    "test-model",
			APIKey:   "test-key",
		})
		if err != nil {
			t.Fatalf("NewService(%q) error = %v", tt.provider, err)
		}
		if svc == nil {
			t.Fatalf("NewService(%q) returned nil service", tt.provider)
		}
	}
}

func TestNewService_AppliesDefaults(t *testing.T) {
	svc, err := NewService(&Config{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	s, ok := svc.(*service)
	if !ok {
		t.Fatal("NewService() did not return *service type")
	}
	if s.timeout != 30 {
		t.Errorf("timeout = %v, want 30", s.timeout)
	}
	if s.maxTokens != 1024 {
		t.Errorf("maxTokens = %v, want 1024", s.maxTokens)
	}
}

func TestConvertMessages(t *testing.T) {
	messages := []Message{
		SystemPrompt("you are a router"),
		UserMessage("update the client record"),
		AssistantMessage("routed"),
		{Role: "weird", Content: "treated as user"},
	}

	converted := convertMessages(messages)
	if len(converted) != 4 {
		t.Fatalf("len = %v, want 4", len(converted))
	}
	if converted[0].Role != "system" {
		t.Errorf("role[0] = %v, want system", converted[0].Role)
	}
	if converted[1].Role != "user" {
		t.Errorf("role[1] = %v, want user", converted[1].Role)
	}
	if converted[2].Role != "assistant" {
		t.Errorf("role[2] = %v, want assistant", converted[2].Role)
	}
	if converted[3].Role != "user" {
		t.Errorf("role[3] = %v, want user", converted[3].Role)
	}
}

func TestFormatMessages(t *testing.T) {
	history := []Message{
		UserMessage("earlier question"),
		AssistantMessage("earlier answer"),
	}

	messages := FormatMessages("system prompt", "current question", history)
	if len(messages) != 4 {
		t.Fatalf("len = %v, want 4", len(messages))
	}
	if messages[0].Role != "system" {
		t.Errorf("first message role = %v, want system", messages[0].Role)
	}
	if messages[3].Content != "current question" {
		t.Errorf("last message content = %v, want current question", messages[3].Content)
	}
}
