package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-3-pro-preview"},
		{"gemini-2.5-pro", "gemini-2.5-pro"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiConfig(t *testing.T) {
	t.Run("thinking budget", func(t *testing.T) {
		cfg := buildGeminiConfig(Request{System: "coach", MaxTokens: 1000, ThinkingBudget: 4096})
		if cfg.ThinkingConfig == nil || cfg.ThinkingConfig.ThinkingBudget == nil {
			t.Fatal("expected thinking config")
		}
		if *cfg.ThinkingConfig.ThinkingBudget != 4096 {
			t.Fatalf("expected budget 4096, got %d", *cfg.ThinkingConfig.ThinkingBudget)
		}
		if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "coach" {
			t.Fatal("expected system instruction")
		}
		if cfg.MaxOutputTokens != 1000 {
			t.Fatalf("expected 1000 max tokens, got %d", cfg.MaxOutputTokens)
		}
	})

	t.Run("no hints", func(t *testing.T) {
		cfg := buildGeminiConfig(Request{})
		if cfg.ThinkingConfig != nil {
			t.Fatal("expected no thinking config")
		}
		if cfg.Temperature != nil {
			t.Fatal("expected provider default temperature")
		}
		if cfg.SystemInstruction != nil {
			t.Fatal("expected no system instruction")
		}
	})
}

func TestBuildGeminiContents_Roles(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	})
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles: %q, %q", contents[0].Role, contents[1].Role)
	}
}
