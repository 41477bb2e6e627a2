package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("WECHAT_WEBHOOK_KEY", "")
	t.Setenv("WECHAT_CHAT_ID", "")
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLMClient != "openai" {
		t.Errorf("Expected default backend 'openai', got '%s'", cfg.LLMClient)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Expected default model, got '%s'", cfg.Model)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got '%s'", cfg.BaseURL)
	}
	if cfg.Prompt != DefaultPrompt {
		t.Errorf("Expected default prompt name, got '%s'", cfg.Prompt)
	}
	if cfg.SendEnabled() {
		t.Error("Expected sending to be disabled without a webhook key")
	}
}

func TestLoadProjectConfigAndCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LLM_API_KEY", "llm-key")
	t.Setenv("WECHAT_WEBHOOK_KEY", "hook-key")
	t.Setenv("WECHAT_CHAT_ID", "group-9")

	dir := t.TempDir()
	writeConfig(t, dir, `
llm: mock
model: test-model
server:
  name: wechat
  command: npx
  args: ["-y", "wecom-mcp"]
  env:
    LOG_LEVEL: debug
`)
	chdir(t, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLMClient != "mock" {
		t.Errorf("Expected backend 'mock', got '%s'", cfg.LLMClient)
	}
	if cfg.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", cfg.Model)
	}
	if cfg.Server.Command != "npx" {
		t.Errorf("Expected server command 'npx', got '%s'", cfg.Server.Command)
	}
	if cfg.Server.Env["LOG_LEVEL"] != "debug" {
		t.Errorf("Expected env overlay, got %v", cfg.Server.Env)
	}
	if cfg.APIKey != "llm-key" || cfg.WebhookKey != "hook-key" || cfg.ChatID != "group-9" {
		t.Error("Expected credentials filled from the environment")
	}
	if !cfg.SendEnabled() {
		t.Error("Expected sending to be enabled with a webhook key")
	}
}

func TestProjectConfigOverridesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("WECHAT_WEBHOOK_KEY", "")
	t.Setenv("WECHAT_CHAT_ID", "")
	writeConfig(t, home, "model: user-model\nllm: anthropic\n")

	project := t.TempDir()
	writeConfig(t, project, "model: project-model\n")
	chdir(t, project)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "project-model" {
		t.Errorf("Expected project model to win, got '%s'", cfg.Model)
	}
	if cfg.LLMClient != "anthropic" {
		t.Errorf("Expected user-level backend to survive, got '%s'", cfg.LLMClient)
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	confDir := filepath.Join(dir, ".humorbot")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
