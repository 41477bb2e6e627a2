package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"humorbot/errors"
)

const (
	DefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultModel   = "qwen2.5-1.5b-instruct"
	DefaultPrompt  = "generateHumorousReply"
)

// MCPServer describes how to launch the tool-and-prompt server subprocess.
// Env entries are overlaid on the parent process environment.
type MCPServer struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
}

type Config struct {
	LLMClient string    `yaml:"llm"`
	Model     string    `yaml:"model"`
	BaseURL   string    `yaml:"base_url"`
	Prompt    string    `yaml:"prompt"`
	Server    MCPServer `yaml:"server"`

	// Credentials come from the environment only, never from YAML.
	APIKey     string `yaml:"-"`
	WebhookKey string `yaml:"-"`
	ChatID     string `yaml:"-"`
}

// Load reads configuration from the user's home directory and the current
// working directory, with the latter taking precedence, then fills
// credentials from the environment. A .env file in the working directory
// is honored when present.
func Load() (*Config, error) {
	cfg := &Config{
		LLMClient: "openai",
		Model:     DefaultModel,
		BaseURL:   DefaultBaseURL,
		Prompt:    DefaultPrompt,
	}

	// User-level config first
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".humorbot", "config.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := loadFromFile(userConfigPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	// Project-level config, overriding user-level
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	projectConfigPath := filepath.Join(wd, ".humorbot", "config.yaml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := loadFromFile(projectConfigPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	// Missing .env is fine; the variables may already be exported.
	_ = godotenv.Load()
	cfg.APIKey = os.Getenv("LLM_API_KEY")
	cfg.WebhookKey = os.Getenv("WECHAT_WEBHOOK_KEY")
	cfg.ChatID = os.Getenv("WECHAT_CHAT_ID")

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshal overwrites fields present in the YAML, which gives a
	// simple merge where project-level config replaces user-level.
	return yaml.Unmarshal(data, cfg)
}

// SendEnabled reports whether the send tool may be offered to the model.
// Without a webhook key the decision phase is skipped entirely.
func (c *Config) SendEnabled() bool {
	return c.WebhookKey != ""
}
