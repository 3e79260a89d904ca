package provider

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec configures one provider in the chain.
type Spec struct {
	Name           string `yaml:"name"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"`
	MaxTokens      int    `yaml:"max_tokens"`
	MaxRetries     *int   `yaml:"max_retries"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// defaultKeyEnvs maps provider names to their conventional key variables.
var defaultKeyEnvs = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"groq":      "GROQ_API_KEY",
}

// ResolveKey returns the API key: inline value first, then the configured
// environment variable, then the provider's conventional variable.
func (s Spec) ResolveKey(name string) string {
	if s.APIKey != "" {
		return s.APIKey
	}
	if s.APIKeyEnv != "" {
		return os.Getenv(s.APIKeyEnv)
	}
	if env, ok := defaultKeyEnvs[name]; ok {
		return os.Getenv(env)
	}
	return ""
}

// ChainConfig is the ordered provider list: primary first, then fallbacks.
type ChainConfig struct {
	Providers []Spec `yaml:"providers"`
}

// LoadChainConfig reads chain configuration from a YAML file. An empty path
// or a missing file falls back to environment-based configuration.
func LoadChainConfig(path string) (*ChainConfig, error) {
	if path == "" {
		return ConfigFromEnv(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ConfigFromEnv(), nil
		}
		return nil, fmt.Errorf("read provider config: %w", err)
	}

	var cfg ChainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse provider config: %w", err)
	}
	for i, s := range cfg.Providers {
		if s.Name == "" {
			return nil, fmt.Errorf("provider %d: missing name", i)
		}
	}

	return &cfg, nil
}

// ConfigFromEnv builds chain configuration from DRAFTCOACH_PROVIDER (default
// "openai") and the comma-separated DRAFTCOACH_FALLBACK_PROVIDERS list.
func ConfigFromEnv() *ChainConfig {
	primary := strings.ToLower(os.Getenv("DRAFTCOACH_PROVIDER"))
	if primary == "" {
		primary = "openai"
	}

	cfg := &ChainConfig{Providers: []Spec{{Name: primary, Model: os.Getenv("DRAFTCOACH_MODEL")}}}
	seen := map[string]bool{primary: true}

	for _, name := range strings.Split(os.Getenv("DRAFTCOACH_FALLBACK_PROVIDERS"), ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cfg.Providers = append(cfg.Providers, Spec{Name: name})
	}

	return cfg
}
