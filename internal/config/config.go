package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SAFETYDESK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SAFETYDESK_PORT -> port, etc.
	if err := k.Load(env.Provider("SAFETYDESK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SAFETYDESK_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validEmbeddingProviders is the set of recognized provider values.
var validEmbeddingProviders = map[EmbeddingProviderType]bool{
	EmbeddingNone:   true,
	EmbeddingOpenAI: true,
	EmbeddingOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}

	if c.EmbeddingProvider == "" {
		c.EmbeddingProvider = EmbeddingNone
	}
	if !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of none, openai, ollama", c.EmbeddingProvider)
	}
	if c.EmbeddingProvider != EmbeddingNone && c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required when embedding_provider is set")
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("embedding_dimensions must be positive")
	}

	if c.IntentThreshold <= 0 || c.IntentThreshold > 1 {
		return fmt.Errorf("intent_threshold must be in (0, 1]")
	}
	if c.SuggestionLimit < 1 || c.SuggestionLimit > 10 {
		return fmt.Errorf("suggestion_limit must be between 1 and 10")
	}
	if c.MaxMessageLength < 1 {
		return fmt.Errorf("max_message_length must be positive")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given embedding provider.
func APIKeyEnvVar(provider EmbeddingProviderType) string {
	switch provider {
	case EmbeddingOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
