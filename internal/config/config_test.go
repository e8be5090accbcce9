package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Port != def.Port || cfg.EmbeddingProvider != def.EmbeddingProvider {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "safetydesk.yml")
	content := `port: 9999
embedding_provider: ollama
embedding_model: nomic-embed-text
embedding_dimensions: 768
contacts:
  emergency: "112"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.EmbeddingProvider != EmbeddingOllama {
		t.Errorf("EmbeddingProvider = %q, want ollama", cfg.EmbeddingProvider)
	}
	if cfg.Contacts.Emergency != "112" {
		t.Errorf("Contacts.Emergency = %q, want 112", cfg.Contacts.Emergency)
	}
	// Untouched keys keep their defaults.
	if cfg.SuggestionLimit != DefaultConfig().SuggestionLimit {
		t.Errorf("SuggestionLimit = %d, want default", cfg.SuggestionLimit)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SAFETYDESK_PORT", "7070")
	t.Setenv("SAFETYDESK_DATA_DIR", "/tmp/sd-data")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want env override 7070", cfg.Port)
	}
	if cfg.DataDir != "/tmp/sd-data" {
		t.Errorf("DataDir = %q, want env override", cfg.DataDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")

	cfg := DefaultConfig()
	cfg.Port = 8181
	cfg.EmbeddingProvider = EmbeddingOpenAI
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Port != 8181 || got.EmbeddingProvider != EmbeddingOpenAI {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return DefaultConfig() }

	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.Port = 0 }, false},
		{"port too high", func(c *Config) { c.Port = 70000 }, false},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, false},
		{"unknown provider", func(c *Config) { c.EmbeddingProvider = "azure" }, false},
		{"provider without model", func(c *Config) {
			c.EmbeddingProvider = EmbeddingOpenAI
			c.EmbeddingModel = ""
		}, false},
		{"zero dimensions", func(c *Config) { c.EmbeddingDimensions = 0 }, false},
		{"threshold too high", func(c *Config) { c.IntentThreshold = 1.5 }, false},
		{"suggestion limit too high", func(c *Config) { c.SuggestionLimit = 50 }, false},
		{"empty provider defaults to none", func(c *Config) { c.EmbeddingProvider = "" }, true},
	}

	for _, tt := range tests {
		cfg := valid()
		tt.mutate(cfg)
		err := cfg.Validate()
		if (err == nil) != tt.wantOK {
			t.Errorf("%s: Validate() = %v, wantOK %v", tt.name, err, tt.wantOK)
		}
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(EmbeddingOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnvVar(openai) = %q", got)
	}
	if got := APIKeyEnvVar(EmbeddingNone); got != "" {
		t.Errorf("APIKeyEnvVar(none) = %q, want empty", got)
	}
}
