package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/safetydesk/safetydesk/internal/config"
	"github.com/safetydesk/safetydesk/internal/embeddings"
	"github.com/safetydesk/safetydesk/internal/incident"
)

// createProviderFromConfig builds the embedding provider for the
// configured backend. The provider degrades to zero vectors rather than
// failing, so this never errors on a missing or unreachable backend;
// only a missing API key for an explicitly requested backend is fatal.
func createProviderFromConfig(cfg *config.Config) (*embeddings.Provider, error) {
	switch cfg.EmbeddingProvider {
	case config.EmbeddingOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.EmbeddingOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		model := cfg.EmbeddingModel
		return embeddings.NewProvider(func() (embeddings.Embedder, error) {
			return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
		}, cfg.EmbeddingDimensions), nil

	case config.EmbeddingOllama:
		model := cfg.EmbeddingModel
		dims := cfg.EmbeddingDimensions
		baseURL := cfg.EmbeddingBaseURL
		return embeddings.NewProvider(func() (embeddings.Embedder, error) {
			return embeddings.NewOllamaEmbedder(model, dims, baseURL), nil
		}, cfg.EmbeddingDimensions), nil

	default:
		return embeddings.Disabled(cfg.EmbeddingDimensions), nil
	}
}

// openIncidentStore opens the SQLite incident store under the data dir,
// creating the directory if needed.
func openIncidentStore(cfg *config.Config) (*incident.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", cfg.UploadDir, err)
	}
	return incident.Open(filepath.Join(cfg.DataDir, "safetydesk.db"))
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `safetydesk init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
