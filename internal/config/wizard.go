package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// defaultModels maps each embedding provider to its usual model and
// dimension count.
var defaultModels = map[EmbeddingProviderType]struct {
	Model      string
	Dimensions int
}{
	EmbeddingOpenAI: {Model: "text-embedding-3-small", Dimensions: 1536},
	EmbeddingOllama: {Model: "nomic-embed-text", Dimensions: 768},
	EmbeddingNone:   {Model: "", Dimensions: 384},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .safetydesk.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to safetydesk! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Embedding backend. "none" is a first-class choice: the intake
	// engine runs fully on lexical rules without one.
	providerPrompt := promptui.Select{
		Label: "Embedding backend for paraphrase matching",
		Items: []string{
			"none   - lexical rules only (no model dependency)",
			"openai - text-embedding-3-small via API",
			"ollama - local model (nomic-embed-text)",
		},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding backend selection: %w", err)
	}
	providers := []EmbeddingProviderType{EmbeddingNone, EmbeddingOpenAI, EmbeddingOllama}
	cfg.EmbeddingProvider = providers[providerIdx]
	preset := defaultModels[cfg.EmbeddingProvider]
	cfg.EmbeddingModel = preset.Model
	cfg.EmbeddingDimensions = preset.Dimensions

	// 2. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p <= 0 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (incident database and uploads)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir
	cfg.UploadDir = dataDir + "/uploads"

	// 4. Site emergency contact.
	contactPrompt := promptui.Prompt{
		Label:   "Site emergency phone number",
		Default: cfg.Contacts.Emergency,
	}
	emergency, err := contactPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("emergency contact: %w", err)
	}
	cfg.Contacts.Emergency = emergency

	// Check for API key.
	envVar := APIKeyEnvVar(cfg.EmbeddingProvider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running safetydesk serve.\n", envVar)
		}
	}

	// Save to .safetydesk.yml.
	configPath := ".safetydesk.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
