package config

// EmbeddingProviderType identifies the embedding backend.
type EmbeddingProviderType string

const (
	// EmbeddingNone disables embeddings; the engine runs on lexical
	// rules alone with zero-vector degraded embeddings.
	EmbeddingNone   EmbeddingProviderType = "none"
	EmbeddingOpenAI EmbeddingProviderType = "openai"
	EmbeddingOllama EmbeddingProviderType = "ollama"
)

// Config is the top-level safetydesk configuration, corresponding to
// .safetydesk.yml.
type Config struct {
	Port            int    `yaml:"port" koanf:"port"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	UploadDir       string `yaml:"upload_dir" koanf:"upload_dir"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	EmbeddingProvider   EmbeddingProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string                `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int                   `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	EmbeddingBaseURL    string                `yaml:"embedding_base_url" koanf:"embedding_base_url"`

	IntentThreshold  float64 `yaml:"intent_threshold" koanf:"intent_threshold"`
	SuggestionLimit  int     `yaml:"suggestion_limit" koanf:"suggestion_limit"`
	MaxMessageLength int     `yaml:"max_message_length" koanf:"max_message_length"`

	Contacts ContactsConfig `yaml:"contacts" koanf:"contacts"`
}

// ContactsConfig holds the site emergency numbers surfaced in
// emergency guidance responses.
type ContactsConfig struct {
	Emergency string `yaml:"emergency" koanf:"emergency"`
	Security  string `yaml:"security" koanf:"security"`
}
