package config

// DefaultConfig returns a Config with sensible defaults. Embeddings are
// off by default: the lexical classifier covers the safety-critical
// paths without any model dependency.
func DefaultConfig() *Config {
	return &Config{
		Port:      8090,
		DataDir:   "data",
		UploadDir: "data/uploads",

		EmbeddingProvider:   EmbeddingNone,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 384,

		IntentThreshold:  0.5,
		SuggestionLimit:  3,
		MaxMessageLength: 5000,

		Contacts: ContactsConfig{
			Emergency: "911",
			Security:  "(555) 123-4568",
		},
	}
}
