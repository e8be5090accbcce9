package embeddings

import "context"

// Embedder is one concrete embedding backend. Implementations are
// wrapped by Provider, which owns all degraded-mode behavior; an
// Embedder itself may fail freely.
type Embedder interface {
	// Embed returns one vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the width of the vectors Embed returns.
	Dimensions() int

	// Name identifies the backing model in logs.
	Name() string
}
