package embeddings

import (
	"context"

	chromem "github.com/philippgille/chromem-go"
)

// ToChromemFunc converts a Provider into a chromem.EmbeddingFunc.
// chromem-go expects a function that embeds a single text at a time and
// cannot work with zero vectors, so the func errors when the provider is
// degraded. Callers should skip the vector index entirely in that case.
func ToChromemFunc(p *Provider) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		if !p.IsAvailable() {
			return nil, ErrUnavailable
		}
		v := p.Embed(ctx, text)
		if IsZero(v) {
			return nil, ErrUnavailable
		}
		return v, nil
	}
}
