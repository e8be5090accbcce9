package embeddings

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
)

// Provider wraps an Embedder with a degraded mode for when no embedding
// backend is configured or the backend fails to initialize. In degraded
// mode Embed and EmbedMany return all-zero vectors of the configured
// dimension and Similarity is 0 for any pair. Callers must treat a zero
// vector as "no signal", never as a legitimate embedding of empty text.
//
// The backend is initialized at most once, lazily, on first use. A failed
// initialization is cached as unavailable and not retried.
type Provider struct {
	factory     func() (Embedder, error)
	fallbackDim int

	once      sync.Once
	embedder  Embedder
	available bool
}

// NewProvider creates a provider backed by the Embedder returned from
// factory. The factory runs once, on first use; if it fails the provider
// stays in degraded mode for the life of the process. fallbackDim is the
// vector dimension used while degraded.
func NewProvider(factory func() (Embedder, error), fallbackDim int) *Provider {
	return &Provider{factory: factory, fallbackDim: fallbackDim}
}

// Disabled creates a provider that is permanently in degraded mode.
func Disabled(fallbackDim int) *Provider {
	return &Provider{fallbackDim: fallbackDim}
}

// init resolves the backend exactly once. Concurrent first callers all
// observe the single winning initialization.
func (p *Provider) init() {
	p.once.Do(func() {
		if p.factory == nil {
			return
		}
		emb, err := p.factory()
		if err != nil {
			log.Printf("embeddings: backend initialization failed, running degraded: %v", err)
			return
		}
		p.embedder = emb
		p.available = true
		log.Printf("embeddings: backend %s ready (%d dimensions)", emb.Name(), emb.Dimensions())
	})
}

// IsAvailable reports whether a live embedding backend is in use. The
// flag is set once by the first call that needs the backend and never
// changes afterwards.
func (p *Provider) IsAvailable() bool {
	p.init()
	return p.available
}

// Dimensions returns the vector dimension: the backend's when available,
// the configured fallback otherwise.
func (p *Provider) Dimensions() int {
	p.init()
	if p.available {
		return p.embedder.Dimensions()
	}
	return p.fallbackDim
}

// Embed returns the L2-normalized embedding of text, or a zero vector if
// the backend is unavailable or fails. Backend failures are logged, not
// returned.
func (p *Provider) Embed(ctx context.Context, text string) []float32 {
	return p.EmbedMany(ctx, []string{text})[0]
}

// EmbedMany embeds each text, degrading to zero vectors on any failure.
// The result always has exactly one vector per input text.
func (p *Provider) EmbedMany(ctx context.Context, texts []string) [][]float32 {
	p.init()

	if p.available {
		vecs, err := p.embedder.Embed(ctx, texts)
		if err == nil && len(vecs) == len(texts) {
			for _, v := range vecs {
				normalize(v)
			}
			return vecs
		}
		if err != nil {
			log.Printf("embeddings: embed failed, returning zero vectors: %v", err)
		} else {
			log.Printf("embeddings: backend returned %d vectors for %d texts, returning zero vectors", len(vecs), len(texts))
		}
	}

	dim := p.Dimensions()
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = make([]float32, dim)
	}
	return vecs
}

// Similarity computes the cosine similarity of two vectors produced by
// this provider. Vectors are normalized at embed time, so this is a plain
// dot product in [-1, 1]. Mismatched lengths and zero vectors yield 0.
func (p *Provider) Similarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// IsZero reports whether v carries no signal (all components zero).
func IsZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// ErrUnavailable is returned by ToChromemFunc when no backend is live.
var ErrUnavailable = fmt.Errorf("embedding backend unavailable")
