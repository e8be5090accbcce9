package embeddings

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
)

// fakeEmbedder returns fixed vectors keyed by input text. Unknown texts
// get the default vector.
type fakeEmbedder struct {
	dims    int
	vecs    map[string][]float32
	defVec  []float32
	failAll bool
}

func (f *fakeEmbedder) Name() string    { return "fake" }
func (f *fakeEmbedder) Dimensions() int { return f.dims }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.failAll {
		return nil, fmt.Errorf("backend down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vecs[t]
		if !ok {
			v = f.defVec
		}
		out[i] = append([]float32(nil), v...)
	}
	return out, nil
}

func TestDisabledProviderReturnsZeroVectors(t *testing.T) {
	p := Disabled(8)

	if p.IsAvailable() {
		t.Fatal("disabled provider reports available")
	}
	if got := p.Dimensions(); got != 8 {
		t.Fatalf("Dimensions() = %d, want 8", got)
	}

	v := p.Embed(context.Background(), "anything at all")
	if len(v) != 8 {
		t.Fatalf("Embed returned %d dims, want 8", len(v))
	}
	if !IsZero(v) {
		t.Errorf("degraded Embed returned non-zero vector: %v", v)
	}
}

func TestFailedFactoryInitializesOnce(t *testing.T) {
	calls := 0
	p := NewProvider(func() (Embedder, error) {
		calls++
		return nil, fmt.Errorf("no backend")
	}, 4)

	for i := 0; i < 3; i++ {
		if p.IsAvailable() {
			t.Fatal("provider with failing factory reports available")
		}
		if v := p.Embed(context.Background(), "x"); !IsZero(v) {
			t.Fatal("expected zero vector from degraded provider")
		}
	}
	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
}

func TestEmbedNormalizesVectors(t *testing.T) {
	p := NewProvider(func() (Embedder, error) {
		return &fakeEmbedder{
			dims:   3,
			vecs:   map[string][]float32{"a": {3, 0, 4}},
			defVec: []float32{1, 0, 0},
		}, nil
	}, 3)

	v := p.Embed(context.Background(), "a")
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("embedded vector has squared norm %f, want 1", sum)
	}
}

func TestSimilarity(t *testing.T) {
	p := NewProvider(func() (Embedder, error) {
		return &fakeEmbedder{
			dims: 2,
			vecs: map[string][]float32{
				"a": {1, 0},
				"b": {0, 1},
			},
			defVec: []float32{1, 0},
		}, nil
	}, 2)

	ctx := context.Background()
	a := p.Embed(ctx, "a")
	b := p.Embed(ctx, "b")

	if sim := p.Similarity(a, a); math.Abs(float64(sim)-1) > 1e-6 {
		t.Errorf("Similarity(a, a) = %f, want 1", sim)
	}
	if sim := p.Similarity(a, b); sim != 0 {
		t.Errorf("Similarity(a, b) = %f, want 0", sim)
	}

	zero := make([]float32, 2)
	if sim := p.Similarity(a, zero); sim != 0 {
		t.Errorf("Similarity with zero vector = %f, want 0", sim)
	}
	if sim := p.Similarity(a, []float32{1}); sim != 0 {
		t.Errorf("Similarity with mismatched lengths = %f, want 0", sim)
	}
}

func TestEmbedFailureDegradesToZero(t *testing.T) {
	p := NewProvider(func() (Embedder, error) {
		return &fakeEmbedder{dims: 4, failAll: true}, nil
	}, 4)

	if !p.IsAvailable() {
		t.Fatal("provider with working factory should be available")
	}
	v := p.Embed(context.Background(), "x")
	if len(v) != 4 || !IsZero(v) {
		t.Errorf("expected 4-dim zero vector on embed failure, got %v", v)
	}
}

func TestConcurrentFirstUse(t *testing.T) {
	calls := 0
	p := NewProvider(func() (Embedder, error) {
		calls++
		return &fakeEmbedder{dims: 2, defVec: []float32{1, 0}}, nil
	}, 2)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Embed(context.Background(), "x")
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("factory ran %d times under concurrent first use, want 1", calls)
	}
}
