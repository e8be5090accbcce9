package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openaiBatchSize caps texts per embeddings request. The intake engine
// only embeds small sets (canonical intent examples, the corrective
// action library), so a modest cap keeps every request far below API
// limits while still covering the occasional larger call.
const openaiBatchSize = 32

// OpenAIModel names a supported OpenAI embedding model.
type OpenAIModel string

const (
	ModelTextEmbedding3Small OpenAIModel = "text-embedding-3-small"
	ModelTextEmbedding3Large OpenAIModel = "text-embedding-3-large"
)

func (m OpenAIModel) dimensions() int {
	if m == ModelTextEmbedding3Large {
		return 3072
	}
	return 1536
}

// OpenAIEmbedder generates embeddings through the OpenAI API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  OpenAIModel
}

// NewOpenAIEmbedder creates an embedder for the given API key and model.
func NewOpenAIEmbedder(apiKey string, model OpenAIModel) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: openai.NewClient(apiKey), model: model}
}

func (e *OpenAIEmbedder) Name() string { return string(e.model) }

func (e *OpenAIEmbedder) Dimensions() int { return e.model.dimensions() }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += openaiBatchSize {
		end := min(start+openaiBatchSize, len(texts))
		batch := texts[start:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings request: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			vectors = append(vectors, d.Embedding)
		}
	}
	return vectors, nil
}
