package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/tubetalk/tubetalk/internal/config"
)

// Embedder wraps langchaingo embeddings with request batching, dimension
// validation and L2 normalization. Document and query vectors come from the
// same model, so similarity scores are comparable.
type Embedder struct {
	model     embeddings.Embedder
	dimension int
	batchSize int
	modelName string
}

// NewEmbedder creates an embedder based on configuration.
func NewEmbedder(cfg config.Config) (*Embedder, error) {
	var model embeddings.Embedder
	var err error

	switch cfg.EmbedProvider {
	case config.ProviderOllama:
		llm, ollamaErr := ollama.New(
			ollama.WithModel(cfg.EmbedModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if ollamaErr != nil {
			return nil, fmt.Errorf("create ollama client: %w", ollamaErr)
		}
		model, err = embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create ollama embedder: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		llm, openaiErr := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithEmbeddingModel(cfg.EmbedModel),
		)
		if openaiErr != nil {
			return nil, fmt.Errorf("create openai client: %w", openaiErr)
		}
		model, err = embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create openai embedder: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbedProvider)
	}

	batch := cfg.EmbedBatchSize
	if batch <= 0 {
		batch = 32
	}

	return &Embedder{
		model:     model,
		dimension: cfg.EmbedDimension,
		batchSize: batch,
		modelName: cfg.EmbedModel,
	}, nil
}

// EmbedBatch generates embeddings for texts, preserving length and order.
// Requests are sent in batches of at most the configured size; any batch
// failure fails the whole call, never returning partial results.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	out := make([][]float32, 0, len(texts))
	for lo := 0; lo < len(texts); lo += e.batchSize {
		hi := lo + e.batchSize
		if hi > len(texts) {
			hi = len(texts)
		}
		vectors, err := e.model.EmbedDocuments(ctx, texts[lo:hi])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d of %d: %w", lo, hi, len(texts), err)
		}
		if len(vectors) != hi-lo {
			return nil, fmt.Errorf("embed batch count mismatch: got %d, want %d", len(vectors), hi-lo)
		}
		out = append(out, vectors...)
	}

	for i, v := range out {
		if len(v) != e.dimension {
			return nil, fmt.Errorf("embedding %d dimension mismatch: got %d, want %d", i, len(v), e.dimension)
		}
		normalize(v)
	}

	slog.Debug("embed batch complete", "model", e.modelName, "texts", len(texts),
		"duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// EmbedQuery generates an embedding for a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.model.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vector) != e.dimension {
		return nil, fmt.Errorf("query dimension mismatch: got %d, want %d", len(vector), e.dimension)
	}
	normalize(vector)
	return vector, nil
}

// Dimension returns the expected embedding dimension.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// ModelName returns the embedding model name.
func (e *Embedder) ModelName() string {
	return e.modelName
}

// normalize scales v to unit L2 length in place. Zero vectors are left as-is.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
