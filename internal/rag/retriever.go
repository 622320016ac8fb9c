package rag

import (
	"context"
	"fmt"

	"github.com/tubetalk/tubetalk/internal/index"
	"github.com/tubetalk/tubetalk/internal/models"
)

// Retriever maps a standalone query to its top-k most similar passages.
type Retriever struct {
	embedder Embedder
}

// NewRetriever creates a retriever using embedder for query vectors.
func NewRetriever(embedder Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve embeds query and searches idx. Pure with respect to its inputs;
// the index is never mutated.
func (r *Retriever) Retrieve(ctx context.Context, idx *index.Index, query string, k int) ([]models.Passage, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed retrieval query: %w", err)
	}

	passages, err := idx.Search(vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return passages, nil
}
