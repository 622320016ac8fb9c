// Package rag implements the retrieval-augmented answering pipeline:
// condensing follow-up questions, retrieving relevant passages, composing
// grounded answers and summarizing indexed transcripts.
package rag

import (
	"context"

	"github.com/tubetalk/tubetalk/internal/models"
)

// Generator is the generation backend as seen by the pipeline: one
// request/response call with a system instruction, prior turns and user text.
type Generator interface {
	Generate(ctx context.Context, system string, history []models.Turn, user string) (string, error)
}

// Embedder maps text to fixed-dimension vectors. Query and document vectors
// must come from the same model.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// RefusalAnswer is the exact string the composer instructs the backend to
// return when the retrieved context cannot answer the question.
const RefusalAnswer = "I couldn't find that information in the video."

// NoContentSentinel is returned by the summarizer for an empty index,
// without any generation call.
const NoContentSentinel = "No content found to summarize."
