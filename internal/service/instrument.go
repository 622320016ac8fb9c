package service

import (
	"context"
	"time"

	"github.com/tubetalk/tubetalk/internal/metrics"
	"github.com/tubetalk/tubetalk/internal/models"
	"github.com/tubetalk/tubetalk/internal/rag"
)

// instrumentedGenerator records timing and error counts for every
// generation call.
type instrumentedGenerator struct {
	inner     rag.Generator
	collector *metrics.Collector
}

func (g *instrumentedGenerator) Generate(ctx context.Context, system string, history []models.Turn, user string) (text string, err error) {
	defer g.collector.Observe(metrics.OpGenerate, time.Now(), &err)
	text, err = g.inner.Generate(ctx, system, history, user)
	return text, err
}

// instrumentedEmbedder records timing and error counts for embedding calls.
type instrumentedEmbedder struct {
	inner     rag.Embedder
	collector *metrics.Collector
}

func (e *instrumentedEmbedder) EmbedBatch(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	defer e.collector.Observe(metrics.OpEmbedding, time.Now(), &err)
	vectors, err = e.inner.EmbedBatch(ctx, texts)
	return vectors, err
}

func (e *instrumentedEmbedder) EmbedQuery(ctx context.Context, text string) (vector []float32, err error) {
	defer e.collector.Observe(metrics.OpEmbedding, time.Now(), &err)
	vector, err = e.inner.EmbedQuery(ctx, text)
	return vector, err
}

func (e *instrumentedEmbedder) Dimension() int {
	return e.inner.Dimension()
}
