package rag

import (
	"context"
	"errors"
	"math"

	"github.com/tubetalk/tubetalk/internal/index"
	"github.com/tubetalk/tubetalk/internal/models"
)

// fakeGenerator scripts generation responses and records every call.
type fakeGenerator struct {
	responses []string
	err       error
	failFirst int // fail the first n calls, then use responses

	calls []genCall
}

type genCall struct {
	system  string
	history []models.Turn
	user    string
}

func (g *fakeGenerator) Generate(_ context.Context, system string, history []models.Turn, user string) (string, error) {
	call := len(g.calls)
	g.calls = append(g.calls, genCall{system: system, history: history, user: user})

	if call < g.failFirst {
		return "", errors.New("backend unavailable")
	}
	if g.err != nil {
		return "", g.err
	}
	i := call - g.failFirst
	if i >= len(g.responses) {
		if len(g.responses) == 0 {
			return "generated text", nil
		}
		i = len(g.responses) - 1
	}
	return g.responses[i], nil
}

// hashEmbedder produces deterministic vectors from character content, good
// enough to make identical texts identical vectors.
type hashEmbedder struct {
	dim int
	err error
}

func (e *hashEmbedder) embed(text string) []float32 {
	v := make([]float32, e.dim)
	for i, r := range text {
		v[i%e.dim] += float32(r) / 1000
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum > 0 {
		inv := 1 / math.Sqrt(sum)
		for i := range v {
			v[i] = float32(float64(v[i]) * inv)
		}
	}
	return v
}

func (e *hashEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.embed(text), nil
}

func (e *hashEmbedder) Dimension() int { return e.dim }

// buildIndex indexes texts with the given embedder for tests.
func buildIndex(emb Embedder, texts ...string) *index.Index {
	passages := make([]models.Passage, len(texts))
	for i, t := range texts {
		passages[i] = models.Passage{Text: t, SourceOrder: i}
	}
	vectors, err := emb.EmbedBatch(context.Background(), texts)
	if err != nil {
		panic(err)
	}
	idx, err := index.Build(passages, vectors)
	if err != nil {
		panic(err)
	}
	return idx
}
