package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tubetalk/tubetalk/internal/config"
	"github.com/tubetalk/tubetalk/internal/index"
)

const (
	// summaryProbeQuery drives retrieval for the direct strategy.
	summaryProbeQuery = "comprehensive summary of the video content"

	summaryFormatInstruction = "Write the summary in English regardless of the transcript " +
		"language. Start with a short abstract of 2-3 sentences, then a line containing " +
		"only ###, then 5-7 bullet points covering the key topics."

	mapInstruction = "Summarize this transcript chunk in a few sentences. " +
		"Write in English regardless of the chunk language."
)

// Summarizer produces a structured abstract+bullets summary of an indexed
// transcript, using either a single direct generation over retrieved
// passages or a map-reduce pass over passages in source order.
type Summarizer struct {
	gen       Generator
	retriever *Retriever
	strategy  config.SummaryStrategy
	topK      int
	mapLimit  int
}

// NewSummarizer creates a summarizer. topK bounds direct-strategy retrieval;
// mapLimit bounds the number of map-reduce passages.
func NewSummarizer(gen Generator, retriever *Retriever, strategy config.SummaryStrategy, topK, mapLimit int) *Summarizer {
	if topK <= 0 {
		topK = 7
	}
	if mapLimit <= 0 {
		mapLimit = 5
	}
	return &Summarizer{
		gen:       gen,
		retriever: retriever,
		strategy:  strategy,
		topK:      topK,
		mapLimit:  mapLimit,
	}
}

// Summarize drives the configured strategy over idx. An empty index returns
// NoContentSentinel without any generation call.
func (s *Summarizer) Summarize(ctx context.Context, idx *index.Index) (string, error) {
	if idx.Len() == 0 {
		return NoContentSentinel, nil
	}

	switch s.strategy {
	case config.StrategyDirect:
		return s.direct(ctx, idx)
	default:
		return s.mapReduce(ctx, idx)
	}
}

func (s *Summarizer) direct(ctx context.Context, idx *index.Index) (string, error) {
	passages, err := s.retriever.Retrieve(ctx, idx, summaryProbeQuery, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve summary passages: %w", err)
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	user := "Summarize the following video transcript excerpts:\n\n" + strings.Join(texts, "\n\n")
	summary, err := s.gen.Generate(ctx, summaryFormatInstruction, nil, user)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

func (s *Summarizer) mapReduce(ctx context.Context, idx *index.Index) (string, error) {
	passages := idx.PassagesInOrder(s.mapLimit)

	partials := make([]string, 0, len(passages))
	for _, p := range passages {
		partial, err := s.gen.Generate(ctx, mapInstruction, nil, p.Text)
		if err != nil {
			// A failed chunk is skipped, not fatal.
			slog.Warn("chunk summary failed", "source_order", p.SourceOrder, "error", err)
			continue
		}
		partials = append(partials, strings.TrimSpace(partial))
	}

	if len(partials) == 0 {
		return "", fmt.Errorf("all %d chunk summaries failed", len(passages))
	}

	user := "Combine these partial summaries of one video into a single cohesive summary:\n\n" +
		strings.Join(partials, "\n")
	summary, err := s.gen.Generate(ctx, summaryFormatInstruction, nil, user)
	if err != nil {
		return "", fmt.Errorf("combine summaries: %w", err)
	}
	return strings.TrimSpace(summary), nil
}
