package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tubetalk/tubetalk/internal/models"
)

const condenseInstruction = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, formulate a standalone " +
	"question which can be understood without the chat history. Do NOT answer " +
	"the question, just reformulate it if needed and otherwise return it as is."

// Condenser rewrites follow-up questions into standalone retrieval queries.
type Condenser struct {
	gen Generator

	// Fallback controls behavior when the rewrite call fails: false fails
	// the whole query (reference behavior), true logs and falls back to the
	// raw question.
	Fallback bool
}

// NewCondenser creates a condenser backed by gen.
func NewCondenser(gen Generator, fallback bool) *Condenser {
	return &Condenser{gen: gen, Fallback: fallback}
}

// Condense returns a standalone form of question. With empty history it
// returns question unchanged and makes no generation call.
func (c *Condenser) Condense(ctx context.Context, history []models.Turn, question string) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	standalone, err := c.gen.Generate(ctx, condenseInstruction, history, question)
	if err != nil {
		if c.Fallback {
			slog.Warn("question condensing failed, using raw question", "error", err)
			return question, nil
		}
		return "", fmt.Errorf("condense question: %w", err)
	}

	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		// An empty rewrite would retrieve nothing useful.
		return question, nil
	}
	return standalone, nil
}
