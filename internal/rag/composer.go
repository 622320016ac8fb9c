package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/tubetalk/tubetalk/internal/models"
)

const composeInstructionFormat = "You are an assistant answering questions about a video " +
	"from its transcript. Use ONLY the following pieces of retrieved transcript context " +
	"to answer the question. Answer directly and concisely, without meta-phrases like " +
	"\"according to the passage\". If the context does not contain the information needed " +
	"to answer, reply with exactly: %s\n\n%s"

// Composer turns retrieved passages and a question into a grounded answer.
type Composer struct {
	gen Generator
}

// NewComposer creates a composer backed by gen.
func NewComposer(gen Generator) *Composer {
	return &Composer{gen: gen}
}

// Compose issues one generation request answering question from passages.
// Passages are joined in retrieval rank order; history is supplied for tone
// and continuity only. The question is the user's original one, not the
// condensed retrieval query.
func (c *Composer) Compose(ctx context.Context, question string, history []models.Turn, passages []models.Passage) (string, error) {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	contextBlock := strings.Join(texts, "\n\n")

	system := fmt.Sprintf(composeInstructionFormat, RefusalAnswer, contextBlock)

	answer, err := c.gen.Generate(ctx, system, history, question)
	if err != nil {
		return "", fmt.Errorf("compose answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
