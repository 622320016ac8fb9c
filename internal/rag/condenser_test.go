package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubetalk/tubetalk/internal/models"
)

func TestCondense_EmptyHistoryShortCircuits(t *testing.T) {
	gen := &fakeGenerator{}
	c := NewCondenser(gen, false)

	got, err := c.Condense(context.Background(), nil, "What is X?")
	require.NoError(t, err)
	assert.Equal(t, "What is X?", got)
	assert.Empty(t, gen.calls, "no generation call expected for empty history")
}

func TestCondense_RewritesWithHistory(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"  Are dogs mammals?  "}}
	c := NewCondenser(gen, false)

	history := []models.Turn{
		{Role: models.RoleUser, Text: "Tell me about dogs."},
		{Role: models.RoleAssistant, Text: "Dogs are domesticated animals."},
	}
	got, err := c.Condense(context.Background(), history, "Are they mammals?")
	require.NoError(t, err)
	assert.Equal(t, "Are dogs mammals?", got)

	require.Len(t, gen.calls, 1)
	call := gen.calls[0]
	assert.Contains(t, call.system, "Do NOT answer the question")
	assert.Equal(t, history, call.history)
	assert.Equal(t, "Are they mammals?", call.user)
}

func TestCondense_StrictFailureIsFatal(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend down")}
	c := NewCondenser(gen, false)

	history := []models.Turn{{Role: models.RoleUser, Text: "hi"}}
	_, err := c.Condense(context.Background(), history, "What about it?")
	assert.Error(t, err)
}

func TestCondense_LenientFallsBackToRawQuestion(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend down")}
	c := NewCondenser(gen, true)

	history := []models.Turn{{Role: models.RoleUser, Text: "hi"}}
	got, err := c.Condense(context.Background(), history, "What about it?")
	require.NoError(t, err)
	assert.Equal(t, "What about it?", got)
}

func TestCondense_EmptyRewriteFallsBack(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"   "}}
	c := NewCondenser(gen, false)

	history := []models.Turn{{Role: models.RoleUser, Text: "hi"}}
	got, err := c.Condense(context.Background(), history, "original question")
	require.NoError(t, err)
	assert.Equal(t, "original question", got)
}
