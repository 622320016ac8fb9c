package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_ExactTextRanksFirst(t *testing.T) {
	emb := &hashEmbedder{dim: 16}
	idx := buildIndex(emb,
		"Cats are mammals.",
		"Dogs are mammals too.",
		"Fish are not mammals.",
	)

	r := NewRetriever(emb)
	passages, err := r.Retrieve(context.Background(), idx, "Dogs are mammals too.", 2)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "Dogs are mammals too.", passages[0].Text)
}

func TestRetrieve_KClampedToIndexSize(t *testing.T) {
	emb := &hashEmbedder{dim: 8}
	idx := buildIndex(emb, "only one passage")

	r := NewRetriever(emb)
	passages, err := r.Retrieve(context.Background(), idx, "anything", 10)
	require.NoError(t, err)
	assert.Len(t, passages, 1)
}

func TestRetrieve_UnrelatedQueryDoesNotFail(t *testing.T) {
	emb := &hashEmbedder{dim: 8}
	idx := buildIndex(emb, "Cats are mammals.", "Dogs are mammals too.")

	r := NewRetriever(emb)
	passages, err := r.Retrieve(context.Background(), idx, "What about it?", 2)
	require.NoError(t, err)
	assert.Len(t, passages, 2, "degraded retrieval still returns ranked passages")
}

func TestRetrieve_EmbedErrorPropagates(t *testing.T) {
	good := &hashEmbedder{dim: 8}
	idx := buildIndex(good, "some text")

	r := NewRetriever(&hashEmbedder{dim: 8, err: errors.New("embedding api down")})
	_, err := r.Retrieve(context.Background(), idx, "query", 1)
	assert.Error(t, err)
}
