package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubetalk/tubetalk/internal/models"
)

func passages(texts ...string) []models.Passage {
	out := make([]models.Passage, len(texts))
	for i, s := range texts {
		out[i] = models.Passage{Text: s, SourceOrder: i}
	}
	return out
}

func TestBuild_LengthMismatch(t *testing.T) {
	_, err := Build(passages("a", "b"), [][]float32{{1, 0}})
	assert.Error(t, err)
}

func TestBuild_DimensionMismatch(t *testing.T) {
	_, err := Build(passages("a", "b"), [][]float32{{1, 0}, {1, 0, 0}})
	assert.Error(t, err)
}

func TestBuild_ZeroLengthVector(t *testing.T) {
	_, err := Build(passages("a"), [][]float32{{}})
	assert.Error(t, err)
}

func TestBuild_Empty(t *testing.T) {
	idx, err := Build(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())

	results, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ExactMatchRanksFirst(t *testing.T) {
	vecs := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	idx, err := Build(passages("first", "second", "third"), vecs)
	require.NoError(t, err)

	results, err := idx.Search([]float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "second", results[0].Text)
}

func TestSearch_RankedDescending(t *testing.T) {
	vecs := [][]float32{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
	}
	idx, err := Build(passages("close", "closer", "far"), vecs)
	require.NoError(t, err)

	results, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "close", results[0].Text)
	assert.Equal(t, "closer", results[1].Text)
	assert.Equal(t, "far", results[2].Text)
}

func TestSearch_KClampedReturnsEachOnce(t *testing.T) {
	vecs := [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}
	idx, err := Build(passages("a", "b", "c"), vecs)
	require.NoError(t, err)

	results, err := idx.Search([]float32{1, 1}, 100)
	require.NoError(t, err)
	require.Len(t, results, 3)

	seen := map[string]int{}
	for _, p := range results {
		seen[p.Text]++
	}
	for text, n := range seen {
		assert.Equal(t, 1, n, "passage %q returned %d times", text, n)
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	vecs := [][]float32{
		{0, 1},
		{1, 0},
		{1, 0},
	}
	idx, err := Build(passages("off-axis", "dup-a", "dup-b"), vecs)
	require.NoError(t, err)

	results, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, "dup-a", results[0].Text)
	assert.Equal(t, "dup-b", results[1].Text)
	assert.Equal(t, "off-axis", results[2].Text)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx, err := Build(passages("a"), [][]float32{{1, 0, 0}})
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0}, 1)
	assert.Error(t, err)
}

func TestPassagesInOrder(t *testing.T) {
	vecs := [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}
	idx, err := Build(passages("p0", "p1", "p2"), vecs)
	require.NoError(t, err)

	all := idx.PassagesInOrder(0)
	require.Len(t, all, 3)
	assert.Equal(t, "p0", all[0].Text)

	limited := idx.PassagesInOrder(2)
	require.Len(t, limited, 2)
	assert.Equal(t, "p1", limited[1].Text)

	over := idx.PassagesInOrder(10)
	assert.Len(t, over, 3)
}
