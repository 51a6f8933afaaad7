package semantic

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/claimlens/core"
)

func chunk(number string, vec ...float32) *core.ClaimChunk {
	return &core.ClaimChunk{ClaimNumber: number, Text: "Claim " + number + ".", Embedding: vec}
}

func matchNumbers(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Chunk.ClaimNumber
	}
	return out
}

func TestMemoryIndex_TopK(t *testing.T) {
	idx := NewMemoryIndex([]*core.ClaimChunk{
		chunk("CLM-2025-1003", 1, 1),
		chunk("CLM-2025-1001", 1, 0),
		nil,
		chunk("CLM-2025-1002", 1, 1),
		chunk("CLM-2025-1004", -1, 0),
		chunk("CLM-2025-1005", 0, 1),
		chunk("CLM-2025-1006", 0, 0),
	})
	assert.Equal(t, 6, idx.Len())

	query := []float32{1, 0.1}

	got := idx.TopK(query, 10)
	assert.Equal(t, []string{"CLM-2025-1001", "CLM-2025-1002", "CLM-2025-1003", "CLM-2025-1005"}, matchNumbers(got),
		"ties broken by claim number; non-positive similarity dropped")
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Similarity, got[i].Similarity)
	}

	assert.Equal(t, []string{"CLM-2025-1001", "CLM-2025-1002"}, matchNumbers(idx.TopK(query, 2)))
	assert.Empty(t, idx.TopK(query, 0))
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx := NewMemoryIndex([]*core.ClaimChunk{
		chunk("CLM-2025-1001", 1, 0, 0),
		chunk("CLM-2025-1002", 1, 0),
	})

	got := idx.TopK([]float32{1, 0}, 5)
	assert.Len(t, got, 2)
	byNumber := map[string]Match{}
	for _, m := range got {
		byNumber[m.Chunk.ClaimNumber] = m
	}
	assert.True(t, byNumber["CLM-2025-1001"].DimensionMismatch)
	assert.False(t, byNumber["CLM-2025-1002"].DimensionMismatch)
	assert.InDelta(t, 1.0, byNumber["CLM-2025-1001"].Similarity, 1e-9)
}

func TestMemoryIndex_Empty(t *testing.T) {
	assert.Empty(t, NewMemoryIndex(nil).TopK([]float32{1}, 3))
}

func TestMemoryIndex_NaNEmbeddingDropped(t *testing.T) {
	nan := float32(math.NaN())
	idx := NewMemoryIndex([]*core.ClaimChunk{
		chunk("CLM-2025-1001", nan, 1),
		chunk("CLM-2025-1002", 1, 1),
	})

	got := idx.TopK([]float32{1, 1}, 5)
	assert.Equal(t, []string{"CLM-2025-1002"}, matchNumbers(got))
	for _, m := range got {
		assert.False(t, math.IsNaN(m.Similarity))
		_, err := json.Marshal(m.Similarity)
		assert.NoError(t, err)
	}
}
