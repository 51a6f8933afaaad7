package semantic

import (
	"cmp"
	"slices"

	"github.com/poiesic/claimlens/core"
)

// Match is a chunk scored against a query.
type Match struct {
	Chunk      *core.ClaimChunk
	Similarity float64
	// DimensionMismatch is set when the chunk and query vectors differ in length.
	DimensionMismatch bool
}

// Index ranks chunks by similarity to a query vector.
type Index interface {
	// TopK returns at most k matches with positive similarity, ordered by
	// similarity descending and then claim number ascending.
	TopK(query []float32, k int) []Match
}

// IndexBuilder builds an Index over a chunk snapshot.
type IndexBuilder func(chunks []*core.ClaimChunk) Index

// MemoryIndex scores every chunk on each query.
type MemoryIndex struct {
	chunks []*core.ClaimChunk
}

var _ Index = (*MemoryIndex)(nil)

// NewMemoryIndex creates an index over chunks. Nil chunks are dropped.
func NewMemoryIndex(chunks []*core.ClaimChunk) *MemoryIndex {
	kept := make([]*core.ClaimChunk, 0, len(chunks))
	for _, c := range chunks {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &MemoryIndex{chunks: kept}
}

// BuildMemoryIndex is an IndexBuilder for MemoryIndex.
func BuildMemoryIndex(chunks []*core.ClaimChunk) Index {
	return NewMemoryIndex(chunks)
}

// Len returns the number of indexed chunks.
func (m *MemoryIndex) Len() int {
	return len(m.chunks)
}

// TopK implements Index.
func (m *MemoryIndex) TopK(query []float32, k int) []Match {
	if k <= 0 {
		return nil
	}

	matches := make([]Match, 0, len(m.chunks))
	for _, c := range m.chunks {
		sim := Cosine(query, c.Embedding)
		if !(sim > 0) {
			continue
		}
		matches = append(matches, Match{
			Chunk:             c,
			Similarity:        sim,
			DimensionMismatch: len(c.Embedding) != len(query),
		})
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.Chunk.ClaimNumber, b.Chunk.ClaimNumber)
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
