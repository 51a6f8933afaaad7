package badger

import (
	"testing"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases and trims", "MRI, denied!", []string{"mri", "denied"}},
		{"keeps inner hyphen", "Policy POL-100.", []string{"policy", "pol-100"}},
		{"drops stop words", "show me the denied claims", []string{"denied", "claims"}},
		{"dangling hyphen", "-- follow-up --", []string{"follow-up"}},
		{"empty", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.in))
		})
	}
}

func TestTermFrequencies(t *testing.T) {
	c := &core.Claim{PatientName: "Asha Rao", Notes: "MRI scan, second MRI"}

	freqs, docLen := termFrequencies(c)
	assert.Equal(t, uint32(6), docLen)
	assert.Equal(t, uint32(2), freqs["mri"])
	assert.Equal(t, uint32(1), freqs["asha"])
}

func TestBM25Components(t *testing.T) {
	// Rarer terms weigh more.
	assert.Greater(t, inverseDocumentFrequency(100, 1), inverseDocumentFrequency(100, 50))
	assert.Greater(t, inverseDocumentFrequency(1, 1), 0.0)

	// Term frequency saturates and shorter documents score higher.
	short := termWeight(storage.Posting{TermFrequency: 1, DocLength: 4}, 8)
	long := termWeight(storage.Posting{TermFrequency: 1, DocLength: 16}, 8)
	assert.Greater(t, short, long)

	twice := termWeight(storage.Posting{TermFrequency: 2, DocLength: 8}, 8)
	once := termWeight(storage.Posting{TermFrequency: 1, DocLength: 8}, 8)
	assert.Greater(t, twice, once)
	assert.Less(t, twice, 2*once)
}
