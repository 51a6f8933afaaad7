package semantic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "scaled", a: []float32{1, 2, 3}, b: []float32{2, 4, 6}, want: 1},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "zero vector", a: []float32{0, 0, 0}, b: []float32{1, 2, 3}, want: 0},
		{name: "both empty", a: []float32{}, b: []float32{}, want: 0},
		{name: "nil", a: nil, b: []float32{1}, want: 0},
		{name: "shorter length wins", a: []float32{1, 0}, b: []float32{1, 0, 5}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosine_NonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	assert.Equal(t, 0.0, Cosine([]float32{nan, 1}, []float32{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float32{1, 1}, []float32{nan, 1}))
	assert.Equal(t, 0.0, Cosine([]float32{inf, 1}, []float32{1, 1}))
}

func TestCosine_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vec := func() []float32 {
		v := make([]float32, 16)
		for i := range v {
			v[i] = rng.Float32()*2 - 1
		}
		return v
	}

	for i := 0; i < 100; i++ {
		a, b := vec(), vec()
		ab, ba := Cosine(a, b), Cosine(b, a)
		assert.Equal(t, ab, ba, "symmetric")
		assert.GreaterOrEqual(t, ab, -1.0)
		assert.LessOrEqual(t, ab, 1.0)
		assert.LessOrEqual(t, Cosine(a, a), 1.0)
	}
}
