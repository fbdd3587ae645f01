package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"monstera", "monstera", 0},
		{"monstera", "monstrea", 2},
		{"succulent", "succulant", 1},
		{"orchid", "orkid", 2},
		{"kitten", "sitting", 3},
		{"", "pothos", 6},
		{"pothos", "", 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.s1, tt.s2), "%q vs %q", tt.s1, tt.s2)
	}
}

func TestNormalizedDistance(t *testing.T) {
	assert.Equal(t, 0.0, normalizedDistance("fern", "fern"))
	assert.Equal(t, 1.0, normalizedDistance("", "fern"))
	assert.Equal(t, 1.0, normalizedDistance("fern", ""))
	assert.InDelta(t, 0.25, normalizedDistance("monstera", "monstrea"), 0.001)
	assert.InDelta(t, 1.0/9.0, normalizedDistance("succulent", "succulant"), 0.001)

	// Normalization divides by the longer string.
	assert.InDelta(t, 0.5, normalizedDistance("ab", "abcd"), 0.001)
}
