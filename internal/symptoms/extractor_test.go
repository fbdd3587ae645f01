package symptoms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/plantdoc/internal/catalog"
)

func testPlants(t *testing.T) (snake, generic catalog.PlantRecord) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	snake, ok := cat.Get("snake_plant")
	require.True(t, ok)
	return snake, cat.Generic()
}

func findMatch(matches []Match, symptom string) (Match, bool) {
	for _, m := range matches {
		if m.Symptom == symptom {
			return m, true
		}
	}
	return Match{}, false
}

func TestExtractExactPhrase(t *testing.T) {
	snake, generic := testPlants(t)
	e := NewExtractor()

	matches := e.Extract("my snake plant has yellow mushy leaves", snake, generic)
	require.NotEmpty(t, matches)

	m, ok := findMatch(matches, "mushy leaves")
	require.True(t, ok)
	assert.Equal(t, exactWeight, m.Weight)
	assert.Equal(t, TypeExact, m.MatchType)
	assert.Equal(t, SourcePlantSpecific, m.Source)
}

func TestExtractPartialAndSemantic(t *testing.T) {
	snake, generic := testPlants(t)
	e := NewExtractor()

	matches := e.Extract("bone dry and parched", snake, generic)
	m, ok := findMatch(matches, "dry crispy leaves")
	require.True(t, ok)
	assert.InDelta(t, 0.7, m.Weight, 0.001, "partial word plus semantic group hit")
	assert.Equal(t, TypeSemantic, m.MatchType)
}

func TestExtractSortedAndCapped(t *testing.T) {
	snake, generic := testPlants(t)
	e := NewExtractor()

	// Hits nearly every candidate in both symptom lists.
	matches := e.Extract(
		"yellow brown dry wilting drooping mushy crispy spots sticky leggy leaves tips stems",
		snake, generic)

	assert.Len(t, matches, MaxMatches)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Weight, matches[i].Weight, "matches must be sorted by weight")
	}
	for _, m := range matches {
		assert.Greater(t, m.Weight, retainThreshold)
		assert.LessOrEqual(t, m.Weight, 1.0)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	snake, generic := testPlants(t)
	e := NewExtractor()

	// "yellowing leaves" appears in both the plant's and the generic list.
	matches := e.Extract("yellowing leaves on my plant", snake, generic)

	count := 0
	for _, m := range matches {
		if m.Symptom == "yellowing leaves" {
			count++
			assert.Equal(t, SourcePlantSpecific, m.Source, "plant-specific entry wins on equal weight")
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractGenericPlantUsesOnlyGenericPool(t *testing.T) {
	_, generic := testPlants(t)
	e := NewExtractor()

	matches := e.Extract("yellowing drooping wilting leaves", generic, generic)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, SourceGeneric, m.Source)
	}
}

func TestExtractNoEvidence(t *testing.T) {
	snake, generic := testPlants(t)
	e := NewExtractor()

	assert.Empty(t, e.Extract("hello world", snake, generic))
	assert.Empty(t, e.Extract("", snake, generic))
	assert.Empty(t, e.Extract("   ", snake, generic))
}

func TestEnhanced(t *testing.T) {
	snake, _ := testPlants(t)
	e := NewExtractor()

	matches := e.Enhanced("my plant has mushy leaves and yellowing", snake)
	require.NotEmpty(t, matches)

	direct, ok := findMatch(matches, "mushy leaves")
	require.True(t, ok)
	assert.Equal(t, enhancedDirectWt, direct.Weight)
	assert.Equal(t, SourceEnhancedDirect, direct.Source)

	partial, ok := findMatch(matches, "yellowing leaves")
	require.True(t, ok)
	assert.Equal(t, enhancedPartialWt, partial.Weight)
	assert.Equal(t, SourceEnhancedPartial, partial.Source)

	// Enhanced scanning never reaches outside the plant's own list.
	_, ok = findMatch(matches, "sticky residue")
	assert.False(t, ok)
}

func TestEnhancedEmptyInput(t *testing.T) {
	snake, _ := testPlants(t)
	e := NewExtractor()

	assert.Empty(t, e.Enhanced("", snake))
	assert.Empty(t, e.Enhanced("   ", snake))
}
