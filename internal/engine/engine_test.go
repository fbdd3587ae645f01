package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdantlabs/plantdoc/internal/catalog"
	"github.com/verdantlabs/plantdoc/internal/config"
	"github.com/verdantlabs/plantdoc/internal/detect"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	eng, err := New(cat, config.EngineConfig{
		MinConfidence:      config.DefaultMinConfidence,
		MaxDiagnoses:       config.DefaultMaxDiagnoses,
		PlantMatchWeight:   config.DefaultPlantMatchWeight,
		SymptomMatchWeight: config.DefaultSymptomMatchWeight,
		FuzzyThreshold:     config.DefaultFuzzyThreshold,
		MaxInputLength:     config.DefaultMaxInputLength,
	}, zap.NewNop())
	require.NoError(t, err)
	return eng
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(nil, config.EngineConfig{}, nil)
	assert.Error(t, err)
}

func TestDiagnoseKnownPlant(t *testing.T) {
	eng := testEngine(t)

	res := eng.Diagnose(context.Background(), "My snake plant has yellow mushy leaves")

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "Snake Plant", res.PlantName)
	assert.Equal(t, "snake_plant", res.DetectedPlant)
	assert.Equal(t, detect.MethodPlantName, res.DetectionMethod)
	assert.Equal(t, 1.0, res.PlantMatchScore)
	assert.False(t, res.Timestamp.IsZero())

	require.NotEmpty(t, res.Diagnoses)
	assert.LessOrEqual(t, len(res.Diagnoses), config.DefaultMaxDiagnoses)
	assert.Equal(t, "overwatering", res.Diagnoses[0].Cause.ID)
	assert.GreaterOrEqual(t, res.Diagnoses[0].Confidence, config.DefaultMinConfidence)
	assert.NotEmpty(t, res.Diagnoses[0].Actions)
	assert.NotEmpty(t, res.Symptoms)
}

func TestDiagnoseVagueInput(t *testing.T) {
	eng := testEngine(t)

	res := eng.Diagnose(context.Background(), "My plant is not looking good")

	assert.Equal(t, catalog.GenericID, res.DetectedPlant)
	assert.Equal(t, detect.MethodFallback, res.DetectionMethod)
	assert.InDelta(t, 0.1, res.PlantMatchScore, 0.001)
	require.NotEmpty(t, res.Diagnoses, "vague input still produces guidance")
}

func TestDiagnoseEmptyInput(t *testing.T) {
	eng := testEngine(t)

	for _, input := range []string{"", "   ", "\n\t"} {
		res := eng.Diagnose(context.Background(), input)

		assert.NotEmpty(t, res.ID)
		assert.Equal(t, detect.MethodNone, res.DetectionMethod)
		assert.Empty(t, res.DetectedPlant)
		assert.Zero(t, res.PlantMatchScore)
		require.Len(t, res.Diagnoses, 1)
		assert.Equal(t, CauseEmptyInput, res.Diagnoses[0].Cause.ID)
		assert.Zero(t, res.Diagnoses[0].Confidence)
		assert.NotEmpty(t, res.Diagnoses[0].Actions)
	}
}

func TestDiagnoseTruncatesLongInput(t *testing.T) {
	eng := testEngine(t)

	long := "my snake plant has yellow leaves " + strings.Repeat("x", 600)
	res := eng.Diagnose(context.Background(), long)

	assert.Len(t, []rune(res.OriginalInput), config.DefaultMaxInputLength+len(ellipsis))
	assert.True(t, strings.HasSuffix(res.OriginalInput, ellipsis))
	// Truncation happens before detection; the plant mention survives.
	assert.Equal(t, "snake_plant", res.DetectedPlant)
}

func TestDiagnoseDeterministic(t *testing.T) {
	eng := testEngine(t)
	input := "my pothos has yellow wilting leaves"

	a := eng.Diagnose(context.Background(), input)
	b := eng.Diagnose(context.Background(), input)

	// Identical except for the generated id and timestamp.
	assert.NotEqual(t, a.ID, b.ID)
	a.ID, b.ID = "", ""
	a.Timestamp = b.Timestamp
	assert.Equal(t, a, b)
}

func TestAddPlant(t *testing.T) {
	eng := testEngine(t)
	ctx := context.Background()

	before := len(eng.Plants())
	err := eng.AddPlant(ctx, catalog.PlantRecord{
		ID:       "calathea",
		Name:     "Calathea",
		Symptoms: []string{"curling leaves", "crispy edges"},
		Causes: []catalog.Cause{
			{ID: "humidity_issues", Label: "Low humidity", Keywords: []string{"crispy", "curling"}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, eng.Plants(), before+1)

	res := eng.Diagnose(ctx, "my calathea has crispy curling leaves")
	assert.Equal(t, "calathea", res.DetectedPlant)
	assert.Equal(t, detect.MethodPlantName, res.DetectionMethod)

	err = eng.AddPlant(ctx, catalog.PlantRecord{ID: "calathea", Name: "Dup"})
	assert.Error(t, err)
}
