// Package engine composes plant detection, symptom extraction, and cause
// scoring into one request/response diagnosis cycle.
//
// The engine is constructed explicitly at startup and passed into request
// handlers; there are no lazily-built globals. The knowledge base is loaded
// once and shared read-only across concurrent Diagnose calls. AddPlant is
// the only mutation and is serialized against in-flight reads.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/verdantlabs/plantdoc/internal/catalog"
	"github.com/verdantlabs/plantdoc/internal/causes"
	"github.com/verdantlabs/plantdoc/internal/config"
	"github.com/verdantlabs/plantdoc/internal/detect"
	"github.com/verdantlabs/plantdoc/internal/symptoms"
)

var tracer = otel.Tracer("plantdoc/engine")

// CauseEmptyInput is the cause id of the fixed empty-input result.
const CauseEmptyInput = "empty_input"

// ellipsis marks truncated input.
const ellipsis = "..."

// Result is the assembled outcome of one diagnosis cycle.
type Result struct {
	ID              string             `json:"id"`
	PlantName       string             `json:"plant_name"`
	PlantMatchScore float64            `json:"plant_match_score"`
	Diagnoses       []causes.Diagnosis `json:"diagnoses"`
	Symptoms        []symptoms.Match   `json:"symptoms,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
	OriginalInput   string             `json:"original_input"`
	DetectedPlant   string             `json:"detected_plant"`
	DetectionMethod detect.Method      `json:"detection_method"`
}

// Engine runs the diagnosis pipeline over a shared knowledge base.
type Engine struct {
	catalog   *catalog.Catalog
	detector  *detect.Detector
	extractor *symptoms.Extractor
	scorer    *causes.Scorer
	cfg       config.EngineConfig
	logger    *zap.Logger
}

// New creates an engine. The catalog must already contain the generic
// fallback record (enforced at catalog load). A nil logger disables logging.
func New(cat *catalog.Catalog, cfg config.EngineConfig, logger *zap.Logger) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		catalog:   cat,
		detector:  detect.New(cat, cfg.FuzzyThreshold),
		extractor: symptoms.NewExtractor(),
		scorer: causes.NewScorer(causes.Config{
			MinConfidence:      cfg.MinConfidence,
			MaxDiagnoses:       cfg.MaxDiagnoses,
			PlantMatchWeight:   cfg.PlantMatchWeight,
			SymptomMatchWeight: cfg.SymptomMatchWeight,
		}),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Diagnose runs one full diagnosis cycle over the input text.
//
// Every input, including the empty string, produces a valid Result. Input
// longer than the configured maximum is truncated before detection runs.
func (e *Engine) Diagnose(ctx context.Context, text string) *Result {
	_, span := tracer.Start(ctx, "Engine.Diagnose")
	defer span.End()

	start := time.Now()
	input := normalize(text, e.cfg.MaxInputLength)

	if input == "" {
		observeDiagnosis(string(detect.MethodNone), time.Since(start))
		return e.emptyResult()
	}

	match := e.detector.Detect(input)
	syms := e.extractor.Extract(input, match.Plant, e.catalog.Generic())
	enhanced := e.extractor.Enhanced(input, match.Plant)
	diagnoses := e.scorer.Score(match.Plant, syms, enhanced, input)

	result := &Result{
		ID:              uuid.New().String(),
		PlantName:       match.Plant.Name,
		PlantMatchScore: match.Score,
		Diagnoses:       diagnoses,
		Symptoms:        syms,
		Timestamp:       time.Now(),
		OriginalInput:   input,
		DetectedPlant:   match.Plant.ID,
		DetectionMethod: match.Method,
	}

	observeDiagnosis(string(match.Method), time.Since(start))
	e.logger.Debug("diagnosis completed",
		zap.String("id", result.ID),
		zap.String("plant", match.Plant.ID),
		zap.String("method", string(match.Method)),
		zap.Float64("plant_score", match.Score),
		zap.Int("symptom_count", len(syms)),
		zap.Int("diagnosis_count", len(diagnoses)),
	)

	return result
}

// Plants returns the current catalog records.
func (e *Engine) Plants() []catalog.PlantRecord {
	return e.catalog.Plants()
}

// AddPlant appends a record to the knowledge base and rebuilds the fuzzy
// index. Administrative operation, serialized against diagnosis reads.
func (e *Engine) AddPlant(ctx context.Context, p catalog.PlantRecord) error {
	_, span := tracer.Start(ctx, "Engine.AddPlant")
	defer span.End()

	if err := e.catalog.AddPlant(p); err != nil {
		span.RecordError(err)
		return err
	}
	e.detector.RebuildIndex()

	e.logger.Info("plant added to catalog",
		zap.String("id", p.ID),
		zap.String("name", p.Name),
		zap.Int("catalog_size", e.catalog.Len()),
	)
	return nil
}

// normalize trims the input and caps it at maxLen characters, appending an
// ellipsis marker when truncated.
func normalize(text string, maxLen int) string {
	input := strings.TrimSpace(text)
	if maxLen > 0 {
		if runes := []rune(input); len(runes) > maxLen {
			input = string(runes[:maxLen]) + ellipsis
		}
	}
	return input
}

// emptyResult is the fixed response for empty or whitespace-only input.
// Detection and extraction never run.
func (e *Engine) emptyResult() *Result {
	return &Result{
		ID:        uuid.New().String(),
		PlantName: "Unknown plant",
		Diagnoses: []causes.Diagnosis{
			{
				Cause: catalog.Cause{
					ID:    CauseEmptyInput,
					Label: "No input provided",
				},
				Confidence: 0,
				Why:        "Describe what you are seeing on your plant and try again.",
				Actions: []string{
					`Tell us the plant and what looks wrong, e.g. "my pothos has yellow drooping leaves"`,
				},
			},
		},
		Timestamp:       time.Now(),
		OriginalInput:   "",
		DetectedPlant:   "",
		DetectionMethod: detect.MethodNone,
	}
}
