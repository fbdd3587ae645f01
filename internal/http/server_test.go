package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdantlabs/plantdoc/internal/catalog"
	"github.com/verdantlabs/plantdoc/internal/config"
	"github.com/verdantlabs/plantdoc/internal/engine"
	"github.com/verdantlabs/plantdoc/internal/history"
)

func testServer(t *testing.T, hist *history.Logger) *Server {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err)

	eng, err := engine.New(cat, config.EngineConfig{
		MinConfidence:      config.DefaultMinConfidence,
		MaxDiagnoses:       config.DefaultMaxDiagnoses,
		PlantMatchWeight:   config.DefaultPlantMatchWeight,
		SymptomMatchWeight: config.DefaultSymptomMatchWeight,
		FuzzyThreshold:     config.DefaultFuzzyThreshold,
		MaxInputLength:     config.DefaultMaxInputLength,
	}, zap.NewNop())
	require.NoError(t, err)

	srv, err := NewServer(eng, hist, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(nil, nil, zap.NewNop(), nil)
	assert.Error(t, err)

	cat, err := catalog.Default()
	require.NoError(t, err)
	eng, err := engine.New(cat, config.EngineConfig{FuzzyThreshold: 0.6, MaxInputLength: 500}, nil)
	require.NoError(t, err)

	_, err = NewServer(eng, nil, nil, nil)
	assert.Error(t, err, "logger is required")
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Greater(t, resp.Plants, 0)
}

func TestDiagnoseEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodPost, "/api/v1/diagnose",
		`{"text": "My snake plant has yellow mushy leaves"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res engine.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "snake_plant", res.DetectedPlant)
	assert.Equal(t, "plant_name_match", string(res.DetectionMethod))
	assert.NotEmpty(t, res.Diagnoses)
	assert.Equal(t, "overwatering", res.Diagnoses[0].Cause.ID)
}

func TestDiagnoseEndpointEmptyText(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodPost, "/api/v1/diagnose", `{"text": ""}`)
	require.Equal(t, http.StatusOK, rec.Code, "empty text is valid input")

	var res engine.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Diagnoses, 1)
	assert.Equal(t, engine.CauseEmptyInput, res.Diagnoses[0].Cause.ID)
}

func TestDiagnoseEndpointBadBody(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodPost, "/api/v1/diagnose", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlantsEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/api/v1/plants", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var plants []PlantSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plants))
	require.NotEmpty(t, plants)

	ids := make(map[string]bool, len(plants))
	for _, p := range plants {
		ids[p.ID] = true
	}
	assert.True(t, ids["snake_plant"])
	assert.True(t, ids[catalog.GenericID])
}

func TestAddPlantEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodPost, "/api/v1/plants",
		`{"id": "calathea", "name": "Calathea", "symptoms": ["curling leaves"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The new plant is immediately diagnosable.
	rec = doRequest(srv, http.MethodPost, "/api/v1/diagnose",
		`{"text": "my calathea has curling leaves"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res engine.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "calathea", res.DetectedPlant)

	// Duplicates and invalid records are rejected.
	rec = doRequest(srv, http.MethodPost, "/api/v1/plants",
		`{"id": "calathea", "name": "Calathea"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(srv, http.MethodPost, "/api/v1/plants", `{"name": "No ID"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	hist, err := history.New(filepath.Join(t.TempDir(), "history.jsonl"), zap.NewNop())
	require.NoError(t, err)
	defer hist.Close()

	srv := testServer(t, hist)

	for i := 0; i < 3; i++ {
		rec := doRequest(srv, http.MethodPost, "/api/v1/diagnose",
			`{"text": "my pothos is wilting"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(srv, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats history.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalInteractions)
	assert.Equal(t, 3, stats.ByPlant["pothos"])
}

func TestStatsEndpointWithoutHistory(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats history.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Zero(t, stats.TotalInteractions)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestIndexPage(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "plantdoc")
}

func TestRateLimit(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	eng, err := engine.New(cat, config.EngineConfig{FuzzyThreshold: 0.6, MaxInputLength: 500, MaxDiagnoses: 3}, nil)
	require.NoError(t, err)

	srv, err := NewServer(eng, nil, zap.NewNop(), &Config{
		Host:      "localhost",
		Port:      8080,
		RateLimit: 1,
		RateBurst: 2,
	})
	require.NoError(t, err)

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := doRequest(srv, http.MethodGet, "/health", "")
		codes[rec.Code]++
	}
	assert.GreaterOrEqual(t, codes[http.StatusOK], 2, "burst allows at least two requests")
	assert.GreaterOrEqual(t, codes[http.StatusTooManyRequests], 1)
}
