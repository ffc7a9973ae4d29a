// internal/workers/advisory/evaluate-advisory-rules/handler_test.go
package evaluateadvisoryrules

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-workers/internal/common/config"
	"krishi-workers/internal/common/errors"
	"krishi-workers/internal/common/logger"
	"krishi-workers/internal/common/validation"
	"krishi-workers/internal/models"
	"krishi-workers/internal/rules"
	"krishi-workers/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "farmer-advisory",
		ElementId:          "Activity_EvaluateAdvisoryRules",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createTestConfig() *Config {
	return &Config{Enabled: true, MaxJobsActive: 5, Timeout: 5 * time.Second}
}

func sealedBuiltins() *rules.Engine {
	e := rules.NewBuiltinEngine()
	e.Seal()
	return e
}

func createTestHandler(t *testing.T, engine *rules.Engine, cfg *Config) *Handler {
	t.Helper()
	if cfg == nil {
		cfg = createTestConfig()
	}
	validator, err := validation.NewValidator(registry.Builtin())
	require.NoError(t, err)

	h, err := NewHandler(cfg, Dependencies{Engine: engine, Validator: validator}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

// brokenRule always fires but never produces a draft.
type brokenRule struct{}

func (brokenRule) Name() string                 { return "Broken Rule" }
func (brokenRule) Priority() int                { return rules.DefaultPriority }
func (brokenRule) Evaluate(models.FactSet) bool { return true }
func (brokenRule) Generate(models.FactSet) (models.AdvisoryDraft, bool) {
	return models.AdvisoryDraft{}, false
}

// ==========================
// Configuration Tests
// ==========================

func TestNewHandler_Validation(t *testing.T) {
	log := logger.NewTestLogger(t)

	_, err := NewHandler(createTestConfig(), Dependencies{}, log)
	assert.Error(t, err)

	_, err = NewHandler(createTestConfig(), Dependencies{Engine: rules.NewBuiltinEngine()}, log)
	assert.ErrorContains(t, err, "sealed")

	bad := createTestConfig()
	bad.MaxJobsActive = 0
	_, err = NewHandler(bad, Dependencies{Engine: sealedBuiltins()}, log)
	assert.Error(t, err)
}

func TestConfigFromApp(t *testing.T) {
	app := &config.Config{
		Workers: map[string]config.WorkerConfig{TaskType: {Enabled: true, Timeout: 1500}},
		Rules:   config.RulesConfig{OrderByPriority: true},
	}

	cfg := ConfigFromApp(app)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, DefaultConfig().MaxJobsActive, cfg.MaxJobsActive)
	assert.True(t, cfg.OrderByPriority)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t, sealedBuiltins(), nil)

	t.Run("valid facts decode into the fact set", func(t *testing.T) {
		input, err := h.parseInput(createMockJob(1, map[string]interface{}{
			"farmerId": "f-1",
			"facts": map[string]interface{}{
				"weather":      map[string]interface{}{"rain_24h_mm": 15},
				"pest_reports": []interface{}{map[string]interface{}{"crop": "Rice", "pest_name": "Rice Blast", "severity": "HIGH"}},
				"farmer_crops": []interface{}{"Rice"},
				"fields":       []interface{}{map[string]interface{}{"crop": "Rice", "stage": "maturity"}},
			},
		}))
		require.NoError(t, err)

		assert.Equal(t, "f-1", input.FarmerID)
		require.NotNil(t, input.Facts.Weather)
		rain, ok := models.Reading(input.Facts.Weather.Rain24hMM)
		assert.True(t, ok)
		assert.Equal(t, 15.0, rain)
		assert.Nil(t, input.Facts.Weather.TempMinC)
		assert.Len(t, input.Facts.PestReports, 1)
		assert.True(t, input.Facts.GrowsCrop("Rice"))
	})

	t.Run("missing facts decode to an empty fact set", func(t *testing.T) {
		input, err := h.parseInput(createMockJob(2, map[string]interface{}{"farmerId": "f-1"}))
		require.NoError(t, err)
		assert.Nil(t, input.Facts.Weather)
		assert.Empty(t, input.Facts.PestReports)
	})

	t.Run("wrong reading type fails validation", func(t *testing.T) {
		_, err := h.parseInput(createMockJob(3, map[string]interface{}{
			"facts": map[string]interface{}{"weather": map[string]interface{}{"wind_speed_ms": "strong"}},
		}))
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
		assert.Contains(t, stdErr.Details, "wind_speed_ms")
	})
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t, sealedBuiltins(), nil)

	tests := []struct {
		name      string
		facts     models.FactSet
		wantFired []string
	}{
		{
			name:      "empty facts fire nothing",
			facts:     models.FactSet{},
			wantFired: []string{},
		},
		{
			name:      "heavy rain",
			facts:     models.FactSet{Weather: &models.WeatherFacts{Rain24hMM: models.Float64(15)}},
			wantFired: []string{"Rain Advisory"},
		},
		{
			name: "hot windy day with rice blast and mature rice",
			facts: models.FactSet{
				Weather: &models.WeatherFacts{
					WindSpeedMS: models.Float64(8),
					TempMaxC:    models.Float64(38),
					TempMinC:    models.Float64(24),
				},
				PestReports: []models.PestReport{{Crop: "Rice", PestName: "Rice Blast", Severity: "critical"}},
				Fields:      []models.FieldState{{Crop: "Rice", Stage: "maturity"}},
			},
			wantFired: []string{"Wind Advisory", "Heat Advisory", "Rice Blast Alert", "Rice Harvest Time"},
		},
		{
			name: "medium severity pest report does not alert",
			facts: models.FactSet{
				PestReports: []models.PestReport{{Crop: "Rice", PestName: "Rice Blast", Severity: "medium"}},
			},
			wantFired: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), &Input{FarmerID: "f-1", Facts: tt.facts})
			require.NoError(t, err)

			assert.Equal(t, tt.wantFired, output.FiredRules)
			assert.Equal(t, len(tt.wantFired), output.AdvisoryCount)
			assert.Len(t, output.Advisories, output.AdvisoryCount)
			assert.NotNil(t, output.Advisories)
			assert.Empty(t, output.DefectiveRules)

			_, err = uuid.Parse(output.EvaluationID)
			assert.NoError(t, err)
		})
	}
}

func TestHandler_Execute_DistinctEvaluationIDs(t *testing.T) {
	h := createTestHandler(t, sealedBuiltins(), nil)

	first, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.NotEqual(t, first.EvaluationID, second.EvaluationID)
}

func TestHandler_Execute_ReportsDefects(t *testing.T) {
	engine := rules.NewEngine()
	require.NoError(t, engine.AddRule(brokenRule{}))
	rain, err := rules.NewWeatherRule("Rain", rules.ConditionRainForecast, "rain", models.SeverityMedium)
	require.NoError(t, err)
	require.NoError(t, engine.AddRule(rain))
	engine.Seal()

	h := createTestHandler(t, engine, nil)
	output, err := h.Execute(context.Background(), &Input{Facts: models.FactSet{
		Weather: &models.WeatherFacts{Rain24hMM: models.Float64(12)},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Rain"}, output.FiredRules)
	assert.Equal(t, []string{"Broken Rule"}, output.DefectiveRules)
	assert.Equal(t, 1, output.AdvisoryCount)
}

func TestHandler_Execute_OrderByPriority(t *testing.T) {
	engine := rules.NewEngine()
	late, err := rules.NewWeatherRule("Late", rules.ConditionRainForecast, "late", models.SeverityLow, rules.WithPriority(200))
	require.NoError(t, err)
	early, err := rules.NewWeatherRule("Early", rules.ConditionRainForecast, "early", models.SeverityHigh, rules.WithPriority(1))
	require.NoError(t, err)
	require.NoError(t, engine.AddRule(late))
	require.NoError(t, engine.AddRule(early))
	engine.Seal()

	facts := models.FactSet{Weather: &models.WeatherFacts{Rain24hMM: models.Float64(20)}}

	registration := createTestHandler(t, engine, nil)
	output, err := registration.Execute(context.Background(), &Input{Facts: facts})
	require.NoError(t, err)
	assert.Equal(t, []string{"Late", "Early"}, output.FiredRules)

	cfg := createTestConfig()
	cfg.OrderByPriority = true
	ordered := createTestHandler(t, engine, cfg)
	output, err = ordered.Execute(context.Background(), &Input{Facts: facts})
	require.NoError(t, err)
	assert.Equal(t, []string{"Early", "Late"}, output.FiredRules)
}

func TestHandler_Execute_IncompleteFactsYieldNoAdvisories(t *testing.T) {
	h := createTestHandler(t, sealedBuiltins(), nil)

	tests := []struct {
		name  string
		facts map[string]interface{}
	}{
		{
			name: "pest report without severity",
			facts: map[string]interface{}{
				"pest_reports": []interface{}{map[string]interface{}{"crop": "Rice", "pest_name": "Rice Blast"}},
				"farmer_crops": []interface{}{"Rice"},
			},
		},
		{
			name: "field without stage",
			facts: map[string]interface{}{
				"fields": []interface{}{map[string]interface{}{"crop": "Rice"}},
			},
		},
		{
			name:  "no facts at all",
			facts: nil,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variables := map[string]interface{}{"farmerId": "f-1"}
			if tt.facts != nil {
				variables["facts"] = tt.facts
			}

			input, err := h.parseInput(createMockJob(int64(100+i), variables))
			require.NoError(t, err)

			output, err := h.Execute(context.Background(), input)
			require.NoError(t, err)
			assert.Equal(t, 0, output.AdvisoryCount)
			assert.Empty(t, output.FiredRules)
			assert.Empty(t, output.DefectiveRules)
		})
	}
}

func TestHandler_Execute_CancelledContext(t *testing.T) {
	h := createTestHandler(t, sealedBuiltins(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Execute(ctx, &Input{})
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInternal, stdErr.Code)
}

func TestOutput_JSONShape(t *testing.T) {
	h := createTestHandler(t, sealedBuiltins(), nil)
	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []interface{}{}, decoded["advisories"])
	assert.Equal(t, []interface{}{}, decoded["firedRules"])
	assert.Equal(t, float64(0), decoded["advisoryCount"])
	assert.NotContains(t, decoded, "defectiveRules")
}
