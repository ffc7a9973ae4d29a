// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
workers:
  process-farmer-text:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "krishi-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, "en", cfg.NLU.DefaultLanguage)
	assert.Equal(t, 2000, cfg.NLU.MaxInputRunes)
	assert.Equal(t, 0.7, cfg.NLU.PatternThreshold)
	assert.Equal(t, 3600, cfg.NLU.CacheTTL)
	assert.True(t, cfg.NLU.CacheEnabled)
	assert.False(t, cfg.NLU.Remote.Enabled())
	assert.True(t, cfg.Rules.IncludeBuiltins)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "json", cfg.Logging.Format)

	worker := cfg.Workers["process-farmer-text"]
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_NLU_URL", "http://nlu.internal:8000")
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
nlu:
  remote:
    base_url: ${TEST_NLU_URL}
    max_retries: 2
    min_confidence: 0.6
rules:
  include_builtins: false
  definitions_file: configs/rules.yaml
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://nlu.internal:8000", cfg.NLU.Remote.BaseURL)
	assert.True(t, cfg.NLU.Remote.Enabled())
	assert.Equal(t, 2, cfg.NLU.Remote.MaxRetries)
	assert.Equal(t, 0.6, cfg.NLU.Remote.MinConfidence)
	assert.False(t, cfg.Rules.IncludeBuiltins)
	assert.Equal(t, "configs/rules.yaml", cfg.Rules.DefinitionsFile)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "app:\n  name: x\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "database rules need postgres",
			body:    "camunda:\n  broker_address: b\nrules:\n  load_from_database: true\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "redis without address",
			body:    "camunda:\n  broker_address: b\ndatabase:\n  redis:\n    enabled: true\n",
			wantErr: "database.redis.address is required",
		},
		{
			name:    "threshold out of range",
			body:    "camunda:\n  broker_address: b\nnlu:\n  pattern_threshold: 1.5\n",
			wantErr: "nlu.pattern_threshold",
		},
		{
			name:    "remote confidence floor out of range",
			body:    "camunda:\n  broker_address: b\nnlu:\n  remote:\n    min_confidence: 1\n",
			wantErr: "nlu.remote.min_confidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"evaluate-advisory-rules": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.Equal(t, 2, GetWorkerConfig(cfg, "evaluate-advisory-rules").MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "evaluate-advisory-rules"))
	assert.True(t, IsWorkerEnabled(cfg, "process-farmer-text"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "process-farmer-text").MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
