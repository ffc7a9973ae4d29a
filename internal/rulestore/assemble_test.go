// internal/rulestore/assemble_test.go
package rulestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-workers/internal/models"
	"krishi-workers/internal/rules"
)

type stubLoader struct {
	defs []Definition
	err  error
}

func (s stubLoader) LoadActive(context.Context) ([]Definition, error) {
	return s.defs, s.err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))
	return path
}

func TestAssemble_AllLayers(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT name, conditions, actions, priority FROM advisory_rules`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "conditions", "actions", "priority"}).
			AddRow("Storm Warning", []byte(`{"type":"weather","condition":"high_wind"}`), []byte(`{"text":"secure shade nets","severity":"high"}`), 10).
			AddRow("Rice Blast Alert", []byte(`{"type":"pest","crop":"Rice","pest_name":"Rice Blast"}`), []byte(`{"severity":"high"}`), 5))

	a, err := Assemble(context.Background(), Sources{
		IncludeBuiltins: true,
		File:            writeSample(t),
		Database:        NewPostgresStore(db),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{LayerBuiltins: 11, LayerFile: 2, LayerDatabase: 1}, a.Added)
	assert.Equal(t, 14, a.Engine.Len())
	assert.False(t, a.Engine.Sealed())
	require.Error(t, a.Skipped)
	assert.ErrorIs(t, a.Skipped, rules.ErrDuplicateRule)
	assert.Contains(t, a.Skipped.Error(), "database layer")
	assert.NoError(t, mock.ExpectationsWereMet())

	report := a.Engine.Evaluate(models.FactSet{Weather: &models.WeatherFacts{WindSpeedMS: models.Float64(9)}})
	assert.Equal(t, []string{"Wind Advisory", "Storm Warning"}, report.Fired)
}

func TestAssemble_NoSources(t *testing.T) {
	a, err := Assemble(context.Background(), Sources{})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Engine.Len())
	assert.Empty(t, a.Added)
	assert.NoError(t, a.Skipped)
}

func TestAssemble_SourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     Sources
		wantErr string
	}{
		{
			name:    "missing file",
			src:     Sources{File: filepath.Join(t.TempDir(), "missing.yaml")},
			wantErr: "read rule definitions",
		},
		{
			name:    "database down",
			src:     Sources{IncludeBuiltins: true, Database: stubLoader{err: errors.New("connection refused")}},
			wantErr: "load database rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Assemble(context.Background(), tt.src)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssemble_InvalidDatabaseDefinitionIsSkipped(t *testing.T) {
	a, err := Assemble(context.Background(), Sources{Database: stubLoader{defs: []Definition{
		{Name: "Bad", Type: TypeWeather, Condition: "hail", Severity: "high"},
		{Name: "Good", Type: TypeCropStage, Crop: "Rice", Stage: "tillering"},
	}}})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Added[LayerDatabase])
	assert.Error(t, a.Skipped)
	assert.Equal(t, "Good", a.Engine.Rules()[0].Name())
}
