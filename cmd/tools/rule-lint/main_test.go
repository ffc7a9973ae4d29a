// cmd/tools/rule-lint/main_test.go
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validRules = `
rules:
  - name: Coconut Mite Alert
    type: pest
    crop: Coconut
    pest_name: Eriophyid Mite
    severity: HIGH
`

func TestLint(t *testing.T) {
	rainFacts := `{"weather": {"rain_24h_mm": 15}}`

	tests := []struct {
		name     string
		rules    string
		facts    string
		builtins bool
		wantOK   bool
		contains []string
	}{
		{
			name:     "valid file with builtins",
			rules:    validRules,
			builtins: true,
			wantOK:   true,
			contains: []string{"Registered 12 rules (builtins: 11, file: 1)"},
		},
		{
			name: "duplicate of a builtin is skipped",
			rules: `
rules:
  - name: Rain Advisory
    type: weather
    condition: rain_forecast
    severity: medium
`,
			builtins: true,
			wantOK:   false,
			contains: []string{"Skipped definitions:", "file layer"},
		},
		{
			name:     "facts are evaluated",
			rules:    validRules,
			facts:    rainFacts,
			builtins: true,
			wantOK:   true,
			contains: []string{"Advisories (1):", "Rain Advisory [medium]"},
		},
		{
			name:     "file only",
			rules:    validRules,
			facts:    rainFacts,
			wantOK:   true,
			contains: []string{"Registered 1 rules", "Advisories (0):"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := lintOptions{
				rulesPath:       writeFile(t, "rules.yaml", tt.rules),
				includeBuiltins: tt.builtins,
			}
			if tt.facts != "" {
				opts.factsPath = writeFile(t, "facts.json", tt.facts)
			}

			var out bytes.Buffer
			ok, err := lint(context.Background(), opts, &out)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestLint_Errors(t *testing.T) {
	t.Run("missing rules file", func(t *testing.T) {
		_, err := lint(context.Background(), lintOptions{rulesPath: filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("malformed facts", func(t *testing.T) {
		opts := lintOptions{
			rulesPath: writeFile(t, "rules.yaml", validRules),
			factsPath: writeFile(t, "facts.json", "{not json"),
		}
		_, err := lint(context.Background(), opts, &bytes.Buffer{})
		assert.ErrorContains(t, err, "parse facts")
	})
}
