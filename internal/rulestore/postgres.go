// internal/rulestore/postgres.go
package rulestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const selectActiveRules = `SELECT name, conditions, actions, priority FROM advisory_rules WHERE is_active = true ORDER BY priority ASC, name ASC`

// conditions is the JSON shape of advisory_rules.conditions.
type conditions struct {
	Type      RuleType `json:"type"`
	Condition string   `json:"condition,omitempty"`
	Crop      string   `json:"crop,omitempty"`
	PestName  string   `json:"pest_name,omitempty"`
	Stage     string   `json:"stage,omitempty"`
}

// actions is the JSON shape of advisory_rules.actions.
type actions struct {
	Text     string `json:"text,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// PostgresStore reads rule definitions from the advisory_rules table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// LoadActive returns the active definitions ordered by priority then name.
func (s *PostgresStore) LoadActive(ctx context.Context) ([]Definition, error) {
	rows, err := s.db.QueryContext(ctx, selectActiveRules)
	if err != nil {
		return nil, fmt.Errorf("query advisory rules: %w", err)
	}
	defer rows.Close()

	defs := []Definition{}
	for rows.Next() {
		var (
			name        string
			condJSON    []byte
			actionsJSON []byte
			priority    int
		)
		if err := rows.Scan(&name, &condJSON, &actionsJSON, &priority); err != nil {
			return nil, fmt.Errorf("scan advisory rule: %w", err)
		}

		var c conditions
		if err := json.Unmarshal(condJSON, &c); err != nil {
			return nil, fmt.Errorf("rule %q: decode conditions: %w", name, err)
		}
		var a actions
		if len(actionsJSON) > 0 {
			if err := json.Unmarshal(actionsJSON, &a); err != nil {
				return nil, fmt.Errorf("rule %q: decode actions: %w", name, err)
			}
		}

		p := priority
		defs = append(defs, Definition{
			Name:      name,
			Type:      c.Type,
			Priority:  &p,
			Condition: c.Condition,
			Crop:      c.Crop,
			PestName:  c.PestName,
			Stage:     c.Stage,
			Text:      a.Text,
			Severity:  a.Severity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advisory rules: %w", err)
	}
	return defs, nil
}
