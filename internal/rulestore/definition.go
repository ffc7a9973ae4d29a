// internal/rulestore/definition.go
package rulestore

import (
	"errors"
	"fmt"
	"strings"

	"krishi-workers/internal/models"
	"krishi-workers/internal/rules"
)

// RuleType selects which rule variant a Definition builds.
type RuleType string

const (
	TypeWeather   RuleType = "weather"
	TypePest      RuleType = "pest"
	TypeCropStage RuleType = "crop_stage"
)

var ErrUnknownRuleType = errors.New("unknown rule type")

// Definition is the stored, declarative form of a rule.
type Definition struct {
	Name      string   `yaml:"name" json:"name"`
	Type      RuleType `yaml:"type" json:"type"`
	Priority  *int     `yaml:"priority,omitempty" json:"priority,omitempty"`
	Condition string   `yaml:"condition,omitempty" json:"condition,omitempty"`
	Crop      string   `yaml:"crop,omitempty" json:"crop,omitempty"`
	PestName  string   `yaml:"pest_name,omitempty" json:"pest_name,omitempty"`
	Stage     string   `yaml:"stage,omitempty" json:"stage,omitempty"`
	Text      string   `yaml:"text,omitempty" json:"text,omitempty"`
	Severity  string   `yaml:"severity,omitempty" json:"severity,omitempty"`
	Active    *bool    `yaml:"active,omitempty" json:"active,omitempty"`
}

// IsActive reports whether the definition should be registered. Definitions
// without an explicit flag are active.
func (d Definition) IsActive() bool {
	return d.Active == nil || *d.Active
}

// Build validates the definition and constructs the rule it describes.
func (d Definition) Build() (rules.Rule, error) {
	var opts []rules.Option
	if d.Priority != nil {
		opts = append(opts, rules.WithPriority(*d.Priority))
	}

	switch RuleType(strings.ToLower(string(d.Type))) {
	case TypeWeather:
		severity, err := d.severity()
		if err != nil {
			return nil, err
		}
		return rules.NewWeatherRule(d.Name, rules.Condition(d.Condition), d.Text, severity, opts...)
	case TypePest:
		severity, err := d.severity()
		if err != nil {
			return nil, err
		}
		return rules.NewPestRule(d.Name, d.Crop, d.PestName, severity, opts...)
	case TypeCropStage:
		return rules.NewCropStageRule(d.Name, d.Crop, d.Stage, d.Text, opts...)
	}
	return nil, fmt.Errorf("rule %q: %w %q", d.Name, ErrUnknownRuleType, d.Type)
}

func (d Definition) severity() (models.Severity, error) {
	severity, ok := models.ParseSeverity(strings.ToLower(d.Severity))
	if !ok {
		return "", fmt.Errorf("rule %q: %w %q", d.Name, rules.ErrInvalidSeverity, d.Severity)
	}
	return severity, nil
}

// Layer builds every active definition and registers it on engine in order.
// Invalid or duplicate definitions are skipped; their errors are joined in
// the returned error. The number of rules added is always returned.
func Layer(engine *rules.Engine, defs []Definition) (int, error) {
	added := 0
	var errs []error
	for _, d := range defs {
		if !d.IsActive() {
			continue
		}
		rule, err := d.Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := engine.AddRule(rule); err != nil {
			if errors.Is(err, rules.ErrEngineSealed) {
				return added, err
			}
			errs = append(errs, err)
			continue
		}
		added++
	}
	return added, errors.Join(errs...)
}
