// internal/rules/weather.go
package rules

import (
	"fmt"

	"krishi-workers/internal/models"
)

// Condition names the weather inequality a WeatherRule checks.
type Condition string

const (
	ConditionRainForecast    Condition = "rain_forecast"
	ConditionHighWind        Condition = "high_wind"
	ConditionHighTemperature Condition = "high_temperature"
	ConditionLowTemperature  Condition = "low_temperature"
)

const (
	RainThresholdMM    = 10.0
	WindThresholdMS    = 6.0
	HighTempThresholdC = 35.0
	LowTempThresholdC  = 20.0
)

// Conditions lists the supported weather conditions.
var Conditions = []Condition{
	ConditionRainForecast,
	ConditionHighWind,
	ConditionHighTemperature,
	ConditionLowTemperature,
}

// IsValid reports whether c is a supported condition.
func (c Condition) IsValid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// WeatherRule fires when one weather reading crosses its fixed threshold. A
// missing reading never fires.
type WeatherRule struct {
	base
	condition Condition
	text      string
	severity  models.Severity
}

func NewWeatherRule(name string, condition Condition, text string, severity models.Severity, opts ...Option) (*WeatherRule, error) {
	b, err := newBase(name, opts)
	if err != nil {
		return nil, err
	}
	if !condition.IsValid() {
		return nil, fmt.Errorf("rule %q: unknown weather condition %q", name, condition)
	}
	if !validSeverity(severity) {
		return nil, fmt.Errorf("rule %q: %w %q", name, ErrInvalidSeverity, severity)
	}
	return &WeatherRule{base: b, condition: condition, text: text, severity: severity}, nil
}

func (r *WeatherRule) Condition() Condition {
	return r.condition
}

func (r *WeatherRule) Evaluate(facts models.FactSet) bool {
	w := facts.Weather
	if w == nil {
		return false
	}

	switch r.condition {
	case ConditionRainForecast:
		v, ok := models.Reading(w.Rain24hMM)
		return ok && v > RainThresholdMM
	case ConditionHighWind:
		v, ok := models.Reading(w.WindSpeedMS)
		return ok && v > WindThresholdMS
	case ConditionHighTemperature:
		v, ok := models.Reading(w.TempMaxC)
		return ok && v > HighTempThresholdC
	case ConditionLowTemperature:
		v, ok := models.Reading(w.TempMinC)
		return ok && v < LowTempThresholdC
	}
	return false
}

func (r *WeatherRule) Generate(facts models.FactSet) (models.AdvisoryDraft, bool) {
	return models.AdvisoryDraft{
		Title:    "Weather Advisory - " + r.name,
		Text:     r.text,
		Severity: r.severity,
		Source:   models.SourceWeather,
		Tags:     models.NewTags("weather", string(r.condition)),
		Metadata: map[string]interface{}{
			"rule_name":    r.name,
			"condition":    string(r.condition),
			"weather_data": facts.Weather.Snapshot(),
		},
	}, true
}
