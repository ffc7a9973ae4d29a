// internal/rules/builtins.go
package rules

import (
	"fmt"

	"krishi-workers/internal/models"
)

// DefaultRules returns the seed catalog: weather, pest and crop stage rules
// with Malayalam advisory text followed by the English rendering.
func DefaultRules() []Rule {
	return []Rule{
		mustRule(NewWeatherRule("Rain Advisory", ConditionRainForecast,
			"മഴ പ്രതീക്ഷിക്കുന്നു. തളിക്കൽ ഒഴിവാക്കുക. (Rain expected. Avoid spraying.)",
			models.SeverityMedium)),
		mustRule(NewWeatherRule("Wind Advisory", ConditionHighWind,
			"ഉയർന്ന കാറ്റ്. തളിക്കൽ താമസിപ്പിക്കുക. (High wind. Postpone spraying.)",
			models.SeverityMedium)),
		mustRule(NewWeatherRule("Heat Advisory", ConditionHighTemperature,
			"ഉയർന്ന താപനില. ജലസേചനം വർദ്ധിപ്പിക്കുക. (High temperature. Increase irrigation.)",
			models.SeverityHigh)),
		mustRule(NewWeatherRule("Cold Advisory", ConditionLowTemperature,
			"താഴ്ന്ന താപനില. സസ്യ സംരക്ഷണം ആവശ്യമാണ്. (Low temperature. Protect your plants.)",
			models.SeverityMedium)),

		mustRule(NewPestRule("Rice Blast Alert", "Rice", "Rice Blast", models.SeverityHigh)),
		mustRule(NewPestRule("Brown Plant Hopper Alert", "Rice", "Brown Plant Hopper", models.SeverityHigh)),
		mustRule(NewPestRule("Banana Aphid Alert", "Banana", "Banana Aphid", models.SeverityMedium)),
		mustRule(NewPestRule("Brinjal Fruit Borer Alert", "Brinjal", "Fruit Borer", models.SeverityHigh)),

		mustRule(NewCropStageRule("Rice Harvest Time", "Rice", "maturity",
			"പാട്ട വിളവെടുപ്പിന് തയ്യാറാണ്. വിളവെടുപ്പ് പദ്ധതിയാക്കുക. (Rice is ready for harvest. Plan the harvest.)")),
		mustRule(NewCropStageRule("Rice Transplanting Time", "Rice", "transplanting",
			"പാട്ട നടാനുള്ള സമയമാണ്. നടൽ പദ്ധതിയാക്കുക. (Time to transplant rice. Plan the planting.)")),
		mustRule(NewCropStageRule("Banana Harvest Time", "Banana", "maturity",
			"വാഴ വിളവെടുപ്പിന് തയ്യാറാണ്. വിളവെടുപ്പ് പദ്ധതിയാക്കുക. (Banana is ready for harvest. Plan the harvest.)")),
	}
}

// NewBuiltinEngine returns an unsealed engine holding DefaultRules, ready for
// further layering.
func NewBuiltinEngine() *Engine {
	e := NewEngine()
	for _, r := range DefaultRules() {
		if err := e.AddRule(r); err != nil {
			panic(fmt.Sprintf("rules: builtin catalog: %v", err))
		}
	}
	return e
}

func mustRule(r Rule, err error) Rule {
	if err != nil {
		panic(fmt.Sprintf("rules: builtin rule: %v", err))
	}
	return r
}
