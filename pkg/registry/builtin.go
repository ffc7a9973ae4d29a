// pkg/registry/builtin.go
package registry

const (
	TaskProcessFarmerText     = "process-farmer-text"
	TaskEvaluateAdvisoryRules = "evaluate-advisory-rules"

	registryVersion = "1.0.0"
)

func nullable(t string) []interface{} {
	return []interface{}{t, "null"}
}

func numberProp() map[string]interface{} {
	return map[string]interface{}{"type": nullable("number")}
}

// Builtin returns the activities implemented by this module's workers. The
// result is freshly allocated on every call.
func Builtin() *ActivityRegistry {
	return &ActivityRegistry{
		Version: registryVersion,
		Activities: []Activity{
			{
				ID:                   TaskProcessFarmerText,
				DisplayName:          "Process Farmer Text",
				Description:          "Classifies a Malayalam or English farmer utterance into an intent with entities",
				Category:             "nlu",
				Version:              "1.0.0",
				TaskType:             TaskProcessFarmerText,
				ImplementationStatus: "completed",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"text"},
					"properties": map[string]interface{}{
						"text":         map[string]interface{}{"type": "string"},
						"languageHint": map[string]interface{}{"type": "string", "maxLength": 35},
						"farmerId":     map[string]interface{}{"type": "string"},
					},
				},
				OutputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"nlu", "detectedLanguage"},
					"properties": map[string]interface{}{
						"nlu":              map[string]interface{}{"type": "object"},
						"detectedLanguage": map[string]interface{}{"type": "string"},
					},
				},
				ErrorCodes: []string{"INVALID_INPUT", "INPUT_VALIDATION_FAILED", "NLU_STRATEGY_FAILED", "NLU_CHAIN_EXHAUSTED"},
				Timeout:    "10s",
				Retries:    3,
				Workflows:  []string{"farmer-message"},
				Tags:       []string{"nlu", "malayalam", "english"},
			},
			{
				ID:                   TaskEvaluateAdvisoryRules,
				DisplayName:          "Evaluate Advisory Rules",
				Description:          "Evaluates weather, pest and crop-stage rules against a farmer's facts",
				Category:             "advisory",
				Version:              "1.0.0",
				TaskType:             TaskEvaluateAdvisoryRules,
				ImplementationStatus: "completed",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"properties": map[string]interface{}{
						"farmerId": map[string]interface{}{"type": "string"},
						"facts": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"weather": map[string]interface{}{
									"type": nullable("object"),
									"properties": map[string]interface{}{
										"rain_24h_mm":   numberProp(),
										"wind_speed_ms": numberProp(),
										"temp_max_c":    numberProp(),
										"temp_min_c":    numberProp(),
									},
								},
								"pest_reports": map[string]interface{}{
									"type": nullable("array"),
									"items": map[string]interface{}{
										"type":     "object",
											"properties": map[string]interface{}{
											"crop":      map[string]interface{}{"type": "string"},
											"pest_name": map[string]interface{}{"type": "string"},
											"severity":  map[string]interface{}{"type": "string"},
										},
									},
								},
								"farmer_crops": map[string]interface{}{
									"type":  nullable("array"),
									"items": map[string]interface{}{"type": "string"},
								},
								"fields": map[string]interface{}{
									"type": nullable("array"),
									"items": map[string]interface{}{
										"type":     "object",
											"properties": map[string]interface{}{
											"crop":  map[string]interface{}{"type": "string"},
											"stage": map[string]interface{}{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
				OutputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"evaluationId", "advisories", "firedRules", "advisoryCount"},
					"properties": map[string]interface{}{
						"evaluationId":  map[string]interface{}{"type": "string"},
						"advisories":    map[string]interface{}{"type": "array"},
						"firedRules":    map[string]interface{}{"type": "array"},
						"advisoryCount": map[string]interface{}{"type": "integer"},
					},
				},
				ErrorCodes: []string{"INVALID_INPUT", "INPUT_VALIDATION_FAILED", "INTERNAL_ERROR"},
				Timeout:    "10s",
				Retries:    3,
				Workflows:  []string{"farmer-advisory"},
				Tags:       []string{"advisory", "rules"},
			},
		},
	}
}
