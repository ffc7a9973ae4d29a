// internal/workers/advisory/evaluate-advisory-rules/models.go
package evaluateadvisoryrules

import "krishi-workers/internal/models"

type Input struct {
	FarmerID string         `json:"farmerId"`
	Facts    models.FactSet `json:"facts"`
}

type Output struct {
	EvaluationID   string                 `json:"evaluationId"`
	Advisories     []models.AdvisoryDraft `json:"advisories"`
	FiredRules     []string               `json:"firedRules"`
	AdvisoryCount  int                    `json:"advisoryCount"`
	DefectiveRules []string               `json:"defectiveRules,omitempty"`
}
