// internal/workers/nlu/process-farmer-text/models.go
package processfarmertext

import "krishi-workers/internal/models"

type Input struct {
	Text         string `json:"text"`
	LanguageHint string `json:"languageHint"`
	FarmerID     string `json:"farmerId"`
}

type Output struct {
	NLU              models.NLUResult `json:"nlu"`
	DetectedLanguage string           `json:"detectedLanguage"`
	Cached           bool             `json:"cached"`
}
