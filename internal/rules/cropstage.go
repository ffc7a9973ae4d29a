// internal/rules/cropstage.go
package rules

import (
	"fmt"

	"krishi-workers/internal/models"
)

// CropStageRule fires when any of the farmer's fields is at the given stage.
type CropStageRule struct {
	base
	crop  string
	stage string
	text  string
}

func NewCropStageRule(name, crop, stage, text string, opts ...Option) (*CropStageRule, error) {
	b, err := newBase(name, opts)
	if err != nil {
		return nil, err
	}
	if crop == "" || stage == "" {
		return nil, fmt.Errorf("rule %q: crop and stage are required", name)
	}
	return &CropStageRule{base: b, crop: crop, stage: stage, text: text}, nil
}

func (r *CropStageRule) Crop() string {
	return r.crop
}

func (r *CropStageRule) Stage() string {
	return r.stage
}

func (r *CropStageRule) Evaluate(facts models.FactSet) bool {
	return len(r.matchingFields(facts)) > 0
}

func (r *CropStageRule) Generate(facts models.FactSet) (models.AdvisoryDraft, bool) {
	return models.AdvisoryDraft{
		Title:    "Crop Stage Advisory - " + r.crop,
		Text:     r.text,
		Severity: models.SeverityMedium,
		Source:   models.SourceCropCalendar,
		Tags:     models.NewTags("crop_stage", r.crop, r.stage),
		Metadata: map[string]interface{}{
			"rule_name": r.name,
			"crop":      r.crop,
			"stage":     r.stage,
			"fields":    r.matchingFields(facts),
		},
	}, true
}

func (r *CropStageRule) matchingFields(facts models.FactSet) []models.FieldState {
	matches := []models.FieldState{}
	for _, f := range facts.Fields {
		if f.Crop == r.crop && f.Stage == r.stage {
			matches = append(matches, f)
		}
	}
	return matches
}
