// internal/rules/pest.go
package rules

import (
	"fmt"
	"strings"

	"krishi-workers/internal/models"
)

// PestRule fires when the farmer grows the crop and an urgent report names the
// pest on that crop.
type PestRule struct {
	base
	crop     string
	pestName string
	severity models.Severity
}

func NewPestRule(name, crop, pestName string, severity models.Severity, opts ...Option) (*PestRule, error) {
	b, err := newBase(name, opts)
	if err != nil {
		return nil, err
	}
	if crop == "" || pestName == "" {
		return nil, fmt.Errorf("rule %q: crop and pest name are required", name)
	}
	if !validSeverity(severity) {
		return nil, fmt.Errorf("rule %q: %w %q", name, ErrInvalidSeverity, severity)
	}
	return &PestRule{base: b, crop: crop, pestName: pestName, severity: severity}, nil
}

func (r *PestRule) Crop() string {
	return r.crop
}

func (r *PestRule) PestName() string {
	return r.pestName
}

func (r *PestRule) Evaluate(facts models.FactSet) bool {
	if !facts.GrowsCrop(r.crop) {
		return false
	}
	return len(r.matchingReports(facts)) > 0
}

func (r *PestRule) Generate(facts models.FactSet) (models.AdvisoryDraft, bool) {
	return models.AdvisoryDraft{
		Title:    "Pest Alert - " + r.pestName,
		Text:     fmt.Sprintf("%s detected in %s. Please take immediate action.", r.pestName, r.crop),
		Severity: r.severity,
		Source:   models.SourcePestAlert,
		Tags:     models.NewTags("pest", r.crop, r.pestName),
		Metadata: map[string]interface{}{
			"rule_name":    r.name,
			"crop":         r.crop,
			"pest_name":    r.pestName,
			"pest_reports": r.matchingReports(facts),
		},
	}, true
}

// matchingReports returns copies of the urgent reports for this crop and pest.
func (r *PestRule) matchingReports(facts models.FactSet) []models.PestReport {
	matches := []models.PestReport{}
	for _, report := range facts.PestReports {
		if report.Crop != r.crop || report.PestName != r.pestName {
			continue
		}
		severity, ok := models.ParseSeverity(strings.ToLower(strings.TrimSpace(report.Severity)))
		if !ok || !severity.IsUrgent() {
			continue
		}
		matches = append(matches, report)
	}
	return matches
}
