// internal/models/advisory.go
package models

// Severity of an advisory.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity maps a stored severity string to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(s), true
	}
	return "", false
}

// IsUrgent reports whether the severity is high or critical.
func (s Severity) IsUrgent() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// Source identifies what produced an advisory.
type Source string

const (
	SourceRuleEngine   Source = "rule_engine"
	SourceWeather      Source = "weather"
	SourcePestAlert    Source = "pest_alert"
	SourcePriceAlert   Source = "price_alert"
	SourceCropCalendar Source = "crop_calendar"
	SourceExpert       Source = "expert"
	SourceAIModel      Source = "ai_model"
	SourceManual       Source = "manual"
)

// AdvisoryDraft is the unpersisted output of a fired rule. The caller owns it
// and is responsible for persistence and dispatch.
type AdvisoryDraft struct {
	Title    string                 `json:"title"`
	Text     string                 `json:"text"`
	Severity Severity               `json:"severity"`
	Source   Source                 `json:"source"`
	Tags     []string               `json:"tags"`
	Metadata map[string]interface{} `json:"metadata"`
}

// NewTags builds an ordered tag set, dropping empty and repeated values.
func NewTags(values ...string) []string {
	tags := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		tags = append(tags, v)
	}
	return tags
}
