// internal/models/nlu.go
package models

// Intent is the coarse purpose of a farmer utterance.
type Intent string

const (
	IntentLogActivity    Intent = "log_activity"
	IntentAskKB          Intent = "ask_kb"
	IntentRequestAdvice  Intent = "request_advice"
	IntentSmalltalkOther Intent = "smalltalk_other"
)

// Intents lists every intent in declaration order.
var Intents = []Intent{
	IntentLogActivity,
	IntentAskKB,
	IntentRequestAdvice,
	IntentSmalltalkOther,
}

// IsValid reports whether i is one of the four known intents.
func (i Intent) IsValid() bool {
	switch i {
	case IntentLogActivity, IntentAskKB, IntentRequestAdvice, IntentSmalltalkOther:
		return true
	}
	return false
}

// EntityType names a kind of span extracted from an utterance.
type EntityType string

const (
	EntityCrop     EntityType = "crop"
	EntityActivity EntityType = "activity"
	EntityQuantity EntityType = "quantity"
	EntityTime     EntityType = "time"
)

// IsValid reports whether t is one of the extracted entity types.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityCrop, EntityActivity, EntityQuantity, EntityTime:
		return true
	}
	return false
}

// Entities maps an entity type to its matched spans. A type with no match is
// absent from the map rather than present with an empty list.
type Entities map[EntityType][]string

// Provider tags recorded on NLUResult.Provider.
const (
	ProviderPattern = "pattern"
	ProviderKeyword = "keyword"
	ProviderRemote  = "remote"
)

// NLUResult is the complete outcome of processing one utterance.
type NLUResult struct {
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities"`
	Language   string   `json:"language"`
	SourceText string   `json:"sourceText"`
	Provider   string   `json:"provider"`
}
