// internal/nlu/pattern.go
package nlu

import (
	"strings"

	"krishi-workers/internal/models"
)

type patternMatch struct {
	intent   models.Intent
	strength float64
	entities models.Entities
}

// refinePatterns tries every pattern of every intent and keeps the strongest
// match. Strength is the number of participating capture groups divided by the
// number of patterns declared for the intent, capped at 1.
func refinePatterns(text string, lex *compiledLexicon) patternMatch {
	best := patternMatch{
		intent:   models.IntentSmalltalkOther,
		entities: models.Entities{},
	}

	for _, group := range lex.patterns {
		if len(group.patterns) == 0 {
			continue
		}
		for _, re := range group.patterns {
			groups := re.FindStringSubmatch(text)
			if groups == nil {
				continue
			}
			strength := float64(capturedGroups(groups)) / float64(len(group.patterns))
			if strength > 1 {
				strength = 1
			}
			if strength > best.strength {
				best = patternMatch{
					intent:   group.intent,
					strength: strength,
					entities: entitiesFromGroups(group.intent, groups),
				}
			}
		}
	}
	return best
}

func capturedGroups(groups []string) int {
	n := 0
	for _, g := range groups[1:] {
		if g != "" {
			n++
		}
	}
	return n
}

// entitiesFromGroups maps capture groups positionally for log_activity only:
// group 1 is the crop and group 2 the activity.
func entitiesFromGroups(intent models.Intent, groups []string) models.Entities {
	entities := models.Entities{}
	if intent != models.IntentLogActivity || len(groups) < 3 {
		return entities
	}
	if crop := strings.TrimSpace(groups[1]); crop != "" {
		entities[models.EntityCrop] = []string{crop}
	}
	if activity := strings.TrimSpace(groups[2]); activity != "" {
		entities[models.EntityActivity] = []string{activity}
	}
	return entities
}
