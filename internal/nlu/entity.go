// internal/nlu/entity.go
package nlu

import (
	"strings"

	"krishi-workers/internal/models"
)

// extractEntities applies every entity pattern of the lexicon to text and
// returns the non-overlapping matches per type in order of first occurrence.
// Types without a match are left out of the map.
func extractEntities(text string, lex *compiledLexicon) models.Entities {
	entities := models.Entities{}
	for _, ep := range lex.entities {
		matches := ep.re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		values := entities[ep.entityType]
		seen := make(map[string]struct{}, len(matches)+len(values))
		for _, v := range values {
			seen[v] = struct{}{}
		}
		for _, m := range matches {
			m = strings.TrimSpace(m)
			if m == "" {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			values = append(values, m)
		}
		if len(values) > 0 {
			entities[ep.entityType] = values
		}
	}
	return entities
}

// ExtractEntities runs the entity extractor of the default store on text.
func ExtractEntities(text, language string) models.Entities {
	store := DefaultStore()
	return extractEntities(NormalizeText(text), store.lexicon(language))
}
