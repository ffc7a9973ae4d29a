// internal/nlu/keyword.go
package nlu

import (
	"math"
	"strings"

	"krishi-workers/internal/models"
)

// classifyKeywords scores each intent by the number of its distinct keywords
// found in lowered. The first intent in lexicon order wins ties. With no hits
// the result is smalltalk_other at 0.0.
func classifyKeywords(lowered string, lex *compiledLexicon) (models.Intent, float64) {
	best := models.IntentSmalltalkOther
	bestScore := 0
	bestTotal := 0

	for _, ik := range lex.keywords {
		score := 0
		for _, kw := range ik.Keywords {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore, bestTotal = ik.Intent, score, len(ik.Keywords)
		}
	}

	if bestScore == 0 || bestTotal == 0 {
		return models.IntentSmalltalkOther, 0.0
	}
	return best, math.Min(float64(bestScore)/float64(bestTotal), 1.0)
}
