// internal/nlu/lexicon_data.go
package nlu

import "krishi-workers/internal/models"

var englishLexicon = Lexicon{
	Language: LangEnglish,
	Keywords: []IntentKeywords{
		{Intent: models.IntentLogActivity, Keywords: []string{"plant", "sow", "water", "fertilizer", "pesticide", "harvest", "farming"}},
		{Intent: models.IntentAskKB, Keywords: []string{"what", "how", "when", "where", "why", "help"}},
		{Intent: models.IntentRequestAdvice, Keywords: []string{"advice", "help", "what to do", "how to"}},
		{Intent: models.IntentSmalltalkOther, Keywords: []string{"hello", "hi", "thanks", "bye"}},
	},
	Patterns: []IntentPatterns{
		{Intent: models.IntentLogActivity, Patterns: []string{
			`(.+?)\s+(plant|sow|water|fertilizer|pesticide|harvest)`,
			`(tomorrow|today|yesterday)\s+(.+?)\s+(need to do|did)`,
		}},
		{Intent: models.IntentAskKB, Patterns: []string{
			`(.+?)\s+(what|how|when|where)`,
			`(.+?)\s+(help|advice)`,
		}},
	},
	Entities: []EntityPattern{
		{Type: models.EntityCrop, Pattern: `(rice|banana|brinjal|tomato|coconut)`},
		{Type: models.EntityActivity, Pattern: `(plant|sow|water|fertilizer|pesticide|harvest)`},
		{Type: models.EntityQuantity, Pattern: `(\d+)\s*(kg|liter|gram|kilogram)`},
		{Type: models.EntityTime, Pattern: `(tomorrow|today|yesterday|this week|next week)`},
	},
}

var malayalamLexicon = Lexicon{
	Language: LangMalayalam,
	Keywords: []IntentKeywords{
		{Intent: models.IntentLogActivity, Keywords: []string{"നടൽ", "തളിക്കൽ", "വെള്ളം", "വളം", "വിളവെടുപ്പ്", "കൃഷി"}},
		{Intent: models.IntentAskKB, Keywords: []string{"എന്ത്", "എങ്ങനെ", "എപ്പോൾ", "എവിടെ", "എന്തുകൊണ്ട്", "സഹായം"}},
		{Intent: models.IntentRequestAdvice, Keywords: []string{"ഉപദേശം", "സഹായം", "എന്ത് ചെയ്യണം", "എങ്ങനെ ചെയ്യണം"}},
		{Intent: models.IntentSmalltalkOther, Keywords: []string{"നമസ്കാരം", "ഹലോ", "ധന്യവാദം", "വിട"}},
	},
	Patterns: []IntentPatterns{
		{Intent: models.IntentLogActivity, Patterns: []string{
			`(.+?)\s+(നടൽ|തളിക്കൽ|വെള്ളം|വളം|വിളവെടുപ്പ്)`,
			`(നാളെ|ഇന്ന്|ഇന്നലെ)\s+(.+?)\s+(ചെയ്യണം|ചെയ്തു)`,
		}},
		{Intent: models.IntentAskKB, Patterns: []string{
			`(.+?)\s+(എന്ത്|എങ്ങനെ|എപ്പോൾ|എവിടെ)`,
			`(.+?)\s+(സഹായം|ഉപദേശം)`,
		}},
	},
	Entities: []EntityPattern{
		{Type: models.EntityCrop, Pattern: `(പാട്ട|വാഴ|കാട്ടുകുരുമ|കുരുമ|കോഴിക്കോട്|തക്കാളി)`},
		{Type: models.EntityActivity, Pattern: `(നടൽ|തളിക്കൽ|വെള്ളം|വളം|വിളവെടുപ്പ്|കീടനാശിനി)`},
		{Type: models.EntityQuantity, Pattern: `(\d+)\s*(കിലോ|ലിറ്റർ|ഗ്രാം|കിലോഗ്രാം)`},
		{Type: models.EntityTime, Pattern: `(നാളെ|ഇന്ന്|ഇന്നലെ|ഈ ആഴ്ച|അടുത്ത ആഴ്ച)`},
	},
}
