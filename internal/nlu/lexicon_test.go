// internal/nlu/lexicon_test.go
package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-workers/internal/models"
)

func TestNewStore_Validation(t *testing.T) {
	valid := Lexicon{Language: "en"}

	tests := []struct {
		name     string
		def      string
		lexicons []Lexicon
		wantErr  string
	}{
		{name: "no lexicons", def: "en", wantErr: "at least one lexicon"},
		{name: "missing default", def: "ml-IN", lexicons: []Lexicon{valid}, wantErr: "default language"},
		{name: "empty tag", def: "en", lexicons: []Lexicon{{}}, wantErr: "language tag is empty"},
		{name: "duplicate", def: "en", lexicons: []Lexicon{valid, valid}, wantErr: "duplicate lexicon"},
		{
			name: "unknown intent",
			def:  "en",
			lexicons: []Lexicon{{
				Language: "en",
				Keywords: []IntentKeywords{{Intent: "book_flight", Keywords: []string{"fly"}}},
			}},
			wantErr: "unknown intent",
		},
		{
			name: "keyword repeated after normalisation",
			def:  "en",
			lexicons: []Lexicon{{
				Language: "en",
				Keywords: []IntentKeywords{{Intent: models.IntentLogActivity, Keywords: []string{"Plant", "plant"}}},
			}},
			wantErr: `duplicate keyword "plant"`,
		},
		{
			name: "bad pattern",
			def:  "en",
			lexicons: []Lexicon{{
				Language: "en",
				Entities: []EntityPattern{{Type: models.EntityCrop, Pattern: "(rice"}},
			}},
			wantErr: "entity crop pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.def, tt.lexicons...)
			require.Error(t, err)
			assert.Nil(t, store)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStore_Resolve(t *testing.T) {
	store := DefaultStore()

	tests := []struct {
		tag  string
		want string
	}{
		{tag: "en", want: LangEnglish},
		{tag: "ml-IN", want: LangMalayalam},
		{tag: "ml", want: LangMalayalam},
		{tag: "ML_in", want: LangMalayalam},
		{tag: "en-GB", want: LangEnglish},
		{tag: "fr", want: LangEnglish},
		{tag: "", want: LangEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, store.Resolve(tt.tag))
		})
	}
}

func TestStore_KeywordsNormalized(t *testing.T) {
	store, err := NewStore("en", Lexicon{
		Language: "en",
		Keywords: []IntentKeywords{{
			Intent:   models.IntentLogActivity,
			Keywords: []string{"Plant", "  ", "sow  seeds"},
		}},
	})
	require.NoError(t, err)

	lex := store.lexicon("en")
	require.Len(t, lex.keywords, 1)
	assert.Equal(t, []string{"plant", "sow seeds"}, lex.keywords[0].Keywords)
	assert.Equal(t, []string{"en"}, store.Languages())
	assert.Equal(t, "en", store.DefaultLanguage())
}

func TestDefaultStore_IsShared(t *testing.T) {
	assert.Same(t, DefaultStore(), DefaultStore())
	assert.Equal(t, []string{LangEnglish, LangMalayalam}, DefaultStore().Languages())
}

func TestNewBuiltinStore_DefaultLanguage(t *testing.T) {
	store, err := NewBuiltinStore(LangMalayalam)
	require.NoError(t, err)
	assert.Equal(t, LangMalayalam, store.Resolve("fr"))

	_, err = NewBuiltinStore("ta-IN")
	assert.Error(t, err)
}
