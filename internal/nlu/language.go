// internal/nlu/language.go
package nlu

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// LangMalayalam is the tag for regional-script (Malayalam) text.
	LangMalayalam = "ml-IN"
	// LangEnglish is the default Latin-script tag.
	LangEnglish = "en"
)

// Malayalam block U+0D00..U+0D7F.
const (
	malayalamFirst = '\u0D00'
	malayalamLast  = '\u0D7F'
)

// DetectLanguage classifies text by script composition. The Malayalam tag is
// returned only when Malayalam code points strictly outnumber ASCII letters;
// ties, including empty or symbol-only input, resolve to LangEnglish.
func DetectLanguage(text string) string {
	var regional, latin int
	for _, r := range text {
		switch {
		case r >= malayalamFirst && r <= malayalamLast:
			regional++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	if regional > latin {
		return LangMalayalam
	}
	return LangEnglish
}

// IsMalayalam reports whether text is detected as Malayalam.
func IsMalayalam(text string) bool {
	return DetectLanguage(text) == LangMalayalam
}

// NormalizeText applies NFC composition, collapses runs of whitespace into a
// single space and trims the ends.
func NormalizeText(text string) string {
	return strings.Join(strings.FieldsFunc(norm.NFC.String(text), unicode.IsSpace), " ")
}

// BaseLanguage strips the region from a locale tag ("ml-IN" -> "ml").
func BaseLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return tag[:i]
	}
	return tag
}

// truncateRunes bounds s to at most limit runes. A non-positive limit disables
// the bound.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
