// internal/nlu/lexicon.go
package nlu

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"krishi-workers/internal/models"
)

var ErrNoLexicons = errors.New("at least one lexicon is required")

// IntentKeywords lists the keywords that vote for one intent.
type IntentKeywords struct {
	Intent   models.Intent
	Keywords []string
}

// IntentPatterns lists the capture patterns that refine one intent.
type IntentPatterns struct {
	Intent   models.Intent
	Patterns []string
}

// EntityPattern is the regex used to extract one entity type.
type EntityPattern struct {
	Type    models.EntityType
	Pattern string
}

// Lexicon is the keyword and pattern data for one language. Slice order is
// significant: it is the tie-break order for both tiers. Keywords of one
// intent must be distinct after normalisation, since their count is the
// keyword tier's denominator.
type Lexicon struct {
	Language string
	Keywords []IntentKeywords
	Patterns []IntentPatterns
	Entities []EntityPattern
}

type intentRegexps struct {
	intent   models.Intent
	patterns []*regexp.Regexp
}

type entityRegexp struct {
	entityType models.EntityType
	re         *regexp.Regexp
}

// compiledLexicon is the read-only form of a Lexicon handed to the tiers.
type compiledLexicon struct {
	language string
	keywords []IntentKeywords
	patterns []intentRegexps
	entities []entityRegexp
}

// Store is an immutable, language-keyed set of compiled lexicons.
type Store struct {
	defaultLanguage string
	order           []string
	lexicons        map[string]*compiledLexicon
}

// NewStore compiles the given lexicons. defaultLanguage must name one of them;
// it is used for any tag that resolves to nothing else.
func NewStore(defaultLanguage string, lexicons ...Lexicon) (*Store, error) {
	if len(lexicons) == 0 {
		return nil, ErrNoLexicons
	}

	s := &Store{
		defaultLanguage: defaultLanguage,
		lexicons:        make(map[string]*compiledLexicon, len(lexicons)),
	}
	for _, lex := range lexicons {
		if lex.Language == "" {
			return nil, errors.New("lexicon language tag is empty")
		}
		if _, dup := s.lexicons[lex.Language]; dup {
			return nil, fmt.Errorf("duplicate lexicon for %q", lex.Language)
		}
		compiled, err := compileLexicon(lex)
		if err != nil {
			return nil, fmt.Errorf("compile lexicon %q: %w", lex.Language, err)
		}
		s.lexicons[lex.Language] = compiled
		s.order = append(s.order, lex.Language)
	}

	if _, ok := s.lexicons[defaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q has no lexicon", defaultLanguage)
	}
	return s, nil
}

func compileLexicon(lex Lexicon) (*compiledLexicon, error) {
	out := &compiledLexicon{language: lex.Language}

	for _, ik := range lex.Keywords {
		if !ik.Intent.IsValid() {
			return nil, fmt.Errorf("unknown intent %q", ik.Intent)
		}
		seen := make(map[string]struct{}, len(ik.Keywords))
		keywords := make([]string, 0, len(ik.Keywords))
		for _, kw := range ik.Keywords {
			kw = strings.ToLower(NormalizeText(kw))
			if kw == "" {
				continue
			}
			if _, ok := seen[kw]; ok {
				return nil, fmt.Errorf("intent %q: duplicate keyword %q", ik.Intent, kw)
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
		out.keywords = append(out.keywords, IntentKeywords{Intent: ik.Intent, Keywords: keywords})
	}

	for _, ip := range lex.Patterns {
		if !ip.Intent.IsValid() {
			return nil, fmt.Errorf("unknown intent %q", ip.Intent)
		}
		group := intentRegexps{intent: ip.Intent}
		for _, p := range ip.Patterns {
			re, err := regexp.Compile("(?i)" + norm.NFC.String(p))
			if err != nil {
				return nil, fmt.Errorf("intent %s pattern %q: %w", ip.Intent, p, err)
			}
			group.patterns = append(group.patterns, re)
		}
		out.patterns = append(out.patterns, group)
	}

	for _, ep := range lex.Entities {
		re, err := regexp.Compile("(?i)" + norm.NFC.String(ep.Pattern))
		if err != nil {
			return nil, fmt.Errorf("entity %s pattern %q: %w", ep.Type, ep.Pattern, err)
		}
		out.entities = append(out.entities, entityRegexp{entityType: ep.Type, re: re})
	}

	return out, nil
}

// Languages returns the registered tags in registration order.
func (s *Store) Languages() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// DefaultLanguage returns the fallback tag.
func (s *Store) DefaultLanguage() string {
	return s.defaultLanguage
}

// Resolve maps a language tag to the tag whose lexicon will be used: an exact
// match, then the first lexicon sharing the base language, then the default.
func (s *Store) Resolve(tag string) string {
	if _, ok := s.lexicons[tag]; ok {
		return tag
	}
	if base := BaseLanguage(tag); base != "" {
		for _, lang := range s.order {
			if BaseLanguage(lang) == base {
				return lang
			}
		}
	}
	return s.defaultLanguage
}

func (s *Store) lexicon(tag string) *compiledLexicon {
	return s.lexicons[s.Resolve(tag)]
}

var (
	defaultStoreOnce sync.Once
	defaultStore     *Store
)

// NewBuiltinStore compiles the builtin English/Malayalam lexicons with the
// given fallback language.
func NewBuiltinStore(defaultLanguage string) (*Store, error) {
	return NewStore(defaultLanguage, englishLexicon, malayalamLexicon)
}

// DefaultStore returns the builtin store with English as fallback. It is
// compiled on first use and shared read-only afterwards.
func DefaultStore() *Store {
	defaultStoreOnce.Do(func() {
		s, err := NewBuiltinStore(LangEnglish)
		if err != nil {
			panic(fmt.Sprintf("nlu: builtin lexicons: %v", err))
		}
		defaultStore = s
	})
	return defaultStore
}
