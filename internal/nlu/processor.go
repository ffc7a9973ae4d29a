// internal/nlu/processor.go
package nlu

import (
	"context"
	"strings"
	"sync"

	"krishi-workers/internal/models"
)

const (
	DefaultMaxInputRunes    = 2000
	DefaultPatternThreshold = 0.7
)

// Options tunes the orchestrator.
type Options struct {
	// MaxInputRunes bounds how much of the text the regex tiers see.
	MaxInputRunes int
	// PatternThreshold is the strength the pattern tier must exceed to win.
	PatternThreshold float64
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		MaxInputRunes:    DefaultMaxInputRunes,
		PatternThreshold: DefaultPatternThreshold,
	}
}

// Processor composes language resolution, the pattern tier, the keyword tier
// and the entity extractor into one total decision. It holds no mutable state
// and is safe for concurrent use.
type Processor struct {
	store *Store
	opts  Options
}

// New returns a Processor over store. Zero-valued options fall back to the
// defaults.
func New(store *Store, opts Options) *Processor {
	if opts.MaxInputRunes == 0 {
		opts.MaxInputRunes = DefaultMaxInputRunes
	}
	if opts.PatternThreshold <= 0 {
		opts.PatternThreshold = DefaultPatternThreshold
	}
	return &Processor{store: store, opts: opts}
}

var (
	defaultProcessorOnce sync.Once
	defaultProcessor     *Processor
)

// Default returns the process-wide processor over DefaultStore.
func Default() *Processor {
	defaultProcessorOnce.Do(func() {
		defaultProcessor = New(DefaultStore(), DefaultOptions())
	})
	return defaultProcessor
}

// ProcessText runs the default processor.
func ProcessText(text, languageHint string) models.NLUResult {
	return Default().ProcessText(text, languageHint)
}

// ProcessText classifies text. An empty hint is replaced by DetectLanguage.
// The pattern tier is used when its strength exceeds the threshold; otherwise
// the keyword tier and entity extractor decide, even at zero confidence.
func (p *Processor) ProcessText(text, languageHint string) models.NLUResult {
	hint := strings.TrimSpace(languageHint)
	if hint == "" {
		hint = DetectLanguage(text)
	}
	language := p.store.Resolve(hint)
	lex := p.store.lexicons[language]

	bounded := NormalizeText(truncateRunes(text, p.opts.MaxInputRunes))

	if m := refinePatterns(bounded, lex); m.strength > p.opts.PatternThreshold {
		return models.NLUResult{
			Intent:     m.intent,
			Confidence: m.strength,
			Entities:   m.entities,
			Language:   language,
			SourceText: text,
			Provider:   models.ProviderPattern,
		}
	}

	intent, confidence := classifyKeywords(strings.ToLower(bounded), lex)
	return models.NLUResult{
		Intent:     intent,
		Confidence: confidence,
		Entities:   extractEntities(bounded, lex),
		Language:   language,
		SourceText: text,
		Provider:   models.ProviderKeyword,
	}
}

// Name implements Strategy.
func (p *Processor) Name() string {
	return "core"
}

// Process implements Strategy. It never fails.
func (p *Processor) Process(_ context.Context, text, languageHint string) (models.NLUResult, error) {
	return p.ProcessText(text, languageHint), nil
}
