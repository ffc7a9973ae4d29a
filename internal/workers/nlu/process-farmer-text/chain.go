// internal/workers/nlu/process-farmer-text/chain.go
package processfarmertext

import (
	"fmt"
	"time"

	"krishi-workers/internal/common/config"
	"krishi-workers/internal/common/logger"
	"krishi-workers/internal/nlu"
	"krishi-workers/internal/nlu/remote"
)

// NewChain builds the strategy chain from the NLU config: the remote API when
// a base URL is set, then the local processor, which always answers. Remote
// answers not above nlu.remote.min_confidence fall through to the processor.
func NewChain(cfg config.NLUConfig, log logger.Logger) (*nlu.Chain, error) {
	language := cfg.DefaultLanguage
	if language == "" {
		language = nlu.LangEnglish
	}
	store, err := nlu.NewBuiltinStore(language)
	if err != nil {
		return nil, fmt.Errorf("build lexicon store: %w", err)
	}

	core := nlu.New(store, nlu.Options{
		MaxInputRunes:    cfg.MaxInputRunes,
		PatternThreshold: cfg.PatternThreshold,
	})

	if !cfg.Remote.Enabled() {
		return nlu.NewChain(core), nil
	}

	var strategy nlu.Strategy = remote.New(&remote.Config{
		BaseURL:    cfg.Remote.BaseURL,
		APIKey:     cfg.Remote.APIKey,
		Timeout:    time.Duration(cfg.Remote.Timeout) * time.Millisecond,
		MaxRetries: cfg.Remote.MaxRetries,
		Store:      store,
	}, log)
	if cfg.Remote.MinConfidence > 0 {
		strategy = nlu.WithMinConfidence(strategy, cfg.Remote.MinConfidence)
	}
	return nlu.NewChain(strategy, core), nil
}
