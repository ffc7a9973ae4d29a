// internal/nlu/strategy.go
package nlu

import (
	"context"
	"errors"
	"fmt"

	"krishi-workers/internal/models"
)

// Strategy is one named way of turning text into an NLUResult.
type Strategy interface {
	Name() string
	Process(ctx context.Context, text, languageHint string) (models.NLUResult, error)
}

// FailureReason classifies why a strategy declined to answer.
type FailureReason string

const (
	ReasonTimeout           FailureReason = "timeout"
	ReasonAuth              FailureReason = "auth"
	ReasonMalformedResponse FailureReason = "malformed_response"
	ReasonUnavailable       FailureReason = "unavailable"
	ReasonLowConfidence     FailureReason = "low_confidence"
)

// Recoverable reports whether the chain may move on to the next strategy.
func (r FailureReason) Recoverable() bool {
	switch r {
	case ReasonTimeout, ReasonAuth, ReasonMalformedResponse, ReasonUnavailable, ReasonLowConfidence:
		return true
	}
	return false
}

// StrategyError is the typed failure a strategy returns to let the chain fall
// through.
type StrategyError struct {
	Strategy string
	Reason   FailureReason
	Err      error
}

func (e *StrategyError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("strategy %s: %s", e.Strategy, e.Reason)
	}
	return fmt.Sprintf("strategy %s: %s: %v", e.Strategy, e.Reason, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// NewStrategyError builds a StrategyError.
func NewStrategyError(strategy string, reason FailureReason, err error) *StrategyError {
	return &StrategyError{Strategy: strategy, Reason: reason, Err: err}
}

var (
	ErrNoStrategies   = errors.New("no strategies configured")
	ErrChainExhausted = errors.New("all strategies failed")
)

// Attempt records one strategy that was tried and declined.
type Attempt struct {
	Strategy string
	Reason   FailureReason
	Err      error
}

// Chain tries strategies in order. A recoverable StrategyError moves on to the
// next strategy; any other error stops the chain and is returned as is.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain. Nil strategies are skipped.
func NewChain(strategies ...Strategy) *Chain {
	c := &Chain{}
	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}
	return c
}

// Names returns the strategy names in try order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Run returns the first successful result together with the declined
// attempts that preceded it.
func (c *Chain) Run(ctx context.Context, text, languageHint string) (models.NLUResult, []Attempt, error) {
	if len(c.strategies) == 0 {
		return models.NLUResult{}, nil, ErrNoStrategies
	}

	var attempts []Attempt
	var lastErr error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return models.NLUResult{}, attempts, err
		}

		result, err := s.Process(ctx, text, languageHint)
		if err == nil {
			return result, attempts, nil
		}

		var se *StrategyError
		if !errors.As(err, &se) || !se.Reason.Recoverable() {
			return models.NLUResult{}, attempts, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		attempts = append(attempts, Attempt{Strategy: s.Name(), Reason: se.Reason, Err: se.Err})
		lastErr = err
	}

	return models.NLUResult{}, attempts, fmt.Errorf("%w: %w", ErrChainExhausted, lastErr)
}

// minConfidence declines results at or below a confidence floor.
type minConfidence struct {
	inner Strategy
	floor float64
}

// WithMinConfidence wraps s so that results whose confidence does not exceed
// floor are declined with ReasonLowConfidence.
func WithMinConfidence(s Strategy, floor float64) Strategy {
	return &minConfidence{inner: s, floor: floor}
}

func (m *minConfidence) Name() string {
	return m.inner.Name()
}

func (m *minConfidence) Process(ctx context.Context, text, languageHint string) (models.NLUResult, error) {
	result, err := m.inner.Process(ctx, text, languageHint)
	if err != nil {
		return result, err
	}
	if result.Confidence <= m.floor {
		return models.NLUResult{}, NewStrategyError(m.inner.Name(), ReasonLowConfidence,
			fmt.Errorf("confidence %.2f not above %.2f", result.Confidence, m.floor))
	}
	return result, nil
}
