// internal/rules/rule.go
package rules

import (
	"errors"

	"krishi-workers/internal/models"
)

// DefaultPriority is assigned to rules built without WithPriority. Lower
// numbers rank first under ByPriority.
const DefaultPriority = 100

var (
	ErrEmptyName       = errors.New("rule name is required")
	ErrInvalidSeverity = errors.New("invalid severity")
)

// Rule turns a fact set into zero or one advisory draft. Implementations are
// immutable and must not modify the facts they are given. A rule whose
// Evaluate returns true must return a draft from Generate.
type Rule interface {
	Name() string
	Priority() int
	Evaluate(facts models.FactSet) bool
	Generate(facts models.FactSet) (models.AdvisoryDraft, bool)
}

// Option customises a rule at construction.
type Option func(*base)

// WithPriority sets the rule priority.
func WithPriority(priority int) Option {
	return func(b *base) {
		b.priority = priority
	}
}

type base struct {
	name     string
	priority int
}

func newBase(name string, opts []Option) (base, error) {
	if name == "" {
		return base{}, ErrEmptyName
	}
	b := base{name: name, priority: DefaultPriority}
	for _, opt := range opts {
		opt(&b)
	}
	return b, nil
}

func (b base) Name() string {
	return b.name
}

func (b base) Priority() int {
	return b.priority
}

func validSeverity(s models.Severity) bool {
	_, ok := models.ParseSeverity(string(s))
	return ok
}
