// internal/rules/engine.go
package rules

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"

	"krishi-workers/internal/models"
)

var (
	ErrNilRule       = errors.New("rule is nil")
	ErrEngineSealed  = errors.New("rule engine is sealed")
	ErrDuplicateRule = errors.New("duplicate rule name")
)

// Defect records a rule that evaluated true but produced no draft.
type Defect struct {
	Rule string `json:"rule"`
}

// Report is the outcome of one evaluation pass.
type Report struct {
	Drafts  []models.AdvisoryDraft `json:"drafts"`
	Fired   []string               `json:"fired"`
	Defects []Defect               `json:"defects,omitempty"`
}

// Engine holds rules in registration order. All AddRule calls must happen
// before the first concurrent evaluation; Seal marks that point. After Seal,
// evaluation is lock-free and safe from any number of goroutines.
type Engine struct {
	rules  []Rule
	names  map[string]struct{}
	sealed atomic.Bool
}

func NewEngine() *Engine {
	return &Engine{names: make(map[string]struct{})}
}

// AddRule appends rule to the registry. Names must be unique. A nil rule,
// including a nil pointer held in the interface, is rejected.
func (e *Engine) AddRule(rule Rule) error {
	if isNilRule(rule) {
		return ErrNilRule
	}
	if e.sealed.Load() {
		return fmt.Errorf("add %q: %w", rule.Name(), ErrEngineSealed)
	}
	if _, dup := e.names[rule.Name()]; dup {
		return fmt.Errorf("add %q: %w", rule.Name(), ErrDuplicateRule)
	}
	e.names[rule.Name()] = struct{}{}
	e.rules = append(e.rules, rule)
	return nil
}

// Seal ends registration.
func (e *Engine) Seal() {
	e.sealed.Store(true)
}

func (e *Engine) Sealed() bool {
	return e.sealed.Load()
}

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

func (e *Engine) Len() int {
	return len(e.rules)
}

// EvaluateRules visits every rule once in registration order and returns the
// drafts of the rules that fired. Overlapping rules each contribute a draft.
func (e *Engine) EvaluateRules(facts models.FactSet) []models.AdvisoryDraft {
	return e.Evaluate(facts).Drafts
}

// Evaluate is EvaluateRules plus the names of fired rules and any defects.
func (e *Engine) Evaluate(facts models.FactSet) Report {
	return evaluate(e.rules, facts)
}

// EvaluateOrdered evaluates the rules sorted stably by compare, leaving the
// registry untouched. Pass ByPriority to rank by priority.
func (e *Engine) EvaluateOrdered(facts models.FactSet, compare func(a, b Rule) int) Report {
	if compare == nil {
		return e.Evaluate(facts)
	}
	ordered := slices.Clone(e.rules)
	slices.SortStableFunc(ordered, compare)
	return evaluate(ordered, facts)
}

// ByPriority orders lower priority numbers first.
func ByPriority(a, b Rule) int {
	return cmp.Compare(a.Priority(), b.Priority())
}

func evaluate(rules []Rule, facts models.FactSet) Report {
	report := Report{
		Drafts: []models.AdvisoryDraft{},
		Fired:  []string{},
	}
	for _, rule := range rules {
		if !rule.Evaluate(facts) {
			continue
		}
		draft, ok := rule.Generate(facts)
		if !ok {
			report.Defects = append(report.Defects, Defect{Rule: rule.Name()})
			continue
		}
		report.Drafts = append(report.Drafts, draft)
		report.Fired = append(report.Fired, rule.Name())
	}
	return report
}

func isNilRule(rule Rule) bool {
	if rule == nil {
		return true
	}
	v := reflect.ValueOf(rule)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
