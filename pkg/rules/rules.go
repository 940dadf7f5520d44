// Package rules is the simple validation tier: an ordered list of named
// checks run against every finished design context.
//
// Rules run in ascending priority. A Warning adds its penalty to the context;
// the first Critical result invalidates the context and stops evaluation, so
// later rules never see a context that is already dead.
package rules

import (
	"cmp"
	"slices"

	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/severity"
)

// CheckFunc evaluates one rule against a context. It must not modify c.
type CheckFunc func(c *model.DesignContext) model.ValidationResult

// Rule is a named check with an evaluation priority (lower runs first).
type Rule struct {
	Name     string
	Priority int
	Check    CheckFunc
}

// Engine holds the registered rules in priority order.
// It is not safe for concurrent registration, but ValidateAll may be called
// concurrently once registration is done.
type Engine struct {
	rules  []Rule
	policy severity.Policy
}

// NewEngine returns an engine with the built-in rules registered.
func NewEngine() *Engine {
	e := NewEmptyEngine()
	for _, r := range Builtin() {
		e.Register(r)
	}
	return e
}

// NewEmptyEngine returns an engine with no rules.
func NewEmptyEngine() *Engine {
	return &Engine{policy: severity.RulePolicy}
}

// Register adds r. Names are not checked for uniqueness; among equal
// priorities rules keep their insertion order.
func (e *Engine) Register(r Rule) {
	e.rules = append(e.rules, r)
	slices.SortStableFunc(e.rules, func(a, b Rule) int { return cmp.Compare(a.Priority, b.Priority) })
}

// Remove drops every rule named name and reports whether any was found.
func (e *Engine) Remove(name string) bool {
	n := len(e.rules)
	e.rules = slices.DeleteFunc(e.rules, func(r Rule) bool { return r.Name == name })
	return len(e.rules) != n
}

// Rules returns the registered rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

// ValidateAll runs every rule against c, appending one result per evaluated
// rule. It stops at the first result the policy halts on, marking c invalid
// with the rule's name as the failing stage.
func (e *Engine) ValidateAll(c *model.DesignContext) {
	for _, r := range e.rules {
		res := r.Check(c)
		if res.Name == "" {
			res.Name = r.Name
		}
		c.Record(res)

		if e.policy.Scores(res.Severity) {
			c.TotalPenalty += res.Penalty
		}
		if e.policy.Invalidates(res.Severity) {
			c.Invalidate(r.Name)
		}
		if e.policy.Halts(res.Severity) {
			return
		}
	}
}
