// Package constraints is the extensible validation tier.
//
// Constraints are grouped into four categories, each checking a different
// shape of input:
//
//   - Arrangement: one section's layer arrangement
//   - Backbone: a backbone diameter and count pairing
//   - Solution: a fully assembled beam solution
//   - SectionPair: the two sections meeting at a support
//
// A [Registry] keeps every category sorted by priority. Checks run in that
// order, every result is returned, and the loop for a category stops only on
// a Fatal result. A check that fails with an error or panics is reported as
// a zero-penalty Warning so that one faulty constraint cannot abort a design.
package constraints

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/severity"
)

// Category selects which input a constraint checks.
type Category int

const (
	Arrangement Category = iota
	Backbone
	Solution
	SectionPair
)

// Categories lists every category in evaluation order.
var Categories = [...]Category{Arrangement, Backbone, Solution, SectionPair}

func (c Category) String() string {
	switch c {
	case Arrangement:
		return "arrangement"
	case Backbone:
		return "backbone"
	case Solution:
		return "solution"
	case SectionPair:
		return "section-pair"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// =============================================================================
// Inputs
// =============================================================================

// ArrangementInput is one section face with the geometry it must fit.
type ArrangementInput struct {
	Section         model.SectionDesign
	Group           *model.BeamGroup
	Settings        *config.Settings
	StirrupDiameter int
}

// BackboneInput is a candidate backbone checked against all sections.
type BackboneInput struct {
	Diameter int
	TopCount int
	BotCount int
	Group    *model.BeamGroup
	Spans    []model.SpanResult
	Settings *config.Settings
}

// SolutionInput is an assembled solution.
type SolutionInput struct {
	Solution *model.Solution
	Group    *model.BeamGroup
	Settings *config.Settings
}

// SectionPairInput holds the valid top arrangements on either side of the
// support between span SupportIndex and the next one.
type SectionPairInput struct {
	SupportIndex int
	Left         []model.SectionDesign
	Right        []model.SectionDesign
	Group        *model.BeamGroup
	Settings     *config.Settings
}

// Typed check functions, one per category. A returned error is downgraded to
// a zero-penalty Warning.
type (
	ArrangementFunc func(ArrangementInput) (model.ValidationResult, error)
	BackboneFunc    func(BackboneInput) (model.ValidationResult, error)
	SolutionFunc    func(SolutionInput) (model.ValidationResult, error)
	SectionPairFunc func(SectionPairInput) (model.ValidationResult, error)
)

// Constraint is a named, prioritised check of one category. Exactly the check
// function matching Category must be set. A registered constraint runs unless
// Disabled is set.
type Constraint struct {
	Name        string
	Description string
	Category    Category
	Priority    int
	Disabled    bool

	Arrangement ArrangementFunc
	Backbone    BackboneFunc
	Solution    SolutionFunc
	SectionPair SectionPairFunc
}

func (c Constraint) validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "constraint name is required")
	}
	set := 0
	for _, ok := range []bool{c.Arrangement != nil, c.Backbone != nil, c.Solution != nil, c.SectionPair != nil} {
		if ok {
			set++
		}
	}
	var match bool
	switch c.Category {
	case Arrangement:
		match = c.Arrangement != nil
	case Backbone:
		match = c.Backbone != nil
	case Solution:
		match = c.Solution != nil
	case SectionPair:
		match = c.SectionPair != nil
	}
	if !match || set != 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"constraint %q must set exactly the %s check", c.Name, c.Category)
	}
	return nil
}

// =============================================================================
// Registry
// =============================================================================

// Registry holds constraints by category. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	byCategory map[Category][]Constraint
}

// NewRegistry returns a registry with the built-in constraints.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, c := range Builtin() {
		if err := r.Register(c); err != nil {
			panic(err) // built-ins are well-formed
		}
	}
	return r
}

// NewEmptyRegistry returns a registry with no constraints.
func NewEmptyRegistry() *Registry {
	return &Registry{byCategory: make(map[Category][]Constraint)}
}

// Register adds c to its category. Registering a name that already exists in
// any category is a no-op.
func (r *Registry) Register(c Constraint) error {
	if err := c.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, _, ok := r.find(c.Name); ok {
		return nil
	}
	list := append(r.byCategory[c.Category], c)
	slices.SortStableFunc(list, func(a, b Constraint) int { return cmp.Compare(a.Priority, b.Priority) })
	r.byCategory[c.Category] = list
	return nil
}

// Remove drops the named constraint and reports whether it existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, i, ok := r.find(name)
	if !ok {
		return false
	}
	r.byCategory[cat] = slices.Delete(r.byCategory[cat], i, i+1)
	return true
}

// Enable switches the named constraint on or off and reports whether it
// exists.
func (r *Registry) Enable(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, i, ok := r.find(name)
	if !ok {
		return false
	}
	r.byCategory[cat][i].Disabled = !enabled
	return true
}

// Get returns the named constraint.
func (r *Registry) Get(name string) (Constraint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, i, ok := r.find(name)
	if !ok {
		return Constraint{}, false
	}
	return r.byCategory[cat][i], true
}

// List returns every constraint, by category then priority.
func (r *Registry) List() []Constraint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Constraint
	for _, cat := range Categories {
		out = append(out, r.byCategory[cat]...)
	}
	return out
}

func (r *Registry) find(name string) (Category, int, bool) {
	for cat, list := range r.byCategory {
		for i, c := range list {
			if c.Name == name {
				return cat, i, true
			}
		}
	}
	return 0, 0, false
}

func (r *Registry) enabled(cat Category) []Constraint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Constraint
	for _, c := range r.byCategory[cat] {
		if !c.Disabled {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// Checks
// =============================================================================

// CheckArrangement runs the Arrangement category.
func (r *Registry) CheckArrangement(in ArrangementInput) []model.ValidationResult {
	return run(r.enabled(Arrangement), func(c Constraint) (model.ValidationResult, error) {
		return c.Arrangement(in)
	})
}

// CheckBackbone runs the Backbone category.
func (r *Registry) CheckBackbone(in BackboneInput) []model.ValidationResult {
	return run(r.enabled(Backbone), func(c Constraint) (model.ValidationResult, error) {
		return c.Backbone(in)
	})
}

// CheckSolution runs the Solution category.
func (r *Registry) CheckSolution(in SolutionInput) []model.ValidationResult {
	return run(r.enabled(Solution), func(c Constraint) (model.ValidationResult, error) {
		return c.Solution(in)
	})
}

// CheckSectionPair runs the SectionPair category.
func (r *Registry) CheckSectionPair(in SectionPairInput) []model.ValidationResult {
	return run(r.enabled(SectionPair), func(c Constraint) (model.ValidationResult, error) {
		return c.SectionPair(in)
	})
}

func run(list []Constraint, call func(Constraint) (model.ValidationResult, error)) []model.ValidationResult {
	out := make([]model.ValidationResult, 0, len(list))
	for _, c := range list {
		res := safeCall(c, call)
		out = append(out, res)
		if severity.ConstraintPolicy.Halts(res.Severity) {
			break
		}
	}
	return out
}

func safeCall(c Constraint, call func(Constraint) (model.ValidationResult, error)) (res model.ValidationResult) {
	defer func() {
		if p := recover(); p != nil {
			res = model.WarningResult(c.Name, fmt.Sprintf("check failed: %v", p), 0)
		}
	}()
	res, err := call(c)
	if err != nil {
		return model.WarningResult(c.Name, fmt.Sprintf("check failed: %v", err), 0)
	}
	if res.Name == "" {
		res.Name = c.Name
	}
	return res
}

// =============================================================================
// Aggregates
// =============================================================================

// HasCriticalFailure reports whether any result is Critical or worse.
func HasCriticalFailure(results []model.ValidationResult) bool {
	for _, r := range results {
		if !r.Passed() && severity.ConstraintPolicy.Invalidates(r.Severity) {
			return true
		}
	}
	return false
}

// TotalPenalty sums the penalties of Warning results.
func TotalPenalty(results []model.ValidationResult) float64 {
	total := 0.0
	for _, r := range results {
		if !r.Passed() && severity.ConstraintPolicy.Scores(r.Severity) {
			total += r.Penalty
		}
	}
	return total
}

// Apply records results on c and adds their penalty. The first critical
// failure invalidates c as "stage/constraint". It reports whether c survived.
func Apply(c *model.DesignContext, stage string, results []model.ValidationResult) bool {
	for _, res := range results {
		c.Record(res)
	}
	c.TotalPenalty += TotalPenalty(results)
	for _, res := range results {
		if !res.Passed() && severity.ConstraintPolicy.Invalidates(res.Severity) {
			c.Invalidate(stage + "/" + res.Name)
			return false
		}
	}
	return true
}
