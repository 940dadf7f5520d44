package model

import (
	"slices"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/severity"
)

// ValidationResult is the outcome of one rule or constraint check.
// Penalty is only meaningful at Warning; SuggestedFix is only filled by the
// constraint tier.
type ValidationResult struct {
	Severity     severity.Level `json:"severity"`
	Name         string         `json:"name"`
	Message      string         `json:"message"`
	Penalty      float64        `json:"penalty,omitempty"`
	SuggestedFix string         `json:"suggested_fix,omitempty"`
}

// Passed reports whether the check found nothing to report.
func (r ValidationResult) Passed() bool {
	return r.Severity == severity.Pass
}

// PassResult builds a Pass result.
func PassResult(name, msg string) ValidationResult {
	return ValidationResult{Severity: severity.Pass, Name: name, Message: msg}
}

// InfoResult builds an Info result.
func InfoResult(name, msg string) ValidationResult {
	return ValidationResult{Severity: severity.Info, Name: name, Message: msg}
}

// WarningResult builds a Warning result carrying penalty.
func WarningResult(name, msg string, penalty float64) ValidationResult {
	return ValidationResult{Severity: severity.Warning, Name: name, Message: msg, Penalty: penalty}
}

// CriticalResult builds a Critical result.
func CriticalResult(name, msg string) ValidationResult {
	return ValidationResult{Severity: severity.Critical, Name: name, Message: msg}
}

// Draft is the partially assembled design a context carries between stages.
type Draft struct {
	BackboneDiameter int
	AddOnDiameter    int
	TopCount         int
	BotCount         int
	StirrupLegs      int
	StirrupDiameter  int
	Strategy         string
	Sections         []SectionDesign
	StirrupZones     []StirrupZone
}

// DesignContext is the working unit of the pipeline: one candidate design of
// one beam. Stages clone it into siblings for every alternative they open up
// and discard it once it turns invalid; an invalid context is never revived.
type DesignContext struct {
	Group       *BeamGroup
	Spans       []SpanResult
	Settings    *config.Settings
	Constraints *ProjectConstraints
	External    *ExternalConstraint

	Draft    Draft
	Solution *Solution

	Results                []ValidationResult
	TotalPenalty           float64
	PreferredDiameterBonus float64
	IsValid                bool
	FailedAt               string
}

// NewSeed builds the single context a beam's design starts from.
func NewSeed(g *BeamGroup, spans []SpanResult, s *config.Settings, c *ProjectConstraints, ext *ExternalConstraint) *DesignContext {
	return &DesignContext{
		Group:       g,
		Spans:       spans,
		Settings:    s,
		Constraints: c,
		External:    ext,
		IsValid:     true,
	}
}

// Clone returns a sibling context. Shared inputs (group, spans, settings,
// constraints) stay shared; everything a stage may change is copied.
func (c *DesignContext) Clone() *DesignContext {
	out := *c
	out.Results = slices.Clone(c.Results)
	out.Draft.Sections = make([]SectionDesign, len(c.Draft.Sections))
	for i, sec := range c.Draft.Sections {
		sec.Layers = slices.Clone(sec.Layers)
		sec.Profile = sec.Profile.Clone()
		out.Draft.Sections[i] = sec
	}
	out.Draft.StirrupZones = slices.Clone(c.Draft.StirrupZones)
	out.Solution = c.Solution.Clone()
	return &out
}

// Record appends a result without touching validity or penalty.
func (c *DesignContext) Record(r ValidationResult) {
	c.Results = append(c.Results, r)
}

// Invalidate marks the context dead at the named stage or rule.
func (c *DesignContext) Invalidate(at string) {
	c.IsValid = false
	if c.FailedAt == "" {
		c.FailedAt = at
	}
}

// HasCriticalError reports whether any recorded result excludes the context.
func (c *DesignContext) HasCriticalError() bool {
	for _, r := range c.Results {
		if r.Severity.IsFailure() {
			return true
		}
	}
	return false
}

// Cover returns the effective cover of the context's group.
func (c *DesignContext) Cover() float64 {
	return c.Group.EffectiveCover(c.Settings.Beam.Cover)
}
