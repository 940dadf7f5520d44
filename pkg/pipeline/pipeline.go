// Package pipeline turns one beam's required areas into ranked reinforcement
// proposals.
//
// The pipeline threads a set of candidate [model.DesignContext]s through an
// ordered list of stages. Each stage may fan a candidate out into many
// alternatives (diameters, backbone counts, filling strategies) or kill it.
// After every stage invalid candidates are dropped; if none survive, the beam
// has no proposals and the run ends early with an empty result.
//
// # Stages
//
// The built-in stages run in this order:
//
//  1. Diameter: one candidate per usable backbone diameter
//  2. Backbone: top/bottom backbone counts and stirrup legs
//  3. Filling: layer arrangement of every section by every strategy
//  4. Stirrup: stirrup diameter and spacing zones per span
//  5. Assembly: the complete solution, its weight and final checks
//
// Survivors are validated by the rule engine, scored, deduplicated by option
// label and ranked by score (heaviest last on ties).
//
// # Usage
//
//	p, err := pipeline.New(pipeline.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	proposals, err := p.Execute(ctx, pipeline.Input{
//	    Group:       group,
//	    Spans:       spans,
//	    Settings:    settings,
//	    Constraints: model.NewProjectConstraints(settings.Scoring.DiameterMatchBonus),
//	})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/constraints"
	"github.com/matzehuels/rebarplan/pkg/filling"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/rules"
	"github.com/matzehuels/rebarplan/pkg/scoring"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultMemoSize is the number of filling results memoised per strategy.
const DefaultMemoSize = filling.DefaultMemoSize

// Built-in stage names. StageRules names the rule pass after the stages.
const (
	StageDiameter = "Diameter"
	StageBackbone = "Backbone"
	StageFilling  = "Filling"
	StageStirrup  = "Stirrup"
	StageAssembly = "Assembly"
	StageRules    = "Rules"
)

// Built-in stage orders. Custom stages slot in between by picking an order
// in the gaps.
const (
	OrderDiameter = 10
	OrderBackbone = 20
	OrderFilling  = 30
	OrderStirrup  = 40
	OrderAssembly = 50
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a Pipeline. The zero value is usable.
type Options struct {
	// TopN caps the proposals returned per beam. Zero uses the settings'
	// Scoring.TopN.
	TopN int

	// MemoSize is the per-strategy filling memo size. Zero uses
	// DefaultMemoSize.
	MemoSize int

	// DisableMemo runs the strategies without memoisation.
	DisableMemo bool

	// Strategies are the filling strategies tried for every backbone.
	// Defaults to filling.All.
	Strategies []filling.Strategy

	// Rules is the rule engine run on the survivors. Defaults to the
	// built-in rules.
	Rules *rules.Engine

	// Constraints is the constraint registry. Defaults to the built-ins.
	Constraints *constraints.Registry

	// Scorer rates constructability. Defaults to scoring.Constructability.
	Scorer scoring.Scorer

	// Logger receives stage progress at debug level.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.TopN < 0 {
		o.TopN = 0
	}
	if o.MemoSize <= 0 {
		o.MemoSize = DefaultMemoSize
	}
	if len(o.Strategies) == 0 {
		o.Strategies = filling.All
	}
	if o.Rules == nil {
		o.Rules = rules.NewEngine()
	}
	if o.Constraints == nil {
		o.Constraints = constraints.NewRegistry()
	}
	if o.Scorer == nil {
		o.Scorer = scoring.Constructability{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Input and Result
// =============================================================================

// Input is everything the pipeline needs to design one beam.
type Input struct {
	Group       *model.BeamGroup
	Spans       []model.SpanResult
	Settings    config.Settings
	Constraints model.ProjectConstraints

	// External, when set, dominates the candidate search: forced values
	// replace the alternatives a stage would otherwise open up.
	External *model.ExternalConstraint
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Proposals are the ranked solutions, best first.
	Proposals []*model.Solution

	// Stats contains timing and candidate counts.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Stages   []StageStats
	Duration time.Duration

	// Scored is the number of candidates that reached scoring.
	Scored int

	// Rejected counts dropped candidates by the stage or check that
	// invalidated them.
	Rejected map[string]int

	// EmptyAt names the stage after which no candidate survived, if any.
	EmptyAt string
}

// StageStats records one stage execution.
type StageStats struct {
	Name     string
	In       int
	Out      int
	Valid    int
	Duration time.Duration
}
