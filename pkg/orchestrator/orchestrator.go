// Package orchestrator designs the beams of a floor one after another.
//
// The beams are solved strictly in the order given. After a beam is solved
// its best proposal is folded into the floor's [model.ProjectConstraints]:
// the design is recorded as a neighbor and, if the floor has no preferred
// main diameter yet, its backbone diameter becomes the preference. Later
// beams read that state, so the loop cannot run concurrently.
//
// The state is threaded explicitly. [Orchestrator.Solve] takes the current
// constraints and returns the updated ones; nothing is mutated in place.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/observability"
	"github.com/matzehuels/rebarplan/pkg/pipeline"
)

// Beam is one beam group with its analysis results.
type Beam struct {
	Group *model.BeamGroup
	Spans []model.SpanResult
}

// Name returns the beam group name.
func (b Beam) Name() string {
	if b.Group == nil {
		return ""
	}
	return b.Group.Name
}

// BeamFailure names a beam for which no proposal survived.
type BeamFailure struct {
	Beam    string `json:"beam"`
	EmptyAt string `json:"empty_at"`
	Reason  string `json:"reason"`
}

// FloorResult is the outcome of one floor run. Solutions holds the accepted
// design of every solved beam; beams without proposals have no entry there
// and are listed in Unsolved instead.
type FloorResult struct {
	RunID       string                       `json:"run_id"`
	Order       []string                     `json:"order"`
	Solutions   map[string]*model.Solution   `json:"solutions"`
	Proposals   map[string][]*model.Solution `json:"proposals"`
	Unsolved    []BeamFailure                `json:"unsolved,omitempty"`
	Constraints model.ProjectConstraints     `json:"constraints"`
	Duration    time.Duration                `json:"duration"`
}

// Orchestrator drives a pipeline across the beams of a floor.
type Orchestrator struct {
	Pipeline *pipeline.Pipeline
	Logger   *log.Logger
}

// New returns an orchestrator over p. A nil logger discards output.
func New(p *pipeline.Pipeline, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Orchestrator{Pipeline: p, Logger: logger}
}

// SolveFloor designs beams in order. initial seeds the floor state and is
// not modified; nil starts from empty constraints carrying the configured
// diameter match bonus.
//
// Invalid beam input and cancellation abort the run. A beam without
// proposals does not.
func (o *Orchestrator) SolveFloor(ctx context.Context, beams []Beam, s config.Settings, initial *model.ProjectConstraints) (*FloorResult, error) {
	if err := checkNames(beams); err != nil {
		return nil, err
	}
	start := time.Now()

	state := model.NewProjectConstraints(s.Scoring.DiameterMatchBonus)
	if initial != nil {
		state = initial.Clone()
	}

	res := &FloorResult{
		RunID:     uuid.NewString(),
		Solutions: make(map[string]*model.Solution, len(beams)),
		Proposals: make(map[string][]*model.Solution, len(beams)),
	}
	logger := o.Logger.With("run", res.RunID)
	logger.Debug("solving floor", "beams", len(beams))

	for _, b := range beams {
		step, err := o.solve(ctx, s, state, b)
		if err != nil {
			return nil, err
		}
		name := b.Name()
		res.Order = append(res.Order, name)
		res.Proposals[name] = step.proposals

		if len(step.proposals) == 0 {
			f := failure(name, step.stats)
			res.Unsolved = append(res.Unsolved, f)
			logger.Warn("beam has no proposals", "beam", name, "reason", f.Reason)
			continue
		}
		best := step.proposals[0]
		res.Solutions[name] = best
		state = step.state
		logger.Info("beam solved",
			"beam", name,
			"option", best.OptionName,
			"score", fmt.Sprintf("%.1f", best.TotalScore),
			"proposals", len(step.proposals))
	}

	res.Constraints = state
	res.Duration = time.Since(start)
	return res, nil
}

// Solve designs one beam against state and returns its proposals with the
// state the next beam should see. Without proposals the state is returned
// unchanged.
func (o *Orchestrator) Solve(ctx context.Context, s config.Settings, state model.ProjectConstraints, b Beam) ([]*model.Solution, model.ProjectConstraints, error) {
	step, err := o.solve(ctx, s, state, b)
	if err != nil {
		return nil, state, err
	}
	return step.proposals, step.state, nil
}

// RecalculateSingle designs one beam against state without producing a new
// state, for re-solving a beam after its lock changed.
func (o *Orchestrator) RecalculateSingle(ctx context.Context, s config.Settings, state model.ProjectConstraints, b Beam) ([]*model.Solution, error) {
	res, err := o.run(ctx, s, state, b)
	if err != nil {
		return nil, err
	}
	return res.Proposals, nil
}

// Recalculate re-solves the beam named name in the state the floor reaches
// just before it: the beams ahead of it are solved in order, the beam itself
// goes through [Orchestrator.RecalculateSingle] and nothing after it runs.
func (o *Orchestrator) Recalculate(ctx context.Context, beams []Beam, name string, s config.Settings, initial *model.ProjectConstraints) ([]*model.Solution, error) {
	idx := slices.IndexFunc(beams, func(b Beam) bool { return b.Name() == name })
	if idx < 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "beam %q is not part of the floor", name)
	}
	if err := checkNames(beams); err != nil {
		return nil, err
	}

	state := model.NewProjectConstraints(s.Scoring.DiameterMatchBonus)
	if initial != nil {
		state = initial.Clone()
	}
	for _, b := range beams[:idx] {
		var err error
		if _, state, err = o.Solve(ctx, s, state, b); err != nil {
			return nil, err
		}
	}
	return o.RecalculateSingle(ctx, s, state, beams[idx])
}

// Accept folds sol, the accepted design of group, into state.
func Accept(state model.ProjectConstraints, group string, sol *model.Solution) model.ProjectConstraints {
	next := state.WithNeighbor(group, model.NeighborDesign{
		Diameter:        sol.BackboneDiameter,
		TopCount:        sol.BackboneCountTop,
		StirrupDiameter: sol.StirrupDiameter,
	})
	if next.PreferredMainDiameter == 0 {
		next.PreferredMainDiameter = sol.BackboneDiameter
	}
	return next
}

// Lock returns the external constraint a locked beam is designed under, or
// nil when the beam is free.
func Lock(g *model.BeamGroup) *model.ExternalConstraint {
	if g == nil || !g.IsLocked || g.SelectedDesign == nil {
		return nil
	}
	ext := model.LockFromSolution(g.SelectedDesign)
	ext.ForcedStirrupLegs = g.SelectedDesign.StirrupLegs
	return ext
}

// =============================================================================
// Internals
// =============================================================================

type step struct {
	proposals []*model.Solution
	state     model.ProjectConstraints
	stats     pipeline.Stats
}

func (o *Orchestrator) solve(ctx context.Context, s config.Settings, state model.ProjectConstraints, b Beam) (step, error) {
	res, err := o.run(ctx, s, state, b)
	if err != nil {
		return step{}, err
	}
	out := step{proposals: res.Proposals, state: state, stats: res.Stats}
	if len(res.Proposals) > 0 {
		out.state = Accept(state, b.Name(), res.Proposals[0])
	}
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, s config.Settings, state model.ProjectConstraints, b Beam) (*pipeline.Result, error) {
	start := time.Now()
	res, err := o.Pipeline.Run(ctx, pipeline.Input{
		Group:       b.Group,
		Spans:       b.Spans,
		Settings:    s,
		Constraints: state,
		External:    Lock(b.Group),
	})
	if err != nil {
		return nil, fmt.Errorf("beam %s: %w", b.Name(), err)
	}
	observability.Pipeline().OnBeamSolved(ctx, b.Name(), len(res.Proposals), time.Since(start))
	return res, nil
}

func failure(name string, st pipeline.Stats) BeamFailure {
	f := BeamFailure{Beam: name, EmptyAt: st.EmptyAt}
	switch {
	case st.EmptyAt != "":
		f.Reason = fmt.Sprintf("no candidate survived the %s stage", st.EmptyAt)
	default:
		f.EmptyAt = pipeline.StageRules
		f.Reason = "every candidate failed a critical rule"
	}
	return f
}

// checkNames rejects unnamed and duplicate beams; the neighbor record is
// keyed by name.
func checkNames(beams []Beam) error {
	seen := make(map[string]bool, len(beams))
	for i, b := range beams {
		if b.Group == nil {
			return errors.New(errors.ErrCodeInvalidBeam, "beam %d is nil", i)
		}
		if seen[b.Name()] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate beam name %q", b.Name())
		}
		seen[b.Name()] = true
	}
	return nil
}
