package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/filling"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/observability"
	"github.com/matzehuels/rebarplan/pkg/scoring"
)

// Stage is one step of the pipeline. Process receives every live candidate
// and returns the candidates for the next stage: clones for each alternative
// it opens up, the input itself, or candidates it marked invalid. It must not
// modify a candidate it also returns a clone of.
type Stage interface {
	Name() string
	Order() int
	Process(ctx context.Context, in []*model.DesignContext) ([]*model.DesignContext, error)
}

// Pipeline designs single beams. It holds no per-run state, so one Pipeline
// may serve concurrent runs for different beams.
type Pipeline struct {
	opts   Options
	stages []Stage
	Logger *log.Logger
}

// New creates a pipeline with the built-in stages.
func New(opts Options) (*Pipeline, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	strategies := opts.Strategies
	if !opts.DisableMemo {
		memoized, err := filling.MemoizeAll(strategies, opts.MemoSize)
		if err != nil {
			return nil, fmt.Errorf("filling memo: %w", err)
		}
		strategies = memoized
	}

	p := &Pipeline{opts: opts, Logger: opts.Logger}
	p.AddStage(&DiameterStage{})
	p.AddStage(&BackboneStage{Constraints: opts.Constraints})
	p.AddStage(&FillingStage{Strategies: strategies, Constraints: opts.Constraints})
	p.AddStage(&StirrupStage{})
	p.AddStage(&AssemblyStage{Constraints: opts.Constraints})
	return p, nil
}

// AddStage inserts s by its order. Stages with equal order keep insertion
// order.
func (p *Pipeline) AddStage(s Stage) {
	p.stages = append(p.stages, s)
	slices.SortStableFunc(p.stages, func(a, b Stage) int { return cmp.Compare(a.Order(), b.Order()) })
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return slices.Clone(p.stages)
}

// Options returns the effective options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Execute runs the pipeline and returns the ranked proposals. A beam for
// which no candidate survives yields an empty slice and no error; errors are
// reserved for invalid input and cancellation.
func (p *Pipeline) Execute(ctx context.Context, in Input) ([]*model.Solution, error) {
	res, err := p.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	return res.Proposals, nil
}

// Run is Execute with statistics.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	start := time.Now()
	name := in.Group.Name
	logger := p.Logger.With("beam", name)

	settings := in.Settings
	pc := in.Constraints.Clone()
	seed := model.NewSeed(in.Group, in.Spans, &settings, &pc, in.External)

	result := &Result{Stats: Stats{Rejected: make(map[string]int)}}
	live := []*model.DesignContext{seed}

	for _, st := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, err, "design of %s canceled", name)
		}

		stageStart := time.Now()
		observability.Pipeline().OnStageStart(ctx, name, st.Name(), len(live))
		out, err := st.Process(ctx, live)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(errors.ErrCodeCanceled, err, "design of %s canceled", name)
			}
			return nil, fmt.Errorf("%s stage: %w", st.Name(), err)
		}
		valid := p.keepValid(out, result.Stats.Rejected)
		elapsed := time.Since(stageStart)
		observability.Pipeline().OnStageComplete(ctx, name, st.Name(), len(live), len(valid), elapsed)

		result.Stats.Stages = append(result.Stats.Stages, StageStats{
			Name: st.Name(), In: len(live), Out: len(out), Valid: len(valid), Duration: elapsed,
		})
		logger.Debug("stage complete",
			"stage", st.Name(),
			"in", len(live),
			"out", len(out),
			"valid", len(valid),
			"duration", elapsed)

		if len(valid) == 0 {
			result.Stats.EmptyAt = st.Name()
			result.Stats.Duration = time.Since(start)
			logger.Debug("no candidates survive", "stage", st.Name())
			return result, nil
		}
		live = valid
	}

	// Rule pass; a critical rule drops the candidate.
	var scored []*model.DesignContext
	for _, c := range live {
		p.opts.Rules.ValidateAll(c)
		if !c.IsValid || c.HasCriticalError() || c.Solution == nil {
			result.Stats.Rejected[failKey(c, StageRules)]++
			continue
		}
		scored = append(scored, c)
	}
	result.Stats.Scored = len(scored)

	topN := p.opts.TopN
	if topN == 0 {
		topN = settings.Scoring.TopN
	}
	result.Proposals = rank(p.score(scored), topN)
	result.Stats.Duration = time.Since(start)

	logger.Debug("ranked proposals",
		"scored", len(scored),
		"proposals", len(result.Proposals),
		"duration", result.Stats.Duration)
	return result, nil
}

// keepValid drops invalid candidates, counting them by failure point.
func (p *Pipeline) keepValid(in []*model.DesignContext, rejected map[string]int) []*model.DesignContext {
	out := make([]*model.DesignContext, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		if !c.IsValid {
			rejected[failKey(c, "unknown")]++
			continue
		}
		out = append(out, c)
	}
	return out
}

func failKey(c *model.DesignContext, fallback string) string {
	if c.FailedAt != "" {
		return c.FailedAt
	}
	return fallback
}

// score fills the score fields of every candidate's solution and returns the
// solutions.
func (p *Pipeline) score(cands []*model.DesignContext) []*model.Solution {
	weights := make([]float64, len(cands))
	for i, c := range cands {
		weights[i] = c.Solution.TotalSteelWeight
	}
	weightScores := scoring.NormalizeWeights(weights)

	out := make([]*model.Solution, len(cands))
	for i, c := range cands {
		sol := c.Solution
		sol.WeightScore = weightScores[i]
		sol.ConstructabilityScore = scoring.Clamp(p.opts.Scorer.Score(sol, c.Group, c.Settings))
		sol.TotalScore = scoring.Final(sol.WeightScore, sol.ConstructabilityScore,
			c.TotalPenalty, c.PreferredDiameterBonus, c.Settings.Scoring)
		out[i] = sol
	}
	return out
}

func validateInput(in Input) error {
	if err := in.Group.Validate(); err != nil {
		return err
	}
	if err := model.ValidateSpans(in.Group, in.Spans); err != nil {
		return err
	}
	if err := in.Settings.Validate(); err != nil {
		return err
	}
	return nil
}
