// Package scoring turns assembled solutions into comparable numbers.
//
// A solution's final score combines a weight score, normalised across every
// candidate of the same beam so the lightest scores 100 and the heaviest 0,
// with a constructability score from a [Scorer]. Both are clamped to
// [0, 100] before the shares are applied; penalties and the preferred
// diameter bonus are added afterwards and are not clamped.
package scoring

import (
	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/model"
)

// MinWeightRange is the spread of candidate weights (kg) below which all
// candidates are treated as equally heavy.
const MinWeightRange = 0.001

// Scorer rates how practical a solution is to build, from 0 to 100.
type Scorer interface {
	Score(sol *model.Solution, g *model.BeamGroup, s *config.Settings) float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(sol *model.Solution, g *model.BeamGroup, s *config.Settings) float64

// Score implements Scorer.
func (f ScorerFunc) Score(sol *model.Solution, g *model.BeamGroup, s *config.Settings) float64 {
	return f(sol, g, s)
}

// Deductions of the Constructability scorer.
const (
	ExtraLayerDeduction    = 10.0
	MixedDiameterDeduction = 5.0
	ExtraLegDeduction      = 3.0
	OddLayerDeduction      = 2.0
	WasteBarDeduction      = 1.0
)

// MaxScore is the upper bound of every component score.
const MaxScore = 100.0

const baseLegCount = 2

// Constructability is the default Scorer. It starts from 100 and deducts for
// stacked layers, mixed diameters, extra stirrup legs, odd layers and bars
// added only to satisfy layer minimums.
type Constructability struct{}

// Score implements Scorer.
func (Constructability) Score(sol *model.Solution, _ *model.BeamGroup, _ *config.Settings) float64 {
	if sol == nil {
		return 0
	}
	score := MaxScore
	if n := sol.MaxLayerCount(); n > 1 {
		score -= ExtraLayerDeduction * float64(n-1)
	}
	if sol.AddOnDiameter != 0 && sol.AddOnDiameter != sol.BackboneDiameter {
		score -= MixedDiameterDeduction
	}
	if sol.StirrupLegs > baseLegCount {
		score -= ExtraLegDeduction * float64(sol.StirrupLegs-baseLegCount)
	}
	for _, sec := range sol.Sections {
		for _, n := range sec.Layers {
			if n%2 == 1 {
				score -= OddLayerDeduction
			}
		}
		score -= WasteBarDeduction * float64(sec.WasteBars)
	}
	return Clamp(score)
}

// Clamp limits v to [0, 100].
func Clamp(v float64) float64 {
	return min(max(v, 0), MaxScore)
}

// NormalizeWeights maps candidate weights to weight scores: the lightest
// gets 100, the heaviest 0, linearly in between. When the weights spread by
// less than MinWeightRange every candidate gets 100.
func NormalizeWeights(weights []float64) []float64 {
	if len(weights) == 0 {
		return nil
	}
	lo, hi := weights[0], weights[0]
	for _, w := range weights[1:] {
		lo = min(lo, w)
		hi = max(hi, w)
	}
	scores := make([]float64, len(weights))
	span := hi - lo
	for i, w := range weights {
		if span < MinWeightRange {
			scores[i] = MaxScore
			continue
		}
		scores[i] = Clamp((hi - w) / span * 100)
	}
	return scores
}

// Final combines the component scores with the configured shares.
func Final(weightScore, constructability, penalty, bonus float64, s config.ScoringSettings) float64 {
	return s.WeightShare*Clamp(weightScore) +
		s.ConstructabilityShare*Clamp(constructability) -
		penalty + bonus
}
