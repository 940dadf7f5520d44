package constraints

import (
	"fmt"
	"math"

	"github.com/matzehuels/rebarplan/pkg/model"
)

// Built-in constraint names.
const (
	NameMinBars            = "MinBars"
	NameMaxLayers          = "MaxLayers"
	NameSpacing            = "Spacing"
	NameDiameterUniformity = "DiameterUniformity"
	NameCountSymmetry      = "CountSymmetry"
	NameSteelDeficit       = "SteelDeficit"
	NameMaxWeight          = "MaxWeight"
	NameSupportContinuity  = "SupportContinuity"
)

// Penalties charged by the built-in Warning constraints.
const (
	// WideSpacingPenalty is charged when bars sit further apart than the
	// crack-control limit.
	WideSpacingPenalty = 3.0

	// CountSymmetryFactor is charged per bar of top/bottom count difference.
	CountSymmetryFactor = 2.0

	// OverweightPenalty is charged per kg/m above the weight ceiling.
	OverweightPenalty = 0.5

	// MinLengthForWeight is the shortest length (m) weight per metre is
	// computed for. Shorter solutions pass the weight check.
	MinLengthForWeight = 0.001
)

// Builtin returns the default constraint set, all enabled.
func Builtin() []Constraint {
	return []Constraint{
		{
			Name: NameMinBars, Description: "every layer holds at least the minimum bar count",
			Category: Arrangement, Priority: 10, Arrangement: checkMinBars,
		},
		{
			Name: NameMaxLayers, Description: "arrangement stays within the allowed layer count",
			Category: Arrangement, Priority: 20, Arrangement: checkMaxLayers,
		},
		{
			Name: NameSpacing, Description: "clear bar spacing between the minimum and the crack-control maximum",
			Category: Arrangement, Priority: 30, Arrangement: checkSpacing,
		},
		{
			Name: NameDiameterUniformity, Description: "backbone uses a single diameter",
			Category: Backbone, Priority: 10, Backbone: checkDiameterUniformity,
		},
		{
			Name: NameCountSymmetry, Description: "top and bottom backbone counts match",
			Category: Backbone, Priority: 20, Backbone: checkCountSymmetry,
		},
		{
			Name: NameSteelDeficit, Description: "assembled solution provides the required steel",
			Category: Solution, Priority: 10, Solution: checkSteelDeficit,
		},
		{
			Name: NameMaxWeight, Description: "steel weight per metre stays below the ceiling",
			Category: Solution, Priority: 20, Solution: checkMaxWeight,
		},
		{
			Name: NameSupportContinuity, Description: "both sides of a support have a top arrangement",
			Category: SectionPair, Priority: 10, SectionPair: checkSupportContinuity,
		},
	}
}

// =============================================================================
// Arrangement
// =============================================================================

func checkMinBars(in ArrangementInput) (model.ValidationResult, error) {
	minBars := in.Settings.Beam.MinBarsPerLayer
	for i, n := range in.Section.Layers {
		if n > 0 && n < minBars {
			res := model.CriticalResult(NameMinBars,
				fmt.Sprintf("%s: layer %d holds %d bars, minimum is %d", in.Section.Label(), i+1, n, minBars))
			res.SuggestedFix = "merge the layer into the one below or use a smaller diameter"
			return res, nil
		}
	}
	return model.PassResult(NameMinBars, "layers meet the minimum"), nil
}

func checkMaxLayers(in ArrangementInput) (model.ValidationResult, error) {
	limit := in.Settings.Beam.MaxLayers
	if n := len(in.Section.Layers); n > limit {
		res := model.CriticalResult(NameMaxLayers,
			fmt.Sprintf("%s: %d layers, at most %d allowed", in.Section.Label(), n, limit))
		res.SuggestedFix = "use a larger diameter or a wider section"
		return res, nil
	}
	return model.PassResult(NameMaxLayers, "layer count within limit"), nil
}

func checkSpacing(in ArrangementInput) (model.ValidationResult, error) {
	if in.Group == nil {
		return model.ValidationResult{}, fmt.Errorf("no beam group")
	}
	if len(in.Section.Layers) == 0 {
		return model.PassResult(NameSpacing, "no bars"), nil
	}
	d := max(in.Section.Diameter, in.Section.AddOnDiameter)
	cover := in.Group.EffectiveCover(in.Settings.Beam.Cover)
	s, ok := model.ClearSpacing(in.Group.Width, cover, in.StirrupDiameter, d, in.Section.Layers[0])
	if !ok {
		return model.PassResult(NameSpacing, "single bar"), nil
	}
	b := in.Settings.Beam
	switch {
	case s < b.MinClearSpacing:
		res := model.CriticalResult(NameSpacing,
			fmt.Sprintf("%s: clear spacing %.0f mm below minimum %.0f mm", in.Section.Label(), s, b.MinClearSpacing))
		res.SuggestedFix = "use fewer, larger bars or add a layer"
		return res, nil
	case b.MaxClearSpacing > 0 && s > b.MaxClearSpacing:
		res := model.WarningResult(NameSpacing,
			fmt.Sprintf("%s: clear spacing %.0f mm above %.0f mm may crack", in.Section.Label(), s, b.MaxClearSpacing),
			WideSpacingPenalty)
		res.SuggestedFix = "use more, smaller bars"
		return res, nil
	}
	return model.PassResult(NameSpacing, fmt.Sprintf("clear spacing %.0f mm", s)), nil
}

// =============================================================================
// Backbone
// =============================================================================

func checkDiameterUniformity(in BackboneInput) (model.ValidationResult, error) {
	return model.PassResult(NameDiameterUniformity, fmt.Sprintf("backbone uses Ø%d throughout", in.Diameter)), nil
}

func checkCountSymmetry(in BackboneInput) (model.ValidationResult, error) {
	diff := in.TopCount - in.BotCount
	if diff == 0 {
		return model.PassResult(NameCountSymmetry, "top and bottom counts match"), nil
	}
	if diff < 0 {
		diff = -diff
	}
	res := model.WarningResult(NameCountSymmetry,
		fmt.Sprintf("top %d and bottom %d backbone bars differ", in.TopCount, in.BotCount),
		CountSymmetryFactor*float64(diff))
	res.SuggestedFix = "use the same backbone count on both faces"
	return res, nil
}

// =============================================================================
// Solution
// =============================================================================

func checkSteelDeficit(in SolutionInput) (model.ValidationResult, error) {
	if in.Solution == nil {
		return model.ValidationResult{}, fmt.Errorf("no solution")
	}
	if !in.Solution.IsValid {
		msg := in.Solution.ValidationMessage
		if msg == "" {
			msg = "insufficient steel"
		}
		res := model.CriticalResult(NameSteelDeficit, msg)
		res.SuggestedFix = "increase the bar count or diameter"
		return res, nil
	}
	return model.PassResult(NameSteelDeficit, "required steel provided"), nil
}

func checkMaxWeight(in SolutionInput) (model.ValidationResult, error) {
	sol := in.Solution
	if sol == nil {
		return model.ValidationResult{}, fmt.Errorf("no solution")
	}
	limit := in.Settings.Beam.MaxSteelWeightPerMeter
	if limit <= 0 || sol.TotalLength < MinLengthForWeight {
		return model.PassResult(NameMaxWeight, "weight not checked"), nil
	}
	perMeter := sol.TotalSteelWeight / sol.TotalLength
	if perMeter > limit {
		res := model.WarningResult(NameMaxWeight,
			fmt.Sprintf("%.1f kg/m exceeds %.1f kg/m", perMeter, limit),
			math.Round((perMeter-limit)*OverweightPenalty*100)/100)
		res.SuggestedFix = "check whether a deeper section is possible"
		return res, nil
	}
	return model.PassResult(NameMaxWeight, fmt.Sprintf("%.1f kg/m", perMeter)), nil
}

// =============================================================================
// SectionPair
// =============================================================================

func checkSupportContinuity(in SectionPairInput) (model.ValidationResult, error) {
	if len(in.Left) == 0 || len(in.Right) == 0 {
		res := model.CriticalResult(NameSupportContinuity,
			fmt.Sprintf("support %d has no valid top arrangement on both sides", in.SupportIndex+1))
		res.SuggestedFix = "relax the arrangement limits near the support"
		return res, nil
	}
	return model.PassResult(NameSupportContinuity, fmt.Sprintf("support %d continuous", in.SupportIndex+1)), nil
}
