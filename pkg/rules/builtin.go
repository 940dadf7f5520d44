package rules

import (
	"fmt"

	"github.com/matzehuels/rebarplan/pkg/model"
)

// Built-in rule names.
const (
	NamePyramid           = "Pyramid"
	NameSymmetry          = "Symmetry"
	NamePreferredDiameter = "PreferredDiameter"
)

// SymmetryPenalty is charged for every odd backbone count when symmetric
// arrangements are preferred.
const SymmetryPenalty = 2.0

// Builtin returns the default rule set.
func Builtin() []Rule {
	return []Rule{
		{Name: NamePyramid, Priority: 10, Check: checkPyramid},
		{Name: NameSymmetry, Priority: 20, Check: checkSymmetry},
		{Name: NamePreferredDiameter, Priority: 30, Check: checkPreferredDiameter},
	}
}

// checkPyramid fails when a second layer holds more bars than the first, on
// any face of any section.
func checkPyramid(c *model.DesignContext) model.ValidationResult {
	for _, sec := range sections(c) {
		if len(sec.Layers) > 1 && sec.Layers[1] > sec.Layers[0] {
			return model.CriticalResult(NamePyramid,
				fmt.Sprintf("%s: layer 2 holds %d bars over %d", sec.Label(), sec.Layers[1], sec.Layers[0]))
		}
	}
	return model.PassResult(NamePyramid, "layers form a pyramid")
}

func checkSymmetry(c *model.DesignContext) model.ValidationResult {
	if c.Settings == nil || !c.Settings.Beam.PreferSymmetric {
		return model.PassResult(NameSymmetry, "symmetry not required")
	}
	top, bot := backbone(c)
	odd := 0
	if top%2 == 1 {
		odd++
	}
	if bot%2 == 1 {
		odd++
	}
	if odd == 0 {
		return model.PassResult(NameSymmetry, "backbone counts are even")
	}
	return model.WarningResult(NameSymmetry,
		fmt.Sprintf("odd backbone count (top %d, bottom %d)", top, bot), SymmetryPenalty*float64(odd))
}

// checkPreferredDiameter only informs; the bonus for matching is applied when
// the candidate is created.
func checkPreferredDiameter(c *model.DesignContext) model.ValidationResult {
	d := c.Draft.BackboneDiameter
	if c.Solution != nil {
		d = c.Solution.BackboneDiameter
	}
	if c.Constraints == nil || c.Constraints.PreferredMainDiameter == 0 {
		return model.PassResult(NamePreferredDiameter, "no preferred diameter set")
	}
	pref := c.Constraints.PreferredMainDiameter
	switch {
	case d == pref:
		return model.InfoResult(NamePreferredDiameter, fmt.Sprintf("matches preferred diameter Ø%d", pref))
	case c.Constraints.MatchesNeighbor(d):
		return model.InfoResult(NamePreferredDiameter,
			fmt.Sprintf("Ø%d matches a neighboring beam, preferred is Ø%d", d, pref))
	default:
		return model.InfoResult(NamePreferredDiameter, fmt.Sprintf("Ø%d differs from preferred Ø%d", d, pref))
	}
}

func sections(c *model.DesignContext) []model.SectionDesign {
	if c.Solution != nil {
		return c.Solution.Sections
	}
	return c.Draft.Sections
}

func backbone(c *model.DesignContext) (top, bot int) {
	if c.Solution != nil {
		return c.Solution.BackboneCountTop, c.Solution.BackboneCountBot
	}
	return c.Draft.TopCount, c.Draft.BotCount
}
