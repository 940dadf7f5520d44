package pipeline

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/rebarplan/pkg/constraints"
	"github.com/matzehuels/rebarplan/pkg/model"
)

// SpacingStep is the increment stirrup spacings are rounded down to (mm).
const SpacingStep = 25.0

// =============================================================================
// Stirrup
// =============================================================================

// StirrupStage picks one stirrup diameter per beam and lays out support and
// mid-span zones for every span.
type StirrupStage struct{}

func (*StirrupStage) Name() string { return StageStirrup }
func (*StirrupStage) Order() int   { return OrderStirrup }

func (*StirrupStage) Process(_ context.Context, in []*model.DesignContext) ([]*model.DesignContext, error) {
	for _, c := range in {
		ds, ok := chooseStirrup(c)
		if !ok {
			c.Record(model.CriticalResult(StageStirrup,
				fmt.Sprintf("no stirrup diameter keeps spacing above %.0f mm with %d legs",
					c.Settings.Stirrup.MinSpacing, c.Draft.StirrupLegs)))
			c.Invalidate(StageStirrup)
			continue
		}
		c.Draft.StirrupDiameter = ds
		c.Draft.StirrupZones = stirrupZones(c, ds)
	}
	return in, nil
}

// chooseStirrup returns the smallest stirrup diameter whose required spacing
// stays at or above the minimum in every span. The floor's preferred
// stirrup diameter is tried first.
func chooseStirrup(c *model.DesignContext) (int, bool) {
	list := slices.Clone(c.Settings.Stirrup.Diameters)
	slices.Sort(list)
	if p := c.Constraints.PreferredStirrupDiameter; p > 0 {
		if i := slices.Index(list, p); i > 0 {
			list = append([]int{p}, slices.Delete(list, i, i+1)...)
		}
	}
	for _, ds := range list {
		if stirrupFits(c, ds) {
			return ds, true
		}
	}
	return 0, false
}

func stirrupFits(c *model.DesignContext, ds int) bool {
	for _, span := range c.Spans {
		for _, shear := range span.ShearArea {
			if requiredSpacing(shear, ds, c.Draft.StirrupLegs) < c.Settings.Stirrup.MinSpacing {
				return false
			}
		}
	}
	return true
}

// requiredSpacing is the largest spacing (mm) at which stirrups of diameter
// ds with the given legs provide shear area (cm²/m).
func requiredSpacing(shear float64, ds, legs int) float64 {
	if shear <= 0 {
		return math.Inf(1)
	}
	return model.BarsArea(ds, legs) / shear * 1000
}

func zoneSpacing(c *model.DesignContext, shear float64, ds int) float64 {
	st := c.Settings.Stirrup
	s := min(requiredSpacing(shear, ds, c.Draft.StirrupLegs), st.MaxSpacing)
	return max(math.Floor(s/SpacingStep)*SpacingStep, st.MinSpacing)
}

func stirrupZones(c *model.DesignContext, ds int) []model.StirrupZone {
	ratio := c.Settings.Stirrup.SupportZoneRatio
	var zones []model.StirrupZone
	for i, span := range c.Spans {
		l := c.Group.Spans[i].Length
		bounds := [3][2]float64{{0, ratio * l}, {ratio * l, (1 - ratio) * l}, {(1 - ratio) * l, l}}
		for _, pos := range model.Positions {
			typ := model.ZoneSupport
			if pos == model.Mid {
				typ = model.ZoneMid
			}
			zones = append(zones, model.StirrupZone{
				SpanIndex: i,
				Start:     bounds[pos][0],
				End:       bounds[pos][1],
				Spacing:   zoneSpacing(c, span.ShearArea[pos], ds),
				Diameter:  ds,
				Legs:      c.Draft.StirrupLegs,
				Type:      typ,
			})
		}
	}
	return zones
}

// =============================================================================
// Assembly
// =============================================================================

// AssemblyStage builds the solution of every candidate and runs the
// section-pair and solution checks on it.
type AssemblyStage struct {
	Constraints *constraints.Registry
}

func (*AssemblyStage) Name() string { return StageAssembly }
func (*AssemblyStage) Order() int   { return OrderAssembly }

func (s *AssemblyStage) Process(_ context.Context, in []*model.DesignContext) ([]*model.DesignContext, error) {
	for _, c := range in {
		sol, err := assemble(c)
		if err != nil {
			c.Record(model.CriticalResult(StageAssembly, err.Error()))
			c.Invalidate(StageAssembly)
			continue
		}
		c.Solution = sol

		for i := 0; i+1 < len(c.Spans); i++ {
			results := s.Constraints.CheckSectionPair(constraints.SectionPairInput{
				SupportIndex: i,
				Left:         topArrangements(sol, i, model.Right),
				Right:        topArrangements(sol, i+1, model.Left),
				Group:        c.Group,
				Settings:     c.Settings,
			})
			constraints.Apply(c, StageAssembly, results)
		}
		if !c.IsValid {
			continue
		}
		constraints.Apply(c, StageAssembly, s.Constraints.CheckSolution(constraints.SolutionInput{
			Solution: sol,
			Group:    c.Group,
			Settings: c.Settings,
		}))
	}
	return in, nil
}

func topArrangements(sol *model.Solution, span int, pos model.Position) []model.SectionDesign {
	sec, ok := sol.Section(span, pos, model.Top)
	if !ok || len(sec.Layers) == 0 {
		return nil
	}
	return []model.SectionDesign{sec}
}

// assemble turns the draft of c into a solution with bar profiles and steel
// weight. A section providing less than its required area leaves the
// solution invalid with the sections named in its message.
func assemble(c *model.DesignContext) (*model.Solution, error) {
	d := c.Draft
	geom := model.ProfileGeometry{
		Width:      c.Group.Width,
		Height:     c.Group.Height,
		Cover:      c.Cover(),
		StirrupDia: d.StirrupDiameter,
		Legs:       d.StirrupLegs,
	}

	sections := make([]model.SectionDesign, len(d.Sections))
	var short []string
	for i, sec := range d.Sections {
		sec.Layers = slices.Clone(sec.Layers)
		p, err := model.BuildRebarProfile(sec.Face, sec.Layers, sec.BackboneCount, sec.Diameter, sec.AddOnDiameter, geom)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sec.Label(), err)
		}
		sec.Profile = p
		sec.ProvidedArea = sec.ComputeProvidedArea()
		if sec.ProvidedArea < sec.RequiredArea-model.AreaTolerance {
			short = append(short, sec.Label())
		}
		sections[i] = sec
	}

	length := c.Group.TotalLength()
	sol := &model.Solution{
		OptionName:       model.OptionLabel(d.BackboneDiameter, d.TopCount, d.BotCount, d.AddOnDiameter, d.StirrupLegs),
		Strategy:         d.Strategy,
		BackboneDiameter: d.BackboneDiameter,
		BackboneCountTop: d.TopCount,
		BackboneCountBot: d.BotCount,
		AddOnDiameter:    d.AddOnDiameter,
		StirrupDiameter:  d.StirrupDiameter,
		StirrupLegs:      d.StirrupLegs,
		Sections:         sections,
		StirrupZones:     slices.Clone(d.StirrupZones),
		TotalLength:      length,
		TotalSteelWeight: steelWeight(c, sections),
		IsValid:          len(short) == 0,
	}
	if length >= constraints.MinLengthForWeight {
		sol.WeightPerMeter = sol.TotalSteelWeight / length
	}
	if !sol.IsValid {
		sol.ValidationMessage = "insufficient steel at " + strings.Join(short, ", ")
	}
	return sol, nil
}

// steelWeight sums the continuous backbone over the whole beam, add-on bars
// over a third of their span and every stirrup (kg).
func steelWeight(c *model.DesignContext, sections []model.SectionDesign) float64 {
	d := c.Draft
	total := float64(d.TopCount+d.BotCount) * model.BarMass(d.BackboneDiameter) * c.Group.TotalLength()

	for _, sec := range sections {
		addOn := sec.AddOnDiameter
		if addOn == 0 {
			addOn = sec.Diameter
		}
		l := c.Group.Spans[sec.SpanIndex].Length / 3
		total += float64(sec.AddOnCount()) * model.BarMass(addOn) * l
	}

	stirrup := model.StirrupLength(c.Group.Width, c.Group.Height, c.Cover(), d.StirrupLegs) * model.BarMass(d.StirrupDiameter)
	for _, z := range d.StirrupZones {
		total += float64(z.Count()) * stirrup
	}
	return total
}
