package pipeline

import (
	"context"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rebarplan/pkg/constraints"
	"github.com/matzehuels/rebarplan/pkg/filling"
	"github.com/matzehuels/rebarplan/pkg/model"
)

// =============================================================================
// Diameter
// =============================================================================

// DiameterStage opens one candidate per usable backbone diameter.
type DiameterStage struct{}

func (*DiameterStage) Name() string { return StageDiameter }
func (*DiameterStage) Order() int   { return OrderDiameter }

func (*DiameterStage) Process(_ context.Context, in []*model.DesignContext) ([]*model.DesignContext, error) {
	var out []*model.DesignContext
	for _, c := range in {
		list := candidateDiameters(c)
		if len(list) == 0 {
			c.Record(model.CriticalResult(StageDiameter, "no allowed bar diameter"))
			c.Invalidate(StageDiameter)
			out = append(out, c)
			continue
		}
		for i, d := range list {
			out = append(out, withDiameter(c, d, d))
			if !c.Settings.Beam.PreferSingleDiameter && i > 0 {
				out = append(out, withDiameter(c, d, list[i-1]))
			}
		}
	}
	return out, nil
}

// candidateDiameters lists the backbone diameters of c in ascending order.
// A forced diameter replaces the list.
func candidateDiameters(c *model.DesignContext) []int {
	if c.External != nil && c.External.ForcedDiameter > 0 {
		return []int{c.External.ForcedDiameter}
	}
	var list []int
	for _, d := range c.Settings.Beam.Diameters {
		if c.Constraints.Allows(d) && !slices.Contains(list, d) {
			list = append(list, d)
		}
	}
	slices.Sort(list)
	return list
}

func withDiameter(c *model.DesignContext, d, addOn int) *model.DesignContext {
	v := c.Clone()
	v.Draft.BackboneDiameter = d
	v.Draft.AddOnDiameter = addOn
	v.PreferredDiameterBonus = diameterBonus(c.Constraints, d)
	return v
}

// diameterBonus rewards the floor's preferred diameter fully and a diameter
// used by an already designed neighbor by half.
func diameterBonus(pc *model.ProjectConstraints, d int) float64 {
	switch {
	case pc.PreferredMainDiameter == d:
		return pc.DiameterMatchBonus
	case pc.MatchesNeighbor(d):
		return pc.DiameterMatchBonus / 2
	}
	return 0
}

// =============================================================================
// Backbone
// =============================================================================

// BackboneStage fans every diameter out into top and bottom backbone counts
// and fixes the stirrup leg count.
type BackboneStage struct {
	Constraints *constraints.Registry
}

func (*BackboneStage) Name() string { return StageBackbone }
func (*BackboneStage) Order() int   { return OrderBackbone }

func (s *BackboneStage) Process(_ context.Context, in []*model.DesignContext) ([]*model.DesignContext, error) {
	var out []*model.DesignContext
	for _, c := range in {
		capacity := layerCapacity(c)
		if capacity < c.Settings.Beam.MinBackboneCount {
			c.Record(model.CriticalResult(StageBackbone,
				fmt.Sprintf("Ø%d: only %d bars fit in a layer", c.Draft.BackboneDiameter, capacity)))
			c.Invalidate(StageBackbone)
			out = append(out, c)
			continue
		}

		legs := legCount(c)
		tops := backboneCounts(c, model.Top, capacity, legs)
		bots := backboneCounts(c, model.Bot, capacity, legs)
		if len(tops) == 0 || len(bots) == 0 {
			c.Record(model.CriticalResult(StageBackbone,
				fmt.Sprintf("Ø%d: forced backbone exceeds layer capacity %d", c.Draft.BackboneDiameter, capacity)))
			c.Invalidate(StageBackbone)
			out = append(out, c)
			continue
		}

		for _, top := range tops {
			for _, bot := range bots {
				v := c.Clone()
				v.Draft.TopCount = top
				v.Draft.BotCount = bot
				v.Draft.StirrupLegs = legs
				results := s.Constraints.CheckBackbone(constraints.BackboneInput{
					Diameter: v.Draft.BackboneDiameter,
					TopCount: top,
					BotCount: bot,
					Group:    v.Group,
					Spans:    v.Spans,
					Settings: v.Settings,
				})
				constraints.Apply(v, StageBackbone, results)
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// backboneCounts returns the candidate backbone counts of one face: the
// smallest count covering the least demanding section and one more, both
// within capacity. A forced count replaces them.
func backboneCounts(c *model.DesignContext, face model.Face, capacity, legs int) []int {
	if ext := c.External; ext != nil {
		forced := ext.ForcedBotCount
		if face == model.Top {
			forced = ext.ForcedTopCount
		}
		if forced > 0 {
			if forced > capacity {
				return nil
			}
			return []int{forced}
		}
	}
	need := model.BarsNeeded(governingArea(c, face), c.Draft.BackboneDiameter)
	base := min(max(c.Settings.Beam.MinBackboneCount, need, min(legs, capacity)), capacity)
	if base+1 <= capacity {
		return []int{base, base + 1}
	}
	return []int{base}
}

// governingArea is the smallest required area of a face over all sections;
// the backbone runs continuously, so it must not exceed what every section
// needs.
func governingArea(c *model.DesignContext, face model.Face) float64 {
	least := math.Inf(1)
	for i := range c.Spans {
		for _, pos := range model.Positions {
			least = min(least, requiredArea(c, i, pos, face))
		}
	}
	if math.IsInf(least, 1) {
		return 0
	}
	return least
}

// legCount returns the stirrup legs needed to keep legs within the maximum
// transverse spacing. A forced leg count wins.
func legCount(c *model.DesignContext) int {
	if c.External != nil && c.External.ForcedStirrupLegs > 0 {
		return c.External.ForcedStirrupLegs
	}
	usable := c.Group.Width - 2*c.Cover() - 2*float64(assumedStirrup(c))
	if usable <= 0 {
		return 2
	}
	return max(2, int(math.Ceil(usable/c.Settings.Stirrup.MaxLegSpacing))+1)
}

// =============================================================================
// Filling
// =============================================================================

// FillingStage arranges the bars of every section with every strategy. The
// strategies of one candidate run concurrently; variants are returned in
// strategy order.
type FillingStage struct {
	Strategies  []filling.Strategy
	Constraints *constraints.Registry
}

func (*FillingStage) Name() string { return StageFilling }
func (*FillingStage) Order() int   { return OrderFilling }

func (s *FillingStage) Process(ctx context.Context, in []*model.DesignContext) ([]*model.DesignContext, error) {
	var out []*model.DesignContext
	for _, c := range in {
		variants := make([]*model.DesignContext, len(s.Strategies))
		g, gctx := errgroup.WithContext(ctx)
		for i, strat := range s.Strategies {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				variants[i] = s.fill(c, strat)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out = append(out, variants...)
	}
	return out, nil
}

func (s *FillingStage) fill(c *model.DesignContext, strat filling.Strategy) *model.DesignContext {
	v := c.Clone()
	v.Draft.Strategy = strat.Name()
	v.Draft.Sections = nil

	d := v.Draft.BackboneDiameter
	addOn := 0
	if v.Draft.AddOnDiameter != d {
		addOn = v.Draft.AddOnDiameter
	}
	capacity := layerCapacity(v)
	stirrup := assumedStirrup(v)
	b := v.Settings.Beam

	for i := range v.Spans {
		for _, pos := range model.Positions {
			for _, face := range []model.Face{model.Top, model.Bot} {
				backbone := v.Draft.BotCount
				if face == model.Top {
					backbone = v.Draft.TopCount
				}
				sec := model.SectionDesign{
					SpanIndex:     i,
					Position:      pos,
					Face:          face,
					RequiredArea:  requiredArea(v, i, pos, face),
					Diameter:      d,
					AddOnDiameter: v.Draft.AddOnDiameter,
					BackboneCount: backbone,
				}
				r := strat.Calculate(filling.Context{
					RequiredArea:     sec.RequiredArea,
					BackboneDiameter: d,
					BackboneCount:    backbone,
					BarDiameter:      addOn,
					Capacity:         capacity,
					LegCount:         v.Draft.StirrupLegs,
					MaxLayers:        b.MaxLayers,
					MinBarsPerLayer:  b.MinBarsPerLayer,
					PreferSymmetric:  b.PreferSymmetric,
				})
				if !r.Valid {
					v.Record(model.CriticalResult(StageFilling, fmt.Sprintf("%s: %s", sec.Label(), r.Reason)))
					v.Invalidate(StageFilling + "/" + strat.Name())
					return v
				}
				sec.Layers = r.LayerCounts
				sec.WasteBars = r.WasteBars
				sec.ProvidedArea = sec.ComputeProvidedArea()

				results := s.Constraints.CheckArrangement(constraints.ArrangementInput{
					Section:         sec,
					Group:           v.Group,
					Settings:        v.Settings,
					StirrupDiameter: stirrup,
				})
				if !constraints.Apply(v, StageFilling, results) {
					return v
				}
				v.Draft.Sections = append(v.Draft.Sections, sec)
			}
		}
	}
	return v
}

// =============================================================================
// Shared geometry
// =============================================================================

// requiredArea is the area a section face must provide, safety factor
// applied.
func requiredArea(c *model.DesignContext, span int, pos model.Position, face model.Face) float64 {
	return c.Spans[span].Area(face, pos) * c.Settings.Rules.SafetyFactor
}

// assumedStirrup is the stirrup diameter used for clearances before the
// stirrup stage has chosen one: the floor's preference, else the largest
// allowed.
func assumedStirrup(c *model.DesignContext) int {
	if c.Draft.StirrupDiameter > 0 {
		return c.Draft.StirrupDiameter
	}
	if p := c.Constraints.PreferredStirrupDiameter; p > 0 {
		return p
	}
	if len(c.Settings.Stirrup.Diameters) == 0 {
		return 0
	}
	return slices.Max(c.Settings.Stirrup.Diameters)
}

func layerCapacity(c *model.DesignContext) int {
	d := max(c.Draft.BackboneDiameter, c.Draft.AddOnDiameter)
	return model.LayerCapacity(c.Group.Width, c.Cover(), assumedStirrup(c), d, c.Settings.Beam.MinClearSpacing)
}
