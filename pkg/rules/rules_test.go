package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/severity"
)

func newContext(t *testing.T) *model.DesignContext {
	t.Helper()
	s := config.Default()
	c := model.NewProjectConstraints(5)
	g := &model.BeamGroup{Name: "B1", Width: 300, Height: 600, Spans: []model.Span{{Length: 6}}}
	ctx := model.NewSeed(g, nil, &s, &c, nil)
	ctx.Draft = model.Draft{
		BackboneDiameter: 20,
		TopCount:         2,
		BotCount:         2,
		Sections: []model.SectionDesign{
			{Face: model.Top, Layers: []int{4, 2}},
			{Face: model.Bot, Layers: []int{3}},
		},
	}
	return ctx
}

func fixed(name string, prio int, res model.ValidationResult, called *bool) Rule {
	return Rule{Name: name, Priority: prio, Check: func(*model.DesignContext) model.ValidationResult {
		if called != nil {
			*called = true
		}
		return res
	}}
}

func TestValidateAllStopsAtFirstCritical(t *testing.T) {
	e := NewEmptyEngine()
	var later bool
	e.Register(fixed("late", 20, model.PassResult("late", "ok"), &later))
	e.Register(fixed("warn", 5, model.WarningResult("warn", "w", 3), nil))
	e.Register(fixed("crit", 10, model.CriticalResult("crit", "broken"), nil))

	ctx := newContext(t)
	e.ValidateAll(ctx)

	assert.False(t, later, "rules after a Critical must not run")
	assert.False(t, ctx.IsValid)
	assert.Equal(t, "crit", ctx.FailedAt)
	assert.InDelta(t, 3.0, ctx.TotalPenalty, 1e-9)
	require.Len(t, ctx.Results, 2)
	assert.Equal(t, severity.Critical, ctx.Results[1].Severity)
}

func TestValidateAllAccumulatesWarnings(t *testing.T) {
	e := NewEmptyEngine()
	e.Register(fixed("a", 1, model.WarningResult("a", "w", 1.5), nil))
	e.Register(fixed("b", 2, model.InfoResult("b", "i"), nil))
	e.Register(fixed("c", 3, model.WarningResult("c", "w", 2), nil))

	ctx := newContext(t)
	e.ValidateAll(ctx)

	assert.True(t, ctx.IsValid)
	assert.InDelta(t, 3.5, ctx.TotalPenalty, 1e-9)
	assert.Len(t, ctx.Results, 3)
}

func TestRegisterOrderAndRemove(t *testing.T) {
	e := NewEmptyEngine()
	e.Register(fixed("x", 5, model.PassResult("x", ""), nil))
	e.Register(fixed("y", 1, model.PassResult("y", ""), nil))
	e.Register(fixed("z", 5, model.PassResult("z", ""), nil))
	e.Register(fixed("x", 7, model.PassResult("x", ""), nil))

	var names []string
	for _, r := range e.Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"y", "x", "z", "x"}, names)

	assert.True(t, e.Remove("x"))
	assert.False(t, e.Remove("x"))
	assert.Len(t, e.Rules(), 2)
}

func TestRegisterExtremePriorities(t *testing.T) {
	e := NewEmptyEngine()
	e.Register(fixed("max", math.MaxInt, model.PassResult("max", ""), nil))
	e.Register(fixed("min", math.MinInt, model.PassResult("min", ""), nil))
	e.Register(fixed("zero", 0, model.PassResult("zero", ""), nil))
	e.Register(fixed("neg", -1, model.PassResult("neg", ""), nil))

	var names []string
	for _, r := range e.Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"min", "neg", "zero", "max"}, names)
}

func TestResultNameDefaultsToRule(t *testing.T) {
	e := NewEmptyEngine()
	e.Register(Rule{Name: "anon", Priority: 1, Check: func(*model.DesignContext) model.ValidationResult {
		return model.ValidationResult{Severity: severity.Pass}
	}})
	ctx := newContext(t)
	e.ValidateAll(ctx)
	assert.Equal(t, "anon", ctx.Results[0].Name)
}

func TestPyramidRule(t *testing.T) {
	ctx := newContext(t)
	assert.Equal(t, severity.Pass, checkPyramid(ctx).Severity)

	ctx.Draft.Sections[1].Layers = []int{2, 3}
	res := checkPyramid(ctx)
	assert.Equal(t, severity.Critical, res.Severity)
	assert.Contains(t, res.Message, "bot")
}

func TestSymmetryRule(t *testing.T) {
	tests := []struct {
		name      string
		top, bot  int
		symmetric bool
		want      severity.Level
		penalty   float64
	}{
		{"even counts", 2, 4, true, severity.Pass, 0},
		{"one odd", 3, 2, true, severity.Warning, 2},
		{"both odd", 3, 5, true, severity.Warning, 4},
		{"not preferred", 3, 5, false, severity.Pass, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t)
			ctx.Settings.Beam.PreferSymmetric = tt.symmetric
			ctx.Draft.TopCount, ctx.Draft.BotCount = tt.top, tt.bot
			res := checkSymmetry(ctx)
			assert.Equal(t, tt.want, res.Severity)
			assert.InDelta(t, tt.penalty, res.Penalty, 1e-9)
		})
	}
}

func TestPreferredDiameterNeverPenalizes(t *testing.T) {
	ctx := newContext(t)
	assert.Equal(t, severity.Pass, checkPreferredDiameter(ctx).Severity)

	ctx.Constraints.PreferredMainDiameter = 20
	res := checkPreferredDiameter(ctx)
	assert.Equal(t, severity.Info, res.Severity)
	assert.Contains(t, res.Message, "matches preferred")

	ctx.Constraints.PreferredMainDiameter = 25
	*ctx.Constraints = ctx.Constraints.WithNeighbor("B0", model.NeighborDesign{Diameter: 20})
	res = checkPreferredDiameter(ctx)
	assert.Equal(t, severity.Info, res.Severity)
	assert.Contains(t, res.Message, "neighboring")

	ctx.Solution = &model.Solution{BackboneDiameter: 16}
	res = checkPreferredDiameter(ctx)
	assert.Equal(t, severity.Info, res.Severity)
	assert.Contains(t, res.Message, "differs")
	assert.Zero(t, res.Penalty)
}

func TestBuiltinEngine(t *testing.T) {
	e := NewEngine()
	require.Len(t, e.Rules(), 3)
	assert.Equal(t, NamePyramid, e.Rules()[0].Name)

	ctx := newContext(t)
	ctx.Draft.TopCount = 3
	e.ValidateAll(ctx)
	assert.True(t, ctx.IsValid)
	assert.InDelta(t, SymmetryPenalty, ctx.TotalPenalty, 1e-9)
}
