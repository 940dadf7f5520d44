package constraints

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/severity"
)

func backboneConstraint(name string, prio int, res model.ValidationResult, called *int) Constraint {
	return Constraint{
		Name: name, Category: Backbone, Priority: prio,
		Backbone: func(BackboneInput) (model.ValidationResult, error) {
			if called != nil {
				*called++
			}
			return res, nil
		},
	}
}

func names(results []model.ValidationResult) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}

func TestRegisterIsIdempotentAndSorted(t *testing.T) {
	r := NewEmptyRegistry()
	require.NoError(t, r.Register(backboneConstraint("b", 20, model.PassResult("", ""), nil)))
	require.NoError(t, r.Register(backboneConstraint("a", 10, model.PassResult("", ""), nil)))
	require.NoError(t, r.Register(backboneConstraint("b", 1, model.CriticalResult("", "dup"), nil)))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, 20, list[1].Priority, "second registration must not replace the first")
}

func TestRegisterExtremePriorities(t *testing.T) {
	r := NewEmptyRegistry()
	pass := model.PassResult("", "")
	require.NoError(t, r.Register(backboneConstraint("max", math.MaxInt, pass, nil)))
	require.NoError(t, r.Register(backboneConstraint("min", math.MinInt, pass, nil)))
	require.NoError(t, r.Register(backboneConstraint("zero", 0, pass, nil)))
	require.NoError(t, r.Register(backboneConstraint("neg", -1, pass, nil)))

	var got []string
	for _, c := range r.List() {
		got = append(got, c.Name)
	}
	assert.Equal(t, []string{"min", "neg", "zero", "max"}, got)
}

func TestRegisteredConstraintRunsByDefault(t *testing.T) {
	r := NewRegistry()
	calls := 0
	require.NoError(t, r.Register(Constraint{
		Name:     "min-cover-bars",
		Category: Arrangement,
		Priority: 5,
		Arrangement: func(ArrangementInput) (model.ValidationResult, error) {
			calls++
			return model.WarningResult("min-cover-bars", "prefer more bars", 2), nil
		},
	}))

	c, ok := r.Get("min-cover-bars")
	require.True(t, ok)
	assert.False(t, c.Disabled)

	results := r.CheckArrangement(arrangement(300, 4))
	assert.Equal(t, 1, calls)
	assert.Contains(t, names(results), "min-cover-bars")
}

func TestRegisterRejectsMismatchedCheck(t *testing.T) {
	r := NewEmptyRegistry()
	c := backboneConstraint("x", 1, model.PassResult("", ""), nil)
	c.Category = Solution
	assert.Error(t, r.Register(c))

	c.Category = Backbone
	c.Solution = func(SolutionInput) (model.ValidationResult, error) { return model.ValidationResult{}, nil }
	assert.Error(t, r.Register(c), "two check functions")

	assert.Error(t, r.Register(Constraint{Category: Backbone}))
}

func TestRemoveAndEnable(t *testing.T) {
	r := NewEmptyRegistry()
	calls := 0
	require.NoError(t, r.Register(backboneConstraint("x", 1, model.PassResult("", ""), &calls)))

	assert.True(t, r.Enable("x", false))
	assert.Empty(t, r.CheckBackbone(BackboneInput{}))
	assert.Zero(t, calls)

	assert.True(t, r.Enable("x", true))
	assert.Len(t, r.CheckBackbone(BackboneInput{}), 1)
	assert.Equal(t, 1, calls)

	c, ok := r.Get("x")
	require.True(t, ok)
	assert.False(t, c.Disabled)

	assert.True(t, r.Remove("x"))
	assert.False(t, r.Remove("x"))
	assert.False(t, r.Enable("x", true))
	assert.Empty(t, r.List())
}

func TestCheckStopsOnFatalOnly(t *testing.T) {
	r := NewEmptyRegistry()
	var after int
	require.NoError(t, r.Register(backboneConstraint("crit", 1, model.CriticalResult("", "bad"), nil)))
	require.NoError(t, r.Register(backboneConstraint("warn", 2, model.WarningResult("", "meh", 1), nil)))
	require.NoError(t, r.Register(backboneConstraint("fatal", 3,
		model.ValidationResult{Severity: severity.Fatal, Message: "stop"}, nil)))
	require.NoError(t, r.Register(backboneConstraint("after", 4, model.PassResult("", ""), &after)))

	results := r.CheckBackbone(BackboneInput{})
	assert.Equal(t, []string{"crit", "warn", "fatal"}, names(results))
	assert.Zero(t, after, "constraints after a Fatal must not run")
	assert.True(t, HasCriticalFailure(results))
	assert.InDelta(t, 1.0, TotalPenalty(results), 1e-9)
}

func TestFailingCheckIsDowngraded(t *testing.T) {
	r := NewEmptyRegistry()
	require.NoError(t, r.Register(Constraint{
		Name: "panics", Category: Solution, Priority: 1,
		Solution: func(SolutionInput) (model.ValidationResult, error) { panic("boom") },
	}))
	require.NoError(t, r.Register(Constraint{
		Name: "errors", Category: Solution, Priority: 2,
		Solution: func(SolutionInput) (model.ValidationResult, error) {
			return model.ValidationResult{}, errors.New("misconfigured")
		},
	}))
	var after int
	require.NoError(t, r.Register(Constraint{
		Name: "after", Category: Solution, Priority: 3,
		Solution: func(SolutionInput) (model.ValidationResult, error) {
			after++
			return model.PassResult("after", "ok"), nil
		},
	}))

	results := r.CheckSolution(SolutionInput{})
	require.Len(t, results, 3)
	for _, res := range results[:2] {
		assert.Equal(t, severity.Warning, res.Severity)
		assert.Zero(t, res.Penalty)
	}
	assert.Contains(t, results[0].Message, "boom")
	assert.Contains(t, results[1].Message, "misconfigured")
	assert.Equal(t, 1, after)
	assert.False(t, HasCriticalFailure(results))
	assert.Zero(t, TotalPenalty(results))
}

func TestApply(t *testing.T) {
	c := &model.DesignContext{IsValid: true}
	ok := Apply(c, "Backbone", []model.ValidationResult{
		model.WarningResult("w", "m", 2),
		model.CriticalResult("c", "m"),
	})
	assert.False(t, ok)
	assert.False(t, c.IsValid)
	assert.Equal(t, "Backbone/c", c.FailedAt)
	assert.InDelta(t, 2.0, c.TotalPenalty, 1e-9)
	assert.Len(t, c.Results, 2)
}

func arrangement(width float64, layers ...int) ArrangementInput {
	s := config.Default()
	return ArrangementInput{
		Section:         model.SectionDesign{Diameter: 20, Layers: layers},
		Group:           &model.BeamGroup{Name: "B1", Width: width, Height: 600, Cover: 25},
		Settings:        &s,
		StirrupDiameter: 10,
	}
}

func TestArrangementBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		check ArrangementFunc
		in    ArrangementInput
		want  severity.Level
	}{
		{"min bars ok", checkMinBars, arrangement(300, 4, 2), severity.Pass},
		{"min bars short", checkMinBars, arrangement(300, 4, 1), severity.Critical},
		{"layers ok", checkMaxLayers, arrangement(300, 4, 4, 2), severity.Pass},
		{"too many layers", checkMaxLayers, arrangement(300, 4, 4, 2, 2), severity.Critical},
		{"spacing ok", checkSpacing, arrangement(300, 5), severity.Pass},
		{"spacing tight", checkSpacing, arrangement(300, 6), severity.Critical},
		{"spacing wide", checkSpacing, arrangement(500, 2), severity.Warning},
		{"single bar", checkSpacing, arrangement(300, 1), severity.Pass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.check(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Severity, res.Message)
			if tt.want == severity.Critical {
				assert.NotEmpty(t, res.SuggestedFix)
			}
		})
	}
}

func TestCountSymmetry(t *testing.T) {
	res, _ := checkCountSymmetry(BackboneInput{TopCount: 3, BotCount: 3})
	assert.Equal(t, severity.Pass, res.Severity)

	res, _ = checkCountSymmetry(BackboneInput{TopCount: 2, BotCount: 5})
	assert.Equal(t, severity.Warning, res.Severity)
	assert.InDelta(t, 6.0, res.Penalty, 1e-9)
}

func TestSolutionBuiltins(t *testing.T) {
	s := config.Default()

	res, _ := checkSteelDeficit(SolutionInput{Solution: &model.Solution{IsValid: true}, Settings: &s})
	assert.Equal(t, severity.Pass, res.Severity)
	res, _ = checkSteelDeficit(SolutionInput{Solution: &model.Solution{ValidationMessage: "short at span 1"}, Settings: &s})
	assert.Equal(t, severity.Critical, res.Severity)
	assert.Equal(t, "short at span 1", res.Message)

	tests := []struct {
		name           string
		weight, length float64
		want           severity.Level
		penalty        float64
	}{
		{"light", 300, 10, severity.Pass, 0},
		{"at ceiling", 600, 10, severity.Pass, 0},
		{"heavy", 700, 10, severity.Warning, 5},
		{"no length", 700, 0.0005, severity.Pass, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := &model.Solution{IsValid: true, TotalSteelWeight: tt.weight, TotalLength: tt.length}
			res, err := checkMaxWeight(SolutionInput{Solution: sol, Settings: &s})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Severity)
			assert.InDelta(t, tt.penalty, res.Penalty, 1e-9)
		})
	}
}

func TestSupportContinuity(t *testing.T) {
	sec := []model.SectionDesign{{Layers: []int{3}}}
	res, _ := checkSupportContinuity(SectionPairInput{Left: sec, Right: sec})
	assert.Equal(t, severity.Pass, res.Severity)

	res, _ = checkSupportContinuity(SectionPairInput{Left: sec})
	assert.Equal(t, severity.Critical, res.Severity)
}

func TestBuiltinRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Len(t, r.List(), len(Builtin()))

	var cats []Category
	for _, c := range r.List() {
		if len(cats) == 0 || cats[len(cats)-1] != c.Category {
			cats = append(cats, c.Category)
		}
	}
	assert.Equal(t, Categories[:], cats)
	assert.Equal(t, "section-pair", SectionPair.String())
}
