package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/model"
)

func TestConstructability(t *testing.T) {
	tests := []struct {
		name string
		sol  *model.Solution
		want float64
	}{
		{
			name: "single even layers",
			sol: &model.Solution{BackboneDiameter: 20, StirrupLegs: 2, Sections: []model.SectionDesign{
				{Layers: []int{4}}, {Layers: []int{2}},
			}},
			want: 100,
		},
		{
			name: "two layers and an odd count",
			sol: &model.Solution{BackboneDiameter: 20, StirrupLegs: 2, Sections: []model.SectionDesign{
				{Layers: []int{4, 3}},
			}},
			want: 100 - 10 - 2,
		},
		{
			name: "mixed diameter, four legs, waste",
			sol: &model.Solution{BackboneDiameter: 20, AddOnDiameter: 16, StirrupLegs: 4, Sections: []model.SectionDesign{
				{Layers: []int{4, 2}, WasteBars: 1},
			}},
			want: 100 - 10 - 5 - 6 - 1,
		},
		{
			name: "clamped at zero",
			sol: &model.Solution{BackboneDiameter: 20, StirrupLegs: 2, Sections: []model.SectionDesign{
				{Layers: []int{6, 6, 6}, WasteBars: 200},
			}},
			want: 0,
		},
		{name: "nil solution", sol: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Constructability{}.Score(tt.sol, nil, nil)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalizeWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    []float64
	}{
		{"empty", nil, nil},
		{"single", []float64{120}, []float64{100}},
		{"linear", []float64{100, 150, 200}, []float64{100, 50, 0}},
		{"all equal", []float64{80, 80, 80}, []float64{100, 100, 100}},
		{"below threshold", []float64{80, 80.0005}, []float64{100, 100}},
		{"at threshold", []float64{80, 80.002}, []float64{100, 0}},
		{"no weight data", []float64{0, 0}, []float64{100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeWeights(tt.weights)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestFinal(t *testing.T) {
	s := config.Default().Scoring

	assert.InDelta(t, 0.6*100+0.4*50, Final(100, 50, 0, 0, s), 1e-9)
	assert.InDelta(t, 0.6*100+0.4*100, Final(150, 120, 0, 0, s), 1e-9, "components are clamped")

	// Penalty and bonus are applied after clamping and may leave [0, 100].
	assert.InDelta(t, 100+5, Final(100, 100, 0, 5, s), 1e-9)
	assert.InDelta(t, -10, Final(0, 0, 10, 0, s), 1e-9)
}

func TestScorerFunc(t *testing.T) {
	var sc Scorer = ScorerFunc(func(*model.Solution, *model.BeamGroup, *config.Settings) float64 { return 42 })
	assert.InDelta(t, 42.0, sc.Score(nil, nil, nil), 1e-9)
}
