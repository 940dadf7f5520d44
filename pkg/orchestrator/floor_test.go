package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/errors"
)

func floorSpec() config.Floor {
	return config.Floor{
		Name: "level-2",
		Constraints: config.FloorConstraints{
			PreferredStirrupDiameter: 10,
			AllowedDiameters:         []int{16, 20},
		},
		Beams: []config.BeamSpec{
			{
				Name: "B1", Width: 300, Height: 600,
				Spans: []config.SpanSpec{
					{Length: 5, TopArea: []float64{8, 2, 9}, BotArea: []float64{3, 7, 3}, ShearArea: []float64{4, 2, 5}},
					{Length: 4, TopArea: []float64{9, 2, 6}, BotArea: []float64{3, 5, 3}},
				},
			},
			{
				Name: "B2", Width: 250, Height: 500, Cover: 30, Locked: true,
				Lock:  &config.LockSpec{Diameter: 16, TopCount: 2, BotCount: 3},
				Spans: []config.SpanSpec{{Length: 3, TopArea: []float64{2, 1, 2}, BotArea: []float64{1, 3, 1}}},
			},
		},
	}
}

func TestFromFloor(t *testing.T) {
	s := config.Default()
	beams, pc, err := FromFloor(floorSpec(), s)
	require.NoError(t, err)
	require.Len(t, beams, 2)

	assert.Equal(t, []int{16, 20}, pc.AllowedDiameters)
	assert.Equal(t, 10, pc.PreferredStirrupDiameter)
	assert.Zero(t, pc.PreferredMainDiameter)
	assert.Equal(t, s.Scoring.DiameterMatchBonus, pc.DiameterMatchBonus)

	b1 := beams[0]
	assert.Equal(t, "B1", b1.Name())
	require.Len(t, b1.Spans, 2)
	assert.Equal(t, 1, b1.Spans[1].SpanIndex)
	assert.Equal(t, [3]float64{9, 2, 6}, b1.Spans[1].TopArea)
	assert.Equal(t, [3]float64{}, b1.Spans[1].ShearArea, "shear is optional")
	assert.InDelta(t, 9.0, b1.Group.TotalLength(), 1e-9)
	assert.Nil(t, Lock(b1.Group))

	ext := Lock(beams[1].Group)
	require.NotNil(t, ext)
	assert.Equal(t, 16, ext.ForcedDiameter)
	assert.Equal(t, 3, ext.ForcedBotCount)
}

func TestFromFloorRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Floor)
		code   errors.Code
	}{
		{"short area list", func(f *config.Floor) { f.Beams[0].Spans[0].TopArea = []float64{1, 2} }, errors.ErrCodeInvalidSpan},
		{"missing bottom areas", func(f *config.Floor) { f.Beams[0].Spans[0].BotArea = nil }, errors.ErrCodeInvalidSpan},
		{"negative area", func(f *config.Floor) { f.Beams[0].Spans[0].BotArea = []float64{1, -2, 1} }, errors.ErrCodeInvalidSpan},
		{"no spans", func(f *config.Floor) { f.Beams[0].Spans = nil }, errors.ErrCodeInvalidBeam},
		{"unnamed beam", func(f *config.Floor) { f.Beams[0].Name = " " }, errors.ErrCodeInvalidBeam},
		{"duplicate name", func(f *config.Floor) { f.Beams[1].Name = "B1" }, errors.ErrCodeInvalidInput},
		{"odd lock diameter", func(f *config.Floor) { f.Beams[1].Lock.Diameter = 17 }, errors.ErrCodeInvalidBeam},
		{"odd allowed diameter", func(f *config.Floor) { f.Constraints.AllowedDiameters = []int{21} }, errors.ErrCodeInvalidDiameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := floorSpec()
			tt.mutate(&f)
			_, _, err := FromFloor(f, config.Default())
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}
