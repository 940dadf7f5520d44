package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/severity"
)

func TestBarArea(t *testing.T) {
	assert.InDelta(t, 3.1416, BarArea(20), 1e-4)
	assert.InDelta(t, 2.0106, BarArea(16), 1e-4)
	assert.InDelta(t, 3*BarArea(20), BarsArea(20, 3), 1e-9)
}

func TestBarMass(t *testing.T) {
	// 20 mm bar weighs about 2.47 kg/m.
	assert.InDelta(t, 2.466, BarMass(20), 1e-3)
}

func TestBarsNeeded(t *testing.T) {
	assert.Equal(t, 0, BarsNeeded(0, 20))
	assert.Equal(t, 0, BarsNeeded(0.005, 20))
	assert.Equal(t, 1, BarsNeeded(3.0, 20))
	assert.Equal(t, 4, BarsNeeded(4*BarArea(20), 20), "exact multiples must not round up")
	assert.Equal(t, 5, BarsNeeded(4*BarArea(20)+0.1, 20))
	assert.Equal(t, math.MaxInt, BarsNeeded(1e300, 20))
	assert.Equal(t, math.MaxInt, BarsNeeded(math.Inf(1), 20))
}

func TestLayerCapacity(t *testing.T) {
	// 300 wide, 25 cover, 10 stirrup: usable 230. (230+25)/(20+25) = 5.67
	assert.Equal(t, 5, LayerCapacity(300, 25, 10, 20, 25))
	assert.Equal(t, 0, LayerCapacity(60, 25, 10, 20, 25))
}

func TestClearSpacing(t *testing.T) {
	s, ok := ClearSpacing(300, 25, 10, 20, 3)
	require.True(t, ok)
	assert.InDelta(t, 85.0, s, 1e-9)

	_, ok = ClearSpacing(300, 25, 10, 20, 1)
	assert.False(t, ok)
}

func TestIsPyramid(t *testing.T) {
	assert.True(t, IsPyramid(nil))
	assert.True(t, IsPyramid([]int{4}))
	assert.True(t, IsPyramid([]int{5, 5, 2}))
	assert.False(t, IsPyramid([]int{3, 4}))
	assert.Equal(t, 12, SumLayers([]int{5, 5, 2}))
}

func TestBuildRebarProfile(t *testing.T) {
	g := ProfileGeometry{Width: 300, Height: 600, Cover: 25, StirrupDia: 10, Legs: 2}

	p, err := BuildRebarProfile(Top, []int{4, 2}, 3, 20, 16, g)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, p.Counts())

	first := p.Layers[0].Bars
	assert.True(t, first[0].Corner)
	assert.True(t, first[3].Corner)
	assert.False(t, first[1].Corner)
	assert.True(t, first[0].Tied)
	assert.True(t, first[3].Tied)
	assert.InDelta(t, 45.0, first[0].X, 1e-9)
	assert.InDelta(t, 255.0, first[3].X, 1e-9)
	assert.InDelta(t, 555.0, first[0].Y, 1e-9, "top bars measured from the bottom edge")

	// Upper layer sits over the outer positions.
	second := p.Layers[1].Bars
	assert.InDelta(t, first[0].X, second[0].X, 1e-9)
	assert.InDelta(t, first[3].X, second[1].X, 1e-9)
	assert.Less(t, second[0].Y, first[0].Y)
	assert.Equal(t, 16, second[0].Diameter)
}

func TestBuildRebarProfileRejectsInvertedPyramid(t *testing.T) {
	g := ProfileGeometry{Width: 300, Height: 600, Cover: 25, StirrupDia: 10, Legs: 2}
	_, err := BuildRebarProfile(Bot, []int{2, 3}, 2, 20, 20, g)
	assert.Error(t, err)
}

func TestStirrupZoneCount(t *testing.T) {
	z := StirrupZone{Start: 0, End: 1.5, Spacing: 100}
	assert.Equal(t, 16, z.Count())
	assert.Equal(t, 0, StirrupZone{}.Count())
}

func TestBeamGroupValidate(t *testing.T) {
	g := &BeamGroup{Name: "B1", Width: 300, Height: 600, Spans: []Span{{Length: 6}}}
	require.NoError(t, g.Validate())
	assert.InDelta(t, 6.0, g.TotalLength(), 1e-9)

	bad := *g
	bad.Spans = nil
	assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidBeam))

	bad = *g
	bad.Spans = []Span{{Length: 0}}
	assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidSpan))

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		bad = *g
		bad.Width = v
		assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidBeam), "width %g", v)

		bad = *g
		bad.Cover = v
		assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidBeam), "cover %g", v)

		bad = *g
		bad.Spans = []Span{{Length: v}}
		assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidSpan), "length %g", v)
	}

	var nilGroup *BeamGroup
	assert.Error(t, nilGroup.Validate())
}

func TestValidateSpans(t *testing.T) {
	g := &BeamGroup{Name: "B1", Width: 300, Height: 600, Spans: []Span{{Length: 6}, {Length: 5}}}
	spans := []SpanResult{{SpanIndex: 0, Length: 6}, {SpanIndex: 1, Length: 5}}
	require.NoError(t, ValidateSpans(g, spans))

	assert.Error(t, ValidateSpans(g, spans[:1]))

	spans[1].TopArea[2] = -1
	assert.True(t, errors.Is(ValidateSpans(g, spans), errors.ErrCodeInvalidSpan))

	spans[1].TopArea[2] = math.NaN()
	assert.True(t, errors.Is(ValidateSpans(g, spans), errors.ErrCodeInvalidSpan))
}

func TestProjectConstraintsClone(t *testing.T) {
	c := NewProjectConstraints(5)
	c.AllowedDiameters = []int{16, 20}
	next := c.WithNeighbor("B1", NeighborDesign{Diameter: 20, TopCount: 3})

	assert.Empty(t, c.Neighbors, "original must not see the new neighbor")
	assert.Equal(t, 20, next.Neighbors["B1"].Diameter)
	assert.True(t, next.MatchesNeighbor(20))
	assert.False(t, next.MatchesNeighbor(16))

	next.AllowedDiameters[0] = 25
	assert.Equal(t, 16, c.AllowedDiameters[0])
}

func TestProjectConstraintsAllows(t *testing.T) {
	c := NewProjectConstraints(0)
	assert.True(t, c.Allows(28))
	c.AllowedDiameters = []int{16, 20}
	assert.True(t, c.Allows(20))
	assert.False(t, c.Allows(25))
}

func TestLockFromSolution(t *testing.T) {
	assert.Nil(t, LockFromSolution(nil))
	ext := LockFromSolution(&Solution{BackboneDiameter: 20, BackboneCountTop: 3, BackboneCountBot: 2})
	assert.Equal(t, &ExternalConstraint{ForcedDiameter: 20, ForcedTopCount: 3, ForcedBotCount: 2, Source: ProvenanceUserLock}, ext)
}

func TestDesignContextClone(t *testing.T) {
	s := config.Default()
	seed := NewSeed(&BeamGroup{Name: "B1"}, nil, &s, nil, nil)
	seed.Draft.Sections = []SectionDesign{{Layers: []int{3, 2}}}
	seed.Record(InfoResult("x", "y"))

	clone := seed.Clone()
	clone.Draft.Sections[0].Layers[0] = 9
	clone.Record(WarningResult("w", "z", 2))
	clone.Invalidate("Backbone")

	assert.Equal(t, 3, seed.Draft.Sections[0].Layers[0])
	assert.Len(t, seed.Results, 1)
	assert.True(t, seed.IsValid)
	assert.False(t, clone.IsValid)
	assert.Equal(t, "Backbone", clone.FailedAt)

	clone.Invalidate("Later")
	assert.Equal(t, "Backbone", clone.FailedAt, "first failure wins")
}

func TestHasCriticalError(t *testing.T) {
	c := &DesignContext{IsValid: true}
	c.Record(WarningResult("w", "m", 1))
	assert.False(t, c.HasCriticalError())
	c.Record(ValidationResult{Severity: severity.Fatal, Name: "f"})
	assert.True(t, c.HasCriticalError())
}

func TestSolutionAccessors(t *testing.T) {
	sol := &Solution{Sections: []SectionDesign{
		{SpanIndex: 0, Position: Left, Face: Top, BackboneCount: 3, Layers: []int{5, 2}},
		{SpanIndex: 0, Position: Mid, Face: Bot, BackboneCount: 3, Layers: []int{4}},
	}}
	assert.Equal(t, 7, sol.TopCount(0, Left))
	assert.Equal(t, 4, sol.BotCount(0, Mid))
	assert.Equal(t, 0, sol.TopCount(1, Left))
	assert.Equal(t, 2, sol.MaxLayerCount())

	clone := sol.Clone()
	clone.Sections[0].Layers[1] = 1
	assert.Equal(t, 2, sol.Sections[0].Layers[1])
}

func TestSectionProvidedArea(t *testing.T) {
	sec := SectionDesign{Diameter: 20, AddOnDiameter: 16, BackboneCount: 3, Layers: []int{5}}
	assert.Equal(t, 2, sec.AddOnCount())
	want := 3*BarArea(20) + 2*BarArea(16)
	assert.InDelta(t, want, sec.ComputeProvidedArea(), 1e-9)
	assert.Equal(t, "span 1 left top", sec.Label())
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "Ø20 3T/3B 2L", OptionLabel(20, 3, 3, 20, 2))
	assert.Equal(t, "Ø20 3T/2B 4L +Ø16", OptionLabel(20, 3, 2, 16, 4))
}

func TestStirrupLength(t *testing.T) {
	l2 := StirrupLength(300, 600, 25, 2)
	l4 := StirrupLength(300, 600, 25, 4)
	assert.Greater(t, l4, l2)
	assert.False(t, math.IsNaN(l2))
	assert.Zero(t, StirrupLength(40, 600, 25, 2))
}

func TestPositionFaceText(t *testing.T) {
	var p Position
	require.NoError(t, p.UnmarshalText([]byte("right")))
	assert.Equal(t, Right, p)
	assert.Error(t, p.UnmarshalText([]byte("middle")))

	var f Face
	require.NoError(t, f.UnmarshalText([]byte("bot")))
	assert.Equal(t, Bot, f)
	assert.Error(t, f.UnmarshalText([]byte("side")))
}
