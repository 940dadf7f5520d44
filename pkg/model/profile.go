package model

import (
	"fmt"
	"math"
	"slices"
)

// BarPosition is one longitudinal bar in a section, in millimetres from the
// bottom-left corner of the concrete outline.
type BarPosition struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter int     `json:"diameter"`
	Tied     bool    `json:"tied"`   // a stirrup leg passes this bar
	Corner   bool    `json:"corner"` // outermost bar of the first layer
}

// BarLayer is one row of bars.
type BarLayer struct {
	Index int           `json:"index"`
	Bars  []BarPosition `json:"bars"`
}

// RebarProfile describes where the bars of one section face sit.
type RebarProfile struct {
	Face   Face       `json:"face"`
	Layers []BarLayer `json:"layers"`
}

// Clone returns a deep copy of the profile.
func (p RebarProfile) Clone() RebarProfile {
	c := RebarProfile{Face: p.Face, Layers: make([]BarLayer, len(p.Layers))}
	for i, l := range p.Layers {
		c.Layers[i] = BarLayer{Index: l.Index, Bars: slices.Clone(l.Bars)}
	}
	return c
}

// Counts returns the bar count of each layer.
func (p RebarProfile) Counts() []int {
	counts := make([]int, len(p.Layers))
	for i, l := range p.Layers {
		counts[i] = len(l.Bars)
	}
	return counts
}

// ZoneType distinguishes dense support zones from the mid-span zone.
type ZoneType string

const (
	ZoneSupport ZoneType = "support"
	ZoneMid     ZoneType = "mid"
)

// StirrupZone is a stretch of span with uniform stirrup spacing.
type StirrupZone struct {
	SpanIndex int      `json:"span_index"`
	Start     float64  `json:"start"`   // m from span start
	End       float64  `json:"end"`     // m from span start
	Spacing   float64  `json:"spacing"` // mm
	Diameter  int      `json:"diameter"`
	Legs      int      `json:"legs"`
	Type      ZoneType `json:"type"`
}

// Count returns the number of stirrups in the zone.
func (z StirrupZone) Count() int {
	if z.Spacing <= 0 {
		return 0
	}
	return int(math.Ceil((z.End-z.Start)*1000/z.Spacing)) + 1
}

// StirrupProfile groups the zones of a whole beam.
type StirrupProfile struct {
	Zones []StirrupZone `json:"zones"`
}

// ProfileGeometry carries the section data needed to place bars.
type ProfileGeometry struct {
	Width      float64
	Height     float64
	Cover      float64
	StirrupDia int
	Legs       int
}

// BuildRebarProfile places the bars of a layer sequence. Layer 0 holds the
// backbone bars at diameter and, beyond them, add-on bars at addOnDia; upper
// layers hold add-on bars stacked over layer-0 positions. It fails when the
// sequence breaks the pyramid rule, since an upper layer could not be
// supported by the bars beneath it.
func BuildRebarProfile(face Face, layers []int, backbone, diameter, addOnDia int, g ProfileGeometry) (RebarProfile, error) {
	if !IsPyramid(layers) {
		return RebarProfile{}, fmt.Errorf("layers %v violate the pyramid rule", layers)
	}
	if addOnDia == 0 {
		addOnDia = diameter
	}

	profile := RebarProfile{Face: face}
	if len(layers) == 0 || layers[0] == 0 {
		return profile, nil
	}

	inset := g.Cover + float64(g.StirrupDia) + float64(diameter)/2
	x0, x1 := inset, g.Width-inset
	base := spread(layers[0], x0, x1)
	tied := tiedIndices(layers[0], g.Legs)

	y := inset
	for i, n := range layers {
		if i > 0 {
			y += LayerPitch(max(diameter, addOnDia))
		}
		yy := y
		if face == Top {
			yy = g.Height - y
		}

		layer := BarLayer{Index: i, Bars: make([]BarPosition, 0, n)}
		xs := base
		if i > 0 {
			xs = pick(base, n)
		}
		for j, x := range xs {
			d := addOnDia
			if i == 0 && backboneSlot(j, n, backbone) {
				d = diameter
			}
			layer.Bars = append(layer.Bars, BarPosition{
				X:        x,
				Y:        yy,
				Diameter: d,
				Tied:     i == 0 && tied[j],
				Corner:   i == 0 && (j == 0 || j == n-1),
			})
		}
		profile.Layers = append(profile.Layers, layer)
	}
	return profile, nil
}

// spread returns n evenly spaced positions between x0 and x1.
func spread(n int, x0, x1 float64) []float64 {
	if n == 1 {
		return []float64{(x0 + x1) / 2}
	}
	xs := make([]float64, n)
	step := (x1 - x0) / float64(n-1)
	for i := range xs {
		xs[i] = x0 + float64(i)*step
	}
	return xs
}

// pick selects n of the given positions symmetrically, outermost first.
func pick(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return slices.Clone(xs)
	}
	idx := evenIndices(len(xs), n)
	out := make([]float64, n)
	for i, k := range idx {
		out[i] = xs[k]
	}
	return out
}

// evenIndices chooses n indices spread evenly over [0, total).
func evenIndices(total, n int) []int {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []int{(total - 1) / 2}
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = int(math.Round(float64(i) * float64(total-1) / float64(n-1)))
	}
	return idx
}

// tiedIndices marks the layer-0 bars a stirrup leg passes around.
func tiedIndices(n, legs int) []bool {
	tied := make([]bool, n)
	for _, k := range evenIndices(n, min(max(legs, 2), n)) {
		tied[k] = true
	}
	return tied
}

// backboneSlot reports whether slot j of an n-bar first layer belongs to the
// backbone: the backbone occupies evenly spread slots including both corners.
func backboneSlot(j, n, backbone int) bool {
	if backbone >= n {
		return true
	}
	return slices.Contains(evenIndices(n, backbone), j)
}
