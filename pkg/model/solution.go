package model

import (
	"fmt"
	"slices"
)

// SectionDesign is the chosen arrangement of one face at one section.
type SectionDesign struct {
	SpanIndex     int          `json:"span_index"`
	Position      Position     `json:"position"`
	Face          Face         `json:"face"`
	RequiredArea  float64      `json:"required_area"` // cm², safety factor applied
	Diameter      int          `json:"diameter"`      // backbone diameter
	AddOnDiameter int          `json:"add_on_diameter"`
	BackboneCount int          `json:"backbone_count"`
	Layers        []int        `json:"layers"`
	WasteBars     int          `json:"waste_bars"`
	ProvidedArea  float64      `json:"provided_area"`
	Profile       RebarProfile `json:"profile"`
}

// Total returns the total bar count of the section.
func (s SectionDesign) Total() int {
	return SumLayers(s.Layers)
}

// AddOnCount returns the bars beyond the continuous backbone.
func (s SectionDesign) AddOnCount() int {
	if n := s.Total() - s.BackboneCount; n > 0 {
		return n
	}
	return 0
}

// ComputeProvidedArea returns backbone bars at Diameter plus add-on bars at
// AddOnDiameter.
func (s SectionDesign) ComputeProvidedArea() float64 {
	addOn := s.AddOnDiameter
	if addOn == 0 {
		addOn = s.Diameter
	}
	return BarsArea(s.Diameter, s.BackboneCount) + BarsArea(addOn, s.AddOnCount())
}

// Label identifies the section in messages, e.g. "span 2 left top".
func (s SectionDesign) Label() string {
	return fmt.Sprintf("span %d %s %s", s.SpanIndex+1, s.Position, s.Face)
}

// Solution is a fully assembled reinforcement design for one beam group.
type Solution struct {
	OptionName string `json:"option_name"`
	Strategy   string `json:"strategy"`

	BackboneDiameter int `json:"backbone_diameter"`
	BackboneCountTop int `json:"backbone_count_top"`
	BackboneCountBot int `json:"backbone_count_bot"`
	AddOnDiameter    int `json:"add_on_diameter"`
	StirrupDiameter  int `json:"stirrup_diameter"`
	StirrupLegs      int `json:"stirrup_legs"`

	Sections     []SectionDesign `json:"sections"`
	StirrupZones []StirrupZone   `json:"stirrup_zones"`

	TotalLength      float64 `json:"total_length"`       // m
	TotalSteelWeight float64 `json:"total_steel_weight"` // kg
	WeightPerMeter   float64 `json:"weight_per_meter"`   // kg/m

	ConstructabilityScore float64 `json:"constructability_score"`
	WeightScore           float64 `json:"weight_score"`
	TotalScore            float64 `json:"total_score"`

	IsValid           bool   `json:"is_valid"`
	ValidationMessage string `json:"validation_message,omitempty"`
}

// Section returns the section design at a span, position and face.
func (s *Solution) Section(span int, p Position, f Face) (SectionDesign, bool) {
	for _, sec := range s.Sections {
		if sec.SpanIndex == span && sec.Position == p && sec.Face == f {
			return sec, true
		}
	}
	return SectionDesign{}, false
}

// TopCount returns the total top bar count at a span zone.
func (s *Solution) TopCount(span int, p Position) int {
	sec, _ := s.Section(span, p, Top)
	return sec.Total()
}

// BotCount returns the total bottom bar count at a span zone.
func (s *Solution) BotCount(span int, p Position) int {
	sec, _ := s.Section(span, p, Bot)
	return sec.Total()
}

// MaxLayerCount returns the deepest layer sequence across all sections.
func (s *Solution) MaxLayerCount() int {
	deepest := 0
	for _, sec := range s.Sections {
		deepest = max(deepest, len(sec.Layers))
	}
	return deepest
}

// Clone returns a deep copy of the solution.
func (s *Solution) Clone() *Solution {
	if s == nil {
		return nil
	}
	c := *s
	c.Sections = make([]SectionDesign, len(s.Sections))
	for i, sec := range s.Sections {
		sec.Layers = slices.Clone(sec.Layers)
		sec.Profile = sec.Profile.Clone()
		c.Sections[i] = sec
	}
	c.StirrupZones = slices.Clone(s.StirrupZones)
	return &c
}

// OptionLabel builds the human label used to group equivalent candidates.
// Candidates sharing a label are alternatives of the same option; only the
// best-scoring one survives ranking.
func OptionLabel(diameter, top, bot, addOn, legs int) string {
	label := fmt.Sprintf("Ø%d %dT/%dB %dL", diameter, top, bot, legs)
	if addOn != 0 && addOn != diameter {
		label += fmt.Sprintf(" +Ø%d", addOn)
	}
	return label
}
