// Package config holds the engineering settings consumed by the design
// pipeline and the loaders for settings and floor input files.
//
// Settings are plain values: every stage, rule and constraint reads them but
// none mutates them. Files may be TOML or YAML; the format is picked from the
// extension and any field missing from the file keeps its [Default] value.
package config

import (
	"fmt"
	"slices"

	"github.com/matzehuels/rebarplan/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMinBarsPerLayer is the minimum bar count of any layer above the first.
	DefaultMinBarsPerLayer = 2

	// DefaultMaxLayers is the maximum number of bar layers per section face.
	DefaultMaxLayers = 3

	// DefaultMinBackboneCount is the minimum number of continuous bars per face.
	DefaultMinBackboneCount = 2

	// DefaultMinClearSpacing is the minimum clear spacing between bars (mm).
	DefaultMinClearSpacing = 25.0

	// DefaultMaxClearSpacing is the clear spacing above which cracking is likely (mm).
	DefaultMaxClearSpacing = 200.0

	// DefaultMaxSteelWeightPerMeter is the longitudinal+transverse steel ceiling (kg/m).
	DefaultMaxSteelWeightPerMeter = 60.0

	// DefaultCover is the clear cover to the stirrup (mm), used when a beam has none.
	DefaultCover = 25.0

	// DefaultSafetyFactor multiplies every required area before filling.
	DefaultSafetyFactor = 1.0

	// DefaultStirrupMinSpacing is the tightest practical stirrup spacing (mm).
	DefaultStirrupMinSpacing = 100.0

	// DefaultStirrupMaxSpacing is the loosest allowed stirrup spacing (mm).
	DefaultStirrupMaxSpacing = 250.0

	// DefaultMaxLegSpacing is the maximum transverse distance between stirrup legs (mm).
	DefaultMaxLegSpacing = 300.0

	// DefaultSupportZoneRatio is the share of the span treated as support zone on each end.
	DefaultSupportZoneRatio = 0.25

	// DefaultWeightShare is the weight-score share of the final score.
	DefaultWeightShare = 0.6

	// DefaultConstructabilityShare is the constructability share of the final score.
	DefaultConstructabilityShare = 0.4

	// DefaultDiameterMatchBonus is added to candidates matching the floor's preferred diameter.
	DefaultDiameterMatchBonus = 5.0

	// DefaultTopN is the number of ranked proposals returned per beam.
	DefaultTopN = 5
)

// Hard limits on the search space. Inputs beyond them are rejected, not
// clamped.
const (
	// MaxLayersLimit is the largest accepted beam.max_layers.
	MaxLayersLimit = 10

	// MaxBarsPerLayer is the largest layer capacity a section may report.
	MaxBarsPerLayer = 1000
)

// DefaultDiameters is the candidate list of main bar diameters (mm).
var DefaultDiameters = []int{16, 18, 20, 22, 25, 28}

// DefaultStirrupDiameters is the candidate list of stirrup diameters (mm).
var DefaultStirrupDiameters = []int{8, 10, 12}

// =============================================================================
// Settings
// =============================================================================

// Settings bundles every engineering knob read by the design core.
type Settings struct {
	Beam    BeamSettings    `toml:"beam" yaml:"beam" json:"beam"`
	Rules   RuleSettings    `toml:"rules" yaml:"rules" json:"rules"`
	Stirrup StirrupSettings `toml:"stirrup" yaml:"stirrup" json:"stirrup"`
	Scoring ScoringSettings `toml:"scoring" yaml:"scoring" json:"scoring"`
}

// BeamSettings controls longitudinal bar selection and packing.
type BeamSettings struct {
	Diameters              []int   `toml:"diameters" yaml:"diameters" json:"diameters"`
	PreferSymmetric        bool    `toml:"prefer_symmetric" yaml:"prefer_symmetric" json:"prefer_symmetric"`
	PreferSingleDiameter   bool    `toml:"prefer_single_diameter" yaml:"prefer_single_diameter" json:"prefer_single_diameter"`
	MinBarsPerLayer        int     `toml:"min_bars_per_layer" yaml:"min_bars_per_layer" json:"min_bars_per_layer"`
	MaxLayers              int     `toml:"max_layers" yaml:"max_layers" json:"max_layers"`
	MinBackboneCount       int     `toml:"min_backbone_count" yaml:"min_backbone_count" json:"min_backbone_count"`
	MinClearSpacing        float64 `toml:"min_clear_spacing" yaml:"min_clear_spacing" json:"min_clear_spacing"`
	MaxClearSpacing        float64 `toml:"max_clear_spacing" yaml:"max_clear_spacing" json:"max_clear_spacing"`
	MaxSteelWeightPerMeter float64 `toml:"max_steel_weight_per_meter" yaml:"max_steel_weight_per_meter" json:"max_steel_weight_per_meter"`
	Cover                  float64 `toml:"cover" yaml:"cover" json:"cover"`
}

// RuleSettings holds code-level factors.
type RuleSettings struct {
	SafetyFactor float64 `toml:"safety_factor" yaml:"safety_factor" json:"safety_factor"`
}

// StirrupSettings controls transverse reinforcement.
type StirrupSettings struct {
	Diameters        []int   `toml:"diameters" yaml:"diameters" json:"diameters"`
	MinSpacing       float64 `toml:"min_spacing" yaml:"min_spacing" json:"min_spacing"`
	MaxSpacing       float64 `toml:"max_spacing" yaml:"max_spacing" json:"max_spacing"`
	MaxLegSpacing    float64 `toml:"max_leg_spacing" yaml:"max_leg_spacing" json:"max_leg_spacing"`
	SupportZoneRatio float64 `toml:"support_zone_ratio" yaml:"support_zone_ratio" json:"support_zone_ratio"`
}

// ScoringSettings weights the final ranking.
type ScoringSettings struct {
	WeightShare           float64 `toml:"weight_share" yaml:"weight_share" json:"weight_share"`
	ConstructabilityShare float64 `toml:"constructability_share" yaml:"constructability_share" json:"constructability_share"`
	DiameterMatchBonus    float64 `toml:"diameter_match_bonus" yaml:"diameter_match_bonus" json:"diameter_match_bonus"`
	TopN                  int     `toml:"top_n" yaml:"top_n" json:"top_n"`
}

// Default returns settings with the package defaults applied.
func Default() Settings {
	return Settings{
		Beam: BeamSettings{
			Diameters:              slices.Clone(DefaultDiameters),
			PreferSymmetric:        true,
			PreferSingleDiameter:   true,
			MinBarsPerLayer:        DefaultMinBarsPerLayer,
			MaxLayers:              DefaultMaxLayers,
			MinBackboneCount:       DefaultMinBackboneCount,
			MinClearSpacing:        DefaultMinClearSpacing,
			MaxClearSpacing:        DefaultMaxClearSpacing,
			MaxSteelWeightPerMeter: DefaultMaxSteelWeightPerMeter,
			Cover:                  DefaultCover,
		},
		Rules: RuleSettings{
			SafetyFactor: DefaultSafetyFactor,
		},
		Stirrup: StirrupSettings{
			Diameters:        slices.Clone(DefaultStirrupDiameters),
			MinSpacing:       DefaultStirrupMinSpacing,
			MaxSpacing:       DefaultStirrupMaxSpacing,
			MaxLegSpacing:    DefaultMaxLegSpacing,
			SupportZoneRatio: DefaultSupportZoneRatio,
		},
		Scoring: ScoringSettings{
			WeightShare:           DefaultWeightShare,
			ConstructabilityShare: DefaultConstructabilityShare,
			DiameterMatchBonus:    DefaultDiameterMatchBonus,
			TopN:                  DefaultTopN,
		},
	}
}

// Validate checks that the settings describe a usable search space.
func (s Settings) Validate() error {
	if err := errors.ValidateDiameters("beam.diameters", s.Beam.Diameters); err != nil {
		return err
	}
	if err := errors.ValidateDiameters("stirrup.diameters", s.Stirrup.Diameters); err != nil {
		return err
	}
	if s.Beam.MaxLayers < 1 || s.Beam.MaxLayers > MaxLayersLimit {
		return errors.New(errors.ErrCodeInvalidSettings, "beam.max_layers must be between 1 and %d, got %d", MaxLayersLimit, s.Beam.MaxLayers)
	}
	if s.Beam.MinBarsPerLayer < 1 {
		return errors.New(errors.ErrCodeInvalidSettings, "beam.min_bars_per_layer must be at least 1, got %d", s.Beam.MinBarsPerLayer)
	}
	if s.Beam.MinBackboneCount < 2 {
		return errors.New(errors.ErrCodeInvalidSettings, "beam.min_backbone_count must be at least 2, got %d", s.Beam.MinBackboneCount)
	}

	positives := []struct {
		field string
		v     float64
	}{
		{"beam.min_clear_spacing", s.Beam.MinClearSpacing},
		{"beam.max_steel_weight_per_meter", s.Beam.MaxSteelWeightPerMeter},
		{"rules.safety_factor", s.Rules.SafetyFactor},
		{"stirrup.min_spacing", s.Stirrup.MinSpacing},
		{"stirrup.max_spacing", s.Stirrup.MaxSpacing},
		{"stirrup.max_leg_spacing", s.Stirrup.MaxLegSpacing},
	}
	for _, p := range positives {
		if err := errors.ValidatePositive(p.field, p.v); err != nil {
			return err
		}
	}
	nonNegatives := []struct {
		field string
		v     float64
	}{
		{"beam.cover", s.Beam.Cover},
		{"beam.max_clear_spacing", s.Beam.MaxClearSpacing},
		{"scoring.weight_share", s.Scoring.WeightShare},
		{"scoring.constructability_share", s.Scoring.ConstructabilityShare},
		{"scoring.diameter_match_bonus", s.Scoring.DiameterMatchBonus},
	}
	for _, p := range nonNegatives {
		if err := errors.ValidateNonNegative(p.field, p.v); err != nil {
			return err
		}
	}
	if s.Beam.MaxClearSpacing < s.Beam.MinClearSpacing {
		return errors.New(errors.ErrCodeInvalidSettings,
			"beam.max_clear_spacing (%g) is below beam.min_clear_spacing (%g)",
			s.Beam.MaxClearSpacing, s.Beam.MinClearSpacing)
	}
	if s.Stirrup.MaxSpacing < s.Stirrup.MinSpacing {
		return errors.New(errors.ErrCodeInvalidSettings,
			"stirrup.max_spacing (%g) is below stirrup.min_spacing (%g)",
			s.Stirrup.MaxSpacing, s.Stirrup.MinSpacing)
	}
	if !(s.Stirrup.SupportZoneRatio > 0 && s.Stirrup.SupportZoneRatio < 0.5) {
		return errors.New(errors.ErrCodeInvalidSettings,
			"stirrup.support_zone_ratio must be in (0, 0.5), got %g", s.Stirrup.SupportZoneRatio)
	}
	if s.Scoring.TopN < 1 {
		return errors.New(errors.ErrCodeInvalidSettings, "scoring.top_n must be at least 1, got %d", s.Scoring.TopN)
	}
	return nil
}

// Clone returns a copy that shares no slice with s. Decoding a request or
// file onto a clone leaves the original untouched.
func (s Settings) Clone() Settings {
	s.Beam.Diameters = slices.Clone(s.Beam.Diameters)
	s.Stirrup.Diameters = slices.Clone(s.Stirrup.Diameters)
	return s
}

// String summarizes the settings for debug logs.
func (s Settings) String() string {
	return fmt.Sprintf("diameters=%v layers<=%d min/layer=%d symmetric=%t single-diameter=%t sf=%.2f",
		s.Beam.Diameters, s.Beam.MaxLayers, s.Beam.MinBarsPerLayer,
		s.Beam.PreferSymmetric, s.Beam.PreferSingleDiameter, s.Rules.SafetyFactor)
}
