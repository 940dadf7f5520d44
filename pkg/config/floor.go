package config

// Floor is the on-disk description of one floor: its beams in processing
// order and the optional floor-wide preferences that seed the cross-beam
// constraints.
//
// Example (TOML):
//
//	name = "level-2"
//
//	[constraints]
//	allowed_diameters = [16, 20, 25]
//
//	[[beams]]
//	name = "B1"
//	width = 300
//	height = 600
//
//	  [[beams.spans]]
//	  length = 6.0
//	  top_area = [12.5, 4.0, 11.0]
//	  bot_area = [3.0, 9.8, 3.0]
//	  shear_area = [5.0, 2.5, 5.0]
type Floor struct {
	Name        string           `toml:"name" yaml:"name" json:"name"`
	Constraints FloorConstraints `toml:"constraints" yaml:"constraints" json:"constraints"`
	Beams       []BeamSpec       `toml:"beams" yaml:"beams" json:"beams"`
}

// FloorConstraints seeds the project-wide constraints of a run.
type FloorConstraints struct {
	PreferredMainDiameter    int   `toml:"preferred_main_diameter" yaml:"preferred_main_diameter" json:"preferred_main_diameter,omitempty"`
	PreferredStirrupDiameter int   `toml:"preferred_stirrup_diameter" yaml:"preferred_stirrup_diameter" json:"preferred_stirrup_diameter,omitempty"`
	AllowedDiameters         []int `toml:"allowed_diameters" yaml:"allowed_diameters" json:"allowed_diameters,omitempty"`
}

// BeamSpec describes one beam group and its analysis results.
type BeamSpec struct {
	Name   string     `toml:"name" yaml:"name" json:"name"`
	Width  float64    `toml:"width" yaml:"width" json:"width"`
	Height float64    `toml:"height" yaml:"height" json:"height"`
	Cover  float64    `toml:"cover" yaml:"cover" json:"cover,omitempty"`
	Locked bool       `toml:"locked" yaml:"locked" json:"locked,omitempty"`
	Lock   *LockSpec  `toml:"lock" yaml:"lock" json:"lock,omitempty"`
	Spans  []SpanSpec `toml:"spans" yaml:"spans" json:"spans"`
}

// LockSpec is a previously selected design the user locked.
type LockSpec struct {
	Diameter    int `toml:"diameter" yaml:"diameter" json:"diameter"`
	TopCount    int `toml:"top_count" yaml:"top_count" json:"top_count"`
	BotCount    int `toml:"bot_count" yaml:"bot_count" json:"bot_count"`
	StirrupLegs int `toml:"stirrup_legs" yaml:"stirrup_legs" json:"stirrup_legs,omitempty"`
}

// SpanSpec carries the required areas of one span at its left support,
// mid-span and right support, in that order.
type SpanSpec struct {
	Length    float64   `toml:"length" yaml:"length" json:"length"`
	TopArea   []float64 `toml:"top_area" yaml:"top_area" json:"top_area"`
	BotArea   []float64 `toml:"bot_area" yaml:"bot_area" json:"bot_area"`
	ShearArea []float64 `toml:"shear_area" yaml:"shear_area" json:"shear_area,omitempty"`
}
