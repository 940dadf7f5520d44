package model

import (
	"maps"
	"slices"
)

// NeighborDesign is the finalized backbone choice of a previously solved beam.
type NeighborDesign struct {
	Diameter        int `json:"diameter"`
	TopCount        int `json:"top_count"`
	StirrupDiameter int `json:"stirrup_diameter"`
}

// ProjectConstraints is the floor-wide state carried from one beam to the
// next. The orchestrator threads it explicitly: each beam's solve reads the
// current value and returns an updated one. Within a beam it is read-only.
type ProjectConstraints struct {
	PreferredMainDiameter    int                       `json:"preferred_main_diameter,omitempty"`
	PreferredStirrupDiameter int                       `json:"preferred_stirrup_diameter,omitempty"`
	AllowedDiameters         []int                     `json:"allowed_diameters,omitempty"`
	Neighbors                map[string]NeighborDesign `json:"neighbors,omitempty"`
	DiameterMatchBonus       float64                   `json:"diameter_match_bonus"`
}

// NewProjectConstraints returns empty constraints with the given match bonus.
func NewProjectConstraints(bonus float64) ProjectConstraints {
	return ProjectConstraints{
		Neighbors:          make(map[string]NeighborDesign),
		DiameterMatchBonus: bonus,
	}
}

// Clone returns a copy that shares no mutable state with c.
func (c ProjectConstraints) Clone() ProjectConstraints {
	out := c
	out.AllowedDiameters = slices.Clone(c.AllowedDiameters)
	out.Neighbors = maps.Clone(c.Neighbors)
	if out.Neighbors == nil {
		out.Neighbors = make(map[string]NeighborDesign)
	}
	return out
}

// Allows reports whether diameter d passes the allow-list. An empty list
// allows every diameter.
func (c ProjectConstraints) Allows(d int) bool {
	return len(c.AllowedDiameters) == 0 || slices.Contains(c.AllowedDiameters, d)
}

// MatchesNeighbor reports whether any recorded neighbor uses diameter d.
func (c ProjectConstraints) MatchesNeighbor(d int) bool {
	for _, n := range c.Neighbors {
		if n.Diameter == d {
			return true
		}
	}
	return false
}

// WithNeighbor returns a copy with the neighbor design of group recorded.
func (c ProjectConstraints) WithNeighbor(group string, n NeighborDesign) ProjectConstraints {
	out := c.Clone()
	out.Neighbors[group] = n
	return out
}

// Provenance tags for external constraints.
const (
	ProvenanceUserLock      = "UserLock"
	ProvenanceMultiBeamSync = "MultiBeamSync"
)

// ExternalConstraint forces parts of a beam's design. Zero fields are free.
// When present it dominates every other source of candidates for the beam.
type ExternalConstraint struct {
	ForcedDiameter    int    `json:"forced_diameter,omitempty"`
	ForcedTopCount    int    `json:"forced_top_count,omitempty"`
	ForcedBotCount    int    `json:"forced_bot_count,omitempty"`
	ForcedStirrupLegs int    `json:"forced_stirrup_legs,omitempty"`
	Source            string `json:"source"`
}

// LockFromSolution builds a user-lock constraint that reproduces sol.
func LockFromSolution(sol *Solution) *ExternalConstraint {
	if sol == nil {
		return nil
	}
	return &ExternalConstraint{
		ForcedDiameter: sol.BackboneDiameter,
		ForcedTopCount: sol.BackboneCountTop,
		ForcedBotCount: sol.BackboneCountBot,
		Source:         ProvenanceUserLock,
	}
}
