// Package model defines the domain types shared by the design core:
// beam groups and their required areas, the per-candidate [DesignContext],
// assembled [Solution]s, and the cross-beam [ProjectConstraints].
package model

import (
	"fmt"
	"math"

	"github.com/matzehuels/rebarplan/pkg/errors"
)

// Position locates a section along a span.
type Position int

const (
	Left Position = iota
	Mid
	Right
)

// Positions lists the three design sections of a span in order.
var Positions = [...]Position{Left, Mid, Right}

func (p Position) String() string {
	switch p {
	case Left:
		return "left"
	case Mid:
		return "mid"
	case Right:
		return "right"
	}
	return fmt.Sprintf("position(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	for _, pos := range Positions {
		if pos.String() == string(text) {
			*p = pos
			return nil
		}
	}
	return fmt.Errorf("unknown position %q", text)
}

// Face is the tension/compression face of a section.
type Face int

const (
	Top Face = iota
	Bot
)

func (f Face) String() string {
	if f == Top {
		return "top"
	}
	return "bot"
}

// MarshalText implements encoding.TextMarshaler.
func (f Face) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Face) UnmarshalText(text []byte) error {
	switch string(text) {
	case "top":
		*f = Top
	case "bot":
		*f = Bot
	default:
		return fmt.Errorf("unknown face %q", text)
	}
	return nil
}

// Span is one bay of a continuous beam.
type Span struct {
	Length float64 `json:"length"` // m
}

// BeamGroup is the unit of design: a continuous beam with a uniform section.
type BeamGroup struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`  // mm
	Height float64 `json:"height"` // mm
	Cover  float64 `json:"cover"`  // mm, 0 = use settings
	Spans  []Span  `json:"spans"`

	// IsLocked marks a group whose SelectedDesign must be reproduced.
	IsLocked       bool      `json:"is_locked"`
	SelectedDesign *Solution `json:"selected_design,omitempty"`
}

// TotalLength returns the summed span length in metres.
func (g *BeamGroup) TotalLength() float64 {
	total := 0.0
	for _, s := range g.Spans {
		total += s.Length
	}
	return total
}

// EffectiveCover returns the group cover or fallback when unset.
func (g *BeamGroup) EffectiveCover(fallback float64) float64 {
	if g.Cover > 0 {
		return g.Cover
	}
	return fallback
}

// Validate checks the geometric inputs of the group.
func (g *BeamGroup) Validate() error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidBeam, "beam group is nil")
	}
	if err := errors.ValidateGroupName(g.Name); err != nil {
		return err
	}
	if !positive(g.Width) || !positive(g.Height) {
		return errors.New(errors.ErrCodeInvalidBeam, "beam %q needs positive width and height", g.Name)
	}
	if g.Cover != 0 && !positive(g.Cover) {
		return errors.New(errors.ErrCodeInvalidBeam, "beam %q cover must be a finite positive number or 0", g.Name)
	}
	if len(g.Spans) == 0 {
		return errors.New(errors.ErrCodeInvalidBeam, "beam %q has no spans", g.Name)
	}
	for i, s := range g.Spans {
		if !positive(s.Length) {
			return errors.New(errors.ErrCodeInvalidSpan, "beam %q span %d needs a finite positive length", g.Name, i)
		}
	}
	return nil
}

// positive reports whether v is a finite number above zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// SpanResult carries the analysis output of one span: required longitudinal
// areas (cm²) and transverse area per metre (cm²/m) at left support,
// mid-span and right support.
type SpanResult struct {
	SpanIndex int        `json:"span_index"`
	Length    float64    `json:"length"`
	TopArea   [3]float64 `json:"top_area"`
	BotArea   [3]float64 `json:"bot_area"`
	ShearArea [3]float64 `json:"shear_area"`
}

// Area returns the required area at a face and position.
func (r SpanResult) Area(f Face, p Position) float64 {
	if f == Top {
		return r.TopArea[p]
	}
	return r.BotArea[p]
}

// Validate checks the areas of one span result.
func (r SpanResult) Validate() error {
	if err := errors.ValidateAreas("top_area", r.TopArea); err != nil {
		return err
	}
	if err := errors.ValidateAreas("bot_area", r.BotArea); err != nil {
		return err
	}
	return errors.ValidateAreas("shear_area", r.ShearArea)
}

// ValidateSpans checks that spans line up with the group's spans.
func ValidateSpans(g *BeamGroup, spans []SpanResult) error {
	if len(spans) != len(g.Spans) {
		return errors.New(errors.ErrCodeInvalidSpan, "beam %q has %d spans but %d span results", g.Name, len(g.Spans), len(spans))
	}
	for i, r := range spans {
		if r.SpanIndex != i {
			return errors.New(errors.ErrCodeInvalidSpan, "beam %q span result %d has index %d", g.Name, i, r.SpanIndex)
		}
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSpan, err, "beam %q span %d", g.Name, i)
		}
	}
	return nil
}
