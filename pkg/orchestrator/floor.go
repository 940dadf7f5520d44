package orchestrator

import (
	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/model"
)

// FromFloor converts a floor file into beams in file order and the initial
// floor constraints. Every beam is validated before anything is solved.
func FromFloor(f config.Floor, s config.Settings) ([]Beam, model.ProjectConstraints, error) {
	pc := model.NewProjectConstraints(s.Scoring.DiameterMatchBonus)
	pc.PreferredMainDiameter = f.Constraints.PreferredMainDiameter
	pc.PreferredStirrupDiameter = f.Constraints.PreferredStirrupDiameter
	pc.AllowedDiameters = append(pc.AllowedDiameters, f.Constraints.AllowedDiameters...)
	for _, d := range pc.AllowedDiameters {
		if err := errors.ValidateDiameter(d); err != nil {
			return nil, model.ProjectConstraints{}, err
		}
	}

	beams := make([]Beam, 0, len(f.Beams))
	for _, spec := range f.Beams {
		b, err := BeamFromSpec(spec)
		if err != nil {
			return nil, model.ProjectConstraints{}, err
		}
		beams = append(beams, b)
	}
	if err := checkNames(beams); err != nil {
		return nil, model.ProjectConstraints{}, err
	}
	return beams, pc, nil
}

// BeamFromSpec converts and validates one beam of a floor file.
func BeamFromSpec(spec config.BeamSpec) (Beam, error) {
	g := &model.BeamGroup{
		Name:   spec.Name,
		Width:  spec.Width,
		Height: spec.Height,
		Cover:  spec.Cover,
	}
	spans := make([]model.SpanResult, len(spec.Spans))
	for i, sp := range spec.Spans {
		g.Spans = append(g.Spans, model.Span{Length: sp.Length})
		r := model.SpanResult{SpanIndex: i, Length: sp.Length}
		var err error
		if r.TopArea, err = triple(spec.Name, i, "top_area", sp.TopArea, true); err != nil {
			return Beam{}, err
		}
		if r.BotArea, err = triple(spec.Name, i, "bot_area", sp.BotArea, true); err != nil {
			return Beam{}, err
		}
		if r.ShearArea, err = triple(spec.Name, i, "shear_area", sp.ShearArea, false); err != nil {
			return Beam{}, err
		}
		spans[i] = r
	}

	if spec.Lock != nil {
		if err := errors.ValidateDiameter(spec.Lock.Diameter); err != nil {
			return Beam{}, errors.Wrap(errors.ErrCodeInvalidBeam, err, "beam %q lock", spec.Name)
		}
		if spec.Lock.TopCount < 0 || spec.Lock.BotCount < 0 || spec.Lock.StirrupLegs < 0 {
			return Beam{}, errors.New(errors.ErrCodeInvalidBeam, "beam %q lock has negative counts", spec.Name)
		}
		g.SelectedDesign = &model.Solution{
			BackboneDiameter: spec.Lock.Diameter,
			BackboneCountTop: spec.Lock.TopCount,
			BackboneCountBot: spec.Lock.BotCount,
			StirrupLegs:      spec.Lock.StirrupLegs,
		}
		g.IsLocked = spec.Locked
	}

	if err := g.Validate(); err != nil {
		return Beam{}, err
	}
	if err := model.ValidateSpans(g, spans); err != nil {
		return Beam{}, err
	}
	return Beam{Group: g, Spans: spans}, nil
}

// triple reads a left/mid/right value list. Optional lists may be empty.
func triple(beam string, span int, field string, v []float64, required bool) ([3]float64, error) {
	var out [3]float64
	if len(v) == 0 && !required {
		return out, nil
	}
	if len(v) != 3 {
		return out, errors.New(errors.ErrCodeInvalidSpan,
			"beam %q span %d: %s needs 3 values (left, mid, right), got %d", beam, span, field, len(v))
	}
	copy(out[:], v)
	return out, nil
}
