// Package filling distributes the bars a section needs over layers.
//
// A strategy receives a [Context] describing one section face (required
// area, backbone, layer capacity, stirrup legs) and returns a [Result] with
// the bar count of every layer, bottom-most layer first. Every valid result
// obeys the pyramid rule: no layer holds more bars than the one beneath it,
// and the first layer always holds at least the backbone.
//
// Strategies are pure. Failures are reported through [Result.Reason], never
// as errors, so callers treat an invalid result as a dead candidate.
package filling

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/rebarplan/pkg/config"
	"github.com/matzehuels/rebarplan/pkg/model"
)

// Context is the input of a filling strategy. It is a comparable value so it
// can key the memo directly.
type Context struct {
	RequiredArea     float64 `json:"required_area"` // cm², safety factor already applied
	BackboneDiameter int     `json:"backbone_diameter"`
	BackboneCount    int     `json:"backbone_count"`
	BarDiameter      int     `json:"bar_diameter,omitempty"` // add-on diameter; 0 means backbone diameter
	Capacity         int     `json:"capacity"`
	LegCount         int     `json:"leg_count"`
	MaxLayers        int     `json:"max_layers"`
	MinBarsPerLayer  int     `json:"min_bars_per_layer"`
	PreferSymmetric  bool    `json:"prefer_symmetric"`
}

// Result is the outcome of one strategy invocation.
type Result struct {
	Valid       bool   `json:"valid"`
	LayerCounts []int  `json:"layer_counts,omitempty"`
	WasteBars   int    `json:"waste_bars,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Total returns the number of bars over all layers.
func (r Result) Total() int {
	return model.SumLayers(r.LayerCounts)
}

// Clone returns a copy that shares no slice with r.
func (r Result) Clone() Result {
	r.LayerCounts = slices.Clone(r.LayerCounts)
	return r
}

// Strategy distributes bars over layers.
type Strategy interface {
	// Name identifies the strategy in registries, labels and logs.
	Name() string

	// Calculate returns the layer distribution for fc. It must be
	// deterministic and free of side effects.
	Calculate(fc Context) Result
}

// AddOnDiameter returns the diameter of the bars placed beyond the backbone.
func (fc Context) AddOnDiameter() int {
	if fc.BarDiameter > 0 {
		return fc.BarDiameter
	}
	return fc.BackboneDiameter
}

// BackboneArea returns the area provided by the backbone bars alone.
func (fc Context) BackboneArea() float64 {
	return model.BarsArea(fc.BackboneDiameter, fc.BackboneCount)
}

// TotalNeeded returns the bar count that covers the required area: the
// backbone plus enough add-on bars for the remainder. It saturates at
// math.MaxInt.
func (fc Context) TotalNeeded() int {
	extra := max(0, fc.RequiredArea-fc.BackboneArea())
	addOn := model.BarsNeeded(extra, fc.AddOnDiameter())
	if addOn > math.MaxInt-fc.BackboneCount {
		return math.MaxInt
	}
	return fc.BackboneCount + addOn
}

// MaxArea returns the most steel (cm²) the section can hold: a full backbone
// layer plus add-on bars filling every allowed layer to capacity.
func (fc Context) MaxArea() float64 {
	slots := float64(fc.MaxLayers)*float64(fc.Capacity) - float64(fc.BackboneCount)
	return fc.BackboneArea() + max(0, slots)*model.BarArea(fc.AddOnDiameter())
}

// BackboneCovers reports whether the backbone alone provides the required
// area within model.AreaTolerance.
func (fc Context) BackboneCovers() bool {
	return fc.BackboneArea() >= fc.RequiredArea-model.AreaTolerance
}

func (fc Context) check() string {
	switch {
	case math.IsNaN(fc.RequiredArea) || math.IsInf(fc.RequiredArea, 0):
		return fmt.Sprintf("required area must be a finite number, got %g", fc.RequiredArea)
	case fc.BackboneDiameter <= 0:
		return "backbone diameter must be positive"
	case fc.BarDiameter < 0:
		return "add-on bar diameter must not be negative"
	case fc.BackboneCount < 1:
		return "backbone needs at least one bar"
	case fc.Capacity < 1:
		return "section is too narrow for a single bar"
	case fc.Capacity > config.MaxBarsPerLayer:
		return fmt.Sprintf("layer capacity %d exceeds the limit of %d bars", fc.Capacity, config.MaxBarsPerLayer)
	case fc.MaxLayers < 1:
		return "at least one layer must be allowed"
	case fc.MaxLayers > config.MaxLayersLimit:
		return fmt.Sprintf("%d layers exceed the limit of %d", fc.MaxLayers, config.MaxLayersLimit)
	case fc.BackboneCount > fc.Capacity:
		return fmt.Sprintf("backbone of %d bars exceeds layer capacity %d", fc.BackboneCount, fc.Capacity)
	case fc.RequiredArea < 0:
		return "required area must not be negative"
	}
	return ""
}

// Fail builds an invalid result.
func Fail(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// distributor is the strategy-specific part of a calculation. It returns the
// raw layer counts for total bars, or a failure reason.
type distributor func(fc Context, total int) ([]int, string)

// run is the frame shared by all strategies: input checks, the backbone
// shortcut, the distribution itself and the adjustment pass.
func run(fc Context, distribute distributor) Result {
	if reason := fc.check(); reason != "" {
		return Fail("%s", reason)
	}
	if fc.BackboneCovers() {
		return Result{Valid: true, LayerCounts: []int{fc.BackboneCount}}
	}
	if limit := fc.MaxArea(); fc.RequiredArea > limit+model.AreaTolerance {
		return Fail("required area %.2f cm² exceeds the %.2f cm² that %d layers of %d bars hold",
			fc.RequiredArea, limit, fc.MaxLayers, fc.Capacity)
	}
	layers, reason := distribute(fc, fc.TotalNeeded())
	if reason != "" {
		return Fail("%s", reason)
	}
	return Adjust(fc, layers)
}

// Adjust applies the structural adjustments every strategy shares and
// returns the final result. The input slice is not modified.
//
// In order: the sequence must already be a pyramid and fit the first layer;
// a layer one bar short of the stirrup legs is raised to the leg count; odd
// layers are rounded up when symmetry is preferred; upper layers below the
// per-layer minimum are raised to it. The pyramid is verified again at the
// end and a bump that broke it fails the candidate.
func Adjust(fc Context, raw []int) Result {
	layers := slices.Clone(raw)
	if len(layers) == 0 {
		return Fail("no layers to adjust")
	}
	if !model.IsPyramid(layers) {
		return Fail("layers %v violate the pyramid rule", layers)
	}
	if layers[0] > fc.Capacity {
		return Fail("first layer holds %d bars, capacity is %d", layers[0], fc.Capacity)
	}
	if layers[0] < fc.BackboneCount {
		return Fail("first layer holds %d bars, backbone needs %d", layers[0], fc.BackboneCount)
	}

	// Stirrup legs need a bar at every corner they pass.
	if fc.LegCount > 2 {
		for i, n := range layers {
			if n == fc.LegCount-1 && fc.LegCount <= ceiling(fc, layers, i) {
				layers[i] = fc.LegCount
			}
		}
	}

	if fc.PreferSymmetric {
		for i, n := range layers {
			if n%2 == 1 && n+1 <= ceiling(fc, layers, i) {
				layers[i] = n + 1
			}
		}
	}

	waste := 0
	if fc.MinBarsPerLayer > 0 {
		for i := 1; i < len(layers); i++ {
			n := layers[i]
			if n == 0 || n >= fc.MinBarsPerLayer {
				continue
			}
			if fc.MinBarsPerLayer > ceiling(fc, layers, i) {
				return Fail("layer %d holds %d bars, minimum %d does not fit above %d",
					i+1, n, fc.MinBarsPerLayer, layers[i-1])
			}
			waste += fc.MinBarsPerLayer - n
			layers[i] = fc.MinBarsPerLayer
		}
	}

	layers = trimEmpty(layers)
	if !model.IsPyramid(layers) {
		return Fail("adjusted layers %v violate the pyramid rule", layers)
	}
	if len(layers) > fc.MaxLayers {
		return Fail("%d layers needed, %d allowed", len(layers), fc.MaxLayers)
	}
	return Result{Valid: true, LayerCounts: layers, WasteBars: waste}
}

// ceiling is the largest count layer i may hold: the capacity for the first
// layer, the predecessor's count (within capacity) above it.
func ceiling(fc Context, layers []int, i int) int {
	if i == 0 {
		return fc.Capacity
	}
	return min(fc.Capacity, layers[i-1])
}

func trimEmpty(layers []int) []int {
	for len(layers) > 1 && layers[len(layers)-1] == 0 {
		layers = layers[:len(layers)-1]
	}
	return layers
}
