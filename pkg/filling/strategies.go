package filling

import (
	"fmt"
	"math"
	"slices"
)

// Strategy names.
const (
	NameGreedy   = "greedy"
	NameBalanced = "balanced"
)

// =============================================================================
// Greedy
// =============================================================================

// Greedy fills the first layer to capacity and stacks the remainder upwards,
// each layer capped by the one beneath it.
type Greedy struct{}

// Name implements Strategy.
func (Greedy) Name() string { return NameGreedy }

// Calculate implements Strategy.
func (Greedy) Calculate(fc Context) Result {
	return run(fc, greedy)
}

func greedy(fc Context, total int) ([]int, string) {
	first := max(min(fc.Capacity, total), fc.BackboneCount)
	layers := []int{first}
	remaining := total - first
	prev := first
	for remaining > 0 && len(layers) < fc.MaxLayers {
		n := min(remaining, prev)
		layers = append(layers, n)
		remaining -= n
		prev = n
	}
	if remaining > 0 {
		return nil, fmt.Sprintf("%d of %d bars remain unplaced after %d layers", remaining, total, fc.MaxLayers)
	}
	return layers, ""
}

// =============================================================================
// Balanced
// =============================================================================

// Balanced uses the fewest layers that hold every bar and spreads the bars
// over them as evenly as possible.
type Balanced struct{}

// Name implements Strategy.
func (Balanced) Name() string { return NameBalanced }

// Calculate implements Strategy.
func (Balanced) Calculate(fc Context) Result {
	return run(fc, balanced)
}

func balanced(fc Context, total int) ([]int, string) {
	needed := DetermineLayersNeeded(total, fc.Capacity)
	if needed < 1 {
		return nil, "no bars to distribute"
	}
	if needed > fc.MaxLayers {
		return nil, fmt.Sprintf("%d bars need %d layers at capacity %d, %d allowed",
			total, needed, fc.Capacity, fc.MaxLayers)
	}

	// Even split, remainder to the lowest layers.
	layers := make([]int, needed)
	base, rem := total/needed, total%needed
	for i := range layers {
		layers[i] = base
		if i < rem {
			layers[i]++
		}
	}

	// The first layer carries the whole backbone; borrow from the top.
	if deficit := fc.BackboneCount - layers[0]; deficit > 0 {
		layers[0] = fc.BackboneCount
		for i := len(layers) - 1; i >= 1 && deficit > 0; i-- {
			take := min(deficit, layers[i])
			layers[i] -= take
			deficit -= take
		}
		layers = trimEmpty(layers)
	}

	slices.SortFunc(layers, func(a, b int) int { return b - a })

	if overflow := layers[0] - fc.Capacity; overflow > 0 {
		layers[0] = fc.Capacity
		for i := 1; overflow > 0 && i < fc.MaxLayers; i++ {
			if i == len(layers) {
				layers = append(layers, 0)
			}
			take := min(overflow, ceiling(fc, layers, i)-layers[i])
			if take > 0 {
				layers[i] += take
				overflow -= take
			}
		}
		if overflow > 0 {
			return nil, fmt.Sprintf("%d bars do not fit in %d layers at capacity %d",
				total, fc.MaxLayers, fc.Capacity)
		}
	}
	return layers, ""
}

// DetermineLayersNeeded returns the fewest layers of the given capacity that
// hold total bars. It returns 0 for no bars and math.MaxInt for a capacity
// below one.
func DetermineLayersNeeded(total, capacity int) int {
	if total <= 0 {
		return 0
	}
	if capacity < 1 {
		return math.MaxInt
	}
	return 1 + (total-1)/capacity
}
