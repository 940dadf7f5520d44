package pipeline

import (
	"cmp"
	"slices"

	"github.com/matzehuels/rebarplan/pkg/model"
)

// rank keeps the best solution per option label and returns at most topN
// solutions ordered by descending score, then ascending weight.
func rank(sols []*model.Solution, topN int) []*model.Solution {
	best := make(map[string]*model.Solution, len(sols))
	for _, s := range sols {
		if cur, ok := best[s.OptionName]; !ok || better(s, cur) {
			best[s.OptionName] = s
		}
	}

	out := make([]*model.Solution, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	slices.SortFunc(out, compare)

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

func better(a, b *model.Solution) bool {
	return compare(a, b) < 0
}

// compare orders by score, then weight, then label and strategy so that the
// ranking never depends on map iteration.
func compare(a, b *model.Solution) int {
	if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
		return c
	}
	if c := cmp.Compare(a.TotalSteelWeight, b.TotalSteelWeight); c != 0 {
		return c
	}
	if c := cmp.Compare(a.OptionName, b.OptionName); c != 0 {
		return c
	}
	return cmp.Compare(a.Strategy, b.Strategy)
}
